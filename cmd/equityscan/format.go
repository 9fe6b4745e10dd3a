package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mbraddock/equityscan/internal/models"
)

// exportRecord is the JSON shape written to stdout or -output. Dates are
// rendered as YYYY-MM-DD strings and absent metrics as JSON nulls.
type exportRecord struct {
	Ticker            string              `json:"ticker"`
	Date              string              `json:"date"`
	Close             float64             `json:"close"`
	SMA50             *float64            `json:"sma_50"`
	SMA200            *float64            `json:"sma_200"`
	High52W           *float64            `json:"high_52w"`
	PctFromHigh       *float64            `json:"pct_from_high"`
	BookValuePerShare *float64            `json:"book_value_per_share"`
	PriceToBook       *float64            `json:"price_to_book"`
	GoldenCrossDates  []string            `json:"golden_cross_dates"`
	DeathCrossDates   []string            `json:"death_cross_dates"`
	Fundamentals      *exportFundamentals `json:"fundamentals"`
	Warnings          []string            `json:"warnings,omitempty"`
}

type exportFundamentals struct {
	AsOf              string             `json:"as_of,omitempty"`
	BookValuePerShare *float64           `json:"book_value_per_share"`
	TotalEquity       *float64           `json:"total_equity"`
	PreferredEquity   *float64           `json:"preferred_equity"`
	SharesOutstanding *float64           `json:"shares_outstanding"`
	RawFields         map[string]float64 `json:"raw_fields,omitempty"`
}

func buildExport(r *models.ResultRecord) *exportRecord {
	out := &exportRecord{
		Ticker:            r.Ticker,
		Date:              r.Date.Format("2006-01-02"),
		Close:             r.Close,
		SMA50:             r.SMA50,
		SMA200:            r.SMA200,
		High52W:           r.High52W,
		PctFromHigh:       r.PctFromHigh,
		BookValuePerShare: r.BookValuePerShare,
		PriceToBook:       r.PriceToBook,
		GoldenCrossDates:  formatDates(r.GoldenCrossDates),
		DeathCrossDates:   formatDates(r.DeathCrossDates),
		Warnings:          r.Warnings,
	}

	if r.Fundamentals != nil {
		f := &exportFundamentals{
			BookValuePerShare: r.Fundamentals.BookValuePerShare,
			TotalEquity:       r.Fundamentals.TotalEquity,
			PreferredEquity:   r.Fundamentals.PreferredEquity,
			SharesOutstanding: r.Fundamentals.SharesOutstanding,
			RawFields:         r.Fundamentals.RawFields,
		}
		if !r.Fundamentals.AsOf.IsZero() {
			f.AsOf = r.Fundamentals.AsOf.Format("2006-01-02")
		}
		out.Fundamentals = f
	}

	return out
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

// writeExport renders records in the requested format ("json" or "csv") to
// the given path, or stdout when path is empty.
func writeExport(path, format string, records []*exportRecord) error {
	var data []byte
	var err error

	switch format {
	case "json":
		data, err = marshalJSON(records)
	case "csv":
		data, err = marshalCSV(records)
	default:
		err = fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return err
	}

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// marshalJSON keeps the original shape: a single object for one record, an
// array otherwise.
func marshalJSON(records []*exportRecord) ([]byte, error) {
	var v any = records
	if len(records) == 1 {
		v = records[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

var csvHeader = []string{
	"ticker", "date", "close", "sma_50", "sma_200", "high_52w", "pct_from_high",
	"book_value_per_share", "price_to_book", "golden_cross_dates", "death_cross_dates",
}

// marshalCSV flattens records one row each. Absent metrics render as empty
// cells; cross date lists are semicolon-joined.
func marshalCSV(records []*exportRecord) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.Ticker,
			r.Date,
			strconv.FormatFloat(r.Close, 'f', -1, 64),
			csvFloat(r.SMA50),
			csvFloat(r.SMA200),
			csvFloat(r.High52W),
			csvFloat(r.PctFromHigh),
			csvFloat(r.BookValuePerShare),
			csvFloat(r.PriceToBook),
			strings.Join(r.GoldenCrossDates, ";"),
			strings.Join(r.DeathCrossDates, ";"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
