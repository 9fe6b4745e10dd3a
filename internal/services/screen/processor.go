package screen

import (
	"fmt"
	"sort"
	"time"

	"github.com/mbraddock/equityscan/internal/common"
	"github.com/mbraddock/equityscan/internal/models"
	"github.com/mbraddock/equityscan/internal/signals"
)

// Clean prepares a raw bar series for metric computation: sort ascending by
// date, drop duplicate dates keeping the latest-seen value, drop leading bars
// with no close (no synthetic history), and forward-fill internal nil closes
// from the last available close. Open/High/Low/Volume are left as-is; they
// play no role in the computed metrics and are never filled.
//
// Returns *models.InsufficientDataError when fewer than models.MinCleanBars
// bars remain.
func Clean(ticker string, bars []models.PriceBar) ([]models.PriceBar, error) {
	sorted := make([]models.PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	// Duplicate dates: later-seen input wins. The stable sort keeps input
	// order within a date, so the last bar per date is the latest-seen.
	deduped := sorted[:0]
	for _, bar := range sorted {
		if n := len(deduped); n > 0 && sameDay(deduped[n-1].Date, bar.Date) {
			deduped[n-1] = bar
			continue
		}
		deduped = append(deduped, bar)
	}

	// Leading bars without a close have nothing to fill from.
	start := 0
	for start < len(deduped) && deduped[start].Close == nil {
		start++
	}
	cleaned := deduped[start:]

	var lastClose *float64
	for i := range cleaned {
		if cleaned[i].Close != nil {
			lastClose = cleaned[i].Close
			continue
		}
		v := *lastClose
		cleaned[i].Close = &v
	}

	if len(cleaned) < models.MinCleanBars {
		return nil, &models.InsufficientDataError{Ticker: ticker, Bars: len(cleaned)}
	}

	return cleaned, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ComputeMetrics calculates technical and fundamental metrics for the
// evaluation date over a cleaned series. A zero evalDate means the latest bar;
// otherwise the latest bar on or before evalDate is used. Missing fundamental
// inputs produce nil ratio fields and a recorded warning, never an abort.
func ComputeMetrics(ticker string, series []models.PriceBar, fundamentals *models.Fundamentals, evalDate time.Time, cfg common.DataConfig) (*models.ComputedMetrics, []string, error) {
	if len(series) == 0 {
		return nil, nil, &models.InsufficientDataError{Ticker: ticker, Bars: 0}
	}

	idx := len(series) - 1
	if !evalDate.IsZero() {
		idx = -1
		for i := len(series) - 1; i >= 0; i-- {
			if !series[i].Date.After(evalDate) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, nil, fmt.Errorf("no bars for %s on or before %s", ticker, evalDate.Format("2006-01-02"))
		}
	}

	closes := make([]float64, idx+1)
	for i := 0; i <= idx; i++ {
		closes[i] = series[i].CloseValue()
	}
	closeVal := closes[idx]

	high := signals.HighAt(closes, idx, cfg.HighWindow)

	metrics := &models.ComputedMetrics{
		Ticker:      ticker,
		Date:        series[idx].Date,
		Close:       closeVal,
		SMA50:       signals.SMAAt(closes, idx, cfg.SMAShort),
		SMA200:      signals.SMAAt(closes, idx, cfg.SMALong),
		High52W:     high,
		PctFromHigh: signals.PctFromHigh(closeVal, high),
	}

	var warnings []string
	metrics.BookValuePerShare, warnings = bookValuePerShare(ticker, fundamentals)

	if metrics.BookValuePerShare != nil && *metrics.BookValuePerShare != 0 {
		v := closeVal / *metrics.BookValuePerShare
		metrics.PriceToBook = &v
	}

	return metrics, warnings, nil
}

// bookValuePerShare resolves book value per share from whichever inputs the
// fundamentals snapshot carries: a provider-supplied per-share figure wins,
// otherwise (total equity - preferred equity) / shares outstanding. A missing
// preferred equity counts as zero; missing required inputs yield nil and a
// warning.
func bookValuePerShare(ticker string, f *models.Fundamentals) (*float64, []string) {
	if f == nil {
		return nil, []string{fmt.Sprintf("no fundamentals available for %s; book value ratios skipped", ticker)}
	}

	if f.BookValuePerShare != nil {
		return f.BookValuePerShare, nil
	}

	if f.TotalEquity == nil || f.SharesOutstanding == nil {
		return nil, []string{fmt.Sprintf("fundamentals for %s missing book value inputs; book value ratios skipped", ticker)}
	}
	if *f.SharesOutstanding == 0 {
		return nil, []string{fmt.Sprintf("fundamentals for %s report zero shares outstanding; book value ratios skipped", ticker)}
	}

	preferred := 0.0
	if f.PreferredEquity != nil {
		preferred = *f.PreferredEquity
	}

	v := (*f.TotalEquity - preferred) / *f.SharesOutstanding
	return &v, nil
}
