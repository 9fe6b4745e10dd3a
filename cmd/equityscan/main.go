package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mbraddock/equityscan/internal/app"
	"github.com/mbraddock/equityscan/internal/common"
	"github.com/mbraddock/equityscan/internal/interfaces"
	"github.com/mbraddock/equityscan/internal/models"
)

// Exit codes per failure kind so batch drivers can distinguish outcomes.
const (
	exitUsage        = 1
	exitProvider     = 2
	exitEmptyData    = 3
	exitInsufficient = 4
	exitInternal     = 5
)

func main() {
	var (
		ticker     = flag.String("ticker", "", "ticker symbol to screen (e.g. NVDA, BHP.AU)")
		tickers    = flag.String("tickers", "", "comma-separated ticker list for a batch run")
		output     = flag.String("output", "", "output file path for the export (default: stdout)")
		format     = flag.String("format", "json", "export format: json or csv")
		evalDate   = flag.String("eval", "", "evaluation date YYYY-MM-DD (default: latest available bar)")
		lookback   = flag.Int("lookback", 0, "lookback window in years (default: config value)")
		configPath = flag.String("config", "", "config file path (default: $EQUITYSCAN_CONFIG or config/equityscan.toml)")
		serve      = flag.Bool("serve", false, "run the scheduled refresh loop instead of a one-shot screen")
		version    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println(common.GetFullVersion())
		return
	}

	if *format != "json" && *format != "csv" {
		fmt.Fprintf(os.Stderr, "Invalid -format %q: expected json or csv\n", *format)
		os.Exit(exitUsage)
	}

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(exitInternal)
	}
	defer a.Close()

	if *serve {
		runServe(a)
		return
	}

	var opts []interfaces.ScreenOption
	if *lookback > 0 {
		opts = append(opts, interfaces.WithLookbackYears(*lookback))
	}
	if *evalDate != "" {
		d, err := time.Parse("2006-01-02", *evalDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -eval date %q: expected YYYY-MM-DD\n", *evalDate)
			os.Exit(exitUsage)
		}
		opts = append(opts, interfaces.WithEvalDate(d))
	}

	switch {
	case *ticker != "":
		runSingle(a, *ticker, *output, *format, opts)
	case *tickers != "":
		runBatch(a, splitTickers(*tickers), *output, *format, opts)
	default:
		fmt.Fprintln(os.Stderr, "Usage: equityscan -ticker SYMBOL [-output FILE] [-format json|csv] [-eval YYYY-MM-DD] [-lookback YEARS]")
		fmt.Fprintln(os.Stderr, "       equityscan -tickers A,B,C [-output FILE] [-format json|csv]")
		fmt.Fprintln(os.Stderr, "       equityscan -serve")
		os.Exit(exitUsage)
	}
}

func runSingle(a *app.App, ticker, output, format string, opts []interfaces.ScreenOption) {
	record, err := a.ScreenService.Screen(context.Background(), ticker, opts...)
	if err != nil {
		reportFailure(ticker, err)
	}

	if err := writeExport(output, format, []*exportRecord{buildExport(record)}); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(exitInternal)
	}

	for _, w := range record.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

func runBatch(a *app.App, tickers []string, output, format string, opts []interfaces.ScreenOption) {
	results := a.ScreenService.ScreenBatch(context.Background(), tickers, opts...)

	exports := make([]*exportRecord, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Ticker, r.Err)
			continue
		}
		exports = append(exports, buildExport(r.Record))
		for _, w := range r.Record.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}

	if err := writeExport(output, format, exports); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(exitInternal)
	}

	if failed == len(results) {
		os.Exit(exitInternal)
	}
}

func runServe(a *app.App) {
	if err := a.StartScheduler(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start scheduler: %v\n", err)
		os.Exit(exitInternal)
	}

	a.Logger.Info().Msg("Serve mode: waiting for scheduled refreshes")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	a.Logger.Info().Msg("Shutdown signal received")
}

// reportFailure prints a taxonomy-specific reason and exits non-zero.
func reportFailure(ticker string, err error) {
	var providerErr *models.ProviderError
	var emptyErr *models.EmptyDataError
	var insufficientErr *models.InsufficientDataError

	switch {
	case errors.As(err, &providerErr):
		fmt.Fprintf(os.Stderr, "%s: provider failure: %v\n", ticker, err)
		os.Exit(exitProvider)
	case errors.As(err, &emptyErr):
		fmt.Fprintf(os.Stderr, "%s: no data: %v\n", ticker, err)
		os.Exit(exitEmptyData)
	case errors.As(err, &insufficientErr):
		fmt.Fprintf(os.Stderr, "%s: insufficient data: %v\n", ticker, err)
		os.Exit(exitInsufficient)
	default:
		fmt.Fprintf(os.Stderr, "%s: %v\n", ticker, err)
		os.Exit(exitInternal)
	}
}

func splitTickers(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
