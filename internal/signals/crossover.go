package signals

import (
	"time"

	"github.com/mbraddock/equityscan/internal/models"
)

// Crossovers scans a cleaned ascending bar series for SMA crossovers between
// consecutive trading days and returns golden and death cross dates, each in
// ascending order.
//
// A golden cross at day D requires smaShort[D-1] <= smaLong[D-1] and
// smaShort[D] > smaLong[D]; a death cross is the mirror with >= and <. A flat
// touch that holds on both days emits nothing; a touch that resolves into a
// strict cross emits on the later day. Output is deterministic for identical
// input.
func Crossovers(bars []models.PriceBar, shortWindow, longWindow int) (golden, death []models.CrossoverEvent) {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.CloseValue()
	}

	smaShort := SMASeries(closes, shortWindow)
	smaLong := SMASeries(closes, longWindow)

	for i := 1; i < len(bars); i++ {
		if smaShort[i-1] == nil || smaLong[i-1] == nil || smaShort[i] == nil || smaLong[i] == nil {
			continue
		}

		prevShort, prevLong := *smaShort[i-1], *smaLong[i-1]
		curShort, curLong := *smaShort[i], *smaLong[i]

		if prevShort <= prevLong && curShort > curLong {
			golden = append(golden, models.CrossoverEvent{Kind: models.CrossGolden, Date: bars[i].Date})
		} else if prevShort >= prevLong && curShort < curLong {
			death = append(death, models.CrossoverEvent{Kind: models.CrossDeath, Date: bars[i].Date})
		}
	}

	return golden, death
}

// CrossoverDates runs Crossovers and returns just the event dates.
func CrossoverDates(bars []models.PriceBar, shortWindow, longWindow int) (golden, death []time.Time) {
	goldenEvents, deathEvents := Crossovers(bars, shortWindow, longWindow)

	golden = make([]time.Time, len(goldenEvents))
	for i, e := range goldenEvents {
		golden[i] = e.Date
	}
	death = make([]time.Time, len(deathEvents))
	for i, e := range deathEvents {
		death[i] = e.Date
	}
	return golden, death
}
