package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraddock/equityscan/internal/models"
)

// generateBars builds an ascending daily series starting 2024-01-02.
func generateBars(closes []float64) []models.PriceBar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Date:  start.AddDate(0, 0, i),
			Close: models.Float(c),
		}
	}
	return bars
}

func TestCrossovers_Golden(t *testing.T) {
	// Short SMA (window 1) jumps above the long SMA (window 2) on the last day.
	bars := generateBars([]float64{10, 10, 10, 20})

	golden, death := Crossovers(bars, 1, 2)

	require.Len(t, golden, 1)
	assert.Equal(t, models.CrossGolden, golden[0].Kind)
	assert.Equal(t, bars[3].Date, golden[0].Date)
	assert.Empty(t, death)
}

func TestCrossovers_Death(t *testing.T) {
	bars := generateBars([]float64{10, 10, 10, 5})

	golden, death := Crossovers(bars, 1, 2)

	require.Len(t, death, 1)
	assert.Equal(t, models.CrossDeath, death[0].Kind)
	assert.Equal(t, bars[3].Date, death[0].Date)
	assert.Empty(t, golden)
}

func TestCrossovers_FlatTouchEmitsNothing(t *testing.T) {
	// The SMAs meet and stay equal; equality on both days is not a cross.
	bars := generateBars([]float64{20, 10, 10, 10})

	golden, death := Crossovers(bars, 1, 2)

	assert.Empty(t, golden)
	assert.Empty(t, death)
}

func TestCrossovers_TouchResolvingEmitsLaterDay(t *testing.T) {
	// The short SMA touches the long SMA, holds, then breaks above. The
	// event belongs to the day the strict inequality appears.
	bars := generateBars([]float64{20, 10, 10, 10, 20})

	golden, death := Crossovers(bars, 1, 2)

	require.Len(t, golden, 1)
	assert.Equal(t, bars[4].Date, golden[0].Date)
	assert.Empty(t, death)
}

func TestCrossovers_GoldenThenDeath(t *testing.T) {
	bars := generateBars([]float64{10, 10, 10, 20, 20, 5})

	golden, death := Crossovers(bars, 1, 2)

	require.Len(t, golden, 1)
	require.Len(t, death, 1)
	assert.True(t, golden[0].Date.Before(death[0].Date))
}

func TestCrossovers_SkipsUnfilledWindows(t *testing.T) {
	// Too few bars for the long window: no SMA pairs, no events.
	bars := generateBars([]float64{10, 20, 30})

	golden, death := Crossovers(bars, 50, 200)

	assert.Empty(t, golden)
	assert.Empty(t, death)
}

func TestCrossovers_MonotoneRisingSeries(t *testing.T) {
	// A strictly rising 252-bar series keeps the short SMA above the long
	// SMA from the first day both exist, so no cross is ever observed.
	closes := make([]float64, 252)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	bars := generateBars(closes)

	golden, death := Crossovers(bars, 50, 200)

	assert.Empty(t, golden)
	assert.Empty(t, death)
}

func TestCrossovers_Deterministic(t *testing.T) {
	bars := generateBars([]float64{10, 10, 10, 20, 20, 5, 5, 30, 30, 2})

	golden1, death1 := Crossovers(bars, 1, 2)
	golden2, death2 := Crossovers(bars, 1, 2)

	assert.Equal(t, golden1, golden2)
	assert.Equal(t, death1, death2)
}

func TestCrossoverDates_EmptyIsNonNil(t *testing.T) {
	bars := generateBars([]float64{10, 20, 30})

	golden, death := CrossoverDates(bars, 50, 200)

	assert.NotNil(t, golden, "empty cross lists must export as [] not null")
	assert.NotNil(t, death)
	assert.Empty(t, golden)
	assert.Empty(t, death)
}

func TestCrossoverDates_ReturnsEventDates(t *testing.T) {
	bars := generateBars([]float64{10, 10, 10, 20})

	golden, death := CrossoverDates(bars, 1, 2)

	require.Len(t, golden, 1)
	assert.Equal(t, bars[3].Date, golden[0])
	assert.Empty(t, death)
}
