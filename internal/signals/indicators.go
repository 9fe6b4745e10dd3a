// Package signals provides technical indicator calculations
package signals

// SMAAt calculates the simple moving average of the window closes ending at
// index i (inclusive) of an ascending series. Returns nil when fewer than
// window values exist up to i; the metric is never fabricated from a short
// window.
func SMAAt(closes []float64, i, window int) *float64 {
	if window <= 0 || i < 0 || i >= len(closes) || i+1 < window {
		return nil
	}

	sum := 0.0
	for j := i - window + 1; j <= i; j++ {
		sum += closes[j]
	}
	v := sum / float64(window)
	return &v
}

// SMASeries calculates the simple moving average at every index of an
// ascending close series. Entries before the window fills are nil.
func SMASeries(closes []float64, window int) []*float64 {
	out := make([]*float64, len(closes))
	if window <= 0 || len(closes) < window {
		return out
	}

	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i+1 >= window {
			v := sum / float64(window)
			out[i] = &v
		}
	}
	return out
}

// HighAt returns the maximum close over the trailing window ending at index i.
// Unlike the SMA functions this is a best-available maximum: with fewer bars
// than the window, all available bars are used. Returns nil only when the
// index is out of range.
func HighAt(closes []float64, i, window int) *float64 {
	if window <= 0 || i < 0 || i >= len(closes) {
		return nil
	}

	start := i - window + 1
	if start < 0 {
		start = 0
	}

	high := closes[start]
	for j := start + 1; j <= i; j++ {
		if closes[j] > high {
			high = closes[j]
		}
	}
	return &high
}

// PctFromHigh returns the signed percentage distance from close to high,
// negative when below the high. Returns nil when high is nil or zero.
func PctFromHigh(close float64, high *float64) *float64 {
	if high == nil || *high == 0 {
		return nil
	}
	v := (close - *high) / *high * 100
	return &v
}
