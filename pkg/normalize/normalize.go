package normalize

// Default normalization bounds. Callers pass these explicitly so the
// bounds stay visible at the call site.
const (
	DefaultMinReturn = -0.20
	DefaultMaxReturn = 0.20

	DefaultMinTrendRatio = 0.9
	DefaultMaxTrendRatio = 1.1

	DefaultLowVol  = 0.05
	DefaultHighVol = 0.40
)

func clip(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampLinear clamps value into [min, max] and rescales to [0, 1].
// A degenerate bound pair (min == max) returns the neutral 0.5.
func ClampLinear(value, min, max float64) float64 {
	if min == max {
		return 0.5
	}
	clamped := clip(value, min, max)
	return (clamped - min) / (max - min)
}

// Momentum maps a fractional return over the lookback window into [0, 1].
// With the default bounds, -20% -> 0, 0% -> 0.5, +20% -> 1.
func Momentum(returnPct, minReturn, maxReturn float64) float64 {
	return ClampLinear(returnPct, minReturn, maxReturn)
}

// Trend maps a price-to-moving-average ratio into [0, 1].
// With the default bounds, 0.9 -> 0, 1.0 -> 0.5, 1.1 -> 1.
func Trend(priceOverMA, minRatio, maxRatio float64) float64 {
	return ClampLinear(priceOverMA, minRatio, maxRatio)
}

// Volatility maps a return standard deviation into [0, 1].
// The raw scale reads as turbulence; with invert set, calm markets
// score near 1 and turbulent markets near 0.
func Volatility(stdevPct, lowVol, highVol float64, invert bool) float64 {
	raw := ClampLinear(stdevPct, lowVol, highVol)
	if invert {
		return 1.0 - raw
	}
	return raw
}

// Probability clamps a market probability into [0, 1]. Values above 1
// are treated as percentages and divided by 100 first, since upstream
// payloads occasionally arrive on the 0-100 scale.
func Probability(p float64) float64 {
	if p > 1.0 {
		p = p / 100.0
	}
	return clip(p, 0.0, 1.0)
}

// ToPercentage converts a [0, 1] score to [0, 100], clamping first.
func ToPercentage(score01 float64) float64 {
	return clip(score01, 0.0, 1.0) * 100.0
}
