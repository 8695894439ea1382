package printing

import "math"

// Per-copy base rates and surcharges, in rupees.
const (
	rateA4         = 2.0
	rateA5         = 1.5
	colorMultiple  = 5.0
	doubleMultiple = 1.8
	bindingCharge  = 20.0
)

// ComputePrice returns the charge for a print job, rounded half-up to two
// decimals. It is pure and total for copies >= 1, and is recomputed on every
// call; callers must never cache a price across an options change.
func ComputePrice(opts Options) float64 {
	base := rateA5
	if opts.PaperSize == PaperA4 {
		base = rateA4
	}
	if opts.ColorType == FullColor {
		base *= colorMultiple
	}
	if opts.Sides == DoubleSided {
		base *= doubleMultiple
	}
	total := base * float64(opts.Copies)
	if opts.Binding {
		total += bindingCharge
	}
	return math.Round(total*100) / 100
}
