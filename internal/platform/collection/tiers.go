package collection

// Tiers maps a viewport width onto a collapsed page size with three steps.
// Widths at or above WideMin get Wide, at or above MediumMin get Medium, and
// everything narrower gets Narrow. A width of zero or less means the viewport is
// unknown and is treated as wide.
type Tiers struct {
	MediumMin int
	WideMin   int
	Narrow    int
	Medium    int
	Wide      int
}

// DefaultTiers are the browser breakpoints used by the site.
var DefaultTiers = Tiers{MediumMin: 768, WideMin: 1024, Narrow: 2, Medium: 3, Wide: 4}

// FixedTiers returns tiers that ignore the viewport.
func FixedTiers(n int) Tiers {
	return Tiers{Narrow: n, Medium: n, Wide: n}
}

// PageSize returns the page size for width.
func (t Tiers) PageSize(width int) int {
	switch {
	case width <= 0 || width >= t.WideMin:
		return t.Wide
	case width >= t.MediumMin:
		return t.Medium
	default:
		return t.Narrow
	}
}
