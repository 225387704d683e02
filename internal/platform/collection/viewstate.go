package collection

// ViewState is the presentation state a host carries between renders.
type ViewState struct {
	Filter   string
	Expanded bool
	Width    int
}

// Apply replays s onto c in the order the operations compose: width first, then
// the filter (which collapses), then the expand toggle.
func Apply[T any](c *Controller[T], s ViewState) {
	c.SetViewportWidth(s.Width)
	c.SetFilter(s.Filter)
	if s.Expanded {
		c.ToggleExpanded()
	}
}
