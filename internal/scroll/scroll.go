// Package scroll decides when the "back to top" affordance is shown.
package scroll

// DefaultOffset is the page offset past which the button appears.
const DefaultOffset = 400

// Button is a back-to-top control that appears once the view has scrolled
// strictly past Offset.
type Button struct {
	Offset int
}

// Visible reports whether the button should be shown at position y.
func (b Button) Visible(y int) bool {
	return y > b.Offset
}
