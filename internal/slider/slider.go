// Package slider holds the index arithmetic behind the image and testimonial
// carousels: button navigation, touch swipes and timed auto-advance.
package slider

const (
	// MinSwipeDistance is the horizontal travel, in pixels, a touch must
	// exceed to count as a swipe.
	MinSwipeDistance = 50.0

	// AutoAdvanceBreakpoint is the viewport width below which slides advance
	// on their own.
	AutoAdvanceBreakpoint = 768
)

type State struct {
	Index int `json:"index"`
	Len   int `json:"len"`
}

// New returns the state for a carousel of n slides positioned at index,
// wrapped into range.
func New(index, n int) State {
	return State{Index: wrap(index, n), Len: n}
}

func (s State) Next() State {
	return New(s.Index+1, s.Len)
}

func (s State) Prev() State {
	return New(s.Index-1, s.Len)
}

// Swipe moves forward on a leftward swipe and back on a rightward one. Touches
// shorter than MinSwipeDistance leave the state unchanged.
func (s State) Swipe(startX, endX float64) State {
	d := startX - endX
	switch {
	case d > MinSwipeDistance:
		return s.Next()
	case d < -MinSwipeDistance:
		return s.Prev()
	}
	return s
}

func ShouldAutoAdvance(viewportWidth int) bool {
	return viewportWidth > 0 && viewportWidth < AutoAdvanceBreakpoint
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
