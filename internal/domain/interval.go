package domain

import "time"

// DateLayout is the wire format for date bounds exchanged with the
// presentation layer.
const DateLayout = "2006-01-02"

// DateInterval is an inclusive [Start, End] date range with Start <= End.
type DateInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateInterval builds an interval, swapping the bounds when they arrive
// in descending order. Selections may be dragged in either direction, so an
// inverted pair is corrected rather than rejected.
func NewDateInterval(start, end time.Time) DateInterval {
	if start.After(end) {
		start, end = end, start
	}
	return DateInterval{Start: start, End: end}
}

// Contains reports whether d falls inside the interval, bounds included.
func (iv DateInterval) Contains(d time.Time) bool {
	return !d.Before(iv.Start) && !d.After(iv.End)
}

// Days returns the number of calendar days covered by the interval,
// bounds included. Dates are expected at UTC midnight.
func (iv DateInterval) Days() int {
	return int(iv.End.Sub(iv.Start).Hours()/24) + 1
}

// Label renders the interval for display, e.g. "2024-05-01 to 2024-05-10".
func (iv DateInterval) Label() string {
	return iv.Start.Format(DateLayout) + " to " + iv.End.Format(DateLayout)
}

// BrushBox is one rectangular x-range drawn on the trend chart. The bounds
// are kept as opaque strings because their shape belongs to the presentation
// layer; the resolver parses them as dates.
type BrushBox struct {
	X [2]string `json:"x"`
}

// BrushSelection is the optional brush payload forwarded by the presentation
// layer. A selection may in principle carry several boxes; only the first is
// honored.
type BrushSelection struct {
	Boxes []BrushBox `json:"boxes"`
}

// ResolveInterval maps an optional brush selection onto a canonical date
// interval. An absent, empty, or unparsable selection yields the fallback
// unchanged; an inverted selection is swapped into ascending order.
func ResolveInterval(sel *BrushSelection, fallback DateInterval) DateInterval {
	if sel == nil || len(sel.Boxes) == 0 {
		return fallback
	}

	box := sel.Boxes[0]
	start, err := ParseDate(box.X[0])
	if err != nil {
		return fallback
	}
	end, err := ParseDate(box.X[1])
	if err != nil {
		return fallback
	}

	return NewDateInterval(start, end)
}

// ParseDate parses a wire-format date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
