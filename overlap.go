package barrage

import "math"

// Resolve reduces same-row collisions in items by reassigning rows in place
// and returns the number of reassignments.
//
// For every ordered pair (d, x) with d != x, x is moved to a row drawn from
// pick when the two tops are closer than 0.1*fontSize and either horizontal
// edge of x lies within [d.Left, d.Left+d.Width]. The pass runs once:
// a reassignment may create a new collision with an item that was already
// checked, and that collision is left in place.
func Resolve(items []Item, fontSize float64, pick RowPicker) int {
	tolerance := 0.1 * fontSize
	moved := 0
	for i := range items {
		for j := range items {
			if i == j {
				continue
			}
			d, x := &items[i], &items[j]
			if math.Abs(x.Top-d.Top) >= tolerance {
				continue
			}
			if spanContains(d, x.Left) || spanContains(d, x.Left+x.Width) {
				x.Top = pick()
				moved++
			}
		}
	}
	return moved
}

func spanContains(d *Item, v float64) bool {
	return v >= d.Left && v <= d.Left+d.Width
}
