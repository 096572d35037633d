package points

import "fmt"

// WarpPoint maps a source (sample) position X to a target (block) position Y.
type WarpPoint struct {
	X int64
	Y int64
}

// WarpPoints is a piecewise-linear source/target remapping.
// A nil or empty set is the identity mapping.
type WarpPoints struct {
	Points []WarpPoint
}

// Len returns the number of warp markers, treating nil as empty.
func (w *WarpPoints) Len() int {
	if w == nil {
		return 0
	}
	return len(w.Points)
}

// Validate checks that both axes are strictly increasing.
func (w *WarpPoints) Validate() error {
	if w == nil {
		return nil
	}
	for i := 1; i < len(w.Points); i++ {
		prev, cur := w.Points[i-1], w.Points[i]
		if cur.X <= prev.X || cur.Y <= prev.Y {
			return fmt.Errorf("warp point %d at (%d, %d): %w", i, cur.X, cur.Y, ErrUnsorted)
		}
	}
	return nil
}
