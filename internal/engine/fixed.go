package engine

// Fixed is a sub-cell vertical distance. One cell is fixedScale units, so an
// int32 comfortably covers any field plus gravity overshoot while keeping
// tick integration exact for replays.
type Fixed int32

const fixedScale = 1_000_000

// Fix converts whole cells to fixed units.
func Fix(cells int) Fixed {
	return Fixed(cells) * fixedScale
}

// floor rounds toward negative infinity. Wall kicks can push a piece above
// row 0, so plain truncation is not enough.
func (x Fixed) floor() int {
	if x >= 0 {
		return int(x / fixedScale)
	}
	return -int((-x + fixedScale - 1) / fixedScale)
}

// frac returns the sub-cell remainder, always in [0, fixedScale).
func (x Fixed) frac() Fixed {
	return x - Fix(x.floor())
}
