package engine

// PieceBlocks returns the four absolute cells the given piece fills at the
// given placement. It is a pure query: renderers use it to draw ghost and
// preview pieces without touching an Engine.
//
// theta is relative to the piece's spawn orientation; the rotation system's
// entry theta is folded in here so alternate systems can redefine spawn
// orientation without private shape tables.
func PieceBlocks(id RotationSystemID, piece Piece, x, y, theta int) [BlocksPerPiece]Coord {
	rs := rotationSystemFor(id)
	calcTheta := (theta + int(rs.entryTheta[piece])) & 3

	var blocks [BlocksPerPiece]Coord
	for i, off := range pieceOffsets[piece][calcTheta] {
		blocks[i] = Coord{X: off.X + x, Y: off.Y + y}
	}
	return blocks
}

// cellOccupied reports whether the cell blocks a piece. Coordinates outside
// the active field count as occupied, which folds boundary collision into
// the same test.
func (e *Engine) cellOccupied(x, y int) bool {
	if x < 0 || x >= e.cfg.FieldWidth || y < 0 || y >= e.cfg.FieldHeight {
		return true
	}
	return e.Board[y][x] > 1
}

// collides reports whether the active piece overlaps the field at the
// candidate placement.
func (e *Engine) collides(x, y, theta int) bool {
	for _, b := range PieceBlocks(e.cfg.RotationSystem, e.Piece, x, y, theta) {
		if e.cellOccupied(b.X, b.Y) {
			return true
		}
	}
	return false
}

// kickSequenceFor selects the kick table for a rotation direction.
// An unrecognized direction is a caller bug.
func (e *Engine) kickSequenceFor(rs *rotationSystem, direction int) kickSequence {
	var tableNo int8
	switch direction {
	case RotClockwise:
		tableNo = rs.kicksR[e.Piece]
	case RotAnticlockwise:
		tableNo = rs.kicksL[e.Piece]
	case RotHalfTurn:
		tableNo = rs.kicksH[e.Piece]
	default:
		panic("engine: invalid rotation direction")
	}

	if tableNo < 0 {
		return emptyKickTable[e.Theta]
	}
	return rs.tables[tableNo][e.Theta]
}

// rotate attempts the requested rotation, walking the kick sequence in order
// and accepting the first candidate that does not collide. On failure the
// piece is left byte-for-byte unchanged.
func (e *Engine) rotate(direction int) bool {
	newDir := (e.Theta + 4 + direction) & 3
	rs := rotationSystemFor(e.cfg.RotationSystem)
	seq := e.kickSequenceFor(rs, direction)

	for _, test := range seq {
		if test.cond == condArikaLJT && e.arikaLJTBlocked(direction) {
			break
		}

		kickX := int(test.dx) + e.X
		kickY := int(test.dy) + e.Y

		if e.collides(kickX, kickY, newDir) {
			continue
		}

		// A kick above the first test's row is a floorkick. The delta
		// against test zero, not the raw dy, keeps this reading correct
		// for systems with offset base tests.
		adjKickY := test.dy - seq[0].dy
		if e.cfg.FloorkickLimit > 0 && adjKickY < 0 {
			if e.floorkickCount >= e.cfg.FloorkickLimit {
				// Out of floorkicks: saturate the lock timer so the
				// piece locks next tick, leaving one final input.
				e.lockTimer = e.cfg.ticks(e.cfg.LockDelay)
			}
			e.floorkickCount++
		}

		// Keep the fractional drop so a rotation cannot implicitly win
		// back lock time.
		e.ActualY = Fix(kickY) + e.ActualY.frac()
		e.Y = kickY
		e.X = kickX
		e.Theta = newDir
		return true
	}

	return false
}

// arikaLJTBlocked implements the TGM1/2 special case: J, L and T rotations
// are refused outright for certain occupied-cell arrangements around the
// piece, depending on direction.
func (e *Engine) arikaLJTBlocked(direction int) bool {
	switch e.Piece {
	case PieceJ:
		if e.Theta == 0 && (e.cellOccupied(e.X+1, e.Y) ||
			(e.cellOccupied(e.X+1, e.Y+2) &&
				(direction == RotClockwise || !e.cellOccupied(e.X+2, e.Y)))) {
			return true
		}
		if e.Theta == 2 && (e.cellOccupied(e.X+1, e.Y) ||
			(e.cellOccupied(e.X+1, e.Y+1) &&
				(direction == RotAnticlockwise || !e.cellOccupied(e.X+2, e.Y)))) {
			return true
		}

	case PieceL:
		if e.Theta == 0 && (e.cellOccupied(e.X+1, e.Y) ||
			(e.cellOccupied(e.X+1, e.Y+2) &&
				(direction == RotAnticlockwise || !e.cellOccupied(e.X, e.Y)))) {
			return true
		}
		if e.Theta == 2 && (e.cellOccupied(e.X+1, e.Y-1) ||
			(e.cellOccupied(e.X+1, e.Y) &&
				(direction == RotClockwise || !e.cellOccupied(e.X, e.Y-1)))) {
			return true
		}

	case PieceT:
		if e.Theta == 0 && e.cellOccupied(e.X+1, e.Y) {
			return true
		}
		if e.Theta == 2 && e.cellOccupied(e.X+1, e.Y-1) {
			return true
		}
	}

	return false
}
