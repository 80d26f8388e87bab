package engine

// Piece shape data and the rotation-system registry.
//
// Block offsets follow SRS conventions for every system; the alternate
// systems express their differences purely through entry thetas and kick
// tables rather than private offset sets. All tables are read-only after
// package init and safe to share between any number of engines.

// pieceOffsets holds the four block offsets for each piece and rotation
// state, relative to the piece origin.
var pieceOffsets = [NumPieces][NumRotations][BlocksPerPiece]Coord{
	PieceI: {
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	PieceJ: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{0, 2}, {1, 0}, {1, 1}, {1, 2}},
	},
	PieceL: {
		{{0, 1}, {1, 1}, {2, 0}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {0, 2}, {1, 1}, {2, 1}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
	PieceO: {
		{{1, 0}, {1, 1}, {2, 0}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 0}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 0}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 0}, {2, 1}},
	},
	PieceS: {
		{{0, 1}, {1, 0}, {1, 1}, {2, 0}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {1, 2}, {2, 1}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	PieceT: {
		{{0, 1}, {1, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 1}},
		{{0, 1}, {1, 1}, {1, 2}, {2, 1}},
		{{0, 1}, {1, 0}, {1, 1}, {1, 2}},
	},
	PieceZ: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{1, 1}, {1, 2}, {2, 0}, {2, 1}},
		{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {0, 2}, {1, 0}, {1, 1}},
	},
}

// kickCond gates a single wall-kick test on field state.
type kickCond int8

const (
	condAlways kickCond = iota

	// condArikaLJT aborts the remaining tests when the TGM1/2 J/L/T
	// field-state rule forbids the rotation.
	condArikaLJT
)

// kickTest is one candidate offset in a wall-kick search.
type kickTest struct {
	dx, dy int8
	cond   kickCond
}

// kickSequence is tried in declared order; the first non-colliding test
// wins.
type kickSequence []kickTest

// kickTable holds one sequence per starting rotation state.
type kickTable [NumRotations]kickSequence

// rotationSystem maps piece types to their spawn orientation and kick
// tables. A table index of -1 selects the empty table (in-place test only).
type rotationSystem struct {
	entryTheta             [NumPieces]int8
	kicksR, kicksL, kicksH [NumPieces]int8
	tables                 []kickTable
}

var emptyKickTable = kickTable{
	{{0, 0, condAlways}},
	{{0, 0, condAlways}},
	{{0, 0, condAlways}},
	{{0, 0, condAlways}},
}

const noKick = -1

// RotationSystemID selects a rotation system from the registry.
type RotationSystemID int8

const (
	RotationSimple RotationSystemID = iota
	RotationSRS
	RotationArikaSRS
	RotationTGM12
	RotationDTET
)

var rotationSystemNames = [...]string{"simple", "srs", "arika-srs", "tgm12", "dtet"}

func (id RotationSystemID) String() string {
	if id < 0 || int(id) >= len(rotationSystemNames) {
		return "invalid"
	}
	return rotationSystemNames[id]
}

// rotSimple never kicks. Useful as a baseline and for tests.
var rotSimple = rotationSystem{
	kicksR: [NumPieces]int8{noKick, noKick, noKick, noKick, noKick, noKick, noKick},
	kicksL: [NumPieces]int8{noKick, noKick, noKick, noKick, noKick, noKick, noKick},
	kicksH: [NumPieces]int8{noKick, noKick, noKick, noKick, noKick, noKick, noKick},
}

// rotSRS is the standard guideline rotation system.
var rotSRS = rotationSystem{
	kicksR: [NumPieces]int8{1, 0, 0, noKick, 0, 0, 0},
	kicksL: [NumPieces]int8{3, 2, 2, noKick, 2, 2, 2},
	kicksH: [NumPieces]int8{noKick, noKick, noKick, noKick, noKick, noKick, noKick},
	tables: []kickTable{
		// 0: JLSTZ clockwise
		{
			{{0, 0, 0}, {-1, 0, 0}, {-1, 1, 0}, {0, -2, 0}, {-1, -2, 0}}, // 0 -> R
			{{0, 0, 0}, {1, 0, 0}, {1, -1, 0}, {0, 2, 0}, {1, 2, 0}},     // R -> 2
			{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, -2, 0}, {1, -2, 0}},    // 2 -> L
			{{0, 0, 0}, {-1, 0, 0}, {-1, -1, 0}, {0, 2, 0}, {-1, 2, 0}},  // L -> 0
		},
		// 1: I clockwise
		{
			{{0, 0, 0}, {-2, 0, 0}, {1, 0, 0}, {-2, -1, 0}, {1, 2, 0}},
			{{0, 0, 0}, {-1, 0, 0}, {2, 0, 0}, {-1, 2, 0}, {2, -1, 0}},
			{{0, 0, 0}, {2, 0, 0}, {-1, 0, 0}, {2, 1, 0}, {-1, -2, 0}},
			{{0, 0, 0}, {1, 0, 0}, {-2, 0, 0}, {1, -2, 0}, {-2, 1, 0}},
		},
		// 2: JLSTZ anticlockwise
		{
			{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, -2, 0}, {1, -2, 0}},    // 0 -> L
			{{0, 0, 0}, {1, 0, 0}, {1, -1, 0}, {0, 2, 0}, {1, 2, 0}},     // R -> 0
			{{0, 0, 0}, {-1, 0, 0}, {-1, 1, 0}, {0, -2, 0}, {-1, -2, 0}}, // 2 -> R
			{{0, 0, 0}, {-1, 0, 0}, {-1, -1, 0}, {0, 2, 0}, {-1, 2, 0}},  // L -> 2
		},
		// 3: I anticlockwise
		{
			{{0, 0, 0}, {-1, 0, 0}, {2, 0, 0}, {-1, 2, 0}, {2, -1, 0}},
			{{0, 0, 0}, {2, 0, 0}, {-1, 0, 0}, {2, 1, 0}, {-1, -2, 0}},
			{{0, 0, 0}, {1, 0, 0}, {-2, 0, 0}, {1, -2, 0}, {-2, 1, 0}},
			{{0, 0, 0}, {-2, 0, 0}, {1, 0, 0}, {-2, -1, 0}, {1, 2, 0}},
		},
	},
}

// rotArikaSRS mirrors standard SRS with a different I kick pattern.
var rotArikaSRS = rotationSystem{
	kicksR: [NumPieces]int8{1, 0, 0, noKick, 0, 0, 0},
	kicksL: [NumPieces]int8{3, 2, 2, noKick, 2, 2, 2},
	kicksH: [NumPieces]int8{noKick, noKick, noKick, noKick, noKick, noKick, noKick},
	tables: []kickTable{
		// 0: JLSTZ clockwise
		{
			{{0, 0, 0}, {-1, 0, 0}, {-1, 1, 0}, {0, -2, 0}, {-1, -2, 0}},
			{{0, 0, 0}, {1, 0, 0}, {1, -1, 0}, {0, 2, 0}, {1, 2, 0}},
			{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, -2, 0}, {1, -2, 0}},
			{{0, 0, 0}, {-1, 0, 0}, {-1, -1, 0}, {0, 2, 0}, {-1, 2, 0}},
		},
		// 1: I clockwise
		{
			{{0, 0, 0}, {-2, 0, 0}, {1, 0, 0}, {1, 2, 0}, {-2, -1, 0}},
			{{0, 0, 0}, {-1, 0, 0}, {2, 0, 0}, {-1, 2, 0}, {2, -1, 0}},
			{{0, 0, 0}, {2, 0, 0}, {-1, 0, 0}, {2, 1, 0}, {-1, -1, 0}},
			{{0, 0, 0}, {1, 0, 0}, {-2, 0, 0}, {1, 2, 0}, {-2, -1, 0}},
		},
		// 2: JLSTZ anticlockwise
		{
			{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, -2, 0}, {1, -2, 0}},
			{{0, 0, 0}, {1, 0, 0}, {1, -1, 0}, {0, 2, 0}, {1, 2, 0}},
			{{0, 0, 0}, {-1, 0, 0}, {-1, 1, 0}, {0, -2, 0}, {-1, -2, 0}},
			{{0, 0, 0}, {-1, 0, 0}, {-1, -1, 0}, {0, 2, 0}, {-1, 2, 0}},
		},
		// 3: I anticlockwise
		{
			{{0, 0, 0}, {2, 0, 0}, {-1, 0, 0}, {-1, 2, 0}, {2, -1, 0}},
			{{0, 0, 0}, {2, 0, 0}, {-1, 0, 0}, {2, 1, 0}, {-1, -2, 0}},
			{{0, 0, 0}, {-2, 0, 0}, {1, 0, 0}, {-2, 1, 0}, {1, -1, 0}},
			{{0, 0, 0}, {1, 0, 0}, {-2, 0, 0}, {1, 2, 0}, {-2, -2, 0}},
		},
	},
}

// rotTGM12 covers TGM1 and TGM2. J, L and T carry a field-state special case
// evaluated mid-sequence.
var rotTGM12 = rotationSystem{
	kicksR: [NumPieces]int8{0, 0, 0, noKick, 0, 0, 0},
	kicksL: [NumPieces]int8{0, 0, 0, noKick, 0, 0, 0},
	kicksH: [NumPieces]int8{noKick, noKick, noKick, noKick, noKick, noKick, noKick},
	tables: []kickTable{
		{
			{{0, 0, 0}, {1, 0, 0}, {0, 0, condArikaLJT}, {-1, 0, 0}}, // 0
			{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}},                       // R
			{{0, 0, 0}, {1, 0, 0}, {0, 0, condArikaLJT}, {-1, 0, 0}}, // 2
			{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}},                       // L
		},
	},
}

// rotDTET is a symmetric scheme with reversed entry orientations for J, L
// and T. An extension of TGM with the exceptions removed.
var rotDTET = rotationSystem{
	entryTheta: [NumPieces]int8{0, 2, 2, 0, 0, 2, 0},
	kicksR:     [NumPieces]int8{0, 0, 0, noKick, 0, 0, 0},
	kicksL:     [NumPieces]int8{1, 1, 1, noKick, 1, 1, 1},
	kicksH:     [NumPieces]int8{noKick, noKick, noKick, noKick, noKick, noKick, noKick},
	tables: []kickTable{
		// 0: clockwise
		{
			{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {-1, 1, 0}},
			{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {-1, 1, 0}},
			{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {-1, 1, 0}},
			{{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {-1, 1, 0}},
		},
		// 1: anticlockwise
		{
			{{0, 0, 0}, {-1, 0, 0}, {1, 0, 0}, {0, 1, 0}, {-1, 1, 0}, {1, 1, 0}},
			{{0, 0, 0}, {-1, 0, 0}, {1, 0, 0}, {0, 1, 0}, {-1, 1, 0}, {1, 1, 0}},
			{{0, 0, 0}, {-1, 0, 0}, {1, 0, 0}, {0, 1, 0}, {-1, 1, 0}, {1, 1, 0}},
			{{0, 0, 0}, {-1, 0, 0}, {1, 0, 0}, {0, 1, 0}, {-1, 1, 0}, {1, 1, 0}},
		},
	},
}

// rotationSystems is the static registry, indexed by RotationSystemID. Built
// once, never mutated; engines share entries by reference.
var rotationSystems = [...]*rotationSystem{
	&rotSimple, &rotSRS, &rotArikaSRS, &rotTGM12, &rotDTET,
}

// rotationSystemFor resolves an id, panicking on an out-of-range value.
// An invalid id is a caller contract violation, not a runtime condition.
func rotationSystemFor(id RotationSystemID) *rotationSystem {
	if id < 0 || int(id) >= len(rotationSystems) {
		panic("engine: invalid rotation system id")
	}
	return rotationSystems[id]
}
