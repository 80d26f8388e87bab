package engine

// Finesse accounting.
//
// The optimal-input model here is a deliberate approximation carried over
// from the original design: any column is assumed reachable within two
// movement presses, and any orientation within the press counts below,
// assuming full reachability under the active rotation system. It is not an
// exact solver and overhangs are ignored; the resulting score is a relative
// waste measure, not a ground truth.

// optimalRotationPresses is indexed by final theta. Half-turn support means
// theta 2 still costs two presses under plain CW/CCW keys.
var optimalRotationPresses = [NumRotations]int{0, 1, 2, 1}

const optimalMovementPresses = 2

// optimalPresses returns the assumed minimal rotation and movement press
// counts to reach the given final orientation.
func optimalPresses(piece Piece, theta int) (rotate, move int) {
	rotate = optimalRotationPresses[theta]
	if piece == PieceO {
		// O needs no rotation, so every rotation press on it is waste.
		rotate = 0
	}
	return rotate, optimalMovementPresses
}
