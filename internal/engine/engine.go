package engine

// Randomizer supplies the piece sequence. Implementations live outside the
// core; the same seed must always reproduce the same sequence so recorded
// input traces replay exactly.
type Randomizer interface {
	// Reset reinitializes the sequence from an explicit seed.
	Reset(seed uint64)

	// Next returns the next piece type.
	Next() Piece
}

// Engine is the complete mutable state of one game. It is mutated only by
// Tick, one Input per call, and owned by a single caller; there is no
// internal locking. Exported fields are observable by a renderer between
// ticks but must not be written from outside.
type Engine struct {
	cfg  Config
	rand Randomizer

	// Board cells: 0 is empty, values above the reserved sentinel 1 carry
	// the locked piece's cell code. Only the configured width and height
	// are active.
	Board [MaxFieldHeight][MaxFieldWidth]int8

	// Active piece. Piece is PieceNone between lock and the next spawn.
	Piece   Piece
	X, Y    int
	ActualY Fixed
	Theta   int

	// HardDropY is the lowest row the piece can reach at its current x and
	// theta; maintained whenever either changes.
	HardDropY int

	HoldPiece     Piece
	HoldAvailable bool

	// Preview is the upcoming-piece queue; the first NextPieceCount
	// entries are valid, front first.
	Preview [MaxPreviewCount]Piece

	State     State
	LastState State

	TotalTicks       int
	TotalKeysPressed int
	LinesCleared     int
	BlocksPlaced     int

	// Finesse accumulates wasted inputs over the game. Monotonically
	// non-decreasing.
	Finesse int

	areTimer       int
	genericCounter int
	lockTimer      int
	floorkickCount int

	pieceRotateCount    int
	pieceMovePressCount int

	irsAmount int
	ihsFlag   bool
}

// New builds an engine with the given configuration and randomizer and
// resets it ready for the first tick. The configuration is assumed to be
// validated already.
func New(cfg Config, rand Randomizer) *Engine {
	if rand == nil {
		panic("engine: nil randomizer")
	}
	e := &Engine{cfg: cfg, rand: rand}
	e.Reset()
	return e
}

// Config returns the fixed game configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Reset restarts the game: zeroes the field and all counters, reseeds the
// randomizer and refills the preview queue. The configuration is preserved.
func (e *Engine) Reset() {
	e.Board = [MaxFieldHeight][MaxFieldWidth]int8{}
	e.areTimer = 0
	e.genericCounter = 0
	e.lockTimer = 0
	e.floorkickCount = 0
	e.pieceRotateCount = 0
	e.pieceMovePressCount = 0
	e.irsAmount = RotNone
	e.ihsFlag = false
	e.TotalTicks = 0
	e.TotalKeysPressed = 0
	e.LinesCleared = 0
	e.BlocksPlaced = 0
	e.Finesse = 0
	e.LastState = StateUnknown

	e.rand.Reset(e.cfg.Seed)

	e.State = StateReady
	e.HoldAvailable = true
	e.HoldPiece = PieceNone

	// No active piece yet: nothing should render during ready/go.
	e.Piece = PieceNone
	for i := 0; i < e.cfg.NextPieceCount; i++ {
		e.Preview[i] = e.rand.Next()
	}
}

// nextPreviewPiece pops the queue front, backfilling from the randomizer.
func (e *Engine) nextPreviewPiece() Piece {
	fresh := e.rand.Next()
	if e.cfg.NextPieceCount == 0 {
		return fresh
	}

	pending := e.Preview[0]
	copy(e.Preview[:e.cfg.NextPieceCount-1], e.Preview[1:e.cfg.NextPieceCount])
	e.Preview[e.cfg.NextPieceCount-1] = fresh
	return pending
}

// spawnX is the fixed spawn column for the configured field.
func (e *Engine) spawnX() int {
	return e.cfg.FieldWidth/2 - 2
}

// spawnPiece pulls the next piece and places it at the spawn position,
// clearing all piece-local timers and counters.
func (e *Engine) spawnPiece() {
	e.X = e.spawnX()
	e.Y = 0
	e.ActualY = 0
	e.Theta = 0
	e.lockTimer = 0
	e.pieceRotateCount = 0
	e.pieceMovePressCount = 0
	e.floorkickCount = 0
	e.Piece = e.nextPreviewPiece()
	e.HoldAvailable = true
}

// tryHold performs at most one hold per piece lifetime. The first hold of a
// game stores the piece and spawns a replacement; later holds swap types in
// place and reset the transform to the spawn placement.
func (e *Engine) tryHold() bool {
	if !e.HoldAvailable {
		return false
	}
	e.HoldAvailable = false

	if e.HoldPiece == PieceNone {
		e.HoldPiece = e.Piece
		e.spawnPiece()
		e.HoldAvailable = false
	} else {
		e.X = e.spawnX()
		e.Y = 0
		e.ActualY = 0
		e.Theta = 0
		e.floorkickCount = 0

		e.HoldPiece, e.Piece = e.Piece, e.HoldPiece
	}

	e.updateHardDropY()
	return true
}

// lockPiece commits the active piece to the board and charges any wasted
// inputs to the finesse score.
func (e *Engine) lockPiece() {
	blocks := PieceBlocks(e.cfg.RotationSystem, e.Piece, e.X, e.Y, e.Theta)
	e.BlocksPlaced++

	for _, b := range blocks {
		e.Board[b.Y][b.X] = pieceCells[e.Piece]
	}

	optRotate, optMove := optimalPresses(e.Piece, e.Theta)

	rotate := e.pieceRotateCount - optRotate
	if rotate < 0 {
		rotate = 0
	}
	move := e.pieceMovePressCount - optMove
	if move < 0 {
		move = 0
	}

	e.Finesse += rotate + move
}

// updateHardDropY recomputes the lowest valid row for the active piece.
// Must be called whenever x, theta, the piece or the board changes.
func (e *Engine) updateHardDropY() {
	y := e.Y
	for !e.collides(e.X, y, e.Theta) {
		y++
	}
	e.HardDropY = y - 1
}

// applyGravity integrates the continuous fall position for one tick.
// in.Gravity is the per-tick soft/hard-drop bonus supplied by the control
// boundary.
func (e *Engine) applyGravity(in Input) {
	e.ActualY += Fixed(e.cfg.MsPerTick)*e.cfg.Gravity + in.Gravity

	if e.ActualY >= Fix(e.HardDropY) {
		// Clamp to the lowest valid row rather than overshooting.
		e.ActualY = Fix(e.HardDropY)
		e.Y = e.HardDropY

		if e.State == StateFalling {
			e.State = StateLanded
		}
		return
	}

	if (e.cfg.LockStyle == LockStep || e.cfg.LockStyle == LockMove) &&
		e.ActualY.floor() > e.Y {
		e.lockTimer = 0
	}

	e.Y = e.ActualY.floor()
	e.State = StateFalling
}

// clearLines removes all full rows and compacts the field downward,
// returning the number of rows cleared.
//
// Row flags are packed into a uint32 with the bottom row in the low bit, so
// the supported field height tops out at 32 rows (MaxFieldHeight is well
// below that). Two passes: mark, then copy non-full rows bottom-up and zero
// the vacated top rows.
func (e *Engine) clearLines() int {
	var found uint32
	cleared := 0

	for y := 0; y < e.cfg.FieldHeight; y++ {
		full := true
		for x := 0; x < e.cfg.FieldWidth; x++ {
			if e.Board[y][x] == 0 {
				full = false
				break
			}
		}
		if full {
			found |= 1
			cleared++
		}
		found <<= 1
	}
	// Undo the shift the final row didn't need.
	found >>= 1

	dst := e.cfg.FieldHeight - 1
	for src := dst; src >= 0; src, found = src-1, found>>1 {
		if found&1 == 1 {
			continue
		}
		if src != dst {
			copy(e.Board[dst][:e.cfg.FieldWidth], e.Board[src][:e.cfg.FieldWidth])
		}
		dst--
	}

	for y := 0; y < cleared; y++ {
		for x := 0; x < e.cfg.FieldWidth; x++ {
			e.Board[y][x] = 0
		}
	}

	return cleared
}

// Tick advances the game by one step, consuming exactly one Input. Instant
// transitions re-dispatch internally without consuming another Input; the
// transition graph is acyclic within a tick, so the loop always terminates.
func (e *Engine) Tick(in Input) {
	prev := e.State

	e.TotalTicks++
	e.TotalKeysPressed += in.NewKeys

	if in.Flags&InputQuit != 0 {
		e.State = StateQuit
	}

	if in.Flags&InputFinesseRotate != 0 {
		e.pieceRotateCount++
	}
	if in.Flags&InputFinesseMove != 0 {
		e.pieceMovePressCount++
	}

	for e.dispatch(in) {
	}

	e.LastState = prev
}

// dispatch runs one state handler, reporting whether the state machine
// should re-dispatch within the same tick.
func (e *Engine) dispatch(in Input) bool {
	switch e.State {
	case StateReady, StateGo:
		return e.tickReadyGo(in)
	case StateAre:
		return e.tickAre(in)
	case StateNewPiece:
		return e.tickNewPiece()
	case StateFalling, StateLanded:
		return e.tickFalling(in)
	case StateLines:
		return e.tickLines()
	case StateGameOver, StateQuit:
		return false
	default:
		// Ticking an unreset engine is a caller bug.
		panic("engine: tick in unknown state")
	}
}

func (e *Engine) tickReadyGo(in Input) bool {
	// There is no active piece yet, so a hold during ready/go copies
	// straight from the preview queue. Optionally this can be done any
	// number of times, discarding the previous hold.
	if in.Flags&InputHold != 0 && e.HoldAvailable {
		e.HoldPiece = e.nextPreviewPiece()
		if !e.cfg.InfiniteReadyGoHold {
			e.HoldAvailable = false
		}
	}

	readyTicks := e.cfg.ticks(e.cfg.ReadyPhaseLength)

	if e.genericCounter == readyTicks {
		e.State = StateGo
	}
	// Not an else-if: the go phase length may be zero.
	if e.genericCounter == readyTicks+e.cfg.ticks(e.cfg.GoPhaseLength) {
		e.State = StateNewPiece
	}

	e.genericCounter++

	// Entering NEW_PIECE from the go phase is not an instant transition;
	// the first spawn happens on the following tick.
	return false
}

func (e *Engine) tickAre(in Input) bool {
	// IRS/IHS is sampled every ARE frame; only the value on the final
	// frame before spawn matters.
	if e.cfg.InitialActionStyle == InitialActionPersistent {
		switch {
		case in.Keys&KeyRotCW != 0:
			e.irsAmount = RotClockwise
		case in.Keys&KeyRotCCW != 0:
			e.irsAmount = RotAnticlockwise
		case in.Keys&KeyRotHalf != 0:
			e.irsAmount = RotHalfTurn
		default:
			e.irsAmount = RotNone
		}
		e.ihsFlag = in.Keys&KeyHold != 0
	}

	if e.cfg.AreCancellable && (in.Rotation != RotNone || in.Movement != 0 ||
		in.Gravity != 0 || in.Flags != 0 || e.ihsFlag || e.irsAmount != RotNone) {
		e.areTimer = 0
		e.State = StateNewPiece
		return true
	}

	expired := e.areTimer > e.cfg.ticks(e.cfg.AreDelay)
	e.areTimer++
	if expired {
		e.areTimer = 0
		e.State = StateNewPiece
		return true
	}
	return false
}

func (e *Engine) tickNewPiece() bool {
	e.spawnPiece()

	// Initial actions apply before the lockout check.
	if e.irsAmount != RotNone {
		e.rotate(e.irsAmount)
	}
	if e.ihsFlag {
		e.tryHold()
	}
	e.irsAmount = RotNone
	e.ihsFlag = false

	if e.collides(e.X, e.Y, e.Theta) {
		e.State = StateGameOver
		return true
	}

	e.updateHardDropY()
	e.State = StateFalling
	return false
}

func (e *Engine) tickFalling(in Input) bool {
	// Hard drop bypasses all other movement so a same-tick shift cannot
	// cause a misdrop. The landed check must confirm we are still landed
	// this frame: the timer may have survived a step back to falling and
	// must not lock the piece mid-air.
	if in.Flags&InputHardDrop != 0 ||
		(e.lockTimer >= e.cfg.ticks(e.cfg.LockDelay) && e.State == StateLanded) {
		e.State = StateLines
		// Gravity still applies on the way out, clamping a hard drop to
		// the bottom row before the lock runs next tick.
		e.applyGravity(in)
		return false
	}

	if in.Flags&InputHold != 0 {
		e.tryHold()
	}

	rotated := false
	if in.Rotation != RotNone {
		rotated = e.rotate(in.Rotation)
	}

	moved := false
	distance := in.Movement
	for ; distance < 0; distance++ {
		if !e.collides(e.X-1, e.Y, e.Theta) {
			e.X--
			moved = true
		}
	}
	for ; distance > 0; distance-- {
		if !e.collides(e.X+1, e.Y, e.Theta) {
			e.X++
			moved = true
		}
	}

	if moved || rotated {
		e.updateHardDropY()
	}

	e.applyGravity(in)

	// Ordered after gravity so a saturated floorkick lock timer survives
	// every reset style except an actual successful move.
	if (moved || rotated) && e.cfg.LockStyle == LockMove {
		e.lockTimer = 0
	}

	if e.State == StateLanded {
		e.lockTimer++
	}

	return false
}

func (e *Engine) tickLines() bool {
	e.lockPiece()

	// The piece is committed to the field; nothing to draw until the next
	// spawn.
	e.Piece = PieceNone

	e.LinesCleared += e.clearLines()

	if e.LinesCleared < e.cfg.Goal {
		e.State = StateAre
	} else {
		e.State = StateGameOver
	}
	return true
}
