package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptRandomizer deals a fixed repeating sequence, so tests control the
// piece order exactly.
type scriptRandomizer struct {
	seq []Piece
	pos int
}

func (r *scriptRandomizer) Reset(seed uint64) { r.pos = 0 }

func (r *scriptRandomizer) Next() Piece {
	p := r.seq[r.pos%len(r.seq)]
	r.pos++
	return p
}

// testConfig is the default setup minus the ready/go phases, which only
// slow tests down.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ReadyPhaseLength = 0
	cfg.GoPhaseLength = 0
	return cfg
}

func newTestEngine(cfg Config, seq ...Piece) *Engine {
	if len(seq) == 0 {
		seq = []Piece{PieceI, PieceJ, PieceL, PieceO, PieceS, PieceT, PieceZ}
	}
	return New(cfg, &scriptRandomizer{seq: seq})
}

// tickN advances n ticks with no input.
func tickN(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.Tick(Input{})
	}
}

// startGame runs the pre-game phases until the first piece is falling.
// With zeroed phase lengths that is two ticks: one through ready/go and
// one for the spawn.
func startGame(e *Engine) {
	for i := 0; i < 4 && e.State != StateFalling; i++ {
		e.Tick(Input{})
	}
}

// hardDropInput mirrors what the control boundary sends for a hard drop.
func hardDropInput(cfg Config) Input {
	return Input{Flags: InputHardDrop, Gravity: Fix(cfg.FieldHeight)}
}

// dropAndLock hard-drops the active piece and runs the lock tick.
func dropAndLock(e *Engine) {
	e.Tick(hardDropInput(e.cfg))
	e.Tick(Input{})
}

func TestResetFillsPreviewAndClearsState(t *testing.T) {
	e := newTestEngine(testConfig(), PieceT, PieceS, PieceZ, PieceI, PieceJ, PieceL, PieceO)

	require.Equal(t, StateReady, e.State)
	require.Equal(t, PieceNone, e.Piece)
	assert.Equal(t, PieceT, e.Preview[0])
	assert.Equal(t, PieceS, e.Preview[1])
	assert.Equal(t, PieceZ, e.Preview[2])
	assert.Equal(t, PieceI, e.Preview[3])
	assert.True(t, e.HoldAvailable)
	assert.Equal(t, PieceNone, e.HoldPiece)
	assert.Zero(t, e.TotalTicks)
}

func TestFirstTickSpawnsFromPreviewFront(t *testing.T) {
	e := newTestEngine(testConfig(), PieceT, PieceS, PieceZ, PieceI, PieceJ)

	// Leaving the go phase consumes the tick; nothing spawns until the
	// next one.
	e.Tick(Input{})
	require.Equal(t, StateNewPiece, e.State)
	require.Equal(t, PieceNone, e.Piece)

	e.Tick(Input{})
	require.Equal(t, StateFalling, e.State)
	assert.Equal(t, PieceT, e.Piece)
	assert.Equal(t, e.cfg.FieldWidth/2-2, e.X)
	assert.Equal(t, 0, e.Y)
	assert.Equal(t, Fixed(0), e.ActualY)
	assert.Equal(t, 0, e.Theta)

	// The queue shifted left and refilled at the back.
	assert.Equal(t, PieceS, e.Preview[0])
	assert.Equal(t, PieceJ, e.Preview[3])
}

func TestReadyGoPhasesConsumeConfiguredTicks(t *testing.T) {
	cfg := DefaultConfig() // 833ms ready + 833ms go at 16ms/tick: 52 each
	e := newTestEngine(cfg)

	readyTicks := cfg.ticks(cfg.ReadyPhaseLength)
	goTicks := cfg.ticks(cfg.GoPhaseLength)

	tickN(e, readyTicks)
	require.Equal(t, StateReady, e.State)
	e.Tick(Input{})
	assert.Equal(t, StateGo, e.State)

	// The tick that leaves the go phase only reaches NEW_PIECE; the spawn
	// lands one tick later.
	tickN(e, goTicks)
	require.Equal(t, StateNewPiece, e.State)
	assert.Equal(t, PieceNone, e.Piece)

	e.Tick(Input{})
	assert.Equal(t, StateFalling, e.State)
	assert.NotEqual(t, PieceNone, e.Piece)
}

func TestTotalTicksIncrementsOncePerCall(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	for i := 1; i <= 200; i++ {
		e.Tick(Input{})
		require.Equal(t, i, e.TotalTicks)
	}
}

func TestGravityIntegration(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceT)
	startGame(e)

	perTick := Fixed(cfg.MsPerTick) * cfg.Gravity
	require.Greater(t, perTick, Fixed(0))

	// One full cell takes ceil(scale/perTick) ticks.
	ticksPerCell := (fixedScale + int(perTick) - 1) / int(perTick)
	tickN(e, ticksPerCell)

	assert.Equal(t, 1, e.Y)
	assert.Equal(t, e.ActualY.floor(), e.Y)
}

func TestGravityClampNeverOvershoots(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceO)
	startGame(e)

	soft := Input{Gravity: Fixed(cfg.MsPerTick) * cfg.SoftDropGravity}
	for i := 0; i < 200; i++ {
		e.Tick(soft)
		if e.Piece == PieceNone {
			break
		}
		require.LessOrEqual(t, e.ActualY, Fix(e.HardDropY))
		if e.State == StateLanded {
			require.Equal(t, e.HardDropY, e.Y)
		} else {
			require.Equal(t, e.ActualY.floor(), e.Y)
		}
	}
}

func TestSoftDropLandsPiece(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceO)
	startGame(e)

	dropY := e.HardDropY
	soft := Input{Gravity: Fixed(cfg.MsPerTick) * cfg.SoftDropGravity}
	e.Tick(soft) // 20 cells per tick reaches the floor immediately
	assert.Equal(t, StateLanded, e.State)
	assert.Equal(t, dropY, e.Y)
	assert.Equal(t, Fix(dropY), e.ActualY)
}

func TestHardDropLocksViaLinesState(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceO)
	startGame(e)

	e.Tick(hardDropInput(cfg))
	require.Equal(t, StateLines, e.State)
	require.Zero(t, e.BlocksPlaced)

	e.Tick(Input{})
	assert.Equal(t, 1, e.BlocksPlaced)
	assert.Equal(t, PieceNone, e.Piece)
	assert.Equal(t, StateAre, e.State)
}

func TestLockDelayExpiryLocksLandedPiece(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceO)
	startGame(e)

	// Land instantly, then wait out the lock delay. The landing tick
	// already counts one tick of delay.
	e.Tick(Input{Gravity: Fix(cfg.FieldHeight)})
	require.Equal(t, StateLanded, e.State)

	lockTicks := cfg.ticks(cfg.LockDelay)
	tickN(e, lockTicks-1)
	require.Equal(t, StateLanded, e.State)

	e.Tick(Input{})
	require.Equal(t, StateLines, e.State)
	e.Tick(Input{})
	assert.Equal(t, 1, e.BlocksPlaced)
}

func TestMoveLockStyleResetsTimerOnMovement(t *testing.T) {
	cfg := testConfig()
	cfg.LockStyle = LockMove
	e := newTestEngine(cfg, PieceO)
	startGame(e)
	e.Tick(Input{Gravity: Fix(cfg.FieldHeight)})
	require.Equal(t, StateLanded, e.State)

	lockTicks := cfg.ticks(cfg.LockDelay)
	tickN(e, lockTicks-2)

	// A successful shift hands back the full delay; the shifting tick
	// itself counts as the first landed tick of the fresh window.
	e.Tick(Input{Movement: 1})
	require.Equal(t, 1, e.lockTimer)

	tickN(e, lockTicks-1)
	require.Equal(t, StateLanded, e.State)
	e.Tick(Input{})
	assert.Equal(t, StateLines, e.State)
}

func TestEntryLockStyleIgnoresMovement(t *testing.T) {
	cfg := testConfig()
	cfg.LockStyle = LockEntry
	e := newTestEngine(cfg, PieceO)
	startGame(e)
	e.Tick(Input{Gravity: Fix(cfg.FieldHeight)})

	lockTicks := cfg.ticks(cfg.LockDelay)
	tickN(e, lockTicks-2)

	// The shift is applied but buys no extra delay.
	e.Tick(Input{Movement: 1})
	require.Equal(t, lockTicks, e.lockTimer)
	e.Tick(Input{})
	assert.Equal(t, StateLines, e.State)
}

func TestHorizontalMovementStopsAtWall(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceO)
	startGame(e)

	// Ask for more cells than exist; accepted steps stick, the rest stop
	// at the wall.
	e.Tick(Input{Movement: -cfg.FieldWidth})

	blocks := PieceBlocks(cfg.RotationSystem, e.Piece, e.X, e.Y, e.Theta)
	minX := blocks[0].X
	for _, b := range blocks[1:] {
		minX = min(minX, b.X)
	}
	assert.Equal(t, 0, minX)

	e.Tick(Input{Movement: cfg.FieldWidth})
	blocks = PieceBlocks(cfg.RotationSystem, e.Piece, e.X, e.Y, e.Theta)
	maxX := blocks[0].X
	for _, b := range blocks[1:] {
		maxX = max(maxX, b.X)
	}
	assert.Equal(t, cfg.FieldWidth-1, maxX)
}

func TestPartiallyBlockedMoveKeepsAcceptedSteps(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceO)
	startGame(e)

	// Wall two columns right of the piece.
	blocks := PieceBlocks(cfg.RotationSystem, e.Piece, e.X, e.Y, e.Theta)
	maxX := blocks[0].X
	for _, b := range blocks[1:] {
		maxX = max(maxX, b.X)
	}
	for y := 0; y < cfg.FieldHeight; y++ {
		e.Board[y][maxX+2] = PieceL.Cell()
	}

	startX := e.X
	e.Tick(Input{Movement: 5})
	assert.Equal(t, startX+1, e.X)
}

func TestHoldFirstStoresAndSpawnsNext(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceT, PieceS, PieceZ, PieceI, PieceJ, PieceL)
	startGame(e)
	require.Equal(t, PieceT, e.Piece)

	e.Tick(Input{Flags: InputHold})
	assert.Equal(t, PieceT, e.HoldPiece)
	assert.Equal(t, PieceS, e.Piece)
	assert.False(t, e.HoldAvailable)
}

func TestHoldSwapResetsTransform(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceT, PieceS, PieceZ, PieceI, PieceJ, PieceL)
	startGame(e)
	e.Tick(Input{Flags: InputHold}) // hold T, S becomes active
	dropAndLock(e)
	tickN(e, 2) // ARE, then spawn Z

	require.Equal(t, PieceZ, e.Piece)
	require.True(t, e.HoldAvailable)

	e.Tick(Input{Movement: 3, Rotation: RotClockwise})
	e.Tick(Input{Flags: InputHold})

	assert.Equal(t, PieceT, e.Piece)
	assert.Equal(t, PieceZ, e.HoldPiece)
	assert.Equal(t, e.cfg.FieldWidth/2-2, e.X)
	assert.Equal(t, 0, e.Y)
	assert.Equal(t, 0, e.Theta)
}

func TestHoldExclusivity(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceT, PieceS, PieceZ, PieceI, PieceJ, PieceL)
	startGame(e)

	e.Tick(Input{Flags: InputHold})
	require.Equal(t, PieceT, e.HoldPiece)
	require.Equal(t, PieceS, e.Piece)

	// Second hold within the same piece lifetime is a no-op.
	e.Tick(Input{Flags: InputHold})
	assert.Equal(t, PieceT, e.HoldPiece)
	assert.Equal(t, PieceS, e.Piece)

	// The next spawn re-arms it.
	dropAndLock(e)
	tickN(e, 2)
	assert.True(t, e.HoldAvailable)
}

func TestSpawnCollisionIsGameOver(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(cfg, PieceO)

	for y := 0; y < cfg.FieldHeight; y++ {
		for x := 0; x < cfg.FieldWidth; x++ {
			e.Board[y][x] = PieceJ.Cell()
		}
	}

	tickN(e, 2)
	assert.Equal(t, StateGameOver, e.State)
}

func TestGameOverIsTerminal(t *testing.T) {
	cfg := testConfig()
	cfg.Goal = 0
	e := newTestEngine(cfg, PieceO)
	startGame(e)
	dropAndLock(e)
	require.Equal(t, StateGameOver, e.State)

	before := e.Board
	tickN(e, 10)
	assert.Equal(t, StateGameOver, e.State)
	assert.Equal(t, before, e.Board)
	assert.Equal(t, 1, e.BlocksPlaced)
}

func TestQuitFlag(t *testing.T) {
	e := newTestEngine(testConfig(), PieceO)
	startGame(e)
	e.Tick(Input{Flags: InputQuit})
	assert.Equal(t, StateQuit, e.State)
}

func TestGoalReachedEndsGame(t *testing.T) {
	cfg := testConfig()
	cfg.Goal = 1
	e := newTestEngine(cfg, PieceO)
	startGame(e)

	// Fill the bottom row except where the O will land.
	landBlocks := PieceBlocks(cfg.RotationSystem, e.Piece, e.X, e.HardDropY, e.Theta)
	inLanding := func(x, y int) bool {
		for _, b := range landBlocks {
			if b.X == x && b.Y == y {
				return true
			}
		}
		return false
	}
	for _, y := range []int{cfg.FieldHeight - 2, cfg.FieldHeight - 1} {
		for x := 0; x < cfg.FieldWidth; x++ {
			if !inLanding(x, y) {
				e.Board[y][x] = PieceJ.Cell()
			}
		}
	}
	e.updateHardDropY()

	dropAndLock(e)
	assert.Equal(t, 2, e.LinesCleared)
	assert.Equal(t, StateGameOver, e.State)
}

func TestAreDelayTiming(t *testing.T) {
	cfg := testConfig()
	cfg.AreDelay = 64 // 4 ticks at 16ms
	e := newTestEngine(cfg, PieceO, PieceT)
	startGame(e)
	dropAndLock(e)
	require.Equal(t, StateAre, e.State)

	// The locking tick already ran the first delay frame.
	areTicks := cfg.ticks(cfg.AreDelay)
	tickN(e, areTicks)
	require.Equal(t, StateAre, e.State)

	e.Tick(Input{})
	assert.Equal(t, StateFalling, e.State)
	assert.NotEqual(t, PieceNone, e.Piece)
}

func TestCancellableAreSpawnsImmediately(t *testing.T) {
	cfg := testConfig()
	cfg.AreDelay = 160
	cfg.AreCancellable = true
	e := newTestEngine(cfg, PieceO, PieceT)
	startGame(e)
	dropAndLock(e)
	require.Equal(t, StateAre, e.State)

	e.Tick(Input{Movement: 1})
	assert.Equal(t, StateFalling, e.State)
}

func TestIRSRotatesSpawningPiece(t *testing.T) {
	cfg := testConfig()
	cfg.AreDelay = 32
	cfg.InitialActionStyle = InitialActionPersistent
	e := newTestEngine(cfg, PieceO, PieceT)
	startGame(e)
	dropAndLock(e)
	require.Equal(t, StateAre, e.State)

	in := Input{Keys: KeyRotCW}
	for e.State == StateAre {
		e.Tick(in)
	}

	require.Equal(t, PieceT, e.Piece)
	assert.Equal(t, 1, e.Theta)
}

func TestIHSHoldsSpawningPiece(t *testing.T) {
	cfg := testConfig()
	cfg.AreDelay = 32
	cfg.InitialActionStyle = InitialActionPersistent
	e := newTestEngine(cfg, PieceO, PieceT, PieceS, PieceZ, PieceI, PieceJ)
	startGame(e)
	dropAndLock(e)

	in := Input{Keys: KeyHold}
	for e.State == StateAre {
		e.Tick(in)
	}

	assert.Equal(t, PieceT, e.HoldPiece)
	assert.Equal(t, PieceS, e.Piece)
}

func TestReadyGoHoldTakesFromPreview(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(cfg, PieceT, PieceS, PieceZ, PieceI, PieceJ, PieceL)

	e.Tick(Input{Flags: InputHold})
	assert.Equal(t, PieceT, e.HoldPiece)
	assert.False(t, e.HoldAvailable)
	assert.Equal(t, PieceS, e.Preview[0])
}

func TestExampleScenarioLockedOPiece(t *testing.T) {
	// 10x20 field, SRS, an endless O sequence and no input: the piece
	// falls under default gravity and locks centered at the spawn column.
	cfg := testConfig()
	cfg.FieldHeight = 20
	cfg.FieldHidden = 0
	e := newTestEngine(cfg, PieceO)

	for i := 0; i < 5000 && e.BlocksPlaced == 0; i++ {
		e.Tick(Input{})
	}

	require.Equal(t, 1, e.BlocksPlaced)
	assert.Zero(t, e.LinesCleared)

	// O occupies a 2x2 at offsets (1..2, 0..1) from the spawn origin.
	spawnX := cfg.FieldWidth/2 - 2
	occupied := 0
	for y := 0; y < cfg.FieldHeight; y++ {
		for x := 0; x < cfg.FieldWidth; x++ {
			if e.Board[y][x] != 0 {
				occupied++
			}
		}
	}
	assert.Equal(t, BlocksPerPiece, occupied)
	for _, y := range []int{cfg.FieldHeight - 2, cfg.FieldHeight - 1} {
		assert.Equal(t, PieceO.Cell(), e.Board[y][spawnX+1])
		assert.Equal(t, PieceO.Cell(), e.Board[y][spawnX+2])
	}
}

func TestDeterminism(t *testing.T) {
	// Identical config and input trace must yield identical state traces.
	inputs := make([]Input, 3000)
	rng := rand.New(rand.NewSource(17))
	rotations := []int{RotNone, RotClockwise, RotAnticlockwise, RotHalfTurn}
	for i := range inputs {
		in := Input{
			Movement: rng.Intn(5) - 2,
			Rotation: rotations[rng.Intn(len(rotations))],
		}
		if rng.Intn(10) == 0 {
			in.Flags |= InputHold
		}
		if rng.Intn(15) == 0 {
			in.Flags |= InputHardDrop
			in.Gravity = Fix(DefaultConfig().FieldHeight)
		}
		inputs[i] = in
	}

	run := func() []string {
		e := newTestEngine(testConfig())
		trace := make([]string, len(inputs))
		for i, in := range inputs {
			e.Tick(in)
			trace[i] = fmt.Sprintf("%v %d %d %d %d %d %d %d %v",
				e.State, e.X, e.Y, e.ActualY, e.Theta,
				e.LinesCleared, e.BlocksPlaced, e.Finesse, e.Piece)
		}
		return trace
	}

	assert.Equal(t, run(), run())
}

func TestNoOverlapInvariant(t *testing.T) {
	// After arbitrary play every locked cell lies inside the active field
	// and carries a valid piece code.
	cfg := testConfig()
	e := newTestEngine(cfg)

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 4000; i++ {
		in := Input{Movement: rng.Intn(7) - 3}
		if rng.Intn(8) == 0 {
			in.Flags |= InputHardDrop
			in.Gravity = Fix(cfg.FieldHeight)
		}
		e.Tick(in)

		for y := 0; y < MaxFieldHeight; y++ {
			for x := 0; x < MaxFieldWidth; x++ {
				v := e.Board[y][x]
				if v == 0 {
					continue
				}
				require.Less(t, y, cfg.FieldHeight)
				require.Less(t, x, cfg.FieldWidth)
				require.NotEqual(t, PieceNone, CellPiece(v))
			}
		}
	}
	assert.Positive(t, e.BlocksPlaced)
}
