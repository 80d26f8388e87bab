package engine

// Compile-time field bounds.
const (
	// MaxFieldWidth is the widest supported playfield.
	MaxFieldWidth = 20

	// MaxFieldHeight is the tallest supported playfield. Line clearing
	// packs row flags into a uint32, so this must stay at or below 32.
	MaxFieldHeight = 25

	// MaxPreviewCount bounds the preview queue.
	MaxPreviewCount = 5
)

// State is a machine state of the tick loop.
type State int8

const (
	StateUnknown State = iota
	StateReady
	StateGo
	StateFalling
	StateLanded
	StateAre
	StateNewPiece
	StateLines
	StateGameOver
	StateQuit
)

var stateNames = map[State]string{
	StateUnknown:  "unknown",
	StateReady:    "ready",
	StateGo:       "go",
	StateFalling:  "falling",
	StateLanded:   "landed",
	StateAre:      "are",
	StateNewPiece: "new_piece",
	StateLines:    "lines",
	StateGameOver: "game_over",
	StateQuit:     "quit",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "invalid"
}

// LockStyle selects when the lock-delay timer resets.
type LockStyle int8

const (
	// LockEntry resets the timer on spawn only.
	LockEntry LockStyle = iota

	// LockStep additionally resets on discrete downward movement.
	LockStep

	// LockMove additionally resets on any successful movement or rotation.
	LockMove
)

// InitialActionStyle controls IRS/IHS handling during entry delay.
type InitialActionStyle int8

const (
	// InitialActionNone disables initial actions.
	InitialActionNone InitialActionStyle = iota

	// InitialActionPersistent applies rotate/hold keys still held on the
	// final entry-delay frame to the spawning piece.
	InitialActionPersistent
)

// RandomizerID selects a piece-sequence randomizer. The core never
// constructs one itself; callers resolve the id through the randomizer
// package and inject the instance.
type RandomizerID int8

const (
	RandSimple RandomizerID = iota
	RandBag7
	RandNoSZOBag7
)

var randomizerNames = [...]string{"simple", "bag7", "noszo-bag7"}

func (id RandomizerID) String() string {
	if id < 0 || int(id) >= len(randomizerNames) {
		return "invalid"
	}
	return randomizerNames[id]
}

// Config is fixed for the duration of a game. Values are assumed validated
// by the configuration source before an Engine is built; the core performs
// no range checking beyond its panicking programming-error contracts.
type Config struct {
	FieldWidth  int `json:"field_width"`
	FieldHeight int `json:"field_height"`

	// FieldHidden rows at the top are playable but meant to be concealed
	// by the renderer.
	FieldHidden int `json:"field_hidden"`

	// MsPerTick is the fixed external tick cadence.
	MsPerTick int `json:"ms_per_tick"`

	// Gravity and SoftDropGravity are fixed units per millisecond.
	Gravity         Fixed `json:"gravity"`
	SoftDropGravity Fixed `json:"soft_drop_gravity"`

	// AreDelay is the entry delay between lock and next spawn, in ms.
	AreDelay       int  `json:"are_delay"`
	AreCancellable bool `json:"are_cancellable"`

	LockStyle LockStyle `json:"lock_style"`
	LockDelay int       `json:"lock_delay"` // ms

	// FloorkickLimit caps upward kicks per piece; 0 disables the limit.
	FloorkickLimit int `json:"floorkick_limit"`

	InitialActionStyle InitialActionStyle `json:"initial_action_style"`

	RotationSystem RotationSystemID `json:"rotation_system"`
	Randomizer     RandomizerID     `json:"randomizer"`

	ReadyPhaseLength    int  `json:"ready_phase_length"` // ms
	GoPhaseLength       int  `json:"go_phase_length"`    // ms
	InfiniteReadyGoHold bool `json:"infinite_ready_go_hold"`

	NextPieceCount int `json:"next_piece_count"`

	// Goal is the line-clear target; reaching it ends the game.
	Goal int `json:"goal"`

	// Seed drives the injected randomizer. Always supplied explicitly so
	// traces are reproducible.
	Seed uint64 `json:"seed"`
}

// DefaultConfig returns the standard game setup.
func DefaultConfig() Config {
	return Config{
		FieldWidth:         10,
		FieldHeight:        22,
		FieldHidden:        2,
		MsPerTick:          16,
		Gravity:            625,
		SoftDropGravity:    1_250_000,
		AreDelay:           0,
		LockStyle:          LockMove,
		LockDelay:          150,
		FloorkickLimit:     1,
		InitialActionStyle: InitialActionNone,
		RotationSystem:     RotationSRS,
		Randomizer:         RandNoSZOBag7,
		ReadyPhaseLength:   833,
		GoPhaseLength:      833,
		NextPieceCount:     4,
		Goal:               40,
	}
}

// ticks converts a millisecond option into whole ticks.
func (c Config) ticks(ms int) int {
	return ms / c.MsPerTick
}
