package engine

// Rotation direction requested by an Input.
const (
	RotNone          = 0
	RotClockwise     = 1
	RotAnticlockwise = -1
	RotHalfTurn      = 2
)

// InputFlags are discrete per-tick actions.
type InputFlags uint8

const (
	// InputHold requests a hold swap.
	InputHold InputFlags = 1 << iota

	// InputHardDrop drops and locks the piece this tick.
	InputHardDrop

	// InputFinesseMove marks that a new horizontal key was pressed this
	// tick, as opposed to auto-repeat. Used for finesse accounting only.
	InputFinesseMove

	// InputFinesseRotate marks a new rotation key press.
	InputFinesseRotate

	// InputQuit abandons the game.
	InputQuit
)

// KeyMask is the set of virtual keys held during a tick. Only consulted
// during entry delay for initial rotation/hold actions; everything else acts
// through the edge-triggered fields of Input.
type KeyMask uint32

const (
	KeyRotCW KeyMask = 1 << iota
	KeyRotCCW
	KeyRotHalf
	KeyHold
)

// Input is the complete player action for one tick. The control boundary
// (keyboard handling, DAS) reduces raw key events to one Input per call;
// the core never sees keys outside of KeyMask.
type Input struct {
	// Rotation is RotNone, RotClockwise, RotAnticlockwise or RotHalfTurn.
	// Any other value is a caller bug and panics.
	Rotation int `json:"rotation"`

	// Movement is a signed cell count; negative is left. Each single-cell
	// step is accepted or refused independently.
	Movement int `json:"movement"`

	// Gravity is extra downward travel this tick, already scaled per tick.
	// Soft drop sets this to MsPerTick*SoftDropGravity.
	Gravity Fixed `json:"gravity"`

	Flags InputFlags `json:"flags"`

	// Keys is the currently held key set, used for IRS/IHS during entry
	// delay.
	Keys KeyMask `json:"keys"`

	// NewKeys counts fresh key presses this tick (KPT statistic).
	NewKeys int `json:"new_keys"`
}
