package engine

// Piece identifies one of the seven tetromino types.
type Piece int8

// Table indexing relies on this exact ordering.
const (
	PieceI Piece = iota
	PieceJ
	PieceL
	PieceO
	PieceS
	PieceT
	PieceZ
	PieceNone
)

const (
	// NumPieces is the number of distinct piece types.
	NumPieces = 7

	// NumRotations is the number of rotation states per piece.
	NumRotations = 4

	// BlocksPerPiece is the number of cells a single piece occupies.
	BlocksPerPiece = 4
)

var pieceNames = [NumPieces]string{"I", "J", "L", "O", "S", "T", "Z"}

func (p Piece) String() string {
	if p < 0 || p >= NumPieces {
		return "none"
	}
	return pieceNames[p]
}

// Cell values written into the board when a piece locks. A cell of 0 is
// empty; values at or below the reserved sentinel 1 never collide.
var pieceCells = [NumPieces]int8{0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70}

// Cell returns the board value written when this piece locks.
func (p Piece) Cell() int8 {
	return pieceCells[p]
}

// CellPiece maps a locked cell value back to its piece type, or PieceNone
// for an empty cell. Intended for renderers choosing per-piece colors.
func CellPiece(c int8) Piece {
	for p, v := range pieceCells {
		if v == c {
			return Piece(p)
		}
	}
	return PieceNone
}

// Coord is an absolute cell coordinate. Row 0 is the top of the field and y
// grows downward.
type Coord struct {
	X, Y int
}
