// Board model: layout, side to move, castling rights, en-passant
// target, move counters and history.

package chess

// CastlingRights tracks which castling moves each side may still make.
// Rights only ever transition true -> false, never back.
type CastlingRights struct {
	WhiteKingside, WhiteQueenside bool
	BlackKingside, BlackQueenside bool
}

// MoveKind classifies how a move was applied to the board.
type MoveKind uint8

const (
	Quiet MoveKind = iota
	CaptureMove
	CastleKingside
	CastleQueenside
	EnPassantMove
	PromotionMove
	PromotionCaptureMove
)

// MoveRecord is an applied move plus enough pre-move state to reverse
// it exactly (Unmake).
type MoveRecord struct {
	From, To      Square
	Piece         Piece
	CapturedPiece Piece // zero value (Empty) if no capture
	Kind          MoveKind
	Promotion     Kind

	prevCastling  CastlingRights
	prevEnPassant *Square
	prevHalfmove  int
}

// Board is the full game state. It is a value type: copying a Board
// copies its scalar fields, but Squares is itself an array (not a
// slice) so it copies by value too; History and the captured slices
// are shared backing arrays on copy, so callers that need an
// independent snapshot should use Clone.
type Board struct {
	Squares        [8][8]Piece
	SideToMove     Color
	Castling       CastlingRights
	EnPassant      *Square
	HalfmoveClock  int
	FullmoveNumber int
	History        []MoveRecord

	CapturedByWhite []Piece // black pieces captured by white
	CapturedByBlack []Piece // white pieces captured by black
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b := &Board{
		SideToMove:     White,
		FullmoveNumber: 1,
		Castling: CastlingRights{
			WhiteKingside: true, WhiteQueenside: true,
			BlackKingside: true, BlackQueenside: true,
		},
	}

	backRank := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, k := range backRank {
		b.Squares[0][col] = Piece{Kind: k, Color: Black}
		b.Squares[7][col] = Piece{Kind: k, Color: White}
		b.Squares[1][col] = Piece{Kind: Pawn, Color: Black}
		b.Squares[6][col] = Piece{Kind: Pawn, Color: White}
	}

	return b
}

// At returns the piece occupying s, or the zero Piece if empty or s
// is off-board.
func (b *Board) At(s Square) Piece {
	if !s.Valid() {
		return Piece{}
	}
	return b.Squares[s.Row][s.Col]
}

// Clone returns a deep, independent copy of the board.
func (b *Board) Clone() *Board {
	nb := *b
	nb.History = append([]MoveRecord(nil), b.History...)
	nb.CapturedByWhite = append([]Piece(nil), b.CapturedByWhite...)
	nb.CapturedByBlack = append([]Piece(nil), b.CapturedByBlack...)
	if b.EnPassant != nil {
		ep := *b.EnPassant
		nb.EnPassant = &ep
	}
	return &nb
}

// KingSquare returns the square holding c's king. ok is false if no
// such king exists, which callers should treat as a fatal internal
// invariant violation.
func (b *Board) KingSquare(c Color) (sq Square, ok bool) {
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			p := b.Squares[r][col]
			if p.Kind == King && p.Color == c {
				return Square{Row: r, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// startRank is the rank index a pawn of color c begins on.
func startRank(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// pawnDir is the row delta a pawn of color c advances by.
func pawnDir(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// promotionRank is the rank index a pawn of color c promotes on.
func promotionRank(c Color) int {
	if c == White {
		return 0
	}
	return 7
}
