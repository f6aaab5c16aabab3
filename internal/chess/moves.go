// Pseudo-legal move generation and attack detection.

package chess

// Move is a candidate move before legality filtering. Promotion is
// left unset (None) by the generator; the caller (validator) supplies
// the chosen promotion kind before calling Apply.
type Move struct {
	From, To  Square
	Kind      MoveKind
	Promotion Kind
}

var knightDeltas = [8][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

var kingDeltas = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

var bishopDirs = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
var rookDirs = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// PseudoLegalMoves returns every geometrically valid move for the
// piece at from, ignoring whether it leaves the mover's own king in
// check. It returns nil if from is empty.
func PseudoLegalMoves(b *Board, from Square) []Move {
	p := b.At(from)
	if p.Empty() {
		return nil
	}

	switch p.Kind {
	case Pawn:
		return pawnMoves(b, from, p.Color)
	case Knight:
		return leaperMoves(b, from, p.Color, knightDeltas[:])
	case Bishop:
		return sliderMoves(b, from, p.Color, bishopDirs[:])
	case Rook:
		return sliderMoves(b, from, p.Color, rookDirs[:])
	case Queen:
		moves := sliderMoves(b, from, p.Color, bishopDirs[:])
		return append(moves, sliderMoves(b, from, p.Color, rookDirs[:])...)
	case King:
		moves := leaperMoves(b, from, p.Color, kingDeltas[:])
		return append(moves, castlingMoves(b, from, p.Color)...)
	default:
		return nil
	}
}

// PseudoLegalMovesForSide returns every pseudo-legal move available to c.
func PseudoLegalMovesForSide(b *Board, c Color) []Move {
	var moves []Move
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			p := b.Squares[r][col]
			if p.Empty() || p.Color != c {
				continue
			}
			moves = append(moves, PseudoLegalMoves(b, Square{Row: r, Col: col})...)
		}
	}
	return moves
}

func pawnMoves(b *Board, from Square, c Color) []Move {
	var moves []Move
	dir := pawnDir(c)
	one := from.add(dir, 0)

	if one.Valid() && b.At(one).Empty() {
		moves = append(moves, pawnMove(from, one))

		if from.Row == startRank(c) {
			two := from.add(2*dir, 0)
			if two.Valid() && b.At(two).Empty() {
				moves = append(moves, Move{From: from, To: two, Kind: Quiet})
			}
		}
	}

	for _, dc := range []int{-1, 1} {
		to := from.add(dir, dc)
		if !to.Valid() {
			continue
		}
		target := b.At(to)
		if !target.Empty() && target.Color != c {
			moves = append(moves, pawnCapture(from, to))
		} else if b.EnPassant != nil && *b.EnPassant == to {
			moves = append(moves, Move{From: from, To: to, Kind: EnPassantMove})
		}
	}

	return moves
}

func pawnMove(from, to Square) Move {
	if to.Row == 0 || to.Row == 7 {
		return Move{From: from, To: to, Kind: PromotionMove}
	}
	return Move{From: from, To: to, Kind: Quiet}
}

func pawnCapture(from, to Square) Move {
	if to.Row == 0 || to.Row == 7 {
		return Move{From: from, To: to, Kind: PromotionCaptureMove}
	}
	return Move{From: from, To: to, Kind: CaptureMove}
}

func leaperMoves(b *Board, from Square, c Color, deltas [][2]int) []Move {
	var moves []Move
	for _, d := range deltas {
		to := from.add(d[0], d[1])
		if !to.Valid() {
			continue
		}
		target := b.At(to)
		if target.Empty() {
			moves = append(moves, Move{From: from, To: to, Kind: Quiet})
		} else if target.Color != c {
			moves = append(moves, Move{From: from, To: to, Kind: CaptureMove})
		}
	}
	return moves
}

func sliderMoves(b *Board, from Square, c Color, dirs [][2]int) []Move {
	var moves []Move
	for _, d := range dirs {
		to := from.add(d[0], d[1])
		for to.Valid() {
			target := b.At(to)
			if target.Empty() {
				moves = append(moves, Move{From: from, To: to, Kind: Quiet})
			} else {
				if target.Color != c {
					moves = append(moves, Move{From: from, To: to, Kind: CaptureMove})
				}
				break
			}
			to = to.add(d[0], d[1])
		}
	}
	return moves
}

func castlingMoves(b *Board, from Square, c Color) []Move {
	var moves []Move
	rank := 7
	if c == Black {
		rank = 0
	}
	if from != (Square{Row: rank, Col: 4}) {
		return nil
	}

	kingside, queenside := b.Castling.WhiteKingside, b.Castling.WhiteQueenside
	if c == Black {
		kingside, queenside = b.Castling.BlackKingside, b.Castling.BlackQueenside
	}

	if kingside &&
		b.At(Square{Row: rank, Col: 5}).Empty() &&
		b.At(Square{Row: rank, Col: 6}).Empty() &&
		!IsAttacked(b, from, c.Opposite()) &&
		!IsAttacked(b, Square{Row: rank, Col: 5}, c.Opposite()) &&
		!IsAttacked(b, Square{Row: rank, Col: 6}, c.Opposite()) {
		moves = append(moves, Move{From: from, To: Square{Row: rank, Col: 6}, Kind: CastleKingside})
	}

	if queenside &&
		b.At(Square{Row: rank, Col: 3}).Empty() &&
		b.At(Square{Row: rank, Col: 2}).Empty() &&
		b.At(Square{Row: rank, Col: 1}).Empty() &&
		!IsAttacked(b, from, c.Opposite()) &&
		!IsAttacked(b, Square{Row: rank, Col: 3}, c.Opposite()) &&
		!IsAttacked(b, Square{Row: rank, Col: 2}, c.Opposite()) {
		moves = append(moves, Move{From: from, To: Square{Row: rank, Col: 2}, Kind: CastleQueenside})
	}

	return moves
}

// IsAttacked reports whether sq is attacked by any piece of color by.
// Pawn attacks use the two forward diagonals, distinct from pushes.
// Sliding attackers stop at the first occupied square but count it as
// attacked.
func IsAttacked(b *Board, sq Square, by Color) bool {
	dir := pawnDir(by)
	for _, dc := range []int{-1, 1} {
		src := sq.add(-dir, -dc)
		if !src.Valid() {
			continue
		}
		p := b.At(src)
		if p.Kind == Pawn && p.Color == by {
			return true
		}
	}

	for _, d := range knightDeltas {
		src := sq.add(d[0], d[1])
		if !src.Valid() {
			continue
		}
		p := b.At(src)
		if p.Kind == Knight && p.Color == by {
			return true
		}
	}

	for _, d := range kingDeltas {
		src := sq.add(d[0], d[1])
		if !src.Valid() {
			continue
		}
		p := b.At(src)
		if p.Kind == King && p.Color == by {
			return true
		}
	}

	if slidingAttack(b, sq, by, bishopDirs[:], Bishop, Queen) {
		return true
	}
	if slidingAttack(b, sq, by, rookDirs[:], Rook, Queen) {
		return true
	}

	return false
}

func slidingAttack(b *Board, sq Square, by Color, dirs [][2]int, k1, k2 Kind) bool {
	for _, d := range dirs {
		to := sq.add(d[0], d[1])
		for to.Valid() {
			p := b.At(to)
			if !p.Empty() {
				if p.Color == by && (p.Kind == k1 || p.Kind == k2) {
					return true
				}
				break
			}
			to = to.add(d[0], d[1])
		}
	}
	return false
}

// InCheck reports whether c's king is currently attacked.
func InCheck(b *Board, c Color) bool {
	king, ok := b.KingSquare(c)
	if !ok {
		return false
	}
	return IsAttacked(b, king, c.Opposite())
}

// LegalMoves returns the pseudo-legal moves from `from` that do not
// leave the mover's own king in check.
func LegalMoves(b *Board, from Square) []Move {
	p := b.At(from)
	if p.Empty() {
		return nil
	}

	var legal []Move
	for _, m := range PseudoLegalMoves(b, from) {
		if m.Kind == PromotionMove || m.Kind == PromotionCaptureMove {
			m.Promotion = Queen // placeholder for the safety probe only
		}
		rec, err := Apply(b, m)
		if err != nil {
			continue
		}
		safe := !InCheck(b, p.Color)
		Unmake(b, rec)
		if safe {
			if m.Kind == PromotionMove || m.Kind == PromotionCaptureMove {
				m.Promotion = None
			}
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalMovesForSide returns every legal move available to c.
func LegalMovesForSide(b *Board, c Color) []Move {
	var moves []Move
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			p := b.Squares[r][col]
			if p.Empty() || p.Color != c {
				continue
			}
			moves = append(moves, LegalMoves(b, Square{Row: r, Col: col})...)
		}
	}
	return moves
}
