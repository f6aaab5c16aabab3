// Move application and reversal (make/unmake), avoiding a full board
// clone on every legality probe.

package chess

import "errors"

// ErrPromotionRequired is returned by Apply when a pawn move reaches
// the back rank without a chosen promotion kind.
var ErrPromotionRequired = errors.New("promotion required")

// ErrNoPieceAtSource is returned by Apply when From is empty.
var ErrNoPieceAtSource = errors.New("no piece at source")

// Apply mutates b according to m, appends a MoveRecord to b.History
// and returns it. The caller is responsible for having already
// established that m is legal; Apply only rejects an empty source
// square and a missing promotion choice.
func Apply(b *Board, m Move) (MoveRecord, error) {
	piece := b.At(m.From)
	if piece.Empty() {
		return MoveRecord{}, ErrNoPieceAtSource
	}
	if (m.Kind == PromotionMove || m.Kind == PromotionCaptureMove) && m.Promotion == None {
		return MoveRecord{}, ErrPromotionRequired
	}

	rec := MoveRecord{
		From:         m.From,
		To:           m.To,
		Piece:        piece,
		Kind:         m.Kind,
		Promotion:    m.Promotion,
		prevCastling: b.Castling,
		prevHalfmove: b.HalfmoveClock,
	}
	if b.EnPassant != nil {
		ep := *b.EnPassant
		rec.prevEnPassant = &ep
	}

	captured := false

	switch m.Kind {
	case CastleKingside, CastleQueenside:
		rank := m.From.Row
		b.Squares[m.From.Row][m.From.Col] = Piece{}
		b.Squares[m.To.Row][m.To.Col] = piece

		rookFrom, rookTo := Square{Row: rank, Col: 7}, Square{Row: rank, Col: 5}
		if m.Kind == CastleQueenside {
			rookFrom, rookTo = Square{Row: rank, Col: 0}, Square{Row: rank, Col: 3}
		}
		rook := b.At(rookFrom)
		b.Squares[rookFrom.Row][rookFrom.Col] = Piece{}
		b.Squares[rookTo.Row][rookTo.Col] = rook

	case EnPassantMove:
		capturedSq := Square{Row: m.From.Row, Col: m.To.Col}
		rec.CapturedPiece = b.At(capturedSq)
		b.Squares[capturedSq.Row][capturedSq.Col] = Piece{}
		b.Squares[m.From.Row][m.From.Col] = Piece{}
		b.Squares[m.To.Row][m.To.Col] = piece
		captured = true

	case PromotionMove, PromotionCaptureMove:
		target := b.At(m.To)
		if !target.Empty() {
			rec.CapturedPiece = target
			captured = true
		}
		b.Squares[m.From.Row][m.From.Col] = Piece{}
		b.Squares[m.To.Row][m.To.Col] = Piece{Kind: m.Promotion, Color: piece.Color}

	default: // Quiet, CaptureMove
		target := b.At(m.To)
		if !target.Empty() {
			rec.CapturedPiece = target
			captured = true
		}
		b.Squares[m.From.Row][m.From.Col] = Piece{}
		b.Squares[m.To.Row][m.To.Col] = piece
	}

	if piece.Kind == King {
		clearCastlingRights(b, piece.Color)
	}
	clearCornerRight(b, m.From)
	clearCornerRight(b, m.To)

	b.EnPassant = nil
	if piece.Kind == Pawn && absInt(m.To.Row-m.From.Row) == 2 {
		mid := Square{Row: (m.From.Row + m.To.Row) / 2, Col: m.From.Col}
		b.EnPassant = &mid
	}

	if piece.Kind == Pawn || captured {
		b.HalfmoveClock = 0
	} else {
		b.HalfmoveClock++
	}

	if piece.Color == Black {
		b.FullmoveNumber++
	}

	if captured {
		if piece.Color == White {
			b.CapturedByWhite = append(b.CapturedByWhite, rec.CapturedPiece)
		} else {
			b.CapturedByBlack = append(b.CapturedByBlack, rec.CapturedPiece)
		}
	}

	b.SideToMove = b.SideToMove.Opposite()
	b.History = append(b.History, rec)

	return rec, nil
}

// Unmake reverses the most recently applied move, restoring b to its
// exact pre-move state. Callers must unmake in strict LIFO order
// relative to Apply.
func Unmake(b *Board, rec MoveRecord) {
	b.SideToMove = b.SideToMove.Opposite()
	if rec.Piece.Color == Black {
		b.FullmoveNumber--
	}
	b.HalfmoveClock = rec.prevHalfmove
	b.Castling = rec.prevCastling
	b.EnPassant = rec.prevEnPassant

	switch rec.Kind {
	case CastleKingside, CastleQueenside:
		rank := rec.From.Row
		b.Squares[rec.From.Row][rec.From.Col] = rec.Piece
		b.Squares[rec.To.Row][rec.To.Col] = Piece{}

		rookFrom, rookTo := Square{Row: rank, Col: 7}, Square{Row: rank, Col: 5}
		if rec.Kind == CastleQueenside {
			rookFrom, rookTo = Square{Row: rank, Col: 0}, Square{Row: rank, Col: 3}
		}
		rook := b.At(rookTo)
		b.Squares[rookTo.Row][rookTo.Col] = Piece{}
		b.Squares[rookFrom.Row][rookFrom.Col] = rook

	case EnPassantMove:
		capturedSq := Square{Row: rec.From.Row, Col: rec.To.Col}
		b.Squares[rec.From.Row][rec.From.Col] = rec.Piece
		b.Squares[rec.To.Row][rec.To.Col] = Piece{}
		b.Squares[capturedSq.Row][capturedSq.Col] = rec.CapturedPiece

	default: // Quiet, CaptureMove, PromotionMove, PromotionCaptureMove
		b.Squares[rec.From.Row][rec.From.Col] = rec.Piece
		b.Squares[rec.To.Row][rec.To.Col] = rec.CapturedPiece
	}

	if !rec.CapturedPiece.Empty() {
		if rec.Piece.Color == White {
			b.CapturedByWhite = b.CapturedByWhite[:len(b.CapturedByWhite)-1]
		} else {
			b.CapturedByBlack = b.CapturedByBlack[:len(b.CapturedByBlack)-1]
		}
	}

	if n := len(b.History); n > 0 {
		b.History = b.History[:n-1]
	}
}

func clearCastlingRights(b *Board, c Color) {
	if c == White {
		b.Castling.WhiteKingside = false
		b.Castling.WhiteQueenside = false
	} else {
		b.Castling.BlackKingside = false
		b.Castling.BlackQueenside = false
	}
}

func clearCornerRight(b *Board, sq Square) {
	switch sq {
	case Square{Row: 7, Col: 0}:
		b.Castling.WhiteQueenside = false
	case Square{Row: 7, Col: 7}:
		b.Castling.WhiteKingside = false
	case Square{Row: 0, Col: 0}:
		b.Castling.BlackQueenside = false
	case Square{Row: 0, Col: 7}:
		b.Castling.BlackKingside = false
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
