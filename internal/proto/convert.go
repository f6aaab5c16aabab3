// Conversions between the chess engine's in-memory types and their
// wire representations.

package proto

import "chessd/internal/chess"

func SquareToWire(s chess.Square) SquareWire {
	return SquareWire{Row: s.Row, Col: s.Col}
}

func SquareFromWire(w SquareWire) chess.Square {
	return chess.Square{Row: w.Row, Col: w.Col}
}

func ColorToWire(c chess.Color) string {
	return c.String()
}

func pieceLetter(p chess.Piece) string {
	if p.Empty() {
		return ""
	}
	return p.Kind.Letter(p.Color)
}

// BoardToWire renders a full game-state snapshot for the wire,
// annotated with the given terminal status.
func BoardToWire(b *chess.Board, status chess.Status) GameStateWire {
	var w GameStateWire
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			w.Squares[r][c] = pieceLetter(b.Squares[r][c])
		}
	}
	w.SideToMove = ColorToWire(b.SideToMove)
	w.Castling = CastlingWire{
		WhiteKingside:  b.Castling.WhiteKingside,
		WhiteQueenside: b.Castling.WhiteQueenside,
		BlackKingside:  b.Castling.BlackKingside,
		BlackQueenside: b.Castling.BlackQueenside,
	}
	if b.EnPassant != nil {
		sq := SquareToWire(*b.EnPassant)
		w.EnPassant = &sq
	}
	w.HalfmoveClock = b.HalfmoveClock
	w.FullmoveNumber = b.FullmoveNumber
	for _, p := range b.CapturedByWhite {
		w.CapturedWhite = append(w.CapturedWhite, pieceLetter(p))
	}
	for _, p := range b.CapturedByBlack {
		w.CapturedBlack = append(w.CapturedBlack, pieceLetter(p))
	}
	w.Status = status.String()
	return w
}

func moveKindWire(k chess.MoveKind) string {
	switch k {
	case chess.CaptureMove:
		return "capture"
	case chess.CastleKingside:
		return "castleKingside"
	case chess.CastleQueenside:
		return "castleQueenside"
	case chess.EnPassantMove:
		return "enPassant"
	case chess.PromotionMove:
		return "promotion"
	case chess.PromotionCaptureMove:
		return "promotionCapture"
	default:
		return "quiet"
	}
}

// MoveRecordToWire renders an applied MoveRecord for the wire.
func MoveRecordToWire(rec chess.MoveRecord) MoveWire {
	w := MoveWire{
		From:  SquareToWire(rec.From),
		To:    SquareToWire(rec.To),
		Piece: pieceLetter(rec.Piece),
		Kind:  moveKindWire(rec.Kind),
	}
	if rec.Promotion != chess.None {
		w.Promotion = rec.Promotion.Letter(rec.Piece.Color)
	}
	return w
}
