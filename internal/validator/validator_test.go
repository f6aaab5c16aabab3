package validator

import (
	"testing"

	"chessd/internal/chess"
)

func TestValidateRejectsWrongTurn(t *testing.T) {
	b := chess.NewBoard()
	result := Validate(b, chess.Square{Row: 1, Col: 4}, chess.Square{Row: 3, Col: 4}, "", chess.Black)
	if result.Reason != NotYourTurn {
		t.Fatalf("reason = %v, want NotYourTurn", result.Reason)
	}
}

func TestValidateRejectsNotYourPiece(t *testing.T) {
	b := chess.NewBoard()
	result := Validate(b, chess.Square{Row: 1, Col: 4}, chess.Square{Row: 3, Col: 4}, "", chess.White)
	if result.Reason != NotYourPiece {
		t.Fatalf("reason = %v, want NotYourPiece", result.Reason)
	}
}

func TestValidateRejectsEmptySquare(t *testing.T) {
	b := chess.NewBoard()
	result := Validate(b, chess.Square{Row: 4, Col: 4}, chess.Square{Row: 3, Col: 4}, "", chess.White)
	if result.Reason != NoPieceAtSource {
		t.Fatalf("reason = %v, want NoPieceAtSource", result.Reason)
	}
}

func TestValidateAcceptsLegalOpeningMove(t *testing.T) {
	b := chess.NewBoard()
	result := Validate(b, chess.Square{Row: 6, Col: 4}, chess.Square{Row: 4, Col: 4}, "", chess.White)
	if !result.Valid() {
		t.Fatalf("e2-e4 rejected: %v", result.Reason)
	}
}

func TestValidateRejectsGeometricallyImpossibleMove(t *testing.T) {
	b := chess.NewBoard()
	result := Validate(b, chess.Square{Row: 6, Col: 4}, chess.Square{Row: 2, Col: 4}, "", chess.White)
	if result.Reason != MoveNotLegal {
		t.Fatalf("reason = %v, want MoveNotLegal", result.Reason)
	}
}

func TestValidateDistinguishesPinnedPieceFromIllegalGeometry(t *testing.T) {
	b := &chess.Board{SideToMove: chess.White, FullmoveNumber: 1}
	b.Squares[7][4] = chess.Piece{Kind: chess.King, Color: chess.White}
	b.Squares[0][4] = chess.Piece{Kind: chess.King, Color: chess.Black}
	b.Squares[6][4] = chess.Piece{Kind: chess.Pawn, Color: chess.White}
	// A black rook on e6 pins the e2 pawn to the e1 king along the
	// e-file.
	b.Squares[2][4] = chess.Piece{Kind: chess.Rook, Color: chess.Black}
	// A black pawn on f3 gives the pinned pawn a capture that would
	// step off the e-file.
	b.Squares[5][5] = chess.Piece{Kind: chess.Pawn, Color: chess.Black}

	result := Validate(b, chess.Square{Row: 6, Col: 4}, chess.Square{Row: 5, Col: 3}, "", chess.White)
	if result.Reason != MoveNotLegal {
		t.Fatalf("reason = %v, want MoveNotLegal (not even a pawn capture shape)", result.Reason)
	}

	result = Validate(b, chess.Square{Row: 6, Col: 4}, chess.Square{Row: 5, Col: 5}, "", chess.White)
	if result.Reason != WouldLeaveKingInCheck {
		t.Fatalf("reason = %v, want WouldLeaveKingInCheck", result.Reason)
	}
}

func TestValidatePromotionRequired(t *testing.T) {
	b := &chess.Board{SideToMove: chess.White, FullmoveNumber: 1}
	b.Squares[7][4] = chess.Piece{Kind: chess.King, Color: chess.White}
	b.Squares[0][4] = chess.Piece{Kind: chess.King, Color: chess.Black}
	b.Squares[1][0] = chess.Piece{Kind: chess.Pawn, Color: chess.White}

	result := Validate(b, chess.Square{Row: 1, Col: 0}, chess.Square{Row: 0, Col: 0}, "", chess.White)
	if result.Reason != PromotionRequired {
		t.Fatalf("reason = %v, want PromotionRequired", result.Reason)
	}

	result = Validate(b, chess.Square{Row: 1, Col: 0}, chess.Square{Row: 0, Col: 0}, "q", chess.White)
	if !result.Valid() || result.Promotion != chess.Queen {
		t.Fatalf("result = %+v, want a valid queen promotion", result)
	}
}

func TestValidatePromotionInvalidLetter(t *testing.T) {
	b := &chess.Board{SideToMove: chess.White, FullmoveNumber: 1}
	b.Squares[7][4] = chess.Piece{Kind: chess.King, Color: chess.White}
	b.Squares[0][4] = chess.Piece{Kind: chess.King, Color: chess.Black}
	b.Squares[1][0] = chess.Piece{Kind: chess.Pawn, Color: chess.White}

	result := Validate(b, chess.Square{Row: 1, Col: 0}, chess.Square{Row: 0, Col: 0}, "k", chess.White)
	if result.Reason != PromotionInvalid {
		t.Fatalf("reason = %v, want PromotionInvalid", result.Reason)
	}
}
