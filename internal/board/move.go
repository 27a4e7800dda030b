package board

import "fmt"

// Move is a from/to pair with an optional promotion piece. Castling, en
// passant and double pushes are not flagged; they follow from the
// position the move is applied to.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType // NoPieceType when the move does not promote
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType}
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// IsPromotion returns true if the move names a promotion piece.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// IsCastling reports whether m is a castling move in pos.
func (m Move) IsCastling(pos Position) bool {
	return pos.PieceAt(m.From).Type() == King && m.From.Rank() == m.To.Rank() &&
		abs(m.To.File()-m.From.File()) == 2
}

// IsEnPassant reports whether m is an en passant capture in pos.
func (m Move) IsEnPassant(pos Position) bool {
	return pos.EnPassant != NoSquare && m.To == pos.EnPassant &&
		pos.PieceAt(m.From).Type() == Pawn && m.From.File() != m.To.File() &&
		pos.IsEmpty(m.To)
}

// IsCapture returns true if this move captures a piece in pos.
func (m Move) IsCapture(pos Position) bool {
	if m.IsEnPassant(pos) {
		return true
	}
	return !pos.IsEmpty(m.To)
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if !m.From.IsValid() || !m.To.IsValid() {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses a UCI format move string.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		promo := PieceTypeFromChar(s[4])
		if !promo.IsPromotionKind() {
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	return NewMove(from, to), nil
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
