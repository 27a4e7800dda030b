package board

import "fmt"

// cornerRights maps a rook home square to the right it carries.
var cornerRights = map[Square]CastlingRights{
	H1: WhiteKingSideCastle,
	A1: WhiteQueenSideCastle,
	H8: BlackKingSideCastle,
	A8: BlackQueenSideCastle,
}

// Apply returns the position after playing m in pos. pos itself is left
// untouched.
//
// Apply checks only that the move can be carried out: both squares on the
// board, a piece on From, and a valid promotion piece. It does not check
// that the mover's own king is safe; LegalMoves uses Apply to try moves
// that may turn out to be illegal.
func Apply(pos Position, m Move) (Position, error) {
	if !m.From.IsValid() || !m.To.IsValid() {
		return Position{}, &IllegalMoveError{Move: m, Reason: "square out of range"}
	}
	piece := pos.Board[m.From]
	if piece == NoPiece {
		return Position{}, &IllegalMoveError{Move: m, Reason: fmt.Sprintf("no piece on %s", m.From)}
	}
	if m.IsPromotion() && !m.Promotion.IsPromotionKind() {
		return Position{}, &IllegalMoveError{Move: m, Reason: fmt.Sprintf("cannot promote to %s", m.Promotion)}
	}
	promotes := needsPromotion(piece, m.To)
	if promotes && !m.IsPromotion() {
		return Position{}, fmt.Errorf("%s: %w", m, ErrPromotionRequired)
	}

	us := piece.Color()
	pt := piece.Type()
	enPassant := m.IsEnPassant(pos)
	capture := pos.Board[m.To] != NoPiece || enPassant

	next := pos

	// 1. Move the piece, promoting if needed.
	next.Board[m.From] = NoPiece
	if promotes {
		next.Board[m.To] = NewPiece(m.Promotion, us)
	} else {
		next.Board[m.To] = piece
	}

	// 2. Side to move.
	next.SideToMove = pos.SideToMove.Other()

	// 3. Castling rights.
	if pt == King {
		next.CastlingRights &^= castleRight(us, true) | castleRight(us, false)
	}
	next.CastlingRights &^= cornerRights[m.From] | cornerRights[m.To]

	// 4. Castling moves the rook too.
	if pt == King {
		if cs, ok := castleFor(m.From, m.To); ok && cs.right.color() == us && next.Board[cs.rook] == NewPiece(Rook, us) {
			next.Board[cs.rookTo] = next.Board[cs.rook]
			next.Board[cs.rook] = NoPiece
		}
	}

	// 5. En passant target and capture.
	next.EnPassant = NoSquare
	if pt == Pawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		skipped, _ := m.From.Offset(0, pawnDirection(us))
		next.EnPassant = skipped
	}
	if enPassant {
		// The captured pawn sits behind the target, on the mover's rank.
		next.Board[NewSquare(m.To.File(), m.From.Rank())] = NoPiece
	}

	// 6. Counters.
	if pt == Pawn || capture {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock = pos.HalfMoveClock + 1
	}
	if pos.SideToMove == Black {
		next.FullMoveNumber = pos.FullMoveNumber + 1
	}

	return next, nil
}

// ApplyAll plays a sequence of UCI moves from pos, checking each for
// legality, and returns every position reached (pos excluded).
func ApplyAll(pos Position, moves ...string) ([]Position, error) {
	positions := make([]Position, 0, len(moves))
	cur := pos
	for _, s := range moves {
		m, err := ParseMove(s)
		if err != nil {
			return positions, err
		}
		if !IsLegal(cur, m) {
			return positions, &IllegalMoveError{Move: m, Reason: "not legal in " + cur.FEN()}
		}
		next, err := Apply(cur, m)
		if err != nil {
			return positions, err
		}
		positions = append(positions, next)
		cur = next
	}
	return positions, nil
}
