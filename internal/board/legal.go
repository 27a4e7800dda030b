package board

// LegalMoves returns the legal destinations of the piece on sq. Each
// pseudo-legal destination is applied and kept only if the mover's king
// is not attacked afterwards. Castling, en passant and ordinary moves all
// go through this one check.
func LegalMoves(sq Square, pos Position) []Square {
	pc := pos.PieceAt(sq)
	if pc == NoPiece {
		return nil
	}
	us := pc.Color()

	var legal []Square
	for _, to := range PseudoLegalTargets(sq, pos) {
		if leavesKingSafe(pos, us, probeMove(pos, sq, to)) {
			legal = append(legal, to)
		}
	}
	return legal
}

// probeMove builds the move used to test a destination. A pawn reaching
// the last rank is tried as a queen; the promoted piece cannot change
// whether its own king is attacked.
func probeMove(pos Position, from, to Square) Move {
	if needsPromotion(pos.Board[from], to) {
		return NewPromotion(from, to, Queen)
	}
	return NewMove(from, to)
}

// leavesKingSafe applies m and checks that us is not in check afterwards.
func leavesKingSafe(pos Position, us Color, m Move) bool {
	next, err := Apply(pos, m)
	if err != nil {
		return false
	}
	return !InCheck(next, us)
}

// LegalMoveList returns every legal move of the side to move, scanning the
// board from a8 to h1. Promotions are expanded to queen, rook, bishop and
// knight, in that order.
func LegalMoveList(pos Position) []Move {
	var moves []Move
	for _, from := range pos.Squares(pos.SideToMove) {
		pc := pos.Board[from]
		for _, to := range LegalMoves(from, pos) {
			if needsPromotion(pc, to) {
				for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
					moves = append(moves, NewPromotion(from, to, pt))
				}
				continue
			}
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}

// HasLegalMoves returns true if the side to move has at least one legal
// move.
func HasLegalMoves(pos Position) bool {
	us := pos.SideToMove
	for _, from := range pos.Squares(us) {
		for _, to := range PseudoLegalTargets(from, pos) {
			if leavesKingSafe(pos, us, probeMove(pos, from, to)) {
				return true
			}
		}
	}
	return false
}

// IsLegal reports whether m is a legal move for the side to move.
func IsLegal(pos Position, m Move) bool {
	pc := pos.PieceAt(m.From)
	if pc == NoPiece || pc.Color() != pos.SideToMove {
		return false
	}
	for _, to := range LegalMoves(m.From, pos) {
		if to == m.To {
			return true
		}
	}
	return false
}

// needsPromotion reports whether moving pc to to puts a pawn on its last
// rank.
func needsPromotion(pc Piece, to Square) bool {
	return pc.Type() == Pawn && to.RelativeRank(pc.Color()) == 7
}
