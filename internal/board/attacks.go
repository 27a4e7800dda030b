package board

// direction is a (file, rank) step.
type direction struct {
	df, dr int
}

// Step tables. Order matters: move lists are produced in this order.
var (
	rookDirections   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirections = []direction{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	queenDirections  = append(append([]direction{}, rookDirections...), bishopDirections...)
	knightOffsets    = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets      = []direction{{1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}}
)

// pawnDirection returns the rank step of a pawn of color c.
func pawnDirection(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// IsAttacked returns true if sq is attacked by any piece of color by.
func IsAttacked(sq Square, by Color, pos Position) bool {
	if !sq.IsValid() {
		return false
	}
	for from := A1; from <= H8; from++ {
		pc := pos.Board[from]
		if pc == NoPiece || pc.Color() != by {
			continue
		}
		if attacks(pos, from, pc, sq) {
			return true
		}
	}
	return false
}

// InCheck returns true if the king of color c is attacked. A side without
// a king is never in check.
func InCheck(pos Position, c Color) bool {
	ksq := pos.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return IsAttacked(ksq, c.Other(), pos)
}

// attacks reports whether the piece pc standing on from attacks target.
func attacks(pos Position, from Square, pc Piece, target Square) bool {
	switch pc.Type() {
	case Pawn:
		return pawnAttacks(from, pc.Color(), target)
	case Knight:
		return leaperAttacks(from, knightOffsets, target)
	case Bishop:
		return sliderAttacks(pos, from, bishopDirections, target)
	case Rook:
		return sliderAttacks(pos, from, rookDirections, target)
	case Queen:
		return sliderAttacks(pos, from, queenDirections, target)
	case King:
		return kingAttacks(from, target)
	}
	return false
}

// pawnAttacks reports whether a pawn of color c on from attacks target.
// Only the forward diagonals count, whether or not they are occupied.
func pawnAttacks(from Square, c Color, target Square) bool {
	dr := pawnDirection(c)
	for _, df := range [2]int{-1, 1} {
		if sq, ok := from.Offset(df, dr); ok && sq == target {
			return true
		}
	}
	return false
}

// kingAttacks reports whether a king on from attacks target: the eight
// neighbours only, never the castling targets.
func kingAttacks(from Square, target Square) bool {
	return leaperAttacks(from, kingOffsets, target)
}

// leaperAttacks checks fixed-offset attacks (knight, king).
func leaperAttacks(from Square, offsets []direction, target Square) bool {
	for _, d := range offsets {
		if sq, ok := from.Offset(d.df, d.dr); ok && sq == target {
			return true
		}
	}
	return false
}

// sliderAttacks walks each ray from from until it leaves the board or
// hits an occupied square, which is itself attacked.
func sliderAttacks(pos Position, from Square, dirs []direction, target Square) bool {
	for _, d := range dirs {
		sq := from
		for {
			next, ok := sq.Offset(d.df, d.dr)
			if !ok {
				break
			}
			if next == target {
				return true
			}
			if pos.Board[next] != NoPiece {
				break
			}
			sq = next
		}
	}
	return false
}

// AttackersTo returns the squares of pieces of color by attacking sq, in
// scan order.
func AttackersTo(sq Square, by Color, pos Position) []Square {
	var attackers []Square
	for _, from := range ScanOrder {
		pc := pos.Board[from]
		if pc == NoPiece || pc.Color() != by {
			continue
		}
		if attacks(pos, from, pc, sq) {
			attackers = append(attackers, from)
		}
	}
	return attackers
}
