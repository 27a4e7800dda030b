package board

// castleSpec describes one castling option.
type castleSpec struct {
	right    CastlingRights
	king     Square   // king home square
	kingTo   Square   // king destination
	rook     Square   // rook home square
	rookTo   Square   // rook destination
	empty    []Square // squares between king and rook
	safe     []Square // king start, transit and destination
	kingSide bool
}

var castles = [4]castleSpec{
	{WhiteKingSideCastle, E1, G1, H1, F1, []Square{F1, G1}, []Square{E1, F1, G1}, true},
	{WhiteQueenSideCastle, E1, C1, A1, D1, []Square{D1, C1, B1}, []Square{E1, D1, C1}, false},
	{BlackKingSideCastle, E8, G8, H8, F8, []Square{F8, G8}, []Square{E8, F8, G8}, true},
	{BlackQueenSideCastle, E8, C8, A8, D8, []Square{D8, C8, B8}, []Square{E8, D8, C8}, false},
}

// castleFor returns the castling option whose king moves from -> to.
func castleFor(from, to Square) (castleSpec, bool) {
	for _, cs := range castles {
		if cs.king == from && cs.kingTo == to {
			return cs, true
		}
	}
	return castleSpec{}, false
}

// PseudoLegalTargets returns the destinations the piece on sq can reach
// geometrically, ignoring whether its own king is left attacked. The
// piece's colour decides direction and friendliness, not the side to move.
func PseudoLegalTargets(sq Square, pos Position) []Square {
	pc := pos.PieceAt(sq)
	if pc == NoPiece {
		return nil
	}

	var targets []Square
	switch pc.Type() {
	case Pawn:
		targets = pawnTargets(pos, sq, pc.Color())
	case Knight:
		targets = leaperTargets(pos, sq, pc.Color(), knightOffsets)
	case Bishop:
		targets = slideTargets(pos, sq, pc.Color(), bishopDirections)
	case Rook:
		targets = slideTargets(pos, sq, pc.Color(), rookDirections)
	case Queen:
		targets = slideTargets(pos, sq, pc.Color(), queenDirections)
	case King:
		targets = kingMoves(pos, sq, pc.Color())
	}

	// Offset already keeps every candidate on the board; this is the
	// combined enumerator's final bounds check.
	n := 0
	for _, to := range targets {
		if to.IsValid() {
			targets[n] = to
			n++
		}
	}
	return targets[:n]
}

// slideTargets steps along each ray: empties are added and the ray goes
// on, the first enemy is added and ends the ray, a friend ends it.
func slideTargets(pos Position, from Square, us Color, dirs []direction) []Square {
	var targets []Square
	for _, d := range dirs {
		sq := from
		for {
			next, ok := sq.Offset(d.df, d.dr)
			if !ok {
				break
			}
			pc := pos.Board[next]
			if pc == NoPiece {
				targets = append(targets, next)
				sq = next
				continue
			}
			if pc.Color() != us {
				targets = append(targets, next)
			}
			break
		}
	}
	return targets
}

// leaperTargets returns the fixed-offset squares not held by a friend.
func leaperTargets(pos Position, from Square, us Color, offsets []direction) []Square {
	targets := make([]Square, 0, len(offsets))
	for _, d := range offsets {
		to, ok := from.Offset(d.df, d.dr)
		if !ok {
			continue
		}
		if pc := pos.Board[to]; pc != NoPiece && pc.Color() == us {
			continue
		}
		targets = append(targets, to)
	}
	return targets
}

// kingMoves returns the king's neighbours plus any castling destinations.
func kingMoves(pos Position, from Square, us Color) []Square {
	targets := leaperTargets(pos, from, us, kingOffsets)
	for _, cs := range castles {
		if cs.king == from && canCastle(pos, us, cs) {
			targets = append(targets, cs.kingTo)
		}
	}
	return targets
}

// canCastle checks the right, the pieces on their home squares, the empty
// path, and that none of the king's three squares is attacked.
func canCastle(pos Position, us Color, cs castleSpec) bool {
	if pos.CastlingRights&cs.right == 0 {
		return false
	}
	if cs.right.color() != us {
		return false
	}
	if pos.Board[cs.king] != NewPiece(King, us) || pos.Board[cs.rook] != NewPiece(Rook, us) {
		return false
	}
	for _, sq := range cs.empty {
		if pos.Board[sq] != NoPiece {
			return false
		}
	}
	them := us.Other()
	for _, sq := range cs.safe {
		if IsAttacked(sq, them, pos) {
			return false
		}
	}
	return true
}

// color returns the side a single castling right belongs to.
func (cr CastlingRights) color() Color {
	if cr&(WhiteKingSideCastle|WhiteQueenSideCastle) != 0 {
		return White
	}
	return Black
}

// pawnTargets returns pushes, double pushes, captures and en passant.
func pawnTargets(pos Position, from Square, us Color) []Square {
	var targets []Square
	dr := pawnDirection(us)

	if one, ok := from.Offset(0, dr); ok && pos.Board[one] == NoPiece {
		targets = append(targets, one)
		if from.RelativeRank(us) == 1 {
			if two, ok := from.Offset(0, 2*dr); ok && pos.Board[two] == NoPiece {
				targets = append(targets, two)
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(df, dr)
		if !ok {
			continue
		}
		if pc := pos.Board[to]; pc != NoPiece {
			if pc.Color() != us {
				targets = append(targets, to)
			}
			continue
		}
		// En passant: the target is empty by definition and the pawn
		// must stand on the rank next to it.
		if to == pos.EnPassant && from.RelativeRank(us) == 4 {
			targets = append(targets, to)
		}
	}

	return targets
}
