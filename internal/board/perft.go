package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// It is the standard check of move generation against known counts.
func Perft(pos Position, depth int) int64 {
	if depth <= 0 {
		return 1
	}

	moves := LegalMoveList(pos)
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		next, err := Apply(pos, m)
		if err != nil {
			continue
		}
		nodes += Perft(next, depth-1)
	}
	return nodes
}

// Divide returns the perft count below each legal root move, in move
// list order.
func Divide(pos Position, depth int) ([]Move, []int64) {
	moves := LegalMoveList(pos)
	counts := make([]int64, len(moves))
	for i, m := range moves {
		next, err := Apply(pos, m)
		if err != nil {
			continue
		}
		counts[i] = Perft(next, depth-1)
	}
	return moves, counts
}
