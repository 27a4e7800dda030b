package engine

import (
	"math"

	"github.com/hailam/chesscore/internal/board"
)

// PieceValue is the material value of each piece type in pawns. Kings are
// not counted.
var PieceValue = [7]float64{
	board.Pawn:        1,
	board.Knight:      3,
	board.Bishop:      3.2,
	board.Rook:        5,
	board.Queen:       9,
	board.King:        0,
	board.NoPieceType: 0,
}

// Material returns the material balance of pos, positive when White is
// ahead. The sum is rounded to one decimal so that fractional bishop
// values compare exactly.
func Material(pos board.Position) float64 {
	score := 0.0
	for _, pc := range pos.Board {
		if pc == board.NoPiece {
			continue
		}
		v := PieceValue[pc.Type()]
		if pc.Color() == board.White {
			score += v
		} else {
			score -= v
		}
	}
	return math.Round(score*10) / 10
}

// terminalScore scores a position with no legal moves: the mated side
// gets an infinite loss, stalemate is level.
func terminalScore(pos board.Position) float64 {
	if !board.InCheck(pos, pos.SideToMove) {
		return 0
	}
	if pos.SideToMove == board.White {
		return math.Inf(-1)
	}
	return math.Inf(1)
}
