package board

// FiftyMoveLimit is the half-move clock value at which the game is drawn:
// fifty full moves by each side without a pawn move or capture.
const FiftyMoveLimit = 100

// repetitionLimit is the number of occurrences that draws the game.
const repetitionLimit = 3

// StatusKind classifies a position as ongoing or terminal.
type StatusKind uint8

const (
	Ongoing StatusKind = iota
	Checkmate
	Stalemate
	FiftyMoveDraw
	RepetitionDraw
)

// String returns a human readable name.
func (k StatusKind) String() string {
	switch k {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "fifty-move draw"
	case RepetitionDraw:
		return "threefold repetition"
	default:
		return "unknown"
	}
}

// Status is the result of Classify. Loser is the mated side when Kind is
// Checkmate and NoColor otherwise.
type Status struct {
	Kind  StatusKind
	Loser Color
}

// Terminal returns true if the game is over.
func (s Status) Terminal() bool {
	return s.Kind != Ongoing
}

// Winner returns the side that delivered mate, or NoColor.
func (s Status) Winner() Color {
	if s.Kind != Checkmate {
		return NoColor
	}
	return s.Loser.Other()
}

// String describes the status, e.g. "checkmate (White is mated)".
func (s Status) String() string {
	if s.Kind == Checkmate {
		return s.Kind.String() + " (" + s.Loser.String() + " is mated)"
	}
	return s.Kind.String()
}

// Classify reports whether the game at pos is over. history holds the
// earlier positions of the game in order; if its last entry is pos itself
// it is treated as the current position, not as an earlier one.
//
// Checkmate and stalemate take precedence over the draw rules.
func Classify(pos Position, history []Position) Status {
	if !HasLegalMoves(pos) {
		if InCheck(pos, pos.SideToMove) {
			return Status{Kind: Checkmate, Loser: pos.SideToMove}
		}
		return Status{Kind: Stalemate, Loser: NoColor}
	}
	if pos.HalfMoveClock >= FiftyMoveLimit {
		return Status{Kind: FiftyMoveDraw, Loser: NoColor}
	}
	if Repetitions(pos, history) >= repetitionLimit {
		return Status{Kind: RepetitionDraw, Loser: NoColor}
	}
	return Status{Kind: Ongoing, Loser: NoColor}
}

// Repetitions counts how often the placement of pos has occurred, pos
// included. Side to move, rights and counters are ignored.
func Repetitions(pos Position, history []Position) int {
	if n := len(history); n > 0 && history[n-1] == pos {
		history = history[:n-1]
	}
	count := 1
	for i := range history {
		if history[i].Board == pos.Board {
			count++
		}
	}
	return count
}
