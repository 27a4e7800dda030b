// Package game tracks a chess game: the positions reached, the moves that
// led to them, and an undo/redo cursor over that line.
package game

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
)

// ErrGameOver is returned when a move is attempted in a finished game.
var ErrGameOver = errors.New("game is over")

// Game is a sequence of positions with a cursor. positions[0] is the
// starting position and positions[i+1] follows from moves[i]. Entries
// beyond the cursor form the redo tail.
type Game struct {
	positions []board.Position
	moves     []board.Move
	cursor    int
}

// New creates a game starting at pos.
func New(pos board.Position) *Game {
	return &Game{positions: []board.Position{pos}}
}

// NewGame creates a game from the standard starting position.
func NewGame() *Game {
	return New(board.NewPosition())
}

// FromFEN creates a game starting at the given position text.
func FromFEN(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return New(pos), nil
}

// FromFENs rebuilds a game from its successive positions. Each position
// after the first must follow from the previous one by a legal move.
func FromFENs(fens []string) (*Game, error) {
	if len(fens) == 0 {
		return nil, errors.New("empty game record")
	}
	g, err := FromFEN(fens[0])
	if err != nil {
		return nil, err
	}

	for i, fen := range fens[1:] {
		next, err := board.ParseFEN(fen)
		if err != nil {
			return nil, fmt.Errorf("record entry %d: %w", i+1, err)
		}
		m, ok := moveBetween(g.Position(), next)
		if !ok {
			return nil, fmt.Errorf("record entry %d: no legal move reaches %s", i+1, fen)
		}
		if err := g.Play(m); err != nil {
			return nil, fmt.Errorf("record entry %d: %w", i+1, err)
		}
	}
	return g, nil
}

// moveBetween finds the legal move that turns from into to.
func moveBetween(from, to board.Position) (board.Move, bool) {
	moves := board.LegalMoveList(from)
	reached := make([]board.Position, len(moves))
	for i, m := range moves {
		next, err := board.Apply(from, m)
		if err != nil {
			continue
		}
		reached[i] = next
	}
	i := slices.Index(reached, to)
	if i < 0 {
		return board.NoMove, false
	}
	return moves[i], true
}

// Position returns the current position.
func (g *Game) Position() board.Position {
	return g.positions[g.cursor]
}

// History returns the positions of the current line from the start up to
// and including the current one.
func (g *Game) History() []board.Position {
	return slices.Clone(g.positions[:g.cursor+1])
}

// Moves returns the moves played to reach the current position.
func (g *Game) Moves() []board.Move {
	return slices.Clone(g.moves[:g.cursor])
}

// SANHistory returns the SAN text of Moves.
func (g *Game) SANHistory() []string {
	return board.MovesToSAN(g.positions[0], g.moves[:g.cursor])
}

// FENs returns the position text of every entry in History.
func (g *Game) FENs() []string {
	fens := make([]string, 0, g.cursor+1)
	for _, pos := range g.positions[:g.cursor+1] {
		fens = append(fens, pos.FEN())
	}
	return fens
}

// LastMove returns the move that reached the current position, or NoMove.
func (g *Game) LastMove() board.Move {
	if g.cursor == 0 {
		return board.NoMove
	}
	return g.moves[g.cursor-1]
}

// Status classifies the current position against the game's history.
func (g *Game) Status() board.Status {
	return board.Classify(g.Position(), g.positions[:g.cursor+1])
}

// Play checks and plays m from the current position. Any redo tail is
// discarded. A pawn reaching the last rank without a promotion piece
// fails with board.ErrPromotionRequired and leaves the game unchanged.
func (g *Game) Play(m board.Move) error {
	pos := g.Position()
	if st := g.Status(); st.Terminal() {
		return fmt.Errorf("%s: %w", st, ErrGameOver)
	}
	if !board.IsLegal(pos, m) {
		return &board.IllegalMoveError{Move: m, Reason: "not a legal move"}
	}
	next, err := board.Apply(pos, m)
	if err != nil {
		return err
	}

	g.positions = append(g.positions[:g.cursor+1], next)
	g.moves = append(g.moves[:g.cursor], m)
	g.cursor++
	return nil
}

// PlayUCI parses a move in UCI text ("e2e4", "e7e8q") and plays it.
func (g *Game) PlayUCI(s string) error {
	m, err := board.ParseMove(s)
	if err != nil {
		return err
	}
	return g.Play(m)
}

// PlaySAN parses a move in SAN ("Nf3", "exd5", "O-O") and plays it.
func (g *Game) PlaySAN(s string) error {
	m, err := board.ParseSAN(s, g.Position())
	if err != nil {
		return err
	}
	return g.Play(m)
}

// CanUndo returns true if there is a move to take back.
func (g *Game) CanUndo() bool {
	return g.cursor > 0
}

// CanRedo returns true if an undone move can be replayed.
func (g *Game) CanRedo() bool {
	return g.cursor < len(g.positions)-1
}

// Undo steps back one move. It returns false at the start of the game.
func (g *Game) Undo() bool {
	if !g.CanUndo() {
		return false
	}
	g.cursor--
	return true
}

// Redo replays the most recently undone move. It returns false when there
// is nothing to redo.
func (g *Game) Redo() bool {
	if !g.CanRedo() {
		return false
	}
	g.cursor++
	return true
}

// Result describes a finished game, e.g. "White wins by checkmate", or
// returns "" while the game is ongoing.
func (g *Game) Result() string {
	st := g.Status()
	switch st.Kind {
	case board.Ongoing:
		return ""
	case board.Checkmate:
		return st.Winner().String() + " wins by checkmate"
	case board.Stalemate:
		return "Draw by stalemate"
	case board.FiftyMoveDraw:
		return "Draw by 50-move rule"
	case board.RepetitionDraw:
		return "Draw by threefold repetition"
	}
	return ""
}

// SameLine reports whether two games share the same starting position and
// moves up to their cursors.
func SameLine(a, b *Game) bool {
	return a.positions[0] == b.positions[0] && slices.Equal(a.Moves(), b.Moves())
}
