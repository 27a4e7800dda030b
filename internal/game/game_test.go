package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func playAll(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		if err := g.PlayUCI(m); err != nil {
			t.Fatalf("PlayUCI(%s): %v", m, err)
		}
	}
}

func moveStrings(moves []board.Move) []string {
	s := make([]string, len(moves))
	for i, m := range moves {
		s[i] = m.String()
	}
	return s
}

func TestPlayRecordsHistory(t *testing.T) {
	g := NewGame()
	playAll(t, g, "e2e4", "e7e5", "g1f3")

	if got := strings.Join(g.SANHistory(), " "); got != "e4 e5 Nf3" {
		t.Errorf("SAN history = %q", got)
	}
	if got := len(g.History()); got != 4 {
		t.Errorf("history length = %d, want 4", got)
	}
	if g.History()[0] != board.NewPosition() {
		t.Error("history does not start at the initial position")
	}
	if g.LastMove().String() != "g1f3" {
		t.Errorf("LastMove = %s, want g1f3", g.LastMove())
	}
	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"
	if got := g.Position().FEN(); got != want {
		t.Errorf("FEN = %s, want %s", got, want)
	}
}

func TestUndoRedo(t *testing.T) {
	g := NewGame()
	if g.Undo() {
		t.Fatal("Undo at the start succeeded")
	}
	playAll(t, g, "e2e4", "e7e5")
	afterE5 := g.Position()

	if !g.Undo() {
		t.Fatal("Undo failed")
	}
	if g.Position().SideToMove != board.Black || len(g.Moves()) != 1 {
		t.Errorf("after undo: side %s, %d moves", g.Position().SideToMove, len(g.Moves()))
	}
	if !g.CanRedo() {
		t.Fatal("CanRedo = false after undo")
	}
	if !g.Redo() {
		t.Fatal("Redo failed")
	}
	if g.Position() != afterE5 {
		t.Error("Redo did not restore the position")
	}
	if g.Redo() {
		t.Error("Redo past the end succeeded")
	}
}

func TestPlayTruncatesRedoTail(t *testing.T) {
	g := NewGame()
	playAll(t, g, "e2e4", "e7e5", "g1f3")
	g.Undo()
	g.Undo()

	playAll(t, g, "d7d5")

	if g.CanRedo() {
		t.Error("redo tail survived a new move")
	}
	if got := strings.Join(moveStrings(g.Moves()), " "); got != "e2e4 d7d5" {
		t.Errorf("moves = %q, want \"e2e4 d7d5\"", got)
	}
	if got := len(g.FENs()); got != 3 {
		t.Errorf("FENs length = %d, want 3", got)
	}
}

func TestPlayRejectsIllegal(t *testing.T) {
	g := NewGame()
	before := g.Position()

	tests := []string{"e2e5", "e7e5", "e1e2", "a1a3"}
	for _, s := range tests {
		err := g.PlayUCI(s)
		var ime *board.IllegalMoveError
		if !errors.As(err, &ime) {
			t.Errorf("PlayUCI(%s) error = %v, want IllegalMoveError", s, err)
		}
	}
	if g.Position() != before || len(g.Moves()) != 0 {
		t.Error("illegal move changed the game")
	}

	if err := g.PlayUCI("e2"); err == nil {
		t.Error("malformed move accepted")
	}
}

func TestPlayPromotion(t *testing.T) {
	g, err := FromFEN("4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	if err := g.PlayUCI("b7b8"); !errors.Is(err, board.ErrPromotionRequired) {
		t.Fatalf("err = %v, want ErrPromotionRequired", err)
	}
	if len(g.Moves()) != 0 {
		t.Fatal("failed promotion was recorded")
	}

	playAll(t, g, "b7b8n")
	if got := g.Position().PieceAt(board.B8); got != board.WhiteKnight {
		t.Errorf("b8 = %s, want white knight", got)
	}
	if got := g.SANHistory()[0]; got != "b8=N" {
		t.Errorf("SAN = %q, want b8=N", got)
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	g := NewGame()
	playAll(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	st := g.Status()
	if st.Kind != board.Checkmate || st.Winner() != board.Black {
		t.Fatalf("status = %s, want checkmate by Black", st)
	}
	if got := g.Result(); got != "Black wins by checkmate" {
		t.Errorf("Result = %q", got)
	}
	if got := g.SANHistory()[3]; got != "Qh4#" {
		t.Errorf("SAN = %q, want Qh4#", got)
	}

	if err := g.PlayUCI("e1f2"); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate: err = %v, want ErrGameOver", err)
	}

	g.Undo()
	if g.Status().Terminal() {
		t.Error("position before mate classified as terminal")
	}
}

func TestRepetitionDraw(t *testing.T) {
	g := NewGame()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	playAll(t, g, shuffle...)
	if g.Status().Terminal() {
		t.Fatalf("draw after one shuffle: %s", g.Status())
	}

	playAll(t, g, shuffle...)
	if got := g.Status().Kind; got != board.RepetitionDraw {
		t.Fatalf("status = %s, want repetition draw", got)
	}
	if got := g.Result(); got != "Draw by threefold repetition" {
		t.Errorf("Result = %q", got)
	}
}

func TestFiftyMoveResult(t *testing.T) {
	g, err := FromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 99 80")
	if err != nil {
		t.Fatal(err)
	}
	if g.Status().Terminal() {
		t.Fatal("draw at clock 99")
	}
	playAll(t, g, "a1a2")
	if got := g.Result(); got != "Draw by 50-move rule" {
		t.Errorf("Result = %q", got)
	}
}

func TestPlaySAN(t *testing.T) {
	g := NewGame()
	for _, s := range []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "O-O"} {
		if err := g.PlaySAN(s); err != nil {
			t.Fatalf("PlaySAN(%s): %v", s, err)
		}
	}

	want := "e2e4 e7e5 g1f3 b8c6 f1b5 a7a6 e1g1"
	if got := strings.Join(moveStrings(g.Moves()), " "); got != want {
		t.Errorf("moves = %q, want %q", got, want)
	}
	if err := g.PlaySAN("Qh5"); err == nil {
		t.Error("PlaySAN accepted an unreachable move")
	}
}

func TestFromFENsRoundTrip(t *testing.T) {
	g := NewGame()
	playAll(t, g, "e2e4", "a7a6", "e4e5", "d7d5", "e5d6", "c7d6", "g1f3", "b8c6", "f1e2", "c8g4", "e1g1")

	loaded, err := FromFENs(g.FENs())
	if err != nil {
		t.Fatalf("FromFENs: %v", err)
	}
	if !SameLine(g, loaded) {
		t.Errorf("moves = %v, want %v", loaded.Moves(), g.Moves())
	}
	if loaded.Position() != g.Position() {
		t.Error("final position differs")
	}
	if got, want := strings.Join(loaded.SANHistory(), " "), strings.Join(g.SANHistory(), " "); got != want {
		t.Errorf("SAN = %q, want %q", got, want)
	}
}

func TestFromFENsRejectsBrokenRecords(t *testing.T) {
	g := NewGame()
	playAll(t, g, "e2e4", "e7e5", "g1f3")
	fens := g.FENs()

	tests := []struct {
		name string
		fens []string
	}{
		{"empty", nil},
		{"gap", []string{fens[0], fens[2]}},
		{"bad text", []string{fens[0], "not a position"}},
		{"reversed", []string{fens[1], fens[0]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromFENs(tt.fens); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
