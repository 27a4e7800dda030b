package board

import "testing"

func TestFoolsMate(t *testing.T) {
	start := NewPosition()
	positions, err := ApplyAll(start, "f2f3", "e7e5", "g2g4", "d8h4")
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	pos := positions[len(positions)-1]
	history := append([]Position{start}, positions...)

	status := Classify(pos, history)
	if status.Kind != Checkmate {
		t.Fatalf("status = %v, want checkmate", status)
	}
	if status.Loser != White || status.Winner() != Black {
		t.Errorf("loser = %v winner = %v, want White mated by Black", status.Loser, status.Winner())
	}
	if !status.Terminal() {
		t.Error("checkmate should be terminal")
	}
}

func TestCheckmate(t *testing.T) {
	// Back rank mate: black king boxed in by its own pawns.
	pos := mustParse(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")

	if !InCheck(pos, Black) {
		t.Fatal("black should be in check")
	}
	if HasLegalMoves(pos) {
		t.Fatalf("black should have no legal moves, got %v", LegalMoveList(pos))
	}
	if got := Classify(pos, nil); got.Kind != Checkmate || got.Loser != Black {
		t.Errorf("Classify = %v, want checkmate of Black", got)
	}
}

func TestNotCheckmate(t *testing.T) {
	// The black king can take the unprotected rook.
	pos := mustParse(t, "6Rk/8/8/8/8/8/8/K7 b - - 0 1")

	if !InCheck(pos, Black) {
		t.Fatal("black should be in check")
	}
	if got := Classify(pos, nil); got.Kind != Ongoing {
		t.Errorf("Classify = %v, want ongoing", got)
	}
}

func TestStalemate(t *testing.T) {
	pos := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if InCheck(pos, Black) {
		t.Fatal("black should not be in check")
	}
	got := Classify(pos, nil)
	if got.Kind != Stalemate {
		t.Errorf("Classify = %v, want stalemate", got)
	}
	if got.Winner() != NoColor {
		t.Errorf("stalemate has no winner, got %v", got.Winner())
	}
}

func TestFiftyMoveRule(t *testing.T) {
	tests := []struct {
		clock int
		want  StatusKind
	}{
		{0, Ongoing},
		{50, Ongoing},
		{99, Ongoing},
		{100, FiftyMoveDraw},
		{130, FiftyMoveDraw},
	}

	for _, tc := range tests {
		pos := mustParse(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 80")
		pos.HalfMoveClock = tc.clock
		if got := Classify(pos, nil).Kind; got != tc.want {
			t.Errorf("clock %d: Classify = %v, want %v", tc.clock, got, tc.want)
		}
	}

	// Mate on the hundredth half move is still mate.
	mate := mustParse(t, "R6k/6pp/8/8/8/8/8/K7 b - - 100 90")
	if got := Classify(mate, nil).Kind; got != Checkmate {
		t.Errorf("Classify = %v, want checkmate", got)
	}
}

func TestThreefoldRepetition(t *testing.T) {
	start := NewPosition()
	cycle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	history := []Position{start}
	pos := start
	for i := 0; i < 2; i++ {
		positions, err := ApplyAll(pos, cycle...)
		if err != nil {
			t.Fatalf("ApplyAll: %v", err)
		}
		pos = positions[len(positions)-1]

		status := Classify(pos, history)
		if i == 0 && status.Kind != Ongoing {
			t.Fatalf("after one cycle status = %v, want ongoing", status)
		}
		if i == 1 && status.Kind != RepetitionDraw {
			t.Fatalf("after two cycles status = %v, want repetition", status)
		}
		history = append(history, positions...)
	}

	// The history may already end with the current position.
	if got := Repetitions(pos, history); got != 3 {
		t.Errorf("Repetitions = %d, want 3", got)
	}
}

func TestRepetitionIgnoresCounters(t *testing.T) {
	a := mustParse(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	b := mustParse(t, "4k3/8/8/8/8/8/8/R3K3 b - - 4 7")
	c := mustParse(t, "4k3/8/8/8/8/8/8/R3K3 w Q - 8 9")

	if got := Classify(c, []Position{a, b}); got.Kind != RepetitionDraw {
		t.Errorf("Classify = %v, want repetition", got)
	}
	if got := Classify(c, []Position{a}); got.Kind != Ongoing {
		t.Errorf("two occurrences: Classify = %v, want ongoing", got)
	}
}

func TestStatusStrings(t *testing.T) {
	s := Status{Kind: Checkmate, Loser: White}
	if s.String() != "checkmate (White is mated)" {
		t.Errorf("String() = %q", s.String())
	}
	if (Status{Kind: RepetitionDraw, Loser: NoColor}).String() != "threefold repetition" {
		t.Error("unexpected repetition string")
	}
}
