// Package protocol implements a line-oriented command interface over the
// rules engine: one command per input line, plain text replies.
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// errNoStorage is reported by commands that need a database when none is
// configured.
var errNoStorage = errors.New("no game database")

// Handler reads commands and writes replies.
type Handler struct {
	engine *engine.Engine
	game   *game.Game
	store  *storage.Storage // nil when running without a database
	prefs  *storage.Preferences

	// recorded holds the finished lines of the current game already
	// counted in the statistics, keyed by lineKey.
	recorded map[string]bool

	out    io.Writer
	logger *log.Logger
}

// New creates a protocol handler. store may be nil; logger may be nil to
// discard diagnostics.
func New(eng *engine.Engine, store *storage.Storage, out io.Writer, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	h := &Handler{
		engine: eng,
		game:   game.NewGame(),
		store:  store,
		out:    out,
		logger: logger,
	}
	if store != nil {
		prefs, err := store.LoadPreferences()
		if err != nil {
			logger.Printf("Warning: Failed to load preferences: %v", err)
		}
		h.prefs = prefs
	}
	return h
}

// Game returns the game being played.
func (h *Handler) Game() *game.Game {
	return h.game
}

// Run processes commands from in until "quit" or end of input.
func (h *Handler) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := h.Execute(ctx, scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs a single command line and reports whether it was "quit".
// Failures are written as "error: <message>"; they never stop the loop.
func (h *Handler) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := parts[0]
	args := parts[1:]

	var err error
	switch cmd {
	case "quit":
		return true
	case "isready":
		h.println("readyok")
	case "new", "ucinewgame":
		h.setGame(game.NewGame())
	case "position":
		err = h.handlePosition(args)
	case "legal":
		err = h.handleLegal(args)
	case "moves":
		h.handleMoves()
	case "move":
		err = h.handleMove(args)
	case "undo":
		if !h.game.Undo() {
			err = errors.New("nothing to undo")
		}
	case "redo":
		if !h.game.Redo() {
			err = errors.New("nothing to redo")
		} else if h.game.Status().Terminal() {
			h.recordOutcome()
		}
	case "status":
		h.println(h.game.Status().String())
	case "eval":
		err = h.handleEval(ctx, args)
	case "go":
		err = h.handleGo(ctx, args)
	case "perft":
		err = h.handlePerft(args)
	case "d":
		h.handleDisplay()
	case "fen":
		h.println(h.game.Position().FEN())
	case "save":
		err = h.handleSave(args)
	case "load":
		err = h.handleLoad(args)
	case "delete":
		err = h.handleDelete(args)
	case "games":
		err = h.handleGames()
	case "stats":
		err = h.handleStats()
	case "setoption":
		err = h.handleSetOption(args)
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		h.println("error: " + err.Error())
	}
	return false
}

// setGame replaces the current game and forgets which of its lines were
// counted.
func (h *Handler) setGame(g *game.Game) {
	h.game = g
	h.recorded = nil
}

func (h *Handler) println(s string) {
	fmt.Fprintln(h.out, s)
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// The current game is replaced only if every move is legal.
func (h *Handler) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: position startpos|fen <fen> [moves ...]")
	}

	movesAt := slices.Index(args, "moves")
	head := args
	var moves []string
	if movesAt >= 0 {
		head = args[:movesAt]
		moves = args[movesAt+1:]
	}

	var g *game.Game
	switch head[0] {
	case "startpos":
		if len(head) != 1 {
			return fmt.Errorf("unexpected text after startpos: %s", strings.Join(head[1:], " "))
		}
		g = game.NewGame()
	case "fen":
		var err error
		g, err = game.FromFEN(strings.Join(head[1:], " "))
		if err != nil {
			return err
		}
		if err := g.Position().Validate(); err != nil {
			h.logger.Printf("Warning: unusual position: %v", err)
		}
	default:
		return fmt.Errorf("unknown position kind: %s", head[0])
	}

	for _, s := range moves {
		if err := g.PlayUCI(s); err != nil {
			return err
		}
	}

	h.setGame(g)
	if len(moves) > 0 && g.Status().Terminal() {
		h.recordOutcome()
	}
	return nil
}

// handleLegal lists the legal destinations of the piece on a square.
func (h *Handler) handleLegal(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: legal <square>")
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}

	targets := board.LegalMoves(sq, h.game.Position())
	names := make([]string, len(targets))
	for i, to := range targets {
		names[i] = to.String()
	}
	h.println(strings.Join(names, " "))
	return nil
}

// handleMoves lists every legal move of the side to move.
func (h *Handler) handleMoves() {
	moves := board.LegalMoveList(h.game.Position())
	names := make([]string, len(moves))
	for i, m := range moves {
		names[i] = m.String()
	}
	h.println(strings.Join(names, " "))
}

// handleMove plays a move given in UCI or SAN form.
func (h *Handler) handleMove(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: move <move>")
	}

	pos := h.game.Position()
	m, err := board.ParseMove(args[0])
	if err != nil {
		m, err = board.ParseSAN(args[0], pos)
		if err != nil {
			return err
		}
	}
	if err := h.game.Play(m); err != nil {
		return err
	}

	h.println(fmt.Sprintf("played %s (%s)", m, h.game.SANHistory()[len(h.game.Moves())-1]))
	if result := h.game.Result(); result != "" {
		h.println("result: " + result)
		h.recordOutcome()
	}
	return nil
}

// lineKey identifies the moves played in the current game.
func (h *Handler) lineKey() string {
	return strings.Join(h.game.FENs(), "|")
}

// recordOutcome adds the finished game to the statistics. A line that was
// already counted, for example after undo and redo, is not counted again.
func (h *Handler) recordOutcome() {
	if h.store == nil {
		return
	}
	key := h.lineKey()
	if h.recorded[key] {
		return
	}
	if h.recorded == nil {
		h.recorded = make(map[string]bool)
	}
	h.recorded[key] = true

	st := h.game.Status()
	o := storage.Outcome{Reason: st.Kind.String()}
	if w := st.Winner(); w != board.NoColor {
		o.Winner = w.String()
	}
	if err := h.store.RecordOutcome(o); err != nil {
		h.logger.Printf("Warning: Failed to record game: %v", err)
	}
}

// search searches the current position to the depth given in args, or to
// the engine's configured depth when args is empty.
func (h *Handler) search(ctx context.Context, args []string) (engine.Result, error) {
	pos := h.game.Position()
	if len(args) == 0 {
		return h.engine.Search(ctx, pos)
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		return engine.Result{}, fmt.Errorf("invalid depth: %s", args[0])
	}
	return h.engine.SearchDepth(ctx, pos, depth)
}

// handleEval prints the minimax value of the current position.
func (h *Handler) handleEval(ctx context.Context, args []string) error {
	res, err := h.search(ctx, args)
	if err != nil {
		return err
	}
	h.println("score " + engine.ScoreToString(res.Score))
	return nil
}

// handleGo searches the current position and reports the best move.
func (h *Handler) handleGo(ctx context.Context, args []string) error {
	h.engine.OnInfo = h.sendInfo
	defer func() { h.engine.OnInfo = nil }()

	res, err := h.search(ctx, args)
	if err != nil {
		return err
	}
	h.println("bestmove " + res.Best.String())
	return nil
}

// sendInfo outputs search info.
func (h *Handler) sendInfo(info engine.SearchInfo) {
	h.println(fmt.Sprintf("info depth %d score %s nodes %d", info.Depth, engine.ScoreToString(info.Score), info.Nodes))
	h.logger.Printf("search depth %d took %v", info.Depth, info.Time)
}

// handlePerft prints the perft count below each legal move and the total.
func (h *Handler) handlePerft(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: perft <depth>")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		return fmt.Errorf("invalid depth: %s", args[0])
	}

	start := time.Now()
	moves, counts := board.Divide(h.game.Position(), depth)
	var nodes int64
	for i, m := range moves {
		h.println(fmt.Sprintf("%s: %d", m, counts[i]))
		nodes += counts[i]
	}
	elapsed := time.Since(start)

	h.println(fmt.Sprintf("Nodes: %d", nodes))
	h.logger.Printf("perft %d: %d nodes in %v", depth, nodes, elapsed)
	return nil
}

// handleDisplay prints the board and the game status.
func (h *Handler) handleDisplay() {
	pos := h.game.Position()
	fmt.Fprint(h.out, pos.String())
	h.println("Status: " + h.game.Status().String())
	if san := h.game.SANHistory(); len(san) > 0 {
		h.println("Moves: " + strings.Join(san, " "))
	}
}

func (h *Handler) handleSave(args []string) error {
	if h.store == nil {
		return errNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: save <name>")
	}
	rec := storage.GameRecord{
		Name:   args[0],
		FENs:   h.game.FENs(),
		Result: h.game.Result(),
	}
	if err := h.store.SaveGame(rec); err != nil {
		return err
	}
	h.println("saved " + args[0])
	return nil
}

func (h *Handler) handleLoad(args []string) error {
	if h.store == nil {
		return errNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: load <name>")
	}
	rec, err := h.store.LoadGame(args[0])
	if err != nil {
		return err
	}
	g, err := game.FromFENs(rec.FENs)
	if err != nil {
		return fmt.Errorf("game %s: %w", args[0], err)
	}
	h.setGame(g)
	if g.Status().Terminal() {
		// A saved finished game was counted when it was played.
		h.recorded = map[string]bool{h.lineKey(): true}
	}
	h.println(fmt.Sprintf("loaded %s (%d moves)", args[0], len(g.Moves())))
	return nil
}

func (h *Handler) handleDelete(args []string) error {
	if h.store == nil {
		return errNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: delete <name>")
	}
	return h.store.DeleteGame(args[0])
}

func (h *Handler) handleGames() error {
	if h.store == nil {
		return errNoStorage
	}
	names, err := h.store.ListGames()
	if err != nil {
		return err
	}
	for _, name := range names {
		h.println(name)
	}
	return nil
}

func (h *Handler) handleStats() error {
	if h.store == nil {
		return errNoStorage
	}
	stats, err := h.store.LoadStats()
	if err != nil {
		return err
	}
	h.println(fmt.Sprintf("games %d white %d black %d draws %d (%.1f%%)",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.DrawRate()))

	kinds := maps.Keys(stats.DrawsByKind)
	slices.Sort(kinds)
	for _, kind := range kinds {
		h.println(fmt.Sprintf("draws by %s: %d", kind, stats.DrawsByKind[kind]))
	}
	return nil
}

// handleSetOption processes "setoption name <name> value <value>".
func (h *Handler) handleSetOption(args []string) error {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	n, err := strconv.Atoi(value)
	difficulty := ""
	switch strings.ToLower(name) {
	case "depth":
		if err != nil || n < 0 {
			return fmt.Errorf("invalid depth: %q", value)
		}
		h.engine.SetDepth(n)
	case "difficulty":
		d, err := engine.ParseDifficulty(value)
		if err != nil {
			return err
		}
		h.engine.SetDifficulty(d)
		difficulty = d.String()
	case "workers":
		if err != nil || n < 1 {
			return fmt.Errorf("invalid workers: %q", value)
		}
		h.engine.SetWorkers(n)
	default:
		return fmt.Errorf("unknown option: %q", name)
	}

	h.savePreferences(strings.EqualFold(name, "depth"), difficulty)
	return nil
}

// savePreferences persists the engine settings. A named difficulty is kept
// until the depth is set directly.
func (h *Handler) savePreferences(depthSet bool, difficulty string) {
	if h.store == nil || h.prefs == nil {
		return
	}
	cfg := h.engine.Config()
	h.prefs.Depth = cfg.Depth
	h.prefs.Workers = cfg.Workers
	switch {
	case difficulty != "":
		h.prefs.Difficulty = difficulty
	case depthSet:
		h.prefs.Difficulty = ""
	}
	if err := h.store.SavePreferences(h.prefs); err != nil {
		h.logger.Printf("Warning: Failed to save preferences: %v", err)
	}
}
