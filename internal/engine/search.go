package engine

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// DefaultDepth is the search depth in plies used when none is given.
const DefaultDepth = 2

// Config controls a fixed-depth search.
type Config struct {
	Depth   int // Plies to expand below the root
	Workers int // Root subtrees searched concurrently (<= 1 = sequential)
}

// DefaultConfig returns a two-ply sequential search.
func DefaultConfig() Config {
	return Config{Depth: DefaultDepth, Workers: 1}
}

// Result is the outcome of a search.
type Result struct {
	Score float64    // Minimax value of the root, White positive
	Best  board.Move // First root move achieving Score, NoMove if none
	Nodes int        // Tree nodes built, root included
}

// Searcher runs fixed-depth minimax searches.
type Searcher struct {
	cfg   Config
	nodes atomic.Int64
}

// NewSearcher creates a searcher. A negative depth is treated as zero.
func NewSearcher(cfg Config) *Searcher {
	if cfg.Depth < 0 {
		cfg.Depth = 0
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Searcher{cfg: cfg}
}

// Config returns the searcher's configuration.
func (s *Searcher) Config() Config {
	return s.cfg
}

// Nodes returns the node count of the most recent search.
func (s *Searcher) Nodes() int {
	return int(s.nodes.Load())
}

// Search builds the game tree of pos to the configured depth and backs up
// its minimax value. Root children are expanded on up to Workers
// goroutines; the result does not depend on the worker count.
func (s *Searcher) Search(ctx context.Context, pos board.Position) (Result, error) {
	s.nodes.Store(0)

	moves := board.LegalMoveList(pos)
	if s.cfg.Depth == 0 || len(moves) == 0 {
		root := BuildTree(pos, s.cfg.Depth)
		score := Minimax(root)
		s.nodes.Store(int64(CountNodes(root)))
		return Result{Score: score, Best: board.NoMove, Nodes: s.Nodes()}, nil
	}

	children := make([]*Node, len(moves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			next, err := board.Apply(pos, m)
			if err != nil {
				return err
			}
			child := BuildTree(next, s.cfg.Depth-1)
			child.Move = m
			Minimax(child)
			s.nodes.Add(int64(CountNodes(child)))
			children[i] = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	s.nodes.Add(1)

	root := &Node{Position: pos, Move: board.NoMove, Children: children}
	best := children[0]
	for _, child := range children[1:] {
		if better(pos.SideToMove, child.Score, best.Score) {
			best = child
		}
	}
	root.Score = best.Score

	return Result{Score: root.Score, Best: best.Move, Nodes: s.Nodes()}, nil
}

// better reports whether a is strictly preferable to b for the side to
// move.
func better(side board.Color, a, b float64) bool {
	if side == board.White {
		return a > b
	}
	return a < b
}

// Evaluate returns the minimax value of pos at the default depth.
func Evaluate(pos board.Position) float64 {
	res, err := NewSearcher(DefaultConfig()).Search(context.Background(), pos)
	if err != nil {
		return 0
	}
	return res.Score
}
