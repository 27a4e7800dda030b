package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo describes a finished search.
type SearchInfo struct {
	Depth int
	Score float64
	Nodes int
	Time  time.Duration
	Best  board.Move
}

// Difficulty represents the engine strength.
type Difficulty int

const (
	Easy   Difficulty = iota // 1 ply
	Medium                   // 2 ply
	Hard                     // 3 ply
)

// DifficultyDepth maps difficulty to search depth.
var DifficultyDepth = map[Difficulty]int{
	Easy:   1,
	Medium: 2,
	Hard:   3,
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses a difficulty name as printed by String.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty: %q", s)
}

// Engine is the move-choosing front of the searcher.
type Engine struct {
	cfg Config

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	s := NewSearcher(cfg)
	return &Engine{cfg: s.Config()}
}

// Config returns the current configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetDifficulty sets the search depth from a difficulty level.
func (e *Engine) SetDifficulty(d Difficulty) {
	if depth, ok := DifficultyDepth[d]; ok {
		e.cfg.Depth = depth
	}
}

// SetDepth sets the search depth in plies.
func (e *Engine) SetDepth(depth int) {
	if depth < 0 {
		depth = 0
	}
	e.cfg.Depth = depth
}

// SetWorkers sets how many root subtrees are searched concurrently.
func (e *Engine) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	e.cfg.Workers = n
}

// Search finds the best move for the side to move in pos.
func (e *Engine) Search(ctx context.Context, pos board.Position) (Result, error) {
	return e.SearchDepth(ctx, pos, e.cfg.Depth)
}

// SearchDepth searches pos to the given depth, keeping the worker count.
func (e *Engine) SearchDepth(ctx context.Context, pos board.Position, depth int) (Result, error) {
	cfg := e.cfg
	cfg.Depth = depth

	start := time.Now()
	res, err := NewSearcher(cfg).Search(ctx, pos)
	if err != nil {
		return Result{}, err
	}

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: cfg.Depth,
			Score: res.Score,
			Nodes: res.Nodes,
			Time:  time.Since(start),
			Best:  res.Best,
		})
	}
	return res, nil
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score float64) string {
	switch {
	case math.IsInf(score, 1):
		return "White mates"
	case math.IsInf(score, -1):
		return "Black mates"
	case score == 0:
		score = 0 // no "-0.0"
	}
	return strconv.FormatFloat(score, 'f', 1, 64)
}
