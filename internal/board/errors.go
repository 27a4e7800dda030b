package board

import (
	"errors"
	"fmt"
)

// ErrPromotionRequired is returned by Apply when a pawn reaches the last
// rank and the move names no promotion piece. Callers decide the piece
// and retry.
var ErrPromotionRequired = errors.New("promotion piece required")

// ParseError reports malformed position text.
type ParseError struct {
	Field  string // FEN field that failed, e.g. "placement"
	Input  string // offending text
	Reason string
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid FEN %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid FEN %s %q: %s", e.Field, e.Input, e.Reason)
}

// IllegalMoveError reports a move that cannot be applied at all: a square
// off the board, an empty origin square, or an impossible promotion kind.
type IllegalMoveError struct {
	Move   Move
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Move, e.Reason)
}
