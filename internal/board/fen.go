package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string of six fields separated by single spaces
// and returns a Position. All failures are reported as *ParseError.
func ParseFEN(fen string) (Position, error) {
	parts := strings.Split(fen, " ")
	if len(parts) != 6 {
		return Position{}, &ParseError{
			Field:  "record",
			Input:  fen,
			Reason: fmt.Sprintf("need 6 fields, got %d", len(parts)),
		}
	}

	pos := emptyPosition()

	// Piece placement (field 0)
	if err := parsePiecePlacement(&pos, parts[0]); err != nil {
		return Position{}, err
	}

	// Side to move (field 1)
	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return Position{}, &ParseError{Field: "side to move", Input: parts[1], Reason: "want w or b"}
	}

	// Castling rights (field 2)
	if err := parseCastlingRights(&pos, parts[2]); err != nil {
		return Position{}, err
	}

	// En passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return Position{}, &ParseError{Field: "en passant", Input: parts[3], Reason: "not a square"}
		}
		if sq.Rank() != 2 && sq.Rank() != 5 {
			return Position{}, &ParseError{Field: "en passant", Input: parts[3], Reason: "target must be on rank 3 or 6"}
		}
		pos.EnPassant = sq
	}

	// Half-move clock (field 4)
	hmc, err := parseCounter("half-move clock", parts[4])
	if err != nil {
		return Position{}, err
	}
	pos.HalfMoveClock = hmc

	// Full-move number (field 5)
	fmn, err := parseCounter("full-move number", parts[5])
	if err != nil {
		return Position{}, err
	}
	pos.FullMoveNumber = fmn

	return pos, nil
}

// parseCounter parses a non-negative decimal FEN counter.
func parseCounter(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || s[0] == '+' || s[0] == '-' {
		return 0, &ParseError{Field: field, Input: s, Reason: "want a non-negative integer"}
	}
	return n, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return &ParseError{
			Field:  "placement",
			Input:  placement,
			Reason: fmt.Sprintf("need 8 ranks, got %d", len(ranks)),
		}
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(c)
			if piece == NoPiece {
				return &ParseError{
					Field:  "placement",
					Input:  rankStr,
					Reason: fmt.Sprintf("unrecognized character %q", c),
				}
			}
			if file <= 7 {
				pos.Board[NewSquare(file, rank)] = piece
			}
			file++
		}

		if file != 8 {
			return &ParseError{
				Field:  "placement",
				Input:  rankStr,
				Reason: fmt.Sprintf("rank %d covers %d squares, want 8", rank+1, file),
			}
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for i := 0; i < len(castling); i++ {
		var right CastlingRights
		switch castling[i] {
		case 'K':
			right = WhiteKingSideCastle
		case 'Q':
			right = WhiteQueenSideCastle
		case 'k':
			right = BlackKingSideCastle
		case 'q':
			right = BlackQueenSideCastle
		default:
			return &ParseError{
				Field:  "castling",
				Input:  castling,
				Reason: fmt.Sprintf("unrecognized character %q", castling[i]),
			}
		}
		if pos.CastlingRights&right != 0 {
			return &ParseError{Field: "castling", Input: castling, Reason: "repeated right"}
		}
		pos.CastlingRights |= right
	}

	return nil
}

// FEN returns the FEN representation of the position.
func (p Position) FEN() string {
	var sb strings.Builder

	writePlacement(&sb, p)

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

// writePlacement writes the piece placement field.
func writePlacement(sb *strings.Builder, p Position) {
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
}
