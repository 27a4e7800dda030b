package board

import (
	"fmt"
	"strings"
)

// SAN returns the Standard Algebraic Notation of m, which must be legal
// in pos.
func (m Move) SAN(pos Position) string {
	piece := pos.PieceAt(m.From)
	if piece == NoPiece {
		return m.String() // Fallback to UCI
	}

	var sb strings.Builder

	if m.IsCastling(pos) {
		if m.To.File() > m.From.File() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type()

		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m, piece))
		}

		if m.IsCapture(pos) {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(m.From.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion])
		}
	}

	// Check/checkmate marker
	next, err := Apply(pos, m)
	if err != nil {
		return sb.String()
	}
	if InCheck(next, next.SideToMove) {
		if HasLegalMoves(next) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when
// another piece of the same kind can also reach m.To.
func disambiguation(pos Position, m Move, piece Piece) string {
	var candidates []Square
	for _, from := range pos.Squares(piece.Color()) {
		if from == m.From || pos.Board[from] != piece {
			continue
		}
		for _, to := range LegalMoves(from, pos) {
			if to == m.To {
				candidates = append(candidates, from)
				break
			}
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, sq := range candidates {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string('a' + byte(m.From.File()))
	}
	if !sameRank {
		return string('1' + byte(m.From.Rank()))
	}
	return m.From.String()
}

// ParseSAN parses a SAN string and returns the matching legal move.
func ParseSAN(s string, pos Position) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		from := E1
		if pos.SideToMove == Black {
			from = E8
		}
		to, _ := from.Offset(2, 0)
		if len(s) == 5 {
			to, _ = from.Offset(-2, 0)
		}
		m := NewMove(from, to)
		if !IsLegal(pos, m) {
			return NoMove, fmt.Errorf("castling not legal: %s", orig)
		}
		return m, nil
	}

	promo := NoPieceType
	if idx := strings.Index(s, "="); idx >= 0 {
		if idx+1 >= len(s) {
			return NoMove, fmt.Errorf("invalid SAN: %s", orig)
		}
		promo = PieceTypeFromChar(s[idx+1])
		if !promo.IsPromotionKind() {
			return NoMove, fmt.Errorf("invalid promotion piece in SAN: %s", orig)
		}
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt = PieceTypeFromChar(s[0])
		if pt == NoPieceType || pt == Pawn {
			return NoMove, fmt.Errorf("invalid piece in SAN: %s", orig)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %s", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		if c >= 'a' && c <= 'h' {
			disambigFile = int(c - 'a')
		} else if c >= '1' && c <= '8' {
			disambigRank = int(c - '1')
		}
	}

	for _, m := range LegalMoveList(pos) {
		if m.To != dest || pos.Board[m.From].Type() != pt {
			continue
		}
		if disambigFile >= 0 && m.From.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && m.From.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture(pos) {
			continue
		}
		if m.Promotion != promo {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("no legal move matches %s", orig)
}

// MovesToSAN converts a sequence of moves played from pos to SAN.
func MovesToSAN(pos Position, moves []Move) []string {
	result := make([]string, 0, len(moves))
	for _, m := range moves {
		result = append(result, m.SAN(pos))
		next, err := Apply(pos, m)
		if err != nil {
			break
		}
		pos = next
	}
	return result
}
