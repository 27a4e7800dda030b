package engine

import "github.com/hailam/chesscore/internal/board"

// Node is one position in a search tree. Move is the move that led to it
// from its parent (NoMove at the root).
type Node struct {
	Position board.Position
	Move     board.Move
	Score    float64
	Children []*Node
}

// queued is a node waiting for expansion at the given ply.
type queued struct {
	node *Node
	ply  int
}

// BuildTree expands pos breadth-first to depth plies. Every node gets one
// child per legal move in LegalMoveList order. Nodes at depth are scored
// with Material; nodes above it without legal moves are scored as mate or
// stalemate and not expanded.
func BuildTree(pos board.Position, depth int) *Node {
	root := &Node{Position: pos, Move: board.NoMove}

	queue := []queued{{node: root, ply: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.ply >= depth {
			cur.node.Score = Material(cur.node.Position)
			continue
		}

		moves := board.LegalMoveList(cur.node.Position)
		if len(moves) == 0 {
			cur.node.Score = terminalScore(cur.node.Position)
			continue
		}

		cur.node.Children = make([]*Node, 0, len(moves))
		for _, m := range moves {
			next, err := board.Apply(cur.node.Position, m)
			if err != nil {
				continue
			}
			child := &Node{Position: next, Move: m}
			cur.node.Children = append(cur.node.Children, child)
			queue = append(queue, queued{node: child, ply: cur.ply + 1})
		}
	}

	return root
}

// Minimax backs scores up the tree: White to move takes the maximum of its
// children, Black the minimum. Leaves keep their own score. The node's
// Score is updated and returned.
func Minimax(n *Node) float64 {
	if len(n.Children) == 0 {
		return n.Score
	}

	best := Minimax(n.Children[0])
	for _, child := range n.Children[1:] {
		s := Minimax(child)
		if n.Position.SideToMove == board.White {
			if s > best {
				best = s
			}
		} else if s < best {
			best = s
		}
	}
	n.Score = best
	return best
}

// CountNodes returns the number of nodes in the tree rooted at n.
func CountNodes(n *Node) int {
	count := 1
	for _, child := range n.Children {
		count += CountNodes(child)
	}
	return count
}
