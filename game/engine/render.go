package engine

import (
	"fmt"
	"strings"
)

// RenderBoard draws the top piece of every cell as a text grid. Black pieces
// are shown as B<size>, White as W<size>.
func RenderBoard(state *GameState) string {
	var b strings.Builder
	b.WriteString("     1    2    3    4\n")
	for y := 1; y <= GridSide; y++ {
		fmt.Fprintf(&b, "%d ", y)
		for x := 1; x <= GridSide; x++ {
			i := (y-1)*GridSide + (x - 1)
			cell := "."
			if i < len(state.Top) && state.Top[i] != nil {
				cell = pieceLabel(*state.Top[i])
			}
			fmt.Fprintf(&b, " %4s", cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DescribeStack lists a stack from top to bottom, e.g. "B12 > W4 > B1"
func DescribeStack(pieces []Piece) string {
	if len(pieces) == 0 {
		return "empty"
	}
	labels := make([]string, 0, len(pieces))
	for i := len(pieces) - 1; i >= 0; i-- {
		labels = append(labels, pieceLabel(pieces[i]))
	}
	return strings.Join(labels, " > ")
}

func pieceLabel(p Piece) string {
	return fmt.Sprintf("%c%d", p.Color.String()[0], p.Size)
}
