package server

import (
	"bytes"
	"fmt"

	"codeberg.org/tslocum/bgrules"
)

// Point labels are 1-24 from the viewing player's perspective, so both
// colors see the same frame.
var boardTop = []byte("+13-14-15-16-17-18-+---+19-20-21-22-23-24-+")
var boardBottom = []byte("+12-11-10--9--8--7-+---+-6--5--4--3--2--1-+")

const (
	VerticalBar rune = '\u2502' // │
)

const stackHeight = 5

func pieceSymbol(c bgrules.Color) string {
	if c == bgrules.White {
		return "o"
	}
	return "x"
}

// renderCell renders one row of a stack. Stacks taller than the column show
// their size in the last row.
func renderCell(c bgrules.Color, n int, depth int) []byte {
	if depth == stackHeight-1 && n > stackHeight {
		return []byte(fmt.Sprintf("%2d ", n))
	} else if depth >= n {
		return []byte("   ")
	}
	return []byte(" " + pieceSymbol(c) + " ")
}

func renderPoint(b *bgrules.Board, perspective bgrules.Color, norm int, depth int) []byte {
	owner, n := b.Owner(bgrules.Denormalize(norm, perspective))
	return renderCell(owner, n, depth)
}

func renderSide(b *bgrules.Board, c bgrules.Color) string {
	return fmt.Sprintf("  %s %s: %d off, %d pips", pieceSymbol(c), c, b.Home[c], bgrules.PipCount(b, c))
}

// renderBoard draws the board as text from the perspective of a player, with
// that player's home quadrant in the bottom right.
func renderBoard(b *bgrules.Board, perspective bgrules.Color) []byte {
	var t bytes.Buffer
	opponent := perspective.Opponent()

	row := func(norms func(col int) int, depth int, bar bgrules.Color) {
		t.WriteRune(VerticalBar)
		for col := 0; col < 12; col++ {
			t.Write(renderPoint(b, perspective, norms(col), depth))
			if col == 5 {
				t.WriteRune(VerticalBar)
				t.Write(renderCell(bar, b.Bar[bar].Len(), depth))
				t.WriteRune(VerticalBar)
			}
		}
		t.WriteRune(VerticalBar)
	}

	t.Write(boardTop)
	t.WriteByte('\n')
	for depth := 0; depth < stackHeight; depth++ {
		row(func(col int) int { return 12 + col }, depth, opponent)
		if depth == 0 {
			t.WriteString(renderSide(b, opponent))
		}
		t.WriteByte('\n')
	}

	t.WriteRune(VerticalBar)
	t.Write(bytes.Repeat([]byte(" "), 18))
	t.WriteRune(VerticalBar)
	t.WriteString("BAR")
	t.WriteRune(VerticalBar)
	t.Write(bytes.Repeat([]byte(" "), 18))
	t.WriteRune(VerticalBar)
	t.WriteByte('\n')

	for depth := stackHeight - 1; depth >= 0; depth-- {
		row(func(col int) int { return 11 - col }, depth, perspective)
		if depth == 0 {
			t.WriteString(renderSide(b, perspective))
		}
		t.WriteByte('\n')
	}
	t.Write(boardBottom)
	t.WriteByte('\n')
	return t.Bytes()
}
