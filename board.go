package bgrules

import (
	"fmt"
	"strings"
)

// Points are indexed 0-23. White moves toward point 0, black toward point 23.
const (
	NumPoints = 24
	NumPieces = 15
)

// Color identifies a player.
type Color int8

const (
	White Color = iota
	Black
)

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Opponent returns the other color.
func (c Color) Opponent() Color {
	mustColor(c)
	return 1 - c
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return fmt.Sprintf("Color(%d)", int8(c))
	}
}

// ParseColor parses "white" or "black" (case-insensitive).
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", int8(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func mustColor(c Color) {
	if !c.Valid() {
		panic(fmt.Sprintf("invalid color %d", int8(c)))
	}
}

type Piece struct {
	Color Color
}

// Stack holds pieces in the order they were placed.
type Stack []Piece

func (s *Stack) Push(p Piece) {
	*s = append(*s, p)
}

// Pop removes and returns the top piece. Popping an empty stack panics.
func (s *Stack) Pop() Piece {
	n := len(*s)
	if n == 0 {
		panic("pop from empty stack")
	}
	p := (*s)[n-1]
	*s = (*s)[:n-1]
	return p
}

// Peek returns the top piece without removing it.
func (s Stack) Peek() (Piece, bool) {
	if len(s) == 0 {
		return Piece{}, false
	}
	return s[len(s)-1], true
}

func (s Stack) Len() int {
	return len(s)
}

// Count returns the number of pieces of the given color.
func (s Stack) Count(c Color) int {
	var n int
	for _, p := range s {
		if p.Color == c {
			n++
		}
	}
	return n
}

// Board is the state of a single game. It is not safe for concurrent use.
type Board struct {
	Points [NumPoints]Stack
	Bar    [2]Stack
	Home   [2]int // Borne off pieces.
}

func NewBoard() *Board {
	return &Board{}
}

// Clear removes every piece from the board.
func (b *Board) Clear() {
	for i := range b.Points {
		b.Points[i] = nil
	}
	b.Bar[White], b.Bar[Black] = nil, nil
	b.Home[White], b.Home[Black] = 0, 0
}

// Point returns the stack at an absolute index. Indexes outside 0-23 panic.
func (b *Board) Point(i int) *Stack {
	if i < 0 || i >= NumPoints {
		panic(fmt.Sprintf("point %d out of range", i))
	}
	return &b.Points[i]
}

// Owner returns the color occupying a point and the number of pieces on it.
func (b *Board) Owner(i int) (Color, int) {
	s := b.Point(i)
	p, ok := s.Peek()
	if !ok {
		return 0, 0
	}
	return p.Color, s.Len()
}

// OpponentCount returns the number of pieces on point i not belonging to c.
func (b *Board) OpponentCount(i int, c Color) int {
	return b.Point(i).Count(c.Opponent())
}

// Place pushes n pieces of color c onto point i.
func (b *Board) Place(i int, c Color, n int) {
	mustColor(c)
	s := b.Point(i)
	for j := 0; j < n; j++ {
		s.Push(Piece{Color: c})
	}
}

// OnPoints returns the number of pieces of color c on the 24 points.
func (b *Board) OnPoints(c Color) int {
	var n int
	for i := range b.Points {
		n += b.Points[i].Count(c)
	}
	return n
}

// PieceCount returns the number of pieces of color c on points, bar and home.
func (b *Board) PieceCount(c Color) int {
	mustColor(c)
	return b.OnPoints(c) + b.Bar[c].Count(c) + b.Home[c]
}

// Verify reports the first broken board invariant.
func (b *Board) Verify() error {
	for i := range b.Points {
		s := b.Points[i]
		if s.Len() == 0 {
			continue
		}
		if w := s.Count(White); w != 0 && w != s.Len() {
			return fmt.Errorf("point %d holds %d white and %d black pieces", i, w, s.Len()-w)
		}
	}
	for _, c := range []Color{White, Black} {
		if n := b.Bar[c].Count(c); n != b.Bar[c].Len() {
			return fmt.Errorf("%s bar holds %d foreign pieces", c, b.Bar[c].Len()-n)
		}
		if b.Home[c] < 0 {
			return fmt.Errorf("%s home count %d is negative", c, b.Home[c])
		}
		if n := b.PieceCount(c); n != NumPieces {
			return fmt.Errorf("%s has %d pieces, expected %d", c, n, NumPieces)
		}
	}
	return nil
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	c := &Board{Home: b.Home}
	for i := range b.Points {
		c.Points[i] = append(Stack(nil), b.Points[i]...)
	}
	for i := range b.Bar {
		c.Bar[i] = append(Stack(nil), b.Bar[i]...)
	}
	return c
}

// Equal reports whether two boards hold the same pieces in the same places.
func (b *Board) Equal(o *Board) bool {
	if b.Home != o.Home {
		return false
	}
	for i := range b.Points {
		if !stackEqual(b.Points[i], o.Points[i]) {
			return false
		}
	}
	for i := range b.Bar {
		if !stackEqual(b.Bar[i], o.Bar[i]) {
			return false
		}
	}
	return true
}

func stackEqual(a Stack, b Stack) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
