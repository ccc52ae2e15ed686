package bgrules

import "fmt"

// startingFormation lists piece counts by normalized position.
var startingFormation = [...]struct {
	norm  int
	count int
}{
	{5, 5},
	{7, 3},
	{12, 5},
	{23, 2},
}

var _ Variant = &Bulgarian{}

// Bulgarian implements casual Bulgarian backgammon (tabla). Single pieces may
// be hit, hit pieces enter from the bar and pieces are borne off once every
// piece of a color has reached its home quadrant.
type Bulgarian struct {
	Rules
}

func NewBulgarian() *Bulgarian {
	return &Bulgarian{}
}

func (v *Bulgarian) Info() Info {
	return Info{
		Name:        "bulgarian",
		Title:       "Tabla",
		Description: "Casual Bulgarian backgammon with hitting and bearing off.",
		Country:     "Bulgaria",
		CountryCode: "BG",
	}
}

func (v *Bulgarian) Setup(b *Board) {
	b.Clear()
	for _, c := range []Color{White, Black} {
		for _, f := range startingFormation {
			b.Place(Denormalize(f.norm, c), c, f.count)
		}
	}
}

// entryPoint returns the absolute point a piece of c enters at with steps.
func entryPoint(c Color, steps int) int {
	return Denormalize(steps-1, c)
}

// CheckMove returns nil when the move is legal, or the reason it is not.
func (v *Bulgarian) CheckMove(b *Board, position int, c Color, steps int) error {
	err := v.Rules.CheckMove(b, position, c, steps)
	if err != nil {
		return err
	}

	if v.HavePiecesOnBar(b, c) {
		if position != BarPosition {
			return ErrBarNeeded
		}
		to := entryPoint(c, steps)
		if !OnBoard(to) {
			return ErrOutOfRange
		} else if b.OpponentCount(to, c) >= 2 {
			return ErrBlocked
		}
		return nil
	} else if position == BarPosition {
		return ErrNotOnBar
	}

	src := b.Points[position]
	if src.Count(c) == 0 {
		if src.Len() != 0 {
			return ErrOpponentPiece
		}
		return ErrEmptyPoint
	}

	to := Advance(position, c, steps)
	if to >= 0 && to < NumPoints {
		if b.OpponentCount(to, c) >= 2 {
			return ErrBlocked
		}
		return nil
	}

	// Bearing off.
	norm := Normalize(to, c)
	if norm >= 0 {
		return ErrOutOfRange
	} else if !v.AllPiecesAreHome(b, c) {
		return ErrCannotBearOff
	} else if norm < -1 && furthestPiece(b, c) > Normalize(position, c) {
		return ErrFurtherPieces
	}
	return nil
}

func (v *Bulgarian) ValidateMove(b *Board, position int, c Color, steps int) bool {
	return v.CheckMove(b, position, c, steps) == nil
}

// ApplyMove commits a validated move. It panics when the move leaves the
// board in an inconsistent state.
func (v *Bulgarian) ApplyMove(b *Board, position int, c Color, steps int) Move {
	mustColor(c)
	m := Move{Color: c, From: position, Steps: steps}

	var p Piece
	if position == BarPosition {
		p = b.Bar[c].Pop()
		m.To = entryPoint(c, steps)
	} else {
		p = b.Point(position).Pop()
		m.To = Advance(position, c, steps)
	}
	if p.Color != c {
		panic(fmt.Sprintf("moved %s piece as %s", p.Color, c))
	}

	if !OnBoard(m.To) {
		m.To, m.BearOff = -1, true
		b.Home[c]++
	} else {
		dst := b.Point(m.To)
		if dst.Count(c.Opponent()) == 1 {
			hit := dst.Pop()
			b.Bar[hit.Color].Push(hit)
			m.Hit = true
		}
		dst.Push(p)
	}

	if err := b.Verify(); err != nil {
		panic(fmt.Sprintf("invalid board after %s: %s", m, err))
	}
	return m
}
