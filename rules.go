package bgrules

import (
	"errors"
	"fmt"
)

// Move rejection reasons.
var (
	ErrInvalidSteps   = errors.New("steps must be between 1 and 6")
	ErrBarNeeded      = errors.New("pieces on the bar must enter first")
	ErrNotOnBar       = errors.New("no pieces on the bar")
	ErrEmptyPoint     = errors.New("no piece on point")
	ErrOpponentPiece  = errors.New("point belongs to the opponent")
	ErrBlocked        = errors.New("destination is blocked")
	ErrOutOfRange     = errors.New("destination is off the board")
	ErrCannotBearOff  = errors.New("cannot bear off yet")
	ErrFurtherPieces  = errors.New("a piece further from home must use this roll")
	ErrVariantUnknown = errors.New("unknown variant")
)

// Info describes a variant. It carries no behavior.
type Info struct {
	Name        string
	Title       string
	Description string
	Country     string
	CountryCode string
}

// Move is a committed move.
type Move struct {
	Color   Color
	From    int // BarPosition when entering.
	To      int // Absolute destination, or -1 when bearing off.
	Steps   int
	Hit     bool
	BearOff bool
}

func (m Move) String() string {
	from := fmt.Sprintf("%d", m.From)
	if m.From == BarPosition {
		from = "bar"
	}
	to := fmt.Sprintf("%d", m.To)
	if m.BearOff {
		to = "off"
	}
	s := fmt.Sprintf("%s %s/%s", m.Color, from, to)
	if m.Hit {
		s += "*"
	}
	return s
}

// Variant is a backgammon rule set.
type Variant interface {
	Info() Info

	// Setup clears the board and places the starting formation.
	Setup(b *Board)

	RollDice() DiceRoll

	// ValidateMove reports whether the piece at position (BarPosition to
	// enter) of color c may move steps points. It never modifies the board.
	ValidateMove(b *Board, position int, c Color, steps int) bool

	// ApplyMove commits a move previously accepted by ValidateMove.
	ApplyMove(b *Board, position int, c Color, steps int) Move
}

// Rules holds the behavior shared by all variants.
type Rules struct {
	// Roll returns a value in [0, max). RandInt is used when nil.
	Roll func(max int) int
}

// RollDice rolls two dice.
func (r *Rules) RollDice() DiceRoll {
	roll := r.Roll
	if roll == nil {
		roll = RandInt
	}
	return NewDiceRoll(roll(6)+1, roll(6)+1)
}

// CheckMove performs the structural checks every variant starts with. A board
// that is nil, a color that is not white or black, or a position outside the
// board are caller bugs and panic. Otherwise the move is provisionally
// accepted unless steps is not a die face.
func (r *Rules) CheckMove(b *Board, position int, c Color, steps int) error {
	if b == nil {
		panic("nil board")
	}
	mustColor(c)
	if position != BarPosition && !OnBoard(position) {
		panic(fmt.Sprintf("position %d out of range", position))
	}
	if steps < 1 || steps > 6 {
		return ErrInvalidSteps
	}
	return nil
}

func (r *Rules) ValidateMove(b *Board, position int, c Color, steps int) bool {
	return r.CheckMove(b, position, c, steps) == nil
}

// HavePiecesOnBar reports whether c has pieces waiting to enter.
func (r *Rules) HavePiecesOnBar(b *Board, c Color) bool {
	mustColor(c)
	return b.Bar[c].Len() > 0
}

// AllPiecesAreHome reports whether every piece of c left on the points is
// within its home quadrant.
func (r *Rules) AllPiecesAreHome(b *Board, c Color) bool {
	return furthestPiece(b, c) < HomeSize
}

// furthestPiece returns the highest normalized position occupied by c, or -1.
func furthestPiece(b *Board, c Color) int {
	for norm := NumPoints - 1; norm >= 0; norm-- {
		if b.Points[Denormalize(norm, c)].Count(c) > 0 {
			return norm
		}
	}
	return -1
}
