package bgrules

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DiceRoll is the result of rolling two dice. Legs lists the steps to play
// this turn: both faces normally, four times the face on doubles.
type DiceRoll struct {
	Die1 int
	Die2 int
	Legs []int
}

func NewDiceRoll(die1 int, die2 int) DiceRoll {
	if die1 < 1 || die1 > 6 || die2 < 1 || die2 > 6 {
		panic(fmt.Sprintf("invalid dice roll %d-%d", die1, die2))
	}
	r := DiceRoll{Die1: die1, Die2: die2}
	if die1 == die2 {
		r.Legs = []int{die1, die1, die1, die1}
	} else {
		r.Legs = []int{die1, die2}
	}
	return r
}

func (r DiceRoll) Doubles() bool {
	return r.Die1 == r.Die2
}

func (r DiceRoll) String() string {
	return fmt.Sprintf("%d-%d", r.Die1, r.Die2)
}

// RandInt returns a uniformly distributed value in [0, max).
func RandInt(max int) int {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}
	return int(i.Int64())
}
