package bgrules

// Candidate is a single leg accepted by a variant.
type Candidate struct {
	Position int // BarPosition when entering.
	Steps    int
}

// LegalMoves returns every position and leg combination the variant accepts
// for color c. Repeated legs are only tried once.
func LegalMoves(v Variant, b *Board, c Color, legs []int) []Candidate {
	var moves []Candidate
	var tried [7]bool
	for _, steps := range legs {
		if steps < 1 || steps > 6 || tried[steps] {
			continue
		}
		tried[steps] = true

		if b.Bar[c].Len() > 0 {
			if v.ValidateMove(b, BarPosition, c, steps) {
				moves = append(moves, Candidate{BarPosition, steps})
			}
			continue
		}

		iterateSpaces(NumPoints-1, 0, func(norm int) {
			pos := Denormalize(norm, c)
			if b.Points[pos].Count(c) == 0 {
				return
			}
			if v.ValidateMove(b, pos, c, steps) {
				moves = append(moves, Candidate{pos, steps})
			}
		})
	}
	return moves
}

// HasLegalMove reports whether any leg can be played.
func HasLegalMove(v Variant, b *Board, c Color, legs []int) bool {
	return len(LegalMoves(v, b, c, legs)) > 0
}

// PipCount returns the total number of points c must move to bear off every
// remaining piece. Pieces on the bar count 25.
func PipCount(b *Board, c Color) int {
	pips := b.Bar[c].Len() * (NumPoints + 1)
	for pos := range b.Points {
		if n := b.Points[pos].Count(c); n > 0 {
			pips += n * (Normalize(pos, c) + 1)
		}
	}
	return pips
}

func iterateSpaces(from int, to int, f func(space int)) {
	if to > from {
		for space := from; space <= to; space++ {
			f(space)
		}
	} else {
		for space := from; space >= to; space-- {
			f(space)
		}
	}
}
