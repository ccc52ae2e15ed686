package bgrules

// BarPosition is the source position of a piece entering from the bar.
const BarPosition = -1

// HomeSize is the number of points in a player's home quadrant.
const HomeSize = 6

// Normalize converts an absolute point index into the player relative frame,
// where 0 is the first home point and 23 the furthest point for both colors.
func Normalize(pos int, c Color) int {
	mustColor(c)
	if c == Black {
		return NumPoints - 1 - pos
	}
	return pos
}

// Denormalize converts a player relative position back to an absolute index.
func Denormalize(norm int, c Color) int {
	mustColor(c)
	if c == Black {
		return NumPoints - 1 - norm
	}
	return norm
}

// Advance moves steps points toward the home of c. The result is not clamped.
func Advance(pos int, c Color, steps int) int {
	mustColor(c)
	if c == Black {
		return pos + steps
	}
	return pos - steps
}

// OnBoard reports whether an absolute index addresses one of the 24 points.
func OnBoard(pos int) bool {
	return pos >= 0 && pos < NumPoints
}
