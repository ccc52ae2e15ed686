package bgrules

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulgarianSetup(t *testing.T) {
	v := NewBulgarian()
	b := NewBoard()

	// Dirty the board first; setup must not depend on prior contents.
	b.Place(3, Black, 4)
	b.Bar[White].Push(Piece{White})
	b.Home[Black] = 7

	v.Setup(b)
	require.NoError(t, b.Verify())

	want := map[Color]map[int]int{
		White: {5: 5, 7: 3, 12: 5, 23: 2},
		Black: {18: 5, 16: 3, 11: 5, 0: 2},
	}
	for pos := 0; pos < NumPoints; pos++ {
		owner, n := b.Owner(pos)
		if n == 0 {
			assert.Zero(t, want[White][pos]+want[Black][pos], "point %d is empty", pos)
			continue
		}
		assert.Equal(t, want[owner][pos], n, "point %d", pos)
	}
	for _, c := range []Color{White, Black} {
		assert.Equal(t, 0, b.Bar[c].Len())
		assert.Equal(t, 0, b.Home[c])
		assert.Equal(t, NumPieces, b.OnPoints(c))
	}

	again := b.Copy()
	v.Setup(again)
	assert.True(t, b.Equal(again))
}

func TestBulgarianInfo(t *testing.T) {
	info := NewBulgarian().Info()
	assert.Equal(t, "bulgarian", info.Name)
	assert.Equal(t, "BG", info.CountryCode)
	assert.NotEmpty(t, info.Title)
}

func TestCheckMove(t *testing.T) {
	tests := []struct {
		name     string
		white    map[int]int
		black    map[int]int
		whiteBar int
		blackBar int
		color    Color
		position int
		steps    int
		want     error
	}{
		{
			name:  "blocked by starting point",
			color: White, position: 5, steps: 5,
			white: map[int]int{5: 5, 7: 3, 12: 5, 23: 2},
			black: map[int]int{18: 5, 16: 3, 11: 5, 0: 2},
			want:  ErrBlocked,
		},
		{
			name:  "open point",
			color: White, position: 5, steps: 3,
			white: map[int]int{5: 5, 7: 3, 12: 5, 23: 2},
			black: map[int]int{18: 5, 16: 3, 11: 5, 0: 2},
		},
		{
			name:  "black moves up",
			color: Black, position: 0, steps: 5,
			white: map[int]int{5: 5, 7: 3, 12: 5, 23: 2},
			black: map[int]int{18: 5, 16: 3, 11: 5, 0: 2},
			want:  ErrBlocked,
		},
		{
			name:  "hit single piece",
			color: White, position: 10, steps: 3,
			white: map[int]int{10: 1},
			black: map[int]int{7: 1, 20: 1},
		},
		{
			name:  "empty point",
			color: White, position: 9, steps: 3,
			white: map[int]int{10: 1},
			want:  ErrEmptyPoint,
		},
		{
			name:  "opponent piece",
			color: White, position: 20, steps: 3,
			white: map[int]int{10: 1},
			black: map[int]int{20: 2},
			want:  ErrOpponentPiece,
		},
		{
			name:  "invalid steps",
			color: White, position: 10, steps: 7,
			white: map[int]int{10: 1},
			want:  ErrInvalidSteps,
		},
		{
			name:  "no pieces on bar",
			color: White, position: BarPosition, steps: 2,
			white: map[int]int{10: 1},
			want:  ErrNotOnBar,
		},
		{
			name:  "bar priority",
			color: White, position: 10, steps: 2,
			white: map[int]int{10: 1}, whiteBar: 1,
			want: ErrBarNeeded,
		},
		{
			name:  "white enters",
			color: White, position: BarPosition, steps: 3,
			white: map[int]int{10: 1}, whiteBar: 1,
			black: map[int]int{2: 1},
		},
		{
			name:  "white entry blocked",
			color: White, position: BarPosition, steps: 3,
			white: map[int]int{10: 1}, whiteBar: 1,
			black: map[int]int{2: 2},
			want:  ErrBlocked,
		},
		{
			name:  "black entry blocked",
			color: Black, position: BarPosition, steps: 3,
			black: map[int]int{10: 1}, blackBar: 1,
			white: map[int]int{21: 3},
			want:  ErrBlocked,
		},
		{
			name:  "black bar priority",
			color: Black, position: 10, steps: 3,
			black: map[int]int{10: 1}, blackBar: 2,
			want: ErrBarNeeded,
		},
		{
			name:  "bear off exact",
			color: White, position: 2, steps: 3,
			white: map[int]int{2: 1},
		},
		{
			name:  "bear off overshoot from furthest piece",
			color: White, position: 4, steps: 6,
			white: map[int]int{4: 1, 2: 3},
		},
		{
			name:  "bear off overshoot with further piece",
			color: White, position: 2, steps: 6,
			white: map[int]int{4: 1, 2: 3},
			want:  ErrFurtherPieces,
		},
		{
			name:  "bear off before all home",
			color: White, position: 2, steps: 3,
			white: map[int]int{2: 1, 6: 1},
			want:  ErrCannotBearOff,
		},
		{
			name:  "black bear off exact",
			color: Black, position: 21, steps: 3,
			black: map[int]int{21: 2, 23: 1},
		},
		{
			name:  "black bear off before all home",
			color: Black, position: 20, steps: 4,
			black: map[int]int{20: 1, 0: 1},
			want:  ErrCannotBearOff,
		},
		{
			name:  "ordinary move inside home while bearing off",
			color: White, position: 4, steps: 2,
			white: map[int]int{4: 1, 2: 3},
		},
	}

	v := NewBulgarian()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardWith(tt.white, tt.black)
			for i := 0; i < tt.whiteBar; i++ {
				b.Bar[White].Push(Piece{White})
				b.Home[White]--
			}
			for i := 0; i < tt.blackBar; i++ {
				b.Bar[Black].Push(Piece{Black})
				b.Home[Black]--
			}
			require.NoError(t, b.Verify())

			before := b.Copy()
			err := v.CheckMove(b, tt.position, tt.color, tt.steps)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
			assert.Equal(t, tt.want == nil, v.ValidateMove(b, tt.position, tt.color, tt.steps))
			assert.True(t, before.Equal(b), "validation modified the board")
		})
	}
}

func TestCheckMoveStructuralErrors(t *testing.T) {
	v := NewBulgarian()
	b := NewBoard()
	v.Setup(b)

	assert.Panics(t, func() { v.ValidateMove(nil, 5, White, 3) })
	assert.Panics(t, func() { v.ValidateMove(b, 24, White, 3) })
	assert.Panics(t, func() { v.ValidateMove(b, -2, White, 3) })
	assert.Panics(t, func() { v.ValidateMove(b, 5, Color(5), 3) })
}

func TestBoundsAtEdges(t *testing.T) {
	v := NewBulgarian()

	// Destinations 0 and 23 are ordinary points.
	b := boardWith(map[int]int{4: 1, 12: 1}, map[int]int{19: 1, 3: 1})
	assert.True(t, v.ValidateMove(b, 4, White, 4))
	assert.True(t, v.ValidateMove(b, 19, Black, 4))

	// One step further leaves the board and needs every piece home.
	assert.ErrorIs(t, v.CheckMove(b, 4, White, 5), ErrCannotBearOff)
	assert.ErrorIs(t, v.CheckMove(b, 19, Black, 5), ErrCannotBearOff)
}

func TestApplyMove(t *testing.T) {
	v := NewBulgarian()

	t.Run("hit", func(t *testing.T) {
		b := boardWith(map[int]int{10: 2}, map[int]int{7: 1})
		require.True(t, v.ValidateMove(b, 10, White, 3))

		m := v.ApplyMove(b, 10, White, 3)
		assert.Equal(t, Move{Color: White, From: 10, To: 7, Steps: 3, Hit: true}, m)
		assert.Equal(t, "white 10/7*", m.String())
		assert.Equal(t, 1, b.Points[10].Count(White))
		assert.Equal(t, 1, b.Points[7].Count(White))
		assert.Equal(t, 0, b.Points[7].Count(Black))
		assert.Equal(t, 1, b.Bar[Black].Len())
		assert.NoError(t, b.Verify())

		// Black must now enter before doing anything else.
		assert.ErrorIs(t, v.CheckMove(b, 20, Black, 1), ErrBarNeeded)
	})

	t.Run("enter", func(t *testing.T) {
		b := boardWith(map[int]int{21: 1}, map[int]int{10: 1})
		b.Bar[Black].Push(Piece{Black})
		b.Home[Black]--
		require.True(t, v.ValidateMove(b, BarPosition, Black, 3))

		m := v.ApplyMove(b, BarPosition, Black, 3)
		assert.Equal(t, 21, m.To)
		assert.True(t, m.Hit)
		assert.Equal(t, "black bar/21*", m.String())
		assert.Equal(t, 0, b.Bar[Black].Len())
		assert.Equal(t, 1, b.Bar[White].Len())
		assert.Equal(t, 1, b.Points[21].Count(Black))
		assert.NoError(t, b.Verify())
	})

	t.Run("bear off", func(t *testing.T) {
		b := boardWith(map[int]int{2: 1}, map[int]int{10: 1})
		require.True(t, v.ValidateMove(b, 2, White, 3))

		m := v.ApplyMove(b, 2, White, 3)
		assert.True(t, m.BearOff)
		assert.Equal(t, -1, m.To)
		assert.Equal(t, "white 2/off", m.String())
		assert.Equal(t, NumPieces, b.Home[White])
		assert.Equal(t, 0, b.OnPoints(White))
	})

	t.Run("empty source", func(t *testing.T) {
		b := boardWith(map[int]int{2: 1}, nil)
		assert.Panics(t, func() { v.ApplyMove(b, 3, White, 1) })
	})

	t.Run("blocked destination", func(t *testing.T) {
		b := boardWith(map[int]int{10: 1}, map[int]int{7: 2})
		assert.Panics(t, func() { v.ApplyMove(b, 10, White, 3) })
	})
}

func TestRandomGames(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		v := NewBulgarian()
		v.Roll = rng.Intn

		b := NewBoard()
		v.Setup(b)

		turn := White
		for i := 0; i < 2000 && b.Home[White] < NumPieces && b.Home[Black] < NumPieces; i++ {
			legs := v.RollDice().Legs
			for len(legs) > 0 {
				moves := LegalMoves(v, b, turn, legs)
				if len(moves) == 0 {
					break
				}
				for _, m := range moves {
					if v.HavePiecesOnBar(b, turn) {
						require.Equal(t, BarPosition, m.Position)
					}
				}

				m := moves[rng.Intn(len(moves))]
				before := b.Copy()
				require.True(t, v.ValidateMove(b, m.Position, turn, m.Steps))
				require.True(t, before.Equal(b))

				if !OnBoard(Advance(m.Position, turn, m.Steps)) && m.Position != BarPosition {
					require.True(t, v.AllPiecesAreHome(b, turn))
				}

				v.ApplyMove(b, m.Position, turn, m.Steps)
				require.NoError(t, b.Verify())

				for j, leg := range legs {
					if leg == m.Steps {
						legs = append(legs[:j], legs[j+1:]...)
						break
					}
				}
			}
			turn = turn.Opponent()
		}
	}
}
