package bgrules

// GameState is a snapshot of a game sent to clients.
type GameState struct {
	ID        int
	Variant   string
	Board     *Board
	Turn      Color
	Roll      *DiceRoll   `json:",omitempty"`
	Legs      []int       // Unplayed legs of the current roll.
	Winner    *Color      `json:",omitempty"`
	Available []Candidate // Legal moves for the remaining legs.
	Pips      [2]int
	ReplayID  int `json:",omitempty"` // Set once a finished game has been recorded.
}
