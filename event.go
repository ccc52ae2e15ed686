package bgrules

// events are always sent FROM the server

const (
	EventTypeBoard  = "board"
	EventTypeRolled = "rolled"
	EventTypeMoved  = "moved"
	EventTypeWin    = "win"
)

type Event struct {
	Type string
	Game int
}

type EventBoard struct {
	Event
	GameState
}

type EventRolled struct {
	Event
	Color Color
	Roll  DiceRoll
}

type EventMoved struct {
	Event
	Move Move
}

type EventWin struct {
	Event
	Winner Color
}
