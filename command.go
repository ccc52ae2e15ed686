package bgrules

// commands are always sent TO the server

type CommandCreate struct {
	Variant string
}

type CommandRoll struct {
	Color string
}

type CommandMove struct {
	Color    string
	Position int // BarPosition (-1) to enter from the bar.
	Steps    int
}
