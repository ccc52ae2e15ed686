package bgrules

// Client receives game events.
type Client interface {
	Write(event []byte)
	Terminate(reason string)
	Terminated() bool
}
