package server

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"codeberg.org/tslocum/bgrules"
	"github.com/coder/websocket"
)

const eventBufferSize = 32

var acceptOptions = &websocket.AcceptOptions{
	InsecureSkipVerify: true,
	CompressionMode:    websocket.CompressionContextTakeover,
}

var _ bgrules.Client = &webSocketClient{}

// webSocketClient pushes game events to a websocket connection.
type webSocketClient struct {
	conn       *websocket.Conn
	address    string
	events     chan []byte
	terminated atomic.Bool
	wgEvents   sync.WaitGroup
	verbose    bool
}

func newWebSocketClient(r *http.Request, w http.ResponseWriter, verbose bool) *webSocketClient {
	conn, err := websocket.Accept(w, r, acceptOptions)
	if err != nil {
		return nil
	}

	return &webSocketClient{
		conn:    conn,
		address: r.RemoteAddr,
		events:  make(chan []byte, eventBufferSize),
		verbose: verbose,
	}
}

func (c *webSocketClient) Address() string {
	return c.address
}

// HandleReadWrite blocks until the connection is closed.
func (c *webSocketClient) HandleReadWrite() {
	if c.terminated.Load() {
		return
	}

	closeWrite := make(chan struct{}, 1)

	go c.writeEvents(closeWrite)
	c.readCommands()

	closeWrite <- struct{}{}
}

// Write queues an event. Events are dropped when the client falls too far
// behind.
func (c *webSocketClient) Write(event []byte) {
	if c.terminated.Load() {
		return
	}

	c.wgEvents.Add(1)
	select {
	case c.events <- event:
	default:
		c.wgEvents.Done()
		log.Printf("dropped event for slow client %s", c.address)
	}
}

// readCommands discards incoming messages until the connection is closed.
// Clients send commands through the HTTP API.
func (c *webSocketClient) readCommands() {
	for {
		if c.terminated.Load() {
			return
		}

		_, _, err := c.conn.Read(context.Background())
		if err != nil {
			c.Terminate(err.Error())
			return
		}
	}
}

func (c *webSocketClient) writeEvents(closeWrite chan struct{}) {
	var event []byte
	for {
		select {
		case <-closeWrite:
			for {
				select {
				case <-c.events:
					c.wgEvents.Done()
				default:
					return
				}
			}
		case event = <-c.events:
		}

		if c.terminated.Load() {
			c.wgEvents.Done()
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, event)
		cancel()
		if err != nil {
			c.Terminate(err.Error())
			c.wgEvents.Done()
			continue
		}

		if c.verbose && !bytes.HasPrefix(event, []byte(`{"Type":"board"`)) {
			log.Printf("-> %s", event)
		}
		c.wgEvents.Done()
	}
}

func (c *webSocketClient) Terminate(reason string) {
	if c.terminated.Swap(true) {
		return
	}
	if c.verbose && reason != "" {
		log.Printf("Terminated client %s: %s", c.address, reason)
	}
	c.conn.CloseNow()
}

func (c *webSocketClient) Terminated() bool {
	return c.terminated.Load()
}
