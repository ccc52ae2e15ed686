package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"codeberg.org/tslocum/bgrules"
)

var (
	errGameOver      = errors.New("game is over")
	errNotYourTurn   = errors.New("not your turn")
	errAlreadyRolled = errors.New("dice already rolled")
	errNotRolled     = errors.New("roll the dice first")
	errNoSuchLeg     = errors.New("no unplayed die with that value")
	errIllegalMove   = errors.New("illegal move")
)

// moveChecker is implemented by variants able to explain a rejected move.
type moveChecker interface {
	CheckMove(b *bgrules.Board, position int, c bgrules.Color, steps int) error
}

type serverGame struct {
	id       int
	created  int64
	active   int64
	variant  bgrules.Variant
	name     string
	board    *bgrules.Board
	turn     bgrules.Color
	roll     *bgrules.DiceRoll
	legs     []int
	winner   *bgrules.Color
	started  time.Time
	ended    time.Time
	replay   [][]byte
	replayID int
	clients  []bgrules.Client
	sync.Mutex
}

func newServerGame(id int, name string, variant bgrules.Variant) *serverGame {
	now := time.Now()
	g := &serverGame{
		id:      id,
		created: now.Unix(),
		active:  now.Unix(),
		variant: variant,
		name:    name,
		board:   bgrules.NewBoard(),
		turn:    bgrules.White,
		started: now,
	}
	variant.Setup(g.board)
	return g
}

// state returns a snapshot of the game, and assumes the game is locked.
func (g *serverGame) state() bgrules.GameState {
	gs := bgrules.GameState{
		ID:      g.id,
		Variant: g.name,
		Board:   g.board.Copy(),
		Turn:    g.turn,
		Legs:    append([]int(nil), g.legs...),
		Winner:  g.winner,
		Pips:    [2]int{bgrules.PipCount(g.board, bgrules.White), bgrules.PipCount(g.board, bgrules.Black)},

		ReplayID: g.replayID,
	}
	if g.roll != nil {
		roll := *g.roll
		gs.Roll = &roll
		gs.Available = bgrules.LegalMoves(g.variant, g.board, g.turn, g.legs)
	}
	return gs
}

// rollDice rolls for the player on turn, and assumes the game is locked. The
// turn passes immediately when no leg of the roll can be played.
func (g *serverGame) rollDice(c bgrules.Color) (bgrules.DiceRoll, error) {
	switch {
	case g.winner != nil:
		return bgrules.DiceRoll{}, errGameOver
	case c != g.turn:
		return bgrules.DiceRoll{}, errNotYourTurn
	case g.roll != nil:
		return bgrules.DiceRoll{}, errAlreadyRolled
	}

	roll := g.variant.RollDice()
	g.roll = &roll
	g.legs = append([]int(nil), roll.Legs...)
	g.active = time.Now().Unix()
	g.addReplay("%s rolled %s", c, roll)
	g.broadcast(&bgrules.EventRolled{
		Event: bgrules.Event{Type: bgrules.EventTypeRolled, Game: g.id},
		Color: c,
		Roll:  roll,
	})

	if !g.passIfBlocked() {
		g.sendBoard()
	}
	return roll, nil
}

// move plays one leg of the current roll, and assumes the game is locked.
func (g *serverGame) move(c bgrules.Color, position int, steps int) (bgrules.Move, error) {
	switch {
	case g.winner != nil:
		return bgrules.Move{}, errGameOver
	case c != g.turn:
		return bgrules.Move{}, errNotYourTurn
	case g.roll == nil:
		return bgrules.Move{}, errNotRolled
	}

	leg := -1
	for i, l := range g.legs {
		if l == steps {
			leg = i
			break
		}
	}
	if leg == -1 {
		return bgrules.Move{}, errNoSuchLeg
	}
	if position != bgrules.BarPosition && !bgrules.OnBoard(position) {
		return bgrules.Move{}, fmt.Errorf("%w: position %d is not on the board", errIllegalMove, position)
	}

	if !g.variant.ValidateMove(g.board, position, c, steps) {
		if checker, ok := g.variant.(moveChecker); ok {
			if err := checker.CheckMove(g.board, position, c, steps); err != nil {
				return bgrules.Move{}, fmt.Errorf("%w: %w", errIllegalMove, err)
			}
		}
		return bgrules.Move{}, errIllegalMove
	}

	m := g.variant.ApplyMove(g.board, position, c, steps)
	g.legs = append(g.legs[:leg], g.legs[leg+1:]...)
	g.active = time.Now().Unix()
	g.addReplay("%s", m)
	g.broadcast(&bgrules.EventMoved{
		Event: bgrules.Event{Type: bgrules.EventTypeMoved, Game: g.id},
		Move:  m,
	})

	if g.board.Home[c] == bgrules.NumPieces {
		winner := c
		g.winner = &winner
		g.ended = time.Now()
		g.roll, g.legs = nil, nil
		g.addReplay("%s won", c)
		g.broadcast(&bgrules.EventWin{
			Event:  bgrules.Event{Type: bgrules.EventTypeWin, Game: g.id},
			Winner: c,
		})
		return m, nil
	}

	if len(g.legs) == 0 {
		g.nextTurn()
	} else if !g.passIfBlocked() {
		g.sendBoard()
	}
	return m, nil
}

// passIfBlocked ends the turn when none of the remaining legs can be played.
func (g *serverGame) passIfBlocked() bool {
	if bgrules.HasLegalMove(g.variant, g.board, g.turn, g.legs) {
		return false
	}
	g.addReplay("%s passed", g.turn)
	g.nextTurn()
	return true
}

func (g *serverGame) nextTurn() {
	g.turn = g.turn.Opponent()
	g.roll, g.legs = nil, nil
	g.sendBoard()
}

func (g *serverGame) finished() bool {
	return g.winner != nil
}

func (g *serverGame) addReplay(format string, a ...any) {
	g.replay = append(g.replay, []byte(fmt.Sprintf(format, a...)))
}

func (g *serverGame) eachClient(f func(client bgrules.Client)) {
	for _, client := range g.clients {
		f(client)
	}
}

func (g *serverGame) addClient(client bgrules.Client) {
	g.clients = append(g.clients, client)
}

func (g *serverGame) removeClient(client bgrules.Client) {
	for i, c := range g.clients {
		if c == client {
			g.clients = append(g.clients[:i], g.clients[i+1:]...)
			return
		}
	}
}

func (g *serverGame) sendBoard() {
	g.broadcast(&bgrules.EventBoard{
		Event:     bgrules.Event{Type: bgrules.EventTypeBoard, Game: g.id},
		GameState: g.state(),
	})
}

func (g *serverGame) broadcast(ev any) {
	if len(g.clients) == 0 {
		return
	}
	buf, err := json.Marshal(ev)
	if err != nil {
		log.Panicf("failed to marshal %+v: %s", ev, err)
	}
	g.eachClient(func(client bgrules.Client) {
		if !client.Terminated() {
			client.Write(buf)
		}
	})
}
