package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"codeberg.org/tslocum/bgrules"
	"github.com/gorilla/mux"
)

type rollResult struct {
	Roll bgrules.DiceRoll
	Game bgrules.GameState
}

type moveResult struct {
	Move bgrules.Move
	Game bgrules.GameState
}

type errorResult struct {
	Error string
}

func (s *server) router() *mux.Router {
	m := mux.NewRouter()
	m.HandleFunc("/variants", s.handleListVariants).Methods(http.MethodGet)
	m.HandleFunc("/games", s.handleListGames).Methods(http.MethodGet)
	m.HandleFunc("/games", s.handleCreateGame).Methods(http.MethodPost)
	m.HandleFunc("/games/{id:[0-9]+}", s.handleGame).Methods(http.MethodGet)
	m.HandleFunc("/games/{id:[0-9]+}/board", s.handleBoard).Methods(http.MethodGet)
	m.HandleFunc("/games/{id:[0-9]+}/replay", s.handleGameReplay).Methods(http.MethodGet)
	m.HandleFunc("/games/{id:[0-9]+}/roll", s.handleRoll).Methods(http.MethodPost)
	m.HandleFunc("/games/{id:[0-9]+}/move", s.handleMove).Methods(http.MethodPost)
	m.HandleFunc("/games/{id:[0-9]+}/ws", s.handleWebSocket)
	m.HandleFunc("/replay/{id:[0-9]+}", s.handleReplay).Methods(http.MethodGet)
	if s.verbose {
		m.Use(logRequests)
	}
	return m
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("<- %s %s %s", r.RemoteAddr, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	buf, err := json.Marshal(v)
	if err != nil {
		log.Panicf("failed to marshal %+v: %s", v, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, &errorResult{Error: err.Error()})
}

// errorStatus maps a game error to an HTTP status code.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errIllegalMove), errors.Is(err, errNoSuchLeg):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errNotYourTurn), errors.Is(err, errGameOver), errors.Is(err, errAlreadyRolled), errors.Is(err, errNotRolled):
		return http.StatusConflict
	case errors.Is(err, bgrules.ErrVariantUnknown):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) requestGame(w http.ResponseWriter, r *http.Request) *serverGame {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil
	}
	g := s.gameByID(id)
	if g == nil {
		writeError(w, http.StatusNotFound, errors.New("game not found"))
		return nil
	}
	return g
}

func decodeCommand(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func decodeColor(w http.ResponseWriter, color string) (bgrules.Color, bool) {
	c, err := bgrules.ParseColor(color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return 0, false
	}
	return c, true
}

func (s *server) handleListVariants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.variants.Infos())
}

func (s *server) handleListGames(w http.ResponseWriter, r *http.Request) {
	var games []bgrules.GameState
	for _, id := range s.gameIDs() {
		g := s.gameByID(id)
		if g == nil {
			continue
		}
		g.Lock()
		games = append(games, g.state())
		g.Unlock()
	}
	if games == nil {
		games = []bgrules.GameState{}
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var cmd bgrules.CommandCreate
	if r.ContentLength != 0 && !decodeCommand(w, r, &cmd) {
		return
	}
	g, err := s.newGame(cmd.Variant)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}

	g.Lock()
	defer g.Unlock()
	writeJSON(w, http.StatusCreated, g.state())
}

func (s *server) handleGame(w http.ResponseWriter, r *http.Request) {
	g := s.requestGame(w, r)
	if g == nil {
		return
	}

	g.Lock()
	defer g.Unlock()
	writeJSON(w, http.StatusOK, g.state())
}

func (s *server) handleBoard(w http.ResponseWriter, r *http.Request) {
	g := s.requestGame(w, r)
	if g == nil {
		return
	}
	perspective := bgrules.White
	if color := r.URL.Query().Get("color"); color != "" {
		var ok bool
		perspective, ok = decodeColor(w, color)
		if !ok {
			return
		}
	}

	g.Lock()
	board := renderBoard(g.board, perspective)
	g.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(board)
}

func (s *server) handleGameReplay(w http.ResponseWriter, r *http.Request) {
	g := s.requestGame(w, r)
	if g == nil {
		return
	}

	g.Lock()
	replay := bytes.Join(g.replay, []byte("\n"))
	g.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(replay)
}

func (s *server) handleRoll(w http.ResponseWriter, r *http.Request) {
	g := s.requestGame(w, r)
	if g == nil {
		return
	}
	var cmd bgrules.CommandRoll
	if !decodeCommand(w, r, &cmd) {
		return
	}
	c, ok := decodeColor(w, cmd.Color)
	if !ok {
		return
	}

	g.Lock()
	defer g.Unlock()

	roll, err := g.rollDice(c)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, &rollResult{Roll: roll, Game: g.state()})
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	g := s.requestGame(w, r)
	if g == nil {
		return
	}
	var cmd bgrules.CommandMove
	if !decodeCommand(w, r, &cmd) {
		return
	}
	c, ok := decodeColor(w, cmd.Color)
	if !ok {
		return
	}

	g.Lock()
	defer g.Unlock()

	m, err := g.move(c, cmd.Position, cmd.Steps)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	if g.finished() {
		s.recordGame(g)
	}
	writeJSON(w, http.StatusOK, &moveResult{Move: m, Game: g.state()})
}

func (s *server) handleReplay(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotFound, errors.New("replays are not stored"))
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	replay, err := s.db.replayByID(r.Context(), id)
	if errors.Is(err, errReplayNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	} else if err != nil {
		log.Printf("failed to load replay %d: %s", id, err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to load replay"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(replay)
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	g := s.requestGame(w, r)
	if g == nil {
		return
	}
	client := newWebSocketClient(r, w, s.verbose)
	if client == nil {
		return
	}

	g.Lock()
	g.addClient(client)
	buf, err := json.Marshal(&bgrules.EventBoard{
		Event:     bgrules.Event{Type: bgrules.EventTypeBoard, Game: g.id},
		GameState: g.state(),
	})
	if err != nil {
		log.Panicf("failed to marshal board of game %d: %s", g.id, err)
	}
	client.Write(buf)
	g.Unlock()

	if s.verbose {
		log.Printf("Client %s watching game %d", client.Address(), g.id)
	}
	client.HandleReadWrite()

	g.Lock()
	g.removeClient(client)
	g.Unlock()
}
