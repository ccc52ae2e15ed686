package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"codeberg.org/tslocum/bgrules"
)

const clientTimeout = 40 * time.Second

const inactiveLimit = 3600 // 1 hour.

type server struct {
	games      map[int]*serverGame
	gamesLock  sync.RWMutex
	newGameIDs chan int

	variants       *bgrules.Registry
	defaultVariant string

	db *database

	verbose bool
}

func NewServer(op *Options) *server {
	s := &server{
		games:          make(map[int]*serverGame),
		newGameIDs:     make(chan int),
		variants:       bgrules.DefaultRegistry(),
		defaultVariant: op.Variant,
		verbose:        op.Verbose,
	}
	if s.defaultVariant == "" {
		s.defaultVariant = "bulgarian"
	}
	if _, err := s.variants.New(s.defaultVariant); err != nil {
		log.Fatalf("failed to select default variant: %s", err)
	}

	if op.DataSource != "" {
		ctx := context.Background()
		var err error
		s.db, err = connectDB(ctx, op.DataSource)
		if err != nil {
			log.Fatalf("failed to connect to database: %s", err)
		}

		err = s.db.testConnection(ctx)
		if err != nil {
			log.Fatalf("failed to test database connection: %s", err)
		}

		err = s.db.init(ctx)
		if err != nil {
			log.Fatalf("failed to initialize database: %s", err)
		}

		log.Println("Connected to database successfully")
	}

	go s.handleNewGameIDs()
	go s.handleGames()
	return s
}

// Listen serves the HTTP API on address. It only returns on failure.
func (s *server) Listen(address string) error {
	log.Printf("Listening for HTTP connections on %s...", address)
	err := http.ListenAndServe(address, s.router())
	return fmt.Errorf("failed to listen on %s: %w", address, err)
}

func (s *server) handleNewGameIDs() {
	gameID := 1
	for {
		s.newGameIDs <- gameID
		gameID++
	}
}

// handleGames removes games that have been inactive for too long.
func (s *server) handleGames() {
	t := time.NewTicker(time.Minute)
	for range t.C {
		s.removeInactiveGames(time.Now().Unix())
	}
}

func (s *server) removeInactiveGames(now int64) {
	s.gamesLock.Lock()
	defer s.gamesLock.Unlock()

	for id, g := range s.games {
		g.Lock()
		if now-g.active >= inactiveLimit {
			g.eachClient(func(client bgrules.Client) {
				client.Terminate("game removed due to inactivity")
			})
			delete(s.games, id)
			if s.verbose {
				log.Printf("Removed inactive game %d", id)
			}
		}
		g.Unlock()
	}
}

func (s *server) newGame(variant string) (*serverGame, error) {
	if variant == "" {
		variant = s.defaultVariant
	}
	v, err := s.variants.New(variant)
	if err != nil {
		return nil, err
	}

	g := newServerGame(<-s.newGameIDs, variant, v)

	s.gamesLock.Lock()
	s.games[g.id] = g
	s.gamesLock.Unlock()

	if s.verbose {
		log.Printf("Created game %d (%s)", g.id, variant)
	}
	return g, nil
}

func (s *server) gameByID(id int) *serverGame {
	s.gamesLock.RLock()
	defer s.gamesLock.RUnlock()

	return s.games[id]
}

func (s *server) gameIDs() []int {
	s.gamesLock.RLock()
	defer s.gamesLock.RUnlock()

	ids := make([]int, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// recordGame stores a finished game, and assumes the game is locked.
func (s *server) recordGame(g *serverGame) {
	if s.db == nil || !g.finished() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
	defer cancel()

	id, err := s.db.recordGame(ctx, g)
	if err != nil {
		log.Printf("failed to record game %d: %s", g.id, err)
		return
	}
	g.replayID = id
}
