package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

const databaseSchema = `
CREATE TABLE IF NOT EXISTS game (
	id       serial PRIMARY KEY,
	variant  text NOT NULL,
	started  bigint NOT NULL,
	ended    bigint NOT NULL,
	winner   text NOT NULL,
	replay   text NOT NULL DEFAULT ''
);
`

var errReplayNotFound = errors.New("replay not found")

type database struct {
	conn *pgx.Conn
	sync.Mutex
}

func connectDB(ctx context.Context, dataSource string) (*database, error) {
	conn, err := pgx.Connect(ctx, dataSource)
	if err != nil {
		return nil, err
	}
	return &database{conn: conn}, nil
}

func (d *database) testConnection(ctx context.Context) error {
	d.Lock()
	defer d.Unlock()

	_, err := d.conn.Exec(ctx, "SELECT 1=1")
	return err
}

func (d *database) init(ctx context.Context) error {
	d.Lock()
	defer d.Unlock()

	_, err := d.conn.Exec(ctx, databaseSchema)
	return err
}

// recordGame stores a finished game and its replay. It returns the ID the
// replay is stored under.
func (d *database) recordGame(ctx context.Context, g *serverGame) (int, error) {
	d.Lock()
	defer d.Unlock()

	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, "INSERT INTO game (variant, started, ended, winner, replay) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		g.name, g.started.Unix(), g.ended.Unix(), g.winner.String(), string(bytes.Join(g.replay, []byte("\n")))).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}
	return id, tx.Commit(ctx)
}

func (d *database) replayByID(ctx context.Context, id int) ([]byte, error) {
	d.Lock()
	defer d.Unlock()

	var replay string
	err := d.conn.QueryRow(ctx, "SELECT replay FROM game WHERE id = $1", id).Scan(&replay)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errReplayNotFound
	} else if err != nil {
		return nil, err
	}
	return []byte(replay), nil
}
