// SQLite-backed user store: an embedded schema (embed.FS) and a
// single buffered action channel draining onto one goroutine, so
// every write is serialized without a mutex.

package users

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// dbAction is a closure executed against the single writer
// connection.
type dbAction func(*sql.DB) error

// SQLiteStore persists user records to a SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	acts chan dbAction
	done chan struct{}
}

// OpenSQLite opens (creating if necessary) the database at path and
// applies the embedded schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("users: applying schema: %w", err)
	}

	s := &SQLiteStore{
		db:   db,
		acts: make(chan dbAction, 16),
		done: make(chan struct{}),
	}
	go s.run()
	return s, nil
}

func (s *SQLiteStore) run() {
	for act := range s.acts {
		if err := act(s.db); err != nil {
			// A single failed write must not take down the writer
			// goroutine; the caller observes the error via the
			// result channel baked into the action closure.
			continue
		}
	}
	close(s.done)
}

// Close stops accepting new actions, drains pending ones and closes
// the underlying database handle.
func (s *SQLiteStore) Close() error {
	close(s.acts)
	<-s.done
	return s.db.Close()
}

func (s *SQLiteStore) submit(act dbAction) error {
	errc := make(chan error, 1)
	s.acts <- func(db *sql.DB) error {
		err := act(db)
		errc <- err
		return err
	}
	return <-errc
}

func (s *SQLiteStore) GetUser(ctx context.Context, username string) (Record, error) {
	var rec Record
	err := s.submit(func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT id, username, elo, wins, losses, draws, games_played FROM users WHERE username = ?`,
			username)
		err := row.Scan(&rec.ID, &rec.Username, &rec.Elo, &rec.Wins, &rec.Losses, &rec.Draws, &rec.GamesPlayed)
		if err == sql.ErrNoRows {
			res, err := db.ExecContext(ctx,
				`INSERT INTO users (username, elo) VALUES (?, ?)`, username, DefaultElo)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			rec = Record{ID: id, Username: username, Elo: DefaultElo}
			return nil
		}
		return err
	})
	return rec, err
}

func (s *SQLiteStore) UpdateStats(ctx context.Context, username string, result Result, newElo int) error {
	return s.submit(func(db *sql.DB) error {
		var column string
		switch result {
		case Win:
			column = "wins"
		case Loss:
			column = "losses"
		case Draw:
			column = "draws"
		default:
			return fmt.Errorf("users: unknown result %q", result)
		}

		query := fmt.Sprintf(
			`UPDATE users SET elo = ?, games_played = games_played + 1, %s = %s + 1 WHERE username = ?`,
			column, column)
		res, err := db.ExecContext(ctx, query, newElo, username)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			_, err := db.ExecContext(ctx,
				`INSERT INTO users (username, elo, games_played, `+column+`) VALUES (?, ?, 1, 1)`,
				username, newElo)
			return err
		}
		return nil
	})
}
