package themedeck

import (
	"context"
	"database/sql"
	_ "embed"
	"sync"
	"time"

	"github.com/tailscale/squibble"
	_ "modernc.org/sqlite"
)

//go:embed db/latest_schema.sql
var dbSchema string

var schema = &squibble.Schema{
	Current: dbSchema,
}

type DB struct {
	mu sync.Mutex
	db *sql.DB

	filepath string
}

// ThemeRecord is one generated theme and the run that produced it.
type ThemeRecord struct {
	Id        int
	Prompt    string
	Generator string
	Model     string
	ThemeJSON string
	CreatedAt time.Time
}

func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.db.Close()
}

func NewDB(ctx context.Context, fname string) (*DB, error) {
	// Open the DB but flip on the cleaner timestamps from Go
	sqldb, err := sql.Open("sqlite", fname+"?_time_format=sqlite")
	if err != nil {
		return nil, err
	}
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, err
	}
	if err := schema.Apply(ctx, sqldb); err != nil {
		return nil, err
	}

	return &DB{db: sqldb, filepath: fname}, nil
}

// SaveTheme inserts a new row into the themes table and updates the model's
// id on success.
func (db *DB) SaveTheme(ctx context.Context, rec *ThemeRecord) error {
	res, err := db.db.ExecContext(ctx, `
		INSERT INTO themes
		(prompt, generator, model, theme_json, created_at)
		VALUES (?,?,?,?,?)`,
		rec.Prompt, rec.Generator, rec.Model, rec.ThemeJSON, rec.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.Id = int(id)

	return nil
}

// GetTheme retrieves a ThemeRecord by id.
func (db *DB) GetTheme(ctx context.Context, id int) (*ThemeRecord, error) {
	row := db.db.QueryRowContext(ctx, `
		SELECT id, prompt, generator, model, theme_json, created_at
		FROM themes
		WHERE id=?`, id)
	if row.Err() != nil {
		return nil, row.Err()
	}

	rec := &ThemeRecord{}
	err := row.Scan(
		&rec.Id,
		&rec.Prompt,
		&rec.Generator,
		&rec.Model,
		&rec.ThemeJSON,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// RecentThemes returns up to n of the most recently generated themes,
// newest first.
func (db *DB) RecentThemes(ctx context.Context, n int) ([]*ThemeRecord, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, prompt, generator, model, theme_json, created_at
		FROM themes
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*ThemeRecord
	for rows.Next() {
		rec := &ThemeRecord{}
		err := rows.Scan(
			&rec.Id,
			&rec.Prompt,
			&rec.Generator,
			&rec.Model,
			&rec.ThemeJSON,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}
