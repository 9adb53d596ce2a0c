// Package history persists celebration transitions so the timeline of which
// city crossed its target when survives restarts.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/meridian-live/meridian/internal/store"
)

// Record is one persisted celebration: a city entering its window.
type Record struct {
	ID           string    `json:"id"`
	CityID       string    `json:"city_id"`
	CityName     string    `json:"city_name"`
	Timezone     string    `json:"timezone"`
	LocalDate    string    `json:"local_date"`
	CelebratedAt time.Time `json:"celebrated_at"`
}

// Migrations returns the schema migrations for the history component.
func Migrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create celebrations table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS celebrations (
						id            TEXT     PRIMARY KEY,
						city_id       TEXT     NOT NULL,
						city_name     TEXT     NOT NULL,
						timezone      TEXT     NOT NULL,
						local_date    TEXT     NOT NULL,
						celebrated_at DATETIME NOT NULL
					)
				`)
				return err
			},
		},
		{
			Version:     2,
			Description: "index celebrations by time",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE INDEX IF NOT EXISTS idx_celebrations_at
					ON celebrations (celebrated_at DESC)
				`)
				return err
			},
		},
	}
}

// Store reads and writes celebration records.
type Store struct {
	db *store.SQLiteStore
}

// NewStore creates a history store on the shared database.
func NewStore(db *store.SQLiteStore) *Store {
	return &Store{db: db}
}

// Insert persists one celebration record.
func (s *Store) Insert(ctx context.Context, r Record) error {
	_, err := s.db.DB().ExecContext(ctx, `
		INSERT INTO celebrations (id, city_id, city_name, timezone, local_date, celebrated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.CityID, r.CityName, r.Timezone, r.LocalDate, r.CelebratedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert celebration %s/%s: %w", r.CityID, r.LocalDate, err)
	}
	return nil
}

// Recent returns the most recent celebrations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT id, city_id, city_name, timezone, local_date, celebrated_at
		FROM celebrations
		ORDER BY celebrated_at DESC, city_id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query celebrations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.CityID, &r.CityName, &r.Timezone, &r.LocalDate, &r.CelebratedAt); err != nil {
			return nil, fmt.Errorf("scan celebration: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
