package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrOptionNotFound    = errors.New("option not found")
	ErrUnsupportedDriver = errors.New("unsupported store driver")
)

type dialect struct {
	createTable string
	upsert      string
}

var dialects = map[string]dialect{
	DriverMySQL: {
		createTable: `
			CREATE TABLE IF NOT EXISTS options (
				option_name  VARCHAR(191) NOT NULL PRIMARY KEY,
				option_value LONGTEXT     NOT NULL,
				updated_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			)`,
		upsert: `
			INSERT INTO options (option_name, option_value) VALUES (?, ?)
			ON DUPLICATE KEY UPDATE option_value = VALUES(option_value)`,
	},
	DriverSQLite: {
		createTable: `
			CREATE TABLE IF NOT EXISTS options (
				option_name  TEXT     NOT NULL PRIMARY KEY,
				option_value TEXT     NOT NULL,
				updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		upsert: `
			INSERT INTO options (option_name, option_value) VALUES (?, ?)
			ON CONFLICT(option_name) DO UPDATE SET
				option_value = excluded.option_value,
				updated_at   = CURRENT_TIMESTAMP`,
	},
}

// OptionRepository is a key-value options table. Writes are last-writer-wins.
type OptionRepository struct {
	db      *sql.DB
	dialect dialect
}

// NewOptionRepository creates the options table if needed.
func NewOptionRepository(ctx context.Context, db *sql.DB, driver string) (*OptionRepository, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		return nil, fmt.Errorf("migrate options table: %w", err)
	}
	return &OptionRepository{db: db, dialect: d}, nil
}

// Get returns the value stored under name.
func (r *OptionRepository) Get(ctx context.Context, name string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT option_value FROM options WHERE option_name = ?`, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOptionNotFound
		}
		return nil, fmt.Errorf("get option %q: %w", name, err)
	}
	return []byte(value), nil
}

// Set inserts or replaces the value under name.
func (r *OptionRepository) Set(ctx context.Context, name string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.upsert, name, string(value)); err != nil {
		return fmt.Errorf("set option %q: %w", name, err)
	}
	return nil
}

// Delete removes name. Deleting a missing option is not an error.
func (r *OptionRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM options WHERE option_name = ?`, name); err != nil {
		return fmt.Errorf("delete option %q: %w", name, err)
	}
	return nil
}
