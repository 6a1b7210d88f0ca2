package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLite keeps the last-purchase record in a one-row table.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context) (model.PurchaseRecord, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT purchased_at FROM last_purchase WHERE id = 1`,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PurchaseRecord{}, ErrNoRecord
	}
	if err != nil {
		return model.PurchaseRecord{}, fmt.Errorf("get last purchase: %w", err)
	}

	t, err := parseTime(raw)
	if err != nil {
		return model.PurchaseRecord{}, err
	}
	return model.PurchaseRecord{Date: t}, nil
}

func (s *SQLite) Save(ctx context.Context, record model.PurchaseRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO last_purchase (id, purchased_at, updated_at)
		 VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   purchased_at = excluded.purchased_at,
		   updated_at = excluded.updated_at`,
		formatTime(record.Date), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save last purchase: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
