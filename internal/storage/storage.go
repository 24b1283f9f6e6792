// Package storage provides SQLite-backed caching of market constituent
// lists, so switching markets does not rescrape the reference pages.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"stockwatch/internal/models"
)

// Store wraps a SQLite database holding cached ticker lists.
type Store struct {
	db *sql.DB
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/stockwatch/cache.db.
func New(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "stockwatch", "cache.db")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS ticker_lists (
			market     TEXT NOT NULL,
			position   INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (market, position)
		)`)
	return err
}

// SaveTickerList replaces the cached list for market, preserving order.
func (s *Store) SaveTickerList(market string, list []models.Ticker, fetchedAt time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM ticker_lists WHERE market = ?`, market); err != nil {
		return fmt.Errorf("failed to clear old list: %w", err)
	}
	for i, t := range list {
		if _, err := tx.Exec(`
			INSERT INTO ticker_lists (market, position, symbol, fetched_at)
			VALUES (?,?,?,?)`,
			market, i, string(t), fetchedAt.UnixNano(),
		); err != nil {
			return fmt.Errorf("failed to insert symbol: %w", err)
		}
	}
	return tx.Commit()
}

// LoadTickerList returns the cached list for market if one exists and is
// newer than maxAge. The boolean reports a usable hit.
func (s *Store) LoadTickerList(market string, maxAge time.Duration, now time.Time) ([]models.Ticker, bool, error) {
	rows, err := s.db.Query(`
		SELECT symbol, fetched_at FROM ticker_lists
		WHERE market = ? ORDER BY position`, market)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query list: %w", err)
	}
	defer rows.Close()

	var list []models.Ticker
	var fetchedAtNano int64
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol, &fetchedAtNano); err != nil {
			return nil, false, fmt.Errorf("failed to scan symbol: %w", err)
		}
		list = append(list, models.Ticker(symbol))
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(list) == 0 {
		return nil, false, nil
	}
	if now.Sub(time.Unix(0, fetchedAtNano)) > maxAge {
		return nil, false, nil
	}
	return list, true, nil
}
