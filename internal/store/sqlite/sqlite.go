package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"lockbox/internal/store"
)

// Store реализует store.Store поверх SQLite.
type Store struct {
	db *sql.DB
}

// Open инициализирует соединение и выполняет миграции.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS secrets (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			ts DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Create сохраняет новый секрет; существующий ключ не перезаписывается.
func (s *Store) Create(ctx context.Context, key, secret string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM secrets WHERE key = ?`, key).Scan(&one)
	if err == nil {
		return store.ErrExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check key: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO secrets(key, value) VALUES(?,?)`, key, []byte(secret)); err != nil {
		return fmt.Errorf("insert secret: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create: %w", err)
	}
	return nil
}

// Read возвращает секрет по ключу.
func (s *Store) Read(ctx context.Context, key string) (string, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM secrets WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		// Нечитаемая запись равнозначна отсутствующей.
		return "", fmt.Errorf("query secret: %w", store.ErrNotFound)
	}
	return string(value), nil
}

// Update заменяет значение существующего ключа.
func (s *Store) Update(ctx context.Context, key, secret string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE secrets SET value = ?, ts = CURRENT_TIMESTAMP WHERE key = ?`, []byte(secret), key)
	if err != nil {
		return fmt.Errorf("update secret: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete удаляет запись по ключу.
func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM secrets WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Close закрывает соединение.
func (s *Store) Close() error {
	return s.db.Close()
}
