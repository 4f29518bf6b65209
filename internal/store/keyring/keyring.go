package keyring

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"lockbox/internal/store"
)

// Store реализует store.Store поверх системного keyring.
// Все записи живут под одним service name; ключ секрета — account.
type Store struct {
	service string
}

// New создает backend с указанным service name.
func New(service string) *Store {
	if service == "" {
		service = "lockbox"
	}
	return &Store{service: service}
}

// Create сохраняет новый секрет; существующий ключ не перезаписывается.
func (s *Store) Create(_ context.Context, key, secret string) error {
	if _, err := keyring.Get(s.service, key); err == nil {
		return store.ErrExists
	}
	if err := keyring.Set(s.service, key, secret); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

// Read возвращает секрет по ключу.
func (s *Store) Read(_ context.Context, key string) (string, error) {
	secret, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", store.ErrNotFound
	}
	if err != nil {
		// Недоступная запись равнозначна отсутствующей.
		return "", fmt.Errorf("keyring get: %w", store.ErrNotFound)
	}
	return secret, nil
}

// Update заменяет значение существующего ключа.
func (s *Store) Update(_ context.Context, key, secret string) error {
	if _, err := keyring.Get(s.service, key); err != nil {
		return store.ErrNotFound
	}
	if err := keyring.Set(s.service, key, secret); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

// Delete удаляет запись по ключу.
func (s *Store) Delete(_ context.Context, key string) error {
	err := keyring.Delete(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}

// Close ничего не освобождает: keyring не держит соединений.
func (s *Store) Close() error {
	return nil
}
