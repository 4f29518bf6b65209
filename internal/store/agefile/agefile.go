package agefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"gopkg.in/yaml.v3"

	"lockbox/internal/store"
)

// Store реализует store.Store поверх одного age-зашифрованного YAML-файла.
// Каждая запись перешифровывает файл целиком; замена идет через
// временный файл и rename, частичное состояние снаружи не наблюдаемо.
type Store struct {
	path     string
	identity *age.X25519Identity
}

// Open загружает или создает X25519 identity и привязывает файл хранилища.
func Open(path, identityPath string) (*Store, error) {
	id, err := loadOrCreateIdentity(identityPath)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, identity: id}, nil
}

func loadOrCreateIdentity(path string) (*age.X25519Identity, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- путь задается конфигурацией оператора.
	if errors.Is(err, os.ErrNotExist) {
		id, err := age.GenerateX25519Identity()
		if err != nil {
			return nil, fmt.Errorf("generate identity: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create identity dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(id.String()+"\n"), 0o600); err != nil {
			return nil, fmt.Errorf("write identity: %w", err)
		}
		return id, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read identity: %w", err)
	}
	id, err := age.ParseX25519Identity(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse identity: %w", err)
	}
	return id, nil
}

// load читает и расшифровывает файл. Отсутствующий, нечитаемый или
// поврежденный файл трактуется как пустое хранилище.
func (s *Store) load() map[string]string {
	secrets := map[string]string{}
	data, err := os.ReadFile(s.path) // #nosec G304 -- путь задается конфигурацией оператора.
	if err != nil {
		return secrets
	}
	r, err := age.Decrypt(bytes.NewReader(data), s.identity)
	if err != nil {
		return secrets
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return secrets
	}
	if err := yaml.Unmarshal(plain, &secrets); err != nil {
		return map[string]string{}
	}
	return secrets
}

func (s *Store) save(secrets map[string]string) error {
	plain, err := yaml.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("marshal secrets: %w", err)
	}
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, s.identity.Recipient())
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	if _, err := w.Write(plain); err != nil {
		return fmt.Errorf("encrypt write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encrypt close: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// Create сохраняет новый секрет; существующий ключ не перезаписывается.
func (s *Store) Create(_ context.Context, key, secret string) error {
	secrets := s.load()
	if _, ok := secrets[key]; ok {
		return store.ErrExists
	}
	secrets[key] = secret
	return s.save(secrets)
}

// Read возвращает секрет по ключу.
func (s *Store) Read(_ context.Context, key string) (string, error) {
	secrets := s.load()
	secret, ok := secrets[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return secret, nil
}

// Update заменяет значение существующего ключа.
func (s *Store) Update(_ context.Context, key, secret string) error {
	secrets := s.load()
	if _, ok := secrets[key]; !ok {
		return store.ErrNotFound
	}
	secrets[key] = secret
	return s.save(secrets)
}

// Delete удаляет запись по ключу.
func (s *Store) Delete(_ context.Context, key string) error {
	secrets := s.load()
	if _, ok := secrets[key]; !ok {
		return store.ErrNotFound
	}
	delete(secrets, key)
	return s.save(secrets)
}

// Close ничего не освобождает: файл не держится открытым.
func (s *Store) Close() error {
	return nil
}
