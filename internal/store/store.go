package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound — записи с таким ключом нет.
	ErrNotFound = errors.New("secret not found")
	// ErrExists — запись с таким ключом уже существует.
	ErrExists = errors.New("secret already exists")
)

// Store описывает операции хранилища секретов. Каждая операция
// самодостаточна: состояние между вызовами не удерживается.
type Store interface {
	// Create сохраняет новый секрет; ErrExists, если ключ занят.
	Create(ctx context.Context, key, secret string) error
	// Read возвращает секрет; нечитаемая запись равнозначна ErrNotFound.
	Read(ctx context.Context, key string) (string, error)
	// Update заменяет существующий секрет; ErrNotFound без мутаций, если ключа нет.
	Update(ctx context.Context, key, secret string) error
	// Delete удаляет запись; ErrNotFound, если удалять нечего.
	Delete(ctx context.Context, key string) error
	Close() error
}
