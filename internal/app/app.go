package app

import (
	"fmt"
	"os"
	"path/filepath"

	"lockbox/internal/auth"
	"lockbox/internal/config"
	"lockbox/internal/core"
	"lockbox/internal/store"
	"lockbox/internal/store/agefile"
	"lockbox/internal/store/keyring"
	"lockbox/internal/store/sqlite"
)

// App агрегирует зависимости ядра.
type App struct {
	Store      store.Store
	Gate       *core.Gate
	Dispatcher *core.Dispatcher
	Config     config.Config
}

// New строит приложение: хранилище, аутентификатор и диспетчер.
func New(cfg config.Config) (*App, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	gate := core.NewGate(auth.NewPassphrase(cfg.Auth.PassphraseBcrypt))
	return &App{
		Store:      st,
		Gate:       gate,
		Dispatcher: core.NewDispatcher(gate, st),
		Config:     cfg,
	}, nil
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "", "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o700); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		return sqlite.Open(cfg.Store.SQLitePath)
	case "keyring":
		return keyring.New(cfg.Store.KeyringService), nil
	case "agefile":
		if err := os.MkdirAll(filepath.Dir(cfg.Store.AgeFilePath), 0o700); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		return agefile.Open(cfg.Store.AgeFilePath, cfg.Store.AgeIdentityPath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// Close высвобождает ресурсы приложения.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
