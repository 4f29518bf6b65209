package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config описывает основные параметры lockbox.
type Config struct {
	Store struct {
		Backend         string `yaml:"backend" env:"LOCKBOX_STORE_BACKEND"`
		SQLitePath      string `yaml:"sqlite_path" env:"LOCKBOX_SQLITE_PATH"`
		AgeFilePath     string `yaml:"agefile_path" env:"LOCKBOX_AGEFILE_PATH"`
		AgeIdentityPath string `yaml:"age_identity_path" env:"LOCKBOX_AGE_IDENTITY_PATH"`
		KeyringService  string `yaml:"keyring_service" env:"LOCKBOX_KEYRING_SERVICE"`
	} `yaml:"store"`
	Auth struct {
		PassphraseBcrypt string `yaml:"passphrase_bcrypt" env:"LOCKBOX_PASSPHRASE_BCRYPT"`
	} `yaml:"auth"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	base := defaultDir()
	var cfg Config
	cfg.Store.Backend = "sqlite"
	cfg.Store.SQLitePath = filepath.Join(base, "secrets.db")
	cfg.Store.AgeFilePath = filepath.Join(base, "secrets.age")
	cfg.Store.AgeIdentityPath = filepath.Join(base, "identity.txt")
	cfg.Store.KeyringService = "lockbox"
	return cfg
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "lockbox")
}

// Load читает конфиг из файла YAML поверх значений по умолчанию,
// затем накладывает переменные окружения LOCKBOX_*.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- путь к конфигу задается доверенным оператором.
		if err != nil {
			return cfg, err
		}
		if len(data) == 0 {
			return cfg, errors.New("config file is empty")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
