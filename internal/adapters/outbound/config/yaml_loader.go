package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abdidvp/contentmod/internal/domain"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".contentmod.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .contentmod.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .contentmod.yaml from dir. Keys absent from the file keep their
// default values; a missing file yields DefaultConfig. Relative root and dsn
// paths are resolved against dir.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.Config{}, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	cfg.Root = resolve(dir, cfg.Root)
	cfg.DSN = resolve(dir, cfg.DSN)
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
