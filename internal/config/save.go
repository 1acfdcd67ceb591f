package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveAtomic validates cfg and replaces path via a temp file, keeping the
// previous file as path.bak.
func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}

	tmp, bak := path+".tmp", path+".bak"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return nil
}
