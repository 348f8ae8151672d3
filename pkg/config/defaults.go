package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfig returns the embedded default config.ini.
func DefaultConfig() []byte {
	data, err := defaultsFS.ReadFile("defaults/config.ini")
	if err != nil {
		panic(fmt.Sprintf("embedded defaults missing: %v", err)) // compiled in, can't happen
	}
	return data
}

// Install writes the embedded default config to path when no file exists there.
// An existing file is never overwritten; installed reports whether a file was written.
func Install(path string) (installed bool, err error) {
	_, statErr := os.Stat(path)
	if statErr == nil {
		return false, nil
	}
	if !os.IsNotExist(statErr) {
		return false, fmt.Errorf("check config file: %w", statErr)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return false, fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, DefaultConfig(), 0o600); err != nil {
		return false, fmt.Errorf("write config file: %w", err)
	}
	return true, nil
}
