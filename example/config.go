package main

import (
	"errors"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Config holds the example server's settings, loaded from a TOML file.
type Config struct {
	Addr     string `toml:"addr"`
	Key      string `toml:"key"`
	LogLevel string `toml:"log_level"`
	Pretty   bool   `toml:"pretty"`
}

// LoadConfig reads path and fills in defaults for anything unset.
// A missing file is not an error; defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Addr:     ":8080",
		Key:      "example-key-must-be-32-bytes!!",
		LogLevel: "info",
		Pretty:   true,
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	return cfg, nil
}
