package config

import (
	_ "embed"
)

//go:embed default.yaml
var defaultConfig []byte

// Default returns the commented default configuration file.
func Default() []byte {
	return defaultConfig
}
