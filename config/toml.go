package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/xh3b4sd/tracer"
)

// Load reads a TOML configuration from the given path on top of Default.
// A missing file is not an error.
func Load(pat string) (Config, error) {
	cfg := Default()

	if pat == "" {
		return cfg, nil
	}

	byt, err := os.ReadFile(pat)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return Config{}, tracer.Mask(err)
	}

	cfg, err = Decode(string(byt))
	if err != nil {
		return Config{}, tracer.Mask(err)
	}

	return cfg, nil
}

// Decode parses TOML text on top of Default.
func Decode(txt string) (Config, error) {
	cfg := Default()

	_, err := toml.Decode(txt, &cfg)
	if err != nil {
		return Config{}, tracer.Mask(err)
	}

	return cfg, nil
}
