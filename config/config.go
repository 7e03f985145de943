package config

import (
	"io/ioutil"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the arteef configuration
type Config struct {
	Server   Server   `toml:"server"`
	Log      Log      `toml:"log"`
	Timeout  Timeout  `toml:"timeout"`
	Remote   Remote   `toml:"remote"`
	Content  Content  `toml:"content"`
	Fallback Fallback `toml:"fallback"`
	Storage  Storage  `toml:"storage"`
	Proxy    Proxy    `toml:"proxy"`
}

// Read loads the config data from the given path
func Read(path string) (Config, error) {
	c, err := defaultConfig()

	if err != nil {
		return Config{}, errors.WithMessage(err, "initializing default config")
	}

	if path != "" {
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "reading config from %s", path)
		}

		if err = toml.Unmarshal(b, &c); err != nil {
			return Config{}, errors.Wrapf(err, "unmarshaling toml config from %s", path)
		}
	}

	for _, c := range []converter{&c.Timeout, &c.Content, &c.Proxy} {
		c.Convert()
	}

	return c, nil
}
