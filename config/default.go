package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

func defaultConfig() (Config, error) {
	var def Config

	err := toml.Unmarshal([]byte(DefaultCfg), &def)

	if err != nil {
		return Config{}, errors.Wrap(err, "parsing default config")
	}

	return def, nil
}

// DefaultCfg shows the default configuration of the arteef server
var DefaultCfg = `
[server]
	port = 8080
[log]
	level = "info"     # error, info, debug
	file = "-"         # stderr, or a filename
	formatter = "text" # text, json
[timeout]
	connect = "1s"
	read-write = "2s"
[remote]
	base-url = "https://wt.kpi.fei.tuke.sk/api"
	tag = ""
[content]
	page-size = 4
	comment-page-size = 10
	cache-ttl = "24h"
	cooldown = "2m"
	read-timeout = "3500ms"
	write-timeout = "60s"
	enrich-articles = true
[fallback]
	sources = ["./data/articles_fallback.json"]
[storage]
	path = "./storage/arteef.db"
[proxy]
	timeout = "6s"
`
