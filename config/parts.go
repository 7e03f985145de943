package config

import "time"

type Server struct {
	Address  string `toml:"address"`
	Port     int    `toml:"port"`
	CertFile string `toml:"cert-file"`
	KeyFile  string `toml:"key-file"`
}

type Log struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	Formatter string `toml:"formatter"`
}

type Timeout struct {
	Connect   string `toml:"connect"`
	ReadWrite string `toml:"read-write"`

	Converted struct {
		Connect   time.Duration
		ReadWrite time.Duration
	} `toml:"-"`
}

type Remote struct {
	BaseURL string `toml:"base-url"`
	// Tag isolates this deployment's articles on a shared content
	// server. It is added to every created article and used to filter
	// listings. Not shown in any UI.
	Tag string `toml:"tag"`
}

type Content struct {
	PageSize        int    `toml:"page-size"`
	CommentPageSize int    `toml:"comment-page-size"`
	CacheTTL        string `toml:"cache-ttl"`
	Cooldown        string `toml:"cooldown"`
	ReadTimeout     string `toml:"read-timeout"`
	WriteTimeout    string `toml:"write-timeout"`
	// EnrichArticles controls whether list items missing their body get
	// a best-effort detail fetch.
	EnrichArticles bool `toml:"enrich-articles"`

	Converted struct {
		CacheTTL     time.Duration
		Cooldown     time.Duration
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	} `toml:"-"`
}

type Fallback struct {
	// Sources are tried in order, same-origin/bundled document first.
	Sources []string `toml:"sources"`
}

type Storage struct {
	Path string `toml:"path"`
}

type Proxy struct {
	Timeout string `toml:"timeout"`

	Converted struct {
		Timeout time.Duration
	} `toml:"-"`
}

type converter interface {
	Convert()
}

func (c *Timeout) Convert() {
	if d, err := time.ParseDuration(c.Connect); err == nil {
		c.Converted.Connect = d
	} else {
		c.Converted.Connect = time.Second
	}

	if d, err := time.ParseDuration(c.ReadWrite); err == nil {
		c.Converted.ReadWrite = d
	} else {
		c.Converted.ReadWrite = 2 * time.Second
	}
}

func (c *Content) Convert() {
	if d, err := time.ParseDuration(c.CacheTTL); err == nil {
		c.Converted.CacheTTL = d
	} else {
		c.Converted.CacheTTL = 24 * time.Hour
	}

	if d, err := time.ParseDuration(c.Cooldown); err == nil {
		c.Converted.Cooldown = d
	} else {
		c.Converted.Cooldown = 2 * time.Minute
	}

	if d, err := time.ParseDuration(c.ReadTimeout); err == nil {
		c.Converted.ReadTimeout = d
	} else {
		c.Converted.ReadTimeout = 3500 * time.Millisecond
	}

	if d, err := time.ParseDuration(c.WriteTimeout); err == nil {
		c.Converted.WriteTimeout = d
	} else {
		c.Converted.WriteTimeout = time.Minute
	}
}

func (c *Proxy) Convert() {
	if d, err := time.ParseDuration(c.Timeout); err == nil {
		c.Converted.Timeout = d
	} else {
		c.Converted.Timeout = 6 * time.Second
	}
}
