// Package config loads hl7play.toml.
//
//	[validator]
//	url = "https://example.org/hl7v2/"
//	timeout = "30s"
//
//	[output]
//	color = "auto"   # auto|on|off
//	ui = "auto"      # auto|on|off, progress TUI of check and validate
//	format = "pretty" # pretty|json
//
//	[cache]
//	enabled = true
//	dir = ""          # empty → $XDG_CACHE_HOME/hl7play
//
//	[server]
//	addr = "127.0.0.1:7457"
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Validator struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

type Output struct {
	Color  string `toml:"color"`
	UI     string `toml:"ui"`
	Format string `toml:"format"`
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type Server struct {
	Addr string `toml:"addr"`
}

// Config is the decoded configuration file.
type Config struct {
	Validator Validator `toml:"validator"`
	Output    Output    `toml:"output"`
	Cache     Cache     `toml:"cache"`
	Server    Server    `toml:"server"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `toml:"-"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Validator: Validator{URL: "http://localhost:8080/", Timeout: Duration{60 * time.Second}},
		Output:    Output{Color: "auto", UI: "auto", Format: "pretty"},
		Cache:     Cache{Enabled: true},
		Server:    Server{Addr: "127.0.0.1:7457"},
	}
}

// Load decodes path on top of Default and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("validator") && !meta.IsDefined("validator", "url") {
		return Config{}, fmt.Errorf("%s: missing [validator].url", path)
	}
	if meta.IsDefined("cache", "dir") && cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest hl7play.toml above startDir, or returns
// Default when there is none.
func Discover(startDir string) (Config, error) {
	p, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(p)
}

// Validate checks values that TOML typing cannot.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Validator.URL) == "" {
		return fmt.Errorf("[validator].url is empty")
	}
	u, err := url.Parse(c.Validator.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("[validator].url %q must be an http(s) URL", c.Validator.URL)
	}
	for _, sw := range []struct{ key, value string }{{"color", c.Output.Color}, {"ui", c.Output.UI}} {
		switch sw.value {
		case "auto", "on", "off":
		default:
			return fmt.Errorf("[output].%s %q (expected auto|on|off)", sw.key, sw.value)
		}
	}
	switch c.Output.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("[output].format %q (expected pretty|json)", c.Output.Format)
	}
	return nil
}
