package config

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files can say "500ms" or "2s".
// yaml.v3 and encoding/json only accept raw nanosecond integers otherwise.
type Duration time.Duration

// D returns the wrapped time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

// UnmarshalYAML accepts either a duration string or an integer nanosecond count.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

// UnmarshalJSON accepts either a duration string or an integer nanosecond count.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

// Runtime holds the tunable configuration of the widget engine: cache
// freshness, fetch timeout policy, upstream endpoints and API keys.
// Endpoints are overridable so tests and staging can point widgets at
// local fixtures.
type Runtime struct {
	CacheTTL       Duration `yaml:"cache_ttl" json:"cache_ttl"`
	DefaultTimeout Duration `yaml:"default_timeout" json:"default_timeout"`
	SlowTimeout    Duration `yaml:"slow_timeout" json:"slow_timeout"`
	SlowHosts      []string `yaml:"slow_hosts" json:"slow_hosts"`

	Keys      Keys      `yaml:"keys" json:"keys"`
	Endpoints Endpoints `yaml:"endpoints" json:"endpoints"`
}

// Keys holds third-party API credentials.
type Keys struct {
	Weather string `yaml:"weather" json:"weather"`
	News    string `yaml:"news" json:"news"`
}

// Endpoints holds the base URLs of the upstream APIs widgets talk to.
type Endpoints struct {
	Coinbase    string `yaml:"coinbase" json:"coinbase"`
	OpenWeather string `yaml:"openweather" json:"openweather"`
	PokeAPI     string `yaml:"pokeapi" json:"pokeapi"`
	Gutendex    string `yaml:"gutendex" json:"gutendex"`
	NewsData    string `yaml:"newsdata" json:"newsdata"`
	DeckOfCards string `yaml:"deckofcards" json:"deckofcards"`
}

// Default returns the built-in configuration used when no file is present.
func Default() *Runtime {
	return &Runtime{
		CacheTTL:       Duration(300 * time.Second),
		DefaultTimeout: Duration(500 * time.Millisecond),
		SlowTimeout:    Duration(2 * time.Second),
		SlowHosts:      []string{"gutendex.com"},
		Keys: Keys{
			Weather: os.Getenv("WEATHER_API_KEY"),
			News:    os.Getenv("NEWS_API_KEY"),
		},
		Endpoints: Endpoints{
			Coinbase:    "https://api.coinbase.com",
			OpenWeather: "https://api.openweathermap.org",
			PokeAPI:     "https://pokeapi.co",
			Gutendex:    "https://gutendex.com",
			NewsData:    "https://newsdata.io",
			DeckOfCards: "https://deckofcardsapi.com",
		},
	}
}

// Store watches a config file and exposes the current runtime config.
// The last good config stays in effect when a reload fails.
type Store struct {
	path   string
	logger *slog.Logger
	val    atomic.Value // *Runtime
}

// NewStore loads the config from path. A missing path yields the defaults.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger}
	if path == "" {
		s.val.Store(Default())
		return s, nil
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Set replaces the active config, bypassing the file. Used for wiring
// explicit configs in tests and the CLI.
func (s *Store) Set(cfg *Runtime) {
	if cfg != nil {
		s.val.Store(cfg)
	}
}

// Current returns the active runtime config.
func (s *Store) Current() *Runtime {
	if v := s.val.Load(); v != nil {
		return v.(*Runtime)
	}
	return Default()
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	cfg, err := Parse(b)
	if err != nil {
		return err
	}
	s.val.Store(cfg)
	return nil
}

// Start watches the config file for changes until ctx is done.
func (s *Store) Start(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case ev := <-watcher.Events:
				if ev.Name == s.path && (ev.Op&(fsnotify.Write|fsnotify.Create)) != 0 {
					if err := s.load(); err != nil {
						s.logger.Warn("reload runtime config", "err", err)
					} else {
						s.logger.Info("runtime config reloaded")
					}
				}
			case <-ctx.Done():
				return
			case err := <-watcher.Errors:
				if err != nil {
					s.logger.Warn("runtime config watch error", "err", err)
				}
			}
		}
	}()
	return nil
}

// Parse parses YAML or JSON and fills unset values from the defaults.
func Parse(b []byte) (*Runtime, error) {
	cfg := Default()
	if json.Valid(b) {
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	} else if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	def := Default()
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = def.DefaultTimeout
	}
	if cfg.SlowTimeout <= 0 {
		cfg.SlowTimeout = def.SlowTimeout
	}
	if len(cfg.SlowHosts) == 0 {
		cfg.SlowHosts = def.SlowHosts
	}
	fillEndpoints(&cfg.Endpoints, def.Endpoints)
	return cfg, nil
}

func fillEndpoints(e *Endpoints, def Endpoints) {
	if e.Coinbase == "" {
		e.Coinbase = def.Coinbase
	}
	if e.OpenWeather == "" {
		e.OpenWeather = def.OpenWeather
	}
	if e.PokeAPI == "" {
		e.PokeAPI = def.PokeAPI
	}
	if e.Gutendex == "" {
		e.Gutendex = def.Gutendex
	}
	if e.NewsData == "" {
		e.NewsData = def.NewsData
	}
	if e.DeckOfCards == "" {
		e.DeckOfCards = def.DeckOfCards
	}
}
