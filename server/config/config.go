// Package config resolves run settings: defaults, then an optional TOML file
// named by CONFIG_FILE, then .env, then the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	SourceCSV = "csv"
	SourceDB  = "db"
)

type Config struct {
	Sim    SimConfig    `toml:"sim"`
	Cards  CardsConfig  `toml:"cards"`
	Server ServerConfig `toml:"server"`
	Debug  bool         `toml:"debug"`
	Color  bool         `toml:"color"`
}

type SimConfig struct {
	Matches  int   `toml:"matches"`
	DeckSize int   `toml:"deck_size"`
	Seed     int64 `toml:"seed"`    // 0 = fresh crypto seed per run
	Workers  int   `toml:"workers"` // 0 = sequential
}

type CardsConfig struct {
	Source      string `toml:"source"` // csv | db
	CSVPath     string `toml:"csv_path"`
	DatabaseURL string `toml:"database_url"`
	AutoMigrate bool   `toml:"auto_migrate"`
}

type ServerConfig struct {
	Port       string  `toml:"port"`
	RateLimit  float64 `toml:"rate_limit"` // simulations per second
	MaxMatches int     `toml:"max_matches"`
}

func Default() *Config {
	return &Config{
		Sim: SimConfig{
			Matches:  500,
			DeckSize: 5,
		},
		Cards: CardsConfig{
			Source:  SourceCSV,
			CSVPath: "data/raw/cards.csv",
		},
		Server: ServerConfig{
			Port:       "8080",
			RateLimit:  2,
			MaxMatches: 100000,
		},
		Color: true,
	}
}

// Load builds the effective configuration.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Sim.Matches = atoiDef(os.Getenv("MATCHES"), c.Sim.Matches)
	c.Sim.DeckSize = atoiDef(os.Getenv("DECK_SIZE"), c.Sim.DeckSize)
	c.Sim.Workers = atoiDef(os.Getenv("WORKERS"), c.Sim.Workers)
	if s := os.Getenv("SEED"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			c.Sim.Seed = v
		}
	}

	c.Cards.Source = strings.ToLower(getenv("CARD_SOURCE", c.Cards.Source))
	c.Cards.CSVPath = getenv("CARDS_CSV", c.Cards.CSVPath)
	c.Cards.DatabaseURL = getenv("DATABASE_URL", c.Cards.DatabaseURL)
	if v, ok := os.LookupEnv("AUTO_MIGRATE"); ok {
		c.Cards.AutoMigrate = asBool(v)
	}

	c.Server.Port = getenv("PORT", c.Server.Port)
	c.Server.MaxMatches = atoiDef(os.Getenv("MAX_MATCHES"), c.Server.MaxMatches)
	if s := os.Getenv("RATE_LIMIT"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			c.Server.RateLimit = v
		}
	}

	if v, ok := os.LookupEnv("DEBUG"); ok {
		c.Debug = asBool(v)
	}
	c.Color = c.Color && os.Getenv("NO_COLOR") == "" && strings.TrimSpace(os.Getenv("USE_COLOR")) != "0"
}

// Validate only checks what the simulator cannot: where cards come from.
// Match count and deck size are validated by the simulator itself.
func (c *Config) Validate() error {
	switch c.Cards.Source {
	case SourceCSV:
		if c.Cards.CSVPath == "" {
			return fmt.Errorf("card source csv needs CARDS_CSV")
		}
	case SourceDB:
		if c.Cards.DatabaseURL == "" {
			return fmt.Errorf("card source db needs DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown card source %q (want csv or db)", c.Cards.Source)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", c.Server.RateLimit)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
