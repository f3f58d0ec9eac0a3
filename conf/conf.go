package conf

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/arenaoj/backend/poll"
	"github.com/arenaoj/backend/subm"
)

// Config is the TOML server configuration: poll defaults and the language
// list. Connection strings and secrets come from the environment instead.
type Config struct {
	Poll struct {
		IntervalMs    int `toml:"interval_ms"`
		MaxDurationMs int `toml:"max_duration_ms"`
	} `toml:"poll"`
	Languages []subm.Language `toml:"languages"`
}

func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) PollConfig() poll.Config {
	return poll.Config{
		Interval:    time.Duration(c.Poll.IntervalMs) * time.Millisecond,
		MaxDuration: time.Duration(c.Poll.MaxDurationMs) * time.Millisecond,
	}
}

func GetPgConnStrFromEnv() string {
	host := os.Getenv("POSTGRES_HOST")
	pw := os.Getenv("POSTGRES_PW")
	user := os.Getenv("POSTGRES_USER")
	port := os.Getenv("POSTGRES_PORT")
	db := os.Getenv("POSTGRES_DB")
	ssl := os.Getenv("POSTGRES_SSLMODE")

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pw, db, ssl)
}
