package model

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Owner          string   `toml:"owner"`
	GithubURL      string   `toml:"github_url"`
	ThresholdWeeks int      `toml:"threshold_weeks"`
	IgnoreEmpty    bool     `toml:"ignore_empty"`
	Exclude        []string `toml:"exclude"`

	Retry  RetryConfig  `toml:"retry"`
	Matrix MatrixConfig `toml:"matrix"`
}

type RetryConfig struct {
	Attempts int      `toml:"attempts"`
	Delay    Duration `toml:"delay"`
}

type MatrixConfig struct {
	HomeServerURL string `toml:"homeserver_url"`
	HomeServer    string `toml:"homeserver"`
	UserID        string `toml:"user_id"`
	Room          string `toml:"room"`
}

// Duration is a time.Duration written as a string like "5s" in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	x, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	*d = Duration(x)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func DefaultConfig() Config {
	return Config{
		ThresholdWeeks: DefaultThresholdWeeks,
		Retry: RetryConfig{
			Attempts: 3,
			Delay:    Duration(5 * time.Second),
		},
	}
}

// LoadConfig reads the TOML file at path on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	x := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return x, fmt.Errorf("read file %s: %w", path, err)
	}

	err = toml.Unmarshal(data, &x)
	if err != nil {
		return x, fmt.Errorf("toml unmarshal: %v", err)
	}

	if x.ThresholdWeeks < 0 {
		return x, fmt.Errorf("invalid threshold_weeks %d", x.ThresholdWeeks)
	}
	if x.Retry.Attempts < 1 {
		return x, fmt.Errorf("invalid retry attempts %d", x.Retry.Attempts)
	}
	return x, nil
}
