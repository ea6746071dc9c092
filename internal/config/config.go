package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full run configuration. It is built once at startup and
// treated as immutable afterwards.
type Config struct {
	GraphQLURL     string        `mapstructure:"graphql_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	OutputPath     string        `mapstructure:"output_path"`
	StartYear      int           `mapstructure:"start_year"`
	SpanYears      int           `mapstructure:"span_years"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("graphql_url", "https://graphql.grid.tf/graphql")
	viper.SetDefault("user_agent", "node_counter_agent")
	viper.SetDefault("request_timeout", 30*time.Second)
	viper.SetDefault("output_path", "node_count.csv")
	viper.SetDefault("start_year", 2022)
	viper.SetDefault("span_years", 10)
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations that cannot produce a meaningful report.
func (c *Config) Validate() error {
	if c.GraphQLURL == "" {
		return fmt.Errorf("graphql_url must not be empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output_path must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.StartYear <= 0 {
		return fmt.Errorf("start_year must be positive, got %d", c.StartYear)
	}
	if c.SpanYears <= 0 {
		return fmt.Errorf("span_years must be positive, got %d", c.SpanYears)
	}
	return nil
}
