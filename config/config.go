package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	BaseURL      string  `yaml:"base_url"`
	LandingRoute string  `yaml:"landing_route"`
	Timeout      float64 `yaml:"timeout"`
	MetricsFile  string  `yaml:"metrics_file"`
	Store        Store   `yaml:"store"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:      "http://localhost:8000",
		LandingRoute: "/achievements",
		Timeout:      30,
		Store:        DefaultStore(),
	}
}

func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultConfig()

	type plain Config
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	return c.validate()
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	switch c.Store.Type {
	case StoreMemory, StoreRedis:
	case StoreFile:
		if c.Store.Path == "" {
			return errors.New("store.path is required for file store")
		}
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	return nil
}

// RequestTimeout returns the per request timeout, zero disables it.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout * float64(time.Second))
}

type Store struct {
	Type  string `yaml:"type"`
	Path  string `yaml:"path"`
	Redis Redis  `yaml:"redis"`
}

func DefaultStore() Store {
	return Store{
		Type:  StoreFile,
		Path:  "session.yaml",
		Redis: DefaultRedis(),
	}
}

func (s *Store) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*s = DefaultStore()

	type plain Store
	if err := unmarshal((*plain)(s)); err != nil {
		return err
	}

	return nil
}

type Redis struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

func DefaultRedis() Redis {
	return Redis{
		Address:   "localhost:6379",
		KeyPrefix: "achievements-login||",
	}
}

func (r *Redis) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*r = DefaultRedis()

	type plain Redis
	if err := unmarshal((*plain)(r)); err != nil {
		return err
	}

	return nil
}
