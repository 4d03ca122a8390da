// Package config loads the application settings from an optional YAML file,
// a .env file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"blogdemo/app/codec"
	"blogdemo/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// Config holds every setting of the server and of the fetch client.
type Config struct {
	Addr       string `yaml:"addr" validate:"required"`
	Prefix     string `yaml:"prefix" validate:"required,startswith=/,min=2"`
	Store      string `yaml:"store" validate:"oneof=memory badger"`
	BadgerPath string `yaml:"badger_path" validate:"required_if=Store badger"`

	MetadataLatency time.Duration `yaml:"metadata_latency" validate:"gte=0"`
	PostLatency     time.Duration `yaml:"post_latency" validate:"gte=0"`
	CommentsLatency time.Duration `yaml:"comments_latency" validate:"gte=0"`

	APIURL        string `yaml:"api_url" validate:"required,url"`
	APIFormat     string `yaml:"api_format" validate:"oneof=json msgpack"`
	ClientRetries int    `yaml:"client_retries" validate:"gte=0,lte=10"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	latency := services.DefaultLatency()
	return Config{
		Addr:            ":8080",
		Prefix:          "/blog",
		Store:           StoreMemory,
		BadgerPath:      "data/badger",
		MetadataLatency: latency.Metadata,
		PostLatency:     latency.Post,
		CommentsLatency: latency.Comments,
		APIURL:          "http://localhost:8080",
		APIFormat:       "json",
		ClientRetries:   2,
	}
}

// Latency returns the accessor latencies.
func (c Config) Latency() services.Latency {
	return services.Latency{
		Metadata: c.MetadataLatency,
		Post:     c.PostLatency,
		Comments: c.CommentsLatency,
	}
}

// Codec returns the codec selected by APIFormat.
func (c Config) Codec() codec.Codec {
	cd, ok := codec.ByName(c.APIFormat)
	if !ok {
		return codec.JSON
	}
	return cd
}

// Validate checks the settings.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if strings.HasSuffix(c.Prefix, "/") {
		return errors.New("invalid config: prefix must not end with /")
	}
	if c.Prefix == "/api" || strings.HasPrefix(c.Prefix, "/api/") {
		return errors.New("invalid config: prefix must not be under /api")
	}
	return nil
}

// Load reads the .env file if there is one, then the YAML file named by
// BLOG_CONFIG, then the BLOG_* environment variables.
func Load() (Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()
	return LoadFrom(os.Getenv("BLOG_CONFIG"), os.LookupEnv)
}

// LoadFrom builds the config from the YAML file at path (skipped if empty)
// and the variables visible through lookup.
func LoadFrom(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BLOG_ADDR":        &cfg.Addr,
		"BLOG_PREFIX":      &cfg.Prefix,
		"BLOG_STORE":       &cfg.Store,
		"BLOG_BADGER_PATH": &cfg.BadgerPath,
		"BLOG_API_URL":     &cfg.APIURL,
		"BLOG_API_FORMAT":  &cfg.APIFormat,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"BLOG_METADATA_LATENCY": &cfg.MetadataLatency,
		"BLOG_POST_LATENCY":     &cfg.PostLatency,
		"BLOG_COMMENTS_LATENCY": &cfg.CommentsLatency,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := lookup("BLOG_CLIENT_RETRIES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BLOG_CLIENT_RETRIES: %w", err)
		}
		cfg.ClientRetries = n
	}
	return nil
}
