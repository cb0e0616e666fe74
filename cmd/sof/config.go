package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Neumenon/sof/sof"
	"github.com/Neumenon/sof/store"
)

// Config holds defaults for every sof command. It is loaded from a single
// YAML file named by --config or the SOF_CONFIG environment variable; there
// is no discovery. Flags given on the command line win over the file.
//
//	optimize: true
//	store_format: lines
//	indent: "  "
//	max_depth: 10000
//	max_nodes: 0
//	max_tokens: 200000
//	trim_cr: false
type Config struct {
	// Optimize writes AV/DV records for scalar-only containers.
	Optimize bool `yaml:"optimize"`

	// StoreFormat is the container used when neither a flag nor a file
	// extension decides: lines, json, cbor or msgpack.
	StoreFormat string `yaml:"store_format"`

	// Indent is the JSON indentation for decoded output. Empty means
	// compact JSON. YAML output always uses two spaces.
	Indent string `yaml:"indent"`

	// MaxDepth bounds pointer nesting while decoding.
	MaxDepth int `yaml:"max_depth"`

	// MaxNodes bounds how many values a decode may build. Zero scales the
	// limit with the store length.
	MaxNodes int `yaml:"max_nodes"`

	// MaxTokens bounds the size of a store read from disk.
	MaxTokens int `yaml:"max_tokens"`

	// TrimCR strips '\r' from lines-format stores saved with CRLF endings.
	TrimCR bool `yaml:"trim_cr"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Optimize:    false,
		StoreFormat: store.FormatLines.String(),
		Indent:      "  ",
		MaxDepth:    sof.DefaultMaxDepth,
		MaxTokens:   store.MaxTokens,
	}
}

// LoadConfig reads the config file at path, or at $SOF_CONFIG when path is
// empty. With neither set it returns DefaultConfig. Unknown keys are errors.
func LoadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = getenv("SOF_CONFIG")
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := store.ParseFormat(c.StoreFormat); err != nil {
		return err
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must not be negative, got %d", c.MaxNodes)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got %d", c.MaxTokens)
	}
	return nil
}

func (c Config) storeFormat() store.Format {
	f, err := store.ParseFormat(c.StoreFormat)
	if err != nil {
		return store.FormatLines
	}
	return f
}

func (c Config) decodeOptions() sof.DecodeOptions {
	return sof.DecodeOptions{MaxDepth: c.MaxDepth, MaxNodes: c.MaxNodes}
}

func (c Config) readerOptions() []store.ReaderOption {
	var opts []store.ReaderOption
	if c.MaxTokens > 0 {
		opts = append(opts, store.WithMaxTokens(c.MaxTokens))
	}
	if c.TrimCR {
		opts = append(opts, store.WithTrimCR())
	}
	return opts
}
