// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/unixdj/qrencode/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string { return coding.Level(l).String() }

func (l Level) MarshalText() ([]byte, error) {
	return coding.Level(l).MarshalText()
}

func (l *Level) UnmarshalText(text []byte) error {
	return (*coding.Level)(l).UnmarshalText(text)
}

// Config controls encoding.
type Config struct {
	Level   Level             `yaml:"level"`   // error correction level
	Version coding.Version    `yaml:"version"` // QR version, 0 for smallest
	Mask    coding.MaskPolicy `yaml:"mask"`    // mask selection
	Seed    uint64            `yaml:"seed"`    // random mask seed
}

// DefaultConfig returns the default configuration: level L, smallest
// version, and the best of all masks.
func DefaultConfig() Config {
	return Config{Level: L, Mask: coding.BestMask()}
}

func (cfg Config) policy() coding.MaskPolicy {
	p := cfg.Mask
	p.Seed = cfg.Seed
	return p
}

// Validate returns an error if cfg is invalid.
func (cfg Config) Validate() error {
	if cfg.Level < L || cfg.Level > H {
		return fmt.Errorf("%w %d", coding.ErrLevel, cfg.Level)
	}
	if cfg.Version != 0 && !cfg.Version.IsValid() {
		return fmt.Errorf("%w %d", coding.ErrVersion, cfg.Version)
	}
	return cfg.Mask.Validate()
}

// LoadConfig reads a YAML configuration from r.  Keys absent from the
// input keep their default values; unknown keys are an error.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("qr: config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("qr: config: %w", err)
	}
	return cfg, nil
}
