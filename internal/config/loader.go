package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if ACUMEN_CONFIG is set
//  3. env (prefix ACUMEN_)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("config load cancelled: %w", err)
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv("ACUMEN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadFile, err)
		}
	}

	// ACUMEN_DAILY_SKILL_CAP_XP -> daily_skill_cap_xp; underscores are
	// kept to match the koanf tags on the struct.
	envProvider := env.Provider("ACUMEN_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "acumen_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadEnv, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnmarshal, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalid)
	case c.ConversionFactor <= 0:
		return fmt.Errorf("%w: conversion_factor must be positive", ErrInvalid)
	case c.DailySkillCapXP <= 0:
		return fmt.Errorf("%w: daily_skill_cap_xp must be positive", ErrInvalid)
	case c.DetoxTargetMinutes <= 0:
		return fmt.Errorf("%w: detox_target_minutes must be positive", ErrInvalid)
	}
	return nil
}
