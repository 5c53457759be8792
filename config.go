package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/strager/guestc/lower"
	"github.com/xyproto/env/v2"
)

// Environment variables read by loadConfig. Command flags override them.
const (
	envVarPrefix = "GUESTC_VAR_PREFIX"
	envLogLevel  = "GUESTC_LOG_LEVEL"
	envMaxDepth  = "GUESTC_MAX_DEPTH"
)

const defaultMaxDepth = 10000

type config struct {
	varPrefix string
	logLevel  slog.Level
	maxDepth  int
}

// loadConfig reads the environment as it is now. env caches the process
// environment, so the cache is refreshed first.
func loadConfig() (config, error) {
	env.Load()
	cfg := config{
		varPrefix: env.Str(envVarPrefix),
		maxDepth:  defaultMaxDepth,
	}
	if raw := env.Str(envMaxDepth); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil {
			return config{}, fmt.Errorf("%s: %w", envMaxDepth, err)
		}
		cfg.maxDepth = depth
	}
	if err := cfg.logLevel.UnmarshalText([]byte(env.Str(envLogLevel, "warn"))); err != nil {
		return config{}, fmt.Errorf("%s: %w", envLogLevel, err)
	}
	if cfg.maxDepth < 0 {
		return config{}, fmt.Errorf("%s: must not be negative, got %d", envMaxDepth, cfg.maxDepth)
	}
	return cfg, nil
}

// addFlags registers the flags every command shares. Their defaults are the
// values read from the environment.
func (c *config) addFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.varPrefix, "prefix", c.varPrefix, "Prefix for generated temporaries")
	fs.IntVar(&c.maxDepth, "max-depth", c.maxDepth, "Maximum nesting of the input tree (0 for no limit)")
	fs.BoolFunc("v", "Log debug records to stderr", func(string) error {
		c.logLevel = slog.LevelDebug
		return nil
	})
}

// options builds the pass options, logging as text to w.
func (c config) options(w io.Writer) lower.Options {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.logLevel})
	return lower.Options{
		VarPrefix: c.varPrefix,
		MaxDepth:  c.maxDepth,
		Logger:    slog.New(handler),
	}
}
