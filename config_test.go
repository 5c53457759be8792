package main

import (
	"bytes"
	"flag"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(envVarPrefix, "")
	t.Setenv(envLogLevel, "")
	t.Setenv(envMaxDepth, "")

	cfg, err := loadConfig()
	be.Err(t, err, nil)
	be.Equal(t, cfg.varPrefix, "")
	be.Equal(t, cfg.logLevel, slog.LevelWarn)
	be.Equal(t, cfg.maxDepth, defaultMaxDepth)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv(envVarPrefix, "unit3_")
	t.Setenv(envLogLevel, "debug")
	t.Setenv(envMaxDepth, "50")

	cfg, err := loadConfig()
	be.Err(t, err, nil)
	be.Equal(t, cfg.varPrefix, "unit3_")
	be.Equal(t, cfg.logLevel, slog.LevelDebug)
	be.Equal(t, cfg.maxDepth, 50)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv(envLogLevel, "loud")
	_, err := loadConfig()
	be.Err(t, err, envLogLevel)

	t.Setenv(envLogLevel, "")
	t.Setenv(envMaxDepth, "-1")
	_, err = loadConfig()
	be.Err(t, err, "must not be negative")

	t.Setenv(envMaxDepth, "abc")
	_, err = loadConfig()
	be.Err(t, err, envMaxDepth)
	be.Err(t, err, strconv.ErrSyntax)
}

func TestLoadConfigSeesLaterChanges(t *testing.T) {
	t.Setenv(envVarPrefix, "first_")
	cfg, err := loadConfig()
	be.Err(t, err, nil)
	be.Equal(t, cfg.varPrefix, "first_")

	t.Setenv(envVarPrefix, "second_")
	cfg, err = loadConfig()
	be.Err(t, err, nil)
	be.Equal(t, cfg.varPrefix, "second_")
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv(envVarPrefix, "env_")
	t.Setenv(envLogLevel, "")
	t.Setenv(envMaxDepth, "")

	cfg, err := loadConfig()
	be.Err(t, err, nil)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.addFlags(fs)
	be.Err(t, fs.Parse([]string{"-prefix", "flag_", "-max-depth", "7", "-v", "unit.sexp"}), nil)

	be.Equal(t, cfg.varPrefix, "flag_")
	be.Equal(t, cfg.maxDepth, 7)
	be.Equal(t, cfg.logLevel, slog.LevelDebug)
	be.Equal(t, fs.Args(), []string{"unit.sexp"})
}

func TestOptionsLogAtConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config{varPrefix: "p_", logLevel: slog.LevelWarn, maxDepth: 3}
	opts := cfg.options(&buf)
	be.Equal(t, opts.VarPrefix, "p_")
	be.Equal(t, opts.MaxDepth, 3)

	res, err := lowerSource("(iter (call nil m) (args (shadow x)) (nil))", opts)
	be.Err(t, err, nil)
	be.Equal(t, len(res.Warnings), 1)

	out := buf.String()
	be.True(t, strings.Contains(out, "level=WARN"))
	be.True(t, strings.Contains(out, "block-local variables are not supported"))
	be.True(t, !strings.Contains(out, "level=DEBUG"))
}
