package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/reoring/flatjson"
	"github.com/reoring/flatjson/i18n"
	jsonsrc "github.com/reoring/flatjson/source/json"
)

// Config is read from the environment.
type Config struct {
	Driver        string `env:"FLATJSON_DRIVER"         envDefault:"go-json"`
	MaxDepth      int    `env:"FLATJSON_MAX_DEPTH"`
	MaxBytes      int64  `env:"FLATJSON_MAX_BYTES"`
	DuplicateKeys string `env:"FLATJSON_DUPLICATE_KEYS" envDefault:"ignore"`
	Lang          string `env:"FLATJSON_LANG"           envDefault:"en"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// apply installs the process-wide settings: token driver and message language.
func (cfg Config) apply() error {
	switch cfg.Driver {
	case "go-json", "":
		flatjson.UseDefaultJSONDriver()
	case "encoding/json":
		flatjson.SetJSONDriver(jsonsrc.Driver{})
	default:
		return fmt.Errorf("unknown driver %q (want go-json or encoding/json)", cfg.Driver)
	}
	i18n.SetLanguage(cfg.Lang)
	return nil
}

func (cfg Config) readOpt() (flatjson.ReadOpt, error) {
	opt := flatjson.ReadOpt{MaxDepth: cfg.MaxDepth, MaxBytes: cfg.MaxBytes, OnWarn: warnf}
	switch cfg.DuplicateKeys {
	case "ignore", "":
		opt.OnDuplicateKey = flatjson.Ignore
	case "warn":
		opt.OnDuplicateKey = flatjson.Warn
	case "error":
		opt.OnDuplicateKey = flatjson.Error
	default:
		return opt, fmt.Errorf("unknown duplicate key severity %q", cfg.DuplicateKeys)
	}
	return opt, nil
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	keyColor  = color.New(color.FgCyan)
)

func init() {
	color.NoColor = !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func warnf(path, message string) {
	fmt.Fprintf(os.Stderr, "%s %s at %s\n", warnColor.Sprint("warning:"), message, path)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errColor.Sprint("error:"), fmt.Sprintf(format, args...))
	os.Exit(1)
}
