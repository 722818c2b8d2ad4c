// SPDX-License-Identifier: Apache-2.0
// Copyright 2020,2021 Marcus Soll
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	  http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

const (
	// ModeTerminal is the full screen terminal frontend.
	ModeTerminal = "terminal"
	// ModeCmd is the line based frontend.
	ModeCmd = "cmd"
)

// Config holds the configuration of repulsor.
// Values are read from the environment first and can be overridden by flags.
type Config struct {
	Mode      string        `env:"REPULSOR_MODE" envDefault:"terminal"`
	Seed      int64         `env:"REPULSOR_SEED"`
	LogFile   string        `env:"REPULSOR_LOG"`
	LogLevel  string        `env:"REPULSOR_LOG_LEVEL" envDefault:"info"`
	Watch     string        `env:"REPULSOR_WATCH"`
	Highlight time.Duration `env:"REPULSOR_HIGHLIGHT" envDefault:"600ms"`
	NoColour  bool          `env:"REPULSOR_NO_COLOUR"`

	Print    string
	Dump     string
	PrintWin string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Frontend to use: \"terminal\" or \"cmd\"")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed of the random source. 0 uses a random seed")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Write log into file")
	fs.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Watch, "watch", cfg.Watch, "Serve a spectator feed on this address (e.g. \":8080\")")
	fs.DurationVar(&cfg.Highlight, "highlight", cfg.Highlight, "Duration of the highlight of a vacated cell. 0 disables it")
	fs.BoolVar(&cfg.NoColour, "nocolour", cfg.NoColour, "Disable colours in cmd mode")
	fs.StringVar(&cfg.Print, "print", cfg.Print, "Prints a transcript of all matches into file")
	fs.StringVar(&cfg.Dump, "dump", cfg.Dump, "Dumps all matches as gob to file")
	fs.StringVar(&cfg.PrintWin, "printwin", cfg.PrintWin, "Prints outcome of the last match into file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values which can not be checked while parsing.
func (cfg Config) Validate() error {
	if cfg.Mode != ModeTerminal && cfg.Mode != ModeCmd {
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if cfg.Highlight < 0 {
		return errors.New("highlight must not be negative")
	}
	return nil
}

// NewLogger returns the logger described by cfg.
// The terminal frontend owns the screen, so without a log file nothing is logged there.
// The returned closer must be called on exit.
func (cfg Config) NewLogger() (*logrus.Logger, io.Closer, error) {
	l := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	l.SetLevel(level)

	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		l.SetOutput(f)
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
		return l, f, nil
	case cfg.Mode == ModeTerminal:
		l.SetOutput(io.Discard)
	default:
		l.SetOutput(os.Stderr)
	}
	return l, nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
