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

// repulsor is a two player board game for the terminal.
// Every cell of the board holds an arrow. Players follow the arrow of their cell,
// and the arrow of the cell they leave rotates clockwise. Whoever leaves the board loses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, logCloser, err := cfg.NewLogger()
	if err != nil {
		log.Panicln(err)
	}
	defer logCloser.Close()

	rng, err := NewRandom(cfg.Seed)
	if err != nil {
		log.Panicln(err)
	}

	var UI UI = quietUI{}

	if cfg.Print != "" {
		UI = &teeUI{File: cfg.Print, UI: UI}
	}

	if cfg.Dump != "" {
		UI = &dumpUI{File: cfg.Dump, UI: UI}
	}

	if cfg.PrintWin != "" {
		UI = &printWinUI{File: cfg.PrintWin, UI: UI}
	}

	if cfg.Watch != "" {
		UI = &watchUI{Addr: cfg.Watch, UI: UI, Log: logger}
	}

	var frontend Frontend
	switch cfg.Mode {
	case ModeCmd:
		frontend = &cmdUI{In: os.Stdin, Out: os.Stdout, Colour: !cfg.NoColour}
	default:
		frontend = &terminalUI{Highlight: cfg.Highlight, Log: logger}
	}

	UI = &closeOnceUI{UI: UI}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		err := recover()
		if err != nil {
			// Clearly close UI
			UI.Close()
			logger.WithField("panic", err).Error("repulsor stopped")
			stop()
			logCloser.Close()
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()

	err = UI.Initialise()
	if err != nil {
		log.Panicln(err)
	}

	logger.WithField("mode", cfg.Mode).Info("repulsor started")
	c := NewController(rng, UI, logger)
	err = frontend.Run(ctx, c)
	if err != nil {
		log.Panicln(err)
	}

	err = UI.Close()
	if err != nil {
		log.Panicln(err)
	}
	logger.Info("repulsor finished")
}
