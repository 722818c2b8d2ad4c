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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// cmdUI is a line based frontend. It reads answers line by line from In and writes prompts to Out,
// which allows to script a whole game.
type cmdUI struct {
	In     io.Reader
	Out    io.Writer
	Colour bool

	scanner *bufio.Scanner
}

var errQuit = errors.New("quit")

func (cu *cmdUI) Run(ctx context.Context, c *Controller) error {
	cu.scanner = bufio.NewScanner(cu.In)
	for {
		if ctx.Err() != nil {
			return nil
		}
		err := cu.step(c)
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			fmt.Fprintln(cu.Out, "Bye!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readLine prompts for a line. "quit" and the end of input end the program.
func (cu *cmdUI) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(cu.Out, prompt)
	}
	if !cu.scanner.Scan() {
		if err := cu.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	line := strings.TrimSpace(cu.scanner.Text())
	if line == "quit" {
		return "", errQuit
	}
	return line, nil
}

func (cu *cmdUI) report(err error) {
	fmt.Fprintf(cu.Out, "Error: %s\n", err)
}

// step shows the current screen once and handles one answer.
func (cu *cmdUI) step(c *Controller) error {
	switch s := c.Screen().(type) {
	case MenuScreen:
		fmt.Fprintln(cu.Out, "\nREPULSOR")
		for i, o := range menuOptions {
			fmt.Fprintf(cu.Out, "%d) %s\n", i+1, o)
		}
		line, err := cu.readLine("> ")
		if err != nil {
			return err
		}
		switch line {
		case "1":
			return c.StartSetup()
		case "2":
			return c.ShowExplanation()
		case "3":
			return errQuit
		default:
			fmt.Fprintf(cu.Out, "Unknown option %q\n", line)
		}

	case ExplanationScreen:
		fmt.Fprintln(cu.Out, explanation)
		if _, err := cu.readLine("\nPress ENTER to return to the menu "); err != nil {
			return err
		}
		return c.Back()

	case NameScreen:
		line, err := cu.readLine(fmt.Sprintf("Name of player %d: ", s.Index))
		if err != nil {
			return err
		}
		switch line {
		case "back":
			return c.Back()
		case "menu":
			c.ReturnToMenu()
			return nil
		}
		if err := c.SubmitName(line); err != nil {
			cu.report(err)
		}

	case MiniGameScreen:
		if s.Result != nil {
			r := s.Result
			fmt.Fprintf(cu.Out, "Secret number: %d\n", r.Secret)
			if r.TieBreak {
				fmt.Fprintf(cu.Out, "Tie, decided by coin flip. ")
			}
			fmt.Fprintf(cu.Out, "Winner: %s\n", s.Winner())
			if _, err := cu.readLine("Press ENTER to continue "); err != nil {
				return err
			}
			return c.Continue()
		}
		fmt.Fprintf(cu.Out, "\nMini-game: who decides the %s?\n", s.Game)
		guesses := make([]string, 2)
		for i := range guesses {
			line, err := cu.readLine(fmt.Sprintf("%s - number (%d-%d): ", s.Setup.Names[i], GuessMin, GuessMax))
			if err != nil {
				return err
			}
			if line == "menu" {
				c.ReturnToMenu()
				return nil
			}
			guesses[i] = line
		}
		if err := c.SubmitGuesses(guesses[0], guesses[1]); err != nil {
			cu.report(err)
		}

	case SizeScreen:
		opts := make([]string, len(s.Sizes))
		for i, size := range s.Sizes {
			opts[i] = strconv.Itoa(size)
		}
		line, err := cu.readLine(fmt.Sprintf("%s - choose the board size (%s): ", s.Chooser, strings.Join(opts, " or ")))
		if err != nil {
			return err
		}
		if line == "menu" {
			c.ReturnToMenu()
			return nil
		}
		size, err := parseNumber(line)
		if err == nil {
			err = c.ChooseSize(size)
		}
		if err != nil {
			cu.report(err)
		}

	case PositionScreen:
		fmt.Fprintf(cu.Out, "%s, choose your start cell (0-indexed).\n", s.Player)
		row, err := cu.readLine(fmt.Sprintf("Row (0-%d), \"menu\" to return: ", s.Rows-1))
		if err != nil {
			return err
		}
		if row == "menu" {
			c.ReturnToMenu()
			return nil
		}
		col, err := cu.readLine(fmt.Sprintf("Column (0-%d): ", s.Cols-1))
		if err != nil {
			return err
		}
		if err := c.SubmitPosition(row, col); err != nil {
			cu.report(err)
		}

	case PlayScreen:
		fmt.Fprintln(cu.Out)
		fmt.Fprintln(cu.Out, s.Snapshot.PrintBoard(cu.Colour))
		p, _ := s.Snapshot.player(s.Snapshot.Current)
		line, err := cu.readLine(fmt.Sprintf("Turn: %s%s%s - ENTER to move, \"menu\" to return: ", cu.colour(p.ID), p.Name, cu.reset()))
		if err != nil {
			return err
		}
		if line == "menu" {
			answer, err := cu.readLine("Return to the menu? The current match is lost. (y/n) ")
			if err != nil {
				return err
			}
			if answer == "y" || answer == "yes" {
				c.ReturnToMenu()
			}
			return nil
		}
		t, err := c.Advance()
		if err != nil {
			return err
		}
		fmt.Fprintln(cu.Out, describeTurn(t))

	case FinishedScreen:
		fmt.Fprintln(cu.Out)
		fmt.Fprintln(cu.Out, s.Snapshot.PrintBoard(cu.Colour))
		fmt.Fprintf(cu.Out, "\n%s\n\n", describeResult(s.Result))
		if _, err := cu.readLine("ENTER to return to the menu, \"quit\" to exit: "); err != nil {
			return err
		}
		c.ReturnToMenu()

	default:
		return fmt.Errorf("unknown screen %T", s)
	}
	return nil
}

func (cu *cmdUI) colour(id int) string {
	if !cu.Colour || id <= 0 || id >= len(colours) {
		return ""
	}
	return colours[id]
}

func (cu *cmdUI) reset() string {
	if !cu.Colour {
		return ""
	}
	return colourReset
}
