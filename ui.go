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
	"fmt"
	"strings"
	"sync"
)

// colours holds ANSI background colours by owner id. Player 1 is orange, player 2 light blue.
var colours = []string{"\033[39;49m", "\033[30;48;5;214m", "\033[30;48;5;117m"}
var colourReset = "\033[0m"

// colourNames holds the human readable colour by player id.
var colourNames = []string{"none", "orange", "light blue"}

const explanation = `Rules of Repulsor:

- Every cell of the board holds an arrow (↑, →, ↓, ←).
- Mini-game 1: each player chooses a number (1-100). The one closer to the
  secret number chooses the board size (8x8 or 10x10).
- Mini-game 2: another number (1-100) decides who starts.
- The starting player chooses a start cell (row, column) first, then the
  other player. Both may not choose the same cell.
- Each turn, the player follows the arrow of their cell.
- When leaving a cell, its arrow rotates 90° clockwise and the cell is
  coloured permanently with the colour of the first player who left it.
- Player 1 (the starting player) is orange, player 2 is light blue.
- The player who leaves the board loses.
- After a mini-game, press ENTER to continue.
- After the match, return to the menu or quit.`

// The UI interface receives the events of matches.
// Implementations may wrap another UI to form a chain.
type UI interface {
	Initialise() error
	NewMatch(s Snapshot)
	NewTurn(t Turn, s Snapshot)
	Finish(r Result) error
	Close() error
}

type quietUI struct{}

func (quietUI) Initialise() error          { return nil }
func (quietUI) NewMatch(s Snapshot)        {}
func (quietUI) NewTurn(t Turn, s Snapshot) {}
func (quietUI) Finish(r Result) error      { return nil }
func (quietUI) Close() error               { return nil }

// closeOnceUI passes Close on to UI only once and returns the same error on later calls.
type closeOnceUI struct {
	UI
	once sync.Once
	err  error
}

func (c *closeOnceUI) Close() error {
	c.once.Do(func() {
		c.err = c.UI.Close()
	})
	return c.err
}

// markerAt returns the player marker for cell (row, col) or 0 if nobody stands there.
func (s Snapshot) markerAt(row, col int) rune {
	var r rune
	for _, p := range s.Players {
		if !p.Active || p.Position.Row != row || p.Position.Col != col {
			continue
		}
		if r != 0 {
			return 'X'
		}
		r = rune('0' + p.ID)
	}
	return r
}

// PrintBoard returns a string representation of the board including row and column numbers.
func (s Snapshot) PrintBoard(colour bool) string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < s.Cols; c++ {
		sb.WriteString(fmt.Sprintf("%2d", c))
	}
	sb.WriteRune('\n')

	for r := 0; r < s.Rows; r++ {
		sb.WriteString(fmt.Sprintf("%2d ", r))
		for c := 0; c < s.Cols; c++ {
			ch := s.Arrows[r][c].Symbol()
			if m := s.markerAt(r, c); m != 0 {
				ch = m
			}
			owner := s.Owners[r][c]
			if colour && owner > 0 && owner < len(colours) {
				sb.WriteString(colours[owner])
			}
			sb.WriteRune(' ')
			sb.WriteRune(ch)
			if colour && owner > 0 {
				sb.WriteString(colourReset)
			}
		}
		if r < s.Rows-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

func (s Snapshot) player(id int) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}

func (s Snapshot) owned(id int) int {
	n := 0
	for r := range s.Owners {
		for c := range s.Owners[r] {
			if s.Owners[r][c] == id {
				n++
			}
		}
	}
	return n
}

func buildMatchOverviewStrings(s Snapshot) []string {
	ss := make([]string, 0, 8)
	ss = append(ss, fmt.Sprintf("turn: %d", s.Turn))
	ss = append(ss, fmt.Sprintf("size: %d x %d", s.Rows, s.Cols))
	if s.Finished {
		w, _ := s.player(s.Winner)
		ss = append(ss, fmt.Sprintf("winner: %s", w.Name))
	} else {
		p, _ := s.player(s.Current)
		ss = append(ss, fmt.Sprintf("current: %s", p.Name))
	}
	ss = append(ss, "")
	for _, p := range s.Players {
		ss = append(ss, fmt.Sprintf("%d %s (%s)", p.ID, p.Name, colourNames[p.ID]))
		if p.Active {
			ss = append(ss, fmt.Sprintf("   position: %s", p.Position))
		} else {
			ss = append(ss, "   position: left the board")
		}
		ss = append(ss, fmt.Sprintf("   steps: %d", p.Steps))
		ss = append(ss, fmt.Sprintf("   visited: %d", p.Visited))
		ss = append(ss, fmt.Sprintf("   coloured: %d", s.owned(p.ID)))
	}
	return ss
}

// describeTurn returns a single line summary of t.
func describeTurn(t Turn) string {
	if t.Exited {
		return fmt.Sprintf("Turn %d - %s left the board from %s", t.Number, t.Name, t.From)
	}
	return fmt.Sprintf("Turn %d - %s moved %s -> %s", t.Number, t.Name, t.From, t.To)
}

// describeResult returns a single line summary of r.
func describeResult(r Result) string {
	return fmt.Sprintf("%s left the board. %s wins! (steps %d / %d, %d turns)", r.LoserName, r.WinnerName, r.Steps[0], r.Steps[1], r.Turns)
}
