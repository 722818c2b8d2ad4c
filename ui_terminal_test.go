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
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell"
)

func newTestTerminal(t *testing.T, c *Controller) (*terminalUI, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	tui := &terminalUI{screen: sim, Highlight: 100 * time.Millisecond}
	if err := tui.init(c); err != nil {
		t.Fatalf("init: %v", err)
	}
	sim.SetSize(100, 30)
	t.Cleanup(sim.Fini)
	return tui, sim
}

func press(tui *terminalUI, keys ...tcell.Key) {
	for _, k := range keys {
		tui.handleEvent(tcell.NewEventKey(k, 0, tcell.ModNone))
	}
}

func typeText(tui *terminalUI, s string) {
	for _, r := range s {
		tui.handleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func screenText(sim tcell.SimulationScreen) string {
	cells, w, h := sim.GetContents()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteRune(c.Runes[0])
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func TestTerminalMenu(t *testing.T) {
	c := NewController(setupRandom(), nil, nil)
	tui, sim := newTestTerminal(t, c)

	if !strings.Contains(screenText(sim), "1) Start game") {
		t.Fatalf("expected menu\n%s", screenText(sim))
	}
	press(tui, tcell.KeyDown, tcell.KeyEnter)
	if c.State() != StateExplanation {
		t.Fatalf("expected rules, got %s", c.State())
	}
	if !strings.Contains(screenText(sim), "Rules of Repulsor") {
		t.Fatalf("expected rules on screen\n%s", screenText(sim))
	}
	press(tui, tcell.KeyEnter)
	if c.State() != StateMenu {
		t.Fatalf("expected menu, got %s", c.State())
	}
	typeText(tui, "q")
	if !tui.quit {
		t.Fatal("expected quit")
	}
}

func TestTerminalSetup(t *testing.T) {
	c := NewController(setupRandom(), nil, nil)
	tui, sim := newTestTerminal(t, c)

	typeText(tui, "s")
	press(tui, tcell.KeyEnter)
	if !strings.Contains(screenText(sim), ErrEmptyName.Error()) {
		t.Fatalf("expected error message\n%s", screenText(sim))
	}
	typeText(tui, "Alicx")
	press(tui, tcell.KeyBackspace2)
	typeText(tui, "e")
	press(tui, tcell.KeyEnter)
	typeText(tui, "Bob")
	press(tui, tcell.KeyEnter)
	if c.State() != StateMiniGame1 {
		t.Fatalf("expected %s, got %s", StateMiniGame1, c.State())
	}
	if got := c.Screen().(MiniGameScreen).Setup.Names; got != [2]string{"Alice", "Bob"} {
		t.Fatalf("unexpected names %v", got)
	}

	// Letters are ignored in number fields.
	typeText(tui, "4x2")
	press(tui, tcell.KeyTab)
	typeText(tui, "42")
	press(tui, tcell.KeyEnter)
	if tui.fields[0] != "" || tui.fields[1] != "" || tui.focus != 0 {
		t.Fatalf("expected fields to be cleared after same numbers, got %v", tui.fields)
	}
	typeText(tui, "10")
	press(tui, tcell.KeyEnter)
	typeText(tui, "90")
	press(tui, tcell.KeyEnter)
	if !strings.Contains(screenText(sim), "Winner: Alice") {
		t.Fatalf("expected winner\n%s", screenText(sim))
	}
	press(tui, tcell.KeyEnter)
	if c.State() != StateSizeChoice {
		t.Fatalf("expected %s, got %s", StateSizeChoice, c.State())
	}
	press(tui, tcell.KeyRight, tcell.KeyEnter)
	if c.Screen().(MiniGameScreen).Setup.Size != 10 {
		t.Fatal("expected 10x10")
	}

	typeText(tui, "10")
	press(tui, tcell.KeyEnter)
	typeText(tui, "90")
	press(tui, tcell.KeyEnter, tcell.KeyEnter)
	if c.State() != StatePositionWinner {
		t.Fatalf("expected %s, got %s", StatePositionWinner, c.State())
	}
	typeText(tui, "3")
	press(tui, tcell.KeyEnter)
	typeText(tui, "4")
	press(tui, tcell.KeyEnter)
	typeText(tui, "3")
	press(tui, tcell.KeyEnter)
	typeText(tui, "4")
	press(tui, tcell.KeyEnter)
	if c.State() != StatePositionOther || !strings.Contains(screenText(sim), "already taken") {
		t.Fatalf("expected taken position to be rejected\n%s", screenText(sim))
	}
	press(tui, tcell.KeyBackspace2)
	typeText(tui, "5")
	press(tui, tcell.KeyEnter)
	if c.State() != StatePlaying {
		t.Fatalf("expected %s, got %s", StatePlaying, c.State())
	}
	if p := c.Match().Players[1].Position; p != (Position{Row: 3, Col: 5}) {
		t.Fatalf("unexpected position %s", p)
	}
}

func TestTerminalPlay(t *testing.T) {
	c := NewController(setupRandom(), nil, nil)
	if err := c.StartMatch(newTestMatch(t)); err != nil {
		t.Fatalf("start match: %v", err)
	}
	tui, sim := newTestTerminal(t, c)

	press(tui, tcell.KeyEnter)
	if c.Match().Turns() != 1 {
		t.Fatalf("expected one turn, got %d", c.Match().Turns())
	}
	if tui.highlight == nil || tui.highlightPos != (Position{Row: 2, Col: 0}) {
		t.Fatal("expected vacated cell to be highlighted")
	}
	if !strings.Contains(screenText(sim), "Turn 1 - Alice moved (2,0) -> (1,0)") {
		t.Fatalf("expected turn line\n%s", screenText(sim))
	}
	tui.updateHighlight(50 * time.Millisecond)
	if tui.highlight == nil || tui.highlightLevel <= 0 || tui.highlightLevel >= 1 {
		t.Fatalf("expected highlight in progress, got %f", tui.highlightLevel)
	}
	tui.updateHighlight(100 * time.Millisecond)
	if tui.highlight != nil || tui.highlightLevel != 0 {
		t.Fatal("expected highlight to be finished")
	}

	// Returning to the menu needs a confirmation.
	typeText(tui, "m")
	if !strings.Contains(screenText(sim), "(y/n)") {
		t.Fatalf("expected confirmation\n%s", screenText(sim))
	}
	typeText(tui, "n")
	if c.State() != StatePlaying {
		t.Fatalf("expected match to continue, got %s", c.State())
	}

	for c.State() == StatePlaying {
		press(tui, tcell.KeyEnter)
	}
	if !strings.Contains(screenText(sim), "Bob wins!") {
		t.Fatalf("expected result\n%s", screenText(sim))
	}
	press(tui, tcell.KeyEnter)
	if c.State() != StateMenu {
		t.Fatalf("expected menu, got %s", c.State())
	}
}

func TestTerminalConfirmReturnToMenu(t *testing.T) {
	c := NewController(setupRandom(), nil, nil)
	c.StartMatch(newTestMatch(t))
	tui, _ := newTestTerminal(t, c)

	press(tui, tcell.KeyEscape)
	typeText(tui, "y")
	if c.State() != StateMenu {
		t.Fatalf("expected menu, got %s", c.State())
	}
}

func TestTerminalNoHighlight(t *testing.T) {
	c := NewController(setupRandom(), nil, nil)
	c.StartMatch(newTestMatch(t))
	tui, _ := newTestTerminal(t, c)
	tui.Highlight = 0

	press(tui, tcell.KeyEnter)
	if tui.highlight != nil {
		t.Fatal("expected no highlight")
	}
}
