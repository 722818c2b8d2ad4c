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
	"testing"
)

// recordUI records all events it receives.
type recordUI struct {
	matches   []Snapshot
	turns     []Turn
	results   []Result
	closed    bool
	finishErr error
}

func (r *recordUI) Initialise() error          { return nil }
func (r *recordUI) NewMatch(s Snapshot)        { r.matches = append(r.matches, s) }
func (r *recordUI) NewTurn(t Turn, s Snapshot) { r.turns = append(r.turns, t) }
func (r *recordUI) Finish(res Result) error {
	r.results = append(r.results, res)
	return r.finishErr
}
func (r *recordUI) Close() error { r.closed = true; return nil }

// setupRandom makes the first name win mini-game 1 (secret 1) and the second name win mini-game 2 (secret 100).
func setupRandom() *fixedRandom {
	return &fixedRandom{values: []int{0, 99}}
}

// playToPositions drives a controller from the menu to the first position screen.
func playToPositions(t *testing.T, c *Controller) {
	t.Helper()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error in state %s: %v", c.State(), err)
		}
	}
	must(c.StartSetup())
	must(c.SubmitName("Alice"))
	must(c.SubmitName("Bob"))
	must(c.SubmitGuesses("10", "90"))
	must(c.Continue())
	must(c.ChooseSize(8))
	must(c.SubmitGuesses("10", "90"))
	must(c.Continue())
}

func TestControllerFullFlow(t *testing.T) {
	ui := &recordUI{}
	c := NewController(setupRandom(), ui, nil)

	if c.State() != StateMenu {
		t.Fatalf("expected menu, got %s", c.State())
	}
	if err := c.StartSetup(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.SubmitName("  Alice "); err != nil {
		t.Fatalf("name: %v", err)
	}
	if err := c.SubmitName("Bob"); err != nil {
		t.Fatalf("name: %v", err)
	}
	if c.State() != StateMiniGame1 {
		t.Fatalf("expected %s, got %s", StateMiniGame1, c.State())
	}

	if err := c.SubmitGuesses("10", "90"); err != nil {
		t.Fatalf("guesses: %v", err)
	}
	mg := c.Screen().(MiniGameScreen)
	if mg.Result == nil || mg.Result.Secret != 1 || mg.Winner() != "Alice" {
		t.Fatalf("unexpected mini-game result %+v", mg.Result)
	}
	if err := c.Continue(); err != nil {
		t.Fatalf("continue: %v", err)
	}

	size := c.Screen().(SizeScreen)
	if size.Chooser != "Alice" {
		t.Fatalf("expected Alice to choose the size, got %s", size.Chooser)
	}
	if err := c.ChooseSize(10); err != nil {
		t.Fatalf("size: %v", err)
	}
	if c.State() != StateMiniGame2 {
		t.Fatalf("expected %s, got %s", StateMiniGame2, c.State())
	}

	if err := c.SubmitGuesses("10", "90"); err != nil {
		t.Fatalf("guesses: %v", err)
	}
	if err := c.Continue(); err != nil {
		t.Fatalf("continue: %v", err)
	}

	pos := c.Screen().(PositionScreen)
	if c.State() != StatePositionWinner || pos.Player != "Bob" || pos.Rows != 10 || pos.Cols != 10 {
		t.Fatalf("expected Bob to choose first on 10x10, got %s %+v", c.State(), pos)
	}
	if err := c.SubmitPosition("9", "9"); err != nil {
		t.Fatalf("position: %v", err)
	}
	pos = c.Screen().(PositionScreen)
	if c.State() != StatePositionOther || pos.Player != "Alice" || pos.Taken == nil || *pos.Taken != (Position{Row: 9, Col: 9}) {
		t.Fatalf("expected Alice to choose second, got %s %+v", c.State(), pos)
	}
	if err := c.SubmitPosition("0", "0"); err != nil {
		t.Fatalf("position: %v", err)
	}

	if c.State() != StatePlaying {
		t.Fatalf("expected %s, got %s", StatePlaying, c.State())
	}
	m := c.Match()
	if m == nil || m.Players[0].Name != "Bob" || m.Players[1].Name != "Alice" {
		t.Fatal("expected Bob to start the match")
	}
	if len(ui.matches) != 1 || ui.matches[0].Rows != 10 {
		t.Fatalf("expected a single new match event, got %d", len(ui.matches))
	}

	var last Turn
	for i := 0; i < 100000 && c.State() == StatePlaying; i++ {
		var err error
		last, err = c.Advance()
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if c.State() != StateFinished {
		t.Fatalf("expected %s, got %s", StateFinished, c.State())
	}
	if !last.Exited {
		t.Fatal("expected last turn to exit the board")
	}
	if len(ui.turns) != last.Number || len(ui.results) != 1 {
		t.Fatalf("expected %d turn events and one result, got %d and %d", last.Number, len(ui.turns), len(ui.results))
	}
	fin := c.Screen().(FinishedScreen)
	if fin.Result.LoserName != last.Name || fin.Result.WinnerName == last.Name {
		t.Fatalf("expected %s to lose, got %+v", last.Name, fin.Result)
	}
	if _, err := c.Advance(); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction after the end, got %v", err)
	}

	c.ReturnToMenu()
	if c.State() != StateMenu || c.Match() != nil {
		t.Fatal("expected a clean menu")
	}
}

func TestControllerRejectsCollidingPositions(t *testing.T) {
	ui := &recordUI{}
	c := NewController(setupRandom(), ui, nil)
	playToPositions(t, c)

	if err := c.SubmitPosition("3", "4"); err != nil {
		t.Fatalf("position: %v", err)
	}
	err := c.SubmitPosition(" 3", "4 ")
	if !errors.Is(err, ErrPositionTaken) {
		t.Fatalf("expected ErrPositionTaken, got %v", err)
	}
	if c.State() != StatePositionOther || c.Match() != nil || len(ui.matches) != 0 {
		t.Fatal("expected no match after a rejected position")
	}
	if err := c.SubmitPosition("4", "3"); err != nil {
		t.Fatalf("position: %v", err)
	}
	if c.State() != StatePlaying {
		t.Fatalf("expected %s, got %s", StatePlaying, c.State())
	}
}

func TestControllerValidatesInput(t *testing.T) {
	c := NewController(setupRandom(), nil, nil)
	if err := c.StartSetup(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.SubmitName("   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if c.State() != StateSetup {
		t.Fatal("expected to stay on the name screen")
	}
	c.SubmitName("Alice")
	c.SubmitName("Bob")

	tests := []struct {
		a, b string
		err  error
	}{
		{"x", "10", ErrNotANumber},
		{"10", "", ErrNotANumber},
		{"0", "10", ErrGuessOutOfRange},
		{"10", "101", ErrGuessOutOfRange},
		{"33", "33", ErrSameGuess},
	}
	for _, tt := range tests {
		if err := c.SubmitGuesses(tt.a, tt.b); !errors.Is(err, tt.err) {
			t.Fatalf("(%q, %q): expected %v, got %v", tt.a, tt.b, tt.err, err)
		}
		if s := c.Screen().(MiniGameScreen); s.Result != nil {
			t.Fatal("expected no result after rejected guesses")
		}
	}
	if err := c.Continue(); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction before playing, got %v", err)
	}

	c.SubmitGuesses("10", "90")
	if err := c.SubmitGuesses("20", "30"); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction for a second round, got %v", err)
	}
	c.Continue()
	if err := c.ChooseSize(9); !errors.Is(err, ErrInvalidBoardSize) {
		t.Fatalf("expected ErrInvalidBoardSize, got %v", err)
	}
	c.ChooseSize(8)
	c.SubmitGuesses("10", "90")
	c.Continue()

	for _, p := range [][2]string{{"8", "0"}, {"0", "-1"}, {"a", "1"}} {
		err := c.SubmitPosition(p[0], p[1])
		if !errors.Is(err, ErrOutOfBounds) && !errors.Is(err, ErrNotANumber) {
			t.Fatalf("expected position %v to be rejected, got %v", p, err)
		}
	}
	if c.State() != StatePositionWinner {
		t.Fatalf("expected to stay on %s, got %s", StatePositionWinner, c.State())
	}
}

func TestControllerWrongState(t *testing.T) {
	c := NewController(setupRandom(), nil, nil)
	if err := c.SubmitName("Alice"); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if _, err := c.Advance(); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if err := c.Back(); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestControllerBackAndMenu(t *testing.T) {
	c := NewController(setupRandom(), nil, nil)

	if err := c.ShowExplanation(); err != nil {
		t.Fatalf("explanation: %v", err)
	}
	if err := c.Back(); err != nil || c.State() != StateMenu {
		t.Fatalf("expected menu after back, got %s %v", c.State(), err)
	}

	c.StartSetup()
	c.SubmitName("Alice")
	if s := c.Screen().(NameScreen); s.Index != 2 {
		t.Fatalf("expected second name, got %d", s.Index)
	}
	if err := c.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if s := c.Screen().(NameScreen); s.Index != 1 || s.Setup.Names[0] != "" {
		t.Fatalf("expected fresh first name screen, got %+v", s)
	}
	if err := c.Back(); err != nil || c.State() != StateMenu {
		t.Fatalf("expected menu after back, got %s %v", c.State(), err)
	}

	playToPositions(t, c)
	c.SubmitPosition("0", "0")
	c.SubmitPosition("1", "1")
	if _, err := c.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	c.ReturnToMenu()
	if c.State() != StateMenu || c.Match() != nil {
		t.Fatal("expected menu without match")
	}
	// A new game starts from scratch.
	c.StartSetup()
	if s := c.Screen().(NameScreen); s.Setup.Names != [2]string{} {
		t.Fatalf("expected empty setup, got %+v", s.Setup)
	}
}

func TestControllerStartMatch(t *testing.T) {
	ui := &recordUI{finishErr: errors.New("disk full")}
	c := NewController(setupRandom(), ui, nil)
	m := newTestMatch(t)
	if err := c.StartMatch(m); err != nil {
		t.Fatalf("start match: %v", err)
	}
	for c.State() == StatePlaying {
		if _, err := c.Advance(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	fin := c.Screen().(FinishedScreen)
	if fin.Result.WinnerName != "Bob" || fin.Last.Number != 5 {
		t.Fatalf("unexpected result %+v", fin)
	}
	if len(ui.results) != 1 {
		t.Fatal("expected finish event even if the ui fails")
	}
	if err := c.StartMatch(newTestMatch(t)); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction outside of the menu, got %v", err)
	}
}

func TestStateString(t *testing.T) {
	if StatePlaying.String() != "PLAYING" || StateMiniGame1.String() != "MINIGAME_1" {
		t.Fatal("unexpected state names")
	}
	if State(99).String() != "N/A(99)" {
		t.Fatalf("unexpected name %q", State(99).String())
	}
}
