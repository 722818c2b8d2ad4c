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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// State is a step of the game flow. The flow is linear, only ReturnToMenu goes back to the start.
type State int

const (
	// StateMenu is the main menu.
	StateMenu State = iota + 1
	// StateExplanation shows the rules.
	StateExplanation
	// StateSetup asks for the names of both players.
	StateSetup
	// StateMiniGame1 decides who chooses the board size.
	StateMiniGame1
	// StateSizeChoice lets the winner of the first mini-game choose the board size.
	StateSizeChoice
	// StateMiniGame2 decides who starts.
	StateMiniGame2
	// StatePositionWinner lets the starting player choose a start cell.
	StatePositionWinner
	// StatePositionOther lets the other player choose a start cell.
	StatePositionOther
	// StatePlaying is the running match.
	StatePlaying
	// StateFinished shows the outcome of the match.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "MENU"
	case StateExplanation:
		return "EXPLANATION"
	case StateSetup:
		return "SETUP"
	case StateMiniGame1:
		return "MINIGAME_1"
	case StateSizeChoice:
		return "SIZE_CHOICE"
	case StateMiniGame2:
		return "MINIGAME_2"
	case StatePositionWinner:
		return "POSITION_CHOICE_WINNER"
	case StatePositionOther:
		return "POSITION_CHOICE_OTHER"
	case StatePlaying:
		return "PLAYING"
	case StateFinished:
		return "FINISHED"
	default:
		return fmt.Sprintf("N/A(%d)", int(s))
	}
}

var (
	// ErrInvalidAction is returned for actions the current screen does not offer.
	ErrInvalidAction = errors.New("action not available on this screen")
	// ErrNotANumber is returned for input which must be an integer but is not.
	ErrNotANumber = errors.New("input is not a whole number")
	// ErrInvalidBoardSize is returned for board sizes not in BoardSizes.
	ErrInvalidBoardSize = errors.New("board size not offered")
)

// Setup is the data gathered before a match starts. It is passed forward by value from screen to screen.
type Setup struct {
	Names       [2]string
	SizeChooser Side
	Size        int
	Starter     Side

	FirstStart    Position
	HasFirstStart bool
}

// Name returns the name of the player on side s.
func (s Setup) Name(side Side) string {
	return s.Names[side]
}

// Screen is what the controller currently shows. The concrete type identifies the state.
type Screen interface {
	State() State
}

// MenuScreen offers to start a game, read the rules or quit.
type MenuScreen struct{}

// ExplanationScreen shows the rules.
type ExplanationScreen struct{}

// NameScreen asks for the name of player Index (1 or 2).
type NameScreen struct {
	Index int
	Setup Setup
}

// MiniGameScreen asks both players for a number.
// Once Result is set, the screen waits for Continue.
type MiniGameScreen struct {
	Game   MiniGame
	Setup  Setup
	Result *MiniGameResult
}

// Winner returns the name of the winner, or an empty string if the mini-game was not played yet.
func (s MiniGameScreen) Winner() string {
	if s.Result == nil {
		return ""
	}
	return s.Setup.Name(s.Result.Winner)
}

// SizeScreen lets Chooser pick one of Sizes.
type SizeScreen struct {
	Chooser string
	Sizes   []int
	Setup   Setup
}

// PositionScreen asks Player for a start cell. Taken is set for the second player.
type PositionScreen struct {
	Player string
	Rows   int
	Cols   int
	Taken  *Position
	Setup  Setup
}

// PlayScreen shows the running match. Last is nil before the first turn.
type PlayScreen struct {
	Snapshot Snapshot
	Last     *Turn
}

// FinishedScreen shows the outcome of the match.
type FinishedScreen struct {
	Snapshot Snapshot
	Result   Result
	Last     Turn
}

// State implements Screen.
func (MenuScreen) State() State { return StateMenu }

// State implements Screen.
func (ExplanationScreen) State() State { return StateExplanation }

// State implements Screen.
func (NameScreen) State() State { return StateSetup }

// State implements Screen.
func (s MiniGameScreen) State() State {
	if s.Game == MiniGameOrder {
		return StateMiniGame2
	}
	return StateMiniGame1
}

// State implements Screen.
func (SizeScreen) State() State { return StateSizeChoice }

// State implements Screen.
func (s PositionScreen) State() State {
	if s.Taken != nil {
		return StatePositionOther
	}
	return StatePositionWinner
}

// State implements Screen.
func (PlayScreen) State() State { return StatePlaying }

// State implements Screen.
func (FinishedScreen) State() State { return StateFinished }

// Controller drives the game flow from the menu to a finished match.
// It is not safe for concurrent use; front-ends call it from a single goroutine.
type Controller struct {
	screen Screen
	match  *Match
	rng    Random
	ui     UI
	log    logrus.FieldLogger
}

// NewController returns a controller showing the menu.
// ui receives match events and may be nil.
func NewController(rng Random, ui UI, log logrus.FieldLogger) *Controller {
	if ui == nil {
		ui = quietUI{}
	}
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Controller{
		screen: MenuScreen{},
		rng:    rng,
		ui:     ui,
		log:    log,
	}
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen {
	return c.screen
}

// State returns the current state.
func (c *Controller) State() State {
	return c.screen.State()
}

// Match returns the current match or nil outside of StatePlaying and StateFinished.
func (c *Controller) Match() *Match {
	return c.match
}

func (c *Controller) show(s Screen) {
	from := c.screen.State()
	c.screen = s
	c.log.WithFields(logrus.Fields{"from": from, "state": s.State()}).Debug("transition")
}

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("%s in state %s: %w", action, c.State(), ErrInvalidAction)
}

// StartSetup leaves the menu and asks for the first name.
func (c *Controller) StartSetup() error {
	if _, ok := c.screen.(MenuScreen); !ok {
		return c.invalid("start")
	}
	c.show(NameScreen{Index: 1})
	return nil
}

// ShowExplanation shows the rules.
func (c *Controller) ShowExplanation() error {
	if _, ok := c.screen.(MenuScreen); !ok {
		return c.invalid("explanation")
	}
	c.show(ExplanationScreen{})
	return nil
}

// ReturnToMenu discards all setup data and any running match.
func (c *Controller) ReturnToMenu() {
	if _, ok := c.screen.(MenuScreen); ok {
		return
	}
	if c.match != nil && !c.match.Finished() {
		c.log.WithField("turn", c.match.Turns()).Info("match abandoned")
	}
	c.match = nil
	c.show(MenuScreen{})
}

// Back goes to the previous screen where this is offered:
// from the rules and the first name to the menu, from the second name to the first.
func (c *Controller) Back() error {
	switch s := c.screen.(type) {
	case ExplanationScreen:
		c.show(MenuScreen{})
	case NameScreen:
		if s.Index == 1 {
			c.show(MenuScreen{})
			return nil
		}
		c.show(NameScreen{Index: 1})
	default:
		return c.invalid("back")
	}
	return nil
}

// SubmitName stores the name on the name screen.
func (c *Controller) SubmitName(name string) error {
	s, ok := c.screen.(NameScreen)
	if !ok {
		return c.invalid("name")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	setup := s.Setup
	setup.Names[s.Index-1] = name
	if s.Index == 1 {
		c.show(NameScreen{Index: 2, Setup: setup})
		return nil
	}
	c.log.WithFields(logrus.Fields{"player1": setup.Names[0], "player2": setup.Names[1]}).Info("players registered")
	c.show(MiniGameScreen{Game: MiniGameSize, Setup: setup})
	return nil
}

// SubmitGuesses plays the mini-game of the current screen.
// On ErrSameGuess both guesses should be entered again.
func (c *Controller) SubmitGuesses(first, second string) error {
	s, ok := c.screen.(MiniGameScreen)
	if !ok || s.Result != nil {
		return c.invalid("guess")
	}
	a, err := parseNumber(first)
	if err != nil {
		return err
	}
	b, err := parseNumber(second)
	if err != nil {
		return err
	}

	result, err := PlayMiniGame(a, b, c.rng)
	if err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{
		"minigame": s.Game.String(),
		"secret":   result.Secret,
		"winner":   s.Setup.Name(result.Winner),
		"tiebreak": result.TieBreak,
	}).Info("mini-game played")

	s.Result = &result
	c.screen = s
	return nil
}

// Continue leaves a mini-game screen once it was played.
func (c *Controller) Continue() error {
	s, ok := c.screen.(MiniGameScreen)
	if !ok || s.Result == nil {
		return c.invalid("continue")
	}

	setup := s.Setup
	switch s.Game {
	case MiniGameSize:
		setup.SizeChooser = s.Result.Winner
		sizes := make([]int, len(BoardSizes))
		copy(sizes, BoardSizes)
		c.show(SizeScreen{Chooser: setup.Name(setup.SizeChooser), Sizes: sizes, Setup: setup})
	case MiniGameOrder:
		setup.Starter = s.Result.Winner
		c.show(PositionScreen{Player: setup.Name(setup.Starter), Rows: setup.Size, Cols: setup.Size, Setup: setup})
	default:
		return c.invalid("continue")
	}
	return nil
}

// ChooseSize sets the board size (width and height).
func (c *Controller) ChooseSize(size int) error {
	s, ok := c.screen.(SizeScreen)
	if !ok {
		return c.invalid("size")
	}
	valid := false
	for _, v := range s.Sizes {
		if v == size {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %d", ErrInvalidBoardSize, size)
	}

	setup := s.Setup
	setup.Size = size
	c.log.WithFields(logrus.Fields{"player": s.Chooser, "size": size}).Info("board size chosen")
	c.show(MiniGameScreen{Game: MiniGameOrder, Setup: setup})
	return nil
}

// SubmitPosition sets the start cell of the player on the position screen.
// After the second player the match starts.
func (c *Controller) SubmitPosition(row, col string) error {
	s, ok := c.screen.(PositionScreen)
	if !ok {
		return c.invalid("position")
	}
	r, err := parseNumber(row)
	if err != nil {
		return err
	}
	cl, err := parseNumber(col)
	if err != nil {
		return err
	}
	p := Position{Row: r, Col: cl}
	if r < 0 || r >= s.Rows || cl < 0 || cl >= s.Cols {
		return fmt.Errorf("%w: rows must be between 0 and %d, columns between 0 and %d", ErrOutOfBounds, s.Rows-1, s.Cols-1)
	}
	if s.Taken != nil && *s.Taken == p {
		return fmt.Errorf("%w: %s", ErrPositionTaken, p)
	}

	setup := s.Setup
	if !setup.HasFirstStart {
		setup.FirstStart = p
		setup.HasFirstStart = true
		taken := p
		c.show(PositionScreen{
			Player: setup.Name(setup.Starter.Other()),
			Rows:   s.Rows,
			Cols:   s.Cols,
			Taken:  &taken,
			Setup:  setup,
		})
		return nil
	}

	starter := Seat{Name: setup.Name(setup.Starter), Start: setup.FirstStart}
	other := Seat{Name: setup.Name(setup.Starter.Other()), Start: p}
	m, err := NewMatch(setup.Size, setup.Size, starter, other, c.rng)
	if err != nil {
		return err
	}
	return c.startMatch(m)
}

// StartMatch skips the set up and plays m directly.
// It is used for prepared boards.
func (c *Controller) StartMatch(m *Match) error {
	if _, ok := c.screen.(MenuScreen); !ok {
		return c.invalid("start match")
	}
	return c.startMatch(m)
}

func (c *Controller) startMatch(m *Match) error {
	c.match = m
	snapshot := m.Snapshot()
	c.log.WithFields(logrus.Fields{
		"size":     fmt.Sprintf("%dx%d", m.Board.Rows, m.Board.Cols),
		"starter":  m.Players[0].Name,
		"start":    m.Players[0].Position.String(),
		"other":    m.Players[1].Name,
		"position": m.Players[1].Position.String(),
	}).Info("match started")
	c.ui.NewMatch(snapshot)
	c.show(PlayScreen{Snapshot: snapshot})
	return nil
}

// Advance plays a single turn of the running match.
func (c *Controller) Advance() (Turn, error) {
	if _, ok := c.screen.(PlayScreen); !ok || c.match == nil {
		return Turn{}, c.invalid("advance")
	}

	t, err := c.match.Step()
	if err != nil {
		return Turn{}, err
	}
	snapshot := c.match.Snapshot()
	c.log.WithFields(logrus.Fields{
		"turn":   t.Number,
		"player": t.Name,
		"from":   t.From.String(),
		"to":     t.To.String(),
		"exited": t.Exited,
	}).Debug("turn")
	c.ui.NewTurn(t, snapshot)

	if !t.Exited {
		c.screen = PlayScreen{Snapshot: snapshot, Last: &t}
		return t, nil
	}

	result, _ := c.match.Result()
	c.log.WithFields(logrus.Fields{
		"winner": result.WinnerName,
		"loser":  result.LoserName,
		"turns":  result.Turns,
	}).Info("match finished")
	if err := c.ui.Finish(result); err != nil {
		c.log.WithError(err).Warn("ui could not finish match")
	}
	c.show(FinishedScreen{Snapshot: snapshot, Result: result, Last: t})
	return t, nil
}

func parseNumber(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return i, nil
}
