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
)

var (
	// ErrOutOfBounds is returned for start positions outside of the board.
	ErrOutOfBounds = errors.New("position is outside of the board")
	// ErrPositionTaken is returned if both players want to start on the same cell.
	ErrPositionTaken = errors.New("position is already taken by the other player")
	// ErrMatchFinished is returned when stepping a finished match.
	ErrMatchFinished = errors.New("match already finished")
)

// Seat is what setup hands over to a match for one player.
type Seat struct {
	Name  string
	Start Position
}

// Turn describes a single resolved move.
type Turn struct {
	Number  int       `json:"number"`
	Player  int       `json:"player"`
	Name    string    `json:"name"`
	From    Position  `json:"from"`
	To      Position  `json:"to"`
	Exited  bool      `json:"exited"`
	Rotated Direction `json:"rotated"` // arrow of From after the move
}

// Result is emitted once a match is over.
type Result struct {
	Winner     int     `json:"winner"`
	Loser      int     `json:"loser"`
	WinnerName string  `json:"winner_name"`
	LoserName  string  `json:"loser_name"`
	Steps      [2]int  `json:"steps"`
	Turns      int     `json:"turns"`
	Owners     [][]int `json:"owners"`
}

// PlayerView is the public state of a player inside a Snapshot.
type PlayerView struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Active   bool     `json:"active"`
	Steps    int      `json:"steps"`
	Visited  int      `json:"visited"`
}

// Snapshot is an immutable view of a match.
type Snapshot struct {
	Rows     int           `json:"rows"`
	Cols     int           `json:"cols"`
	Arrows   [][]Direction `json:"arrows"`
	Owners   [][]int       `json:"owners"`
	Players  []PlayerView  `json:"players"`
	Turn     int           `json:"turn"`
	Current  int           `json:"current"`
	Finished bool          `json:"finished"`
	Winner   int           `json:"winner,omitempty"`
}

// Match is a running game of Repulsor.
// Players[0] starts and has id 1, Players[1] has id 2.
type Match struct {
	Board   *Board
	Players [2]*Player

	owner   [][]int
	current int
	turns   int
	winner  int
}

// NewMatch creates a match on a board with random arrows.
func NewMatch(rows, cols int, starter, other Seat, rng Random) (*Match, error) {
	if err := validateSeats(rows, cols, starter, other); err != nil {
		return nil, err
	}
	b, err := NewBoard(rows, cols, rng)
	if err != nil {
		return nil, err
	}
	return NewMatchOnBoard(b, starter, other)
}

// NewMatchOnBoard creates a match on a prepared board.
func NewMatchOnBoard(b *Board, starter, other Seat) (*Match, error) {
	if err := validateSeats(b.Rows, b.Cols, starter, other); err != nil {
		return nil, err
	}

	m := &Match{
		Board: b,
		owner: make([][]int, b.Rows),
	}
	for r := range m.owner {
		m.owner[r] = make([]int, b.Cols)
	}

	for i, s := range []Seat{starter, other} {
		p, err := NewPlayer(i+1, s.Name, s.Start)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i+1, err)
		}
		m.Players[i] = p
		m.claim(s.Start, p.ID)
	}
	return m, nil
}

func validateSeats(rows, cols int, starter, other Seat) error {
	for _, s := range []Seat{starter, other} {
		if s.Start.Row < 0 || s.Start.Row >= rows || s.Start.Col < 0 || s.Start.Col >= cols {
			return fmt.Errorf("%w: %s", ErrOutOfBounds, s.Start)
		}
	}
	if starter.Start == other.Start {
		return fmt.Errorf("%w: %s", ErrPositionTaken, other.Start)
	}
	return nil
}

// claim marks p as owned by id unless it already has an owner.
func (m *Match) claim(p Position, id int) {
	if m.owner[p.Row][p.Col] == 0 {
		m.owner[p.Row][p.Col] = id
	}
}

// Current returns the player whose turn it is.
func (m *Match) Current() *Player {
	return m.Players[m.current]
}

// Other returns the player waiting for their turn.
func (m *Match) Other() *Player {
	return m.Players[1-m.current]
}

// Finished reports whether a player has left the board.
func (m *Match) Finished() bool {
	return m.winner != 0
}

// Turns returns the number of resolved turns.
func (m *Match) Turns() int {
	return m.turns
}

// Owner returns the id of the player who first vacated p (or started there), 0 if none.
func (m *Match) Owner(p Position) int {
	if !m.Board.InBounds(p) {
		return 0
	}
	return m.owner[p.Row][p.Col]
}

// Step lets the current player take a turn.
// If the player leaves the board, the match is over and the other player wins.
func (m *Match) Step() (Turn, error) {
	if m.Finished() {
		return Turn{}, ErrMatchFinished
	}

	p := m.Current()
	m.turns++
	continued, vacated := p.TakeTurn(m.Board)
	m.claim(vacated, p.ID)

	t := Turn{
		Number:  m.turns,
		Player:  p.ID,
		Name:    p.Name,
		From:    vacated,
		To:      p.Position,
		Exited:  !continued,
		Rotated: m.Board.At(vacated).Direction,
	}
	if !continued {
		t.To = Position{}
		m.winner = m.Other().ID
		return t, nil
	}

	m.current = 1 - m.current
	return t, nil
}

// Result returns the outcome of a finished match.
func (m *Match) Result() (Result, bool) {
	if !m.Finished() {
		return Result{}, false
	}
	winner, loser := m.Players[0], m.Players[1]
	if winner.ID != m.winner {
		winner, loser = loser, winner
	}
	return Result{
		Winner:     winner.ID,
		Loser:      loser.ID,
		WinnerName: winner.Name,
		LoserName:  loser.Name,
		Steps:      [2]int{m.Players[0].Steps, m.Players[1].Steps},
		Turns:      m.turns,
		Owners:     m.owners(),
	}, true
}

func (m *Match) owners() [][]int {
	o := make([][]int, len(m.owner))
	for r := range m.owner {
		o[r] = make([]int, len(m.owner[r]))
		copy(o[r], m.owner[r])
	}
	return o
}

// Snapshot returns a copy of the public state of the match.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Rows:     m.Board.Rows,
		Cols:     m.Board.Cols,
		Arrows:   m.Board.Arrows(),
		Owners:   m.owners(),
		Players:  make([]PlayerView, 0, len(m.Players)),
		Turn:     m.turns,
		Current:  m.Current().ID,
		Finished: m.Finished(),
		Winner:   m.winner,
	}
	for _, p := range m.Players {
		s.Players = append(s.Players, PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Position: p.Position,
			Active:   p.Active,
			Steps:    p.Steps,
			Visited:  p.VisitedCount(),
		})
	}
	return s
}
