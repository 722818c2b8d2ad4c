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
	"sort"
	"strings"
)

// ErrEmptyName is returned for names which are empty after trimming.
var ErrEmptyName = errors.New("name must not be empty")

// Player represents a player of a match.
// A player becomes inactive once a move leaves the board and is never moved again.
type Player struct {
	ID       int
	Name     string
	Position Position
	Active   bool
	Steps    int

	visited map[Position]struct{}
}

// NewPlayer returns an active player standing on start.
// start counts as visited.
func NewPlayer(id int, name string, start Position) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	p := &Player{
		ID:       id,
		Name:     name,
		Position: start,
		Active:   true,
		visited:  make(map[Position]struct{}),
	}
	p.visited[start] = struct{}{}
	return p, nil
}

// TakeTurn moves the player one step on b.
// vacated is the cell the player stood on before the move; it is always marked visited.
// continued is false if the player left the board (or was already inactive).
func (p *Player) TakeTurn(b *Board) (continued bool, vacated Position) {
	if !p.Active {
		return false, p.Position
	}

	next, ok, vacated := b.MoveFrom(p.Position)
	p.visited[vacated] = struct{}{}
	if !ok {
		p.Active = false
		return false, vacated
	}

	p.Position = next
	p.Steps++
	p.visited[next] = struct{}{}
	return true, vacated
}

// HasVisited reports whether the player ever stood on pos.
func (p *Player) HasVisited(pos Position) bool {
	_, ok := p.visited[pos]
	return ok
}

// VisitedCount returns the number of distinct cells the player stood on.
func (p *Player) VisitedCount() int {
	return len(p.visited)
}

// Visited returns all visited cells in row-major order.
func (p *Player) Visited() []Position {
	v := make([]Position, 0, len(p.visited))
	for pos := range p.visited {
		v = append(v, pos)
	}
	sort.Slice(v, func(i, j int) bool {
		if v[i].Row != v[j].Row {
			return v[i].Row < v[j].Row
		}
		return v[i].Col < v[j].Col
	})
	return v
}
