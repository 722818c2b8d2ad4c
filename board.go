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

// BoardSizes holds the board sizes (both width and height) offered after the first mini-game.
var BoardSizes = []int{8, 10}

// ErrInvalidSize is returned for boards without cells.
var ErrInvalidSize = errors.New("board needs at least one row and one column")

// Position is a cell coordinate, zero-indexed.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns p moved by the given offset.
func (p Position) Add(row, col int) Position {
	return Position{Row: p.Row + row, Col: p.Col + col}
}

// Cell is a single board location holding an arrow.
type Cell struct {
	Direction Direction
}

// Rotate advances the arrow of the cell by 90° clockwise.
func (c *Cell) Rotate() {
	c.Direction = c.Direction.Rotate()
}

// Board is the grid of cells of a match. Its size is fixed once created.
type Board struct {
	Rows  int
	Cols  int
	Cells [][]Cell
}

// NewBoard returns a board where each arrow is drawn uniformly from rng.
func NewBoard(rows, cols int, rng Random) (*Board, error) {
	b, err := newBoard(rows, cols)
	if err != nil {
		return nil, err
	}
	for r := range b.Cells {
		for c := range b.Cells[r] {
			b.Cells[r][c].Direction = Direction(rng.Intn(numberDirections))
		}
	}
	return b, nil
}

// NewUniformBoard returns a board where every arrow points in direction d.
func NewUniformBoard(rows, cols int, d Direction) (*Board, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("unknown direction %d", d)
	}
	b, err := newBoard(rows, cols)
	if err != nil {
		return nil, err
	}
	for r := range b.Cells {
		for c := range b.Cells[r] {
			b.Cells[r][c].Direction = d
		}
	}
	return b, nil
}

func newBoard(rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w (got %d x %d)", ErrInvalidSize, rows, cols)
	}
	b := &Board{
		Rows:  rows,
		Cols:  cols,
		Cells: make([][]Cell, rows),
	}
	for r := range b.Cells {
		b.Cells[r] = make([]Cell, cols)
	}
	return b, nil
}

// InBounds reports whether p lies on the board.
func (b *Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < b.Rows && p.Col >= 0 && p.Col < b.Cols
}

// At returns the cell at p. p must be in bounds.
func (b *Board) At(p Position) *Cell {
	return &b.Cells[p.Row][p.Col]
}

// MoveFrom resolves a step away from p.
// The step follows the arrow p held before the call, and the arrow at p is rotated in any case,
// including when the step leaves the board. In that case ok is false and next must not be used.
// rotated is always p.
func (b *Board) MoveFrom(p Position) (next Position, ok bool, rotated Position) {
	cell := b.At(p)
	rotated = p
	dr, dc := cell.Direction.Delta()
	cell.Rotate()

	candidate := p.Add(dr, dc)
	if !b.InBounds(candidate) {
		return Position{}, false, rotated
	}
	return candidate, true, rotated
}

// Arrows returns a copy of all arrows, indexed [row][col].
func (b *Board) Arrows() [][]Direction {
	arrows := make([][]Direction, b.Rows)
	for r := range b.Cells {
		arrows[r] = make([]Direction, b.Cols)
		for c := range b.Cells[r] {
			arrows[r][c] = b.Cells[r][c].Direction
		}
	}
	return arrows
}
