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

import "fmt"

// Direction is the arrow held by a cell.
// The values are ordered clockwise, so rotating is an increment modulo 4.
type Direction int8

const (
	// DirectionUp points to the previous row.
	DirectionUp Direction = iota
	// DirectionRight points to the next column.
	DirectionRight
	// DirectionDown points to the next row.
	DirectionDown
	// DirectionLeft points to the previous column.
	DirectionLeft

	numberDirections = 4
)

// AllDirections returns the four directions in clockwise order, starting with up.
func AllDirections() []Direction {
	return []Direction{DirectionUp, DirectionRight, DirectionDown, DirectionLeft}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirectionUp && d <= DirectionLeft
}

// Rotate returns the direction after a 90° clockwise turn.
func (d Direction) Rotate() Direction {
	return (d + 1) % numberDirections
}

// Delta returns the row and column offset of a single step in direction d.
func (d Direction) Delta() (row, col int) {
	switch d {
	case DirectionUp:
		return -1, 0
	case DirectionRight:
		return 0, 1
	case DirectionDown:
		return 1, 0
	case DirectionLeft:
		return 0, -1
	default:
		return 0, 0
	}
}

// Symbol returns the ASCII arrow used when printing boards.
func (d Direction) Symbol() rune {
	switch d {
	case DirectionUp:
		return '^'
	case DirectionRight:
		return '>'
	case DirectionDown:
		return 'v'
	case DirectionLeft:
		return '<'
	default:
		return '?'
	}
}

// Arrow returns the unicode arrow used by the terminal ui.
func (d Direction) Arrow() rune {
	switch d {
	case DirectionUp:
		return '↑'
	case DirectionRight:
		return '→'
	case DirectionDown:
		return '↓'
	case DirectionLeft:
		return '←'
	default:
		return '?'
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionRight:
		return "right"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int8(d))
	}
}
