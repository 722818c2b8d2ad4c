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

const (
	// GuessMin is the smallest number accepted in a mini-game.
	GuessMin = 1
	// GuessMax is the largest number accepted in a mini-game. The secret number is drawn from the same range.
	GuessMax = 100
)

var (
	// ErrGuessOutOfRange is returned for guesses outside of [GuessMin, GuessMax].
	ErrGuessOutOfRange = fmt.Errorf("numbers must be between %d and %d", GuessMin, GuessMax)
	// ErrSameGuess is returned if both sides guess the same number.
	ErrSameGuess = errors.New("both players chose the same number")
)

// Side identifies one of the two players as they were entered.
type Side int

const (
	// SideFirst is the player whose name was entered first.
	SideFirst Side = iota
	// SideSecond is the player whose name was entered second.
	SideSecond
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideFirst {
		return SideSecond
	}
	return SideFirst
}

func (s Side) String() string {
	switch s {
	case SideFirst:
		return "first"
	case SideSecond:
		return "second"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// MiniGame names what a mini-game decides.
type MiniGame int

const (
	// MiniGameSize decides who chooses the board size.
	MiniGameSize MiniGame = iota + 1
	// MiniGameOrder decides who starts.
	MiniGameOrder
)

func (m MiniGame) String() string {
	switch m {
	case MiniGameSize:
		return "board size"
	case MiniGameOrder:
		return "turn order"
	default:
		return fmt.Sprintf("minigame(%d)", int(m))
	}
}

// MiniGameResult holds the outcome of a mini-game.
type MiniGameResult struct {
	Guesses  [2]int
	Secret   int
	Winner   Side
	TieBreak bool
}

// ValidateGuesses checks that both guesses are in range and distinct.
func ValidateGuesses(a, b int) error {
	if a < GuessMin || a > GuessMax || b < GuessMin || b > GuessMax {
		return ErrGuessOutOfRange
	}
	if a == b {
		return ErrSameGuess
	}
	return nil
}

// PlayMiniGame draws a secret number and returns which guess came closer.
// Equal distances are decided by a coin flip.
func PlayMiniGame(a, b int, rng Random) (MiniGameResult, error) {
	if err := ValidateGuesses(a, b); err != nil {
		return MiniGameResult{}, err
	}

	result := MiniGameResult{
		Guesses: [2]int{a, b},
		Secret:  rng.Intn(GuessMax-GuessMin+1) + GuessMin,
	}
	da := abs(a - result.Secret)
	db := abs(b - result.Secret)
	switch {
	case da < db:
		result.Winner = SideFirst
	case db < da:
		result.Winner = SideSecond
	default:
		result.TieBreak = true
		result.Winner = Side(rng.Intn(2))
	}
	return result, nil
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
