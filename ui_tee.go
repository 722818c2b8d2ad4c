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
	"os"
)

// teeUI writes a plain text transcript of all matches into File.
type teeUI struct {
	File string
	UI   UI
	f    *os.File
}

func (t *teeUI) Initialise() error {
	if t.f != nil {
		return fmt.Errorf("file already opened")
	}
	var err error
	t.f, err = os.Create(t.File)
	if err != nil {
		t.f = nil
		return err
	}
	if t.UI != nil {
		return t.UI.Initialise()
	}
	return nil
}

func (t *teeUI) NewMatch(s Snapshot) {
	if t.f != nil {
		p1, _ := s.player(1)
		p2, _ := s.player(2)
		t.f.WriteString(fmt.Sprintf("New match %d x %d: %s %s vs %s %s\n\n", s.Rows, s.Cols, p1.Name, p1.Position, p2.Name, p2.Position))
		t.f.WriteString(s.PrintBoard(false))
		t.f.WriteString("\n\n")
	}

	if t.UI != nil {
		t.UI.NewMatch(s)
	}
}

func (t *teeUI) NewTurn(turn Turn, s Snapshot) {
	if t.f != nil {
		t.f.WriteString(describeTurn(turn))
		t.f.WriteString("\n\n")
		t.f.WriteString(s.PrintBoard(false))
		t.f.WriteString("\n\n")
	}

	if t.UI != nil {
		t.UI.NewTurn(turn, s)
	}
}

func (t *teeUI) Finish(r Result) error {
	var err error
	if t.f != nil {
		_, err = t.f.WriteString(describeResult(r) + "\n\n")
	}
	if t.UI != nil {
		newErr := t.UI.Finish(r)
		if newErr != nil && err != nil {
			return fmt.Errorf("two errors: %s, %s", err.Error(), newErr.Error())
		} else if newErr != nil {
			err = newErr
		}
	}
	return err
}

func (t *teeUI) Close() error {
	var err error
	if t.f != nil {
		err = t.f.Close()
		t.f = nil
	}
	if t.UI != nil {
		newErr := t.UI.Close()
		if newErr != nil && err != nil {
			return fmt.Errorf("two errors: %s, %s", err.Error(), newErr.Error())
		} else if newErr != nil {
			err = newErr
		}
	}
	return err
}
