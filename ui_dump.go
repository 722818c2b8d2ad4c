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
	"encoding/gob"
	"os"
)

// MatchRecord is the record of a single match as written by dumpUI.
type MatchRecord struct {
	Start  Snapshot
	Turns  []Turn
	Result Result
}

// dumpUI collects all finished matches and writes them gob encoded into File on Close.
// The dump is an export for analysis, it is never read back by repulsor.
type dumpUI struct {
	File    string
	UI      UI
	current *MatchRecord
	records []MatchRecord
}

func (d *dumpUI) Initialise() error {
	if d.UI != nil {
		return d.UI.Initialise()
	}
	return nil
}

func (d *dumpUI) NewMatch(s Snapshot) {
	d.current = &MatchRecord{Start: s}

	if d.UI != nil {
		d.UI.NewMatch(s)
	}
}

func (d *dumpUI) NewTurn(t Turn, s Snapshot) {
	if d.current != nil {
		d.current.Turns = append(d.current.Turns, t)
	}

	if d.UI != nil {
		d.UI.NewTurn(t, s)
	}
}

func (d *dumpUI) Finish(r Result) error {
	if d.current != nil {
		d.current.Result = r
		d.records = append(d.records, *d.current)
		d.current = nil
	}

	if d.UI != nil {
		return d.UI.Finish(r)
	}
	return nil
}

func (d *dumpUI) Close() error {
	var err error
	if d.UI != nil {
		err = d.UI.Close()
	}

	if len(d.records) == 0 {
		return err
	}

	records := d.records
	d.records = nil
	f, newErr := os.Create(d.File)
	if newErr != nil {
		return newErr
	}
	defer f.Close()
	enc := gob.NewEncoder(f)
	newErr = enc.Encode(records)

	if newErr != nil {
		return newErr
	}

	return err
}
