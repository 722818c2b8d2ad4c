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

// printWinUI writes the outcome of the last finished match into File.
type printWinUI struct {
	File        string
	UI          UI
	initialised bool
}

func (p *printWinUI) Initialise() error {
	p.initialised = true
	if p.UI != nil {
		return p.UI.Initialise()
	}
	return nil
}

func (p *printWinUI) NewMatch(s Snapshot) {
	if p.UI != nil {
		p.UI.NewMatch(s)
	}
}

func (p *printWinUI) NewTurn(t Turn, s Snapshot) {
	if p.UI != nil {
		p.UI.NewTurn(t, s)
	}
}

func (p *printWinUI) Finish(r Result) error {
	var err error
	if p.UI != nil {
		err = p.UI.Finish(r)
	}

	if p.initialised {
		f, newErr := os.Create(p.File)
		if newErr != nil {
			return newErr
		}
		defer f.Close()

		_, newErr = f.WriteString(fmt.Sprintf("%s wins (%d / %d)\n", r.WinnerName, r.Steps[0], r.Steps[1]))
		if newErr != nil {
			return newErr
		}
	}

	return err
}

func (p *printWinUI) Close() error {
	if p.UI != nil {
		return p.UI.Close()
	}
	return nil
}
