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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell"
	"github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const highlightTick = 20 * time.Millisecond

// A Frontend drives a Controller from user input until the user quits.
type Frontend interface {
	Run(ctx context.Context, c *Controller) error
}

// terminalUI is a full screen frontend based on tcell.
type terminalUI struct {
	// Highlight is the duration a vacated cell flashes. 0 disables the flash.
	Highlight time.Duration
	Log       logrus.FieldLogger

	screen  tcell.Screen
	c       *Controller
	colors  map[int]tcell.Color
	fields  []string
	focus   int
	option  int
	message string
	confirm bool
	quit    bool

	highlight      *gween.Tween
	highlightPos   Position
	highlightLevel float32
}

func (tui *terminalUI) Run(ctx context.Context, c *Controller) error {
	var err error
	if tui.screen == nil {
		tui.screen, err = tcell.NewScreen()
		if err != nil {
			return err
		}
	}
	if err = tui.init(c); err != nil {
		return err
	}
	defer tui.screen.Fini()

	done := make(chan struct{})
	defer close(done)
	ec := make(chan tcell.Event)
	go func() {
		for {
			e := tui.screen.PollEvent()
			if e == nil {
				return
			}
			select {
			case ec <- e:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(highlightTick)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-ec:
			tui.handleEvent(e)
			if tui.quit {
				return nil
			}
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if tui.highlight != nil {
				tui.updateHighlight(dt)
				tui.draw()
			}
		}
	}
}

func (tui *terminalUI) init(c *Controller) error {
	if err := tui.screen.Init(); err != nil {
		return err
	}
	if tui.Log == nil {
		tui.Log = logrus.StandardLogger()
	}
	tui.c = c
	tui.colors = map[int]tcell.Color{
		0: tcell.ColorDefault,
		1: tcell.NewRGBColor(255, 165, 0),
		2: tcell.NewRGBColor(135, 206, 250),
	}
	tui.resetInput()
	tui.draw()
	return nil
}

// resetInput prepares the input fields for the current screen.
func (tui *terminalUI) resetInput() {
	tui.focus = 0
	tui.option = 0
	tui.confirm = false
	switch s := tui.c.Screen().(type) {
	case NameScreen:
		tui.fields = make([]string, 1)
	case MiniGameScreen:
		if s.Result == nil {
			tui.fields = make([]string, 2)
		} else {
			tui.fields = nil
		}
	case PositionScreen:
		tui.fields = make([]string, 2)
	default:
		tui.fields = nil
	}
}

// act runs a controller action and updates the message and input fields.
func (tui *terminalUI) act(f func() error) {
	err := f()
	if err != nil {
		tui.Log.WithError(err).Debug("input rejected")
		tui.message = err.Error()
		if errors.Is(err, ErrSameGuess) {
			for i := range tui.fields {
				tui.fields[i] = ""
			}
			tui.focus = 0
		}
		return
	}
	tui.message = ""
	tui.resetInput()
}

func (tui *terminalUI) handleEvent(e tcell.Event) {
	switch ev := e.(type) {
	case *tcell.EventKey:
		tui.handleKey(ev)
	case *tcell.EventResize:
		tui.screen.Sync()
	}
	tui.draw()
}

func (tui *terminalUI) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		tui.quit = true
		return
	}

	if tui.confirm {
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y') {
			tui.act(func() error { tui.c.ReturnToMenu(); return nil })
			return
		}
		tui.confirm = false
		return
	}

	switch s := tui.c.Screen().(type) {
	case MenuScreen:
		tui.handleMenuKey(ev)
	case ExplanationScreen:
		switch ev.Key() {
		case tcell.KeyEnter, tcell.KeyEscape, tcell.KeyBackspace, tcell.KeyBackspace2:
			tui.act(tui.c.Back)
		}
	case NameScreen:
		if ev.Key() == tcell.KeyEscape {
			tui.act(tui.c.Back)
			return
		}
		tui.handleFieldKey(ev, false, func() error { return tui.c.SubmitName(tui.fields[0]) })
	case MiniGameScreen:
		if ev.Key() == tcell.KeyEscape {
			tui.act(func() error { tui.c.ReturnToMenu(); return nil })
			return
		}
		if s.Result != nil {
			if ev.Key() == tcell.KeyEnter {
				tui.act(tui.c.Continue)
			}
			return
		}
		tui.handleFieldKey(ev, true, func() error { return tui.c.SubmitGuesses(tui.fields[0], tui.fields[1]) })
	case SizeScreen:
		tui.handleSizeKey(ev, s)
	case PositionScreen:
		if ev.Key() == tcell.KeyEscape {
			tui.act(func() error { tui.c.ReturnToMenu(); return nil })
			return
		}
		tui.handleFieldKey(ev, true, func() error { return tui.c.SubmitPosition(tui.fields[0], tui.fields[1]) })
	case PlayScreen:
		switch {
		case ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == ' '):
			tui.act(func() error {
				t, err := tui.c.Advance()
				if err == nil {
					tui.startHighlight(t.From)
				}
				return err
			})
		case ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && ev.Rune() == 'm'):
			tui.confirm = true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			tui.quit = true
		}
	case FinishedScreen:
		switch {
		case ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == 'm'):
			tui.act(func() error { tui.c.ReturnToMenu(); return nil })
		case ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q'):
			tui.quit = true
		}
	}
}

var menuOptions = []string{"Start game", "Show rules", "Quit"}

func (tui *terminalUI) handleMenuKey(ev *tcell.EventKey) {
	choice := -1
	switch ev.Key() {
	case tcell.KeyUp:
		if tui.option > 0 {
			tui.option--
		}
	case tcell.KeyDown, tcell.KeyTab:
		if tui.option < len(menuOptions)-1 {
			tui.option++
		}
	case tcell.KeyEnter:
		choice = tui.option
	case tcell.KeyEscape:
		choice = 2
	case tcell.KeyRune:
		switch ev.Rune() {
		case '1', 's':
			choice = 0
		case '2', 'r':
			choice = 1
		case '3', 'q':
			choice = 2
		}
	}

	switch choice {
	case 0:
		tui.act(tui.c.StartSetup)
	case 1:
		tui.act(tui.c.ShowExplanation)
	case 2:
		tui.quit = true
	}
}

func (tui *terminalUI) handleSizeKey(ev *tcell.EventKey, s SizeScreen) {
	switch ev.Key() {
	case tcell.KeyLeft, tcell.KeyUp:
		if tui.option > 0 {
			tui.option--
		}
	case tcell.KeyRight, tcell.KeyDown, tcell.KeyTab:
		if tui.option < len(s.Sizes)-1 {
			tui.option++
		}
	case tcell.KeyEnter:
		size := s.Sizes[tui.option]
		tui.act(func() error { return tui.c.ChooseSize(size) })
	case tcell.KeyEscape:
		tui.act(func() error { tui.c.ReturnToMenu(); return nil })
	case tcell.KeyRune:
		i := int(ev.Rune() - '1')
		if i >= 0 && i < len(s.Sizes) {
			size := s.Sizes[i]
			tui.act(func() error { return tui.c.ChooseSize(size) })
		}
	}
}

// handleFieldKey edits the input fields. Enter moves to the next field or submits on the last one.
func (tui *terminalUI) handleFieldKey(ev *tcell.EventKey, numeric bool, submit func() error) {
	if len(tui.fields) == 0 {
		return
	}
	switch ev.Key() {
	case tcell.KeyTab, tcell.KeyDown:
		tui.focus = (tui.focus + 1) % len(tui.fields)
	case tcell.KeyBacktab, tcell.KeyUp:
		tui.focus = (tui.focus + len(tui.fields) - 1) % len(tui.fields)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		f := []rune(tui.fields[tui.focus])
		if len(f) > 0 {
			tui.fields[tui.focus] = string(f[:len(f)-1])
		}
	case tcell.KeyEnter:
		if tui.focus < len(tui.fields)-1 {
			tui.focus++
			return
		}
		tui.act(submit)
	case tcell.KeyRune:
		r := ev.Rune()
		if numeric && (r < '0' || r > '9') && r != '-' {
			return
		}
		if len([]rune(tui.fields[tui.focus])) >= 32 {
			return
		}
		tui.fields[tui.focus] += string(r)
	}
}

func (tui *terminalUI) startHighlight(p Position) {
	if tui.Highlight <= 0 {
		return
	}
	tui.highlightPos = p
	tui.highlightLevel = 1
	tui.highlight = gween.New(1, 0, float32(tui.Highlight.Seconds()), ease.OutQuad)
}

func (tui *terminalUI) updateHighlight(dt time.Duration) {
	level, finished := tui.highlight.Update(float32(dt.Seconds()))
	tui.highlightLevel = level
	if finished {
		tui.highlight = nil
		tui.highlightLevel = 0
	}
}

func (tui *terminalUI) drawString(x, y int, v string, style tcell.Style) int {
	for _, r := range v {
		tui.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func (tui *terminalUI) drawLines(x, y int, s string, style tcell.Style) int {
	line := ""
	for _, r := range s {
		if r == '\n' {
			tui.drawString(x, y, line, style)
			line = ""
			y++
			continue
		}
		line += string(r)
	}
	tui.drawString(x, y, line, style)
	return y + 1
}

func (tui *terminalUI) drawField(x, y int, label string, i int) {
	style := tcell.StyleDefault
	x = tui.drawString(x, y, label, style)
	fieldStyle := tcell.StyleDefault.Underline(true)
	if i == tui.focus {
		fieldStyle = fieldStyle.Reverse(true)
	}
	tui.drawString(x+1, y, fmt.Sprintf("%-12s", tui.fields[i]), fieldStyle)
}

func (tui *terminalUI) draw() {
	tui.screen.Clear()
	bold := tcell.StyleDefault.Bold(true)
	tui.drawString(0, 0, "REPULSOR", bold)

	y := 2
	switch s := tui.c.Screen().(type) {
	case MenuScreen:
		for i, o := range menuOptions {
			style := tcell.StyleDefault
			if i == tui.option {
				style = style.Reverse(true)
			}
			tui.drawString(2, y+i, fmt.Sprintf("%d) %s", i+1, o), style)
		}
	case ExplanationScreen:
		y = tui.drawLines(2, y, explanation, tcell.StyleDefault)
		tui.drawString(2, y+1, "ENTER: back to menu", tcell.StyleDefault.Dim(true))
	case NameScreen:
		tui.drawString(2, y, fmt.Sprintf("Enter the name of player %d:", s.Index), tcell.StyleDefault)
		tui.drawField(2, y+2, "Name:", 0)
		tui.drawString(2, y+4, "ENTER: next   ESC: back", tcell.StyleDefault.Dim(true))
	case MiniGameScreen:
		tui.drawString(2, y, fmt.Sprintf("Mini-game: who decides the %s?", s.Game), bold)
		if s.Result == nil {
			tui.drawField(2, y+2, fmt.Sprintf("%s - number (%d-%d):", s.Setup.Names[0], GuessMin, GuessMax), 0)
			tui.drawField(2, y+3, fmt.Sprintf("%s - number (%d-%d):", s.Setup.Names[1], GuessMin, GuessMax), 1)
			tui.drawString(2, y+5, "TAB: switch field   ENTER: play   ESC: menu", tcell.StyleDefault.Dim(true))
			break
		}
		r := s.Result
		tui.drawString(2, y+2, fmt.Sprintf("%s: %d   %s: %d", s.Setup.Names[0], r.Guesses[0], s.Setup.Names[1], r.Guesses[1]), tcell.StyleDefault)
		tui.drawString(2, y+3, fmt.Sprintf("Secret number: %d", r.Secret), tcell.StyleDefault)
		winner := fmt.Sprintf("Winner: %s", s.Winner())
		if r.TieBreak {
			winner += " (coin flip)"
		}
		tui.drawString(2, y+4, winner, bold)
		tui.drawString(2, y+6, "ENTER: continue", tcell.StyleDefault.Dim(true))
	case SizeScreen:
		tui.drawString(2, y, fmt.Sprintf("%s, choose the board size:", s.Chooser), tcell.StyleDefault)
		for i, size := range s.Sizes {
			style := tcell.StyleDefault
			if i == tui.option {
				style = style.Reverse(true)
			}
			tui.drawString(4+i*12, y+2, fmt.Sprintf("%d) %d x %d", i+1, size, size), style)
		}
	case PositionScreen:
		tui.drawString(2, y, fmt.Sprintf("%s, choose your start cell:", s.Player), tcell.StyleDefault)
		tui.drawField(2, y+2, fmt.Sprintf("Row (0-%d):", s.Rows-1), 0)
		tui.drawField(2, y+3, fmt.Sprintf("Column (0-%d):", s.Cols-1), 1)
		if s.Taken != nil {
			tui.drawString(2, y+5, fmt.Sprintf("%s is taken by %s", *s.Taken, s.Setup.Name(s.Setup.Starter)), tcell.StyleDefault.Dim(true))
		}
	case PlayScreen:
		tui.drawBoard(2, y, s.Snapshot)
		if s.Last != nil {
			tui.drawString(2, y+s.Snapshot.Rows+2, describeTurn(*s.Last), tcell.StyleDefault)
		}
		help := "ENTER: next turn   m: menu   q: quit"
		if tui.confirm {
			help = "Return to the menu? The current match is lost. (y/n)"
		}
		tui.drawString(2, y+s.Snapshot.Rows+4, help, tcell.StyleDefault.Dim(true))
	case FinishedScreen:
		tui.drawBoard(2, y, s.Snapshot)
		tui.drawString(2, y+s.Snapshot.Rows+2, describeResult(s.Result), bold)
		tui.drawString(2, y+s.Snapshot.Rows+4, "ENTER: menu   q: quit", tcell.StyleDefault.Dim(true))
	}

	if tui.message != "" {
		_, h := tui.screen.Size()
		tui.drawString(0, h-1, tui.message, tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
	tui.screen.Show()
}

func (tui *terminalUI) cellStyle(s Snapshot, p Position) tcell.Style {
	owner := s.Owners[p.Row][p.Col]
	style := tcell.StyleDefault
	if owner != 0 {
		style = style.Background(tui.colors[owner]).Foreground(tcell.ColorBlack)
	}
	if tui.highlight != nil && p == tui.highlightPos {
		r, g, b := tui.colors[owner].RGB()
		if owner == 0 {
			r, g, b = 0, 0, 0
		}
		l := tui.highlightLevel
		style = style.Background(tcell.NewRGBColor(
			r+int32(float32(255-r)*l),
			g+int32(float32(255-g)*l),
			b+int32(float32(255-b)*l),
		)).Foreground(tcell.ColorBlack)
	}
	return style
}

func (tui *terminalUI) drawBoard(x, y int, s Snapshot) {
	dim := tcell.StyleDefault.Dim(true)
	for c := 0; c < s.Cols; c++ {
		tui.drawString(x+3+c*3, y, fmt.Sprintf("%2d", c), dim)
	}
	for r := 0; r < s.Rows; r++ {
		tui.drawString(x, y+1+r, fmt.Sprintf("%2d", r), dim)
		for c := 0; c < s.Cols; c++ {
			p := Position{Row: r, Col: c}
			ch := s.Arrows[r][c].Arrow()
			style := tui.cellStyle(s, p)
			if m := s.markerAt(r, c); m != 0 {
				ch = m
				style = style.Bold(true)
			}
			tui.drawString(x+3+c*3, y+1+r, " "+string(ch)+" ", style)
		}
	}

	ox := x + 3 + s.Cols*3 + 3
	for i, line := range buildMatchOverviewStrings(s) {
		style := tcell.StyleDefault
		for _, p := range s.Players {
			if len(line) > 0 && line[0] == byte('0'+p.ID) {
				style = style.Foreground(tui.colors[p.ID]).Bold(true)
			}
		}
		tui.drawString(ox, y+i, line, style)
	}
}
