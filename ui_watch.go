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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/sirupsen/logrus"
)

const (
	// URIWatch is the websocket endpoint streaming match events.
	URIWatch = "/watch"
	// URISnapshot returns the latest match event as JSON.
	URISnapshot = "/snapshot"

	watchClientBuffer = 16
	watchWriteTimeout = 2 * time.Second
)

// watchMessage is sent to spectators as JSON.
type watchMessage struct {
	Type     string    `json:"type"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Turn     *Turn     `json:"turn,omitempty"`
	Result   *Result   `json:"result,omitempty"`
}

type watchClient struct {
	conn *websocket.Conn
	send chan []byte
}

// watchUI serves a read-only spectator feed of the matches over websockets.
// Spectators can not influence a match.
type watchUI struct {
	Addr string
	UI   UI
	Log  logrus.FieldLogger

	upgrader websocket.Upgrader
	router   *way.Router
	server   *http.Server
	listener net.Listener

	mu       sync.Mutex
	clients  map[*watchClient]struct{}
	last     []byte
	snapshot *Snapshot
}

func (w *watchUI) Initialise() error {
	if w.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		w.Log = l
	}
	w.clients = make(map[*watchClient]struct{})
	w.routes()

	var err error
	w.listener, err = net.Listen("tcp", w.Addr)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w.server = &http.Server{Handler: w.router}
	go func() {
		err := w.server.Serve(w.listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			w.Log.WithError(err).Error("watch server stopped")
		}
	}()
	w.Log.WithField("addr", w.listener.Addr().String()).Info("spectator feed listening")

	if w.UI != nil {
		return w.UI.Initialise()
	}
	return nil
}

func (w *watchUI) routes() {
	w.router = way.NewRouter()
	w.router.HandleFunc(http.MethodGet, URIWatch, w.handleWatch())
	w.router.HandleFunc(http.MethodGet, URISnapshot, w.handleSnapshot())
}

// ListenAddr returns the address the feed listens on, nil before Initialise.
func (w *watchUI) ListenAddr() net.Addr {
	if w.listener == nil {
		return nil
	}
	return w.listener.Addr()
}

func (w *watchUI) handleWatch() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := w.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			w.Log.WithError(err).Warn("watch upgrade failed")
			return
		}
		c := &watchClient{conn: conn, send: make(chan []byte, watchClientBuffer)}

		w.mu.Lock()
		w.clients[c] = struct{}{}
		if w.last != nil {
			c.send <- w.last
		}
		w.mu.Unlock()
		w.Log.WithField("remote", r.RemoteAddr).Info("spectator connected")

		go w.writeLoop(c)
		// Spectators have nothing to say, reading only detects a closed connection.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		w.drop(c)
		w.Log.WithField("remote", r.RemoteAddr).Info("spectator disconnected")
	}
}

func (w *watchUI) handleSnapshot() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		w.mu.Lock()
		last := w.last
		w.mu.Unlock()
		if last == nil {
			rw.WriteHeader(http.StatusNoContent)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		rw.Write(last)
	}
}

func (w *watchUI) writeLoop(c *watchClient) {
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			w.Log.WithError(err).Debug("watch write failed")
			c.conn.Close()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

func (w *watchUI) drop(c *watchClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.clients[c]; ok {
		delete(w.clients, c)
		close(c.send)
	}
}

func (w *watchUI) broadcast(m watchMessage) {
	b, err := json.Marshal(m)
	if err != nil {
		w.Log.WithError(err).Error("watch encode failed")
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = b
	for c := range w.clients {
		select {
		case c.send <- b:
		default:
			// Slow spectators miss events.
		}
	}
}

// remember keeps s for the finish message, which carries the final board.
func (w *watchUI) remember(s Snapshot) {
	w.mu.Lock()
	w.snapshot = &s
	w.mu.Unlock()
}

func (w *watchUI) NewMatch(s Snapshot) {
	w.remember(s)
	w.broadcast(watchMessage{Type: "match", Snapshot: &s})

	if w.UI != nil {
		w.UI.NewMatch(s)
	}
}

func (w *watchUI) NewTurn(t Turn, s Snapshot) {
	w.remember(s)
	w.broadcast(watchMessage{Type: "turn", Snapshot: &s, Turn: &t})

	if w.UI != nil {
		w.UI.NewTurn(t, s)
	}
}

func (w *watchUI) Finish(r Result) error {
	w.mu.Lock()
	s := w.snapshot
	w.snapshot = nil
	w.mu.Unlock()
	w.broadcast(watchMessage{Type: "finish", Snapshot: s, Result: &r})

	if w.UI != nil {
		return w.UI.Finish(r)
	}
	return nil
}

func (w *watchUI) Close() error {
	var err error
	if w.server != nil {
		err = w.server.Close()
	}
	w.mu.Lock()
	for c := range w.clients {
		delete(w.clients, c)
		close(c.send)
	}
	w.mu.Unlock()

	if w.UI != nil {
		newErr := w.UI.Close()
		if newErr != nil && err != nil {
			return fmt.Errorf("two errors: %s, %s", err.Error(), newErr.Error())
		} else if newErr != nil {
			err = newErr
		}
	}
	return err
}
