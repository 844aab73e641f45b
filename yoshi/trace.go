/*
Copyright (C) 2024  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package yoshi

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

var traceStart = time.Now()

// Tracefile is a Chrome-trace-format (catapult) JSON event log: a top-level
// array of begin/end event pairs, one pair per top-level form evaluated
// with -d. Opening one is optional and off by default.
type Tracefile struct {
	mu      sync.Mutex
	w       io.WriteCloser
	isFirst bool
}

func NewTracefile(w io.WriteCloser) *Tracefile {
	w.Write([]byte("["))
	return &Tracefile{w: w, isFirst: true}
}

func (t *Tracefile) Close() error {
	t.w.Write([]byte("]"))
	return t.w.Close()
}

type traceEvent struct {
	Name string `json:"name"`
	Cat  string `json:"cat"`
	Ph   string `json:"ph"`
	Ts   int64  `json:"ts"`
	Pid  int    `json:"pid"`
	Tid  int    `json:"tid"`
}

// Event appends one begin ("B") or end ("E") event. cat is the event
// category (e.g. "eval"); name identifies the specific occurrence, by
// convention the correlation id assigned in repl.go.
func (t *Tracefile) Event(name, cat, ph string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	evt := traceEvent{Name: name, Cat: cat, Ph: ph, Ts: time.Since(traceStart).Microseconds()}
	encoded, err := json.Marshal(evt)
	if err != nil {
		return
	}
	if !t.isFirst {
		t.w.Write([]byte(","))
	}
	t.isFirst = false
	t.w.Write(encoded)
}

// Duration records a begin/end pair bracketing f.
func (t *Tracefile) Duration(name, cat string, f func()) {
	t.Event(name, cat, "B")
	defer t.Event(name, cat, "E")
	f()
}
