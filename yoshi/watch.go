/*
Copyright (C) 2023  Carl-Philip Hänsch

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
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watcher notices when the startup library changes on disk while an
// interactive session is running. It never reloads anything itself — the
// GC's single root is the live top-level environment, not the file — it
// only surfaces a one-line notice the next time the REPL checks in.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	notices  chan string
}

// NewWatcher starts watching path. The caller owns calling Close when done.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{fsw: fsw, path: path, notices: make(chan string, 1)}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) {
				msg := fmt.Sprintf("note: %s changed on disk (restart to pick up changes)", w.path)
				select {
				case w.notices <- msg:
				default:
				}
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Drain prints any pending change notice without blocking. Called once per
// REPL prompt so a notice appears promptly but never stalls input.
func (w *Watcher) Drain() {
	select {
	case msg := <-w.notices:
		fmt.Println(msg)
	default:
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
