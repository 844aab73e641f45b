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
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// NetworkREPL is the supplementary networked REPL bridge: one session per
// connection, every session reading and evaluating against the same
// process-wide top-level environment. §5 requires evaluation to stay
// single-threaded, so all sessions share one mutex around Read+Eval instead
// of each getting its own lock-free path — the core never runs on two
// goroutines at once, it just takes turns.
type NetworkREPL struct {
	Env      *Env
	Debug    bool
	upgrader websocket.Upgrader
	mu       sync.Mutex
}

func NewNetworkREPL(env *Env) *NetworkREPL {
	return &NetworkREPL{
		Env: env,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and runs one session until the client
// disconnects or sends a close frame.
func (n *NetworkREPL) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := n.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		reply := n.evalOneMessage(string(message))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			return
		}
	}
}

func (n *NetworkREPL) evalOneMessage(text string) (reply string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			reply = "error: " + recoverError(rec).Error()
		}
	}()
	rd := NewReader(stripBOM(strings.NewReader(text)))
	form, ok := rd.Read()
	if !ok {
		return ""
	}
	result := EvalTopLevel(form, n.Env)
	return Stringify(result)
}
