/*
Copyright (C) 2023  Carl-Philip Hänsch
Copyright (C) 2013  Pieter Kelchtermans (originally licensed unter WTFPL 2.0)

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
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
)

const (
	primaryPrompt      = "\033[32myoshi>\033[0m "
	continuationPrompt = "\033[32m  ...>\033[0m "
)

// REPL drives one top-level session: read, expand, evaluate, print,
// collect. File mode and interactive mode share every piece of this except
// how the next line of source arrives.
type REPL struct {
	Env     *Env
	Debug   bool
	Silent  bool
	Trace   *Tracefile
	Watcher *Watcher
}

func NewREPL(env *Env) *REPL {
	return &REPL{Env: env}
}

// RunFile reads and evaluates every top-level form in path, in order, the
// way it does for the startup library — a read or evaluation error prints
// and the REPL proceeds with the next form in the same file, per §7's
// "does not abort processing of the current file".
func (r *REPL) RunFile(path string) error {
	f, src, err := OpenSourceFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r.runReader(NewReader(src))
	return nil
}

// LoadStartupLibrary behaves like RunFile but never prints top-level
// results, regardless of -s, since a library is almost entirely `define`
// forms whose unspecified return values would just be noise.
func (r *REPL) LoadStartupLibrary(path string) error {
	f, src, err := OpenSourceFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	saved := r.Silent
	r.Silent = true
	defer func() { r.Silent = saved }()
	r.runReader(NewReader(src))
	return nil
}

func (r *REPL) runReader(rd *Reader) {
	for {
		form, ok, fatal := r.readOne(rd)
		if fatal {
			os.Exit(1)
		}
		if !ok {
			return
		}
		if form == nil {
			continue
		}
		r.evalAndPrint(form)
	}
}

func (r *REPL) readOne(rd *Reader) (form *Value, ok bool, fatal bool) {
	defer func() {
		if rec := recover(); rec != nil {
			err := recoverError(rec)
			if err.Kind == InputError {
				fmt.Fprintln(os.Stderr, "fatal:", err.Error())
				fatal = true
				return
			}
			fmt.Println("error:", err.Error())
			ok = true
		}
	}()
	form, ok = rd.Read()
	return
}

func (r *REPL) evalAndPrint(form *Value) {
	defer func() {
		if rec := recover(); rec != nil {
			err := recoverError(rec)
			if err.Kind == InputError {
				fmt.Fprintln(os.Stderr, "fatal:", err.Error())
				os.Exit(1)
			}
			fmt.Println("error:", err.Error())
		}
	}()
	result := r.evalTraced(form)
	if !r.Silent {
		fmt.Println(Stringify(result))
	}
}

func (r *REPL) evalTraced(form *Value) *Value {
	if !r.Debug {
		return EvalTopLevel(form, r.Env)
	}
	id := uuid.New().String()
	fmt.Fprintf(os.Stderr, "eval[%s]: %s\n", id, Stringify(form))
	var result *Value
	if r.Trace != nil {
		r.Trace.Duration(id, "eval", func() { result = EvalTopLevel(form, r.Env) })
	} else {
		result = EvalTopLevel(form, r.Env)
	}
	return result
}

// RunInteractive is the readline-backed loop, grounded directly on the
// teacher's prompt.go: one editable line with a continuation prompt, a
// single recover per attempted form, and an oldline/pending buffer that
// accumulates raw text until a whole form parses.
func (r *REPL) RunInteractive() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            primaryPrompt,
		HistoryFile:       ".yoshi-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	pending := ""
	for {
		if r.Watcher != nil {
			r.Watcher.Drain()
		}
		line, err := l.Readline()
		switch {
		case err == readline.ErrInterrupt:
			if pending == "" {
				continue
			}
			pending = ""
			l.SetPrompt(primaryPrompt)
			continue
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}
		full := pending + line + "\n"
		if strings.TrimSpace(full) == "" {
			pending = ""
			l.SetPrompt(primaryPrompt)
			continue
		}
		if r.tryInteractiveForm(full) {
			pending = ""
			l.SetPrompt(primaryPrompt)
		} else {
			pending = full
			l.SetPrompt(continuationPrompt)
		}
	}
}

// tryInteractiveForm attempts to read and evaluate one form out of text.
// It reports false only when the read failed because more input is needed
// (an unterminated list, string, vector, ...) — every other outcome,
// success or a real error, is "complete": the REPL resets its buffer.
func (r *REPL) tryInteractiveForm(text string) (complete bool) {
	defer func() {
		if rec := recover(); rec != nil {
			err := recoverError(rec)
			if err.Kind == InputError {
				fmt.Fprintln(os.Stderr, "fatal:", err.Error())
				os.Exit(1)
			}
			if err.Kind == ReadError && incompleteRead(err.Message) {
				complete = false
				return
			}
			fmt.Println("error:", err.Error())
			complete = true
		}
	}()
	rd := NewReader(strings.NewReader(text))
	form, ok := rd.Read()
	if !ok {
		return true
	}
	result := r.evalTraced(form)
	if !r.Silent {
		fmt.Println(Stringify(result))
	}
	return true
}

func incompleteRead(message string) bool {
	switch message {
	case "expecting matching )",
		"expecting matching ) in vector",
		"expecting matching ) in bytevector",
		"unterminated string",
		"unterminated character name",
		"unexpected end of input",
		"unexpected end of input after #":
		return true
	}
	return false
}
