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

import "fmt"

// ErrorKind tags the one flat taxonomy of error spec.md §7 asks for. Every
// error carries a message and, where useful, the offending Value.
type ErrorKind uint8

const (
	ReadError ErrorKind = iota
	SyntaxError
	UnboundVariable
	TypeError
	ArityError
	InputError
)

func (k ErrorKind) String() string {
	switch k {
	case ReadError:
		return "read error"
	case SyntaxError:
		return "syntax error"
	case UnboundVariable:
		return "unbound variable"
	case TypeError:
		return "type error"
	case ArityError:
		return "arity error"
	case InputError:
		return "input error"
	default:
		return "error"
	}
}

// Error is the single error type every component panics with. Reader,
// Expander, Evaluator and primitives never recover from their own panics —
// the REPL's loops (repl.go) and the networked REPL's per-message handler
// (network.go) are the only catch points, matching the teacher's prompt.go
// defer/recover discipline.
type Error struct {
	Kind    ErrorKind
	Message string
	Value   *Value // offending value, nil if not applicable
}

func newError(kind ErrorKind, message string, value *Value) *Error {
	return &Error{Kind: kind, Message: message, Value: value}
}

func (e *Error) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, Stringify(e.Value))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Raise panics with a freshly built *Error. Every component that detects a
// violation of spec.md §7's taxonomy calls this rather than returning an
// error value, so that non-local unwind reaches the REPL's catch with no
// per-layer plumbing.
func Raise(kind ErrorKind, message string, value *Value) {
	panic(newError(kind, message, value))
}

// recoverError turns a recovered panic value into an *Error, wrapping
// anything that isn't already one (a host-level panic such as a nil
// dereference) so the REPL always has a message to print.
func recoverError(r any) *Error {
	if err, ok := r.(*Error); ok {
		return err
	}
	return &Error{Kind: TypeError, Message: fmt.Sprint(r)}
}
