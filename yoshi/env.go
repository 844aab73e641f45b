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

// binding is one (symbol, value) pair in a Frame. Insertion order doesn't
// matter for correctness (spec.md §3); most-recent define of the same name
// overwrites in place rather than shadowing a duplicate entry.
type binding struct {
	name  string
	value *Value
}

// Env is one frame in the lexical chain. parent is a weak reference in the
// sense that it never keeps its parent alive on its own — only the
// Collector's mark pass, walking from Root, does that (gc.go).
type Env struct {
	bindings []binding
	parent   *Env

	marked bool
	gcNext *Env
}

// NewEnv allocates a fresh frame chained to parent through the Collector.
func NewEnv(parent *Env) *Env {
	return heap.allocEnv(parent)
}

// NewTopLevelEnv creates the process-wide root frame and makes it the
// Collector's mark root. There is exactly one of these per process (see
// spec.md §9's "global mutable state" note).
func NewTopLevelEnv() *Env {
	e := &Env{}
	heap.Root = e
	return e
}

// Lookup walks the chain innermost-first and returns the bound value, or
// raises UnboundVariable.
func (e *Env) Lookup(name string) *Value {
	for env := e; env != nil; env = env.parent {
		for i := range env.bindings {
			if env.bindings[i].name == name {
				return env.bindings[i].value
			}
		}
	}
	panic(newError(UnboundVariable, "no binding for symbol: "+name, NewSymbol(name)))
}

// Set implements `set!`: find the innermost frame already binding name and
// rebind it there. Raises UnboundVariable if no frame in the chain has it.
func (e *Env) Set(name string, value *Value) {
	for env := e; env != nil; env = env.parent {
		for i := range env.bindings {
			if env.bindings[i].name == name {
				env.bindings[i].value = value
				return
			}
		}
	}
	panic(newError(UnboundVariable, "no binding for symbol: "+name, NewSymbol(name)))
}

// Define always writes to e itself — never an outer frame — overwriting an
// existing binding of the same name if present. This is what makes
// `define` shadow an outer binding rather than mutate it.
func (e *Env) Define(name string, value *Value) {
	for i := range e.bindings {
		if e.bindings[i].name == name {
			e.bindings[i].value = value
			return
		}
	}
	e.bindings = append(e.bindings, binding{name: name, value: value})
}

// Has reports whether name is bound anywhere in the chain, without raising.
func (e *Env) Has(name string) bool {
	for env := e; env != nil; env = env.parent {
		for i := range env.bindings {
			if env.bindings[i].name == name {
				return true
			}
		}
	}
	return false
}
