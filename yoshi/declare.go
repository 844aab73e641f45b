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
	"strings"

	"github.com/google/btree"
)

// Declaration documents and registers one primitive procedure, the same
// shape the teacher's scm.Declare takes, but with an ordered registry
// (btree) backing the `help` listing instead of map iteration, which Go
// randomizes — and a Scheme REPL's help output should read the same twice
// in a row.
type Declaration struct {
	Name         string
	Desc         string
	MinParameter int
	MaxParameter int // -1 means unbounded
	Params       []DeclarationParameter
	ReturnType   string
	Fn           func(args []*Value) *Value
}

type DeclarationParameter struct {
	Name string
	Type string // any | string | number | func | list | pair | symbol | char | vector
	Desc string
}

type declEntry struct{ decl *Declaration }

func (d declEntry) Less(than btree.Item) bool {
	return d.decl.Name < than.(declEntry).decl.Name
}

var registry = btree.New(32)
var byName = make(map[string]*Declaration)

// Declare registers def both for lookup (byName, Help's single-entry
// description) and in env as a bound primitive, and wraps Fn so every primitive
// gets the same arity check instead of repeating it in each builtin.
func Declare(env *Env, def *Declaration) {
	byName[def.Name] = def
	registry.ReplaceOrInsert(declEntry{def})
	env.Define(def.Name, NewFunction(def.Name, wrapArity(def)))
}

func wrapArity(def *Declaration) func(args []*Value) *Value {
	return func(args []*Value) *Value {
		n := len(args)
		if n < def.MinParameter || (def.MaxParameter >= 0 && n > def.MaxParameter) {
			Raise(ArityError, fmt.Sprintf("%s expects %s arguments, got %d", def.Name, arityRange(def), n), nil)
		}
		return def.Fn(args)
	}
}

func arityRange(def *Declaration) string {
	if def.MaxParameter < 0 {
		return fmt.Sprintf("at least %d", def.MinParameter)
	}
	if def.MinParameter == def.MaxParameter {
		return fmt.Sprintf("exactly %d", def.MinParameter)
	}
	return fmt.Sprintf("%d to %d", def.MinParameter, def.MaxParameter)
}

// Help renders the `help` primitive's output: a sorted index of every
// declared procedure when name is empty, or one procedure's full
// description. Returns the text rather than printing it directly so both
// the REPL and a future non-interactive caller can use it.
func Help(name string) string {
	var b strings.Builder
	if name == "" {
		b.WriteString("Available procedures:\n\n")
		registry.Ascend(func(it btree.Item) bool {
			d := it.(declEntry).decl
			first := strings.SplitN(d.Desc, "\n", 2)[0]
			fmt.Fprintf(&b, "  %s: %s\n", d.Name, first)
			return true
		})
		b.WriteString("\n(help \"name\") for more detail on a single procedure\n")
		return b.String()
	}
	d, ok := byName[name]
	if !ok {
		Raise(UnboundVariable, "no such procedure: "+name, NewSymbol(name))
	}
	fmt.Fprintf(&b, "%s\n===\n\n%s\n\narguments: %s\n\n", d.Name, d.Desc, arityRange(d))
	for _, p := range d.Params {
		fmt.Fprintf(&b, " - %s (%s): %s\n", p.Name, p.Type, p.Desc)
	}
	return b.String()
}
