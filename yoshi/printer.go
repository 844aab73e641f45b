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
	"strconv"
	"strings"
	"unicode"
)

var charNames = map[rune]string{
	'\a': "alarm",
	'\b': "backspace",
	127:  "delete",
	27:   "escape",
	'\n': "newline",
	0:    "null",
	'\r': "return",
	' ':  "space",
	'\t': "tab",
}

var nameToChar = func() map[string]rune {
	m := make(map[string]rune, len(charNames))
	for r, name := range charNames {
		m[name] = r
	}
	return m
}()

// Stringify renders any Value back to a readable form, per spec.md §4.1.
func Stringify(v *Value) string {
	var b strings.Builder
	Write(&b, v)
	return b.String()
}

// Write streams Stringify's output directly to w, avoiding an intermediate
// string for large structures — the shape memcp's own Scmer.Write takes.
func Write(w io.Writer, v *Value) {
	switch v.Kind {
	case KindUndefined:
		io.WriteString(w, "#<undefined>")
	case KindNil:
		io.WriteString(w, "()")
	case KindBool:
		if v == vTrue {
			io.WriteString(w, "#t")
		} else {
			io.WriteString(w, "#f")
		}
	case KindInt:
		io.WriteString(w, strconv.FormatInt(v.Int, 10))
	case KindChar:
		writeChar(w, v.Char)
	case KindString:
		writeQuotedString(w, v.Str)
	case KindSymbol:
		io.WriteString(w, v.Sym)
	case KindPair:
		writePair(w, v)
	case KindVector:
		io.WriteString(w, "#(")
		for i, el := range v.Elems {
			if i > 0 {
				io.WriteString(w, " ")
			}
			Write(w, el)
		}
		io.WriteString(w, ")")
	case KindBytevector:
		io.WriteString(w, "#u8(")
		for i, b := range v.Bytes {
			if i > 0 {
				io.WriteString(w, " ")
			}
			io.WriteString(w, strconv.Itoa(int(b)))
		}
		io.WriteString(w, ")")
	case KindFunction:
		fmt.Fprintf(w, "#<procedure:%s>", v.Fn.Name)
	case KindClosure:
		if v.Clo.Name != "" {
			fmt.Fprintf(w, "#<procedure:%s>", v.Clo.Name)
		} else {
			io.WriteString(w, "#<procedure>")
		}
	default:
		io.WriteString(w, "#<unknown>")
	}
}

func writeChar(w io.Writer, r rune) {
	if name, ok := charNames[r]; ok {
		io.WriteString(w, "#\\"+name)
		return
	}
	if unicode.IsGraphic(r) {
		io.WriteString(w, "#\\"+string(r))
		return
	}
	fmt.Fprintf(w, "#\\x%x", r)
}

func writeQuotedString(w io.Writer, s string) {
	io.WriteString(w, "\"")
	for _, r := range s {
		switch r {
		case '\n':
			io.WriteString(w, "\\n")
		case '"':
			io.WriteString(w, "\\\"")
		case '\\':
			io.WriteString(w, "\\\\")
		default:
			io.WriteString(w, string(r))
		}
	}
	io.WriteString(w, "\"")
}

// writePair renders "'x" sugar for (quote x), dotted-tail form for
// improper lists, and the plain (a b c) form otherwise.
func writePair(w io.Writer, v *Value) {
	if v.First.IsSymbolNamed("quote") && v.Rest.Kind == KindPair && v.Rest.Rest == Nil() {
		io.WriteString(w, "'")
		Write(w, v.Rest.First)
		return
	}
	io.WriteString(w, "(")
	node := v
	first := true
	for {
		if !first {
			io.WriteString(w, " ")
		}
		first = false
		Write(w, node.First)
		switch {
		case node.Rest == Nil():
			io.WriteString(w, ")")
			return
		case node.Rest.Kind == KindPair:
			node = node.Rest
		default:
			io.WriteString(w, " . ")
			Write(w, node.Rest)
			io.WriteString(w, ")")
			return
		}
	}
}
