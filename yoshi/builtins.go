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

import "fmt"

// InstallBuiltins declares every primitive procedure into env. Called once
// against the top-level environment before the startup library loads.
func InstallBuiltins(env *Env) {
	declareTypePredicates(env)
	declareArithmetic(env)
	declarePairs(env)
	declareVectors(env)
	declareMeta(env)
}

func wantKind(args []*Value, i int, kind Kind, fn, what string) *Value {
	if args[i].Kind != kind {
		Raise(TypeError, fn+" requires "+what, args[i])
	}
	return args[i]
}

func declareTypePredicates(env *Env) {
	pred := func(name, desc string, kind Kind) {
		Declare(env, &Declaration{
			Name: name, Desc: desc, MinParameter: 1, MaxParameter: 1,
			Params:     []DeclarationParameter{{"obj", "any", "value to test"}},
			ReturnType: "bool",
			Fn: func(args []*Value) *Value {
				return Bool(args[0].Kind == kind)
			},
		})
	}
	pred("number?", "tests whether obj is an integer", KindInt)
	pred("pair?", "tests whether obj is a pair", KindPair)
	pred("vector?", "tests whether obj is a vector", KindVector)
	pred("symbol?", "tests whether obj is a symbol", KindSymbol)
	pred("string?", "tests whether obj is a string", KindString)

	Declare(env, &Declaration{
		Name: "procedure?", Desc: "tests whether obj is callable, primitive or closure",
		MinParameter: 1, MaxParameter: 1,
		Params:     []DeclarationParameter{{"obj", "any", "value to test"}},
		ReturnType: "bool",
		Fn: func(args []*Value) *Value {
			k := args[0].Kind
			return Bool(k == KindFunction || k == KindClosure)
		},
	})
}

func declareArithmetic(env *Env) {
	Declare(env, &Declaration{
		Name: "+", Desc: "sums its arguments", MinParameter: 1, MaxParameter: -1,
		Params:     []DeclarationParameter{{"n...", "number", "addends"}},
		ReturnType: "number",
		Fn: func(args []*Value) *Value {
			var acc int64
			for i := range args {
				acc += wantKind(args, i, KindInt, "+", "numeric arguments").Int
			}
			return NewInt(acc)
		},
	})
	Declare(env, &Declaration{
		Name: "-", Desc: "subtracts its trailing arguments from the first, or negates a single argument",
		MinParameter: 1, MaxParameter: -1,
		Params:     []DeclarationParameter{{"n...", "number", "minuend and subtrahends"}},
		ReturnType: "number",
		Fn: func(args []*Value) *Value {
			acc := wantKind(args, 0, KindInt, "-", "numeric arguments").Int
			if len(args) == 1 {
				return NewInt(-acc)
			}
			for i := 1; i < len(args); i++ {
				acc -= wantKind(args, i, KindInt, "-", "numeric arguments").Int
			}
			return NewInt(acc)
		},
	})
	Declare(env, &Declaration{
		Name: "*", Desc: "multiplies its arguments", MinParameter: 1, MaxParameter: -1,
		Params:     []DeclarationParameter{{"n...", "number", "factors"}},
		ReturnType: "number",
		Fn: func(args []*Value) *Value {
			acc := int64(1)
			for i := range args {
				acc *= wantKind(args, i, KindInt, "*", "numeric arguments").Int
			}
			return NewInt(acc)
		},
	})
	Declare(env, &Declaration{
		Name: "div", Desc: "integer division of a by b", MinParameter: 2, MaxParameter: 2,
		Params: []DeclarationParameter{
			{"a", "number", "dividend"},
			{"b", "number", "divisor"},
		},
		ReturnType: "number",
		Fn: func(args []*Value) *Value {
			a := wantKind(args, 0, KindInt, "div", "numeric arguments")
			b := wantKind(args, 1, KindInt, "div", "numeric arguments")
			if b.Int == 0 {
				Raise(TypeError, "division by zero", b)
			}
			return NewInt(a.Int / b.Int)
		},
	})
	Declare(env, &Declaration{
		Name: "mod", Desc: "remainder of a divided by b", MinParameter: 2, MaxParameter: 2,
		Params: []DeclarationParameter{
			{"a", "number", "dividend"},
			{"b", "number", "divisor"},
		},
		ReturnType: "number",
		Fn: func(args []*Value) *Value {
			a := wantKind(args, 0, KindInt, "mod", "numeric arguments")
			b := wantKind(args, 1, KindInt, "mod", "numeric arguments")
			if b.Int == 0 {
				Raise(TypeError, "division by zero", b)
			}
			return NewInt(a.Int % b.Int)
		},
	})
	Declare(env, &Declaration{
		Name: ">", Desc: "tests whether a is greater than b", MinParameter: 2, MaxParameter: 2,
		Params: []DeclarationParameter{
			{"a", "number", "left operand"},
			{"b", "number", "right operand"},
		},
		ReturnType: "bool",
		Fn: func(args []*Value) *Value {
			a := wantKind(args, 0, KindInt, ">", "numeric arguments")
			b := wantKind(args, 1, KindInt, ">", "numeric arguments")
			return Bool(a.Int > b.Int)
		},
	})
	Declare(env, &Declaration{
		Name: "=", Desc: "tests whether all arguments are numerically equal", MinParameter: 2, MaxParameter: -1,
		Params:     []DeclarationParameter{{"n...", "number", "operands"}},
		ReturnType: "bool",
		Fn: func(args []*Value) *Value {
			first := wantKind(args, 0, KindInt, "=", "numeric arguments")
			for i := 1; i < len(args); i++ {
				if wantKind(args, i, KindInt, "=", "numeric arguments").Int != first.Int {
					return Bool(false)
				}
			}
			return Bool(true)
		},
	})
	Declare(env, &Declaration{
		Name: "eq?", Desc: "tests whether consecutive arguments denote the same object (numbers and symbols by value, everything else by identity)",
		MinParameter: 0, MaxParameter: -1,
		Params:     []DeclarationParameter{{"obj...", "any", "values to compare pairwise"}},
		ReturnType: "bool",
		Fn: func(args []*Value) *Value {
			for i := 0; i+1 < len(args); i++ {
				if !eqValue(args[i], args[i+1]) {
					return Bool(false)
				}
			}
			return Bool(true)
		},
	})
}

func eqValue(a, b *Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt:
		return a.Int == b.Int
	case KindSymbol:
		return a.Sym == b.Sym
	default:
		return a == b
	}
}

func declarePairs(env *Env) {
	Declare(env, &Declaration{
		Name: "cons", Desc: "constructs a pair from a head and a tail", MinParameter: 2, MaxParameter: 2,
		Params: []DeclarationParameter{
			{"car", "any", "head"},
			{"cdr", "any", "tail"},
		},
		ReturnType: "pair",
		Fn: func(args []*Value) *Value {
			return NewPair(args[0], args[1])
		},
	})
	Declare(env, &Declaration{
		Name: "car", Desc: "extracts the head of a pair", MinParameter: 1, MaxParameter: 1,
		Params:     []DeclarationParameter{{"pair", "pair", "pair"}},
		ReturnType: "any",
		Fn: func(args []*Value) *Value {
			return wantKind(args, 0, KindPair, "car", "a pair argument").First
		},
	})
	Declare(env, &Declaration{
		Name: "cdr", Desc: "extracts the tail of a pair", MinParameter: 1, MaxParameter: 1,
		Params:     []DeclarationParameter{{"pair", "pair", "pair"}},
		ReturnType: "any",
		Fn: func(args []*Value) *Value {
			return wantKind(args, 0, KindPair, "cdr", "a pair argument").Rest
		},
	})
}

func declareVectors(env *Env) {
	Declare(env, &Declaration{
		Name: "make-vector", Desc: "allocates a vector of n elements, optionally filled with fill",
		MinParameter: 1, MaxParameter: 2,
		Params: []DeclarationParameter{
			{"n", "number", "length"},
			{"fill", "any", "fill value, defaults to unspecified"},
		},
		ReturnType: "vector",
		Fn: func(args []*Value) *Value {
			n := wantKind(args, 0, KindInt, "make-vector", "a numeric length")
			if n.Int < 0 {
				Raise(TypeError, "make-vector requires a non-negative length", n)
			}
			fill := Undefined()
			if len(args) == 2 {
				fill = args[1]
			}
			elems := make([]*Value, n.Int)
			for i := range elems {
				elems[i] = fill
			}
			return NewVector(elems)
		},
	})
	Declare(env, &Declaration{
		Name: "vector-length", Desc: "returns the number of elements in a vector", MinParameter: 1, MaxParameter: 1,
		Params:     []DeclarationParameter{{"vector", "vector", "vector"}},
		ReturnType: "number",
		Fn: func(args []*Value) *Value {
			v := wantKind(args, 0, KindVector, "vector-length", "a vector argument")
			return NewInt(int64(len(v.Elems)))
		},
	})
	Declare(env, &Declaration{
		Name: "vector-ref", Desc: "returns the element of vector at index", MinParameter: 2, MaxParameter: 2,
		Params: []DeclarationParameter{
			{"vector", "vector", "vector"},
			{"index", "number", "zero-based index"},
		},
		ReturnType: "any",
		Fn: func(args []*Value) *Value {
			v := wantKind(args, 0, KindVector, "vector-ref", "a vector argument")
			idx := wantKind(args, 1, KindInt, "vector-ref", "a numeric index")
			if idx.Int < 0 || int(idx.Int) >= len(v.Elems) {
				Raise(TypeError, "vector-ref index out of range", idx)
			}
			return v.Elems[idx.Int]
		},
	})
	Declare(env, &Declaration{
		Name: "vector-set!", Desc: "mutates the element of vector at index", MinParameter: 3, MaxParameter: 3,
		Params: []DeclarationParameter{
			{"vector", "vector", "vector"},
			{"index", "number", "zero-based index"},
			{"value", "any", "new element value"},
		},
		ReturnType: "undefined",
		Fn: func(args []*Value) *Value {
			v := wantKind(args, 0, KindVector, "vector-set!", "a vector argument")
			idx := wantKind(args, 1, KindInt, "vector-set!", "a numeric index")
			if idx.Int < 0 || int(idx.Int) >= len(v.Elems) {
				Raise(TypeError, "vector-set! index out of range", idx)
			}
			v.Elems[idx.Int] = args[2]
			return Undefined()
		},
	})
}

func declareMeta(env *Env) {
	Declare(env, &Declaration{
		Name: "eval", Desc: "expands and evaluates expr in the top-level environment", MinParameter: 1, MaxParameter: 1,
		Params:     []DeclarationParameter{{"expr", "any", "expression to evaluate"}},
		ReturnType: "any",
		Fn: func(args []*Value) *Value {
			return Eval(Expand(args[0]), heap.Root)
		},
	})
	Declare(env, &Declaration{
		Name: "expand", Desc: "expands expr to the kernel language without evaluating it", MinParameter: 1, MaxParameter: 1,
		Params:     []DeclarationParameter{{"expr", "any", "expression to expand"}},
		ReturnType: "any",
		Fn: func(args []*Value) *Value {
			return Expand(args[0])
		},
	})
	Declare(env, &Declaration{
		Name: "apply", Desc: "calls proc with the elements of args as its argument list", MinParameter: 2, MaxParameter: 2,
		Params: []DeclarationParameter{
			{"proc", "func", "procedure to call"},
			{"args", "list", "argument list"},
		},
		ReturnType: "any",
		Fn: func(args []*Value) *Value {
			return Apply(args[0], Slice(args[1]))
		},
	})
	Declare(env, &Declaration{
		Name: "void", Desc: "returns the unspecified value", MinParameter: 0, MaxParameter: 0,
		Params:     nil,
		ReturnType: "undefined",
		Fn: func(args []*Value) *Value {
			return Undefined()
		},
	})
	Declare(env, &Declaration{
		Name: "about", Desc: "returns a greeting identifying this interpreter", MinParameter: 0, MaxParameter: 0,
		Params:     nil,
		ReturnType: "string",
		Fn: func(args []*Value) *Value {
			return NewString("yoshi — a small Scheme interpreter")
		},
	})
	Declare(env, &Declaration{
		Name: "help", Desc: "prints every declared procedure, or describes one by name", MinParameter: 0, MaxParameter: 1,
		Params:     []DeclarationParameter{{"name", "string", "procedure name, omit to list everything"}},
		ReturnType: "undefined",
		Fn: func(args []*Value) *Value {
			name := ""
			if len(args) == 1 {
				name = wantKind(args, 0, KindString, "help", "a string argument").Str
			}
			fmt.Print(Help(name))
			return Undefined()
		},
	})
}
