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

// Eval walks the kernel language Expand produces. if/begin/application in
// tail position reassign expr/env and loop instead of recursing, so a
// properly tail-recursive Scheme procedure runs in constant Go stack depth
// — the same goto-restart shape the teacher's scm.go uses for its Eval.
func Eval(expr *Value, env *Env) *Value {
	for {
		switch expr.Kind {
		case KindSymbol:
			return env.Lookup(expr.Sym)
		case KindPair:
			if expr.First.Kind == KindSymbol {
				switch expr.First.Sym {
				case "quote":
					return cadr(expr)
				case "set!":
					env.Set(cadr(expr).Sym, Eval(caddr(expr), env))
					return Undefined()
				case "define":
					name := cadr(expr).Sym
					val := Eval(caddr(expr), env)
					if val.Kind == KindClosure && val.Clo.Name == "" {
						val.Clo.Name = name
					}
					env.Define(name, val)
					return Undefined()
				case "if":
					if IsTruthy(Eval(cadr(expr), env)) {
						expr = caddr(expr)
					} else {
						expr = cadddr(expr)
					}
					continue
				case "lambda":
					return NewClosure(cadr(expr), caddr(expr), env)
				case "begin":
					body := cdr(expr)
					if body.Kind != KindPair {
						return Undefined()
					}
					for body.Rest.Kind == KindPair {
						Eval(body.First, env)
						body = body.Rest
					}
					expr = body.First
					continue
				}
			}
			fn := Eval(expr.First, env)
			args := evalArgs(expr.Rest, env)
			switch fn.Kind {
			case KindFunction:
				return fn.Fn.Call(args)
			case KindClosure:
				env = bindParams(fn.Clo, args)
				expr = fn.Clo.Body
				continue
			default:
				Raise(TypeError, "not a procedure", fn)
			}
		default:
			return expr
		}
	}
}

func cadddr(v *Value) *Value { return v.Rest.Rest.Rest.First }

// evalArgs evaluates a proper application argument list left to right.
func evalArgs(list *Value, env *Env) []*Value {
	if !IsProperList(list) {
		Raise(SyntaxError, "improper argument list", list)
	}
	args := make([]*Value, 0, ProperListLength(list))
	for list.Kind == KindPair {
		args = append(args, Eval(list.First, env))
		list = list.Rest
	}
	return args
}

func procName(clo *Closure) string {
	if clo.Name != "" {
		return clo.Name
	}
	return "#<procedure>"
}

// bindParams builds the frame a closure call runs in, handling proper,
// dotted, and bare-symbol parameter lists uniformly: walk the fixed prefix,
// then let whatever's left of params (Nil, or a symbol) decide whether
// extra arguments are an arity error or a rest-list binding.
func bindParams(clo *Closure, args []*Value) *Env {
	newEnv := NewEnv(clo.Env)
	params := clo.Params
	i := 0
	for params.Kind == KindPair {
		if i >= len(args) {
			Raise(ArityError, fmt.Sprintf("too few arguments to %s", procName(clo)), nil)
		}
		newEnv.Define(params.First.Sym, args[i])
		i++
		params = params.Rest
	}
	switch params.Kind {
	case KindNil:
		if i != len(args) {
			Raise(ArityError, fmt.Sprintf("too many arguments to %s", procName(clo)), nil)
		}
	case KindSymbol:
		newEnv.Define(params.Sym, List(args[i:]...))
	}
	return newEnv
}

// Apply invokes fn with already-evaluated args outside of tail position —
// the `apply` primitive's only reason to exist, since Eval's own
// application branch handles the tail-call case by looping instead.
func Apply(fn *Value, args []*Value) *Value {
	switch fn.Kind {
	case KindFunction:
		return fn.Fn.Call(args)
	case KindClosure:
		return Eval(fn.Clo.Body, bindParams(fn.Clo, args))
	default:
		Raise(TypeError, "not a procedure", fn)
		panic("unreachable")
	}
}

// EvalTopLevel expands and evaluates one top-level form, running exactly
// one collection afterward regardless of whether it succeeded — the only
// place Collect is called from, per gc.go's rooting discipline.
func EvalTopLevel(expr *Value, env *Env) *Value {
	defer heap.Collect()
	return Eval(Expand(expr), env)
}
