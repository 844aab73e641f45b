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
	"os"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// setupEnv builds a fresh top-level environment the way main.go does:
// primitives installed, then the startup library loaded, so every scenario
// runs as a fresh session loaded only with the startup library (§8).
func setupEnv(t *testing.T) *Env {
	t.Helper()
	env := NewTopLevelEnv()
	InstallBuiltins(env)
	f, err := os.Open("../lib/yoshi/stdlib.scm")
	if err != nil {
		t.Fatalf("opening startup library: %v", err)
	}
	defer f.Close()
	rd := NewReader(f)
	for {
		form, ok := rd.Read()
		if !ok {
			break
		}
		EvalTopLevel(form, env)
	}
	return env
}

// evalProgram evaluates every top-level form in src in order and returns the
// result of the last one.
func evalProgram(t *testing.T, env *Env, src string) *Value {
	t.Helper()
	rd := NewReader(strings.NewReader(src))
	result := Undefined()
	for {
		form, ok := rd.Read()
		if !ok {
			return result
		}
		result = EvalTopLevel(form, env)
	}
}

// TestScenarios runs every exact input/output pair from §8 out of one txtar
// archive: each NN-name.scm is a fresh session's source, NN-name.out is the
// expected printed value of its last top-level form.
func TestScenarios(t *testing.T) {
	data, err := os.ReadFile("testdata/scenarios.txtar")
	if err != nil {
		t.Fatalf("reading scenario fixture: %v", err)
	}
	archive := txtar.Parse(data)

	sources := map[string]string{}
	expected := map[string]string{}
	for _, f := range archive.Files {
		switch {
		case strings.HasSuffix(f.Name, ".scm"):
			sources[strings.TrimSuffix(f.Name, ".scm")] = string(f.Data)
		case strings.HasSuffix(f.Name, ".out"):
			expected[strings.TrimSuffix(f.Name, ".out")] = strings.TrimSpace(string(f.Data))
		}
	}
	if len(sources) == 0 {
		t.Fatal("no scenarios found in txtar fixture")
	}

	for name, src := range sources {
		name, src := name, src
		t.Run(name, func(t *testing.T) {
			want, ok := expected[name]
			if !ok {
				t.Fatalf("scenario %s has no matching .out file", name)
			}
			env := setupEnv(t)
			got := Stringify(evalProgram(t, env, src))
			if got != want {
				t.Errorf("scenario %s: got %q, want %q", name, got, want)
			}
		})
	}
}

// TestTailCallBoundedness is §8's tail-call property: a self-recursive tail
// call run a million times must not grow the Go stack, since Eval loops
// instead of recursing for tail position.
func TestTailCallBoundedness(t *testing.T) {
	env := setupEnv(t)
	evalProgram(t, env, "(define (loop n) (if (= n 0) 'done (loop (- n 1))))")
	result := evalProgram(t, env, "(loop 1000000)")
	if !result.IsSymbolNamed("done") {
		t.Fatalf("tail-recursive loop should return 'done, got %s", Stringify(result))
	}
}

// TestLexicalScope is §8's lexical-scope property.
func TestLexicalScope(t *testing.T) {
	env := setupEnv(t)
	evalProgram(t, env, "(define x 1)")
	inner := evalProgram(t, env, "((lambda (x) x) 2)")
	if inner.Int != 2 {
		t.Fatalf("inner lambda parameter should shadow to 2, got %s", Stringify(inner))
	}
	outer := evalProgram(t, env, "x")
	if outer.Int != 1 {
		t.Fatalf("top-level x must be untouched by the lambda's own binding, got %s", Stringify(outer))
	}
}

// TestQuoteIdentity is §8's quote-identity property: 'v evaluates to a
// value structurally equal to v.
func TestQuoteIdentity(t *testing.T) {
	env := setupEnv(t)
	got := evalProgram(t, env, "'(a b (c . d) 1 2 3)")
	want := readOneString(t, "(a b (c . d) 1 2 3)")
	if diff := valueDiff(got, want); diff != "" {
		t.Errorf("quote identity failed: %s", diff)
	}
}

// TestReadStringifyRoundTripThroughEval exercises the same universal
// property as reader_test.go's TestReadStringifyRoundTrip, but through a
// live evaluator with the startup library loaded, for values that only
// exist at runtime (vectors built by make-vector, lists built by cons).
func TestReadStringifyRoundTripThroughEval(t *testing.T) {
	env := setupEnv(t)
	cases := []string{
		"(cons 1 2)",
		"(list 1 2 3)",
		"(make-vector 3 0)",
		"(cons 'a (cons 'b '()))",
	}
	for _, src := range cases {
		result := evalProgram(t, env, src)
		roundTripped := readOneString(t, Stringify(result))
		if diff := valueDiff(result, roundTripped); diff != "" {
			t.Errorf("round trip mismatch for %q (stringified as %q): %s", src, Stringify(result), diff)
		}
	}
}

// TestProperListOperationsRejectImproperLists is §8's proper-list-length
// property observed through a startup-library procedure rather than
// ProperListLength directly (see value_test.go for the direct case).
func TestProperListOperationsRejectImproperLists(t *testing.T) {
	env := setupEnv(t)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic evaluating (length (cons 1 2))")
		}
		err, ok := r.(*Error)
		if !ok {
			t.Fatalf("panic was not *Error: %v", r)
		}
		if err.Kind != TypeError {
			t.Fatalf("got kind %s, want TypeError", err.Kind)
		}
	}()
	evalProgram(t, env, "(length (cons 1 2))")
}

func TestEvalUnboundVariableRaises(t *testing.T) {
	env := setupEnv(t)
	mustPanicKind(t, UnboundVariable, func() { evalProgram(t, env, "nope") })
}

func TestEvalApplyingNonProcedureRaises(t *testing.T) {
	env := setupEnv(t)
	mustPanicKind(t, TypeError, func() { evalProgram(t, env, "(1 2 3)") })
}

func TestEvalArityErrorOnClosureCall(t *testing.T) {
	env := setupEnv(t)
	evalProgram(t, env, "(define (f x y) (+ x y))")
	mustPanicKind(t, ArityError, func() { evalProgram(t, env, "(f 1)") })
}

func TestEvalTopLevelAlwaysCollects(t *testing.T) {
	env := setupEnv(t)
	_, before := heap.Stats()
	evalProgram(t, env, "(+ 1 2)")
	_, after := heap.Stats()
	if after <= before {
		t.Fatalf("EvalTopLevel should run at least one collection per top-level form: before=%d after=%d", before, after)
	}
}
