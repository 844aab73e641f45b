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
	"strings"
	"testing"
)

func readExpand(t *testing.T, src string) *Value {
	t.Helper()
	rd := NewReader(strings.NewReader(src))
	v, ok := rd.Read()
	if !ok {
		t.Fatalf("readExpand(%q): unexpected EOF", src)
	}
	return Expand(v)
}

func TestExpandDefineValueForm(t *testing.T) {
	got := readExpand(t, "(define x (+ 1 2))")
	want := List(NewSymbol("define"), NewSymbol("x"), List(NewSymbol("+"), NewInt(1), NewInt(2)))
	if diff := valueDiff(got, want); diff != "" {
		t.Errorf("(define x ...) expansion mismatch: %s", diff)
	}
}

func TestExpandDefineProcedureSugar(t *testing.T) {
	got := readExpand(t, "(define (f x y) (+ x y))")
	want := List(NewSymbol("define"), NewSymbol("f"),
		List(NewSymbol("lambda"), List(NewSymbol("x"), NewSymbol("y")),
			List(NewSymbol("+"), NewSymbol("x"), NewSymbol("y"))))
	if diff := valueDiff(got, want); diff != "" {
		t.Errorf("(define (f x y) ...) did not lower to a lambda define: %s", diff)
	}
}

func TestExpandIfAddsImplicitElse(t *testing.T) {
	got := readExpand(t, "(if #t 1)")
	want := List(NewSymbol("if"), Bool(true), NewInt(1), Undefined())
	if diff := valueDiff(got, want); diff != "" {
		t.Errorf("2-armed if should gain an Undefined else branch: %s", diff)
	}
}

func TestExpandLambdaWrapsMultiBodyInBegin(t *testing.T) {
	got := readExpand(t, "(lambda (x) (set! x 1) x)")
	want := List(NewSymbol("lambda"), List(NewSymbol("x")),
		List(NewSymbol("begin"),
			List(NewSymbol("set!"), NewSymbol("x"), NewInt(1)),
			NewSymbol("x")))
	if diff := valueDiff(got, want); diff != "" {
		t.Errorf("multi-body lambda did not wrap in begin: %s", diff)
	}
}

func TestExpandLambdaRejectsNonSymbolParam(t *testing.T) {
	mustPanicKind(t, SyntaxError, func() { readExpand(t, "(lambda (1) 1)") })
}

func TestExpandCondLowersToNestedIf(t *testing.T) {
	got := readExpand(t, "(cond ((= 1 2) 'a) (else 'b))")
	want := List(NewSymbol("if"), List(NewSymbol("="), NewInt(1), NewInt(2)),
		List(NewSymbol("quote"), NewSymbol("a")),
		List(NewSymbol("if"), Bool(true), List(NewSymbol("quote"), NewSymbol("b")), Undefined()))
	if diff := valueDiff(got, want); diff != "" {
		t.Errorf("cond did not lower as expected: %s", diff)
	}
}

func TestExpandAndShortCircuitsToIfChain(t *testing.T) {
	got := readExpand(t, "(and 1 2)")
	want := List(NewSymbol("if"), NewInt(1), NewInt(2), Bool(false))
	if diff := valueDiff(got, want); diff != "" {
		t.Errorf("and did not lower to an if chain: %s", diff)
	}
}

func TestExpandAndEmptyIsTrue(t *testing.T) {
	got := readExpand(t, "(and)")
	if got != Bool(true) {
		t.Fatalf("(and) should expand to the #t singleton, got %s", Stringify(got))
	}
}

// TestExpandOrFullyLowersToKernelLanguage checks the gensym'd lambda-binding
// lowering: the expander never leaves a bare `or` form behind, unlike the
// original draft it's grounded on.
func TestExpandOrFullyLowersToKernelLanguage(t *testing.T) {
	got := readExpand(t, "(or a b)")
	if got.Kind != KindPair || got.First.Kind != KindPair || !got.First.First.IsSymbolNamed("lambda") {
		t.Fatalf("(or a b) should lower to an applied lambda, got %s", Stringify(got))
	}
	if got.Rest.First.Sym != "a" {
		t.Fatalf("lambda application argument should be the first test, got %s", Stringify(got))
	}
	// the lambda body must be an if on the gensym'd parameter, never a bare "or"
	lambdaForm := got.First
	param := lambdaForm.Rest.First.First // (params...) -> first param symbol
	body := lambdaForm.Rest.Rest.First
	if body.Kind != KindPair || !body.First.IsSymbolNamed("if") {
		t.Fatalf("lambda body should be an if expression, got %s", Stringify(body))
	}
	if body.Rest.First.Sym != param.Sym {
		t.Fatalf("if test should reference the bound gensym, got %s vs %s", body.Rest.First.Sym, param.Sym)
	}
}

func TestExpandOrEmptyIsFalse(t *testing.T) {
	got := readExpand(t, "(or)")
	if got != Bool(false) {
		t.Fatalf("(or) should expand to the #f singleton, got %s", Stringify(got))
	}
}

func TestExpandOrSingleArgIsItself(t *testing.T) {
	got := readExpand(t, "(or a)")
	if !got.IsSymbolNamed("a") {
		t.Fatalf("(or a) should expand to just a, got %s", Stringify(got))
	}
}

// TestExpandQuasiquoteLiteralStaysQuoted exercises the pointer-identity
// optimization: a template with no unquote anywhere should come back out as
// a plain (quote ...) form, never rebuilt through runtime cons/list calls.
func TestExpandQuasiquoteLiteralStaysQuoted(t *testing.T) {
	got := readExpand(t, "`(1 2 3)")
	want := List(NewSymbol("quote"), List(NewInt(1), NewInt(2), NewInt(3)))
	if diff := valueDiff(got, want); diff != "" {
		t.Errorf("fully literal quasiquote should reduce to a quote form: %s", diff)
	}
}

// TestExpandQuasiquoteNonPairTemplateStaysQuoted covers the depth-0
// non-pair template case directly: quasiquoting a bare symbol must not
// hand the evaluator an unwrapped symbol, or Eval would look it up as a
// variable reference instead of treating it as the literal it is.
func TestExpandQuasiquoteNonPairTemplateStaysQuoted(t *testing.T) {
	got := readExpand(t, "`foo")
	want := List(NewSymbol("quote"), NewSymbol("foo"))
	if diff := valueDiff(got, want); diff != "" {
		t.Errorf("quasiquoted bare symbol should reduce to a quote form: %s", diff)
	}
}

func TestExpandQuasiquoteUnquoteSplicesAppend(t *testing.T) {
	got := readExpand(t, "`(1 ,(+ 1 1) ,@(list 3 4) 5)")
	if got.Kind != KindPair || !got.First.IsSymbolNamed("cons") {
		t.Fatalf("quasiquote with unquote should lower to cons/append forms, got %s", Stringify(got))
	}
}

func TestExpandBeginRequiresAtLeastOneForm(t *testing.T) {
	mustPanicKind(t, SyntaxError, func() { readExpand(t, "(begin)") })
}

func TestExpandSetRequiresSymbolTarget(t *testing.T) {
	mustPanicKind(t, SyntaxError, func() { readExpand(t, "(set! 1 2)") })
}
