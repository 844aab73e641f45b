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

// Collector is a stop-the-world mark-and-sweep allocator. It is the sole
// authority for the lifetime of heap-allocated Values and Envs; everything
// it hands out via allocValue/allocEnv is linked into one of two intrusive
// free-lists (valuesHead, envsHead) and stays alive only as long as collect
// can reach it from Root.
//
// Global mutable state by design, per spec.md §9: one process, one
// interpreter, one collector — see the Globalenv global in the teacher's
// scm package for the same shape.
type Collector struct {
	valuesHead *Value
	envsHead   *Env
	Root       *Env

	allocs    uint64
	collected uint64
}

var heap = &Collector{}

// allocValue returns a fresh, zero-initialized Value of the given Kind,
// linked into the Collector's value list.
func (c *Collector) allocValue(kind Kind) *Value {
	v := &Value{Kind: kind, gcNext: c.valuesHead}
	c.valuesHead = v
	c.allocs++
	return v
}

// allocEnv returns a fresh Frame chained to parent, linked into the
// Collector's environment list. See env.go for Env/Frame itself.
func (c *Collector) allocEnv(parent *Env) *Env {
	e := &Env{parent: parent, gcNext: c.envsHead}
	c.envsHead = e
	c.allocs++
	return e
}

// Collect runs one mark-and-sweep cycle: mark everything reachable from
// Root, then free everything still unmarked. The evaluator calls this
// exactly once after each top-level form finishes (successfully or via
// error) — see eval.go and repl.go. No other call site triggers a
// collection; allocation during the evaluation of a single form never
// collects, which is the only rooting discipline this design needs.
func (c *Collector) Collect() {
	if c.Root != nil {
		c.markEnv(c.Root)
	}
	c.sweepValues()
	c.sweepEnvs()
	// Root is not on envsHead, so sweepEnvs never clears its mark; clear it
	// here so the next cycle walks its bindings again.
	if c.Root != nil {
		c.Root.marked = false
	}
}

func (c *Collector) markValue(v *Value) {
	if v == nil || IsSingleton(v) || v.marked {
		return
	}
	v.marked = true
	switch v.Kind {
	case KindPair:
		c.markValue(v.First)
		c.markValue(v.Rest)
	case KindVector:
		for _, el := range v.Elems {
			c.markValue(el)
		}
	case KindClosure:
		c.markValue(v.Clo.Params)
		c.markValue(v.Clo.Body)
		c.markEnv(v.Clo.Env)
	}
}

func (c *Collector) markEnv(e *Env) {
	if e == nil || e.marked {
		return
	}
	e.marked = true
	for _, b := range e.bindings {
		c.markValue(b.value)
	}
	if e.parent != nil {
		c.markEnv(e.parent)
	}
}

func (c *Collector) sweepValues() {
	var kept *Value
	for v := c.valuesHead; v != nil; {
		next := v.gcNext
		if v.marked {
			v.marked = false
			v.gcNext = kept
			kept = v
		} else {
			c.collected++
		}
		v = next
	}
	c.valuesHead = kept
}

func (c *Collector) sweepEnvs() {
	var kept *Env
	for e := c.envsHead; e != nil; {
		next := e.gcNext
		if e.marked {
			e.marked = false
			e.gcNext = kept
			kept = e
		} else {
			c.collected++
		}
		e = next
	}
	c.envsHead = kept
}

// Stats reports the lifetime allocation count and the count of objects
// reclaimed by collections so far; eval_test.go uses the reclaimed count to
// observe that every top-level form is followed by a collection.
func (c *Collector) Stats() (allocs, collected uint64) {
	return c.allocs, c.collected
}

// Live returns the number of values and environments currently reachable
// from the free-lists (i.e. not yet swept) — not the same as "reachable
// from Root", but enough for a test to observe that a Collect reclaimed
// what it should have.
func (c *Collector) Live() (values, envs int) {
	for v := c.valuesHead; v != nil; v = v.gcNext {
		values++
	}
	for e := c.envsHead; e != nil; e = e.gcNext {
		envs++
	}
	return
}
