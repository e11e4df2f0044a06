// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arc-lang/rcgen/ir"
	"github.com/arc-lang/rcgen/layout"
	"github.com/arc-lang/rcgen/rc"
)

func TestFlatUnionSwitchesOverEveryArm(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	str := n.Intern(layout.Str())
	flat := n.Intern(layout.UnionOf(layout.Union{
		Shape: layout.NonRecursive,
		Arms: [][]layout.ID{
			{i64},      // Ok(Int64)
			{str, i64}, // Err(Str, Int64)
		},
	}))
	d := rc.New(&n)

	p := d.Dispatch(rc.OpDec, flat)

	s := p.Body
	for s.Kind == ir.StmtLet {
		s = s.Next
	}
	assert.Equal(t, ir.StmtSwitch, s.Kind)
	assert.Equal(t, 2, s.Arms.Len())
	assert.Equal(t, int64(0), s.Arms.Get(0).Tag)
	assert.Equal(t, int64(1), s.Arms.Get(1).Tag)
}

func TestFlatUnionNeverTouchesHeader(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	str := n.Intern(layout.Str())
	flat := n.Intern(layout.UnionOf(layout.Union{
		Shape: layout.NonRecursive,
		Arms:  [][]layout.ID{{}, {str}},
	}))
	d := rc.New(&n)

	p := d.Dispatch(rc.OpDec, flat)
	// A NonRecursive union owns no header of its own: the only join point
	// that could appear at all belongs to Str's own body, never a union
	// teardown join.
	assert.False(t, containsJoinNamed(t, p.Body, "union_done"))
}

func TestRecursiveUnionGuardsOnUniqueness(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	id := tree(t, &n)
	d := rc.New(&n)

	p := d.Dispatch(rc.OpDec, id)
	assert.True(t, containsJoinNamed(t, p.Body, "union_done"))

	s := p.Body
	assert.Equal(t, ir.StmtJoin, s.Kind)
	// Inside the join's Rest: is_unique bind then an If.
	inner := s.Rest
	for inner.Kind == ir.StmtLet {
		inner = inner.Next
	}
	assert.Equal(t, ir.StmtIf, inner.Kind)
}

func TestRecursiveUnionIncNeverGuardsOnUniqueness(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	id := tree(t, &n)
	d := rc.New(&n)

	// inc never needs to know whether the value is unique: every inc just
	// bumps the header (spec.md §4.6).
	p := d.Dispatch(rc.OpInc, id)
	assert.False(t, containsJoinNamed(t, p.Body, "union_done"))
	assert.Equal(t, ir.StmtLet, p.Body.Kind)
}

func TestTailRecursiveConsListUsesLoopJoinPoint(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	id := consList(t, &n)
	d := rc.New(&n)

	p := d.Dispatch(rc.OpDec, id)
	assert.True(t, containsJoinNamed(t, p.Body, "tailrec_loop"))
	assert.False(t, containsJoinNamed(t, p.Body, "union_done"),
		"the tail-recursive form replaces the single-shot join, it doesn't also emit one")
}

func TestNonTailRecursiveTreeNeverLoops(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	id := tree(t, &n)
	d := rc.New(&n)

	p := d.Dispatch(rc.OpDec, id)
	assert.False(t, containsJoinNamed(t, p.Body, "tailrec_loop"))
}

func TestNullableUnwrappedWithTailFieldTakesPlainJoinForm(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	id := n.Reserve()
	rec := n.Intern(layout.RecursivePointerTo(id))
	n.Define(id, layout.UnionOf(layout.Union{
		Shape:        layout.NullableUnwrapped,
		NullableTag:  0,
		OtherFields:  []layout.ID{i64, rec},
		TailRecField: []int{1},
	}))
	d := rc.New(&n)

	// Single "other" arm: HasTailRecursiveField only recognizes Recursive
	// shape (spec.md §4.6 names the tail-recursive loop for that shape), so
	// this takes the plain unique/shared join form, not the loop form.
	p := d.Dispatch(rc.OpDec, id)
	assert.True(t, containsJoinNamed(t, p.Body, "union_done"))
}
