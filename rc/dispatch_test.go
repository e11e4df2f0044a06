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

func TestDispatchMemoizesIdenticalRequest(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	d := rc.New(&n)

	p1 := d.Dispatch(rc.OpDec, i64)
	p2 := d.Dispatch(rc.OpDec, i64)
	assert.Same(t, p1, p2)
}

func TestDispatchDistinguishesOpAndLayout(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	i32 := n.Intern(layout.ScalarOf(layout.Int32))
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	d := rc.New(&n)

	incI32 := d.Dispatch(rc.OpInc, i32)
	decI32 := d.Dispatch(rc.OpDec, i32)
	decI64 := d.Dispatch(rc.OpDec, i64)

	assert.NotEqual(t, incI32.Name, decI32.Name)
	assert.NotEqual(t, decI32.Name, decI64.Name)
}

func TestDispatchScalarReturnsUnitImmediately(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	d := rc.New(&n)

	p := d.Dispatch(rc.OpDec, i64)
	assert.Equal(t, ir.StmtRet, p.Body.Kind)
}

func TestDispatchIncAddsAmountParam(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	d := rc.New(&n)

	inc := d.Dispatch(rc.OpInc, i64)
	dec := d.Dispatch(rc.OpDec, i64)
	assert.Len(t, inc.Params, 2)
	assert.Len(t, dec.Params, 1)
}

func TestDispatchOnRecursiveUnionTerminates(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	id := consList(t, &n)
	d := rc.New(&n)

	// Reserve-then-fill (spec.md §9) must let this resolve without infinite
	// recursion at synthesis time, even though Cons's tail field points back
	// to the same layout id being dispatched.
	assert.NotPanics(t, func() {
		d.Dispatch(rc.OpDec, id)
	})
}

func TestDispatchLambdaSetDelegatesToRepr(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	ls := n.Intern(layout.LambdaSetOf(i64))
	d := rc.New(&n)

	lsProc := d.Dispatch(rc.OpDec, ls)
	reprProc := d.Dispatch(rc.OpDec, i64)

	assert.NotEqual(t, lsProc.Name, reprProc.Name)
	assert.Equal(t, ir.StmtLet, lsProc.Body.Kind) // binds repr's call result before returning
}
