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

// fieldIndices collects the Index of every ExprFieldProjection bound in
// order along a chain of Lets, stopping at the first non-Let/non-projection
// statement.
func fieldIndices(s *ir.Stmt) []int {
	var out []int
	for s.Kind == ir.StmtLet {
		if s.Expr.Kind == ir.ExprFieldProjection {
			out = append(out, s.Expr.Index)
		}
		s = s.Next
	}
	return out
}

func TestStructOfTwoRefcountedFieldsReversesOrderOnDec(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	str := n.Intern(layout.Str())
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	list := n.Intern(layout.ListOf(i64))
	s := n.Intern(layout.StructOf(str, i64, list))
	d := rc.New(&n)

	dec := d.Dispatch(rc.OpDec, s)
	inc := d.Dispatch(rc.OpInc, s)

	// Field 1 (i64) is a scalar and never projected at all; only 0 (Str)
	// and 2 (List) are refcounted.
	assert.Equal(t, []int{2, 0}, fieldIndices(dec.Body))
	assert.Equal(t, []int{0, 2}, fieldIndices(inc.Body))
}

func TestStructOfNoRefcountedFieldsIsJustReturn(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	i32 := n.Intern(layout.ScalarOf(layout.Int32))
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	s := n.Intern(layout.StructOf(i32, i64))
	d := rc.New(&n)

	p := d.Dispatch(rc.OpDec, s)
	assert.Equal(t, ir.StmtRet, p.Body.Kind)
}
