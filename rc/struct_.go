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

package rc

import (
	"github.com/arc-lang/rcgen/ir"
	"github.com/arc-lang/rcgen/layout"
)

// genStruct implements spec.md §4.5. A Struct owns no heap allocation of
// its own (it is a stack value laid out inline), so unlike List/Union/
// Boxed, both inc and dec must descend into every refcounted field — there
// is no single header to bump or decrement in its place. On dec, fields are
// visited in reverse declaration order so that a field aliasing an earlier
// one through a shared sub-layout is released first.
func (d *PassDriver) genStruct(op Op, lay layout.Layout, x, amount ir.Symbol) *ir.Stmt {
	var refcounted []int
	for i, f := range lay.Fields {
		if d.Interner.IsRefcounted(f) {
			refcounted = append(refcounted, i)
		}
	}
	if op == OpDec {
		for i, j := 0, len(refcounted)-1; i < j; i, j = i+1, j-1 {
			refcounted[i], refcounted[j] = refcounted[j], refcounted[i]
		}
	}

	body := d.retUnit()
	for i := len(refcounted) - 1; i >= 0; i-- {
		idx := refcounted[i]
		fieldLayout := lay.Fields[idx]
		child := d.Dispatch(op, fieldLayout)
		rest := body
		body = d.field(x, idx, fieldLayout, func(fieldSym ir.Symbol) *ir.Stmt {
			args := []ir.Symbol{fieldSym}
			if op == OpInc {
				args = append(args, amount)
			}
			return d.call(child.Name, args, rest)
		})
	}
	return body
}
