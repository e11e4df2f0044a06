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

// genBoxed implements spec.md §4.7. A Boxed value is a bare pointer to a
// refcount header followed by exactly one inlined value of its inner
// layout: unlike List and Union, there is no tag or length to inspect, so
// the only decision is uniqueness.
func (d *PassDriver) genBoxed(op Op, lay layout.Layout, x, amount ir.Symbol) *ir.Stmt {
	inner := lay.Inner
	align := max(int(d.Word), d.Interner.Alignment(inner, d.Word))

	if op != OpDec {
		return d.modifyRc(op, x, amount, align)
	}

	if !d.Interner.IsRefcounted(inner) {
		return d.modifyRc(op, x, amount, align)
	}

	done := d.factory.FreshJoin("box_done")
	doneBody := d.modifyRc(op, x, amount, align)

	return ir.JoinPoint(d.Arena, done, nil, doneBody,
		d.isUnique(x, func(unique ir.Symbol) *ir.Stmt {
			return ir.If(d.Arena, unique,
				d.field(x, 0, inner, func(innerVal ir.Symbol) *ir.Stmt {
					child := d.Dispatch(OpDec, inner)
					return d.call(child.Name, []ir.Symbol{innerVal}, ir.Jump(d.Arena, done))
				}),
				ir.Jump(d.Arena, done),
			)
		}),
	)
}
