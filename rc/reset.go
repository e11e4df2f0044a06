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
	"github.com/arc-lang/rcgen/internal/debug"
	"github.com/arc-lang/rcgen/ir"
	"github.com/arc-lang/rcgen/layout"
)

// genReset implements spec.md §4.8, extended by analogy (the original's
// reset handles Union roots only) to also accept Boxed roots: both are heap
// pointers with a header and no other owner needs to know about, which is
// exactly what reuse-in-place requires. x is masked first to strip the tag
// id a recursive union value may carry packed into the pointer's low bits
// (spec.md §3); the masked value is the untagged pointer that the unique
// path hands back for reuse.
//
// On the unique path, reset releases every refcounted child (so the
// allocation can be safely overwritten with a new value of the same size
// class) and returns the masked pointer for the caller to reuse. resetref is
// identical except it does not release children: used when the caller is
// about to overwrite those fields too, so releasing them here would just be
// immediately-undone work.
//
// On the shared path neither variant can reuse the allocation — some other
// owner might still read it — so it falls back to a full dec and reports no
// pointer to reuse.
func (d *PassDriver) genReset(op Op, l layout.ID, lay layout.Layout, x ir.Symbol) *ir.Stmt {
	if lay.Kind != layout.KindUnion && lay.Kind != layout.KindBoxed {
		debug.Raise(debug.ResetOnNonUnion, "reset invoked on layout %v of kind %v", l, lay.Kind)
	}

	return d.maskTagID(x, func(masked ir.Symbol) *ir.Stmt {
		return d.isUnique(x, func(unique ir.Symbol) *ir.Stmt {
			return ir.If(d.Arena, unique,
				d.genResetUniquePath(op, l, lay, x, masked),
				d.genResetSharedPath(l, x),
			)
		})
	})
}

// genResetSharedPath decs the whole value and reports null: some other
// owner still holds a reference, so nothing here is safe to reuse.
func (d *PassDriver) genResetSharedPath(l layout.ID, x ir.Symbol) *ir.Stmt {
	child := d.Dispatch(OpDec, l)
	return d.call(child.Name, []ir.Symbol{x}, d.bind("null", layout.Invalid, ir.NullPointer(), func(n ir.Symbol) *ir.Stmt {
		return ir.Ret(d.Arena, n)
	}))
}

func (d *PassDriver) genResetUniquePath(op Op, l layout.ID, lay layout.Layout, x, masked ir.Symbol) *ir.Stmt {
	if op == OpResetRef {
		return ir.Ret(d.Arena, masked)
	}

	switch lay.Kind {
	case layout.KindBoxed:
		inner := lay.Inner
		if !d.Interner.IsRefcounted(inner) {
			return ir.Ret(d.Arena, masked)
		}
		return d.field(x, 0, inner, func(innerVal ir.Symbol) *ir.Stmt {
			child := d.Dispatch(OpDec, inner)
			return d.call(child.Name, []ir.Symbol{innerVal}, ir.Ret(d.Arena, masked))
		})
	default: // layout.KindUnion
		arms := normalizeArms(lay.Union)
		return d.genArmSwitch(x, arms, func(arm unionArm, armIdx int) *ir.Stmt {
			return d.genResetArmBody(arm, x, armIdx, masked)
		})
	}
}

// genResetArmBody releases every refcounted field of a unique arm, then
// returns the masked pointer for reuse.
func (d *PassDriver) genResetArmBody(arm unionArm, x ir.Symbol, armIdx int, masked ir.Symbol) *ir.Stmt {
	body := ir.Ret(d.Arena, masked)
	for i := len(arm.fields) - 1; i >= 0; i-- {
		fieldLayout := arm.fields[i]
		if !d.Interner.IsRefcounted(fieldLayout) {
			continue
		}
		child := d.Dispatch(OpDec, fieldLayout)
		rest := body
		body = d.unionField(x, armIdx, i, fieldLayout, func(fieldSym ir.Symbol) *ir.Stmt {
			return d.call(child.Name, []ir.Symbol{fieldSym}, rest)
		})
	}
	return body
}
