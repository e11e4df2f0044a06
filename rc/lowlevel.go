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

// bind emits `let sym = expr in next(sym)`: the administrative-normal-form
// building block every generator in this package is assembled from (spec.md
// §3's ANF requirement, "every non-trivial subexpression is named by a
// let-binding"). Building a Stmt tree bottom-up by hand is awkward because
// Stmt.Next points forward; bind lets each generator read top-to-bottom by
// passing the rest of the body as a continuation.
func (d *PassDriver) bind(name string, l layout.ID, expr ir.Expr, next func(ir.Symbol) *ir.Stmt) *ir.Stmt {
	sym := d.factory.Fresh(name, l)
	return ir.Let(d.Arena, sym, expr, next(sym))
}

// ret returns sym to the caller, unless an inline decref expansion is in
// progress (d.decrefJoin != nil), in which case it jumps to that join point
// instead (spec.md §4.2). Every generator bottoms out through ret rather
// than calling ir.Ret directly, so DecRef's "otherwise" case can redirect
// every exit point of an inlined body without each generator knowing it's
// being inlined.
func (d *PassDriver) ret(sym ir.Symbol) *ir.Stmt {
	if d.decrefJoin != nil {
		return ir.Jump(d.Arena, *d.decrefJoin)
	}
	return ir.Ret(d.Arena, sym)
}

// retUnit returns a Ret statement for a side-effect-only procedure body
// (spec.md §4.1: "body = return unit").
func (d *PassDriver) retUnit() *ir.Stmt {
	return d.ret(d.factory.Fresh("unit", layout.Invalid))
}

// isUnique binds `sym = rc_is_unique(ptr)` then continues.
func (d *PassDriver) isUnique(ptr ir.Symbol, next func(ir.Symbol) *ir.Stmt) *ir.Stmt {
	return d.bind("is_unique", layout.Invalid, ir.LowLevel(ir.OpRCIsUnique, ptr), next)
}

// modifyRc emits the header inc/dec intrinsic appropriate to op against
// ptr, using align as the alignment passed to rc_dec_data_ptr (spec.md
// §4.9). amount is the already-bound Symbol holding the increment count;
// it is only used when op == OpInc and may be the zero Symbol otherwise.
// Always terminal: returns unit once the header has been touched.
func (d *PassDriver) modifyRc(op Op, ptr, amount ir.Symbol, align int) *ir.Stmt {
	switch op {
	case OpInc:
		return ir.Let(d.Arena, d.factory.Fresh("_", layout.Invalid),
			ir.LowLevel(ir.OpRCIncDataPtr, ptr, amount),
			d.retUnit())
	default: // OpDec, OpDecRef, OpReset, OpResetRef header touch
		alignSym := d.factory.Fresh("align", layout.Invalid)
		return ir.Let(d.Arena, alignSym, ir.IntLit(int64(align)),
			ir.Let(d.Arena, d.factory.Fresh("_", layout.Invalid),
				ir.LowLevel(ir.OpRCDecDataPtr, ptr, alignSym),
				d.retUnit()))
	}
}

// maskTagID binds `sym = and(ptr, TagIDMask)`, recovering the usable data
// pointer from a recursive union value whose low bits hold the tag id
// (spec.md §3, §4.8 step 1).
func (d *PassDriver) maskTagID(ptr ir.Symbol, next func(ir.Symbol) *ir.Stmt) *ir.Stmt {
	mask := d.factory.Fresh("mask", layout.Invalid)
	return ir.Let(d.Arena, mask, ir.IntLit(TagIDMask(d.Word)),
		d.bind("masked", layout.Invalid, ir.LowLevel(ir.OpAnd, ptr, mask), next))
}

// TagIDMask re-exports layout.TagIDMask for use within this package's IR
// builders without importing layout twice at every call site.
func TagIDMask(word layout.WordSize) int64 {
	return layout.TagIDMask(word)
}

// tagID binds `sym = tag_id(of)` then continues.
func (d *PassDriver) tagID(of ir.Symbol, next func(ir.Symbol) *ir.Stmt) *ir.Stmt {
	return d.bind("tag_id", layout.Invalid, ir.TagID(of), next)
}

// field binds a struct-field projection then continues.
func (d *PassDriver) field(of ir.Symbol, index int, l layout.ID, next func(ir.Symbol) *ir.Stmt) *ir.Stmt {
	return d.bind("field", l, ir.Field(of, index), next)
}

// unionField binds a tagged-union-field projection then continues.
func (d *PassDriver) unionField(of ir.Symbol, arm, index int, l layout.ID, next func(ir.Symbol) *ir.Stmt) *ir.Stmt {
	return d.bind("ufield", l, ir.UnionField(of, arm, index), next)
}

// call emits `let _ = Call(callee, args...) in next` — used to invoke an
// already (or about to be) specialized child procedure.
func (d *PassDriver) call(callee string, args []ir.Symbol, next *ir.Stmt) *ir.Stmt {
	discard := d.factory.Fresh("_", layout.Invalid)
	return ir.Let(d.Arena, discard, ir.Call(callee, args...), next)
}
