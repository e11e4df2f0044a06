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

// genList implements spec.md §4.4. e is the element layout; a List element
// can never itself be a RecursivePointer (spec.md's supplemented feature
// #2, carried from the original's Layout::RecursivePointer handling): the
// borrow checker never emits such a layout, so requesting one here is an
// internal-compiler-error rather than something this generator needs to
// handle.
func (d *PassDriver) genList(op Op, l layout.ID, lay layout.Layout, x, amount ir.Symbol) *ir.Stmt {
	e := lay.Elem
	if d.Interner.Lookup(e).Kind == layout.KindRecursivePointer {
		debug.Raise(debug.ListOfRecursivePointer, "list %v has a recursive-pointer element", l)
	}

	return d.bind("len", layout.Invalid, ir.LowLevel(ir.OpListLen, x), func(length ir.Symbol) *ir.Stmt {
		return d.bind("zero", layout.Invalid, ir.IntLit(0), func(zero ir.Symbol) *ir.Stmt {
			return d.bind("is_empty", layout.Invalid, ir.LowLevel(ir.OpEq, length, zero), func(isEmpty ir.Symbol) *ir.Stmt {
				return ir.If(d.Arena, isEmpty,
					d.retUnit(),
					d.genListNonEmpty(op, e, x, amount, zero),
				)
			})
		})
	})
}

// genListNonEmpty resolves whether x is a seamless slice, computes the
// underlying element count (spec.md §8's seamless-slice scenario: capacity
// -3 yields element count 6, i.e. -cap << 1), and emits the shared
// element-then-header teardown.
func (d *PassDriver) genListNonEmpty(op Op, e layout.ID, x, amount, zero ir.Symbol) *ir.Stmt {
	align := max(int(d.Word), d.Interner.Alignment(e, d.Word))

	return d.field(x, 2, layout.Invalid, func(cap_ ir.Symbol) *ir.Stmt {
		return d.bind("is_slice", layout.Invalid, ir.LowLevel(ir.OpNumLt, cap_, zero), func(isSlice ir.Symbol) *ir.Stmt {
			return d.field(x, 0, layout.Invalid, func(ptr ir.Symbol) *ir.Stmt {
				done := d.factory.FreshJoin("list_done")
				doneBody := d.modifyRc(op, ptr, amount, align)

				return ir.JoinPoint(d.Arena, done, nil, doneBody,
					ir.If(d.Arena, isSlice,
						d.bind("neg_cap", layout.Invalid, ir.LowLevel(ir.OpNumSubSaturated, zero, cap_), func(negCap ir.Symbol) *ir.Stmt {
							return d.bind("one", layout.Invalid, ir.IntLit(1), func(one ir.Symbol) *ir.Stmt {
								return d.bind("count", layout.Invalid, ir.LowLevel(ir.OpNumShl, negCap, one), func(count ir.Symbol) *ir.Stmt {
									return d.genListElements(op, e, ptr, count, done)
								})
							})
						}),
						d.genListElements(op, e, ptr, cap_, done),
					),
				)
			})
		})
	})
}

// genListElements emits the element-decrement loop (spec.md §4.4 step 5),
// driven by a decrementing counter rather than an address-range comparison:
// the intrinsic set (spec.md §4.9) has no multiply, so there is no way to
// compute count*sizeof(e) as a single end address up front. Instead the
// loop walks the pointer forward by one element's stride per iteration and
// counts the remaining elements down to zero. Only dec visits children at
// all; inc and decref jump straight to done (spec.md §4.2, §4.4:
// "Element-first order is mandatory on dec to avoid reading freed memory").
func (d *PassDriver) genListElements(op Op, e layout.ID, ptr, count ir.Symbol, done ir.JoinID) *ir.Stmt {
	if op != OpDec || !d.Interner.IsRefcounted(e) {
		return ir.Jump(d.Arena, done)
	}

	stride := int64(d.Interner.Size(e, d.Word))
	loop := d.factory.FreshJoin("list_loop")
	addr := d.factory.Fresh("addr", layout.Invalid)
	remaining := d.factory.Fresh("remaining", layout.Invalid)
	elemProc := d.Dispatch(OpDec, e)
	boxE := d.Interner.Intern(layout.BoxedOf(e))

	loopBody := d.bind("zero", layout.Invalid, ir.IntLit(0), func(zero ir.Symbol) *ir.Stmt {
		return d.bind("is_done", layout.Invalid, ir.LowLevel(ir.OpEq, remaining, zero), func(isDone ir.Symbol) *ir.Stmt {
			return ir.If(d.Arena, isDone,
				ir.Jump(d.Arena, done),
				d.bind("box", boxE, ir.LowLevel(ir.OpPtrCast, addr), func(boxed ir.Symbol) *ir.Stmt {
					return d.field(boxed, 0, e, func(elem ir.Symbol) *ir.Stmt {
						return d.call(elemProc.Name, []ir.Symbol{elem}, d.bind("stride", layout.Invalid, ir.IntLit(stride), func(strideSym ir.Symbol) *ir.Stmt {
							return d.bind("one", layout.Invalid, ir.IntLit(1), func(one ir.Symbol) *ir.Stmt {
								return d.bind("next_addr", layout.Invalid, ir.LowLevel(ir.OpNumAdd, addr, strideSym), func(nextAddr ir.Symbol) *ir.Stmt {
									return d.bind("next_remaining", layout.Invalid, ir.LowLevel(ir.OpNumSubSaturated, remaining, one), func(nextRemaining ir.Symbol) *ir.Stmt {
										return ir.Jump(d.Arena, loop, nextAddr, nextRemaining)
									})
								})
							})
						}))
					})
				}),
			)
		})
	})

	return ir.JoinPoint(d.Arena, loop, []ir.Symbol{addr, remaining}, loopBody,
		ir.Jump(d.Arena, loop, ptr, count))
}
