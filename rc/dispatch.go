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

// Dispatch is refcount_generic(op, L, x) from spec.md §4.1: it returns the
// specialized procedure for (op, L), synthesizing its body on first request
// and returning the memoized procedure on every subsequent request
// (spec.md §8 property 8, "idempotence of synthesis").
//
// The procedure symbol is reserved in the memoization map *before* its body
// is generated (spec.md §9): this is what lets a self-referential layout's
// body recurse without looping forever at synthesis time — the recursive
// Dispatch call for the same (op, layout-id) finds the reservation and
// returns immediately, and the *runtime* recursion happens only once the
// emitted IR actually executes.
func (d *PassDriver) Dispatch(op Op, l layout.ID) *ir.Proc {
	// A RecursivePointer requested while some procedure's body is still being
	// synthesized is a field of the union it points back to, and resolves to
	// that union's procedure. Requested as a root, it still reaches
	// generate's ICE.
	if lay := d.Interner.Lookup(l); lay.Kind == layout.KindRecursivePointer {
		for _, p := range d.worklist {
			if p.Body == nil {
				return d.Dispatch(op, lay.Of)
			}
		}
	}

	sym := procSymbol{op: op, l: l}
	key := sym.key()

	if p := d.specialized.Lookup(key); p != nil {
		debug.Log(nil, "rc.Dispatch", "memo hit %v", sym)
		return *p
	}

	x := d.factory.Fresh("x", l)
	proc := &ir.Proc{Name: sym.String(), Params: []ir.Symbol{x}}
	if op == OpInc {
		amount := d.factory.Fresh("amount", layout.Invalid)
		proc.Params = append(proc.Params, amount)
	}

	d.specialized.Insert(key, proc)
	d.worklist = append(d.worklist, proc)
	debug.Log(nil, "rc.Dispatch", "reserve %v", sym)

	// A standalone specialized procedure always returns to its caller, even
	// when Dispatch is reached from within an inline DecRef expansion
	// (spec.md §4.2): suspend any outer redirect while this body is
	// synthesized, and restore it once this procedure's body is complete.
	outer := d.decrefJoin
	d.decrefJoin = nil
	proc.Body = d.generate(op, l, proc)
	d.decrefJoin = outer

	debug.Log(nil, "rc.Dispatch", "synthesized %v", sym)
	return proc
}

// generate routes to the per-layout-kind generator, per the table in
// spec.md §4.1.
func (d *PassDriver) generate(op Op, l layout.ID, proc *ir.Proc) *ir.Stmt {
	x := proc.Params[0]
	var amount ir.Symbol
	if op == OpInc {
		amount = proc.Params[1]
	}
	lay := d.Interner.Lookup(l)

	if op == OpReset || op == OpResetRef {
		return d.genReset(op, l, lay, x)
	}

	switch lay.Kind {
	case layout.KindScalar:
		return d.retUnit()
	case layout.KindStr:
		return d.genStr(op, x, amount)
	case layout.KindList:
		return d.genList(op, l, lay, x, amount)
	case layout.KindStruct:
		return d.genStruct(op, lay, x, amount)
	case layout.KindUnion:
		return d.genUnion(op, l, lay, x, amount)
	case layout.KindLambdaSet:
		child := d.Dispatch(op, lay.Repr)
		return d.call(child.Name, proc.Params, d.ret(x))
	case layout.KindRecursivePointer:
		debug.Raise(debug.ReachedRecursivePointerAtTopLevel,
			"layout %v reached the dispatcher as a root layout for op %v", l, op)
		panic("unreachable")
	case layout.KindBoxed:
		return d.genBoxed(op, lay, x, amount)
	default:
		debug.Raise(debug.UnionArmMissing, "unknown layout kind %v", lay.Kind)
		panic("unreachable")
	}
}
