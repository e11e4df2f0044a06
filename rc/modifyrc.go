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

// Inc, Dec, and DecRef are the rewrite targets for a ModifyRc node in the
// surrounding compiler's IR (spec.md §4.2): whatever pass walks a procedure
// looking for places that need refcounting calls this package through these
// three entry points, splicing the returned Stmt in place of the ModifyRc
// marker, with next as everything that followed it.
//
// All three are no-ops for a layout that owns no refcounted state (a bare
// Scalar, or a Struct none of whose fields are refcounted), so callers don't
// need to special-case those themselves.

// Inc binds `rc_inc_L(x, n)` and continues into next.
func (d *PassDriver) Inc(x, n ir.Symbol, next *ir.Stmt) *ir.Stmt {
	if !d.Interner.IsRefcounted(x.Layout) {
		return next
	}
	child := d.Dispatch(OpInc, x.Layout)
	return d.call(child.Name, []ir.Symbol{x, n}, next)
}

// Dec binds `rc_dec_L(x)` and continues into next.
func (d *PassDriver) Dec(x ir.Symbol, next *ir.Stmt) *ir.Stmt {
	if !d.Interner.IsRefcounted(x.Layout) {
		return next
	}
	child := d.Dispatch(OpDec, x.Layout)
	return d.call(child.Name, []ir.Symbol{x}, next)
}

// DecRef binds `rc_decref_L(x)` and continues into next. decref differs
// from dec in that it never releases x's children, only x's own header
// (spec.md §4.2): used where the surrounding pass has already arranged for
// the children to be released, or reused, separately.
//
// A Struct and a NonRecursive union never own a header of their own — the
// refcounting of their fields is entirely the fields' own business — so
// decref on one of those is always a no-op regardless of whether any field
// happens to be refcounted. Str has no children to begin with, so its
// decref is identical to a full Dec. Every other layout is inlined rather
// than given its own (OpDecRef, L) procedure.
func (d *PassDriver) DecRef(x ir.Symbol, next *ir.Stmt) *ir.Stmt {
	if !d.Interner.IsRefcounted(x.Layout) {
		return next
	}
	lay := d.Interner.Lookup(x.Layout)
	if lay.Kind == layout.KindStruct {
		return next
	}
	if lay.Kind == layout.KindUnion && lay.Union.Shape == layout.NonRecursive {
		return next
	}
	if lay.Kind == layout.KindStr {
		return d.Dec(x, next)
	}
	return d.inlineDecRef(x, next)
}

// inlineDecRef generates the decref body for x's layout directly (bypassing
// Dispatch, so no top-level procedure is ever registered for it) and wraps
// it in a join point whose parameterless body is the continuation,
// rewriting every would-be Ret site of the inlined body into a Jump to that
// join point (spec.md §4.2). This inlines only one level: any child
// procedure the body calls out to is still reached through the ordinary
// memoized Dispatch path and returns normally.
func (d *PassDriver) inlineDecRef(x ir.Symbol, next *ir.Stmt) *ir.Stmt {
	join := d.factory.FreshJoin("decref_done")

	outer := d.decrefJoin
	d.decrefJoin = &join
	body := d.generate(OpDecRef, x.Layout, &ir.Proc{Params: []ir.Symbol{x}})
	d.decrefJoin = outer

	return ir.JoinPoint(d.Arena, join, nil, next, body)
}
