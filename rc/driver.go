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

// Package rc is the layout-directed ARC procedure synthesizer: the core of
// spec.md. Given a layout.Interner populated by earlier passes and a stream
// of ModifyRc markers, it synthesizes ir.Proc bodies for inc/dec/decref/
// reset/resetref and rewrites the markers into ir.Call expressions.
package rc

import (
	"github.com/arc-lang/rcgen/internal/arena"
	"github.com/arc-lang/rcgen/internal/debug"
	"github.com/arc-lang/rcgen/internal/swiss"
	"github.com/arc-lang/rcgen/ir"
	"github.com/arc-lang/rcgen/layout"
)

// PassDriver owns the shared mutable state of one compilation unit's ARC
// pass (spec.md §5): the layout interner, one symbol factory whose counter is
// shared by every procedure the driver synthesizes and is not reset between
// procedures, and the specialization map, all under the exclusive access of a single,
// synchronous, single-threaded pass. There is no ambient global state; every
// entry point in this package takes a *PassDriver explicitly.
type PassDriver struct {
	Arena    *arena.Arena
	Interner *layout.Interner
	Word     layout.WordSize

	factory     ir.Factory
	specialized swiss.Table[int64, *ir.Proc]

	// worklist holds procedures in the order they were first reserved, so
	// Procs returns them in a stable, deterministic order: a repeated request
	// for an already-reserved specialization does not move it.
	worklist []*ir.Proc

	// decrefJoin, while non-nil, redirects every Ret site reached by the
	// in-flight generate() call to a Jump at this join point instead
	// (spec.md §4.2's DecRef "otherwise" case): it is how a decref body gets
	// inlined into its caller rather than registered as its own procedure.
	// Dispatch suspends it around any nested specialization it triggers, so
	// a child procedure synthesized along the way still returns normally.
	decrefJoin *ir.JoinID
}

// Option configures a PassDriver at construction time, mirroring the
// teacher's CompileOption / compiler.Options pattern.
type Option func(*PassDriver)

// WithWordSize sets the target machine word size. Defaults to Word64.
func WithWordSize(w layout.WordSize) Option {
	return func(d *PassDriver) { d.Word = w }
}

// WithArena supplies the arena every synthesized IR node is allocated into.
// If omitted, New allocates a fresh, private arena.Arena.
func WithArena(a *arena.Arena) Option {
	return func(d *PassDriver) { d.Arena = a }
}

// New constructs a PassDriver over the given interner.
func New(interner *layout.Interner, opts ...Option) *PassDriver {
	d := &PassDriver{
		Interner: interner,
		Word:     layout.Word64,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.Arena == nil {
		d.Arena = new(arena.Arena)
	}
	debug.Log(nil, "rc.New", "word=%d", d.Word)
	return d
}

// Procs returns every specialized procedure synthesized so far, in the
// order they were first requested.
func (d *PassDriver) Procs() []*ir.Proc {
	return d.worklist
}
