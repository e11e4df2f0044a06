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
	"fmt"

	"github.com/arc-lang/rcgen/layout"
)

// Op names one of the five refcount operations this package synthesizes
// procedures for (spec.md §1).
type Op uint8

const (
	_ Op = iota
	OpInc
	OpDec
	OpDecRef
	OpReset
	OpResetRef
)

func (op Op) String() string {
	switch op {
	case OpInc:
		return "inc"
	case OpDec:
		return "dec"
	case OpDecRef:
		return "decref"
	case OpReset:
		return "reset"
	case OpResetRef:
		return "resetref"
	default:
		return "?"
	}
}

// procSymbol names a specialized procedure, following the teacher's
// Stringer-key pattern (compiler/symbols.go: typeSymbol, parserSymbol): a
// small struct whose String is the stable, human-readable name used both as
// the memoization key's display form and as the emitted procedure's name
// (spec.md §6: "Each procedure has a stable name derived from (op,
// layout-id)").
type procSymbol struct {
	op Op
	l  layout.ID
}

func (s procSymbol) String() string {
	return fmt.Sprintf("rc_%s_%s", s.op, s.l)
}

// key packs (op, layout-id) into a single int64 for the swiss.Table
// memoization cache (spec.md §4.1: "memoized in a per-compilation map (op,
// layout-id) -> proc-symbol").
func (s procSymbol) key() int64 {
	return int64(s.op)<<32 | int64(uint32(s.l))
}

// joinSymbol names a join point within a procedure body, purely for
// debug-printing; join point identity is the ir.JoinID itself.
type joinSymbol struct {
	proc procSymbol
	name string
}

func (s joinSymbol) String() string {
	return fmt.Sprintf("%s.%s", s.proc, s.name)
}
