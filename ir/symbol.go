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

// Package ir defines the administrative-normal-form IR entities the ARC
// generator consumes and produces (spec.md §3, "IR entities used"): Stmt,
// Expr, Symbol, and Proc. Every entity is allocated into a per-compilation
// arena.Arena; their lifetimes coincide with the arena's.
package ir

import (
	"fmt"

	"github.com/arc-lang/rcgen/internal/debug"
	"github.com/arc-lang/rcgen/layout"
)

// Symbol is a freshly minted identifier, as required by spec.md §3. Symbols
// are scoped to the procedure that mints them via a Factory, never reused
// across procedures.
type Symbol struct {
	id     uint32
	name   string // Human-readable debug name; not part of identity.
	Layout layout.ID
}

func (s Symbol) String() string {
	if s.name != "" {
		return fmt.Sprintf("%%%s.%d", s.name, s.id)
	}
	return fmt.Sprintf("%%%d", s.id)
}

// ID returns the symbol's unique numeric identity within the Factory that
// minted it.
func (s Symbol) ID() uint32 { return s.id }

// Factory mints fresh Symbols scoped to one procedure, per spec.md §2
// ("Symbol/identifier factory ... Produces fresh IR symbols scoped to a
// procedure"). A zero Factory starts counting from zero.
type Factory struct {
	next uint32
}

// Fresh mints a new Symbol of the given layout. name is used only for
// debug-printing and log lines; it carries no semantic weight.
func (f *Factory) Fresh(name string, l layout.ID) Symbol {
	s := Symbol{id: f.next, name: name, Layout: l}
	f.next++
	debug.Log(nil, "ir.Fresh", "%v : %v", s, l)
	return s
}

// JoinID identifies a join point within a procedure body (spec.md §3,
// Join/Jump statements). Distinct from Symbol because a join point is a
// control-flow label, not a value.
type JoinID struct {
	id   uint32
	name string
}

// ID returns the join point's unique numeric identity within the Factory
// that minted it.
func (j JoinID) ID() uint32 { return j.id }

func (j JoinID) String() string {
	if j.name != "" {
		return fmt.Sprintf("@%s.%d", j.name, j.id)
	}
	return fmt.Sprintf("@%d", j.id)
}

// FreshJoin mints a new join point label.
func (f *Factory) FreshJoin(name string) JoinID {
	j := JoinID{id: f.next, name: name}
	f.next++
	debug.Log(nil, "ir.FreshJoin", "%v", j)
	return j
}
