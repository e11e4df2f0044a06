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

package ir

import "github.com/arc-lang/rcgen/internal/arena"

// StmtKind discriminates the shape of a Stmt, per spec.md §3: "Stmt ::=
// Let(sym, Expr, layout, next) | Switch | If | Join(id, params, body, rest)
// | Jump(id, args) | Ret(sym)".
type StmtKind uint8

const (
	_ StmtKind = iota
	StmtLet
	StmtSwitch
	StmtIf
	StmtJoin
	StmtJump
	StmtRet
)

// SwitchArm is one case of a Switch statement: if the scrutinee equals Tag,
// run Body.
type SwitchArm struct {
	Tag  int64
	Body *Stmt
}

// Stmt is a single node of a procedure body. Every Stmt is allocated on an
// arena.Arena and referenced by pointer; its lifetime coincides with that
// arena (spec.md §3: "Every construction is allocated into a per-compilation
// arena").
type Stmt struct {
	Kind StmtKind

	// StmtLet: bind Sym = Expr (the bound value's layout is Sym.Layout), then
	// continue into Next.
	Sym    Symbol
	Expr   Expr
	Next   *Stmt

	// StmtSwitch: project Scrutinee's tag id (callers arrange this via a
	// prior StmtLet binding a TagID expr) and dispatch to the matching arm's
	// body, or Default if none match.
	Scrutinee Symbol
	Arms      arena.Slice[SwitchArm]
	Default   *Stmt

	// StmtIf: branch on Cond (must be bound to a boolean-valued symbol by a
	// prior Let).
	Cond Symbol
	Then *Stmt
	Else *Stmt

	// StmtJoin: define join point Join with parameters Params, whose body is
	// Body; Rest is the statement that follows once the join point has been
	// defined (join points may be jumped to from inside Body or from Rest).
	Join   JoinID
	Params []Symbol
	Body   *Stmt
	Rest   *Stmt

	// StmtJump: transfer control to Join with argument values Args.
	Args []Symbol

	// StmtRet: return Ret to the procedure's caller.
	Ret Symbol
}

// Let builds a Let statement that binds sym to expr, then continues into
// next.
func Let(a *arena.Arena, sym Symbol, expr Expr, next *Stmt) *Stmt {
	return arena.New(a, Stmt{Kind: StmtLet, Sym: sym, Expr: expr, Next: next})
}

// Switch builds a Switch statement over scrutinee's tag id.
func Switch(a *arena.Arena, scrutinee Symbol, arms []SwitchArm, def *Stmt) *Stmt {
	return arena.New(a, Stmt{
		Kind:      StmtSwitch,
		Scrutinee: scrutinee,
		Arms:      arena.SliceOf(a, arms...),
		Default:   def,
	})
}

// If builds an If statement branching on cond.
func If(a *arena.Arena, cond Symbol, then, els *Stmt) *Stmt {
	return arena.New(a, Stmt{Kind: StmtIf, Cond: cond, Then: then, Else: els})
}

// JoinPoint builds a Join statement defining join with the given parameters
// and body, followed by rest.
func JoinPoint(a *arena.Arena, join JoinID, params []Symbol, body, rest *Stmt) *Stmt {
	return arena.New(a, Stmt{Kind: StmtJoin, Join: join, Params: params, Body: body, Rest: rest})
}

// Jump builds a Jump statement transferring control to join with args.
func Jump(a *arena.Arena, join JoinID, args ...Symbol) *Stmt {
	return arena.New(a, Stmt{Kind: StmtJump, Join: join, Args: args})
}

// Ret builds a Ret statement returning sym.
func Ret(a *arena.Arena, sym Symbol) *Stmt {
	return arena.New(a, Stmt{Kind: StmtRet, Ret: sym})
}
