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

package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arc-lang/rcgen/internal/arena"
	"github.com/arc-lang/rcgen/ir"
	"github.com/arc-lang/rcgen/layout"
)

func TestFactoryMintsDistinctSymbols(t *testing.T) {
	t.Parallel()

	var f ir.Factory
	a := f.Fresh("x", layout.Invalid)
	b := f.Fresh("y", layout.Invalid)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestFreshJoinSharesCounterWithFresh(t *testing.T) {
	t.Parallel()

	var f ir.Factory
	sym := f.Fresh("x", layout.Invalid)
	join := f.FreshJoin("done")
	assert.NotEqual(t, sym.ID(), join.ID())
}

func TestBuildsUnitReturn(t *testing.T) {
	t.Parallel()

	var a arena.Arena
	var f ir.Factory

	var n layout.Interner
	i64 := n.Intern(layout.ScalarOf(layout.Int64))

	x := f.Fresh("x", i64)
	body := ir.Ret(&a, x)

	assert.Equal(t, ir.StmtRet, body.Kind)
	assert.Equal(t, x, body.Ret)
}

func TestSwitchArmsRoundTrip(t *testing.T) {
	t.Parallel()

	var a arena.Arena
	var f ir.Factory

	tag := f.Fresh("tag", layout.Invalid)
	armBody := ir.Ret(&a, tag)
	sw := ir.Switch(&a, tag, []ir.SwitchArm{
		{Tag: 0, Body: armBody},
	}, nil)

	assert.Equal(t, ir.StmtSwitch, sw.Kind)
	assert.Equal(t, 1, sw.Arms.Len())
	assert.Equal(t, int64(0), sw.Arms.Get(0).Tag)
}

func TestJoinAndJump(t *testing.T) {
	t.Parallel()

	var a arena.Arena
	var f ir.Factory

	join := f.FreshJoin("loop")
	cur := f.Fresh("current", layout.Invalid)

	body := ir.Ret(&a, cur)
	jump := ir.Jump(&a, join, cur)
	stmt := ir.JoinPoint(&a, join, []ir.Symbol{cur}, body, jump)

	assert.Equal(t, ir.StmtJoin, stmt.Kind)
	assert.Equal(t, join, stmt.Join)
	assert.Same(t, body, stmt.Body)
	assert.Same(t, jump, stmt.Rest)
}

func TestProcName(t *testing.T) {
	t.Parallel()

	p := ir.Proc{Name: "rc_dec_L3"}
	assert.Equal(t, "rc_dec_L3", p.Name)
}
