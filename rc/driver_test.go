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

package rc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arc-lang/rcgen/internal/arena"
	"github.com/arc-lang/rcgen/layout"
	"github.com/arc-lang/rcgen/rc"
)

func TestNewDefaultsToWord64(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	d := rc.New(&n)
	assert.Equal(t, layout.Word64, d.Word)
	assert.NotNil(t, d.Arena)
}

func TestWithWordSizeOverrides(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	d := rc.New(&n, rc.WithWordSize(layout.Word32))
	assert.Equal(t, layout.Word32, d.Word)
}

func TestWithArenaSharesGivenArena(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	var a arena.Arena
	d := rc.New(&n, rc.WithArena(&a))
	assert.Same(t, &a, d.Arena)
}

func TestProcsOrderedByFirstRequest(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	i32 := n.Intern(layout.ScalarOf(layout.Int32))
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	d := rc.New(&n)

	d.Dispatch(rc.OpDec, i32)
	d.Dispatch(rc.OpInc, i64)
	d.Dispatch(rc.OpDec, i32) // already memoized; must not reorder

	procs := d.Procs()
	assert.Len(t, procs, 2)
	assert.Equal(t, "rc_dec_L1", procs[0].Name)
	assert.Equal(t, "rc_inc_L2", procs[1].Name)
}
