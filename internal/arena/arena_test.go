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

package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arc-lang/rcgen/internal/arena"
)

func TestNewStablePointers(t *testing.T) {
	t.Parallel()

	var a arena.Arena
	ptrs := make([]*int, 0, 1000)
	for i := range 1000 {
		ptrs = append(ptrs, arena.New(&a, i))
	}

	for i, p := range ptrs {
		assert.Equal(t, i, *p)
	}
}

func TestSliceOf(t *testing.T) {
	t.Parallel()

	var a arena.Arena
	s := arena.SliceOf(&a, 1, 2, 3)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, *s.Get(1))
	assert.Equal(t, []int{1, 2, 3}, s.Raw())
}

func TestNewSliceIsolatedPerType(t *testing.T) {
	t.Parallel()

	var a arena.Arena
	ints := arena.NewSlice[int](&a, 4)
	strs := arena.NewSlice[string](&a, 2)

	assert.Equal(t, 4, ints.Len())
	assert.Equal(t, 2, strs.Len())
	for i := range 4 {
		assert.Equal(t, 0, *ints.Get(i))
	}
}

func TestFreeAllowsReuse(t *testing.T) {
	t.Parallel()

	var a arena.Arena
	arena.New(&a, 42)
	a.Free()

	p := arena.New(&a, 7)
	assert.Equal(t, 7, *p)
}
