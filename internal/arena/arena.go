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

// Package arena provides a chunked bump-allocation abstraction for the ARC
// generator's per-compilation-unit working set (symbols, statements,
// expressions, interned layouts).
//
// # Design
//
// Unlike a raw-byte arena meant to back a zero-copy wire format, the values
// held here (ir.Symbol, ir.Stmt, layout.Layout, ...) are ordinary pointer-ful
// Go values that reference each other and reference long-lived descriptors
// owned by earlier compiler passes. Carving them out of an untyped byte
// buffer via unsafe casts would hide those pointers from the garbage
// collector. Instead, each type gets its own slab: a growable, typed []T
// that new values are bump-allocated from, doubling in size as it fills.
// This keeps every allocation ordinary, GC-visible Go memory, while still
// getting the arena's two real benefits for a compiler pass: allocating many
// small IR nodes costs O(1) amortized slab growth instead of one malloc per
// node, and [Arena.Free] releases the whole working set in one shot at the
// end of a compilation unit.
package arena

import (
	"reflect"

	"github.com/arc-lang/rcgen/internal/debug"
)

// minSlabLen is the number of elements in the first slab allocated for any
// given type.
const minSlabLen = 64

// Arena owns the IR and layout nodes synthesized for one compilation unit.
// A zero Arena is empty and ready to use.
type Arena struct {
	slabs map[reflect.Type]any // reflect.Type -> *slab[T]
}

// slab is the growable backing array for one type held in an Arena.
type slab[T any] struct {
	data []T
}

func slabFor[T any](a *Arena) *slab[T] {
	if a.slabs == nil {
		a.slabs = make(map[reflect.Type]any)
	}

	t := reflect.TypeFor[T]()
	s, ok := a.slabs[t].(*slab[T])
	if !ok {
		s = &slab[T]{}
		a.slabs[t] = s
	}
	return s
}

func (s *slab[T]) reserve(n int) (start int) {
	if cap(s.data)-len(s.data) < n {
		next := max(cap(s.data)*2, minSlabLen, n)
		grown := make([]T, len(s.data), next)
		copy(grown, s.data)
		s.data = grown
	}

	start = len(s.data)
	s.data = s.data[:start+n]
	return start
}

// New allocates a new value of type T on the arena and returns a stable
// pointer to it.
func New[T any](a *Arena, value T) *T {
	s := slabFor[T](a)
	i := s.reserve(1)
	s.data[i] = value

	debug.Log(nil, "arena.New", "%T @ slab[%d]", value, i)
	return &s.data[i]
}

// Slice is an arena-allocated, append-only sequence of T. Indices obtained
// from [Slice.Get] remain stable as long as the owning [Arena] is not
// [Arena.Free]d.
type Slice[T any] struct {
	data []T
}

// NewSlice reserves n zero-valued elements of T on the arena.
func NewSlice[T any](a *Arena, n int) Slice[T] {
	s := slabFor[T](a)
	i := s.reserve(n)
	return Slice[T]{data: s.data[i : i+n : i+n]}
}

// SliceOf copies values onto the arena as a [Slice].
func SliceOf[T any](a *Arena, values ...T) Slice[T] {
	s := NewSlice[T](a, len(values))
	copy(s.data, values)
	return s
}

// Len returns the number of elements in the slice.
func (s Slice[T]) Len() int { return len(s.data) }

// Get returns a pointer to the ith element.
func (s Slice[T]) Get(i int) *T { return &s.data[i] }

// Raw returns the underlying slice. The result must not outlive the owning
// arena's next [Arena.Free].
func (s Slice[T]) Raw() []T { return s.data }

// Free releases the arena's entire working set, allowing it to be reused for
// a new compilation unit. Any pointer obtained from this arena must not be
// used after Free.
func (a *Arena) Free() {
	debug.Log(nil, "arena.Free", "%d slab kinds", len(a.slabs))
	a.slabs = nil
}
