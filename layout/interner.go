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

package layout

import (
	"fmt"
	"iter"
	"strings"

	"github.com/arc-lang/rcgen/internal/debug"
	"github.com/arc-lang/rcgen/internal/scc"
)

// Interner canonicalizes layouts: structurally equal layouts share one ID
// (spec.md §3, "Layouts are interned: equal layouts share one identifier").
// A zero Interner is empty and ready to use; it is not safe for concurrent
// use, matching the single-threaded pass model of spec.md §5.
type Interner struct {
	byFingerprint map[string]ID
	layouts       []Layout // index i holds the layout for ID(i+1); slot may be a zero Layout while reserved
}

// Reserve allocates a fresh ID for a layout whose body is not yet known,
// following the pattern in spec.md §9: "reserve the specialized procedure
// symbol before synthesizing its body, so recursive calls inside the body
// resolve to the same symbol." Used when building a recursive Union: the
// union's own id is reserved first so its arms can hold a RecursivePointer
// back to it.
func (n *Interner) Reserve() ID {
	n.layouts = append(n.layouts, Layout{})
	id := ID(len(n.layouts))
	debug.Log(nil, "layout.Reserve", "%v", id)
	return id
}

// Define fills in the body of a previously Reserved id. It is used for
// recursive layouts (any Union shape other than NonRecursive, since those
// are the shapes that may contain a RecursivePointer closing back to this
// id) where structural deduplication against other layouts does not apply:
// recursive type identity is pinned by the reservation itself.
//
// Define validates the recursion invariant of spec.md §3 ("a
// RecursivePointer(L) appears only inside L's own definition") by walking
// the structural child graph rooted at id and confirming every cycle closes
// through exactly one Union or Boxed node; violations raise an ICE.
func (n *Interner) Define(id ID, l Layout) ID {
	l.id = id
	n.layouts[id-1] = l
	debug.Log(nil, "layout.Define", "%v = %v", id, l.Kind)

	n.validateRecursion(id)
	return id
}

// Intern canonicalizes a non-recursive layout (one that cannot contain a
// RecursivePointer to itself, because it was not built via Reserve/Define):
// scalars, strings, lists, structs, lambda sets, boxed values, and
// non-recursive unions. Structurally equal layouts are deduplicated and
// return the same ID.
func (n *Interner) Intern(l Layout) ID {
	fp := n.fingerprint(l)
	if id, ok := n.byFingerprint[fp]; ok {
		debug.Log(nil, "layout.Intern", "hit %v for %v", id, l.Kind)
		return id
	}

	n.layouts = append(n.layouts, Layout{})
	id := ID(len(n.layouts))
	l.id = id
	n.layouts[id-1] = l

	if n.byFingerprint == nil {
		n.byFingerprint = make(map[string]ID)
	}
	n.byFingerprint[fp] = id

	debug.Log(nil, "layout.Intern", "miss, new %v for %v", id, l.Kind)
	return id
}

// Lookup returns the layout for id. Panics (via an ICE) if id is unknown or
// still reserved-but-undefined; callers within this module never hold onto
// an ID across a Reserve without a matching Define.
func (n *Interner) Lookup(id ID) Layout {
	if id == Invalid || int(id) > len(n.layouts) {
		debug.Raise(debug.UnionArmMissing, "layout id %v is not known to this interner", id)
	}
	l := n.layouts[id-1]
	if l.Kind == 0 {
		debug.Raise(debug.UnionArmMissing, "layout id %v was reserved but never defined", id)
	}
	return l
}

// fingerprint computes a structural key for l. Children are already
// interned, so their IDs are stable and can stand in for their own
// structure, making this a cheap one-level string build rather than a deep
// walk.
func (n *Interner) fingerprint(l Layout) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:", l.Kind)

	switch l.Kind {
	case KindScalar:
		fmt.Fprintf(&b, "%d", l.Scalar)
	case KindStr:
		// No payload; Kind alone distinguishes it.
	case KindList:
		fmt.Fprintf(&b, "%d", l.Elem)
	case KindStruct:
		for _, f := range l.Fields {
			fmt.Fprintf(&b, "%d,", f)
		}
	case KindUnion:
		fmt.Fprintf(&b, "%d|%d|", l.Union.Shape, l.Union.NullableTag)
		for _, arm := range l.Union.Arms {
			for _, f := range arm {
				fmt.Fprintf(&b, "%d,", f)
			}
			b.WriteByte(';')
		}
		for _, f := range l.Union.OtherFields {
			fmt.Fprintf(&b, "%d,", f)
		}
	case KindLambdaSet:
		fmt.Fprintf(&b, "%d", l.Repr)
	case KindRecursivePointer:
		fmt.Fprintf(&b, "%d", l.Of)
	case KindBoxed:
		fmt.Fprintf(&b, "%d", l.Inner)
	}
	return b.String()
}

// Children yields the direct structural child IDs of a layout, used to walk
// the layout graph for recursion validation and for the rc generators'
// structural descent.
func Children(l Layout) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		switch l.Kind {
		case KindList:
			if !yield(l.Elem) {
				return
			}
		case KindStruct:
			for _, f := range l.Fields {
				if !yield(f) {
					return
				}
			}
		case KindUnion:
			for _, arm := range l.Union.Arms {
				for _, f := range arm {
					if !yield(f) {
						return
					}
				}
			}
			for _, f := range l.Union.OtherFields {
				if !yield(f) {
					return
				}
			}
		case KindLambdaSet:
			if !yield(l.Repr) {
				return
			}
		case KindRecursivePointer:
			if !yield(l.Of) {
				return
			}
		case KindBoxed:
			if !yield(l.Inner) {
				return
			}
		}
	}
}

// validateRecursion checks that every cycle in the structural child graph
// reachable from id passes through exactly one Union or Boxed node (the
// heap indirection that makes a recursive layout representable in finite
// memory). A cycle that does not is an ICE: CyclicLayout.
func (n *Interner) validateRecursion(id ID) {
	graph := func(id ID) iter.Seq[ID] {
		return func(yield func(ID) bool) {
			l := n.layouts[id-1]
			for child := range Children(l) {
				if !yield(child) {
					return
				}
			}
		}
	}

	dag := scc.Sort(id, graph)
	for c := range dag.Topological() {
		if c.Trivial(graph) {
			continue
		}

		indirections := 0
		for _, member := range c.Members() {
			l := n.layouts[member-1]
			if l.Kind == KindUnion || l.Kind == KindBoxed {
				indirections++
			}
		}
		if indirections != 1 {
			debug.Raise(debug.CyclicLayout,
				"cycle %v passes through %d Union/Boxed nodes, want exactly 1",
				c.Members(), indirections)
		}
	}
}
