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
	"strings"
	"testing"

	"github.com/arc-lang/rcgen/ir"
	"github.com/arc-lang/rcgen/layout"
)

// joinNames collects every join-point name mentioned anywhere in body,
// including within nested If/Switch/Join branches, so tests can assert on
// the control-flow shape a generator produced without hand-walking the tree
// themselves.
func joinNames(t *testing.T, body *ir.Stmt) []string {
	t.Helper()
	var names []string
	var walk func(s *ir.Stmt)
	walk = func(s *ir.Stmt) {
		if s == nil {
			return
		}
		switch s.Kind {
		case ir.StmtLet:
			walk(s.Next)
		case ir.StmtSwitch:
			for i := 0; i < s.Arms.Len(); i++ {
				walk(s.Arms.Get(i).Body)
			}
			walk(s.Default)
		case ir.StmtIf:
			walk(s.Then)
			walk(s.Else)
		case ir.StmtJoin:
			names = append(names, s.Join.String())
			walk(s.Body)
			walk(s.Rest)
		case ir.StmtJump:
			names = append(names, s.Join.String())
		}
	}
	walk(body)
	return names
}

// containsJoinNamed reports whether any join point in body has a name
// containing needle (e.g. "tailrec_loop", "list_loop").
func containsJoinNamed(t *testing.T, body *ir.Stmt, needle string) bool {
	t.Helper()
	for _, n := range joinNames(t, body) {
		if strings.Contains(n, needle) {
			return true
		}
	}
	return false
}

// findJoinBody returns the Body of the first join point anywhere in body
// whose name contains needle, so a test can inspect what a loop or teardown
// join actually does rather than just whether it exists.
func findJoinBody(t *testing.T, body *ir.Stmt, needle string) *ir.Stmt {
	t.Helper()
	var found *ir.Stmt
	var walk func(s *ir.Stmt)
	walk = func(s *ir.Stmt) {
		if s == nil || found != nil {
			return
		}
		switch s.Kind {
		case ir.StmtLet:
			walk(s.Next)
		case ir.StmtSwitch:
			for i := 0; i < s.Arms.Len(); i++ {
				walk(s.Arms.Get(i).Body)
			}
			walk(s.Default)
		case ir.StmtIf:
			walk(s.Then)
			walk(s.Else)
		case ir.StmtJoin:
			if strings.Contains(s.Join.String(), needle) {
				found = s.Body
				return
			}
			walk(s.Body)
			walk(s.Rest)
		}
	}
	walk(body)
	return found
}

// consList builds Nil | Cons(Int64, RecursivePointer) as a Recursive union
// with a tail-recursive second Cons field, matching spec.md §8's
// 100_000-length list scenario.
func consList(t *testing.T, n *layout.Interner) layout.ID {
	t.Helper()

	id := n.Reserve()
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	rec := n.Intern(layout.RecursivePointerTo(id))

	n.Define(id, layout.UnionOf(layout.Union{
		Shape: layout.Recursive,
		Arms: [][]layout.ID{
			{},         // Nil
			{i64, rec}, // Cons
		},
		TailRecField: []int{-1, 1},
	}))
	return id
}

// tree builds Leaf | Node(RecursivePointer, RecursivePointer) as a
// Recursive union with no tail-recursive field, matching spec.md §8's
// Leaf/Node post-order-dec scenario.
func tree(t *testing.T, n *layout.Interner) layout.ID {
	t.Helper()

	id := n.Reserve()
	rec := n.Intern(layout.RecursivePointerTo(id))
	n.Define(id, layout.UnionOf(layout.Union{
		Shape: layout.Recursive,
		Arms: [][]layout.ID{
			{},          // Leaf
			{rec, rec},  // Node
		},
	}))
	return id
}
