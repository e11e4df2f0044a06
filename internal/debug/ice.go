// Copyright 2025 Buf Technologies, Inc.
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

package debug

import (
	"fmt"
	"runtime"

	"github.com/arc-lang/rcgen/internal/dbg"
)

// Kind classifies an internal-compiler-error raised by the generator. See
// spec.md §7 for the fault taxonomy.
type Kind string

const (
	// ReachedRecursivePointerAtTopLevel: a RecursivePointer was presented as
	// the root layout to the dispatcher. Indicates a bug in borrow analysis.
	ReachedRecursivePointerAtTopLevel Kind = "reached-recursive-pointer-at-top-level"
	// ResetOnNonUnion: reset/resetref invoked on a layout that is neither a
	// Union nor Boxed.
	ResetOnNonUnion Kind = "reset-on-non-union"
	// UnionArmMissing: a tag id appears in data but not in the layout.
	UnionArmMissing Kind = "union-arm-missing"
	// CyclicLayout: a structural cycle in the layout graph did not pass
	// through exactly one Union/Boxed indirection.
	CyclicLayout Kind = "cyclic-layout"
	// ListOfRecursivePointer: a List or Str layout was built over an element
	// that is itself a RecursivePointer; unreachable by construction.
	ListOfRecursivePointer Kind = "list-of-recursive-pointer"
)

// ICE is an internal-compiler-error: a fault in the generator itself (or in
// the earlier passes that feed it), never a user-facing diagnostic. All ICEs
// are fatal; none are retried or recovered (spec.md §7).
type ICE struct {
	Kind   Kind
	Detail string
	pc     uintptr
	stack  string // only populated in debug builds; see Raise.
}

// NewICE constructs an ICE naming the calling function automatically, the
// same way the teacher's Unsupported() self-names its caller.
func NewICE(kind Kind, detailFormat string, args ...any) *ICE {
	pc, _, _, _ := runtime.Caller(1)
	e := &ICE{Kind: kind, Detail: fmt.Sprintf(detailFormat, args...), pc: pc}
	if Enabled {
		e.stack = Stack(2)
	}
	return e
}

// Error implements error.
func (e *ICE) Error() string {
	msg := fmt.Sprintf("rcgen: internal compiler error [%s] in %v: %s",
		e.Kind, dbg.Func(e.pc), e.Detail)
	if e.stack != "" {
		msg += "\n" + e.stack
	}
	return msg
}

// Raise panics with an ICE naming the calling function. This is the only
// propagation channel for faults in this package: they abort compilation
// rather than being returned as values (spec.md §7). In debug builds the
// ICE also carries a full stack trace, since an ICE always indicates a bug
// upstream of this package and the caller alone is rarely enough to find it.
func Raise(kind Kind, detailFormat string, args ...any) {
	pc, _, _, _ := runtime.Caller(1)
	e := &ICE{Kind: kind, Detail: fmt.Sprintf(detailFormat, args...), pc: pc}
	if Enabled {
		e.stack = Stack(2)
	}
	panic(e)
}
