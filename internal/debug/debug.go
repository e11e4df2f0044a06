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

//go:build debug

// Package debug includes debugging helpers for the ARC code generator pass.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/timandy/routine"
)

// Enabled is true if the generator is being built with the debug tag, which
// enables verbose tracing of layout registration, specialization, and
// relocation.
const Enabled = true

// Log prints debugging information to stderr.
//
// context is optional args for fmt.Printf that are printed before op; this
// is used to identify which pass-driver instance ("compilation unit") an
// event belongs to, so logs from concurrent invocations of the generator
// across independent compilation units do not interleave unreadably.
func Log(context []any, op string, format string, args ...any) {
	skip := 1
again:
	pc, file, line, _ := runtime.Caller(skip)
	fn := runtime.FuncForPC(pc)
	name := fn.Name()
	name = name[strings.LastIndex(name, ".")+1:]
	if strings.HasPrefix(name, "log") || strings.Contains(name, "Log") {
		skip++
		goto again
	}

	pkg := fn.Name()
	pkg = strings.TrimPrefix(pkg, "github.com/arc-lang/rcgen/")
	if i := strings.Index(pkg, "."); i >= 0 {
		pkg = pkg[:i]
	}

	file = filepath.Base(file)

	buf := new(strings.Builder)
	fmt.Fprintf(buf, "%s/%s:%d [g%04d", pkg, file, line, routine.Goid())
	if len(context) >= 1 {
		fmt.Fprintf(buf, ", "+context[0].(string), context[1:]...)
	}
	fmt.Fprintf(buf, "] %s: ", op)
	fmt.Fprintf(buf, format, args...)
	buf.WriteByte('\n')

	os.Stderr.WriteString(buf.String())
}

// Assert panics if cond is false. Only compiled in debug builds; release
// builds trust the invariant instead of paying for the check.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("rcgen: internal assertion failed: "+format, args...))
	}
}

// Value is a value of any type that only exists when the debug tag is
// enabled. In release builds this is swapped for an empty struct, so that
// debug-only bookkeeping (such as a pretty-printable layout trace) costs
// nothing in a release binary.
type Value[T any] struct {
	x T
}

// Get returns a pointer to the underlying value. Only meaningful in debug
// builds.
func (v *Value[T]) Get() *T { return &v.x }
