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

package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arc-lang/rcgen/layout"
)

func TestKindStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Scalar", layout.KindScalar.String())
	assert.Equal(t, "Union", layout.KindUnion.String())
	assert.Equal(t, "RecursivePointer", layout.KindRecursivePointer.String())
}

func TestUnionOfDefaultsNullableTag(t *testing.T) {
	t.Parallel()

	u := layout.UnionOf(layout.Union{Shape: layout.NonRecursive})
	assert.Equal(t, -1, u.Union.NullableTag)
}

func TestScalarByteSizes(t *testing.T) {
	t.Parallel()

	var n layout.Interner
	i64 := n.Intern(layout.ScalarOf(layout.Int64))
	assert.Equal(t, 8, n.Size(i64, layout.Word64))

	dec := n.Intern(layout.ScalarOf(layout.Decimal))
	assert.Equal(t, 16, n.Size(dec, layout.Word64))
}
