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

package debug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arc-lang/rcgen/internal/debug"
)

func TestRaisePanicsWithICE(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		ice, ok := r.(*debug.ICE)
		if assert.True(t, ok, "Raise must panic with *debug.ICE, got %T", r) {
			assert.Equal(t, debug.ResetOnNonUnion, ice.Kind)
			assert.Contains(t, ice.Error(), "internal compiler error")
			assert.Contains(t, ice.Error(), "reset on scalar")
		}
	}()

	debug.Raise(debug.ResetOnNonUnion, "reset on scalar %d", 7)
}

func TestNewICENamesItsCaller(t *testing.T) {
	t.Parallel()

	e := makeICE()
	assert.Equal(t, debug.CyclicLayout, e.Kind)
	assert.Contains(t, e.Error(), "makeICE")
}

func makeICE() *debug.ICE {
	return debug.NewICE(debug.CyclicLayout, "cycle through struct at %v", 3)
}
