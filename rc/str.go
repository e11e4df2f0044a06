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

package rc

import (
	"github.com/arc-lang/rcgen/ir"
	"github.com/arc-lang/rcgen/layout"
)

// genStr implements spec.md §4.3. Strings encode their own "is this a heap
// allocation at all" flag: the sign bit of the third word. A small string
// owns no memory, so both inc and dec skip it entirely (spec.md §8 property
// 5: "for any string whose sign bit of word 2 is set, rc_inc_Str and
// rc_dec_Str perform no memory access outside the value itself").
func (d *PassDriver) genStr(op Op, x, amount ir.Symbol) *ir.Stmt {
	return d.field(x, 2, layout.Invalid, func(lastWord ir.Symbol) *ir.Stmt {
		return d.bind("zero", layout.Invalid, ir.IntLit(0), func(zero ir.Symbol) *ir.Stmt {
			return d.bind("is_big", layout.Invalid, ir.LowLevel(ir.OpNumGte, lastWord, zero), func(isBig ir.Symbol) *ir.Stmt {
				return ir.If(d.Arena, isBig,
					d.field(x, 0, layout.Invalid, func(ptr ir.Symbol) *ir.Stmt {
						return d.modifyRc(op, ptr, amount, int(d.Word))
					}),
					d.retUnit(),
				)
			})
		})
	})
}
