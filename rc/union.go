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

// unionArm is one normalized tag arm: its tag value, field layouts, and
// which field (if any) is the tail-recursive child.
type unionArm struct {
	tag       int64
	fields    []layout.ID
	tailIndex int // index into fields, or -1
}

// normalizeArms folds all five Union shapes (spec.md §3) down to a single
// canonical "list of (tag, fields, tail-recursive index)" form, so the
// generator below has exactly one tag-switch implementation rather than
// five. The null variant of a nullable shape is represented as an ordinary
// arm with zero fields; get_tag_id is assumed (spec.md §4.6's pseudocode
// calls it unconditionally even for nullable shapes) to recognize the null
// pointer and report NullableTag for it, so no separate pointer-equality
// check needs to appear in the emitted IR for that part.
func normalizeArms(u layout.Union) []unionArm {
	switch u.Shape {
	case layout.NonNullableUnwrapped:
		arm := unionArm{tag: 0, fields: u.Arms[0], tailIndex: -1}
		if len(u.TailRecField) > 0 {
			arm.tailIndex = u.TailRecField[0]
		}
		return []unionArm{arm}

	case layout.NullableUnwrapped:
		other := unionArm{tag: otherTag(u.NullableTag), fields: u.OtherFields, tailIndex: -1}
		if len(u.TailRecField) > 0 {
			other.tailIndex = u.TailRecField[0]
		}
		return []unionArm{
			{tag: int64(u.NullableTag), fields: nil, tailIndex: -1},
			other,
		}

	case layout.NullableWrapped:
		arms := make([]unionArm, 0, len(u.Arms)+1)
		for i, fields := range u.Arms {
			tag := int64(i)
			if i >= u.NullableTag {
				tag++
			}
			tailIdx := -1
			if i < len(u.TailRecField) {
				tailIdx = u.TailRecField[i]
			}
			arms = append(arms, unionArm{tag: tag, fields: fields, tailIndex: tailIdx})
		}
		arms = append(arms, unionArm{tag: int64(u.NullableTag), fields: nil, tailIndex: -1})
		return arms

	default: // Recursive, NonRecursive
		arms := make([]unionArm, len(u.Arms))
		for i, fields := range u.Arms {
			tailIdx := -1
			if i < len(u.TailRecField) {
				tailIdx = u.TailRecField[i]
			}
			arms[i] = unionArm{tag: int64(i), fields: fields, tailIndex: tailIdx}
		}
		return arms
	}
}

// otherTag picks a tag value distinct from nullTag for the single "other"
// variant of a NullableUnwrapped layout.
func otherTag(nullTag int) int64 {
	if nullTag == 0 {
		return 1
	}
	return 0
}

// genUnion implements spec.md §4.6.
func (d *PassDriver) genUnion(op Op, l layout.ID, lay layout.Layout, x, amount ir.Symbol) *ir.Stmt {
	if lay.Union.Shape == layout.NonRecursive {
		return d.genFlatUnion(op, normalizeArms(lay.Union), x)
	}
	return d.genRecursiveUnion(op, l, normalizeArms(lay.Union), x, amount)
}

// genFlatUnion is the NonRecursive case: a stack value with no header of
// its own. tag_id = get_tag_id(x); switch on it; each arm recursively
// refcounts its fields (in reverse order on dec, per spec.md §4.5's
// struct-field rule, since a flat-union arm is laid out like a struct);
// then return.
func (d *PassDriver) genFlatUnion(op Op, arms []unionArm, x ir.Symbol) *ir.Stmt {
	if len(arms) == 1 {
		return d.genFlatArmBody(op, arms[0], x, 0)
	}
	return d.tagID(x, func(tag ir.Symbol) *ir.Stmt {
		switchArms := make([]ir.SwitchArm, len(arms))
		for i, arm := range arms {
			switchArms[i] = ir.SwitchArm{Tag: arm.tag, Body: d.genFlatArmBody(op, arm, x, i)}
		}
		return ir.Switch(d.Arena, tag, switchArms, nil)
	})
}

func (d *PassDriver) genFlatArmBody(op Op, arm unionArm, x ir.Symbol, armIdx int) *ir.Stmt {
	order := fieldOrder(len(arm.fields), op == OpDec)

	body := d.retUnit()
	for i := len(order) - 1; i >= 0; i-- {
		idx := order[i]
		fieldLayout := arm.fields[idx]
		if !d.Interner.IsRefcounted(fieldLayout) {
			continue
		}
		child := d.Dispatch(op, fieldLayout)
		rest := body
		body = d.unionField(x, armIdx, idx, fieldLayout, func(fieldSym ir.Symbol) *ir.Stmt {
			return d.call(child.Name, []ir.Symbol{fieldSym}, rest)
		})
	}
	return body
}

// fieldOrder returns 0..n-1, reversed when reverse is true (spec.md §4.5).
func fieldOrder(n int, reverse bool) []int {
	order := make([]int, n)
	for i := range order {
		if reverse {
			order[i] = n - 1 - i
		} else {
			order[i] = i
		}
	}
	return order
}

// genRecursiveUnion is the shared Recursive / NonNullableUnwrapped /
// NullableWrapped / NullableUnwrapped generator: a heap pointer with its
// own refcount header. The is_unique gate means only a uniquely-owned
// value is obliged to release its children (spec.md §4.6: "the last owner
// ... will release the children" when it eventually becomes unique).
func (d *PassDriver) genRecursiveUnion(op Op, l layout.ID, arms []unionArm, x, amount ir.Symbol) *ir.Stmt {
	align := d.Interner.Alignment(l, d.Word)

	if op != OpDec {
		return d.modifyRc(op, x, amount, align)
	}

	if d.Interner.HasTailRecursiveField(l) {
		return d.genTailRecUnion(l, arms, x)
	}

	done := d.factory.FreshJoin("union_done")
	doneBody := d.modifyRc(op, x, amount, align)

	return ir.JoinPoint(d.Arena, done, nil, doneBody,
		d.isUnique(x, func(unique ir.Symbol) *ir.Stmt {
			return ir.If(d.Arena, unique,
				d.genArmSwitch(x, arms, func(arm unionArm, armIdx int) *ir.Stmt {
					return d.genUniqueArmBody(arm, x, armIdx, done)
				}),
				ir.Jump(d.Arena, done),
			)
		}),
	)
}

// genArmSwitch builds a tag switch over arms, or (when there is only one
// possible arm, as for NonNullableUnwrapped) skips the tag projection
// entirely and inlines that arm's body directly: a single-variant layout
// has no tag bits to read.
func (d *PassDriver) genArmSwitch(x ir.Symbol, arms []unionArm, armBody func(arm unionArm, armIdx int) *ir.Stmt) *ir.Stmt {
	if len(arms) == 1 {
		return armBody(arms[0], 0)
	}
	return d.tagID(x, func(tag ir.Symbol) *ir.Stmt {
		switchArms := make([]ir.SwitchArm, len(arms))
		for i, arm := range arms {
			switchArms[i] = ir.SwitchArm{Tag: arm.tag, Body: armBody(arm, i)}
		}
		return ir.Switch(d.Arena, tag, switchArms, nil)
	})
}

// genUniqueArmBody decrements every refcounted field of a unique arm (order
// does not matter among siblings, since none can alias a shared live value
// once this node is known unique) and jumps to the header decrement.
func (d *PassDriver) genUniqueArmBody(arm unionArm, x ir.Symbol, armIdx int, done ir.JoinID) *ir.Stmt {
	body := ir.Jump(d.Arena, done)
	for i := len(arm.fields) - 1; i >= 0; i-- {
		fieldLayout := arm.fields[i]
		if !d.Interner.IsRefcounted(fieldLayout) {
			continue
		}
		child := d.Dispatch(OpDec, fieldLayout)
		rest := body
		body = d.unionField(x, armIdx, i, fieldLayout, func(fieldSym ir.Symbol) *ir.Stmt {
			return d.call(child.Name, []ir.Symbol{fieldSym}, rest)
		})
	}
	return body
}

// genTailRecUnion implements the tail-recursive loop form (spec.md §4.6):
// bounds stack depth to O(1) for cons-list-shaped layouts (spec.md §8's
// 100_000-length list scenario) by driving iteration with an explicit join
// point rather than recursive Call expressions.
func (d *PassDriver) genTailRecUnion(l layout.ID, arms []unionArm, x ir.Symbol) *ir.Stmt {
	loop := d.factory.FreshJoin("tailrec_loop")
	current := d.factory.Fresh("current", l)

	loopBody := d.isUnique(current, func(unique ir.Symbol) *ir.Stmt {
		return ir.If(d.Arena, unique,
			d.genArmSwitch(current, arms, func(arm unionArm, armIdx int) *ir.Stmt {
				return d.genTailRecArmBody(arm, current, armIdx, loop)
			}),
			// Non-unique: decrement this node's header and stop. Its children
			// are shared with some other owner and must not be touched.
			d.modifyRc(OpDec, current, ir.Symbol{}, d.Interner.Alignment(l, d.Word)),
		)
	})

	return ir.JoinPoint(d.Arena, loop, []ir.Symbol{current}, loopBody, ir.Jump(d.Arena, loop, x))
}

// genTailRecArmBody decrements every non-tail-recursive refcounted field of
// a unique arm, decrements current's own header, and either returns (for a
// childless arm, or when the tail-recursive child turns out to be the null
// pointer) or jumps back into the loop with that child as the new current
// (spec.md §4.6 steps 1-5).
func (d *PassDriver) genTailRecArmBody(arm unionArm, current ir.Symbol, armIdx int, loop ir.JoinID) *ir.Stmt {
	align := d.Interner.Alignment(current.Layout, d.Word)

	decHeader := func(rest *ir.Stmt) *ir.Stmt {
		return d.bind("align", layout.Invalid, ir.IntLit(int64(align)), func(alignSym ir.Symbol) *ir.Stmt {
			return d.bind("_", layout.Invalid, ir.LowLevel(ir.OpRCDecDataPtr, current, alignSym), func(ir.Symbol) *ir.Stmt {
				return rest
			})
		})
	}

	var tailEnd *ir.Stmt
	if arm.tailIndex < 0 {
		tailEnd = decHeader(d.retUnit())
	} else {
		tailField := arm.fields[arm.tailIndex]
		tailEnd = d.unionField(current, armIdx, arm.tailIndex, tailField, func(next ir.Symbol) *ir.Stmt {
			return decHeader(d.bind("null", layout.Invalid, ir.NullPointer(), func(nullSym ir.Symbol) *ir.Stmt {
				return d.bind("is_null", layout.Invalid, ir.LowLevel(ir.OpEq, next, nullSym), func(isNull ir.Symbol) *ir.Stmt {
					return ir.If(d.Arena, isNull,
						d.retUnit(),
						ir.Jump(d.Arena, loop, next),
					)
				})
			}))
		})
	}

	body := tailEnd
	for i := len(arm.fields) - 1; i >= 0; i-- {
		if i == arm.tailIndex {
			continue
		}
		fieldLayout := arm.fields[i]
		if !d.Interner.IsRefcounted(fieldLayout) {
			continue
		}
		child := d.Dispatch(OpDec, fieldLayout)
		rest := body
		body = d.unionField(current, armIdx, i, fieldLayout, func(fieldSym ir.Symbol) *ir.Stmt {
			return d.call(child.Name, []ir.Symbol{fieldSym}, rest)
		})
	}
	return body
}
