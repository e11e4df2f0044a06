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

// WordSize is the target machine word size in bytes (4 on 32-bit targets,
// 8 on 64-bit targets). Alignment and size queries below take it as a
// parameter rather than hard-coding 8, since the runtime ABI (spec.md §6)
// is explicitly parameterized on this.
type WordSize int

const (
	Word32 WordSize = 4
	Word64 WordSize = 8
)

// IsRefcounted reports whether a value of this layout owns a refcounted
// heap allocation, per spec.md §3: "Str, List, Union (any recursive),
// Boxed are refcounted; a Struct is refcounted iff any field is."
func (n *Interner) IsRefcounted(id ID) bool {
	l := n.Lookup(id)
	switch l.Kind {
	case KindStr, KindList, KindBoxed, KindRecursivePointer:
		return true
	case KindStruct:
		for _, f := range l.Fields {
			if n.IsRefcounted(f) {
				return true
			}
		}
		return false
	case KindUnion:
		switch l.Union.Shape {
		case NonRecursive:
			return false
		default:
			return true
		}
	case KindLambdaSet:
		return n.IsRefcounted(l.Repr)
	default: // KindScalar
		return false
	}
}

// Alignment returns the required alignment, in bytes, of a value of this
// layout, per spec.md §3: "Alignment of a heap allocation is
// max(pointer-width, max field alignment)."
func (n *Interner) Alignment(id ID, word WordSize) int {
	l := n.Lookup(id)
	switch l.Kind {
	case KindScalar:
		return min(l.Scalar.byteSize(), int(word)*2) // Decimal (16B) never exceeds 2 words.
	case KindStr, KindList, KindBoxed, KindRecursivePointer:
		return int(word)
	case KindStruct:
		align := 1
		for _, f := range l.Fields {
			align = max(align, n.Alignment(f, word))
		}
		return align
	case KindUnion:
		switch l.Union.Shape {
		case NonRecursive:
			align := int(word) // tag word
			for _, arm := range l.Union.Arms {
				for _, f := range arm {
					align = max(align, n.Alignment(f, word))
				}
			}
			return align
		default:
			return int(word)
		}
	case KindLambdaSet:
		return n.Alignment(l.Repr, word)
	default:
		return int(word)
	}
}

// Size returns the in-memory size, in bytes, of a stack-resident value of
// this layout (the struct/NonRecursive-union "stack size" query called out
// in spec.md §2's component table). Heap-indirected kinds (recursive
// unions, Boxed) report a single pointer word, since that is all the
// containing value stores inline.
func (n *Interner) Size(id ID, word WordSize) int {
	l := n.Lookup(id)
	switch l.Kind {
	case KindScalar:
		return l.Scalar.byteSize()
	case KindStr, KindList:
		return int(word) * 3
	case KindBoxed, KindRecursivePointer:
		return int(word)
	case KindStruct:
		size := 0
		for _, f := range l.Fields {
			size = alignUp(size, n.Alignment(f, word)) + n.Size(f, word)
		}
		return alignUp(size, n.Alignment(id, word))
	case KindUnion:
		switch l.Union.Shape {
		case NonRecursive:
			maxArm := 0
			for _, arm := range l.Union.Arms {
				armSize := 0
				for _, f := range arm {
					armSize = alignUp(armSize, n.Alignment(f, word)) + n.Size(f, word)
				}
				maxArm = max(maxArm, armSize)
			}
			return alignUp(int(word)+maxArm, n.Alignment(id, word))
		default:
			return int(word)
		}
	case KindLambdaSet:
		return n.Size(l.Repr, word)
	default:
		return int(word)
	}
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) / align * align
}

// TagIDMask returns the bit mask used to clear the tag id packed into the
// low bits of a recursive union's data pointer, per spec.md §3: "the usable
// pointer is recovered by masking with -(pointer-width) (i.e. clearing
// log2(pointer-width) low bits)." Expressed here as the two's-complement
// negative machine word, matching the ABI note in spec.md §6.
func TagIDMask(word WordSize) int64 {
	return -int64(word)
}

// HasTailRecursiveField reports whether any arm of a Recursive union layout
// has a designated tail-recursive child field (spec.md §4.6), which is the
// precondition for emitting the tail-recursive loop form instead of the
// plain recursive form.
func (n *Interner) HasTailRecursiveField(id ID) bool {
	l := n.Lookup(id)
	if l.Kind != KindUnion || l.Union.Shape != Recursive {
		return false
	}
	for _, idx := range l.Union.TailRecField {
		if idx >= 0 {
			return true
		}
	}
	return false
}
