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

// Package layout describes the canonical in-memory shapes (spec.md §3) that
// the rc package synthesizes reference-counting procedures for.
//
// A Layout is never self-referential as a Go value: a recursive union does
// not hold a pointer to itself, it holds the ID it was reserved under (see
// Interner.Reserve), and a RecursivePointer field carries that same ID.
// This keeps every Layout an ordinary, finite, arena- or heap-allocated Go
// struct while still letting the interner answer identity questions by
// comparing IDs.
package layout

import "fmt"

// ID is the identity of an interned Layout. The zero value, Invalid, never
// denotes a real layout.
type ID int32

// Invalid is the zero ID, reserved to mean "no layout".
const Invalid ID = 0

func (id ID) String() string {
	if id == Invalid {
		return "<invalid>"
	}
	return fmt.Sprintf("L%d", int32(id))
}

// Kind discriminates the shape of a Layout, per spec.md §3.
type Kind uint8

const (
	_ Kind = iota
	KindScalar
	KindStr
	KindList
	KindStruct
	KindUnion
	KindLambdaSet
	KindRecursivePointer
	KindBoxed
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindStr:
		return "Str"
	case KindList:
		return "List"
	case KindStruct:
		return "Struct"
	case KindUnion:
		return "Union"
	case KindLambdaSet:
		return "LambdaSet"
	case KindRecursivePointer:
		return "RecursivePointer"
	case KindBoxed:
		return "Boxed"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ScalarKind enumerates the non-refcounted leaf types of spec.md §3:
// Scalar(IntKind | FloatKind | Bool | Decimal).
type ScalarKind uint8

const (
	_ ScalarKind = iota
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	Bool
	Decimal
)

// byteSize is the storage size of a scalar kind, used by Alignment/Size in
// query.go.
func (k ScalarKind) byteSize() int {
	switch k {
	case Int8, UInt8, Bool:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Int64, UInt64, Float64:
		return 8
	case Decimal:
		return 16
	default:
		return 0
	}
}

func (k ScalarKind) String() string {
	switch k {
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case UInt8:
		return "UInt8"
	case UInt16:
		return "UInt16"
	case UInt32:
		return "UInt32"
	case UInt64:
		return "UInt64"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case Bool:
		return "Bool"
	case Decimal:
		return "Decimal"
	default:
		return fmt.Sprintf("ScalarKind(%d)", uint8(k))
	}
}

// UnionShape discriminates the five representations a tagged union may take,
// per spec.md §3.
type UnionShape uint8

const (
	_ UnionShape = iota
	NonRecursive
	Recursive
	NonNullableUnwrapped
	NullableWrapped
	NullableUnwrapped
)

func (s UnionShape) String() string {
	switch s {
	case NonRecursive:
		return "NonRecursive"
	case Recursive:
		return "Recursive"
	case NonNullableUnwrapped:
		return "NonNullableUnwrapped"
	case NullableWrapped:
		return "NullableWrapped"
	case NullableUnwrapped:
		return "NullableUnwrapped"
	default:
		return fmt.Sprintf("UnionShape(%d)", uint8(s))
	}
}

// Union holds the shape-specific payload of a KindUnion Layout.
type Union struct {
	Shape UnionShape

	// Arms holds, for NonRecursive and Recursive, the field layouts of every
	// tag arm in declaration order. For NonNullableUnwrapped it holds exactly
	// one arm (the single non-null variant's fields).
	Arms [][]ID

	// NullableTag is the tag id represented by the null pointer, for
	// NullableWrapped and NullableUnwrapped. -1 otherwise.
	NullableTag int

	// OtherFields holds the fields of the single non-null variant, for
	// NullableUnwrapped only.
	OtherFields []ID

	// TailRecField holds, per arm (parallel to Arms), the index within that
	// arm's field list of the tail-recursive child, or -1 if that arm has
	// none. Populated by whatever borrow-analysis-equivalent information the
	// caller supplies (spec.md §4.6); a nil slice means "no tail-recursive
	// field in any arm".
	TailRecField []int
}

// Layout is the canonical description of the in-memory shape of a value.
// The zero Layout is meaningless; construct one of the fields below, then
// intern it with an Interner.
type Layout struct {
	id   ID
	Kind Kind

	Scalar ScalarKind // valid iff Kind == KindScalar

	Elem ID // valid iff Kind == KindList

	Fields []ID // valid iff Kind == KindStruct

	Union Union // valid iff Kind == KindUnion

	Repr ID // valid iff Kind == KindLambdaSet

	Of ID // valid iff Kind == KindRecursivePointer

	Inner ID // valid iff Kind == KindBoxed
}

// ID returns the identity this layout was interned under. Zero (Invalid)
// until the layout has been interned.
func (l Layout) ID() ID { return l.id }

// ScalarOf builds a scalar layout value (not yet interned).
func ScalarOf(kind ScalarKind) Layout {
	return Layout{Kind: KindScalar, Scalar: kind}
}

// Str builds the string layout value (not yet interned).
func Str() Layout {
	return Layout{Kind: KindStr}
}

// ListOf builds a list layout with the given element layout id (not yet
// interned).
func ListOf(elem ID) Layout {
	return Layout{Kind: KindList, Elem: elem}
}

// StructOf builds a struct layout from its fields in declaration order (not
// yet interned).
func StructOf(fields ...ID) Layout {
	return Layout{Kind: KindStruct, Fields: fields}
}

// LambdaSetOf builds a transparent lambda-set wrapper around repr (not yet
// interned).
func LambdaSetOf(repr ID) Layout {
	return Layout{Kind: KindLambdaSet, Repr: repr}
}

// RecursivePointerTo builds a back-edge to the enclosing recursive union's
// own id (not yet interned; typically interned via Interner.Define using
// the id reserved for that union).
func RecursivePointerTo(of ID) Layout {
	return Layout{Kind: KindRecursivePointer, Of: of}
}

// BoxedOf builds a boxed-value layout around inner (not yet interned).
func BoxedOf(inner ID) Layout {
	return Layout{Kind: KindBoxed, Inner: inner}
}

// UnionOf builds a union layout of the given shape (not yet interned).
func UnionOf(u Union) Layout {
	if u.NullableTag == 0 && u.Shape != NullableWrapped && u.Shape != NullableUnwrapped {
		u.NullableTag = -1
	}
	return Layout{Kind: KindUnion, Union: u}
}
