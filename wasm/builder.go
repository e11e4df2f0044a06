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

// Package wasm is a thin WebAssembly function-body emission interface
// (spec.md §6). It has no opinion on what the generator is emitting;
// it just turns a sequence of opcodes into bytes while tracking a
// simulated operand stack, so the backend's local-variable allocator can
// ask "where was symbol S last pushed?" and decide whether to re-materialize
// it or tee it into a local. No runtime behavior depends on this package.
package wasm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arc-lang/rcgen/internal/debug"
	"github.com/arc-lang/rcgen/ir"
)

// ValType is a WebAssembly value type, encoded as its one-byte type tag.
type ValType byte

const (
	I32 ValType = 0x7F
	I64 ValType = 0x7E
	F32 ValType = 0x7D
	F64 ValType = 0x7C
)

// Opcode is a WebAssembly instruction's encoding together with its stack
// effect: how many operands it pops, and whether it pushes a result.
// Variable-arity instructions (call, call_indirect) are not representable
// as an Opcode; they have dedicated Emit methods below.
type Opcode struct {
	Name string
	Byte byte
	Pops int
	Push bool
}

var (
	OpI32Const = Opcode{"i32.const", 0x41, 0, true}
	OpI64Const = Opcode{"i64.const", 0x42, 0, true}

	OpLocalGet = Opcode{"local.get", 0x20, 0, true}
	OpLocalSet = Opcode{"local.set", 0x21, 1, false}
	OpLocalTee = Opcode{"local.tee", 0x22, 1, true}

	OpI32Load  = Opcode{"i32.load", 0x28, 1, true}
	OpI64Load  = Opcode{"i64.load", 0x29, 1, true}
	OpI32Store = Opcode{"i32.store", 0x36, 2, false}
	OpI64Store = Opcode{"i64.store", 0x37, 2, false}

	OpI32Eqz = Opcode{"i32.eqz", 0x45, 1, true}
	OpI64Eqz = Opcode{"i64.eqz", 0x50, 1, true}
	OpI32Eq  = Opcode{"i32.eq", 0x46, 2, true}
	OpI64Eq  = Opcode{"i64.eq", 0x51, 2, true}
	OpI32LtS = Opcode{"i32.lt_s", 0x48, 2, true}
	OpI64LtS = Opcode{"i64.lt_s", 0x53, 2, true}
	OpI32GeS = Opcode{"i32.ge_s", 0x4E, 2, true}
	OpI64GeS = Opcode{"i64.ge_s", 0x59, 2, true}

	OpI32Add = Opcode{"i32.add", 0x6A, 2, true}
	OpI32Sub = Opcode{"i32.sub", 0x6B, 2, true}
	OpI64Add = Opcode{"i64.add", 0x7C, 2, true}
	OpI64Sub = Opcode{"i64.sub", 0x7D, 2, true}
	OpI32And = Opcode{"i32.and", 0x71, 2, true}
	OpI64And = Opcode{"i64.and", 0x83, 2, true}
	OpI32Shl = Opcode{"i32.shl", 0x74, 2, true}
	OpI64Shl = Opcode{"i64.shl", 0x86, 2, true}

	OpDrop        = Opcode{"drop", 0x1A, 1, false}
	OpUnreachable = Opcode{"unreachable", 0x00, 0, false}
)

const (
	opCall   = 0x10
	opF32    = 0x43
	opF64    = 0x44
	opEnd    = 0x0B
	opReturn = 0x0F
)

// push records that sym's value landed on top of the simulated operand
// stack, and the byte offset of the instruction that put it there.
type push struct {
	sym    ir.Symbol
	offset int
}

// Builder assembles one WebAssembly function body. The zero Builder is
// ready to use.
type Builder struct {
	code  []byte
	stack []push

	label string // for debug.Log context only
}

// New returns a Builder for a function body named label (used only in
// debug traces).
func New(label string) *Builder {
	return &Builder{label: label}
}

// Len returns the number of bytes emitted so far.
func (b *Builder) Len() int { return len(b.code) }

// Depth returns the current simulated operand-stack depth.
func (b *Builder) Depth() int { return len(b.stack) }

// Emit appends op's opcode byte, followed by imm encoded as signed LEB128
// integers (one per immediate operand: e.g. the constant for i32.const, the
// local index for local.get), and updates the simulated stack: op.Pops
// values are popped, and if op.Push, one value tagged with result is
// pushed.
func (b *Builder) Emit(op Opcode, result ir.Symbol, imm ...int64) *Builder {
	pos := len(b.code)
	b.code = append(b.code, op.Byte)
	for _, v := range imm {
		b.emitSigned(v)
	}
	b.pop(op.Name, op.Pops)
	if op.Push {
		b.stack = append(b.stack, push{sym: result, offset: pos})
	}
	debug.Log(nil, "wasm.Emit", "%s: %s %v -> depth %d", b.label, op.Name, imm, len(b.stack))
	return b
}

// EmitF32Const appends an f32.const instruction. Float immediates are
// encoded as little-endian raw bytes, never LEB128.
func (b *Builder) EmitF32Const(result ir.Symbol, v float32) *Builder {
	pos := len(b.code)
	b.code = append(b.code, opF32)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	b.code = append(b.code, buf[:]...)
	b.stack = append(b.stack, push{sym: result, offset: pos})
	return b
}

// EmitF64Const appends an f64.const instruction, encoded as little-endian
// raw bytes.
func (b *Builder) EmitF64Const(result ir.Symbol, v float64) *Builder {
	pos := len(b.code)
	b.code = append(b.code, opF64)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	b.code = append(b.code, buf[:]...)
	b.stack = append(b.stack, push{sym: result, offset: pos})
	return b
}

// EmitCall appends a call instruction targeting funcIndex, consuming
// len(args) operands and, if hasResult, pushing one value tagged with
// result. Call is variable-arity, so it isn't expressible as an Opcode.
func (b *Builder) EmitCall(funcIndex uint32, hasResult bool, result ir.Symbol, args ...ir.Symbol) *Builder {
	pos := len(b.code)
	b.code = append(b.code, opCall)
	b.emitUnsigned(uint64(funcIndex))
	b.pop("call", len(args))
	if hasResult {
		b.stack = append(b.stack, push{sym: result, offset: pos})
	}
	debug.Log(nil, "wasm.EmitCall", "%s: call %d (%d args) -> depth %d", b.label, funcIndex, len(args), len(b.stack))
	return b
}

// EmitReturn appends a return instruction. It does not alter the simulated
// stack: the values it consumes belong to the function's result arity, not
// to intra-body bookkeeping.
func (b *Builder) EmitReturn() *Builder {
	b.code = append(b.code, opReturn)
	return b
}

// Drop pops the top of the simulated stack without tracking which opcode
// did it; used after a value has been tee'd into a local and is no longer
// needed on the stack.
func (b *Builder) Drop() *Builder {
	return b.Emit(OpDrop, ir.Symbol{})
}

// LastPush returns the byte offset at which sym's value was most recently
// pushed onto the operand stack. The local-variable allocator uses this to
// decide whether re-materializing the producing instruction is cheaper than
// spilling to a local: a single-opcode constant is worth re-emitting, a
// multi-instruction computation is worth local.tee-ing once and reusing.
func (b *Builder) LastPush(sym ir.Symbol) (offset int, ok bool) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].sym.ID() == sym.ID() {
			return b.stack[i].offset, true
		}
	}
	return 0, false
}

// pop removes n values from the simulated stack, asserting the stack is
// deep enough: an underflow here means the emitting pass built IR whose
// dataflow doesn't match what it's telling the builder to emit.
func (b *Builder) pop(op string, n int) {
	debug.Assert(n <= len(b.stack), "wasm: %s pops %d but stack only has %d", op, n, len(b.stack))
	b.stack = b.stack[:len(b.stack)-n]
}

// emitUnsigned appends x as an unsigned LEB128 integer.
func (b *Builder) emitUnsigned(x uint64) {
	for {
		byte7 := byte(x & 0x7F)
		x >>= 7
		if x != 0 {
			b.code = append(b.code, byte7|0x80)
			continue
		}
		b.code = append(b.code, byte7)
		return
	}
}

// emitSigned appends x as a signed LEB128 integer.
func (b *Builder) emitSigned(x int64) {
	for {
		byte7 := byte(x & 0x7F)
		x >>= 7
		signBitSet := byte7&0x40 != 0
		done := (x == 0 && !signBitSet) || (x == -1 && signBitSet)
		if done {
			b.code = append(b.code, byte7)
			return
		}
		b.code = append(b.code, byte7|0x80)
	}
}

// Bytes returns the raw, unwrapped instruction bytes emitted so far: no
// locals vector, no terminating end opcode. Use Finish to wrap a complete
// function body.
func (b *Builder) Bytes() []byte {
	return b.code
}

// Local is one run of consecutively numbered locals of the same type, as
// the WebAssembly binary format groups them in a function body's locals
// vector.
type Local struct {
	Count uint32
	Type  ValType
}

// Finish wraps the emitted instructions into a complete WebAssembly
// function body: a vector of local declarations, the instruction bytes,
// and the terminating end opcode (spec.md §6: "a function-body builder").
func (b *Builder) Finish(locals []Local) []byte {
	var out []byte
	out = appendUnsigned(out, uint64(len(locals)))
	for _, l := range locals {
		out = appendUnsigned(out, uint64(l.Count))
		out = append(out, byte(l.Type))
	}
	out = append(out, b.code...)
	out = append(out, opEnd)
	return out
}

func appendUnsigned(out []byte, x uint64) []byte {
	for {
		byte7 := byte(x & 0x7F)
		x >>= 7
		if x != 0 {
			out = append(out, byte7|0x80)
			continue
		}
		return append(out, byte7)
	}
}

func (v ValType) String() string {
	switch v {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return fmt.Sprintf("valtype(%#x)", byte(v))
	}
}
