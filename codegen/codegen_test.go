// Copyright (c) 2024 The shardc Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package codegen

import (
	"strings"
	"testing"

	"github.com/cserra/shardc/ast"
	"github.com/cserra/shardc/lir"
)

// buildAndLower runs every pass after instruction selection over a single
// hand-built LIR function, returning the finished asmir Function.
func buildAndLower(fn *lir.Function) *Function {
	prog := Select(&lir.Program{Funcs: []*lir.Function{fn}})
	out := prog.Funcs[0]
	alloc := NewStackAllocator()
	Replace(out, alloc)
	Fixup(out, alloc.Total())
	return out
}

func TestSelectReturnMovesIntoAX(t *testing.T) {
	fn := &lir.Function{Name: "main", Body: []lir.Instr{
		&lir.Return{Value: lir.Integer{Value: 42}},
	}}
	out := buildAndLower(fn)
	var sawMovToAX, sawRet bool
	for _, instr := range out.Body {
		if m, ok := instr.(*Mov); ok {
			if r, ok := m.Dst.(Register); ok && r.Reg == AX {
				sawMovToAX = true
			}
		}
		if _, ok := instr.(*Ret); ok {
			sawRet = true
		}
	}
	if !sawMovToAX || !sawRet {
		t.Fatalf("expected a mov into %%eax followed by ret")
	}
}

func TestSelectDivideUsesCdqAndIdiv(t *testing.T) {
	fn := &lir.Function{Name: "f", Body: []lir.Instr{
		&lir.Binary{Op: ast.Divide, Left: lir.Integer{Value: 10}, Right: lir.Integer{Value: 2}, Dst: lir.Var{Name: "q"}},
		&lir.Return{Value: lir.Var{Name: "q"}},
	}}
	out := buildAndLower(fn)
	var sawCdq, sawIdiv bool
	for _, instr := range out.Body {
		switch instr.(type) {
		case *Cdq:
			sawCdq = true
		case *Idiv:
			sawIdiv = true
		}
	}
	if !sawCdq || !sawIdiv {
		t.Fatalf("division must lower through cltd/idivl")
	}
}

func TestFixupRoutesImmediateIdivThroughScratch(t *testing.T) {
	fn := &lir.Function{Name: "f", Body: []lir.Instr{
		&lir.Binary{Op: ast.Modulus, Left: lir.Var{Name: "a"}, Right: lir.Integer{Value: 3}, Dst: lir.Var{Name: "m"}},
		&lir.Return{Value: lir.Var{Name: "m"}},
	}}
	out := buildAndLower(fn)
	for _, instr := range out.Body {
		if idiv, ok := instr.(*Idiv); ok {
			if _, isImm := idiv.Src.(Imm); isImm {
				t.Fatalf("idivl must never operate directly on an immediate: %#v", idiv)
			}
		}
	}
}

func TestFixupRejectsStackToStackMov(t *testing.T) {
	fn := &lir.Function{Name: "f", Body: []lir.Instr{
		&lir.Copy{Src: lir.Var{Name: "a"}, Dst: lir.Var{Name: "b"}},
		&lir.Return{Value: lir.Var{Name: "b"}},
	}}
	out := buildAndLower(fn)
	for _, instr := range out.Body {
		if m, ok := instr.(*Mov); ok {
			_, srcStack := m.Src.(Stack)
			_, dstStack := m.Dst.(Stack)
			if srcStack && dstStack {
				t.Fatalf("mov must never have two memory operands after fixup: %#v", m)
			}
		}
	}
}

func TestFixupRejectsCmpWithImmediateSecondOperand(t *testing.T) {
	// `1 < a` selects Cmp{Src1: a, Src2: 1} (operands reversed to match AT&T
	// semantics), putting the immediate in the position fixup must clear.
	fn := &lir.Function{Name: "f", Body: []lir.Instr{
		&lir.Binary{Op: ast.Less, Left: lir.Integer{Value: 1}, Right: lir.Var{Name: "a"}, Dst: lir.Var{Name: "r"}},
		&lir.Return{Value: lir.Var{Name: "r"}},
	}}
	out := buildAndLower(fn)
	for _, instr := range out.Body {
		if cmp, ok := instr.(*Cmp); ok {
			if _, isImm := cmp.Src2.(Imm); isImm {
				t.Fatalf("cmp's second operand must never be an immediate: %#v", cmp)
			}
		}
	}
}

func TestFixupPrependsAllocateStackRoundedTo16(t *testing.T) {
	fn := &lir.Function{Name: "f", Body: []lir.Instr{
		&lir.Copy{Src: lir.Integer{Value: 1}, Dst: lir.Var{Name: "a"}},
		&lir.Return{Value: lir.Var{Name: "a"}},
	}}
	out := buildAndLower(fn)
	alloc, ok := out.Body[0].(*AllocateStack)
	if !ok {
		t.Fatalf("want leading *AllocateStack, got %T", out.Body[0])
	}
	if alloc.Bytes%16 != 0 {
		t.Fatalf("frame size must round up to a 16-byte multiple, got %d", alloc.Bytes)
	}
}

func TestEmitProducesGloblAndLabel(t *testing.T) {
	fn := &lir.Function{Name: "main", Body: []lir.Instr{
		&lir.Return{Value: lir.Integer{Value: 0}},
	}}
	out := buildAndLower(fn)
	text := Emit(&Program{Funcs: []*Function{out}})
	if !strings.Contains(text, ".globl _main") {
		t.Fatalf("expected a .globl _main directive, got:\n%s", text)
	}
	if !strings.Contains(text, "_main:") {
		t.Fatalf("expected a _main: label, got:\n%s", text)
	}
	if !strings.Contains(text, ".section .note.GNU-stack") {
		t.Fatalf("expected the trailing GNU-stack note, got:\n%s", text)
	}
}

func TestStackAllocatorReusesOffsetForSameName(t *testing.T) {
	a := NewStackAllocator()
	first := a.Allocate("x", 4)
	second := a.Allocate("x", 4)
	if first != second {
		t.Fatalf("repeated allocation of the same name must return the same offset: %d != %d", first, second)
	}
	other := a.Allocate("y", 4)
	if other == first {
		t.Fatalf("distinct names must receive distinct offsets")
	}
}
