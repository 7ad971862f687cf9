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
	"fmt"
	"strings"
)

// Emit renders prog as AT&T-syntax x86-64 assembly text, ready to hand to
// a host assembler. It is a deterministic pretty-printer: the same
// Program always produces byte-identical text.
func Emit(prog *Program) string {
	var b strings.Builder
	for _, fn := range prog.Funcs {
		emitFunc(&b, fn)
	}
	b.WriteString(".section .note.GNU-stack,\"\",@progbits\n")
	return b.String()
}

func emitFunc(b *strings.Builder, fn *Function) {
	fmt.Fprintf(b, "\t.globl _%s\n", fn.Name)
	fmt.Fprintf(b, "_%s:\n", fn.Name)
	b.WriteString("\tpushq %rbp\n")
	b.WriteString("\tmovq %rsp, %rbp\n")
	for _, instr := range fn.Body {
		emitInstr(b, instr)
	}
}

func emitInstr(b *strings.Builder, instr Instr) {
	switch n := instr.(type) {
	case *AllocateStack:
		fmt.Fprintf(b, "\tsubq $%d, %%rsp\n", n.Bytes)
	case *DeallocateStack:
		fmt.Fprintf(b, "\taddq $%d, %%rsp\n", n.Bytes)
	case *Mov:
		fmt.Fprintf(b, "\tmovl %s, %s\n", n.Src, n.Dst)
	case *Movb:
		fmt.Fprintf(b, "\tmovb %s, %s\n", n.Src, n.Dst)
	case *UnaryInstr:
		fmt.Fprintf(b, "\t%s %s\n", unaryMnemonic(n.Op), n.Dst)
	case *BinaryInstr:
		fmt.Fprintf(b, "\t%s %s, %s\n", binaryMnemonic(n.Op), n.Src, n.Dst)
	case *Shift:
		fmt.Fprintf(b, "\t%s %s, %s\n", shiftMnemonic(n.Left), n.Count, n.Dst)
	case *Cmp:
		fmt.Fprintf(b, "\tcmpl %s, %s\n", n.Src1, n.Src2)
	case *Idiv:
		fmt.Fprintf(b, "\tidivl %s\n", n.Src)
	case *Cdq:
		b.WriteString("\tcltd\n")
	case *Jmp:
		fmt.Fprintf(b, "\tjmp L%s\n", n.Target)
	case *JmpCC:
		fmt.Fprintf(b, "\tj%s L%s\n", n.CC, n.Target)
	case *SetCC:
		fmt.Fprintf(b, "\tset%s %s\n", n.CC, setCCOperand(n.Dst))
	case *LabelInstr:
		fmt.Fprintf(b, "L%s:\n", n.Name)
	case *Push:
		fmt.Fprintf(b, "\tpushq %s\n", n.Src)
	case *Call:
		fmt.Fprintf(b, "\tcall _%s\n", n.Name)
	case *Ret:
		b.WriteString("\tmovq %rbp, %rsp\n")
		b.WriteString("\tpopq %rbp\n")
		b.WriteString("\tret\n")
	}
}

// setCCOperand renders SetCC's destination at 1-byte width: the opcode
// always writes a single byte regardless of the operand's logical width.
// A memory (Stack) operand needs no adjustment; only a Register name
// changes between widths.
func setCCOperand(o Operand) string {
	if r, ok := o.(Register); ok {
		return Reg8(r.Reg).String()
	}
	return fmt.Sprintf("%v", o)
}

func unaryMnemonic(op UnOp) string {
	if op == OpNeg {
		return "negl"
	}
	return "notl"
}

func binaryMnemonic(op BinOp) string {
	switch op {
	case OpAdd:
		return "addl"
	case OpSub:
		return "subl"
	case OpMul:
		return "imull"
	case OpAnd:
		return "andl"
	case OpOr:
		return "orl"
	case OpXor:
		return "xorl"
	default:
		return "???"
	}
}

func shiftMnemonic(left bool) string {
	if left {
		return "shll"
	}
	return "sarl"
}
