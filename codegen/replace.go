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

// Replace walks fn's instructions once, resolving every Pseudo operand to
// a Stack slot via a, rewriting fn in place. Only operand positions that
// may legally hold a memory reference are touched — jump/label/call
// targets carry no Operand at all, so they're untouched automatically.
func Replace(fn *Function, a *StackAllocator) {
	for _, instr := range fn.Body {
		replaceInstr(instr, a)
	}
}

func resolve(o Operand, a *StackAllocator) Operand {
	if p, ok := o.(Pseudo); ok {
		return Stack{Offset: a.Allocate(p.Name, 4)}
	}
	return o
}

func replaceInstr(instr Instr, a *StackAllocator) {
	switch n := instr.(type) {
	case *Mov:
		n.Src, n.Dst = resolve(n.Src, a), resolve(n.Dst, a)
	case *Movb:
		n.Src, n.Dst = resolve(n.Src, a), resolve(n.Dst, a)
	case *UnaryInstr:
		n.Dst = resolve(n.Dst, a)
	case *BinaryInstr:
		n.Src, n.Dst = resolve(n.Src, a), resolve(n.Dst, a)
	case *Shift:
		n.Count, n.Dst = resolve(n.Count, a), resolve(n.Dst, a)
	case *Cmp:
		n.Src1, n.Src2 = resolve(n.Src1, a), resolve(n.Src2, a)
	case *Idiv:
		n.Src = resolve(n.Src, a)
	case *SetCC:
		n.Dst = resolve(n.Dst, a)
	case *Push:
		n.Src = resolve(n.Src, a)
	case *Cdq, *Jmp, *JmpCC, *LabelInstr, *AllocateStack, *DeallocateStack, *Call, *Ret:
		// no operand positions to rewrite
	}
}
