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

// Fixup rewrites every instruction whose operands the real ISA can't
// encode, routing illegal combinations through R10/R11 scratch registers,
// and prepends the function's frame-setup AllocateStack. After this pass
// no arithmetic/compare/move instruction has two memory operands, no Idiv
// operates on an immediate, and Mul never writes to a memory destination
// directly.
func Fixup(fn *Function, stackTotal int) {
	frameSize := roundUp16(stackTotal)

	var out []Instr
	out = append(out, &AllocateStack{Bytes: frameSize})
	for _, instr := range fn.Body {
		out = append(out, fixupInstr(instr)...)
	}
	fn.Body = out
}

func roundUp16(n int) int {
	if n%16 == 0 {
		return n
	}
	return n + (16 - n%16)
}

func isStack(o Operand) bool {
	_, ok := o.(Stack)
	return ok
}

func isImm(o Operand) bool {
	_, ok := o.(Imm)
	return ok
}

func fixupInstr(instr Instr) []Instr {
	switch n := instr.(type) {
	case *Mov:
		if isStack(n.Src) && isStack(n.Dst) {
			return []Instr{
				&Mov{Src: n.Src, Dst: Reg32(R10)},
				&Mov{Src: Reg32(R10), Dst: n.Dst},
			}
		}
		return []Instr{n}

	case *Idiv:
		if isImm(n.Src) {
			return []Instr{
				&Mov{Src: n.Src, Dst: Reg32(R10)},
				&Idiv{Src: Reg32(R10)},
			}
		}
		return []Instr{n}

	case *BinaryInstr:
		if n.Op == OpMul {
			if isStack(n.Dst) {
				return []Instr{
					&Mov{Src: n.Dst, Dst: Reg32(R11)},
					&BinaryInstr{Op: OpMul, Src: n.Src, Dst: Reg32(R11)},
					&Mov{Src: Reg32(R11), Dst: n.Dst},
				}
			}
			return []Instr{n}
		}
		// Add/Sub/And/Or/Xor
		if isStack(n.Src) && isStack(n.Dst) {
			return []Instr{
				&Mov{Src: n.Src, Dst: Reg32(R10)},
				&BinaryInstr{Op: n.Op, Src: Reg32(R10), Dst: n.Dst},
			}
		}
		return []Instr{n}

	case *Shift:
		if isStack(n.Count) {
			return []Instr{
				&Movb{Src: n.Count, Dst: Reg8(CX)},
				&Shift{Left: n.Left, Count: Reg8(CX), Dst: n.Dst},
			}
		}
		return []Instr{n}

	case *Cmp:
		if isStack(n.Src1) && isStack(n.Src2) {
			return []Instr{
				&Mov{Src: n.Src1, Dst: Reg32(R10)},
				&Cmp{Src1: Reg32(R10), Src2: n.Src2},
			}
		}
		if isImm(n.Src2) {
			// cmp's second operand (the one actually written as the AT&T
			// destination-position operand) can never be an immediate.
			return []Instr{
				&Mov{Src: n.Src2, Dst: Reg32(R10)},
				&Cmp{Src1: n.Src1, Src2: Reg32(R10)},
			}
		}
		return []Instr{n}

	default:
		return []Instr{n}
	}
}
