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
	"github.com/cserra/shardc/ast"
	"github.com/cserra/shardc/internal/fatal"
	"github.com/cserra/shardc/lir"
)

var relOp = map[ast.BinaryOp]CondCode{
	ast.Equal:          CCEqual,
	ast.NotEqual:       CCNotEqual,
	ast.Less:           CCLess,
	ast.LessOrEqual:    CCLessEqual,
	ast.Greater:        CCGreater,
	ast.GreaterOrEqual: CCGreaterEqual,
}

var arithOp = map[ast.BinaryOp]BinOp{
	ast.Add:        OpAdd,
	ast.Subtract:   OpSub,
	ast.Multiply:   OpMul,
	ast.BitwiseAnd: OpAnd,
	ast.BitwiseOr:  OpOr,
	ast.BitwiseXor: OpXor,
}

// Select runs instruction selection over every lowered function,
// producing a fresh AsmIR program with Pseudo operands still in place —
// the replace pass resolves those to Stack slots afterward.
func Select(prog *lir.Program) *Program {
	out := &Program{}
	for _, fn := range prog.Funcs {
		out.Funcs = append(out.Funcs, selectFunc(fn))
	}
	return out
}

type selector struct {
	instr []Instr
}

func (s *selector) emit(i Instr) { s.instr = append(s.instr, i) }

func selectFunc(fn *lir.Function) *Function {
	s := &selector{}

	for i, p := range fn.Params {
		dst := Pseudo{Name: p}
		if i < 6 {
			s.emit(&Mov{Src: Reg32(ArgRegs[i]), Dst: dst})
		} else {
			// args[6:] were pushed by the caller above the saved %rbp;
			// see spec's FuncCall lowering for the mirrored push order.
			s.emit(&Mov{Src: Stack{Offset: 16 + 8*(i-6)}, Dst: dst})
		}
	}

	for _, instr := range fn.Body {
		s.selectInstr(instr)
	}

	return &Function{Name: fn.Name, Body: s.instr}
}

func operand(v lir.Val) Operand {
	switch n := v.(type) {
	case lir.Integer:
		return Imm{Value: n.Value}
	case lir.Var:
		return Pseudo{Name: n.Name}
	default:
		fatal.Unreachable("codegen: unhandled lir.Val %T", v)
		return nil
	}
}

func (s *selector) selectInstr(instr lir.Instr) {
	switch n := instr.(type) {
	case *lir.Return:
		s.emit(&Mov{Src: operand(n.Value), Dst: Reg32(AX)})
		s.emit(&Ret{})

	case *lir.Unary:
		s.selectUnary(n)

	case *lir.Binary:
		s.selectBinary(n)

	case *lir.Copy:
		s.emit(&Mov{Src: operand(n.Src), Dst: Pseudo{Name: n.Dst.Name}})

	case *lir.Jump:
		s.emit(&Jmp{Target: n.Target})

	case *lir.JumpIfZero:
		s.emit(&Cmp{Src1: Imm{0}, Src2: operand(n.Cond)})
		s.emit(&JmpCC{CC: CCEqual, Target: n.Target})

	case *lir.JumpIfNotZero:
		s.emit(&Cmp{Src1: Imm{0}, Src2: operand(n.Cond)})
		s.emit(&JmpCC{CC: CCNotEqual, Target: n.Target})

	case *lir.Label:
		s.emit(&LabelInstr{Name: n.Name})

	case *lir.FuncCall:
		s.selectCall(n)

	default:
		fatal.Unreachable("codegen: unhandled lir.Instr %T", instr)
	}
}

func (s *selector) selectUnary(n *lir.Unary) {
	dst := Pseudo{Name: n.Dst.Name}
	if n.Op == ast.Not {
		s.emit(&Cmp{Src1: Imm{0}, Src2: operand(n.Src)})
		s.emit(&Mov{Src: Imm{0}, Dst: dst})
		s.emit(&SetCC{CC: CCEqual, Dst: dst})
		return
	}
	s.emit(&Mov{Src: operand(n.Src), Dst: dst})
	op := OpNeg
	if n.Op == ast.Complement {
		op = OpNot
	}
	s.emit(&UnaryInstr{Op: op, Dst: dst})
}

func (s *selector) selectBinary(n *lir.Binary) {
	dst := Pseudo{Name: n.Dst.Name}
	left := operand(n.Left)
	right := operand(n.Right)

	switch {
	case n.Op == ast.Divide || n.Op == ast.Modulus:
		s.emit(&Mov{Src: left, Dst: Reg32(AX)})
		s.emit(&Cdq{})
		s.emit(&Idiv{Src: right})
		result := Reg32(AX)
		if n.Op == ast.Modulus {
			result = Reg32(DX)
		}
		s.emit(&Mov{Src: result, Dst: dst})

	case n.Op == ast.LeftShift || n.Op == ast.RightShift:
		s.emit(&Mov{Src: left, Dst: dst})
		s.emit(&Shift{Left: n.Op == ast.LeftShift, Count: right, Dst: dst})

	default:
		if cc, ok := relOp[n.Op]; ok {
			// spec: Cmp r, l (right first, left second) to match AT&T semantics.
			s.emit(&Cmp{Src1: right, Src2: left})
			s.emit(&Mov{Src: Imm{0}, Dst: dst})
			s.emit(&SetCC{CC: cc, Dst: dst})
			return
		}
		op, ok := arithOp[n.Op]
		if !ok {
			fatal.Unreachable("codegen: unhandled binary op %v", n.Op)
		}
		s.emit(&Mov{Src: left, Dst: dst})
		s.emit(&BinaryInstr{Op: op, Src: right, Dst: dst})
	}
}

func (s *selector) selectCall(n *lir.FuncCall) {
	const nArgRegs = 6
	regArgs := n.Args
	var stackArgs []lir.Val
	if len(n.Args) > nArgRegs {
		regArgs = n.Args[:nArgRegs]
		stackArgs = n.Args[nArgRegs:]
	}

	padding := 0
	if len(stackArgs)%2 != 0 {
		padding = 8
	}
	if padding > 0 {
		s.emit(&AllocateStack{Bytes: padding})
	}

	for i, a := range regArgs {
		s.emit(&Mov{Src: operand(a), Dst: Reg32(ArgRegs[i])})
	}

	for i := len(stackArgs) - 1; i >= 0; i-- {
		arg := operand(stackArgs[i])
		switch arg.(type) {
		case Imm, Register:
			s.emit(&Push{Src: arg})
		default:
			s.emit(&Mov{Src: arg, Dst: Reg32(AX)})
			s.emit(&Push{Src: Reg64(AX)})
		}
	}

	s.emit(&Call{Name: n.Name})

	dealloc := len(stackArgs)*8 + padding
	if dealloc > 0 {
		s.emit(&DeallocateStack{Bytes: dealloc})
	}

	s.emit(&Mov{Src: Reg32(AX), Dst: Pseudo{Name: n.Dst.Name}})
}
