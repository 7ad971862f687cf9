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

package lir

import (
	"fmt"
	"strings"
)

func (v Integer) String() string { return fmt.Sprintf("%d", v.Value) }
func (v Var) String() string     { return v.Name }

// String renders a function's LIR in a flat, debugger-friendly form
// matching falcon's "== LIR(name) ==" banner style.
func (f *Function) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "function %s(%s):\n", f.Name, strings.Join(f.Params, ", "))
	for _, instr := range f.Body {
		fmt.Fprintf(&b, "  %s\n", instrString(instr))
	}
	return b.String()
}

func instrString(i Instr) string {
	switch n := i.(type) {
	case *Return:
		return fmt.Sprintf("Return(%v)", n.Value)
	case *Unary:
		return fmt.Sprintf("%v = Unary(%v, %v)", n.Dst, n.Op, n.Src)
	case *Binary:
		return fmt.Sprintf("%v = Binary(%v, %v, %v)", n.Dst, n.Op, n.Left, n.Right)
	case *Copy:
		return fmt.Sprintf("%v = Copy(%v)", n.Dst, n.Src)
	case *Jump:
		return fmt.Sprintf("Jump(%s)", n.Target)
	case *JumpIfZero:
		return fmt.Sprintf("JumpIfZero(%v, %s)", n.Cond, n.Target)
	case *JumpIfNotZero:
		return fmt.Sprintf("JumpIfNotZero(%v, %s)", n.Cond, n.Target)
	case *Label:
		return fmt.Sprintf("Label(%s)", n.Name)
	case *FuncCall:
		return fmt.Sprintf("%v = Call(%s, %v)", n.Dst, n.Name, n.Args)
	default:
		return fmt.Sprintf("<unknown instr %T>", i)
	}
}

// String renders the whole program, one function block at a time.
func (p *Program) String() string {
	var b strings.Builder
	for _, fn := range p.Funcs {
		b.WriteString(fn.String())
	}
	return b.String()
}
