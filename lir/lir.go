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

// Package lir is the flat three-address intermediate representation
// between the validated AST and instruction selection — a linear
// forward-only instruction list with explicit jumps and labels, in the
// style of falcon's lower_x86.go opcode set but generalized to this
// language's smaller operator surface.
package lir

import "github.com/cserra/shardc/ast"

// Val is either an immediate integer or a reference to a named temporary
// or resolved source variable.
type Val interface {
	valNode()
}

type Integer struct{ Value int64 }
type Var struct{ Name string }

func (Integer) valNode() {}
func (Var) valNode()     {}

// Instr is one LIR instruction.
type Instr interface {
	instrNode()
}

type Return struct{ Value Val }
type Unary struct {
	Op  ast.UnaryOp
	Src Val
	Dst Var
}
type Binary struct {
	Op    ast.BinaryOp
	Left  Val
	Right Val
	Dst   Var
}
type Copy struct {
	Src Val
	Dst Var
}
type Jump struct{ Target string }
type JumpIfZero struct {
	Cond   Val
	Target string
}
type JumpIfNotZero struct {
	Cond   Val
	Target string
}
type Label struct{ Name string }
type FuncCall struct {
	Name string
	Args []Val
	Dst  Var
}

func (*Return) instrNode()        {}
func (*Unary) instrNode()         {}
func (*Binary) instrNode()        {}
func (*Copy) instrNode()          {}
func (*Jump) instrNode()          {}
func (*JumpIfZero) instrNode()    {}
func (*JumpIfNotZero) instrNode() {}
func (*Label) instrNode()         {}
func (*FuncCall) instrNode()      {}

// Function is one lowered function body.
type Function struct {
	Name   string
	Params []string
	Body   []Instr
}

// Program is the lowered translation unit: only functions with a body
// produce a lir.Function, matching spec's treatment of forward
// declarations as having nothing left to lower.
type Program struct {
	Funcs []*Function
}
