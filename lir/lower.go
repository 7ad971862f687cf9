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
	"github.com/samber/lo"

	"github.com/cserra/shardc/ast"
	"github.com/cserra/shardc/internal/fatal"
	"github.com/cserra/shardc/internal/namegen"
)

// Lower translates a validated program into LIR. Every statement/expression
// case below mirrors the lowering rules applied to the original tacky IR:
// gen_expr appends instructions and returns a Val describing where the
// result lives.
func Lower(prog *ast.Program, names *namegen.Counter) *Program {
	out := &Program{}
	for _, fn := range prog.Funcs {
		if fn.Body == nil {
			continue // forward declaration: nothing to lower
		}
		out.Funcs = append(out.Funcs, lowerFunc(fn, names))
	}
	return out
}

type lowerer struct {
	names *namegen.Counter
	instr []Instr
}

func lowerFunc(fn *ast.FuncDecl, names *namegen.Counter) *Function {
	l := &lowerer{names: names}
	l.block(fn.Body)
	// safety-net epilogue: a function whose control flow falls off the
	// end without an explicit return yields 0.
	l.emit(&Return{Value: Integer{0}})
	return &Function{Name: fn.Name, Params: fn.Params, Body: l.instr}
}

func (l *lowerer) emit(i Instr) { l.instr = append(l.instr, i) }

func (l *lowerer) fresh() Var { return Var{Name: l.names.Next("tmp")} }

func (l *lowerer) block(b *ast.Block) {
	for _, item := range b.Items {
		l.blockItem(item)
	}
}

func (l *lowerer) blockItem(item ast.BlockItem) {
	switch n := item.(type) {
	case *ast.VarDecl:
		if n.Init != nil {
			v := l.expr(n.Init)
			l.emit(&Copy{Src: v, Dst: Var{Name: n.Name}})
		}
	case *ast.FuncDecl:
		// forward declaration: nothing to lower
	default:
		l.stmt(item.(ast.Stmt))
	}
}

func (l *lowerer) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		if s.Value == nil {
			l.emit(&Return{Value: Integer{0}})
			return
		}
		l.emit(&Return{Value: l.expr(s.Value)})

	case *ast.ExprStmt:
		l.expr(s.Value)

	case *ast.NullStmt:
		// nothing

	case *ast.IfStmt:
		l.lowerIf(s)

	case *ast.CompoundStmt:
		l.block(s.Block)

	case *ast.BreakStmt:
		l.emit(&Jump{Target: "break_" + s.Label})

	case *ast.ContinueStmt:
		l.emit(&Jump{Target: "continue_" + s.Label})

	case *ast.WhileStmt:
		contLbl := "continue_" + s.Label
		breakLbl := "break_" + s.Label
		l.emit(&Label{Name: contLbl})
		cond := l.expr(s.Cond)
		l.emit(&JumpIfZero{Cond: cond, Target: breakLbl})
		l.stmt(s.Body)
		l.emit(&Jump{Target: contLbl})
		l.emit(&Label{Name: breakLbl})

	case *ast.DoWhileStmt:
		startLbl := l.names.Next("dowhile_start")
		contLbl := "continue_" + s.Label
		breakLbl := "break_" + s.Label
		l.emit(&Label{Name: startLbl})
		l.stmt(s.Body)
		l.emit(&Label{Name: contLbl})
		cond := l.expr(s.Cond)
		l.emit(&JumpIfNotZero{Cond: cond, Target: startLbl})
		l.emit(&Label{Name: breakLbl})

	case *ast.ForStmt:
		l.lowerFor(s)

	default:
		fatal.Unreachable("lower: unhandled statement %T", stmt)
	}
}

func (l *lowerer) lowerIf(s *ast.IfStmt) {
	cond := l.expr(s.Cond)
	if s.Else == nil {
		endLbl := l.names.Next("if_end")
		l.emit(&JumpIfZero{Cond: cond, Target: endLbl})
		l.stmt(s.Then)
		l.emit(&Label{Name: endLbl})
		return
	}
	elseLbl := l.names.Next("else")
	endLbl := l.names.Next("if_end")
	l.emit(&JumpIfZero{Cond: cond, Target: elseLbl})
	l.stmt(s.Then)
	l.emit(&Jump{Target: endLbl})
	l.emit(&Label{Name: elseLbl})
	l.stmt(s.Else)
	l.emit(&Label{Name: endLbl})
}

func (l *lowerer) lowerFor(s *ast.ForStmt) {
	switch init := s.Init.(type) {
	case *ast.VarDecl:
		l.blockItem(init)
	case *ast.ExprForInit:
		l.expr(init.Value)
	}

	startLbl := l.names.Next("for_start")
	contLbl := "continue_" + s.Label
	breakLbl := "break_" + s.Label

	l.emit(&Label{Name: startLbl})
	if s.Cond != nil {
		cond := l.expr(s.Cond)
		l.emit(&JumpIfZero{Cond: cond, Target: breakLbl})
	}
	l.stmt(s.Body)
	l.emit(&Label{Name: contLbl})
	if s.Post != nil {
		l.expr(s.Post)
	}
	l.emit(&Jump{Target: startLbl})
	l.emit(&Label{Name: breakLbl})
}

// expr lowers e, appending instructions and returning where the result
// lives.
func (l *lowerer) expr(e ast.Expr) Val {
	switch n := e.(type) {
	case *ast.IntegerLit:
		return Integer{n.Value}

	case *ast.Var:
		return Var{Name: n.Name}

	case *ast.Unary:
		src := l.expr(n.Operand)
		dst := l.fresh()
		l.emit(&Unary{Op: n.Op, Src: src, Dst: dst})
		return dst

	case *ast.Binary:
		switch n.Op {
		case ast.LogicalAnd:
			return l.lowerLogicalAnd(n)
		case ast.LogicalOr:
			return l.lowerLogicalOr(n)
		default:
			left := l.expr(n.Left)
			right := l.expr(n.Right)
			dst := l.fresh()
			l.emit(&Binary{Op: n.Op, Left: left, Right: right, Dst: dst})
			return dst
		}

	case *ast.Assignment:
		v, ok := n.LValue.(*ast.Var)
		if !ok {
			fatal.Unreachable("lower: assignment lvalue is not a Var after sema (%T)", n.LValue)
		}
		rhs := l.expr(n.RValue)
		dst := Var{Name: v.Name}
		l.emit(&Copy{Src: rhs, Dst: dst})
		return dst

	case *ast.Conditional:
		return l.lowerConditional(n)

	case *ast.FunctionCall:
		args := lo.Map(n.Args, func(a ast.Expr, _ int) Val { return l.expr(a) })
		dst := l.fresh()
		l.emit(&FuncCall{Name: n.Name, Args: args, Dst: dst})
		return dst

	default:
		fatal.Unreachable("lower: unhandled expression %T", e)
		return nil
	}
}

func (l *lowerer) lowerLogicalAnd(n *ast.Binary) Val {
	falseLbl := l.names.Next("and_false")
	endLbl := l.names.Next("and_end")
	dst := l.fresh()

	left := l.expr(n.Left)
	l.emit(&JumpIfZero{Cond: left, Target: falseLbl})
	right := l.expr(n.Right)
	l.emit(&JumpIfZero{Cond: right, Target: falseLbl})
	l.emit(&Copy{Src: Integer{1}, Dst: dst})
	l.emit(&Jump{Target: endLbl})
	l.emit(&Label{Name: falseLbl})
	l.emit(&Copy{Src: Integer{0}, Dst: dst})
	l.emit(&Label{Name: endLbl})
	return dst
}

func (l *lowerer) lowerLogicalOr(n *ast.Binary) Val {
	trueLbl := l.names.Next("or_true")
	endLbl := l.names.Next("or_end")
	dst := l.fresh()

	left := l.expr(n.Left)
	l.emit(&JumpIfNotZero{Cond: left, Target: trueLbl})
	right := l.expr(n.Right)
	l.emit(&JumpIfNotZero{Cond: right, Target: trueLbl})
	l.emit(&Copy{Src: Integer{0}, Dst: dst})
	l.emit(&Jump{Target: endLbl})
	l.emit(&Label{Name: trueLbl})
	l.emit(&Copy{Src: Integer{1}, Dst: dst})
	l.emit(&Label{Name: endLbl})
	return dst
}

func (l *lowerer) lowerConditional(n *ast.Conditional) Val {
	cond := l.expr(n.Cond)
	elseLbl := l.names.Next("cond_else")
	endLbl := l.names.Next("cond_end")
	dst := l.fresh()

	l.emit(&JumpIfZero{Cond: cond, Target: elseLbl})
	thenVal := l.expr(n.Then)
	l.emit(&Copy{Src: thenVal, Dst: dst})
	l.emit(&Jump{Target: endLbl})
	l.emit(&Label{Name: elseLbl})
	elseVal := l.expr(n.Else)
	l.emit(&Copy{Src: elseVal, Dst: dst})
	l.emit(&Label{Name: endLbl})
	return dst
}
