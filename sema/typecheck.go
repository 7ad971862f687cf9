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

package sema

import "github.com/cserra/shardc/ast"

type declType struct {
	isFunc bool
	arity  int // valid when isFunc
}

func intType() declType       { return declType{} }
func funcType(n int) declType { return declType{isFunc: true, arity: n} }

type symbolInfo struct {
	typ     declType
	defined bool
}

// TypeChecker enforces the one rule this language's type system has:
// every name is either an Int variable or a Func(arity), and every use must
// agree with its declaration. It also merges forward declarations with
// their eventual definition.
type TypeChecker struct {
	symbols map[string]symbolInfo
}

// NewTypeChecker creates a TypeChecker with a fresh global symbol table.
func NewTypeChecker() *TypeChecker {
	return &TypeChecker{symbols: map[string]symbolInfo{}}
}

// Check validates prog, returning the first SemanticError encountered.
func (c *TypeChecker) Check(prog *ast.Program) error {
	for _, fn := range prog.Funcs {
		if err := c.checkFuncDecl(fn); err != nil {
			return err
		}
	}
	return nil
}

func (c *TypeChecker) checkFuncDecl(fn *ast.FuncDecl) error {
	typ := funcType(len(fn.Params))
	hasBody := fn.Body != nil
	alreadyDefined := false

	if existing, ok := c.symbols[fn.Name]; ok {
		if existing.typ != typ {
			return errf(fn.Line, "incompatible declarations of %q", fn.Name)
		}
		alreadyDefined = existing.defined
		if alreadyDefined && hasBody {
			return errf(fn.Line, "%q is defined more than once", fn.Name)
		}
	}

	c.symbols[fn.Name] = symbolInfo{typ: typ, defined: alreadyDefined || hasBody}

	if fn.Body != nil {
		for _, p := range fn.Params {
			c.symbols[p] = symbolInfo{typ: intType()}
		}
		return c.checkBlock(fn.Body)
	}
	return nil
}

func (c *TypeChecker) checkBlock(block *ast.Block) error {
	for _, item := range block.Items {
		if err := c.checkBlockItem(item); err != nil {
			return err
		}
	}
	return nil
}

func (c *TypeChecker) checkBlockItem(item ast.BlockItem) error {
	switch n := item.(type) {
	case *ast.VarDecl:
		return c.checkVarDecl(n)
	case *ast.FuncDecl:
		return c.checkFuncDecl(n)
	default:
		return c.checkStmt(item.(ast.Stmt))
	}
}

func (c *TypeChecker) checkVarDecl(decl *ast.VarDecl) error {
	c.symbols[decl.Name] = symbolInfo{typ: intType()}
	if decl.Init != nil {
		return c.checkExpr(decl.Init)
	}
	return nil
}

func (c *TypeChecker) checkStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return c.checkExpr(s.Value)
	case *ast.ReturnStmt:
		if s.Value == nil {
			return nil
		}
		return c.checkExpr(s.Value)
	case *ast.NullStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return nil
	case *ast.IfStmt:
		if s.Else != nil {
			if err := c.checkStmt(s.Else); err != nil {
				return err
			}
		}
		if err := c.checkExpr(s.Cond); err != nil {
			return err
		}
		return c.checkStmt(s.Then)
	case *ast.CompoundStmt:
		return c.checkBlock(s.Block)
	case *ast.WhileStmt:
		if err := c.checkExpr(s.Cond); err != nil {
			return err
		}
		return c.checkStmt(s.Body)
	case *ast.DoWhileStmt:
		if err := c.checkStmt(s.Body); err != nil {
			return err
		}
		return c.checkExpr(s.Cond)
	case *ast.ForStmt:
		if err := c.checkForInit(s.Init); err != nil {
			return err
		}
		if s.Cond != nil {
			if err := c.checkExpr(s.Cond); err != nil {
				return err
			}
		}
		if s.Post != nil {
			if err := c.checkExpr(s.Post); err != nil {
				return err
			}
		}
		return c.checkStmt(s.Body)
	default:
		return errf(0, "typecheck: unhandled statement %T", stmt)
	}
}

func (c *TypeChecker) checkForInit(init ast.ForInit) error {
	switch n := init.(type) {
	case nil:
		return nil
	case *ast.VarDecl:
		return c.checkVarDecl(n)
	case *ast.ExprForInit:
		return c.checkExpr(n.Value)
	default:
		return errf(0, "typecheck: unhandled for-init %T", init)
	}
}

func (c *TypeChecker) checkExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Assignment:
		if _, ok := e.LValue.(*ast.Var); !ok {
			return errf(e.Line, "invalid lvalue")
		}
		if err := c.checkExpr(e.LValue); err != nil {
			return err
		}
		return c.checkExpr(e.RValue)
	case *ast.Var:
		if sym, ok := c.symbols[e.Name]; ok && sym.typ.isFunc {
			return errf(e.Line, "function name %s used as variable", e.Name)
		}
		return nil
	case *ast.Binary:
		if err := c.checkExpr(e.Left); err != nil {
			return err
		}
		return c.checkExpr(e.Right)
	case *ast.IntegerLit:
		return nil
	case *ast.Unary:
		return c.checkExpr(e.Operand)
	case *ast.Conditional:
		if err := c.checkExpr(e.Cond); err != nil {
			return err
		}
		if err := c.checkExpr(e.Then); err != nil {
			return err
		}
		return c.checkExpr(e.Else)
	case *ast.FunctionCall:
		if sym, ok := c.symbols[e.Name]; ok {
			if !sym.typ.isFunc {
				return errf(e.Line, "variable %s used as function name", e.Name)
			}
			if sym.typ.arity != len(e.Args) {
				return errf(e.Line, "function %s called with the wrong number of arguments", e.Name)
			}
		}
		for _, a := range e.Args {
			if err := c.checkExpr(a); err != nil {
				return err
			}
		}
		return nil
	default:
		return errf(0, "typecheck: unhandled expression %T", e)
	}
}
