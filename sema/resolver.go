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

import (
	"github.com/cserra/shardc/ast"
	"github.com/cserra/shardc/internal/namegen"
)

type linkage int

const (
	linkNone linkage = iota
	linkExternal
)

type identInfo struct {
	uniqueName   string
	fromCurScope bool
	linkage      linkage
}

type identMap map[string]identInfo

// clone copies the map, flipping every entry's fromCurScope to false so
// shadowing is allowed in the new (inner) scope while redeclaration in the
// same scope is still caught.
func (m identMap) clone() identMap {
	out := make(identMap, len(m))
	for k, v := range m {
		v.fromCurScope = false
		out[k] = v
	}
	return out
}

// Resolver performs alpha-renaming of every identifier: it rewrites each
// declaration to a fresh globally-unique name and rewrites every reference
// to match, enforcing C block-scoping along the way. It accepts a repeated
// function definition; the type checker is the pass that rejects it.
type Resolver struct {
	names *namegen.Counter
}

// NewResolver creates a Resolver. names is shared with the rest of the
// pipeline's fresh-name generation (labeler, lowering).
func NewResolver(names *namegen.Counter) *Resolver {
	return &Resolver{names: names}
}

// Resolve mutates prog in place, renaming every declaration and reference.
func (r *Resolver) Resolve(prog *ast.Program) error {
	globals := identMap{}
	for _, fn := range prog.Funcs {
		if err := r.resolveFuncDecl(fn, globals); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveFuncDecl(fn *ast.FuncDecl, globals identMap) error {
	if prev, ok := globals[fn.Name]; ok {
		if prev.fromCurScope && prev.linkage != linkExternal {
			return errf(fn.Line, "%q already declared", fn.Name)
		}
	} else {
		globals[fn.Name] = identInfo{uniqueName: fn.Name, fromCurScope: true, linkage: linkExternal}
	}

	inner := globals.clone()
	for i, param := range fn.Params {
		unique, err := r.resolveLocalVar(param, fn.Line, inner)
		if err != nil {
			return err
		}
		fn.Params[i] = unique
	}

	if fn.Body != nil {
		return r.resolveBlock(fn.Body, inner)
	}
	return nil
}

func (r *Resolver) resolveBlock(block *ast.Block, scope identMap) error {
	for _, item := range block.Items {
		if err := r.resolveBlockItem(item, scope); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveBlockItem(item ast.BlockItem, scope identMap) error {
	switch n := item.(type) {
	case *ast.VarDecl:
		return r.resolveVarDecl(n, scope)
	case *ast.FuncDecl:
		return r.resolveLocalFuncDecl(n, scope)
	default:
		return r.resolveStmt(item.(ast.Stmt), scope)
	}
}

// resolveLocalFuncDecl registers a block-scope forward declaration
// (`int f(int);`) into scope. There is no body to resolve params against,
// only the one-definition-per-scope check falcon-style resolveFuncDecl
// applies at program scope.
func (r *Resolver) resolveLocalFuncDecl(fn *ast.FuncDecl, scope identMap) error {
	if prev, ok := scope[fn.Name]; ok {
		if prev.fromCurScope && prev.linkage != linkExternal {
			return errf(fn.Line, "%q already declared", fn.Name)
		}
	} else {
		scope[fn.Name] = identInfo{uniqueName: fn.Name, fromCurScope: true, linkage: linkExternal}
	}
	return nil
}

func (r *Resolver) resolveStmt(stmt ast.Stmt, scope identMap) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return r.resolveExpr(&s.Value, scope)
	case *ast.ReturnStmt:
		if s.Value == nil {
			return nil
		}
		return r.resolveExpr(&s.Value, scope)
	case *ast.NullStmt:
		return nil
	case *ast.IfStmt:
		if s.Else != nil {
			if err := r.resolveStmt(s.Else, scope); err != nil {
				return err
			}
		}
		if err := r.resolveExpr(&s.Cond, scope); err != nil {
			return err
		}
		return r.resolveStmt(s.Then, scope)
	case *ast.CompoundStmt:
		return r.resolveBlock(s.Block, scope.clone())
	case *ast.BreakStmt, *ast.ContinueStmt:
		return nil
	case *ast.WhileStmt:
		if err := r.resolveExpr(&s.Cond, scope); err != nil {
			return err
		}
		return r.resolveStmt(s.Body, scope)
	case *ast.DoWhileStmt:
		if err := r.resolveStmt(s.Body, scope); err != nil {
			return err
		}
		return r.resolveExpr(&s.Cond, scope)
	case *ast.ForStmt:
		inner := scope.clone()
		if err := r.resolveForInit(s.Init, inner); err != nil {
			return err
		}
		if s.Cond != nil {
			if err := r.resolveExpr(&s.Cond, inner); err != nil {
				return err
			}
		}
		if s.Post != nil {
			if err := r.resolveExpr(&s.Post, inner); err != nil {
				return err
			}
		}
		return r.resolveStmt(s.Body, inner)
	default:
		return errf(0, "resolver: unhandled statement %T", stmt)
	}
}

func (r *Resolver) resolveForInit(init ast.ForInit, scope identMap) error {
	switch n := init.(type) {
	case nil:
		return nil
	case *ast.VarDecl:
		return r.resolveVarDecl(n, scope)
	case *ast.ExprForInit:
		return r.resolveExpr(&n.Value, scope)
	default:
		return errf(0, "resolver: unhandled for-init %T", init)
	}
}

func (r *Resolver) resolveLocalVar(name string, line int, scope identMap) (string, error) {
	if info, ok := scope[name]; ok && info.fromCurScope {
		return "", errf(line, "%q already declared", name)
	}
	unique := r.names.Next(name)
	scope[name] = identInfo{uniqueName: unique, fromCurScope: true, linkage: linkNone}
	return unique, nil
}

func (r *Resolver) resolveVarDecl(decl *ast.VarDecl, scope identMap) error {
	unique, err := r.resolveLocalVar(decl.Name, decl.Line, scope)
	if err != nil {
		return err
	}
	decl.Name = unique
	if decl.Init != nil {
		return r.resolveExpr(&decl.Init, scope)
	}
	return nil
}

// resolveExpr renames Var references and FunctionCall callees by setting
// their Name fields in place; it never replaces the node the expr slot
// holds.
func (r *Resolver) resolveExpr(expr *ast.Expr, scope identMap) error {
	switch e := (*expr).(type) {
	case *ast.Assignment:
		if _, ok := e.LValue.(*ast.Var); !ok {
			return errf(e.Line, "invalid lvalue")
		}
		if err := r.resolveExpr(&e.LValue, scope); err != nil {
			return err
		}
		return r.resolveExpr(&e.RValue, scope)
	case *ast.Var:
		info, ok := scope[e.Name]
		if !ok {
			return errf(e.Line, "undeclared variable %s", e.Name)
		}
		e.Name = info.uniqueName
		return nil
	case *ast.Binary:
		if err := r.resolveExpr(&e.Left, scope); err != nil {
			return err
		}
		return r.resolveExpr(&e.Right, scope)
	case *ast.IntegerLit:
		return nil
	case *ast.Unary:
		return r.resolveExpr(&e.Operand, scope)
	case *ast.Conditional:
		if err := r.resolveExpr(&e.Cond, scope); err != nil {
			return err
		}
		if err := r.resolveExpr(&e.Then, scope); err != nil {
			return err
		}
		return r.resolveExpr(&e.Else, scope)
	case *ast.FunctionCall:
		info, ok := scope[e.Name]
		if !ok {
			return errf(e.Line, "undeclared function %s", e.Name)
		}
		e.Name = info.uniqueName
		for i := range e.Args {
			if err := r.resolveExpr(&e.Args[i], scope); err != nil {
				return err
			}
		}
		return nil
	default:
		return errf(0, "resolver: unhandled expression %T", e)
	}
}
