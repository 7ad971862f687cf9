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
	"testing"

	"github.com/cserra/shardc/ast"
	"github.com/cserra/shardc/internal/frontend"
	"github.com/cserra/shardc/internal/namegen"
	"github.com/cserra/shardc/parser"
)

func mustValidate(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := frontend.NewScanner(src).Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Validate(prog, namegen.New()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return prog
}

func validateErr(t *testing.T, src string) error {
	t.Helper()
	toks, err := frontend.NewScanner(src).Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return Validate(prog, namegen.New())
}

func TestResolverRenamesShadowedLocals(t *testing.T) {
	prog := mustValidate(t, `
		int main(void) {
			int x = 1;
			{
				int x = 2;
				x = x + 1;
			}
			return x;
		}
	`)
	outer := prog.Funcs[0].Body.Items[0].(*ast.VarDecl)
	inner := prog.Funcs[0].Body.Items[1].(*ast.CompoundStmt).Block.Items[0].(*ast.VarDecl)
	if outer.Name == inner.Name {
		t.Fatalf("shadowed declarations must resolve to distinct unique names, both got %q", outer.Name)
	}
	ret := prog.Funcs[0].Body.Items[2].(*ast.ReturnStmt)
	if got := ret.Value.(*ast.Var).Name; got != outer.Name {
		t.Fatalf("return should reference the outer %q, got %q", outer.Name, got)
	}
}

func TestResolverRejectsRedeclarationInSameScope(t *testing.T) {
	err := validateErr(t, `int main(void) { int x = 1; int x = 2; return x; }`)
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("want *SemanticError for duplicate declaration, got %T (%v)", err, err)
	}
}

func TestResolverRejectsUndeclaredVariable(t *testing.T) {
	err := validateErr(t, `int main(void) { return y; }`)
	if err == nil {
		t.Fatalf("expected an undeclared-variable error")
	}
}

func TestResolverRejectsInvalidLvalue(t *testing.T) {
	err := validateErr(t, `int main(void) { 1 = 2; return 0; }`)
	if err == nil {
		t.Fatalf("expected an invalid-lvalue error for `1 = 2`")
	}
}

func TestLabelerAssignsDistinctLoopLabels(t *testing.T) {
	prog := mustValidate(t, `
		int main(void) {
			while (1) {
				while (1) {
					break;
				}
				continue;
			}
			return 0;
		}
	`)
	outer := prog.Funcs[0].Body.Items[0].(*ast.WhileStmt)
	outerBody := outer.Body.(*ast.CompoundStmt).Block
	inner := outerBody.Items[0].(*ast.WhileStmt)
	innerBreak := inner.Body.(*ast.CompoundStmt).Block.Items[0].(*ast.BreakStmt)
	outerContinue := outerBody.Items[1].(*ast.ContinueStmt)

	if outer.Label == inner.Label {
		t.Fatalf("nested loops must receive distinct labels, both got %q", outer.Label)
	}
	if innerBreak.Label != inner.Label {
		t.Fatalf("break must bind to its innermost enclosing loop %q, got %q", inner.Label, innerBreak.Label)
	}
	if outerContinue.Label != outer.Label {
		t.Fatalf("continue after the inner loop exits must bind to the outer loop %q, got %q", outer.Label, outerContinue.Label)
	}
}

func TestLabelerRejectsBreakOutsideLoop(t *testing.T) {
	err := validateErr(t, `int main(void) { break; return 0; }`)
	if err == nil {
		t.Fatalf("expected a break-outside-loop error")
	}
}

func TestLabelerRejectsContinueOutsideLoop(t *testing.T) {
	err := validateErr(t, `int main(void) { continue; return 0; }`)
	if err == nil {
		t.Fatalf("expected a continue-outside-loop error")
	}
}

func TestTypeCheckMergesForwardDeclarationWithDefinition(t *testing.T) {
	mustValidate(t, `
		int add(int a, int b);
		int main(void) { return add(1, 2); }
		int add(int a, int b) { return a + b; }
	`)
}

func TestTypeCheckAcceptsBlockScopeForwardDeclaration(t *testing.T) {
	mustValidate(t, `int main(void) { int f(int); return f(1); }`)
}

func TestTypeCheckRejectsArityMismatch(t *testing.T) {
	err := validateErr(t, `
		int add(int a, int b) { return a + b; }
		int main(void) { return add(1); }
	`)
	if err == nil {
		t.Fatalf("expected an arity-mismatch error calling add/2 with one argument")
	}
}

func TestTypeCheckRejectsDuplicateDefinition(t *testing.T) {
	err := validateErr(t, `
		int f(void) { return 1; }
		int f(void) { return 2; }
	`)
	if err == nil {
		t.Fatalf("expected a duplicate-definition error")
	}
}

func TestTypeCheckRejectsVariableCalledAsFunction(t *testing.T) {
	err := validateErr(t, `int main(void) { int f = 1; return f(); }`)
	if err == nil {
		t.Fatalf("expected a variable-used-as-function error")
	}
}

func TestTypeCheckRejectsFunctionUsedAsVariable(t *testing.T) {
	err := validateErr(t, `
		int f(void) { return 1; }
		int main(void) { return f + 1; }
	`)
	if err == nil {
		t.Fatalf("expected a function-used-as-variable error")
	}
}
