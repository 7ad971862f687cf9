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
	"testing"

	"github.com/cserra/shardc/internal/frontend"
	"github.com/cserra/shardc/internal/namegen"
	"github.com/cserra/shardc/parser"
	"github.com/cserra/shardc/sema"
)

func lowerSrc(t *testing.T, src string) *Program {
	t.Helper()
	toks, err := frontend.NewScanner(src).Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	names := namegen.New()
	if err := sema.Validate(prog, names); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return Lower(prog, names)
}

func TestLowerSkipsForwardDeclarations(t *testing.T) {
	lir := lowerSrc(t, `
		int f(int a);
		int main(void) { return 0; }
		int f(int a) { return a; }
	`)
	if len(lir.Funcs) != 2 {
		t.Fatalf("want 2 lowered functions (forward decl excluded), got %d", len(lir.Funcs))
	}
}

func TestLowerReturnAppendsSafetyNet(t *testing.T) {
	lir := lowerSrc(t, `int main(void) { int x = 1; }`)
	fn := lir.Funcs[0]
	last, ok := fn.Body[len(fn.Body)-1].(*Return)
	if !ok {
		t.Fatalf("want trailing *Return safety net, got %T", fn.Body[len(fn.Body)-1])
	}
	if v, ok := last.Value.(Integer); !ok || v.Value != 0 {
		t.Fatalf("safety-net return should yield 0, got %#v", last.Value)
	}
}

func TestLowerLogicalAndShortCircuits(t *testing.T) {
	lir := lowerSrc(t, `int main(void) { return 1 && 0; }`)
	fn := lir.Funcs[0]
	var sawFalseJump, sawCopyOne, sawCopyZero bool
	for _, instr := range fn.Body {
		switch i := instr.(type) {
		case *JumpIfZero:
			sawFalseJump = true
		case *Copy:
			if v, ok := i.Src.(Integer); ok {
				if v.Value == 1 {
					sawCopyOne = true
				}
				if v.Value == 0 {
					sawCopyZero = true
				}
			}
		}
	}
	if !sawFalseJump || !sawCopyOne || !sawCopyZero {
		t.Fatalf("&& lowering should jump-if-zero past a 1-copy to a 0-copy, got %s", fn)
	}
}

func TestLowerConditionalBothArmsCopyToSameDst(t *testing.T) {
	lir := lowerSrc(t, `int main(void) { return 1 ? 2 : 3; }`)
	fn := lir.Funcs[0]
	var dsts []Var
	for _, instr := range fn.Body {
		if c, ok := instr.(*Copy); ok {
			if lit, ok := c.Src.(Integer); ok && (lit.Value == 2 || lit.Value == 3) {
				dsts = append(dsts, c.Dst)
			}
		}
	}
	if len(dsts) != 2 || dsts[0] != dsts[1] {
		t.Fatalf("both conditional arms must copy into the same temporary, got %v", dsts)
	}
}

func TestLowerWhileLoopLabelsMatchBreakContinue(t *testing.T) {
	lir := lowerSrc(t, `
		int main(void) {
			while (1) {
				break;
			}
			return 0;
		}
	`)
	fn := lir.Funcs[0]
	var sawBreakTarget, sawContinueTarget bool
	for _, instr := range fn.Body {
		switch i := instr.(type) {
		case *Label:
			if len(i.Name) > 6 && i.Name[:6] == "break_" {
				sawBreakTarget = true
			}
			if len(i.Name) > 9 && i.Name[:9] == "continue_" {
				sawContinueTarget = true
			}
		}
	}
	if !sawBreakTarget || !sawContinueTarget {
		t.Fatalf("while loop must emit both break_ and continue_ labels, got %s", fn)
	}
}

func TestLowerFunctionCallArgsInOrder(t *testing.T) {
	lir := lowerSrc(t, `
		int f(int a, int b);
		int main(void) { return f(1, 2); }
	`)
	fn := lir.Funcs[0] // main, since f has no body and is excluded
	var call *FuncCall
	for _, instr := range fn.Body {
		if c, ok := instr.(*FuncCall); ok {
			call = c
		}
	}
	if call == nil {
		t.Fatalf("expected a FuncCall instruction")
	}
	if len(call.Args) != 2 {
		t.Fatalf("want 2 args, got %d", len(call.Args))
	}
	if a, ok := call.Args[0].(Integer); !ok || a.Value != 1 {
		t.Fatalf("want first arg 1, got %#v", call.Args[0])
	}
	if a, ok := call.Args[1].(Integer); !ok || a.Value != 2 {
		t.Fatalf("want second arg 2, got %#v", call.Args[1])
	}
}
