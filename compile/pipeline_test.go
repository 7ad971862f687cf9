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

package compile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.c")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestPipelineLexParseValidateLowerCodegenEmit(t *testing.T) {
	path := writeSource(t, "int main(void) { return 2; }")
	p := New()

	if err := p.Lex(path); err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if len(p.Tokens) == 0 {
		t.Fatalf("expected a non-empty token stream")
	}

	if err := p.Parse(path); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.AST.Funcs) != 1 {
		t.Fatalf("want 1 function, got %d", len(p.AST.Funcs))
	}

	if err := p.Validate(path); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if err := p.Lower(path); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if len(p.LIR.Funcs) != 1 {
		t.Fatalf("want 1 lowered function, got %d", len(p.LIR.Funcs))
	}

	if err := p.Codegen(path); err != nil {
		t.Fatalf("Codegen: %v", err)
	}
	if len(p.AsmIR.Funcs) != 1 {
		t.Fatalf("want 1 asm function, got %d", len(p.AsmIR.Funcs))
	}
}

func TestPipelineEmitProducesAssembledText(t *testing.T) {
	path := writeSource(t, "int main(void) { return 2 + 3 * 4; }")
	text, err := New().Emit(path)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(text, ".globl _main") {
		t.Fatalf("expected .globl _main in emitted text:\n%s", text)
	}
	if !strings.Contains(text, "ret") {
		t.Fatalf("expected a ret instruction in emitted text:\n%s", text)
	}
}

func TestPipelineLazyStagesReuseEarlierWork(t *testing.T) {
	path := writeSource(t, "int main(void) { return 0; }")
	p := New()
	if err := p.Codegen(path); err != nil {
		t.Fatalf("Codegen: %v", err)
	}
	if p.Tokens == nil || p.AST == nil || p.LIR == nil {
		t.Fatalf("Codegen should have transparently run Lex/Parse/Validate/Lower first")
	}
}

func TestPipelineRejectsUndeclaredVariable(t *testing.T) {
	path := writeSource(t, "int main(void) { return y; }")
	if err := New().Validate(path); err == nil {
		t.Fatalf("expected a validation error for an undeclared variable")
	}
}

func TestPipelineRejectsMissingSemicolon(t *testing.T) {
	path := writeSource(t, "int main(void) { return 0 }")
	if err := New().Parse(path); err == nil {
		t.Fatalf("expected a parse error for a missing semicolon")
	}
}
