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

// Package compile wires the frontend, parser, sema, lir, and codegen
// packages into one staged Pipeline, mirroring original_source's
// Compiler::lex/parse/validate/tacky/codegen staged methods (there driven
// by the CLI's --lex/--parse/--validate/--tacky/--codegen flags) and
// falcon's compileY/CompileTheWorld top-level driver.
package compile

import (
	"github.com/cserra/shardc/ast"
	"github.com/cserra/shardc/codegen"
	"github.com/cserra/shardc/internal/frontend"
	"github.com/cserra/shardc/internal/namegen"
	"github.com/cserra/shardc/internal/token"
	"github.com/cserra/shardc/lir"
	"github.com/cserra/shardc/parser"
	"github.com/cserra/shardc/sema"
)

// Pipeline runs the compiler stages in order, capturing each named
// intermediate so a caller can stop early (`--parse`, `--tacky`, etc.)
// without re-running earlier stages.
type Pipeline struct {
	names *namegen.Counter

	Tokens []token.Token
	AST    *ast.Program
	LIR    *lir.Program
	AsmIR  *codegen.Program
}

// New creates a Pipeline with a fresh name counter.
func New() *Pipeline {
	return &Pipeline{names: namegen.New()}
}

// Lex expands includes/macros in path and tokenizes the result.
func (p *Pipeline) Lex(path string) error {
	src, err := frontend.Preprocess(path)
	if err != nil {
		return err
	}
	toks, err := frontend.NewScanner(src).Scan()
	if err != nil {
		return err
	}
	p.Tokens = toks
	return nil
}

// Parse runs Lex if needed, then parses the token stream into an AST.
func (p *Pipeline) Parse(path string) error {
	if p.Tokens == nil {
		if err := p.Lex(path); err != nil {
			return err
		}
	}
	prog, err := parser.Parse(p.Tokens)
	if err != nil {
		return err
	}
	p.AST = prog
	return nil
}

// Validate runs Parse if needed, then the three sema sub-passes in order.
func (p *Pipeline) Validate(path string) error {
	if p.AST == nil {
		if err := p.Parse(path); err != nil {
			return err
		}
	}
	return sema.Validate(p.AST, p.names)
}

// Lower runs Validate if needed, then lowers the AST to LIR.
func (p *Pipeline) Lower(path string) error {
	if p.AST == nil {
		if err := p.Validate(path); err != nil {
			return err
		}
	}
	p.LIR = lir.Lower(p.AST, p.names)
	return nil
}

// Codegen runs Lower if needed, then instruction-selects, replaces
// pseudos, and fixes up operand legality for every function.
func (p *Pipeline) Codegen(path string) error {
	if p.LIR == nil {
		if err := p.Lower(path); err != nil {
			return err
		}
	}
	prog := codegen.Select(p.LIR)
	for _, fn := range prog.Funcs {
		alloc := codegen.NewStackAllocator()
		codegen.Replace(fn, alloc)
		codegen.Fixup(fn, alloc.Total())
	}
	p.AsmIR = prog
	return nil
}

// Emit runs Codegen if needed and returns the final assembly text.
func (p *Pipeline) Emit(path string) (string, error) {
	if p.AsmIR == nil {
		if err := p.Codegen(path); err != nil {
			return "", err
		}
	}
	return codegen.Emit(p.AsmIR), nil
}
