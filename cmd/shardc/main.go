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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cserra/shardc/ast"
	"github.com/cserra/shardc/compile"
	"github.com/cserra/shardc/internal/token"
)

var command = &cobra.Command{
	Use:  "shardc source.c [-o output]",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := run(cmd, args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	command.PersistentFlags().StringP("output", "o", "", "output path override")
	command.PersistentFlags().BoolP("stop-at-object", "c", false, "stop after assembling, emit a .o")
	command.PersistentFlags().Bool("lex", false, "stop after lexing (print with --print-tokens)")
	command.PersistentFlags().Bool("parse", false, "stop after parsing (print with --print-ast)")
	command.PersistentFlags().Bool("validate", false, "stop after validation")
	command.PersistentFlags().Bool("tacky", false, "stop after lowering to LIR (print with --print-lir)")
	command.PersistentFlags().Bool("codegen", false, "stop after code generation (print with --print-asm)")
	command.PersistentFlags().Bool("print-tokens", false, "print the token stream")
	command.PersistentFlags().Bool("print-ast", false, "print the parsed AST")
	command.PersistentFlags().Bool("print-lir", false, "print the lowered LIR")
	command.PersistentFlags().Bool("print-asm", false, "print the generated assembly")
}

func main() {
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, source string) error {
	flags := cmd.PersistentFlags()
	output, _ := flags.GetString("output")
	stopAtObject, _ := flags.GetBool("stop-at-object")
	stopLex, _ := flags.GetBool("lex")
	stopParse, _ := flags.GetBool("parse")
	stopValidate, _ := flags.GetBool("validate")
	stopTacky, _ := flags.GetBool("tacky")
	stopCodegen, _ := flags.GetBool("codegen")
	printTokens, _ := flags.GetBool("print-tokens")
	printAST, _ := flags.GetBool("print-ast")
	printLIR, _ := flags.GetBool("print-lir")
	printAsm, _ := flags.GetBool("print-asm")

	p := compile.New()

	switch {
	case stopLex:
		if err := p.Lex(source); err != nil {
			return err
		}
		if printTokens {
			printTokenStream(p.Tokens)
		}
		return nil

	case stopParse:
		if err := p.Parse(source); err != nil {
			return err
		}
		if printAST {
			printASTDump(source, p.AST)
		}
		return nil

	case stopValidate:
		return p.Validate(source)

	case stopTacky:
		if err := p.Lower(source); err != nil {
			return err
		}
		if printLIR {
			fmt.Fprintf(os.Stderr, "== LIR(%s) ==\n%s", source, p.LIR)
		}
		return nil

	case stopCodegen:
		if err := p.Codegen(source); err != nil {
			return err
		}
		if printAsm {
			text, err := p.Emit(source)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "== ASM(%s) ==\n%s", source, text)
		}
		return nil
	}

	if printTokens {
		if err := p.Lex(source); err != nil {
			return err
		}
		printTokenStream(p.Tokens)
	}

	text, err := p.Emit(source)
	if err != nil {
		return err
	}
	if printAsm {
		fmt.Fprintf(os.Stderr, "== ASM(%s) ==\n%s", source, text)
	}

	asmPath, err := writeAsmFile(source, text)
	if err != nil {
		return err
	}
	defer os.Remove(asmPath)

	if output == "" {
		if stopAtObject {
			output = withExtension(source, ".o")
		} else {
			output = withExtension(source, "")
		}
	}
	return assemble(asmPath, output, stopAtObject)
}

func printTokenStream(toks []token.Token) {
	for _, t := range toks {
		fmt.Fprintln(os.Stderr, t.String())
	}
}

// printASTDump walks prog depth-first with ast.Walk, parents before
// children, printing one line per node under the "== AST(...) ==" banner.
func printASTDump(source string, prog *ast.Program) {
	fmt.Fprintf(os.Stderr, "== AST(%s) ==\n", source)
	ast.Walk(prog, func(n ast.Node) {
		fmt.Fprintf(os.Stderr, "%T\n", n)
	})
}
