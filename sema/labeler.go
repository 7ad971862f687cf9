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

// Labeler assigns a fresh unique label to every loop and threads it down
// to the break/continue statements inside, rejecting break/continue that
// appear outside any loop.
type Labeler struct {
	names *namegen.Counter
}

// NewLabeler creates a Labeler sharing names with the rest of the pipeline.
func NewLabeler(names *namegen.Counter) *Labeler {
	return &Labeler{names: names}
}

// Label mutates prog in place, filling in every loop's Label field and
// every Break/Continue's Label field.
func (l *Labeler) Label(prog *ast.Program) error {
	for _, fn := range prog.Funcs {
		if fn.Body == nil {
			continue
		}
		if err := l.labelBlock(fn.Body, ""); err != nil {
			return err
		}
	}
	return nil
}

func (l *Labeler) labelBlock(block *ast.Block, loopLabel string) error {
	for _, item := range block.Items {
		if stmt, ok := item.(ast.Stmt); ok {
			if err := l.labelStmt(stmt, loopLabel); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Labeler) labelStmt(stmt ast.Stmt, loopLabel string) error {
	switch s := stmt.(type) {
	case *ast.BreakStmt:
		if loopLabel == "" {
			return errf(s.Line, "break statement outside of loop")
		}
		s.Label = loopLabel
	case *ast.ContinueStmt:
		if loopLabel == "" {
			return errf(s.Line, "continue outside of loop")
		}
		s.Label = loopLabel
	case *ast.WhileStmt:
		label := l.names.Next("while")
		if err := l.labelStmt(s.Body, label); err != nil {
			return err
		}
		s.Label = label
	case *ast.DoWhileStmt:
		label := l.names.Next("dowhile")
		if err := l.labelStmt(s.Body, label); err != nil {
			return err
		}
		s.Label = label
	case *ast.ForStmt:
		label := l.names.Next("for")
		if err := l.labelStmt(s.Body, label); err != nil {
			return err
		}
		s.Label = label
	case *ast.CompoundStmt:
		return l.labelBlock(s.Block, loopLabel)
	case *ast.IfStmt:
		if err := l.labelStmt(s.Then, loopLabel); err != nil {
			return err
		}
		if s.Else != nil {
			return l.labelStmt(s.Else, loopLabel)
		}
	}
	return nil
}
