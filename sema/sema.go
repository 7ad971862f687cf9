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

// Validate runs the resolver, labeler, and type checker in that fixed
// order, stopping at the first failing pass. prog is mutated in place.
func Validate(prog *ast.Program, names *namegen.Counter) error {
	if err := NewResolver(names).Resolve(prog); err != nil {
		return err
	}
	if err := NewLabeler(names).Label(prog); err != nil {
		return err
	}
	return NewTypeChecker().Check(prog)
}
