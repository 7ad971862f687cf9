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
// Package fatal holds the panics used for internal invariant violations —
// compiler bugs, not user-facing errors. User-facing mistakes are always
// reported as a returned error (see SyntaxError/SemanticError), never a panic.
package fatal

import "fmt"

// Unreachable panics with a formatted message. Call it where an exhaustive
// switch has a default case that must never trigger.
func Unreachable(format string, args ...interface{}) {
	panic("internal error: unreachable: " + fmt.Sprintf(format, args...))
}

// Assert panics if cond is false, describing the invariant that broke.
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic("internal error: invariant violated: " + fmt.Sprintf(format, args...))
	}
}
