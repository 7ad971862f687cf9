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

package codegen

// StackAllocator assigns each pseudo-register a frame offset the first
// time it's seen, in insertion order, and returns the same offset on every
// later lookup. It is owned by a single function's AsmIR and never
// outlives the Replace pass that drives it, matching
// original_source/src/codegen/stack_allocator.rs's insertion-ordered
// name->offset map plus running cursor.
type StackAllocator struct {
	offsets map[string]int
	cursor  int
}

// NewStackAllocator creates an allocator with its cursor at zero.
func NewStackAllocator() *StackAllocator {
	return &StackAllocator{offsets: map[string]int{}}
}

// Allocate returns the stack offset for name, reserving width more bytes
// on first sight.
func (a *StackAllocator) Allocate(name string, width int) int {
	if off, ok := a.offsets[name]; ok {
		return off
	}
	a.cursor += width
	off := -a.cursor
	a.offsets[name] = off
	return off
}

// Total is the number of bytes reserved so far.
func (a *StackAllocator) Total() int { return a.cursor }
