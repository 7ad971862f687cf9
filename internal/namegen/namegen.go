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

// Package namegen mints fresh unique names for the resolver, labeler, and
// LIR lowering pass. The original compiler keeps this counter as a single
// process-wide atomic; here it is a small struct threaded explicitly
// through one Pipeline invocation, which keeps repeated compiles in the
// same test process from sharing state and makes output reproducible.
package namegen

import (
	"fmt"
	"sync/atomic"
)

// Counter mints unique suffixed names of the form "<base>.N". It is safe
// for concurrent use, though shardc only ever drives it single-threaded.
type Counter struct {
	n atomic.Int64
}

// New creates a Counter starting at zero.
func New() *Counter {
	return &Counter{}
}

// Next returns "<base>.N" for the next N, starting at 0.
func (c *Counter) Next(base string) string {
	n := c.n.Add(1) - 1
	return fmt.Sprintf("%s.%d", base, n)
}
