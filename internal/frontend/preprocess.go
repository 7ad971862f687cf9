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
// Package frontend holds the external collaborators spec.md places outside
// the compiler core: macro expansion/preprocessing and lexical scanning. The
// core (parser, sema, lir, codegen) only ever sees a token.Token stream; it
// never reads source bytes or know about includes/macros.
package frontend

import (
	"bytes"
	"fmt"
	"os"

	"modernc.org/cc/v4"
)

// Preprocess expands includes and macros in the named C source file using
// the predefined macros of a linux/amd64 target, whatever the host is,
// returning the fully expanded
// translation unit as text. This is the "external preprocessor" spec.md §1
// and §6 describe — shardc never implements the C preprocessor itself.
func Preprocess(path string) (string, error) {
	cfg, err := cc.NewConfig("linux", "amd64")
	if err != nil {
		return "", fmt.Errorf("frontend: configuring preprocessor: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("frontend: opening %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	sources := []cc.Source{
		{Name: "<predefined>", Value: cfg.Predefined},
		{Name: "<builtin>", Value: cc.Builtin},
		{Name: path, Value: f},
	}
	if err := cc.Preprocess(cfg, sources, &out); err != nil {
		return "", fmt.Errorf("frontend: preprocessing %s: %w", path, err)
	}
	return out.String(), nil
}
