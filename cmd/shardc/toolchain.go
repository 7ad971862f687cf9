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
	"os/exec"
)

// assemble invokes the host cc as an assembler+linker (or assembler only,
// with stopAtObject) — a thin os/exec wrapper in the same shape as
// original_source's gcc::preprocess, kept separate so a `-c` flag can stop
// short of linking.
func assemble(asmPath, outPath string, stopAtObject bool) error {
	args := []string{asmPath, "-o", outPath}
	if stopAtObject {
		args = append([]string{"-c"}, args...)
	}
	cmd := exec.Command("cc", args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("toolchain: assembling %s: %w", asmPath, err)
	}
	return nil
}

// writeAsmFile writes text to a sibling ".s" file of source, the temp-file
// emitter behavior original_source's Compiler::compile performs before
// handing off to the assembler and removing the file afterward.
func writeAsmFile(source, text string) (string, error) {
	asmPath := withExtension(source, ".s")
	if err := os.WriteFile(asmPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("toolchain: writing %s: %w", asmPath, err)
	}
	return asmPath, nil
}

func withExtension(path, ext string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + ext
		}
	}
	return path + ext
}
