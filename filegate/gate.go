/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package filegate is the File Gate of spec.md §4.2: opens sources and
// destinations under policy (stdin/stdout passthrough, refusal of
// non-regular files, self-overwrite detection, interactive overwrite
// prompt, mode/mtime capture).
package filegate

import (
	"io"
	"os"

	"github.com/nabbar/zstream/console"
	"github.com/nabbar/zstream/pathname"
	"github.com/nabbar/zstream/preferences"
	"github.com/nabbar/zstream/xerrors"
)

// StdinName and StdoutName are the sentinel strings recognized by exact
// match (spec.md §6: "recognized by pointer-equality ... in source but by
// exact string match in portable rewrites").
const (
	StdinName  = "-"
	StdoutName = "-"
)

const dictSizeCapDefault = 32 << 20

// isSpecialName guards the Windows "NUL" sentinel the way the source does
// (spec.md §9 Open Question (b)), mirrored with "/dev/null" for symmetry.
func isSpecialName(name string) bool {
	switch name {
	case "NUL", "nul", os.DevNull:
		return true
	default:
		return false
	}
}

// OpenSource opens path for reading under policy. Returns a nil handle and
// a Kind() == KindPolicyRefusal error for files that should be skipped, not
// failed.
func OpenSource(path string, allowBlockDevice bool) (io.ReadCloser, xerrors.Error) {
	if path == StdinName {
		return os.Stdin, nil
	}
	if isSpecialName(path) {
		return nil, xerrors.NotRegularFile.Errorf("%q is a null-device sentinel, not a regular file", path)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, xerrors.ReadError.Error(err)
	}

	mode := fi.Mode()
	switch {
	case mode.IsRegular():
		// ok
	case mode&os.ModeNamedPipe != 0:
		// ok, FIFO
	case mode&os.ModeDevice != 0 && mode&os.ModeCharDevice == 0:
		if !allowBlockDevice {
			return nil, xerrors.BlockDeviceDenied.Error()
		}
	default:
		return nil, xerrors.NotRegularFile.Errorf("%q is not a regular file, FIFO, or permitted block device", path)
	}

	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, xerrors.ReadError.Error(err)
	}
	return f, nil
}

// Prompter asks the user a yes/no question; production callers pass a
// console.PromptBool closure over os.Stdin, tests inject a canned answer.
type Prompter func(text string) (bool, error)

// OpenDestination opens dst for writing under policy. srcPath, if
// non-empty, is checked against dst for identity (spec.md §3's
// inode/device same-file rule). verbosityAllowsPrompt gates whether a
// declined prompt is even attempted versus an outright refusal.
func OpenDestination(prefs *preferences.Preferences, srcPath, dst string, mode os.FileMode, prompt Prompter, verbosityAllowsPrompt bool) (*os.File, xerrors.Error) {
	if dst == StdoutName {
		prefs.SparseMode = preferences.SparseOff
		return os.Stdout, nil
	}

	if srcPath != "" && srcPath != StdinName && pathname.SameFile(srcPath, dst) {
		return nil, xerrors.SelfOverwrite.Errorf("destination %q resolves to the same file as source", dst)
	}

	if fi, err := os.Stat(dst); err == nil && fi.Mode().IsRegular() {
		switch prefs.Overwrite {
		case preferences.OverwriteForce:
			if err := os.Remove(dst); err != nil {
				return nil, xerrors.WriteError.Error(err)
			}
		default:
			if !verbosityAllowsPrompt || prompt == nil {
				return nil, xerrors.PromptDeclined.Errorf("%q exists, refusing without confirmation", dst)
			}
			ok, err := prompt("overwrite " + dst)
			if err != nil || !ok {
				return nil, xerrors.PromptDeclined.Errorf("user declined to overwrite %q", dst)
			}
			if err := os.Remove(dst); err != nil {
				return nil, xerrors.WriteError.Error(err)
			}
		}
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return nil, xerrors.WriteError.Error(err)
	}
	return f, nil
}

// DefaultPrompter asks on os.Stdin with a colored console prefix.
func DefaultPrompter(text string) (bool, error) {
	return console.PromptBool(os.Stdin, text)
}

// LoadDict reads path into memory, capped at cap bytes (32 MiB when cap is
// not positive; the Batch Driver passes 0 outside patch-from mode and, in
// patch-from mode, its memory limit raised to fit the reference file). An
// empty path yields an empty buffer.
func LoadDict(path string, cap int64) ([]byte, xerrors.Error) {
	if path == "" {
		return nil, nil
	}
	if cap <= 0 {
		cap = dictSizeCapDefault
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, xerrors.ReadError.Error(err)
	}
	if fi.Size() > cap {
		return nil, xerrors.OversizeDictionary.Errorf("%q is %d bytes, exceeds the %d byte cap", path, fi.Size(), cap)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.ReadError.Error(err)
	}
	return data, nil
}
