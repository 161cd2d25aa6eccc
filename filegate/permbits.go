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

package filegate

import (
	"os"
)

// Perm is the captured mode bits of a source file: capture from a source
// os.FileMode, transfer onto a destination via os.Chmod. No symbolic/octal
// string parsing -- nothing here accepts permission bits from a config
// string.
type Perm os.FileMode

// CapturePerm reads the mode bits of a regular source file.
func CapturePerm(fi os.FileInfo) Perm {
	return Perm(fi.Mode().Perm())
}

// Apply transfers the captured mode bits onto path.
func (p Perm) Apply(path string) error {
	return os.Chmod(path, os.FileMode(p))
}

// FileMode returns the underlying os.FileMode.
func (p Perm) FileMode() os.FileMode {
	return os.FileMode(p)
}
