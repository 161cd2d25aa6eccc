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

// Package pathname is the Path & Name Service of spec.md §4.1: pure
// string/stat functions deriving a destination name from a source, with no
// I/O beyond stat. The suffix table is generalized from
// archive/compress/types.go's Extension() method to the tar-variant rule
// spec.md describes.
package pathname

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nabbar/zstream/codec"
	"github.com/nabbar/zstream/xerrors"
)

// DeriveCompressedName extracts the basename from src, prepends outDir if
// given, and appends suffix (the chosen algorithm's Suffix()).
func DeriveCompressedName(src, outDir, suffix string) string {
	base := filepath.Base(src)
	name := base + suffix
	if outDir == "" {
		return name
	}
	if strings.HasSuffix(outDir, string(filepath.Separator)) {
		return outDir + name
	}
	return outDir + string(filepath.Separator) + name
}

// DeriveDecompressedName strips a recognized compressed suffix from src's
// basename, honoring the tar-variant rule: a "t"-prefixed suffix (e.g.
// .tzst) yields a name ending in ".tar" instead of being merely stripped.
// Returns xerrors.UnknownSuffix when no enabled algorithm's suffix matches.
func DeriveDecompressedName(src, outDir string, enabled []codec.Algorithm) (string, xerrors.Error) {
	base := filepath.Base(src)

	type match struct {
		suffix string
		isTar  bool
	}
	var best match

	for _, a := range enabled {
		if s := a.TarSuffix(); s != "" && strings.HasSuffix(base, s) && len(s) > len(best.suffix) {
			best = match{suffix: s, isTar: true}
		}
		if s := a.Suffix(); s != "" && strings.HasSuffix(base, s) && len(s) > len(best.suffix) {
			best = match{suffix: s, isTar: false}
		}
	}

	if best.suffix == "" {
		return "", xerrors.UnknownSuffix.Errorf("%q has no recognized compressed suffix", base)
	}

	stripped := strings.TrimSuffix(base, best.suffix)
	name := stripped
	if best.isTar {
		name = stripped + ".tar"
	}

	if outDir == "" {
		return name, nil
	}
	if strings.HasSuffix(outDir, string(filepath.Separator)) {
		return outDir + name, nil
	}
	return outDir + string(filepath.Separator) + name, nil
}

// CheckCollisions sorts basenames and returns the ones that collide
// (adjacent duplicates after sorting). It never fails; callers print a
// warning and continue, per spec.md §4.1.
func CheckCollisions(paths []string) []string {
	bases := make([]string, len(paths))
	for i, p := range paths {
		bases[i] = filepath.Base(p)
	}
	sort.Strings(bases)

	var collisions []string
	for i := 1; i < len(bases); i++ {
		if bases[i] == bases[i-1] {
			collisions = append(collisions, bases[i])
		}
	}
	return collisions
}

// SameFile reports whether a and b resolve to the same inode/device,
// spec.md §3's "destination path != source path (checked by inode/device
// identity, not string equality)".
func SameFile(a, b string) bool {
	fa, errA := os.Stat(a)
	fb, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(fa, fb)
}
