/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package codec

import "bytes"

// Algorithm identifies one of the streaming formats this module knows how
// to produce or consume. Zero value is None, used by detection paths that
// found no recognizable magic.
type Algorithm uint8

const (
	None Algorithm = iota
	Zstd
	Gzip
	Xz
	Lzma
	LZ4
)

// List returns every algorithm, None included, in a stable order.
func List() []Algorithm {
	return []Algorithm{None, Zstd, Gzip, Xz, Lzma, LZ4}
}

func ListString() []string {
	lst := List()
	res := make([]string, len(lst))
	for i := range lst {
		res[i] = lst[i].String()
	}
	return res
}

func (a Algorithm) IsNone() bool {
	return a == None
}

func (a Algorithm) String() string {
	switch a {
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	case Xz:
		return "xz"
	case Lzma:
		return "lzma"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

// Suffix is the filename suffix appended on compression (spec.md §4.1).
func (a Algorithm) Suffix() string {
	switch a {
	case Zstd:
		return ".zst"
	case Gzip:
		return ".gz"
	case Xz:
		return ".xz"
	case Lzma:
		return ".lzma"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// TarSuffix is the short "t"-prefixed variant recognized on decompression
// whose derived name ends in ".tar" instead of being merely stripped.
func (a Algorithm) TarSuffix() string {
	switch a {
	case Zstd:
		return ".tzst"
	case Gzip:
		return ".tgz"
	case Xz:
		return ".txz"
	case LZ4:
		return ".tlz4"
	default:
		return ""
	}
}

// AllSuffixes lists every recognized suffix for this algorithm, longest
// first so callers doing a longest-match strip check the tar variant before
// the plain one.
func (a Algorithm) AllSuffixes() []string {
	if s := a.TarSuffix(); s != "" {
		return []string{s, a.Suffix()}
	}
	if s := a.Suffix(); s != "" {
		return []string{s}
	}
	return nil
}

// DetectMagic reports whether b begins with this algorithm's magic bytes.
// b may be shorter than the algorithm's full magic; in that case it never
// matches (the caller is expected to have topped up to at least 4 bytes,
// per spec.md §4.6 point 1, before dispatching).
func (a Algorithm) DetectMagic(b []byte) bool {
	switch a {
	case Zstd:
		if len(b) < 4 {
			return false
		}
		exp := []byte{0x28, 0xB5, 0x2F, 0xFD}
		return bytes.Equal(b[0:4], exp)
	case Gzip:
		if len(b) < 2 {
			return false
		}
		exp := []byte{0x1F, 0x8B}
		return bytes.Equal(b[0:2], exp)
	case Xz:
		if len(b) < 2 {
			return false
		}
		exp := []byte{0xFD, 0x37}
		return bytes.Equal(b[0:2], exp)
	case Lzma:
		if len(b) < 2 {
			return false
		}
		exp := []byte{0x5D, 0x00}
		return bytes.Equal(b[0:2], exp)
	case LZ4:
		if len(b) < 4 {
			return false
		}
		exp := []byte{0x04, 0x22, 0x4D, 0x18}
		return bytes.Equal(b[0:4], exp)
	default:
		return false
	}
}

// IsSkippableFrame reports whether b begins a Zstandard skippable frame
// (magic 0x184D2A5? where ? is any nibble 0-F), spec.md §4.7.
func IsSkippableFrame(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	return b[1] == 0x2A && b[2] == 0x4D && b[3] == 0x18 && (b[0]&0xF0) == 0x50
}
