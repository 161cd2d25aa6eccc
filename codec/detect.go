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

import (
	"bufio"
	"io"
)

// MagicLen is the number of leading bytes the frame demultiplexer needs on
// hand before it can dispatch (spec.md §4.6 point 1).
const MagicLen = 4

// DetectOrder is the order magic probes are tried in. Zstd first since it
// is the primary format; Gzip/Xz/Lzma/LZ4 follow spec.md §4.6's dispatch
// list.
var DetectOrder = []Algorithm{Zstd, Gzip, Xz, Lzma, LZ4}

// Identify returns the algorithm whose magic matches the leading bytes of
// b, or None if none match. Zstd and LZ4 need all MagicLen bytes to match;
// Gzip, Xz and Lzma match on their first two bytes alone.
func Identify(b []byte) Algorithm {
	for _, a := range DetectOrder {
		if a.DetectMagic(b) {
			return a
		}
	}
	return None
}

// DetectOnly peeks the leading magic bytes of r and returns the algorithm
// identified plus an io.Reader that still has those bytes available to a
// subsequent read (no bytes are consumed).
func DetectOnly(r io.Reader) (Algorithm, io.Reader, error) {
	bfr := bufio.NewReader(r)

	buf, err := bfr.Peek(MagicLen)
	if err != nil && err != io.EOF {
		return None, nil, err
	}

	return Identify(buf), bfr, nil
}

// Detect identifies the algorithm used by r and returns a ready-to-read
// decoder for it, wired through NewReader.
func Detect(r io.Reader) (Algorithm, io.ReadCloser, error) {
	alg, rdr, err := DetectOnly(r)
	if err != nil {
		return None, nil, err
	}

	rc, err := alg.NewReader(rdr)
	if err != nil {
		return None, nil, err
	}

	return alg, rc, nil
}
