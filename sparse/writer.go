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

// Package sparse implements the Sparse Writer of spec.md §4.3: a stateful
// sink that elides runs of zero bytes into filesystem holes via seek,
// wrapping a destination file handle the way ioutils/tempFile.go wraps an
// *os.File with an explicit cursor instead of hiding it in thread-local
// state.
package sparse

import "io"

const (
	laneSize        = 8
	windowBytes     = 32 * 1024
	maxPendingBytes = 1 << 30
)

// Writer coalesces runs of zero bytes written to dst into holes. The
// pending-skip counter lives on the Writer value, not a package global, so
// callers hold the counter by holding the *Writer (spec.md §9 design note).
type Writer struct {
	dst     io.WriteSeeker
	enabled bool
	pending int64
}

// New builds a Writer over dst. enabled selects sparse behavior (mode
// auto/force resolve to true before construction; mode off resolves to
// false, forwarding writes verbatim).
func New(dst io.WriteSeeker, enabled bool) *Writer {
	return &Writer{dst: dst, enabled: enabled}
}

// Pending reports the current accumulated skip, for diagnostics/tests.
func (w *Writer) Pending() int64 { return w.pending }

// Write implements io.Writer. It always logically consumes all of p.
func (w *Writer) Write(p []byte) (int, error) {
	if !w.enabled {
		if _, err := w.dst.Write(p); err != nil {
			return 0, err
		}
		return len(p), nil
	}

	total := len(p)
	for i := 0; i < len(p); {
		end := i + windowBytes
		if end > len(p) {
			end = len(p)
		}
		window := p[i:end]

		allZero, offset := scanWindow(window)
		if allZero {
			w.pending += int64(len(window))
			if w.pending > maxPendingBytes {
				if err := w.drain(); err != nil {
					return i, err
				}
			}
		} else {
			w.pending += int64(offset)
			if err := w.drain(); err != nil {
				return i, err
			}
			if _, err := w.dst.Write(window[offset:]); err != nil {
				return i, err
			}
		}
		i = end
	}
	return total, nil
}

// Finish materializes the logical end-of-file: a plain seek past the end
// of a file does not extend it, so the last pending byte must be written
// explicitly.
func (w *Writer) Finish() error {
	if w.pending == 0 {
		return nil
	}
	if _, err := w.dst.Seek(w.pending-1, io.SeekCurrent); err != nil {
		return err
	}
	if _, err := w.dst.Write([]byte{0}); err != nil {
		return err
	}
	w.pending = 0
	return nil
}

func (w *Writer) drain() error {
	if w.pending == 0 {
		return nil
	}
	if _, err := w.dst.Seek(w.pending, io.SeekCurrent); err != nil {
		return err
	}
	w.pending = 0
	return nil
}

// scanWindow reports whether window is entirely zero, and if not, the byte
// offset of the first non-zero lane (trailing bytes shorter than a full
// lane are treated byte-wise, per spec.md §4.3).
func scanWindow(window []byte) (allZero bool, nonZeroOffset int) {
	n := len(window)
	i := 0
	for i+laneSize <= n {
		if isZeroLane(window[i : i+laneSize]) {
			i += laneSize
			continue
		}
		return false, i
	}
	for i < n {
		if window[i] != 0 {
			return false, i
		}
		i++
	}
	return true, n
}

func isZeroLane(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
