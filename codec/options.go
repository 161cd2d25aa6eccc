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
	"fmt"
	"io"
)

// EncodeOptions is the per-file encoder configuration the Compression
// Engine derives from Preferences. Only Zstd consults the Zstd-specific
// fields; the other formats take Level and Workers only.
type EncodeOptions struct {
	Level   int
	Workers int
	Zstd    ZstdOptions
}

// NewWriter builds a streaming encoder for a, wired to the stdlib/
// ecosystem library that owns that format (spec.md §4.0's codec contract).
// The returned value additionally implements Flusher when the format
// supports mid-stream flush (Zstd and Gzip; see Flusher).
func (a Algorithm) NewWriter(w io.Writer, opt EncodeOptions) (io.WriteCloser, error) {
	switch a {
	case Zstd:
		zopt := opt.Zstd
		zopt.Level = opt.Level
		zopt.Workers = opt.Workers
		return NewZstdEncoder(w, zopt)
	case Gzip:
		return NewGzipWriter(w, opt.Level)
	case Xz:
		return NewXzWriter(w)
	case Lzma:
		return NewLzmaWriter(w)
	case LZ4:
		return NewLz4Writer(w, opt.Workers)
	default:
		return nil, fmt.Errorf("codec: unsupported algorithm for writer: %s", a.String())
	}
}

// NewReader builds a streaming decoder for a.
func (a Algorithm) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch a {
	case Zstd:
		return NewZstdDecoder(r, 0)
	case Gzip:
		return NewGzipReader(r)
	case Xz:
		return NewXzReader(r)
	case Lzma:
		return NewLzmaReader(r)
	case LZ4:
		return NewLz4Reader(r)
	default:
		return io.NopCloser(r), nil
	}
}

// NewFrameReader builds a decoder for a that is safe to use inside the
// Frame Demultiplexer's per-frame re-dispatch loop (spec.md §4.6): it must
// stop at the end of one frame/member rather than transparently continuing
// into a concatenated next one of the same format, since the demultiplexer
// -- not the decoder -- owns re-dispatching on whatever bytes follow. Gzip
// is the only format whose stdlib reader needs an explicit opt-out
// (Multistream(false)); Zstd data frames are handled by the caller via a
// bounded frame-length parse instead of this method, since
// klauspost/compress/zstd's Decoder has no such opt-out. Xz, Lzma, and LZ4
// carry an explicit end-of-stream marker in their own wire format and stop
// there on a plain NewReader.
func (a Algorithm) NewFrameReader(r io.Reader) (io.ReadCloser, error) {
	if a == Gzip {
		return NewGzipReaderSingle(r)
	}
	return a.NewReader(r)
}

// Flusher is implemented by encoders that can drain buffered input without
// closing the frame (spec.md §4.5's inner drain loop). The Compression
// Engine type-asserts for it, but only calls Flush while adaptive mode is
// driving the encoder -- *gzip.Writer also happens to satisfy this
// interface, so the assertion succeeds for Gzip too, and gating the call
// on adaptive mode (Zstd-only) is what keeps gzip runs from being flushed,
// and its deflate stream needlessly fragmented, every outer iteration.
type Flusher interface {
	Flush() error
}

// LevelSetter is implemented by encoders whose compression level can
// change mid-stream, i.e. ZstdEncoder, the only format the Adaptive
// Controller (spec.md §4.5.1) drives.
type LevelSetter interface {
	Level() int
	SetLevel(level int) error
}
