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
	"io"
	"math/bits"

	"github.com/klauspost/compress/zstd"
)

// ZstdWindowLogMin/ZstdWindowLogMax bound a Zstandard window log (RFC 8878
// §3.1.1.1.2's WINDOWLOG_MIN/WINDOWLOG_MAX for a 64-bit decoder). Patch-from
// mode (spec.md §4.5.2) refuses any source whose size would require a window
// beyond ZstdWindowLogMax.
const (
	ZstdWindowLogMin = 10
	ZstdWindowLogMax = 31
)

// WindowLogForSize returns the smallest window log that covers n bytes,
// clamped to [ZstdWindowLogMin, ZstdWindowLogMax]. Used by patch-from mode
// to derive a window from max(dictSize, srcFileSize) (spec.md §4.5.2).
func WindowLogForSize(n int64) int {
	if n <= 1<<ZstdWindowLogMin {
		return ZstdWindowLogMin
	}
	log := bits.Len64(uint64(n - 1))
	if log > ZstdWindowLogMax {
		log = ZstdWindowLogMax
	}
	return log
}

// ZstdOptions mirrors the subset of Preferences that affects how a single
// Zstandard frame is built (spec.md §3's codec parameters). LongDistance is
// carried but not applied: buildZstdEncoder passes no long-distance
// matching option to the encoder.
type ZstdOptions struct {
	Level          int
	Workers        int
	WindowLog      int
	ChecksumFlag   bool
	LongDistance   bool
	ContentSize    int64 // -1 when unknown (pledge omitted)
	DictOrPrefix   []byte
	DictIsPrefix   bool // patch-from mode: attach as ref-prefix, not a trained dict
}

// ZstdEncoder wraps *zstd.Encoder to add the one capability the Adaptive
// Controller needs that the library doesn't expose directly: changing the
// compression level mid-stream. klauspost/compress/zstd has no public
// "renegotiate level" call on a live Encoder, so SetLevel closes the
// current frame and opens a new one at the new level. Concatenated
// Zstandard frames are a valid decodable stream, so this never produces
// padding or invalid output (spec.md §6) -- it just means an
// adaptively-compressed file may contain more than one frame, which the
// Info Reader already accounts for in its per-file frame tally.
type ZstdEncoder struct {
	w    io.Writer
	opts ZstdOptions
	enc  *zstd.Encoder
}

func NewZstdEncoder(w io.Writer, opts ZstdOptions) (*ZstdEncoder, error) {
	enc, err := buildZstdEncoder(w, opts)
	if err != nil {
		return nil, err
	}
	return &ZstdEncoder{w: w, opts: opts, enc: enc}, nil
}

func buildZstdEncoder(w io.Writer, opts ZstdOptions) (*zstd.Encoder, error) {
	zopts := []zstd.EOption{
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(opts.Level)),
	}

	if opts.Workers > 1 {
		zopts = append(zopts, zstd.WithEncoderConcurrency(opts.Workers))
	}
	if opts.WindowLog > 0 {
		zopts = append(zopts, zstd.WithWindowSize(1<<uint(opts.WindowLog)))
	}
	zopts = append(zopts, zstd.WithEncoderCRC(opts.ChecksumFlag))
	// opts.ContentSize is not handed to the library: the streaming
	// Encoder never writes a pledged content size into the frame header
	// (it does not know upfront how much more Write data is coming). The
	// pledge is still tracked by the Compression Engine itself to decide
	// when to issue the END directive (spec.md §4.5 point 2).

	if len(opts.DictOrPrefix) > 0 {
		if opts.DictIsPrefix {
			// Patch-from mode (spec.md §4.5.2): the reference buffer is an
			// arbitrary byte window, not a trained dictionary -- attach it
			// as raw/prefix content (id 0 means "no dictionary ID framed").
			zopts = append(zopts, zstd.WithEncoderDictRaw(0, opts.DictOrPrefix))
		} else {
			zopts = append(zopts, zstd.WithEncoderDict(opts.DictOrPrefix))
		}
	}

	return zstd.NewWriter(w, zopts...)
}

func (z *ZstdEncoder) Write(p []byte) (int, error) {
	return z.enc.Write(p)
}

// Flush forces any buffered input through the encoder without closing the
// frame; used by the Compression Engine in adaptive mode, right before each
// Adaptive Controller observation, so the controller sees up-to-date
// produced/flushed counters.
func (z *ZstdEncoder) Flush() error {
	return z.enc.Flush()
}

func (z *ZstdEncoder) Close() error {
	return z.enc.Close()
}

// Level reports the encoder's current nominal compression level.
func (z *ZstdEncoder) Level() int {
	return z.opts.Level
}

// SetLevel applies a new compression level, see the ZstdEncoder doc comment.
func (z *ZstdEncoder) SetLevel(level int) error {
	if level == z.opts.Level {
		return nil
	}
	if err := z.enc.Close(); err != nil {
		return err
	}
	z.opts.Level = level
	enc, err := buildZstdEncoder(z.w, z.opts)
	if err != nil {
		return err
	}
	z.enc = enc
	return nil
}

// NewZstdDecoder builds a streaming decoder. Concurrency 0 lets the
// library pick a sane default (GOMAXPROCS), matching spec.md's "may
// internally manage worker threads" framing for the consumer side too.
func NewZstdDecoder(r io.Reader, workers int) (io.ReadCloser, error) {
	zopts := []zstd.DOption{}
	if workers > 0 {
		zopts = append(zopts, zstd.WithDecoderConcurrency(workers))
	}

	dec, err := zstd.NewReader(r, zopts...)
	if err != nil {
		return nil, err
	}

	return &zstdReadCloser{Decoder: dec}, nil
}

// zstdReadCloser adapts *zstd.Decoder's Close (which returns nothing) to
// io.ReadCloser's error-returning Close.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}
