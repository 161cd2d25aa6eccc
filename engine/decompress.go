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

package engine

import (
	"bufio"
	"bytes"
	"io"

	"github.com/nabbar/zstream/codec"
	"github.com/nabbar/zstream/sparse"
	"github.com/nabbar/zstream/xerrors"
)

// DecompressOptions groups the tunables one per-file decompression run
// needs. AllowRawPassthrough mirrors spec.md §4.6 point 2's fallback: an
// unrecognized format is only ever tolerated when writing straight through
// to stdout under a forced overwrite, never silently for a regular file.
type DecompressOptions struct {
	SparseEnabled       bool
	AllowRawPassthrough bool
}

// Decompress is the Frame Demultiplexer of spec.md §4.6: an outer loop
// peeks the next 4 magic bytes, dispatches to the matching decoder, drains
// exactly one frame/member through the Sparse Writer, and repeats until
// the source is exhausted. This lets a file that concatenates frames of
// different formats -- a Zstandard frame, a skippable frame, a gzip
// member -- decode as the concatenation of their individual outputs
// (spec.md §8's demultiplexer-correctness property), which a single
// library decoder handed the whole stream cannot do: it would either stop
// at its own format's end and silently drop the remainder, or choke on
// the next frame's magic bytes as if they were malformed data in its own
// format.
//
// Zstd data frames are special-cased: klauspost/compress/zstd's Decoder
// has no "stop after one frame" option and transparently continues into a
// concatenated next Zstd frame, so readZstdFrame first isolates exactly
// one frame's bytes and hands that bounded buffer to the decoder instead
// of the shared stream. Gzip members are bounded via
// Algorithm.NewFrameReader's Multistream(false) reader. Skippable frames
// are read and discarded without ever reaching a decoder. Xz, Lzma, and
// LZ4 stop at their own format's end-of-stream marker on a plain
// NewReader and need no special handling here.
func Decompress(dst io.WriteSeeker, src io.Reader, opt DecompressOptions) (Result, xerrors.Error) {
	br := bufio.NewReaderSize(src, defaultBufferSize)
	sw := sparse.New(dst, opt.SparseEnabled)

	var total int64
	decodedAny := false

	for {
		peek, err := br.Peek(codec.MagicLen)
		if err != nil && err != io.EOF {
			return Result{BytesOut: total}, xerrors.ReadError.Error(err)
		}
		if len(peek) == 0 {
			break
		}

		if codec.IsSkippableFrame(peek) {
			if _, derr := br.Discard(codec.MagicLen); derr != nil {
				return Result{BytesOut: total}, xerrors.ReadError.Error(derr)
			}
			if derr := discardSkippableFrame(br); derr != nil {
				return Result{BytesOut: total}, derr
			}
			decodedAny = true
			continue
		}

		alg := codec.Identify(peek)
		if alg.IsNone() {
			if decodedAny {
				return Result{BytesOut: total}, xerrors.TruncatedInput.Errorf("unrecognized bytes after frame")
			}
			if !opt.AllowRawPassthrough {
				return Result{}, xerrors.UnsupportedForm.Errorf("input is not a recognized compressed format")
			}
			n, cerr := io.Copy(sw, br)
			if cerr != nil {
				return Result{BytesOut: n}, xerrors.WriteError.Error(cerr)
			}
			if ferr := sw.Finish(); ferr != nil {
				return Result{BytesOut: n}, xerrors.WriteError.Error(ferr)
			}
			return Result{BytesIn: n, BytesOut: n}, nil
		}

		n, derr := decodeOneFrame(sw, br, alg)
		if derr != nil {
			return Result{BytesOut: total + n}, derr
		}
		total += n
		decodedAny = true
	}

	if !decodedAny {
		return Result{}, xerrors.UnsupportedForm.Errorf("input is not a recognized compressed format")
	}

	if ferr := sw.Finish(); ferr != nil {
		return Result{BytesOut: total}, xerrors.WriteError.Error(ferr)
	}

	return Result{BytesIn: total, BytesOut: total}, nil
}

// decodeOneFrame decodes exactly one frame/member of alg from br into sw
// and reports the bytes written.
func decodeOneFrame(sw io.Writer, br *bufio.Reader, alg codec.Algorithm) (int64, xerrors.Error) {
	if alg == codec.Zstd {
		frame, ferr := readZstdFrame(br)
		if ferr != nil {
			return 0, ferr
		}
		rc, err := codec.Zstd.NewReader(bytes.NewReader(frame))
		if err != nil {
			return 0, xerrors.CodecContextError.Error(err)
		}
		defer rc.Close()
		return copyFrame(sw, rc)
	}

	rc, err := alg.NewFrameReader(br)
	if err != nil {
		return 0, xerrors.CodecContextError.Error(err)
	}
	defer rc.Close()
	return copyFrame(sw, rc)
}

func copyFrame(sw io.Writer, rc io.Reader) (int64, xerrors.Error) {
	n, cerr := io.Copy(sw, rc)
	if cerr != nil {
		if cerr == io.ErrUnexpectedEOF {
			return n, xerrors.TruncatedInput.Errorf("input ended mid-frame: %v", cerr)
		}
		return n, xerrors.CodecFrameError.Error(cerr)
	}
	return n, nil
}
