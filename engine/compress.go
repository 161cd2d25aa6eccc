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

// Package engine is the Compression and Decompression Engine of spec.md
// §4.5/§4.6: the per-file streaming loops that sit between the File Gate
// and the codec factories, generalized from archive/compress/engine.go's
// whole-buffer read/compress/write shape into a fixed-size streaming loop
// that also drives the Adaptive Controller.
package engine

import (
	"io"

	"github.com/nabbar/zstream/adaptive"
	"github.com/nabbar/zstream/codec"
	"github.com/nabbar/zstream/preferences"
	"github.com/nabbar/zstream/xerrors"
)

const defaultBufferSize = 64 * 1024

// Result reports the byte counts of one finished engine run.
type Result struct {
	BytesIn  int64
	BytesOut int64
}

// countingWriter tallies bytes actually written to the underlying sink,
// the stand-in this module uses for the codec's "produced"/"flushed"
// counters: klauspost/compress/zstd has no ZSTD_getFrameProgression
// equivalent, so the Compression Engine synthesizes a Snapshot from its own
// vantage point instead (see DESIGN.md).
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// CompressOptions groups the tunables one per-file compression run needs.
// The Batch Driver derives these from preferences.Preferences.
type CompressOptions struct {
	Algorithm    codec.Algorithm
	Encode       codec.EncodeOptions
	PledgedSize  int64 // -1 when unknown; ends the read loop and drives the size check, not passed to the encoder
	InBufferSize int   // 0 selects defaultBufferSize

	// Adaptive is non-nil only for Zstd with adaptive mode enabled; Display
	// gates how often the engine bothers querying it (spec.md §4.5 point 2).
	Adaptive *adaptive.Controller
	Display  *preferences.Display
}

// Compress runs the per-file streaming loop of spec.md §4.5: read up to
// in-buffer-size from src and feed it to the codec's writer. With adaptive
// mode on, at each outer iteration where Display.ShouldRefresh fires, flush
// the encoder and fold a synthesized frame-progression snapshot into the
// Adaptive Controller; without adaptive mode nothing is flushed mid-stream.
//
// A read-size mismatch against a known PledgedSize is reported as
// xerrors.SizeMismatch, a per-file fatal per spec.md §4.5 point 4.
func Compress(dst io.Writer, src io.Reader, opt CompressOptions) (Result, xerrors.Error) {
	bufSize := opt.InBufferSize
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}

	cw := &countingWriter{w: dst}
	enc, err := opt.Algorithm.NewWriter(cw, opt.Encode)
	if err != nil {
		return Result{}, xerrors.CodecContextError.Error(err)
	}

	flusher, _ := enc.(codec.Flusher)
	leveler, _ := enc.(codec.LevelSetter)

	buf := make([]byte, bufSize)
	var ingested int64
	var jobID int64

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := enc.Write(buf[:n]); werr != nil {
				_ = enc.Close()
				return Result{BytesIn: ingested, BytesOut: cw.n}, xerrors.CodecFrameError.Error(werr)
			}
			ingested += int64(n)
		}
		if rerr != nil && rerr != io.EOF {
			_ = enc.Close()
			return Result{BytesIn: ingested, BytesOut: cw.n}, xerrors.ReadError.Error(rerr)
		}

		atEnd := rerr == io.EOF || (opt.PledgedSize >= 0 && ingested >= opt.PledgedSize)

		if opt.Adaptive != nil && opt.Display != nil && opt.Display.ShouldRefresh() {
			if flusher != nil {
				if ferr := flusher.Flush(); ferr != nil {
					_ = enc.Close()
					return Result{BytesIn: ingested, BytesOut: cw.n}, xerrors.CodecFrameError.Error(ferr)
				}
			}
			jobID++

			snap := adaptive.Snapshot{
				JobID:         jobID,
				ActiveWorkers: opt.Encode.Workers,
				Ingested:      ingested,
				Consumed:      ingested,
				Produced:      cw.n,
				Flushed:       cw.n,
			}
			if d := opt.Adaptive.Observe(snap); d != adaptive.NoChange && leveler != nil {
				if serr := leveler.SetLevel(opt.Adaptive.Level()); serr != nil {
					_ = enc.Close()
					return Result{BytesIn: ingested, BytesOut: cw.n}, xerrors.CodecFrameError.Error(serr)
				}
			}
		}

		if atEnd {
			break
		}
	}

	if cerr := enc.Close(); cerr != nil {
		return Result{BytesIn: ingested, BytesOut: cw.n}, xerrors.CodecFrameError.Error(cerr)
	}

	if opt.PledgedSize >= 0 && ingested != opt.PledgedSize {
		return Result{BytesIn: ingested, BytesOut: cw.n}, xerrors.SizeMismatch.Errorf(
			"read %d bytes, pledged size was %d", ingested, opt.PledgedSize)
	}

	return Result{BytesIn: ingested, BytesOut: cw.n}, nil
}
