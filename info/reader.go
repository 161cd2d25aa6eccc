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

// Package info is the Info Reader of spec.md §4.7 (the "--list" support):
// it walks a Zstandard file's frame and block headers directly, without
// decompressing a single byte, to report content sizes and block counts.
// klauspost/compress/zstd has no public "parse headers only" entry point at
// this granularity, so this package parses the RFC 8878 frame/block layout
// by hand, the same trade a hex-dump inspector always makes against a full
// decoder library.
package info

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/nabbar/zstream/codec"
	"github.com/nabbar/zstream/xerrors"
)

// FrameInfo describes one decoded Zstandard frame header.
type FrameInfo struct {
	ContentSize int64 // -1 when the frame does not pledge a size
	Blocks      int
	HasChecksum bool
	WindowSize  int64 // 0 when the frame carries no window descriptor (single-segment)
}

// FileInfo is the full per-file report: one FrameInfo per Zstandard frame,
// concatenated frames included (spec.md §4.5's ZstdEncoder.SetLevel note:
// an adaptively-compressed file may contain more than one frame).
type FileInfo struct {
	Frames           []FrameInfo
	TotalContentSize int64 // -1 if any frame's size is unknown

	// WindowSize is the last-seen window size across Frames, 0 if no
	// frame carried a window descriptor.
	WindowSize int64

	// SkippableFrames counts skippable frames encountered; their payload
	// is never reported as a FrameInfo entry.
	SkippableFrames int

	// ChecksumUsed is true only when every frame in Frames set the
	// content-checksum flag; false when Frames is empty.
	ChecksumUsed bool
}

// Inspect walks path's frame and block headers. Skippable frames are
// consumed and skipped over, not reported as FrameInfo entries. A file
// whose first four bytes do not match the Zstandard magic yields
// xerrors.UnsupportedForm; a file that ends mid-frame, or carries trailing
// bytes that are not a recognizable frame, yields xerrors.TruncatedInput.
func Inspect(path string) (FileInfo, xerrors.Error) {
	f, err := os.Open(path)
	if err != nil {
		return FileInfo{}, xerrors.ReadError.Error(err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return FileInfo{}, xerrors.ReadError.Error(err)
	}

	var result FileInfo
	unknownTotal := false

	for {
		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return FileInfo{}, xerrors.ReadError.Error(err)
		}
		if pos == st.Size() {
			break
		}

		var magic [4]byte
		if _, err := io.ReadFull(f, magic[:]); err != nil {
			if len(result.Frames) == 0 {
				return FileInfo{}, xerrors.UnsupportedForm.Errorf("%q is not a zstandard file", path)
			}
			return FileInfo{}, xerrors.TruncatedInput.Errorf("%q ends mid-frame", path)
		}

		switch {
		case codec.IsSkippableFrame(magic[:]):
			var lenBuf [4]byte
			if _, err := io.ReadFull(f, lenBuf[:]); err != nil {
				return FileInfo{}, xerrors.TruncatedInput.Errorf("%q: truncated skippable frame", path)
			}
			n := int64(binary.LittleEndian.Uint32(lenBuf[:]))
			if err := seekForward(f, n, st.Size()); err != nil {
				return FileInfo{}, xerrors.TruncatedInput.Errorf("%q: skippable frame payload runs past EOF", path)
			}
			result.SkippableFrames++

		case codec.Zstd.DetectMagic(magic[:]):
			fi, ferr := readFrame(f, st.Size())
			if ferr != nil {
				return FileInfo{}, ferr
			}
			result.Frames = append(result.Frames, fi)
			if fi.ContentSize < 0 {
				unknownTotal = true
			} else if !unknownTotal {
				result.TotalContentSize += fi.ContentSize
			}
			if fi.WindowSize > 0 {
				result.WindowSize = fi.WindowSize
			}

		default:
			if len(result.Frames) == 0 {
				return FileInfo{}, xerrors.UnsupportedForm.Errorf("%q is not a zstandard file", path)
			}
			return FileInfo{}, xerrors.TruncatedInput.Errorf("%q: unrecognized bytes after frame %d", path, len(result.Frames))
		}
	}

	if unknownTotal {
		result.TotalContentSize = -1
	}

	result.ChecksumUsed = len(result.Frames) > 0
	for _, fi := range result.Frames {
		if !fi.HasChecksum {
			result.ChecksumUsed = false
			break
		}
	}

	return result, nil
}

// seekForward advances f by n bytes and reports a truncation the plain
// os.File.Seek call would otherwise hide: lseek past end-of-file always
// succeeds on a regular file, so the only way to notice a block or frame
// claiming more bytes than the file actually holds is to compare the
// resulting offset against the file's stat size.
func seekForward(f *os.File, n int64, fileSize int64) error {
	pos, err := f.Seek(n, io.SeekCurrent)
	if err != nil {
		return err
	}
	if pos > fileSize {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// readFrame reads one Zstandard frame's header and walks its blocks,
// leaving f positioned just past the frame (including the content checksum
// if present). f must be positioned just past the 4-byte magic.
func readFrame(f *os.File, fileSize int64) (FrameInfo, xerrors.Error) {
	var fhd [1]byte
	if _, err := io.ReadFull(f, fhd[:]); err != nil {
		return FrameInfo{}, xerrors.TruncatedInput.Errorf("truncated frame header descriptor")
	}

	fcsFlag := fhd[0] >> 6
	singleSegment := fhd[0]&0x20 != 0
	checksumFlag := fhd[0]&0x04 != 0
	dictIDFlag := fhd[0] & 0x03

	var windowSize int64
	if !singleSegment {
		var windowDescriptor [1]byte
		if _, err := io.ReadFull(f, windowDescriptor[:]); err != nil {
			return FrameInfo{}, xerrors.TruncatedInput.Errorf("truncated window descriptor")
		}
		windowSize = decodeWindowSize(windowDescriptor[0])
	}

	dictIDSize := map[byte]int{0: 0, 1: 1, 2: 2, 3: 4}[dictIDFlag]
	if dictIDSize > 0 {
		buf := make([]byte, dictIDSize)
		if _, err := io.ReadFull(f, buf); err != nil {
			return FrameInfo{}, xerrors.TruncatedInput.Errorf("truncated dictionary id")
		}
	}

	fcsFieldSize := fcsFieldSizeFor(fcsFlag, singleSegment)
	contentSize := int64(-1)
	if fcsFieldSize > 0 {
		buf := make([]byte, fcsFieldSize)
		if _, err := io.ReadFull(f, buf); err != nil {
			return FrameInfo{}, xerrors.TruncatedInput.Errorf("truncated frame content size")
		}
		var raw uint64
		switch fcsFieldSize {
		case 1:
			raw = uint64(buf[0])
		case 2:
			raw = uint64(binary.LittleEndian.Uint16(buf)) + 256
		case 4:
			raw = uint64(binary.LittleEndian.Uint32(buf))
		case 8:
			raw = binary.LittleEndian.Uint64(buf)
		}
		contentSize = int64(raw)
	}

	blocks := 0
	for {
		var hdr [3]byte
		if _, err := io.ReadFull(f, hdr[:]); err != nil {
			return FrameInfo{}, xerrors.TruncatedInput.Errorf("truncated block header")
		}
		raw := uint32(hdr[0]) | uint32(hdr[1])<<8 | uint32(hdr[2])<<16
		last := raw&0x1 != 0
		blockType := (raw >> 1) & 0x3
		blockSize := int64(raw >> 3)

		if blockType == 3 {
			return FrameInfo{}, xerrors.CodecFrameError.Errorf("reserved block type in frame header")
		}
		blocks++

		skip := blockSize
		if blockType == 1 {
			// RLE: the decompressed size is blockSize, but the stream only
			// carries a single repeated byte.
			skip = 1
		}
		if err := seekForward(f, skip, fileSize); err != nil {
			return FrameInfo{}, xerrors.TruncatedInput.Errorf("block payload runs past EOF")
		}

		if last {
			break
		}
	}

	if checksumFlag {
		if err := seekForward(f, 4, fileSize); err != nil {
			return FrameInfo{}, xerrors.TruncatedInput.Errorf("truncated content checksum")
		}
	}

	return FrameInfo{ContentSize: contentSize, Blocks: blocks, HasChecksum: checksumFlag, WindowSize: windowSize}, nil
}

// fcsFieldSizeFor returns the byte width of the Frame_Content_Size field, 0
// meaning the frame does not pledge a size (only possible when
// singleSegment is false).
func fcsFieldSizeFor(fcsFlag byte, singleSegment bool) int {
	if singleSegment {
		return [4]int{1, 2, 4, 8}[fcsFlag]
	}
	return [4]int{0, 2, 4, 8}[fcsFlag]
}

// decodeWindowSize turns a Zstandard window descriptor byte into the
// maximum back-reference distance a decoder must support for the frame
// (RFC 8878 §3.1.1.1.2).
func decodeWindowSize(wd byte) int64 {
	exponent := int64(wd >> 3)
	mantissa := int64(wd & 0x07)
	windowLog := 10 + exponent
	windowBase := int64(1) << uint(windowLog)
	windowAdd := (windowBase / 8) * mantissa
	return windowBase + windowAdd
}
