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
	"encoding/binary"
	"io"

	"github.com/nabbar/zstream/xerrors"
)

// readZstdFrame consumes exactly one Zstandard frame -- header, blocks, and
// optional content checksum -- from br and returns its raw bytes, leaving
// br positioned right after the frame. klauspost/compress/zstd's Decoder
// has no public "stop after one frame" mode and will transparently walk
// into whatever concatenated frame follows; since the Frame Demultiplexer
// (decompress.go) needs to re-dispatch on that next frame's own magic
// bytes rather than hand it to the same decoder, it must bound the byte
// range itself before decoding, the same header/block walk info.Inspect
// does for a seekable file, just accumulating instead of seeking.
func readZstdFrame(br *bufio.Reader) ([]byte, xerrors.Error) {
	var buf bytes.Buffer

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, xerrors.TruncatedInput.Error(err)
	}
	buf.Write(magic[:])

	var fhd [1]byte
	if _, err := io.ReadFull(br, fhd[:]); err != nil {
		return nil, xerrors.TruncatedInput.Errorf("truncated frame header descriptor")
	}
	buf.Write(fhd[:])

	fcsFlag := fhd[0] >> 6
	singleSegment := fhd[0]&0x20 != 0
	checksumFlag := fhd[0]&0x04 != 0
	dictIDFlag := fhd[0] & 0x03

	if !singleSegment {
		var wd [1]byte
		if _, err := io.ReadFull(br, wd[:]); err != nil {
			return nil, xerrors.TruncatedInput.Errorf("truncated window descriptor")
		}
		buf.Write(wd[:])
	}

	if dictIDSize := zstdDictIDFieldSize(dictIDFlag); dictIDSize > 0 {
		b := make([]byte, dictIDSize)
		if _, err := io.ReadFull(br, b); err != nil {
			return nil, xerrors.TruncatedInput.Errorf("truncated dictionary id")
		}
		buf.Write(b)
	}

	if fcsFieldSize := zstdFcsFieldSize(fcsFlag, singleSegment); fcsFieldSize > 0 {
		b := make([]byte, fcsFieldSize)
		if _, err := io.ReadFull(br, b); err != nil {
			return nil, xerrors.TruncatedInput.Errorf("truncated frame content size")
		}
		buf.Write(b)
	}

	for {
		var hdr [3]byte
		if _, err := io.ReadFull(br, hdr[:]); err != nil {
			return nil, xerrors.TruncatedInput.Errorf("truncated block header")
		}
		buf.Write(hdr[:])

		raw := uint32(hdr[0]) | uint32(hdr[1])<<8 | uint32(hdr[2])<<16
		last := raw&0x1 != 0
		blockType := (raw >> 1) & 0x3
		blockSize := int64(raw >> 3)

		if blockType == 3 {
			return nil, xerrors.CodecFrameError.Errorf("reserved block type in frame header")
		}

		payload := blockSize
		if blockType == 1 {
			// RLE: one repeated byte on the wire regardless of blockSize.
			payload = 1
		}
		if payload > 0 {
			b := make([]byte, payload)
			if _, err := io.ReadFull(br, b); err != nil {
				return nil, xerrors.TruncatedInput.Errorf("block payload truncated")
			}
			buf.Write(b)
		}

		if last {
			break
		}
	}

	if checksumFlag {
		var cs [4]byte
		if _, err := io.ReadFull(br, cs[:]); err != nil {
			return nil, xerrors.TruncatedInput.Errorf("truncated content checksum")
		}
		buf.Write(cs[:])
	}

	return buf.Bytes(), nil
}

// discardSkippableFrame reads a Zstandard skippable frame's length field
// and discards its payload without decoding (spec.md §4.7); br must be
// positioned right after the 4-byte skippable magic.
func discardSkippableFrame(br *bufio.Reader) xerrors.Error {
	var lenBuf [4]byte
	if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
		return xerrors.TruncatedInput.Error(err)
	}
	n := int64(binary.LittleEndian.Uint32(lenBuf[:]))
	if _, err := io.CopyN(io.Discard, br, n); err != nil {
		return xerrors.TruncatedInput.Error(err)
	}
	return nil
}

func zstdDictIDFieldSize(flag byte) int {
	return [4]int{0, 1, 2, 4}[flag]
}

func zstdFcsFieldSize(flag byte, singleSegment bool) int {
	if singleSegment {
		return [4]int{1, 2, 4, 8}[flag]
	}
	return [4]int{0, 2, 4, 8}[flag]
}
