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

package engine_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zstream/codec"
	"github.com/nabbar/zstream/engine"
	"github.com/nabbar/zstream/xerrors"
)

func openScratch() *os.File {
	dir := GinkgoT().TempDir()
	f, err := os.Create(filepath.Join(dir, "out.bin"))
	Expect(err).ToNot(HaveOccurred())
	return f
}

var _ = Describe("Decompress", func() {
	It("identifies and decodes a Zstandard source", func() {
		src := bytes.Repeat([]byte("round trip through the frame demultiplexer\n"), 200)

		var compressed bytes.Buffer
		_, cerr := engine.Compress(&compressed, bytes.NewReader(src), engine.CompressOptions{
			Algorithm:   codec.Zstd,
			Encode:      codec.EncodeOptions{Level: 3, Zstd: codec.ZstdOptions{Level: 3}},
			PledgedSize: int64(len(src)),
		})
		Expect(cerr).To(BeNil())

		dst := openScratch()
		defer dst.Close()

		res, err := engine.Decompress(dst, bytes.NewReader(compressed.Bytes()), engine.DecompressOptions{})
		Expect(err).To(BeNil())
		Expect(res.BytesOut).To(Equal(int64(len(src))))

		got, rerr := os.ReadFile(dst.Name())
		Expect(rerr).ToNot(HaveOccurred())
		Expect(got).To(Equal(src))
	})

	It("identifies and decodes a gzip source", func() {
		src := []byte("gzip through the demultiplexer")

		var compressed bytes.Buffer
		_, cerr := engine.Compress(&compressed, bytes.NewReader(src), engine.CompressOptions{
			Algorithm:   codec.Gzip,
			Encode:      codec.EncodeOptions{Level: 6},
			PledgedSize: int64(len(src)),
		})
		Expect(cerr).To(BeNil())

		dst := openScratch()
		defer dst.Close()

		_, err := engine.Decompress(dst, bytes.NewReader(compressed.Bytes()), engine.DecompressOptions{})
		Expect(err).To(BeNil())

		got, rerr := os.ReadFile(dst.Name())
		Expect(rerr).ToNot(HaveOccurred())
		Expect(got).To(Equal(src))
	})

	It("refuses an unrecognized format without passthrough", func() {
		dst := openScratch()
		defer dst.Close()

		_, err := engine.Decompress(dst, bytes.NewReader([]byte("not a compressed stream at all")), engine.DecompressOptions{})
		Expect(err).ToNot(BeNil())
		Expect(err.Code()).To(Equal(xerrors.UnsupportedForm))
	})

	It("falls back to raw passthrough when allowed", func() {
		raw := []byte("pass me through untouched")

		dst := openScratch()
		defer dst.Close()

		res, err := engine.Decompress(dst, bytes.NewReader(raw), engine.DecompressOptions{AllowRawPassthrough: true})
		Expect(err).To(BeNil())
		Expect(res.BytesOut).To(Equal(int64(len(raw))))

		got, rerr := os.ReadFile(dst.Name())
		Expect(rerr).ToNot(HaveOccurred())
		Expect(got).To(Equal(raw))
	})

	It("decodes a concatenation of a Zstandard frame, a skippable frame, and a gzip member", func() {
		zstdPart := []byte("first part carried by a zstandard frame\n")
		gzipPart := []byte("second part carried by a gzip member\n")

		var zstdOut bytes.Buffer
		_, cerr := engine.Compress(&zstdOut, bytes.NewReader(zstdPart), engine.CompressOptions{
			Algorithm:   codec.Zstd,
			Encode:      codec.EncodeOptions{Level: 3, Zstd: codec.ZstdOptions{Level: 3}},
			PledgedSize: int64(len(zstdPart)),
		})
		Expect(cerr).To(BeNil())

		var gzipOut bytes.Buffer
		_, cerr = engine.Compress(&gzipOut, bytes.NewReader(gzipPart), engine.CompressOptions{
			Algorithm:   codec.Gzip,
			Encode:      codec.EncodeOptions{Level: 6},
			PledgedSize: int64(len(gzipPart)),
		})
		Expect(cerr).To(BeNil())

		var skippable bytes.Buffer
		skippable.Write([]byte{0x50, 0x2A, 0x4D, 0x18}) // skippable magic, nibble 0
		skippablePayload := []byte{0xAA, 0xBB, 0xCC, 0xDD}
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(skippablePayload)))
		skippable.Write(lenBuf)
		skippable.Write(skippablePayload)

		var combined bytes.Buffer
		combined.Write(zstdOut.Bytes())
		combined.Write(skippable.Bytes())
		combined.Write(gzipOut.Bytes())

		dst := openScratch()
		defer dst.Close()

		res, err := engine.Decompress(dst, bytes.NewReader(combined.Bytes()), engine.DecompressOptions{})
		Expect(err).To(BeNil())

		want := append(append([]byte{}, zstdPart...), gzipPart...)
		Expect(res.BytesOut).To(Equal(int64(len(want))))

		got, rerr := os.ReadFile(dst.Name())
		Expect(rerr).ToNot(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	It("preserves content exactly with sparse output enabled", func() {
		src := append(bytes.Repeat([]byte{0}, 1<<20), []byte("tail")...)

		var compressed bytes.Buffer
		_, cerr := engine.Compress(&compressed, bytes.NewReader(src), engine.CompressOptions{
			Algorithm:   codec.Zstd,
			Encode:      codec.EncodeOptions{Level: 3, Zstd: codec.ZstdOptions{Level: 3}},
			PledgedSize: int64(len(src)),
		})
		Expect(cerr).To(BeNil())

		dst := openScratch()
		defer dst.Close()

		res, err := engine.Decompress(dst, bytes.NewReader(compressed.Bytes()), engine.DecompressOptions{SparseEnabled: true})
		Expect(err).To(BeNil())
		Expect(res.BytesOut).To(Equal(int64(len(src))))

		got, rerr := os.ReadFile(dst.Name())
		Expect(rerr).ToNot(HaveOccurred())
		Expect(got).To(Equal(src))
	})
})
