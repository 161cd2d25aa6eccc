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

package codec_test

import (
	"bytes"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zstream/codec"
)

var _ = Describe("Detection Functions", func() {
	Context("DetectOnly", func() {
		It("should identify Gzip without consuming bytes", func() {
			compressed, err := compressWith(codec.Gzip, []byte("payload"))
			Expect(err).ToNot(HaveOccurred())

			alg, r, err := codec.DetectOnly(bytes.NewReader(compressed))
			Expect(err).ToNot(HaveOccurred())
			Expect(alg).To(Equal(codec.Gzip))

			all, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(all).To(Equal(compressed))
		})

		It("should return None for unrecognized data", func() {
			alg, _, err := codec.DetectOnly(bytes.NewReader([]byte("plain text, not compressed")))
			Expect(err).ToNot(HaveOccurred())
			Expect(alg).To(Equal(codec.None))
		})
	})

	Context("Detect", func() {
		It("should identify and decode in one step", func() {
			compressed, err := compressWith(codec.Zstd, []byte("round trip me"))
			Expect(err).ToNot(HaveOccurred())

			alg, rc, err := codec.Detect(bytes.NewReader(compressed))
			Expect(err).ToNot(HaveOccurred())
			Expect(alg).To(Equal(codec.Zstd))
			defer func() { _ = rc.Close() }()

			out, err := io.ReadAll(rc)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte("round trip me")))
		})
	})

	Context("Parse", func() {
		It("should parse every known name", func() {
			Expect(codec.Parse("zstd")).To(Equal(codec.Zstd))
			Expect(codec.Parse("GZIP")).To(Equal(codec.Gzip))
			Expect(codec.Parse(" xz ")).To(Equal(codec.Xz))
			Expect(codec.Parse("'lzma'")).To(Equal(codec.Lzma))
			Expect(codec.Parse("lz4")).To(Equal(codec.LZ4))
		})

		It("should fall back to None on unknown input", func() {
			Expect(codec.Parse("rot13")).To(Equal(codec.None))
		})
	})
})
