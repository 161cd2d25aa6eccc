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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zstream/codec"
)

var _ = Describe("Algorithm Type", func() {
	Context("List operations", func() {
		It("should return all algorithms", func() {
			lst := codec.List()
			Expect(lst).To(HaveLen(6))
			Expect(lst).To(ContainElements(
				codec.None, codec.Zstd, codec.Gzip, codec.Xz, codec.Lzma, codec.LZ4,
			))
		})

		It("should return string list", func() {
			lst := codec.ListString()
			Expect(lst).To(ContainElements("none", "zstd", "gzip", "xz", "lzma", "lz4"))
		})
	})

	Context("String method", func() {
		It("should name each algorithm", func() {
			Expect(codec.Zstd.String()).To(Equal("zstd"))
			Expect(codec.Gzip.String()).To(Equal("gzip"))
			Expect(codec.Xz.String()).To(Equal("xz"))
			Expect(codec.Lzma.String()).To(Equal("lzma"))
			Expect(codec.LZ4.String()).To(Equal("lz4"))
			Expect(codec.None.String()).To(Equal("none"))
		})

		It("should return none for invalid algorithm", func() {
			var invalid codec.Algorithm = 99
			Expect(invalid.String()).To(Equal("none"))
		})
	})

	Context("Suffix and TarSuffix", func() {
		It("should return the plain suffix", func() {
			Expect(codec.Zstd.Suffix()).To(Equal(".zst"))
			Expect(codec.Gzip.Suffix()).To(Equal(".gz"))
			Expect(codec.Xz.Suffix()).To(Equal(".xz"))
			Expect(codec.Lzma.Suffix()).To(Equal(".lzma"))
			Expect(codec.LZ4.Suffix()).To(Equal(".lz4"))
		})

		It("should return the tar variant where defined", func() {
			Expect(codec.Zstd.TarSuffix()).To(Equal(".tzst"))
			Expect(codec.Gzip.TarSuffix()).To(Equal(".tgz"))
			Expect(codec.Xz.TarSuffix()).To(Equal(".txz"))
			Expect(codec.LZ4.TarSuffix()).To(Equal(".tlz4"))
			Expect(codec.Lzma.TarSuffix()).To(BeEmpty())
		})
	})

	Context("DetectMagic method", func() {
		It("should detect Zstd magic", func() {
			header := []byte{0x28, 0xB5, 0x2F, 0xFD, 0x00, 0x00}
			Expect(codec.Zstd.DetectMagic(header)).To(BeTrue())
			Expect(codec.Gzip.DetectMagic(header)).To(BeFalse())
		})

		It("should detect Gzip magic", func() {
			header := []byte{0x1F, 0x8B, 0x08, 0x00}
			Expect(codec.Gzip.DetectMagic(header)).To(BeTrue())
			Expect(codec.Zstd.DetectMagic(header)).To(BeFalse())
		})

		It("should detect Xz magic", func() {
			header := []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
			Expect(codec.Xz.DetectMagic(header)).To(BeTrue())
		})

		It("should detect raw Lzma magic", func() {
			header := []byte{0x5D, 0x00, 0x00, 0x00}
			Expect(codec.Lzma.DetectMagic(header)).To(BeTrue())
		})

		It("should detect LZ4 magic", func() {
			header := []byte{0x04, 0x22, 0x4D, 0x18}
			Expect(codec.LZ4.DetectMagic(header)).To(BeTrue())
		})

		It("should return false for a short header", func() {
			Expect(codec.Gzip.DetectMagic([]byte{0x1F})).To(BeFalse())
		})

		It("should return false for None", func() {
			Expect(codec.None.DetectMagic([]byte{0, 0, 0, 0})).To(BeFalse())
		})
	})

	Context("IsSkippableFrame", func() {
		It("should match any skippable magic nibble", func() {
			for n := byte(0x50); n <= 0x5F; n++ {
				Expect(codec.IsSkippableFrame([]byte{n, 0x2A, 0x4D, 0x18})).To(BeTrue())
			}
		})

		It("should reject a data frame magic", func() {
			Expect(codec.IsSkippableFrame([]byte{0x28, 0xB5, 0x2F, 0xFD})).To(BeFalse())
		})
	})
})
