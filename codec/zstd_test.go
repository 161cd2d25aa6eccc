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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zstream/codec"
)

var _ = Describe("WindowLogForSize", func() {
	It("clamps small sizes to the minimum window log", func() {
		Expect(codec.WindowLogForSize(0)).To(Equal(codec.ZstdWindowLogMin))
		Expect(codec.WindowLogForSize(1024)).To(Equal(codec.ZstdWindowLogMin))
	})

	It("returns the bit position just covering n", func() {
		Expect(codec.WindowLogForSize(1 << 20)).To(Equal(20))
		Expect(codec.WindowLogForSize(1<<20 + 1)).To(Equal(21))
	})

	It("clamps large sizes to the maximum window log", func() {
		huge := int64(1) << uint(codec.ZstdWindowLogMax+4)
		Expect(codec.WindowLogForSize(huge)).To(Equal(codec.ZstdWindowLogMax))
	})
})

var _ = Describe("ZstdEncoder dictionary attachment", func() {
	It("compresses with a trained dictionary", func() {
		var out bytes.Buffer
		enc, err := codec.NewZstdEncoder(&out, codec.ZstdOptions{
			Level:        3,
			DictOrPrefix: []byte("the quick brown fox jumps over the lazy dog"),
		})
		Expect(err).ToNot(HaveOccurred())
		_, werr := enc.Write([]byte("the quick brown fox jumps over the lazy cat"))
		Expect(werr).ToNot(HaveOccurred())
		Expect(enc.Close()).To(Succeed())
		Expect(out.Len()).To(BeNumerically(">", 0))
	})

	It("compresses with a patch-from ref-prefix", func() {
		var out bytes.Buffer
		enc, err := codec.NewZstdEncoder(&out, codec.ZstdOptions{
			Level:        3,
			DictOrPrefix: []byte("the quick brown fox jumps over the lazy dog"),
			DictIsPrefix: true,
		})
		Expect(err).ToNot(HaveOccurred())
		_, werr := enc.Write([]byte("the quick brown fox jumps over the lazy cat"))
		Expect(werr).ToNot(HaveOccurred())
		Expect(enc.Close()).To(Succeed())
		Expect(out.Len()).To(BeNumerically(">", 0))

		dec, derr := codec.NewZstdDecoder(&out, 0)
		Expect(derr).ToNot(HaveOccurred())
		_ = dec.Close()
	})
})
