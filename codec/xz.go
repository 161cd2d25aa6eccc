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

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// NewXzWriter/NewXzReader wrap github.com/ulikunitz/xz for the .xz
// container.
func NewXzWriter(w io.Writer) (io.WriteCloser, error) {
	return xz.NewWriter(w)
}

func NewXzReader(r io.Reader) (io.ReadCloser, error) {
	rdr, err := xz.NewReader(r)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(rdr), nil
}

// NewLzmaWriter/NewLzmaReader handle the raw-LZMA1 stream variant (magic
// 5D 00), using the xz dependency's lzma sub-package rather than pulling
// in a second library for the same codec family.
func NewLzmaWriter(w io.Writer) (io.WriteCloser, error) {
	return lzma.NewWriter(w)
}

func NewLzmaReader(r io.Reader) (io.ReadCloser, error) {
	rdr, err := lzma.NewReader(r)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(rdr), nil
}
