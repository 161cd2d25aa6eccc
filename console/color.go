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

// Package console is the small stderr prompt/diagnostic surface the File
// Gate uses for interactive overwrite confirmation: a colored prompt
// prefix and a yes/no reader, nothing more.
package console

import (
	"os"

	"github.com/fatih/color"
)

type colorType uint8

const (
	ColorPrint colorType = iota
	ColorWarn
	ColorPrompt
)

var colorList = map[colorType]*color.Color{
	ColorPrint:  color.New(color.FgWhite),
	ColorWarn:   color.New(color.FgYellow),
	ColorPrompt: color.New(color.FgCyan),
}

func (c colorType) Printf(format string, args ...interface{}) {
	if col := colorList[c]; col != nil {
		_, _ = col.Fprintf(os.Stderr, format, args...)
		return
	}
	println(format)
}
