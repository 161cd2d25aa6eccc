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

package console

import (
	"bufio"
	"io"
	"strconv"
)

func printPrompt(text string) {
	if text != "" {
		ColorPrompt.Printf("%s: ", text)
	}
}

// PromptString reads one line of text from in, after printing text as a
// colored prompt prefix.
func PromptString(in io.Reader, text string) (string, error) {
	printPrompt(text)

	scn := bufio.NewScanner(in)
	if scn.Scan() {
		return scn.Text(), nil
	}
	return "", scn.Err()
}

// PromptBool reads one line and parses it as a boolean (spec.md §4.2's
// interactive overwrite confirmation).
func PromptBool(in io.Reader, text string) (bool, error) {
	str, err := PromptString(in, text)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(str)
}

// Warn prints a non-fatal diagnostic to the console in the warning color.
func Warn(format string, args ...interface{}) {
	ColorWarn.Printf(format+"\n", args...)
}
