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

package xerrors

import (
	"fmt"
	"strings"
)

// Error extends the standard error interface with the numeric
// classification spec.md §6/§7 needs, plus a parent chain so a low-level
// I/O error can be wrapped without losing its own message.
type Error interface {
	error
	Code() CodeError
	Kind() Kind
	Parents() []Error
	Is(error) bool
}

type ers struct {
	code CodeError
	msg  string
	p    []Error
}

// New builds an Error with an explicit code, message, and optional parent
// errors (any non-Error parent is wrapped with UnknownError).
func New(code CodeError, msg string, parents ...error) Error {
	e := &ers{code: code, msg: msg}
	e.add(parents)
	return e
}

// Newf is New with a formatted message.
func Newf(code CodeError, format string, args ...interface{}) Error {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *ers) add(parents []error) {
	for _, v := range parents {
		if v == nil {
			continue
		}
		if er, ok := v.(Error); ok {
			e.p = append(e.p, er)
		} else {
			e.p = append(e.p, &ers{code: UnknownError, msg: v.Error()})
		}
	}
}

func (e *ers) Code() CodeError {
	return e.code
}

func (e *ers) Kind() Kind {
	return e.code.Kind()
}

func (e *ers) Parents() []Error {
	return e.p
}

func (e *ers) Error() string {
	var b strings.Builder
	b.WriteString(e.msg)
	for _, p := range e.p {
		b.WriteString(": ")
		b.WriteString(p.Error())
	}
	return b.String()
}

func (e *ers) Is(target error) bool {
	if target == nil {
		return false
	}
	if er, ok := target.(*ers); ok {
		return e.code != UnknownError && e.code == er.code
	}
	return false
}

// IfError returns a non-nil Error only if at least one of errs is
// non-nil, a convenience for folding a batch of possibly-nil errors.
func IfError(code CodeError, msg string, errs ...error) Error {
	var any bool
	for _, e := range errs {
		if e != nil {
			any = true
			break
		}
	}
	if !any {
		return nil
	}
	return New(code, msg, errs...)
}
