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

// Package xerrors gives every per-file and fatal failure in this module a
// stable numeric identifier (spec.md §6/§7): a small CodeError type with
// three contiguous ranges (policy-refusal, transient, fatal) instead of an
// HTTP-status-sized catalogue.
package xerrors

import "strconv"

// CodeError is a small stable numeric identifier, 0-99 per spec.md §6.
type CodeError uint8

const (
	UnknownError CodeError = 0

	// Policy-refusal, 1..19: file skipped, batch continues, status 1.
	NotRegularFile    CodeError = 1
	SelfOverwrite     CodeError = 2
	UnknownSuffix     CodeError = 3
	PromptDeclined    CodeError = 4
	BlockDeviceDenied CodeError = 5

	// Transient per-file I/O, 20..39: file skipped, partial output removed.
	ReadError       CodeError = 20
	WriteError      CodeError = 21
	PrematureEOF    CodeError = 22
	CodecFrameError CodeError = 23
	SizeMismatch    CodeError = 24
	UnsupportedForm CodeError = 25
	TruncatedInput  CodeError = 26

	// Fatal, 40..59: abort the process, no attempt to continue the batch.
	AllocationFailure  CodeError = 40
	CodecContextError  CodeError = 41
	OversizeDictionary CodeError = 42
	PatchFromViolation CodeError = 43
	WindowTooLarge     CodeError = 44
)

var messages = map[CodeError]string{
	NotRegularFile:     "refusing non-regular source file",
	SelfOverwrite:      "destination resolves to the same file as source",
	UnknownSuffix:      "source has no recognized compressed suffix",
	PromptDeclined:     "user declined to overwrite existing destination",
	BlockDeviceDenied:  "block device source refused (not enabled)",
	ReadError:          "read from source failed",
	WriteError:         "write to destination failed",
	PrematureEOF:       "source ended before the pledged size was reached",
	CodecFrameError:    "codec reported a frame error",
	SizeMismatch:       "bytes read did not match the pledged source size",
	UnsupportedForm:    "input is not a recognized compressed format",
	TruncatedInput:     "input ended mid-frame",
	AllocationFailure:  "buffer allocation failed",
	CodecContextError:  "codec context could not be created",
	OversizeDictionary: "dictionary file exceeds the size cap",
	PatchFromViolation: "patch-from constraints violated",
	WindowTooLarge:     "source exceeds the maximum window size",
}

// Message returns the fixed diagnostic text for c, or a generic fallback
// for unregistered codes.
func (c CodeError) Message() string {
	if c == UnknownError {
		return "unknown error"
	}
	if m, ok := messages[c]; ok {
		return m
	}
	return "unknown error"
}

func (c CodeError) Uint8() uint8 {
	return uint8(c)
}

func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

// Kind classifies c into the three propagation buckets of spec.md §7.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPolicyRefusal
	KindTransient
	KindFatal
)

func (c CodeError) Kind() Kind {
	switch {
	case c == UnknownError:
		return KindUnknown
	case c >= 1 && c <= 19:
		return KindPolicyRefusal
	case c >= 20 && c <= 39:
		return KindTransient
	case c >= 40 && c <= 59:
		return KindFatal
	default:
		return KindUnknown
	}
}

// Error builds a new Error value from this code, chaining any parent
// errors given.
func (c CodeError) Error(parents ...error) Error {
	return New(c, c.Message(), parents...)
}

// Errorf builds a new Error value with a formatted message, keeping the
// code's classification.
func (c CodeError) Errorf(format string, args ...interface{}) Error {
	return Newf(c, format, args...)
}
