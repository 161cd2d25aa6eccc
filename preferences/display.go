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

package preferences

import "time"

// ProgressMode controls whether progress lines are emitted.
type ProgressMode uint8

const (
	ProgressAuto ProgressMode = iota
	ProgressAlways
	ProgressNever
)

// refreshInterval throttles progress output to roughly 6 Hz, spec.md §3.
const refreshInterval = time.Second / 6

// Display is the process-wide verbosity/progress bag. Clock is injectable
// so the throttle is testable without time.Sleep, per SPEC_FULL.md's data
// model note.
type Display struct {
	Verbosity int
	Progress  ProgressMode

	Clock func() time.Time
	last  time.Time
}

// NewDisplay builds a Display driven by the real wall clock.
func NewDisplay(verbosity int, mode ProgressMode) *Display {
	return &Display{Verbosity: verbosity, Progress: mode, Clock: time.Now}
}

// ShouldRefresh reports whether enough time has elapsed since the last
// accepted refresh to emit another progress line, and -- if so -- records
// the new last-refresh time. Call exactly once per candidate refresh.
func (d *Display) ShouldRefresh() bool {
	if d.Progress == ProgressNever {
		return false
	}
	now := d.Clock()
	if d.last.IsZero() || now.Sub(d.last) >= refreshInterval {
		d.last = now
		return true
	}
	return false
}

// Reset clears the throttle state, used between files.
func (d *Display) Reset() {
	d.last = time.Time{}
}
