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

package preferences_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zstream/preferences"
)

func TestPreferences(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "preferences suite")
}

var _ = Describe("Validate", func() {
	It("should accept the defaults", func() {
		p := preferences.Default()
		Expect(p.Validate()).To(BeNil())
	})

	It("should reject min_adapt > max_adapt", func() {
		p := preferences.Default()
		p.AdaptiveMode = true
		p.MinAdapt, p.MaxAdapt = 10, 5
		Expect(p.Validate()).ToNot(BeNil())
	})

	It("should reject an out-of-range window log", func() {
		p := preferences.Default()
		p.WindowLog = 99
		Expect(p.Validate()).ToNot(BeNil())
	})

	It("should reject patch-from without a dictionary path", func() {
		p := preferences.Default()
		p.PatchFrom = true
		Expect(p.Validate()).ToNot(BeNil())
	})
})

var _ = Describe("Display throttle", func() {
	It("should refresh on the first call and not immediately after", func() {
		now := time.Unix(0, 0)
		d := &preferences.Display{Progress: preferences.ProgressAuto, Clock: func() time.Time { return now }}
		Expect(d.ShouldRefresh()).To(BeTrue())
		Expect(d.ShouldRefresh()).To(BeFalse())
	})

	It("should refresh again once the interval elapses", func() {
		now := time.Unix(0, 0)
		d := &preferences.Display{Progress: preferences.ProgressAuto, Clock: func() time.Time { return now }}
		Expect(d.ShouldRefresh()).To(BeTrue())
		now = now.Add(200 * time.Millisecond)
		Expect(d.ShouldRefresh()).To(BeTrue())
	})

	It("should never refresh when progress is disabled", func() {
		now := time.Unix(0, 0)
		d := &preferences.Display{Progress: preferences.ProgressNever, Clock: func() time.Time { return now }}
		Expect(d.ShouldRefresh()).To(BeFalse())
		now = now.Add(time.Hour)
		Expect(d.ShouldRefresh()).To(BeFalse())
	})
})
