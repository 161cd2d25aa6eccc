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

package adaptive_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/zstream/adaptive"
)

func TestAdaptive(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "adaptive suite")
}

var _ = Describe("Adaptive Controller", func() {
	It("should never leave [min,max] and should skip zero", func() {
		c := adaptive.NewController(1, -5, 5, -7, 22, 2)
		for i := int64(1); i <= 200; i++ {
			c.Observe(adaptive.Snapshot{
				JobID:         i,
				ActiveWorkers: 1,
				Ingested:      i * 100,
				Consumed:      i * 100,
				Produced:      i * 50,
				Flushed:       i * 50,
			})
			Expect(c.Level()).To(BeNumerically(">=", -5))
			Expect(c.Level()).To(BeNumerically("<=", 5))
			Expect(c.Level()).ToNot(Equal(0))
		}
	})

	It("input never blocked past warm-up should move the level monotonically in one direction", func() {
		c := adaptive.NewController(1, 1, 19, 1, 22, 4)
		levels := []int{c.Level()}
		for i := int64(1); i <= 30; i++ {
			c.Observe(adaptive.Snapshot{
				JobID:         i,
				ActiveWorkers: 1,
				Ingested:      i * 1000, // always advances: input never blocked
				Consumed:      i * 1000,
				Produced:      i * 500,
				Flushed:       i * 500,
			})
			levels = append(levels, c.Level())
		}
		for i := 1; i < len(levels); i++ {
			Expect(levels[i]).To(BeNumerically(">=", levels[i-1]))
		}
		Expect(levels[len(levels)-1]).To(Equal(19))
	})

	It("heavily blocked input with balanced throughput should move the level monotonically the other way", func() {
		// Four Observe calls share one job id (simulating four engine
		// loop iterations waiting on one codec job); ingested only
		// advances on the last call of each group, so three of every
		// four observations count as blocked, while consumed/produced/
		// flushed advance every call in lockstep (balanced throughput).
		c := adaptive.NewController(10, 1, 19, 1, 22, 2)
		levels := []int{c.Level()}

		var ingested, consumed, produced, flushed int64
		for g := int64(1); g <= 12; g++ {
			for k := 0; k < 4; k++ {
				consumed += 100
				produced += 100
				flushed += 100
				if k == 3 {
					ingested += 400
				}
				c.Observe(adaptive.Snapshot{
					JobID:         g,
					ActiveWorkers: 1,
					Ingested:      ingested,
					Consumed:      consumed,
					Produced:      produced,
					Flushed:       flushed,
				})
				levels = append(levels, c.Level())
			}
		}
		for i := 1; i < len(levels); i++ {
			Expect(levels[i]).To(BeNumerically("<=", levels[i-1]))
		}
		Expect(levels[len(levels)-1]).To(Equal(2))
	})

	It("should treat a stalled pipeline (no active workers) as slower", func() {
		c := adaptive.NewController(5, 1, 19, 1, 22, 2)
		c.Observe(adaptive.Snapshot{JobID: 2, ActiveWorkers: 1, Consumed: 100, Produced: 10, Flushed: 10})
		before := c.Level()
		d := c.Observe(adaptive.Snapshot{JobID: 2, ActiveWorkers: 0, Consumed: 100, Produced: 10, Flushed: 10})
		Expect(d).To(Equal(adaptive.Slower))
		Expect(c.Level()).To(BeNumerically(">", before))
	})
})
