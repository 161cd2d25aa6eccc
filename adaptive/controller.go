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

// Package adaptive is the Adaptive Controller of spec.md §4.5.1: a pure
// state machine over the Zstandard codec's frame-progression snapshots,
// deciding slower/faster/no-change. klauspost/compress/zstd does not
// expose a ZSTD_getFrameProgression-shaped API, so engine/compress.go
// synthesizes the Snapshot values this package consumes from its own
// byte-counting vantage point (see DESIGN.md); the controller itself is
// independent of that adaptation and testable with purely synthetic
// snapshots.
package adaptive

// Snapshot is one frame-progression observation: cumulative counters plus
// the codec's current internal job identifier and active worker count.
type Snapshot struct {
	JobID          int64
	ActiveWorkers  int
	Ingested       int64
	Consumed       int64
	Produced       int64
	Flushed        int64
	NothingToFlush bool
}

// Decision is the controller's verdict for one observation.
type Decision uint8

const (
	NoChange Decision = iota
	Slower
	Faster
)

func (d Decision) String() string {
	switch d {
	case Slower:
		return "slower"
	case Faster:
		return "faster"
	default:
		return "no-change"
	}
}

// Controller tracks the state spec.md §4.5.1 lists explicitly: two
// distinct previous-snapshot trackers (one for the per-observation stall
// check, one for the per-job-boundary correction), the last job id seen,
// the flush-waiting flag, and the input-presented/input-blocked tallies.
type Controller struct {
	level             int
	minLevel, maxLevel int
	codecMin, codecMax int
	nbWorkers          int

	prevObserved   Snapshot
	haveObserved   bool
	prevUpdate     Snapshot
	haveUpdate     bool
	prevCorrection Snapshot
	haveCorrection bool

	lastJobID      int64
	flushWaiting   bool
	inputPresented int
	inputBlocked   int
}

// NewController builds a Controller starting at initialLevel, clamped to
// the intersection of [minLevel,maxLevel] (the Preferences bounds) and
// [codecMin,codecMax] (the codec's own hard limits).
func NewController(initialLevel, minLevel, maxLevel, codecMin, codecMax, nbWorkers int) *Controller {
	c := &Controller{
		level:     initialLevel,
		minLevel:  minLevel,
		maxLevel:  maxLevel,
		codecMin:  codecMin,
		codecMax:  codecMax,
		nbWorkers: nbWorkers,
	}
	c.clamp()
	return c
}

// Level returns the controller's current recommended level.
func (c *Controller) Level() int {
	return c.level
}

// Observe folds one snapshot into the state machine and returns the
// resulting decision; the level is updated in place.
func (c *Controller) Observe(s Snapshot) Decision {
	decision := NoChange

	c.inputPresented++
	if c.haveObserved && s.Ingested == c.prevObserved.Ingested {
		c.inputBlocked++
	}
	c.prevObserved = s
	c.haveObserved = true

	if s.NothingToFlush {
		c.flushWaiting = true
	}

	if s.JobID > 1 && c.haveUpdate {
		switch {
		case s.Consumed == c.prevUpdate.Consumed && s.ActiveWorkers == 0:
			decision = Slower
		default:
			producedDelta := s.Produced - c.prevUpdate.Produced
			flushedDelta := s.Flushed - c.prevUpdate.Flushed
			if producedDelta > flushedDelta*9/8 && !c.flushWaiting {
				decision = Slower
			}
		}
		c.flushWaiting = false
	}
	c.prevUpdate = s
	c.haveUpdate = true

	warmup := int64(c.nbWorkers + 1)
	if s.JobID > c.lastJobID && s.JobID > warmup {
		switch {
		case c.inputBlocked == 0:
			decision = Slower
		case c.haveCorrection:
			ingestedDelta := s.Ingested - c.prevCorrection.Ingested
			consumedDelta := s.Consumed - c.prevCorrection.Consumed
			flushedDelta := s.Flushed - c.prevCorrection.Flushed
			producedDelta := s.Produced - c.prevCorrection.Produced
			if int64(c.inputBlocked) > int64(c.inputPresented)/8 &&
				flushedDelta*33/32 > producedDelta &&
				ingestedDelta*33/32 > consumedDelta {
				decision = Faster
			}
		}
		c.inputBlocked = 0
		c.inputPresented = 0
		c.prevCorrection = s
		c.haveCorrection = true
		c.lastJobID = s.JobID
	}

	c.apply(decision)
	return decision
}

func (c *Controller) apply(d Decision) {
	switch d {
	case Slower:
		c.level++
	case Faster:
		c.level--
	default:
		return
	}
	c.clamp()
	if c.level == 0 {
		if d == Slower {
			c.level = 1
		} else {
			c.level = -1
		}
		c.clamp()
	}
}

func (c *Controller) clamp() {
	lo := c.minLevel
	if c.codecMin > lo {
		lo = c.codecMin
	}
	hi := c.maxLevel
	if c.codecMax < hi {
		hi = c.codecMax
	}
	if c.level < lo {
		c.level = lo
	}
	if c.level > hi {
		c.level = hi
	}
}
