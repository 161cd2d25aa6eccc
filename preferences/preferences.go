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

// Package preferences is the process-wide options bag (spec.md §3), plus
// the per-batch mutable Context and the Display throttle. Unlike the
// scalar codec.Algorithm, Preferences is a multi-field
// bag with no single textual form, so it does not implement
// encoding.TextUnmarshaler itself -- an external flag/env decoder
// populates the struct field by field instead.
package preferences

import (
	"github.com/nabbar/zstream/codec"
	"github.com/nabbar/zstream/xerrors"
)

// SparseMode controls whether the Sparse Writer elides zero runs.
type SparseMode uint8

const (
	SparseAuto SparseMode = iota
	SparseOff
	SparseForce
)

// OverwriteMode controls destination-exists behavior in the File Gate.
type OverwriteMode uint8

const (
	OverwriteAsk OverwriteMode = iota
	OverwriteForce
)

// Strategy mirrors the Zstandard match-finder strategy knob; values follow
// klauspost/compress/zstd's own small enumeration.
type Strategy uint8

const (
	StrategyDefault Strategy = iota
	StrategyFast
	StrategyDfast
	StrategyGreedy
	StrategyLazy
	StrategyLazy2
	StrategyBtlazy2
	StrategyBtopt
	StrategyBtultra
	StrategyBtultra2
)

// CycleLog approximates zstd's internal ZSTD_cycleLog: the match finder
// revisits a hash bucket every 2^cycleLog positions, one less than hashLog
// for the binary-tree strategies (which search a full tree per bucket
// instead of a fixed-depth chain). Patch-from mode (spec.md §4.5.2) uses
// this to decide whether a derived window log has grown past what the
// strategy's search structure can address without long-distance matching.
func (s Strategy) CycleLog(hashLog int) int {
	if s >= StrategyBtlazy2 {
		return hashLog - 1
	}
	return hashLog
}

// Preferences is the long-lived, process-wide options bag of spec.md §3.
// Mutated only between files, never during one.
type Preferences struct {
	Format codec.Algorithm

	// Zstandard numeric codec parameters.
	Level             int
	WindowLog         int
	ChainLog          int
	HashLog           int
	SearchLog         int
	MinMatch          int
	TargetLength      int
	Strategy          Strategy
	ContentSizeFlag   bool
	DictIDFlag        bool
	ChecksumFlag      bool
	LiteralCompressed bool
	LongDistance      bool
	LDMHashLog        int
	LDMMinMatch       int
	LDMBucketSizeLog  int
	LDMHashRateLog    int
	RowMatchFinder    bool

	// Concurrency.
	Workers      int
	JobSize      int
	OverlapLog   int
	Rsyncable    bool

	// Adaptive mode.
	AdaptiveMode bool
	MinAdapt     int
	MaxAdapt     int

	// Size hints.
	SourceSizeHint    int64
	StreamSize        int64
	TargetBlockSize   int

	// Patch-from mode.
	PatchFrom     bool
	DictPath      string
	MemoryLimit   int64

	// File handling policy.
	SparseMode             SparseMode
	Overwrite              OverwriteMode
	RemoveSourceOnSuccess  bool
	ExcludeAlreadyCompress bool
	AllowBlockDevice       bool
	TestMode               bool

	OutputDir string
	MirrorDir string
}

// Default returns Preferences with the conservative defaults the Batch
// Driver falls back to when the external CLI leaves a field unset.
func Default() Preferences {
	return Preferences{
		Format:       codec.Zstd,
		Level:        3,
		WindowLog:    27,
		Workers:      0,
		MinAdapt:     1,
		MaxAdapt:     19,
		SparseMode:   SparseAuto,
		Overwrite:    OverwriteAsk,
		MemoryLimit:  32 << 20,
	}
}

// Validate enforces the cross-field invariants the Batch Driver relies on
// before opening the first file, the way file/perm validates a parsed mode
// string before it is used.
func (p Preferences) Validate() xerrors.Error {
	if p.AdaptiveMode && p.MinAdapt > p.MaxAdapt {
		return xerrors.CodecContextError.Errorf("adaptive min level %d exceeds max level %d", p.MinAdapt, p.MaxAdapt)
	}
	if p.WindowLog < codec.ZstdWindowLogMin || p.WindowLog > codec.ZstdWindowLogMax {
		return xerrors.WindowTooLarge.Errorf("window log %d out of range [%d,%d]", p.WindowLog, codec.ZstdWindowLogMin, codec.ZstdWindowLogMax)
	}
	if p.MemoryLimit < 0 {
		return xerrors.CodecContextError.Errorf("negative memory limit %d", p.MemoryLimit)
	}
	if p.PatchFrom && p.DictPath == "" {
		return xerrors.PatchFromViolation.Errorf("patch-from mode requires a reference file")
	}
	return nil
}

// Context is the per-batch mutable state of spec.md §3.
type Context struct {
	Index          int
	Total          int
	Processed      int
	AggregateIn    int64
	AggregateOut   int64
	StdinIsSource  bool
	StdoutIsDest   bool
}
