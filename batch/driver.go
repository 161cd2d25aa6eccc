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

// Package batch is the Batch Driver of spec.md §4.8: the top-level loop
// that walks a list of sources, derives destinations through the Path &
// Name Service, and wires the File Gate, Signal Arbiter, and engines
// together one file at a time.
package batch

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nabbar/zstream/adaptive"
	"github.com/nabbar/zstream/codec"
	"github.com/nabbar/zstream/engine"
	"github.com/nabbar/zstream/filegate"
	"github.com/nabbar/zstream/logger"
	"github.com/nabbar/zstream/pathname"
	"github.com/nabbar/zstream/preferences"
	"github.com/nabbar/zstream/signalarbiter"
	"github.com/nabbar/zstream/xerrors"
)

// Direction selects which Path & Name Service function and which engine a
// Driver run uses.
type Direction uint8

const (
	Compress Direction = iota
	Decompress
)

// Summary tallies one run's outcome. A fatal per-file error aborts the
// remaining sources; a policy-refusal or transient error only skips its
// file (spec.md §7's propagation rule, enforced by processOne's caller).
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Aborted   bool
}

// Driver holds everything one batch run shares across files: the
// process-wide Preferences, the single Signal Arbiter slot, and the
// logger. Nothing here is safe for concurrent use across goroutines,
// matching spec.md §5's single-threaded cooperative scheduling model.
type Driver struct {
	Prefs     *preferences.Preferences
	Display   *preferences.Display
	Log       logger.Logger
	Arbiter   *signalarbiter.Arbiter
	Prompt    filegate.Prompter
	Direction Direction
	Quiet     bool
}

// allFormats lists every algorithm the Path & Name Service considers when
// stripping a decompression suffix; a future CLI layer narrowing this to
// only the formats it actually built in would pass a smaller slice instead.
func allFormats() []codec.Algorithm {
	return []codec.Algorithm{codec.Zstd, codec.Gzip, codec.Xz, codec.Lzma, codec.LZ4}
}

// alreadyCompressed reports whether src's name already carries one of the
// known compressed-format suffixes, spec.md §3's exclude-already-compressed
// policy (only meaningful when compressing).
func alreadyCompressed(src string) bool {
	base := filepath.Base(src)
	for _, a := range allFormats() {
		for _, suf := range a.AllSuffixes() {
			if suf != "" && strings.HasSuffix(base, suf) {
				return true
			}
		}
	}
	return false
}

// RunPerSource implements spec.md §4.8's "one destination per source" and
// "mirrored destination" modes: each source gets its own derived
// destination, and a batch-wide collision check runs at the end.
func (d *Driver) RunPerSource(sources []string) Summary {
	var sum Summary
	dests := make([]string, 0, len(sources))

	for _, src := range sources {
		if d.Direction == Compress && d.Prefs.ExcludeAlreadyCompress && alreadyCompressed(src) {
			d.Log.Debugf("%s: already compressed, excluded", src)
			sum.Skipped++
			continue
		}

		dst, derr := d.deriveDestination(src)
		if derr != nil {
			d.Log.Warnf("%s: %s", src, derr.Error())
			sum.Skipped++
			continue
		}
		dests = append(dests, dst)

		if err := d.processOne(src, dst); err != nil {
			d.Log.Warnf("%s: %s", src, err.Error())
			if err.Kind() == xerrors.KindFatal {
				sum.Failed++
				sum.Aborted = true
				return sum
			}
			sum.Skipped++
			continue
		}
		sum.Processed++
	}

	if collisions := pathname.CheckCollisions(dests); len(collisions) > 0 {
		for _, c := range collisions {
			d.Log.Warnf("destination name collision: %s", c)
		}
	}

	return sum
}

// RunSingleOutput implements spec.md §4.8's "single concatenated output"
// mode: every source is compressed or decompressed into the same already-
// open destination, in list order (spec.md §5's ordering guarantee).
// Decompression into a single concatenated output is not offered by the
// source CLI and is refused here the same way.
func (d *Driver) RunSingleOutput(sources []string, output string) Summary {
	var sum Summary

	if d.Direction == Decompress {
		d.Log.Errorf("a single concatenated destination is only meaningful for compression")
		sum.Aborted = true
		return sum
	}

	if d.Prefs.TestMode {
		d.Log.Errorf("test-mode discards output and cannot be combined with a single concatenated destination")
		sum.Aborted = true
		return sum
	}

	if len(sources) > 1 {
		d.Log.Warnf("multiple sources into one destination: the original directory tree cannot be regenerated on decompression")
	}

	if d.Prefs.RemoveSourceOnSuccess {
		stdoutDest := output == filegate.StdoutName
		if (d.Quiet && !stdoutDest) || stdoutDest {
			d.Log.Errorf("refusing to combine --rm with a single concatenated destination %s", destKind(stdoutDest))
			sum.Aborted = true
			return sum
		}
		if d.Prompt != nil {
			ok, perr := d.Prompt("remove all sources after a successful concatenated compression")
			if perr != nil || !ok {
				sum.Aborted = true
				return sum
			}
		}
	}

	f, err := filegate.OpenDestination(d.Prefs, "", output, 0o644, d.Prompt, !d.Quiet)
	if err != nil {
		d.Log.Errorf("%s: %s", output, err.Error())
		sum.Aborted = true
		return sum
	}

	armed := output != filegate.StdoutName
	if armed && !d.Arbiter.Arm(output) {
		d.Log.Errorf("signal arbiter already armed, refusing to start a concatenated run")
		_ = f.Close()
		sum.Aborted = true
		return sum
	}

	for _, src := range sources {
		if d.Prefs.ExcludeAlreadyCompress && alreadyCompressed(src) {
			d.Log.Debugf("%s: already compressed, excluded", src)
			sum.Skipped++
			continue
		}

		rc, serr := filegate.OpenSource(src, d.Prefs.AllowBlockDevice)
		if serr != nil {
			d.Log.Warnf("%s: %s", src, serr.Error())
			sum.Skipped++
			continue
		}

		cerr := d.compressOne(rc, f, src)
		_ = rc.Close()
		if cerr != nil {
			d.Log.Warnf("%s: %s", src, cerr.Error())
			if cerr.Kind() == xerrors.KindFatal {
				sum.Failed++
				sum.Aborted = true
				break
			}
			sum.Skipped++
			continue
		}

		if d.Prefs.RemoveSourceOnSuccess && src != filegate.StdinName {
			_ = os.Remove(src)
		}
		sum.Processed++
	}

	if armed {
		d.Arbiter.Disarm()
	}
	if cerr := f.Close(); cerr != nil {
		d.Log.Errorf("%s: %v", output, cerr)
	}

	return sum
}

func destKind(stdout bool) string {
	if stdout {
		return "(stdout)"
	}
	return "in quiet mode (no confirmation would be possible)"
}

func (d *Driver) deriveDestination(src string) (string, xerrors.Error) {
	outDir := d.Prefs.OutputDir
	if d.Prefs.MirrorDir != "" {
		rel := src
		if filepath.IsAbs(rel) {
			rel = strings.TrimPrefix(rel, string(filepath.Separator))
		}
		outDir = filepath.Join(d.Prefs.MirrorDir, filepath.Dir(rel))
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return "", xerrors.WriteError.Error(err)
		}
	}

	if d.Direction == Compress {
		return pathname.DeriveCompressedName(src, outDir, d.Prefs.Format.Suffix()), nil
	}
	return pathname.DeriveDecompressedName(src, outDir, allFormats())
}

// discardWriteSeeker satisfies io.WriteSeeker while dropping everything
// written, used by test-mode (spec.md §3: "test-mode (discard outputs)")
// so a run can be driven through the engines -- validating the source
// decodes or encodes cleanly -- without touching the filesystem.
type discardWriteSeeker struct{}

func (discardWriteSeeker) Write(p []byte) (int, error)    { return len(p), nil }
func (discardWriteSeeker) Seek(int64, int) (int64, error) { return 0, nil }

// processOne opens source and destination, runs the chosen engine, and
// handles the armed-destination/mode-transfer/remove-on-success lifecycle
// spec.md §4.8 describes for the per-source modes.
func (d *Driver) processOne(src, dst string) xerrors.Error {
	rc, err := filegate.OpenSource(src, d.Prefs.AllowBlockDevice)
	if err != nil {
		return err
	}
	defer rc.Close()

	if d.Prefs.TestMode {
		return d.processTestMode(rc, src)
	}

	var mode os.FileMode = 0o644
	overwriteCheckSrc := ""
	var srcInfo os.FileInfo
	if src != filegate.StdinName {
		fi, serr := os.Stat(src)
		if serr != nil {
			return xerrors.ReadError.Error(serr)
		}
		srcInfo = fi
		mode = fi.Mode().Perm()
		overwriteCheckSrc = src
	}

	f, err := filegate.OpenDestination(d.Prefs, overwriteCheckSrc, dst, mode, d.Prompt, !d.Quiet)
	if err != nil {
		return err
	}

	armed := dst != filegate.StdoutName
	if armed && !d.Arbiter.Arm(dst) {
		_ = f.Close()
		return xerrors.CodecContextError.Errorf("signal arbiter already armed, logic error")
	}

	var runErr xerrors.Error
	if d.Direction == Compress {
		runErr = d.compressOne(rc, f, src)
	} else {
		runErr = d.decompressOne(rc, f)
	}

	if armed {
		d.Arbiter.Disarm()
	}
	if cerr := f.Close(); cerr != nil && runErr == nil {
		runErr = xerrors.WriteError.Error(cerr)
	}

	if runErr != nil {
		if dst != filegate.StdoutName {
			_ = os.Remove(dst)
		}
		return runErr
	}

	if srcInfo != nil && dst != filegate.StdoutName {
		_ = filegate.CapturePerm(srcInfo).Apply(dst)
		_ = os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
	}

	if d.Prefs.RemoveSourceOnSuccess && src != filegate.StdinName {
		_ = os.Remove(src)
	}

	return nil
}

// processTestMode drives src through the chosen engine discarding all
// output, honoring remove-source-on-success but skipping the mode/mtime
// transfer and signal-arbiter arming that only matter for a real
// destination file.
func (d *Driver) processTestMode(rc io.Reader, src string) xerrors.Error {
	var runErr xerrors.Error
	if d.Direction == Compress {
		runErr = d.compressOne(rc, io.Discard, src)
	} else {
		runErr = d.decompressOne(rc, discardWriteSeeker{})
	}
	if runErr != nil {
		return runErr
	}
	if d.Prefs.RemoveSourceOnSuccess && src != filegate.StdinName {
		_ = os.Remove(src)
	}
	return nil
}

func (d *Driver) compressOne(src io.Reader, dst io.Writer, srcPath string) xerrors.Error {
	pledged := int64(-1)
	if srcPath != filegate.StdinName {
		if fi, serr := os.Stat(srcPath); serr == nil {
			pledged = fi.Size()
		}
	} else if d.Prefs.StreamSize > 0 {
		pledged = d.Prefs.StreamSize
	}

	var ctrl *adaptive.Controller
	if d.Prefs.AdaptiveMode && d.Prefs.Format == codec.Zstd {
		workers := d.Prefs.Workers
		if workers < 1 {
			workers = 1
		}
		ctrl = adaptive.NewController(d.Prefs.Level, d.Prefs.MinAdapt, d.Prefs.MaxAdapt, 1, 22, workers)
	}

	encode, eerr := d.buildEncodeOptions(pledged)
	if eerr != nil {
		return eerr
	}

	opt := engine.CompressOptions{
		Algorithm:   d.Prefs.Format,
		Encode:      encode,
		PledgedSize: pledged,
		Adaptive:    ctrl,
		Display:     d.Display,
	}

	res, err := engine.Compress(dst, src, opt)
	if err != nil {
		return err
	}
	d.Log.Debugf("compressed %s: %d -> %d bytes", srcPath, res.BytesIn, res.BytesOut)
	return nil
}

func (d *Driver) decompressOne(src io.Reader, dst io.WriteSeeker) xerrors.Error {
	sparseEnabled := d.Prefs.SparseMode == preferences.SparseForce ||
		(d.Prefs.SparseMode == preferences.SparseAuto)

	res, err := engine.Decompress(dst, src, engine.DecompressOptions{
		SparseEnabled:       sparseEnabled,
		AllowRawPassthrough: d.Prefs.Overwrite == preferences.OverwriteForce && dst == os.Stdout,
	})
	if err != nil {
		return err
	}
	d.Log.Debugf("decompressed %d bytes", res.BytesOut)
	return nil
}

// buildEncodeOptions derives the per-file codec.EncodeOptions from
// Preferences. srcSize is the pledged source size (-1 if unknown); it only
// feeds the patch-from window derivation below, spec.md §4.5.2.
func (d *Driver) buildEncodeOptions(srcSize int64) (codec.EncodeOptions, xerrors.Error) {
	p := d.Prefs

	zopt := codec.ZstdOptions{
		WindowLog:    p.WindowLog,
		ChecksumFlag: p.ChecksumFlag,
		LongDistance: p.LongDistance,
		ContentSize:  -1,
	}

	if !p.PatchFrom {
		dict, derr := filegate.LoadDict(p.DictPath, 0)
		if derr != nil {
			return codec.EncodeOptions{}, derr
		}
		zopt.DictOrPrefix = dict
		return codec.EncodeOptions{Level: p.Level, Workers: p.Workers, Zstd: zopt}, nil
	}

	// Patch-from mode (spec.md §4.5.2): the dictionary is attached as a
	// ref-prefix, the window log is derived from max(dictSize, srcSize),
	// the LongDistance flag is set once that window outgrows the strategy's
	// cycle log (the encoder does not apply it, see codec.ZstdOptions), the
	// memory limit is raised to fit, and files
	// that would need a window past ZstdWindowLogMax are refused outright.
	dictInfo, serr := os.Stat(p.DictPath)
	if serr != nil {
		return codec.EncodeOptions{}, xerrors.ReadError.Error(serr)
	}
	dictSize := dictInfo.Size()

	refSize := dictSize
	if srcSize > refSize {
		refSize = srcSize
	}
	if refSize > int64(1)<<uint(codec.ZstdWindowLogMax) {
		return codec.EncodeOptions{}, xerrors.WindowTooLarge.Errorf(
			"patch-from reference window of %d bytes exceeds the maximum window 2^%d", refSize, codec.ZstdWindowLogMax)
	}

	windowLog := codec.WindowLogForSize(refSize)
	if windowLog > zopt.WindowLog {
		zopt.WindowLog = windowLog
	}

	hashLog := p.HashLog
	if hashLog <= 0 {
		hashLog = 21
	}
	if zopt.WindowLog > p.Strategy.CycleLog(hashLog) {
		zopt.LongDistance = true
	}

	memLimit := p.MemoryLimit
	if dictSize > memLimit {
		memLimit = dictSize
	}

	dict, derr := filegate.LoadDict(p.DictPath, memLimit)
	if derr != nil {
		return codec.EncodeOptions{}, derr
	}
	zopt.DictOrPrefix = dict
	zopt.DictIsPrefix = true

	return codec.EncodeOptions{Level: p.Level, Workers: p.Workers, Zstd: zopt}, nil
}
