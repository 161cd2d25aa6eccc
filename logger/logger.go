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

// Package logger is a small structured-logging facade over logrus, the way
// nabbar/golib/logger positions itself -- trimmed to what the Batch Driver
// and engines need for per-file diagnostics: leveled calls with fields, no
// hook/syslog/gin/gorm integrations.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Fields is a structured-field bag attached to one log call.
type Fields = logrus.Fields

// Logger is the leveled logging surface used throughout this module.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithFields(f Fields) Logger
	SetLevel(level string) error
}

type wrapper struct {
	l *logrus.Entry
}

// New builds a Logger writing to stderr (spec.md §7: "user-visible output
// goes to stderr"), text-formatted, at info level by default.
func New() Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return &wrapper{l: logrus.NewEntry(l)}
}

func (w *wrapper) Debugf(format string, args ...interface{}) { w.l.Debugf(format, args...) }
func (w *wrapper) Infof(format string, args ...interface{})  { w.l.Infof(format, args...) }
func (w *wrapper) Warnf(format string, args ...interface{})  { w.l.Warnf(format, args...) }
func (w *wrapper) Errorf(format string, args ...interface{}) { w.l.Errorf(format, args...) }

func (w *wrapper) WithFields(f Fields) Logger {
	return &wrapper{l: w.l.WithFields(f)}
}

func (w *wrapper) SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	w.l.Logger.SetLevel(lvl)
	return nil
}

// Discard is a Logger that drops everything, used by tests.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return &wrapper{l: logrus.NewEntry(l)}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
