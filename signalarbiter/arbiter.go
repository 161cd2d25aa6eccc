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

// Package signalarbiter installs a single process-wide interrupt handler
// that removes the currently armed destination file before the process
// exits, the way nabbar/golib/httpserver/run waits on SIGINT/SIGTERM/SIGQUIT
// to shut a server down gracefully -- here the "graceful shutdown" is
// deleting a partial compressed artifact instead of draining connections.
package signalarbiter

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Arbiter is a single-slot arm/disarm guard around one destination path.
// Arming over an existing arm is a caller logic error: the Batch Driver
// never has two destinations open at once.
type Arbiter struct {
	mu    sync.Mutex
	path  string
	armed bool

	sig   chan os.Signal
	stop  chan struct{}
	done  chan struct{}
	exit  func(code int)
	onHit func()
}

// New builds an Arbiter. exit defaults to os.Exit; tests inject a capturing
// stand-in so the suite process itself never exits.
func New() *Arbiter {
	return &Arbiter{
		sig:  make(chan os.Signal, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
		exit: os.Exit,
	}
}

// SetExitFunc overrides the terminal action taken after cleanup. Exposed
// for tests; production callers leave the os.Exit default.
func (a *Arbiter) SetExitFunc(fn func(code int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.exit = fn
}

// Start installs the OS signal handlers and begins listening. Safe to call
// once per Arbiter; call Stop to release the handlers.
func (a *Arbiter) Start() {
	signal.Notify(a.sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go a.loop()
}

// Stop releases the OS signal handlers and ends the listening goroutine.
func (a *Arbiter) Stop() {
	signal.Stop(a.sig)
	close(a.stop)
	<-a.done
}

func (a *Arbiter) loop() {
	defer close(a.done)
	for {
		select {
		case s := <-a.sig:
			a.Trigger(s)
			return
		case <-a.stop:
			return
		}
	}
}

// Arm records path as the destination to remove on interrupt. Returns false
// if an arm is already in place (logic error in the caller).
func (a *Arbiter) Arm(path string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.armed {
		return false
	}
	a.path = path
	a.armed = true
	return true
}

// Disarm clears the slot. Idempotent.
func (a *Arbiter) Disarm() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.armed = false
	a.path = ""
}

// Trigger performs the interrupt action: unlink the armed path if it still
// resolves to a regular file, print a newline so the shell prompt is not
// left mid-line, then call the exit function with status 2. Exported so
// tests can exercise the handler logic directly, without raising real
// signals against the test binary.
func (a *Arbiter) Trigger(_ os.Signal) {
	a.mu.Lock()
	path, armed := a.path, a.armed
	a.mu.Unlock()

	if armed && path != "" {
		if fi, err := os.Lstat(path); err == nil && fi.Mode().IsRegular() {
			_ = os.Remove(path)
		}
	}

	fmt.Fprintln(os.Stderr)

	a.mu.Lock()
	exit := a.exit
	a.mu.Unlock()
	exit(2)
}
