/*
 * PPC60x - Time slice timer
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rcornwell/PPC60x/emu/master"
)

type timerTest struct {
	master  chan master.Packet
	done    chan struct{}
	counter atomic.Int32
	bad     atomic.Int32
}

// Receive timer ticks.
func (test *timerTest) run() {
	for {
		select {
		case v := <-test.master:
			if v.Msg != master.TimeSlice {
				test.bad.Add(1)
			}
			test.counter.Add(1)
		case <-test.done:
			return
		}
	}
}

func TestTimer(t *testing.T) {
	test := &timerTest{master: make(chan master.Packet), done: make(chan struct{})}
	timer := NewTimer(test.master, 10*time.Millisecond)
	defer timer.Shutdown()
	go test.run()
	defer close(test.done)

	// Nothing until started.
	time.Sleep(50 * time.Millisecond)
	if n := test.counter.Load(); n != 0 {
		t.Errorf("Ticks before start got: %d expected: 0", n)
	}

	timer.Start()
	time.Sleep(500 * time.Millisecond)
	timer.Stop()
	n := test.counter.Load()
	if n < 35 || n > 55 {
		t.Errorf("Ticks in 1/2 second got: %d expected: about 50", n)
	}
	if test.bad.Load() != 0 {
		t.Errorf("Timer sent wrong message")
	}

	// Allow a tick in flight to arrive, then check nothing more is sent.
	time.Sleep(20 * time.Millisecond)
	test.counter.Store(0)
	time.Sleep(100 * time.Millisecond)
	if n := test.counter.Load(); n != 0 {
		t.Errorf("Ticks while stopped got: %d expected: 0", n)
	}
}
