/*
 * PPC60x - Interrupt line generator
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

package irqgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rcornwell/PPC60x/emu/event"
	"github.com/rcornwell/PPC60x/util/debug"
)

// Lines a generator can drive.
const (
	LineIRQ = iota
	LineSMI
)

const debugPulse = 1

var debugMsk int

// Target receives interrupt pulses.
type Target interface {
	RaiseLine(cpu int, line int)
}

// Generator asserts an interrupt line every Period cycles of
// simulated time.
type Generator struct {
	CPU    int
	Line   int
	Period int
	Count  int // Pulses delivered
	target Target
	armed  bool
}

// Parse a line name.
func ParseLine(name string) (int, error) {
	switch strings.ToUpper(name) {
	case "", "IRQ":
		return LineIRQ, nil
	case "SMI":
		return LineSMI, nil
	}
	return 0, errors.New("interrupt line must be IRQ or SMI: " + name)
}

// Create a generator.
func New(cpu, line, period int, target Target) (*Generator, error) {
	if period <= 0 {
		return nil, fmt.Errorf("interrupt period must be positive: %d", period)
	}
	if line != LineIRQ && line != LineSMI {
		return nil, fmt.Errorf("invalid interrupt line: %d", line)
	}
	return &Generator{CPU: cpu, Line: line, Period: period, target: target}, nil
}

// Start delivering pulses.
func (gen *Generator) Start() {
	if gen.armed {
		return
	}
	gen.armed = true
	event.AddEvent(gen, gen.pulse, gen.Period, gen.Line)
}

// Stop delivering pulses.
func (gen *Generator) Stop() {
	if !gen.armed {
		return
	}
	gen.armed = false
	event.CancelEvent(gen, gen.Line)
}

func (gen *Generator) pulse(line int) {
	gen.Count++
	debug.Debugf("IRQGEN", debugMsk, debugPulse, "cpu %d line %d pulse %d", gen.CPU, line, gen.Count)
	gen.target.RaiseLine(gen.CPU, line)
	event.AddEvent(gen, gen.pulse, gen.Period, line)
}

// Enable debug output.
func Debug(opt string) error {
	if strings.ToUpper(opt) != "PULSE" {
		return errors.New("irqgen debug option invalid: " + opt)
	}
	debugMsk |= debugPulse
	return nil
}
