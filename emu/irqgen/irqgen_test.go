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
	"testing"

	"github.com/matryer/is"
	"github.com/rcornwell/PPC60x/emu/event"
)

type pulses struct {
	lines []int
}

func (p *pulses) RaiseLine(_ int, line int) {
	p.lines = append(p.lines, line)
}

func TestGenerator(t *testing.T) {
	is := is.New(t)
	event.Reset()
	target := &pulses{}

	gen, err := New(0, LineSMI, 10, target)
	is.NoErr(err)
	gen.Start()
	gen.Start()
	event.Advance(9)
	is.Equal(len(target.lines), 0)
	event.Advance(1)
	is.Equal(target.lines, []int{LineSMI})
	event.Advance(25)
	is.Equal(gen.Count, 3)

	gen.Stop()
	event.Advance(100)
	is.Equal(gen.Count, 3)
	is.True(!event.AnyEvent())
}

func TestNewErrors(t *testing.T) {
	is := is.New(t)
	_, err := New(0, LineIRQ, 0, &pulses{})
	is.True(err != nil)
	_, err = New(0, 7, 10, &pulses{})
	is.True(err != nil)

	line, err := ParseLine("smi")
	is.NoErr(err)
	is.Equal(line, LineSMI)
	line, err = ParseLine("")
	is.NoErr(err)
	is.Equal(line, LineIRQ)
	_, err = ParseLine("nmi")
	is.True(err != nil)
}
