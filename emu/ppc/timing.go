/*
 * PPC60x - PowerPC 602/603 processor
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

package ppc

import "github.com/rcornwell/PPC60x/util/debug"

// Number of instructions retired so far in current slice.
func (cpu *CPU) consumed() int {
	return cpu.budget - cpu.icount
}

// Compute the instruction count at which the decrementer would underflow
// in the remaining budget, offset from the current consumed count.
func (cpu *CPU) armDecrementer(remaining int) {
	dec := cpu.dec
	if dec-uint32(remaining) > dec {
		// A zero decrementer already underflowed and never matches.
		cpu.decTrigger = cpu.consumed() + int(dec)
		debug.Debugf(cpu.name, cpu.debugMsk, debugTimer, "decrementer %08x triggers at %d of %d",
			dec, cpu.decTrigger, cpu.budget)
		return
	}
	cpu.decTrigger = decNever
}

// Decrementer ticks accumulated since last rebase.
func (cpu *CPU) decTicks() int {
	ticks := cpu.consumed() - cpu.decBase
	if cpu.model == PPC603 {
		ticks += int(cpu.decFrac)
	}
	return ticks
}

// Current value of decrementer.
func (cpu *CPU) readDecrementer() uint32 {
	return cpu.dec - uint32(cpu.decTicks()/cpu.divisor())
}

// Set decrementer. Moving into the negative range posts an interrupt.
func (cpu *CPU) writeDecrementer(value uint32) {
	old := cpu.readDecrementer()
	if (value&0x80000000) != 0 && (old&0x80000000) == 0 {
		cpu.pending |= pendDEC
	}
	cpu.dec = value
	cpu.decFrac = 0
	cpu.decBase = cpu.consumed()
	if cpu.icount > 0 {
		cpu.armDecrementer(cpu.icount)
	}
}

// Current value of time base.
func (cpu *CPU) readTimebase() uint64 {
	return cpu.tb + uint64((cpu.consumed()-cpu.tbBase)/4)
}

// Set time base.
func (cpu *CPU) writeTimebase(value uint64) {
	cpu.tb = value
	cpu.tbBase = cpu.consumed()
}

// Start a new execution slice.
func (cpu *CPU) beginSlice(cycles int) {
	cpu.budget = cycles
	cpu.icount = cycles
	cpu.decBase = 0
	cpu.tbBase = 0
	cpu.armDecrementer(cycles)
}

// Fold the instructions retired this slice into the time base and
// decrementer and return the number retired.
func (cpu *CPU) endSlice() int {
	consumed := cpu.consumed()

	// Time base ticks once every four instructions, remainder is lost.
	cpu.tb += uint64((consumed - cpu.tbBase) / 4)

	ticks := cpu.decTicks()
	div := cpu.divisor()
	if cpu.model == PPC603 {
		cpu.decFrac = uint32(ticks % div)
	}
	cpu.dec -= uint32(ticks / div)
	debug.Debugf(cpu.name, cpu.debugMsk, debugTimer, "slice %d tb=%x dec=%08x frac=%d",
		consumed, cpu.tb, cpu.dec, cpu.decFrac)

	cpu.budget = 0
	cpu.icount = 0
	cpu.decBase = 0
	cpu.tbBase = 0
	cpu.decTrigger = decNever
	return consumed
}
