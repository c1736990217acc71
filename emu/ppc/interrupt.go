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

// Interrupt line numbers given to the line callback.
const (
	LineIRQ = 0
	LineSMI = 1
)

// SetIRQLine latches the external interrupt. The latch is only cleared
// when the interrupt is taken.
func (cpu *CPU) SetIRQLine(active bool) {
	if !active {
		return
	}
	cpu.pending |= pendIRQ
	debug.Debugf(cpu.name, cpu.debugMsk, debugIRQ, "irq asserted pending=%x", cpu.pending)
	if cpu.lineCall != nil {
		cpu.lineCall(LineIRQ)
	}
}

// SetSMILine latches the system management interrupt.
func (cpu *CPU) SetSMILine(active bool) {
	if !active {
		return
	}
	cpu.pending |= pendSMI
	debug.Debugf(cpu.name, cpu.debugMsk, debugIRQ, "smi asserted pending=%x", cpu.pending)
}

// Pending returns the mask of latched interrupts.
func (cpu *CPU) Pending() uint32 {
	return cpu.pending
}

// Check for pending interrupts, called after each instruction. At
// most one interrupt is taken, IRQ first, then decrementer, then SMI.
func (cpu *CPU) checkInterrupts() error {
	if cpu.pending == 0 {
		return nil
	}
	if !cpu.msrHas(MsrEE) {
		debug.Debugf(cpu.name, cpu.debugMsk, debugIRQ, "held pending=%x", cpu.pending)
		return nil
	}

	switch {
	case (cpu.pending & pendIRQ) != 0:
		return cpu.exception(ExcIRQ)
	case (cpu.pending & pendDEC) != 0:
		return cpu.exception(ExcDecrementer)
	case (cpu.pending & pendSMI) != 0:
		return cpu.exception(ExcSMI)
	}
	return nil
}
