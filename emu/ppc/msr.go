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

// Bits worth reporting when they change.
const msrTraceMask = MsrEE | MsrPR | MsrIR | MsrDR | MsrLE | MsrIP | MsrSA | MsrAP

// GetMSR returns the whole machine state register.
func (cpu *CPU) GetMSR() uint32 {
	return cpu.msr
}

// SetMSR replaces the machine state register. Callers are responsible
// for any side effect of the new value.
func (cpu *CPU) SetMSR(value uint32) {
	if cpu.debugMsk&debugMSR != 0 && (cpu.msr^value)&msrTraceMask != 0 {
		debug.Debugf(cpu.name, cpu.debugMsk, debugMSR, "msr %08x -> %08x %s",
			cpu.msr, value, MSRString(value))
	}
	cpu.msr = value
}

// Return true if all bits are set in msr.
func (cpu *CPU) msrHas(bits uint32) bool {
	return (cpu.msr & bits) == bits
}

// Format the named MSR bits that are set.
func MSRString(msr uint32) string {
	names := []struct {
		bit  uint32
		name string
	}{
		{MsrAP, "AP"}, {MsrSA, "SA"}, {MsrPOW, "POW"}, {MsrILE, "ILE"},
		{MsrEE, "EE"}, {MsrPR, "PR"}, {MsrFP, "FP"}, {MsrME, "ME"},
		{MsrFE0, "FE0"}, {MsrSE, "SE"}, {MsrBE, "BE"}, {MsrFE1, "FE1"},
		{MsrIP, "IP"}, {MsrIR, "IR"}, {MsrDR, "DR"}, {MsrRI, "RI"},
		{MsrLE, "LE"},
	}
	str := "["
	for _, n := range names {
		if msr&n.bit != 0 {
			if len(str) > 1 {
				str += " "
			}
			str += n.name
		}
	}
	return str + "]"
}
