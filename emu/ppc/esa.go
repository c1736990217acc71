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

// Shadow register bit positions.
const (
	esaEE uint32 = 0x1
	esaSA uint32 = 0x2
	esaAP uint32 = 0x4
	esaPR uint32 = 0x8
)

// EnterSupervisor saves PR, AP, SA and EE in the shadow register, then
// clears EE, PR and AP and sets SA.
func (cpu *CPU) EnterSupervisor() {
	msr := cpu.GetMSR()
	cpu.esa = 0
	if msr&MsrPR != 0 {
		cpu.esa |= esaPR
	}
	if msr&MsrAP != 0 {
		cpu.esa |= esaAP
	}
	if msr&MsrSA != 0 {
		cpu.esa |= esaSA
	}
	if msr&MsrEE != 0 {
		cpu.esa |= esaEE
	}

	msr &^= MsrEE | MsrPR | MsrAP
	msr |= MsrSA
	cpu.SetMSR(msr)
}

// RestoreFromSupervisor puts back the four bits saved by EnterSupervisor.
func (cpu *CPU) RestoreFromSupervisor() {
	msr := cpu.GetMSR()
	msr &^= MsrSA | MsrEE | MsrPR | MsrAP
	if cpu.esa&esaPR != 0 {
		msr |= MsrPR
	}
	if cpu.esa&esaAP != 0 {
		msr |= MsrAP
	}
	if cpu.esa&esaSA != 0 {
		msr |= MsrSA
	}
	if cpu.esa&esaEE != 0 {
		msr |= MsrEE
	}
	cpu.SetMSR(msr)
}

// esa instruction.
func (cpu *CPU) opESA(_ uint32) Exception {
	cpu.EnterSupervisor()
	return ExcNone
}

// dsa instruction.
func (cpu *CPU) opDSA(_ uint32) Exception {
	cpu.RestoreFromSupervisor()
	return ExcNone
}
