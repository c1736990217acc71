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

// Execute runs the processor for up to cycles instructions. It returns
// the number of instructions retired. A non nil error is always a
// FatalError and the session should not continue.
func (cpu *CPU) Execute(cycles int) (int, error) {
	if cycles <= 0 {
		return 0, nil
	}
	cpu.beginSlice(cycles)

	for cpu.icount > 0 {
		cpu.pc = cpu.npc
		opcode, exc := cpu.mem.ReadOpcode(cpu.pc, cpu.msrHas(MsrIR))
		if exc == ExcNone {
			cpu.npc = cpu.pc + 4
			if cpu.debugMsk&debugInst != 0 {
				debug.Debugf(cpu.name, cpu.debugMsk, debugInst, "%08x %08x %s",
					cpu.pc, opcode, cpu.Disassemble(opcode))
			}
			exc = cpu.dispatch(opcode)
		}

		if exc != ExcNone {
			if exc == excFatal {
				return cpu.endSlice(), cpu.takeFault()
			}
			def, ok := cpu.lookupException(exc)
			if ok && def.abort {
				// Instruction did not complete, start over at the handler.
				cpu.npc = cpu.pc
				if err := cpu.exception(exc); err != nil {
					return cpu.endSlice(), err
				}
				// Handler faulted at its own vector and would never retire.
				if cpu.npc == cpu.pc {
					return cpu.endSlice(), &FatalError{Model: cpu.model, Kind: exc, PC: cpu.pc,
						Reason: "fault in handler"}
				}
				continue
			}
			if err := cpu.exception(exc); err != nil {
				return cpu.endSlice(), err
			}
		}

		cpu.icount--
		if cpu.consumed() == cpu.decTrigger {
			cpu.pending |= pendDEC
			debug.Debugf(cpu.name, cpu.debugMsk, debugTimer, "decrementer underflow at %d", cpu.decTrigger)
		}

		if err := cpu.checkInterrupts(); err != nil {
			return cpu.endSlice(), err
		}
	}

	return cpu.endSlice(), nil
}

// Return and clear fault raised by an opcode handler.
func (cpu *CPU) takeFault() error {
	err := cpu.fault
	cpu.fault = nil
	if err == nil {
		err = &FatalError{Model: cpu.model, PC: cpu.pc, Reason: "fatal error without cause"}
	}
	return err
}

// Record a fatal condition for the current instruction.
func (cpu *CPU) raiseFatal(opcode uint32, reason string) Exception {
	cpu.fault = &FatalError{Model: cpu.model, Opcode: opcode, PC: cpu.pc, Reason: reason}
	return excFatal
}
