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

import (
	"strconv"

	"github.com/rcornwell/PPC60x/util/debug"
)

// Exception kinds. ExcNone is returned by opcode handlers that complete.
type Exception uint8

const (
	ExcNone Exception = iota
	ExcIRQ
	ExcDecrementer
	ExcTrap
	ExcSyscall
	ExcSMI
	ExcDSI
	ExcISI
	excFatal // Handler raised a fatal error, see cpu.fault
)

// Which processors support an exception.
const (
	on602 uint8 = 1 << iota
	on603
	onAll = on602 | on603
)

type exceptionDef struct {
	name   string
	offset uint32 // Offset from vector base
	marker uint32 // Extra bits or'ed into SRR1
	savePC bool   // SRR0 gets the current instruction, not the next
	async  bool   // Gated by MSR[EE], clears pending bit when taken
	pend   uint32 // Pending bit for asynchronous exceptions
	abort  bool   // Instruction is aborted, restarted after handler
	models uint8
}

var exceptions = [...]exceptionDef{
	ExcIRQ:         {name: "IRQ", offset: 0x0500, async: true, pend: pendIRQ, models: onAll},
	ExcDecrementer: {name: "DECREMENTER", offset: 0x0900, async: true, pend: pendDEC, models: onAll},
	ExcTrap:        {name: "TRAP", offset: 0x0700, marker: trapMarker, savePC: true, models: onAll},
	ExcSyscall:     {name: "SYSCALL", offset: 0x0c00, models: onAll},
	ExcSMI:         {name: "SMI", offset: 0x1400, async: true, pend: pendSMI, models: onAll},
	ExcDSI:         {name: "DSI", offset: 0x0300, abort: true, models: on603},
	ExcISI:         {name: "ISI", offset: 0x0400, abort: true, models: on603},
}

func (e Exception) String() string {
	if e == ExcNone {
		return "NONE"
	}
	if int(e) < len(exceptions) && exceptions[e].name != "" {
		return exceptions[e].name
	}
	return "exception " + strconv.Itoa(int(e))
}

// Return the definition of an exception if the processor supports it.
func (cpu *CPU) lookupException(kind Exception) (*exceptionDef, bool) {
	if int(kind) >= len(exceptions) || exceptions[kind].name == "" {
		return nil, false
	}
	def := &exceptions[kind]
	model := on602
	if cpu.model == PPC603 {
		model = on603
	}
	if def.models&model == 0 {
		return nil, false
	}
	return def, true
}

// Take an exception. Asynchronous exceptions are ignored while
// MSR[EE] is clear and remain pending. Unknown exceptions end the session.
func (cpu *CPU) exception(kind Exception) error {
	def, ok := cpu.lookupException(kind)
	if !ok {
		return &FatalError{Model: cpu.model, Kind: kind, PC: cpu.pc, Reason: "unhandled"}
	}

	msr := cpu.GetMSR()
	if def.async && (msr&MsrEE) == 0 {
		return nil
	}

	if def.savePC {
		cpu.srr0 = cpu.pc
	} else {
		cpu.srr0 = cpu.npc
	}
	cpu.srr1 = (msr & srr1Mask) | def.marker

	newMSR := msr &^ excClearMask
	if (msr & MsrILE) != 0 {
		newMSR |= MsrLE
	} else {
		newMSR &^= MsrLE
	}
	cpu.SetMSR(newMSR)

	cpu.npc = cpu.vectorBase(newMSR) | def.offset
	if def.async {
		cpu.pending &^= def.pend
	}
	debug.Debugf(cpu.name, cpu.debugMsk, debugException, "%s pc=%08x srr0=%08x srr1=%08x vector=%08x",
		def.name, cpu.pc, cpu.srr0, cpu.srr1, cpu.npc)
	return nil
}

// Return base of exception vectors.
func (cpu *CPU) vectorBase(msr uint32) uint32 {
	if (msr & MsrIP) != 0 {
		return highBase
	}
	if cpu.model == PPC602 {
		return cpu.ibr
	}
	return 0
}

// TakeException delivers an exception from outside the execution loop,
// as a debugger or bus model would.
func (cpu *CPU) TakeException(kind Exception) error {
	return cpu.exception(kind)
}
