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
	"errors"
	"fmt"
)

// Handler executes one instruction. Returning anything other than
// ExcNone raises that exception. A DSI or ISI raised again at the
// handler's own vector is fatal.
type Handler func(cpu *CPU, opcode uint32) Exception

type opEntry struct {
	name string
	fn   Handler
}

type opDef struct {
	primary uint32 // Bits 0-5 of opcode
	ext     uint32 // Extended opcode for groups 19, 31, 59 and 63
	name    string
	fn      Handler
	models  uint8
}

// Return extended table for primary opcodes 19, 31, 59 and 63.
func extGroup(primary uint32) (int, bool) {
	switch primary {
	case 19:
		return 0, true
	case 31:
		return 1, true
	case 59:
		return 2, true
	case 63:
		return 3, true
	}
	return 0, false
}

var opcodeList = []opDef{
	{primary: 3, name: "twi", fn: (*CPU).opTWI, models: onAll},
	{primary: 14, name: "addi", fn: (*CPU).opADDI, models: onAll},
	{primary: 15, name: "addis", fn: (*CPU).opADDIS, models: onAll},
	{primary: 17, name: "sc", fn: (*CPU).opSC, models: onAll},
	{primary: 18, name: "b", fn: (*CPU).opB, models: onAll},
	{primary: 24, name: "ori", fn: (*CPU).opORI, models: onAll},
	{primary: 25, name: "oris", fn: (*CPU).opORIS, models: onAll},
	{primary: 19, ext: 50, name: "rfi", fn: (*CPU).opRFI, models: onAll},
	{primary: 19, ext: 150, name: "isync", fn: (*CPU).opNop, models: onAll},
	{primary: 31, ext: 4, name: "tw", fn: (*CPU).opTW, models: onAll},
	{primary: 31, ext: 83, name: "mfmsr", fn: (*CPU).opMFMSR, models: onAll},
	{primary: 31, ext: 84, name: "esa", fn: (*CPU).opESA, models: on602},
	{primary: 31, ext: 116, name: "dsa", fn: (*CPU).opDSA, models: on602},
	{primary: 31, ext: 146, name: "mtmsr", fn: (*CPU).opMTMSR, models: onAll},
	{primary: 31, ext: 306, name: "tlbie", fn: (*CPU).opNop, models: onAll},
	{primary: 31, ext: 339, name: "mfspr", fn: (*CPU).opMFSPR, models: onAll},
	{primary: 31, ext: 371, name: "mftb", fn: (*CPU).opMFTB, models: onAll},
	{primary: 31, ext: 467, name: "mtspr", fn: (*CPU).opMTSPR, models: onAll},
	{primary: 31, ext: 566, name: "tlbsync", fn: (*CPU).opNop, models: onAll},
	{primary: 31, ext: 598, name: "sync", fn: (*CPU).opNop, models: onAll},
	{primary: 31, ext: 854, name: "eieio", fn: (*CPU).opNop, models: onAll},
	{primary: 31, ext: 978, name: "tlbld", fn: (*CPU).opNop, models: on603},
	{primary: 31, ext: 1010, name: "tlbli", fn: (*CPU).opNop, models: on603},
}

// Create function tables for this processor model.
func (cpu *CPU) createTable() {
	invalid := opEntry{name: "", fn: (*CPU).opInvalid}
	for i := range cpu.table {
		cpu.table[i] = invalid
	}
	for g := range cpu.extTable {
		for i := range cpu.extTable[g] {
			cpu.extTable[g][i] = invalid
		}
	}

	model := on602
	if cpu.model == PPC603 {
		model = on603
	}
	for _, op := range opcodeList {
		if op.models&model == 0 {
			continue
		}
		if err := cpu.Install(op.primary, op.ext, op.name, op.fn); err != nil {
			panic("bad opcode table entry: " + err.Error())
		}
	}
}

// Install adds or replaces the handler for an opcode. ext is ignored
// unless primary is one of the extended groups.
func (cpu *CPU) Install(primary, ext uint32, name string, fn Handler) error {
	if primary > 63 {
		return fmt.Errorf("primary opcode out of range: %d", primary)
	}
	if fn == nil {
		return errors.New("no handler given for opcode: " + name)
	}
	entry := opEntry{name: name, fn: fn}
	if group, ok := extGroup(primary); ok {
		if ext > 1023 {
			return fmt.Errorf("extended opcode out of range: %d/%d", primary, ext)
		}
		cpu.extTable[group][ext] = entry
		return nil
	}
	cpu.table[primary] = entry
	return nil
}

// Find table entry for an opcode.
func (cpu *CPU) lookup(opcode uint32) *opEntry {
	primary := opcode >> 26
	if group, ok := extGroup(primary); ok {
		return &cpu.extTable[group][(opcode>>1)&0x3ff]
	}
	return &cpu.table[primary]
}

// Execute a single opcode.
func (cpu *CPU) dispatch(opcode uint32) Exception {
	return cpu.lookup(opcode).fn(cpu, opcode)
}

// Disassemble returns the mnemonic of an opcode, or a data directive
// for opcodes this processor does not implement.
func (cpu *CPU) Disassemble(opcode uint32) string {
	entry := cpu.lookup(opcode)
	if entry.name == "" {
		return fmt.Sprintf(".long 0x%08x", opcode)
	}
	rd := (opcode >> 21) & 0x1f
	ra := (opcode >> 16) & 0x1f
	switch opcode >> 26 {
	case 14, 15:
		return fmt.Sprintf("%s r%d,r%d,%d", entry.name, rd, ra, int16(opcode))
	case 24, 25:
		return fmt.Sprintf("%s r%d,r%d,0x%x", entry.name, ra, rd, opcode&0xffff)
	case 18:
		return fmt.Sprintf("%s 0x%x", entry.name, branchOffset(opcode))
	}
	return entry.name
}
