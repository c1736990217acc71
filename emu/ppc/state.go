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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Registers is the flat register set saved and restored with the
// processor state. Field order is the save file layout.
type Registers struct {
	PC          uint32
	NPC         uint32
	MSR         uint32
	SRR0        uint32
	SRR1        uint32
	DEC         uint32
	TB          uint64
	DecFraction uint32
	Pending     uint32
	ESA         uint32
	HID0        uint32
}

// Snapshot is the contents of a save state file.
type Snapshot struct {
	Model Variant
	Regs  Registers
}

var stateMagic = [4]byte{'P', 'P', 'C', 'S'}

// On disk header, followed by Registers in big endian order.
type stateHeader struct {
	Magic [4]byte
	Model uint16
}

// State returns the current register set.
func (cpu *CPU) State() Registers {
	return Registers{
		PC:          cpu.pc,
		NPC:         cpu.npc,
		MSR:         cpu.msr,
		SRR0:        cpu.srr0,
		SRR1:        cpu.srr1,
		DEC:         cpu.readDecrementer(),
		TB:          cpu.readTimebase(),
		DecFraction: cpu.decFrac,
		Pending:     cpu.pending,
		ESA:         cpu.esa,
		HID0:        cpu.hid0,
	}
}

// SetState loads a register set. Must not be called during Execute.
func (cpu *CPU) SetState(regs Registers) {
	cpu.pc = regs.PC
	cpu.npc = regs.NPC
	cpu.SetMSR(regs.MSR)
	cpu.srr0 = regs.SRR0
	cpu.srr1 = regs.SRR1
	cpu.dec = regs.DEC
	cpu.tb = regs.TB
	cpu.decFrac = regs.DecFraction
	cpu.pending = regs.Pending & (pendIRQ | pendDEC | pendSMI)
	cpu.esa = regs.ESA & 0xf
	cpu.hid0 = regs.HID0
}

// SaveState writes the register set to w.
func (cpu *CPU) SaveState(w io.Writer) error {
	hdr := stateHeader{Magic: stateMagic, Model: uint16(cpu.model)}
	if err := binary.Write(w, binary.BigEndian, &hdr); err != nil {
		return err
	}
	regs := cpu.State()
	return binary.Write(w, binary.BigEndian, &regs)
}

// LoadState reads a register set written by SaveState.
func (cpu *CPU) LoadState(r io.Reader) error {
	snap, err := ReadState(r)
	if err != nil {
		return err
	}
	if snap.Model != cpu.model {
		return fmt.Errorf("state saved from %s, can't load into %s", snap.Model, cpu.model)
	}
	cpu.SetState(snap.Regs)
	return nil
}

// ReadState decodes a save state file.
func ReadState(r io.Reader) (*Snapshot, error) {
	var hdr stateHeader
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("reading state header: %w", err)
	}
	if hdr.Magic != stateMagic {
		return nil, errors.New("not a processor state file")
	}
	model := Variant(hdr.Model)
	if model != PPC602 && model != PPC603 {
		return nil, fmt.Errorf("unknown processor model in state: %d", hdr.Model)
	}
	snap := &Snapshot{Model: model}
	if err := binary.Read(r, binary.BigEndian, &snap.Regs); err != nil {
		return nil, fmt.Errorf("reading state registers: %w", err)
	}
	return snap, nil
}

// GPR returns a general purpose register.
func (cpu *CPU) GPR(n int) uint32 {
	return cpu.regs[n&0x1f]
}

// SetGPR sets a general purpose register.
func (cpu *CPU) SetGPR(n int, value uint32) {
	cpu.regs[n&0x1f] = value
}

// SetPC starts execution at a new address.
func (cpu *CPU) SetPC(pc uint32) {
	cpu.pc = pc
	cpu.npc = pc
}

// IBR returns the interrupt base register.
func (cpu *CPU) IBR() uint32 {
	return cpu.ibr
}
