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

import "testing"

// Memory returning words from a map, with addresses that fault when
// fetched translated.
type testMem struct {
	words map[uint32]uint32
	isi   map[uint32]bool
}

func (m *testMem) ReadOpcode(addr uint32, translated bool) (uint32, Exception) {
	if translated && m.isi[addr] {
		return 0, ExcISI
	}
	return m.words[addr], ExcNone
}

// Opcodes used by the tests.
const (
	opLoop = 0x48000000 // b .
	opSC   = 0x44000002 // sc
	opTrap = 0x7fe00008 // tw 31,r0,r0
	opRFI  = 0x4c000064 // rfi
	opESA  = 0x7c0000a8 // esa
	opDSA  = 0x7c0000e8 // dsa
)

func addi(rd, ra uint32, imm int16) uint32 {
	return 14<<26 | rd<<21 | ra<<16 | uint32(uint16(imm))
}

func mtspr(spr, rs uint32) uint32 {
	return 31<<26 | rs<<21 | (spr&0x1f)<<16 | (spr>>5)<<11 | 467<<1
}

func mfspr(rd, spr uint32) uint32 {
	return 31<<26 | rd<<21 | (spr&0x1f)<<16 | (spr>>5)<<11 | 339<<1
}

func mtmsr(rs uint32) uint32 {
	return 31<<26 | rs<<21 | 146<<1
}

func mfmsr(rd uint32) uint32 {
	return 31<<26 | rd<<21 | 83<<1
}

// Create processor with program loaded at addr. Every exception vector
// holds a branch to itself. The decrementer starts far from underflow.
func newTestCPU(t *testing.T, model Variant, addr uint32, program ...uint32) (*CPU, *testMem) {
	t.Helper()
	mem := &testMem{words: map[uint32]uint32{}, isi: map[uint32]bool{}}
	for _, def := range exceptions {
		if def.name != "" {
			mem.words[highBase|def.offset] = opLoop
			mem.words[def.offset] = opLoop
		}
	}
	for i, op := range program {
		mem.words[addr+uint32(i*4)] = op
	}
	cpu, err := New(Config{Model: model, BusMultiplier: 1}, mem)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	cpu.SetPC(addr)
	cpu.dec = 0x10000
	return cpu, mem
}
