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
	"testing"
)

var allKinds = []Exception{ExcIRQ, ExcDecrementer, ExcTrap, ExcSyscall, ExcSMI, ExcDSI, ExcISI}

var offsets = map[Exception]uint32{
	ExcIRQ:         0x0500,
	ExcDecrementer: 0x0900,
	ExcTrap:        0x0700,
	ExcSyscall:     0x0c00,
	ExcSMI:         0x1400,
	ExcDSI:         0x0300,
	ExcISI:         0x0400,
}

// Kinds supported by a model.
func kindsFor(model Variant) []Exception {
	if model == PPC603 {
		return allKinds
	}
	return allKinds[:5]
}

func TestExceptionEntry(t *testing.T) {
	for _, model := range []Variant{PPC602, PPC603} {
		for _, kind := range kindsFor(model) {
			cpu, _ := newTestCPU(t, model, 0x2000)
			cpu.pc = 0x2000
			cpu.npc = 0x2004
			msr := MsrIP | MsrEE | MsrPR | MsrIR | MsrDR | MsrFP | MsrME | MsrRI | MsrPOW
			cpu.SetMSR(msr)
			cpu.pending = pendIRQ | pendDEC | pendSMI

			if err := cpu.exception(kind); err != nil {
				t.Fatalf("%s %s failed: %v", model, kind, err)
			}

			expectSRR0 := uint32(0x2004)
			expectSRR1 := msr & srr1Mask
			if kind == ExcTrap {
				expectSRR0 = 0x2000
				expectSRR1 |= trapMarker
			}
			if cpu.srr0 != expectSRR0 {
				t.Errorf("%s %s SRR0 got: %08x expected: %08x", model, kind, cpu.srr0, expectSRR0)
			}
			if cpu.srr1 != expectSRR1 {
				t.Errorf("%s %s SRR1 got: %08x expected: %08x", model, kind, cpu.srr1, expectSRR1)
			}
			if cpu.GetMSR() != MsrIP|MsrME {
				t.Errorf("%s %s MSR got: %08x expected: %08x", model, kind, cpu.GetMSR(), MsrIP|MsrME)
			}
			if cpu.npc != highBase|offsets[kind] {
				t.Errorf("%s %s vector got: %08x expected: %08x", model, kind, cpu.npc, highBase|offsets[kind])
			}

			expectPending := pendIRQ | pendDEC | pendSMI
			switch kind {
			case ExcIRQ:
				expectPending &^= pendIRQ
			case ExcDecrementer:
				expectPending &^= pendDEC
			case ExcSMI:
				expectPending &^= pendSMI
			}
			if cpu.pending != expectPending {
				t.Errorf("%s %s pending got: %x expected: %x", model, kind, cpu.pending, expectPending)
			}
		}
	}
}

func TestVectorSelection(t *testing.T) {
	for _, model := range []Variant{PPC602, PPC603} {
		for _, kind := range kindsFor(model) {
			cpu, _ := newTestCPU(t, model, 0)
			cpu.ibr = 0x12300000
			cpu.SetMSR(MsrEE)
			if err := cpu.exception(kind); err != nil {
				t.Fatalf("%s %s failed: %v", model, kind, err)
			}
			expected := offsets[kind]
			if model == PPC602 {
				expected |= 0x12300000
			}
			if cpu.npc != expected {
				t.Errorf("%s %s vector got: %08x expected: %08x", model, kind, cpu.npc, expected)
			}
		}
	}
}

// LE after exception always equals ILE before.
func TestLittleEndianEntry(t *testing.T) {
	for _, model := range []Variant{PPC602, PPC603} {
		for _, kind := range kindsFor(model) {
			for _, msr := range []uint32{0, MsrLE, MsrILE, MsrILE | MsrLE} {
				cpu, _ := newTestCPU(t, model, 0)
				cpu.SetMSR(msr | MsrEE | MsrIP)
				if err := cpu.exception(kind); err != nil {
					t.Fatalf("%s %s failed: %v", model, kind, err)
				}
				le := cpu.GetMSR()&MsrLE != 0
				ile := msr&MsrILE != 0
				if le != ile {
					t.Errorf("%s %s msr %08x LE got: %v expected: %v", model, kind, msr, le, ile)
				}
				if cpu.GetMSR()&MsrILE != msr&MsrILE {
					t.Errorf("%s %s ILE changed", model, kind)
				}
			}
		}
	}
}

// Asynchronous exceptions do nothing while EE is clear.
func TestAsyncGated(t *testing.T) {
	for _, kind := range []Exception{ExcIRQ, ExcDecrementer, ExcSMI} {
		cpu, _ := newTestCPU(t, PPC603, 0x3000)
		cpu.SetMSR(MsrIP | MsrPR)
		cpu.pending = pendIRQ | pendDEC | pendSMI
		before := cpu.State()
		if err := cpu.exception(kind); err != nil {
			t.Fatalf("%s failed: %v", kind, err)
		}
		if cpu.State() != before {
			t.Errorf("%s changed state while gated got: %+v expected: %+v", kind, cpu.State(), before)
		}
	}

	// Synchronous exceptions ignore EE.
	cpu, _ := newTestCPU(t, PPC603, 0x3000)
	cpu.SetMSR(MsrIP)
	if err := cpu.exception(ExcSyscall); err != nil {
		t.Fatalf("Syscall failed: %v", err)
	}
	if cpu.npc != highBase|0xc00 {
		t.Errorf("Syscall gated by EE, npc: %08x", cpu.npc)
	}
}

func TestUnknownException(t *testing.T) {
	cpu, _ := newTestCPU(t, PPC603, 0x3000)
	cpu.SetMSR(MsrIP | MsrEE)
	before := cpu.State()

	err := cpu.TakeException(Exception(42))
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("Unknown exception did not give FatalError: %v", err)
	}
	if fatal.Kind != Exception(42) || fatal.Model != PPC603 {
		t.Errorf("FatalError got: %+v", fatal)
	}
	if !errors.Is(err, ErrFatal) {
		t.Errorf("FatalError does not match ErrFatal")
	}
	if cpu.State() != before {
		t.Errorf("Unknown exception changed state")
	}

	// Storage exceptions are not on the 602.
	cpu602, _ := newTestCPU(t, PPC602, 0x3000)
	for _, kind := range []Exception{ExcDSI, ExcISI} {
		if err := cpu602.TakeException(kind); !errors.Is(err, ErrFatal) {
			t.Errorf("602 accepted %s: %v", kind, err)
		}
	}
	if err := cpu602.TakeException(ExcNone); !errors.Is(err, ErrFatal) {
		t.Errorf("Exception NONE accepted: %v", err)
	}
}

func TestExceptionNames(t *testing.T) {
	names := map[Exception]string{
		ExcNone: "NONE", ExcIRQ: "IRQ", ExcDecrementer: "DECREMENTER", ExcTrap: "TRAP",
		ExcSyscall: "SYSCALL", ExcSMI: "SMI", ExcDSI: "DSI", ExcISI: "ISI",
		Exception(99): "exception 99",
	}
	for kind, name := range names {
		if kind.String() != name {
			t.Errorf("Name got: %s expected: %s", kind.String(), name)
		}
	}
}
