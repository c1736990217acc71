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
	"strings"

	"github.com/rcornwell/PPC60x/util/debug"
)

const (
	// Debug options.
	debugException = 1 << iota
	debugIRQ
	debugTimer
	debugInst
	debugMSR
)

var debugOption = map[string]int{
	"EXCEPTION": debugException,
	"IRQ":       debugIRQ,
	"TIMER":     debugTimer,
	"INST":      debugInst,
	"MSR":       debugMSR,
}

// Debug mask given to every CPU when created.
var debugDefault int

// Memory is the instruction fetch path. When translated is set the
// address is a virtual address, a failing fetch returns ExcISI.
type Memory interface {
	ReadOpcode(addr uint32, translated bool) (uint32, Exception)
}

// Config holds the creation time settings of a CPU.
type Config struct {
	Model         Variant        // 602 or 603.
	BusMultiplier int            // Core to bus clock ratio.
	IBR           uint32         // Initial Interrupt Base Register (602).
	ResetVector   uint32         // Address of first instruction, 0 for default.
	LineCallback  func(line int) // Called when the IRQ line is asserted.
	Name          string         // Name used in debug output.
	Debug         []string       // Debug options for this CPU.
	Install       func(cpu *CPU) // Optional hook to install extra opcodes.
}

// CPU is one PowerPC processor.
type CPU struct {
	model    Variant
	name     string
	mem      Memory
	mult     int    // Bus frequency multiplier
	resetPC  uint32 // Reset vector
	lineCall func(line int)

	pc   uint32     // Address of current instruction
	npc  uint32     // Address of next instruction
	msr  uint32     // Machine state register
	srr0 uint32     // Saved PC on exception
	srr1 uint32     // Saved MSR on exception
	esa  uint32     // 602 ESASRR shadow of PR, AP, SA, EE
	ibr  uint32     // 602 Interrupt Base Register
	hid0 uint32     // Hardware implementation register
	lr   uint32     // Link register
	ctr  uint32     // Count register
	sprg [4]uint32  // OS scratch registers
	regs [32]uint32 // General purpose registers

	pending uint32 // Pending interrupt mask
	dec     uint32 // Decrementer
	tb      uint64 // Time base
	decFrac uint32 // Left over cycles for decrementer (603)

	budget     int // Cycles granted to current slice
	icount     int // Cycles remaining in current slice
	decBase    int // Consumed count decrementer last rebased at
	tbBase     int // Consumed count time base last rebased at
	decTrigger int // Consumed count at which decrementer underflows

	fault    error // Fatal condition raised by an opcode handler
	table    [64]opEntry
	extTable [4][1024]opEntry
	debugMsk int
}

// FatalError reports a condition that ends the emulation session.
type FatalError struct {
	Model  Variant
	Kind   Exception // Exception being taken, ExcNone if not an exception.
	Opcode uint32    // Opcode being executed.
	PC     uint32
	Reason string
}

func (e *FatalError) Error() string {
	if e.Kind != ExcNone {
		return fmt.Sprintf("%s: %s %s at %08x", e.Model, e.Reason, e.Kind, e.PC)
	}
	return fmt.Sprintf("%s: %s %08x at %08x", e.Model, e.Reason, e.Opcode, e.PC)
}

// ErrFatal matches any FatalError with errors.Is.
var ErrFatal = errors.New("fatal processor error")

func (e *FatalError) Is(target error) bool {
	return target == ErrFatal
}

// Create a new processor attached to memory.
func New(cfg Config, mem Memory) (*CPU, error) {
	if cfg.Model != PPC602 && cfg.Model != PPC603 {
		return nil, fmt.Errorf("unsupported processor model: %d", int(cfg.Model))
	}
	if cfg.BusMultiplier <= 0 {
		cfg.BusMultiplier = 1
	}
	if cfg.ResetVector == 0 {
		cfg.ResetVector = ResetVector
	}
	if cfg.Name == "" {
		cfg.Name = "CPU"
	}
	cpu := &CPU{
		model:    cfg.Model,
		name:     cfg.Name,
		mem:      mem,
		mult:     cfg.BusMultiplier,
		resetPC:  cfg.ResetVector,
		lineCall: cfg.LineCallback,
		ibr:      cfg.IBR,
		debugMsk: debugDefault,
	}
	for _, opt := range cfg.Debug {
		if err := cpu.Debug(opt); err != nil {
			return nil, err
		}
	}
	cpu.createTable()
	if cfg.Install != nil {
		cfg.Install(cpu)
	}
	cpu.Reset()
	return cpu, nil
}

// Put processor in reset state.
func (cpu *CPU) Reset() {
	cpu.pc = cpu.resetPC
	cpu.npc = cpu.resetPC
	cpu.msr = resetMSR
	cpu.hid0 = 1
	cpu.pending = 0
	cpu.fault = nil
	cpu.budget = 0
	cpu.icount = 0
	cpu.decBase = 0
	cpu.tbBase = 0
	cpu.decTrigger = decNever
	debug.Debugf(cpu.name, cpu.debugMsk, debugException, "reset pc=%08x", cpu.pc)
}

// Model returns processor model.
func (cpu *CPU) Model() Variant {
	return cpu.model
}

// Name returns processor name.
func (cpu *CPU) Name() string {
	return cpu.name
}

// Enable debug options for all processors created after this call.
func Debug(opt string) error {
	flag, ok := debugOption[strings.ToUpper(opt)]
	if !ok {
		return errors.New("cpu debug option invalid: " + opt)
	}
	debugDefault |= flag
	return nil
}

// Enable debug options on a processor.
func (cpu *CPU) Debug(opt string) error {
	flag, ok := debugOption[strings.ToUpper(opt)]
	if !ok {
		return errors.New("cpu debug option invalid: " + opt)
	}
	cpu.debugMsk |= flag
	return nil
}

// Return list of debug option names.
func DebugOptions() []string {
	opts := make([]string, 0, len(debugOption))
	for name := range debugOption {
		opts = append(opts, name)
	}
	return opts
}

// Return bus divisor for decrementer.
func (cpu *CPU) divisor() int {
	return cpu.mult * 2
}
