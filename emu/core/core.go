/*
 * PPC60x - Simulation core
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

package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rcornwell/PPC60x/emu/event"
	"github.com/rcornwell/PPC60x/emu/irqgen"
	"github.com/rcornwell/PPC60x/emu/master"
	"github.com/rcornwell/PPC60x/emu/memory"
	"github.com/rcornwell/PPC60x/emu/ppc"
	"github.com/rcornwell/PPC60x/util/hex"
)

// Instructions per slice when none given.
const DefaultBudget = 10000

type processor struct {
	cpu    *ppc.CPU
	budget int
	irqs   int   // IRQ line assertions
	halted error // Fatal error that stopped this processor
}

type Core struct {
	wg      sync.WaitGroup
	done    chan struct{} // Signal to shutdown simulator.
	running bool          // Indicate when simulator should run or not.
	Master  chan master.Packet
	mem     *memory.Memory
	cpus    []*processor
	gens    []*irqgen.Generator
}

// Create core running processors attached to mem.
func New(masterChannel chan master.Packet, mem *memory.Memory) *Core {
	return &Core{
		Master: masterChannel,
		done:   make(chan struct{}),
		mem:    mem,
	}
}

// Memory returns the shared memory.
func (core *Core) Memory() *memory.Memory {
	return core.mem
}

// Add a processor, returns its number.
func (core *Core) AddCPU(cpu *ppc.CPU, budget int) int {
	if budget <= 0 {
		budget = DefaultBudget
	}
	core.cpus = append(core.cpus, &processor{cpu: cpu, budget: budget})
	return len(core.cpus) - 1
}

// Add an interrupt generator, started with the processors.
func (core *Core) AddGenerator(gen *irqgen.Generator) {
	core.gens = append(core.gens, gen)
}

// Return processor n.
func (core *Core) CPU(n int) (*ppc.CPU, error) {
	if n < 0 || n >= len(core.cpus) {
		return nil, fmt.Errorf("no cpu %d", n)
	}
	return core.cpus[n].cpu, nil
}

// Count IRQ line assertions, used as the processor line callback.
func (core *Core) LineCallback(n int) func(line int) {
	return func(line int) {
		if line == ppc.LineIRQ && n < len(core.cpus) {
			core.cpus[n].irqs++
		}
	}
}

// Start core processing, runs until Stop.
func (core *Core) Start() {
	core.wg.Add(1)
	defer core.wg.Done()
	for {
		select {
		case <-core.done:
			core.running = false
			return
		case packet := <-core.Master:
			core.processPacket(packet)
		}
	}
}

// Stop a running core.
func (core *Core) Stop() {
	slog.Info("Shutting down CPU")
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for CPU to finish.")
		return
	}
}

// Send packet and wait for the result.
func (core *Core) Request(packet master.Packet) master.Result {
	packet.Reply = make(chan master.Result, 1)
	select {
	case core.Master <- packet:
	case <-core.done:
		return master.Result{Err: errors.New("core stopped")}
	}
	select {
	case result := <-packet.Reply:
		return result
	case <-core.done:
		return master.Result{Err: errors.New("core stopped")}
	}
}

// Start processors.
func (core *Core) SendStart() error {
	return core.Request(master.Packet{Msg: master.Start}).Err
}

// Stop processors.
func (core *Core) SendStop() error {
	return core.Request(master.Packet{Msg: master.Stop}).Err
}

// Assert IRQ line of a processor.
func (core *Core) SendIRQ(cpu int) error {
	return core.Request(master.Packet{Msg: master.SetIRQ, CPU: cpu}).Err
}

// Assert SMI line of a processor.
func (core *Core) SendSMI(cpu int) error {
	return core.Request(master.Packet{Msg: master.SetSMI, CPU: cpu}).Err
}

func (core *Core) reply(packet master.Packet, result master.Result) {
	if packet.Reply != nil {
		packet.Reply <- result
	}
}

// Process a packet sent to system simulation.
func (core *Core) processPacket(packet master.Packet) {
	var result master.Result
	switch packet.Msg {
	case master.TimeSlice:
		if core.running {
			result.Err = core.RunSlice()
		}
	case master.Start:
		result.Err = core.startRunning()
	case master.Stop, master.Shutdown:
		core.stopRunning()
	case master.SetIRQ, master.SetSMI:
		line := irqgen.LineIRQ
		if packet.Msg == master.SetSMI {
			line = irqgen.LineSMI
		}
		if _, err := core.CPU(packet.CPU); err != nil {
			result.Err = err
			break
		}
		core.RaiseLine(packet.CPU, line)
	case master.Reset:
		result.Err = core.reset(packet.CPU)
	case master.Step:
		result.Text, result.Err = core.step(packet.CPU, packet.Count)
	case master.Save:
		result.Err = core.save(packet.CPU, packet.Name)
	case master.Restore:
		result.Err = core.restore(packet.CPU, packet.Name)
	case master.Show:
		result.Text, result.Err = core.show(packet.CPU)
	case master.Examine:
		value, ok := core.mem.GetWord(packet.Addr)
		if !ok {
			result.Err = fmt.Errorf("address %08x not in memory", packet.Addr)
		}
		result.Value = value
		var str strings.Builder
		hex.FormatDump(&str, packet.Addr&^3, []uint32{value})
		result.Text = str.String()
	case master.Deposit:
		core.mem.PutWord(packet.Addr, packet.Data)
	default:
		result.Err = fmt.Errorf("unknown message: %d", packet.Msg)
	}
	core.reply(packet, result)
}

// Start processors and interrupt generators.
func (core *Core) startRunning() error {
	if len(core.cpus) == 0 {
		return errors.New("no processors configured")
	}
	for i, p := range core.cpus {
		if p.halted != nil {
			return fmt.Errorf("cpu %d halted, reset required: %w", i, p.halted)
		}
	}
	if !core.running {
		slog.Info("Processors started")
	}
	core.running = true
	for _, gen := range core.gens {
		gen.Start()
	}
	return nil
}

// Stop processors and interrupt generators.
func (core *Core) stopRunning() {
	if core.running {
		slog.Info("Processors stopped")
	}
	core.running = false
	for _, gen := range core.gens {
		gen.Stop()
	}
}

// Running reports whether the processors are running.
func (core *Core) Running() bool {
	return core.running
}

// RaiseLine asserts an interrupt line on a processor.
func (core *Core) RaiseLine(n int, line int) {
	if n < 0 || n >= len(core.cpus) {
		return
	}
	cpu := core.cpus[n].cpu
	if line == irqgen.LineSMI {
		cpu.SetSMILine(true)
	} else {
		cpu.SetIRQLine(true)
	}
}

// Run every processor for its budget, then advance simulated time by the
// longest slice. A fatal error stops all processors.
func (core *Core) RunSlice() error {
	longest := 0
	for i, p := range core.cpus {
		n, err := p.cpu.Execute(p.budget)
		if n > longest {
			longest = n
		}
		if err != nil {
			core.halt(i, err)
			event.Advance(longest)
			return err
		}
	}
	event.Advance(longest)
	return nil
}

// Record a fatal error and stop the session.
func (core *Core) halt(n int, err error) {
	core.cpus[n].halted = err
	slog.Error("Processor halted", "cpu", n, "error", err.Error())
	core.stopRunning()
}

// Apply fn to processor n, or all of them.
func (core *Core) forCPU(n int, fn func(i int, p *processor) error) error {
	if n == master.AllCPU {
		for i, p := range core.cpus {
			if err := fn(i, p); err != nil {
				return err
			}
		}
		return nil
	}
	if _, err := core.CPU(n); err != nil {
		return err
	}
	return fn(n, core.cpus[n])
}

func (core *Core) reset(n int) error {
	return core.forCPU(n, func(i int, p *processor) error {
		p.cpu.Reset()
		p.halted = nil
		slog.Info("Processor reset", "cpu", i)
		return nil
	})
}

// Execute count instructions on a stopped processor.
func (core *Core) step(n int, count int) (string, error) {
	if core.running {
		return "", errors.New("can't step while running")
	}
	cpu, err := core.CPU(n)
	if err != nil {
		return "", err
	}
	if core.cpus[n].halted != nil {
		return "", fmt.Errorf("cpu %d halted, reset required", n)
	}
	if count <= 0 {
		count = 1
	}
	done, err := cpu.Execute(count)
	event.Advance(done)
	if err != nil {
		core.halt(n, err)
		return "", err
	}
	return core.show(n)
}

func (core *Core) save(n int, name string) error {
	cpu, err := core.CPU(n)
	if err != nil {
		return err
	}
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := cpu.SaveState(file); err != nil {
		file.Close()
		return err
	}
	slog.Info("State saved", "cpu", n, "file", name)
	return file.Close()
}

func (core *Core) restore(n int, name string) error {
	cpu, err := core.CPU(n)
	if err != nil {
		return err
	}
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := cpu.LoadState(file); err != nil {
		return err
	}
	core.cpus[n].halted = nil
	slog.Info("State restored", "cpu", n, "file", name)
	return nil
}

// Format state of processor n, or all of them.
func (core *Core) show(n int) (string, error) {
	var str strings.Builder
	err := core.forCPU(n, func(i int, p *processor) error {
		if str.Len() != 0 {
			str.WriteByte('\n')
		}
		FormatCPU(&str, i, p.cpu)
		fmt.Fprintf(&str, "\nIRQ asserted: %d", p.irqs)
		if p.halted != nil {
			str.WriteString("\nHalted: " + p.halted.Error())
		}
		return nil
	})
	if next := event.NextEvent(); err == nil && next >= 0 {
		fmt.Fprintf(&str, "\nNext event in %d cycles", next)
	}
	return str.String(), err
}

// Write processor state.
func FormatCPU(str *strings.Builder, n int, cpu *ppc.CPU) {
	regs := cpu.State()
	fmt.Fprintf(str, "CPU %d %s %s\n", n, cpu.Name(), cpu.Model())
	hex.FormatRegs(str,
		[]string{"PC", "NPC", "MSR", "SRR0", "SRR1", "DEC", "PEND", "ESA", "HID0", "FRAC"},
		[]uint32{regs.PC, regs.NPC, regs.MSR, regs.SRR0, regs.SRR1, regs.DEC,
			regs.Pending, regs.ESA, regs.HID0, regs.DecFraction}, 5)
	str.WriteString("\nTB=")
	hex.FormatDouble(str, regs.TB)
	str.WriteString(" " + ppc.MSRString(regs.MSR))
}
