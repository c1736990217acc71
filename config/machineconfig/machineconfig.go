/*
 * PPC60x - Machine configuration
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

package machineconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	config "github.com/rcornwell/PPC60x/config/configparser"
	"github.com/rcornwell/PPC60x/emu/core"
	"github.com/rcornwell/PPC60x/emu/irqgen"
	"github.com/rcornwell/PPC60x/emu/master"
	"github.com/rcornwell/PPC60x/emu/memory"
	"github.com/rcornwell/PPC60x/emu/ppc"
)

// Memory size when none configured.
const DefaultMemory = 16 * 1024 * 1024

// One processor.
type CPUDef struct {
	Num    int
	Model  ppc.Variant
	Mult   int
	IBR    uint32
	Reset  uint32
	Budget int
	Name   string
}

// Image to load into memory.
type LoadDef struct {
	File string
	Addr uint32
}

// Periodic interrupt source.
type GenDef struct {
	CPU    int
	Line   int
	Period int
}

// Machine collects the configuration file settings.
type Machine struct {
	CPUs    []CPUDef
	MemSize int
	Loads   []LoadDef
	Gens    []GenDef
	Slice   time.Duration
	Start   bool // Run processors as soon as the machine is built.
}

var machine = &Machine{}

// register models on initialize.
func init() {
	config.RegisterModel("CPU", config.TypeModel, createCPU)
	config.RegisterOption("MEMORY", setMemory)
	config.RegisterModel("LOAD", config.TypeOptions, createLoad)
	config.RegisterModel("IRQGEN", config.TypeModel, createGen)
	config.RegisterOption("SLICE", setSlice)
	config.RegisterSwitch("AUTOSTART", setAutoStart)
}

// Current machine definition.
func Current() *Machine {
	return machine
}

// Clear machine definition.
func Clear() {
	machine = &Machine{}
}

// CPU <n> MODEL=602|603 MULT=<n> IBR=<hex> RESET=<hex> BUDGET=<n> NAME=<name>.
func createCPU(num uint32, _ string, options []config.Option) error {
	if num > 31 {
		return fmt.Errorf("cpu number out of range: %d", num)
	}
	def := CPUDef{Num: int(num), Model: ppc.PPC603, Mult: 1, Name: "CPU" + strconv.Itoa(int(num))}
	for _, cpu := range machine.CPUs {
		if cpu.Num == def.Num {
			return fmt.Errorf("cpu %d defined twice", num)
		}
	}
	for i := range options {
		opt := &options[i]
		var err error
		switch opt.Name {
		case "MODEL":
			switch opt.EqualOpt {
			case "602":
				def.Model = ppc.PPC602
			case "603":
				def.Model = ppc.PPC603
			default:
				err = errors.New("cpu model must be 602 or 603: " + opt.EqualOpt)
			}
		case "MULT":
			def.Mult, err = opt.Int()
			if err == nil && def.Mult == 0 {
				err = errors.New("cpu bus multiplier can't be zero")
			}
		case "IBR":
			def.IBR, err = opt.Hex()
		case "RESET":
			def.Reset, err = opt.Hex()
		case "BUDGET":
			def.Budget, err = opt.Int()
		case "NAME":
			def.Name = opt.EqualOpt
		default:
			err = errors.New("cpu invalid option: " + opt.Name)
		}
		if err != nil {
			return err
		}
	}
	machine.CPUs = append(machine.CPUs, def)
	return nil
}

// Parse size with optional K or M suffix.
func parseSize(value string) (int, error) {
	mult := 1
	upper := strings.ToUpper(value)
	switch {
	case strings.HasSuffix(upper, "K"):
		mult = 1024
		upper = strings.TrimSuffix(upper, "K")
	case strings.HasSuffix(upper, "M"):
		mult = 1024 * 1024
		upper = strings.TrimSuffix(upper, "M")
	}
	size, err := strconv.Atoi(upper)
	if err != nil || size <= 0 {
		return 0, errors.New("invalid memory size: " + value)
	}
	return size * mult, nil
}

// MEMORY <size>[K|M].
func setMemory(_ uint32, value string, _ []config.Option) error {
	size, err := parseSize(value)
	if err != nil {
		return err
	}
	if size > memory.MaxSize {
		return fmt.Errorf("memory size too large: %s", value)
	}
	machine.MemSize = size
	return nil
}

// LOAD "<file>" ADDR=<hex>.
func createLoad(_ uint32, file string, options []config.Option) error {
	if file == "" {
		return errors.New("load requires a file name")
	}
	def := LoadDef{File: file, Addr: ppc.ResetVector &^ 0xfff}
	for i := range options {
		opt := &options[i]
		if opt.Name != "ADDR" {
			return errors.New("load invalid option: " + opt.Name)
		}
		var err error
		if def.Addr, err = opt.Hex(); err != nil {
			return err
		}
	}
	machine.Loads = append(machine.Loads, def)
	return nil
}

// IRQGEN <cpu> PERIOD=<n> LINE=IRQ|SMI.
func createGen(cpu uint32, _ string, options []config.Option) error {
	def := GenDef{CPU: int(cpu)}
	for i := range options {
		opt := &options[i]
		var err error
		switch opt.Name {
		case "PERIOD":
			def.Period, err = opt.Int()
		case "LINE":
			def.Line, err = irqgen.ParseLine(opt.EqualOpt)
		default:
			err = errors.New("irqgen invalid option: " + opt.Name)
		}
		if err != nil {
			return err
		}
	}
	if def.Period <= 0 {
		return errors.New("irqgen requires PERIOD")
	}
	machine.Gens = append(machine.Gens, def)
	return nil
}

// SLICE <milliseconds>.
func setSlice(_ uint32, value string, _ []config.Option) error {
	ms, err := strconv.Atoi(value)
	if err != nil || ms <= 0 {
		return errors.New("slice must be a number of milliseconds: " + value)
	}
	machine.Slice = time.Duration(ms) * time.Millisecond
	return nil
}

// AUTOSTART.
func setAutoStart(_ uint32, _ string, _ []config.Option) error {
	machine.Start = true
	return nil
}

// Build creates memory, processors and interrupt generators.
func (m *Machine) Build(masterChannel chan master.Packet) (*core.Core, error) {
	if len(m.CPUs) == 0 {
		return nil, errors.New("no cpu defined")
	}
	size := m.MemSize
	if size == 0 {
		size = DefaultMemory
	}
	mem, err := memory.New(size)
	if err != nil {
		return nil, err
	}
	for _, load := range m.Loads {
		n, err := mem.LoadFile(load.File, load.Addr)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", load.File, err)
		}
		slog.Info("Image loaded", "file", load.File, "addr", fmt.Sprintf("%08x", load.Addr), "bytes", n)
	}

	cpus := append([]CPUDef{}, m.CPUs...)
	sort.Slice(cpus, func(i, j int) bool { return cpus[i].Num < cpus[j].Num })
	sys := core.New(masterChannel, mem)
	for i, def := range cpus {
		if def.Num != i {
			return nil, fmt.Errorf("cpu numbers must start at 0 and not skip, missing cpu %d", i)
		}
		cpu, err := ppc.New(ppc.Config{
			Model:         def.Model,
			BusMultiplier: def.Mult,
			IBR:           def.IBR,
			ResetVector:   def.Reset,
			Name:          def.Name,
			LineCallback:  sys.LineCallback(i),
		}, mem)
		if err != nil {
			return nil, err
		}
		sys.AddCPU(cpu, def.Budget)
		slog.Info("CPU created", "cpu", i, "model", def.Model.String(), "mult", def.Mult)
	}

	for _, def := range m.Gens {
		if def.CPU >= len(cpus) {
			return nil, fmt.Errorf("irqgen for undefined cpu %d", def.CPU)
		}
		gen, err := irqgen.New(def.CPU, def.Line, def.Period, sys)
		if err != nil {
			return nil, err
		}
		sys.AddGenerator(gen)
	}
	return sys, nil
}
