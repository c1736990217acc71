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
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rcornwell/PPC60x/emu/event"
	"github.com/rcornwell/PPC60x/emu/irqgen"
	"github.com/rcornwell/PPC60x/emu/master"
	"github.com/rcornwell/PPC60x/emu/memory"
	"github.com/rcornwell/PPC60x/emu/ppc"
)

const (
	opLI5  = 0x38600005 // addi r3,r0,5
	opLoop = 0x48000000 // b .
)

// Build a core with one processor running program at the reset vector.
func setup(t *testing.T, program ...uint32) (*Core, *ppc.CPU) {
	t.Helper()
	event.Reset()
	mem, err := memory.New(64 * 1024)
	if err != nil {
		t.Fatal(err)
	}
	for i, op := range program {
		mem.PutWord(ppc.ResetVector+uint32(i*4), op)
	}
	core := New(make(chan master.Packet), mem)
	cpu, err := ppc.New(ppc.Config{Model: ppc.PPC603, BusMultiplier: 1, LineCallback: core.LineCallback(0)}, mem)
	if err != nil {
		t.Fatal(err)
	}
	core.AddCPU(cpu, 100)
	return core, cpu
}

func TestRunSlice(t *testing.T) {
	is := is.New(t)
	core, cpu := setup(t, opLI5, opLoop)

	is.NoErr(core.startRunning())
	is.NoErr(core.RunSlice())
	is.Equal(cpu.GPR(3), uint32(5))
	is.Equal(cpu.State().PC, ppc.ResetVector+4)
	is.Equal(cpu.State().TB, uint64(25))
}

func TestFatalHalts(t *testing.T) {
	is := is.New(t)
	core, cpu := setup(t, opLI5, 0)

	is.NoErr(core.startRunning())
	err := core.RunSlice()
	is.True(errors.Is(err, ppc.ErrFatal))
	is.True(!core.Running())
	is.True(core.startRunning() != nil)

	// Reset clears the halt.
	is.NoErr(core.reset(master.AllCPU))
	is.Equal(cpu.State().PC, ppc.ResetVector)
	is.NoErr(core.startRunning())
}

func TestPackets(t *testing.T) {
	is := is.New(t)
	core, cpu := setup(t, opLI5, opLoop)
	go core.Start()
	defer core.Stop()

	is.NoErr(core.SendIRQ(0))
	is.Equal(cpu.Pending()&1, uint32(1))
	is.True(core.SendIRQ(3) != nil)
	is.NoErr(core.SendSMI(0))
	is.Equal(cpu.Pending()&4, uint32(4))

	res := core.Request(master.Packet{Msg: master.Step, CPU: 0, Count: 1})
	is.NoErr(res.Err)
	is.True(strings.Contains(res.Text, "NPC=fff00104"))
	is.True(strings.Contains(res.Text, "IRQ asserted: 1"))

	res = core.Request(master.Packet{Msg: master.Deposit, Addr: 0x100, Data: 0x12345678})
	is.NoErr(res.Err)
	res = core.Request(master.Packet{Msg: master.Examine, Addr: 0x100})
	is.NoErr(res.Err)
	is.Equal(res.Value, uint32(0x12345678))
	is.Equal(res.Text, "00000100: 12345678")

	res = core.Request(master.Packet{Msg: master.Examine, Addr: 0x100000})
	is.True(res.Err != nil)

	is.NoErr(core.SendStart())
	is.NoErr(core.Request(master.Packet{Msg: master.TimeSlice}).Err)
	res = core.Request(master.Packet{Msg: master.Step, CPU: 0})
	is.True(res.Err != nil)
	is.NoErr(core.SendStop())

	res = core.Request(master.Packet{Msg: 99})
	is.True(res.Err != nil)
}

func TestSaveRestore(t *testing.T) {
	is := is.New(t)
	core, cpu := setup(t, opLI5, opLoop)
	name := filepath.Join(t.TempDir(), "cpu0.state")

	_, err := core.step(0, 10)
	is.NoErr(err)
	saved := cpu.State()
	is.NoErr(core.save(0, name))

	cpu.Reset()
	is.Equal(cpu.State().PC, ppc.ResetVector)
	is.NoErr(core.restore(0, name))
	is.Equal(cpu.State(), saved)

	is.True(core.restore(1, name) != nil)
	is.True(core.restore(0, name+".missing") != nil)
}

func TestGenerator(t *testing.T) {
	is := is.New(t)
	core, cpu := setup(t, opLI5, opLoop)
	gen, err := irqgen.New(0, irqgen.LineSMI, 50, core)
	is.NoErr(err)
	core.AddGenerator(gen)

	is.NoErr(core.startRunning())
	is.NoErr(core.RunSlice())
	is.Equal(gen.Count, 2)
	is.Equal(cpu.Pending()&4, uint32(4))
	text, err := core.show(0)
	is.NoErr(err)
	is.True(strings.Contains(text, "Next event in 50 cycles"))

	core.stopRunning()
	is.True(!event.AnyEvent())
}
