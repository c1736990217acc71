/*
 * PPC60x - Console command parser
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

package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	config "github.com/rcornwell/PPC60x/config/configparser"
	"github.com/rcornwell/PPC60x/emu/core"
	"github.com/rcornwell/PPC60x/emu/master"
)

// Where command output is written.
var Output io.Writer = os.Stdout

var cmdList = []cmd{
	{Name: "quit", Min: 4, Process: quit},
	{Name: "stop", Min: 3, Process: stop},
	{Name: "continue", Min: 1, Process: cont},
	{Name: "start", Min: 3, Process: start},
	{Name: "show", Min: 2, Process: show},
	{Name: "examine", Min: 2, Process: examine},
	{Name: "deposit", Min: 2, Process: deposit},
	{Name: "reset", Min: 5, Process: reset},
	{Name: "irq", Min: 1, Process: irq},
	{Name: "smi", Min: 2, Process: smi},
	{Name: "step", Min: 3, Process: step},
	{Name: "save", Min: 2, Process: save, Complete: fileComplete},
	{Name: "restore", Min: 3, Process: restore, Complete: fileComplete},
	{Name: "help", Min: 1, Process: help},
}

// Names of commands, in table order.
var cmdNames []string

func init() {
	for _, c := range cmdList {
		cmdNames = append(cmdNames, c.Name)
	}
}

// Send packet to core, print any text returned.
func send(core *core.Core, packet master.Packet) error {
	result := core.Request(packet)
	if result.Err != nil {
		return result.Err
	}
	if result.Text != "" {
		fmt.Fprintln(Output, result.Text)
	}
	return nil
}

// Get processor number, or AllCPU when none given and all is allowed.
func (line *cmdLine) getCPU(all bool) (int, error) {
	line.skipSpace()
	if line.isEOL() {
		if all {
			return master.AllCPU, nil
		}
		return 0, errors.New("processor number required")
	}
	pos := line.pos
	if line.getWord() == "all" && all {
		return master.AllCPU, nil
	}
	line.pos = pos
	n, err := line.getNumber()
	if err != nil {
		return 0, errors.New("processor must be a number")
	}
	return n, nil
}

// Handle commands that quit simulation.
func quit(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Quit")
	if err := line.atEnd(); err != nil {
		return false, err
	}
	return true, core.SendStop()
}

// Stop the processors.
func stop(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Stop")
	if err := line.atEnd(); err != nil {
		return false, err
	}
	return false, core.SendStop()
}

// Continue processors from where they left off.
func cont(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Continue")
	if err := line.atEnd(); err != nil {
		return false, err
	}
	return false, core.SendStart()
}

// Reset all processors and start them.
func start(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Start")
	if err := line.atEnd(); err != nil {
		return false, err
	}
	if err := send(core, master.Packet{Msg: master.Reset, CPU: master.AllCPU}); err != nil {
		return false, err
	}
	return false, core.SendStart()
}

// Display processor state.
func show(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Show")
	n, err := line.getCPU(true)
	if err != nil {
		return false, err
	}
	if err := line.atEnd(); err != nil {
		return false, err
	}
	return false, send(core, master.Packet{Msg: master.Show, CPU: n})
}

// Reset one or all processors.
func reset(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Reset")
	n, err := line.getCPU(true)
	if err != nil {
		return false, err
	}
	if err := line.atEnd(); err != nil {
		return false, err
	}
	return false, send(core, master.Packet{Msg: master.Reset, CPU: n})
}

func irq(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command IRQ")
	return raise(line, core, master.SetIRQ)
}

func smi(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command SMI")
	return raise(line, core, master.SetSMI)
}

// Assert an interrupt line on a processor.
func raise(line *cmdLine, core *core.Core, msg int) (bool, error) {
	n, err := line.getCPU(false)
	if err != nil {
		return false, err
	}
	if err := line.atEnd(); err != nil {
		return false, err
	}
	return false, send(core, master.Packet{Msg: msg, CPU: n})
}

// Execute instructions on a stopped processor.
func step(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Step")
	n, err := line.getCPU(false)
	if err != nil {
		return false, err
	}
	count := 1
	line.skipSpace()
	if !line.isEOL() {
		count, err = line.getNumber()
		if err != nil || count == 0 {
			return false, errors.New("step count must be a positive number")
		}
	}
	if err := line.atEnd(); err != nil {
		return false, err
	}
	return false, send(core, master.Packet{Msg: master.Step, CPU: n, Count: count})
}

func save(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Save")
	return stateFile(line, core, master.Save)
}

func restore(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Restore")
	return stateFile(line, core, master.Restore)
}

// Save or restore processor state to a file.
func stateFile(line *cmdLine, core *core.Core, msg int) (bool, error) {
	n, err := line.getCPU(false)
	if err != nil {
		return false, err
	}
	name, ok := line.parseQuoteString()
	if !ok {
		return false, errors.New("file name required")
	}
	if err := line.atEnd(); err != nil {
		return false, err
	}
	return false, send(core, master.Packet{Msg: msg, CPU: n, Name: name})
}

// Display a memory word.
func examine(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Examine")
	addr, err := line.getHex()
	if err != nil {
		return false, errors.New("examine requires hex address")
	}
	if err := line.atEnd(); err != nil {
		return false, err
	}
	return false, send(core, master.Packet{Msg: master.Examine, Addr: addr})
}

// Change a memory word.
func deposit(line *cmdLine, core *core.Core) (bool, error) {
	slog.Debug("Command Deposit")
	addr, err := line.getHex()
	if err != nil {
		return false, errors.New("deposit requires hex address")
	}
	data, err := line.getHex()
	if err != nil {
		return false, errors.New("deposit requires hex value")
	}
	if err := line.atEnd(); err != nil {
		return false, err
	}
	return false, send(core, master.Packet{Msg: master.Deposit, Addr: addr, Data: data})
}

// List console commands and configuration file keywords.
func help(line *cmdLine, _ *core.Core) (bool, error) {
	slog.Debug("Command Help")
	if err := line.atEnd(); err != nil {
		return false, err
	}
	fmt.Fprintln(Output, "Commands: "+strings.Join(cmdNames, " "))
	fmt.Fprintln(Output, "Configuration: "+strings.Join(config.ModelList(), " "))
	return false, nil
}
