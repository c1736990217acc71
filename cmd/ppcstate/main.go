/*
 * PPC60x - Processor state file tool
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

// Command ppcstate inspects processor save state files.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
	"github.com/rcornwell/PPC60x/emu/ppc"
	"github.com/rcornwell/PPC60x/util/hex"
)

type cli struct {
	Dump dumpCmd `cmd:"" help:"Print registers held in a state file."`
	Diff diffCmd `cmd:"" help:"Show register differences between two state files."`
}

// Where commands write their output.
type output struct {
	w io.Writer
}

type dumpCmd struct {
	File string `arg:"" type:"existingfile" help:"State file."`
}

type diffCmd struct {
	Old string `arg:"" type:"existingfile" help:"First state file."`
	New string `arg:"" type:"existingfile" help:"Second state file."`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ppcstate: "+err.Error())
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("ppcstate"),
		kong.Description("Inspect PPC60x processor state files."),
		kong.Writers(w, w))
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return ctx.Run(&output{w: w})
}

func readState(name string) (*ppc.Snapshot, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	snap, err := ppc.ReadState(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return snap, nil
}

// Format a snapshot the way the console shows a processor.
func formatSnapshot(snap *ppc.Snapshot) string {
	var str strings.Builder
	regs := snap.Regs
	str.WriteString("Model " + snap.Model.String() + "\n")
	hex.FormatRegs(&str,
		[]string{"PC", "NPC", "MSR", "SRR0", "SRR1", "DEC", "PEND", "ESA", "HID0", "FRAC"},
		[]uint32{regs.PC, regs.NPC, regs.MSR, regs.SRR0, regs.SRR1, regs.DEC,
			regs.Pending, regs.ESA, regs.HID0, regs.DecFraction}, 5)
	str.WriteString("\nTB=")
	hex.FormatDouble(&str, regs.TB)
	str.WriteString(" " + ppc.MSRString(regs.MSR))
	return str.String()
}

func (d *dumpCmd) Run(out *output) error {
	snap, err := readState(d.File)
	if err != nil {
		return err
	}
	fmt.Fprintln(out.w, formatSnapshot(snap))
	return nil
}

func (d *diffCmd) Run(out *output) error {
	a, err := readState(d.Old)
	if err != nil {
		return err
	}
	b, err := readState(d.New)
	if err != nil {
		return err
	}
	diff := cmp.Diff(a, b)
	if diff == "" {
		fmt.Fprintln(out.w, "no differences")
		return nil
	}
	fmt.Fprint(out.w, diff)
	return nil
}
