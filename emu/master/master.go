/*
 * PPC60x - Master channel messages
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

package master

// Messages sent to the core on the master channel.
const (
	Start     = 1 + iota // Start all processors.
	Stop                 // Stop all processors.
	TimeSlice            // Run one slice on every processor.
	SetIRQ               // Assert IRQ line of CPU.
	SetSMI               // Assert SMI line of CPU.
	Reset                // Reset CPU, or all with AllCPU.
	Step                 // Execute Count instructions on a stopped CPU.
	Save                 // Save state of CPU to Name.
	Restore              // Restore state of CPU from Name.
	Show                 // Report state of CPU.
	Examine              // Read memory word at Addr.
	Deposit              // Write Data to memory at Addr.
	Shutdown             // Stop the core.
)

// Select every processor.
const AllCPU = -1

// Packet is one request to the core.
type Packet struct {
	Msg   int
	CPU   int         // Processor number or AllCPU.
	Addr  uint32      // Memory address.
	Data  uint32      // Value to deposit.
	Count int         // Instructions to step.
	Name  string      // File name for save and restore.
	Reply chan Result // Optional, receives one Result.
}

// Result of a request.
type Result struct {
	Text  string
	Value uint32
	Err   error
}

var names = map[int]string{
	Start: "start", Stop: "stop", TimeSlice: "slice", SetIRQ: "irq",
	SetSMI: "smi", Reset: "reset", Step: "step", Save: "save",
	Restore: "restore", Show: "show", Examine: "examine",
	Deposit: "deposit", Shutdown: "shutdown",
}

// Return name of message.
func MsgName(msg int) string {
	if name, ok := names[msg]; ok {
		return name
	}
	return "unknown"
}
