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

import "strconv"

/*
   The 602 and 603 are the low end members of the 32 bit PowerPC family.
   Both share the same exception model: on entry to an exception the
   next instruction address is saved in SRR0, part of the MSR in SRR1,
   the MSR is forced to supervisor with translation off, and execution
   continues at a fixed offset from the vector base.

   The vector base is 0xfff00000 when MSR[IP] is set. Otherwise the 602
   uses its Interrupt Base Register, the 603 uses zero.

   The 602 adds two bits to the MSR (AP and SA) and a four bit shadow
   register (ESASRR) used by the esa/dsa instruction pair.

   Instruction formats used by the system instructions:

    D form:
      +--------+-----+-----+----------------+
      | opcode | rD  | rA  |     SIMM       |
      +--------+-----+-----+----------------+
       0      5 6  10 11 15 16            31

    X form:
      +--------+-----+-----+-----+----------+-+
      | opcode | rD  | rA  | rB  |  xo      |R|
      +--------+-----+-----+-----+----------+-+
       0      5 6  10 11 15 16 20 21      30 31

    XFX form (mfspr/mtspr): the ten bit SPR number is stored with
    its two five bit halves swapped in bits 11-20.
*/

// Model of processor being emulated.
type Variant int

const (
	PPC602 Variant = 602
	PPC603 Variant = 603
)

func (v Variant) String() string {
	return "PPC" + strconv.Itoa(int(v))
}

// Machine State Register bits.
const (
	MsrAP  uint32 = 0x00800000 // Access privilege state (602)
	MsrSA  uint32 = 0x00400000 // Supervisor access mode (602)
	MsrPOW uint32 = 0x00040000 // Power management enable
	MsrILE uint32 = 0x00010000 // Exception little endian
	MsrEE  uint32 = 0x00008000 // External interrupt enable
	MsrPR  uint32 = 0x00004000 // Problem state
	MsrFP  uint32 = 0x00002000 // Floating point available
	MsrME  uint32 = 0x00001000 // Machine check enable
	MsrFE0 uint32 = 0x00000800 // Floating point exception mode 0
	MsrSE  uint32 = 0x00000400 // Single step trace enable
	MsrBE  uint32 = 0x00000200 // Branch trace enable
	MsrFE1 uint32 = 0x00000100 // Floating point exception mode 1
	MsrIP  uint32 = 0x00000040 // Exception prefix
	MsrIR  uint32 = 0x00000020 // Instruction relocate
	MsrDR  uint32 = 0x00000010 // Data relocate
	MsrRI  uint32 = 0x00000002 // Recoverable exception
	MsrLE  uint32 = 0x00000001 // Little endian mode
)

// Bits cleared in MSR on exception entry.
const excClearMask = MsrPOW | MsrEE | MsrPR | MsrFP | MsrFE0 | MsrSE |
	MsrBE | MsrFE1 | MsrIR | MsrDR | MsrRI

// Pending interrupt bits.
const (
	pendIRQ uint32 = 0x1
	pendDEC uint32 = 0x2
	pendSMI uint32 = 0x4
)

// Special purpose registers.
const (
	sprLR     = 8
	sprCTR    = 9
	sprDEC    = 22
	sprSRR0   = 26
	sprSRR1   = 27
	sprTBLR   = 268
	sprTBUR   = 269
	sprSPRG0  = 272
	sprSPRG3  = 275
	sprTBLW   = 284
	sprTBUW   = 285
	sprPVR    = 287
	sprIBR    = 986 // 602 only
	sprESASRR = 987 // 602 only
	sprHID0   = 1008
)

const (
	ResetVector uint32 = 0xfff00100 // Default reset address
	resetMSR    uint32 = MsrIP      // MSR after reset
	highBase    uint32 = 0xfff00000 // Vector base with MSR[IP] set
	srr1Mask    uint32 = 0xff73     // MSR bits saved in SRR1
	trapMarker  uint32 = 0x20000    // SRR1 flag for trap exception
	decNever           = 0x7fffffff // Decrementer will not trigger this slice
)

// Processor version register values.
var pvrValue = map[Variant]uint32{
	PPC602: 0x00050100,
	PPC603: 0x00030100,
}
