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

// Register fields.
func fieldD(opcode uint32) uint32 { return (opcode >> 21) & 0x1f }
func fieldA(opcode uint32) uint32 { return (opcode >> 16) & 0x1f }
func fieldB(opcode uint32) uint32 { return (opcode >> 11) & 0x1f }

// SPR number with halves swapped back.
func fieldSPR(opcode uint32) uint32 {
	return ((opcode >> 16) & 0x1f) | ((opcode >> 6) & 0x3e0)
}

// Sign extended branch displacement.
func branchOffset(opcode uint32) int32 {
	return int32(opcode<<6) >> 6 & ^int32(3)
}

// Check trap condition.
func trapCondition(to uint32, a, b uint32) bool {
	sa, sb := int32(a), int32(b)
	switch {
	case (to&0x10) != 0 && sa < sb:
		return true
	case (to&0x08) != 0 && sa > sb:
		return true
	case (to&0x04) != 0 && a == b:
		return true
	case (to&0x02) != 0 && a < b:
		return true
	case (to&0x01) != 0 && a > b:
		return true
	}
	return false
}

// Unimplemented opcode.
func (cpu *CPU) opInvalid(opcode uint32) Exception {
	return cpu.raiseFatal(opcode, "invalid opcode")
}

// Instructions with nothing to do on this processor.
func (cpu *CPU) opNop(_ uint32) Exception {
	return ExcNone
}

// addi rD,rA,SIMM.
func (cpu *CPU) opADDI(opcode uint32) Exception {
	value := uint32(int32(int16(opcode)))
	if ra := fieldA(opcode); ra != 0 {
		value += cpu.regs[ra]
	}
	cpu.regs[fieldD(opcode)] = value
	return ExcNone
}

// addis rD,rA,SIMM.
func (cpu *CPU) opADDIS(opcode uint32) Exception {
	value := opcode << 16
	if ra := fieldA(opcode); ra != 0 {
		value += cpu.regs[ra]
	}
	cpu.regs[fieldD(opcode)] = value
	return ExcNone
}

// ori rA,rS,UIMM.
func (cpu *CPU) opORI(opcode uint32) Exception {
	cpu.regs[fieldA(opcode)] = cpu.regs[fieldD(opcode)] | (opcode & 0xffff)
	return ExcNone
}

// oris rA,rS,UIMM.
func (cpu *CPU) opORIS(opcode uint32) Exception {
	cpu.regs[fieldA(opcode)] = cpu.regs[fieldD(opcode)] | (opcode << 16)
	return ExcNone
}

// b, ba, bl, bla.
func (cpu *CPU) opB(opcode uint32) Exception {
	target := uint32(branchOffset(opcode))
	if (opcode & 2) == 0 {
		target += cpu.pc
	}
	if (opcode & 1) != 0 {
		cpu.lr = cpu.pc + 4
	}
	cpu.npc = target
	return ExcNone
}

// sc.
func (cpu *CPU) opSC(_ uint32) Exception {
	return ExcSyscall
}

// tw TO,rA,rB.
func (cpu *CPU) opTW(opcode uint32) Exception {
	if trapCondition(fieldD(opcode), cpu.regs[fieldA(opcode)], cpu.regs[fieldB(opcode)]) {
		return ExcTrap
	}
	return ExcNone
}

// twi TO,rA,SIMM.
func (cpu *CPU) opTWI(opcode uint32) Exception {
	if trapCondition(fieldD(opcode), cpu.regs[fieldA(opcode)], uint32(int32(int16(opcode)))) {
		return ExcTrap
	}
	return ExcNone
}

// rfi.
func (cpu *CPU) opRFI(_ uint32) Exception {
	cpu.npc = cpu.srr0
	cpu.SetMSR(cpu.srr1)
	return ExcNone
}

// mfmsr rD.
func (cpu *CPU) opMFMSR(opcode uint32) Exception {
	cpu.regs[fieldD(opcode)] = cpu.GetMSR()
	return ExcNone
}

// mtmsr rS.
func (cpu *CPU) opMTMSR(opcode uint32) Exception {
	cpu.SetMSR(cpu.regs[fieldD(opcode)])
	return ExcNone
}

// mfspr rD,SPR.
func (cpu *CPU) opMFSPR(opcode uint32) Exception {
	value, ok := cpu.getSPR(fieldSPR(opcode))
	if !ok {
		return cpu.raiseFatal(opcode, "unknown spr read")
	}
	cpu.regs[fieldD(opcode)] = value
	return ExcNone
}

// mtspr SPR,rS.
func (cpu *CPU) opMTSPR(opcode uint32) Exception {
	if !cpu.setSPR(fieldSPR(opcode), cpu.regs[fieldD(opcode)]) {
		return cpu.raiseFatal(opcode, "unknown spr write")
	}
	return ExcNone
}

// mftb rD,TBR.
func (cpu *CPU) opMFTB(opcode uint32) Exception {
	tb := cpu.readTimebase()
	switch fieldSPR(opcode) {
	case sprTBLR:
		cpu.regs[fieldD(opcode)] = uint32(tb)
	case sprTBUR:
		cpu.regs[fieldD(opcode)] = uint32(tb >> 32)
	default:
		return cpu.raiseFatal(opcode, "invalid time base register")
	}
	return ExcNone
}

// Read a special purpose register.
func (cpu *CPU) getSPR(spr uint32) (uint32, bool) {
	switch spr {
	case sprLR:
		return cpu.lr, true
	case sprCTR:
		return cpu.ctr, true
	case sprDEC:
		return cpu.readDecrementer(), true
	case sprSRR0:
		return cpu.srr0, true
	case sprSRR1:
		return cpu.srr1, true
	case sprTBLR:
		return uint32(cpu.readTimebase()), true
	case sprTBUR:
		return uint32(cpu.readTimebase() >> 32), true
	case sprPVR:
		return pvrValue[cpu.model], true
	case sprHID0:
		return cpu.hid0, true
	}
	if spr >= sprSPRG0 && spr <= sprSPRG3 {
		return cpu.sprg[spr-sprSPRG0], true
	}
	if cpu.model == PPC602 {
		switch spr {
		case sprIBR:
			return cpu.ibr, true
		case sprESASRR:
			return cpu.esa, true
		}
	}
	return 0, false
}

// Write a special purpose register.
func (cpu *CPU) setSPR(spr uint32, value uint32) bool {
	switch spr {
	case sprLR:
		cpu.lr = value
	case sprCTR:
		cpu.ctr = value
	case sprDEC:
		cpu.writeDecrementer(value)
	case sprSRR0:
		cpu.srr0 = value
	case sprSRR1:
		cpu.srr1 = value
	case sprTBLW:
		tb := cpu.readTimebase()
		cpu.writeTimebase((tb & 0xffffffff00000000) | uint64(value))
	case sprTBUW:
		tb := cpu.readTimebase()
		cpu.writeTimebase((tb & 0xffffffff) | (uint64(value) << 32))
	case sprHID0:
		cpu.hid0 = value
	default:
		if spr >= sprSPRG0 && spr <= sprSPRG3 {
			cpu.sprg[spr-sprSPRG0] = value
			return true
		}
		if cpu.model == PPC602 && spr == sprIBR {
			cpu.ibr = value
			return true
		}
		return false
	}
	return true
}
