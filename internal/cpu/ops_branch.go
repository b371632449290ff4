package cpu

import "psxcore/internal/cop0"

// Every handler in this file is a control transfer: the instruction
// fetched next step sits in its delay slot regardless of whether a
// branch was taken, so each one calls markControlTransfer unconditionally.
//
// By the time execute() reaches one of these handlers, Step has already
// advanced c.pc to instrPC+4 (the delay slot address) and c.nextPC to
// instrPC+8. A taken branch/jump retargets c.nextPC -- the delay slot
// at c.pc still executes first. J/JAL compose their target against
// c.pc's upper four bits, which are the delay slot's, matching
// spec.md §8's worked example.

// J target -- unconditional jump.
func opJ(c *CPU, instr uint32) {
	c.markControlTransfer()
	c.nextPC = (c.pc & 0xF0000000) | (imm26Field(instr) << 2)
}

// JAL target -- unconditional jump, linking the return address (the
// instruction after the delay slot) into r31.
func opJAL(c *CPU, instr uint32) {
	c.markControlTransfer()
	c.SetReg(31, c.pc+4)
	c.nextPC = (c.pc & 0xF0000000) | (imm26Field(instr) << 2)
}

// JR rs -- jump to the address held in rs.
func opJR(c *CPU, instr uint32) {
	c.markControlTransfer()
	c.nextPC = c.GetReg(rsField(instr))
}

// JALR rd, rs -- jump to rs, linking into rd exactly as encoded (an rd
// of zero discards the link, since R0 ignores writes).
func opJALR(c *CPU, instr uint32) {
	c.markControlTransfer()
	target := c.GetReg(rsField(instr))
	c.SetReg(rdField(instr), c.pc+4)
	c.nextPC = target
}

// branchIf retargets next_pc by the sign-extended, word-aligned branch
// offset when cond holds; always marks the control transfer since the
// following instruction is structurally in the delay slot either way.
func branchIf(c *CPU, instr uint32, cond bool) {
	c.markControlTransfer()
	if cond {
		c.nextPC = c.pc + (signExtImm16(instr) << 2)
	}
}

func opBEQ(c *CPU, instr uint32) {
	branchIf(c, instr, c.GetReg(rsField(instr)) == c.GetReg(rtField(instr)))
}

func opBNE(c *CPU, instr uint32) {
	branchIf(c, instr, c.GetReg(rsField(instr)) != c.GetReg(rtField(instr)))
}

func opBLEZ(c *CPU, instr uint32) {
	branchIf(c, instr, int32(c.GetReg(rsField(instr))) <= 0)
}

func opBGTZ(c *CPU, instr uint32) {
	branchIf(c, instr, int32(c.GetReg(rsField(instr))) > 0)
}

func opBLTZ(c *CPU, instr uint32) {
	branchIf(c, instr, int32(c.GetReg(rsField(instr))) < 0)
}

func opBGEZ(c *CPU, instr uint32) {
	branchIf(c, instr, int32(c.GetReg(rsField(instr))) >= 0)
}

// BLTZAL/BGEZAL link r31 unconditionally (even when not taken) before
// testing the branch condition, per MIPS REGIMM semantics.
func opBLTZAL(c *CPU, instr uint32) {
	c.SetReg(31, c.pc+4)
	branchIf(c, instr, int32(c.GetReg(rsField(instr))) < 0)
}

func opBGEZAL(c *CPU, instr uint32) {
	c.SetReg(31, c.pc+4)
	branchIf(c, instr, int32(c.GetReg(rsField(instr))) >= 0)
}

// SYSCALL -- software trap, always taken.
func opSYSCALL(c *CPU, instr uint32) {
	c.raiseException(cop0.SysCall)
}

// BREAK -- debugger breakpoint trap.
func opBREAK(c *CPU, instr uint32) {
	c.raiseException(cop0.Breakpoint)
}
