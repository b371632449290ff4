package cpu

import "log"

// COP0 instructions are encoded under primary opcode 0x10, keyed by
// the rs field (bits [25:21]) rather than funct: 0x00 is MFC0, 0x04 is
// MTC0, and the 0x10 "CO" subspace holds RFE at funct 0x10. Grounded on
// internal/mips32/instructions.go's COP0Instruction.Execute switch,
// trimmed to the three operations spec.md §4.4 names.
func (c *CPU) execCOP0(instr uint32) {
	switch rsField(instr) {
	case 0x00: // MFC0 rt, rd -- result lands in the load-delay slot like
		// any other load, per spec.md §4.4.
		c.scheduleLoad(rtField(instr), c.cop0.Read(int(rdField(instr))))

	case 0x04: // MTC0 rt, rd
		c.cop0.Write(int(rdField(instr)), c.GetReg(rtField(instr)), c.logCop0Write)

	case 0x10: // CO -- coprocessor operation; only RFE (funct 0x10) is defined.
		if functField(instr) == 0x10 {
			c.cop0.RFE()
			return
		}
		c.raiseReserved(instr)

	default:
		c.raiseReserved(instr)
	}
}

func (c *CPU) logCop0Write(reg int, val uint32) {
	if c.verbose {
		log.Printf("cop0: write to unmodeled register %d <- 0x%08X", reg, val)
	}
}
