package cpu

import "psxcore/internal/utils"

// Field extraction, per spec.md §4.3: primary opcode bits[31:26],
// rs bits[25:21], rt bits[20:16], rd bits[15:11], shamt bits[10:6],
// funct bits[5:0], imm16 bits[15:0], imm26 bits[25:0]. Named the same
// way internal/mips32/instructions.go's RTypeInstruction.Decode does,
// collapsed into free functions since this build dispatches through
// opcode tables rather than per-type structs (see Design Notes in
// spec.md §9: "replace the nested switch with an explicit table keyed
// by primary and secondary opcode").
func primaryOp(instr uint32) uint8 { return uint8((instr >> 26) & 0x3F) }
func rsField(instr uint32) uint8   { return uint8((instr >> 21) & 0x1F) }
func rtField(instr uint32) uint8   { return uint8((instr >> 16) & 0x1F) }
func rdField(instr uint32) uint8   { return uint8((instr >> 11) & 0x1F) }
func shamtField(instr uint32) uint8 { return uint8((instr >> 6) & 0x1F) }
func functField(instr uint32) uint8 { return uint8(instr & 0x3F) }
func imm16Field(instr uint32) uint16 { return uint16(instr & 0xFFFF) }
func imm26Field(instr uint32) uint32 { return instr & 0x3FFFFFF }

// signExtImm16 sign-extends an instruction's 16-bit immediate to 32
// bits, used for every arithmetic/load/store/branch immediate.
func signExtImm16(instr uint32) uint32 {
	return utils.SignExtend16(imm16Field(instr))
}

// handlerFunc executes one decoded instruction against cpu.
type handlerFunc func(c *CPU, instr uint32)

// primaryTable is keyed by the primary opcode (bits [31:26]). Entries
// for 0x00 (R-type), 0x01 (REGIMM), 0x10 (COP0) are handled specially
// in execute since they dispatch through a secondary field instead of
// naming a single handler.
var primaryTable [64]handlerFunc

// secondaryTable is keyed by the R-type funct field (bits [5:0]),
// selected when primaryOp == 0.
var secondaryTable [64]handlerFunc

// regimmTable is keyed by the rt field (bits [20:16]) under primary
// opcode 0x01: BLTZ/BGEZ/BLTZAL/BGEZAL.
var regimmTable [32]handlerFunc

func init() {
	primaryTable[0x02] = opJ
	primaryTable[0x03] = opJAL
	primaryTable[0x04] = opBEQ
	primaryTable[0x05] = opBNE
	primaryTable[0x06] = opBLEZ
	primaryTable[0x07] = opBGTZ
	primaryTable[0x08] = opADDI
	primaryTable[0x09] = opADDIU
	primaryTable[0x0A] = opSLTI
	primaryTable[0x0B] = opSLTIU
	primaryTable[0x0C] = opANDI
	primaryTable[0x0D] = opORI
	primaryTable[0x0E] = opXORI
	primaryTable[0x0F] = opLUI
	primaryTable[0x20] = opLB
	primaryTable[0x21] = opLH
	primaryTable[0x23] = opLW
	primaryTable[0x24] = opLBU
	primaryTable[0x25] = opLHU
	primaryTable[0x28] = opSB
	primaryTable[0x29] = opSH
	primaryTable[0x2B] = opSW

	secondaryTable[0x00] = opSLL
	secondaryTable[0x02] = opSRL
	secondaryTable[0x03] = opSRA
	secondaryTable[0x04] = opSLLV
	secondaryTable[0x06] = opSRLV
	secondaryTable[0x07] = opSRAV
	secondaryTable[0x08] = opJR
	secondaryTable[0x09] = opJALR
	secondaryTable[0x0C] = opSYSCALL
	secondaryTable[0x0D] = opBREAK
	secondaryTable[0x10] = opMFHI
	secondaryTable[0x11] = opMTHI
	secondaryTable[0x12] = opMFLO
	secondaryTable[0x13] = opMTLO
	secondaryTable[0x1A] = opDIV
	secondaryTable[0x1B] = opDIVU
	secondaryTable[0x20] = opADD
	secondaryTable[0x21] = opADDU
	secondaryTable[0x22] = opSUB
	secondaryTable[0x23] = opSUBU
	secondaryTable[0x24] = opAND
	secondaryTable[0x25] = opOR
	secondaryTable[0x26] = opXOR
	secondaryTable[0x27] = opNOR
	secondaryTable[0x2A] = opSLT
	secondaryTable[0x2B] = opSLTU
	secondaryTable[0x18] = opMULT
	secondaryTable[0x19] = opMULTU

	regimmTable[0x00] = opBLTZ
	regimmTable[0x01] = opBGEZ
	regimmTable[0x10] = opBLTZAL
	regimmTable[0x11] = opBGEZAL
}
