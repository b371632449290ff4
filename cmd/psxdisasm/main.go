// Command psxdisasm prints a flat disassembly of a raw PSX BIOS image.
// Adapted from cmd/mips_disassemble/main.go: the ELF path is dropped
// (PSX BIOS images are a raw ROM dump, not an ELF binary), the byte
// order is little-endian rather than the teacher's forced big-endian,
// and the per-opcode tables are trimmed to the instructions this
// build's interpreter actually executes -- no COP1/COP2/TLB entries.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("usage: psxdisasm <bios_image>")
		return
	}

	file, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("psxdisasm: opening file: %v", err)
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		log.Fatalf("psxdisasm: seeking file: %v", err)
	}

	const base uint32 = 0xBFC00000
	offset := base
	for {
		var word uint32
		if err := binary.Read(file, binary.LittleEndian, &word); err != nil {
			break
		}
		fmt.Printf("0x%08X: 0x%08X\t%s\n", offset, word, disassemble(word, offset))
		offset += 4
	}
}

func disassemble(inst, pc uint32) string {
	switch op := inst >> 26; op {
	case 0x00:
		return disassembleR(inst)
	case 0x01:
		return disassembleRegimm(inst, pc)
	case 0x02:
		target := ((pc + 4) & 0xF0000000) | ((inst & 0x3FFFFFF) << 2)
		return fmt.Sprintf("j 0x%08X", target)
	case 0x03:
		target := ((pc + 4) & 0xF0000000) | ((inst & 0x3FFFFFF) << 2)
		return fmt.Sprintf("jal 0x%08X", target)
	case 0x10:
		return disassembleCop0(inst)
	default:
		return disassembleI(op, inst, pc)
	}
}

func disassembleR(inst uint32) string {
	rs, rt, rd := (inst>>21)&0x1F, (inst>>16)&0x1F, (inst>>11)&0x1F
	shamt, funct := (inst>>6)&0x1F, inst&0x3F

	switch funct {
	case 0x00:
		return fmt.Sprintf("sll $%d, $%d, %d", rd, rt, shamt)
	case 0x02:
		return fmt.Sprintf("srl $%d, $%d, %d", rd, rt, shamt)
	case 0x03:
		return fmt.Sprintf("sra $%d, $%d, %d", rd, rt, shamt)
	case 0x04:
		return fmt.Sprintf("sllv $%d, $%d, $%d", rd, rt, rs)
	case 0x06:
		return fmt.Sprintf("srlv $%d, $%d, $%d", rd, rt, rs)
	case 0x07:
		return fmt.Sprintf("srav $%d, $%d, $%d", rd, rt, rs)
	case 0x08:
		return fmt.Sprintf("jr $%d", rs)
	case 0x09:
		return fmt.Sprintf("jalr $%d, $%d", rd, rs)
	case 0x0C:
		return "syscall"
	case 0x0D:
		return "break"
	case 0x10:
		return fmt.Sprintf("mfhi $%d", rd)
	case 0x11:
		return fmt.Sprintf("mthi $%d", rs)
	case 0x12:
		return fmt.Sprintf("mflo $%d", rd)
	case 0x13:
		return fmt.Sprintf("mtlo $%d", rs)
	case 0x18:
		return fmt.Sprintf("mult $%d, $%d", rs, rt)
	case 0x19:
		return fmt.Sprintf("multu $%d, $%d", rs, rt)
	case 0x1A:
		return fmt.Sprintf("div $%d, $%d", rs, rt)
	case 0x1B:
		return fmt.Sprintf("divu $%d, $%d", rs, rt)
	case 0x20:
		return fmt.Sprintf("add $%d, $%d, $%d", rd, rs, rt)
	case 0x21:
		return fmt.Sprintf("addu $%d, $%d, $%d", rd, rs, rt)
	case 0x22:
		return fmt.Sprintf("sub $%d, $%d, $%d", rd, rs, rt)
	case 0x23:
		return fmt.Sprintf("subu $%d, $%d, $%d", rd, rs, rt)
	case 0x24:
		return fmt.Sprintf("and $%d, $%d, $%d", rd, rs, rt)
	case 0x25:
		return fmt.Sprintf("or $%d, $%d, $%d", rd, rs, rt)
	case 0x26:
		return fmt.Sprintf("xor $%d, $%d, $%d", rd, rs, rt)
	case 0x27:
		return fmt.Sprintf("nor $%d, $%d, $%d", rd, rs, rt)
	case 0x2A:
		return fmt.Sprintf("slt $%d, $%d, $%d", rd, rs, rt)
	case 0x2B:
		return fmt.Sprintf("sltu $%d, $%d, $%d", rd, rs, rt)
	default:
		return fmt.Sprintf("unknown R-funct 0x%02X", funct)
	}
}

func disassembleI(op, inst, pc uint32) string {
	rs, rt := (inst>>21)&0x1F, (inst>>16)&0x1F
	imm := inst & 0xFFFF
	simm := int16(imm)

	branchTarget := func() uint32 {
		return pc + 4 + uint32(int32(simm)<<2)
	}

	switch op {
	case 0x04:
		return fmt.Sprintf("beq $%d, $%d, 0x%08X", rs, rt, branchTarget())
	case 0x05:
		return fmt.Sprintf("bne $%d, $%d, 0x%08X", rs, rt, branchTarget())
	case 0x06:
		return fmt.Sprintf("blez $%d, 0x%08X", rs, branchTarget())
	case 0x07:
		return fmt.Sprintf("bgtz $%d, 0x%08X", rs, branchTarget())
	case 0x08:
		return fmt.Sprintf("addi $%d, $%d, %d", rt, rs, simm)
	case 0x09:
		return fmt.Sprintf("addiu $%d, $%d, %d", rt, rs, simm)
	case 0x0A:
		return fmt.Sprintf("slti $%d, $%d, %d", rt, rs, simm)
	case 0x0B:
		return fmt.Sprintf("sltiu $%d, $%d, %d", rt, rs, simm)
	case 0x0C:
		return fmt.Sprintf("andi $%d, $%d, 0x%04X", rt, rs, imm)
	case 0x0D:
		return fmt.Sprintf("ori $%d, $%d, 0x%04X", rt, rs, imm)
	case 0x0E:
		return fmt.Sprintf("xori $%d, $%d, 0x%04X", rt, rs, imm)
	case 0x0F:
		return fmt.Sprintf("lui $%d, 0x%04X", rt, imm)
	case 0x20:
		return fmt.Sprintf("lb $%d, %d($%d)", rt, simm, rs)
	case 0x21:
		return fmt.Sprintf("lh $%d, %d($%d)", rt, simm, rs)
	case 0x23:
		return fmt.Sprintf("lw $%d, %d($%d)", rt, simm, rs)
	case 0x24:
		return fmt.Sprintf("lbu $%d, %d($%d)", rt, simm, rs)
	case 0x25:
		return fmt.Sprintf("lhu $%d, %d($%d)", rt, simm, rs)
	case 0x28:
		return fmt.Sprintf("sb $%d, %d($%d)", rt, simm, rs)
	case 0x29:
		return fmt.Sprintf("sh $%d, %d($%d)", rt, simm, rs)
	case 0x2B:
		return fmt.Sprintf("sw $%d, %d($%d)", rt, simm, rs)
	default:
		return fmt.Sprintf("unknown I-op 0x%02X", op)
	}
}

func disassembleRegimm(inst, pc uint32) string {
	rs, rt := (inst>>21)&0x1F, (inst>>16)&0x1F
	simm := int16(inst & 0xFFFF)
	target := pc + 4 + uint32(int32(simm)<<2)

	switch rt {
	case 0x00:
		return fmt.Sprintf("bltz $%d, 0x%08X", rs, target)
	case 0x01:
		return fmt.Sprintf("bgez $%d, 0x%08X", rs, target)
	case 0x10:
		return fmt.Sprintf("bltzal $%d, 0x%08X", rs, target)
	case 0x11:
		return fmt.Sprintf("bgezal $%d, 0x%08X", rs, target)
	default:
		return fmt.Sprintf("unknown regimm rt=0x%02X", rt)
	}
}

func disassembleCop0(inst uint32) string {
	rs, rt, rd := (inst>>21)&0x1F, (inst>>16)&0x1F, (inst>>11)&0x1F

	switch rs {
	case 0x00:
		return fmt.Sprintf("mfc0 $%d, $%d", rt, rd)
	case 0x04:
		return fmt.Sprintf("mtc0 $%d, $%d", rt, rd)
	case 0x10:
		if inst&0x3F == 0x10 {
			return "rfe"
		}
		return fmt.Sprintf("cop0-co funct=0x%02X", inst&0x3F)
	default:
		return fmt.Sprintf("unknown cop0 rs=0x%02X", rs)
	}
}
