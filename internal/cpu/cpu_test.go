package cpu

import (
	"testing"

	"psxcore/internal/bus"
	"psxcore/internal/cop0"
)

// newTestCPU builds a CPU over a fresh bus and repositions it to run
// out of RAM (KSEG0) at startAddr instead of the BIOS reset vector, so
// tests can write their own instruction streams.
func newTestCPU(t *testing.T, startAddr uint32) *CPU {
	t.Helper()
	b, err := bus.New(nil, false)
	if err != nil {
		t.Fatalf("bus.New: %v", err)
	}
	c := New(b, false)
	c.pc = startAddr
	c.nextPC = startAddr + 4
	return c
}

func rType(funct, rs, rt, rd, shamt uint8) uint32 {
	return uint32(rs&0x1F)<<21 | uint32(rt&0x1F)<<16 | uint32(rd&0x1F)<<11 | uint32(shamt&0x1F)<<6 | uint32(funct&0x3F)
}

func iType(op, rs, rt uint8, imm uint16) uint32 {
	return uint32(op&0x3F)<<26 | uint32(rs&0x1F)<<21 | uint32(rt&0x1F)<<16 | uint32(imm)
}

func jType(op uint8, target uint32) uint32 {
	return uint32(op&0x3F)<<26 | (target & 0x3FFFFFF)
}

func writeProgram(t *testing.T, c *CPU, addr uint32, words []uint32) {
	t.Helper()
	for i, w := range words {
		if !c.bus.Write32(addr+uint32(i*4), w) {
			t.Fatalf("failed to write instruction %d at 0x%08X", i, addr+uint32(i*4))
		}
	}
}

func TestRegisterZeroAlwaysReadsZero(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	writeProgram(t, c, 0x80001000, []uint32{
		iType(0x0D, 0, 0, 0xFFFF), // ori r0, r0, 0xFFFF
	})
	c.Step()
	if c.GetReg(0) != 0 {
		t.Errorf("r0 = 0x%08X, want 0", c.GetReg(0))
	}
}

func TestLoadDelaySlot(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	c.SetReg(2, 0x11111111)
	c.bus.Write32(0x80002000, 0xCAFEBABE)

	writeProgram(t, c, 0x80001000, []uint32{
		iType(0x23, 0, 2, 0x2000), // lw r2, 0x2000(r0)
		rType(0x21, 2, 0, 3, 0),   // addu r3, r2, r0
		rType(0x21, 2, 0, 4, 0),   // addu r4, r2, r0
	})

	c.Step() // lw: schedules the load, r2 still 0x11111111 this step
	c.Step() // addu r3, r2(old), r0 -- load becomes visible here, r3 uses stale r2
	c.Step() // addu r4, r2(new), r0 -- now r2 is the loaded value

	if c.GetReg(3) != 0x11111111 {
		t.Errorf("r3 = 0x%08X, want 0x11111111 (pre-load value)", c.GetReg(3))
	}
	if c.GetReg(4) != 0xCAFEBABE {
		t.Errorf("r4 = 0x%08X, want 0xCAFEBABE (loaded value)", c.GetReg(4))
	}
}

func TestBranchDelaySlot(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	c.SetReg(1, 1)
	c.regs.Commit() // make the setup value visible to the first Step

	writeProgram(t, c, 0x80001000, []uint32{
		iType(0x05, 1, 0, 2), // bne r1, r0, +2 (word offset) -> target = pc+4+8 = +12
		iType(0x0D, 0, 2, 0xAA), // ori r2, r0, 0xAA  (delay slot)
		iType(0x0D, 0, 3, 0xBB), // ori r3, r0, 0xBB  (fallthrough, skipped when taken)
	})

	c.Step() // bne
	c.Step() // delay slot: ori r2, r0, 0xAA

	if c.GetReg(2) != 0xAA {
		t.Errorf("r2 = 0x%X, want 0xAA (delay slot must execute)", c.GetReg(2))
	}
	wantTarget := uint32(0x80001000 + 4 + (2 << 2))
	if c.PC() != wantTarget {
		t.Errorf("pc = 0x%08X, want 0x%08X (branch target, not fallthrough)", c.PC(), wantTarget)
	}
}

func TestJumpTargetComposition(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	writeProgram(t, c, 0x80001000, []uint32{
		jType(0x02, 0x012345), // j 0x012345
		rType(0x25, 0, 0, 0, 0), // delay slot: or r0, r0, r0
	})

	c.Step() // j: retargets next_pc, delay slot address becomes pc
	c.Step() // delay slot executes; pc now takes the composed target

	const want = 0x80048D14
	if c.PC() != want {
		t.Errorf("pc = 0x%08X, want 0x%08X", c.PC(), uint32(want))
	}
}

func TestADDITrapsOnOverflow(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	c.SetReg(1, 0x7FFFFFFF)
	c.regs.Commit() // make the setup value visible to the first Step
	writeProgram(t, c, 0x80001000, []uint32{
		iType(0x08, 1, 2, 1), // addi r2, r1, 1
	})

	c.Step()

	if c.GetReg(2) != 0 {
		t.Errorf("r2 = 0x%08X, want 0 (destination untouched on trap)", c.GetReg(2))
	}
	wantCode := uint32(cop0.Overflow) << 2
	if c.cop0.Cause()&(0x1F<<2) != wantCode {
		t.Error("CAUSE.ExcCode should report Overflow")
	}
}

func TestADDIUWrapsWithoutTrap(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	c.SetReg(1, 0x7FFFFFFF)
	c.regs.Commit() // make the setup value visible to the first Step
	writeProgram(t, c, 0x80001000, []uint32{
		iType(0x09, 1, 2, 1), // addiu r2, r1, 1
	})

	c.Step()

	if c.GetReg(2) != 0x80000000 {
		t.Errorf("r2 = 0x%08X, want 0x80000000", c.GetReg(2))
	}
}

func TestShiftRightArithmeticVsLogical(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	c.SetReg(1, 0x80000000)
	c.regs.Commit() // make the setup value visible to the first Step
	writeProgram(t, c, 0x80001000, []uint32{
		rType(0x03, 0, 1, 2, 1), // sra r2, r1, 1
		rType(0x02, 0, 1, 3, 1), // srl r3, r1, 1
	})

	c.Step()
	c.Step()

	if c.GetReg(2) != 0xC0000000 {
		t.Errorf("sra result = 0x%08X, want 0xC0000000", c.GetReg(2))
	}
	if c.GetReg(3) != 0x40000000 {
		t.Errorf("srl result = 0x%08X, want 0x40000000", c.GetReg(3))
	}
}

func TestDivOverflowCase(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	c.SetReg(1, 0x80000000)
	c.SetReg(2, 0xFFFFFFFF) // -1
	c.regs.Commit()         // make the setup values visible to the first Step
	writeProgram(t, c, 0x80001000, []uint32{
		rType(0x1A, 1, 2, 0, 0), // div r1, r2
	})

	c.Step()

	if c.hi != 0 || c.lo != 0x80000000 {
		t.Errorf("hi/lo = 0x%08X/0x%08X, want 0/0x80000000", c.hi, c.lo)
	}
}

func TestDivuByZero(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	c.SetReg(1, 0x12345678)
	c.SetReg(2, 0)
	c.regs.Commit() // make the setup values visible to the first Step
	writeProgram(t, c, 0x80001000, []uint32{
		rType(0x1B, 1, 2, 0, 0), // divu r1, r2
	})

	c.Step()

	if c.hi != 0x12345678 || c.lo != 0xFFFFFFFF {
		t.Errorf("hi/lo = 0x%08X/0x%08X, want 0x12345678/0xFFFFFFFF", c.hi, c.lo)
	}
}

func TestLBSignExtends(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	c.bus.Write8(0x80002000, 0xFF)
	writeProgram(t, c, 0x80001000, []uint32{
		iType(0x20, 0, 2, 0x2000), // lb r2, 0x2000(r0)
		rType(0x25, 0, 0, 0, 0),   // nop-ish (or r0,r0,r0), advances past load delay
	})

	c.Step()
	c.Step()

	if c.GetReg(2) != 0xFFFFFFFF {
		t.Errorf("r2 = 0x%08X, want 0xFFFFFFFF", c.GetReg(2))
	}
}

func TestCacheIsolationSuppressesBusTraffic(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	c.cop0.Write(cop0.RegSR, 1<<16, nil) // SR.IsolateCache
	c.SetReg(1, 0x42424242)
	c.regs.Commit() // make the setup value visible to the first Step

	before, _ := c.bus.Read32(0x80003000)

	writeProgram(t, c, 0x80001000, []uint32{
		iType(0x2B, 0, 1, 0x3000), // sw r1, 0x3000(r0)
	})
	c.Step()

	after, _ := c.bus.Read32(0x80003000)
	if before != after {
		t.Errorf("RAM changed under cache isolation: 0x%08X -> 0x%08X", before, after)
	}
}

func TestSyscallExceptionEntryAndRFE(t *testing.T) {
	c := newTestCPU(t, 0x80001000)
	c.cop0.Write(cop0.RegSR, c.cop0.SR()|0x3F, nil) // distinct mode bits to verify RFE restore; BEV kept set
	writeProgram(t, c, 0x80001000, []uint32{
		rType(0x0C, 0, 0, 0, 0),  // syscall
		iType(0x0D, 0, 2, 0xBB),  // would-be delay slot: ori r2, r0, 0xBB
	})

	c.Step()

	if c.PC() != 0xBFC00180 {
		t.Errorf("pc = 0x%08X, want 0xBFC00180", c.PC())
	}
	if c.cop0.EPC() != 0x80001000 {
		t.Errorf("EPC = 0x%08X, want 0x80001000", c.cop0.EPC())
	}
	if c.GetReg(2) != 0 {
		t.Error("the delay-slot instruction after SYSCALL must not execute")
	}

	savedMode := c.cop0.SR() & 0x3F
	c.cop0.RFE()
	if c.cop0.SR()&0x3F == savedMode {
		t.Error("RFE should restore the previous mode pair, not leave it unchanged")
	}
}
