package cpu

import (
	"psxcore/internal/cop0"
	"psxcore/internal/utils"
)

// Loads write into the load-delay slot rather than the register file
// directly (spec.md §4.2/§8): the value becomes visible to GetReg only
// after the *following* Step call applies the pending load. While
// SR.IsolateCache is set, the bus is never touched and no load is
// scheduled -- the instruction completes as a no-op, matching how the
// BIOS's cache-init routine runs loads/stores against nothing while
// priming the I-cache.

// LB rt,imm(rs) -- sign-extended byte load.
func opLB(c *CPU, instr uint32) {
	addr := c.GetReg(rsField(instr)) + signExtImm16(instr)
	if c.cacheIsolated() {
		return
	}
	v, ok := c.bus.Read8(addr)
	if !ok {
		c.raiseException(cop0.LoadAddressError)
		return
	}
	c.scheduleLoad(rtField(instr), utils.SignExtend[uint32](uint32(v), 8))
}

// LBU rt,imm(rs) -- zero-extended byte load.
func opLBU(c *CPU, instr uint32) {
	addr := c.GetReg(rsField(instr)) + signExtImm16(instr)
	if c.cacheIsolated() {
		return
	}
	v, ok := c.bus.Read8(addr)
	if !ok {
		c.raiseException(cop0.LoadAddressError)
		return
	}
	c.scheduleLoad(rtField(instr), uint32(v))
}

// LH rt,imm(rs) -- sign-extended halfword load; misaligned addr faults.
func opLH(c *CPU, instr uint32) {
	addr := c.GetReg(rsField(instr)) + signExtImm16(instr)
	if c.cacheIsolated() {
		return
	}
	v, ok := c.bus.Read16(addr)
	if !ok {
		c.raiseException(cop0.LoadAddressError)
		return
	}
	c.scheduleLoad(rtField(instr), utils.SignExtend16(v))
}

// LHU rt,imm(rs) -- zero-extended halfword load.
func opLHU(c *CPU, instr uint32) {
	addr := c.GetReg(rsField(instr)) + signExtImm16(instr)
	if c.cacheIsolated() {
		return
	}
	v, ok := c.bus.Read16(addr)
	if !ok {
		c.raiseException(cop0.LoadAddressError)
		return
	}
	c.scheduleLoad(rtField(instr), uint32(v))
}

// LW rt,imm(rs) -- word load; misaligned addr faults.
func opLW(c *CPU, instr uint32) {
	addr := c.GetReg(rsField(instr)) + signExtImm16(instr)
	if c.cacheIsolated() {
		return
	}
	v, ok := c.bus.Read32(addr)
	if !ok {
		c.raiseException(cop0.LoadAddressError)
		return
	}
	c.scheduleLoad(rtField(instr), v)
}

// SB rt,imm(rs) -- byte store.
func opSB(c *CPU, instr uint32) {
	addr := c.GetReg(rsField(instr)) + signExtImm16(instr)
	if c.cacheIsolated() {
		return
	}
	if ok := c.bus.Write8(addr, byte(c.GetReg(rtField(instr)))); !ok {
		c.raiseException(cop0.StoreAddressError)
	}
}

// SH rt,imm(rs) -- halfword store; misaligned addr faults.
func opSH(c *CPU, instr uint32) {
	addr := c.GetReg(rsField(instr)) + signExtImm16(instr)
	if c.cacheIsolated() {
		return
	}
	if ok := c.bus.Write16(addr, uint16(c.GetReg(rtField(instr)))); !ok {
		c.raiseException(cop0.StoreAddressError)
	}
}

// SW rt,imm(rs) -- word store; misaligned addr faults.
func opSW(c *CPU, instr uint32) {
	addr := c.GetReg(rsField(instr)) + signExtImm16(instr)
	if c.cacheIsolated() {
		return
	}
	if ok := c.bus.Write32(addr, c.GetReg(rtField(instr))); !ok {
		c.raiseException(cop0.StoreAddressError)
	}
}
