// Package cpu implements the fetch/decode/execute interpreter for the
// PSX's MIPS R3000A-compatible CPU: the register file, HI/LO latches,
// the opcode tables, and the branch/load delay slot pipeline. It is
// grounded on internal/mips32/instructions.go's Instruction/OpCode
// shape and internal/mips/cpu.go's Run loop, generalized from the
// teacher's partial MIPS core to the PSX's full required instruction
// set and COP0 coupling.
package cpu

import (
	"log"

	"psxcore/internal/bus"
	"psxcore/internal/cop0"
)

// Reset vector per spec.md §3 and §6.
const (
	resetPC     = 0xBFC00000
	resetNextPC = 0xBFC00004
)

// CPU is the interpreter's state. It borrows the bus; it owns no
// pointer back to any parent (spec.md §9's "owning pointer graph"
// design note) -- construct the bus first, then the CPU, then run the
// CPU in a loop that holds the bus by reference.
type CPU struct {
	bus  *bus.Bus
	cop0 *cop0.COP0

	regs RegisterFile
	load loadSlot

	pc     uint32
	nextPC uint32

	hi uint32
	lo uint32

	// currentInstrPC/currentInstrInDelay describe the instruction being
	// executed this Step call -- captured before pc is advanced, so
	// exception handlers can report the correct faulting address.
	currentInstrPC     uint32
	currentInstrInDelay bool

	// controlTransfer is set by any branch/jump handler (taken or not)
	// to mark that the instruction about to be fetched next step sits
	// in this step's branch delay slot.
	controlTransfer bool

	verbose bool
}

// New constructs a CPU at the reset vector with SR/CAUSE initialized
// per spec.md §6. The bus is borrowed for the CPU's lifetime.
func New(b *bus.Bus, verbose bool) *CPU {
	return &CPU{
		bus:     b,
		cop0:    cop0.New(),
		pc:      resetPC,
		nextPC:  resetNextPC,
		verbose: verbose,
	}
}

// PC returns the address of the instruction about to be fetched.
func (c *CPU) PC() uint32 { return c.pc }

// GetReg reads general-purpose register i (R0 reads as zero).
func (c *CPU) GetReg(i uint8) uint32 { return c.regs.Read(i) }

// SetReg writes general-purpose register i; visible starting next step.
func (c *CPU) SetReg(i uint8, v uint32) { c.regs.Write(i, v) }

// Step executes exactly one MIPS instruction, per spec.md §4.2:
// fetch, advance PC, apply the pending load, decode and execute,
// commit the register file.
func (c *CPU) Step() {
	instrPC := c.pc
	inDelay := c.controlTransfer

	word, ok := c.bus.Read32(c.pc)
	if !ok {
		c.enterException(cop0.LoadAddressError, instrPC, inDelay)
		c.regs.Commit()
		return
	}

	c.pc = c.nextPC
	c.nextPC += 4

	c.regs.Write(c.load.reg, c.load.value)
	c.load.clear()

	c.currentInstrPC = instrPC
	c.currentInstrInDelay = inDelay
	c.controlTransfer = false

	c.execute(word)

	c.regs.Commit()
}

// execute decodes and dispatches one instruction word.
func (c *CPU) execute(word uint32) {
	op := primaryOp(word)

	switch op {
	case 0x00:
		h := secondaryTable[functField(word)]
		if h == nil {
			c.raiseReserved(word)
			return
		}
		h(c, word)

	case 0x01:
		h := regimmTable[rtField(word)]
		if h == nil {
			c.raiseReserved(word)
			return
		}
		h(c, word)

	case 0x10:
		c.execCOP0(word)

	default:
		h := primaryTable[op]
		if h == nil {
			c.raiseReserved(word)
			return
		}
		h(c, word)
	}
}

func (c *CPU) raiseReserved(word uint32) {
	if c.verbose {
		log.Printf("cpu: reserved instruction 0x%08X at pc=0x%08X", word, c.currentInstrPC)
	}
	c.enterException(cop0.ReservedInstruction, c.currentInstrPC, c.currentInstrInDelay)
}

// enterException performs exception entry (spec.md §4.4) and
// overrides pc/nextPC directly; exception entry is never itself a
// control transfer for delay-slot purposes, so it leaves
// controlTransfer false.
func (c *CPU) enterException(code cop0.ExceptionCode, faultPC uint32, inDelaySlot bool) {
	vector := c.cop0.RaiseException(code, faultPC, inDelaySlot)
	c.pc = vector
	c.nextPC = vector + 4
	c.controlTransfer = false
}

// raiseException is the form instruction handlers call: it always
// reports the instruction currently executing.
func (c *CPU) raiseException(code cop0.ExceptionCode) {
	c.enterException(code, c.currentInstrPC, c.currentInstrInDelay)
}

// markControlTransfer flags that the instruction fetched next step is
// in this instruction's branch delay slot.
func (c *CPU) markControlTransfer() {
	c.controlTransfer = true
}

// scheduleLoad deposits a load result into the load-delay slot. A
// second load to the same register within one step overwrites the
// prior slot, losing the earlier result -- MIPS-defined behavior.
func (c *CPU) scheduleLoad(reg uint8, value uint32) {
	c.load = loadSlot{reg: reg, value: value}
}

// cacheIsolated reports whether loads/stores should be silently
// suppressed this step (spec.md §4.3/§4.5).
func (c *CPU) cacheIsolated() bool {
	return c.cop0.IsolateCache()
}
