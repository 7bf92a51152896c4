// Package cpu implements a cycle-exact 6502 instruction engine: official
// and documented-unofficial opcodes, addressing-mode dummy reads, and
// BRK/NMI/IRQ/RTI interrupt sequencing (§4.3).
package cpu

import "fmt"

// Status flag bits.
const (
	FlagC uint8 = 1 << 0
	FlagZ uint8 = 1 << 1
	FlagI uint8 = 1 << 2
	FlagD uint8 = 1 << 3
	FlagB uint8 = 1 << 4
	Flag5 uint8 = 1 << 5 // unused, always set on the stack/status byte
	FlagV uint8 = 1 << 6
	FlagN uint8 = 1 << 7
)

const (
	stackBase   = 0x0100
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Memory is the bus contract the CPU drives one cycle at a time: every
// Read/Write the engine issues is immediately followed by a call to
// OnCPUCycle, so the scheduler can advance the PPU/APU in lockstep (§5).
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	OnCPUCycle()
}

// UnknownInstructionError reports a decoded opcode with no implementation.
type UnknownInstructionError struct {
	Opcode uint8
	PC     uint16
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("unknown instruction 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// CPU holds 6502 register state and drives instruction execution against a
// Memory bus. PC is exported so a host can set the entry point directly
// (§6 "set_pc").
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	Status  uint8

	mem Memory

	nmiPending  bool
	irqLine     bool
	haltPending bool
}

// New constructs a CPU wired to mem, with the power-on register state
// (§3): SP=0xFD, status=0x34 (I set). PC is left zero; the caller (the bus,
// via the reset vector, or a test via SetPC) sets it.
func New(mem Memory) *CPU {
	return &CPU{
		mem:    mem,
		SP:     0xFD,
		Status: 0x34,
	}
}

func (c *CPU) getFlag(mask uint8) bool { return c.Status&mask != 0 }

func (c *CPU) setFlag(mask uint8, set bool) {
	if set {
		c.Status |= mask
	} else {
		c.Status &^= mask
	}
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, v&0x80 != 0)
}

// read performs one CPU bus read cycle.
func (c *CPU) read(addr uint16) uint8 {
	v := c.mem.Read(addr)
	c.mem.OnCPUCycle()
	return v
}

// write performs one CPU bus write cycle.
func (c *CPU) write(addr uint16, val uint8) {
	c.mem.Write(addr, val)
	c.mem.OnCPUCycle()
}

func (c *CPU) fetch() uint8 {
	v := c.read(c.PC)
	c.PC++
	return v
}

func (c *CPU) push(v uint8) {
	c.write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(stackBase + uint16(c.SP))
}

// TriggerNMI latches a pending non-maskable interrupt, serviced before the
// next instruction fetch.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// SetIRQLine sets the level-triggered IRQ line state, as driven by the APU
// frame-IRQ signal.
func (c *CPU) SetIRQLine(asserted bool) {
	c.irqLine = asserted
}

// StepInstruction executes exactly one instruction (or one interrupt
// sequence), returning halted=true if it was a JMP-to-self or a taken
// branch-to-self sentinel. It returns an error if the decoded opcode has no
// implementation.
func (c *CPU) StepInstruction() (halted bool, err error) {
	if c.nmiPending {
		c.nmiPending = false
		c.serviceInterrupt(nmiVector, false)
		return false, nil
	}
	if c.irqLine && !c.getFlag(FlagI) {
		c.serviceInterrupt(irqVector, false)
		return false, nil
	}

	opcodePC := c.PC
	opcode := c.fetch()

	if isJumpToSelf(c.mem, opcodePC, opcode) {
		return true, nil
	}

	inst, ok := opcodeTable[opcode]
	if !ok {
		return false, &UnknownInstructionError{Opcode: opcode, PC: opcodePC}
	}
	inst.exec(c, inst)
	if c.haltPending {
		c.haltPending = false
		return true, nil
	}
	return false, nil
}

// isJumpToSelf detects "JMP $addr" where addr equals the instruction's own
// address: the documented halt sentinel (§4.3). It peeks without
// consuming cycles, since the opcode byte has already been fetched.
func isJumpToSelf(mem Memory, pc uint16, opcode uint8) bool {
	if opcode != 0x4C { // JMP absolute
		return false
	}
	low := mem.Read(pc + 1)
	high := mem.Read(pc + 2)
	target := uint16(high)<<8 | uint16(low)
	return target == pc
}

// serviceInterrupt runs the shared 7-cycle BRK/NMI/IRQ push-and-vector
// sequence (§4.3). brk marks whether this is software BRK (sets the B
// flag on the pushed status byte and advances PC past the signature byte).
func (c *CPU) serviceInterrupt(vector uint16, brk bool) {
	if brk {
		c.read(c.PC) // BRK's signature byte
		c.PC++
	} else {
		c.read(c.PC)
		c.read(c.PC)
	}
	c.push(uint8(c.PC >> 8))
	c.push(uint8(c.PC))

	status := c.Status | Flag5
	if brk {
		status |= FlagB
	} else {
		status &^= FlagB
	}
	c.push(status)

	c.setFlag(FlagI, true)
	low := c.read(vector)
	high := c.read(vector + 1)
	c.PC = uint16(high)<<8 | uint16(low)
}
