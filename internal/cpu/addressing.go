package cpu

// mode identifies an addressing mode. Fix policy (Always vs Conditional
// dummy reads) is carried per-instruction, not per-mode, since the same
// AbsoluteX/Y or IndirectIndexed mode behaves differently for loads
// (Conditional) than for stores/RMW (Always) (§4.3).
type mode int

const (
	modeImplicit mode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndexedIndirect
	modeIndirectIndexed
	modeRelative
)

// spareCycle accounts for the second cycle of a 2-cycle implied/accumulator
// instruction: real hardware speculatively reads the next opcode byte and
// discards it.
func (c *CPU) spareCycle() {
	c.read(c.PC)
}

// resolveAddress computes the effective address for mode, issuing exactly
// the bus reads the addressing-mode micro-sequence calls for (§4.3),
// including dummy reads. fixAlways selects the Always fix policy for
// AbsoluteX/Y and IndirectIndexed (stores and read-modify-write); false
// selects Conditional (loads).
func (c *CPU) resolveAddress(m mode, fixAlways bool) uint16 {
	switch m {
	case modeZeroPage:
		return uint16(c.fetch())
	case modeZeroPageX:
		zp := c.fetch()
		c.read(uint16(zp))
		return uint16(zp + c.X)
	case modeZeroPageY:
		zp := c.fetch()
		c.read(uint16(zp))
		return uint16(zp + c.Y)
	case modeAbsolute:
		lo := c.fetch()
		hi := c.fetch()
		return uint16(hi)<<8 | uint16(lo)
	case modeAbsoluteX:
		return c.resolveAbsoluteIndexed(c.X, fixAlways)
	case modeAbsoluteY:
		return c.resolveAbsoluteIndexed(c.Y, fixAlways)
	case modeIndirect:
		lo := c.fetch()
		hi := c.fetch()
		ptr := uint16(hi)<<8 | uint16(lo)
		low := c.read(ptr)
		// Classic JMP indirect page-wrap bug: the high byte is read from
		// the same page, not the next one.
		high := c.read((ptr & 0xFF00) | uint16(uint8(ptr)+1))
		return uint16(high)<<8 | uint16(low)
	case modeIndexedIndirect:
		zp := c.fetch()
		c.read(uint16(zp))
		ptr := zp + c.X
		lo := c.read(uint16(ptr))
		hi := c.read(uint16(ptr + 1))
		return uint16(hi)<<8 | uint16(lo)
	case modeIndirectIndexed:
		zp := c.fetch()
		lo := c.read(uint16(zp))
		hi := c.read(uint16(zp + 1))
		base := uint16(hi)<<8 | uint16(lo)
		addr := base + uint16(c.Y)
		crossed := base&0xFF00 != addr&0xFF00
		unfixed := uint16(hi)<<8 | uint16(lo+c.Y)
		if fixAlways || crossed {
			c.read(unfixed)
		}
		return addr
	default:
		return 0
	}
}

func (c *CPU) resolveAbsoluteIndexed(reg uint8, fixAlways bool) uint16 {
	lo := c.fetch()
	hi := c.fetch()
	base := uint16(hi)<<8 | uint16(lo)
	addr := base + uint16(reg)
	crossed := base&0xFF00 != addr&0xFF00
	unfixed := uint16(hi)<<8 | uint16(lo+reg)
	if fixAlways || crossed {
		c.read(unfixed)
	}
	return addr
}

// readOperand resolves mode and returns the operand byte, for instructions
// that only read a value (loads, arithmetic, logical, compare, bit test).
func (c *CPU) readOperand(m mode, fixAlways bool) uint8 {
	if m == modeImmediate {
		return c.fetch()
	}
	addr := c.resolveAddress(m, fixAlways)
	return c.read(addr)
}

// rmwLoad resolves mode, performs the read-modify-write three-cycle
// pattern's initial read, and returns both the address and the value for
// the caller to transform and write back via rmwStore (§4.3).
func (c *CPU) rmwLoad(m mode, fixAlways bool) (uint16, uint8) {
	addr := c.resolveAddress(m, fixAlways)
	val := c.read(addr)
	return addr, val
}

// rmwStore performs the dummy write of the original value followed by the
// real write of the transformed value, completing the RMW three-cycle
// pattern at addr.
func (c *CPU) rmwStore(addr uint16, original, result uint8) {
	c.write(addr, original)
	c.write(addr, result)
}
