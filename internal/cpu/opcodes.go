package cpu

// instruction is one decoded opcode: its addressing mode, fix policy
// (Always forces the dummy read/extra cycle unconditionally; Conditional
// only on page cross — §4.3), and the execution function.
type instruction struct {
	mode      mode
	fixAlways bool
	exec      func(c *CPU, in instruction)
}

var opcodeTable = map[uint8]instruction{}

func register(opcode uint8, in instruction) {
	opcodeTable[opcode] = in
}

func init() {
	registerOfficial()
	registerUnofficial()
}

func registerOfficial() {
	// Loads
	for op, m := range map[uint8]mode{
		0xA9: modeImmediate, 0xA5: modeZeroPage, 0xB5: modeZeroPageX,
		0xAD: modeAbsolute, 0xBD: modeAbsoluteX, 0xB9: modeAbsoluteY,
		0xA1: modeIndexedIndirect, 0xB1: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, exec: execLDA})
	}
	for op, m := range map[uint8]mode{
		0xA2: modeImmediate, 0xA6: modeZeroPage, 0xB6: modeZeroPageY,
		0xAE: modeAbsolute, 0xBE: modeAbsoluteY,
	} {
		register(op, instruction{mode: m, exec: execLDX})
	}
	for op, m := range map[uint8]mode{
		0xA0: modeImmediate, 0xA4: modeZeroPage, 0xB4: modeZeroPageX,
		0xAC: modeAbsolute, 0xBC: modeAbsoluteX,
	} {
		register(op, instruction{mode: m, exec: execLDY})
	}

	// Stores (Always fix policy)
	for op, m := range map[uint8]mode{
		0x85: modeZeroPage, 0x95: modeZeroPageX, 0x8D: modeAbsolute,
		0x9D: modeAbsoluteX, 0x99: modeAbsoluteY,
		0x81: modeIndexedIndirect, 0x91: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, fixAlways: true, exec: execSTA})
	}
	for op, m := range map[uint8]mode{0x86: modeZeroPage, 0x96: modeZeroPageY, 0x8E: modeAbsolute} {
		register(op, instruction{mode: m, fixAlways: true, exec: execSTX})
	}
	for op, m := range map[uint8]mode{0x84: modeZeroPage, 0x94: modeZeroPageX, 0x8C: modeAbsolute} {
		register(op, instruction{mode: m, fixAlways: true, exec: execSTY})
	}

	// Arithmetic
	for op, m := range map[uint8]mode{
		0x69: modeImmediate, 0x65: modeZeroPage, 0x75: modeZeroPageX,
		0x6D: modeAbsolute, 0x7D: modeAbsoluteX, 0x79: modeAbsoluteY,
		0x61: modeIndexedIndirect, 0x71: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, exec: execADC})
	}
	for op, m := range map[uint8]mode{
		0xE9: modeImmediate, 0xE5: modeZeroPage, 0xF5: modeZeroPageX,
		0xED: modeAbsolute, 0xFD: modeAbsoluteX, 0xF9: modeAbsoluteY,
		0xE1: modeIndexedIndirect, 0xF1: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, exec: execSBC})
	}

	// Logical
	for op, m := range map[uint8]mode{
		0x29: modeImmediate, 0x25: modeZeroPage, 0x35: modeZeroPageX,
		0x2D: modeAbsolute, 0x3D: modeAbsoluteX, 0x39: modeAbsoluteY,
		0x21: modeIndexedIndirect, 0x31: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, exec: execAND})
	}
	for op, m := range map[uint8]mode{
		0x09: modeImmediate, 0x05: modeZeroPage, 0x15: modeZeroPageX,
		0x0D: modeAbsolute, 0x1D: modeAbsoluteX, 0x19: modeAbsoluteY,
		0x01: modeIndexedIndirect, 0x11: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, exec: execORA})
	}
	for op, m := range map[uint8]mode{
		0x49: modeImmediate, 0x45: modeZeroPage, 0x55: modeZeroPageX,
		0x4D: modeAbsolute, 0x5D: modeAbsoluteX, 0x59: modeAbsoluteY,
		0x41: modeIndexedIndirect, 0x51: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, exec: execEOR})
	}

	// Shifts (accumulator and memory)
	register(0x0A, instruction{mode: modeAccumulator, exec: execASL})
	for op, m := range map[uint8]mode{0x06: modeZeroPage, 0x16: modeZeroPageX, 0x0E: modeAbsolute, 0x1E: modeAbsoluteX} {
		register(op, instruction{mode: m, fixAlways: true, exec: execASL})
	}
	register(0x4A, instruction{mode: modeAccumulator, exec: execLSR})
	for op, m := range map[uint8]mode{0x46: modeZeroPage, 0x56: modeZeroPageX, 0x4E: modeAbsolute, 0x5E: modeAbsoluteX} {
		register(op, instruction{mode: m, fixAlways: true, exec: execLSR})
	}
	register(0x2A, instruction{mode: modeAccumulator, exec: execROL})
	for op, m := range map[uint8]mode{0x26: modeZeroPage, 0x36: modeZeroPageX, 0x2E: modeAbsolute, 0x3E: modeAbsoluteX} {
		register(op, instruction{mode: m, fixAlways: true, exec: execROL})
	}
	register(0x6A, instruction{mode: modeAccumulator, exec: execROR})
	for op, m := range map[uint8]mode{0x66: modeZeroPage, 0x76: modeZeroPageX, 0x6E: modeAbsolute, 0x7E: modeAbsoluteX} {
		register(op, instruction{mode: m, fixAlways: true, exec: execROR})
	}

	// Inc/Dec memory
	for op, m := range map[uint8]mode{0xE6: modeZeroPage, 0xF6: modeZeroPageX, 0xEE: modeAbsolute, 0xFE: modeAbsoluteX} {
		register(op, instruction{mode: m, fixAlways: true, exec: execINC})
	}
	for op, m := range map[uint8]mode{0xC6: modeZeroPage, 0xD6: modeZeroPageX, 0xCE: modeAbsolute, 0xDE: modeAbsoluteX} {
		register(op, instruction{mode: m, fixAlways: true, exec: execDEC})
	}
	register(0xE8, instruction{mode: modeImplicit, exec: execINX})
	register(0xC8, instruction{mode: modeImplicit, exec: execINY})
	register(0xCA, instruction{mode: modeImplicit, exec: execDEX})
	register(0x88, instruction{mode: modeImplicit, exec: execDEY})

	// Compare
	for op, m := range map[uint8]mode{
		0xC9: modeImmediate, 0xC5: modeZeroPage, 0xD5: modeZeroPageX,
		0xCD: modeAbsolute, 0xDD: modeAbsoluteX, 0xD9: modeAbsoluteY,
		0xC1: modeIndexedIndirect, 0xD1: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, exec: execCMP})
	}
	for op, m := range map[uint8]mode{0xE0: modeImmediate, 0xE4: modeZeroPage, 0xEC: modeAbsolute} {
		register(op, instruction{mode: m, exec: execCPX})
	}
	for op, m := range map[uint8]mode{0xC0: modeImmediate, 0xC4: modeZeroPage, 0xCC: modeAbsolute} {
		register(op, instruction{mode: m, exec: execCPY})
	}

	// Bit test
	for op, m := range map[uint8]mode{0x24: modeZeroPage, 0x2C: modeAbsolute} {
		register(op, instruction{mode: m, exec: execBIT})
	}

	// Branches
	register(0x90, instruction{mode: modeRelative, exec: branchIf(FlagC, false)})
	register(0xB0, instruction{mode: modeRelative, exec: branchIf(FlagC, true)})
	register(0xF0, instruction{mode: modeRelative, exec: branchIf(FlagZ, true)})
	register(0xD0, instruction{mode: modeRelative, exec: branchIf(FlagZ, false)})
	register(0x30, instruction{mode: modeRelative, exec: branchIf(FlagN, true)})
	register(0x10, instruction{mode: modeRelative, exec: branchIf(FlagN, false)})
	register(0x50, instruction{mode: modeRelative, exec: branchIf(FlagV, false)})
	register(0x70, instruction{mode: modeRelative, exec: branchIf(FlagV, true)})

	// Jumps and subroutines
	register(0x4C, instruction{mode: modeAbsolute, exec: execJMP})
	register(0x6C, instruction{mode: modeIndirect, exec: execJMP})
	register(0x20, instruction{mode: modeAbsolute, exec: execJSR})
	register(0x60, instruction{mode: modeImplicit, exec: execRTS})
	register(0x00, instruction{mode: modeImplicit, exec: execBRK})
	register(0x40, instruction{mode: modeImplicit, exec: execRTI})

	// Stack
	register(0x48, instruction{mode: modeImplicit, exec: execPHA})
	register(0x08, instruction{mode: modeImplicit, exec: execPHP})
	register(0x68, instruction{mode: modeImplicit, exec: execPLA})
	register(0x28, instruction{mode: modeImplicit, exec: execPLP})

	// Transfers
	register(0xAA, instruction{mode: modeImplicit, exec: execTAX})
	register(0xA8, instruction{mode: modeImplicit, exec: execTAY})
	register(0x8A, instruction{mode: modeImplicit, exec: execTXA})
	register(0x98, instruction{mode: modeImplicit, exec: execTYA})
	register(0xBA, instruction{mode: modeImplicit, exec: execTSX})
	register(0x9A, instruction{mode: modeImplicit, exec: execTXS})

	// Flags
	register(0x18, instruction{mode: modeImplicit, exec: flagOp(FlagC, false)})
	register(0x38, instruction{mode: modeImplicit, exec: flagOp(FlagC, true)})
	register(0xD8, instruction{mode: modeImplicit, exec: flagOp(FlagD, false)})
	register(0xF8, instruction{mode: modeImplicit, exec: flagOp(FlagD, true)})
	register(0x58, instruction{mode: modeImplicit, exec: flagOp(FlagI, false)})
	register(0x78, instruction{mode: modeImplicit, exec: flagOp(FlagI, true)})
	register(0xB8, instruction{mode: modeImplicit, exec: func(c *CPU, in instruction) {
		c.spareCycle()
		c.setFlag(FlagV, false)
	}})

	// NOP
	register(0xEA, instruction{mode: modeImplicit, exec: func(c *CPU, in instruction) { c.spareCycle() }})
}

func execLDA(c *CPU, in instruction) {
	c.A = c.readOperand(in.mode, in.fixAlways)
	c.setZN(c.A)
}
func execLDX(c *CPU, in instruction) {
	c.X = c.readOperand(in.mode, in.fixAlways)
	c.setZN(c.X)
}
func execLDY(c *CPU, in instruction) {
	c.Y = c.readOperand(in.mode, in.fixAlways)
	c.setZN(c.Y)
}

func execSTA(c *CPU, in instruction) {
	c.write(c.resolveAddress(in.mode, in.fixAlways), c.A)
}
func execSTX(c *CPU, in instruction) {
	c.write(c.resolveAddress(in.mode, in.fixAlways), c.X)
}
func execSTY(c *CPU, in instruction) {
	c.write(c.resolveAddress(in.mode, in.fixAlways), c.Y)
}

// addWithCarry implements ADC's A = A + M + C with full N,Z,C,V updates
// (§8: V = (A^result)&(M^result)&0x80).
func (c *CPU) addWithCarry(m uint8) {
	carry := uint16(0)
	if c.getFlag(FlagC) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(m) + carry
	result := uint8(sum)
	c.setFlag(FlagC, sum > 0xFF)
	c.setFlag(FlagV, (c.A^result)&(m^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func execADC(c *CPU, in instruction) {
	m := c.readOperand(in.mode, in.fixAlways)
	c.addWithCarry(m)
}
func execSBC(c *CPU, in instruction) {
	m := c.readOperand(in.mode, in.fixAlways)
	c.addWithCarry(^m)
}

func execAND(c *CPU, in instruction) {
	c.A &= c.readOperand(in.mode, in.fixAlways)
	c.setZN(c.A)
}
func execORA(c *CPU, in instruction) {
	c.A |= c.readOperand(in.mode, in.fixAlways)
	c.setZN(c.A)
}
func execEOR(c *CPU, in instruction) {
	c.A ^= c.readOperand(in.mode, in.fixAlways)
	c.setZN(c.A)
}

func execASL(c *CPU, in instruction) { rmw(c, in, func(c *CPU, v uint8) uint8 {
	c.setFlag(FlagC, v&0x80 != 0)
	return v << 1
}) }
func execLSR(c *CPU, in instruction) { rmw(c, in, func(c *CPU, v uint8) uint8 {
	c.setFlag(FlagC, v&0x01 != 0)
	return v >> 1
}) }
func execROL(c *CPU, in instruction) { rmw(c, in, func(c *CPU, v uint8) uint8 {
	carryIn := uint8(0)
	if c.getFlag(FlagC) {
		carryIn = 1
	}
	c.setFlag(FlagC, v&0x80 != 0)
	return v<<1 | carryIn
}) }
func execROR(c *CPU, in instruction) { rmw(c, in, func(c *CPU, v uint8) uint8 {
	carryIn := uint8(0)
	if c.getFlag(FlagC) {
		carryIn = 0x80
	}
	c.setFlag(FlagC, v&0x01 != 0)
	return v>>1 | carryIn
}) }
func execINC(c *CPU, in instruction) { rmw(c, in, func(c *CPU, v uint8) uint8 { return v + 1 }) }
func execDEC(c *CPU, in instruction) { rmw(c, in, func(c *CPU, v uint8) uint8 { return v - 1 }) }

// rmw runs the shared read-modify-write three-cycle pattern for both
// accumulator and memory-addressed shift/inc/dec instructions.
func rmw(c *CPU, in instruction, transform func(c *CPU, v uint8) uint8) {
	if in.mode == modeAccumulator {
		c.spareCycle()
		c.A = transform(c, c.A)
		c.setZN(c.A)
		return
	}
	addr, val := c.rmwLoad(in.mode, in.fixAlways)
	result := transform(c, val)
	c.rmwStore(addr, val, result)
	c.setZN(result)
}

func execINX(c *CPU, in instruction) { c.spareCycle(); c.X++; c.setZN(c.X) }
func execINY(c *CPU, in instruction) { c.spareCycle(); c.Y++; c.setZN(c.Y) }
func execDEX(c *CPU, in instruction) { c.spareCycle(); c.X--; c.setZN(c.X) }
func execDEY(c *CPU, in instruction) { c.spareCycle(); c.Y--; c.setZN(c.Y) }

func compare(c *CPU, reg, m uint8) {
	diff := reg - m
	c.setFlag(FlagC, reg >= m)
	c.setFlag(FlagZ, reg == m)
	c.setFlag(FlagN, diff&0x80 != 0)
}

func execCMP(c *CPU, in instruction) { compare(c, c.A, c.readOperand(in.mode, in.fixAlways)) }
func execCPX(c *CPU, in instruction) { compare(c, c.X, c.readOperand(in.mode, in.fixAlways)) }
func execCPY(c *CPU, in instruction) { compare(c, c.Y, c.readOperand(in.mode, in.fixAlways)) }

func execBIT(c *CPU, in instruction) {
	m := c.readOperand(in.mode, in.fixAlways)
	c.setFlag(FlagZ, c.A&m == 0)
	c.setFlag(FlagN, m&0x80 != 0)
	c.setFlag(FlagV, m&0x40 != 0)
}

// branchIf builds a branch executor for flag mask, taken when the flag
// equals wantSet. Relative branch timing: +1 cycle when taken, +1 more
// when the target crosses a page. A taken branch with offset -2 targets its
// own opcode: the other documented halt sentinel alongside JMP-to-self.
func branchIf(flagMask uint8, wantSet bool) func(c *CPU, in instruction) {
	return func(c *CPU, in instruction) {
		offset := int8(c.fetch())
		if c.getFlag(flagMask) != wantSet {
			return
		}
		c.read(c.PC) // taken-branch cycle
		if offset == -2 {
			c.haltPending = true
		}
		target := uint16(int32(c.PC) + int32(offset))
		if target&0xFF00 != c.PC&0xFF00 {
			c.read((c.PC & 0xFF00) | (target & 0x00FF)) // page-cross cycle
		}
		c.PC = target
	}
}

func execJMP(c *CPU, in instruction) {
	c.PC = c.resolveAddress(in.mode, in.fixAlways)
}

func execJSR(c *CPU, in instruction) {
	lo := c.fetch()
	c.read(stackBase + uint16(c.SP)) // internal delay cycle
	hi := c.fetch()
	ret := c.PC - 1
	c.push(uint8(ret >> 8))
	c.push(uint8(ret))
	c.PC = uint16(hi)<<8 | uint16(lo)
}

func execRTS(c *CPU, in instruction) {
	c.spareCycle()
	c.read(stackBase + uint16(c.SP)) // increment-S cycle
	lo := c.pop()
	hi := c.pop()
	c.PC = (uint16(hi)<<8 | uint16(lo)) + 1
	c.read(c.PC - 1) // internal delay cycle reading the popped address before the increment
}

func execBRK(c *CPU, in instruction) {
	c.serviceInterrupt(irqVector, true)
}

func execRTI(c *CPU, in instruction) {
	c.spareCycle()
	c.read(stackBase + uint16(c.SP)) // increment-S cycle
	status := c.pop()
	c.Status = (status &^ FlagB) | Flag5
	lo := c.pop()
	hi := c.pop()
	c.PC = uint16(hi)<<8 | uint16(lo)
}

func execPHA(c *CPU, in instruction) {
	c.spareCycle()
	c.push(c.A)
}
func execPHP(c *CPU, in instruction) {
	c.spareCycle()
	c.push(c.Status | FlagB | Flag5)
}
func execPLA(c *CPU, in instruction) {
	c.spareCycle()
	c.read(stackBase + uint16(c.SP)) // internal delay cycle before the pop
	c.A = c.pop()
	c.setZN(c.A)
}
func execPLP(c *CPU, in instruction) {
	c.spareCycle()
	c.read(stackBase + uint16(c.SP))
	status := c.pop()
	c.Status = (status &^ (FlagB)) | Flag5
}

func execTAX(c *CPU, in instruction) { c.spareCycle(); c.X = c.A; c.setZN(c.X) }
func execTAY(c *CPU, in instruction) { c.spareCycle(); c.Y = c.A; c.setZN(c.Y) }
func execTXA(c *CPU, in instruction) { c.spareCycle(); c.A = c.X; c.setZN(c.A) }
func execTYA(c *CPU, in instruction) { c.spareCycle(); c.A = c.Y; c.setZN(c.A) }
func execTSX(c *CPU, in instruction) { c.spareCycle(); c.X = c.SP; c.setZN(c.X) }
func execTXS(c *CPU, in instruction) { c.spareCycle(); c.SP = c.X } // does not affect flags

func flagOp(mask uint8, set bool) func(c *CPU, in instruction) {
	return func(c *CPU, in instruction) {
		c.spareCycle()
		c.setFlag(mask, set)
	}
}
