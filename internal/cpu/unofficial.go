package cpu

// Documented unofficial (illegal) opcodes. Each is the composition of the
// primitive operations already implemented for the official set; the
// inherently unstable ones (XAA, AHX, TAS) use the conventional
// "magic constant = 0" model (§4.3), which simplifies each to an AND
// against the registers involved with no extra random term.
func registerUnofficial() {
	// LAX: LDA+LDX combined.
	for op, m := range map[uint8]mode{
		0xA7: modeZeroPage, 0xB7: modeZeroPageY, 0xAF: modeAbsolute,
		0xBF: modeAbsoluteY, 0xA3: modeIndexedIndirect, 0xB3: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, exec: execLAX})
	}

	// SAX: store A&X.
	for op, m := range map[uint8]mode{
		0x87: modeZeroPage, 0x97: modeZeroPageY, 0x8F: modeAbsolute, 0x83: modeIndexedIndirect,
	} {
		register(op, instruction{mode: m, fixAlways: true, exec: execSAX})
	}

	// DCP: DEC then CMP.
	for op, m := range map[uint8]mode{
		0xC7: modeZeroPage, 0xD7: modeZeroPageX, 0xCF: modeAbsolute, 0xDF: modeAbsoluteX,
		0xDB: modeAbsoluteY, 0xC3: modeIndexedIndirect, 0xD3: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, fixAlways: true, exec: execDCP})
	}

	// ISB (ISC): INC then SBC.
	for op, m := range map[uint8]mode{
		0xE7: modeZeroPage, 0xF7: modeZeroPageX, 0xEF: modeAbsolute, 0xFF: modeAbsoluteX,
		0xFB: modeAbsoluteY, 0xE3: modeIndexedIndirect, 0xF3: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, fixAlways: true, exec: execISB})
	}

	// SLO: ASL then ORA.
	for op, m := range map[uint8]mode{
		0x07: modeZeroPage, 0x17: modeZeroPageX, 0x0F: modeAbsolute, 0x1F: modeAbsoluteX,
		0x1B: modeAbsoluteY, 0x03: modeIndexedIndirect, 0x13: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, fixAlways: true, exec: execSLO})
	}

	// SRE: LSR then EOR.
	for op, m := range map[uint8]mode{
		0x47: modeZeroPage, 0x57: modeZeroPageX, 0x4F: modeAbsolute, 0x5F: modeAbsoluteX,
		0x5B: modeAbsoluteY, 0x43: modeIndexedIndirect, 0x53: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, fixAlways: true, exec: execSRE})
	}

	// RLA: ROL then AND.
	for op, m := range map[uint8]mode{
		0x27: modeZeroPage, 0x37: modeZeroPageX, 0x2F: modeAbsolute, 0x3F: modeAbsoluteX,
		0x3B: modeAbsoluteY, 0x23: modeIndexedIndirect, 0x33: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, fixAlways: true, exec: execRLA})
	}

	// RRA: ROR then ADC.
	for op, m := range map[uint8]mode{
		0x67: modeZeroPage, 0x77: modeZeroPageX, 0x6F: modeAbsolute, 0x7F: modeAbsoluteX,
		0x7B: modeAbsoluteY, 0x63: modeIndexedIndirect, 0x73: modeIndirectIndexed,
	} {
		register(op, instruction{mode: m, fixAlways: true, exec: execRRA})
	}

	// ANC, ALR, ARR, AXS (SBX), USBC: immediate-only.
	register(0x0B, instruction{mode: modeImmediate, exec: execANC})
	register(0x2B, instruction{mode: modeImmediate, exec: execANC})
	register(0x4B, instruction{mode: modeImmediate, exec: execALR})
	register(0x6B, instruction{mode: modeImmediate, exec: execARR})
	register(0xCB, instruction{mode: modeImmediate, exec: execAXS})
	register(0x8B, instruction{mode: modeImmediate, exec: execXAA})
	register(0xEB, instruction{mode: modeImmediate, exec: execSBC}) // USBC: SBC immediate alias

	// NOPConsume: multi-byte NOPs that still perform the addressing mode's
	// dummy reads.
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		register(op, instruction{mode: modeImplicit, exec: func(c *CPU, in instruction) { c.spareCycle() }})
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		register(op, instruction{mode: modeImmediate, exec: func(c *CPU, in instruction) { c.fetch() }})
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		register(op, instruction{mode: modeZeroPage, exec: execNOPRead})
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		register(op, instruction{mode: modeZeroPageX, exec: execNOPRead})
	}
	register(0x0C, instruction{mode: modeAbsolute, exec: execNOPRead})
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		register(op, instruction{mode: modeAbsoluteX, exec: execNOPRead})
	}

	// Unstable store-group opcodes: SXA/SYA (high-byte-masking stores),
	// AHX, TAS, LAS.
	register(0x9E, instruction{mode: modeAbsoluteY, fixAlways: true, exec: execSXA})
	register(0x9C, instruction{mode: modeAbsoluteX, fixAlways: true, exec: execSYA})
	register(0x9F, instruction{mode: modeAbsoluteY, fixAlways: true, exec: execAHX})
	register(0x93, instruction{mode: modeIndirectIndexed, fixAlways: true, exec: execAHX})
	register(0x9B, instruction{mode: modeAbsoluteY, fixAlways: true, exec: execTAS})
	register(0xBB, instruction{mode: modeAbsoluteY, exec: execLAS})
}

func execLAX(c *CPU, in instruction) {
	v := c.readOperand(in.mode, in.fixAlways)
	c.A = v
	c.X = v
	c.setZN(v)
}

func execSAX(c *CPU, in instruction) {
	c.write(c.resolveAddress(in.mode, in.fixAlways), c.A&c.X)
}

func execDCP(c *CPU, in instruction) {
	addr, val := c.rmwLoad(in.mode, in.fixAlways)
	result := val - 1
	c.rmwStore(addr, val, result)
	compare(c, c.A, result)
}

func execISB(c *CPU, in instruction) {
	addr, val := c.rmwLoad(in.mode, in.fixAlways)
	result := val + 1
	c.rmwStore(addr, val, result)
	c.addWithCarry(^result)
}

func execSLO(c *CPU, in instruction) {
	addr, val := c.rmwLoad(in.mode, in.fixAlways)
	c.setFlag(FlagC, val&0x80 != 0)
	result := val << 1
	c.rmwStore(addr, val, result)
	c.A |= result
	c.setZN(c.A)
}

func execSRE(c *CPU, in instruction) {
	addr, val := c.rmwLoad(in.mode, in.fixAlways)
	c.setFlag(FlagC, val&0x01 != 0)
	result := val >> 1
	c.rmwStore(addr, val, result)
	c.A ^= result
	c.setZN(c.A)
}

func execRLA(c *CPU, in instruction) {
	addr, val := c.rmwLoad(in.mode, in.fixAlways)
	carryIn := uint8(0)
	if c.getFlag(FlagC) {
		carryIn = 1
	}
	c.setFlag(FlagC, val&0x80 != 0)
	result := val<<1 | carryIn
	c.rmwStore(addr, val, result)
	c.A &= result
	c.setZN(c.A)
}

func execRRA(c *CPU, in instruction) {
	addr, val := c.rmwLoad(in.mode, in.fixAlways)
	carryIn := uint8(0)
	if c.getFlag(FlagC) {
		carryIn = 0x80
	}
	c.setFlag(FlagC, val&0x01 != 0)
	result := val>>1 | carryIn
	c.rmwStore(addr, val, result)
	c.addWithCarry(result)
}

func execANC(c *CPU, in instruction) {
	c.A &= c.readOperand(in.mode, in.fixAlways)
	c.setZN(c.A)
	c.setFlag(FlagC, c.A&0x80 != 0)
}

func execALR(c *CPU, in instruction) {
	c.A &= c.readOperand(in.mode, in.fixAlways)
	c.setFlag(FlagC, c.A&0x01 != 0)
	c.A >>= 1
	c.setZN(c.A)
}

func execARR(c *CPU, in instruction) {
	c.A &= c.readOperand(in.mode, in.fixAlways)
	carryIn := uint8(0)
	if c.getFlag(FlagC) {
		carryIn = 0x80
	}
	c.A = c.A>>1 | carryIn
	c.setZN(c.A)
	c.setFlag(FlagC, c.A&0x40 != 0)
	c.setFlag(FlagV, (c.A>>6)&1^(c.A>>5)&1 != 0)
}

func execAXS(c *CPU, in instruction) {
	m := c.readOperand(in.mode, in.fixAlways)
	and := c.A & c.X
	result := and - m
	c.setFlag(FlagC, and >= m)
	c.X = result
	c.setZN(c.X)
}

// execXAA models ANE with the magic constant fixed at 0, collapsing to a
// plain AND across A, X, and the operand.
func execXAA(c *CPU, in instruction) {
	m := c.readOperand(in.mode, in.fixAlways)
	c.A = c.A & c.X & m
	c.setZN(c.A)
}

func execNOPRead(c *CPU, in instruction) {
	c.readOperand(in.mode, in.fixAlways)
}

func highPlusOne(addr uint16) uint8 {
	return uint8(addr>>8) + 1
}

func execSXA(c *CPU, in instruction) {
	addr := c.resolveAddress(in.mode, in.fixAlways)
	c.write(addr, c.X&highPlusOne(addr))
}

func execSYA(c *CPU, in instruction) {
	addr := c.resolveAddress(in.mode, in.fixAlways)
	c.write(addr, c.Y&highPlusOne(addr))
}

// execAHX models SHA with the magic constant fixed at 0.
func execAHX(c *CPU, in instruction) {
	addr := c.resolveAddress(in.mode, in.fixAlways)
	c.write(addr, c.A&c.X&highPlusOne(addr))
}

// execTAS models SHS with the magic constant fixed at 0.
func execTAS(c *CPU, in instruction) {
	addr := c.resolveAddress(in.mode, in.fixAlways)
	c.SP = c.A & c.X
	c.write(addr, c.SP&highPlusOne(addr))
}

func execLAS(c *CPU, in instruction) {
	v := c.readOperand(in.mode, in.fixAlways) & c.SP
	c.A = v
	c.X = v
	c.SP = v
	c.setZN(v)
}
