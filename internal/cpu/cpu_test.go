package cpu

import "testing"

// fakeMem is a flat 64 KiB RAM fixture with a cycle counter, used to drive
// the CPU engine in isolation from the bus/PPU/APU.
type fakeMem struct {
	data   [65536]uint8
	cycles int
}

func (m *fakeMem) Read(addr uint16) uint8       { return m.data[addr] }
func (m *fakeMem) Write(addr uint16, val uint8) { m.data[addr] = val }
func (m *fakeMem) OnCPUCycle()                  { m.cycles++ }

func newTestCPU() (*CPU, *fakeMem) {
	mem := &fakeMem{}
	c := New(mem)
	return c, mem
}

func (m *fakeMem) load(addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		m.data[addr+uint16(i)] = b
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	c, mem := newTestCPU()
	// LDA #$42 ; PHA ; LDA #$00 ; PLA
	mem.load(0x0200, 0xA9, 0x42, 0x48, 0xA9, 0x00, 0x68)
	c.PC = 0x0200

	step(t, c) // LDA #$42
	step(t, c) // PHA
	step(t, c) // LDA #$00
	step(t, c) // PLA

	if c.A != 0x42 {
		t.Fatalf("A = %02X, want 42 after PHA/PLA round trip", c.A)
	}
	if c.getFlag(FlagN) {
		t.Fatal("N flag should be clear for A=0x42")
	}
	if c.getFlag(FlagZ) {
		t.Fatal("Z flag should be clear for A=0x42")
	}
}

func TestPHPPLPRestoresFlagsExceptB(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0200, 0x08, 0x28) // PHP, PLP
	c.PC = 0x0200
	c.Status = FlagC | FlagV | Flag5

	step(t, c) // PHP
	c.Status = 0
	step(t, c) // PLP

	if !c.getFlag(FlagC) || !c.getFlag(FlagV) {
		t.Fatalf("status = %02X, want C and V restored", c.Status)
	}
	if c.getFlag(FlagB) {
		t.Fatal("B flag must not be restored by PLP")
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, mem := newTestCPU()
	// JSR $0210 ; (after return) LDX #$01
	mem.load(0x0200, 0x20, 0x10, 0x02, 0xA2, 0x01)
	mem.load(0x0210, 0x60) // RTS
	c.PC = 0x0200
	c.SP = 0xFD

	step(t, c) // JSR
	if c.PC != 0x0210 {
		t.Fatalf("PC = %04X after JSR, want 0210", c.PC)
	}
	sp := c.SP
	step(t, c) // RTS
	if c.PC != 0x0203 {
		t.Fatalf("PC = %04X after RTS, want 0203 (instruction after JSR)", c.PC)
	}
	if c.SP != sp+2 {
		t.Fatalf("SP = %02X, want %02X after RTS pops return address", c.SP, sp+2)
	}
}

func TestADCOverflowFlag(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0200, 0x69, 0x50) // ADC #$50
	c.PC = 0x0200
	c.A = 0x50
	c.Status = 0

	step(t, c)

	if !c.getFlag(FlagV) {
		t.Fatal("expected V set: 0x50+0x50 overflows into negative")
	}
	if c.A != 0xA0 {
		t.Fatalf("A = %02X, want A0", c.A)
	}
}

func TestBranchTakenAddsCycle(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0200, 0xF0, 0x02) // BEQ +2
	c.PC = 0x0200
	c.setFlag(FlagZ, true)

	before := mem.cycles
	step(t, c)
	after := mem.cycles

	// opcode fetch + operand fetch + taken-branch cycle = 3 (no page cross)
	if after-before != 3 {
		t.Fatalf("cycles = %d, want 3 for a taken non-crossing branch", after-before)
	}
	if c.PC != 0x0204 {
		t.Fatalf("PC = %04X, want 0204", c.PC)
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0400, 0x6C, 0xFF, 0x02) // JMP ($02FF)
	mem.data[0x02FF] = 0x34
	mem.data[0x0300] = 0x12 // would be the "correct" high byte if no bug
	mem.data[0x0200] = 0x80 // the buggy wrap reads $0200, not $0300
	c.PC = 0x0400

	step(t, c)
	if c.PC != 0x8034 {
		t.Fatalf("PC = %04X, want 8034 (high byte from $0200, wrap bug)", c.PC)
	}
}

func TestJMPToSelfHalts(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0200, 0x4C, 0x00, 0x02) // JMP $0200
	c.PC = 0x0200

	halted, err := c.StepInstruction()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !halted {
		t.Fatal("expected halt on JMP-to-self")
	}
}

func TestBranchToSelfHalts(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0200, 0xF0, 0xFE) // BEQ -2
	c.PC = 0x0200
	c.setFlag(FlagZ, true)

	halted, err := c.StepInstruction()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !halted {
		t.Fatal("expected halt on a taken branch-to-self")
	}
}

func TestBranchNotTakenToSelfDoesNotHalt(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0200, 0xF0, 0xFE, 0xEA) // BEQ -2 (not taken), NOP
	c.PC = 0x0200
	c.setFlag(FlagZ, false)

	step(t, c)
	if c.PC != 0x0202 {
		t.Fatalf("PC = %04X, want 0202 (branch not taken)", c.PC)
	}
}

func TestUSBCMatchesSBC(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0200, 0xEB, 0x10) // USBC #$10
	c.PC = 0x0200
	c.A = 0x20
	c.setFlag(FlagC, true) // no borrow in

	step(t, c)

	if c.A != 0x10 {
		t.Fatalf("A = %02X, want 10 after USBC #$10", c.A)
	}
}

func TestUnknownInstructionError(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0200, 0x02) // no opcode registered at 0x02
	c.PC = 0x0200

	_, err := c.StepInstruction()
	if err == nil {
		t.Fatal("expected an UnknownInstructionError")
	}
	if _, ok := err.(*UnknownInstructionError); !ok {
		t.Fatalf("expected *UnknownInstructionError, got %T", err)
	}
}

func TestLAXLoadsBothAAndX(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0200, 0xA7, 0x10) // LAX $10
	mem.data[0x0010] = 0x77
	c.PC = 0x0200

	step(t, c)

	if c.A != 0x77 || c.X != 0x77 {
		t.Fatalf("A=%02X X=%02X, want both 77", c.A, c.X)
	}
}

func step(t *testing.T, c *CPU) {
	t.Helper()
	halted, err := c.StepInstruction()
	if err != nil {
		t.Fatalf("StepInstruction: %v", err)
	}
	if halted {
		t.Fatal("unexpected halt")
	}
}
