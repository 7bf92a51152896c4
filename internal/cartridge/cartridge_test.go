package cartridge

import (
	"bytes"
	"testing"
)

func buildINES(prgBanks, chrBanks int, flags6, flags7 uint8, fill func(prg, chr []byte)) []byte {
	var buf bytes.Buffer
	buf.WriteString("NES\x1a")
	buf.WriteByte(uint8(prgBanks))
	buf.WriteByte(uint8(chrBanks))
	buf.WriteByte(flags6)
	buf.WriteByte(flags7)
	buf.Write(make([]byte, 8)) // PRG RAM size, TV system, padding

	prg := make([]byte, prgBanks*16*1024)
	chr := make([]byte, chrBanks*8*1024)
	if fill != nil {
		fill(prg, chr)
	}
	buf.Write(prg)
	buf.Write(chr)
	return buf.Bytes()
}

func TestLoadRejectsBadMagic(t *testing.T) {
	data := buildINES(1, 1, 0, 0, nil)
	data[0] = 'X'
	if _, err := Load(bytes.NewReader(data)); err != ErrInvalidHeader {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestLoadRejectsUnsupportedMapper(t *testing.T) {
	data := buildINES(1, 1, 0x20, 0, nil) // mapper 2 (UNROM), not supported
	_, err := Load(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected error for unsupported mapper")
	}
	if _, ok := err.(*UnsupportedMapperError); !ok {
		t.Fatalf("expected UnsupportedMapperError, got %T: %v", err, err)
	}
}

func TestLoadResetVector(t *testing.T) {
	data := buildINES(1, 1, 0, 0, func(prg, chr []byte) {
		prg[0x3FFC] = 0x34
		prg[0x3FFD] = 0x80
	})
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	low := cart.Mapper().CPURead(0xFFFC)
	high := cart.Mapper().CPURead(0xFFFD)
	if low != 0x34 || high != 0x80 {
		t.Fatalf("reset vector = %02X%02X, want 8034", high, low)
	}
}

func TestNROMMirrorsSixteenKB(t *testing.T) {
	data := buildINES(1, 1, 0, 0, func(prg, chr []byte) {
		prg[0] = 0x42
	})
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := cart.Mapper()
	if got := m.CPURead(0x8000); got != 0x42 {
		t.Fatalf("CPURead(0x8000) = %02X, want 42", got)
	}
	if got := m.CPURead(0xC000); got != 0x42 {
		t.Fatalf("CPURead(0xC000) = %02X, want 42 (mirrored)", got)
	}
}

func TestNROMChrRAMWritable(t *testing.T) {
	data := buildINES(1, 0, 0, 0, nil) // CHR size 0 -> CHR RAM
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := cart.Mapper()
	m.PPUWrite(0x0010, 0x99)
	if got := m.PPURead(0x0010); got != 0x99 {
		t.Fatalf("CHR RAM read = %02X, want 99", got)
	}
}

func TestMMC1ShiftRegisterResetLeavesControlUnchanged(t *testing.T) {
	data := buildINES(4, 2, 0x10, 0, nil) // mapper 1
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := cart.Mapper().(*mmc1)

	for _, v := range []uint8{0x01, 0x01, 0x01, 0x01, 0x00} {
		m.CPUWrite(0x8000, v)
	}
	wantControl := m.control

	m.CPUWrite(0x8000, 0x80) // reset write, bit7 set

	if m.shiftCount != 0 {
		t.Fatalf("shiftCount = %d, want 0 after reset write", m.shiftCount)
	}
	if m.control != wantControl {
		t.Fatalf("control changed by reset write: got %02X, want %02X", m.control, wantControl)
	}
}

func TestMMC1PRGBankSwitch(t *testing.T) {
	data := buildINES(4, 1, 0x10, 0, func(prg, chr []byte) {
		prg[16*1024*2] = 0xAB // start of bank 2
	})
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := cart.Mapper().(*mmc1)

	writeSerial := func(addr uint16, val uint8) {
		for i := 0; i < 5; i++ {
			m.CPUWrite(addr, (val>>uint(i))&1)
		}
	}

	// Control: PRG mode 3 (fix-last), CHR mode 0, one-screen lower mirroring.
	writeSerial(0x8000, 0x0C)
	// Select PRG bank 2 for the switchable $8000 window.
	writeSerial(0xE000, 0x02)

	if got := m.CPURead(0x8000); got != 0xAB {
		t.Fatalf("CPURead(0x8000) = %02X, want AB", got)
	}
}
