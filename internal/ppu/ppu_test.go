package ppu

import "testing"

// stubCart is a minimal Cartridge fixture: flat CHR RAM, fixed horizontal
// mirroring.
type stubCart struct {
	chr [0x2000]uint8
}

func (s *stubCart) PPURead(addr uint16) uint8 { return s.chr[addr&0x1FFF] }
func (s *stubCart) PPUWrite(addr uint16, val uint8) { s.chr[addr&0x1FFF] = val }
func (s *stubCart) Nametable(slot int) int {
	return [4]int{0, 0, 1, 1}[slot&3]
}

func TestStatusReadClearsVBlankAndToggle(t *testing.T) {
	p := New(&stubCart{})
	p.status |= statusVBlank
	p.w = true

	_ = p.ReadRegister(regStatus)

	if p.status&statusVBlank != 0 {
		t.Fatal("vblank flag not cleared by status read")
	}
	if p.w {
		t.Fatal("write toggle not cleared by status read")
	}
}

func TestPPUAddrTwoWriteLatchesAddress(t *testing.T) {
	p := New(&stubCart{})
	p.WriteRegister(regAddr, 0x23)
	p.WriteRegister(regAddr, 0x45)

	if p.v != 0x2345 {
		t.Fatalf("v = %04X, want 2345", uint16(p.v))
	}
	if p.w {
		t.Fatal("write toggle should be clear after second PPUADDR write")
	}
}

func TestPPUDataIncrementsByConfiguredStep(t *testing.T) {
	p := New(&stubCart{})
	p.WriteRegister(regAddr, 0x3F)
	p.WriteRegister(regAddr, 0x00)
	p.WriteRegister(regPPUCTRL, ctrlIncrement32)

	start := p.v
	p.WriteRegister(regData, 0x11)
	if p.v != start+32 {
		t.Fatalf("v advanced by %d, want 32", int(p.v)-int(start))
	}
}

func TestPaletteWriteVisibleThroughPPUData(t *testing.T) {
	p := New(&stubCart{})
	p.WriteRegister(regAddr, 0x3F)
	p.WriteRegister(regAddr, 0x10)
	p.WriteRegister(regData, 0x16)

	p.WriteRegister(regAddr, 0x3F)
	p.WriteRegister(regAddr, 0x00)
	// Palette mirror: $3F10 aliases $3F00 (§8).
	if got := p.ReadRegister(regData); got != 0x16 {
		t.Fatalf("PPUDATA read of $3F00 = %02X, want 16", got)
	}
}

func TestOAMDataWriteAdvancesAddr(t *testing.T) {
	p := New(&stubCart{})
	p.WriteRegister(regOAMAddr, 0x10)
	p.WriteRegister(regOAMData, 0xAB)

	if p.oamAddr != 0x11 {
		t.Fatalf("oamAddr = %02X, want 11", p.oamAddr)
	}
	if p.oam[0x10] != 0xAB {
		t.Fatalf("oam[0x10] = %02X, want AB", p.oam[0x10])
	}
}

func TestVBlankSetAtLine241Dot1AndFiresNMI(t *testing.T) {
	p := New(&stubCart{})
	p.WriteRegister(regPPUCTRL, ctrlNMIEnable)

	fired := false
	p.NMI = func() { fired = true }

	p.scanline = vblankLine
	p.dot = 1
	p.Step() // runs line 241 dot 1

	if p.status&statusVBlank == 0 {
		t.Fatal("vblank flag not set at line 241 dot 1")
	}
	if !fired {
		t.Fatal("NMI callback not invoked")
	}
}

func TestPreRenderLineClearsStatusFlagsAtDotOne(t *testing.T) {
	p := New(&stubCart{})
	p.status = statusVBlank | statusSprite0 | statusOverflow

	p.scanline = preRenderLine
	p.dot = 1
	p.Step() // runs pre-render dot 1

	if p.status != 0 {
		t.Fatalf("status = %02X, want 0 after pre-render dot 1", p.status)
	}
}

func TestCoarseXWrapFlipsNametableBit(t *testing.T) {
	var a loopyAddr = 31 // coarse X = 31, nametable bit clear
	a = a.incrementCoarseX()
	if a.coarseX() != 0 {
		t.Fatalf("coarseX = %d, want 0", a.coarseX())
	}
	if a&0x0400 == 0 {
		t.Fatal("horizontal nametable bit not flipped on coarse X wrap")
	}
}

func TestCoarseYWrapsAt29WithFlip(t *testing.T) {
	var a loopyAddr = (29 << coarseYShift) | fineYMask // fine Y = 7, coarse Y = 29
	a = a.incrementY()
	if a.coarseY() != 0 {
		t.Fatalf("coarseY = %d, want 0", a.coarseY())
	}
	if a&0x0800 == 0 {
		t.Fatal("vertical nametable bit not flipped wrapping at 29")
	}
}

func TestCoarseYWrapsAt31WithoutFlip(t *testing.T) {
	var a loopyAddr = (31 << coarseYShift) | fineYMask
	before := a & 0x0800
	a = a.incrementY()
	if a.coarseY() != 0 {
		t.Fatalf("coarseY = %d, want 0", a.coarseY())
	}
	if a&0x0800 != before {
		t.Fatal("vertical nametable bit must not flip wrapping at 31")
	}
}
