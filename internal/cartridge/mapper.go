package cartridge

// Mapper is the cartridge-side address decoder and bank switcher (§4.2).
// CPU-space accesses cover $4020-$FFFF; PPU-space accesses cover the 16 KiB
// pattern-table window $0000-$3FFF (only $0000-$1FFF is backed by CHR — the
// rest is unused by any mapper implemented here).
type Mapper interface {
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, val uint8)
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, val uint8)

	// Nametable reports, for logical nametable slot 0..3 (as addressed by
	// the PPU's $2000/$2400/$2800/$2C00 windows), which physical 1 KiB
	// VRAM page (0 or 1) backs it.
	Nametable(slot int) int
}

func mirrorSlots(mode MirrorMode) [4]int {
	switch mode {
	case MirrorVertical:
		return [4]int{0, 1, 0, 1}
	case MirrorSingleScreenLower:
		return [4]int{0, 0, 0, 0}
	case MirrorSingleScreenUpper:
		return [4]int{1, 1, 1, 1}
	case MirrorFourScreen:
		// Four-screen VRAM is not implemented by either supported mapper;
		// fall back to the horizontal layout rather than panic.
		return [4]int{0, 0, 1, 1}
	default: // MirrorHorizontal
		return [4]int{0, 0, 1, 1}
	}
}
