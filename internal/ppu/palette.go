package ppu

// nesPalette is the canonical 64-entry NTSC master palette, indexed by the
// 6-bit color code produced by the background pipeline. RGB packed as
// 0x00RRGGBB.
var nesPalette = [64]uint32{
	0x666666, 0x002A88, 0x1412A7, 0x3B00A4, 0x5C007E, 0x6E0040, 0x6C0600, 0x561D00,
	0x333500, 0x0B4800, 0x005200, 0x004F08, 0x00404D, 0x000000, 0x000000, 0x000000,
	0xADADAD, 0x155FD9, 0x4240FF, 0x7527FE, 0xA01ACC, 0xB71E7B, 0xB53120, 0x994E00,
	0x6B6D00, 0x388700, 0x0C9300, 0x008F32, 0x007C8D, 0x000000, 0x000000, 0x000000,
	0xFFFEFF, 0x64B0FF, 0x9290FF, 0xC676FF, 0xF36AFF, 0xFE6ECC, 0xFE8170, 0xEA9E22,
	0xBCBE00, 0x88D800, 0x5CE430, 0x45E082, 0x48CDDE, 0x4F4F4F, 0x000000, 0x000000,
	0xFFFEFF, 0xC0DFFF, 0xD3D2FF, 0xE8C8FF, 0xFBC2FF, 0xFEC4EA, 0xFECCC5, 0xF7D8A5,
	0xE4E594, 0xCFEF96, 0xBDF4AB, 0xB3F3CC, 0xB5EBF2, 0xB8B8B8, 0x000000, 0x000000,
}

// palette implements the 32-byte palette RAM ($3F00-$3F1F), mirrored across
// $3F20-$3FFF, with the $3F10/$3F14/$3F18/$3F1C -> $3F00/$3F04/$3F08/$3F0C
// background-color aliasing (§3, §8).
type palette struct {
	ram [32]uint8
}

func (p *palette) index(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx&0x13 == 0x10 {
		idx &^= 0x10
	}
	return idx
}

func (p *palette) read(addr uint16) uint8 {
	return p.ram[p.index(addr)]
}

func (p *palette) write(addr uint16, val uint8) {
	p.ram[p.index(addr)] = val
}
