package ppu

// loopyAddr is the PPU's 15-bit internal VRAM address register, overlaid
// with scroll semantics (§3 "loopy register"):
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X
//	||| || +++++-------- coarse Y
//	||| ++-------------- nametable select
//	+++----------------- fine Y
type loopyAddr uint16

const (
	coarseXMask  = 0x001F
	coarseYMask  = 0x03E0
	coarseYShift = 5
	ntMask       = 0x0C00
	ntShift      = 10
	fineYMask    = 0x7000
	fineYShift   = 12
	addrMask     = 0x7FFF
)

func (a loopyAddr) coarseX() uint16  { return uint16(a) & coarseXMask }
func (a loopyAddr) coarseY() uint16  { return (uint16(a) & coarseYMask) >> coarseYShift }
func (a loopyAddr) nametable() uint16 { return (uint16(a) & ntMask) >> ntShift }
func (a loopyAddr) fineY() uint16    { return (uint16(a) & fineYMask) >> fineYShift }

// nametableAddr is the nametable byte address this loopy register currently
// points at: $2000 | (v & 0x0FFF).
func (a loopyAddr) nametableAddr() uint16 {
	return 0x2000 | (uint16(a) & 0x0FFF)
}

// attributeAddr is the attribute byte address for the current tile.
func (a loopyAddr) attributeAddr() uint16 {
	return 0x23C0 | (uint16(a) & ntMask) | ((a.coarseY() >> 2) << 3) | (a.coarseX() >> 2)
}

// incrementCoarseX wraps coarse X at 32, flipping the horizontal nametable
// bit on wrap.
func (a loopyAddr) incrementCoarseX() loopyAddr {
	if a.coarseX() == 31 {
		a &^= coarseXMask
		a ^= 0x0400 // flip horizontal nametable bit
	} else {
		a++
	}
	return a
}

// incrementY advances fine Y, carrying into coarse Y (wrapping at 29 with a
// nametable flip, or at 31 without one — §4.5, §8) when fine Y overflows.
func (a loopyAddr) incrementY() loopyAddr {
	if a.fineY() != 7 {
		return a + 0x1000
	}

	a &^= fineYMask
	y := a.coarseY()
	switch y {
	case 29:
		y = 0
		a ^= 0x0800 // flip vertical nametable bit
	case 31:
		y = 0
	default:
		y++
	}
	a = (a &^ coarseYMask) | loopyAddr(y<<coarseYShift)
	return a
}

// copyHorizontal copies coarse X and the horizontal nametable bit from src.
func (a loopyAddr) copyHorizontal(src loopyAddr) loopyAddr {
	const mask = coarseXMask | 0x0400
	return (a &^ mask) | (src & mask)
}

// copyVertical copies coarse Y, fine Y, and the vertical nametable bit from src.
func (a loopyAddr) copyVertical(src loopyAddr) loopyAddr {
	const mask = coarseYMask | fineYMask | 0x0800
	return (a &^ mask) | (src & mask)
}
