// Package bus implements the synchronous memory router and the top-level
// scheduler that drives the CPU, PPU, and APU in lockstep (§2, §4.1, §5).
package bus

import (
	"fmt"

	"nescore/internal/apu"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/ppu"
)

// System is the host-facing surface: construct from an iNES image, drive it
// with Run, and inspect it with GetMem. This is the only entry point a CLI,
// GUI, or test harness needs (§6).
type System struct {
	ram  [2048]uint8
	cart *cartridge.Cartridge
	ppu  *ppu.PPU
	apu  *apu.APU
	cpu  *cpu.CPU

	cpuCycles uint64
	running   bool
}

// New constructs a System from a parsed cartridge, reads the CPU reset
// vector, and sets the initial program counter (§6 "new(rom)").
func New(cart *cartridge.Cartridge) *System {
	s := &System{cart: cart}
	s.ppu = ppu.New(cart.Mapper())
	s.apu = apu.New()
	s.cpu = cpu.New(s)

	s.ppu.NMI = func() { s.cpu.TriggerNMI() }

	low := s.Read(0xFFFC)
	high := s.Read(0xFFFD)
	s.cpu.PC = uint16(high)<<8 | uint16(low)
	return s
}

// SetPC overrides the program counter, for test harnesses that start
// execution at a fixed address (e.g. 0xC000) rather than the reset vector.
func (s *System) SetPC(addr uint16) {
	s.cpu.PC = addr
}

// GetMem is a diagnostic bus read with no observable side effects on PPU
// state: PPU register reads that would normally mutate latches or clear
// flags are never triggered by this path.
func (s *System) GetMem(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return s.ram[addr&0x07FF]
	case addr < 0x4000:
		return 0 // side-effect-free: does not read through to the PPU register file
	case addr >= 0x4020:
		return s.cart.Mapper().CPURead(addr)
	default:
		return 0
	}
}

// Read services a CPU bus read, per the §4.1 decode table.
func (s *System) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return s.ram[addr&0x07FF]
	case addr < 0x4000:
		return s.ppu.ReadRegister(int(addr & 7))
	case addr < 0x4014:
		return 0 // APU registers are write-only; reads are open bus
	case addr == 0x4015:
		return s.apu.ReadStatus()
	case addr < 0x4020:
		return 0 // $4014 (OAM DMA) and $4016/$4017 reads: not in the decode table, default rule applies
	case addr >= 0x4020:
		return s.cart.Mapper().CPURead(addr)
	default:
		return 0
	}
}

// Write services a CPU bus write, per the §4.1 decode table. Writes take
// effect in the cycle they occur.
func (s *System) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		s.ram[addr&0x07FF] = val
	case addr < 0x4000:
		s.ppu.WriteRegister(int(addr&7), val)
	case addr <= 0x4013:
		s.apu.WriteRegister(addr, val)
	case addr == 0x4015:
		s.apu.WriteRegister(addr, val)
	case addr == 0x4017:
		s.apu.WriteRegister(addr, val)
	case addr < 0x4020:
		// $4014, $4016: not in the decode table, ignored per the default rule.
	case addr >= 0x4020:
		s.cart.Mapper().CPUWrite(addr, val)
	}
}

// Run drives the scheduler until the CPU signals a halt sentinel (JMP to
// self), an unknown opcode, or Stop is called from another goroutine (e.g.
// a host window-close handler). One CPU cycle is followed by an APU clock
// on every other cycle and three PPU dots, preserving the §5 ordering
// invariant that CPU cycle n's bus effect completes before PPU dots
// 3n..3n+2.
func (s *System) Run() error {
	s.running = true
	for s.running {
		halted, err := s.cpu.StepInstruction()
		if err != nil {
			return fmt.Errorf("cpu: %w", err)
		}
		if halted {
			return nil
		}
	}
	return nil
}

// RunFrame drives the scheduler until one additional PPU frame completes,
// for a host display loop that wants to pump exactly one frame per tick.
// It returns halted=true on the JMP-to-self sentinel.
func (s *System) RunFrame() (halted bool, err error) {
	target := s.ppu.FrameCount() + 1
	for s.ppu.FrameCount() < target {
		h, err := s.cpu.StepInstruction()
		if err != nil {
			return false, fmt.Errorf("cpu: %w", err)
		}
		if h {
			return true, nil
		}
	}
	return false, nil
}

// Stop requests that Run terminate before its next instruction boundary.
func (s *System) Stop() {
	s.running = false
}

// OnCPUCycle is invoked by the CPU engine once per bus cycle it executes
// (including the dummy reads/writes addressing-mode resolution performs),
// so the scheduler can advance the PPU and APU in lockstep with it (§5).
func (s *System) OnCPUCycle() {
	s.cpuCycles++
	if s.cpuCycles%2 == 0 {
		s.apu.Step()
		if s.apu.IRQPending() {
			s.cpu.SetIRQLine(true)
		} else {
			s.cpu.SetIRQLine(false)
		}
	}
	s.ppu.Step()
	s.ppu.Step()
	s.ppu.Step()
}

// Frame returns the PPU's current frame buffer for a display sink to blit.
func (s *System) Frame() *[256 * 240]uint32 {
	return s.ppu.Frame()
}
