// Package apu implements the minimal subset of the audio processing unit
// needed for timing-accurate emulation: the frame sequencer, per-channel
// length counters, and the frame-IRQ flag. No channel synthesis is
// performed (§4.6, Non-goal) — the core exists to make the status port and
// frame-IRQ timing observable, not to produce audio.
package apu

// Channel indices into the enable/length-counter arrays, matching the
// $4015 status/enable bit order.
const (
	ChannelPulse1 = iota
	ChannelPulse2
	ChannelTriangle
	ChannelNoise
	numChannels
)

// lengthTable is the canonical 32-entry NTSC length-counter load table,
// indexed by the top 5 bits of a $4003/$4007/$400B/$400F-style write.
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// Sequencer step boundaries in APU cycles (one APU cycle = two CPU
// cycles), per §4.6.
const (
	step1  = 3728
	step2  = 7456
	step3  = 11185
	step4a = 14914
	step4b = 14915
	// step5 is the 5-step sequencer's extra length-counter clock and frame
	// boundary, following standard NTSC 5-step sequencer timing.
	step5 = 18640
)

const (
	statusFrameIRQ = 0x40
)

// APU holds the frame sequencer and per-channel length-counter state. Step
// must be invoked once every two CPU cycles by the bus scheduler.
type APU struct {
	mode5Step   bool
	irqInhibit  bool
	frameIRQ    bool
	cycle       int

	enabled [numChannels]bool
	length  [numChannels]uint8
}

// New constructs an APU with all channels disabled and the 4-step
// sequencer selected, matching hardware power-on state.
func New() *APU {
	return &APU{}
}

// Step clocks the frame sequencer by one APU cycle.
func (a *APU) Step() {
	a.cycle++

	if !a.mode5Step {
		switch a.cycle {
		case step1, step2, step3:
			a.clockLengthCounters(a.cycle == step2)
		case step4a:
			a.clockLengthCounters(true)
			if !a.irqInhibit {
				a.frameIRQ = true
			}
		case step4b:
			if !a.irqInhibit {
				a.frameIRQ = true
			}
			a.cycle = 0
		}
	} else {
		switch a.cycle {
		case step1, step3:
			a.clockLengthCounters(false)
		case step2:
			a.clockLengthCounters(true)
		case step5:
			a.clockLengthCounters(true)
			a.cycle = 0
		}
	}
}

// clockLengthCounters decrements every enabled, non-zero length counter.
// halfFrame marks the boundaries hardware calls the "half frame" clock,
// which is when length counters (and envelope-linked sweep, not modeled
// here) actually tick.
func (a *APU) clockLengthCounters(halfFrame bool) {
	if !halfFrame {
		return
	}
	for i := range a.length {
		if a.enabled[i] && a.length[i] > 0 {
			a.length[i]--
		}
	}
}

// WriteRegister handles a CPU write to one of the APU-mapped addresses
// $4000-$4013, $4015, or $4017. Addresses outside the length-counter-load
// registers and the two control registers are accepted and discarded — no
// synthesis state exists to update.
func (a *APU) WriteRegister(addr uint16, val uint8) {
	switch addr {
	case 0x4003:
		a.loadLength(ChannelPulse1, val)
	case 0x4007:
		a.loadLength(ChannelPulse2, val)
	case 0x400B:
		a.loadLength(ChannelTriangle, val)
	case 0x400F:
		a.loadLength(ChannelNoise, val)
	case 0x4015:
		for i := 0; i < numChannels; i++ {
			on := val&(1<<uint(i)) != 0
			a.enabled[i] = on
			if !on {
				a.length[i] = 0
			}
		}
	case 0x4017:
		a.mode5Step = val&0x80 != 0
		a.irqInhibit = val&0x40 != 0
		if a.irqInhibit {
			a.frameIRQ = false
		}
		a.cycle = 0
		if a.mode5Step {
			a.clockLengthCounters(true)
		}
	}
	// $4000-$4002, $4004-$4006, $4008-$400A, $400C-$400E, $4010-$4013: no
	// synthesis state to hold.
}

func (a *APU) loadLength(ch int, val uint8) {
	if !a.enabled[ch] {
		return
	}
	a.length[ch] = lengthTable[val>>3]
}

// ReadStatus services a CPU read of $4015: bits 0-3 report whether each
// channel's length counter is non-zero, bit 6 reports (and clears) the
// frame-IRQ flag.
func (a *APU) ReadStatus() uint8 {
	var val uint8
	for i := 0; i < numChannels; i++ {
		if a.length[i] > 0 {
			val |= 1 << uint(i)
		}
	}
	if a.frameIRQ {
		val |= statusFrameIRQ
	}
	a.frameIRQ = false
	return val
}

// IRQPending reports whether the frame sequencer has raised (and not yet
// had read-acknowledged) the frame IRQ, for the bus to feed into the CPU's
// level-triggered IRQ line.
func (a *APU) IRQPending() bool {
	return a.frameIRQ
}
