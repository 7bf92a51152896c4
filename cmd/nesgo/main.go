// Command nesgo is the command-line entry point for the core: load a ROM,
// run it, and optionally show the rendered frame buffer in a window.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"nescore/internal/bus"
	"nescore/internal/cartridge"
)

func main() {
	var (
		romPath = flag.String("rom", "", "path to an iNES ROM file")
		pc      = flag.String("pc", "", "override the program counter (hex), e.g. C000")
		frames  = flag.Int("frames", 0, "stop the display window after this many frames (0 = run until halt; ignored with -nogui)")
		nogui   = flag.Bool("nogui", false, "run without opening a display window")
	)
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: nesgo -rom <path> [-pc <hex>] [-frames N] [-nogui]")
		os.Exit(2)
	}

	f, err := os.Open(*romPath)
	if err != nil {
		log.Fatalf("open rom: %v", err)
	}
	defer f.Close()

	cart, err := cartridge.Load(f)
	if err != nil {
		log.Fatalf("load rom: %v", err)
	}

	sys := bus.New(cart)

	if *pc != "" {
		var addr uint16
		if _, err := fmt.Sscanf(*pc, "%X", &addr); err != nil {
			log.Fatalf("invalid -pc value %q: %v", *pc, err)
		}
		sys.SetPC(addr)
	}

	if *nogui {
		if err := sys.Run(); err != nil {
			log.Fatalf("run: %v", err)
		}
		return
	}

	if err := runDisplay(sys, *frames); err != nil {
		log.Fatalf("display: %v", err)
	}
}
