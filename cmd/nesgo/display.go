package main

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"nescore/internal/bus"
)

const (
	nesWidth  = 256
	nesHeight = 240
	windowScale = 3
)

// nesGame adapts a *bus.System to ebiten.Game: one RunFrame call per
// Update tick, blitting the resulting frame buffer in Draw. The core
// itself does no windowing or input handling (§1 "out of scope") — this
// is purely the external display collaborator §6 describes.
type nesGame struct {
	sys      *bus.System
	img      *ebiten.Image
	buf      *image.RGBA
	halted   bool
	err      error
	frameCap int
	frames   int
}

func newNESGame(sys *bus.System, frameCap int) *nesGame {
	return &nesGame{
		sys:      sys,
		img:      ebiten.NewImage(nesWidth, nesHeight),
		buf:      image.NewRGBA(image.Rect(0, 0, nesWidth, nesHeight)),
		frameCap: frameCap,
	}
}

func (g *nesGame) Update() error {
	if g.halted || g.err != nil {
		return g.err
	}
	if g.frameCap > 0 && g.frames >= g.frameCap {
		return errHaltRequested
	}

	halted, err := g.sys.RunFrame()
	g.frames++
	if err != nil {
		g.err = err
		return err
	}
	if halted {
		g.halted = true
	}
	return nil
}

var errHaltRequested = errors.New("nesgo: requested frame count reached")

func (g *nesGame) Draw(screen *ebiten.Image) {
	frame := g.sys.Frame()
	for y := 0; y < nesHeight; y++ {
		for x := 0; x < nesWidth; x++ {
			px := frame[y*nesWidth+x]
			g.buf.SetRGBA(x, y, color.RGBA{
				R: uint8(px >> 16),
				G: uint8(px >> 8),
				B: uint8(px),
				A: 255,
			})
		}
	}
	g.img.ReplacePixels(g.buf.Pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(windowScale, windowScale)
	screen.DrawImage(g.img, op)
}

func (g *nesGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return nesWidth * windowScale, nesHeight * windowScale
}

func runDisplay(sys *bus.System, frameCap int) error {
	ebiten.SetWindowTitle("nesgo")
	ebiten.SetWindowSize(nesWidth*windowScale, nesHeight*windowScale)

	game := newNESGame(sys, frameCap)
	err := ebiten.RunGame(game)
	if errors.Is(err, errHaltRequested) {
		return nil
	}
	return err
}
