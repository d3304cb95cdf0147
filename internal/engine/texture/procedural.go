// Package texture synthesises and decodes the bitmaps used on the ground.
package texture

import (
	"image"
	"image/color"
	"math/rand"
)

// Procedural texture defaults.
const (
	Size        = 256
	CheckerCell = 32
	gridCell    = 32
	gridLine    = 2
	stoneSeed   = 42
)

var (
	checkerLight = color.RGBA{220, 220, 200, 255}
	checkerDark  = color.RGBA{50, 50, 70, 255}
	gridLineRGB  = color.RGBA{220, 220, 220, 255}
	gridFill     = color.RGBA{255, 255, 255, 255}
)

// Checkerboard returns alternating cream and slate cells of cell pixels.
func Checkerboard(w, h, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := checkerDark
			if (x/cell+y/cell)%2 == 0 {
				c = checkerLight
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Grid returns white 32px cells separated by 2px light grey lines.
func Grid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := gridFill
			if x%gridCell < gridLine || y%gridCell < gridLine {
				c = gridLineRGB
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Stone returns a brownish block pattern with noise and darker joints
// every 64px. The output is the same on every call.
func Stone(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rng := rand.New(rand.NewSource(stoneSeed))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray := 100 + (x/16+y/16)%2*20
			noise := rng.Intn(40) - 20
			if x%64 < 2 || y%64 < 2 {
				gray -= 30
			}
			g := min(180, max(40, gray+noise))
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(g),
				G: uint8(float32(g) * 0.9),
				B: uint8(float32(g) * 0.8),
				A: 255,
			})
		}
	}
	return img
}
