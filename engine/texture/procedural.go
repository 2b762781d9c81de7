package texture

import (
	"image"
	"image/color"
	"math"

	"github.com/Carmen-Shannon/oxy-stages/common"
)

func (p Procedural) withDefaults() Procedural {
	if p.Size == 0 {
		p.Size = DefaultSize
	}
	if p.Cells == 0 {
		p.Cells = 8
	}
	if p.ColorA == (common.Color{}) {
		p.ColorA = common.Hex(0xffffff)
	}
	if p.ColorB == (common.Color{}) {
		p.ColorB = common.Hex(0x202020)
	}
	return p
}

// Generate renders the procedural pattern into an RGBA image.
//
// Returns:
//   - *image.RGBA: the generated image, Size x Size pixels
func (p Procedural) Generate() *image.RGBA {
	p = p.withDefaults()
	img := image.NewRGBA(image.Rect(0, 0, p.Size, p.Size))

	switch p.Kind {
	case ProceduralChecker:
		a, b := toRGBA8(p.ColorA), toRGBA8(p.ColorB)
		cell := max(p.Size/p.Cells, 1)
		for y := 0; y < p.Size; y++ {
			for x := 0; x < p.Size; x++ {
				if (x/cell+y/cell)%2 == 0 {
					img.SetRGBA(x, y, a)
				} else {
					img.SetRGBA(x, y, b)
				}
			}
		}
	case ProceduralBricks:
		a, b := toRGBA8(p.ColorA), toRGBA8(p.ColorB)
		for y := 0; y < p.Size; y++ {
			for x := 0; x < p.Size; x++ {
				if p.brickHeight(x, y) > 0 {
					img.SetRGBA(x, y, a)
				} else {
					img.SetRGBA(x, y, b)
				}
			}
		}
	case ProceduralBricksNormal:
		for y := 0; y < p.Size; y++ {
			for x := 0; x < p.Size; x++ {
				dx := p.brickHeight(x+1, y) - p.brickHeight(x-1, y)
				dy := p.brickHeight(x, y+1) - p.brickHeight(x, y-1)
				img.SetRGBA(x, y, encodeNormal(-dx, dy, 1))
			}
		}
	default:
		flat := encodeNormal(0, 0, 1)
		for y := 0; y < p.Size; y++ {
			for x := 0; x < p.Size; x++ {
				img.SetRGBA(x, y, flat)
			}
		}
	}
	return img
}

// brickHeight is 1 on a brick face and 0 in the mortar. Coordinates wrap so the
// pattern tiles.
func (p Procedural) brickHeight(x, y int) float32 {
	x = ((x % p.Size) + p.Size) % p.Size
	y = ((y % p.Size) + p.Size) % p.Size

	rowHeight := max(p.Size/p.Cells, 4)
	brickWidth := rowHeight * 2
	mortar := max(rowHeight/8, 1)

	row := y / rowHeight
	if row%2 == 1 {
		x += brickWidth / 2
	}
	if y%rowHeight < mortar || x%brickWidth < mortar {
		return 0
	}
	return 1
}

func encodeNormal(x, y, z float32) color.RGBA {
	l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	x, y, z = x/l, y/l, z/l
	return color.RGBA{
		R: uint8(math.Round(float64((x*0.5 + 0.5) * 255))),
		G: uint8(math.Round(float64((y*0.5 + 0.5) * 255))),
		B: uint8(math.Round(float64((z*0.5 + 0.5) * 255))),
		A: 255,
	}
}

func toRGBA8(c common.Color) color.RGBA {
	ch := func(f float32) uint8 {
		return uint8(math.Round(float64(min(max(f, 0), 1) * 255)))
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: ch(c.A)}
}
