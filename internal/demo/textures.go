package demo

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Texture indices of the built-in materials, in registration order
const (
	TextureChecker int32 = iota
	TextureGradient
	TextureFlatNormal
	TextureRMA
	TextureWhite
)

const materialSize = 256

// solid is a 1x1 image of c scaled up to size
func solid(c color.RGBA, size int) *image.RGBA {
	src := image.NewUniform(c)
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	return dst
}

// checker scales an 8x8 two-tone board up to size without smoothing
func checker(a, b color.RGBA, size int) *image.RGBA {
	small := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if (x+y)%2 == 0 {
				small.SetRGBA(x, y, a)
			} else {
				small.SetRGBA(x, y, b)
			}
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	return dst
}

// gradient smooths a 2x2 set of corner colours across size pixels
func gradient(corners [4]color.RGBA, size int) *image.RGBA {
	small := image.NewRGBA(image.Rect(0, 0, 2, 2))
	small.SetRGBA(0, 0, corners[0])
	small.SetRGBA(1, 0, corners[1])
	small.SetRGBA(0, 1, corners[2])
	small.SetRGBA(1, 1, corners[3])
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	return dst
}

// materials returns the built-in textures in index order
func materials() []*image.RGBA {
	return []*image.RGBA{
		TextureChecker:    checker(color.RGBA{200, 200, 200, 255}, color.RGBA{60, 60, 70, 255}, materialSize),
		TextureGradient:   gradient([4]color.RGBA{{220, 80, 60, 255}, {240, 200, 80, 255}, {60, 90, 200, 255}, {80, 200, 140, 255}}, materialSize),
		TextureFlatNormal: solid(color.RGBA{128, 128, 255, 255}, 4),
		TextureRMA:        solid(color.RGBA{153, 0, 255, 255}, 4),
		TextureWhite:      solid(color.RGBA{255, 255, 255, 255}, 4),
	}
}

// flipRows returns the pixels bottom row first, the order texture uploads expect
func flipRows(img *image.RGBA) []byte {
	b := img.Bounds()
	row := b.Dx() * 4
	out := make([]byte, 0, row*b.Dy())
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		off := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[off:off+row]...)
	}
	return out
}
