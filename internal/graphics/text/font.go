// Package text bakes a font into per-glyph bindless textures and lays out
// strings as UI quads.
package text

import (
	"image"

	"deferred-gl/internal/graphics/renderdata"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII
const (
	firstRune = 32
	lastRune  = 126
)

// TextureRegistry stores a baked image and returns its texture index
type TextureRegistry interface {
	AddTexture(img *image.RGBA) (int32, error)
}

// Glyph describes one baked character. Texture is -1 for glyphs without pixels.
type Glyph struct {
	Texture  int32
	Width    int
	Height   int
	BearingX int
	BearingY int // pixels above the baseline
	Advance  int
}

// Font is a baked glyph set
type Font struct {
	glyphs     map[rune]Glyph
	ascent     int
	lineHeight int
}

// Bake rasterises the printable ASCII range of ttf at size pixels and
// registers one white, alpha-masked texture per visible glyph. A nil ttf
// selects Go Mono.
func Bake(reg TextureRegistry, ttf []byte, size float64) (*Font, error) {
	if ttf == nil {
		ttf = gomono.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, errors.Wrap(err, "new face")
	}
	defer func() { _ = face.Close() }()

	m := face.Metrics()
	fnt := &Font{
		glyphs:     make(map[rune]Glyph, lastRune-firstRune+1),
		ascent:     m.Ascent.Ceil(),
		lineHeight: m.Height.Ceil(),
	}
	for r := rune(firstRune); r <= lastRune; r++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		g := Glyph{
			Texture:  -1,
			Width:    dr.Dx(),
			Height:   dr.Dy(),
			BearingX: dr.Min.X,
			BearingY: -dr.Min.Y,
			Advance:  advance.Round(),
		}
		if g.Width > 0 && g.Height > 0 && mask != nil {
			img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
			draw.DrawMask(img, img.Bounds(), image.White, image.Point{}, mask, maskp, draw.Src)
			idx, err := reg.AddTexture(img)
			if err != nil {
				return nil, errors.Wrapf(err, "glyph %q", r)
			}
			g.Texture = idx
		}
		fnt.glyphs[r] = g
	}
	return fnt, nil
}

// Glyph returns the baked glyph for r, falling back to '?'
func (f *Font) Glyph(r rune) (Glyph, bool) {
	if g, ok := f.glyphs[r]; ok {
		return g, true
	}
	g, ok := f.glyphs['?']
	return g, ok
}

// LineHeight is the font's natural line spacing in pixels
func (f *Font) LineHeight() int { return f.lineHeight }

// Width returns the advance of s in pixels
func (f *Font) Width(s string) int {
	w := 0
	for _, r := range s {
		g, _ := f.Glyph(r)
		w += g.Advance
	}
	return w
}

// Layout places lines top-down in a width x height pixel target, one line
// every lineHeight pixels, and returns one quad per visible glyph. Lines and
// glyphs that start outside the target are dropped.
func (f *Font) Layout(lines []string, width, height, lineHeight int, tint mgl32.Vec3) []renderdata.RenderItem2D {
	if width <= 0 || height <= 0 {
		return nil
	}
	var items []renderdata.RenderItem2D
	for row, line := range lines {
		top := row * lineHeight
		if top >= height {
			break
		}
		baseline := top + f.ascent
		x := 0
		for _, r := range line {
			if x >= width {
				break
			}
			g, ok := f.Glyph(r)
			if !ok {
				continue
			}
			if g.Texture >= 0 {
				items = append(items, renderdata.RenderItem2D{
					ModelMatrix:  QuadMatrix(x+g.BearingX, baseline-g.BearingY, g.Width, g.Height, width, height),
					ColorTint:    tint,
					TextureIndex: g.Texture,
				})
			}
			x += g.Advance
		}
	}
	return items
}

// QuadMatrix maps the unit NDC quad onto the pixel rect (x, y, w, h) of a
// target, with y measured down from the top edge
func QuadMatrix(x, y, w, h, targetW, targetH int) mgl32.Mat4 {
	tw, th := float32(targetW), float32(targetH)
	cx := (float32(x)+float32(w)/2)/tw*2 - 1
	cy := 1 - (float32(y)+float32(h)/2)/th*2
	return mgl32.Translate3D(cx, cy, 0).Mul4(mgl32.Scale3D(float32(w)/tw, float32(h)/th, 1))
}
