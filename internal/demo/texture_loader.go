package demo

import (
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// MaxTextureSize bounds the longest side of a loaded texture
const MaxTextureSize = 2048

// LoadImage decodes an image file into RGBA, downscaling it to fit
// MaxTextureSize
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open texture file")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return fit(img, MaxTextureSize), nil
}

// fit converts img to RGBA, scaling it down with Catmull-Rom when its
// longest side exceeds limit
func fit(img image.Image, limit int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > limit || h > limit {
		if w >= h {
			w, h = limit, h*limit/w
		} else {
			w, h = w*limit/h, limit
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// LoadTexture uploads the image at path once and returns its texture index.
// Later calls with the same path return the cached index.
func (a *Assets) LoadTexture(path string) (int32, error) {
	name := textureName(path)
	if idx, ok := a.byName[name]; ok {
		return idx, nil
	}
	img, err := LoadImage(path)
	if err != nil {
		return 0, err
	}
	idx, err := a.AddTexture(img)
	if err != nil {
		return 0, err
	}
	a.byName[name] = idx
	return idx, nil
}

// LoadTextureDir loads every PNG in dir in name order. An empty dir loads
// nothing. Files that fail to decode are skipped with a warning.
func (a *Assets) LoadTextureDir(dir string) (int, error) {
	if dir == "" {
		return 0, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return 0, errors.Wrapf(err, "bad texture dir %s", dir)
	}
	sort.Strings(paths)
	loaded := 0
	for _, p := range paths {
		if _, err := a.LoadTexture(p); err != nil {
			if errors.Is(err, gpu.ErrResourceCreation) {
				return loaded, err
			}
			logger.Log.Warn("skipping texture", zap.String("path", p), zap.Error(err))
			continue
		}
		loaded++
	}
	return loaded, nil
}

// TextureIndex looks up a loaded texture by file name without extension
func (a *Assets) TextureIndex(name string) (int32, bool) {
	idx, ok := a.byName[name]
	return idx, ok
}

func textureName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
