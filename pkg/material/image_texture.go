package material

import (
	"math"

	"github.com/df07/go-principled-bsdf/pkg/core"
)

// TextureFilter selects how an ImageTexture reconstructs between texels
type TextureFilter int

const (
	FilterNearest TextureFilter = iota
	FilterBilinear
)

// ImageTexture provides color from a 2D image with repeat addressing
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x], row 0 at the top
	Filter TextureFilter
}

// NewImageTexture creates a nearest-filtered image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// WithFilter returns the texture with the given filter set
func (t *ImageTexture) WithFilter(filter TextureFilter) *ImageTexture {
	t.Filter = filter
	return t
}

// Evaluate samples the texture at the given UV. V=0 is the bottom row.
// Empty textures and ones with fewer than Width*Height pixels are black.
func (t *ImageTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	if t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height {
		return core.Vec3{}
	}

	u := wrapUnit(uv.X)
	v := wrapUnit(uv.Y)

	// Continuous texel coordinates, flipped so the image top is v=1
	x := u * float64(t.Width)
	y := (1.0 - v) * float64(t.Height)

	if t.Filter == FilterNearest {
		// v=0 lands exactly on the bottom edge
		return t.texel(min(int(x), t.Width-1), min(int(y), t.Height-1))
	}

	// Bilinear: centre texels on half-integers
	x -= 0.5
	y -= 0.5
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0
	ix, iy := int(x0), int(y0)

	top := t.texel(ix, iy).Lerp(t.texel(ix+1, iy), fx)
	bottom := t.texel(ix, iy+1).Lerp(t.texel(ix+1, iy+1), fx)
	return top.Lerp(bottom, fy)
}

// texel fetches with repeat addressing
func (t *ImageTexture) texel(x, y int) core.Vec3 {
	x %= t.Width
	if x < 0 {
		x += t.Width
	}
	y %= t.Height
	if y < 0 {
		y += t.Height
	}
	return t.Pixels[y*t.Width+x]
}

func wrapUnit(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		x = 0
	}
	return x
}
