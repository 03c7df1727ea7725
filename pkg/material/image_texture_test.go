package material

import (
	"testing"

	"github.com/df07/go-principled-bsdf/pkg/core"
	"github.com/stretchr/testify/assert"
)

func checker2x2() *ImageTexture {
	// Layout:
	//   white black
	//   black white
	pixels := []core.Vec3{
		core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0), // Row 0 (top in image coords)
		core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), // Row 1 (bottom in image coords)
	}
	return NewImageTexture(2, 2, pixels)
}

func TestImageTexture_NearestQuadrants(t *testing.T) {
	texture := checker2x2()
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)

	tests := []struct {
		name     string
		uv       core.Vec2
		expected core.Vec3
	}{
		{"bottom-left", core.NewVec2(0.1, 0.1), black},
		{"bottom-right", core.NewVec2(0.9, 0.1), white},
		{"top-left", core.NewVec2(0.1, 0.9), white},
		{"top-right", core.NewVec2(0.9, 0.9), black},
		{"v=0 edge stays on bottom row", core.NewVec2(0.1, 0.0), black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := texture.Evaluate(tt.uv, core.Vec3{})
			assert.True(t, result.Equals(tt.expected), "UV%v: expected %v, got %v", tt.uv, tt.expected, result)
		})
	}
}

func TestImageTexture_Wrapping(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	texture := NewImageTexture(1, 1, []core.Vec3{red})

	for _, uv := range []core.Vec2{
		core.NewVec2(0.5, 0.5),
		core.NewVec2(1.5, 0.5),
		core.NewVec2(0.5, 1.5),
		core.NewVec2(-0.5, -0.5),
		core.NewVec2(2.3, 3.7),
	} {
		assert.True(t, texture.Evaluate(uv, core.Vec3{}).Equals(red), "UV%v", uv)
	}
}

func TestImageTexture_Bilinear(t *testing.T) {
	texture := checker2x2().WithFilter(FilterBilinear)

	// Texel centres reproduce the texel exactly
	assert.InDelta(t, 0.0, texture.Evaluate(core.NewVec2(0.25, 0.25), core.Vec3{}).X, 1e-12)
	assert.InDelta(t, 1.0, texture.Evaluate(core.NewVec2(0.25, 0.75), core.Vec3{}).X, 1e-12)

	// The shared corner of all four texels averages them
	assert.InDelta(t, 0.5, texture.Evaluate(core.NewVec2(0.5, 0.5), core.Vec3{}).X, 1e-12)
}

func TestImageTexture_Empty(t *testing.T) {
	texture := NewImageTexture(0, 0, nil)
	assert.True(t, texture.Evaluate(core.NewVec2(0.3, 0.3), core.Vec3{}).IsZero())
}

func TestImageTexture_ShortPixels(t *testing.T) {
	pixels := []core.Vec3{core.White, core.White, core.White}
	uvs := []core.Vec2{core.NewVec2(0.9, 0.1), core.NewVec2(0.75, 0.25), core.NewVec2(0.1, 0.9)}

	for _, filter := range []TextureFilter{FilterNearest, FilterBilinear} {
		texture := NewImageTexture(2, 2, pixels).WithFilter(filter)
		for _, uv := range uvs {
			assert.NotPanics(t, func() {
				assert.True(t, texture.Evaluate(uv, core.Vec3{}).IsZero())
			})
		}
	}

	negative := NewImageTexture(-2, -2, pixels)
	assert.True(t, negative.Evaluate(core.NewVec2(0.5, 0.5), core.Vec3{}).IsZero())
}

func TestProceduralTextures(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	blue := core.NewVec3(0, 0, 1)

	checker := NewCheckerboardTexture(4, 4, 2, red, blue)
	assert.Equal(t, red, checker.Pixels[0])
	assert.Equal(t, blue, checker.Pixels[2])
	assert.Equal(t, red, checker.Pixels[2*4+2])

	gradient := NewGradientTexture(1, 3, red, blue)
	assert.True(t, gradient.Pixels[1].Equals(core.NewVec3(0.5, 0, 0.5)))

	uv := NewUVDebugTexture(3, 3)
	// Bottom-right texel is (u=1, v=0)
	assert.True(t, uv.Pixels[2*3+2].Equals(core.NewVec3(1, 0, 0)))
}
