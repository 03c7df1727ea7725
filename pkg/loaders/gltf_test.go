package loaders

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-principled-bsdf/pkg/core"
	"github.com/df07/go-principled-bsdf/pkg/material"
)

const testGLTF = `{
  "asset": {"version": "2.0"},
  "materials": [
    {
      "name": "Gold",
      "pbrMetallicRoughness": {
        "baseColorFactor": [1.0, 0.75, 0.25, 1.0],
        "metallicFactor": 1.0,
        "roughnessFactor": 0.5
      }
    },
    {
      "name": "Painted Tiles",
      "pbrMetallicRoughness": {
        "baseColorFactor": [0.5, 0.5, 0.5, 1.0],
        "baseColorTexture": {"index": 0},
        "metallicFactor": 0.0,
        "roughnessFactor": 0.75
      }
    },
    {}
  ],
  "textures": [{"source": 0}],
  "images": [{"uri": "textures/quad%20map.png"}]
}`

func writeGLTF(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))
	writePNG(t, filepath.Join(dir, "textures"), "quad map.png", quadImage())

	path := filepath.Join(dir, "scene.gltf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadGLTFMaterials(t *testing.T) {
	assets, err := LoadGLTFMaterials(writeGLTF(t, testGLTF), ImageOptions{})
	require.NoError(t, err)
	require.Len(t, assets, 3)

	ids := map[string]bool{}
	for _, a := range assets {
		assert.NotEmpty(t, a.ID)
		ids[a.ID] = true
	}
	assert.Len(t, ids, 3, "asset IDs should be unique")

	t.Run("factors", func(t *testing.T) {
		gold := assets[0]
		assert.Equal(t, "Gold", gold.Name)
		assert.Equal(t, 0, gold.Index)

		params := gold.Material.Params()
		assert.InDelta(t, 1.0, params.Metallic, 1e-6)
		assert.InDelta(t, 0.5, params.Roughness, 1e-6)
		assert.Equal(t, material.DefaultPrincipledParams().Specular, params.Specular)
		assert.Equal(t, material.DefaultPrincipledParams().SpecularTint, params.SpecularTint)

		got := gold.Material.Albedo().Evaluate(core.Vec2{}, core.Vec3{})
		assertColor(t, core.NewVec3(1, 0.75, 0.25), got)
	})

	t.Run("texture", func(t *testing.T) {
		tiles := assets[1]
		assert.Equal(t, "Painted Tiles", tiles.Name)
		assert.InDelta(t, 0.0, tiles.Material.Params().Metallic, 1e-6)
		assert.InDelta(t, 0.75, tiles.Material.Params().Roughness, 1e-6)

		texture, ok := tiles.Material.Albedo().(*material.ImageTexture)
		require.True(t, ok, "expected an image texture, got %T", tiles.Material.Albedo())
		assert.Equal(t, material.FilterBilinear, texture.Filter)

		// glTF UVs start at the image's top-left: white, then green below it,
		// both scaled by the 0.5 base color factor
		assertColor(t, core.NewVec3(0.5, 0.5, 0.5), texture.Evaluate(core.NewVec2(0.25, 0.25), core.Vec3{}))
		assertColor(t, core.NewVec3(0.5, 0, 0), texture.Evaluate(core.NewVec2(0.75, 0.25), core.Vec3{}))
		assertColor(t, core.NewVec3(0, 0.5, 0), texture.Evaluate(core.NewVec2(0.25, 0.75), core.Vec3{}))
	})

	t.Run("defaults", func(t *testing.T) {
		unnamed := assets[2]
		assert.Equal(t, "material_2", unnamed.Name)
		assert.InDelta(t, 1.0, unnamed.Material.Params().Metallic, 1e-6)
		assert.InDelta(t, 1.0, unnamed.Material.Params().Roughness, 1e-6)
		assertColor(t, core.White, unnamed.Material.Albedo().Evaluate(core.Vec2{}, core.Vec3{}))
	})
}

func TestLoadGLTFMaterials_SRGBTexture(t *testing.T) {
	dir := t.TempDir()
	gray := image.NewRGBA(image.Rect(0, 0, 1, 1))
	gray.Set(0, 0, color.RGBA{R: 188, G: 188, B: 188, A: 255})
	writePNG(t, dir, "gray.png", gray)

	path := filepath.Join(dir, "gray.gltf")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "asset": {"version": "2.0"},
  "materials": [{"pbrMetallicRoughness": {"baseColorTexture": {"index": 0}}}],
  "textures": [{"source": 0}],
  "images": [{"uri": "gray.png"}]
}`), 0o644))

	assets, err := LoadGLTFMaterials(path, ImageOptions{})
	require.NoError(t, err)
	require.Len(t, assets, 1)

	// sRGB 188 decodes to roughly half intensity
	got := assets[0].Material.Albedo().Evaluate(core.NewVec2(0.5, 0.5), core.Vec3{})
	assertColor(t, core.NewVec3(0.5, 0.5, 0.5), got)
}

func TestSRGBToLinear(t *testing.T) {
	assert.Equal(t, 0.0, srgbToLinear(0))
	assert.InDelta(t, 1.0, srgbToLinear(1), 1e-12)
	assert.InDelta(t, 0.04/12.92, srgbToLinear(0.04), 1e-12)
	assert.InDelta(t, 0.2140, srgbToLinear(0.5), 1e-4)
}

func TestLoadGLTFMaterials_NoMaterials(t *testing.T) {
	path := writeGLTF(t, `{"asset": {"version": "2.0"}}`)
	_, err := LoadGLTFMaterials(path, ImageOptions{})
	assert.ErrorIs(t, err, ErrNoMaterials)
}

func TestLoadGLTFMaterials_MissingTexture(t *testing.T) {
	path := writeGLTF(t, `{
  "asset": {"version": "2.0"},
  "materials": [{"pbrMetallicRoughness": {"baseColorTexture": {"index": 0}}}],
  "textures": [{"source": 0}],
  "images": [{"uri": "missing.png"}]
}`)
	_, err := LoadGLTFMaterials(path, ImageOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadGLTFMaterials_NotFound(t *testing.T) {
	_, err := LoadGLTFMaterials(filepath.Join(t.TempDir(), "missing.gltf"), ImageOptions{})
	assert.Error(t, err)
}

func TestFindMaterial(t *testing.T) {
	assets := []MaterialAsset{
		{Name: "Gold", Index: 0},
		{Name: "1", Index: 2},
		{Name: "Copper", Index: 1},
	}

	tests := []struct {
		key   string
		index int
	}{
		{"Gold", 0},
		{"Copper", 1},
		{"1", 2}, // Names take precedence over indices
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			asset, err := FindMaterial(assets, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.index, asset.Index)
		})
	}

	_, err := FindMaterial(assets, "Silver")
	assert.ErrorIs(t, err, ErrMaterialNotFound)
	_, err = FindMaterial(assets, "7")
	assert.ErrorIs(t, err, ErrMaterialNotFound)
}
