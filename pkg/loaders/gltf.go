package loaders

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qmuntal/gltf"

	"github.com/df07/go-principled-bsdf/pkg/core"
	"github.com/df07/go-principled-bsdf/pkg/material"
)

var (
	ErrNoMaterials      = errors.New("no materials in glTF document")
	ErrMaterialNotFound = errors.New("material not found")
)

// MaterialAsset is a principled material imported from a glTF document
type MaterialAsset struct {
	ID       string // Unique per import
	Name     string
	Index    int // Position in the document's material list
	Material *material.Principled
}

// LoadGLTFMaterials converts every pbrMetallicRoughness material in a .gltf
// or .glb file to a Principled BSDF. Base color textures referenced by an
// external URI are loaded relative to the document; embedded images fall
// back to the base color factor. Texels are decoded from sRGB to linear and
// the rows are flipped, since glTF puts UV (0, 0) at the image's top-left.
func LoadGLTFMaterials(path string, opts ImageOptions) ([]MaterialAsset, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open glTF %s: %w", path, err)
	}
	if len(doc.Materials) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoMaterials)
	}

	baseDir := filepath.Dir(path)
	assets := make([]MaterialAsset, 0, len(doc.Materials))
	for i, m := range doc.Materials {
		if m == nil {
			continue
		}
		albedo, params, err := convertMaterial(doc, m, baseDir, opts)
		if err != nil {
			return nil, fmt.Errorf("material %d (%s): %w", i, m.Name, err)
		}

		name := m.Name
		if name == "" {
			name = fmt.Sprintf("material_%d", i)
		}
		assets = append(assets, MaterialAsset{
			ID:       uuid.NewString(),
			Name:     name,
			Index:    i,
			Material: material.NewPrincipled(albedo, params),
		})
	}
	return assets, nil
}

// FindMaterial selects an asset by name, or by index when key is numeric
func FindMaterial(assets []MaterialAsset, key string) (MaterialAsset, error) {
	for _, a := range assets {
		if a.Name == key {
			return a, nil
		}
	}
	if idx, err := strconv.Atoi(key); err == nil {
		for _, a := range assets {
			if a.Index == idx {
				return a, nil
			}
		}
	}
	return MaterialAsset{}, fmt.Errorf("%w: %q", ErrMaterialNotFound, key)
}

// convertMaterial maps glTF metallic-roughness onto principled parameters.
// glTF has no specular or tint controls, so those keep their defaults.
func convertMaterial(doc *gltf.Document, m *gltf.Material, baseDir string, opts ImageOptions) (material.ColorSource, material.PrincipledParams, error) {
	params := material.DefaultPrincipledParams()
	baseColor := core.White

	// glTF defaults: base color 1, metallic 1, roughness 1
	params.Metallic = 1
	params.Roughness = 1

	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return material.NewSolidColor(baseColor), params.Clamped(), nil
	}

	if pbr.BaseColorFactor != nil {
		f := pbr.BaseColorFactor
		baseColor = core.NewVec3(float64(f[0]), float64(f[1]), float64(f[2]))
	}
	if pbr.MetallicFactor != nil {
		params.Metallic = float64(*pbr.MetallicFactor)
	}
	if pbr.RoughnessFactor != nil {
		params.Roughness = float64(*pbr.RoughnessFactor)
	}

	if pbr.BaseColorTexture != nil {
		uri, ok := textureURI(doc, int(pbr.BaseColorTexture.Index))
		if ok {
			texture, err := LoadTexture(filepath.Join(baseDir, uri), opts)
			if err != nil {
				return nil, params, err
			}
			adaptTexture(texture, baseColor)
			return texture, params.Clamped(), nil
		}
	}

	return material.NewSolidColor(baseColor), params.Clamped(), nil
}

// textureURI resolves a texture index to an external image path
func textureURI(doc *gltf.Document, index int) (string, bool) {
	if index < 0 || index >= len(doc.Textures) {
		return "", false
	}
	tex := doc.Textures[index]
	if tex == nil || tex.Source == nil {
		return "", false
	}
	source := int(*tex.Source)
	if source < 0 || source >= len(doc.Images) || doc.Images[source] == nil {
		return "", false
	}
	uri := doc.Images[source].URI
	if uri == "" || strings.HasPrefix(uri, "data:") {
		return "", false
	}
	if unescaped, err := url.PathUnescape(uri); err == nil {
		uri = unescaped
	}
	return filepath.FromSlash(uri), true
}

// adaptTexture turns a texture decoded as stored into the linear, v-up form
// ImageTexture samples, multiplied by the base color factor
func adaptTexture(texture *material.ImageTexture, factor core.Vec3) {
	w, h := texture.Width, texture.Height
	for y := 0; y < h/2; y++ {
		top := texture.Pixels[y*w : (y+1)*w]
		bottom := texture.Pixels[(h-1-y)*w : (h-y)*w]
		for x := range top {
			top[x], bottom[x] = bottom[x], top[x]
		}
	}
	for i, p := range texture.Pixels {
		linear := core.NewVec3(srgbToLinear(p.X), srgbToLinear(p.Y), srgbToLinear(p.Z))
		texture.Pixels[i] = linear.MultiplyVec(factor)
	}
}

// srgbToLinear applies the sRGB decoding curve to one channel
func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
