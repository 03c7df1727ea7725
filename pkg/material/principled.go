package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-principled-bsdf/pkg/core"
)

// MinRoughness keeps the GGX lobe from collapsing to a delta
const MinRoughness = 0.02

// PrincipledParams are the scalar controls of a Principled BSDF
type PrincipledParams struct {
	Roughness    float64 // [0.02, 1] width of both lobes
	Specular     float64 // [0, 1] maps to normal reflectance [0, 0.08]
	Metallic     float64 // [0, 1] dielectric to conductor; 1 disables diffuse
	SpecularTint float64 // [0, 1] how much the specular lobe takes the base hue
}

// DefaultPrincipledParams returns the defaults editors start from
func DefaultPrincipledParams() PrincipledParams {
	return PrincipledParams{
		Roughness:    0.3,
		Specular:     0.5,
		Metallic:     0.0,
		SpecularTint: 0.0,
	}
}

// Clamped returns the params with every field clamped to its declared range.
// NaN becomes the range minimum.
func (p PrincipledParams) Clamped() PrincipledParams {
	for _, fp := range principledParams {
		field := fp.field(&p)
		if math.IsNaN(*field) {
			*field = fp.min
			continue
		}
		*field = core.Clamp(*field, fp.min, fp.max)
	}
	return p
}

var _ BSDF = (*Principled)(nil)

// Principled blends a retro-reflective diffuse lobe with a GGX specular lobe
// under a single importance-sampled distribution. It only reflects.
type Principled struct {
	base   BSDFBase
	params PrincipledParams
}

// NewPrincipled creates a principled BSDF over any color source
func NewPrincipled(albedo ColorSource, params PrincipledParams) *Principled {
	return &Principled{
		base:   NewBSDFBase(Reflection|Diffuse|Glossy, albedo),
		params: params.Clamped(),
	}
}

// NewPrincipledColor creates a principled BSDF with a constant base color
func NewPrincipledColor(albedo core.Vec3, params PrincipledParams) *Principled {
	return NewPrincipled(NewSolidColor(albedo), params)
}

// Params returns a snapshot of the scalar parameters
func (p *Principled) Params() PrincipledParams {
	return p.params
}

// SetParams replaces all scalar parameters at once, clamping them
func (p *Principled) SetParams(params PrincipledParams) {
	p.params = params.Clamped()
}

// Albedo returns the base color source
func (p *Principled) Albedo() ColorSource {
	return p.base.Albedo()
}

// MatchesTypes delegates to the base record
func (p *Principled) MatchesTypes(types ScatterType) bool {
	return p.base.MatchesTypes(types)
}

// ColorAt delegates to the base record
func (p *Principled) ColorAt(si *SurfaceInteraction) core.Vec3 {
	return p.base.ColorAt(si)
}

// Eval returns the combined diffuse and specular value for wo and wi
func (p *Principled) Eval(wo, wi core.Vec3, si *SurfaceInteraction, types ScatterType) core.Vec3 {
	types = maskHemisphere(wo, wi, si.GeomNormal, types)
	if !p.MatchesTypes(types) {
		return core.Vec3{}
	}

	return p.evalLocal(si.WorldToLocal(wo), si.WorldToLocal(wi), p.ColorAt(si), types)
}

func (p *Principled) evalLocal(wo, wi, albedo core.Vec3, types ScatterType) core.Vec3 {
	wh := wo.Add(wi).Normalize()
	if wh.IsZero() {
		return core.Vec3{}
	}

	var result core.Vec3
	if types&Diffuse != 0 {
		result = albedo.Multiply((1 - p.params.Metallic) * p.diffuseTerm(wo, wi))
	}
	if types&Glossy != 0 {
		specAlbedo := p.specularAlbedo(albedo, wo.Dot(wh))
		result = result.Add(specAlbedo.Multiply(p.specularTerm(wo, wi)))
	}
	return result
}

// specularAlbedo tints white toward the base color, then whitens it again
// toward grazing with a Schlick-style cubic edge term.
func (p *Principled) specularAlbedo(albedo core.Vec3, cosOH float64) core.Vec3 {
	tint := math.Max(p.params.SpecularTint, p.params.Metallic)
	specAlbedo := albedo.Lerp(core.White, 1-tint)

	edge := 1 - core.Clamp(cosOH, 0, 1)
	return specAlbedo.Lerp(core.White, edge*edge*edge)
}

// diffuseTerm is the uncolored Disney diffuse response
func (p *Principled) diffuseTerm(wo, wi core.Vec3) float64 {
	if p.params.Metallic >= 1 {
		return 0
	}

	wh := wo.Add(wi).Normalize()
	cosD := wh.AbsDot(wi)
	fd90 := 0.5 + 2*cosD*cosD*p.params.Roughness

	lightFalloff := 1 + (fd90-1)*core.Pow5(1-core.AbsCosTheta(wi))
	viewFalloff := 1 + (fd90-1)*core.Pow5(1-core.AbsCosTheta(wo))
	return lightFalloff * viewFalloff / math.Pi
}

// specularTerm is the uncolored Cook-Torrance response
func (p *Principled) specularTerm(wo, wi core.Vec3) float64 {
	cosO := core.CosTheta(wo)
	cosI := core.CosTheta(wi)
	if cosO*cosI <= 0 {
		return 0
	}

	wh := wo.Add(wi).Normalize()
	d := ggxD(wh, p.distributionAlpha())
	if d == 0 {
		return 0
	}

	f := principledFresnel(wo.Dot(wh), p.params.Specular, p.params.Metallic)
	g := ggxG(wo, wi, wh, p.maskingAlpha())

	return f * d * g / (4 * math.Abs(cosI) * math.Abs(cosO))
}

// distributionAlpha is the GGX width for D and for sampling
func (p *Principled) distributionAlpha() float64 {
	return p.params.Roughness * p.params.Roughness
}

// maskingAlpha widens roughness for G to soften grazing artifacts
func (p *Principled) maskingAlpha() float64 {
	r := 0.5 + 0.5*p.params.Roughness
	return r * r
}

// lobeWeights returns the selection probabilities of the diffuse and glossy
// lobes for a request.
func lobeWeights(types ScatterType) (diffuse, glossy float64) {
	hasDiffuse := types&Diffuse != 0
	hasGlossy := types&Glossy != 0
	switch {
	case hasDiffuse && hasGlossy:
		return 0.5, 0.5
	case hasDiffuse:
		return 1, 0
	case hasGlossy:
		return 0, 1
	}
	return 0, 0
}

// PDF returns the mixture density of both lobes for wi, whichever lobe
// actually produced it.
func (p *Principled) PDF(wo, wi core.Vec3, si *SurfaceInteraction, types ScatterType) float64 {
	types = maskHemisphere(wo, wi, si.GeomNormal, types)
	if !p.MatchesTypes(types) {
		return 0
	}
	return p.pdfLocal(si.WorldToLocal(wo), si.WorldToLocal(wi), types)
}

func (p *Principled) pdfLocal(wo, wi core.Vec3, types ScatterType) float64 {
	wh := wo.Add(wi).Normalize()
	if wh.IsZero() {
		return 0
	}

	diffuseWeight, glossyWeight := lobeWeights(types)
	pdf := 0.0
	if diffuseWeight > 0 {
		pdf += diffuseWeight * core.CosineHemispherePDF(core.CosTheta(wi))
	}
	if glossyWeight > 0 {
		pdf += glossyWeight * ggxPdf(wh, p.distributionAlpha()) * halfVectorJacobian(wi, wh)
	}
	return pdf
}

// SampleScattered proposes wi from the diffuse lobe or the GGX lobe, then
// reports the combined Eval and PDF for it.
func (p *Principled) SampleScattered(wo core.Vec3, sample core.Vec2, si *SurfaceInteraction, types ScatterType) (ScatterSample, bool) {
	if !p.MatchesTypes(types) {
		return ScatterSample{}, false
	}

	woLocal := si.WorldToLocal(wo)
	if core.CosTheta(woLocal) == 0 {
		return ScatterSample{}, false
	}

	diffuseWeight, glossyWeight := lobeWeights(types)
	var wiLocal core.Vec3
	var sampled ScatterType
	if sample.X < diffuseWeight || glossyWeight == 0 {
		u := core.NewVec2(sample.X/diffuseWeight, sample.Y)
		wiLocal = core.SampleCosineHemisphere(u)
		if woLocal.Z < 0 {
			wiLocal.Z = -wiLocal.Z
		}
		sampled = Reflection | Diffuse
	} else {
		u := core.NewVec2((sample.X-diffuseWeight)/glossyWeight, sample.Y)
		wh := ggxSampleHalfVector(u, p.distributionAlpha())
		if woLocal.Z < 0 {
			wh = wh.Negate()
		}
		wiLocal = core.Reflect(woLocal, wh)
		sampled = Reflection | Glossy
	}

	wi := si.LocalToWorld(wiLocal)
	if wo.Dot(si.GeomNormal)*wi.Dot(si.GeomNormal) <= 0 {
		return ScatterSample{}, false
	}

	pdf := p.PDF(wo, wi, si, types)
	value := p.Eval(wo, wi, si, types)
	if pdf <= 0 || !core.IsFinite(pdf) || !value.IsFinite() {
		return ScatterSample{}, false
	}

	return ScatterSample{
		Wi:          wi,
		Value:       value,
		PDF:         pdf,
		SampledType: sampled,
	}, true
}

// ParameterCount is the base count plus the four principled scalars
func (p *Principled) ParameterCount() int {
	return p.base.ParameterCount() + len(principledParams)
}

// ParameterName lists base parameters first, then the principled scalars
func (p *Principled) ParameterName(idx int) string {
	baseCount := p.base.ParameterCount()
	if idx < baseCount {
		return p.base.ParameterName(idx)
	}
	idx -= baseCount
	if idx >= len(principledParams) {
		return ""
	}
	return principledParams[idx].name
}

// GetParameter looks the name up in the base record first
func (p *Principled) GetParameter(name string) Parameter {
	if param := p.base.GetParameter(name); param.Type != ParameterNone {
		return param
	}
	idx, ok := principledParamIndex[name]
	if !ok {
		return Parameter{}
	}
	fp := principledParams[idx]
	return fp.parameter(*fp.field(&p.params))
}

// SetParameter offers the value to the base record first. Scalars are
// clamped into their declared range; NaN and infinities are rejected.
func (p *Principled) SetParameter(name string, param Parameter) error {
	if err := p.base.SetParameter(name, param); !errors.Is(err, ErrUnknownParameter) {
		return err
	}

	idx, ok := principledParamIndex[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	if param.Type != ParameterFloat {
		return fmt.Errorf("%w: %q expects %s, got %s", ErrParameterType, name, ParameterFloat, param.Type)
	}
	if !finite(param.Value) {
		return fmt.Errorf("%w: %q got %v", ErrParameterValue, name, param.Value)
	}
	fp := principledParams[idx]
	*fp.field(&p.params) = core.Clamp(param.Value, fp.min, fp.max)
	return nil
}
