package material

import (
	"math"

	"github.com/df07/go-principled-bsdf/pkg/core"
)

var _ BSDF = (*Lambertian)(nil)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	base BSDFBase
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return NewTexturedLambertian(NewSolidColor(albedo))
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedo ColorSource) *Lambertian {
	return &Lambertian{base: NewBSDFBase(Reflection|Diffuse, albedo)}
}

func (l *Lambertian) MatchesTypes(types ScatterType) bool {
	return l.base.MatchesTypes(types)
}

func (l *Lambertian) ColorAt(si *SurfaceInteraction) core.Vec3 {
	return l.base.ColorAt(si)
}

// Eval returns albedo/π for directions on the same side of the surface
func (l *Lambertian) Eval(wo, wi core.Vec3, si *SurfaceInteraction, types ScatterType) core.Vec3 {
	if !l.MatchesTypes(maskHemisphere(wo, wi, si.GeomNormal, types)) {
		return core.Vec3{}
	}
	return l.ColorAt(si).Multiply(1.0 / math.Pi)
}

// PDF is the cosine-weighted hemisphere density cos(θ)/π
func (l *Lambertian) PDF(wo, wi core.Vec3, si *SurfaceInteraction, types ScatterType) float64 {
	if !l.MatchesTypes(maskHemisphere(wo, wi, si.GeomNormal, types)) {
		return 0
	}
	return core.CosineHemispherePDF(wi.Dot(si.Normal))
}

// SampleScattered generates a cosine-weighted direction on wo's side
func (l *Lambertian) SampleScattered(wo core.Vec3, sample core.Vec2, si *SurfaceInteraction, types ScatterType) (ScatterSample, bool) {
	if !l.MatchesTypes(types) {
		return ScatterSample{}, false
	}

	wiLocal := core.SampleCosineHemisphere(sample)
	if si.WorldToLocal(wo).Z < 0 {
		wiLocal.Z = -wiLocal.Z
	}
	wi := si.LocalToWorld(wiLocal)

	pdf := l.PDF(wo, wi, si, types)
	if pdf <= 0 {
		return ScatterSample{}, false
	}
	return ScatterSample{
		Wi:          wi,
		Value:       l.Eval(wo, wi, si, types),
		PDF:         pdf,
		SampledType: Reflection | Diffuse,
	}, true
}

// ParameterCount returns the base count; Lambertian has no scalar controls
func (l *Lambertian) ParameterCount() int {
	return l.base.ParameterCount()
}

func (l *Lambertian) ParameterName(idx int) string {
	return l.base.ParameterName(idx)
}

func (l *Lambertian) GetParameter(name string) Parameter {
	return l.base.GetParameter(name)
}

func (l *Lambertian) SetParameter(name string, param Parameter) error {
	return l.base.SetParameter(name, param)
}
