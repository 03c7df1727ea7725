package material

import (
	"github.com/df07/go-principled-bsdf/pkg/core"
)

// BSDF is a surface scattering model queried by an integrator.
// All directions are world space and point away from the surface.
type BSDF interface {
	// Eval returns the scattered value for the direction pair, restricted to types
	Eval(wo, wi core.Vec3, si *SurfaceInteraction, types ScatterType) core.Vec3

	// PDF returns the density with which SampleScattered proposes wi given wo
	PDF(wo, wi core.Vec3, si *SurfaceInteraction, types ScatterType) float64

	// SampleScattered draws an incoming direction from two uniform numbers.
	// A false result means the sample carries no light.
	SampleScattered(wo core.Vec3, sample core.Vec2, si *SurfaceInteraction, types ScatterType) (ScatterSample, bool)

	MatchesTypes(types ScatterType) bool
	ColorAt(si *SurfaceInteraction) core.Vec3

	ParameterSet
}

// ScatterSample is the result of BSDF sampling
type ScatterSample struct {
	Wi          core.Vec3   // Sampled incoming direction (world space)
	Value       core.Vec3   // Eval(wo, Wi)
	PDF         float64     // PDF(wo, Wi)
	SampledType ScatterType // Lobe that proposed Wi
}

// SurfaceInteraction is the shading-point geometry a BSDF needs
type SurfaceInteraction struct {
	Point      core.Vec3  // Point of intersection
	Normal     core.Vec3  // Shading normal
	GeomNormal core.Vec3  // Geometric normal, decides reflection vs transmission
	UV         core.Vec2  // Texture coordinates
	Frame      core.Frame // Local frame around Normal
}

// NewSurfaceInteraction builds an interaction and its shading frame.
// A zero geometric normal defaults to the shading normal.
func NewSurfaceInteraction(point core.Vec3, uv core.Vec2, normal, geomNormal core.Vec3) *SurfaceInteraction {
	normal = normal.Normalize()
	if geomNormal.IsZero() {
		geomNormal = normal
	}
	return &SurfaceInteraction{
		Point:      point,
		Normal:     normal,
		GeomNormal: geomNormal.Normalize(),
		UV:         uv,
		Frame:      core.NewFrame(normal),
	}
}

// WorldToLocal expresses a world direction in the shading frame
func (si *SurfaceInteraction) WorldToLocal(v core.Vec3) core.Vec3 {
	return si.Frame.WorldToLocal(v)
}

// LocalToWorld maps a shading-frame direction to world space
func (si *SurfaceInteraction) LocalToWorld(v core.Vec3) core.Vec3 {
	return si.Frame.LocalToWorld(v)
}

// BSDFBase carries what every BSDF shares: the declared capability set and
// the base color source. Concrete models hold one and delegate to it.
type BSDFBase struct {
	types  ScatterType
	albedo ColorSource
}

// NewBSDFBase creates a base record
func NewBSDFBase(types ScatterType, albedo ColorSource) BSDFBase {
	if albedo == nil {
		albedo = NewSolidColor(core.White)
	}
	return BSDFBase{types: types, albedo: albedo}
}

// Types returns the declared capability set
func (b *BSDFBase) Types() ScatterType {
	return b.types
}

// MatchesTypes reports whether a request can be served: it must share a
// hemisphere bit (reflection/transmission) and a lobe bit with the model.
func (b *BSDFBase) MatchesTypes(types ScatterType) bool {
	common := b.types & types
	return common&hemisphereTypes != 0 && common&lobeTypes != 0
}

// ColorAt returns the base color at the shading point
func (b *BSDFBase) ColorAt(si *SurfaceInteraction) core.Vec3 {
	return b.albedo.Evaluate(si.UV, si.Point)
}

// Albedo returns the color source
func (b *BSDFBase) Albedo() ColorSource {
	return b.albedo
}

// maskHemisphere keeps reflection or transmission depending on whether wo
// and wi lie on the same side of the geometric normal.
func maskHemisphere(wo, wi, geomNormal core.Vec3, types ScatterType) ScatterType {
	if wo.Dot(geomNormal)*wi.Dot(geomNormal) > 0 {
		return types &^ Transmission
	}
	return types &^ Reflection
}
