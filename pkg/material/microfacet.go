package material

import (
	"math"

	"github.com/df07/go-principled-bsdf/pkg/core"
)

// GGX (Trowbridge-Reitz) microfacet distribution. All directions are in the
// local shading frame; alpha is the width parameter.

// ggxD evaluates the normal distribution for half vector wh
func ggxD(wh core.Vec3, alpha float64) float64 {
	cos2 := wh.Z * wh.Z
	if cos2 == 0 {
		return 0
	}
	a2 := alpha * alpha
	d := cos2*(a2-1) + 1
	return a2 / (math.Pi * d * d)
}

// ggxG1 is Smith's masking term for one direction
func ggxG1(w, wh core.Vec3, alpha float64) float64 {
	// Backfacing microfacet relative to w
	if w.Dot(wh)*core.CosTheta(w) <= 0 {
		return 0
	}
	cos2 := w.Z * w.Z
	if cos2 == 0 {
		return 0
	}
	tan2 := (1 - cos2) / cos2
	return 2 / (1 + math.Sqrt(1+alpha*alpha*tan2))
}

// ggxG is the separable Smith masking-shadowing term
func ggxG(wo, wi, wh core.Vec3, alpha float64) float64 {
	return ggxG1(wo, wh, alpha) * ggxG1(wi, wh, alpha)
}

// ggxPdf is the density of ggxSampleHalfVector over solid angle of wh
func ggxPdf(wh core.Vec3, alpha float64) float64 {
	return ggxD(wh, alpha) * core.AbsCosTheta(wh)
}

// ggxSampleHalfVector draws wh in the +Z hemisphere proportional to D·cosθ
func ggxSampleHalfVector(u core.Vec2, alpha float64) core.Vec3 {
	u1 := min(u.X, oneMinusEpsilon)
	tan2 := alpha * alpha * u1 / (1 - u1)
	cosTheta := 1 / math.Sqrt(1+tan2)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	return core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// halfVectorJacobian converts a half-vector density to an incident-direction density
func halfVectorJacobian(wi, wh core.Vec3) float64 {
	denom := 4 * wi.AbsDot(wh)
	if denom < jacobianEpsilon {
		return 0
	}
	return 1 / denom
}

const (
	oneMinusEpsilon = 0x1.fffffffffffffp-1
	jacobianEpsilon = 1e-9
)
