package material

import (
	"math"

	"github.com/df07/go-principled-bsdf/pkg/core"
)

// Conductor constants used by the metallic end of the principled Fresnel blend
const (
	conductorEta = 1.6
	conductorK   = 0.4

	// maxDielectricReflectance is the normal-incidence reflectance at Specular=1
	maxDielectricReflectance = 0.08
)

// FresnelSchlick approximates dielectric reflectance from the reflectance at
// normal incidence. cosD is clamped to [0,1].
func FresnelSchlick(cosD, normalReflectance float64) float64 {
	cosD = core.Clamp(cosD, 0, 1)
	return normalReflectance + (1-normalReflectance)*core.Pow5(1-cosD)
}

// FresnelConductor returns the unpolarized reflectance of a conductor with
// refractive index eta and absorption k.
func FresnelConductor(cosi, eta, k float64) float64 {
	cosi = core.Clamp(math.Abs(cosi), 0, 1)
	cos2 := cosi * cosi
	etaK2 := eta*eta + k*k

	tmp := etaK2 * cos2
	rParallel2 := (tmp - 2*eta*cosi + 1) / (tmp + 2*eta*cosi + 1)
	rPerpendicular2 := (etaK2 - 2*eta*cosi + cos2) / (etaK2 + 2*eta*cosi + cos2)

	return (rParallel2 + rPerpendicular2) / 2
}

// principledFresnel blends dielectric Schlick and conductor Fresnel by metallic
func principledFresnel(cosD, specular, metallic float64) float64 {
	normalReflectance := core.Lerp(0, maxDielectricReflectance, specular)
	dielectric := FresnelSchlick(cosD, normalReflectance)
	conductor := FresnelConductor(core.Clamp(cosD, 0, 1), conductorEta, conductorK)
	return core.Lerp(dielectric, conductor, metallic)
}
