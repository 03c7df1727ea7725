package material

import "strings"

// ScatterType is a bitmask describing kinds of scattering. It is used both as
// a request filter and as the capability set a BSDF declares.
type ScatterType int

const (
	Reflection ScatterType = 1 << iota
	Transmission
	Diffuse
	Glossy
	Specular

	All = Reflection | Transmission | Diffuse | Glossy | Specular
)

const (
	hemisphereTypes = Reflection | Transmission
	lobeTypes       = Diffuse | Glossy | Specular
)

// Has reports whether every bit of other is set
func (s ScatterType) Has(other ScatterType) bool {
	return s&other == other
}

func (s ScatterType) String() string {
	if s == 0 {
		return "none"
	}
	names := []struct {
		bit  ScatterType
		name string
	}{
		{Reflection, "reflection"},
		{Transmission, "transmission"},
		{Diffuse, "diffuse"},
		{Glossy, "glossy"},
		{Specular, "specular"},
	}
	var parts []string
	for _, n := range names {
		if s&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
