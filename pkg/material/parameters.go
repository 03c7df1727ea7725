package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-principled-bsdf/pkg/core"
)

var (
	ErrUnknownParameter  = errors.New("unknown parameter")
	ErrParameterType     = errors.New("parameter type mismatch")
	ErrReadOnlyParameter = errors.New("parameter is read-only")
	ErrParameterValue    = errors.New("parameter value is not finite")
)

// ParameterType tags the payload of a Parameter
type ParameterType int

const (
	ParameterNone ParameterType = iota
	ParameterFloat
	ParameterColor
)

func (t ParameterType) String() string {
	switch t {
	case ParameterFloat:
		return "float"
	case ParameterColor:
		return "color"
	}
	return "none"
}

// Parameter is an editable material value together with its declared range
type Parameter struct {
	Type  ParameterType
	Value float64   // ParameterFloat payload
	Color core.Vec3 // ParameterColor payload
	Min   float64
	Max   float64
}

// FloatParameter wraps a scalar for SetParameter
func FloatParameter(v float64) Parameter {
	return Parameter{Type: ParameterFloat, Value: v}
}

// ColorParameter wraps a color for SetParameter
func ColorParameter(c core.Vec3) Parameter {
	return Parameter{Type: ParameterColor, Color: c}
}

// ParameterSet is the reflection surface editors use to expose sliders.
// SetParameter must not run concurrently with Eval/PDF/SampleScattered.
type ParameterSet interface {
	ParameterCount() int
	ParameterName(idx int) string
	GetParameter(name string) Parameter
	SetParameter(name string, p Parameter) error
}

const colorParameterName = "Color"

// ParameterCount returns the number of base parameters
func (b *BSDFBase) ParameterCount() int {
	return 1
}

// ParameterName returns the base parameter at idx, or "" when out of range
func (b *BSDFBase) ParameterName(idx int) string {
	if idx == 0 {
		return colorParameterName
	}
	return ""
}

// GetParameter returns the base color when it is a constant.
// Textured colors report ParameterNone.
func (b *BSDFBase) GetParameter(name string) Parameter {
	if name != colorParameterName {
		return Parameter{}
	}
	solid, ok := b.albedo.(*SolidColor)
	if !ok {
		return Parameter{}
	}
	return Parameter{Type: ParameterColor, Color: solid.Color, Min: 0, Max: 1}
}

// SetParameter replaces a constant base color
func (b *BSDFBase) SetParameter(name string, p Parameter) error {
	if name != colorParameterName {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	if p.Type != ParameterColor {
		return fmt.Errorf("%w: %q expects %s, got %s", ErrParameterType, name, ParameterColor, p.Type)
	}
	for _, c := range []float64{p.Color.X, p.Color.Y, p.Color.Z} {
		if !finite(c) {
			return fmt.Errorf("%w: %q got %v", ErrParameterValue, name, p.Color)
		}
	}
	if _, ok := b.albedo.(*SolidColor); !ok {
		return fmt.Errorf("%w: %q is texture-backed", ErrReadOnlyParameter, name)
	}
	b.albedo = NewSolidColor(p.Color)
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// floatParam describes one scalar of PrincipledParams
type floatParam struct {
	name     string
	min, max float64
	field    func(*PrincipledParams) *float64
}

var principledParams = [...]floatParam{
	{"Roughness", MinRoughness, 1, func(p *PrincipledParams) *float64 { return &p.Roughness }},
	{"Specular", 0, 1, func(p *PrincipledParams) *float64 { return &p.Specular }},
	{"Metallic", 0, 1, func(p *PrincipledParams) *float64 { return &p.Metallic }},
	{"SpecularTint", 0, 1, func(p *PrincipledParams) *float64 { return &p.SpecularTint }},
}

var principledParamIndex = func() map[string]int {
	index := make(map[string]int, len(principledParams))
	for i, p := range principledParams {
		index[p.name] = i
	}
	return index
}()

func (fp floatParam) parameter(v float64) Parameter {
	return Parameter{Type: ParameterFloat, Value: v, Min: fp.min, Max: fp.max}
}
