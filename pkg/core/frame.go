package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame is an orthonormal shading basis. Its columns are the tangent,
// bitangent and normal, so local +Z is the normal.
type Frame struct {
	basis mgl64.Mat3
}

// NewFrame builds a frame around a normal with an arbitrary tangent
func NewFrame(normal Vec3) Frame {
	n := normal.Normalize()

	// Find a vector perpendicular to normal
	var nt Vec3
	if math.Abs(n.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	tangent := nt.Cross(n).Normalize()
	bitangent := n.Cross(tangent)

	return NewFrameFromAxes(tangent, bitangent, n)
}

// NewFrameFromAxes builds a frame from three orthonormal axes
func NewFrameFromAxes(tangent, bitangent, normal Vec3) Frame {
	return Frame{basis: mgl64.Mat3FromCols(toMgl(tangent), toMgl(bitangent), toMgl(normal))}
}

// Normal returns the frame's pole axis in world space
func (f Frame) Normal() Vec3 {
	return fromMgl(f.basis.Col(2))
}

// WorldToLocal expresses a world-space direction in the frame
func (f Frame) WorldToLocal(v Vec3) Vec3 {
	return fromMgl(f.basis.Transpose().Mul3x1(toMgl(v)))
}

// LocalToWorld maps a local direction back to world space
func (f Frame) LocalToWorld(v Vec3) Vec3 {
	return fromMgl(f.basis.Mul3x1(toMgl(v)))
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// CosTheta returns the cosine between a local direction and the frame normal
func CosTheta(w Vec3) float64 {
	return w.Z
}

// AbsCosTheta returns |CosTheta(w)|
func AbsCosTheta(w Vec3) float64 {
	return math.Abs(w.Z)
}

// SameHemisphere reports whether two local directions lie on the same side of the surface
func SameHemisphere(a, b Vec3) bool {
	return a.Z*b.Z > 0
}
