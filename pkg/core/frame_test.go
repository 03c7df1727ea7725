package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_RoundTrip(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 0, -1),
		NewVec3(1, 0, 0),
		NewVec3(0.3, -0.5, 0.8).Normalize(),
	}
	sampler := NewSeededSampler(5)

	for _, n := range normals {
		frame := NewFrame(n)
		require.True(t, frame.WorldToLocal(n).Equals(NewVec3(0, 0, 1)), "normal %v should map to +Z", n)
		require.True(t, frame.Normal().Equals(n.Normalize()))

		for i := 0; i < 50; i++ {
			w := SampleOnUnitSphere(sampler.Get2D())
			local := frame.WorldToLocal(w)
			assert.InDelta(t, 1.0, local.Length(), 1e-9)
			assert.True(t, frame.LocalToWorld(local).Equals(w), "round trip of %v failed", w)
		}
	}
}

func TestFrame_PreservesDot(t *testing.T) {
	frame := NewFrame(NewVec3(1, 1, 1))
	a := NewVec3(0.2, 0.9, -0.1).Normalize()
	b := NewVec3(-0.7, 0.1, 0.4).Normalize()
	assert.InDelta(t, a.Dot(b), frame.WorldToLocal(a).Dot(frame.WorldToLocal(b)), 1e-12)
}

func TestSameHemisphere(t *testing.T) {
	assert.True(t, SameHemisphere(NewVec3(0, 0, 1), NewVec3(1, 0, 0.1)))
	assert.False(t, SameHemisphere(NewVec3(0, 0, 1), NewVec3(1, 0, -0.1)))
	assert.False(t, SameHemisphere(NewVec3(0, 0, 1), NewVec3(1, 0, 0)))
	assert.Equal(t, 0.5, AbsCosTheta(NewVec3(0, 0, -0.5)))
}
