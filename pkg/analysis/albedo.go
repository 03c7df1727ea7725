package analysis

import (
	"context"
	"math"
	"time"

	"github.com/df07/go-principled-bsdf/pkg/core"
	"github.com/df07/go-principled-bsdf/pkg/material"
)

// EstimateAlbedo estimates the directional albedo for wo by importance
// sampling the BSDF: the mean of Value*|cos(wi)|/PDF. Failed samples count
// as zero.
func EstimateAlbedo(bsdf material.BSDF, wo core.Vec3, si *material.SurfaceInteraction, types material.ScatterType, sampler core.Sampler, samples int) ColorEstimate {
	var est ColorEstimate
	for i := 0; i < samples; i++ {
		s, ok := bsdf.SampleScattered(wo, sampler.Get2D(), si, types)
		if !ok {
			est.AddSample(core.Vec3{})
			continue
		}
		cosine := s.Wi.AbsDot(si.Normal)
		est.AddSample(s.Value.Multiply(cosine / s.PDF))
	}
	return est
}

// EstimatePDFIntegral integrates PDF(wo, .) over the sphere with uniform
// direction samples. A proper density gives at most 1.
func EstimatePDFIntegral(bsdf material.BSDF, wo core.Vec3, si *material.SurfaceInteraction, types material.ScatterType, sampler core.Sampler, samples int) Estimate {
	var est Estimate
	for i := 0; i < samples; i++ {
		wi := core.SampleOnUnitSphere(sampler.Get2D())
		est.AddSample(bsdf.PDF(wo, wi, si, types) / core.UniformSpherePDF)
	}
	return est
}

// EstimateUniformAlbedo estimates the directional albedo with uniform sphere
// sampling instead of the BSDF sampler, as an independent reference.
func EstimateUniformAlbedo(bsdf material.BSDF, wo core.Vec3, si *material.SurfaceInteraction, types material.ScatterType, sampler core.Sampler, samples int) ColorEstimate {
	var est ColorEstimate
	for i := 0; i < samples; i++ {
		wi := core.SampleOnUnitSphere(sampler.Get2D())
		f := bsdf.Eval(wo, wi, si, types)
		est.AddSample(f.Multiply(wi.AbsDot(si.Normal) / core.UniformSpherePDF))
	}
	return est
}

// ViewDirection returns the world direction at thetaDegrees from the shading
// normal, tilted along the frame's tangent
func ViewDirection(si *material.SurfaceInteraction, thetaDegrees float64) core.Vec3 {
	theta := thetaDegrees * math.Pi / 180
	return si.LocalToWorld(core.NewVec3(math.Sin(theta), 0, math.Cos(theta)))
}

// AlbedoEntry is one row of an albedo table
type AlbedoEntry struct {
	ThetaDegrees float64
	Albedo       ColorEstimate // Importance-sampled directional albedo
	PDFIntegral  Estimate      // Uniform-sphere integral of the PDF
}

// AlbedoTable estimates albedo and PDF normalisation at each view angle,
// one worker task per angle
func AlbedoTable(ctx context.Context, bsdf material.BSDF, si *material.SurfaceInteraction, types material.ScatterType, thetas []float64, cfg Config) ([]AlbedoEntry, error) {
	cfg = DefaultConfig().Merge(cfg)
	logger := cfg.logger()

	tasks := make([]func(core.Sampler) (AlbedoEntry, error), len(thetas))
	for i, theta := range thetas {
		tasks[i] = func(sampler core.Sampler) (AlbedoEntry, error) {
			wo := ViewDirection(si, theta)
			return AlbedoEntry{
				ThetaDegrees: theta,
				Albedo:       EstimateAlbedo(bsdf, wo, si, types, sampler, cfg.SamplesPerEstimate),
				PDFIntegral:  EstimatePDFIntegral(bsdf, wo, si, types, sampler, cfg.SamplesPerEstimate),
			}, nil
		}
	}

	logger.Printf("Estimating albedo at %d view angles (%d samples each, %d workers)...\n",
		len(thetas), cfg.SamplesPerEstimate, min(cfg.workers(), len(thetas)))
	startTime := time.Now()

	entries, err := runTasks(ctx, cfg, tasks)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		albedo := e.Albedo.Mean()
		logger.Printf("theta=%5.1f albedo=(%.4f, %.4f, %.4f) ±%.4f pdf=%.4f ±%.4f\n",
			e.ThetaDegrees, albedo.X, albedo.Y, albedo.Z, e.Albedo.Luminance.StdErr(),
			e.PDFIntegral.Mean(), e.PDFIntegral.StdErr())
	}
	logger.Printf("Albedo table completed in %v\n", time.Since(startTime))

	return entries, nil
}
