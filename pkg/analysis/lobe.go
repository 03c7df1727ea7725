package analysis

import (
	"context"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/df07/go-principled-bsdf/pkg/core"
	"github.com/df07/go-principled-bsdf/pkg/material"
)

// LobeOptions configures a hemisphere plot
type LobeOptions struct {
	Size            int     // Image width and height in pixels
	SamplesPerPixel int     // Jittered samples per pixel
	Exposure        float64 // Scale applied before tone mapping
}

// DefaultLobeOptions returns sensible default values
func DefaultLobeOptions() LobeOptions {
	return LobeOptions{
		Size:            256,
		SamplesPerPixel: 4,
		Exposure:        1.0,
	}
}

// RenderLobe plots Eval(wo, wi)*cos(wi) over the upper hemisphere of si,
// seen from above: the image centre is the normal, the rim is the horizon and
// +x points along the frame tangent. Rows are rendered on the worker pool.
func RenderLobe(ctx context.Context, bsdf material.BSDF, si *material.SurfaceInteraction, wo core.Vec3, types material.ScatterType, opts LobeOptions, cfg Config) (*image.RGBA, error) {
	cfg = DefaultConfig().Merge(cfg)
	defaults := DefaultLobeOptions()
	if opts.Size <= 0 {
		opts.Size = defaults.Size
	}
	if opts.SamplesPerPixel <= 0 {
		opts.SamplesPerPixel = defaults.SamplesPerPixel
	}
	if opts.Exposure <= 0 {
		opts.Exposure = defaults.Exposure
	}
	size := opts.Size

	tasks := make([]func(core.Sampler) ([]core.Vec3, error), size)
	for y := 0; y < size; y++ {
		tasks[y] = func(sampler core.Sampler) ([]core.Vec3, error) {
			row := make([]core.Vec3, size)
			for x := 0; x < size; x++ {
				var ps ColorEstimate
				for s := 0; s < opts.SamplesPerPixel; s++ {
					jitter := sampler.Get2D()
					ps.AddSample(lobeValue(bsdf, si, wo, types, (float64(x)+jitter.X)/float64(size), (float64(y)+jitter.Y)/float64(size)))
				}
				row[x] = ps.Mean()
			}
			return row, nil
		}
	}

	logger := cfg.logger()
	logger.Printf("Rendering %dx%d lobe (%d samples/pixel)...\n", size, size, opts.SamplesPerPixel)
	startTime := time.Now()

	rows, err := runTasks(ctx, cfg, tasks)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y, row := range rows {
		for x, c := range row {
			img.SetRGBA(x, y, vec3ToColor(c.Multiply(opts.Exposure)))
		}
	}
	logger.Printf("Lobe rendered in %v\n", time.Since(startTime))

	return img, nil
}

// lobeValue evaluates the plot at normalised image coordinates (s, t), t
// growing downwards. Points outside the hemisphere disk are black.
func lobeValue(bsdf material.BSDF, si *material.SurfaceInteraction, wo core.Vec3, types material.ScatterType, s, t float64) core.Vec3 {
	u := 2*s - 1
	v := 1 - 2*t
	r2 := u*u + v*v
	if r2 >= 1 {
		return core.Vec3{}
	}
	wiLocal := core.NewVec3(u, v, math.Sqrt(1-r2))
	wi := si.LocalToWorld(wiLocal)
	return bsdf.Eval(wo, wi, si, types).Multiply(wiLocal.Z)
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.Clamp(0.0, 1.0).GammaCorrect(2.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// CalculateAverageLuminance returns the mean luminance of an image in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255).Luminance()
		}
	}
	return total / float64(pixels)
}
