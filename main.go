package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-principled-bsdf/pkg/analysis"
	"github.com/df07/go-principled-bsdf/pkg/core"
	"github.com/df07/go-principled-bsdf/pkg/loaders"
	"github.com/df07/go-principled-bsdf/pkg/material"
)

// albedoAngles are the view angles, in degrees, of an albedo table
var albedoAngles = []float64{0, 15, 30, 45, 60, 75, 85}

// floatFlags maps command line flags to principled parameter names
var floatFlags = []struct {
	flag, param, usage string
}{
	{"roughness", "Roughness", "Roughness in [0.02, 1]"},
	{"specular", "Specular", "Specular level in [0, 1]"},
	{"metallic", "Metallic", "Metallic in [0, 1]"},
	{"tint", "SpecularTint", "Specular tint in [0, 1]"},
}

type options struct {
	mode        string
	color       string
	texture     string
	gltf        string
	materialKey string
	maxTexture  int

	params    map[string]float64 // Parameter values for every float flag
	overrides map[string]bool    // Parameters given explicitly on the command line

	samples int
	workers int
	seed    int64
	theta   float64
	size    int
	help    bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	opts := options{
		params:    make(map[string]float64),
		overrides: make(map[string]bool),
	}
	fs := flag.NewFlagSet("principled", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.mode, "mode", "params", "Mode: 'params', 'albedo' or 'lobe'")
	fs.StringVar(&opts.color, "color", "0.8,0.8,0.8", "Base color as 'r,g,b' or '#rrggbb'")
	fs.StringVar(&opts.texture, "texture", "", "Base color texture: image file, 'checker', 'uv' or 'gradient'")
	fs.StringVar(&opts.gltf, "gltf", "", "Load the material from a glTF file")
	fs.StringVar(&opts.materialKey, "material", "0", "glTF material name or index")
	fs.IntVar(&opts.maxTexture, "max-texture", 0, "Downscale textures larger than this (0 = keep size)")

	defaults := material.DefaultPrincipledParams()
	defaultValues := map[string]float64{
		"Roughness":    defaults.Roughness,
		"Specular":     defaults.Specular,
		"Metallic":     defaults.Metallic,
		"SpecularTint": defaults.SpecularTint,
	}
	values := make(map[string]*float64)
	for _, f := range floatFlags {
		values[f.flag] = fs.Float64(f.flag, defaultValues[f.param], f.usage)
	}

	fs.IntVar(&opts.samples, "samples", 100000, "Samples per estimate (albedo)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = use CPU count)")
	fs.Int64Var(&opts.seed, "seed", 42, "Random seed")
	fs.Float64Var(&opts.theta, "theta", 45, "View angle from the normal in degrees (lobe)")
	fs.IntVar(&opts.size, "size", 256, "Lobe image size in pixels")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	for _, f := range floatFlags {
		opts.params[f.param] = *values[f.flag]
	}
	fs.Visit(func(f *flag.Flag) {
		for _, ff := range floatFlags {
			if ff.flag == f.Name {
				opts.overrides[ff.param] = true
			}
		}
	})

	switch opts.mode {
	case "params", "albedo", "lobe":
	default:
		return opts, fmt.Errorf("unknown mode: %s", opts.mode)
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if opts.help {
		printHelp()
		return
	}

	if err := run(context.Background(), opts, core.StdoutLogger{}); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Principled BSDF Explorer")
	fmt.Println("Usage: principled [options]")
	fmt.Println()
	fmt.Println("Modes:")
	fmt.Println("  params - List the material's parameters")
	fmt.Println("  albedo - Estimate directional albedo and pdf normalisation over view angles")
	fmt.Println("  lobe   - Render the scattering lobe over the hemisphere as a PNG")
	fmt.Println()
	fmt.Println("Run with -h to list all options.")
	fmt.Println()
	fmt.Println("Output will be saved to output/<mode>/<material>_<timestamp>.<ext>")
}

func run(ctx context.Context, opts options, logger core.Logger) error {
	bsdf, name, err := createMaterial(opts)
	if err != nil {
		return err
	}
	logger.Printf("Material: %s\n", name)

	if opts.mode == "params" {
		printParameters(bsdf, logger)
		return nil
	}

	cfg := analysis.DefaultConfig().Merge(analysis.Config{
		SamplesPerEstimate: opts.samples,
		NumWorkers:         opts.workers,
		Seed:               opts.seed,
		Logger:             logger,
	})
	si := material.NewSurfaceInteraction(core.Vec3{}, core.NewVec2(0.5, 0.5), core.NewVec3(0, 0, 1), core.Vec3{})

	outputDir := filepath.Join("output", opts.mode)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	timestamp := time.Now().Format("20060102_150405")
	base := filepath.Join(outputDir, fmt.Sprintf("%s_%s", sanitizeName(name), timestamp))

	switch opts.mode {
	case "albedo":
		entries, err := analysis.AlbedoTable(ctx, bsdf, si, material.All, albedoAngles, cfg)
		if err != nil {
			return err
		}
		filename := base + ".csv"
		if err := writeAlbedoCSV(filename, entries); err != nil {
			return err
		}
		logger.Printf("Albedo table saved as %s\n", filename)

	case "lobe":
		wo := analysis.ViewDirection(si, opts.theta)
		img, err := analysis.RenderLobe(ctx, bsdf, si, wo, material.All, analysis.LobeOptions{Size: opts.size}, cfg)
		if err != nil {
			return err
		}
		logger.Printf("Average luminance: %.4f\n", analysis.CalculateAverageLuminance(img))
		filename := base + ".png"
		if err := savePNG(filename, img); err != nil {
			return err
		}
		logger.Printf("Lobe saved as %s\n", filename)
	}
	return nil
}

// createMaterial builds the material described by opts and returns it with a display name
func createMaterial(opts options) (*material.Principled, string, error) {
	imageOpts := loaders.ImageOptions{MaxDimension: opts.maxTexture}

	if opts.gltf != "" {
		assets, err := loaders.LoadGLTFMaterials(opts.gltf, imageOpts)
		if err != nil {
			return nil, "", err
		}
		asset, err := loaders.FindMaterial(assets, opts.materialKey)
		if err != nil {
			return nil, "", err
		}
		// Only explicit flags override imported values
		if err := applyParameters(asset.Material, opts, true); err != nil {
			return nil, "", err
		}
		return asset.Material, asset.Name, nil
	}

	base, err := parseColor(opts.color)
	if err != nil {
		return nil, "", err
	}

	var albedo material.ColorSource = material.NewSolidColor(base)
	name := "principled"
	switch opts.texture {
	case "":
	case "checker":
		albedo = material.NewCheckerboardTexture(256, 256, 32, base, base.Multiply(0.25))
		name = "checker"
	case "uv":
		albedo = material.NewUVDebugTexture(256, 256)
		name = "uv"
	case "gradient":
		albedo = material.NewGradientTexture(256, 256, base, core.White)
		name = "gradient"
	default:
		texture, err := loaders.LoadTexture(opts.texture, imageOpts)
		if err != nil {
			return nil, "", err
		}
		albedo = texture
		name = strings.TrimSuffix(filepath.Base(opts.texture), filepath.Ext(opts.texture))
	}

	bsdf := material.NewPrincipled(albedo, material.DefaultPrincipledParams())
	if err := applyParameters(bsdf, opts, false); err != nil {
		return nil, "", err
	}
	return bsdf, name, nil
}

// applyParameters sets the float flags on bsdf through its parameter interface
func applyParameters(bsdf material.ParameterSet, opts options, onlyOverrides bool) error {
	for _, f := range floatFlags {
		if onlyOverrides && !opts.overrides[f.param] {
			continue
		}
		if err := bsdf.SetParameter(f.param, material.FloatParameter(opts.params[f.param])); err != nil {
			return fmt.Errorf("setting %s: %w", f.param, err)
		}
	}
	return nil
}

// parseColor accepts "r,g,b" with components in [0, 1] or "#rrggbb"
func parseColor(s string) (core.Vec3, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 {
			return core.Vec3{}, fmt.Errorf("invalid color %q: expected #rrggbb", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return core.NewVec3(
			float64((v>>16)&0xff)/255,
			float64((v>>8)&0xff)/255,
			float64(v&0xff)/255,
		), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("invalid color %q: expected r,g,b", s)
	}
	var c [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		if f < 0 {
			return core.Vec3{}, fmt.Errorf("invalid color %q: negative component", s)
		}
		c[i] = f
	}
	return core.NewVec3(c[0], c[1], c[2]), nil
}

func printParameters(bsdf material.ParameterSet, logger core.Logger) {
	for i := 0; i < bsdf.ParameterCount(); i++ {
		name := bsdf.ParameterName(i)
		p := bsdf.GetParameter(name)
		switch p.Type {
		case material.ParameterFloat:
			logger.Printf("  %-12s %-5s %.4f [%g, %g]\n", name, p.Type, p.Value, p.Min, p.Max)
		case material.ParameterColor:
			logger.Printf("  %-12s %-5s (%.4f, %.4f, %.4f)\n", name, p.Type, p.Color.X, p.Color.Y, p.Color.Z)
		default:
			logger.Printf("  %-12s %-5s (texture)\n", name, p.Type)
		}
	}
}

func writeAlbedoCSV(filename string, entries []analysis.AlbedoEntry) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	records := [][]string{{"theta", "albedo_r", "albedo_g", "albedo_b", "albedo_stderr", "pdf_integral", "pdf_stderr"}}
	for _, e := range entries {
		albedo := e.Albedo.Mean()
		records = append(records, []string{
			strconv.FormatFloat(e.ThetaDegrees, 'f', 1, 64),
			strconv.FormatFloat(albedo.X, 'f', 6, 64),
			strconv.FormatFloat(albedo.Y, 'f', 6, 64),
			strconv.FormatFloat(albedo.Z, 'f', 6, 64),
			strconv.FormatFloat(e.Albedo.Luminance.StdErr(), 'f', 6, 64),
			strconv.FormatFloat(e.PDFIntegral.Mean(), 'f', 6, 64),
			strconv.FormatFloat(e.PDFIntegral.StdErr(), 'f', 6, 64),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

func savePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return nil
}

// sanitizeName makes a material name safe to use in a filename
func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		return "material"
	}
	return name
}
