package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-principled-bsdf/pkg/core"
	"github.com/df07/go-principled-bsdf/pkg/material"
)

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Format string
	Pixels []core.Vec3
}

// ImageOptions controls how images are turned into textures
type ImageOptions struct {
	// MaxDimension downscales images whose width or height exceeds it. 0 keeps the source size.
	MaxDimension int
}

// LoadImage loads an image with default options
func LoadImage(filename string) (*ImageData, error) {
	return LoadImageWithOptions(filename, ImageOptions{})
}

// LoadImageWithOptions decodes PNG, JPEG, BMP, TIFF or WebP and converts it to a Vec3 color array
func LoadImageWithOptions(filename string, opts ImageOptions) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects the format from the file header)
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	if opts.MaxDimension > 0 {
		img = downscale(img, opts.MaxDimension)
	}

	data := imageToData(img)
	data.Format = format
	return data, nil
}

// LoadTexture loads an image file as a bilinear-filtered texture
func LoadTexture(filename string, opts ImageOptions) (*material.ImageTexture, error) {
	data, err := LoadImageWithOptions(filename, opts)
	if err != nil {
		return nil, err
	}
	return material.NewImageTexture(data.Width, data.Height, data.Pixels).WithFilter(material.FilterBilinear), nil
}

// downscale shrinks img so its longer side is at most maxDim, keeping aspect ratio
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxDim && bounds.Dy() <= maxDim {
		return img
	}
	// A zero dimension tells resize to preserve the aspect ratio
	if bounds.Dx() >= bounds.Dy() {
		return resize.Resize(uint(maxDim), 0, img, resize.Lanczos3)
	}
	return resize.Resize(0, uint(maxDim), img, resize.Lanczos3)
}

func imageToData(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}
