package images

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-travelguide/internal/app/models"
)

// GeminiGenerator produces images with the Gemini (Imagen) API.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	aspectRatio string
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator builds a generator for model; size is a "WIDTHxHEIGHT"
// request mapped to the closest supported aspect ratio.
func NewGeminiGenerator(client *genai.Client, model, size string) *GeminiGenerator {
	return &GeminiGenerator{
		client:      client,
		model:       model,
		aspectRatio: AspectRatio(size),
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*GeneratedImage, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    g.aspectRatio,
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, models.ErrNoImage
	}

	generated := resp.GeneratedImages[0]
	if generated.Image == nil {
		if generated.RAIFilteredReason != "" {
			return nil, fmt.Errorf("%w: filtered: %s", models.ErrNoImage, generated.RAIFilteredReason)
		}
		return nil, models.ErrNoImage
	}

	img := &GeneratedImage{
		Data:     generated.Image.ImageBytes,
		MIMEType: generated.Image.MIMEType,
	}
	if len(img.Data) == 0 && strings.HasPrefix(generated.Image.GCSURI, "http") {
		img.URL = generated.Image.GCSURI
	}
	return img, nil
}

var supportedRatios = []struct {
	label string
	value float64
}{
	{"1:1", 1},
	{"3:4", 3.0 / 4.0},
	{"4:3", 4.0 / 3.0},
	{"9:16", 9.0 / 16.0},
	{"16:9", 16.0 / 9.0},
}

// AspectRatio maps "1024x1024"-style sizes to the nearest supported ratio,
// defaulting to square.
func AspectRatio(size string) string {
	w, h, ok := strings.Cut(strings.ToLower(size), "x")
	if !ok {
		return "1:1"
	}
	width, errW := strconv.Atoi(strings.TrimSpace(w))
	height, errH := strconv.Atoi(strings.TrimSpace(h))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return "1:1"
	}

	target := float64(width) / float64(height)
	best := supportedRatios[0]
	bestDiff := abs(target - best.value)
	for _, r := range supportedRatios[1:] {
		if d := abs(target - r.value); d < bestDiff {
			best, bestDiff = r, d
		}
	}
	return best.label
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
