package extract

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/webp"

	"github.com/drdrummie/cssgnomme/internal/colors"
)

// FileExtractor decodes a wallpaper image and derives a dominant
// background plus a saturated accent by hue bucketing. It trades
// clustering quality for speed; swap in a different Extractor for
// higher-fidelity palettes.
type FileExtractor struct {
	// Stride controls pixel sampling density. Zero means every 8th pixel.
	Stride int
}

const hueBuckets = 12

// ExtractDominantAndAccent implements Extractor.
func (e *FileExtractor) ExtractDominantAndAccent(imagePath string) (Scheme, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return Scheme{}, fmt.Errorf("open wallpaper: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Scheme{}, fmt.Errorf("decode wallpaper: %w", err)
	}

	stride := e.Stride
	if stride <= 0 {
		stride = 8
	}

	bounds := img.Bounds()
	var sumR, sumG, sumB, samples float64

	type bucket struct {
		count   int
		r, g, b float64
	}
	var buckets [hueBuckets]bucket

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			r := float64(r16>>8) / 255.0
			g := float64(g16>>8) / 255.0
			b := float64(b16>>8) / 255.0

			sumR += r
			sumG += g
			sumB += b
			samples++

			c := colorful.Color{R: r, G: g, B: b}
			h, s, v := c.Hsv()
			// Washed-out and near-black pixels make poor accents.
			if s < 0.35 || v < 0.25 {
				continue
			}
			idx := int(h/360.0*hueBuckets) % hueBuckets
			buckets[idx].count++
			buckets[idx].r += r
			buckets[idx].g += g
			buckets[idx].b += b
		}
	}

	if samples == 0 {
		return Scheme{}, fmt.Errorf("wallpaper %s has no pixels", imagePath)
	}

	background := colors.RGB{
		R: sumR / samples * 255,
		G: sumG / samples * 255,
		B: sumB / samples * 255,
	}

	accent := background
	best := -1
	for _, bk := range buckets {
		if bk.count > best && bk.count > 0 {
			best = bk.count
			n := float64(bk.count)
			accent = colors.RGB{R: bk.r / n * 255, G: bk.g / n * 255, B: bk.b / n * 255}
		}
	}
	if best < 0 {
		// No saturated region anywhere; nudge the average instead.
		accent = colors.Lighten(background, 0.25)
	}

	return Scheme{
		Accent:      accent,
		Background:  background,
		ExtractedAt: time.Now(),
	}, nil
}
