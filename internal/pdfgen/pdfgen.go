// Package pdfgen assembles processed images into a single multi-page PDF.
// Each image becomes one page sized to its aspect; quality controls the
// JPEG compression level and the maximum page dimension.
package pdfgen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/go-pdf/fpdf"
	xdraw "golang.org/x/image/draw"
)

// Quality selects the document compression level.
type Quality string

const (
	// QualityHigh keeps pages near source resolution.
	QualityHigh Quality = "high"
	// QualityMedium trades resolution for size.
	QualityMedium Quality = "medium"
	// QualityLow produces the smallest document.
	QualityLow Quality = "low"
)

// ErrUnknownQuality rejects a quality identifier outside the supported set.
var ErrUnknownQuality = errors.New("pdfgen: unknown quality")

// ErrNoPages rejects an empty image sequence.
var ErrNoPages = errors.New("pdfgen: no images to render")

// All lists the supported qualities in presentation order.
func All() []Quality {
	return []Quality{QualityHigh, QualityMedium, QualityLow}
}

// ParseQuality validates a raw identifier.
func ParseQuality(s string) (Quality, error) {
	switch Quality(s) {
	case QualityHigh, QualityMedium, QualityLow:
		return Quality(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuality, s)
}

// Label returns the human-readable button text for a quality.
func Label(q Quality) string {
	switch q {
	case QualityMedium:
		return "Medium"
	case QualityLow:
		return "Low"
	default:
		return "High"
	}
}

func (q Quality) jpegQuality() int {
	switch q {
	case QualityMedium:
		return 65
	case QualityLow:
		return 45
	default:
		return 85
	}
}

// maxDimension caps page width/height in pixels; A4 at 300/210/150 dpi.
func (q Quality) maxDimension() int {
	switch q {
	case QualityMedium:
		return 1754
	case QualityLow:
		return 1240
	default:
		return 2480
	}
}

// Options override the built-in per-quality encoder settings; levels absent
// from a map keep their defaults.
type Options struct {
	JPEGQuality  map[Quality]int
	MaxDimension map[Quality]int
}

// Generator renders image sequences into PDF bytes.
type Generator struct {
	opts Options
}

// NewGenerator returns a Generator with the default quality settings.
func NewGenerator() *Generator {
	return &Generator{}
}

// NewGeneratorWithOptions returns a Generator with overrides applied.
func NewGeneratorWithOptions(opts Options) *Generator {
	return &Generator{opts: opts}
}

func (g *Generator) jpegQuality(q Quality) int {
	if v, ok := g.opts.JPEGQuality[q]; ok && v >= 1 && v <= 100 {
		return v
	}
	return q.jpegQuality()
}

func (g *Generator) maxDimension(q Quality) int {
	if v, ok := g.opts.MaxDimension[q]; ok && v > 0 {
		return v
	}
	return q.maxDimension()
}

// Render produces a PDF with one page per image, in input order.
func (g *Generator) Render(images []image.Image, q Quality) ([]byte, error) {
	if len(images) == 0 {
		return nil, ErrNoPages
	}
	if _, err := ParseQuality(string(q)); err != nil {
		return nil, err
	}

	doc := fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt"})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	for i, img := range images {
		if img == nil {
			return nil, fmt.Errorf("pdfgen: nil image at page %d", i+1)
		}
		page := downscale(img, g.maxDimension(q))

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, page, &jpeg.Options{Quality: g.jpegQuality(q)}); err != nil {
			return nil, fmt.Errorf("pdfgen: encode page %d: %w", i+1, err)
		}

		w := float64(page.Bounds().Dx())
		h := float64(page.Bounds().Dy())
		orientation := "P"
		if w > h {
			orientation = "L"
		}

		name := fmt.Sprintf("page-%d", i+1)
		opts := fpdf.ImageOptions{ImageType: "JPG"}
		doc.RegisterImageOptionsReader(name, opts, &buf)
		doc.AddPageFormat(orientation, fpdf.SizeType{Wd: w, Ht: h})
		doc.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("pdfgen: write document: %w", err)
	}
	return out.Bytes(), nil
}

// downscale shrinks img so neither dimension exceeds maxDim, preserving
// aspect. Images already within bounds are returned as-is.
func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
