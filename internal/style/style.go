// Package style applies one of a fixed set of image filters to a decoded
// image. Every filter is a pure function over the pixel data.
package style

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ID identifies a supported image style.
type ID string

const (
	// Original leaves the image untouched.
	Original ID = "original"
	// Grayscale converts the image to luminance.
	Grayscale ID = "grayscale"
	// BlackWhite binarizes the image with a fixed luminance threshold.
	BlackWhite ID = "black_white"
	// Enhanced boosts contrast and brightness.
	Enhanced ID = "enhanced"
)

// ErrUnknown rejects a style identifier outside the supported set.
var ErrUnknown = errors.New("style: unknown identifier")

const (
	// bwThreshold is the luminance cutoff for BlackWhite binarization.
	bwThreshold = 150
	// contrastFactor and brightnessFactor define the Enhanced filter.
	contrastFactor   = 1.5
	brightnessFactor = 1.2
)

// All lists the supported styles in presentation order.
func All() []ID {
	return []ID{Original, Grayscale, BlackWhite, Enhanced}
}

// Parse validates a raw identifier.
func Parse(s string) (ID, error) {
	switch ID(s) {
	case Original, Grayscale, BlackWhite, Enhanced:
		return ID(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Label returns the human-readable button text for a style.
func Label(id ID) string {
	switch id {
	case Grayscale:
		return "Grayscale"
	case BlackWhite:
		return "Black & White"
	case Enhanced:
		return "Enhanced"
	default:
		return "Original"
	}
}

// Apply runs the filter identified by id over img and returns the result.
// Original returns img unchanged.
func Apply(img image.Image, id ID) (image.Image, error) {
	if img == nil {
		return nil, errors.New("style: nil image")
	}
	switch id {
	case Original:
		return img, nil
	case Grayscale:
		return toGray(img), nil
	case BlackWhite:
		return threshold(toGray(img), bwThreshold), nil
	case Enhanced:
		return enhance(img, contrastFactor, brightnessFactor), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, string(id))
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return out
}

func threshold(gray *image.Gray, cutoff uint8) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := uint8(0)
			if gray.GrayAt(x, y).Y > cutoff {
				v = 255
			}
			out.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return out
}

// enhance stretches contrast about the mean luminance, then scales
// brightness, clamping both to the valid channel range.
func enhance(img image.Image, contrast, brightness float64) *image.RGBA {
	b := img.Bounds()
	mean := meanLuminance(img)
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			out.SetRGBA(x, y, color.RGBA{
				R: enhanceChannel(r, mean, contrast, brightness),
				G: enhanceChannel(g, mean, contrast, brightness),
				B: enhanceChannel(bl, mean, contrast, brightness),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

func enhanceChannel(c uint32, mean, contrast, brightness float64) uint8 {
	v := float64(c >> 8)
	v = mean + (v-mean)*contrast
	v *= brightness
	return clamp8(v)
}

func meanLuminance(img image.Image) float64 {
	b := img.Bounds()
	total := 0.0
	count := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			// ITU-R 601 luma, matching color.GrayModel.
			total += 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
