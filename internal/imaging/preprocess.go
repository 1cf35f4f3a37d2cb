package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Options control the preprocessing passes. Zero values take the defaults
// tuned against business-card photos.
type Options struct {
	// MaxWidth is the OCR width budget. Wider frames are downscaled
	// proportionally; narrower frames are never upscaled.
	MaxWidth int
	// Contrast scales luma distance from mid-gray. 1.0 leaves it unchanged.
	Contrast float64
	// Brightness is added after the contrast scaling.
	Brightness float64
	// Binarize applies a mean-threshold black/white pass after the
	// contrast adjustment.
	Binarize bool
}

// DefaultOptions are the empirically tuned preprocessing constants.
func DefaultOptions() Options {
	return Options{MaxWidth: 1200, Contrast: 1.35, Brightness: 8, Binarize: true}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.MaxWidth <= 0 {
		o.MaxWidth = defaults.MaxWidth
	}
	if o.Contrast <= 0 {
		o.Contrast = defaults.Contrast
	}
	return o
}

// Preprocess conditions a frame for recognition: downscale to the width
// budget, grayscale, contrast/brightness, and optionally binarize.
func Preprocess(src image.Image, opts Options) *image.Gray {
	opts = opts.withDefaults()

	scaled := Downscale(src, opts.MaxWidth)
	gray := Grayscale(scaled)
	AdjustContrast(gray, opts.Contrast, opts.Brightness)
	if opts.Binarize {
		Binarize(gray)
	}
	return gray
}

// Downscale returns the image scaled proportionally so its width does not
// exceed maxWidth. Images at or under the budget are returned unchanged;
// upscaling never happens.
func Downscale(src image.Image, maxWidth int) image.Image {
	bounds := src.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return src
	}
	ratio := float64(maxWidth) / float64(bounds.Dx())
	height := int(float64(bounds.Dy())*ratio + 0.5)
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

// Grayscale converts each pixel with the standard luma weighting
// 0.299R + 0.587G + 0.114B.
func Grayscale(src image.Image) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			// RGBA returns 16-bit channels.
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			dst.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: clampByte(luma)})
		}
	}
	return dst
}

// AdjustContrast applies y' = clamp((y-128)*contrast + 128 + brightness)
// in place.
func AdjustContrast(img *image.Gray, contrast, brightness float64) {
	for i, y := range img.Pix {
		adjusted := (float64(y)-128)*contrast + 128 + brightness
		img.Pix[i] = clampByte(adjusted)
	}
}

// Binarize thresholds the image at its mean luma in place: pixels above the
// mean become white, the rest black.
func Binarize(img *image.Gray) {
	if len(img.Pix) == 0 {
		return
	}
	var sum uint64
	for _, y := range img.Pix {
		sum += uint64(y)
	}
	mean := uint8(sum / uint64(len(img.Pix)))
	for i, y := range img.Pix {
		if y > mean {
			img.Pix[i] = 255
		} else {
			img.Pix[i] = 0
		}
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
