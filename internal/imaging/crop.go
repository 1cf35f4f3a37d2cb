package imaging

import (
	"image"

	"golang.org/x/image/draw"
)

// CardAspectRatio is the width/height ratio of a standard business card.
const CardAspectRatio = 1.586

// CropToAspect computes the largest centered rectangle of the target
// width/height ratio that fits inside the frame, crops to it, and downscales
// the crop to maxWidth when it is wider. A non-positive ratio returns the
// frame unchanged.
func CropToAspect(src image.Image, targetRatio float64, maxWidth int) image.Image {
	if targetRatio <= 0 {
		return src
	}
	bounds := src.Bounds()
	frameW, frameH := bounds.Dx(), bounds.Dy()
	if frameW == 0 || frameH == 0 {
		return src
	}

	cropW := frameW
	cropH := int(float64(cropW)/targetRatio + 0.5)
	if cropH > frameH {
		cropH = frameH
		cropW = int(float64(cropH)*targetRatio + 0.5)
		if cropW > frameW {
			cropW = frameW
		}
	}

	x0 := bounds.Min.X + (frameW-cropW)/2
	y0 := bounds.Min.Y + (frameH-cropH)/2
	rect := image.Rect(x0, y0, x0+cropW, y0+cropH)

	cropped := image.NewRGBA(image.Rect(0, 0, cropW, cropH))
	draw.Draw(cropped, cropped.Bounds(), src, rect.Min, draw.Src)

	return Downscale(cropped, maxWidth)
}

// SubImage extracts a rectangle of the frame as a standalone image. The
// rectangle is clipped to the frame bounds; an empty intersection returns
// nil.
func SubImage(src image.Image, rect image.Rectangle) image.Image {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), src, rect.Min, draw.Src)
	return out
}
