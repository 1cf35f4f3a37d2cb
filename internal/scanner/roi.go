package scanner

import (
	"image"
	"math"
)

// Layout describes the display area the ROI is expressed in. Frame pixels
// and display units usually differ; the ROI is mapped between them by the
// ratio of the two resolutions.
type Layout struct {
	DisplayWidth  float64
	DisplayHeight float64
}

func (l Layout) valid() bool {
	return l.DisplayWidth > 0 && l.DisplayHeight > 0
}

// ROI is a region of interest in display coordinates.
type ROI struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// CenteredROI returns a centered square region sized as a fraction of the
// shorter display edge. A non-positive fraction returns a zero ROI.
func CenteredROI(display Layout, fraction float64) ROI {
	if !display.valid() || fraction <= 0 {
		return ROI{}
	}
	size := math.Min(display.DisplayWidth, display.DisplayHeight) * fraction
	return ROI{
		X:      (display.DisplayWidth - size) / 2,
		Y:      (display.DisplayHeight - size) / 2,
		Width:  size,
		Height: size,
	}
}

// FrameRect maps the ROI into source-frame pixel coordinates by scaling the
// display coordinates by the frame/display resolution ratio. The second
// return value is false when no layout information is available or the ROI
// is empty, in which case the caller should decode the full frame.
func (r ROI) FrameRect(frameW, frameH int, display Layout) (image.Rectangle, bool) {
	if !display.valid() || r.Width <= 0 || r.Height <= 0 {
		return image.Rectangle{}, false
	}

	sx := float64(frameW) / display.DisplayWidth
	sy := float64(frameH) / display.DisplayHeight

	x := int(math.Max(0, math.Floor(r.X*sx)))
	y := int(math.Max(0, math.Floor(r.Y*sy)))
	w := int(math.Floor(r.Width * sx))
	h := int(math.Floor(r.Height * sy))

	if x+w > frameW {
		w = frameW - x
	}
	if y+h > frameH {
		h = frameH - y
	}
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
