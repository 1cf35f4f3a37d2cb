package imaging_test

import (
	"image"
	"image/color"
	"testing"

	"cardbox/internal/imaging"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDownscaleRespectsBudget(t *testing.T) {
	src := solidImage(2400, 1600, color.White)
	out := imaging.Downscale(src, 1200)
	if got := out.Bounds().Dx(); got != 1200 {
		t.Fatalf("width = %d", got)
	}
	if got := out.Bounds().Dy(); got != 800 {
		t.Fatalf("height = %d", got)
	}
}

func TestDownscaleNeverUpscales(t *testing.T) {
	src := solidImage(640, 480, color.White)
	out := imaging.Downscale(src, 1200)
	if out != image.Image(src) {
		t.Fatal("small image should be returned unchanged")
	}
}

func TestGrayscaleLumaWeighting(t *testing.T) {
	tests := []struct {
		c    color.RGBA
		want uint8
	}{
		{color.RGBA{R: 255, A: 255}, 76},  // 0.299*255
		{color.RGBA{G: 255, A: 255}, 150}, // 0.587*255
		{color.RGBA{B: 255, A: 255}, 29},  // 0.114*255
		{color.RGBA{R: 255, G: 255, B: 255, A: 255}, 255},
		{color.RGBA{A: 255}, 0},
	}
	for _, tt := range tests {
		gray := imaging.Grayscale(solidImage(2, 2, tt.c))
		if got := gray.GrayAt(0, 0).Y; got != tt.want {
			t.Errorf("luma(%v) = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestAdjustContrastFormula(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 3))
	img.Pix = []uint8{0, 128, 255}
	imaging.AdjustContrast(img, 1.35, 8)

	// (0-128)*1.35+128+8 = -36.8 -> 0
	// (128-128)*1.35+128+8 = 136
	// (255-128)*1.35+128+8 = 307.45 -> 255
	want := []uint8{0, 136, 255}
	for i, w := range want {
		if img.Pix[i] != w {
			t.Errorf("pix[%d] = %d, want %d", i, img.Pix[i], w)
		}
	}
}

func TestBinarizeMeanThreshold(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.Pix = []uint8{10, 20, 200, 250}
	imaging.Binarize(img)

	// mean = 120; above goes white, at-or-below goes black
	want := []uint8{0, 0, 255, 255}
	for i, w := range want {
		if img.Pix[i] != w {
			t.Errorf("pix[%d] = %d, want %d", i, img.Pix[i], w)
		}
	}
}

func TestPreprocessDeterministic(t *testing.T) {
	src := solidImage(100, 60, color.RGBA{R: 90, G: 120, B: 80, A: 255})
	a := imaging.Preprocess(src, imaging.Options{})
	b := imaging.Preprocess(src, imaging.Options{})
	if len(a.Pix) != len(b.Pix) {
		t.Fatal("buffer sizes differ")
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d differs", i)
		}
	}
}

func TestCropToAspectWideFrame(t *testing.T) {
	// 1000x800 frame, ratio 1.586: crop is width-limited, 1000x631.
	src := solidImage(1000, 800, color.White)
	out := imaging.CropToAspect(src, imaging.CardAspectRatio, 0)
	if got := out.Bounds().Dx(); got != 1000 {
		t.Fatalf("crop width = %d", got)
	}
	if got := out.Bounds().Dy(); got != 631 {
		t.Fatalf("crop height = %d", got)
	}
}

func TestCropToAspectTallFrame(t *testing.T) {
	// 400x1000 frame: crop is height-limited by width, 400x252.
	src := solidImage(400, 1000, color.White)
	out := imaging.CropToAspect(src, imaging.CardAspectRatio, 0)
	if got := out.Bounds().Dx(); got != 400 {
		t.Fatalf("crop width = %d", got)
	}
	if got := out.Bounds().Dy(); got != 252 {
		t.Fatalf("crop height = %d", got)
	}
}

func TestCropToAspectScalesOutput(t *testing.T) {
	src := solidImage(2000, 1600, color.White)
	out := imaging.CropToAspect(src, imaging.CardAspectRatio, 1200)
	if got := out.Bounds().Dx(); got != 1200 {
		t.Fatalf("output width = %d", got)
	}
}

func TestSubImageClipsToBounds(t *testing.T) {
	src := solidImage(100, 100, color.White)
	out := imaging.SubImage(src, image.Rect(80, 80, 200, 200))
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 20 {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if imaging.SubImage(src, image.Rect(200, 200, 300, 300)) != nil {
		t.Fatal("disjoint rect should return nil")
	}
}
