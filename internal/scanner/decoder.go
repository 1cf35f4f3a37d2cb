package scanner

import (
	"image"
	"image/color"
	"sync"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// QRDecoder is the default decode primitive, backed by the zxing QR reader.
// It tries the frame as-is and then color-inverted, matching cards printed
// light-on-dark.
type QRDecoder struct {
	mu     sync.Mutex
	reader gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}
}

// NewQRDecoder builds the default QR decode primitive.
func NewQRDecoder() *QRDecoder {
	return &QRDecoder{
		reader: qrcode.NewQRCodeReader(),
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Decode returns the raw text payload of a QR code in the image, or an error
// when no readable code is present.
func (d *QRDecoder) Decode(img image.Image) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	result, err := d.decodeImage(img)
	if err == nil {
		return result, nil
	}

	// Second attempt on an inverted copy.
	inverted, invErr := d.decodeImage(invertImage(img))
	if invErr == nil {
		return inverted, nil
	}
	return "", err
}

func (d *QRDecoder) decodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}
	result, err := d.reader.Decode(bmp, d.hints)
	if err != nil {
		return "", err
	}
	return result.GetText(), nil
}

func invertImage(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			out.SetGray(x, y, color.Gray{Y: 255 - g.Y})
		}
	}
	return out
}
