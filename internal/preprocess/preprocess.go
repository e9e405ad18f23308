// Package preprocess turns base64 encoded images into the NHWC float32 tensor
// the classifier was trained on.
package preprocess

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	ImageSize = 224
	Channels  = 3

	// maxPixels bounds decoded image area before any pixel data is allocated.
	// 4096x4096 admits 12 MP phone photos; the decoded buffer stays at 64 MiB
	// or less.
	maxPixels = 4096 * 4096
)

// ErrInvalidInput marks payloads that are not base64 or not a readable image.
var ErrInvalidInput = errors.New("invalid image payload")

// Tensor is a (1, H, W, 3) float32 tensor in row-major NHWC order with values
// in [0, 1].
type Tensor struct {
	Shape []int64
	Data  []float32
}

func (t *Tensor) DType() string {
	return "float32"
}

type Preprocessor struct {
	size   uint
	interp resize.InterpolationFunction
}

func New() *Preprocessor {
	return &Preprocessor{size: ImageSize, interp: resize.Bicubic}
}

// Preprocess decodes the payload and converts it into a model input tensor.
// Every decoding failure wraps ErrInvalidInput.
func (p *Preprocessor) Preprocess(encoded string) (*Tensor, error) {
	raw, err := DecodePayload(encoded)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(raw)
	if err != nil {
		return nil, err
	}
	return p.FromImage(img), nil
}

// StripDataURL drops everything up to and including the first comma.
func StripDataURL(encoded string) string {
	if i := strings.IndexByte(encoded, ','); i >= 0 {
		return encoded[i+1:]
	}
	return encoded
}

func DecodePayload(encoded string) ([]byte, error) {
	payload := strings.TrimSpace(StripDataURL(encoded))
	if payload == "" {
		return nil, fmt.Errorf("%w: empty image data", ErrInvalidInput)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed base64: %v", ErrInvalidInput, err)
	}
	return raw, nil
}

func decodeImage(raw []byte) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("%w: decoder failed: %v", ErrInvalidInput, r)
		}
	}()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot identify image: %v", ErrInvalidInput, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("%w: unsupported %s dimensions %dx%d", ErrInvalidInput, format, cfg.Width, cfg.Height)
	}
	img, _, err = image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot decode %s image: %v", ErrInvalidInput, format, err)
	}
	return img, nil
}

// FromImage stretches img to the target size, ignoring aspect ratio, and
// scales 8-bit RGB values into [0, 1]. img may be modified in place.
func (p *Preprocessor) FromImage(img image.Image) *Tensor {
	resized := resize.Resize(p.size, p.size, opaque(img), p.interp)
	rgb := toRGB(resized)

	size := int(p.size)
	data := make([]float32, size*size*Channels)
	bounds := rgb.Bounds()
	i := 0
	for y := bounds.Min.Y; y < bounds.Min.Y+size; y++ {
		for x := bounds.Min.X; x < bounds.Min.X+size; x++ {
			off := rgb.PixOffset(x, y)
			data[i] = float32(rgb.Pix[off]) / 255.0
			data[i+1] = float32(rgb.Pix[off+1]) / 255.0
			data[i+2] = float32(rgb.Pix[off+2]) / 255.0
			i += Channels
		}
	}

	return &Tensor{
		Shape: []int64{1, int64(size), int64(size), Channels},
		Data:  data,
	}
}

// opaque drops alpha before resizing so transparent pixels keep their color.
// Straight-alpha and paletted images are fixed in place; only premultiplied
// images with transparency need a full-size copy.
func opaque(img image.Image) image.Image {
	switch m := img.(type) {
	case *image.NRGBA:
		for i := 3; i < len(m.Pix); i += 4 {
			m.Pix[i] = 0xff
		}
		return m
	case *image.NRGBA64:
		for i := 6; i < len(m.Pix); i += 8 {
			m.Pix[i], m.Pix[i+1] = 0xff, 0xff
		}
		return m
	case *image.Paletted:
		palette := make(color.Palette, len(m.Palette))
		for i, c := range m.Palette {
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			n.A = 0xff
			palette[i] = n
		}
		m.Palette = palette
		return m
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	return toRGB(img)
}

// toRGB flattens img onto an opaque RGBA canvas at the origin. Alpha is
// dropped rather than composited.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			off := dst.PixOffset(x, y)
			dst.Pix[off] = c.R
			dst.Pix[off+1] = c.G
			dst.Pix[off+2] = c.B
			dst.Pix[off+3] = 0xff
		}
	}
	return dst
}
