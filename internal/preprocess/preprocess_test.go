package preprocess

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func pixel(tensor *Tensor, x, y int) []float32 {
	i := (y*ImageSize + x) * Channels
	return tensor.Data[i : i+Channels]
}

func assertTensorContract(t *testing.T, tensor *Tensor) {
	t.Helper()
	assert.Equal(t, []int64{1, ImageSize, ImageSize, Channels}, tensor.Shape)
	assert.Equal(t, "float32", tensor.DType())
	require.Len(t, tensor.Data, ImageSize*ImageSize*Channels)
	for _, v := range tensor.Data {
		if v < 0 || v > 1 {
			t.Fatalf("value %v outside [0, 1]", v)
		}
	}
}

func TestPreprocess_ValidImages(t *testing.T) {
	var jpegBuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpegBuf, solid(50, 80, color.NRGBA{R: 200, G: 120, B: 40, A: 255}), nil))

	gray := image.NewGray(image.Rect(0, 0, 30, 30))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i % 256)
	}

	tests := []struct {
		name    string
		payload string
	}{
		{"png with data url", "data:image/png;base64," + encodePNG(t, solid(64, 64, color.NRGBA{R: 255, A: 255}))},
		{"png without prefix", encodePNG(t, solid(10, 300, color.NRGBA{G: 255, A: 255}))},
		{"jpeg", "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBuf.Bytes())},
		{"grayscale", encodePNG(t, gray)},
		{"translucent", encodePNG(t, solid(224, 224, color.NRGBA{R: 10, G: 20, B: 30, A: 40}))},
		{"larger than target", encodePNG(t, solid(640, 480, color.NRGBA{B: 255, A: 255}))},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tensor, err := p.Preprocess(tt.payload)
			require.NoError(t, err)
			assertTensorContract(t, tensor)
		})
	}
}

func TestPreprocess_NormalizesToUnitRange(t *testing.T) {
	tensor, err := New().Preprocess(encodePNG(t, solid(224, 224, color.NRGBA{R: 255, G: 0, B: 51, A: 255})))
	require.NoError(t, err)

	px := pixel(tensor, 100, 100)
	assert.InDelta(t, 1.0, px[0], 1e-6)
	assert.InDelta(t, 0.0, px[1], 1e-6)
	assert.InDelta(t, 0.2, px[2], 1e-6)
}

func TestPreprocess_DropsAlpha(t *testing.T) {
	tensor, err := New().Preprocess(encodePNG(t, solid(32, 32, color.NRGBA{R: 255, G: 255, B: 255, A: 0})))
	require.NoError(t, err)

	px := pixel(tensor, 112, 112)
	assert.InDelta(t, 1.0, px[0], 1e-6)
	assert.InDelta(t, 1.0, px[1], 1e-6)
	assert.InDelta(t, 1.0, px[2], 1e-6)
}

func TestPreprocess_StretchesWithoutCropping(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 448, 224))
	for y := 0; y < 224; y++ {
		for x := 0; x < 448; x++ {
			if x < 224 {
				img.Set(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}

	tensor, err := New().Preprocess(encodePNG(t, img))
	require.NoError(t, err)

	left := pixel(tensor, 10, 112)
	right := pixel(tensor, 213, 112)
	assert.InDelta(t, 1.0, left[0], 1e-6)
	assert.InDelta(t, 0.0, left[2], 1e-6)
	assert.InDelta(t, 0.0, right[0], 1e-6)
	assert.InDelta(t, 1.0, right[2], 1e-6)
}

func TestPreprocess_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not base64", "not-base64!!"},
		{"empty", ""},
		{"prefix only", "data:image/png;base64,"},
		{"base64 of text", base64.StdEncoding.EncodeToString([]byte("definitely not an image"))},
		{"truncated png", encodePNG(t, solid(8, 8, color.White))[:40]},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tensor, err := p.Preprocess(tt.payload)
			assert.Nil(t, tensor)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestStripDataURL(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"data:image/png;base64,AAAA", "AAAA"},
		{"AAAA", "AAAA"},
		{",AAAA", "AAAA"},
		{"a,b,c", "b,c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, StripDataURL(tt.in))
	}

	once := StripDataURL("data:image/png;base64,AAAA")
	assert.Equal(t, once, StripDataURL(once))
}

func TestDecodePayload_OnlyDecodesAfterFirstComma(t *testing.T) {
	raw, err := DecodePayload("garbage!!prefix," + base64.StdEncoding.EncodeToString([]byte("hello")))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), raw)
}

// pngHeader returns a PNG holding only the signature and an IHDR chunk, which
// is all DecodeConfig reads.
func pngHeader(width, height uint32) []byte {
	ihdr := make([]byte, 0, 17)
	ihdr = append(ihdr, "IHDR"...)
	ihdr = binary.BigEndian.AppendUint32(ihdr, width)
	ihdr = binary.BigEndian.AppendUint32(ihdr, height)
	ihdr = append(ihdr, 8, 0, 0, 0, 0) // 8-bit grayscale

	buf := []byte("\x89PNG\r\n\x1a\n")
	buf = binary.BigEndian.AppendUint32(buf, 13)
	buf = append(buf, ihdr...)
	return binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(ihdr))
}

func TestPreprocess_RejectsOversizedImage(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
	}{
		{"square", 8192, 8192},
		{"wide", 65536, 300},
		{"just over", 4096, 4097},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := base64.StdEncoding.EncodeToString(pngHeader(tt.width, tt.height))

			tensor, err := New().Preprocess(payload)
			assert.Nil(t, tensor)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), "dimensions")
		})
	}
}

func TestPreprocess_TransparentPalette(t *testing.T) {
	palette := color.Palette{
		color.NRGBA{R: 255, G: 255, B: 255, A: 0},
		color.NRGBA{A: 255},
	}
	img := image.NewPaletted(image.Rect(0, 0, 20, 20), palette)

	tensor, err := New().Preprocess(encodePNG(t, img))
	require.NoError(t, err)
	assertTensorContract(t, tensor)

	px := pixel(tensor, 50, 50)
	assert.InDelta(t, 1.0, px[0], 1e-6)
	assert.InDelta(t, 1.0, px[1], 1e-6)
	assert.InDelta(t, 1.0, px[2], 1e-6)
}

func TestPreprocess_PremultipliedAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 64, G: 32, B: 0, A: 128})
		}
	}

	tensor := New().FromImage(img)
	assertTensorContract(t, tensor)

	px := pixel(tensor, 100, 100)
	assert.InDelta(t, 127.0/255.0, px[0], 1.5/255.0)
	assert.InDelta(t, 63.0/255.0, px[1], 1.5/255.0)
	assert.InDelta(t, 0.0, px[2], 1e-6)
}
