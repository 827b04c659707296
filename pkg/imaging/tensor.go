package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// ErrUnsupportedChannels is returned when a tensor's channel count is not 1, 3 or 4.
var ErrUnsupportedChannels = errors.New("unsupported channel count")

// Tensor is an in-memory pixel buffer in (batch, height, width, channels) layout,
// the shape image-generation hosts hand to nodes. Sample values are either
// normalized to [0,1] or already 8-bit in [0,255].
type Tensor struct {
	Data     []float32
	Batch    int
	Height   int
	Width    int
	Channels int
}

func New(batch, height, width, channels int) *Tensor {
	return &Tensor{
		Data:     make([]float32, batch*height*width*channels),
		Batch:    batch,
		Height:   height,
		Width:    width,
		Channels: channels,
	}
}

// FromImage builds a single-element 3-channel tensor with values in [0,1].
func FromImage(img image.Image) *Tensor {
	b := img.Bounds()
	t := New(1, b.Dy(), b.Dx(), 3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			t.Data[i] = float32(r>>8) / 255.0
			t.Data[i+1] = float32(g>>8) / 255.0
			t.Data[i+2] = float32(bl>>8) / 255.0
			i += 3
		}
	}
	return t
}

func (t *Tensor) Set(batch, y, x, c int, v float32) {
	t.Data[((batch*t.Height+y)*t.Width+x)*t.Channels+c] = v
}

func (t *Tensor) at(batch, y, x, c int) float32 {
	return t.Data[((batch*t.Height+y)*t.Width+x)*t.Channels+c]
}

// First returns a view of the first batch element. Any remaining elements in
// the batch are ignored, matching the host convention for single-image nodes.
func (t *Tensor) First() *Tensor {
	if t.Batch <= 1 {
		return t
	}
	n := t.Height * t.Width * t.Channels
	return &Tensor{
		Data:     t.Data[:n],
		Batch:    1,
		Height:   t.Height,
		Width:    t.Width,
		Channels: t.Channels,
	}
}

// ToImage normalizes the first batch element to an 8-bit image. Values are
// scaled by 255 when every sample is <= 1.0, otherwise they are taken as
// already 8-bit. A 4th channel is dropped without compositing.
func (t *Tensor) ToImage() (image.Image, error) {
	switch t.Channels {
	case 1, 3, 4:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, t.Channels)
	}

	first := t.First()
	scale := float32(1.0)
	if maxSample(first.Data) <= 1.0 {
		scale = 255.0
	}

	if t.Channels == 1 {
		img := image.NewGray(image.Rect(0, 0, first.Width, first.Height))
		for y := 0; y < first.Height; y++ {
			for x := 0; x < first.Width; x++ {
				img.SetGray(x, y, color.Gray{Y: clamp8(first.at(0, y, x, 0) * scale)})
			}
		}
		return img, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, first.Width, first.Height))
	for y := 0; y < first.Height; y++ {
		for x := 0; x < first.Width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: clamp8(first.at(0, y, x, 0) * scale),
				G: clamp8(first.at(0, y, x, 1) * scale),
				B: clamp8(first.at(0, y, x, 2) * scale),
				A: 255,
			})
		}
	}
	return img, nil
}

func maxSample(data []float32) float32 {
	m := float32(0)
	for _, v := range data {
		if v > m {
			m = v
		}
	}
	return m
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// EncodePNG encodes an image as a lossless PNG byte stream.
func EncodePNG(img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("error encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes into a base64 data URI suitable for a chat image block.
func DataURI(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}
