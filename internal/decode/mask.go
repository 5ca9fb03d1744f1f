package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// Mask decodes segmentation masks. Mask payloads are already single-channel
// compressed images, so the direct grayscale decode path is used; decoding as
// color and reducing channels afterwards produces identical pixels but is
// several times slower and exists only as a verification path
// (DecodeMaskViaColor). Masks are always written as PNG to keep them
// lossless.
type Mask struct{}

// NewMask constructs a mask decoder.
func NewMask() *Mask {
	return &Mask{}
}

// Decode decompresses the payload on the grayscale path and re-encodes it as
// one PNG artifact.
func (d *Mask) Decode(payload []byte) ([]Artifact, error) {
	gray, err := decodeMaskDirect(payload)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encode mask png: %w", err)
	}
	return []Artifact{{Suffix: ".png", Data: buf.Bytes()}}, nil
}

// decodeMaskDirect decodes a mask payload through the single-channel path.
func decodeMaskDirect(payload []byte) (*image.Gray, error) {
	img, err := jpeg.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decompress mask: %w", err)
	}
	if gray, ok := img.(*image.Gray); ok {
		return gray, nil
	}
	// Some rigs re-encoded masks with three channels; fall back to the
	// channel reduction in that case only.
	return ReduceToGray(img), nil
}

// DecodeMaskViaColor decodes a mask payload as a three-channel image and
// reduces it to a single channel. Byte-identical to the direct path for
// valid mask payloads and kept for equivalence verification; never the
// default because it is roughly 5x slower.
func DecodeMaskViaColor(payload []byte) (*image.Gray, error) {
	img, err := jpeg.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decompress mask: %w", err)
	}
	rgba := image.NewRGBA(img.Bounds())
	for y := rgba.Rect.Min.Y; y < rgba.Rect.Max.Y; y++ {
		for x := rgba.Rect.Min.X; x < rgba.Rect.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	return ReduceToGray(rgba), nil
}

// ReduceToGray collapses an image to one channel by taking the per-pixel
// maximum of the color channels, matching the rig's original mask handling.
func ReduceToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			v := c.R
			if c.G > v {
				v = c.G
			}
			if c.B > v {
				v = c.B
			}
			gray.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return gray
}
