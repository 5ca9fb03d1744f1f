package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
)

const defaultJPEGQuality = 95

// Image decodes compressed three-channel pictures and re-encodes them to the
// configured output format. The only lossy step is the output encoding
// itself.
type Image struct {
	format  ImageFormat
	quality int
}

// NewImage constructs an image decoder. Quality applies to lossy output
// formats; zero selects the default.
func NewImage(format ImageFormat, quality int) *Image {
	if format == "" {
		format = FormatJPEG
	}
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}
	return &Image{format: format, quality: quality}
}

// Decode decompresses the payload and re-encodes it as one artifact.
func (d *Image) Decode(payload []byte) ([]Artifact, error) {
	img, err := jpeg.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decompress image: %w", err)
	}
	data, err := encodeImage(img, d.format, d.quality)
	if err != nil {
		return nil, err
	}
	return []Artifact{{Suffix: "." + string(d.format), Data: data}}, nil
}

func encodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case FormatWebP:
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return nil, fmt.Errorf("encode webp: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	return buf.Bytes(), nil
}
