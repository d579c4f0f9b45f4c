package document

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	// Registered decoders for DecodeImage.
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/vellumpdf/vellum/core"
)

// DecodeImage decodes an image in any registered format (PNG, JPEG, GIF,
// BMP, TIFF, WebP) and reports the format name.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// AddImage registers img as an image XObject and returns its handle.
// Grayscale images are stored as DeviceGray, everything else as
// DeviceRGB, 8 bits per component, flate compressed.
func (d *Document) AddImage(img image.Image) (*core.Indirect, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image has empty bounds: %v", bounds)
	}

	var samples []byte
	var colorSpace core.Name
	if gray, ok := img.(*image.Gray); ok {
		colorSpace = "DeviceGray"
		samples = make([]byte, 0, width*height)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := gray.Pix[(y-bounds.Min.Y)*gray.Stride:]
			samples = append(samples, row[:width]...)
		}
	} else {
		colorSpace = "DeviceRGB"
		samples = make([]byte, 0, width*height*3)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				samples = append(samples, byte(r>>8), byte(g>>8), byte(b>>8))
			}
		}
	}

	stream := &core.Stream{
		Dict: core.Dict{
			"Type":             core.Name("XObject"),
			"Subtype":          core.Name("Image"),
			"Width":            core.Int(width),
			"Height":           core.Int(height),
			"ColorSpace":       colorSpace,
			"BitsPerComponent": core.Int(8),
		},
		Data: samples,
	}
	if err := stream.ApplyFilter("FlateDecode"); err != nil {
		return nil, fmt.Errorf("compressing image samples: %w", err)
	}
	return d.Add(stream), nil
}

// AddJPEG registers raw JPEG data as an image XObject without
// transcoding: the payload passes through under the DCTDecode filter.
func (d *Document) AddJPEG(data []byte) (*core.Indirect, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JPEG data: %w", err)
	}

	colorSpace := core.Name("DeviceRGB")
	switch cfg.ColorModel {
	case color.GrayModel:
		colorSpace = "DeviceGray"
	case color.CMYKModel:
		colorSpace = "DeviceCMYK"
	}

	stream := &core.Stream{
		Dict: core.Dict{
			"Type":             core.Name("XObject"),
			"Subtype":          core.Name("Image"),
			"Width":            core.Int(cfg.Width),
			"Height":           core.Int(cfg.Height),
			"ColorSpace":       colorSpace,
			"BitsPerComponent": core.Int(8),
			"Filter":           core.Name("DCTDecode"),
			"Length":           core.Int(len(data)),
		},
		Data: data,
	}
	return d.Add(stream), nil
}
