package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	xdraw "golang.org/x/image/draw"
)

// JPEGQuality is the encoder quality used for saved maps.
const JPEGQuality = 95

// jfifUnitsDPI marks JFIF densities as dots per inch.
const jfifUnitsDPI = 1

// EncodeJPEG writes img as a baseline JPEG whose JFIF header records dpi.
func EncodeJPEG(w io.Writer, img image.Image, dpi int) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	data, err := withDensity(buf.Bytes(), dpi)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write jpeg: %w", err)
	}
	return nil
}

// withDensity inserts (or replaces) the JFIF APP0 segment right after SOI.
func withDensity(data []byte, dpi int) ([]byte, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, fmt.Errorf("encode jpeg: missing SOI marker")
	}
	if dpi <= 0 || dpi > 0xFFFF {
		return nil, fmt.Errorf("encode jpeg: density %d out of range", dpi)
	}

	app0 := make([]byte, 0, 18)
	app0 = append(app0, 0xFF, 0xE0, 0x00, 0x10)
	app0 = append(app0, 'J', 'F', 'I', 'F', 0x00)
	app0 = append(app0, 0x01, 0x01, jfifUnitsDPI)
	app0 = binary.BigEndian.AppendUint16(app0, uint16(dpi))
	app0 = binary.BigEndian.AppendUint16(app0, uint16(dpi))
	app0 = append(app0, 0x00, 0x00)

	rest := data[2:]
	if len(rest) >= 4 && rest[0] == 0xFF && rest[1] == 0xE0 {
		segLen := int(binary.BigEndian.Uint16(rest[2:4]))
		if 2+segLen <= len(rest) {
			rest = rest[2+segLen:]
		}
	}

	out := make([]byte, 0, 2+len(app0)+len(rest))
	out = append(out, 0xFF, 0xD8)
	out = append(out, app0...)
	return append(out, rest...), nil
}

// Density reads the JFIF density from encoded JPEG data. ok is false when
// the data carries no APP0 segment in dots per inch.
func Density(data []byte) (x, y int, ok bool) {
	if len(data) < 20 || data[0] != 0xFF || data[1] != 0xD8 || data[2] != 0xFF || data[3] != 0xE0 {
		return 0, 0, false
	}
	if !bytes.Equal(data[6:11], []byte("JFIF\x00")) || data[13] != jfifUnitsDPI {
		return 0, 0, false
	}
	return int(binary.BigEndian.Uint16(data[14:16])), int(binary.BigEndian.Uint16(data[16:18])), true
}

// TightCrop trims background-colored margins from img, keeping pad pixels of
// margin on every side. An image with nothing drawn is returned unchanged.
func TightCrop(img image.Image, background color.Color, pad int) image.Image {
	content := contentBounds(img, background)
	if content.Empty() {
		return img
	}
	rect := content.Inset(-pad).Intersect(img.Bounds())

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Copy(dst, image.Point{}, img, rect, xdraw.Src, nil)
	return dst
}

// contentBounds returns the smallest rectangle holding every pixel that
// differs from background.
func contentBounds(img image.Image, background color.Color) image.Rectangle {
	br, bg, bb, ba := background.RGBA()
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1

	differs := func(x, y int) bool {
		r, g, bl, a := img.At(x, y).RGBA()
		return r != br || g != bg || bl != bb || a != ba
	}
	if rgba, ok := img.(*image.RGBA); ok {
		want := color.RGBAModel.Convert(background).(color.RGBA)
		differs = func(x, y int) bool {
			i := rgba.PixOffset(x, y)
			p := rgba.Pix[i : i+4 : i+4]
			return p[0] != want.R || p[1] != want.G || p[2] != want.B || p[3] != want.A
		}
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !differs(x, y) {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
