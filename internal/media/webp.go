package media

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const maxPhotoWidth = 1024

// ToWebP decodes a jpeg/png upload, scales it down to at most maxPhotoWidth
// wide, and re-encodes as webp.
func ToWebP(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	if bounds.Dx() > maxPhotoWidth {
		h := bounds.Dy() * maxPhotoWidth / bounds.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, maxPhotoWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: 85}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
