package render

import (
	"bytes"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/recolor/pkg/errors"
)

// LoadTemplate decodes the base image at path.
func LoadTemplate(path string) (image.Image, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open base image")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open base image")
	}
	defer f.Close()
	return DecodeTemplate(f)
}

// DecodeTemplate decodes a base image from r.
func DecodeTemplate(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode base image")
	}
	return img, nil
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// PNG returns img encoded as PNG.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
