package texture

import (
	"fmt"
	"image"
	"io"
	"os"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Carmen-Shannon/oxy-stages/common"
)

// Decode reads an encoded image (PNG, JPEG, BMP, TIFF or WebP) and converts it to tightly
// packed RGBA.
//
// Parameters:
//   - r: reader over the encoded image bytes
//
// Returns:
//   - *common.TextureStagingData: the decoded pixels
//   - string: the detected format name
//   - error: error if the data is not a supported image
func Decode(r io.Reader) (*common.TextureStagingData, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return toStaging(img), format, nil
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (*common.TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	data, _, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("texture file %s: %w", path, err)
	}
	return data, nil
}

func toStaging(img image.Image) *common.TextureStagingData {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*bounds.Dx() || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return &common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}
