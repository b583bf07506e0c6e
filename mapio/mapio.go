// Package mapio loads occupancy rasters from image files and converts
// between pixel and world coordinates.
package mapio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"path-planner/logger"
	"path-planner/planner"
)

// DefaultResolution is the world size of one pixel in metres.
const DefaultResolution = 0.01

// LoadFile decodes the image at path into an occupancy map.
func LoadFile(path string, threshold int) (*planner.OccupancyMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}
	defer f.Close()

	m, format, err := Decode(f, threshold)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	b := m.Bounds()
	logger.Info("Map loaded", "file", path, "format", format, "width", b.MaxX, "height", b.MaxY, "free", m.FreeCells())
	return m, nil
}

// Decode reads any registered image format. The first colour channel is
// taken as the intensity of each cell; for grayscale images that is the
// gray value itself.
func Decode(r io.Reader, threshold int) (*planner.OccupancyMap, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode map: %w", err)
	}
	m, err := FromImage(img, threshold)
	return m, format, err
}

// FromImage converts an image into an occupancy map. Cell (x,y) is pixel
// column x, row y counted from the top.
func FromImage(img image.Image, threshold int) (*planner.OccupancyMap, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cells := make([]uint8, w*h)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			copy(cells[y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				cells[y*w+x] = uint8(r >> 8)
			}
		}
	}

	return planner.NewOccupancyMap(w, h, cells, threshold)
}
