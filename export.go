package skysim

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"
)

// WritePNG writes a grayscale PNG rendering of the stamp. Pixel
// values are mapped through an asinh stretch, which keeps faint
// structure visible next to bright cores, then normalized to the
// stamp's maximum. zoom >= 1 upscales the output with Catmull-Rom
// resampling for inspection of small stamps.
func WritePNG(w io.Writer, s *Stamp, zoom int) error {
	if zoom < 1 {
		return fmt.Errorf("skysim: zoom must be >= 1, got %d", zoom)
	}

	var lo, hi float64
	for _, v := range s.Data() {
		lo = math.Min(lo, float64(v))
		hi = math.Max(hi, float64(v))
	}
	span := math.Asinh(hi) - math.Asinh(lo)

	width, height := s.Width(), s.Height()
	img := image.NewGray16(image.Rect(0, 0, width, height))
	b := s.Bounds()
	for iy := b.Y0; iy <= b.Y1; iy++ {
		for ix := b.X0; ix <= b.X1; ix++ {
			var g uint16
			if span > 0 {
				t := (math.Asinh(float64(s.At(ix, iy))) - math.Asinh(lo)) / span
				g = uint16(t * math.MaxUint16)
			}
			// PNG rows run top-down; stamp rows run bottom-up.
			img.SetGray16(ix-b.X0, b.Y1-iy, color.Gray16{Y: g})
		}
	}

	if zoom == 1 {
		return png.Encode(w, img)
	}
	scaled := image.NewGray16(image.Rect(0, 0, width*zoom, height*zoom))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return png.Encode(w, scaled)
}

// SavePNG writes the stamp to a PNG file. See WritePNG.
func SavePNG(path string, s *Stamp, zoom int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return WritePNG(f, s, zoom)
}
