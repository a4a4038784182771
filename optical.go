package skysim

import (
	"fmt"

	"github.com/weaklens/skysim/internal/fourier"
)

// defaultMaxFFTSize caps the padded FFT grid side length, preventing
// runaway transforms on pathological profiles.
const defaultMaxFFTSize = 1 << 16

// FourierRenderer is the default CPU rendering backend. Models are
// sampled at pixel centers and convolved pairwise with FFTs.
type FourierRenderer struct {
	maxFFTSize int
}

// NewFourierRenderer creates a renderer with the default FFT size cap.
func NewFourierRenderer() *FourierRenderer {
	return &FourierRenderer{maxFFTSize: defaultMaxFFTSize}
}

// SetMaxFFTSize overrides the padded-grid side length cap.
func (r *FourierRenderer) SetMaxFFTSize(n int) {
	r.maxFFTSize = n
}

// Convolve implements the Renderer interface.
//
// The first model is sampled at pixel centers; each further model is
// sampled as a centered kernel and folded in with an FFT convolution.
// Sampled values carry a pixelScale^2 factor, converting surface
// brightness to flux per pixel.
//
// The source is sampled on a grid padded by the kernel half-width, so
// flux falling just outside the stamp still contributes to pixels
// inside it and the result does not depend on the stamp extent.
func (r *FourierRenderer) Convolve(stamp *Stamp, models ...Model) error {
	if len(models) == 0 {
		return fmt.Errorf("skysim: Convolve requires at least one model")
	}

	side := kernelSide(stamp)
	pad := 0
	if len(models) > 1 {
		pad = side / 2
	}

	img := r.sampleSource(stamp, models[0], pad)
	for _, m := range models[1:] {
		kernel := r.sampleKernel(stamp, m, side)
		var err error
		img, err = fourier.ConvolveSame(img, kernel, r.maxFFTSize)
		if err != nil {
			return err
		}
	}

	b := stamp.Bounds()
	for iy := b.Y0; iy <= b.Y1; iy++ {
		for ix := b.X0; ix <= b.X1; ix++ {
			stamp.Set(ix, iy, float32(img[iy-b.Y0+pad][ix-b.X0+pad]))
		}
	}
	return nil
}

// kernelSide picks an odd kernel grid side covering the stamp.
func kernelSide(stamp *Stamp) int {
	side := stamp.Bounds().Width()
	if h := stamp.Bounds().Height(); h > side {
		side = h
	}
	if side%2 == 0 {
		side++
	}
	return side
}

// sampleSource evaluates the model's flux per pixel at the center of
// each stamp pixel, honoring the model's true sub-pixel centroid, on a
// grid extended by pad pixels on every side.
func (r *FourierRenderer) sampleSource(stamp *Stamp, m Model, pad int) [][]float64 {
	b := stamp.Bounds()
	area := stamp.Scale() * stamp.Scale()
	out := make([][]float64, b.Height()+2*pad)
	for iy := b.Y0 - pad; iy <= b.Y1+pad; iy++ {
		row := make([]float64, b.Width()+2*pad)
		for ix := b.X0 - pad; ix <= b.X1+pad; ix++ {
			dx, dy := stamp.PixelOffset(ix, iy)
			row[ix-b.X0+pad] = m.SurfaceBrightness(dx, dy) * area
		}
		out[iy-b.Y0+pad] = row
	}
	return out
}

// sampleKernel evaluates a convolution partner (typically the PSF) on
// an odd-sized grid centered on the model's own frame origin, so the
// kernel center is unambiguous for the FFT shift.
func (r *FourierRenderer) sampleKernel(stamp *Stamp, m Model, side int) [][]float64 {
	half := side / 2
	scale := stamp.Scale()
	area := scale * scale
	out := make([][]float64, side)
	for iy := 0; iy < side; iy++ {
		row := make([]float64, side)
		for ix := 0; ix < side; ix++ {
			row[ix] = m.SurfaceBrightness(float64(ix-half)*scale, float64(iy-half)*scale) * area
		}
		out[iy] = row
	}
	return out
}
