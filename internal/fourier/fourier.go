// Package fourier implements 2-D linear convolution via FFT for the
// optical rendering backend.
//
// Transforms run on a zero-padded grid whose sides are rounded up to
// the next power of two, which keeps gonum's complex FFT on its fast
// path. The kernel is assumed centered (peak near the middle of its
// grid) and is embedded with its center at the padded grid's origin,
// negative offsets wrapping to the far edges, before multiplication
// in the frequency domain.
package fourier

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ConvolveSame convolves img (h×w, row-major) with a centered kernel
// (kh×kw) and returns the central h×w crop of the linear convolution.
// Both inputs are left unmodified.
//
// maxSize caps the side length of the padded FFT grid. A grid that
// would exceed the cap aborts with an error rather than attempting a
// runaway transform on a pathological profile.
func ConvolveSame(img, kernel [][]float64, maxSize int) ([][]float64, error) {
	h, w, err := rectSize(img)
	if err != nil {
		return nil, fmt.Errorf("fourier: bad image: %w", err)
	}
	kh, kw, err := rectSize(kernel)
	if err != nil {
		return nil, fmt.Errorf("fourier: bad kernel: %w", err)
	}

	// Padded grid for linear (non-circular) convolution.
	fh := nextPow2(h + kh - 1)
	fw := nextPow2(w + kw - 1)
	if fh > maxSize || fw > maxSize {
		return nil, fmt.Errorf("fourier: padded grid %dx%d exceeds maximum FFT size %d", fw, fh, maxSize)
	}

	a := makeComplex2D(fh, fw)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a[y][x] = complex(img[y][x], 0)
		}
	}

	// Embed the kernel with its center at (0,0) of the padded grid.
	// Negative offsets wrap around to the far edges, which is what a
	// circular convolution expects.
	b := makeComplex2D(fh, fw)
	cy := kh / 2
	cx := kw / 2
	for y := 0; y < kh; y++ {
		for x := 0; x < kw; x++ {
			b[(y-cy+fh)%fh][(x-cx+fw)%fw] = complex(kernel[y][x], 0)
		}
	}

	fft2InPlace(a, true)
	fft2InPlace(b, true)
	for y := 0; y < fh; y++ {
		for x := 0; x < fw; x++ {
			a[y][x] *= b[y][x]
		}
	}
	fft2InPlace(a, false)

	// Gonum transforms are unnormalized: forward followed by inverse
	// scales by the number of samples.
	scale := float64(fh * fw)

	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		out[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			out[y][x] = real(a[y][x]) / scale
		}
	}
	return out, nil
}

// fft2InPlace applies a forward or inverse 2-D FFT, rows then columns.
func fft2InPlace(a [][]complex128, forward bool) {
	h := len(a)
	w := len(a[0])

	rowFFT := fourier.NewCmplxFFT(w)
	colFFT := fourier.NewCmplxFFT(h)

	tmp := make([]complex128, w)
	for y := 0; y < h; y++ {
		copy(tmp, a[y])
		if forward {
			rowFFT.Coefficients(tmp, tmp)
		} else {
			rowFFT.Sequence(tmp, tmp)
		}
		copy(a[y], tmp)
	}

	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = a[y][x]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for y := 0; y < h; y++ {
			a[y][x] = col[y]
		}
	}
}

func makeComplex2D(h, w int) [][]complex128 {
	m := make([][]complex128, h)
	for y := range m {
		m[y] = make([]complex128, w)
	}
	return m
}

func rectSize(m [][]float64) (h, w int, err error) {
	h = len(m)
	if h == 0 {
		return 0, 0, fmt.Errorf("empty grid")
	}
	w = len(m[0])
	if w == 0 {
		return 0, 0, fmt.Errorf("empty grid")
	}
	for y := 1; y < h; y++ {
		if len(m[y]) != w {
			return 0, 0, fmt.Errorf("ragged grid: row %d has %d columns, want %d", y, len(m[y]), w)
		}
	}
	return h, w, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
