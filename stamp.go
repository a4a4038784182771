package skysim

import "fmt"

// Stamp is a rectangular float32 pixel buffer with an explicit origin
// in full-image pixel coordinates and a fixed arcsec/pixel scale.
// Pixel values are detected electrons per pixel for a full exposure.
type Stamp struct {
	bounds Bounds
	scale  float64
	data   []float32
}

// NewStamp creates a stamp of the given dimensions with its origin at
// pixel (0,0) and all pixels zero.
func NewStamp(width, height int, scale float64) *Stamp {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("skysim: invalid stamp dimensions %dx%d", width, height))
	}
	return &Stamp{
		bounds: Bounds{X0: 0, X1: width - 1, Y0: 0, Y1: height - 1},
		scale:  scale,
		data:   make([]float32, width*height),
	}
}

// Bounds returns the stamp's position in full-image pixel coordinates.
func (s *Stamp) Bounds() Bounds { return s.bounds }

// Scale returns the pixel scale in arcseconds per pixel.
func (s *Stamp) Scale() float64 { return s.scale }

// Width returns the number of pixel columns.
func (s *Stamp) Width() int { return s.bounds.Width() }

// Height returns the number of pixel rows.
func (s *Stamp) Height() int { return s.bounds.Height() }

// Data returns the raw pixel data in row-major order, rows bottom-up.
func (s *Stamp) Data() []float32 { return s.data }

// SetOrigin moves the stamp so its bottom-left pixel has full-image
// indices (x0,y0). Pixel contents are unchanged.
func (s *Stamp) SetOrigin(x0, y0 int) {
	w, h := s.bounds.Width(), s.bounds.Height()
	s.bounds = Bounds{X0: x0, X1: x0 + w - 1, Y0: y0, Y1: y0 + h - 1}
}

func (s *Stamp) index(ix, iy int) int {
	return (iy-s.bounds.Y0)*s.bounds.Width() + (ix - s.bounds.X0)
}

// At returns the pixel value at full-image indices (ix,iy).
// Indices outside the stamp bounds return 0.
func (s *Stamp) At(ix, iy int) float32 {
	if !s.bounds.Contains(ix, iy) {
		return 0
	}
	return s.data[s.index(ix, iy)]
}

// Set stores a pixel value at full-image indices (ix,iy).
// Indices outside the stamp bounds are silently ignored.
func (s *Stamp) Set(ix, iy int, v float32) {
	if !s.bounds.Contains(ix, iy) {
		return
	}
	s.data[s.index(ix, iy)] = v
}

// AddAt adds v to the pixel at full-image indices (ix,iy).
// Indices outside the stamp bounds are silently ignored.
func (s *Stamp) AddAt(ix, iy int, v float32) {
	if !s.bounds.Contains(ix, iy) {
		return
	}
	s.data[s.index(ix, iy)] += v
}

// PixelOffset returns the arcsec offset of the center of pixel (ix,iy)
// from the stamp center. Offsets step in integer multiples of the
// pixel scale; for even dimensions they are half-integer multiples.
func (s *Stamp) PixelOffset(ix, iy int) (dx, dy float64) {
	dx = (float64(ix-s.bounds.X0) - float64(s.bounds.Width()-1)/2) * s.scale
	dy = (float64(iy-s.bounds.Y0) - float64(s.bounds.Height()-1)/2) * s.scale
	return dx, dy
}

// Fill sets every pixel to v.
func (s *Stamp) Fill(v float32) {
	for i := range s.data {
		s.data[i] = v
	}
}

// Copy returns a deep copy of the stamp.
func (s *Stamp) Copy() *Stamp {
	data := make([]float32, len(s.data))
	copy(data, s.data)
	return &Stamp{bounds: s.bounds, scale: s.scale, data: data}
}

// Scaled returns a fresh copy with every pixel multiplied by f.
func (s *Stamp) Scaled(f float64) *Stamp {
	out := s.Copy()
	for i := range out.data {
		out.data[i] = float32(float64(out.data[i]) * f)
	}
	return out
}

// Crop returns a copy of the sub-region b, which must lie inside the
// stamp bounds. The copy keeps its position in full-image coordinates.
func (s *Stamp) Crop(b Bounds) *Stamp {
	if s.bounds.Intersect(b) != b || b.Empty() {
		panic(fmt.Sprintf("skysim: crop %v outside stamp bounds %v", b, s.bounds))
	}
	out := &Stamp{bounds: b, scale: s.scale, data: make([]float32, b.Area())}
	for iy := b.Y0; iy <= b.Y1; iy++ {
		for ix := b.X0; ix <= b.X1; ix++ {
			out.data[out.index(ix, iy)] = s.data[s.index(ix, iy)]
		}
	}
	return out
}

// AddWithin adds src's pixels to s over the given region, which must be
// covered by both stamps. Pixels outside the region are unchanged.
func (s *Stamp) AddWithin(src *Stamp, region Bounds) {
	if s.bounds.Intersect(region) != region || src.bounds.Intersect(region) != region {
		panic(fmt.Sprintf("skysim: region %v not covered by both %v and %v",
			region, s.bounds, src.bounds))
	}
	for iy := region.Y0; iy <= region.Y1; iy++ {
		for ix := region.X0; ix <= region.X1; ix++ {
			s.data[s.index(ix, iy)] += src.data[src.index(ix, iy)]
		}
	}
}

// Sum returns the total flux in the stamp.
func (s *Stamp) Sum() float64 {
	var sum float64
	for _, v := range s.data {
		sum += float64(v)
	}
	return sum
}
