package skysim

// Renderer is the optical rendering primitive: it draws the
// convolution of one or more source models into a stamp.
type Renderer interface {
	// Convolve renders the convolution of the listed models into the
	// stamp in place, overwriting its previous contents. Pixel values
	// are integrated fluxes per pixel, so no separate pixel-response
	// convolution is needed. The stamp's bounds and scale define the
	// target region.
	Convolve(stamp *Stamp, models ...Model) error
}
