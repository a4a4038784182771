package skysim

import (
	"fmt"
	"math"
)

// Datacube is the rendering output for one galaxy: a stack of
// equally-sized postage stamps and the bounds locating them in the
// full survey image. Layer 0 is the nominal rendering, which doubles
// as the flux partial derivative; layers 1 to 5, present unless
// partials were skipped, are the centered finite-difference partial
// derivatives with respect to dx, dy, ds, dg1 and dg2.
type Datacube struct {
	Stamps []*Stamp
	Bounds Bounds
}

// Datacube layer indices.
const (
	LayerNominal = iota
	LayerDX
	LayerDY
	LayerDS
	LayerDG1
	LayerDG2
)

// Engine renders galaxy models against a survey.
//
// Pixels outside the truncation radius or below the minimum S/N cut
// have their flux set to zero in the rendered image, so the total
// rendered flux may be below the total model flux. That truncation
// loss is intentional and unreported apart from verbose diagnostics.
//
// The Engine reuses one scratch stamp across RenderGalaxy calls:
// single writer at a time.
type Engine struct {
	survey         *Survey
	minSNR         float64
	truncateRadius float64
	noMargin       bool
	verboseRender  bool
	renderer       Renderer

	// Derived once at construction.
	pixelCut    float64
	psfDilution float64
	padding     int
	stamp       *Stamp
	truncMask   []bool

	renderers map[uint64]*GalaxyRenderer
}

// NewEngine creates a rendering engine for the survey. See
// EngineOption for the available settings and their defaults.
func NewEngine(survey *Survey, opts ...EngineOption) (*Engine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.minSNR <= 0 {
		return nil, fmt.Errorf("skysim: min S/N must be positive, got %g", o.minSNR)
	}
	if o.truncateRadius <= 0 {
		return nil, fmt.Errorf("skysim: truncate radius must be positive, got %g", o.truncateRadius)
	}
	if o.renderer == nil {
		o.renderer = NewFourierRenderer()
	}

	e := &Engine{
		survey:         survey,
		minSNR:         o.minSNR,
		truncateRadius: o.truncateRadius,
		noMargin:       o.noMargin,
		verboseRender:  o.verboseRender,
		renderer:       o.renderer,
		renderers:      make(map[uint64]*GalaxyRenderer),
	}

	// Pixel flux threshold in electrons per pixel, set by the expected
	// sky fluctuations over a full exposure.
	skyNoise := math.Sqrt(survey.MeanSkyLevel)
	e.pixelCut = e.minSNR * skyNoise

	// PSF dilution factor: the maximum fraction of a source's total
	// flux that can land in a single pixel after PSF convolution.
	psfStamp := NewStamp(1, 1, survey.PixelScale)
	if err := e.renderer.Convolve(psfStamp, survey.PSF); err != nil {
		return nil, fmt.Errorf("skysim: rendering PSF dilution: %w", err)
	}
	e.psfDilution = float64(psfStamp.At(0, 0))

	// Square scratch stamp with width = height = 2*padding + 1, sized
	// so the truncation disk fits.
	e.padding = int(math.Ceil(e.truncateRadius/survey.PixelScale - 0.5))
	side := 2*e.padding + 1
	e.stamp = NewStamp(side, side, survey.PixelScale)

	// Truncation mask over the scratch stamp, relative to its center.
	e.truncMask = make([]bool, side*side)
	for iy := 0; iy < side; iy++ {
		for ix := 0; ix < side; ix++ {
			dx := float64(ix-e.padding) * survey.PixelScale
			dy := float64(iy-e.padding) * survey.PixelScale
			e.truncMask[iy*side+ix] = math.Hypot(dx, dy) <= e.truncateRadius
		}
	}

	Logger().Info("engine configured",
		"pixel_cut", e.pixelCut,
		"psf_dilution", e.psfDilution,
		"padding", e.padding)

	return e, nil
}

// PixelCut returns the minimum per-pixel flux in electrons for a pixel
// to be retained.
func (e *Engine) PixelCut() float64 { return e.pixelCut }

// PSFDilution returns the peak fraction of total flux landing in a
// single pixel after PSF convolution.
func (e *Engine) PSFDilution() float64 { return e.psfDilution }

// Renderer returns the GalaxyRenderer registered for a previously
// rendered galaxy, or nil if the galaxy has not been rendered.
func (e *Engine) Renderer(id uint64) *GalaxyRenderer {
	return e.renderers[id]
}

// Describe returns a human-readable summary of the rendering
// configuration.
func (e *Engine) Describe() string {
	return fmt.Sprintf(
		"Will render all pixels with at least %.1f detected electrons.\nPSF dilution factor is %.6f.",
		e.pixelCut, e.psfDilution)
}

// fisherVariation names one transform parameter and the step used for
// its centered finite difference.
type fisherVariation struct {
	name  string
	delta float64
	apply func(delta float64) Transform
}

func (e *Engine) fisherVariations() []fisherVariation {
	return []fisherVariation{
		{"dx", e.survey.PixelScale / 3, func(d float64) Transform { return Transform{DX: d} }},
		{"dy", e.survey.PixelScale / 3, func(d float64) Transform { return Transform{DY: d} }},
		{"ds", 0.05, func(d float64) Transform { return Transform{DS: d} }},
		{"dg1", 0.03, func(d float64) Transform { return Transform{DG1: d} }},
		{"dg2", 0.03, func(d float64) Transform { return Transform{DG2: d} }},
	}
}

// RenderGalaxy renders a galaxy model for the simulated survey,
// accumulates it into the survey image, and registers a GalaxyRenderer
// for it under the galaxy's ID.
//
// The returned datacube holds one layer when noPartials is set and six
// otherwise. The datacube bounds can extend beyond the survey image
// but always overlap it where the source is above threshold.
//
// RenderGalaxy fails with ErrSourceNotVisible when the galaxy has no
// pixel above threshold visible in the survey; any other error is a
// fatal configuration or rendering failure.
func (e *Engine) RenderGalaxy(galaxy Galaxy, noPartials bool) (*Datacube, error) {
	// Skip sources too faint to possibly cross the cut anywhere after
	// PSF convolution, before any expensive rendering.
	if galaxy.Model.Flux()*e.psfDilution < e.pixelCut {
		return nil, ErrSourceNotVisible
	}

	// Central pixel indices of the source in the full image.
	cx, cy := galaxy.Model.Centroid()
	xPixels, yPixels := e.survey.ImageCoordinates(cx, cy)
	xCenter := int(math.Floor(xPixels))
	yCenter := int(math.Floor(yPixels))

	if e.noMargin && !e.survey.Bounds().Contains(xCenter, yCenter) {
		return nil, ErrSourceNotVisible
	}

	// Bounding box for simulating this galaxy.
	box := Bounds{
		X0: xCenter - e.padding, X1: xCenter + e.padding,
		Y0: yCenter - e.padding, Y1: yCenter + e.padding,
	}

	// Offset of the bounding box center from the image center, in
	// arcseconds. The model is shifted by the negative offset so the
	// rendering is centered on the stamp.
	dxStamp := 0.5 * float64(box.X0+box.X1+1-e.survey.ImageWidth) * e.survey.PixelScale
	dyStamp := 0.5 * float64(box.Y0+box.Y1+1-e.survey.ImageHeight) * e.survey.PixelScale

	// Render the PSF-convolved model into the scratch stamp. The
	// renderer integrates over pixels, so there is no separate
	// pixel-response convolution.
	e.stamp.SetOrigin(box.X0, box.Y0)
	shifted := galaxy.Model.Shift(-dxStamp, -dyStamp)
	if err := e.renderer.Convolve(e.stamp, shifted, e.survey.PSF); err != nil {
		return nil, fmt.Errorf("skysim: rendering galaxy %d: %w", galaxy.ID, err)
	}

	// Keep pixels above the cut and inside the truncation disk; zero
	// everything else, tracking the tight bounds of what survives.
	data := e.stamp.Data()
	crop := Bounds{X0: box.X1 + 1, X1: box.X0 - 1, Y0: box.Y1 + 1, Y1: box.Y0 - 1}
	kept := 0
	side := 2*e.padding + 1
	for iy := 0; iy < side; iy++ {
		for ix := 0; ix < side; ix++ {
			i := iy*side + ix
			if e.truncMask[i] && float64(data[i]) > e.pixelCut {
				kept++
				crop.X0 = min(crop.X0, box.X0+ix)
				crop.X1 = max(crop.X1, box.X0+ix)
				crop.Y0 = min(crop.Y0, box.Y0+iy)
				crop.Y1 = max(crop.Y1, box.Y0+iy)
			} else {
				data[i] = 0
			}
		}
	}
	if kept == 0 {
		return nil, ErrSourceNotVisible
	}
	cropped := e.stamp.Crop(crop)

	// Add the rendered model to the survey image over the overlap with
	// the field; flux beyond the field edge is silently dropped.
	overlap := crop.Intersect(e.survey.Bounds())
	if overlap.Empty() {
		return nil, ErrSourceNotVisible
	}
	e.survey.Image.AddWithin(cropped, overlap)

	// Register a renderer for this galaxy, using the cropped stamp as
	// its zero-mask template.
	renderer := NewGalaxyRenderer(galaxy.Model, cropped, e.survey, e.renderer)
	e.renderers[galaxy.ID] = renderer

	cube := &Datacube{Bounds: crop}
	if noPartials {
		cube.Stamps = []*Stamp{cropped}
	} else {
		// The nominal image doubles as the flux partial derivative.
		cube.Stamps = make([]*Stamp, 0, 6)
		cube.Stamps = append(cube.Stamps, cropped)
		for _, v := range e.fisherVariations() {
			plus, err := renderer.Draw(0, v.apply(+v.delta))
			if err != nil {
				return nil, fmt.Errorf("skysim: %s partial for galaxy %d: %w", v.name, galaxy.ID, err)
			}
			minus, err := renderer.Draw(0, v.apply(-v.delta))
			if err != nil {
				return nil, fmt.Errorf("skysim: %s partial for galaxy %d: %w", v.name, galaxy.ID, err)
			}
			pd, md := plus.Data(), minus.Data()
			for i := range pd {
				pd[i] = float32(float64(pd[i]-md[i]) / (2 * v.delta))
			}
			cube.Stamps = append(cube.Stamps, plus)
		}
	}

	if e.verboseRender {
		sx, sy := shifted.Centroid()
		Logger().Debug("rendered galaxy model",
			"id", galaxy.ID,
			"z", galaxy.Redshift,
			"bounds", box.String(),
			"width", box.Width(),
			"height", box.Height(),
			"shift_x_arcsec", sx,
			"shift_y_arcsec", sy,
		)
	}

	return cube, nil
}
