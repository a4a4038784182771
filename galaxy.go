package skysim

// Galaxy identifies one catalog source to render: a stable identifier,
// the source redshift (carried through for diagnostics), and the
// physical model.
type Galaxy struct {
	ID       uint64
	Redshift float64
	Model    Model
}

// GalaxyRenderer renders transformed-and-convolved images of a single
// galaxy, memoizing the last non-flux transform. The Engine creates
// one per successfully rendered galaxy; retrieve it with
// Engine.Renderer.
//
// A GalaxyRenderer is independent of the Engine once created, but its
// cache mutation is unsynchronized: drive each instance from one
// goroutine at a time.
type GalaxyRenderer struct {
	model    Model
	stamp    *Stamp
	mask     []bool
	dxArcsec float64
	dyArcsec float64
	psf      Model
	renderer Renderer

	// Cache of the last rendered non-flux transform. hasCached
	// distinguishes "never rendered" from a cached all-zero transform.
	lastParams Transform
	hasCached  bool
}

// NewGalaxyRenderer creates a renderer for one galaxy.
//
// The reference stamp is a previously rendered image of the galaxy
// with no transforms applied; it is copied, never modified. Its zero
// pixels define a fixed mask that every subsequent rendering is
// clipped against, and its bounds fix the region of the survey image
// rendered into.
func NewGalaxyRenderer(model Model, stamp *Stamp, survey *Survey, renderer Renderer) *GalaxyRenderer {
	owned := stamp.Copy()
	mask := make([]bool, len(owned.Data()))
	for i, v := range owned.Data() {
		mask[i] = v == 0
	}
	b := owned.Bounds()
	return &GalaxyRenderer{
		model:    model,
		stamp:    owned,
		mask:     mask,
		dxArcsec: 0.5 * float64(b.X0+b.X1+1-survey.ImageWidth) * survey.PixelScale,
		dyArcsec: 0.5 * float64(b.Y0+b.Y1+1-survey.ImageHeight) * survey.PixelScale,
		psf:      survey.PSF,
		renderer: renderer,
	}
}

// Bounds returns the rendered region in full-image pixel coordinates.
func (g *GalaxyRenderer) Bounds() Bounds { return g.stamp.Bounds() }

// Draw renders the galaxy with the given transform applied and the
// flux rescaled by (1+df).
//
// The transform (excluding df) keys an internal cache: repeated calls
// with the same transform reuse the previous rendering, and df only
// ever rescales the cached image. The returned stamp is a fresh copy,
// never the cached buffer, so callers may mutate it freely.
func (g *GalaxyRenderer) Draw(df float64, t Transform) (*Stamp, error) {
	if !g.hasCached || t != g.lastParams {
		// Render and cache at nominal flux; df is applied by rescaling.
		model := g.model.Transformed(t).Shift(-g.dxArcsec, -g.dyArcsec)
		if err := g.renderer.Convolve(g.stamp, model, g.psf); err != nil {
			return nil, err
		}
		data := g.stamp.Data()
		for i, masked := range g.mask {
			if masked {
				data[i] = 0
			}
		}
		g.lastParams = t
		g.hasCached = true
	}
	return g.stamp.Scaled(1 + df), nil
}
