package skysim

// EngineOption configures an Engine during creation.
//
// Example:
//
//	// Defaults: min S/N 0.05, 30 arcsec truncation, FFT renderer
//	engine, err := skysim.NewEngine(survey)
//
//	// Tighter threshold and a custom renderer (dependency injection)
//	engine, err := skysim.NewEngine(survey,
//	    skysim.WithMinSNR(0.5),
//	    skysim.WithRenderer(myRenderer))
type EngineOption func(*engineOptions)

type engineOptions struct {
	minSNR         float64
	truncateRadius float64
	noMargin       bool
	verboseRender  bool
	renderer       Renderer
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		minSNR:         0.05,
		truncateRadius: 30.0,
	}
}

// WithMinSNR sets the per-pixel signal-to-noise threshold below which
// source pixels are zeroed. Default 0.05.
func WithMinSNR(snr float64) EngineOption {
	return func(o *engineOptions) { o.minSNR = snr }
}

// WithTruncateRadius sets the radius in arcseconds beyond which all
// extended sources are truncated. Default 30.
func WithTruncateRadius(radius float64) EngineOption {
	return func(o *engineOptions) { o.truncateRadius = radius }
}

// WithNoMargin skips simulating the tails of objects centered just
// outside the field.
func WithNoMargin(noMargin bool) EngineOption {
	return func(o *engineOptions) { o.noMargin = noMargin }
}

// WithVerboseRender emits per-source rendering diagnostics through the
// package logger at debug level.
func WithVerboseRender(verbose bool) EngineOption {
	return func(o *engineOptions) { o.verboseRender = verbose }
}

// WithRenderer injects a custom optical rendering backend. The default
// is a FourierRenderer.
func WithRenderer(r Renderer) EngineOption {
	return func(o *engineOptions) { o.renderer = r }
}
