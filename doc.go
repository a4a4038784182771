// Package skysim renders simulated astronomical survey images from
// parametric galaxy models.
//
// # Overview
//
// skysim produces postage-stamp pixel data for individual sources and
// per-parameter partial-derivative images (a discrete Fisher-information
// basis) for weak-lensing measurement studies. Sources are analytic
// profiles (Gaussian, exponential, de Vaucouleurs) convolved with a
// survey point-spread function and accumulated into a shared survey
// image.
//
// # Quick Start
//
//	import "github.com/weaklens/skysim"
//
//	psf := skysim.GaussianPSF(0.7)
//	survey := skysim.NewSurvey(skysim.SurveyConfig{
//	    PixelScale:   0.2,
//	    Width:        512,
//	    Height:       512,
//	    MeanSkyLevel: 780,
//	}, psf)
//
//	engine, err := skysim.NewEngine(survey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gal := skysim.Galaxy{ID: 1, Model: skysim.Gaussian(1e5, 3.1, -8.4, 0.5)}
//	cube, err := engine.RenderGalaxy(gal, false)
//	if errors.Is(err, skysim.ErrSourceNotVisible) {
//	    // too faint or outside the field: skip
//	}
//
// # Coordinate System
//
// Sky positions are arcseconds relative to the survey image center.
// Pixel indices are zero-based with (0,0) at the bottom-left corner of
// the image; x increases right, y increases up.
//
// # Renderers
//
// Convolution with the PSF is delegated to a Renderer. The default
// FourierRenderer performs FFT-based convolution on the CPU; a custom
// implementation can be injected with WithRenderer, which tests use to
// count and fake rendering calls.
//
// # Concurrency
//
// An Engine reuses one scratch stamp across RenderGalaxy calls and
// mutates the survey accumulator in place, so a given Engine and its
// Survey must be driven by one goroutine at a time. GalaxyRenderer
// instances are independent of the Engine once created, but each
// instance's cache is unsynchronized as well.
package skysim
