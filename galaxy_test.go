package skysim

import (
	"math"
	"testing"
)

// countingRenderer wraps a Renderer and counts Convolve invocations.
type countingRenderer struct {
	inner Renderer
	calls int
}

func (c *countingRenderer) Convolve(stamp *Stamp, models ...Model) error {
	c.calls++
	return c.inner.Convolve(stamp, models...)
}

// testSurvey builds the reference survey used throughout the tests:
// 100x100 pixels at 0.2"/pixel with 25 electrons of mean sky.
func testSurvey() *Survey {
	return NewSurvey(SurveyConfig{
		PixelScale:   0.2,
		Width:        100,
		Height:       100,
		MeanSkyLevel: 25,
	}, GaussianPSF(0.7))
}

// testGalaxyRenderer renders a bright centered galaxy once and wraps
// the result in a GalaxyRenderer driven by the counting renderer.
func testGalaxyRenderer(t *testing.T) (*GalaxyRenderer, *countingRenderer) {
	t.Helper()
	survey := testSurvey()
	counting := &countingRenderer{inner: NewFourierRenderer()}

	model := Gaussian(1e5, -0.1, -0.1, 0.5)
	ref := NewStamp(25, 25, survey.PixelScale)
	ref.SetOrigin(37, 37)
	if err := counting.inner.Convolve(ref, model.Shift(0.1, 0.1), survey.PSF); err != nil {
		t.Fatalf("rendering reference stamp: %v", err)
	}
	return NewGalaxyRenderer(model, ref, survey, counting), counting
}

func TestGalaxyRenderer_DrawCachesTransform(t *testing.T) {
	gr, counting := testGalaxyRenderer(t)

	tf := Transform{DX: 0.1}
	first, err := gr.Draw(0, tf)
	if err != nil {
		t.Fatalf("first Draw failed: %v", err)
	}
	second, err := gr.Draw(0, tf)
	if err != nil {
		t.Fatalf("second Draw failed: %v", err)
	}
	if counting.calls != 1 {
		t.Errorf("renderer invoked %d times for identical transforms, want 1", counting.calls)
	}
	for i, v := range first.Data() {
		if v != second.Data()[i] {
			t.Fatalf("cache hit returned different pixels at %d: %g != %g", i, v, second.Data()[i])
		}
	}

	// A different transform forces a recompute.
	if _, err := gr.Draw(0, Transform{DX: 0.2}); err != nil {
		t.Fatalf("third Draw failed: %v", err)
	}
	if counting.calls != 2 {
		t.Errorf("renderer invoked %d times after transform change, want 2", counting.calls)
	}
}

func TestGalaxyRenderer_ZeroTransformStillRendersOnce(t *testing.T) {
	// The all-zero transform is a real rendering, not a false cache
	// hit on the never-rendered state.
	gr, counting := testGalaxyRenderer(t)
	out, err := gr.Draw(0, Transform{})
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if counting.calls != 1 {
		t.Errorf("renderer invoked %d times, want 1", counting.calls)
	}
	if out.Sum() == 0 {
		t.Error("zero-transform rendering is empty")
	}
}

func TestGalaxyRenderer_FluxRescaleIsPureCacheHit(t *testing.T) {
	gr, counting := testGalaxyRenderer(t)

	nominal, err := gr.Draw(0, Transform{})
	if err != nil {
		t.Fatalf("Draw(df=0) failed: %v", err)
	}
	doubled, err := gr.Draw(1.0, Transform{})
	if err != nil {
		t.Fatalf("Draw(df=1) failed: %v", err)
	}
	if counting.calls != 1 {
		t.Errorf("flux rescale invoked the renderer: %d calls, want 1", counting.calls)
	}
	for i, v := range nominal.Data() {
		if got, want := doubled.Data()[i], 2*v; math.Abs(float64(got-want)) > 1e-6*math.Abs(float64(want)) {
			t.Fatalf("pixel %d: Draw(df=1) = %g, want 2x%g", i, got, v)
		}
	}
}

func TestGalaxyRenderer_ReturnedStampIsACopy(t *testing.T) {
	gr, _ := testGalaxyRenderer(t)
	first, err := gr.Draw(0, Transform{})
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	first.Fill(-1)

	second, err := gr.Draw(0, Transform{})
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	for i, v := range second.Data() {
		if v == -1 {
			t.Fatalf("mutating a returned stamp corrupted the cache at %d", i)
		}
	}
	if second.Sum() <= 0 {
		t.Error("cached stamp corrupted by caller mutation")
	}
}

func TestGalaxyRenderer_ZeroMaskPersists(t *testing.T) {
	survey := testSurvey()
	renderer := NewFourierRenderer()

	model := Gaussian(1e5, -0.1, -0.1, 0.5)
	ref := NewStamp(25, 25, survey.PixelScale)
	ref.SetOrigin(37, 37)
	if err := renderer.Convolve(ref, model.Shift(0.1, 0.1), survey.PSF); err != nil {
		t.Fatalf("rendering reference stamp: %v", err)
	}
	// Zero an arbitrary block: the mask must hold it at zero in every
	// subsequent rendering, whatever the transform.
	for iy := 40; iy <= 43; iy++ {
		for ix := 38; ix <= 41; ix++ {
			ref.Set(ix, iy, 0)
		}
	}

	gr := NewGalaxyRenderer(model, ref, survey, renderer)
	for _, tf := range []Transform{{}, {DX: 0.3}, {DS: 0.1}, {DG1: 0.05}} {
		out, err := gr.Draw(0, tf)
		if err != nil {
			t.Fatalf("Draw(%+v) failed: %v", tf, err)
		}
		for iy := 40; iy <= 43; iy++ {
			for ix := 38; ix <= 41; ix++ {
				if got := out.At(ix, iy); got != 0 {
					t.Fatalf("masked pixel (%d,%d) = %g under %+v, want 0", ix, iy, got, tf)
				}
			}
		}
	}
}
