package skysim

import (
	"math"
	"testing"
)

// radialFlux integrates a circular profile 2*pi*r*I(r) dr by midpoint
// rule out to rMax.
func radialFlux(m Model, rMax, dr float64) float64 {
	var sum float64
	for r := dr / 2; r < rMax; r += dr {
		sum += 2 * math.Pi * r * m.SurfaceBrightness(r, 0) * dr
	}
	return sum
}

// gridFlux integrates a (possibly asymmetric) profile on a square grid
// centered on the centroid.
func gridFlux(m Model, half, step float64) float64 {
	cx, cy := m.Centroid()
	var sum float64
	for y := -half + step/2; y < half; y += step {
		for x := -half + step/2; x < half; x += step {
			sum += m.SurfaceBrightness(cx+x, cy+y) * step * step
		}
	}
	return sum
}

func TestProfiles_UnitFluxNormalization(t *testing.T) {
	tests := []struct {
		name string
		m    Model
		rMax float64
	}{
		{"gaussian", Gaussian(1, 0, 0, 0.5), 5},
		{"exponential", Exponential(1, 0, 0, 0.5), 12},
		{"deVaucouleurs", DeVaucouleurs(1, 0, 0, 0.5), 60},
		{"gaussian psf", GaussianPSF(0.7), 5},
		{"moffat psf", MoffatPSF(0.7, 3.0), 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := radialFlux(tt.m, tt.rMax, 1e-4)
			if math.Abs(got-1) > 2e-3 {
				t.Errorf("integrated flux = %g, want 1", got)
			}
		})
	}
}

func TestModel_FluxAndCentroid(t *testing.T) {
	m := Gaussian(2.5e4, 1.5, -3.25, 0.6)
	if got := m.Flux(); got != 2.5e4 {
		t.Errorf("Flux() = %g, want 2.5e4", got)
	}
	x, y := m.Centroid()
	if x != 1.5 || y != -3.25 {
		t.Errorf("Centroid() = (%g,%g), want (1.5,-3.25)", x, y)
	}
}

func TestModel_ShiftMovesCentroidOnly(t *testing.T) {
	m := Gaussian(100, 0, 0, 0.5)
	s := m.Shift(0.3, -0.7)

	x, y := s.Centroid()
	if math.Abs(x-0.3) > 1e-12 || math.Abs(y+0.7) > 1e-12 {
		t.Errorf("shifted centroid = (%g,%g), want (0.3,-0.7)", x, y)
	}
	// Profile rides along with the centroid.
	if got, want := s.SurfaceBrightness(0.3, -0.7), m.SurfaceBrightness(0, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("peak after shift = %g, want %g", got, want)
	}
	// Original unchanged.
	if x, y := m.Centroid(); x != 0 || y != 0 {
		t.Errorf("original centroid mutated to (%g,%g)", x, y)
	}
}

func TestModel_DilationConservesFlux(t *testing.T) {
	m := Gaussian(100, 0, 0, 0.5)
	d := m.Transformed(Transform{DS: 0.25})

	got := gridFlux(d, 6, 0.02)
	if math.Abs(got-100) > 0.2 {
		t.Errorf("flux after dilation = %g, want 100", got)
	}
	// Peak drops by (1+ds)^2 under a flux-preserving dilation.
	ratio := m.SurfaceBrightness(0, 0) / d.SurfaceBrightness(0, 0)
	if math.Abs(ratio-1.25*1.25) > 1e-9 {
		t.Errorf("peak ratio = %g, want %g", ratio, 1.25*1.25)
	}
}

func TestModel_ShearConservesFlux(t *testing.T) {
	m := Gaussian(100, 0, 0, 0.5)
	tests := []struct {
		name string
		t    Transform
	}{
		{"plus shear", Transform{DG1: 0.2}},
		{"cross shear", Transform{DG2: -0.15}},
		{"both", Transform{DG1: 0.1, DG2: 0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := m.Transformed(tt.t)
			got := gridFlux(s, 6, 0.02)
			if math.Abs(got-100) > 0.2 {
				t.Errorf("flux after shear = %g, want 100", got)
			}
			// Unit-determinant shear leaves the peak value unchanged.
			if p, p0 := s.SurfaceBrightness(0, 0), m.SurfaceBrightness(0, 0); math.Abs(p-p0) > 1e-9*p0 {
				t.Errorf("peak after shear = %g, want %g", p, p0)
			}
		})
	}
}

func TestModel_ShearStretchesAlongAxis(t *testing.T) {
	m := Gaussian(100, 0, 0, 0.5)
	s := m.Transformed(Transform{DG1: 0.3})
	// Positive g1 stretches x and squeezes y: at equal radius the
	// brightness along x exceeds the brightness along y.
	along := s.SurfaceBrightness(0.5, 0)
	across := s.SurfaceBrightness(0, 0.5)
	if along <= across {
		t.Errorf("brightness along stretch = %g, not greater than across = %g", along, across)
	}
}

func TestTransform_IsZero(t *testing.T) {
	if !(Transform{}).IsZero() {
		t.Error("zero transform not reported as zero")
	}
	if (Transform{DG2: 1e-9}).IsZero() {
		t.Error("nonzero transform reported as zero")
	}
}
