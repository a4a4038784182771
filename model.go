package skysim

import "math"

// Transform collects the small perturbations applied to a source model
// when building Fisher-basis partial derivatives.
//
// DX and DY shift the centroid in arcseconds. DS scales the profile
// radially by (1+DS) while conserving flux. DG1 and DG2 adjust the
// + and x shear components in the |g| = (a-b)/(a+b) convention.
type Transform struct {
	DX, DY float64
	DS     float64
	DG1    float64
	DG2    float64
}

// IsZero reports whether the transform is the identity.
func (t Transform) IsZero() bool {
	return t == Transform{}
}

// Model is a flux-bearing source profile. Positions are arcseconds
// relative to the survey image center.
//
// Transform operations return new models and never mutate the
// receiver, so a Model can be shared freely between an Engine and the
// GalaxyRenderers it creates.
type Model interface {
	// Flux returns the total flux in detected electrons for a full
	// exposure.
	Flux() float64

	// Centroid returns the profile center.
	Centroid() (x, y float64)

	// SurfaceBrightness evaluates the profile at sky position (x,y),
	// in electrons per square arcsecond.
	SurfaceBrightness(x, y float64) float64

	// Shift returns the model translated by (dx,dy) arcseconds.
	Shift(dx, dy float64) Model

	// Transformed returns the model with the perturbation applied.
	// Dilation and shear conserve flux.
	Transformed(t Transform) Model
}

// radialProfile is a circularly symmetric unit-flux surface brightness
// as a function of radius in arcseconds.
type radialProfile func(r float64) float64

// analyticModel is a radial profile under an affine sky distortion.
// The matrix a maps profile-frame offsets to sky offsets; evaluation
// inverts it and divides by its determinant, so dilation and shear
// conserve flux by construction.
type analyticModel struct {
	flux     float64
	x, y     float64
	a11, a12 float64
	a21, a22 float64
	radial   radialProfile
}

func newCircular(flux, x, y float64, radial radialProfile) *analyticModel {
	return &analyticModel{
		flux: flux, x: x, y: y,
		a11: 1, a22: 1,
		radial: radial,
	}
}

func (m *analyticModel) Flux() float64 { return m.flux }

func (m *analyticModel) Centroid() (x, y float64) { return m.x, m.y }

func (m *analyticModel) det() float64 {
	return m.a11*m.a22 - m.a12*m.a21
}

func (m *analyticModel) SurfaceBrightness(x, y float64) float64 {
	px := x - m.x
	py := y - m.y
	det := m.det()
	// Inverse of the 2x2 distortion applied to the sky offset.
	ux := (m.a22*px - m.a12*py) / det
	uy := (-m.a21*px + m.a11*py) / det
	r := math.Hypot(ux, uy)
	return m.flux * m.radial(r) / det
}

func (m *analyticModel) Shift(dx, dy float64) Model {
	out := *m
	out.x += dx
	out.y += dy
	return &out
}

func (m *analyticModel) Transformed(t Transform) Model {
	out := *m
	out.x += t.DX
	out.y += t.DY
	if t.DS != 0 {
		s := 1 + t.DS
		out.a11 *= s
		out.a12 *= s
		out.a21 *= s
		out.a22 *= s
	}
	if t.DG1 != 0 || t.DG2 != 0 {
		// Unit-determinant shear matrix for |g| = (a-b)/(a+b).
		g2 := t.DG1*t.DG1 + t.DG2*t.DG2
		norm := 1 / math.Sqrt(1-g2)
		s11 := norm * (1 + t.DG1)
		s12 := norm * t.DG2
		s21 := norm * t.DG2
		s22 := norm * (1 - t.DG1)
		a11 := s11*out.a11 + s12*out.a21
		a12 := s11*out.a12 + s12*out.a22
		a21 := s21*out.a11 + s22*out.a21
		a22 := s21*out.a12 + s22*out.a22
		out.a11, out.a12, out.a21, out.a22 = a11, a12, a21, a22
	}
	return &out
}

// Gaussian returns a circular Gaussian galaxy model with total flux in
// electrons, centroid (x,y) in arcseconds relative to the image
// center, and dispersion sigma in arcseconds.
func Gaussian(flux, x, y, sigma float64) Model {
	norm := 1 / (2 * math.Pi * sigma * sigma)
	return newCircular(flux, x, y, func(r float64) float64 {
		return norm * math.Exp(-r*r/(2*sigma*sigma))
	})
}

// Exponential returns an exponential disk (Sérsic n=1) with the given
// total flux, centroid, and scale radius in arcseconds.
func Exponential(flux, x, y, scaleRadius float64) Model {
	norm := 1 / (2 * math.Pi * scaleRadius * scaleRadius)
	return newCircular(flux, x, y, func(r float64) float64 {
		return norm * math.Exp(-r/scaleRadius)
	})
}

// deVaucouleurs shape constant: solves Γ(8,b) = Γ(8)/2 so that
// halfLightRadius encloses half the total flux.
const deVaucB = 7.66924944

// DeVaucouleurs returns a de Vaucouleurs bulge (Sérsic n=4) with the
// given total flux, centroid, and half-light radius in arcseconds.
func DeVaucouleurs(flux, x, y, halfLightRadius float64) Model {
	// Total flux of exp(-b (r/re)^(1/4)) over the plane is
	// 2*pi * 4*7! * re^2 / b^8 = 8! * pi * re^2 / b^8.
	norm := math.Pow(deVaucB, 8) / (40320 * math.Pi * halfLightRadius * halfLightRadius)
	return newCircular(flux, x, y, func(r float64) float64 {
		return norm * math.Exp(-deVaucB*math.Pow(r/halfLightRadius, 0.25))
	})
}
