package skysim

import "math"

// fwhmToSigma converts a Gaussian full width at half maximum to its
// dispersion: fwhm = 2*sqrt(2*ln 2)*sigma.
const fwhmToSigma = 0.42466090014400953

// GaussianPSF returns a circular Gaussian point-spread function with
// the given full width at half maximum in arcseconds. The profile has
// unit flux and is centered on the origin, so it can be used directly
// as a convolution partner.
func GaussianPSF(fwhm float64) Model {
	return Gaussian(1, 0, 0, fwhm*fwhmToSigma)
}

// MoffatPSF returns a circular Moffat point-spread function with the
// given full width at half maximum in arcseconds and slope parameter
// beta (> 1). Moffat profiles have broader wings than a Gaussian and
// are the usual model for ground-based atmospheric seeing.
func MoffatPSF(fwhm, beta float64) Model {
	alpha := fwhm / (2 * math.Sqrt(math.Pow(2, 1/beta)-1))
	norm := (beta - 1) / (math.Pi * alpha * alpha)
	return newCircular(1, 0, 0, func(r float64) float64 {
		return norm * math.Pow(1+(r*r)/(alpha*alpha), -beta)
	})
}
