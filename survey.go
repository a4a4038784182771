package skysim

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// SurveyConfig holds the observational parameters of a simulated
// survey exposure.
type SurveyConfig struct {
	// PixelScale is the detector sampling in arcseconds per pixel.
	PixelScale float64 `toml:"pixel_scale"`
	// Width and Height are the image dimensions in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// MeanSkyLevel is the expected sky background in detected
	// electrons per pixel for a full exposure.
	MeanSkyLevel float64 `toml:"mean_sky_level"`
}

// Survey models one simulated exposure: the detector geometry, the
// expected sky background, the point-spread function, and a mutable
// accumulator image that successive sources are added into.
//
// The accumulator is shared mutable state; concurrent accumulation
// needs external locking or partitioning.
type Survey struct {
	PixelScale   float64
	ImageWidth   int
	ImageHeight  int
	MeanSkyLevel float64
	PSF          Model

	// Image accumulates rendered source fluxes, origin pixel (0,0).
	Image *Stamp
}

// NewSurvey creates a survey with a fresh zero accumulator image.
func NewSurvey(cfg SurveyConfig, psf Model) *Survey {
	return &Survey{
		PixelScale:   cfg.PixelScale,
		ImageWidth:   cfg.Width,
		ImageHeight:  cfg.Height,
		MeanSkyLevel: cfg.MeanSkyLevel,
		PSF:          psf,
		Image:        NewStamp(cfg.Width, cfg.Height, cfg.PixelScale),
	}
}

// Validate checks the survey configuration for values the rendering
// pipeline cannot work with.
func (cfg SurveyConfig) Validate() error {
	if cfg.PixelScale <= 0 {
		return fmt.Errorf("skysim: pixel scale must be positive, got %g", cfg.PixelScale)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("skysim: invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MeanSkyLevel < 0 {
		return fmt.Errorf("skysim: mean sky level must be non-negative, got %g", cfg.MeanSkyLevel)
	}
	return nil
}

// Bounds returns the full image bounds in pixel indices.
func (s *Survey) Bounds() Bounds {
	return Bounds{X0: 0, X1: s.ImageWidth - 1, Y0: 0, Y1: s.ImageHeight - 1}
}

// ImageCoordinates maps a sky position in arcseconds relative to the
// image center to floating-point pixel coordinates, where (0,0) is the
// bottom-left corner of the image.
func (s *Survey) ImageCoordinates(x, y float64) (px, py float64) {
	px = x/s.PixelScale + float64(s.ImageWidth)/2
	py = y/s.PixelScale + float64(s.ImageHeight)/2
	return px, py
}

// AddNoise replaces each accumulator pixel with a Poisson realization
// of signal plus sky and subtracts the mean sky level again, leaving
// sky-subtracted pixel values with realistic background fluctuations.
func (s *Survey) AddNoise(src rand.Source) {
	data := s.Image.Data()
	for i, v := range data {
		mean := float64(v) + s.MeanSkyLevel
		if mean < 0 {
			mean = 0
		}
		if mean == 0 {
			data[i] = 0
			continue
		}
		p := distuv.Poisson{Lambda: mean, Src: src}
		data[i] = float32(p.Rand() - s.MeanSkyLevel)
	}
}
