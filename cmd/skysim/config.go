package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/weaklens/skysim"
)

// config collects everything the demo needs to simulate one field.
// Values not present in the file keep their defaults.
type config struct {
	Survey skysim.SurveyConfig `toml:"survey"`
	PSF    psfConfig           `toml:"psf"`
	Engine engineConfig        `toml:"engine"`
}

type psfConfig struct {
	// Profile is "gaussian" or "moffat".
	Profile string  `toml:"profile"`
	FWHM    float64 `toml:"fwhm"`
	// Beta is the Moffat slope parameter; ignored for Gaussian PSFs.
	Beta float64 `toml:"beta"`
}

type engineConfig struct {
	MinSNR         float64 `toml:"min_snr"`
	TruncateRadius float64 `toml:"truncate_radius"`
	NoMargin       bool    `toml:"no_margin"`
	VerboseRender  bool    `toml:"verbose_render"`
}

func defaultConfig() config {
	return config{
		Survey: skysim.SurveyConfig{
			PixelScale:   0.2,
			Width:        512,
			Height:       512,
			MeanSkyLevel: 780,
		},
		PSF: psfConfig{
			Profile: "gaussian",
			FWHM:    0.7,
			Beta:    3.0,
		},
		Engine: engineConfig{
			MinSNR:         0.05,
			TruncateRadius: 30.0,
		},
	}
}

// loadConfig reads a TOML config file over the defaults. An empty path
// returns the defaults unchanged.
func loadConfig(path string) (config, error) {
	conf := defaultConfig()
	if path == "" {
		return conf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return conf, nil
}

func (c config) psfModel() (skysim.Model, error) {
	switch c.PSF.Profile {
	case "gaussian":
		return skysim.GaussianPSF(c.PSF.FWHM), nil
	case "moffat":
		return skysim.MoffatPSF(c.PSF.FWHM, c.PSF.Beta), nil
	default:
		return nil, fmt.Errorf("unknown PSF profile %q", c.PSF.Profile)
	}
}
