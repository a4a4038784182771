// Command skysim renders a small synthetic galaxy catalog into a
// simulated survey image and writes the result as a PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"

	"golang.org/x/exp/rand"

	"github.com/weaklens/skysim"
)

func main() {
	var (
		configPath     = flag.String("config", "", "optional TOML config file")
		minSNR         = flag.Float64("min-snr", 0.05, "simulate signals from individual sources down to this S/N threshold")
		truncateRadius = flag.Float64("truncate-radius", 30.0, "all extended sources are truncated at this radius in arcseconds")
		noMargin       = flag.Bool("no-margin", false, "do not simulate the tails of objects just outside the field")
		verboseRender  = flag.Bool("verbose-render", false, "provide verbose output on rendering process")
		nGalaxies      = flag.Int("galaxies", 40, "number of synthetic galaxies to render")
		seed           = flag.Uint64("seed", 1, "random seed for the catalog and the sky noise")
		noNoise        = flag.Bool("no-noise", false, "skip the sky noise realization")
		output         = flag.String("output", "field.png", "output PNG file")
	)
	flag.Parse()

	if err := run(*configPath, *minSNR, *truncateRadius, *noMargin, *verboseRender,
		*nGalaxies, *seed, *noNoise, *output); err != nil {
		log.Fatalf("skysim: %v", err)
	}
}

func run(configPath string, minSNR, truncateRadius float64, noMargin, verboseRender bool,
	nGalaxies int, seed uint64, noNoise bool, output string) error {

	conf, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	// Flags override the config file for the engine settings.
	flagged := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { flagged[f.Name] = true })
	if flagged["min-snr"] || conf.Engine.MinSNR == 0 {
		conf.Engine.MinSNR = minSNR
	}
	if flagged["truncate-radius"] || conf.Engine.TruncateRadius == 0 {
		conf.Engine.TruncateRadius = truncateRadius
	}
	if flagged["no-margin"] {
		conf.Engine.NoMargin = noMargin
	}
	if flagged["verbose-render"] {
		conf.Engine.VerboseRender = verboseRender
	}

	if conf.Engine.VerboseRender {
		skysim.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := conf.Survey.Validate(); err != nil {
		return err
	}
	psf, err := conf.psfModel()
	if err != nil {
		return err
	}
	survey := skysim.NewSurvey(conf.Survey, psf)

	engine, err := skysim.NewEngine(survey,
		skysim.WithMinSNR(conf.Engine.MinSNR),
		skysim.WithTruncateRadius(conf.Engine.TruncateRadius),
		skysim.WithNoMargin(conf.Engine.NoMargin),
		skysim.WithVerboseRender(conf.Engine.VerboseRender),
	)
	if err != nil {
		return err
	}
	fmt.Println(engine.Describe())

	rng := rand.New(rand.NewSource(seed))
	rendered, skipped := 0, 0
	for _, gal := range syntheticCatalog(rng, conf.Survey, nGalaxies) {
		if _, err := engine.RenderGalaxy(gal, true); err != nil {
			if errors.Is(err, skysim.ErrSourceNotVisible) {
				skipped++
				continue
			}
			return err
		}
		rendered++
	}
	fmt.Printf("Rendered %d galaxies (%d not visible).\n", rendered, skipped)

	if !noNoise {
		survey.AddNoise(rand.NewSource(seed))
	}

	if err := skysim.SavePNG(output, survey.Image, 1); err != nil {
		return err
	}
	fmt.Printf("Saved %s (%dx%d)\n", output, survey.ImageWidth, survey.ImageHeight)
	return nil
}

// syntheticCatalog draws a simple random mix of galaxy profiles spread
// over the field, with fluxes spanning three decades.
func syntheticCatalog(rng *rand.Rand, cfg skysim.SurveyConfig, n int) []skysim.Galaxy {
	halfX := float64(cfg.Width) * cfg.PixelScale / 2
	halfY := float64(cfg.Height) * cfg.PixelScale / 2
	catalog := make([]skysim.Galaxy, 0, n)
	for i := 0; i < n; i++ {
		x := (2*rng.Float64() - 1) * halfX
		y := (2*rng.Float64() - 1) * halfY
		flux := 1e3 * math.Pow(10, 3*rng.Float64())
		size := 0.3 + 1.2*rng.Float64()

		var model skysim.Model
		switch i % 3 {
		case 0:
			model = skysim.Gaussian(flux, x, y, size)
		case 1:
			model = skysim.Exponential(flux, x, y, size)
		default:
			model = skysim.DeVaucouleurs(flux, x, y, size)
		}
		// Mild random intrinsic shear.
		model = model.Transformed(skysim.Transform{
			DG1: 0.2 * (2*rng.Float64() - 1),
			DG2: 0.2 * (2*rng.Float64() - 1),
		})

		catalog = append(catalog, skysim.Galaxy{
			ID:       uint64(i + 1),
			Redshift: 0.1 + 1.4*rng.Float64(),
			Model:    model,
		})
	}
	return catalog
}
