package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	conf, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if conf.Survey.PixelScale != 0.2 || conf.Survey.Width != 512 {
		t.Errorf("unexpected survey defaults: %+v", conf.Survey)
	}
	if conf.Engine.MinSNR != 0.05 || conf.Engine.TruncateRadius != 30.0 {
		t.Errorf("unexpected engine defaults: %+v", conf.Engine)
	}
	if _, err := conf.psfModel(); err != nil {
		t.Errorf("default PSF rejected: %v", err)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.toml")
	body := `
[survey]
pixel_scale = 0.26
width = 256
height = 128
mean_sky_level = 440

[psf]
profile = "moffat"
fwhm = 0.9
beta = 2.5

[engine]
min_snr = 0.5
verbose_render = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	conf, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if conf.Survey.PixelScale != 0.26 || conf.Survey.Width != 256 || conf.Survey.Height != 128 {
		t.Errorf("survey = %+v", conf.Survey)
	}
	if conf.PSF.Profile != "moffat" || conf.PSF.Beta != 2.5 {
		t.Errorf("psf = %+v", conf.PSF)
	}
	if conf.Engine.MinSNR != 0.5 {
		t.Errorf("engine min_snr = %g, want 0.5", conf.Engine.MinSNR)
	}
	if !conf.Engine.VerboseRender {
		t.Error("verbose_render not read from file")
	}
	// Unset keys keep their defaults.
	if conf.Engine.TruncateRadius != 30.0 {
		t.Errorf("truncate_radius = %g, want default 30", conf.Engine.TruncateRadius)
	}
	if _, err := conf.psfModel(); err != nil {
		t.Errorf("moffat PSF rejected: %v", err)
	}
}

func TestLoadConfig_UnknownPSF(t *testing.T) {
	conf := defaultConfig()
	conf.PSF.Profile = "airy"
	if _, err := conf.psfModel(); err == nil {
		t.Error("expected error for unknown PSF profile")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
