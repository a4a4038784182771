package skysim

import "testing"

// BenchmarkRenderGalaxy measures the end-to-end single-galaxy path for
// a range of truncation radii (the radius fixes the scratch stamp and
// FFT grid sizes).
func BenchmarkRenderGalaxy(b *testing.B) {
	radii := []struct {
		name   string
		radius float64
	}{
		{"r2.5", 2.5},
		{"r5", 5},
		{"r10", 10},
	}

	for _, r := range radii {
		b.Run(r.name, func(b *testing.B) {
			survey := testSurvey()
			engine, err := NewEngine(survey,
				WithMinSNR(0.05),
				WithTruncateRadius(r.radius),
			)
			if err != nil {
				b.Fatalf("NewEngine failed: %v", err)
			}
			gal := brightGalaxy()
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := engine.RenderGalaxy(gal, false); err != nil {
					b.Fatalf("RenderGalaxy failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkGalaxyRendererDraw separates the cache-hit and cache-miss
// costs of re-rendering with transforms.
func BenchmarkGalaxyRendererDraw(b *testing.B) {
	survey := testSurvey()
	engine, err := NewEngine(survey, WithMinSNR(0.05), WithTruncateRadius(10))
	if err != nil {
		b.Fatalf("NewEngine failed: %v", err)
	}
	gal := brightGalaxy()
	if _, err := engine.RenderGalaxy(gal, true); err != nil {
		b.Fatalf("RenderGalaxy failed: %v", err)
	}
	gr := engine.Renderer(gal.ID)

	b.Run("cache hit", func(b *testing.B) {
		if _, err := gr.Draw(0, Transform{DX: 0.1}); err != nil {
			b.Fatalf("Draw failed: %v", err)
		}
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := gr.Draw(0, Transform{DX: 0.1}); err != nil {
				b.Fatalf("Draw failed: %v", err)
			}
		}
	})

	b.Run("cache miss", func(b *testing.B) {
		deltas := []Transform{{DX: 0.1}, {DX: -0.1}}
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := gr.Draw(0, deltas[i%2]); err != nil {
				b.Fatalf("Draw failed: %v", err)
			}
		}
	})
}
