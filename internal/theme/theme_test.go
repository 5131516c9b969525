package theme

import (
	"image/color"
	"testing"
)

func TestByNameFallsBack(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"neon", "neon"},
		{"Ocean", "ocean"},
		{"  forest ", "forest"},
		{"", DefaultName},
		{"vaporwave", DefaultName},
	}
	for _, tt := range tests {
		if got := ByName(tt.in).Name(); got != tt.want {
			t.Fatalf("ByName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, ok := Lookup("vaporwave"); ok {
		t.Fatalf("Lookup found an unregistered theme")
	}
}

func TestNamesAndNext(t *testing.T) {
	names := Names()
	want := []string{"neon", "ocean", "sunset", "forest", "mono", "test", "test2"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
		if got := Next(want[i]).Name(); got != want[(i+1)%len(want)] {
			t.Fatalf("Next(%q) = %q", want[i], got)
		}
	}
	if Next("nope").Name() != "neon" {
		t.Fatalf("Next of an unknown name should start over")
	}
}

func TestBarColors(t *testing.T) {
	neon := ByName("neon")
	if got, want := neon.BarColor(0), (color.NRGBA{R: 50, G: 80, B: 255, A: 255}); got != want {
		t.Fatalf("neon BarColor(0) = %v, want %v", got, want)
	}
	// rgb(305,80,255) clamps like CSS
	if got := neon.BarColor(255); got.R != 255 {
		t.Fatalf("neon BarColor(255) = %v, want clamped red", got)
	}
	if got, want := neon.MirrorColor(100), (color.NRGBA{R: 150, G: 150, B: 255, A: 255}); got != want {
		t.Fatalf("neon MirrorColor(100) = %v, want %v", got, want)
	}

	mono := ByName("mono")
	c := mono.BarColor(255)
	if c.R != c.G || c.G != c.B || c.R != 95 {
		t.Fatalf("mono BarColor(255) = %v, want grey 95", c)
	}

	ocean := ByName("ocean")
	lo, hi := ocean.BarColor(0), ocean.BarColor(255)
	if int(lo.R)+int(lo.G)+int(lo.B) >= int(hi.R)+int(hi.G)+int(hi.B) {
		t.Fatalf("ocean bars should brighten with height: %v -> %v", lo, hi)
	}
}

func TestBarColorClampsInput(t *testing.T) {
	for _, th := range registry {
		if th.BarColor(-5) != th.BarColor(0) || th.BarColor(999) != th.BarColor(255) {
			t.Fatalf("%s: out-of-range heights are not clamped", th.name)
		}
	}
}

func TestParticleSaturation(t *testing.T) {
	if _, ok := ByName("neon").ParticleSaturation(); ok {
		t.Fatalf("neon should not override saturation")
	}
	if s, ok := ByName("mono").ParticleSaturation(); !ok || s != 0 {
		t.Fatalf("mono saturation = %v, %v", s, ok)
	}
	if s, ok := ByName("test").ParticleSaturation(); !ok || s != 100 {
		t.Fatalf("test saturation = %v, %v", s, ok)
	}
}

func TestWaveGradientParsed(t *testing.T) {
	g := ByName("neon").WaveGradient()
	if g[0] != (color.NRGBA{R: 0x1d, G: 0x3c, B: 0xff, A: 255}) {
		t.Fatalf("neon gradient[0] = %v", g[0])
	}
}

func TestBlend(t *testing.T) {
	a := color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	b := color.NRGBA{R: 200, G: 100, B: 50, A: 55}
	if Blend(a, b, 0) != a {
		t.Fatalf("Blend(t=0) = %v", Blend(a, b, 0))
	}
	if Blend(a, b, 1) != b {
		t.Fatalf("Blend(t=1) = %v", Blend(a, b, 1))
	}
}
