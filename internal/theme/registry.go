package theme

import (
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the theme used when a name does not resolve.
const DefaultName = "neon"

var registry = []*palette{
	{
		name:  "neon",
		label: "Neon",
		ui: UIColors{
			BgStart: hex("#050514"), BgEnd: hex("#000000"),
			Accent1: hex("#7f5cff"), Accent2: hex("#4cc3ff"),
		},
		bars:   func(h float64) colorful.Color { return rgb(h+50, 80, 255) },
		mirror: func(h float64) colorful.Color { return rgb(150, h+50, 255) },
		wave:   [3]color.NRGBA{hex("#1d3cff"), hex("#3dd5ff"), hex("#4ff0c8")},
		hues:   [3]float64{210, 260, 180},
	},
	{
		name:  "ocean",
		label: "Ocean",
		ui: UIColors{
			BgStart: hex("#02121f"), BgEnd: hex("#000814"),
			Accent1: hex("#2b6cb0"), Accent2: hex("#38b2ac"),
		},
		bars:   func(h float64) colorful.Color { return hsl(195, 80, 30+h/255*45) },
		mirror: func(h float64) colorful.Color { return hsl(185, 80, 25+h/255*45) },
		wave:   [3]color.NRGBA{hex("#0b7285"), hex("#12b886"), hex("#a5d8ff")},
		hues:   [3]float64{190, 170, 210},
	},
	{
		name:  "sunset",
		label: "Sunset",
		ui: UIColors{
			BgStart: hex("#22000f"), BgEnd: hex("#050008"),
			Accent1: hex("#ff6b6b"), Accent2: hex("#f59e0b"),
		},
		bars:   func(h float64) colorful.Color { return hsl(20+h/255*40, 90, 45+h/255*20) },
		mirror: func(h float64) colorful.Color { return hsl(10+h/255*30, 90, 40+h/255*20) },
		wave:   [3]color.NRGBA{hex("#ff6b6b"), hex("#f97316"), hex("#fde68a")},
		hues:   [3]float64{20, 40, 350},
	},
	{
		name:  "forest",
		label: "Forest",
		ui: UIColors{
			BgStart: hex("#041b11"), BgEnd: hex("#020807"),
			Accent1: hex("#16a34a"), Accent2: hex("#65a30d"),
		},
		bars:   func(h float64) colorful.Color { return hsl(110+h/255*20, 70, 35+h/255*25) },
		mirror: func(h float64) colorful.Color { return hsl(100+h/255*10, 70, 30+h/255*25) },
		wave:   [3]color.NRGBA{hex("#15803d"), hex("#22c55e"), hex("#bef264")},
		hues:   [3]float64{110, 90, 140},
	},
	{
		name:  "mono",
		label: "Mono",
		ui: UIColors{
			BgStart: hex("#050505"), BgEnd: hex("#000000"),
			Accent1: hex("#4b5563"), Accent2: hex("#9ca3af"),
		},
		bars: func(h float64) colorful.Color {
			v := 40 + h/255*55
			return rgb(v, v, v)
		},
		mirror: func(h float64) colorful.Color {
			v := 30 + h/255*55
			return rgb(v, v, v)
		},
		wave:   [3]color.NRGBA{hex("#6b7280"), hex("#e5e7eb"), hex("#9ca3af")},
		hues:   [3]float64{0, 0, 0},
		sat:    0,
		hasSat: true,
	},
	{
		name:  "test",
		label: "Test",
		ui: UIColors{
			BgStart: hex("#000000"), BgEnd: hex("#000000"),
			Accent1: hex("#ff0048"), Accent2: hex("#00b3ff"),
		},
		bars:   func(h float64) colorful.Color { return rgb(0, 80+h/2, 255) },
		mirror: func(h float64) colorful.Color { return rgb(255, 0, 80+h/2) },
		wave:   [3]color.NRGBA{hex("#ff0048"), hex("#805aa4"), hex("#00b3ff")},
		hues:   [3]float64{343, 271, 198},
		sat:    100,
		hasSat: true,
	},
	{
		name:  "test2",
		label: "Test2",
		ui: UIColors{
			BgStart: hex("#000000"), BgEnd: hex("#000000"),
			Accent1: hex("#ffb300"), Accent2: hex("#008cff"),
		},
		bars:   func(h float64) colorful.Color { return rgb(255, 80+h/2, 0) },
		mirror: func(h float64) colorful.Color { return rgb(0, 80+h/2, 255) },
		wave:   [3]color.NRGBA{hex("#ffb300"), hex("#6abd6a"), hex("#008cff")},
		hues:   [3]float64{42, 120, 207},
		sat:    100,
		hasSat: true,
	},
}

// Lookup finds a theme by name, case-insensitively.
func Lookup(name string) (Theme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range registry {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// ByName always returns a theme, falling back to the default.
func ByName(name string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	return Default()
}

func Default() Theme {
	t, _ := Lookup(DefaultName)
	return t
}

// Names lists the registered themes in menu order.
func Names() []string {
	out := make([]string, len(registry))
	for i, p := range registry {
		out[i] = p.name
	}
	return out
}

// Next returns the theme after name in menu order, wrapping around. Unknown
// names start from the beginning.
func Next(name string) Theme {
	for i, p := range registry {
		if p.name == name {
			return registry[(i+1)%len(registry)]
		}
	}
	return registry[0]
}
