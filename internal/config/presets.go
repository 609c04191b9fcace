package config

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/peeps/internal/dynamics"
)

func preset(kind string, duration float64, bodies ...dynamics.Body) *Config {
	cfg := DefaultConfig()
	cfg.Kind = kind
	cfg.Duration = duration
	cfg.Bodies = bodies
	return cfg
}

func charge(name string, x, y, q float64) dynamics.Body {
	return dynamics.Body{Name: name, Position: mgl64.Vec3{x, y, 0}, Mass: 1, Charge: q, Radius: 0.3}
}

func ring(n int, radius, q float64) []dynamics.Body {
	out := make([]dynamics.Body, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = charge("q", radius*math.Cos(a), radius*math.Sin(a), q)
		out[i].Name = out[i].Name + string(rune('a'+i))
	}
	return out
}

var Presets = map[string]map[string]*Config{
	KindElectro: {
		"dipole": preset(KindElectro, 3,
			charge("plus", -3, 0, 1e-6), charge("minus", 3, 0, -1e-6)),
		"triangle": preset(KindElectro, 4,
			charge("a", 0, 2, 1e-6), charge("b", -1.7, -1, 1e-6), charge("c", 1.7, -1, 2e-6)),
		"ring": func() *Config {
			cfg := preset(KindElectro, 6, ring(6, 1, 1e-6)...)
			cfg.Constraint = &dynamics.Sphere{Radius: 4}
			return cfg
		}(),
	},
	KindGravity: {
		"binary": func() *Config {
			cfg := preset(KindGravity, 8,
				dynamics.Body{Name: "sun", Position: mgl64.Vec3{-1, 0, 0}, Velocity: mgl64.Vec3{0, -0.5, 0}, Mass: 2e10, Radius: 0.4},
				dynamics.Body{Name: "moon", Position: mgl64.Vec3{2, 0, 0}, Velocity: mgl64.Vec3{0, 1, 0}, Mass: 1e10, Radius: 0.25})
			cfg.Steps = 4
			cfg.InitialMovement = 1
			return cfg
		}(),
		"anchored": func() *Config {
			cfg := preset(KindGravity, 10,
				dynamics.Body{Name: "star", Mass: 1e12, Radius: 0.6, Static: true},
				dynamics.Body{Name: "planet", Position: mgl64.Vec3{4, 0, 0}, Velocity: mgl64.Vec3{0, 2, 0}, Mass: 1e8, Radius: 0.2})
			cfg.Steps = 8
			cfg.InitialMovement = 1
			return cfg
		}(),
	},
	KindFieldLines: {
		"dipole": preset(KindFieldLines, 0,
			charge("plus", -3, 0, 1e-6), charge("minus", 3, 0, -1e-6)),
		"pair": preset(KindFieldLines, 0,
			charge("left", -3, 0, 1e-6), charge("right", 3, 0, 1e-6)),
		"quadrupole": preset(KindFieldLines, 0,
			charge("a", -3, 3, 1e-6), charge("b", 3, 3, -1e-6),
			charge("c", 3, -3, 1e-6), charge("d", -3, -3, -1e-6)),
		"unequal": preset(KindFieldLines, 0,
			charge("big", -3, 0, 2e-6), charge("small", 3, 0, -1e-6)),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(kind, name string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the sorted preset names for kind.
func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds returns the sorted scenario kinds that have presets.
func Kinds() []string {
	kinds := make([]string, 0, len(Presets))
	for k := range Presets {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
