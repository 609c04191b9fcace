package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme colors the replay panel. Positive and Negative tint bodies by
// charge sign.
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Positive lipgloss.Color
	Negative lipgloss.Color
	Neutral  lipgloss.Color
	Warning  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Primary:  lipgloss.Color("#ff00ff"),
		Accent:   lipgloss.Color("#ffff00"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
		Positive: lipgloss.Color("#ff4466"),
		Negative: lipgloss.Color("#44aaff"),
		Neutral:  lipgloss.Color("#cccccc"),
		Warning:  lipgloss.Color("#ff8800"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Primary:  lipgloss.Color("#00ff00"),
		Accent:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Positive: lipgloss.Color("#ccff66"),
		Negative: lipgloss.Color("#00aa66"),
		Neutral:  lipgloss.Color("#00cc00"),
		Warning:  lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Primary:  lipgloss.Color("#ffffff"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Positive: lipgloss.Color("#ff0000"),
		Negative: lipgloss.Color("#0000ff"),
		Neutral:  lipgloss.Color("#ffffff"),
		Warning:  lipgloss.Color("#ffaa00"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{ThemeCyberpunk, ThemeRetroGreen, ThemeMinimal}
)

// GetTheme falls back to cyberpunk for unknown names.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme cycles CurrentTheme.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
	SetTheme(names[0])
}

// ChargeColor blends from Neutral toward the sign color by |q|/qmax.
func (t Theme) ChargeColor(q, qmax float64) lipgloss.Color {
	if q == 0 || qmax == 0 {
		return t.Neutral
	}
	to := t.Positive
	if q < 0 {
		to = t.Negative
	}
	a, err1 := colorful.Hex(string(t.Neutral))
	b, err2 := colorful.Hex(string(to))
	if err1 != nil || err2 != nil {
		return to
	}
	f := min(abs64(q)/qmax, 1)
	return lipgloss.Color(a.BlendLab(b, 0.35+0.65*f).Clamped().Hex())
}

func abs64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
