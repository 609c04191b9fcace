package rate

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/peeps/internal/peeps"
)

func TestFrames(t *testing.T) {
	tests := []struct {
		t0, tf float64
		fps    int
		want   int
	}{
		{0, 1, 60, 60},
		{0, 2.5, 60, 150},
		{1, 1, 60, 0},
		{0.25, 1.0, 30, 23},
		{0, 1.0 / 3, 60, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Frames(tt.t0, tt.tf, tt.fps), "%v", tt)
	}
}

func TestInterpolate(t *testing.T) {
	vals, err := Interpolate(0, 10, Linear, 4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 2.5, 5, 7.5, 10}, vals, 1e-9)

	same, err := Interpolate(3, 3, EaseIn, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 3}, same)

	_, err = Interpolate(0, 1, Linear, 0)
	assert.ErrorIs(t, err, peeps.ErrInvalidParameter)
}

func TestForTime(t *testing.T) {
	ts, err := ForTime(0, 2, EaseInOut, 60)
	require.NoError(t, err)
	assert.Len(t, ts, 121)
	assert.InDelta(t, 0.0, ts[0], 1e-12)
	assert.InDelta(t, 2.0, ts[120], 1e-9)

	ts, err = ForTime(1, 1, Linear, 60)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, ts)

	_, err = ForTime(2, 1, Linear, 60)
	assert.ErrorIs(t, err, peeps.ErrInvalidParameter)
}

func TestDiffsSumToSpan(t *testing.T) {
	vals, err := Interpolate(0, math.Pi, EaseInOut, 90)
	require.NoError(t, err)

	sum := 0.0
	for _, d := range Diffs(vals) {
		sum += d
	}
	assert.InDelta(t, math.Pi, sum, 1e-9)
	assert.Nil(t, Diffs([]float64{1}))
}

func TestSineCosine(t *testing.T) {
	s, err := Sine(2, 4, 0, 60)
	require.NoError(t, err)
	assert.Len(t, s, 240)
	assert.InDelta(t, 0.0, s[0], 1e-12)
	assert.InDelta(t, 2.0, s[60], 1e-9)

	c, err := Cosine(1, 2, 3, 10)
	require.NoError(t, err)
	assert.Len(t, c, 30)
	assert.InDelta(t, 1.0, c[0], 1e-12)

	_, err = Sine(1, 4, 0.5, 60)
	assert.ErrorIs(t, err, peeps.ErrInvalidParameter)
}

func TestLerpConstants(t *testing.T) {
	a, b, err := LerpConstants([2]float64{0, 1}, [2]float64{5, 10})
	require.NoError(t, err)
	assert.InDelta(t, 1.8, a, 1e-12)
	assert.InDelta(t, 1.0, b, 1e-12)

	_, _, err = LerpConstants([2]float64{2, 1}, [2]float64{2, 3})
	assert.ErrorIs(t, err, peeps.ErrInvalidParameter)
}

func TestColors(t *testing.T) {
	white := colorful.Color{R: 1, G: 1, B: 1}
	red := colorful.Color{R: 1, G: 0, B: 0}

	stops, err := Colors(0, 1, red, white, Linear, 60)
	require.NoError(t, err)
	require.Len(t, stops, 60)
	assert.InDelta(t, 1.0, stops[59].T, 1e-9)
	assert.InDelta(t, 1.0, stops[59].Color.G, 1e-9)
	assert.InDelta(t, 1.0, stops[0].Color.R, 1e-12)

	// fading out of black ignores the requested curve
	fromBlack, err := Colors(0, 1, Black, white, Linear, 60)
	require.NoError(t, err)
	lighter, err := Interpolate(0, 1, MakeLight, 60)
	require.NoError(t, err)
	assert.InDelta(t, lighter[30], fromBlack[29].Color.R, 1e-9)

	none, err := Colors(0, 0, red, white, Linear, 60)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff0000")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.R, 1e-12)

	_, err = ParseColor("red")
	assert.ErrorIs(t, err, peeps.ErrInvalidParameter)
}

func TestSpringPreservesEndpoints(t *testing.T) {
	ts := Linspace(0, 2, 121)
	out, err := NewSpring(60).Remap(ts)
	require.NoError(t, err)
	require.Len(t, out, len(ts))
	assert.Equal(t, 0.0, out[0])
	assert.Equal(t, 2.0, out[len(out)-1])

	// a loose spring overshoots the target before settling
	loose := Spring{FPS: 60, Frequency: 8, Damping: 0.2}
	out, err = loose.Remap(ts)
	require.NoError(t, err)
	peak := 0.0
	for _, v := range out {
		peak = math.Max(peak, v)
	}
	assert.Greater(t, peak, 2.0)

	_, err = Spring{}.Remap(ts)
	assert.ErrorIs(t, err, peeps.ErrInvalidParameter)
}
