// Package scale maps skewed retweet counts onto a color ramp through
// ln(1+count) and builds the legend ticks that label the ramp with true counts.
package scale

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// Legend ticks. Base ticks are always shown; an extended tick is shown only
// when it does not exceed the issue maximum by more than extendFactor.
//
//nolint:gochecknoglobals // Fixed legend design
var (
	BaseTicks     = []int{0, 1, 5, 10, 25, 50, 100}
	ExtendedTicks = []int{250, 500, 1000, 2000, 5000}
)

const extendFactor = 1.1

// ylGnBu holds the ColorBrewer YlGnBu 9-class control colors, light to dark.
//
//nolint:gochecknoglobals // Static palette
var ylGnBu = []color.Color{
	color.NRGBA{R: 0xff, G: 0xff, B: 0xd9, A: 0xff},
	color.NRGBA{R: 0xed, G: 0xf8, B: 0xb1, A: 0xff},
	color.NRGBA{R: 0xc7, G: 0xe9, B: 0xb4, A: 0xff},
	color.NRGBA{R: 0x7f, G: 0xcd, B: 0xbb, A: 0xff},
	color.NRGBA{R: 0x41, G: 0xb6, B: 0xc4, A: 0xff},
	color.NRGBA{R: 0x1d, G: 0x91, B: 0xc0, A: 0xff},
	color.NRGBA{R: 0x22, G: 0x5e, B: 0xa8, A: 0xff},
	color.NRGBA{R: 0x25, G: 0x34, B: 0x94, A: 0xff},
	color.NRGBA{R: 0x08, G: 0x1d, B: 0x58, A: 0xff},
}

// YlGnBu returns the yellow-green-blue ramp over [0, 1], light at 0.
func YlGnBu() (palette.ColorMap, error) {
	// Luminance maps need controls in increasing lightness.
	controls := slices.Clone(ylGnBu)
	slices.Reverse(controls)
	lum, err := moreland.NewLuminance(controls)
	if err != nil {
		return nil, fmt.Errorf("build YlGnBu ramp: %w", err)
	}
	ramp := palette.Reverse(lum)
	ramp.SetMin(0)
	ramp.SetMax(1)
	return ramp, nil
}

// Log1p returns ln(1+count).
func Log1p(count int) float64 {
	return math.Log1p(float64(count))
}

// Tick is one legend mark: placed at Position on the log axis, labelled
// with the literal count.
type Tick struct {
	Value    int
	Position float64
	Label    string
}

// Ticks returns the legend ticks for an issue whose largest count is maxCount.
func Ticks(maxCount int) []Tick {
	ticks := make([]Tick, 0, len(BaseTicks)+len(ExtendedTicks))
	for _, v := range BaseTicks {
		ticks = append(ticks, newTick(v))
	}
	limit := extendFactor * float64(maxCount)
	for _, v := range ExtendedTicks {
		if float64(v) <= limit {
			ticks = append(ticks, newTick(v))
		}
	}
	return ticks
}

func newTick(v int) Tick {
	return Tick{Value: v, Position: Log1p(v), Label: strconv.Itoa(v)}
}

// Mapper normalizes counts over [0, max ln(1+count)] and colors them.
type Mapper struct {
	vmax float64
	ramp palette.ColorMap
}

// NewMapper builds a mapper for the given counts. ramp must cover [0, 1].
func NewMapper(counts []int, ramp palette.ColorMap) *Mapper {
	var vmax float64
	for _, c := range counts {
		vmax = math.Max(vmax, Log1p(c))
	}
	return &Mapper{vmax: vmax, ramp: ramp}
}

// VMax returns the largest ln(1+count); zero when every count is zero.
func (m *Mapper) VMax() float64 {
	return m.vmax
}

// Degenerate reports whether the normalization range collapsed to a point.
func (m *Mapper) Degenerate() bool {
	return m.vmax <= 0
}

// NormalizeLog maps a log value into [0, 1], clamping outside the range.
// A collapsed range maps everything to 0.
func (m *Mapper) NormalizeLog(v float64) float64 {
	if m.Degenerate() || v <= 0 || math.IsNaN(v) {
		return 0
	}
	return math.Min(v/m.vmax, 1)
}

// Normalize maps a raw count into [0, 1].
func (m *Mapper) Normalize(count int) float64 {
	return m.NormalizeLog(Log1p(count))
}

// Color returns the ramp color for a raw count.
func (m *Mapper) Color(count int) (color.Color, error) {
	return m.ramp.At(m.Normalize(count))
}

// Legend returns a color map over [0, top] for the color bar, where
// top = max(VMax, highest tick position). Values beyond VMax get the top color.
func (m *Mapper) Legend(ticks []Tick) palette.ColorMap {
	top := m.vmax
	for _, t := range ticks {
		top = math.Max(top, t.Position)
	}
	if top <= 0 {
		top = 1
	}
	return &legendMap{mapper: m, max: top, alpha: 1}
}

// legendMap adapts a Mapper to palette.ColorMap on the log axis.
type legendMap struct {
	mapper   *Mapper
	min, max float64
	alpha    float64
}

func (l *legendMap) At(v float64) (color.Color, error) {
	if v < l.min {
		return nil, palette.ErrUnderflow
	}
	if v > l.max {
		return nil, palette.ErrOverflow
	}
	return l.mapper.ramp.At(l.mapper.NormalizeLog(v))
}

func (l *legendMap) Max() float64           { return l.max }
func (l *legendMap) Min() float64           { return l.min }
func (l *legendMap) SetMax(v float64)       { l.max = v }
func (l *legendMap) SetMin(v float64)       { l.min = v }
func (l *legendMap) Alpha() float64         { return l.alpha }
func (l *legendMap) SetAlpha(alpha float64) { l.alpha = alpha }

// Palette samples n evenly spaced colors across [Min, Max].
func (l *legendMap) Palette(n int) palette.Palette {
	cs := make(colors, 0, n)
	for i := range n {
		v := l.min
		if n > 1 {
			v += (l.max - l.min) * float64(i) / float64(n-1)
		}
		c, err := l.At(v)
		if err != nil {
			continue
		}
		cs = append(cs, c)
	}
	return cs
}

type colors []color.Color

func (c colors) Colors() []color.Color { return c }
