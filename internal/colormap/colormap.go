// Package colormap turns interpolated metric values into colors. Ramps are
// HCL-blended gradient tables; the mapping is a pure function of
// (value, domain, metric).
package colormap

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/terrisol/watergap-backend-go/internal/interp"
	"github.com/terrisol/watergap-backend-go/internal/models"
)

// ErrEmptyDataset mirrors interp.ErrEmptyDataset: both stages share one
// error taxonomy.
var ErrEmptyDataset = interp.ErrEmptyDataset

// BuildDomain returns the [min, max] range of the metric over the samples.
// Samples lacking the metric are skipped; if none carry it the domain is
// undefined and ErrEmptyDataset is returned.
func BuildDomain(samples []models.SamplePoint, metric models.Metric) (models.ColorDomain, error) {
	found := false
	var domain models.ColorDomain
	for _, s := range samples {
		v, ok := s.Value(metric)
		if !ok {
			continue
		}
		if !found {
			domain.Min, domain.Max = v, v
			found = true
			continue
		}
		if v < domain.Min {
			domain.Min = v
		}
		if v > domain.Max {
			domain.Max = v
		}
	}
	if !found {
		return models.ColorDomain{}, ErrEmptyDataset
	}
	return domain, nil
}

// ColorFor normalizes the value into the domain (saturating at both ends,
// never extrapolating) and maps it through the metric's ramp. The result is
// a hex color.
func ColorFor(value float64, domain models.ColorDomain, metric models.Metric) string {
	t := 0.0
	if domain.Max > domain.Min {
		t = (value - domain.Min) / (domain.Max - domain.Min)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	spec := metric.Spec()
	if spec.Reversed {
		t = 1 - t
	}
	return ramps[spec.Ramp].colorAt(t).Hex()
}

// LegendStops samples the metric's ramp at n evenly spaced domain values.
func LegendStops(domain models.ColorDomain, metric models.Metric, n int) []models.LegendStop {
	if n < 2 {
		n = 2
	}
	stops := make([]models.LegendStop, n)
	for i := 0; i < n; i++ {
		v := domain.Min + (domain.Max-domain.Min)*float64(i)/float64(n-1)
		stops[i] = models.LegendStop{Value: v, Color: ColorFor(v, domain, metric)}
	}
	return stops
}

// gradientTable holds sorted ramp keypoints and blends between them in HCL
// space, which keeps the ramp perceptually even.
type gradientTable []struct {
	col colorful.Color
	pos float64
}

func (gt gradientTable) colorAt(t float64) colorful.Color {
	for i := 0; i < len(gt)-1; i++ {
		c1, c2 := gt[i], gt[i+1]
		if c1.pos <= t && t <= c2.pos {
			frac := (t - c1.pos) / (c2.pos - c1.pos)
			return c1.col.BlendHcl(c2.col, frac).Clamped()
		}
	}
	return gt[len(gt)-1].col
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("colormap: " + err.Error())
	}
	return c
}

// Sequential ColorBrewer ramps. Blues for stock-like metrics, reds for
// deficit-like ones.
var ramps = map[string]gradientTable{
	models.RampBlues: {
		{mustHex("#F7FBFF"), 0.0},
		{mustHex("#C6DBEF"), 0.25},
		{mustHex("#6BAED6"), 0.5},
		{mustHex("#2171B5"), 0.75},
		{mustHex("#08306B"), 1.0},
	},
	models.RampReds: {
		{mustHex("#FFF5F0"), 0.0},
		{mustHex("#FCBBA1"), 0.25},
		{mustHex("#FB6A4A"), 0.5},
		{mustHex("#CB181D"), 0.75},
		{mustHex("#67000D"), 1.0},
	},
	models.RampOranges: {
		{mustHex("#FFF5EB"), 0.0},
		{mustHex("#FDD0A2"), 0.25},
		{mustHex("#FD8D3C"), 0.5},
		{mustHex("#D94801"), 0.75},
		{mustHex("#7F2704"), 1.0},
	},
}

// Every metric must reference a known ramp; a typo in the config table is a
// programming error caught at startup, not at request time.
func init() {
	for _, m := range models.AllMetrics() {
		if _, ok := ramps[m.Spec().Ramp]; !ok {
			panic(fmt.Sprintf("colormap: metric %s references unknown ramp %q", m, m.Spec().Ramp))
		}
	}
}
