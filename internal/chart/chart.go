// Package chart renders per-point weekly series as PNG images, the
// server-side counterpart of the viewer's linked chart.
package chart

import (
	"bytes"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/terrisol/watergap-backend-go/internal/interp"
	"github.com/terrisol/watergap-backend-go/internal/models"
)

const (
	chartWidth  = 960
	chartHeight = 400
)

// Line colors match the ramp families of the map: blue for stock and
// precipitation, red for the deficit, orange for ETP.
var seriesColors = map[string]string{
	"stock": "2171B5",
	"gap":   "CB181D",
	"P":     "6BAED6",
	"ETP":   "FD8D3C",
}

// RenderSeriesPNG draws every metric of the series over the week axis.
// Stock and gap use the primary Y axis, P and ETP the secondary one,
// mirroring the original twin-axis layout.
func RenderSeriesPNG(resp *models.SeriesResponse) ([]byte, error) {
	if len(resp.Weeks) < 2 {
		return nil, interp.ErrEmptyDataset
	}

	xs := make([]float64, len(resp.Weeks))
	for i := range resp.Weeks {
		xs[i] = float64(i)
	}

	title := fmt.Sprintf("Point %d", resp.PointID)
	if resp.Commune != "" {
		title = fmt.Sprintf("%s (point %d)", resp.Commune, resp.PointID)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:           "Week",
			ValueFormatter: weekFormatter(resp.Weeks),
		},
		YAxis:          chart.YAxis{Name: "Stock / Gap (mm)"},
		YAxisSecondary: chart.YAxis{Name: "P / ETP (mm)"},
	}

	for _, key := range []string{"stock", "gap", "P", "ETP"} {
		values, ok := resp.Series[key]
		if !ok || len(values) != len(xs) {
			continue
		}
		series := chart.ContinuousSeries{
			Name:    key,
			XValues: xs,
			YValues: values,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(seriesColors[key]),
				StrokeWidth: 1.5,
			},
		}
		if key == "P" || key == "ETP" {
			series.YAxis = chart.YAxisSecondary
		}
		graph.Series = append(graph.Series, series)
	}

	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// weekFormatter labels integral tick positions with their week label.
func weekFormatter(weeks []string) chart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		i := int(math.Round(f))
		if math.Abs(f-float64(i)) > 1e-9 || i < 0 || i >= len(weeks) {
			return ""
		}
		return weeks[i]
	}
}
