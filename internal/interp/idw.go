package interp

import (
	"math"
	"sort"

	"github.com/terrisol/watergap-backend-go/internal/models"
)

const (
	// DefaultK and DefaultPower match the tuning of the original viewer.
	DefaultK     = 8
	DefaultPower = 2.5

	// coincidentDist2 is the squared distance below which a cell center is
	// treated as sitting on a sample, returning its value exactly.
	coincidentDist2 = 1e-18

	// kdtreeMinSamples is where the k-d tree starts paying for itself over
	// the brute-force scan. Both paths share the same output semantics.
	kdtreeMinSamples = 1024
)

// valuedSample is a sample that exposes the active metric.
type valuedSample struct {
	id    int64
	x, y  float64
	value float64
}

// neighbor is one candidate from a nearest-neighbor query.
type neighbor struct {
	dist2 float64
	value float64
	id    int64
}

// neighborSearcher finds the k nearest valued samples to a query position.
type neighborSearcher interface {
	nearest(x, y float64, k int) []neighbor
}

// Interpolate fills the geometry's grid with inverse-distance-weighted
// estimates of the metric. Samples lacking the metric are excluded; if none
// carry it, ErrEmptyDataset is returned. The result is deterministic for
// identical inputs: neighbor ties are broken by sample id.
func Interpolate(samples []models.SamplePoint, geom models.RasterGeometry, metric models.Metric, k int, power float64) ([]models.InterpolatedCell, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyDataset
	}
	if geom.WidthCells <= 0 || geom.HeightCells <= 0 || geom.CellSize <= 0 ||
		geom.FittedWidth <= 0 || geom.FittedHeight <= 0 {
		return nil, ErrInvalidGeometry
	}
	if k <= 0 {
		k = DefaultK
	}
	if power <= 0 {
		power = DefaultPower
	}

	valued := make([]valuedSample, 0, len(samples))
	for _, s := range samples {
		v, ok := s.Value(metric)
		if !ok {
			continue
		}
		valued = append(valued, valuedSample{id: s.ID, x: s.X, y: s.Y, value: v})
	}
	if len(valued) == 0 {
		return nil, ErrEmptyDataset
	}
	if k > len(valued) {
		k = len(valued)
	}

	var searcher neighborSearcher
	if len(valued) >= kdtreeMinSamples {
		searcher = newKDSearcher(valued)
	} else {
		searcher = bruteSearcher(valued)
	}

	cells := make([]models.InterpolatedCell, 0, geom.CellCount())
	for row := 0; row < geom.HeightCells; row++ {
		for col := 0; col < geom.WidthCells; col++ {
			cx, cy := geom.CellCenterData(col, row)
			cells = append(cells, models.InterpolatedCell{
				X:     geom.OffsetX + float64(col)*geom.CellSize,
				Y:     geom.OffsetY + float64(row)*geom.CellSize,
				Value: estimate(searcher.nearest(cx, cy, k), power),
			})
		}
	}
	return cells, nil
}

// estimate computes the IDW value from the selected neighbors, which are
// sorted by (distance, id) ascending.
func estimate(selected []neighbor, power float64) float64 {
	if selected[0].dist2 < coincidentDist2 {
		return selected[0].value
	}
	var sumW, sumWV float64
	for _, n := range selected {
		w := 1 / math.Pow(math.Sqrt(n.dist2), power)
		sumW += w
		sumWV += w * n.value
	}
	return sumWV / sumW
}

// bruteSearcher scans every sample per query. O(n) per cell, fine for the
// dataset's point counts at coarse levels.
type bruteSearcher []valuedSample

func (b bruteSearcher) nearest(x, y float64, k int) []neighbor {
	best := make([]neighbor, 0, k)
	worst := math.Inf(1)
	for _, s := range b {
		dx := s.x - x
		dy := s.y - y
		d2 := dx*dx + dy*dy
		if len(best) == k && (d2 > worst || (d2 == worst && s.id >= best[k-1].id)) {
			continue
		}
		n := neighbor{dist2: d2, value: s.value, id: s.id}
		pos := sort.Search(len(best), func(i int) bool {
			if best[i].dist2 != n.dist2 {
				return best[i].dist2 > n.dist2
			}
			return best[i].id > n.id
		})
		if len(best) < k {
			best = append(best, neighbor{})
		}
		copy(best[pos+1:], best[pos:])
		best[pos] = n
		worst = best[len(best)-1].dist2
	}
	return best
}
