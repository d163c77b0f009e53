package interp

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// kdSample adapts a valuedSample to the kdtree.Comparable interface.
type kdSample struct {
	x, y  float64
	value float64
	id    int64
}

func (p kdSample) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdSample)
	switch d {
	case 0:
		return p.x - q.x
	case 1:
		return p.y - q.y
	default:
		panic("interp: illegal dimension")
	}
}

func (p kdSample) Dims() int { return 2 }

// Distance returns the squared Euclidean distance, matching the brute-force
// searcher's ordering.
func (p kdSample) Distance(c kdtree.Comparable) float64 {
	q := c.(kdSample)
	dx := p.x - q.x
	dy := p.y - q.y
	return dx*dx + dy*dy
}

// kdSamples satisfies kdtree.Interface.
type kdSamples []kdSample

func (p kdSamples) Index(i int) kdtree.Comparable         { return p[i] }
func (p kdSamples) Len() int                              { return len(p) }
func (p kdSamples) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p kdSamples) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(kdPlane{kdSamples: p, Dim: d}, kdtree.MedianOfMedians(kdPlane{kdSamples: p, Dim: d}))
}

// kdPlane implements sort.Interface and kdtree.SortSlicer over one dimension.
type kdPlane struct {
	kdSamples
	kdtree.Dim
}

func (p kdPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.kdSamples[i].x < p.kdSamples[j].x
	case 1:
		return p.kdSamples[i].y < p.kdSamples[j].y
	default:
		panic("interp: illegal dimension")
	}
}

func (p kdPlane) Swap(i, j int) {
	p.kdSamples[i], p.kdSamples[j] = p.kdSamples[j], p.kdSamples[i]
}

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	return kdPlane{kdSamples: p.kdSamples[start:end], Dim: p.Dim}
}

// kdSearcher answers nearest-neighbor queries through a k-d tree. Built once
// per interpolation pass; read-only afterwards.
type kdSearcher struct {
	tree *kdtree.Tree
}

func newKDSearcher(valued []valuedSample) *kdSearcher {
	points := make(kdSamples, len(valued))
	for i, s := range valued {
		points[i] = kdSample{x: s.x, y: s.y, value: s.value, id: s.id}
	}
	return &kdSearcher{tree: kdtree.New(points, true)}
}

func (s *kdSearcher) nearest(x, y float64, k int) []neighbor {
	query := kdSample{x: x, y: y}

	// First pass establishes the k-th neighbor distance. The NKeeper keeps
	// whichever equidistant candidates the traversal reaches first, so its
	// selection at that boundary distance is arbitrary.
	keeper := kdtree.NewNKeeper(k)
	s.tree.NearestSet(keeper, query)

	boundary := 0.0
	for _, item := range keeper.Heap {
		if _, ok := item.Comparable.(kdSample); !ok {
			continue // unfilled keeper slot
		}
		if item.Dist > boundary {
			boundary = item.Dist
		}
	}

	// Second pass collects the full tie group at the boundary, so the id
	// tie-break below selects the same neighbors the brute-force scan does.
	within := kdtree.NewDistKeeper(boundary)
	s.tree.NearestSet(within, query)

	selected := make([]neighbor, 0, within.Len())
	for _, item := range within.Heap {
		p, ok := item.Comparable.(kdSample)
		if !ok {
			continue
		}
		selected = append(selected, neighbor{dist2: item.Dist, value: p.value, id: p.id})
	}
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].dist2 != selected[j].dist2 {
			return selected[i].dist2 < selected[j].dist2
		}
		return selected[i].id < selected[j].id
	})
	if len(selected) > k {
		selected = selected[:k]
	}
	return selected
}
