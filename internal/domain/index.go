package domain

import (
	"slices"

	"github.com/dhconnelly/rtreego"
)

// pointTolerance is the half-size, in degrees, of the box each point
// occupies in the R-tree.
const pointTolerance = 1e-9

// PointIndex answers bounding-box queries over a document's points.
type PointIndex struct {
	rtree *rtreego.Rtree
	size  int
}

type indexedPoint struct {
	Point
	seq int
}

// Bounds implements rtreego.Spatial.
func (p indexedPoint) Bounds() rtreego.Rect {
	return rtreego.Point{p.Lon, p.Lat}.ToRect(pointTolerance)
}

// NewPointIndex builds an R-tree over the document's points.
func NewPointIndex(n *Numerica) *PointIndex {
	// 2D, min=25 children, max=50 children
	rtree := rtreego.NewTree(2, 25, 50)
	for i, p := range n.Points {
		rtree.Insert(indexedPoint{Point: p, seq: i})
	}
	return &PointIndex{rtree: rtree, size: len(n.Points)}
}

// Len returns the number of indexed points.
func (idx *PointIndex) Len() int { return idx.size }

// Within returns the points inside e, edges included, in document order.
func (idx *PointIndex) Within(e Extent) []Point {
	if idx.size == 0 || e.MaxLon < e.MinLon || e.MaxLat < e.MinLat {
		return nil
	}

	// Degenerate boxes are widened so the query rectangle is valid; the
	// exact containment test below keeps the result precise.
	w := max(e.MaxLon-e.MinLon, pointTolerance)
	h := max(e.MaxLat-e.MinLat, pointTolerance)
	rect, err := rtreego.NewRect(
		rtreego.Point{e.MinLon - pointTolerance, e.MinLat - pointTolerance},
		[]float64{w + 2*pointTolerance, h + 2*pointTolerance},
	)
	if err != nil {
		return nil
	}

	hits := idx.rtree.SearchIntersect(rect)
	found := make([]indexedPoint, 0, len(hits))
	for _, s := range hits {
		ip := s.(indexedPoint)
		if e.Contains(ip.Lat, ip.Lon) {
			found = append(found, ip)
		}
	}
	slices.SortFunc(found, func(a, b indexedPoint) int { return a.seq - b.seq })

	out := make([]Point, len(found))
	for i, ip := range found {
		out[i] = ip.Point
	}
	return out
}
