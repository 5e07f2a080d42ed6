package rtree

import (
	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SpacingStats summarises nearest-neighbour distances within one layer.
type SpacingStats struct {
	Depth  float64
	Points int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// NearestDistances returns, for every point of the depth layer, the
// great-circle distance in km to its closest other point.
func (g *GeoIndex) NearestDistances(depth float64) []float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	part, ok := g.partitions[depth]
	if !ok {
		return nil
	}

	items := part.tree.SearchIntersect(part.bounds())
	dists := make([]float64, 0, len(items))
	for _, item := range items {
		sp, ok := item.(*spatialPoint)
		if !ok {
			continue
		}
		// One of the two hits is the point itself
		var others []rtreego.Spatial
		for _, hit := range part.tree.NearestNeighbors(2, sp.pos) {
			if hit != nil && hit != rtreego.Spatial(sp) {
				others = append(others, hit)
			}
		}
		if nbs := part.neighbors(sp.Location(), others); len(nbs) > 0 {
			dists = append(dists, nbs[0].DistanceKm)
		}
	}
	return dists
}

// Spacing returns nearest-neighbour statistics for every depth layer with at
// least two points, in increasing depth order.
func (g *GeoIndex) Spacing() []SpacingStats {
	var out []SpacingStats
	for _, depth := range g.Depths() {
		dists := g.NearestDistances(depth)
		if len(dists) == 0 {
			continue
		}
		mean, std := stat.MeanStdDev(dists, nil)
		out = append(out, SpacingStats{
			Depth:  depth,
			Points: len(dists),
			Min:    floats.Min(dists),
			Max:    floats.Max(dists),
			Mean:   mean,
			StdDev: std,
		})
	}
	return out
}

// bounds covers the whole shell
func (p *partition) bounds() rtreego.Rect {
	r := p.radius + 1
	rect, _ := rtreego.NewRectFromPoints(rtreego.Point{-r, -r, -r}, rtreego.Point{r, r, r})
	return rect
}
