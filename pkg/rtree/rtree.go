// Package rtree indexes generated point sets for neighbour queries.
// Each depth layer lives in its own R-tree partition keyed on 3-D shell
// coordinates, so straight-line distance orders neighbours the same way as
// great-circle distance.
package rtree

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/1F47E/psf-grid/pkg/geodesy"
	"github.com/1F47E/psf-grid/pkg/models"
	"github.com/dhconnelly/rtreego"
)

const (
	tolerance   = 0.01 // km
	minChildren = 25
	maxChildren = 50
	dimensions  = 3
)

// ErrDepthOutOfRange is returned for points that do not lie on a shell
// between the surface and the centre of the Earth.
var ErrDepthOutOfRange = errors.New("depth out of range")

// spatialPoint wraps a point to implement rtreego.Spatial interface
type spatialPoint struct {
	models.Point
	pos  rtreego.Point
	rect rtreego.Rect
}

func (sp *spatialPoint) Bounds() rtreego.Rect {
	return sp.rect
}

// partition holds the points of one depth layer
type partition struct {
	tree   *rtreego.Rtree
	radius float64
}

// GeoIndex represents a thread-safe R-Tree based index of point layers
type GeoIndex struct {
	partitions map[float64]*partition
	mu         sync.RWMutex
	itemCount  atomic.Int64
}

// NewGeoIndex creates an empty index
func NewGeoIndex() *GeoIndex {
	return &GeoIndex{
		partitions: make(map[float64]*partition),
	}
}

func newSpatialPoint(p models.Point, radius float64) *spatialPoint {
	c := geodesy.Cartesian(p.Latitude, p.Longitude, radius)
	pos := rtreego.Point{c[0], c[1], c[2]}
	return &spatialPoint{
		Point: p,
		pos:   pos,
		rect:  pos.ToRect(tolerance),
	}
}

// IndexPoints adds points to the partition of their depth. Partitions are
// filled in parallel.
func (g *GeoIndex) IndexPoints(points []models.Point) error {
	if len(points) == 0 {
		return nil
	}

	// Group points by depth
	grouped := make(map[float64][]models.Point)
	for i, p := range points {
		if p.Depth < 0 || geodesy.ShellRadius(p.Depth) <= 0 {
			return fmt.Errorf("point %d: %w: %v km", i, ErrDepthOutOfRange, p.Depth)
		}
		grouped[p.Depth] = append(grouped[p.Depth], p)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var wg sync.WaitGroup
	for depth, layer := range grouped {
		part, ok := g.partitions[depth]
		if !ok {
			part = &partition{
				tree:   rtreego.NewTree(dimensions, minChildren, maxChildren),
				radius: geodesy.ShellRadius(depth),
			}
			g.partitions[depth] = part
		}

		wg.Add(1)
		go func(part *partition, items []models.Point) {
			defer wg.Done()

			// Each partition can be updated independently
			for _, item := range items {
				part.tree.Insert(newSpatialPoint(item, part.radius))
			}
			g.itemCount.Add(int64(len(items)))
		}(part, layer)
	}

	wg.Wait()
	return nil
}

// Neighbor is a point with its great-circle distance from a query location
type Neighbor struct {
	models.Point
	DistanceKm float64
}

// NearestNeighbors returns up to n points of the depth layer closest to
// center, nearest first.
func (g *GeoIndex) NearestNeighbors(center models.Location, depth float64, n int) []Neighbor {
	g.mu.RLock()
	defer g.mu.RUnlock()

	part, ok := g.partitions[depth]
	if !ok || n <= 0 {
		return nil
	}

	c := geodesy.Cartesian(center.Lat, center.Lon, part.radius)
	results := part.tree.NearestNeighbors(n, rtreego.Point{c[0], c[1], c[2]})

	return part.neighbors(center, results)
}

// QueryRadius returns the points of the depth layer within radiusKm of
// center along the shell surface, nearest first.
func (g *GeoIndex) QueryRadius(center models.Location, depth float64, radiusKm float64) ([]Neighbor, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if radiusKm < 0 {
		return nil, fmt.Errorf("invalid radius search: %v km", radiusKm)
	}
	part, ok := g.partitions[depth]
	if !ok {
		return nil, nil
	}

	chord := geodesy.ChordForArc(radiusKm, part.radius)
	c := geodesy.Cartesian(center.Lat, center.Lon, part.radius)
	bounds, err := rtreego.NewRectFromPoints(
		rtreego.Point{c[0] - chord, c[1] - chord, c[2] - chord},
		rtreego.Point{c[0] + chord, c[1] + chord, c[2] + chord},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid radius search: %w", err)
	}

	candidates := part.neighbors(center, part.tree.SearchIntersect(bounds))
	results := candidates[:0]
	for _, nb := range candidates {
		if nb.DistanceKm <= radiusKm {
			results = append(results, nb)
		}
	}
	return results, nil
}

func (p *partition) neighbors(center models.Location, items []rtreego.Spatial) []Neighbor {
	out := make([]Neighbor, 0, len(items))
	for _, item := range items {
		sp, ok := item.(*spatialPoint)
		if !ok {
			continue
		}
		out = append(out, Neighbor{
			Point: sp.Point,
			DistanceKm: geodesy.Distance(center.Lat, center.Lon,
				sp.Latitude, sp.Longitude, p.radius),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// Count returns the number of indexed points
func (g *GeoIndex) Count() int64 {
	return g.itemCount.Load()
}

// Depths returns the indexed depth layers in increasing order
func (g *GeoIndex) Depths() []float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	depths := make([]float64, 0, len(g.partitions))
	for d := range g.partitions {
		depths = append(depths, d)
	}
	sort.Float64s(depths)
	return depths
}

// Clear removes all points from the index
func (g *GeoIndex) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.partitions = make(map[float64]*partition)
	g.itemCount.Store(0)
}
