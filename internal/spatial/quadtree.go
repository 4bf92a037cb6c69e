package spatial

import (
	"math"

	"github.com/staymap/staymap-backend-go/internal/models"
	"github.com/staymap/staymap-backend-go/internal/projection"
)

// IndexPoint is a listing with its projected frame position
type IndexPoint struct {
	X, Y    float64
	Listing *models.Listing
}

// Bounds is an axis-aligned box in projected frame coordinates
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Extend expands bounds to include another point
func (b *Bounds) Extend(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

// intersectsCircle reports whether the box overlaps a circle, via the
// closest-point-in-box test against the squared radius
func (b Bounds) intersectsCircle(cx, cy, rSq float64) bool {
	return b.minDistSq(cx, cy) <= rSq
}

// minDistSq is the squared distance from a point to the nearest point of
// the box (zero when the point is inside)
func (b Bounds) minDistSq(x, y float64) float64 {
	dx := 0.0
	if x < b.MinX {
		dx = b.MinX - x
	} else if x > b.MaxX {
		dx = x - b.MaxX
	}

	dy := 0.0
	if y < b.MinY {
		dy = b.MinY - y
	} else if y > b.MaxY {
		dy = y - b.MaxY
	}

	return dx*dx + dy*dy
}

const (
	quadLeafCapacity = 16
	quadMaxDepth     = 12
)

// qnode is one quadtree cell. Leaves hold a point bucket; internal nodes
// hold child indices into the flat node slice.
type qnode struct {
	bounds   Bounds
	points   []IndexPoint
	children [4]int32 // -1 when leaf
	leaf     bool
	depth    int
}

// Quadtree buckets projected listing positions for radius and
// nearest-neighbor queries. Bucket boundaries are fixed at construction,
// so the index is rebuilt (never patched) whenever the listing set or the
// projection changes.
type Quadtree struct {
	nodes []qnode
	size  int
}

// BuildIndex projects every listing once, discards points whose projection
// is null, and inserts the rest into a fresh quadtree.
func BuildIndex(listings []models.Listing, proj projection.Projector) *Quadtree {
	points := make([]IndexPoint, 0, len(listings))
	bounds := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}

	for i := range listings {
		l := &listings[i]
		x, y, ok := proj.Project(l.Longitude, l.Latitude)
		if !ok {
			continue
		}
		points = append(points, IndexPoint{X: x, Y: y, Listing: l})
		bounds.Extend(x, y)
	}

	q := &Quadtree{size: len(points)}
	if len(points) == 0 {
		return q
	}

	q.nodes = append(q.nodes, qnode{
		bounds:   bounds,
		children: [4]int32{-1, -1, -1, -1},
		leaf:     true,
	})
	for _, p := range points {
		q.insert(0, p)
	}

	return q
}

// Len returns the number of indexed points
func (q *Quadtree) Len() int {
	return q.size
}

func (q *Quadtree) insert(nodeIdx int32, p IndexPoint) {
	node := &q.nodes[nodeIdx]

	if node.leaf {
		if len(node.points) < quadLeafCapacity || node.depth >= quadMaxDepth {
			node.points = append(node.points, p)
			return
		}
		q.split(nodeIdx)
		node = &q.nodes[nodeIdx] // split may have grown the slice
	}

	q.insert(node.children[q.quadrant(nodeIdx, p.X, p.Y)], p)
}

// quadrant picks the child index for a point: 0=NW, 1=NE, 2=SW, 3=SE
func (q *Quadtree) quadrant(nodeIdx int32, x, y float64) int {
	b := q.nodes[nodeIdx].bounds
	midX := (b.MinX + b.MaxX) / 2
	midY := (b.MinY + b.MaxY) / 2

	idx := 0
	if x >= midX {
		idx |= 1
	}
	if y >= midY {
		idx |= 2
	}
	return idx
}

func (q *Quadtree) split(nodeIdx int32) {
	b := q.nodes[nodeIdx].bounds
	depth := q.nodes[nodeIdx].depth
	midX := (b.MinX + b.MaxX) / 2
	midY := (b.MinY + b.MaxY) / 2

	childBounds := [4]Bounds{
		{b.MinX, b.MinY, midX, midY},
		{midX, b.MinY, b.MaxX, midY},
		{b.MinX, midY, midX, b.MaxY},
		{midX, midY, b.MaxX, b.MaxY},
	}

	var children [4]int32
	for i := 0; i < 4; i++ {
		children[i] = int32(len(q.nodes))
		q.nodes = append(q.nodes, qnode{
			bounds:   childBounds[i],
			children: [4]int32{-1, -1, -1, -1},
			leaf:     true,
			depth:    depth + 1,
		})
	}

	node := &q.nodes[nodeIdx]
	points := node.points
	node.points = nil
	node.children = children
	node.leaf = false

	for _, p := range points {
		q.insert(children[q.quadrant(nodeIdx, p.X, p.Y)], p)
	}
}

// QueryRadius returns every indexed point within radius of (cx, cy).
// Nodes whose box misses the query circle are pruned; leaf candidates go
// through an exact squared-distance test so no square root is taken.
// An empty index returns an empty slice. The index is not mutated.
func (q *Quadtree) QueryRadius(cx, cy, radius float64) []IndexPoint {
	result := []IndexPoint{}
	if len(q.nodes) == 0 || radius < 0 {
		return result
	}

	rSq := radius * radius
	stack := []int32{0}

	for len(stack) > 0 {
		nodeIdx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &q.nodes[nodeIdx]

		if !node.bounds.intersectsCircle(cx, cy, rSq) {
			continue
		}

		if node.leaf {
			for _, p := range node.points {
				dx := p.X - cx
				dy := p.Y - cy
				if dx*dx+dy*dy <= rSq {
					result = append(result, p)
				}
			}
			continue
		}

		stack = append(stack, node.children[0], node.children[1], node.children[2], node.children[3])
	}

	return result
}

// QueryNearest returns the indexed point closest to (x, y) within
// maxDistance, using branch-and-bound: subtrees whose minimum possible
// distance exceeds the current best are pruned. Returns ok=false for an
// empty index or when nothing lies within maxDistance. Pass a negative or
// +Inf maxDistance for an unbounded search.
func (q *Quadtree) QueryNearest(x, y, maxDistance float64) (IndexPoint, bool) {
	if len(q.nodes) == 0 {
		return IndexPoint{}, false
	}

	bestSq := math.Inf(1)
	if maxDistance >= 0 && !math.IsInf(maxDistance, 1) {
		bestSq = maxDistance * maxDistance
	}

	var best IndexPoint
	found := false

	var walk func(nodeIdx int32)
	walk = func(nodeIdx int32) {
		node := &q.nodes[nodeIdx]
		if node.bounds.minDistSq(x, y) > bestSq {
			return
		}

		if node.leaf {
			for _, p := range node.points {
				dx := p.X - x
				dy := p.Y - y
				dSq := dx*dx + dy*dy
				if dSq <= bestSq {
					bestSq = dSq
					best = p
					found = true
				}
			}
			return
		}

		// Descend into the quadrant containing the query point first so
		// the best distance tightens early and prunes the siblings.
		first := q.quadrant(nodeIdx, x, y)
		walk(node.children[first])
		for i := 0; i < 4; i++ {
			if i != first {
				walk(node.children[i])
			}
		}
	}
	walk(0)

	return best, found
}
