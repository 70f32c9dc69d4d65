package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/worldforge/atlas/internal/atlaserr"
)

// SiteIndex is the point-index dependency described in §4.2: several
// terrain primitives (AddHill, AddRange, AddStrait, Invert, SeedOcean)
// need a nearest-tile-from-coordinate query. It wraps orb's quadtree,
// built once per driver invocation over every tile's site.
type SiteIndex struct {
	tree *quadtree.Quadtree
	ids  map[orb.Pointer]int64
}

// NewSiteIndex builds a quadtree over the given (id, site) pairs.
func NewSiteIndex(bound orb.Bound, ids []int64, sites []orb.Point) (*SiteIndex, error) {
	tree := quadtree.New(bound)
	idx := &SiteIndex{tree: tree, ids: make(map[orb.Pointer]int64, len(ids))}
	for i, id := range ids {
		sp := &indexedPoint{p: sites[i], id: id}
		if err := tree.Add(sp); err != nil {
			return nil, atlaserr.Geometry("geometry", "point %v outside quadtree bounds: %v", sites[i], err)
		}
		idx.ids[sp] = id
	}
	return idx, nil
}

type indexedPoint struct {
	p  orb.Point
	id int64
}

func (p *indexedPoint) Point() orb.Point { return p.p }

// Nearest returns the id of the tile whose site is closest to p.
func (s *SiteIndex) Nearest(p orb.Point) (int64, bool) {
	found := s.tree.Find(p)
	if found == nil {
		return 0, false
	}
	ip, ok := found.(*indexedPoint)
	if !ok {
		return 0, false
	}
	return ip.id, true
}

// Matching returns every id within the given bound, used by mirror-point
// lookups in Invert.
func (s *SiteIndex) Matching(b orb.Bound) []int64 {
	var out []int64
	for _, p := range s.tree.InBound(nil, b) {
		if ip, ok := p.(*indexedPoint); ok {
			out = append(out, ip.id)
		}
	}
	return out
}
