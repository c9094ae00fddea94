// Package Quads implements a concurrent point quadtree over an Arenas node
// table, together with the small amount of 2d geometry it needs.
package Quads

import (
	"sync/atomic"

	"github.com/g-m-twostay/go-arbor/Arenas"
	"golang.org/x/exp/constraints"
)

// Entry pairs a stored point with its payload.
type Entry[F constraints.Float, P any] struct {
	Point   Vec2[F]
	Payload P
}

// quad owns one quadrant of the tree's space. It holds at most one entry;
// when a second point arrives the quadrant splits into four children pivoted
// on the resident point, so node shapes follow the insertion history rather
// than the box midpoints. Children are linked by arena Id, 0 while unsplit;
// a quad either has all four children or none.
type quad[F constraints.Float, P any] struct {
	bbox BBox[F]
	pt   Entry[F, P]
	full bool
	kids [4]Arenas.Id //SW, SE, NE, NW
}

// PointQuad is a point quadtree storing one payload P per distinct Vec2[F],
// safe for concurrent use. Nodes live in an Arenas.Arena and reference each
// other only by Id.
//
// Writers couple the per-node write locks from the root down for the whole
// insertion, so no reader can ever observe a half finished split; the cost is
// that concurrent inserts serialize at the root. Readers couple read locks
// the same way and run in parallel with each other.
type PointQuad[F constraints.Float, P any] struct {
	arena *Arenas.Arena[quad[F, P]]
	root  Arenas.Id
	size  atomic.Uintptr
}

// Make returns an empty tree owning the space bbox.
func Make[F constraints.Float, P any](bbox BBox[F]) *PointQuad[F, P] {
	u := &PointQuad[F, P]{arena: Arenas.Make[quad[F, P]]()}
	u.root = u.arena.NewId()
	if err := u.arena.Add(u.root, quad[F, P]{bbox: bbox}); err != nil {
		panic(err)
	}
	return u
}

// Size returns the number of points in the tree.
func (u *PointQuad[F, P]) Size() uint {
	return uint(u.size.Load())
}

// Insert stores payload under p. It returns false and leaves the tree
// unchanged if p lies outside the tree's space or is already present.
func (u *PointQuad[F, P]) Insert(p Vec2[F], payload P) bool {
	if !u.insert(u.root, Entry[F, P]{p, payload}) {
		return false
	}
	u.size.Add(1)
	return true
}

// Find returns the payload stored under p.
func (u *PointQuad[F, P]) Find(p Vec2[F]) (P, bool) {
	return u.find(u.root, p)
}

// FindWithin returns every entry whose point lies in bbox, in SW, SE, NE, NW
// pre-order. The order is deterministic for a given insertion history.
func (u *PointQuad[F, P]) FindWithin(bbox BBox[F]) []Entry[F, P] {
	return u.findWithin(u.root, bbox, nil)
}

// cell resolves an id this tree wrote itself, so a miss means the tree's own
// bookkeeping is corrupt and recovery is impossible.
func (u *PointQuad[F, P]) cell(id Arenas.Id) *Arenas.Cell[quad[F, P]] {
	c, ok := u.arena.Get(id)
	if !ok {
		panic(Arenas.ErrIdUnknown)
	}
	return c
}

func (u *PointQuad[F, P]) insert(id Arenas.Id, e Entry[F, P]) bool {
	c := u.cell(id)
	c.Lock()
	defer c.Unlock()
	q := &c.Node
	if !q.bbox.Contains(e.Point) { //only possible at the root; children nest
		return false
	}
	if !q.full {
		q.pt, q.full = e, true
		return true
	}
	if q.pt.Point == e.Point {
		return false
	}
	if q.kids[0] == 0 {
		for i, b := range q.bbox.Split(q.pt.Point) {
			kid := u.arena.NewId()
			if err := u.arena.Add(kid, quad[F, P]{bbox: b}); err != nil {
				panic(err)
			}
			q.kids[i] = kid
		}
	}
	for _, kid := range q.kids { //exactly one child box contains e.Point
		if u.insert(kid, e) {
			return true
		}
	}
	return false
}

func (u *PointQuad[F, P]) find(id Arenas.Id, p Vec2[F]) (P, bool) {
	var none P
	c := u.cell(id)
	c.RLock()
	defer c.RUnlock()
	q := &c.Node
	if !q.bbox.Contains(p) || !q.full {
		return none, false
	}
	if q.pt.Point == p {
		return q.pt.Payload, true
	}
	if q.kids[0] != 0 {
		for _, kid := range q.kids {
			if payload, in := u.find(kid, p); in {
				return payload, true
			}
		}
	}
	return none, false
}

func (u *PointQuad[F, P]) findWithin(id Arenas.Id, bbox BBox[F], out []Entry[F, P]) []Entry[F, P] {
	c := u.cell(id)
	c.RLock()
	defer c.RUnlock()
	q := &c.Node
	if !q.bbox.Intersects(bbox) {
		return out
	}
	if q.full && bbox.Contains(q.pt.Point) {
		out = append(out, q.pt)
	}
	if q.kids[0] != 0 {
		for _, kid := range q.kids {
			out = u.findWithin(kid, bbox, out)
		}
	}
	return out
}
