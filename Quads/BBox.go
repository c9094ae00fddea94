package Quads

import "golang.org/x/exp/constraints"

// Vec2 is a point in 2d space.
type Vec2[F constraints.Float] struct {
	X, Y F
}

// BBox is the axis-aligned box covering [Min.X,Max.X) x [Min.Y,Max.Y).
type BBox[F constraints.Float] struct {
	Min, Max Vec2[F]
}

// Contains reports whether p falls inside u. Boxes are half open: the
// minimum edges are inside, the maximum edges are not, so the four boxes of
// Split cover their parent with no point in two of them.
func (u BBox[F]) Contains(p Vec2[F]) bool {
	return u.Min.X <= p.X && p.X < u.Max.X && u.Min.Y <= p.Y && p.Y < u.Max.Y
}

// Intersects reports whether u and o overlap anywhere. Both boxes are
// treated as closed here, unlike Contains, so range queries keep subtrees
// that only touch the query edge.
func (u BBox[F]) Intersects(o BBox[F]) bool {
	return u.Max.X >= o.Min.X && o.Max.X >= u.Min.X &&
		u.Max.Y >= o.Min.Y && o.Max.Y >= u.Min.Y
}

// Mid returns the center of u.
func (u BBox[F]) Mid() Vec2[F] {
	return Vec2[F]{(u.Min.X + u.Max.X) / 2, (u.Min.Y + u.Max.Y) / 2}
}

// Split cuts u into the four boxes meeting at pivot, ordered SW, SE, NE, NW.
// pivot must lie inside u.
func (u BBox[F]) Split(pivot Vec2[F]) [4]BBox[F] {
	return [4]BBox[F]{
		{u.Min, pivot},
		{Vec2[F]{pivot.X, u.Min.Y}, Vec2[F]{u.Max.X, pivot.Y}},
		{pivot, u.Max},
		{Vec2[F]{u.Min.X, pivot.Y}, Vec2[F]{pivot.X, u.Max.Y}},
	}
}
