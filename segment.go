/*
Copyright © 2026 the Mobility authors.
This file is part of Mobility.

Mobility is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Mobility is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Mobility.  If not, see <http://www.gnu.org/licenses/>.
*/

package mobility

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats/scalar"
)

// segIntersectionType classifies how two closed 2D segments interact.
type segIntersectionType int

const (
	// segNoIntersection: the segments do not intersect.
	segNoIntersection segIntersectionType = iota
	// segOverlap: the segments are collinear and share infinitely many
	// points; no single point is reported.
	segOverlap
	// segCross: the segments cross transversally; the point is not
	// computed since callers recover it through interpolation.
	segCross
	// segTouchEnd: the segments touch in one shared endpoint, which is
	// reported.
	segTouchEnd
	// segTouch: an endpoint of one segment lies in the interior of the
	// other; the point is not computed.
	segTouch
)

// segmentSide determines the side of the directed segment p1p2 on
// which q lies: -1 for left, 1 for right, 0 when q is on the line
// within eps. Magnitudes of the cross product below eps are treated as
// collinear to absorb round-off from upstream geometry construction.
func segmentSide(p1, p2, q geom.Point, eps float64) int {
	side := (q.X-p1.X)*(p2.Y-p1.Y) - (p2.X-p1.X)*(q.Y-p1.Y)
	if math.Abs(side) < eps {
		return 0
	}
	if side > 0 {
		return 1
	}
	return -1
}

// segmentsInteract reports whether the axis-aligned extents of the
// segments p1p2 and q1q2 interact.
func segmentsInteract(p1, p2, q1, q2 geom.Point) bool {
	if math.Min(p1.X, p2.X) > math.Max(q1.X, q2.X) ||
		math.Max(p1.X, p2.X) < math.Min(q1.X, q2.X) {
		return false
	}
	if math.Min(p1.Y, p2.Y) > math.Max(q1.Y, q2.Y) ||
		math.Max(p1.Y, p2.Y) < math.Min(q1.Y, q2.Y) {
		return false
	}
	return true
}

// collinearIntersection resolves the case where ab and cd are
// collinear and their bounding boxes interact. Only the sub-case where
// the intersection of the bounding boxes degenerates to a single point
// yields a usable unique point; every other configuration is an
// overlap.
func collinearIntersection(a, b, c, d geom.Point) (segIntersectionType, geom.Point) {
	xmin := math.Max(math.Min(a.X, b.X), math.Min(c.X, d.X))
	xmax := math.Min(math.Max(a.X, b.X), math.Max(c.X, d.X))
	ymin := math.Max(math.Min(a.Y, b.Y), math.Min(c.Y, d.Y))
	ymax := math.Min(math.Max(a.Y, b.Y), math.Max(c.Y, d.Y))
	if xmin < xmax || ymin < ymax {
		return segOverlap, geom.Point{}
	}
	if b.Equals(c) || b.Equals(d) {
		return segTouchEnd, b
	}
	if a.Equals(c) || a.Equals(d) {
		return segTouchEnd, a
	}
	// The bounding boxes were verified to interact, so the segments
	// must touch in one of the endpoint pairs above.
	return segNoIntersection, geom.Point{}
}

// segmentIntersection finds the unique point of intersection between
// the closed segments ab and cd, classifying the interaction. The
// point is only computed for segTouchEnd; for overlaps there are
// infinitely many shared points and for crossings the callers already
// hold the timestamp through interpolation.
func segmentIntersection(a, b, c, d geom.Point, eps float64) (segIntersectionType, geom.Point) {
	if !segmentsInteract(a, b, c, d) {
		return segNoIntersection, geom.Point{}
	}

	// Are the endpoints of cd on the same side of ab?
	pq1 := segmentSide(a, b, c, eps)
	pq2 := segmentSide(a, b, d, eps)
	if (pq1 > 0 && pq2 > 0) || (pq1 < 0 && pq2 < 0) {
		return segNoIntersection, geom.Point{}
	}

	// Are the endpoints of ab on the same side of cd?
	qp1 := segmentSide(c, d, a, eps)
	qp2 := segmentSide(c, d, b, eps)
	if (qp1 > 0 && qp2 > 0) || (qp1 < 0 && qp2 < 0) {
		return segNoIntersection, geom.Point{}
	}

	// Nobody on one side or the other: collinear.
	if pq1 == 0 && pq2 == 0 && qp1 == 0 && qp2 == 0 {
		return collinearIntersection(a, b, c, d)
	}

	// The intersection is at an endpoint of one of the segments.
	if pq1 == 0 || pq2 == 0 || qp1 == 0 || qp2 == 0 {
		if b.Equals(c) || b.Equals(d) {
			return segTouchEnd, b
		}
		if a.Equals(c) || a.Equals(d) {
			return segTouchEnd, a
		}
		return segTouch, geom.Point{}
	}

	return segCross, geom.Point{}
}

// crossParam returns the parameter along ab of the transversal
// intersection of ab with cd. Valid only when the segments cross.
func crossParam(a, b, c, d geom.Point) float64 {
	dax, day := b.X-a.X, b.Y-a.Y
	dcx, dcy := d.X-c.X, d.Y-c.Y
	kross := dax*dcy - day*dcx
	return ((c.X-a.X)*dcy - (c.Y-a.Y)*dcx) / kross
}

// locateOnSegment2D returns the fractional position along ab of the
// point of ab closest to q, and whether q lies on ab within eps. The
// fraction is clamped to [0, 1].
func locateOnSegment2D(a, b, q geom.Point, eps float64) (float64, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		dist := math.Hypot(q.X-a.X, q.Y-a.Y)
		return 0, dist < eps
	}
	frac := ((q.X-a.X)*dx + (q.Y-a.Y)*dy) / lenSq
	frac = math.Min(1, math.Max(0, frac))
	cx, cy := a.X+frac*dx, a.Y+frac*dy
	dist := math.Hypot(q.X-cx, q.Y-cy)
	return frac, dist < eps
}

// locateOnSegment3D is the 3D analogue of locateOnSegment2D.
func locateOnSegment3D(a, b, q Point, eps float64) (float64, bool) {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	lenSq := dx*dx + dy*dy + dz*dz
	if lenSq == 0 {
		dist := math.Sqrt((q.X-a.X)*(q.X-a.X) + (q.Y-a.Y)*(q.Y-a.Y) + (q.Z-a.Z)*(q.Z-a.Z))
		return 0, dist < eps
	}
	frac := ((q.X-a.X)*dx + (q.Y-a.Y)*dy + (q.Z-a.Z)*dz) / lenSq
	frac = math.Min(1, math.Max(0, frac))
	cx, cy, cz := a.X+frac*dx, a.Y+frac*dy, a.Z+frac*dz
	dist := math.Sqrt((q.X-cx)*(q.X-cx) + (q.Y-cy)*(q.Y-cy) + (q.Z-cz)*(q.Z-cz))
	return frac, dist < eps
}

// segmentClipParams returns the parameters along ab at which ab meets
// cd: one parameter for a transversal crossing or an endpoint touch,
// two for a collinear overlap. The parameters are not deduplicated.
func segmentClipParams(a, b, c, d geom.Point, eps float64) []float64 {
	typ, pt := segmentIntersection(a, b, c, d, eps)
	switch typ {
	case segNoIntersection:
		return nil
	case segCross:
		return []float64{crossParam(a, b, c, d)}
	case segTouchEnd:
		if frac, on := locateOnSegment2D(a, b, pt, eps); on {
			return []float64{frac}
		}
		return nil
	default: // segTouch, segOverlap
		var params []float64
		for _, q := range []geom.Point{c, d} {
			if frac, on := locateOnSegment2D(a, b, q, eps); on {
				params = append(params, frac)
			}
		}
		if _, on := locateOnSegment2D(c, d, a, eps); on {
			params = append(params, 0)
		}
		if _, on := locateOnSegment2D(c, d, b, eps); on {
			params = append(params, 1)
		}
		return params
	}
}

// dedupeParams sorts params and removes entries closer than eps to
// their predecessor.
func dedupeParams(params []float64, eps float64) []float64 {
	if len(params) < 2 {
		return params
	}
	sort.Float64s(params)
	out := params[:1]
	for _, p := range params[1:] {
		if !scalar.EqualWithinAbs(p, out[len(out)-1], eps) {
			out = append(out, p)
		}
	}
	return out
}
