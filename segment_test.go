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
	"testing"

	"github.com/ctessum/geom"
)

func TestSegmentSide(t *testing.T) {
	a, b := geom.Point{X: 0, Y: 0}, geom.Point{X: 2, Y: 0}
	cases := []struct {
		q    geom.Point
		want int
	}{
		{geom.Point{X: 1, Y: 1}, -1},
		{geom.Point{X: 1, Y: -1}, 1},
		{geom.Point{X: 1, Y: 0}, 0},
		{geom.Point{X: 1, Y: 1e-15}, 0}, // within epsilon of the line
	}
	for _, c := range cases {
		if got := segmentSide(a, b, c.q, DefaultEpsilon); got != c.want {
			t.Errorf("segmentSide(%v) = %d, want %d", c.q, got, c.want)
		}
	}
}

func TestSegmentsInteract(t *testing.T) {
	a, b := geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 1}
	c, d := geom.Point{X: 2, Y: 2}, geom.Point{X: 3, Y: 3}
	if segmentsInteract(a, b, c, d) {
		t.Error("disjoint extents reported as interacting")
	}
	if !segmentsInteract(a, b, geom.Point{X: 1, Y: 1}, geom.Point{X: 2, Y: 0}) {
		t.Error("touching extents reported as not interacting")
	}
}

func TestSegmentIntersection(t *testing.T) {
	pt := func(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }
	cases := []struct {
		name       string
		a, b, c, d geom.Point
		want       segIntersectionType
	}{
		{"disjoint", pt(0, 0), pt(1, 0), pt(0, 1), pt(1, 1), segNoIntersection},
		{"cross", pt(0, 0), pt(2, 2), pt(0, 2), pt(2, 0), segCross},
		{"touch end", pt(0, 0), pt(1, 1), pt(1, 1), pt(2, 0), segTouchEnd},
		{"touch interior", pt(0, 0), pt(2, 0), pt(1, 0), pt(1, 1), segTouch},
		{"collinear overlap", pt(0, 0), pt(2, 0), pt(1, 0), pt(3, 0), segOverlap},
		{"collinear touch", pt(0, 0), pt(1, 0), pt(1, 0), pt(2, 0), segTouchEnd},
		{"same side", pt(0, 0), pt(2, 0), pt(0, 1), pt(2, 2), segNoIntersection},
	}
	for _, c := range cases {
		got, p := segmentIntersection(c.a, c.b, c.c, c.d, DefaultEpsilon)
		if got != c.want {
			t.Errorf("%s: type = %d, want %d", c.name, got, c.want)
		}
		if got == segTouchEnd {
			// The shared endpoint must be reported.
			if p != c.b && p != c.a {
				t.Errorf("%s: touch point = %v", c.name, p)
			}
		}
	}
}

func TestCrossParam(t *testing.T) {
	a, b := geom.Point{X: 0, Y: 0}, geom.Point{X: 4, Y: 0}
	c, d := geom.Point{X: 1, Y: -1}, geom.Point{X: 1, Y: 1}
	if got := crossParam(a, b, c, d); different(got, 0.25, testTolerance) {
		t.Errorf("crossParam = %g, want 0.25", got)
	}
}

func TestLocateOnSegment(t *testing.T) {
	a, b := geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}
	frac, on := locateOnSegment2D(a, b, geom.Point{X: 4, Y: 0}, DefaultEpsilon)
	if !on || different(frac, 0.4, testTolerance) {
		t.Errorf("locate = %g on=%v, want 0.4 on", frac, on)
	}
	if _, on = locateOnSegment2D(a, b, geom.Point{X: 4, Y: 1}, DefaultEpsilon); on {
		t.Error("point off the segment reported as on it")
	}

	p, q := Point{X: 0, Y: 0, Z: 0}, Point{X: 0, Y: 0, Z: 10}
	frac, on = locateOnSegment3D(p, q, Point{X: 0, Y: 0, Z: 7}, DefaultEpsilon)
	if !on || different(frac, 0.7, testTolerance) {
		t.Errorf("3D locate = %g on=%v, want 0.7 on", frac, on)
	}
}

func TestSegmentClipParams(t *testing.T) {
	a, b := geom.Point{X: 0, Y: 0}, geom.Point{X: 4, Y: 0}

	// Transversal crossing yields one parameter.
	got := segmentClipParams(a, b, geom.Point{X: 2, Y: -1}, geom.Point{X: 2, Y: 1}, DefaultEpsilon)
	if len(got) != 1 || different(got[0], 0.5, testTolerance) {
		t.Errorf("cross params = %v, want [0.5]", got)
	}

	// Collinear overlap yields the two overlap boundaries.
	got = segmentClipParams(a, b, geom.Point{X: 1, Y: 0}, geom.Point{X: 3, Y: 0}, DefaultEpsilon)
	got = dedupeParams(got, DefaultEpsilon)
	if len(got) != 2 || different(got[0], 0.25, testTolerance) || different(got[1], 0.75, testTolerance) {
		t.Errorf("overlap params = %v, want [0.25 0.75]", got)
	}

	if got = segmentClipParams(a, b, geom.Point{X: 0, Y: 1}, geom.Point{X: 4, Y: 1}, DefaultEpsilon); got != nil {
		t.Errorf("disjoint params = %v, want none", got)
	}
}
