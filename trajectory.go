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
	"time"

	"github.com/ctessum/geom"

	"github.com/spatialmodel/mobility/span"
)

// trajectory returns the planar trace of a continuous sequence, with
// consecutive duplicate positions collapsed. A stationary sequence
// yields a single point.
func (seq *Sequence) trajectory() []geom.Point {
	pts := make([]geom.Point, 0, len(seq.instants))
	for i := range seq.instants {
		p := seq.instants[i].value.XY()
		if len(pts) == 0 || pts[len(pts)-1] != p {
			pts = append(pts, p)
		}
	}
	return pts
}

// regionEdges collects the ring edges of every polygon of the region.
func regionEdges(region geom.Polygonal) [][2]geom.Point {
	var edges [][2]geom.Point
	for _, poly := range region.Polygons() {
		for _, ring := range poly {
			for i := range ring {
				j := (i + 1) % len(ring)
				if ring[i] != ring[j] {
					edges = append(edges, [2]geom.Point{ring[i], ring[j]})
				}
			}
		}
	}
	return edges
}

// trajectoryIntersection computes the intersection of a trajectory
// with a planar region as an array of geom.Point and geom.LineString
// components, in trajectory order. The trajectory must come from a
// simple sequence. Points on the region boundary count as inside.
func trajectoryIntersection(points []geom.Point, region geom.Polygonal, eps float64) []geom.Geom {
	inside := func(p geom.Point) bool { return p.Within(region) != geom.Outside }

	if len(points) == 1 {
		if inside(points[0]) {
			return []geom.Geom{points[0]}
		}
		return nil
	}

	edges := regionEdges(region)
	var comps []geom.Geom
	var cur geom.LineString
	flush := func() {
		if len(cur) >= 2 {
			comps = append(comps, cur)
		}
		cur = nil
	}

	// carryIn records whether the previous segment ended inside the
	// region, so that a boundary touch at a segment junction is only
	// reported when both sides leave the region.
	carryIn := false
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		params := []float64{0, 1}
		for _, e := range edges {
			params = append(params, segmentClipParams(a, b, e[0], e[1], eps)...)
		}
		for k, f := range params {
			if f < 0 {
				params[k] = 0
			} else if f > 1 {
				params[k] = 1
			}
		}
		params = dedupeParams(params, eps)
		ptAt := func(f float64) geom.Point {
			return geom.Point{X: a.X + f*(b.X-a.X), Y: a.Y + f*(b.Y-a.Y)}
		}

		// Classify each sub-segment by its midpoint.
		in := make([]bool, len(params)-1)
		for k := range in {
			in[k] = inside(ptAt((params[k] + params[k+1]) / 2))
		}

		for k := range in {
			if in[k] {
				if len(cur) == 0 {
					cur = geom.LineString{ptAt(params[k])}
				}
				cur = append(cur, ptAt(params[k+1]))
				continue
			}
			leftIn := carryIn
			if k > 0 {
				leftIn = in[k-1]
			}
			if leftIn {
				flush()
			} else if q := ptAt(params[k]); inside(q) {
				// Isolated touch of the region boundary.
				comps = append(comps, q)
			}
		}
		carryIn = in[len(in)-1]
	}
	if carryIn {
		flush()
	} else if q := points[len(points)-1]; inside(q) {
		comps = append(comps, q)
	}
	return comps
}

// segmentTimestampAt returns the time at which the segment in1-in2
// passes through value, allowing the point to be off the segment by
// eps to absorb round-off from the geometric computation. The segment
// must have linear interpolation.
func segmentTimestampAt(in1, in2 *Instant, value geom.Point, eps float64) (time.Time, bool) {
	v1, v2 := in1.value.XY(), in2.value.XY()
	if v1 == value {
		return in1.t, true
	}
	if v2 == value {
		return in2.t, true
	}
	frac, on := locateOnSegment2D(v1, v2, value, eps)
	if !on {
		return time.Time{}, false
	}
	return timeAtFraction(in1.t, in2.t, frac), true
}

// timestampAt returns the time at which a simple linear sequence
// passes through value. The point must be known to lie on the
// trajectory; ErrValueNotFound reports that round-off pushed it off
// every segment. The resulting time may be at an exclusive bound.
func (seq *Sequence) timestampAt(value geom.Point, eps float64) (time.Time, error) {
	for i := 1; i < len(seq.instants); i++ {
		if t, ok := segmentTimestampAt(&seq.instants[i-1], &seq.instants[i], value, eps); ok {
			return t, nil
		}
	}
	return time.Time{}, ErrValueNotFound
}

// interPeriods converts the components of a trajectory intersection
// back into periods of the simple linear sequence the trajectory came
// from. Components that land only on an exclusive sequence bound are
// dropped. The resulting periods are not normalized.
func (seq *Sequence) interPeriods(comps []geom.Geom, eps float64) ([]span.Period, error) {
	start := &seq.instants[0]
	end := &seq.instants[len(seq.instants)-1]

	// A stationary two-instant sequence intersects for its whole
	// period, since the components are known to be non-empty.
	if len(seq.instants) == 2 && start.value.XY() == end.value.XY() {
		return []span.Period{seq.Period()}, nil
	}

	instantPeriod := func(t time.Time) (span.Period, bool) {
		if (seq.lowerInc || t.After(start.t)) && (seq.upperInc || t.Before(end.t)) {
			return span.Instant(t), true
		}
		return span.Period{}, false
	}

	var periods []span.Period
	for _, comp := range comps {
		switch g := comp.(type) {
		case geom.Point:
			t1, err := seq.timestampAt(g, eps)
			if err != nil {
				return nil, err
			}
			if p, ok := instantPeriod(t1); ok {
				periods = append(periods, p)
			}
		case geom.LineString:
			t1, err := seq.timestampAt(g[0], eps)
			if err != nil {
				return nil, err
			}
			t2, err := seq.timestampAt(g[len(g)-1], eps)
			if err != nil {
				return nil, err
			}
			if t1.Equal(t2) {
				if p, ok := instantPeriod(t1); ok {
					periods = append(periods, p)
				}
				continue
			}
			if t2.Before(t1) {
				t1, t2 = t2, t1
			}
			lowerInc, upperInc := true, true
			if t1.Equal(start.t) {
				lowerInc = seq.lowerInc
			}
			if t2.Equal(end.t) {
				upperInc = seq.upperInc
			}
			periods = append(periods, span.Period{
				Lower: t1, Upper: t2, LowerInc: lowerInc, UpperInc: upperInc,
			})
		}
	}
	return periods, nil
}
