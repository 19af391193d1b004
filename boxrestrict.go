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
	"fmt"
	"time"

	"github.com/spatialmodel/mobility/span"
)

// Cohen-Sutherland line clipping extended to 3D.

// Region codes.
const (
	codeInside = 0
	codeLeft   = 1
	codeRight  = 2
	codeBottom = 4
	codeTop    = 8
	codeFront  = 16
	codeBack   = 32
)

// Max border codes.
const (
	borderXMax = 1
	borderYMax = 2
	borderZMax = 4
)

// regionCode returns the outcode of p relative to the box: one bit per
// box face the point lies beyond. Zero means inside.
func regionCode(p Point, hasZ bool, box *STBox) int {
	code := codeInside
	if p.X < box.XMin {
		code |= codeLeft
	} else if p.X > box.XMax {
		code |= codeRight
	}
	if p.Y < box.YMin {
		code |= codeBottom
	} else if p.Y > box.YMax {
		code |= codeTop
	}
	if hasZ {
		if p.Z < box.ZMin {
			code |= codeFront
		} else if p.Z > box.ZMax {
			code |= codeBack
		}
	}
	return code
}

// maxBorderCode returns one bit per upper box face that p lies on,
// within eps. Used to exclude the upper border when the box is
// half-open. The point must not be beyond the face, so no absolute
// value is needed.
func maxBorderCode(p Point, hasZ bool, box *STBox, eps float64) int {
	code := 0
	if box.XMax-p.X < eps {
		code |= borderXMax
	}
	if box.YMax-p.Y < eps {
		code |= borderYMax
	}
	if hasZ && box.ZMax-p.Z < eps {
		code |= borderZMax
	}
	return code
}

// cohenSutherlandClip clips the segment p1-p2 against the spatial
// dimensions of the box, returning the clipped endpoints. When
// borderInc is false the upper border counts as outside: a segment
// lying entirely on an upper face is rejected, and q1Inc/q2Inc report
// whether each clipped endpoint is off the upper border. found is
// false when the segment misses the box.
func cohenSutherlandClip(p1, p2 Point, box *STBox, hasZ, borderInc bool, eps float64) (q1, q2 Point, q1Inc, q2Inc, found bool) {
	x1, y1, z1 := p1.X, p1.Y, p1.Z
	x2, y2, z2 := p2.X, p2.Y, p2.Z
	code1 := regionCode(p1, hasZ, box)
	code2 := regionCode(p2, hasZ, box)

	for {
		if code1|code2 == 0 {
			// Both endpoints inside.
			found = true
			break
		}
		if code1&code2 != 0 {
			// Both endpoints outside on the same side.
			break
		}
		// Pick an endpoint outside the box and pull it onto the face it
		// lies beyond.
		codeOut := code1
		if codeOut == 0 {
			codeOut = code2
		}
		var x, y, z float64
		switch {
		case codeOut&codeLeft != 0:
			x = box.XMin
			y = y1 + (y2-y1)*(box.XMin-x1)/(x2-x1)
			z = z1 + (z2-z1)*(box.XMin-x1)/(x2-x1)
		case codeOut&codeRight != 0:
			x = box.XMax
			y = y1 + (y2-y1)*(box.XMax-x1)/(x2-x1)
			z = z1 + (z2-z1)*(box.XMax-x1)/(x2-x1)
		case codeOut&codeBottom != 0:
			y = box.YMin
			x = x1 + (x2-x1)*(box.YMin-y1)/(y2-y1)
			z = z1 + (z2-z1)*(box.YMin-y1)/(y2-y1)
		case codeOut&codeTop != 0:
			y = box.YMax
			x = x1 + (x2-x1)*(box.YMax-y1)/(y2-y1)
			z = z1 + (z2-z1)*(box.YMax-y1)/(y2-y1)
		case hasZ && codeOut&codeFront != 0:
			z = box.ZMin
			x = x1 + (x2-x1)*(box.ZMin-z1)/(z2-z1)
			y = y1 + (y2-y1)*(box.ZMin-z1)/(z2-z1)
		case hasZ && codeOut&codeBack != 0:
			z = box.ZMax
			x = x1 + (x2-x1)*(box.ZMax-z1)/(z2-z1)
			y = y1 + (y2-y1)*(box.ZMax-z1)/(z2-z1)
		}
		if codeOut == code1 {
			x1, y1, z1 = x, y, z
			code1 = regionCode(Point{X: x1, Y: y1, Z: z1}, hasZ, box)
		} else {
			x2, y2, z2 = x, y, z
			code2 = regionCode(Point{X: x2, Y: y2, Z: z2}, hasZ, box)
		}
	}

	if !found {
		return Point{}, Point{}, false, false, false
	}
	q1 = Point{X: x1, Y: y1, Z: z1}
	q2 = Point{X: x2, Y: y2, Z: z2}
	q1Inc, q2Inc = true, true
	if !borderInc {
		max1 := maxBorderCode(q1, hasZ, box, eps)
		max2 := maxBorderCode(q2, hasZ, box, eps)
		// A segment lying entirely on an upper face is removed.
		if max1&max2 != 0 {
			return Point{}, Point{}, false, false, false
		}
		q1Inc, q2Inc = max1 == 0, max2 == 0
	}
	return q1, q2, q1Inc, q2Inc, true
}

// instInSTBox reports whether an instant lies within the box. The Z
// dimension is considered only when both the instant and the box have
// it; when borderInc is false the upper border counts as outside.
func instInSTBox(in *Instant, box *STBox, borderInc bool, eps float64) bool {
	if box.HasT && !box.Period.Contains(in.t) {
		return false
	}
	hasZ := in.hasZ && box.HasZ
	code := regionCode(in.value, hasZ, box)
	maxCode := 0
	if !borderInc {
		maxCode = maxBorderCode(in.value, hasZ, box, eps)
	}
	return code|maxCode == 0
}

// discRestrictSTBox restricts a discrete sequence by filtering its
// instants. Returns nil when empty.
func (seq *Sequence) discRestrictSTBox(box *STBox, borderInc, at bool, eps float64) *Sequence {
	return seq.discreteRestrict(func(in *Instant) bool {
		return instInSTBox(in, box, borderInc, eps)
	}, at)
}

// stepRestrictSTBox restricts a step sequence. The minus restriction
// is the complement of the at restriction with respect to the time
// dimension. Returns nil when empty.
func (seq *Sequence) stepRestrictSTBox(box *STBox, borderInc, at bool, eps float64) *SequenceSet {
	if len(seq.instants) == 1 {
		if instInSTBox(&seq.instants[0], box, borderInc, eps) == at {
			return seq.toSet()
		}
		return nil
	}
	var period *span.Period
	if box.HasT {
		period = &box.Period
	}
	resultAt := seq.stepAt(func(in *Instant) bool {
		return instInSTBox(in, box, borderInc, eps)
	}, period)
	if at {
		return resultAt
	}
	if resultAt == nil {
		return seq.toSet()
	}
	return seq.restrictPeriodSet(resultAt.Time(), false)
}

// segmentTimestampAtPoint locates a point on the segment in1-in2 in
// time, in 3D when hasZ is set and on the planar projection otherwise.
// The point must come from clipping the segment, so it is on the
// segment up to round-off and the fractional position is used even
// when the locator reports the point slightly off.
func segmentTimestampAtPoint(in1, in2 *Instant, q Point, hasZ bool, eps float64) time.Time {
	if in1.value.Equal(q, hasZ) {
		return in1.t
	}
	if in2.value.Equal(q, hasZ) {
		return in2.t
	}
	var frac float64
	if hasZ {
		frac, _ = locateOnSegment3D(in1.value, in2.value, q, eps)
	} else {
		frac, _ = locateOnSegment2D(in1.value.XY(), in2.value.XY(), q.XY(), eps)
	}
	return timeAtFraction(in1.t, in2.t, frac)
}

// linearAtSTBoxXYZ restricts a linear sequence to the spatial
// dimensions of the box by clipping every segment. To reduce round-off
// the clip points are replaced by the segment values at the located
// timestamps. This runs after the restriction to the time dimension,
// so the instantaneous case must be handled. Returns nil when empty.
func (seq *Sequence) linearAtSTBoxXYZ(box *STBox, borderInc bool, eps float64) []Sequence {
	if len(seq.instants) == 1 {
		if instInSTBox(&seq.instants[0], box, borderInc, eps) {
			return []Sequence{*seq.copy()}
		}
		return nil
	}

	// The Z dimension is clipped only when both the sequence and the
	// box have it; a 3D sequence against a 2D box is located in time on
	// the planar projection.
	hasZ := seq.hasZ && box.HasZ
	var result []Sequence
	lowerInc := seq.lowerInc
	for i := 1; i < len(seq.instants); i++ {
		in1, in2 := &seq.instants[i-1], &seq.instants[i]
		upperInc := false
		if i == len(seq.instants)-1 {
			upperInc = seq.upperInc
		}
		p1, p2 := in1.value, in2.value
		if p1.Equal(p2, hasZ) {
			// Segment constant in the clipped dimensions: in or out as a
			// whole.
			code := regionCode(p1, hasZ, box)
			maxCode := 0
			if !borderInc {
				maxCode = maxBorderCode(p1, hasZ, box, eps)
			}
			if code|maxCode == 0 {
				frag := []Instant{*in1, *in2}
				result = append(result, *makeSequence(frag, lowerInc, upperInc, Linear, seq.spatial, false))
			}
		} else if q1, q2, q1Inc, q2Inc, found := cohenSutherlandClip(p1, p2, box, hasZ, borderInc, eps); found {
			if !borderInc {
				lowerInc = lowerInc && q1Inc
				upperInc = upperInc && q2Inc
			}
			var t1, t2 time.Time
			if seq.hasZ && !hasZ {
				t1 = segmentTimestampAtPoint(in1, in2, q1, false, eps)
				t2 = segmentTimestampAtPoint(in1, in2, q2, false, eps)
			} else {
				t1 = segmentTimestampAtPoint(in1, in2, q1, hasZ, eps)
				t2 = segmentTimestampAtPoint(in1, in2, q2, hasZ, eps)
			}
			v1 := p1
			if !t1.Equal(in1.t) {
				v1 = segmentValueAt(in1, in2, Linear, t1, seq.hasZ)
			}
			v2 := p2
			if !t2.Equal(in2.t) {
				v2 = segmentValueAt(in1, in2, Linear, t2, seq.hasZ)
			}
			// The end point of the segment cannot become a singleton
			// sequence when it sits at an exclusive upper bound.
			if !t1.Equal(t2) || !t1.Equal(in2.t) || upperInc {
				frag := []Instant{{spatial: seq.spatial, value: v1, t: t1}}
				if !v1.Equal(v2, seq.hasZ) {
					frag = append(frag, Instant{spatial: seq.spatial, value: v2, t: t2})
				}
				li, ui := lowerInc, upperInc
				if len(frag) == 1 {
					li, ui = true, true
				}
				result = append(result, *makeSequence(frag, li, ui, Linear, seq.spatial, false))
			}
		}
		lowerInc = true
	}
	return result
}

// linearAtSTBoxIter restricts a linear sequence first to the time
// dimension of the box and then to the spatial ones. Returns nil when
// empty.
func (seq *Sequence) linearAtSTBoxIter(box *STBox, borderInc bool, eps float64) []Sequence {
	if len(seq.instants) == 1 {
		if instInSTBox(&seq.instants[0], box, borderInc, eps) {
			return []Sequence{*seq.copy()}
		}
		return nil
	}
	seqT := seq
	if box.HasT {
		seqT = seq.atPeriod(box.Period)
		if seqT == nil {
			return nil
		}
	}
	return seqT.linearAtSTBoxXYZ(box, borderInc, eps)
}

// linearRestrictSTBox restricts a linear sequence. The minus
// restriction is the complement of the at restriction with respect to
// the time dimension. The at fragments are normalized so that adjacent
// degenerate fragments collapse into maximal runs. Returns nil when
// empty.
func (seq *Sequence) linearRestrictSTBox(box *STBox, borderInc, at bool, eps float64) *SequenceSet {
	seqs := seq.linearAtSTBoxIter(box, borderInc, eps)
	if len(seqs) == 0 {
		if at {
			return nil
		}
		return seq.toSet()
	}
	resultAt := makeSequenceSet(seqs, seq.spatial, true)
	if at {
		return resultAt
	}
	return seq.restrictPeriodSet(resultAt.Time(), false)
}

// restrictSTBox dispatches on the interpolation mode of the sequence.
// The discrete result is a sequence, the continuous ones a sequence
// set; nil results report an empty restriction.
func (seq *Sequence) restrictSTBox(box *STBox, borderInc, at bool, eps float64) Temporal {
	switch seq.interp {
	case Discrete:
		s := seq.discRestrictSTBox(box, borderInc, at, eps)
		if s == nil {
			return nil
		}
		return s
	case Step:
		set := seq.stepRestrictSTBox(box, borderInc, at, eps)
		if set == nil {
			return nil
		}
		return set
	default:
		set := seq.linearRestrictSTBox(box, borderInc, at, eps)
		if set == nil {
			return nil
		}
		return set
	}
}

// restrictSTBox restricts every component sequence, skipping with a
// bounding box test the components that cannot contribute to an at
// restriction. Returns nil when empty.
func (ss *SequenceSet) restrictSTBox(box *STBox, borderInc, at bool, eps float64) *SequenceSet {
	sets := make([]*SequenceSet, len(ss.seqs))
	for i := range ss.seqs {
		seq := &ss.seqs[i]
		if at && !seq.Bounds().Overlaps(box) {
			continue
		}
		if res := seq.restrictSTBox(box, borderInc, at, eps); res != nil {
			sets[i] = res.(*SequenceSet)
		}
	}
	return assembleSets(sets, ss.spatial)
}

// RestrictSTBox restricts a temporal point to (at) or to the
// complement of (minus) a spatiotemporal box. When borderInc is false
// the upper border of the box counts as outside. A box with only the T
// dimension reduces to a period restriction. The Z dimension is
// considered only when both the temporal point and the box have it.
// The result is nil when the restriction is empty; its variant follows
// the input, except that restricting a continuous sequence produces a
// sequence set.
func RestrictSTBox(tp Temporal, box *STBox, borderInc, at bool) (Temporal, error) {
	if box == nil {
		return nil, fmt.Errorf("mobility: restriction box must not be nil")
	}
	if !box.HasX && !box.HasT {
		return nil, fmt.Errorf("mobility: restriction box must have the spatial or the time dimension")
	}

	// Restriction to only the T dimension reduces to a period
	// restriction.
	if box.HasT && !box.HasX {
		return RestrictPeriod(tp, box.Period, at), nil
	}

	if tp.SRID() != box.SRID {
		return nil, fmt.Errorf("mobility: SRID mismatch: temporal value has %d, box has %d",
			tp.SRID(), box.SRID)
	}
	if tp.Geodetic() != box.Geodetic {
		return nil, fmt.Errorf("mobility: temporal value and box differ in geodetic semantics")
	}

	if !tp.Bounds().Overlaps(box) {
		if at {
			return nil, nil
		}
		return tp.Copy(), nil
	}

	switch v := tp.(type) {
	case *Instant:
		if instInSTBox(v, box, borderInc, DefaultEpsilon) == at {
			return v.copy(), nil
		}
		return nil, nil
	case *Sequence:
		return v.restrictSTBox(box, borderInc, at, DefaultEpsilon), nil
	case *SequenceSet:
		set := v.restrictSTBox(box, borderInc, at, DefaultEpsilon)
		if set == nil {
			return nil, nil
		}
		return set, nil
	}
	return nil, nil
}

// AtSTBox restricts a temporal point to a spatiotemporal box.
func AtSTBox(tp Temporal, box *STBox, borderInc bool) (Temporal, error) {
	return RestrictSTBox(tp, box, borderInc, true)
}

// MinusSTBox restricts a temporal point to the complement of a
// spatiotemporal box.
func MinusSTBox(tp Temporal, box *STBox, borderInc bool) (Temporal, error) {
	return RestrictSTBox(tp, box, borderInc, false)
}
