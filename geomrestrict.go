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

	"github.com/ctessum/geom"

	"github.com/spatialmodel/mobility/span"
)

// instInGeomTime reports whether an instant satisfies the combined
// restriction: its time within the period, its Z within the span, and
// its planar position within the region (boundary counts as inside).
// The dimensions are checked cheapest first.
func instInGeomTime(in *Instant, region Region, zspan *span.FloatSpan, period *span.Period) bool {
	if period != nil && !period.Contains(in.t) {
		return false
	}
	if zspan != nil && !zspan.Contains(in.value.Z) {
		return false
	}
	return in.value.XY().Within(region.Polygonal) != geom.Outside
}

// discRestrictGeomTime restricts a discrete sequence by filtering its
// instants with the combined predicate. Returns nil when empty.
func (seq *Sequence) discRestrictGeomTime(region Region, zspan *span.FloatSpan, period *span.Period, at bool) *Sequence {
	return seq.discreteRestrict(func(in *Instant) bool {
		return instInGeomTime(in, region, zspan, period)
	}, at)
}

// makeStepRun builds a step sequence from a run of accumulated
// instants. An exclusive upper bound requires the last two values to
// be equal; since the value at an exclusive upper time is not part of
// the sequence, the last value can be replaced by the held one.
func makeStepRun(run []Instant, lowerInc, upperInc bool, sp spatial) *Sequence {
	n := len(run)
	if !upperInc && n > 1 && !run[n-2].value.Equal(run[n-1].value, sp.hasZ) {
		run[n-1] = Instant{spatial: sp, value: run[n-2].value, t: run[n-1].t}
	}
	return makeSequence(run, lowerInc, upperInc, Step, sp, false)
}

// stepAt computes the at restriction of a step sequence by
// accumulating runs of instants that satisfy pred. Each run is
// extended with a held instant until the time of the instant that
// broke it, projected to the period when one is given. pred must
// already account for the period. Returns nil when empty.
func (seq *Sequence) stepAt(pred func(*Instant) bool, period *span.Period) *SequenceSet {
	var timespan span.Period
	if period != nil {
		var ok bool
		timespan, ok = seq.Period().Intersect(*period)
		if !ok {
			return nil
		}
	}

	start := seq.instants[0].t
	end := seq.instants[len(seq.instants)-1].t
	var out []Sequence
	var run []Instant
	for i := range seq.instants {
		in := &seq.instants[i]
		if pred(in) {
			run = append(run, *in)
			continue
		}
		if len(run) == 0 {
			continue
		}
		held := run[len(run)-1].value
		upperInc := false
		if period != nil {
			extend := span.Period{Lower: run[len(run)-1].t, Upper: in.t, LowerInc: true, UpperInc: false}
			if inter, ok := timespan.Intersect(extend); ok {
				if !inter.Lower.Equal(inter.Upper) {
					run = append(run, Instant{spatial: seq.spatial, value: held, t: inter.Upper})
				} else {
					upperInc = true
				}
			}
		} else {
			run = append(run, Instant{spatial: seq.spatial, value: held, t: in.t})
		}
		lowerInc := true
		if run[0].t.Equal(start) {
			lowerInc = seq.lowerInc
		}
		out = append(out, *makeStepRun(run, lowerInc, upperInc, seq.spatial))
		run = nil
	}
	if len(run) > 0 {
		lowerInc := true
		if run[0].t.Equal(start) {
			lowerInc = seq.lowerInc
		}
		upperInc := false
		if run[len(run)-1].t.Equal(end) {
			upperInc = seq.upperInc
		}
		if len(run) > 1 || upperInc {
			out = append(out, *makeStepRun(run, lowerInc, upperInc, seq.spatial))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return makeSequenceSet(out, seq.spatial, false)
}

// stepRestrictGeomTime restricts a step sequence. The minus
// restriction is the complement of the at restriction with respect to
// the time dimension. Returns nil when empty.
func (seq *Sequence) stepRestrictGeomTime(region Region, zspan *span.FloatSpan, period *span.Period, at bool) *SequenceSet {
	if len(seq.instants) == 1 {
		if instInGeomTime(&seq.instants[0], region, zspan, period) == at {
			return seq.toSet()
		}
		return nil
	}
	resultAt := seq.stepAt(func(in *Instant) bool {
		return instInGeomTime(in, region, zspan, period)
	}, period)
	if at {
		return resultAt
	}
	if resultAt == nil {
		return seq.toSet()
	}
	return seq.restrictPeriodSet(resultAt.Time(), false)
}

/*
 * Linear interpolation
 */

// force2D drops the Z dimension of a sequence.
func (seq *Sequence) force2D() *Sequence {
	sp := seq.spatial
	sp.hasZ = false
	out := make([]Instant, len(seq.instants))
	for i := range seq.instants {
		out[i] = Instant{spatial: sp, value: Point{X: seq.instants[i].value.X, Y: seq.instants[i].value.Y}, t: seq.instants[i].t}
	}
	return makeSequence(out, seq.lowerInc, seq.upperInc, seq.interp, sp, false)
}

// linearAtGeom restricts a linear sequence to a region. The sequence
// is forced to 2D and split into simple fragments; the trajectory of
// each fragment is intersected with the region and the components are
// converted back into periods, which then restrict the original
// sequence so that the Z values are recovered. Returns nil when empty.
func (seq *Sequence) linearAtGeom(region Region, eps float64) (*SequenceSet, error) {
	if len(seq.instants) == 1 {
		if !instInGeomTime(&seq.instants[0], region, nil, nil) {
			return nil, nil
		}
		return seq.toSet(), nil
	}

	if !seq.Bounds().Overlaps(RegionSTBox(region)) {
		return nil, nil
	}

	seq2d := seq
	if seq.hasZ {
		seq2d = seq.force2D()
	}
	var allPeriods []span.Period
	for _, frag := range seq2d.makeSimple() {
		comps := trajectoryIntersection(frag.trajectory(), region.Polygonal, eps)
		if len(comps) == 0 {
			continue
		}
		periods, err := frag.interPeriods(comps, eps)
		if err != nil {
			return nil, err
		}
		allPeriods = append(allPeriods, periods...)
	}
	if len(allPeriods) == 0 {
		return nil, nil
	}
	return seq.restrictPeriodSet(span.Normalize(allPeriods), true), nil
}

// zSpanPeriods returns the periods during which the Z coordinate of a
// linear sequence stays within the span. The periods are not
// normalized.
func (seq *Sequence) zSpanPeriods(zs span.FloatSpan) []span.Period {
	if len(seq.instants) == 1 {
		if zs.Contains(seq.instants[0].value.Z) {
			return []span.Period{span.Instant(seq.instants[0].t)}
		}
		return nil
	}
	var periods []span.Period
	for i := 1; i < len(seq.instants); i++ {
		if p, ok := segmentZPeriod(&seq.instants[i-1], &seq.instants[i], zs); ok {
			periods = append(periods, p)
		}
	}
	return periods
}

// segmentZPeriod returns the time interval of the segment in1-in2
// during which its linearly interpolated Z coordinate stays within zs.
func segmentZPeriod(in1, in2 *Instant, zs span.FloatSpan) (span.Period, bool) {
	z1, z2 := in1.value.Z, in2.value.Z
	if z1 == z2 {
		if !zs.Contains(z1) {
			return span.Period{}, false
		}
		return span.Period{Lower: in1.t, Upper: in2.t, LowerInc: true, UpperInc: true}, true
	}

	// Intersect the closed value range of the segment with zs.
	lo, hi := z1, z2
	if lo > hi {
		lo, hi = hi, lo
	}
	l, lInc := lo, true
	if zs.Lower > l {
		l, lInc = zs.Lower, zs.LowerInc
	} else if zs.Lower == l {
		lInc = zs.LowerInc
	}
	h, hInc := hi, true
	if zs.Upper < h {
		h, hInc = zs.Upper, zs.UpperInc
	} else if zs.Upper == h {
		hInc = zs.UpperInc
	}
	if l > h || (l == h && !(lInc && hInc)) {
		return span.Period{}, false
	}

	// Map the value interval back to time through the monotone z(t).
	t1 := timeAtFraction(in1.t, in2.t, (l-z1)/(z2-z1))
	t2 := timeAtFraction(in1.t, in2.t, (h-z1)/(z2-z1))
	inc1, inc2 := lInc, hInc
	if t2.Before(t1) {
		t1, t2, inc1, inc2 = t2, t1, inc2, inc1
	}
	if t1.Equal(t2) {
		if !(inc1 && inc2) {
			return span.Period{}, false
		}
		return span.Instant(t1), true
	}
	return span.Period{Lower: t1, Upper: t2, LowerInc: inc1, UpperInc: inc2}, true
}

// zFilter restricts a linear sequence set to the times at which its Z
// coordinate stays within the span. Returns nil when empty.
func (ss *SequenceSet) zFilter(zs span.FloatSpan) *SequenceSet {
	var periods []span.Period
	for i := range ss.seqs {
		periods = append(periods, ss.seqs[i].zSpanPeriods(zs)...)
	}
	ps := span.Normalize(periods)
	if ps.Len() == 0 {
		return nil
	}
	return ss.restrictPeriodSet(ps, true)
}

// linearAtGeomTime computes the at restriction of a linear sequence to
// a region and possibly a Z span and a period. The sequence is first
// restricted to the time dimension to reduce the number of instants
// before the expensive geometric computation; the Z dimension must be
// filtered afterwards since the restriction to the region may turn the
// sequence into a sequence set. Returns nil when empty.
func (seq *Sequence) linearAtGeomTime(region Region, zspan *span.FloatSpan, period *span.Period, eps float64) (*SequenceSet, error) {
	if len(seq.instants) == 1 {
		if !instInGeomTime(&seq.instants[0], region, zspan, period) {
			return nil, nil
		}
		return seq.toSet(), nil
	}

	atT := seq
	if period != nil {
		if !seq.Period().Overlaps(*period) {
			return nil, nil
		}
		atT = seq.atPeriod(*period)
		if atT == nil {
			return nil, nil
		}
	}

	atXT, err := atT.linearAtGeom(region, eps)
	if err != nil || atXT == nil {
		return nil, err
	}
	if zspan == nil {
		return atXT, nil
	}

	b := atXT.Bounds()
	zrange := span.FloatSpan{Lower: b.ZMin, Upper: b.ZMax, LowerInc: true, UpperInc: true}
	if !zrange.Overlaps(*zspan) {
		return nil, nil
	}
	return atXT.zFilter(*zspan), nil
}

// linearRestrictGeomTime restricts a linear sequence. The minus
// restriction is the complement of the at restriction with respect to
// the time dimension. Returns nil when empty.
func (seq *Sequence) linearRestrictGeomTime(region Region, zspan *span.FloatSpan, period *span.Period, at bool, eps float64) (*SequenceSet, error) {
	resultAt, err := seq.linearAtGeomTime(region, zspan, period, eps)
	if err != nil {
		return nil, err
	}
	if at {
		return resultAt, nil
	}
	if resultAt == nil {
		return seq.toSet(), nil
	}
	return seq.restrictPeriodSet(resultAt.Time(), false), nil
}

/*
 * Dispatch
 */

// seqRestrictGeomTime dispatches on the interpolation mode of the
// sequence. The discrete result is a sequence, the continuous ones a
// sequence set; nil results report an empty restriction.
func (seq *Sequence) restrictGeomTime(region Region, zspan *span.FloatSpan, period *span.Period, at bool, eps float64) (Temporal, error) {
	switch seq.interp {
	case Discrete:
		s := seq.discRestrictGeomTime(region, zspan, period, at)
		if s == nil {
			return nil, nil
		}
		return s, nil
	case Step:
		set := seq.stepRestrictGeomTime(region, zspan, period, at)
		if set == nil {
			return nil, nil
		}
		return set, nil
	default:
		set, err := seq.linearRestrictGeomTime(region, zspan, period, at, eps)
		if err != nil || set == nil {
			return nil, err
		}
		return set, nil
	}
}

// restrictGeomTime restricts every component sequence, skipping with a
// bounding box test the components that cannot contribute to an at
// restriction. Returns nil when empty.
func (ss *SequenceSet) restrictGeomTime(region Region, zspan *span.FloatSpan, period *span.Period, at bool, eps float64) (*SequenceSet, error) {
	box2 := RegionSTBox(region)
	sets := make([]*SequenceSet, len(ss.seqs))
	for i := range ss.seqs {
		seq := &ss.seqs[i]
		if at && !seq.Bounds().Overlaps(box2) {
			continue
		}
		res, err := seq.restrictGeomTime(region, zspan, period, at, eps)
		if err != nil {
			return nil, err
		}
		if res != nil {
			sets[i] = res.(*SequenceSet)
		}
	}
	return assembleSets(sets, ss.spatial), nil
}

// RestrictGeometryTime restricts a temporal point to (at) or to the
// complement of (minus) a planar region, optionally intersected with a
// span over the Z coordinate and a period over time. Points on the
// region boundary count as inside. The result is nil when the
// restriction is empty; its variant follows the input, except that
// restricting a continuous sequence produces a sequence set.
func RestrictGeometryTime(tp Temporal, region Region, zspan *span.FloatSpan, period *span.Period, at bool) (Temporal, error) {
	if region.empty() {
		return nil, fmt.Errorf("mobility: restriction region must not be empty")
	}
	if tp.Geodetic() {
		return nil, fmt.Errorf("mobility: geometry restriction requires planar coordinates")
	}
	if tp.SRID() != region.SRID {
		return nil, fmt.Errorf("mobility: SRID mismatch: temporal value has %d, region has %d",
			tp.SRID(), region.SRID)
	}
	if zspan != nil && !tp.HasZ() {
		return nil, fmt.Errorf("mobility: Z span restriction requires a temporal value with Z dimension")
	}

	// Global bounding box test, folding the Z span and the period into
	// the region box.
	box1 := tp.Bounds()
	box2 := RegionSTBox(region)
	if zspan != nil {
		box2.HasZ = true
		box2.ZMin, box2.ZMax = zspan.Lower, zspan.Upper
	}
	if period != nil {
		box2.HasT = true
		box2.Period = *period
	}
	if !box1.Overlaps(box2) {
		if at {
			return nil, nil
		}
		return tp.Copy(), nil
	}

	switch v := tp.(type) {
	case *Instant:
		if instInGeomTime(v, region, zspan, period) == at {
			return v.copy(), nil
		}
		return nil, nil
	case *Sequence:
		return v.restrictGeomTime(region, zspan, period, at, DefaultEpsilon)
	case *SequenceSet:
		set, err := v.restrictGeomTime(region, zspan, period, at, DefaultEpsilon)
		if err != nil || set == nil {
			return nil, err
		}
		return set, nil
	}
	return nil, nil
}

// AtGeometryTime restricts a temporal point to a region and optional Z
// span and period.
func AtGeometryTime(tp Temporal, region Region, zspan *span.FloatSpan, period *span.Period) (Temporal, error) {
	return RestrictGeometryTime(tp, region, zspan, period, true)
}

// MinusGeometryTime restricts a temporal point to the complement of a
// region and optional Z span and period.
func MinusGeometryTime(tp Temporal, region Region, zspan *span.FloatSpan, period *span.Period) (Temporal, error) {
	return RestrictGeometryTime(tp, region, zspan, period, false)
}
