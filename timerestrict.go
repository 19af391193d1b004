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
	"errors"
	"sort"
	"time"

	"github.com/spatialmodel/mobility/span"
)

// ErrValueNotFound reports that a point known to lie on a trajectory
// could not be located in time, which can happen when round-off in the
// geometric computation pushes the point off every segment.
var ErrValueNotFound = errors.New("mobility: value not found in sequence")

// timeFraction returns the fractional position of t in [lower, upper].
func timeFraction(lower, upper, t time.Time) float64 {
	total := upper.Sub(lower)
	if total == 0 {
		return 0
	}
	return float64(t.Sub(lower)) / float64(total)
}

// timeAtFraction returns the time at the fractional position frac of
// [lower, upper].
func timeAtFraction(lower, upper time.Time, frac float64) time.Time {
	return lower.Add(time.Duration(frac * float64(upper.Sub(lower))))
}

// lerpPoint interpolates linearly between a and b.
func lerpPoint(a, b Point, frac float64, hasZ bool) Point {
	p := Point{X: a.X + frac*(b.X-a.X), Y: a.Y + frac*(b.Y-a.Y)}
	if hasZ {
		p.Z = a.Z + frac*(b.Z-a.Z)
	}
	return p
}

// segmentValueAt returns the value of the segment in1-in2 at time t,
// which must lie within [in1.t, in2.t].
func segmentValueAt(in1, in2 *Instant, interp Interp, t time.Time, hasZ bool) Point {
	if interp != Linear || in1.value.Equal(in2.value, hasZ) {
		return in1.value
	}
	return lerpPoint(in1.value, in2.value, timeFraction(in1.t, in2.t, t), hasZ)
}

// segIndex returns the index of the last instant at or before t.
// t must not be before the first instant.
func (seq *Sequence) segIndex(t time.Time) int {
	return sort.Search(len(seq.instants), func(i int) bool {
		return seq.instants[i].t.After(t)
	}) - 1
}

// ValueAt returns the value of the sequence at time t. The second
// result is false when t is outside the time support.
func (seq *Sequence) ValueAt(t time.Time) (Point, bool) {
	if seq.interp == Discrete {
		for i := range seq.instants {
			if seq.instants[i].t.Equal(t) {
				return seq.instants[i].value, true
			}
		}
		return Point{}, false
	}
	if !seq.Period().Contains(t) {
		return Point{}, false
	}
	n := seq.segIndex(t)
	if seq.instants[n].t.Equal(t) {
		return seq.instants[n].value, true
	}
	return segmentValueAt(&seq.instants[n], &seq.instants[n+1], seq.interp, t, seq.hasZ), true
}

// ValueAt returns the value of the sequence set at time t. The second
// result is false when t is outside the time support.
func (ss *SequenceSet) ValueAt(t time.Time) (Point, bool) {
	for i := range ss.seqs {
		if v, ok := ss.seqs[i].ValueAt(t); ok {
			return v, true
		}
	}
	return Point{}, false
}

/*
 * Restriction of a continuous sequence to a period
 */

// atPeriod restricts a continuous sequence to a period, interpolating
// the boundary values when the period bounds fall inside a segment.
// Returns nil when the result is empty.
func (seq *Sequence) atPeriod(p span.Period) *Sequence {
	inter, ok := seq.Period().Intersect(p)
	if !ok {
		return nil
	}
	if len(seq.instants) == 1 {
		return seq.copy()
	}
	if inter.IsInstant() {
		v, _ := seq.ValueAt(inter.Lower)
		in := Instant{spatial: seq.spatial, value: v, t: inter.Lower}
		return makeSequence([]Instant{in}, true, true, seq.interp, seq.spatial, false)
	}

	out := make([]Instant, 0, len(seq.instants))
	n := seq.segIndex(inter.Lower)
	if seq.instants[n].t.Equal(inter.Lower) {
		out = append(out, seq.instants[n])
	} else {
		v := segmentValueAt(&seq.instants[n], &seq.instants[n+1], seq.interp, inter.Lower, seq.hasZ)
		out = append(out, Instant{spatial: seq.spatial, value: v, t: inter.Lower})
	}
	n++
	for ; n < len(seq.instants) && seq.instants[n].t.Before(inter.Upper); n++ {
		out = append(out, seq.instants[n])
	}

	if n < len(seq.instants) && seq.instants[n].t.Equal(inter.Upper) {
		// A step sequence with an exclusive upper bound must end on two
		// equal values, so the held value replaces the instant's own.
		if seq.interp == Linear || inter.UpperInc {
			out = append(out, seq.instants[n])
		} else {
			held := out[len(out)-1].value
			out = append(out, Instant{spatial: seq.spatial, value: held, t: inter.Upper})
		}
	} else {
		var v Point
		if seq.interp == Linear {
			v = segmentValueAt(&seq.instants[n-1], &seq.instants[n], Linear, inter.Upper, seq.hasZ)
		} else {
			v = out[len(out)-1].value
		}
		out = append(out, Instant{spatial: seq.spatial, value: v, t: inter.Upper})
	}
	return makeSequence(out, inter.LowerInc, inter.UpperInc, seq.interp, seq.spatial, false)
}

// restrictPeriodSet restricts a continuous sequence to a period set
// (at) or its complement (minus). Returns nil when the result is
// empty.
func (seq *Sequence) restrictPeriodSet(ps *span.PeriodSet, at bool) *SequenceSet {
	if !at {
		ps = seq.Period().MinusSet(ps)
	}
	var out []Sequence
	for i := 0; i < ps.Len(); i++ {
		if s := seq.atPeriod(ps.Period(i)); s != nil {
			out = append(out, *s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return makeSequenceSet(out, seq.spatial, false)
}

// restrictPeriodSet restricts a sequence set to a period set (at) or
// its complement (minus). Returns nil when the result is empty.
func (ss *SequenceSet) restrictPeriodSet(ps *span.PeriodSet, at bool) *SequenceSet {
	sets := make([]*SequenceSet, len(ss.seqs))
	for i := range ss.seqs {
		sets[i] = ss.seqs[i].restrictPeriodSet(ps, at)
	}
	return assembleSets(sets, ss.spatial)
}

/*
 * Restriction of a discrete sequence
 */

// discreteRestrict keeps (at) or drops (minus) the instants for which
// keep reports true. Returns nil when the result is empty.
func (seq *Sequence) discreteRestrict(keep func(*Instant) bool, at bool) *Sequence {
	var out []Instant
	for i := range seq.instants {
		if keep(&seq.instants[i]) == at {
			out = append(out, seq.instants[i])
		}
	}
	if len(out) == 0 {
		return nil
	}
	return makeSequence(out, true, true, Discrete, seq.spatial, false)
}

/*
 * Public entry point
 */

// RestrictPeriod restricts a temporal value to the times within the
// period (at) or outside it (minus). The result is nil when it is
// empty; its variant follows the input, except that a minus restriction
// of a continuous sequence may produce a sequence set.
func RestrictPeriod(tp Temporal, p span.Period, at bool) Temporal {
	switch v := tp.(type) {
	case *Instant:
		if p.Contains(v.t) == at {
			return v.copy()
		}
		return nil
	case *Sequence:
		if v.interp == Discrete {
			s := v.discreteRestrict(func(in *Instant) bool { return p.Contains(in.t) }, at)
			if s == nil {
				return nil
			}
			return s
		}
		if at {
			s := v.atPeriod(p)
			if s == nil {
				return nil
			}
			return s
		}
		ps := span.Normalize([]span.Period{p})
		set := v.restrictPeriodSet(ps, false)
		if set == nil {
			return nil
		}
		return set
	case *SequenceSet:
		ps := span.Normalize([]span.Period{p})
		set := v.restrictPeriodSet(ps, at)
		if set == nil {
			return nil
		}
		return set
	}
	return nil
}
