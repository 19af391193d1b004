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

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/spatialmodel/mobility/span"
)

// DefaultEpsilon is the tolerance used for floating-point tie-breaking
// in the segment kernel, the point locators and the box border codes.
// It is expressed in coordinate units, so whether a single value is
// appropriate for every SRID is an open question; the kernel-level
// functions take the tolerance as an explicit argument so that callers
// working at unusual scales can override it.
const DefaultEpsilon = 1e-12

// Interp is the interpolation mode of a temporal sequence.
type Interp int

const (
	// Discrete sequences are isolated samples with no continuity
	// between instants.
	Discrete Interp = iota
	// Step sequences hold each value constant until the next instant.
	Step
	// Linear sequences interpolate linearly between instants.
	Linear
)

func (i Interp) String() string {
	switch i {
	case Discrete:
		return "Discrete"
	case Step:
		return "Step"
	case Linear:
		return "Linear"
	}
	return fmt.Sprintf("Interp(%d)", int(i))
}

// Point is a 2D or 3D spatial position. Z is meaningful only when the
// temporal value owning the point has the Z dimension.
type Point struct {
	X, Y, Z float64
}

// XY returns the planar projection of p.
func (p Point) XY() geom.Point { return geom.Point{X: p.X, Y: p.Y} }

// Equal reports exact coordinate equality, considering Z only when
// hasZ is true.
func (p Point) Equal(q Point, hasZ bool) bool {
	if p.X != q.X || p.Y != q.Y {
		return false
	}
	return !hasZ || p.Z == q.Z
}

// EqualEps reports coordinate equality within eps, considering Z only
// when hasZ is true.
func (p Point) EqualEps(q Point, hasZ bool, eps float64) bool {
	if !scalar.EqualWithinAbs(p.X, q.X, eps) || !scalar.EqualWithinAbs(p.Y, q.Y, eps) {
		return false
	}
	return !hasZ || scalar.EqualWithinAbs(p.Z, q.Z, eps)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g %g %g)", p.X, p.Y, p.Z)
}

// spatial carries the reference frame shared by every instant of a
// temporal value.
type spatial struct {
	srid     int
	hasZ     bool
	geodetic bool
}

// SRID returns the spatial reference identifier of the value.
func (s spatial) SRID() int { return s.srid }

// HasZ reports whether the value carries a Z dimension.
func (s spatial) HasZ() bool { return s.hasZ }

// Geodetic reports whether the value uses geodetic rather than planar
// semantics.
func (s spatial) Geodetic() bool { return s.geodetic }

func (s spatial) sameFrame(o spatial) bool { return s == o }

// Temporal is a temporal point value: exactly one of Instant, Sequence
// or SequenceSet. The interface is sealed; the restriction engines
// switch exhaustively over the three variants.
type Temporal interface {
	SRID() int
	HasZ() bool
	Geodetic() bool
	// Bounds returns the spatiotemporal bounding box of the value.
	Bounds() *STBox
	// Time returns the time support of the value.
	Time() *span.PeriodSet
	// Copy returns a deep copy of the value.
	Copy() Temporal

	temporal()
}

/*
 * Instant
 */

// Instant is a single (value, timestamp) pair. Instants are immutable
// once built.
type Instant struct {
	spatial
	value Point
	t     time.Time
}

var _ Temporal = (*Instant)(nil)

// NewInstant builds a temporal instant from a value and a timestamp.
func NewInstant(value Point, t time.Time, hasZ, geodetic bool, srid int) *Instant {
	return &Instant{
		spatial: spatial{srid: srid, hasZ: hasZ, geodetic: geodetic},
		value:   value,
		t:       t,
	}
}

// Value returns the spatial position of the instant.
func (in *Instant) Value() Point { return in.value }

// Timestamp returns the time of the instant.
func (in *Instant) Timestamp() time.Time { return in.t }

// Time returns the time support of the instant.
func (in *Instant) Time() *span.PeriodSet {
	return span.Normalize([]span.Period{span.Instant(in.t)})
}

// Copy returns a deep copy of the instant.
func (in *Instant) Copy() Temporal { return in.copy() }

func (in *Instant) copy() *Instant {
	c := *in
	return &c
}

func (in *Instant) temporal() {}

func (in *Instant) String() string {
	return fmt.Sprintf("%v@%v", in.value, in.t.Format(time.RFC3339Nano))
}

/*
 * Sequence
 */

// Sequence is an ordered, strictly time-increasing run of instants
// with an interpolation mode and lower/upper bound inclusivity.
// Discrete sequences always have inclusive bounds; Step and Linear
// sequences are continuous.
type Sequence struct {
	spatial
	instants           []Instant
	lowerInc, upperInc bool
	interp             Interp
}

var _ Temporal = (*Sequence)(nil)

// NewSequence builds a temporal sequence from an ordered instant
// array. It validates that the instants share one reference frame and
// are strictly increasing in time, that discrete sequences have
// inclusive bounds, and that a step sequence with an exclusive upper
// bound ends on two equal values. When normalize is true, redundant
// instants are removed.
func NewSequence(instants []*Instant, lowerInc, upperInc bool, interp Interp, normalize bool) (*Sequence, error) {
	if len(instants) == 0 {
		return nil, fmt.Errorf("mobility: sequence must have at least one instant")
	}
	sp := instants[0].spatial
	for i, in := range instants {
		if in == nil {
			return nil, fmt.Errorf("mobility: nil instant at position %d", i)
		}
		if !in.spatial.sameFrame(sp) {
			return nil, fmt.Errorf("mobility: instant %d has a different reference frame", i)
		}
		if i > 0 && !instants[i-1].t.Before(in.t) {
			return nil, fmt.Errorf("mobility: instant timestamps must be strictly increasing: %v >= %v",
				instants[i-1].t, in.t)
		}
	}
	if interp == Discrete && !(lowerInc && upperInc) {
		return nil, fmt.Errorf("mobility: discrete sequences must have inclusive bounds")
	}
	if len(instants) == 1 && !(lowerInc && upperInc) {
		return nil, fmt.Errorf("mobility: instantaneous sequences must have inclusive bounds")
	}
	if interp == Step && !upperInc && len(instants) > 1 {
		n := len(instants)
		if !instants[n-2].value.Equal(instants[n-1].value, sp.hasZ) {
			return nil, fmt.Errorf("mobility: step sequence with exclusive upper bound must end on two equal values")
		}
	}
	vals := make([]Instant, len(instants))
	for i, in := range instants {
		vals[i] = *in
	}
	return makeSequence(vals, lowerInc, upperInc, interp, sp, normalize), nil
}

// makeSequence assembles a sequence from pre-validated instants. The
// slice is owned by the new sequence.
func makeSequence(instants []Instant, lowerInc, upperInc bool, interp Interp, sp spatial, normalize bool) *Sequence {
	if normalize && interp != Discrete && len(instants) > 2 {
		instants = normalizeInstants(instants, interp, sp.hasZ)
	}
	return &Sequence{
		spatial:  sp,
		instants: instants,
		lowerInc: lowerInc,
		upperInc: upperInc,
		interp:   interp,
	}
}

// normalizeInstants removes interior instants that carry no
// information: for step interpolation, an instant repeating the
// previous value; for linear interpolation, an instant collinear in
// space-time with its neighbors.
func normalizeInstants(instants []Instant, interp Interp, hasZ bool) []Instant {
	out := make([]Instant, 0, len(instants))
	out = append(out, instants[0])
	for i := 1; i < len(instants)-1; i++ {
		prev := out[len(out)-1]
		cur, next := instants[i], instants[i+1]
		var redundant bool
		switch interp {
		case Step:
			redundant = prev.value.Equal(cur.value, hasZ)
		case Linear:
			frac := timeFraction(prev.t, next.t, cur.t)
			interp := lerpPoint(prev.value, next.value, frac, hasZ)
			redundant = interp.EqualEps(cur.value, hasZ, DefaultEpsilon)
		}
		if !redundant {
			out = append(out, cur)
		}
	}
	out = append(out, instants[len(instants)-1])
	return out
}

// NumInstants returns the number of instants in the sequence.
func (seq *Sequence) NumInstants() int { return len(seq.instants) }

// Instant returns a copy of the i-th instant.
func (seq *Sequence) Instant(i int) *Instant {
	c := seq.instants[i]
	return &c
}

// inst returns the i-th instant without copying. Internal use only;
// callers must not mutate the result.
func (seq *Sequence) inst(i int) *Instant { return &seq.instants[i] }

// Start returns a copy of the first instant.
func (seq *Sequence) Start() *Instant { return seq.Instant(0) }

// End returns a copy of the last instant.
func (seq *Sequence) End() *Instant { return seq.Instant(len(seq.instants) - 1) }

// LowerInc reports whether the lower time bound is inclusive.
func (seq *Sequence) LowerInc() bool { return seq.lowerInc }

// UpperInc reports whether the upper time bound is inclusive.
func (seq *Sequence) UpperInc() bool { return seq.upperInc }

// Interpolation returns the interpolation mode of the sequence.
func (seq *Sequence) Interpolation() Interp { return seq.interp }

// Period returns the time extent of the sequence.
func (seq *Sequence) Period() span.Period {
	return span.Period{
		Lower:    seq.instants[0].t,
		Upper:    seq.instants[len(seq.instants)-1].t,
		LowerInc: seq.lowerInc,
		UpperInc: seq.upperInc,
	}
}

// Time returns the time support of the sequence.
func (seq *Sequence) Time() *span.PeriodSet {
	if seq.interp == Discrete {
		periods := make([]span.Period, len(seq.instants))
		for i, in := range seq.instants {
			periods[i] = span.Instant(in.t)
		}
		return span.Normalize(periods)
	}
	return span.Normalize([]span.Period{seq.Period()})
}

// Copy returns a deep copy of the sequence.
func (seq *Sequence) Copy() Temporal { return seq.copy() }

func (seq *Sequence) copy() *Sequence {
	c := *seq
	c.instants = make([]Instant, len(seq.instants))
	copy(c.instants, seq.instants)
	return &c
}

// toSet wraps a continuous sequence into a singleton sequence set.
func (seq *Sequence) toSet() *SequenceSet {
	return &SequenceSet{spatial: seq.spatial, seqs: []Sequence{*seq.copy()}}
}

// instantSequence builds the sequence containing a single instant.
func instantSequence(in *Instant, interp Interp) *Sequence {
	return makeSequence([]Instant{*in}, true, true, interp, in.spatial, false)
}

func (seq *Sequence) temporal() {}

/*
 * SequenceSet
 */

// SequenceSet is an ordered array of continuous sequences, pairwise
// non-overlapping in time.
type SequenceSet struct {
	spatial
	seqs []Sequence
}

var _ Temporal = (*SequenceSet)(nil)

// NewSequenceSet builds a temporal sequence set from an ordered
// sequence array. All components must be continuous (Step or Linear),
// share one reference frame and interpolation mode, and be ordered in
// time, touching at most at a boundary that is not inclusive on both
// sides. When normalize is true, sequences that touch with matching
// boundary values are merged.
func NewSequenceSet(seqs []*Sequence, normalize bool) (*SequenceSet, error) {
	if len(seqs) == 0 {
		return nil, fmt.Errorf("mobility: sequence set must have at least one sequence")
	}
	sp := seqs[0].spatial
	interp := seqs[0].interp
	for i, seq := range seqs {
		if seq == nil {
			return nil, fmt.Errorf("mobility: nil sequence at position %d", i)
		}
		if seq.interp == Discrete {
			return nil, fmt.Errorf("mobility: sequence set components must be continuous")
		}
		if !seq.spatial.sameFrame(sp) || seq.interp != interp {
			return nil, fmt.Errorf("mobility: sequence %d has a different reference frame or interpolation", i)
		}
		if i > 0 {
			prev := seqs[i-1].Period()
			cur := seq.Period()
			if cur.Lower.Before(prev.Upper) ||
				(cur.Lower.Equal(prev.Upper) && prev.UpperInc && cur.LowerInc) {
				return nil, fmt.Errorf("mobility: sequences %d and %d overlap in time", i-1, i)
			}
		}
	}
	vals := make([]Sequence, len(seqs))
	for i, seq := range seqs {
		vals[i] = *seq.copy()
	}
	return makeSequenceSet(vals, sp, normalize), nil
}

// makeSequenceSet assembles a set from pre-validated sequences. The
// slice is owned by the new set.
func makeSequenceSet(seqs []Sequence, sp spatial, normalize bool) *SequenceSet {
	if normalize && len(seqs) > 1 {
		seqs = normalizeSequences(seqs, sp.hasZ)
	}
	return &SequenceSet{spatial: sp, seqs: seqs}
}

// normalizeSequences merges consecutive sequences whose periods touch
// and whose boundary values agree, so that adjacent fragments produced
// segment by segment collapse into maximal runs.
func normalizeSequences(seqs []Sequence, hasZ bool) []Sequence {
	out := make([]Sequence, 0, len(seqs))
	out = append(out, seqs[0])
	for _, cur := range seqs[1:] {
		last := &out[len(out)-1]
		lastEnd := last.instants[len(last.instants)-1]
		curStart := cur.instants[0]
		touching := lastEnd.t.Equal(curStart.t) && (last.upperInc || cur.lowerInc) &&
			lastEnd.value.Equal(curStart.value, hasZ)
		if touching {
			last.instants = append(last.instants, cur.instants[1:]...)
			last.upperInc = cur.upperInc
			continue
		}
		out = append(out, cur)
	}
	return out
}

// NumSequences returns the number of component sequences.
func (ss *SequenceSet) NumSequences() int { return len(ss.seqs) }

// Sequence returns a copy of the i-th component sequence.
func (ss *SequenceSet) Sequence(i int) *Sequence { return ss.seqs[i].copy() }

// seq returns the i-th component without copying. Internal use only;
// callers must not mutate the result.
func (ss *SequenceSet) seq(i int) *Sequence { return &ss.seqs[i] }

// Time returns the time support of the sequence set.
func (ss *SequenceSet) Time() *span.PeriodSet {
	periods := make([]span.Period, len(ss.seqs))
	for i := range ss.seqs {
		periods[i] = ss.seqs[i].Period()
	}
	return span.Normalize(periods)
}

// Copy returns a deep copy of the sequence set.
func (ss *SequenceSet) Copy() Temporal { return ss.copySet() }

func (ss *SequenceSet) copySet() *SequenceSet {
	seqs := make([]Sequence, len(ss.seqs))
	for i := range ss.seqs {
		seqs[i] = *ss.seqs[i].copy()
	}
	return &SequenceSet{spatial: ss.spatial, seqs: seqs}
}

func (ss *SequenceSet) temporal() {}

// assembleSets flattens the non-nil sets of per-sequence restriction
// results into a single set, or nil when every component was empty.
func assembleSets(sets []*SequenceSet, sp spatial) *SequenceSet {
	var seqs []Sequence
	for _, s := range sets {
		if s == nil {
			continue
		}
		seqs = append(seqs, s.seqs...)
	}
	if len(seqs) == 0 {
		return nil
	}
	return makeSequenceSet(seqs, sp, false)
}
