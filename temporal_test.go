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
	"testing"
	"time"

	"github.com/spatialmodel/mobility/span"
)

const testTolerance = 1e-9

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ts(sec int) time.Time { return t0.Add(time.Duration(sec) * time.Second) }

func inst(x, y float64, sec int) *Instant {
	return NewInstant(Point{X: x, Y: y}, ts(sec), false, false, 0)
}

func inst3(x, y, z float64, sec int) *Instant {
	return NewInstant(Point{X: x, Y: y, Z: z}, ts(sec), true, false, 0)
}

func seqOf(t *testing.T, interp Interp, lowerInc, upperInc bool, insts ...*Instant) *Sequence {
	t.Helper()
	s, err := NewSequence(insts, lowerInc, upperInc, interp, false)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mkPeriod(t *testing.T, lo, hi int, loInc, hiInc bool) span.Period {
	t.Helper()
	p, err := span.New(ts(lo), ts(hi), loInc, hiInc)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func different(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func samePoint(t *testing.T, got, want Point, hasZ bool) {
	t.Helper()
	if different(got.X, want.X, testTolerance) || different(got.Y, want.Y, testTolerance) ||
		(hasZ && different(got.Z, want.Z, testTolerance)) {
		t.Errorf("point = %v, want %v", got, want)
	}
}

func TestNewSequenceValidation(t *testing.T) {
	if _, err := NewSequence(nil, true, true, Linear, false); err == nil {
		t.Error("expected error for empty sequence")
	}
	if _, err := NewSequence([]*Instant{inst(0, 0, 10), inst(1, 1, 10)},
		true, true, Linear, false); err == nil {
		t.Error("expected error for non-increasing timestamps")
	}
	if _, err := NewSequence([]*Instant{inst(0, 0, 0), inst(1, 1, 10)},
		true, false, Discrete, false); err == nil {
		t.Error("expected error for discrete sequence with exclusive bound")
	}
	if _, err := NewSequence([]*Instant{inst(0, 0, 0)},
		true, false, Linear, false); err == nil {
		t.Error("expected error for instantaneous sequence with exclusive bound")
	}
	if _, err := NewSequence([]*Instant{inst(0, 0, 0), inst(1, 1, 10)},
		true, false, Step, false); err == nil {
		t.Error("expected error for step sequence ending on unequal values with exclusive upper bound")
	}
	if _, err := NewSequence([]*Instant{inst(0, 0, 0), inst(0, 0, 10)},
		true, false, Step, false); err != nil {
		t.Errorf("step sequence with held final value rejected: %v", err)
	}
	if _, err := NewSequence([]*Instant{inst(0, 0, 0), inst3(1, 1, 1, 10)},
		true, true, Linear, false); err == nil {
		t.Error("expected error for mixed reference frames")
	}
}

func TestSequenceNormalize(t *testing.T) {
	// The middle instant is collinear in space-time and is removed.
	s, err := NewSequence([]*Instant{inst(0, 0, 0), inst(5, 0, 10), inst(10, 0, 20)},
		true, true, Linear, true)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumInstants() != 2 {
		t.Errorf("NumInstants = %d, want 2", s.NumInstants())
	}

	// The middle instant repeats the previous value and is removed.
	s, err = NewSequence([]*Instant{inst(0, 0, 0), inst(0, 0, 10), inst(5, 5, 20)},
		true, true, Step, true)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumInstants() != 2 {
		t.Errorf("NumInstants = %d, want 2", s.NumInstants())
	}

	// A non-collinear middle instant survives.
	s, err = NewSequence([]*Instant{inst(0, 0, 0), inst(5, 3, 10), inst(10, 0, 20)},
		true, true, Linear, true)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumInstants() != 3 {
		t.Errorf("NumInstants = %d, want 3", s.NumInstants())
	}
}

func TestNewSequenceSetValidation(t *testing.T) {
	s1 := seqOf(t, Linear, true, true, inst(0, 0, 0), inst(1, 0, 10))
	s2 := seqOf(t, Linear, true, true, inst(1, 0, 5), inst(2, 0, 15))
	if _, err := NewSequenceSet([]*Sequence{s1, s2}, false); err == nil {
		t.Error("expected error for overlapping sequences")
	}

	d := seqOf(t, Discrete, true, true, inst(0, 0, 0), inst(1, 0, 10))
	if _, err := NewSequenceSet([]*Sequence{d}, false); err == nil {
		t.Error("expected error for discrete component")
	}

	s3 := seqOf(t, Linear, false, true, inst(1, 0, 10), inst(2, 0, 20))
	ss, err := NewSequenceSet([]*Sequence{s1, s3}, false)
	if err != nil {
		t.Fatal(err)
	}
	if ss.NumSequences() != 2 {
		t.Errorf("NumSequences = %d, want 2", ss.NumSequences())
	}
}

func TestSequenceSetNormalizeMerges(t *testing.T) {
	s1 := seqOf(t, Linear, true, false, inst(0, 0, 0), inst(1, 0, 10))
	s2 := seqOf(t, Linear, true, true, inst(1, 0, 10), inst(2, 0, 20))
	ss, err := NewSequenceSet([]*Sequence{s1, s2}, true)
	if err != nil {
		t.Fatal(err)
	}
	if ss.NumSequences() != 1 {
		t.Fatalf("NumSequences = %d, want 1", ss.NumSequences())
	}
	merged := ss.Sequence(0)
	if merged.NumInstants() != 3 || !merged.LowerInc() || !merged.UpperInc() {
		t.Errorf("merged sequence = %d instants, bounds [%v %v]",
			merged.NumInstants(), merged.LowerInc(), merged.UpperInc())
	}
}

func TestValueAt(t *testing.T) {
	lin := seqOf(t, Linear, true, true, inst(0, 0, 0), inst(10, 20, 10))
	v, ok := lin.ValueAt(ts(5))
	if !ok {
		t.Fatal("ValueAt(5) not found")
	}
	samePoint(t, v, Point{X: 5, Y: 10}, false)

	if _, ok = lin.ValueAt(ts(11)); ok {
		t.Error("ValueAt outside the period should not be found")
	}

	step := seqOf(t, Step, true, true, inst(0, 0, 0), inst(10, 20, 10))
	v, _ = step.ValueAt(ts(5))
	samePoint(t, v, Point{X: 0, Y: 0}, false)
	v, _ = step.ValueAt(ts(10))
	samePoint(t, v, Point{X: 10, Y: 20}, false)

	disc := seqOf(t, Discrete, true, true, inst(0, 0, 0), inst(10, 20, 10))
	if _, ok = disc.ValueAt(ts(5)); ok {
		t.Error("discrete ValueAt between samples should not be found")
	}

	// An exclusive upper bound excludes the final time.
	excl := seqOf(t, Linear, true, false, inst(0, 0, 0), inst(10, 20, 10))
	if _, ok = excl.ValueAt(ts(10)); ok {
		t.Error("ValueAt at exclusive bound should not be found")
	}
}

func TestTimeSupport(t *testing.T) {
	disc := seqOf(t, Discrete, true, true, inst(0, 0, 0), inst(1, 0, 10))
	if got := disc.Time().Len(); got != 2 {
		t.Errorf("discrete time support has %d periods, want 2", got)
	}
	lin := seqOf(t, Linear, true, false, inst(0, 0, 0), inst(1, 0, 10))
	ps := lin.Time()
	if ps.Len() != 1 || !ps.Period(0).Equal(mkPeriod(t, 0, 10, true, false)) {
		t.Errorf("linear time support = %v", ps.Period(0))
	}
}

func TestRestrictPeriodInstant(t *testing.T) {
	in := inst(1, 2, 5)
	p := mkPeriod(t, 0, 10, true, true)
	if got := RestrictPeriod(in, p, true); got == nil {
		t.Error("at restriction of contained instant is empty")
	}
	if got := RestrictPeriod(in, p, false); got != nil {
		t.Error("minus restriction of contained instant is not empty")
	}
	q := mkPeriod(t, 6, 10, true, true)
	if got := RestrictPeriod(in, q, true); got != nil {
		t.Error("at restriction of excluded instant is not empty")
	}
}

func TestRestrictPeriodLinear(t *testing.T) {
	seq := seqOf(t, Linear, true, true, inst(0, 0, 0), inst(20, 0, 20))

	got := RestrictPeriod(seq, mkPeriod(t, 5, 15, true, true), true)
	res, ok := got.(*Sequence)
	if !ok {
		t.Fatalf("at restriction = %T, want *Sequence", got)
	}
	if res.NumInstants() != 2 {
		t.Fatalf("NumInstants = %d, want 2", res.NumInstants())
	}
	samePoint(t, res.Start().Value(), Point{X: 5}, false)
	samePoint(t, res.End().Value(), Point{X: 15}, false)
	if !res.Start().Timestamp().Equal(ts(5)) || !res.End().Timestamp().Equal(ts(15)) {
		t.Errorf("period = %v", res.Period())
	}

	minus := RestrictPeriod(seq, mkPeriod(t, 5, 15, true, true), false)
	set, ok := minus.(*SequenceSet)
	if !ok {
		t.Fatalf("minus restriction = %T, want *SequenceSet", minus)
	}
	if set.NumSequences() != 2 {
		t.Fatalf("NumSequences = %d, want 2", set.NumSequences())
	}
	first, second := set.Sequence(0), set.Sequence(1)
	if first.UpperInc() || second.LowerInc() {
		t.Error("complement bounds must be exclusive at the cut")
	}
	if !first.Period().Equal(mkPeriod(t, 0, 5, true, false)) ||
		!second.Period().Equal(mkPeriod(t, 15, 20, false, true)) {
		t.Errorf("minus periods = %v, %v", first.Period(), second.Period())
	}
}

func TestRestrictPeriodStepHeldValue(t *testing.T) {
	seq := seqOf(t, Step, true, true, inst(0, 0, 0), inst(5, 5, 10), inst(9, 9, 20))

	// The value at the upper cut of a step sequence is the held one
	// when the bound is exclusive.
	got := RestrictPeriod(seq, mkPeriod(t, 0, 15, true, false), true)
	res := got.(*Sequence)
	if res.NumInstants() != 3 {
		t.Fatalf("NumInstants = %d, want 3", res.NumInstants())
	}
	samePoint(t, res.End().Value(), Point{X: 5, Y: 5}, false)
	if !res.End().Timestamp().Equal(ts(15)) || res.UpperInc() {
		t.Errorf("end = %v upperInc=%v", res.End(), res.UpperInc())
	}
}

func TestRestrictPeriodDiscrete(t *testing.T) {
	seq := seqOf(t, Discrete, true, true, inst(0, 0, 0), inst(1, 0, 10), inst(2, 0, 20))
	got := RestrictPeriod(seq, mkPeriod(t, 5, 20, true, false), true)
	res := got.(*Sequence)
	if res.NumInstants() != 1 || !res.Start().Timestamp().Equal(ts(10)) {
		t.Errorf("at restriction = %d instants", res.NumInstants())
	}
	minus := RestrictPeriod(seq, mkPeriod(t, 5, 20, true, false), false).(*Sequence)
	if minus.NumInstants() != 2 {
		t.Errorf("minus restriction = %d instants", minus.NumInstants())
	}
}

func TestBounds(t *testing.T) {
	seq := seqOf(t, Linear, true, true, inst(0, 5, 0), inst(10, -5, 10))
	b := seq.Bounds()
	if !b.HasX || b.HasZ || !b.HasT {
		t.Fatalf("dimensions = X:%v Z:%v T:%v", b.HasX, b.HasZ, b.HasT)
	}
	if different(b.XMin, 0, testTolerance) || different(b.XMax, 10, testTolerance) ||
		different(b.YMin, -5, testTolerance) || different(b.YMax, 5, testTolerance) {
		t.Errorf("bounds = %v", b)
	}
	if !b.Period.Lower.Equal(ts(0)) || !b.Period.Upper.Equal(ts(10)) {
		t.Errorf("period = %v", b.Period)
	}

	in3 := inst3(1, 2, 3, 5)
	b = in3.Bounds()
	if !b.HasZ || different(b.ZMin, 3, testTolerance) {
		t.Errorf("instant bounds = %v", b)
	}
}

func TestCopyIsDeep(t *testing.T) {
	seq := seqOf(t, Linear, true, true, inst(0, 0, 0), inst(10, 0, 10))
	c := seq.Copy().(*Sequence)
	if c.NumInstants() != seq.NumInstants() || !c.Period().Equal(seq.Period()) {
		t.Error("copy differs from original")
	}
	// Mutating an accessor result must not affect the sequence.
	got := seq.Instant(0)
	got.value = Point{X: 99}
	samePoint(t, seq.Start().Value(), Point{}, false)
}
