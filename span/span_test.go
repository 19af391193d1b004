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

package span

import (
	"testing"
	"time"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ts(sec int) time.Time { return base.Add(time.Duration(sec) * time.Second) }

func period(t *testing.T, lo, hi int, loInc, hiInc bool) Period {
	t.Helper()
	p, err := New(ts(lo), ts(hi), loInc, hiInc)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewPeriod(t *testing.T) {
	if _, err := New(ts(10), ts(0), true, true); err == nil {
		t.Error("expected error for inverted bounds")
	}
	if _, err := New(ts(5), ts(5), true, false); err == nil {
		t.Error("expected error for instantaneous period with exclusive bound")
	}
	p := Instant(ts(5))
	if !p.IsInstant() || !p.Contains(ts(5)) {
		t.Errorf("Instant(5) = %v", p)
	}
}

func TestPeriodContains(t *testing.T) {
	p := period(t, 0, 10, true, false)
	cases := []struct {
		sec  int
		want bool
	}{
		{-1, false}, {0, true}, {5, true}, {10, false}, {11, false},
	}
	for _, c := range cases {
		if got := p.Contains(ts(c.sec)); got != c.want {
			t.Errorf("Contains(%d) = %v, want %v", c.sec, got, c.want)
		}
	}
}

func TestPeriodOverlapsIntersect(t *testing.T) {
	p := period(t, 0, 10, true, true)
	q := period(t, 10, 20, false, true)
	if p.Overlaps(q) {
		t.Error("[0,10] should not overlap (10,20]")
	}
	q = period(t, 10, 20, true, true)
	if !p.Overlaps(q) {
		t.Error("[0,10] should overlap [10,20]")
	}
	inter, ok := p.Intersect(q)
	if !ok || !inter.Equal(Instant(ts(10))) {
		t.Errorf("intersection = %v, want [10, 10]", inter)
	}

	p = period(t, 0, 10, true, false)
	q = period(t, 5, 20, true, true)
	inter, ok = p.Intersect(q)
	want := period(t, 5, 10, true, false)
	if !ok || !inter.Equal(want) {
		t.Errorf("intersection = %v, want %v", inter, want)
	}
}

func TestPeriodMinus(t *testing.T) {
	p := period(t, 0, 20, true, true)
	q := period(t, 5, 15, true, true)
	got := p.Minus(q)
	if len(got) != 2 {
		t.Fatalf("got %d periods, want 2", len(got))
	}
	wantLeft := period(t, 0, 5, true, false)
	wantRight := period(t, 15, 20, false, true)
	if !got[0].Equal(wantLeft) || !got[1].Equal(wantRight) {
		t.Errorf("Minus = %v %v, want %v %v", got[0], got[1], wantLeft, wantRight)
	}

	// q covering p leaves nothing.
	if rest := q.Minus(p); len(rest) != 0 {
		t.Errorf("covered Minus = %v, want empty", rest)
	}

	// Disjoint q leaves p untouched.
	r := period(t, 30, 40, true, true)
	if rest := p.Minus(r); len(rest) != 1 || !rest[0].Equal(p) {
		t.Errorf("disjoint Minus = %v, want %v", rest, p)
	}
}

func TestNormalize(t *testing.T) {
	periods := []Period{
		period(t, 10, 20, true, true),
		period(t, 0, 5, true, false),
		period(t, 5, 10, true, false), // adjacent to both neighbors
		period(t, 30, 40, true, true),
	}
	s := Normalize(periods)
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	want0 := period(t, 0, 20, true, true)
	want1 := period(t, 30, 40, true, true)
	if !s.Period(0).Equal(want0) || !s.Period(1).Equal(want1) {
		t.Errorf("Normalize = %v %v, want %v %v", s.Period(0), s.Period(1), want0, want1)
	}

	// Touching with both bounds exclusive must not merge.
	s = Normalize([]Period{
		period(t, 0, 5, true, false),
		period(t, 5, 10, false, true),
	})
	if s.Len() != 2 {
		t.Errorf("exclusive touch merged: %d periods", s.Len())
	}
}

func TestPeriodSetContains(t *testing.T) {
	s := Normalize([]Period{
		period(t, 0, 5, true, false),
		period(t, 10, 20, true, true),
	})
	cases := []struct {
		sec  int
		want bool
	}{
		{0, true}, {5, false}, {7, false}, {10, true}, {20, true}, {25, false},
	}
	for _, c := range cases {
		if got := s.Contains(ts(c.sec)); got != c.want {
			t.Errorf("Contains(%d) = %v, want %v", c.sec, got, c.want)
		}
	}
}

func TestMinusSet(t *testing.T) {
	base := period(t, 0, 30, true, true)
	s := Normalize([]Period{
		period(t, 5, 10, true, true),
		period(t, 20, 25, false, false),
	})
	got := base.MinusSet(s)
	if got.Len() != 3 {
		t.Fatalf("Len = %d, want 3", got.Len())
	}
	wants := []Period{
		period(t, 0, 5, true, false),
		period(t, 10, 20, false, true),
		period(t, 25, 30, true, true),
	}
	for i, w := range wants {
		if !got.Period(i).Equal(w) {
			t.Errorf("period %d = %v, want %v", i, got.Period(i), w)
		}
	}
}

func TestFloatSpan(t *testing.T) {
	if _, err := NewFloatSpan(5, 1, true, true); err == nil {
		t.Error("expected error for inverted bounds")
	}
	s, err := NewFloatSpan(0, 10, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Contains(0) || s.Contains(10) || !s.Contains(5) {
		t.Errorf("Contains misbehaves for %v", s)
	}
	q, _ := NewFloatSpan(10, 20, true, true)
	if s.Overlaps(q) {
		t.Error("[0,10) should not overlap [10,20]")
	}
	r, _ := NewFloatSpan(9, 20, true, true)
	if !s.Overlaps(r) {
		t.Error("[0,10) should overlap [9,20]")
	}
}
