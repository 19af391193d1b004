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
	"sort"
	"time"
)

// PeriodSet is a normalized set of periods: sorted by time, pairwise
// disjoint and non-adjacent. The zero value is the empty set.
type PeriodSet struct {
	periods []Period
}

// Normalize sorts the given periods and merges every overlapping or
// adjacent pair, returning the minimal equivalent set. The input slice
// is not modified.
func Normalize(periods []Period) *PeriodSet {
	if len(periods) == 0 {
		return &PeriodSet{}
	}
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Lower.Equal(b.Lower) {
			return a.Lower.Before(b.Lower)
		}
		if a.LowerInc != b.LowerInc {
			return a.LowerInc
		}
		return a.Upper.Before(b.Upper)
	})
	merged := []Period{sorted[0]}
	for _, p := range sorted[1:] {
		last := &merged[len(merged)-1]
		if last.Overlaps(p) || last.adjacent(p) || p.adjacent(*last) {
			if p.Upper.After(last.Upper) {
				last.Upper, last.UpperInc = p.Upper, p.UpperInc
			} else if p.Upper.Equal(last.Upper) {
				last.UpperInc = last.UpperInc || p.UpperInc
			}
			if p.Lower.Equal(last.Lower) {
				last.LowerInc = last.LowerInc || p.LowerInc
			}
		} else {
			merged = append(merged, p)
		}
	}
	return &PeriodSet{periods: merged}
}

// Len returns the number of periods in the set.
func (s *PeriodSet) Len() int { return len(s.periods) }

// Period returns the i-th period in time order.
func (s *PeriodSet) Period(i int) Period { return s.periods[i] }

// Periods returns a copy of the periods in time order.
func (s *PeriodSet) Periods() []Period {
	out := make([]Period, len(s.periods))
	copy(out, s.periods)
	return out
}

// Span returns the bounding period of the set. The second result is
// false for the empty set.
func (s *PeriodSet) Span() (Period, bool) {
	if len(s.periods) == 0 {
		return Period{}, false
	}
	first, last := s.periods[0], s.periods[len(s.periods)-1]
	return Period{
		Lower: first.Lower, LowerInc: first.LowerInc,
		Upper: last.Upper, UpperInc: last.UpperInc,
	}, true
}

// Contains reports whether t lies within any period of the set.
func (s *PeriodSet) Contains(t time.Time) bool {
	n := sort.Search(len(s.periods), func(i int) bool {
		return !s.periods[i].Upper.Before(t)
	})
	if n == len(s.periods) {
		return false
	}
	return s.periods[n].Contains(t)
}

// MinusSet returns the complement of s within the base period p.
func (p Period) MinusSet(s *PeriodSet) *PeriodSet {
	remaining := []Period{p}
	for _, q := range s.periods {
		var next []Period
		for _, r := range remaining {
			next = append(next, r.Minus(q)...)
		}
		remaining = next
		if len(remaining) == 0 {
			break
		}
	}
	return &PeriodSet{periods: remaining}
}
