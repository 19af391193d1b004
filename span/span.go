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

// Package span provides intervals over time and over a scalar axis, with
// inclusive or exclusive bounds, together with the set algebra
// (intersection, normalization, complement) used by the restriction
// engines in the parent package.
package span

import (
	"fmt"
	"time"
)

// Period is an interval over time. Lower must not be after Upper; when
// they are equal both bounds must be inclusive.
type Period struct {
	Lower, Upper       time.Time
	LowerInc, UpperInc bool
}

// New returns a validated period.
func New(lower, upper time.Time, lowerInc, upperInc bool) (Period, error) {
	if upper.Before(lower) {
		return Period{}, fmt.Errorf("span: period upper bound %v before lower bound %v", upper, lower)
	}
	if lower.Equal(upper) && !(lowerInc && upperInc) {
		return Period{}, fmt.Errorf("span: instantaneous period at %v must have inclusive bounds", lower)
	}
	return Period{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}, nil
}

// Instant returns the degenerate period containing only t.
func Instant(t time.Time) Period {
	return Period{Lower: t, Upper: t, LowerInc: true, UpperInc: true}
}

// IsInstant reports whether p contains a single time.
func (p Period) IsInstant() bool {
	return p.Lower.Equal(p.Upper)
}

// Duration returns the length of p.
func (p Period) Duration() time.Duration {
	return p.Upper.Sub(p.Lower)
}

// Contains reports whether t lies within p.
func (p Period) Contains(t time.Time) bool {
	if t.Before(p.Lower) || t.After(p.Upper) {
		return false
	}
	if t.Equal(p.Lower) && !p.LowerInc {
		return false
	}
	if t.Equal(p.Upper) && !p.UpperInc {
		return false
	}
	return true
}

// Equal reports whether p and q are the same interval.
func (p Period) Equal(q Period) bool {
	return p.Lower.Equal(q.Lower) && p.Upper.Equal(q.Upper) &&
		p.LowerInc == q.LowerInc && p.UpperInc == q.UpperInc
}

// Overlaps reports whether p and q share at least one time.
func (p Period) Overlaps(q Period) bool {
	if p.Lower.After(q.Upper) || q.Lower.After(p.Upper) {
		return false
	}
	if p.Lower.Equal(q.Upper) && !(p.LowerInc && q.UpperInc) {
		return false
	}
	if q.Lower.Equal(p.Upper) && !(q.LowerInc && p.UpperInc) {
		return false
	}
	return true
}

// Intersect returns the common part of p and q. The second result is
// false when the periods do not overlap.
func (p Period) Intersect(q Period) (Period, bool) {
	if !p.Overlaps(q) {
		return Period{}, false
	}
	r := p
	if q.Lower.After(r.Lower) {
		r.Lower, r.LowerInc = q.Lower, q.LowerInc
	} else if q.Lower.Equal(r.Lower) {
		r.LowerInc = r.LowerInc && q.LowerInc
	}
	if q.Upper.Before(r.Upper) {
		r.Upper, r.UpperInc = q.Upper, q.UpperInc
	} else if q.Upper.Equal(r.Upper) {
		r.UpperInc = r.UpperInc && q.UpperInc
	}
	return r, true
}

// Minus returns the parts of p not covered by q, in time order.
func (p Period) Minus(q Period) []Period {
	if !p.Overlaps(q) {
		return []Period{p}
	}
	var result []Period
	// Part of p before q.
	if p.Lower.Before(q.Lower) || (p.Lower.Equal(q.Lower) && p.LowerInc && !q.LowerInc) {
		left := Period{Lower: p.Lower, LowerInc: p.LowerInc, Upper: q.Lower, UpperInc: !q.LowerInc}
		if leftValid := left.Lower.Before(left.Upper) ||
			(left.Lower.Equal(left.Upper) && left.LowerInc && left.UpperInc); leftValid {
			result = append(result, left)
		}
	}
	// Part of p after q.
	if p.Upper.After(q.Upper) || (p.Upper.Equal(q.Upper) && p.UpperInc && !q.UpperInc) {
		right := Period{Lower: q.Upper, LowerInc: !q.UpperInc, Upper: p.Upper, UpperInc: p.UpperInc}
		if rightValid := right.Lower.Before(right.Upper) ||
			(right.Lower.Equal(right.Upper) && right.LowerInc && right.UpperInc); rightValid {
			result = append(result, right)
		}
	}
	return result
}

// adjacent reports whether p ends exactly where q starts with no gap
// and no overlap, so that the two can be merged into one period.
func (p Period) adjacent(q Period) bool {
	return p.Upper.Equal(q.Lower) && (p.UpperInc || q.LowerInc)
}

func (p Period) String() string {
	l, u := "(", ")"
	if p.LowerInc {
		l = "["
	}
	if p.UpperInc {
		u = "]"
	}
	return fmt.Sprintf("%s%v, %v%s", l, p.Lower.Format(time.RFC3339Nano), p.Upper.Format(time.RFC3339Nano), u)
}

// FloatSpan is an interval over a scalar axis such as the Z coordinate.
type FloatSpan struct {
	Lower, Upper       float64
	LowerInc, UpperInc bool
}

// NewFloatSpan returns a validated float span.
func NewFloatSpan(lower, upper float64, lowerInc, upperInc bool) (FloatSpan, error) {
	if upper < lower {
		return FloatSpan{}, fmt.Errorf("span: float span upper bound %g below lower bound %g", upper, lower)
	}
	if lower == upper && !(lowerInc && upperInc) {
		return FloatSpan{}, fmt.Errorf("span: degenerate float span at %g must have inclusive bounds", lower)
	}
	return FloatSpan{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}, nil
}

// Contains reports whether v lies within s.
func (s FloatSpan) Contains(v float64) bool {
	if v < s.Lower || v > s.Upper {
		return false
	}
	if v == s.Lower && !s.LowerInc {
		return false
	}
	if v == s.Upper && !s.UpperInc {
		return false
	}
	return true
}

// Overlaps reports whether s and q share at least one value.
func (s FloatSpan) Overlaps(q FloatSpan) bool {
	if s.Lower > q.Upper || q.Lower > s.Upper {
		return false
	}
	if s.Lower == q.Upper && !(s.LowerInc && q.UpperInc) {
		return false
	}
	if q.Lower == s.Upper && !(q.LowerInc && s.UpperInc) {
		return false
	}
	return true
}

func (s FloatSpan) String() string {
	l, u := "(", ")"
	if s.LowerInc {
		l = "["
	}
	if s.UpperInc {
		u = "]"
	}
	return fmt.Sprintf("%s%g, %g%s", l, s.Lower, s.Upper, u)
}
