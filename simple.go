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
	"sort"

	"github.com/ctessum/geom"
)

// A temporal point is simple when none of its components
// self-intersects: an instant always is; a discrete or step sequence
// is simple when no value repeats (the closing value a step sequence
// holds at an exclusive upper bound is not an observation and does not
// count); a linear sequence is simple when its trajectory does not
// self-intersect and it has no stationary segment. A sequence set is
// simple when each component sequence is, even if two components
// intersect each other.

// discStepFindSplits marks the instants at which a discrete or step
// sequence must be split so that no fragment repeats a value. A
// breadth-first widening scan compares every pair inside the current
// piece. Returns the per-instant split marks and their number.
func (seq *Sequence) discStepFindSplits() ([]bool, int) {
	splits := make([]bool, len(seq.instants))
	numSplits := 0
	start, end := 0, len(seq.instants)-1
	if seq.interp == Step && !seq.upperInc {
		// The final instant of a step sequence with an exclusive upper
		// bound repeats the previous value to close the bound; it takes
		// no part in the scan.
		end--
	}
	for start < end {
		j, k := start, start+1
		for {
			if seq.instants[j].value.Equal(seq.instants[k].value, seq.hasZ) {
				splits[k] = true
				numSplits++
				start = k
				break
			}
			if j < k-1 {
				j++
			} else {
				k++
				if k > end {
					break
				}
				j = start
			}
		}
		if k > end {
			break
		}
	}
	return splits, numSplits
}

// linearFindSplits marks the instants at which a linear sequence must
// be split so that no fragment self-intersects or contains a
// stationary segment. The scan works on the planar projection even for
// 3D sequences. Returns the per-instant split marks and their number.
func (seq *Sequence) linearFindSplits(eps float64) ([]bool, int) {
	n := len(seq.instants)
	points := make([]geom.Point, n)
	splits := make([]bool, n)
	points[0] = seq.instants[0].value.XY()
	numSplits := 0
	for i := 1; i < n; i++ {
		points[i] = seq.instants[i].value.XY()
		// Stationary segments are isolated into their own fragment.
		if points[i-1] == points[i] {
			if i > 1 && !splits[i-1] {
				splits[i-1] = true
				numSplits++
			}
			if i < n-1 {
				splits[i] = true
				numSplits++
			}
		}
	}

	// Widen each piece until one of its segments intersects another,
	// then split there and continue.
	start := 0
	for start < n-2 {
		end := start + 1
		for end < n-1 && !splits[end] {
			end++
		}
		if end == start+1 {
			start = end
			continue
		}
		i, j := start, start+1
		for j < end {
			if segmentsInteract(points[i], points[i+1], points[j], points[j+1]) {
				intertype, p := segmentIntersection(points[i], points[i+1],
					points[j], points[j+1], eps)
				// Two consecutive segments necessarily touch in their
				// shared endpoint; that touch is not a split.
				if intertype != segNoIntersection &&
					(intertype != segTouchEnd || j != i+1 || p != points[j]) {
					end = j
					splits[end] = true
					numSplits++
					break
				}
			}
			if i < j-1 {
				i++
			} else {
				j++
				i = start
			}
		}
		start = end
	}
	return splits, numSplits
}

// IsSimple reports whether a temporal point does not self-intersect.
func IsSimple(tp Temporal) bool {
	switch v := tp.(type) {
	case *Instant:
		return true
	case *Sequence:
		return v.isSimple()
	case *SequenceSet:
		for i := range v.seqs {
			if !v.seqs[i].isSimple() {
				return false
			}
		}
		return true
	}
	return true
}

func (seq *Sequence) isSimple() bool {
	if len(seq.instants) == 1 {
		return true
	}
	if seq.interp != Linear {
		return seq.discStepIsSimple()
	}
	_, numSplits := seq.linearFindSplits(DefaultEpsilon)
	return numSplits == 0
}

// discStepIsSimple sorts the values lexicographically and looks for a
// duplicate pair, which is cheaper than the split scan.
func (seq *Sequence) discStepIsSimple() bool {
	n := len(seq.instants)
	if seq.interp == Step && !seq.upperInc {
		// Skip the closing value held at the exclusive upper bound.
		n--
	}
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		points[i] = seq.instants[i].value
	}
	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	for i := 1; i < len(points); i++ {
		if points[i-1].Equal(points[i], seq.hasZ) {
			return false
		}
	}
	return true
}

// discSplit cuts a discrete sequence at the marked instants. Each
// fragment runs from one mark (inclusive) to the next (exclusive).
func (seq *Sequence) discSplit(splits []bool, count int) []*Sequence {
	result := make([]*Sequence, 0, count)
	start := 0
	for start < len(seq.instants) {
		end := start + 1
		for end < len(seq.instants) && !splits[end] {
			end++
		}
		frag := make([]Instant, end-start)
		copy(frag, seq.instants[start:end])
		result = append(result, makeSequence(frag, true, true, Discrete, seq.spatial, false))
		start = end
	}
	return result
}

// contSplit cuts a continuous sequence at the marked instants. Each
// split instant ends one fragment with an exclusive upper bound and
// starts the next with an inclusive lower bound, so that the fragments
// partition the time support. For step interpolation an exclusive
// upper bound requires the last two values to be equal, so a held
// instant is synthesized when they differ.
func (seq *Sequence) contSplit(splits []bool, count int) []*Sequence {
	n := len(seq.instants)
	result := make([]*Sequence, 0, count)
	start := 0
	for start < n-1 {
		end := start + 1
		for end < n-1 && !splits[end] {
			end++
		}
		frag := make([]Instant, end-start+1)
		copy(frag, seq.instants[start:end+1])
		lowerInc := true
		if start == 0 {
			lowerInc = seq.lowerInc
		}
		upperInc := end == n-1 && seq.upperInc && !splits[n-1]
		if seq.interp == Step && !upperInc {
			last := len(frag) - 1
			if !frag[last-1].value.Equal(frag[last].value, seq.hasZ) {
				frag[last] = Instant{spatial: seq.spatial, value: frag[last-1].value, t: frag[last].t}
			}
		}
		result = append(result, makeSequence(frag, lowerInc, upperInc, seq.interp, seq.spatial, false))
		start = end
	}
	if len(result) < count {
		// The last instant is itself marked: it becomes an
		// instantaneous trailing fragment.
		frag := []Instant{seq.instants[n-1]}
		result = append(result, makeSequence(frag, true, seq.upperInc, seq.interp, seq.spatial, false))
	}
	return result
}

// makeSimple splits a sequence into non self-intersecting fragments.
func (seq *Sequence) makeSimple() []*Sequence {
	n := len(seq.instants)
	if (seq.interp == Discrete && n == 1) || (seq.interp != Discrete && n <= 2) {
		return []*Sequence{seq.copy()}
	}
	var splits []bool
	var numSplits int
	if seq.interp == Linear {
		splits, numSplits = seq.linearFindSplits(DefaultEpsilon)
	} else {
		splits, numSplits = seq.discStepFindSplits()
	}
	if numSplits == 0 {
		return []*Sequence{seq.copy()}
	}
	if seq.interp == Discrete {
		return seq.discSplit(splits, numSplits+1)
	}
	return seq.contSplit(splits, numSplits+1)
}

// MakeSimple splits a temporal point into an array of non
// self-intersecting fragments. The result is never empty; a value that
// is already simple yields a one-element array holding a copy.
func MakeSimple(tp Temporal) []Temporal {
	switch v := tp.(type) {
	case *Instant:
		return []Temporal{v.copy()}
	case *Sequence:
		frags := v.makeSimple()
		result := make([]Temporal, len(frags))
		for i, f := range frags {
			result[i] = f
		}
		return result
	case *SequenceSet:
		var result []Temporal
		for i := range v.seqs {
			for _, f := range v.seqs[i].makeSimple() {
				result = append(result, f)
			}
		}
		return result
	}
	return nil
}
