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

// Package mobility models temporal points, positions that change over
// time, and restricts them to spatial and spatiotemporal subsets.
//
// A temporal point is one of three variants: an Instant pairs a
// position with a timestamp; a Sequence is a strictly time-ordered run
// of instants with discrete, step or linear interpolation and
// inclusive or exclusive bounds; a SequenceSet is an ordered array of
// disjoint continuous sequences. Values are immutable after
// construction.
//
// The restriction operations compute the part of a temporal point
// inside (at) or outside (minus) a subset of its space:
//
//   - RestrictPeriod keeps the times within a span.Period.
//   - RestrictGeometryTime keeps the times during which the planar
//     position stays within a geom.Polygonal region, optionally
//     intersected with a span over the Z coordinate and a period.
//   - RestrictSTBox keeps the times during which the position stays
//     within a spatiotemporal bounding box, clipping linear segments
//     with a three-dimensional Cohen-Sutherland pass.
//
// The at and minus restrictions of a value partition its time support.
//
// MakeSimple splits a temporal point into fragments whose trajectories
// do not self-intersect, which the geometry restriction relies on to
// map intersection geometry back to time.
package mobility
