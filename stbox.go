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
	"math"

	"github.com/ctessum/geom"

	"github.com/spatialmodel/mobility/span"
)

// STBox is an axis-aligned spatiotemporal bounding volume. The X(Y), Z
// and T dimensions are each independently optional.
type STBox struct {
	HasX, HasZ, HasT bool

	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
	Period     span.Period

	SRID     int
	Geodetic bool
}

// Region is a planar region paired with its spatial reference
// identifier, since ctessum/geom geometries do not carry one.
type Region struct {
	Polygonal geom.Polygonal
	SRID      int
}

// empty reports whether the region contains no rings.
func (r Region) empty() bool {
	if r.Polygonal == nil {
		return true
	}
	for _, poly := range r.Polygonal.Polygons() {
		for _, ring := range poly {
			if len(ring) > 0 {
				return false
			}
		}
	}
	return true
}

// Copy returns a copy of b.
func (b *STBox) Copy() *STBox {
	c := *b
	return &c
}

// Overlaps reports whether b and o overlap on every dimension present
// in both boxes.
func (b *STBox) Overlaps(o *STBox) bool {
	if b.HasX && o.HasX {
		if b.XMin > o.XMax || o.XMin > b.XMax || b.YMin > o.YMax || o.YMin > b.YMax {
			return false
		}
	}
	if b.HasZ && o.HasZ {
		if b.ZMin > o.ZMax || o.ZMin > b.ZMax {
			return false
		}
	}
	if b.HasT && o.HasT {
		if !b.Period.Overlaps(o.Period) {
			return false
		}
	}
	return true
}

func (b *STBox) String() string {
	return fmt.Sprintf("STBox(x=[%g %g] y=[%g %g] z=[%g %g] t=%v)",
		b.XMin, b.XMax, b.YMin, b.YMax, b.ZMin, b.ZMax, b.Period)
}

// expandPoint grows the spatial dimensions of b to include p.
func (b *STBox) expandPoint(p Point, hasZ bool) {
	if !b.HasX {
		b.HasX = true
		b.XMin, b.XMax = p.X, p.X
		b.YMin, b.YMax = p.Y, p.Y
		if hasZ {
			b.HasZ = true
			b.ZMin, b.ZMax = p.Z, p.Z
		}
		return
	}
	b.XMin = math.Min(b.XMin, p.X)
	b.XMax = math.Max(b.XMax, p.X)
	b.YMin = math.Min(b.YMin, p.Y)
	b.YMax = math.Max(b.YMax, p.Y)
	if hasZ {
		b.ZMin = math.Min(b.ZMin, p.Z)
		b.ZMax = math.Max(b.ZMax, p.Z)
	}
}

// RegionSTBox returns the bounding box of a region. The result has no
// Z and no T dimension.
func RegionSTBox(r Region) *STBox {
	bounds := r.Polygonal.Bounds()
	return &STBox{
		HasX: true,
		XMin: bounds.Min.X, XMax: bounds.Max.X,
		YMin: bounds.Min.Y, YMax: bounds.Max.Y,
		SRID: r.SRID,
	}
}

// Bounds returns the spatiotemporal bounding box of the instant.
func (in *Instant) Bounds() *STBox {
	b := &STBox{
		HasT:     true,
		Period:   span.Instant(in.t),
		SRID:     in.srid,
		Geodetic: in.geodetic,
	}
	b.expandPoint(in.value, in.hasZ)
	return b
}

// Bounds returns the spatiotemporal bounding box of the sequence.
func (seq *Sequence) Bounds() *STBox {
	b := &STBox{
		HasT:     true,
		Period:   seq.Period(),
		SRID:     seq.srid,
		Geodetic: seq.geodetic,
	}
	if seq.interp == Discrete {
		// The time support of a discrete sequence is punctual, but its
		// bounding period still spans first to last instant.
		b.Period.LowerInc, b.Period.UpperInc = true, true
	}
	for i := range seq.instants {
		b.expandPoint(seq.instants[i].value, seq.hasZ)
	}
	return b
}

// Bounds returns the spatiotemporal bounding box of the sequence set.
func (ss *SequenceSet) Bounds() *STBox {
	b := ss.seqs[0].Bounds()
	for i := 1; i < len(ss.seqs); i++ {
		sb := ss.seqs[i].Bounds()
		b.expandPoint(Point{X: sb.XMin, Y: sb.YMin, Z: sb.ZMin}, ss.hasZ)
		b.expandPoint(Point{X: sb.XMax, Y: sb.YMax, Z: sb.ZMax}, ss.hasZ)
		b.Period.Upper, b.Period.UpperInc = sb.Period.Upper, sb.Period.UpperInc
	}
	return b
}
