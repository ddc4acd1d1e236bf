package tcdetect

import (
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/stat"
)

// clampBoxGrow computes [min,max] bounds for an axis of length n given a
// candidate center c and half-width hw, sliding the box at the boundary
// so it always retains 2*hw+1 cells rather than shrinking it (§4.3).
// If the axis has fewer than 2*hw+1 cells the range is empty (lo > hi).
// This is used for the temperature-search box.
func clampBoxGrow(c, hw, n int) (lo, hi int) {
	if 2*hw+1 > n {
		return 0, -1
	}
	hi = n - 1
	if c+hw < hi {
		hi = c + hw
	}
	if 2*hw > hi {
		hi = 2 * hw
	}
	lo = 0
	if c-hw > lo {
		lo = c - hw
	}
	if n-1-2*hw < lo {
		lo = n - 1 - 2*hw
	}
	return lo, hi
}

// clampBoxTruncate computes [min,max] bounds for an axis of length n
// given a candidate center c and half-width hw, truncating at the
// boundary rather than sliding (§9: "the wind-box clamping is simple
// truncation"). This is used for the wind-search box.
func clampBoxTruncate(c, hw, n int) (lo, hi int) {
	lo = c - hw
	if lo < 0 {
		lo = 0
	}
	hi = c + hw
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}

// tempBox returns the temperature-search box bounds for cell (i,j).
func tempBox(i, j int, g *Grid, geom *GeometryTable) (imin, imax, jmin, jmax int) {
	nxt := geom.Nxtwidth.Get(i, j)
	nyt := geom.Nytwidth.Get(i, j)
	imin, imax = clampBoxGrow(i, nxt, g.Nlon)
	jmin, jmax = clampBoxGrow(j, nyt, g.Nlat)
	return
}

// windBox returns the wind-search box bounds for cell (i,j).
func windBox(i, j int, g *Grid, geom *GeometryTable) (imin, imax, jmin, jmax int) {
	nxw := geom.Nxwidth.Get(i, j)
	nyw := geom.Nywidth.Get(i, j)
	imin, imax = clampBoxTruncate(i, nxw, g.Nlon)
	jmin, jmax = clampBoxTruncate(j, nyw, g.Nlat)
	return
}

// boxValues3D gathers the values of a level slice of a 3D field over
// the rectangular box [imin,imax]x[jmin,jmax].
func boxValues3D(arr *sparse.DenseArray, level, imin, imax, jmin, jmax int) []float64 {
	if imin > imax || jmin > jmax {
		return nil
	}
	vals := make([]float64, 0, (imax-imin+1)*(jmax-jmin+1))
	for i := imin; i <= imax; i++ {
		for j := jmin; j <= jmax; j++ {
			vals = append(vals, arr.Get(level, i, j))
		}
	}
	return vals
}

// boxValues2D gathers the values of a 2D field over the rectangular
// box [imin,imax]x[jmin,jmax].
func boxValues2D(arr *sparse.DenseArray, imin, imax, jmin, jmax int) []float64 {
	if imin > imax || jmin > jmax {
		return nil
	}
	vals := make([]float64, 0, (imax-imin+1)*(jmax-jmin+1))
	for i := imin; i <= imax; i++ {
		for j := jmin; j <= jmax; j++ {
			vals = append(vals, arr.Get(i, j))
		}
	}
	return vals
}

// ComputeDerived computes the DerivedFrame's temperature anomalies,
// wind-speed shear, and MSLP anomaly for every cell (§4.3). warn is
// called (if non-nil) whenever a box is degenerate (zero-count, i.e.
// the grid is smaller than the box it is supposed to contain) and the
// prior value is left untouched, per §4.3's "leave the prior value
// untouched" rule.
func ComputeDerived(g *Grid, geom *GeometryTable, f *FieldFrame, warn func(field string, i, j int)) *DerivedFrame {
	d := newDerivedFrame(g)

	for i := 0; i < g.Nlon; i++ {
		for j := 0; j < g.Nlat; j++ {
			imin, imax, jmin, jmax := tempBox(i, j, g, geom)

			t850 := boxValues3D(f.T, g.Lv850, imin, imax, jmin, jmax)
			t700 := boxValues3D(f.T, g.Lv700, imin, imax, jmin, jmax)
			t500 := boxValues3D(f.T, g.Lv500, imin, imax, jmin, jmax)
			t300 := boxValues3D(f.T, g.Lv300, imin, imax, jmin, jmax)

			if len(t850) == 0 {
				if warn != nil {
					warn("temperature box", i, j)
				}
				continue
			}

			a850 := f.T.Get(g.Lv850, i, j) - stat.Mean(t850, nil)
			a700 := f.T.Get(g.Lv700, i, j) - stat.Mean(t700, nil)
			a500 := f.T.Get(g.Lv500, i, j) - stat.Mean(t500, nil)
			a300 := f.T.Get(g.Lv300, i, j) - stat.Mean(t300, nil)

			d.Tanom850.Set(a850, i, j)
			d.Tanom300.Set(a300, i, j)
			d.Tanomdiff.Set(a300-a850, i, j)
			d.Tanomsum.Set(a700+a500+a300, i, j)
		}
	}

	for i := 0; i < g.Nlon; i++ {
		for j := 0; j < g.Nlat; j++ {
			imin, imax, jmin, jmax := windBox(i, j, g, geom)

			u850 := boxValues3D(f.U, g.Lv850, imin, imax, jmin, jmax)
			v850 := boxValues3D(f.V, g.Lv850, imin, imax, jmin, jmax)
			u300 := boxValues3D(f.U, g.Lv300, imin, imax, jmin, jmax)
			v300 := boxValues3D(f.V, g.Lv300, imin, imax, jmin, jmax)
			pmsl := boxValues2D(f.Pmsl, imin, imax, jmin, jmax)

			if len(u850) == 0 {
				if warn != nil {
					warn("wind box", i, j)
				}
				continue
			}

			mean850 := stat.Mean(windMagnitudes(u850, v850), nil)
			mean300 := stat.Mean(windMagnitudes(u300, v300), nil)
			meanMSLP := stat.Mean(pmsl, nil)

			d.Wspdchek.Set(mean850-mean300, i, j)
			d.Pmslanom.Set(f.Pmsl.Get(i, j)-meanMSLP, i, j)
		}
	}

	return d
}

// windMagnitudes returns the elementwise wind speed |u,v| for two
// equal-length slices of wind components.
func windMagnitudes(u, v []float64) []float64 {
	m := make([]float64, len(u))
	for i := range u {
		m[i] = math.Hypot(u[i], v[i])
	}
	return m
}
