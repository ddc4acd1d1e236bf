package tcdetect

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"
)

func smallGrid(t *testing.T) (*Grid, *GeometryTable) {
	t.Helper()
	lon, lat := uniformLonLat(20, 20, 1, 1)
	g, err := NewGrid(lon, lat, testLevels())
	if err != nil {
		t.Fatal(err)
	}
	geom, err := NewGeometryTable(g, 300000)
	if err != nil {
		t.Fatal(err)
	}
	return g, geom
}

// TestVorticityAgreesWithSecondOrderOnLinearFlow cross-checks the
// 4th-order stencil against the 2nd-order reference on a field that is
// linear in grid-index space, where both schemes are exact (their
// truncation error involves a third derivative that is identically
// zero here).
func TestVorticityAgreesWithSecondOrderOnLinearFlow(t *testing.T) {
	g, geom := smallGrid(t)
	u := sparse.ZerosDense(g.Nlevs, g.Nlon, g.Nlat)
	v := sparse.ZerosDense(g.Nlevs, g.Nlon, g.Nlat)
	for i := 0; i < g.Nlon; i++ {
		for j := 0; j < g.Nlat; j++ {
			v.Set(2.0*float64(i), g.Lv850, i, j)
		}
	}

	vort4 := ComputeVorticity(g, geom, u, v)
	vort2 := vorticity2ndOrder(g, geom, u, v)

	for i := 3; i <= g.Nlon-3; i++ {
		for j := 3; j <= g.Nlat-3; j++ {
			a, b := vort4.Get(i, j), vort2.Get(i, j)
			if math.Abs(a-b) > 1e-9 {
				t.Fatalf("vorticity mismatch at (%d,%d): 4th order=%v, 2nd order=%v", i, j, a, b)
			}
		}
	}
}

// TestVorticityZeroOutsideValidStencil checks that cells outside the
// 4th-order stencil's valid range are left at zero (§4.2).
func TestVorticityZeroOutsideValidStencil(t *testing.T) {
	g, geom := smallGrid(t)
	u := sparse.ZerosDense(g.Nlevs, g.Nlon, g.Nlat)
	v := sparse.ZerosDense(g.Nlevs, g.Nlon, g.Nlat)
	for i := 0; i < g.Nlon; i++ {
		v.Set(5.0*float64(i), g.Lv850, i, 0)
	}
	vort := ComputeVorticity(g, geom, u, v)
	if vort.Get(0, 0) != 0 || vort.Get(1, 0) != 0 || vort.Get(2, 0) != 0 {
		t.Fatal("expected zero vorticity outside the valid stencil")
	}
}

// TestVorticitySignCyclonic checks that a counter-clockwise
// (cyclonic, Northern Hemisphere) solid-body rotation yields positive
// vorticity.
func TestVorticitySignCyclonic(t *testing.T) {
	g, geom := smallGrid(t)
	u := sparse.ZerosDense(g.Nlevs, g.Nlon, g.Nlat)
	v := sparse.ZerosDense(g.Nlevs, g.Nlon, g.Nlat)
	ic, jc := g.Nlon/2, g.Nlat/2
	omega := 1e-3
	for i := 0; i < g.Nlon; i++ {
		for j := 0; j < g.Nlat; j++ {
			v.Set(omega*float64(i-ic), g.Lv850, i, j)
			u.Set(-omega*float64(j-jc), g.Lv850, i, j)
		}
	}
	vort := ComputeVorticity(g, geom, u, v)
	if vort.Get(ic, jc) <= 0 {
		t.Fatalf("expected positive vorticity for a cyclonic NH vortex, got %v", vort.Get(ic, jc))
	}
}
