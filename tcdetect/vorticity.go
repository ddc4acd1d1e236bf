package tcdetect

import "github.com/ctessum/sparse"

// ComputeVorticity computes the relative vorticity ∂v/∂x − ∂u/∂y at the
// 850 hPa level using 4th-order centred finite differences (§4.2). It
// is valid only on 3 ≤ i ≤ nlon−3, 3 ≤ j ≤ nlat−3; cells outside that
// stencil are left at zero, which the criterion evaluator (C) treats
// as ineligible.
func ComputeVorticity(g *Grid, geom *GeometryTable, u, v *sparse.DenseArray) *sparse.DenseArray {
	vort := sparse.ZerosDense(g.Nlon, g.Nlat)
	for i := 3; i <= g.Nlon-3; i++ {
		for j := 3; j <= g.Nlat-3; j++ {
			dx := geom.Dx.Get(i, j)
			dy := geom.Dy.Get(i, j)

			dvdx := (2. / 3.) * (v.Get(g.Lv850, i+1, j) - v.Get(g.Lv850, i-1, j)) / dx
			dvdx -= (1. / 12.) * (v.Get(g.Lv850, i+2, j) - v.Get(g.Lv850, i-2, j)) / dx

			dudy := (2. / 3.) * (u.Get(g.Lv850, i, j+1) - u.Get(g.Lv850, i, j-1)) / dy
			dudy -= (1. / 12.) * (u.Get(g.Lv850, i, j+2) - u.Get(g.Lv850, i, j-2)) / dy

			vort.Set(dvdx-dudy, i, j)
		}
	}
	return vort
}

// vorticity2ndOrder computes the same curl with a plain 2nd-order
// centred difference, the scheme original_source/detect.py uses. It
// exists only so vorticity_test.go can cross-check the 4th-order
// stencil against it on a smooth flow field, where the two must agree
// to leading order; it is not used by the criterion cascade.
func vorticity2ndOrder(g *Grid, geom *GeometryTable, u, v *sparse.DenseArray) *sparse.DenseArray {
	vort := sparse.ZerosDense(g.Nlon, g.Nlat)
	for i := 1; i < g.Nlon-1; i++ {
		for j := 1; j < g.Nlat-1; j++ {
			dx := geom.Dx.Get(i, j)
			dy := geom.Dy.Get(i, j)
			dvdx := (v.Get(g.Lv850, i+1, j) - v.Get(g.Lv850, i-1, j)) / (2 * dx)
			dudy := (u.Get(g.Lv850, i, j+1) - u.Get(g.Lv850, i, j-1)) / (2 * dy)
			vort.Set(dvdx-dudy, i, j)
		}
	}
	return vort
}
