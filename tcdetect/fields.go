package tcdetect

import "github.com/ctessum/sparse"

// FieldFrame holds the raw gridded fields for a single time step,
// fetched from the external reader on step entry and discarded on step
// exit (§3). All fields are stored in (i=lon index, j=lat index) order
// internally — i.e. shape (Nlon, Nlat) for 2D fields and
// (Nlevs, Nlon, Nlat) for 3D fields — regardless of the axis order the
// reader's raw arrays use.
type FieldFrame struct {
	U, V, T *sparse.DenseArray // shape (nlevs, nlon, nlat), SI units

	Pmsl *sparse.DenseArray // shape (nlon, nlat), Pa
	U10  *sparse.DenseArray // shape (nlon, nlat), m/s
	Zs   *sparse.DenseArray // shape (nlon, nlat), m; nil if not supplied
	Tsu  *sparse.DenseArray // shape (nlon, nlat), K; nil if not supplied
}

// HasLocationFields reports whether the surface topography and skin
// temperature fields needed for the location test (§4.4 step 7) were
// supplied.
func (f *FieldFrame) HasLocationFields() bool {
	return f.Zs != nil && f.Tsu != nil
}

// DerivedFrame holds the per-step fields computed by the vorticity and
// anomaly components (§3), all shape (nlon, nlat).
type DerivedFrame struct {
	Vort      *sparse.DenseArray
	Tanom850  *sparse.DenseArray
	Tanom300  *sparse.DenseArray
	Tanomdiff *sparse.DenseArray // tanom300 - tanom850
	Tanomsum  *sparse.DenseArray // tanom700 + tanom500 + tanom300
	Wspdchek  *sparse.DenseArray // mean|uv|@850 - mean|uv|@300
	Pmslanom  *sparse.DenseArray
}

// newDerivedFrame allocates a zeroed DerivedFrame for the given grid.
func newDerivedFrame(g *Grid) *DerivedFrame {
	return &DerivedFrame{
		Vort:      sparse.ZerosDense(g.Nlon, g.Nlat),
		Tanom850:  sparse.ZerosDense(g.Nlon, g.Nlat),
		Tanom300:  sparse.ZerosDense(g.Nlon, g.Nlat),
		Tanomdiff: sparse.ZerosDense(g.Nlon, g.Nlat),
		Tanomsum:  sparse.ZerosDense(g.Nlon, g.Nlat),
		Wspdchek:  sparse.ZerosDense(g.Nlon, g.Nlat),
		Pmslanom:  sparse.ZerosDense(g.Nlon, g.Nlat),
	}
}

// RelaxMask is the per-step boolean field marking neighbourhoods of the
// previous step's detections (§3, §4.7). It is backed by a
// sparse.DenseArrayInt (0/1) rather than a []bool so that it shares its
// array type with every other 2D field in the core.
type RelaxMask struct {
	data *sparse.DenseArrayInt
	Nlon int
	Nlat int
}

// NewRelaxMask returns an all-false mask for the given grid dimensions.
func NewRelaxMask(nlon, nlat int) *RelaxMask {
	return &RelaxMask{data: sparse.ZerosDenseInt(nlon, nlat), Nlon: nlon, Nlat: nlat}
}

// At reports whether cell (i,j) is under relaxation.
func (m *RelaxMask) At(i, j int) bool {
	if i < 0 || i >= m.Nlon || j < 0 || j >= m.Nlat {
		return false
	}
	return m.data.Get(i, j) != 0
}

// Set marks cell (i,j) as under relaxation (or clears it).
func (m *RelaxMask) Set(i, j int, v bool) {
	if v {
		m.data.Set(1, i, j)
	} else {
		m.data.Set(0, i, j)
	}
}

// Count returns the number of cells currently under relaxation, for
// diagnostics.
func (m *RelaxMask) Count() int {
	n := 0
	for _, v := range m.data.Elements {
		if v != 0 {
			n++
		}
	}
	return n
}
