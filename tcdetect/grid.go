package tcdetect

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// rEarth is the mean radius of the Earth, m.
const rEarth = 6.37122e6

// privilegedLevels are the four pressure levels (hPa) the core requires
// to be present in the grid's level coordinate.
var privilegedLevels = [4]float64{850, 700, 500, 300}

// Grid holds the immutable per-run coordinate vectors and the
// geometry derived from them.
type Grid struct {
	Nlon, Nlat, Nlevs int
	Lon               []float64 // degrees
	Lat               []float64 // degrees
	Level             []float64 // hPa

	// Lv850, Lv700, Lv500, Lv300 are the level-axis indices of the four
	// privileged pressure levels.
	Lv850, Lv700, Lv500, Lv300 int
}

// NewGrid builds a Grid from coordinate vectors supplied by the
// external field reader, locating the four privileged pressure levels.
// A missing privileged level is reported as a *GeometryError: §7
// classifies "missing privileged pressure level" under GeometryError
// even though §3 also describes it loosely as a configuration failure;
// GeometryError is the more specific of the two and is what callers
// should match on with errors.As.
func NewGrid(lon, lat, level []float64) (*Grid, error) {
	g := &Grid{
		Nlon:  len(lon),
		Nlat:  len(lat),
		Nlevs: len(level),
		Lon:   lon,
		Lat:   lat,
		Level: level,
	}
	idx, err := findLevels(level)
	if err != nil {
		return nil, err
	}
	g.Lv850, g.Lv700, g.Lv500, g.Lv300 = idx[0], idx[1], idx[2], idx[3]
	return g, nil
}

func findLevels(level []float64) ([4]int, error) {
	var idx [4]int
	for n, want := range privilegedLevels {
		found := false
		for i, lv := range level {
			if lv == want {
				idx[n] = i
				found = true
				break
			}
		}
		if !found {
			return idx, &GeometryError{Message: fmt.Sprintf("required pressure level not present in grid: %v hPa", want)}
		}
	}
	return idx, nil
}

// GeometryTable holds the per-cell search half-widths and metric
// spacings computed once at startup (§4.1). It is never mutated after
// construction.
type GeometryTable struct {
	// Nxwidth, Nywidth are the wind-box half-widths, grid units.
	Nxwidth, Nywidth *sparse.DenseArrayInt
	// Nxtwidth, Nytwidth are the temperature-box half-widths, grid units.
	Nxtwidth, Nytwidth *sparse.DenseArrayInt
	// Dx, Dy are the metric spacings, m.
	Dx, Dy *sparse.DenseArray
}

// NewGeometryTable computes the GeometryTable for a grid, given the
// physical search radius in meters.
func NewGeometryTable(g *Grid, radius float64) (*GeometryTable, error) {
	if g.Nlon < 3 || g.Nlat < 3 {
		return nil, &GeometryError{Message: "grid is too small to have an interior"}
	}
	t := &GeometryTable{
		Nxwidth:  sparse.ZerosDenseInt(g.Nlon, g.Nlat),
		Nywidth:  sparse.ZerosDenseInt(g.Nlon, g.Nlat),
		Nxtwidth: sparse.ZerosDenseInt(g.Nlon, g.Nlat),
		Nytwidth: sparse.ZerosDenseInt(g.Nlon, g.Nlat),
		Dx:       sparse.ZerosDense(g.Nlon, g.Nlat),
		Dy:       sparse.ZerosDense(g.Nlon, g.Nlat),
	}
	for i := 1; i < g.Nlon-1; i++ {
		for j := 1; j < g.Nlat-1; j++ {
			dlon := 0.5 * (g.Lon[i+1] - g.Lon[i-1]) * math.Pi / 180
			dlat := 0.5 * (g.Lat[j+1] - g.Lat[j-1]) * math.Pi / 180
			dx := rEarth * math.Cos(g.Lat[j]*math.Pi/180) * dlon
			dy := rEarth * dlat
			if dx <= 0 || dy <= 0 || math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
				return nil, &GeometryError{Message: "non-finite or non-positive grid spacing at interior cell"}
			}
			nxwidth := roundUpToEven(radius / dx)
			nywidth := roundUpToEven(radius / dy)
			t.Dx.Set(dx, i, j)
			t.Dy.Set(dy, i, j)
			t.Nxwidth.Set(nxwidth, i, j)
			t.Nywidth.Set(nywidth, i, j)
			t.Nxtwidth.Set(2*nxwidth, i, j)
			t.Nytwidth.Set(nxwidth, i, j)
		}
	}
	fillBoundary(t, g)
	return t, nil
}

// roundUpToEven rounds x to the nearest integer and, if that integer is
// odd, increments it by one, as required by §4.1 and the geometry
// parity invariant in §8.
func roundUpToEven(x float64) int {
	n := int(math.Round(x))
	if n%2 != 0 {
		n++
	}
	return n
}

// fillBoundary copies each edge row/column's geometry from its nearest
// interior neighbor, per §4.1.
func fillBoundary(t *GeometryTable, g *Grid) {
	clampI := func(i int) int {
		if i < 1 {
			return 1
		}
		if i > g.Nlon-2 {
			return g.Nlon - 2
		}
		return i
	}
	clampJ := func(j int) int {
		if j < 1 {
			return 1
		}
		if j > g.Nlat-2 {
			return g.Nlat - 2
		}
		return j
	}
	for i := 0; i < g.Nlon; i++ {
		for j := 0; j < g.Nlat; j++ {
			if i > 0 && i < g.Nlon-1 && j > 0 && j < g.Nlat-1 {
				continue
			}
			si, sj := clampI(i), clampJ(j)
			t.Dx.Set(t.Dx.Get(si, sj), i, j)
			t.Dy.Set(t.Dy.Get(si, sj), i, j)
			t.Nxwidth.Set(t.Nxwidth.Get(si, sj), i, j)
			t.Nywidth.Set(t.Nywidth.Get(si, sj), i, j)
			t.Nxtwidth.Set(t.Nxtwidth.Get(si, sj), i, j)
			t.Nytwidth.Set(t.Nytwidth.Get(si, sj), i, j)
		}
	}
}
