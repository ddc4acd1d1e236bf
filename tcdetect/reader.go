package tcdetect

import (
	"time"

	"github.com/ctessum/sparse"
)

// FieldReader is the external collaborator that supplies gridded
// fields by time index (§6). The core treats it as a read-only,
// already-open data source; opening and closing the underlying file is
// the caller's responsibility.
type FieldReader interface {
	// Dims returns the grid dimensions and number of time steps
	// available from the reader.
	Dims() (nlon, nlat, nlevs, ntimes int)

	// Coords returns the coordinate vectors shared by every time step.
	Coords() (lon, lat, level []float64)

	// Read2D returns a (nlon, nlat) field for one of "psl", "u10",
	// "tsu", "zs" at time index t.
	Read2D(name string, t int) (*sparse.DenseArray, error)

	// Read3D returns a (nlevs, nlon, nlat) field for one of "temp",
	// "u", "v" at time index t.
	Read3D(name string, t int) (*sparse.DenseArray, error)

	// TimeAt returns the calendar time of time index t, if the reader
	// can supply one.
	TimeAt(t int) (time.Time, error)
}
