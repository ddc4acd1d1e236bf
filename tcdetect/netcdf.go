package tcdetect

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// ncfEpoch is the reference time used when a time coordinate variable
// holds "hours since 1900-01-01", the convention used by the reanalysis
// archives this reader targets.
var ncfEpoch = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// NetCDFReader is a FieldReader backed by a single multi-time-step
// NetCDF file, adapted from wrf2inmap/preproc.go's readNCF/nextDataNCF
// pattern: look up variable lengths in the header, build a [start,end)
// index range for the leading (time) axis, and widen the returned
// []float32 buffer into a *sparse.DenseArray.
//
// The file is expected to store 2D variables as (time, lat, lon) and
// 3D variables as (time, level, lat, lon); NetCDFReader transposes
// every field it returns into the core's internal (lon, lat) /
// (level, lon, lat) order.
type NetCDFReader struct {
	f  *cdf.File
	fh *os.File

	LonVar   string
	LatVar   string
	LevelVar string
	TimeVar  string

	nlon, nlat, nlevs, ntimes int
	lon, lat, level           []float64
}

// OpenNetCDF opens path and reads its coordinate vectors and
// dimensions eagerly; field data is read lazily per call to Read2D /
// Read3D. Coordinates and the time length are read here under the
// variable names "lon", "lat", "level" and "time"; changing LonVar,
// LatVar or LevelVar on the returned reader has no effect, and only
// TimeVar is consulted again (by TimeAt).
func OpenNetCDF(path string) (*NetCDFReader, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open " + path, Err: err}
	}
	ff, err := cdf.Open(fh)
	if err != nil {
		fh.Close()
		return nil, &IOError{Op: "parse netcdf header of " + path, Err: err}
	}

	r := &NetCDFReader{
		f:        ff,
		fh:       fh,
		LonVar:   "lon",
		LatVar:   "lat",
		LevelVar: "level",
		TimeVar:  "time",
	}

	var err2 error
	r.lon, err2 = r.readCoord(r.LonVar)
	if err2 != nil {
		return nil, err2
	}
	r.lat, err2 = r.readCoord(r.LatVar)
	if err2 != nil {
		return nil, err2
	}
	r.level, err2 = r.readCoord(r.LevelVar)
	if err2 != nil {
		return nil, err2
	}

	r.nlon, r.nlat, r.nlevs = len(r.lon), len(r.lat), len(r.level)
	timeLen := ff.Header.Lengths(r.TimeVar)
	if len(timeLen) == 0 {
		return nil, &IOError{Op: "read netcdf dims", Err: fmt.Errorf("variable %q not found", r.TimeVar)}
	}
	r.ntimes = timeLen[0]

	return r, nil
}

func (r *NetCDFReader) readCoord(name string) ([]float64, error) {
	dims := r.f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, &IOError{Op: "read netcdf coordinate", Err: fmt.Errorf("variable %q not found", name)}
	}
	n := dims[0]
	start, end := []int{0}, []int{n}
	rd := r.f.Reader(name, start, end)
	buf := rd.Zero(n)
	if _, err := rd.Read(buf); err != nil && err != io.EOF {
		return nil, &IOError{Op: "read netcdf coordinate " + name, Err: err}
	}
	return widenTo64(buf), nil
}

// Dims implements FieldReader.
func (r *NetCDFReader) Dims() (nlon, nlat, nlevs, ntimes int) {
	return r.nlon, r.nlat, r.nlevs, r.ntimes
}

// Coords implements FieldReader.
func (r *NetCDFReader) Coords() (lon, lat, level []float64) {
	return r.lon, r.lat, r.level
}

// Read2D implements FieldReader, transposing the file's (lat, lon)
// storage order into the core's (lon, lat) order.
func (r *NetCDFReader) Read2D(name string, t int) (*sparse.DenseArray, error) {
	raw, err := r.readSlice(name, t, r.nlat*r.nlon)
	if err != nil {
		return nil, err
	}
	out := sparse.ZerosDense(r.nlon, r.nlat)
	for j := 0; j < r.nlat; j++ {
		for i := 0; i < r.nlon; i++ {
			out.Set(raw[j*r.nlon+i], i, j)
		}
	}
	return out, nil
}

// Read3D implements FieldReader, transposing the file's
// (level, lat, lon) storage order into the core's (level, lon, lat)
// order.
func (r *NetCDFReader) Read3D(name string, t int) (*sparse.DenseArray, error) {
	raw, err := r.readSlice(name, t, r.nlevs*r.nlat*r.nlon)
	if err != nil {
		return nil, err
	}
	out := sparse.ZerosDense(r.nlevs, r.nlon, r.nlat)
	for k := 0; k < r.nlevs; k++ {
		for j := 0; j < r.nlat; j++ {
			for i := 0; i < r.nlon; i++ {
				out.Set(raw[(k*r.nlat+j)*r.nlon+i], k, i, j)
			}
		}
	}
	return out, nil
}

// readSlice reads the t'th record of variable name and returns it as
// float64, in the file's native storage order.
func (r *NetCDFReader) readSlice(name string, t, nread int) ([]float64, error) {
	dims := r.f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, &IOError{Op: "read netcdf variable", Err: fmt.Errorf("variable %q not found", name)}
	}
	nd := len(dims)
	start, end := make([]int, nd), make([]int, nd)
	start[0], end[0] = t, t+1
	for k := 1; k < nd; k++ {
		end[k] = dims[k]
	}
	rd := r.f.Reader(name, start, end)
	buf := rd.Zero(nread)
	if _, err := rd.Read(buf); err != nil && err != io.EOF {
		return nil, &IOError{Op: fmt.Sprintf("read netcdf variable %s at time %d", name, t), Err: err}
	}
	return widenTo64(buf), nil
}

// TimeAt implements FieldReader, assuming the time coordinate holds
// hours since 1900-01-01.
func (r *NetCDFReader) TimeAt(t int) (time.Time, error) {
	raw, err := r.readSlice(r.TimeVar, t, 1)
	if err != nil {
		return time.Time{}, err
	}
	return ncfEpoch.Add(time.Duration(raw[0]) * time.Hour), nil
}

// Close closes the underlying file handle.
func (r *NetCDFReader) Close() error {
	return r.fh.Close()
}

// widenTo64 converts the interface{} buffer returned by a cdf.Reader
// (typically []float32 or []float64 depending on the file's storage
// type) into []float64.
func widenTo64(buf interface{}) []float64 {
	switch v := buf.(type) {
	case []float32:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out
	case []float64:
		return v
	default:
		return nil
	}
}
