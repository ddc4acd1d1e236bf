package tcdetect

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/ctessum/sparse"
)

// fakeReader is an in-memory FieldReader for tests, modeled after the
// contract tcdetect/netcdf.go implements against real files.
type fakeReader struct {
	lon, lat, level []float64
	ntimes          int

	temp, pmsl, u10 float64 // uniform background values
}

func (r *fakeReader) Dims() (nlon, nlat, nlevs, ntimes int) {
	return len(r.lon), len(r.lat), len(r.level), r.ntimes
}

func (r *fakeReader) Coords() (lon, lat, level []float64) {
	return r.lon, r.lat, r.level
}

func (r *fakeReader) Read2D(name string, t int) (*sparse.DenseArray, error) {
	nlon, nlat := len(r.lon), len(r.lat)
	a := sparse.ZerosDense(nlon, nlat)
	var val float64
	switch name {
	case "psl":
		val = r.pmsl
	case "u10":
		val = r.u10
	default:
		return nil, fmt.Errorf("field %q not supplied", name)
	}
	for i := 0; i < nlon; i++ {
		for j := 0; j < nlat; j++ {
			a.Set(val, i, j)
		}
	}
	return a, nil
}

func (r *fakeReader) Read3D(name string, t int) (*sparse.DenseArray, error) {
	nlon, nlat, nlevs := len(r.lon), len(r.lat), len(r.level)
	a := sparse.ZerosDense(nlevs, nlon, nlat)
	if name == "temp" {
		for k := 0; k < nlevs; k++ {
			for i := 0; i < nlon; i++ {
				for j := 0; j < nlat; j++ {
					a.Set(r.temp, k, i, j)
				}
			}
		}
	}
	return a, nil
}

func (r *fakeReader) TimeAt(t int) (time.Time, error) {
	return time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(t) * 6 * time.Hour), nil
}

func newFakeReader() *fakeReader {
	lon, lat := uniformLonLat(20, 20, 1, 1)
	return &fakeReader{lon: lon, lat: lat, level: testLevels(), ntimes: 3, temp: 290, pmsl: 101000, u10: 5}
}

func TestNewEngineBuildsGridAndGeometry(t *testing.T) {
	cfg := validConfig()
	eng, err := NewEngine(cfg, newFakeReader(), nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if eng.Grid.Nlon != 20 || eng.Grid.Nlat != 20 {
		t.Fatalf("unexpected grid dims: %+v", eng.Grid)
	}
	if eng.Geometry == nil {
		t.Fatal("expected a non-nil GeometryTable")
	}
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Radius = -1
	if _, err := NewEngine(cfg, newFakeReader(), nil); err == nil {
		t.Fatal("expected an error for an invalid configuration")
	}
}

func TestEngineRunUniformFieldProducesNoOutputLines(t *testing.T) {
	cfg := validConfig()
	cfg.Farch = 0
	cfg.Narch = 2
	eng, err := NewEngine(cfg, newFakeReader(), nil)
	if err != nil {
		t.Fatal(err)
	}

	relax := NewRelaxMask(eng.Grid.Nlon, eng.Grid.Nlat)
	var buf bytes.Buffer
	final, err := eng.Run(relax, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no detection lines on a uniform field, got:\n%s", buf.String())
	}
	if final.Count() != 0 {
		t.Fatalf("expected an empty final relaxation mask, got %d cells", final.Count())
	}
}

func TestEngineStepConvertsPascals(t *testing.T) {
	cfg := validConfig()
	cfg.ConvertPascals = true
	r := newFakeReader()
	r.pmsl = 1010 // hPa: should become 101000 Pa after conversion
	eng, err := NewEngine(cfg, r, nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := eng.fetchFields(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Pmsl.Get(5, 5); got != 101000 {
		t.Fatalf("Pmsl after convert_pascals = %v, want 101000", got)
	}
}
