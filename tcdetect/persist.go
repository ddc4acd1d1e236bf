package tcdetect

import (
	"encoding/gob"
	"os"
)

// relaxMaskFile is the on-disk shape of a persisted RelaxMask: a small
// header plus the flattened boolean grid, encoded with encoding/gob.
type relaxMaskFile struct {
	Nlon, Nlat int
	Cells      []bool
}

// SaveRelaxMask writes m to path, overwriting any existing file.
func SaveRelaxMask(path string, m *RelaxMask) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create relaxation mask file " + path, Err: err}
	}
	defer f.Close()

	cells := make([]bool, m.Nlon*m.Nlat)
	for i := 0; i < m.Nlon; i++ {
		for j := 0; j < m.Nlat; j++ {
			cells[i*m.Nlat+j] = m.At(i, j)
		}
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(relaxMaskFile{Nlon: m.Nlon, Nlat: m.Nlat, Cells: cells}); err != nil {
		return &IOError{Op: "encode relaxation mask file " + path, Err: err}
	}
	return nil
}

// LoadRelaxMask reads a RelaxMask previously written by SaveRelaxMask.
// A missing file is not an error: it signals "start fresh", and the
// caller should fall back to NewRelaxMask(nlon, nlat).
func LoadRelaxMask(path string) (*RelaxMask, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &IOError{Op: "open relaxation mask file " + path, Err: err}
	}
	defer f.Close()

	var raw relaxMaskFile
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&raw); err != nil {
		return nil, &IOError{Op: "decode relaxation mask file " + path, Err: err}
	}

	m := NewRelaxMask(raw.Nlon, raw.Nlat)
	for i := 0; i < raw.Nlon; i++ {
		for j := 0; j < raw.Nlat; j++ {
			if raw.Cells[i*raw.Nlat+j] {
				m.Set(i, j, true)
			}
		}
	}
	return m, nil
}
