package tcdetect

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRelaxMaskRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relax.gob")

	m := NewRelaxMask(8, 6)
	m.Set(2, 3, true)
	m.Set(7, 0, true)

	if err := SaveRelaxMask(path, m); err != nil {
		t.Fatalf("SaveRelaxMask: %v", err)
	}

	loaded, err := LoadRelaxMask(path)
	if err != nil {
		t.Fatalf("LoadRelaxMask: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a non-nil mask for an existing file")
	}
	if loaded.Nlon != 8 || loaded.Nlat != 6 {
		t.Fatalf("loaded dims = (%d,%d), want (8,6)", loaded.Nlon, loaded.Nlat)
	}
	if loaded.Count() != 2 {
		t.Fatalf("loaded.Count() = %d, want 2", loaded.Count())
	}
	if !loaded.At(2, 3) || !loaded.At(7, 0) {
		t.Fatal("expected the two set cells to survive the round trip")
	}
	if loaded.At(0, 0) {
		t.Fatal("expected unset cells to remain false after the round trip")
	}
}

func TestLoadRelaxMaskMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "does-not-exist.gob")

	m, err := LoadRelaxMask(path)
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	if m != nil {
		t.Fatalf("expected a nil mask for a missing file, got %+v", m)
	}
}

func TestLoadRelaxMaskCorruptFileIsIOError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.gob")
	if err := os.WriteFile(path, []byte("not a gob stream"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadRelaxMask(path)
	if err == nil {
		t.Fatal("expected an error decoding a corrupt file")
	}
	if _, ok := err.(*IOError); !ok {
		t.Fatalf("expected *IOError, got %T", err)
	}
}
