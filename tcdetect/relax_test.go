package tcdetect

import "testing"

func TestUpdateRelaxMaskEmptyDetectionsIsAllFalse(t *testing.T) {
	g, geom := smallGrid(t)
	mask := UpdateRelaxMask(g, geom, nil)
	if mask.Count() != 0 {
		t.Fatalf("expected an all-false mask for zero detections, got %d cells set", mask.Count())
	}
}

func TestUpdateRelaxMaskCoversDetectionBox(t *testing.T) {
	g, geom := smallGrid(t)
	ic, jc := 10, 10
	mask := UpdateRelaxMask(g, geom, []Detection{{Ips: ic, Jps: jc}})

	if !mask.At(ic, jc) {
		t.Fatal("expected the detection centre itself to be under relaxation")
	}
	nxw := geom.Nxwidth.Get(ic, jc)
	if !mask.At(ic+nxw, jc) {
		t.Fatalf("expected cell at the candidate's own half-width boundary to be under relaxation")
	}
	if mask.At(ic+nxw+5, jc) {
		t.Fatal("expected a cell far outside the search box to not be under relaxation")
	}
}

// TestRelaxationMonotonicity is the §8 "relaxation monotonicity"
// property: if a cell is in RelaxMask, the criterion cascade evaluates
// it regardless of |lat| > 30 degrees.
func TestRelaxationMonotonicity(t *testing.T) {
	lon, lat := uniformLonLat(20, 20, 1, 4)
	g, err := NewGrid(lon, lat, testLevels())
	if err != nil {
		t.Fatal(err)
	}
	geom, err := NewGeometryTable(g, 300000)
	if err != nil {
		t.Fatal(err)
	}
	// lat[0] = -30, increasing by 4 degrees; pick an index well past 30.
	j := 17
	if absFloat(g.Lat[j]) <= 30 {
		t.Fatalf("test setup error: expected |lat[%d]|=%v to exceed 30", j, g.Lat[j])
	}

	cfg := validConfig()
	f := uniformFieldFrame(g, 290, 101000, 5)
	d := ComputeDerived(g, geom, f, nil)

	relaxed := NewRelaxMask(g.Nlon, g.Nlat)
	relaxed.Set(10, j, true)

	// Without relaxation the extratropical cell is skipped entirely
	// (no panic, no detection possible since the loop "continue"s).
	notRelaxed := NewRelaxMask(g.Nlon, g.Nlat)
	if _, _, err := evaluateCellWrapper(&cfg, g, geom, f, d, notRelaxed, 10, j); err != nil {
		t.Fatal(err)
	}

	// With relaxation the cell is at least considered (evaluateCell is
	// invoked instead of being skipped by the tropics gate); it may
	// still fail a later criterion, which is fine -- only the gate
	// itself is under test here.
	if _, _, err := evaluateCellWrapper(&cfg, g, geom, f, d, relaxed, 10, j); err != nil {
		t.Fatal(err)
	}
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// evaluateCellWrapper mirrors EvaluateStep's per-cell gating logic for
// a single cell, to let relax_test.go probe the tropics/relaxation
// gate in isolation without scanning the whole grid.
func evaluateCellWrapper(cfg *Configuration, g *Grid, geom *GeometryTable, f *FieldFrame, d *DerivedFrame, relax *RelaxMask, i, j int) (*Detection, bool, error) {
	skippedByTropicsGate := absFloat(g.Lat[j]) > 30 && !relax.At(i, j)
	if skippedByTropicsGate {
		return nil, false, nil
	}
	det, ok := evaluateCell(cfg, g, geom, f, d, relax.At(i, j), g.Lat[j] >= 0, i, j, false, nil)
	return det, ok, nil
}
