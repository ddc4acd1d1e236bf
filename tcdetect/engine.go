package tcdetect

import (
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// Engine groups the per-run state constructed once from a
// Configuration, a Grid, and a reader handle (§9's replacement for the
// source's implicit module-wide arrays). It is safe to reuse across
// every time step in [Config.Farch, Config.Narch].
type Engine struct {
	Config   Configuration
	Grid     *Grid
	Geometry *GeometryTable
	Reader   FieldReader
	Log      *logrus.Logger
}

// StepContext holds the per-step state produced and consumed while
// processing a single time index: the raw fields fetched from the
// reader, the derived fields computed from them, and the relaxation
// mask in effect for this step.
type StepContext struct {
	Time   int
	Fields *FieldFrame
	Derived *DerivedFrame
	Relax  *RelaxMask
}

// NewEngine validates cfg, builds the Grid and GeometryTable from the
// reader's coordinates, and returns a ready-to-run Engine. log may be
// nil, in which case step progress is not logged.
func NewEngine(cfg Configuration, reader FieldReader, log *logrus.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lon, lat, level := reader.Coords()
	g, err := NewGrid(lon, lat, level)
	if err != nil {
		return nil, err
	}
	geom, err := NewGeometryTable(g, cfg.Radius)
	if err != nil {
		return nil, err
	}

	return &Engine{
		Config:   cfg,
		Grid:     g,
		Geometry: geom,
		Reader:   reader,
		Log:      log,
	}, nil
}

// Step fetches fields for time index t, computes the derived fields,
// evaluates the criterion cascade, deduplicates the result, and
// returns both the final detection list and the RelaxMask to use for
// step t+1. relax is the mask carried in from the previous step (or an
// all-false mask for the first step processed).
func (e *Engine) Step(t int, relax *RelaxMask) ([]Detection, *RelaxMask, error) {
	fields, err := e.fetchFields(t)
	if err != nil {
		return nil, nil, err
	}

	ctx := &StepContext{Time: t, Fields: fields, Relax: relax}

	ctx.Derived = ComputeDerived(e.Grid, e.Geometry, ctx.Fields, func(field string, i, j int) {
		if e.Log != nil {
			e.Log.WithFields(logrus.Fields{"field": field, "i": i, "j": j, "time": t}).
				Warn("tcdetect: degenerate search box, leaving prior value untouched")
		}
	})
	ctx.Derived.Vort = ComputeVorticity(e.Grid, e.Geometry, ctx.Fields.U, ctx.Fields.V)

	if err := checkFinite(ctx.Derived, t); err != nil {
		return nil, nil, err
	}

	raw, err := EvaluateStep(&e.Config, e.Grid, e.Geometry, ctx.Fields, ctx.Derived, ctx.Relax, e.Log)
	if err != nil {
		if capErr, ok := err.(*CapacityError); ok {
			capErr.Time = t
		}
		return nil, nil, err
	}

	final := Deduplicate(&e.Config, e.Grid, e.Geometry, raw)
	next := UpdateRelaxMask(e.Grid, e.Geometry, final)

	if e.Log != nil {
		e.Log.WithFields(logrus.Fields{"time": t, "detections": len(final), "relax_cells": next.Count()}).
			Info("tcdetect: step complete")
	}

	return final, next, nil
}

// Run processes every time index in [Config.Farch, Config.Narch],
// writing each step's detections to w, and returns the RelaxMask in
// effect after the last step processed (for persistence by the
// caller). initial is the mask to seed the first step with; pass an
// all-false mask for a fresh start.
func (e *Engine) Run(initial *RelaxMask, w io.Writer) (*RelaxMask, error) {
	relax := initial
	for t := e.Config.Farch; t <= e.Config.Narch; t++ {
		detections, next, err := e.Step(t, relax)
		if err != nil {
			return nil, err
		}

		ts, err := e.Reader.TimeAt(t)
		if err != nil {
			return nil, err
		}
		if err := WriteDetections(w, e.Grid, ts, detections); err != nil {
			return nil, err
		}

		relax = next
	}
	return relax, nil
}

// fetchFields reads one time step's worth of raw fields from the
// reader and applies the convert_pascals unit correction.
func (e *Engine) fetchFields(t int) (*FieldFrame, error) {
	u, err := e.Reader.Read3D("u", t)
	if err != nil {
		return nil, err
	}
	v, err := e.Reader.Read3D("v", t)
	if err != nil {
		return nil, err
	}
	temp, err := e.Reader.Read3D("temp", t)
	if err != nil {
		return nil, err
	}
	pmsl, err := e.Reader.Read2D("psl", t)
	if err != nil {
		return nil, err
	}
	u10, err := e.Reader.Read2D("u10", t)
	if err != nil {
		return nil, err
	}

	f := &FieldFrame{U: u, V: v, T: temp, Pmsl: pmsl, U10: u10}

	if zs, err := e.Reader.Read2D("zs", t); err == nil {
		f.Zs = zs
	}
	if tsu, err := e.Reader.Read2D("tsu", t); err == nil {
		f.Tsu = tsu
	}

	if e.Config.ConvertPascals {
		for i := 0; i < e.Grid.Nlon; i++ {
			for j := 0; j < e.Grid.Nlat; j++ {
				f.Pmsl.Set(f.Pmsl.Get(i, j)*100, i, j)
			}
		}
	}

	return f, nil
}

// checkFinite scans the derived fields for NaN/Inf values, returning
// a *NumericError identifying the first offending cell.
func checkFinite(d *DerivedFrame, t int) error {
	named := map[string]interface {
		Get(...int) float64
	}{
		"vort":      d.Vort,
		"tanom850":  d.Tanom850,
		"tanom300":  d.Tanom300,
		"tanomdiff": d.Tanomdiff,
		"tanomsum":  d.Tanomsum,
		"wspdchek":  d.Wspdchek,
		"pmslanom":  d.Pmslanom,
	}
	shape := d.Vort.GetShape()
	for name, arr := range named {
		for i := 0; i < shape[0]; i++ {
			for j := 0; j < shape[1]; j++ {
				v := arr.Get(i, j)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return &NumericError{Field: name, I: i, J: j, Time: t}
				}
			}
		}
	}
	return nil
}
