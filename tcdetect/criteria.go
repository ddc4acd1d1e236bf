package tcdetect

import (
	"math"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// EvaluateStep scans every grid cell and applies the fixed-order test
// cascade of §4.4, returning the detections that survive all eleven
// tests plus the duplicate-neighbour check. log may be nil; when
// cfg.Debug is set, a single cell (cfg.Id, cfg.Jd) is traced through
// the cascade at debug level.
func EvaluateStep(cfg *Configuration, g *Grid, geom *GeometryTable, f *FieldFrame, d *DerivedFrame, relax *RelaxMask, log *logrus.Logger) ([]Detection, error) {
	var detections []Detection

	for i := 0; i < g.Nlon; i++ {
		for j := 0; j < g.Nlat; j++ {
			trace := cfg.Debug && i == cfg.Id && j == cfg.Jd

			relaxed := relax.At(i, j)
			if math.Abs(g.Lat[j]) > 30 && !relaxed {
				continue
			}

			nxw := geom.Nxwidth.Get(i, j)
			nyw := geom.Nywidth.Get(i, j)
			if i-nxw < 0 || i+nxw > g.Nlon-1 || j-nyw < 0 || j+nyw > g.Nlat-1 {
				continue
			}

			northern := g.Lat[j] >= 0

			det, ok := evaluateCell(cfg, g, geom, f, d, relaxed, northern, i, j, trace, log)
			if !ok {
				continue
			}

			dup := false
			for k := range detections {
				if absInt(detections[k].Ips-det.Ips) <= 1 && absInt(detections[k].Jps-det.Jps) <= 1 {
					dup = true
					break
				}
			}
			if dup {
				continue
			}

			if len(detections) >= NVMAX {
				return nil, &CapacityError{Time: -1, NVMAX: NVMAX}
			}
			detections = append(detections, *det)
		}
	}

	return detections, nil
}

// evaluateCell runs the §4.4 cascade for a single candidate cell (i,j)
// that has already passed the tropics/relaxation and wind-box-in-grid
// gates. It returns the finished Detection (with wmax already refined)
// and true on success, or nil, false the moment any test fails.
func evaluateCell(cfg *Configuration, g *Grid, geom *GeometryTable, f *FieldFrame, d *DerivedFrame, relaxed, northern bool, i, j int, trace bool, log *logrus.Logger) (*Detection, bool) {
	vtest := d.Vort.Get(i, j)
	if !northern {
		vtest = -vtest
	}
	if !(vtest > cfg.Vortcrit) {
		traceFail(log, trace, i, j, "vorticity")
		return nil, false
	}

	imin, imax, jmin, jmax := windBox(i, j, g, geom)
	ips, jps, psmin, found := findPressureMinimum(f.Pmsl, imin, imax, jmin, jmax)
	if !found {
		traceFail(log, trace, i, j, "pressure minimum")
		return nil, false
	}
	if !isStrictMinimum(f.Pmsl, ips, jps, psmin, g.Nlon, g.Nlat) {
		traceFail(log, trace, i, j, "pressure minimum (not strict)")
		return nil, false
	}

	if !rotationTest(f.U, f.V, g.Lv850, ips, jps, g.Nlon, g.Nlat) {
		traceFail(log, trace, i, j, "rotation")
		return nil, false
	}

	if !(d.Pmslanom.Get(ips, jps) <= -cfg.Pmslcrit*100) {
		traceFail(log, trace, i, j, "mslp anomaly")
		return nil, false
	}

	if !(ips >= 3 && ips <= g.Nlon-3 && jps >= 3 && jps <= g.Nlat-3) {
		traceFail(log, trace, i, j, "bounds")
		return nil, false
	}

	wimin, wimax, wjmin, wjmax := windBox(ips, jps, g, geom)
	wmax, iwmax, jwmax := findMaxWind(f.U10, wimin, wimax, wjmin, wjmax)
	wspThresh := cfg.Wspcrit
	if relaxed {
		wspThresh = cfg.Wspcrit * cfg.RelaxWspFactor
	}
	if !(wmax >= wspThresh) {
		traceFail(log, trace, i, j, "max wind")
		return nil, false
	}

	if !relaxed && cfg.LocationTestEnabled && f.HasLocationFields() {
		if !(f.Tsu.Get(ips, jps) >= 299.15 && f.Zs.Get(ips, jps) <= 0.5) {
			traceFail(log, trace, i, j, "location")
			return nil, false
		}
	}

	if !(d.Tanomsum.Get(ips, jps) > cfg.Tcrit || relaxed) {
		traceFail(log, trace, i, j, "warm core sum")
		return nil, false
	}

	ttest := cfg.T300crit
	if cfg.T300flag {
		ttest = d.Tanom850.Get(ips, jps)
	}
	if !(d.Tanom300.Get(ips, jps) >= ttest || relaxed) {
		traceFail(log, trace, i, j, "upper warm anomaly")
		return nil, false
	}

	if !(d.Wspdchek.Get(ips, jps) >= cfg.Wchkcrit || relaxed) {
		traceFail(log, trace, i, j, "shear")
		return nil, false
	}

	ocs := ComputeOCS(g, f.U, f.V, f.U10, ips, jps, northern)
	if !(ocs >= cfg.Ocscrit || relaxed) {
		traceFail(log, trace, i, j, "ocs")
		return nil, false
	}

	wmax = refineMaxWind(f.U10, g, geom, ips, jps, wmax)

	if trace && log != nil {
		log.WithFields(logrus.Fields{"i": i, "j": j, "ips": ips, "jps": jps}).Debug("tcdetect: cell passed all criteria")
	}

	return &Detection{
		Ips:      ips,
		Jps:      jps,
		Iwmax:    iwmax,
		Jwmax:    jwmax,
		Pmin:     psmin,
		VortHere: d.Vort.Get(i, j),
		Wmax:     wmax,
		Tsum:     d.Tanomsum.Get(ips, jps),
		Tdiff:    d.Tanomdiff.Get(ips, jps),
		Ocs:      ocs,
	}, true
}

func traceFail(log *logrus.Logger, trace bool, i, j int, stage string) {
	if !trace || log == nil {
		return
	}
	log.WithFields(logrus.Fields{"i": i, "j": j}).Debugf("tcdetect: cell failed %s test", stage)
}

// findPressureMinimum scans the box for the lowest MSLP below 100500 Pa.
func findPressureMinimum(pmsl *sparse.DenseArray, imin, imax, jmin, jmax int) (ips, jps int, psmin float64, found bool) {
	psmin = math.Inf(1)
	for i := imin; i <= imax; i++ {
		for j := jmin; j <= jmax; j++ {
			p := pmsl.Get(i, j)
			if p < 100500 && p < psmin {
				psmin = p
				ips, jps = i, j
				found = true
			}
		}
	}
	return
}

// isStrictMinimum confirms all eight immediate neighbours of (ips,jps)
// have MSLP >= psmin. A centre whose neighbour ring leaves the grid
// cannot be confirmed and fails the test.
func isStrictMinimum(pmsl *sparse.DenseArray, ips, jps int, psmin float64, nlon, nlat int) bool {
	if ips-1 < 0 || ips+1 > nlon-1 || jps-1 < 0 || jps+1 > nlat-1 {
		return false
	}
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			if di == 0 && dj == 0 {
				continue
			}
			if pmsl.Get(ips+di, jps+dj) < psmin {
				return false
			}
		}
	}
	return true
}

// rotationTest requires u(ips,jps-2),u(ips,jps+2) to have opposite
// signs and v(ips-2,jps),v(ips+2,jps) to have opposite signs, at the
// 850 hPa level.
func rotationTest(u, v *sparse.DenseArray, lv850, ips, jps, nlon, nlat int) bool {
	if ips-2 < 0 || ips+2 > nlon-1 || jps-2 < 0 || jps+2 > nlat-1 {
		return false
	}
	uN := u.Get(lv850, ips, jps-2)
	uS := u.Get(lv850, ips, jps+2)
	vW := v.Get(lv850, ips-2, jps)
	vE := v.Get(lv850, ips+2, jps)
	return oppositeSigns(uN, uS) && oppositeSigns(vW, vE)
}

func oppositeSigns(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}

// findMaxWind scans the box for the maximum u10 and its location.
func findMaxWind(u10 *sparse.DenseArray, imin, imax, jmin, jmax int) (wmax float64, iw, jw int) {
	wmax = math.Inf(-1)
	for i := imin; i <= imax; i++ {
		for j := jmin; j <= jmax; j++ {
			v := u10.Get(i, j)
			if v > wmax {
				wmax = v
				iw, jw = i, j
			}
		}
	}
	return
}

// refineMaxWind rescans a slightly enlarged box around (ips,jps),
// ±(nxwidth+1), ±(nywidth+1), with zonal wrap-around, and returns the
// larger of the refined maximum and the previously found wmax.
func refineMaxWind(u10 *sparse.DenseArray, g *Grid, geom *GeometryTable, ips, jps int, wmax float64) float64 {
	nxw := geom.Nxwidth.Get(ips, jps) + 1
	nyw := geom.Nywidth.Get(ips, jps) + 1

	for di := -nxw; di <= nxw; di++ {
		ipoint := (ips + di) % g.Nlon
		if ipoint < 0 {
			ipoint += g.Nlon
		}
		for dj := -nyw; dj <= nyw; dj++ {
			jj := jps + dj
			if jj < 0 || jj >= g.Nlat {
				continue
			}
			v := u10.Get(ipoint, jj)
			if v > wmax {
				wmax = v
			}
		}
	}
	return wmax
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
