package tcdetect

import "math"

// Deduplicate runs the §4.6 post-pass over a step's raw detection
// list: for each still-live vortex j, every later vortex i whose
// centre falls inside j's wind box is killed; if i is the weaker
// vortex by the configured comparison, its fields are first copied
// onto j's slot. The
// returned slice contains only the survivors, in their original
// relative order.
func Deduplicate(cfg *Configuration, g *Grid, geom *GeometryTable, detections []Detection) []Detection {
	n := len(detections)
	alive := make([]bool, n)
	for k := range alive {
		alive[k] = true
	}

	for j := 0; j < n; j++ {
		if !alive[j] {
			continue
		}
		imin, imax, jmin, jmax := windBox(detections[j].Ips, detections[j].Jps, g, geom)

		for i := j + 1; i < n; i++ {
			if !alive[i] {
				continue
			}
			if detections[i].Ips < imin || detections[i].Ips > imax ||
				detections[i].Jps < jmin || detections[i].Jps > jmax {
				continue
			}

			if weaker(cfg, detections[i], detections[j]) {
				detections[j] = detections[i]
			}
			alive[i] = false
		}
	}

	survivors := make([]Detection, 0, n)
	for k := range detections {
		if alive[k] {
			survivors = append(survivors, detections[k])
		}
	}
	return survivors
}

// weaker reports whether vortex i is strictly weaker than vortex j by
// the configured vorticity comparison (§9 open question: the source
// compares signed vorticity with a plain "<", which is likely a bug
// for Southern Hemisphere vortices; DedupCompareAbsVort switches to
// comparing magnitudes).
func weaker(cfg *Configuration, i, j Detection) bool {
	if cfg.DedupCompareAbsVort {
		return math.Abs(i.VortHere) < math.Abs(j.VortHere)
	}
	return i.VortHere < j.VortHere
}
