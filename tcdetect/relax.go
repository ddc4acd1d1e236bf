package tcdetect

// UpdateRelaxMask builds the RelaxMask for step k+1 from step k's
// (deduplicated) detections (§4.7). A candidate cell (a,b) is marked
// true iff some live detection (ips,jps) satisfies |a-ips| <=
// nxwidth(a,b) and |b-jps| <= nywidth(a,b) — the half-widths are taken
// at the candidate cell, not the detection, which widens the mask near
// the poles and keeps it tight in the tropics.
func UpdateRelaxMask(g *Grid, geom *GeometryTable, detections []Detection) *RelaxMask {
	mask := NewRelaxMask(g.Nlon, g.Nlat)
	if len(detections) == 0 {
		return mask
	}

	for a := 0; a < g.Nlon; a++ {
		for b := 0; b < g.Nlat; b++ {
			nxw := geom.Nxwidth.Get(a, b)
			nyw := geom.Nywidth.Get(a, b)
			for _, det := range detections {
				if absInt(a-det.Ips) <= nxw && absInt(b-det.Jps) <= nyw {
					mask.Set(a, b, true)
					break
				}
			}
		}
	}
	return mask
}
