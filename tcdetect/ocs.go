package tcdetect

import (
	"math"

	"github.com/ctessum/sparse"
)

// ocsWeights is the 5x5 weighting matrix applied to the tangential
// wind contribution of each stencil point around a pressure centre
// (§4.5), indexed [Δi+2][Δj+2].
var ocsWeights = [5][5]float64{
	{0.000, 0.031, 0.055, 0.031, 0.000},
	{0.030, 0.078, 0.056, 0.078, 0.030},
	{0.053, 0.057, 0.000, 0.057, 0.053},
	{0.030, 0.078, 0.056, 0.078, 0.030},
	{0.000, 0.031, 0.055, 0.031, 0.000},
}

// ComputeOCS computes the Okubo-like circulation strength at (ips,jps)
// (§4.5), a weighted tangential-wind integral on the 5x5 stencil around
// the pressure centre. northernHemisphere selects the sign convention
// so that cyclonic tangential flow contributes positively in both
// hemispheres. Callers must ensure ips,jps is at least 2 cells from
// every grid edge; the criterion cascade guarantees this via its
// bounds test (§4.4 step 5), which runs before OCS is invoked.
func ComputeOCS(g *Grid, u, v, u10 *sparse.DenseArray, ips, jps int, northernHemisphere bool) float64 {
	var ocs float64
	for di := -2; di <= 2; di++ {
		for dj := -2; dj <= 2; dj++ {
			if di == 0 && dj == 0 {
				continue
			}
			i, j := ips+di, jps+dj
			dist := math.Hypot(float64(di), float64(dj))
			cosTheta := float64(di) / dist
			sinTheta := float64(dj) / dist

			u850 := u.Get(g.Lv850, i, j)
			v850 := v.Get(g.Lv850, i, j)
			umag850 := math.Hypot(u850, v850)
			if umag850 == 0 {
				continue
			}
			ratio := u10.Get(i, j) / umag850

			utan := ratio * (u850*sinTheta - v850*cosTheta) * ocsWeights[di+2][dj+2]
			if northernHemisphere {
				ocs -= utan
			} else {
				ocs += utan
			}
		}
	}
	return ocs
}
