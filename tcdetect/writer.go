package tcdetect

import (
	"fmt"
	"io"
	"time"
)

// WriteDetections writes one fixed-width line per detection to w, in
// the column order named by §6: date/time, centre lon/lat, MSLP in
// hPa, vorticity, max wind, warm-core sum, warm-core diff, OCS, and
// the max-wind location's lon/lat.
func WriteDetections(w io.Writer, g *Grid, t time.Time, detections []Detection) error {
	for _, d := range detections {
		_, err := fmt.Fprintf(w,
			"%04d %02d %02d %02d%02d  %8.3f  %7.3f  %9.3f  %12.6e  %6.2f  %7.3f  %7.3f  %8.3f  %8.3f  %7.3f\n",
			t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(),
			g.Lon[d.Ips], g.Lat[d.Jps],
			d.Pmin/100,
			d.VortHere,
			d.Wmax,
			d.Tsum,
			d.Tdiff,
			d.Ocs,
			g.Lon[d.Iwmax], g.Lat[d.Jwmax],
		)
		if err != nil {
			return &IOError{Op: "write detection line", Err: err}
		}
	}
	return nil
}
