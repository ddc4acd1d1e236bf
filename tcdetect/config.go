package tcdetect

// NVMAX is the maximum number of detections that may be emitted for a
// single time step. Exceeding it is a fatal CapacityError.
const NVMAX = 1000

// Configuration holds the run-wide parameters a namelist-equivalent
// external caller fills in before constructing an Engine. Field names
// match the flat namelist record so that a TOML file can be decoded
// directly into this struct with github.com/BurntSushi/toml, the same
// way inmap/cmd/config.go decodes its ConfigData.
type Configuration struct {
	// Tcrit is the warm-core sum threshold, K.
	Tcrit float64 `toml:"tcrit"`
	// Vortcrit is the unsigned vorticity-magnitude threshold, 1/s. The
	// sign is flipped in the Southern Hemisphere before comparison.
	Vortcrit float64 `toml:"vortcrit"`
	// Wspcrit is the 10 m max-wind threshold, m/s.
	Wspcrit float64 `toml:"wspcrit"`
	// Wchkcrit is the vertical wind-speed shear threshold, m/s.
	Wchkcrit float64 `toml:"wchkcrit"`
	// Ocscrit is the Okubo-like circulation strength threshold, m/s.
	Ocscrit float64 `toml:"ocscrit"`
	// T300crit is the 300 hPa anomaly threshold used when T300flag is
	// false, K.
	T300crit float64 `toml:"t300crit"`
	// T300flag selects which upper-warm-anomaly test is used: if true,
	// the 300 hPa anomaly must exceed the 850 hPa anomaly; otherwise it
	// must exceed T300crit.
	T300flag bool `toml:"t300flag"`
	// Pmslcrit is the MSLP negative-anomaly threshold, hPa.
	Pmslcrit float64 `toml:"pmslcrit"`
	// Radius is the physical search radius used to build the
	// GeometryTable, m.
	Radius float64 `toml:"radius"`
	// ConvertPascals multiplies incoming MSLP fields by 100 when the
	// reader returns hPa instead of Pa.
	ConvertPascals bool `toml:"convert_pascals"`
	// Farch and Narch are the first and last time indices to process.
	Farch int `toml:"farch"`
	Narch int `toml:"narch"`
	// Debug, Id, and Jd are diagnostic aids: when Debug is true, the
	// engine logs the criterion cascade outcome at cell (Id, Jd) on
	// every step.
	Debug bool `toml:"debug"`
	Id    int  `toml:"id"`
	Jd    int  `toml:"jd"`

	// RelaxWspFactor multiplies Wspcrit for cells under relaxation.
	// Default 1.0 matches the source's observed (not commented) behavior.
	RelaxWspFactor float64 `toml:"relax_wsp_factor"`
	// DedupCompareAbsVort switches the deduplicator's strength
	// comparison from signed vorticity (source behavior) to
	// |vorticity|. Default false.
	DedupCompareAbsVort bool `toml:"dedup_compare_abs_vort"`
	// LocationTestEnabled turns on step 7 of the criterion cascade (SST
	// and topography bounds). Default true; the source hard-coded this
	// test off.
	LocationTestEnabled bool `toml:"location_test_enabled"`
}

// DefaultConfiguration returns a Configuration with the namelist
// defaults observed in production runs.
func DefaultConfiguration() Configuration {
	return Configuration{
		Tcrit:                0,
		Vortcrit:             3.5e-5,
		Wspcrit:              15,
		Wchkcrit:             5,
		T300crit:             0.5,
		T300flag:             true,
		Pmslcrit:             0, // set by the caller; Validate accepts any value
		Radius:               0, // must be set by the caller; validated below
		ConvertPascals:       true,
		RelaxWspFactor:       1.0,
		DedupCompareAbsVort:  false,
		LocationTestEnabled:  true,
	}
}

// Validate checks that a Configuration is internally consistent,
// returning a *ConfigError describing the first problem found.
func (c *Configuration) Validate() error {
	switch {
	case c.Radius <= 0:
		return &ConfigError{Field: "radius", Message: "must be a positive search radius in meters"}
	case c.Vortcrit < 0:
		return &ConfigError{Field: "vortcrit", Message: "must be a non-negative vorticity magnitude"}
	case c.Wspcrit < 0:
		return &ConfigError{Field: "wspcrit", Message: "must be non-negative"}
	case c.RelaxWspFactor <= 0:
		return &ConfigError{Field: "relax_wsp_factor", Message: "must be positive"}
	case c.Farch < 0:
		return &ConfigError{Field: "farch", Message: "must be non-negative"}
	case c.Narch < c.Farch:
		return &ConfigError{Field: "narch", Message: "must be >= farch"}
	}
	return nil
}
