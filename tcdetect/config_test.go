package tcdetect

import "testing"

func validConfig() Configuration {
	c := DefaultConfiguration()
	c.Radius = 300000
	c.Pmslcrit = 10
	c.Narch = 5
	return c
}

func TestDefaultConfigurationMatchesSpecDefaults(t *testing.T) {
	c := DefaultConfiguration()
	if c.Vortcrit != 3.5e-5 {
		t.Errorf("Vortcrit = %v, want 3.5e-5", c.Vortcrit)
	}
	if c.Wspcrit != 15 {
		t.Errorf("Wspcrit = %v, want 15", c.Wspcrit)
	}
	if !c.T300flag {
		t.Errorf("T300flag = false, want true")
	}
	if !c.ConvertPascals {
		t.Errorf("ConvertPascals = false, want true")
	}
	if c.RelaxWspFactor != 1.0 {
		t.Errorf("RelaxWspFactor = %v, want 1.0", c.RelaxWspFactor)
	}
	if c.DedupCompareAbsVort {
		t.Errorf("DedupCompareAbsVort = true, want false")
	}
	if !c.LocationTestEnabled {
		t.Errorf("LocationTestEnabled = false, want true")
	}
}

func TestValidateRejectsBadRadius(t *testing.T) {
	c := validConfig()
	c.Radius = 0
	err := c.Validate()
	if err == nil {
		t.Fatal("expected an error for zero radius")
	}
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if cfgErr.Field != "radius" {
		t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, "radius")
	}
}

func TestValidateRejectsNarchBeforeFarch(t *testing.T) {
	c := validConfig()
	c.Farch = 10
	c.Narch = 5
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error when narch < farch")
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error for a valid configuration: %v", err)
	}
}
