package ingest

import (
	"strings"
	"testing"

	"github.com/fleetretrofit/hprtu/internal/rtu"
)

func baseOptions() rtu.Options {
	return rtu.Options{
		Backup:                      rtu.BackupElectricResistance,
		PerformanceOversizingFactor: 0,
		SizingTempRef:               rtu.Ref0F,
		CoolingOversizingEstimate:   1.0,
		HtgToClgRatio:               1.0,
	}
}

func fptr(v float64) *float64 { return &v }

func validSpec() UnitSpec {
	return UnitSpec{
		Name:              "RTU-1",
		Kind:              "gas_rtu",
		HeatingFuel:       "natural_gas",
		OrigCoolingCapW:   20000,
		OrigHeatingCapW:   18000,
		WinterDesignTempC: fptr(-12),
		MinOutdoorAirM3s:  0.2,
		TerminalMaxM3s:    1.0,
	}
}

func TestToInputsUsesBaseDefaults(t *testing.T) {
	in, err := validSpec().ToInputs(baseOptions())
	if err != nil {
		t.Fatalf("ToInputs: %v", err)
	}
	if in.Kind != rtu.KindGasRTU {
		t.Errorf("kind = %v, want gas_rtu", in.Kind)
	}
	if in.HeatingFuel != rtu.FuelNaturalGas {
		t.Errorf("fuel = %v, want natural_gas", in.HeatingFuel)
	}
	if in.Options != baseOptions() {
		t.Errorf("options = %+v, want the base defaults", in.Options)
	}
}

func TestToInputsOverrides(t *testing.T) {
	backup := "match_original_fuel"
	ceiling := 0.25
	ref := "17F"
	dcv := true

	spec := validSpec()
	spec.BackupHeat = &backup
	spec.PerformanceOversizingFactor = &ceiling
	spec.SizingTemperature = &ref
	spec.AddDCV = &dcv

	in, err := spec.ToInputs(baseOptions())
	if err != nil {
		t.Fatalf("ToInputs: %v", err)
	}
	if in.Options.Backup != rtu.BackupMatchOriginal {
		t.Errorf("backup = %v, want match_original_fuel", in.Options.Backup)
	}
	if in.Options.PerformanceOversizingFactor != 0.25 {
		t.Errorf("ceiling = %v, want 0.25", in.Options.PerformanceOversizingFactor)
	}
	if in.Options.SizingTempRef != rtu.Ref17F {
		t.Errorf("sizing temp = %v, want 17F", in.Options.SizingTempRef)
	}
	if !in.Options.AddDCV {
		t.Error("AddDCV not applied")
	}
	// Untouched fields keep the defaults.
	if in.Options.CoolingOversizingEstimate != 1.0 || in.Options.HtgToClgRatio != 1.0 {
		t.Errorf("defaults clobbered: %+v", in.Options)
	}
}

func TestToInputsErrors(t *testing.T) {
	weird := "weird"
	tests := []struct {
		name   string
		mutate func(*UnitSpec)
		substr string
	}{
		{"missing name", func(s *UnitSpec) { s.Name = "" }, "name is required"},
		{"bad kind", func(s *UnitSpec) { s.Kind = "vrf" }, "invalid equipment kind"},
		{"bad fuel", func(s *UnitSpec) { s.HeatingFuel = "coal" }, "invalid fuel"},
		{"missing design temp", func(s *UnitSpec) { s.WinterDesignTempC = nil }, "winter_design_temp_c is required"},
		{"bad backup", func(s *UnitSpec) { s.BackupHeat = &weird }, "invalid backup heat scheme"},
		{"bad sizing temp", func(s *UnitSpec) { s.SizingTemperature = &weird }, "invalid sizing temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			_, err := spec.ToInputs(baseOptions())
			if err == nil || !strings.Contains(err.Error(), tt.substr) {
				t.Fatalf("err = %v, want containing %q", err, tt.substr)
			}
		})
	}
}
