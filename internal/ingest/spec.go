// Package ingest turns external unit descriptions (JSON requests, YAML batch
// files, spreadsheets) into rtu.UnitInputs. All equipment-kind resolution
// happens here, at the boundary.
package ingest

import (
	"fmt"

	"github.com/fleetretrofit/hprtu/internal/rtu"
)

// UnitSpec is the wire/file form of one unit. Optional fields are pointers:
// nil means "use the configured default". WinterDesignTempC is a pointer so
// that an absent value is distinguishable from a genuine 0°C design day; a
// batch loader may fill it from weather data before resolution, and ToInputs
// rejects a spec where it is still missing.
type UnitSpec struct {
	Name        string `json:"name" yaml:"name"`
	Kind        string `json:"kind" yaml:"kind"`
	HeatingFuel string `json:"heating_fuel" yaml:"heating_fuel"`

	OrigCoolingCapW   float64  `json:"orig_cooling_cap_w" yaml:"orig_cooling_cap_w"`
	OrigHeatingCapW   float64  `json:"orig_heating_cap_w" yaml:"orig_heating_cap_w"`
	WinterDesignTempC *float64 `json:"winter_design_temp_c" yaml:"winter_design_temp_c"`
	MinOutdoorAirM3s  float64  `json:"min_outdoor_air_m3s" yaml:"min_outdoor_air_m3s"`
	TerminalMaxM3s    float64  `json:"terminal_max_m3s" yaml:"terminal_max_m3s"`

	BackupHeat                  *string  `json:"backup_heat" yaml:"backup_heat"`
	PerformanceOversizingFactor *float64 `json:"performance_oversizing_factor" yaml:"performance_oversizing_factor"`
	SizingTemperature           *string  `json:"sizing_temperature" yaml:"sizing_temperature"`
	CoolingOversizingEstimate   *float64 `json:"cooling_oversizing_estimate" yaml:"cooling_oversizing_estimate"`
	HtgToClgRatio               *float64 `json:"htg_to_clg_ratio" yaml:"htg_to_clg_ratio"`
	AddEnergyRecovery           *bool    `json:"add_energy_recovery" yaml:"add_energy_recovery"`
	AddDCV                      *bool    `json:"add_dcv" yaml:"add_dcv"`
	AddEconomizer               *bool    `json:"add_economizer" yaml:"add_economizer"`
}

// ToInputs resolves the spec against base (the configured per-unit option
// defaults). Enum strings are parsed here; a spec naming an unknown kind or
// fuel fails rather than silently defaulting.
func (s UnitSpec) ToInputs(base rtu.Options) (rtu.UnitInputs, error) {
	if s.Name == "" {
		return rtu.UnitInputs{}, fmt.Errorf("unit spec: name is required")
	}
	kind, err := rtu.ParseEquipmentKind(s.Kind)
	if err != nil {
		return rtu.UnitInputs{}, fmt.Errorf("unit %q: %w", s.Name, err)
	}
	if s.WinterDesignTempC == nil {
		return rtu.UnitInputs{}, fmt.Errorf("unit %q: winter_design_temp_c is required", s.Name)
	}

	in := rtu.UnitInputs{
		Name:              s.Name,
		Kind:              kind,
		OrigCoolingCapW:   s.OrigCoolingCapW,
		OrigHeatingCapW:   s.OrigHeatingCapW,
		WinterDesignTempC: *s.WinterDesignTempC,
		MinOutdoorAirM3s:  s.MinOutdoorAirM3s,
		TerminalMaxM3s:    s.TerminalMaxM3s,
		Options:           base,
	}

	if s.HeatingFuel != "" {
		fuel, err := rtu.ParseFuel(s.HeatingFuel)
		if err != nil {
			return rtu.UnitInputs{}, fmt.Errorf("unit %q: %w", s.Name, err)
		}
		in.HeatingFuel = fuel
	}
	if s.BackupHeat != nil {
		b, err := rtu.ParseBackupHeatScheme(*s.BackupHeat)
		if err != nil {
			return rtu.UnitInputs{}, fmt.Errorf("unit %q: %w", s.Name, err)
		}
		in.Options.Backup = b
	}
	if s.SizingTemperature != nil {
		ref, err := rtu.ParseSizingTempRef(*s.SizingTemperature)
		if err != nil {
			return rtu.UnitInputs{}, fmt.Errorf("unit %q: %w", s.Name, err)
		}
		in.Options.SizingTempRef = ref
	}
	if s.PerformanceOversizingFactor != nil {
		in.Options.PerformanceOversizingFactor = *s.PerformanceOversizingFactor
	}
	if s.CoolingOversizingEstimate != nil {
		in.Options.CoolingOversizingEstimate = *s.CoolingOversizingEstimate
	}
	if s.HtgToClgRatio != nil {
		in.Options.HtgToClgRatio = *s.HtgToClgRatio
	}
	if s.AddEnergyRecovery != nil {
		in.Options.AddEnergyRecovery = *s.AddEnergyRecovery
	}
	if s.AddDCV != nil {
		in.Options.AddDCV = *s.AddDCV
	}
	if s.AddEconomizer != nil {
		in.Options.AddEconomizer = *s.AddEconomizer
	}

	return in, nil
}
