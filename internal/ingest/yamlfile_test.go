package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fleetretrofit/hprtu/internal/rtu"
)

const unitsYAML = `
units:
  - name: RTU-1
    kind: gas_rtu
    heating_fuel: natural_gas
    orig_cooling_cap_w: 20000
    orig_heating_cap_w: 18000
    winter_design_temp_c: -12
    min_outdoor_air_m3s: 0.2
    terminal_max_m3s: 1.0
  - name: RTU-2
    kind: electric_rtu
    heating_fuel: electricity
    orig_cooling_cap_w: 30000
    orig_heating_cap_w: 26000
    winter_design_temp_c: -18
    min_outdoor_air_m3s: 0.3
    terminal_max_m3s: 1.4
    performance_oversizing_factor: 0.25
    sizing_temperature: 17F
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadUnitsYAML(t *testing.T) {
	path := writeTempFile(t, "units.yaml", unitsYAML)

	units, err := LoadUnitsYAML(path, baseOptions(), nil)
	if err != nil {
		t.Fatalf("LoadUnitsYAML: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("loaded %d units, want 2", len(units))
	}
	if units[0].Name != "RTU-1" || units[0].Kind != rtu.KindGasRTU {
		t.Errorf("unit 0 = %+v", units[0])
	}
	if units[1].Options.PerformanceOversizingFactor != 0.25 {
		t.Errorf("unit 1 ceiling = %v, want 0.25", units[1].Options.PerformanceOversizingFactor)
	}
	if units[1].Options.SizingTempRef != rtu.Ref17F {
		t.Errorf("unit 1 sizing temp = %v, want 17F", units[1].Options.SizingTempRef)
	}
	// Unset options come from the base.
	if units[0].Options.Backup != rtu.BackupElectricResistance {
		t.Errorf("unit 0 backup = %v, want the base default", units[0].Options.Backup)
	}
}

func TestLoadUnitsYAMLFillsDesignTemp(t *testing.T) {
	path := writeTempFile(t, "units.yaml", `
units:
  - name: RTU-1
    kind: gas_rtu
    heating_fuel: natural_gas
    orig_cooling_cap_w: 20000
    orig_heating_cap_w: 18000
    min_outdoor_air_m3s: 0.2
    terminal_max_m3s: 1.0
  - name: RTU-2
    kind: gas_rtu
    heating_fuel: natural_gas
    orig_cooling_cap_w: 20000
    orig_heating_cap_w: 18000
    winter_design_temp_c: 0
    min_outdoor_air_m3s: 0.2
    terminal_max_m3s: 1.0
`)

	design := -15.5
	units, err := LoadUnitsYAML(path, baseOptions(), &design)
	if err != nil {
		t.Fatalf("LoadUnitsYAML: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("loaded %d units, want 2", len(units))
	}
	if units[0].WinterDesignTempC != -15.5 {
		t.Errorf("unit 0 design temp = %v, want the weather fill -15.5", units[0].WinterDesignTempC)
	}
	// An explicit 0°C design day is a real value, not a gap to fill.
	if units[1].WinterDesignTempC != 0 {
		t.Errorf("unit 1 design temp = %v, want the explicit 0", units[1].WinterDesignTempC)
	}
}

func TestLoadUnitsYAMLMissingDesignTempWithoutFill(t *testing.T) {
	path := writeTempFile(t, "units.yaml", `
units:
  - name: RTU-1
    kind: gas_rtu
    heating_fuel: natural_gas
    orig_cooling_cap_w: 20000
    orig_heating_cap_w: 18000
    min_outdoor_air_m3s: 0.2
    terminal_max_m3s: 1.0
`)
	_, err := LoadUnitsYAML(path, baseOptions(), nil)
	if err == nil || !strings.Contains(err.Error(), "winter_design_temp_c is required") {
		t.Fatalf("err = %v, want a missing design temperature error", err)
	}
}

func TestLoadUnitsYAMLBadSpecFailsLoad(t *testing.T) {
	path := writeTempFile(t, "units.yaml", `
units:
  - name: RTU-1
    kind: hydronic
`)
	if _, err := LoadUnitsYAML(path, baseOptions(), nil); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}

func TestLoadUnitsYAMLMissingFile(t *testing.T) {
	if _, err := LoadUnitsYAML(filepath.Join(t.TempDir(), "nope.yaml"), baseOptions(), nil); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
