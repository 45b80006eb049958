package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fleetretrofit/hprtu/internal/rtu"
)

// RowError records a workbook row that could not be turned into a unit.
type RowError struct {
	Row int
	Err error
}

// ParseWorkbook reads unit specs from the first sheet of an xlsx workbook.
// The first row is a header; columns are matched by name (case-insensitive),
// so column order does not matter. Required columns: name, kind,
// orig_cooling_cap_w, orig_heating_cap_w, min_outdoor_air_m3s,
// terminal_max_m3s. Optional: winter_design_temp_c (rows missing it pick up
// designTempC, the weather-file design day, when one is given),
// heating_fuel, backup_heat, performance_oversizing_factor,
// sizing_temperature, cooling_oversizing_estimate, htg_to_clg_ratio.
//
// Bad rows are skipped and reported; the rest of the workbook proceeds.
func ParseWorkbook(r io.Reader, base rtu.Options, designTempC *float64) ([]rtu.UnitInputs, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("sheet %q has no unit rows", sheet)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{
		"name", "kind", "orig_cooling_cap_w", "orig_heating_cap_w",
		"min_outdoor_air_m3s", "terminal_max_m3s",
	} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", required)
		}
	}

	var units []rtu.UnitInputs
	var bad []RowError
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		spec, err := rowToSpec(rows[rowIdx], cols)
		if err != nil {
			bad = append(bad, RowError{Row: rowIdx + 1, Err: err})
			continue
		}
		if spec.WinterDesignTempC == nil {
			spec.WinterDesignTempC = designTempC
		}
		in, err := spec.ToInputs(base)
		if err != nil {
			bad = append(bad, RowError{Row: rowIdx + 1, Err: err})
			continue
		}
		units = append(units, in)
	}
	return units, bad, nil
}

func rowToSpec(row []string, cols map[string]int) (UnitSpec, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(name string) (float64, error) {
		s := cell(name)
		if s == "" {
			return 0, fmt.Errorf("empty cell %q", name)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cell %q: %w", name, err)
		}
		return v, nil
	}
	optNum := func(name string) (*float64, error) {
		s := cell(name)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("cell %q: %w", name, err)
		}
		return &v, nil
	}
	optStr := func(name string) *string {
		s := cell(name)
		if s == "" {
			return nil
		}
		return &s
	}

	spec := UnitSpec{
		Name:        cell("name"),
		Kind:        cell("kind"),
		HeatingFuel: cell("heating_fuel"),

		BackupHeat:        optStr("backup_heat"),
		SizingTemperature: optStr("sizing_temperature"),
	}

	var err error
	if spec.OrigCoolingCapW, err = num("orig_cooling_cap_w"); err != nil {
		return UnitSpec{}, err
	}
	if spec.OrigHeatingCapW, err = num("orig_heating_cap_w"); err != nil {
		return UnitSpec{}, err
	}
	if spec.WinterDesignTempC, err = optNum("winter_design_temp_c"); err != nil {
		return UnitSpec{}, err
	}
	if spec.MinOutdoorAirM3s, err = num("min_outdoor_air_m3s"); err != nil {
		return UnitSpec{}, err
	}
	if spec.TerminalMaxM3s, err = num("terminal_max_m3s"); err != nil {
		return UnitSpec{}, err
	}
	if spec.PerformanceOversizingFactor, err = optNum("performance_oversizing_factor"); err != nil {
		return UnitSpec{}, err
	}
	if spec.CoolingOversizingEstimate, err = optNum("cooling_oversizing_estimate"); err != nil {
		return UnitSpec{}, err
	}
	if spec.HtgToClgRatio, err = optNum("htg_to_clg_ratio"); err != nil {
		return UnitSpec{}, err
	}
	return spec, nil
}
