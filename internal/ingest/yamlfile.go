package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fleetretrofit/hprtu/internal/rtu"
)

type unitsFile struct {
	Units []UnitSpec `yaml:"units"`
}

// LoadUnitsYAML reads a batch file of the form:
//
//	units:
//	  - name: RTU-1
//	    kind: gas_rtu
//	    ...
//
// Units that omit winter_design_temp_c pick up designTempC (the weather-file
// design day) when one is given; with no fill available the load fails.
//
// Spec-level errors fail the whole load: a malformed batch file is operator
// input worth fixing, not a unit to exclude.
func LoadUnitsYAML(path string, base rtu.Options, designTempC *float64) ([]rtu.UnitInputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read units file: %w", err)
	}

	var f unitsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse units yaml: %w", err)
	}

	units := make([]rtu.UnitInputs, 0, len(f.Units))
	for i, spec := range f.Units {
		if spec.WinterDesignTempC == nil {
			spec.WinterDesignTempC = designTempC
		}
		in, err := spec.ToInputs(base)
		if err != nil {
			return nil, fmt.Errorf("units[%d]: %w", i, err)
		}
		units = append(units, in)
	}
	return units, nil
}
