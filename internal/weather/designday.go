// Package weather derives design conditions from weather-file records.
package weather

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoRecords       = errors.New("no dry-bulb records")
	ErrNoDryBulbColumn = errors.New("no dry-bulb column in header")
	ErrBadCoverage     = errors.New("coverage must be in (0, 1)")
)

// DefaultHeatingCoverage is the ASHRAE 99.6% heating design condition.
const DefaultHeatingCoverage = 0.996

// ReadDryBulbCSV reads hourly dry-bulb temperatures (°C) from a CSV with a
// header row; the column is located by name ("drybulb_c" or "drybulb").
func ReadDryBulbCSV(r io.Reader) ([]float64, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "drybulb_c", "drybulb":
			col = i
		}
	}
	if col < 0 {
		return nil, ErrNoDryBulbColumn
	}

	var temps []float64
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		temps = append(temps, v)
	}
	if len(temps) == 0 {
		return nil, ErrNoRecords
	}
	return temps, nil
}

// HeatingDesignTemp returns the outdoor temperature exceeded for the given
// fraction of the hours in the record: coverage 0.996 gives the standard
// winter design-day dry-bulb.
func HeatingDesignTemp(tempsC []float64, coverage float64) (float64, error) {
	if len(tempsC) == 0 {
		return 0, ErrNoRecords
	}
	if coverage <= 0 || coverage >= 1 {
		return 0, ErrBadCoverage
	}
	sorted := make([]float64, len(tempsC))
	copy(sorted, tempsC)
	sort.Float64s(sorted)
	return stat.Quantile(1-coverage, stat.Empirical, sorted, nil), nil
}
