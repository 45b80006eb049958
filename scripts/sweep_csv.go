package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/fleetretrofit/hprtu/internal/rtu"
	"github.com/fleetretrofit/hprtu/internal/sizing"
)

// SweepUnit sizes one unit and writes a CSV of the outdoor-temperature
// sweep: building load against available capacity per stage. Handy for
// plotting the balance point.
func SweepUnit(in rtu.UnitInputs, filename string) error {
	res, err := rtu.SizeUnit(in)
	if err != nil {
		return fmt.Errorf("failed to size unit: %v", err)
	}

	line, err := sizing.NewLoadLine(in.WinterDesignTempC, in.OrigHeatingCapW)
	if err != nil {
		return fmt.Errorf("failed to build load line: %v", err)
	}
	curve := sizing.DefaultHeatingDerate()

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"OutdoorC", "LoadW", "Derate"}
	for _, st := range res.HeatingStages {
		header = append(header, fmt.Sprintf("Stage%dCapW", st.Index))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for outdoorC := in.WinterDesignTempC; outdoorC <= sizing.ZeroLoadTempC; outdoorC += 0.5 {
		derate := curve.Derate(sizing.DefaultIndoorHeatingC, outdoorC)
		rec := []string{
			fmt.Sprintf("%.2f", outdoorC),
			fmt.Sprintf("%.1f", line.LoadAt(outdoorC)),
			fmt.Sprintf("%.4f", derate),
		}
		for _, st := range res.HeatingStages {
			if !st.Enabled {
				rec = append(rec, "0.0")
				continue
			}
			rec = append(rec, fmt.Sprintf("%.1f", st.CapacityW*derate))
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV record: %v", err)
		}
	}

	return nil
}

func main() {
	unit := rtu.UnitInputs{
		Name:              "RTU-1",
		Kind:              rtu.KindGasRTU,
		HeatingFuel:       rtu.FuelNaturalGas,
		OrigCoolingCapW:   20000,
		OrigHeatingCapW:   18000,
		WinterDesignTempC: -12,
		MinOutdoorAirM3s:  0.2,
		TerminalMaxM3s:    1.0,
		Options: rtu.Options{
			Backup:                    rtu.BackupElectricResistance,
			SizingTempRef:             rtu.Ref0F,
			CoolingOversizingEstimate: 1.0,
			HtgToClgRatio:             1.0,
		},
	}
	SweepUnit(unit, "hprtu_sweep.csv")
}
