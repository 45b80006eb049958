package rtu

import (
	"fmt"

	"github.com/fleetretrofit/hprtu/internal/sizing"
)

// Options are the user-facing knobs of a retrofit, one set per unit.
type Options struct {
	Backup                      BackupHeatScheme
	PerformanceOversizingFactor float64
	SizingTempRef               SizingTempRef
	CoolingOversizingEstimate   float64
	HtgToClgRatio               float64
	AddEnergyRecovery           bool
	AddDCV                      bool
	AddEconomizer               bool
}

// UnitInputs is the numeric extract of one air-handling unit, pulled from
// the building model before sizing. No model objects cross this boundary.
type UnitInputs struct {
	Name        string
	Kind        EquipmentKind
	HeatingFuel Fuel

	OrigCoolingCapW   float64
	OrigHeatingCapW   float64
	WinterDesignTempC float64
	MinOutdoorAirM3s  float64
	TerminalMaxM3s    float64

	Options Options
}

func (in UnitInputs) validate() error {
	if !in.Kind.Supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedEquipment, in.Kind)
	}
	if in.OrigCoolingCapW <= 0 || in.OrigHeatingCapW <= 0 {
		return ErrNonPositiveCapacity
	}
	if in.MinOutdoorAirM3s < 0 || in.TerminalMaxM3s <= in.MinOutdoorAirM3s {
		return ErrInvalidAirflowRange
	}
	if in.WinterDesignTempC >= sizing.ZeroLoadTempC {
		return ErrDesignTempTooWarm
	}
	o := in.Options
	if !o.Backup.Valid() || !o.SizingTempRef.Valid() {
		return ErrInvalidOptions
	}
	if o.CoolingOversizingEstimate <= 0 || o.HtgToClgRatio <= 0 || o.PerformanceOversizingFactor < 0 {
		return ErrInvalidOptions
	}
	if o.Backup == BackupMatchOriginal && !in.HeatingFuel.Valid() {
		return ErrInvalidOptions
	}
	return nil
}

// UnitResult is everything the equipment assembler needs to build the
// multi-stage coils, plus the rationale for the operator.
type UnitResult struct {
	Name   string
	Sizing sizing.SizingResult

	HeatingStages [4]sizing.Stage
	CoolingStages [4]sizing.Stage

	BackupFuel      Fuel
	BackupCapacityW float64

	EnergyRecovery              bool
	DemandControlledVentilation bool
	Economizer                  bool

	Rationale sizing.Rationale
}

// SizeUnit runs the full sizing pipeline for one unit: load line from the
// design point, capacity sizing, stage discretization for both modes, and
// the cross-mode stage merge. Pure computation; identical inputs produce
// identical results.
func SizeUnit(in UnitInputs) (UnitResult, error) {
	if err := in.validate(); err != nil {
		return UnitResult{}, fmt.Errorf("unit %q: %w", in.Name, err)
	}

	line, err := sizing.NewLoadLine(in.WinterDesignTempC, in.OrigHeatingCapW)
	if err != nil {
		return UnitResult{}, fmt.Errorf("unit %q: %w", in.Name, err)
	}
	curve := sizing.DefaultHeatingDerate()

	sres := sizing.Size(sizing.SizingInputs{
		OrigCoolingCapW:             in.OrigCoolingCapW,
		CoolingOversizingEstimate:   in.Options.CoolingOversizingEstimate,
		PerformanceOversizingFactor: in.Options.PerformanceOversizingFactor,
		HtgToClgRatio:               in.Options.HtgToClgRatio,
		SizingOutdoorC:              in.Options.SizingTempRef.TempC(),
		DesignOutdoorC:              in.WinterDesignTempC,
		IndoorC:                     sizing.DefaultIndoorHeatingC,
	}, line, curve)

	heat := sizing.Discretize(sres.RatedHeatingCapW, in.TerminalMaxM3s, in.MinOutdoorAirM3s, sizing.HeatingFractions())
	cool := sizing.Discretize(sres.RatedCoolingCapW, in.TerminalMaxM3s, in.MinOutdoorAirM3s, sizing.CoolingFractions())

	res := UnitResult{
		Name:                        in.Name,
		Sizing:                      sres,
		HeatingStages:               heat.Stages,
		CoolingStages:               cool.Stages,
		EnergyRecovery:              in.Options.AddEnergyRecovery,
		DemandControlledVentilation: in.Options.AddDCV,
		Economizer:                  in.Options.AddEconomizer,
	}

	res.Rationale.Extend(sres.Rationale)
	for _, w := range heat.Warnings {
		res.Rationale.Addf("heating %s", w)
	}
	for _, w := range cool.Warnings {
		res.Rationale.Addf("cooling %s", w)
	}

	// Stages are shared hardware: one unusable thermally in either mode is
	// unusable in the unit.
	for i := range res.HeatingStages {
		if res.HeatingStages[i].Enabled != res.CoolingStages[i].Enabled {
			res.Rationale.Addf("stage %d disabled in both modes (unusable in one)", i+1)
		}
		enabled := res.HeatingStages[i].Enabled && res.CoolingStages[i].Enabled
		res.HeatingStages[i].Enabled = enabled
		res.CoolingStages[i].Enabled = enabled
	}

	switch in.Options.Backup {
	case BackupMatchOriginal:
		res.BackupFuel = in.HeatingFuel
	default:
		res.BackupFuel = FuelElectricity
	}
	// Backup covers the full design load on its own when the compressor is
	// locked out.
	res.BackupCapacityW = line.LoadAt(in.WinterDesignTempC)
	res.Rationale.Addf("backup heat: %s, %.1f kW at the %.1fC design temperature",
		res.BackupFuel, res.BackupCapacityW/1000, in.WinterDesignTempC)

	return res, nil
}
