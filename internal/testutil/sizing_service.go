package testutil

import (
	"github.com/fleetretrofit/hprtu/internal/rtu"
	"github.com/fleetretrofit/hprtu/internal/sizing"
)

// FakeSizingService is a reusable fake implementing ports.SizingService.
// Put ONLY what multiple test packages need here.
type FakeSizingService struct {
	Opts rtu.Options

	SizeUnitCalled bool
	SizeUnitArg    rtu.UnitInputs
	SizeUnitRes    rtu.UnitResult
	SizeUnitErr    error

	SizeBatchCalled bool
	SizeBatchArg    []rtu.UnitInputs
	SizeBatchRes    rtu.BatchResult
}

func NewFakeSizingService() *FakeSizingService {
	res := rtu.UnitResult{
		Name: "RTU-1",
		Sizing: sizing.SizingResult{
			RatedCoolingCapW: 20000,
			RatedHeatingCapW: 20000,
			Branch:           sizing.BranchCoolingGoverned,
			Rationale:        sizing.Rationale{"fake rationale"},
		},
		BackupFuel:      rtu.FuelElectricity,
		BackupCapacityW: 18000,
	}
	for i := 0; i < 4; i++ {
		res.HeatingStages[i] = sizing.Stage{Index: i + 1, CapacityW: 5000 * float64(i+1), AirflowM3s: 0.25 * float64(i+1), Enabled: true}
		res.CoolingStages[i] = res.HeatingStages[i]
	}
	return &FakeSizingService{
		Opts: rtu.Options{
			Backup:                    rtu.BackupElectricResistance,
			SizingTempRef:             rtu.Ref0F,
			CoolingOversizingEstimate: 1.0,
			HtgToClgRatio:             1.0,
		},
		SizeUnitRes: res,
		SizeBatchRes: rtu.BatchResult{
			RunID:   "test-run",
			Results: []rtu.UnitResult{res},
		},
	}
}

func (f *FakeSizingService) Defaults() rtu.Options { return f.Opts }

func (f *FakeSizingService) SizeUnit(in rtu.UnitInputs) (rtu.UnitResult, error) {
	f.SizeUnitCalled = true
	f.SizeUnitArg = in
	if f.SizeUnitErr != nil {
		return rtu.UnitResult{}, f.SizeUnitErr
	}
	return f.SizeUnitRes, nil
}

func (f *FakeSizingService) SizeBatch(units []rtu.UnitInputs) rtu.BatchResult {
	f.SizeBatchCalled = true
	f.SizeBatchArg = units
	return f.SizeBatchRes
}
