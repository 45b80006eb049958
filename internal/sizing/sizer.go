package sizing

// Branch identifies which sizing policy branch produced the result.
type Branch int

const (
	BranchUnknown Branch = iota
	// BranchCoolingGoverned: a unit sized purely for cooling already carries
	// the required heating capacity.
	BranchCoolingGoverned
	// BranchHeatingGoverned: cooling is oversized, within the ceiling, to
	// carry the required heating capacity.
	BranchHeatingGoverned
	// BranchCeilingClamped: the required heating capacity exceeds the
	// oversizing ceiling; sizing is clamped and backup heat covers the rest.
	BranchCeilingClamped
)

func (b Branch) String() string {
	switch b {
	case BranchCoolingGoverned:
		return "cooling_governed"
	case BranchHeatingGoverned:
		return "heating_governed"
	case BranchCeilingClamped:
		return "ceiling_clamped"
	default:
		return "unknown"
	}
}

type SizingInputs struct {
	// OrigCoolingCapW is the autosized cooling capacity of the unit being
	// replaced.
	OrigCoolingCapW float64
	// CoolingOversizingEstimate accounts for discrete real-equipment sizing
	// increments above the autosized value. 1.0 means none.
	CoolingOversizingEstimate float64
	// PerformanceOversizingFactor is the ceiling on extra cooling capacity
	// allowed to carry heating (0 = no oversizing for heating).
	PerformanceOversizingFactor float64
	// HtgToClgRatio ties rated heating to rated cooling capacity.
	HtgToClgRatio float64
	// SizingOutdoorC is the outdoor temperature the heating requirement is
	// evaluated at (one of the 47/17/0°F reference points).
	SizingOutdoorC float64
	// DesignOutdoorC is the weather-file winter design-day temperature, used
	// for reporting only.
	DesignOutdoorC float64
	// IndoorC is the indoor dry-bulb for derate evaluation. Callers that
	// have no site-specific setpoint pass DefaultIndoorHeatingC.
	IndoorC float64
}

type SizingResult struct {
	RatedCoolingCapW float64
	RatedHeatingCapW float64
	Branch           Branch

	// RequiredRatedHeatingW is the 47°F-equivalent heating capacity needed
	// to meet the design load at the sizing temperature after derating.
	RequiredRatedHeatingW float64
	// UpsizedCoolingCapW is the original cooling capacity after the
	// real-equipment oversizing estimate.
	UpsizedCoolingCapW float64
	// ShortfallW is the rated-basis heating capacity left uncovered when the
	// ceiling clamps the sizing (Branch C only); backup heat carries it.
	ShortfallW float64

	Rationale Rationale
}

// Size determines rated (47°F-basis) heating and cooling capacities for a
// heat-pump replacement. The three policy branches are evaluated in order
// and the first match wins; the order is part of the contract.
//
// Whatever branch fires, RatedHeatingCapW == RatedCoolingCapW·HtgToClgRatio
// holds by construction.
func Size(in SizingInputs, line LoadLine, curve DerateCurve) SizingResult {
	res := SizingResult{
		UpsizedCoolingCapW: in.OrigCoolingCapW * in.CoolingOversizingEstimate,
	}

	derateAtSizing := curve.Derate(in.IndoorC, in.SizingOutdoorC)
	loadAtSizing := line.LoadAt(in.SizingOutdoorC)
	res.RequiredRatedHeatingW = loadAtSizing / derateAtSizing

	res.Rationale.Addf("cooling capacity %.1f kW (%.1f tons) after %.2fx equipment-increment estimate",
		res.UpsizedCoolingCapW/1000, WToTons(res.UpsizedCoolingCapW), in.CoolingOversizingEstimate)
	res.Rationale.Addf("heating load %.1f kW at sizing temperature %.1fF, derate %.3f, required rated heating %.1f kW (%.1f tons)",
		loadAtSizing/1000, CToF(in.SizingOutdoorC), derateAtSizing,
		res.RequiredRatedHeatingW/1000, WToTons(res.RequiredRatedHeatingW))

	ceilingCapW := res.UpsizedCoolingCapW * (1 + in.PerformanceOversizingFactor) * in.HtgToClgRatio

	switch {
	case res.RequiredRatedHeatingW/res.UpsizedCoolingCapW <= in.HtgToClgRatio:
		res.Branch = BranchCoolingGoverned
		res.RatedCoolingCapW = res.UpsizedCoolingCapW
		res.RatedHeatingCapW = res.UpsizedCoolingCapW * in.HtgToClgRatio
		res.Rationale.Addf("heating requirement met by the cooling-sized unit; no oversizing needed")

	case res.RequiredRatedHeatingW <= ceilingCapW:
		res.Branch = BranchHeatingGoverned
		res.RatedHeatingCapW = res.RequiredRatedHeatingW
		res.RatedCoolingCapW = res.RequiredRatedHeatingW / in.HtgToClgRatio
		res.Rationale.Addf("cooling oversized to %.1f kW (%.1f tons) to carry the heating requirement, within the %.0f%% ceiling",
			res.RatedCoolingCapW/1000, WToTons(res.RatedCoolingCapW), in.PerformanceOversizingFactor*100)

	default:
		res.Branch = BranchCeilingClamped
		res.RatedCoolingCapW = res.UpsizedCoolingCapW * (1 + in.PerformanceOversizingFactor)
		res.RatedHeatingCapW = res.RatedCoolingCapW * in.HtgToClgRatio
		res.ShortfallW = res.RequiredRatedHeatingW - res.RatedHeatingCapW
		res.Rationale.Addf("required rated heating %.1f kW exceeds the %.0f%% oversizing ceiling; clamped to %.1f kW, rated shortfall %.1f kW covered by backup heat",
			res.RequiredRatedHeatingW/1000, in.PerformanceOversizingFactor*100,
			res.RatedHeatingCapW/1000, res.ShortfallW/1000)
	}

	res.Rationale.Addf("rated capacities: cooling %.1f kW (%.1f tons), heating %.1f kW (%.1f tons) [%s]",
		res.RatedCoolingCapW/1000, WToTons(res.RatedCoolingCapW),
		res.RatedHeatingCapW/1000, WToTons(res.RatedHeatingCapW), res.Branch)

	// Operating-point table for operator visibility. Informational only.
	points := []float64{RatedOutdoorC, FToC(17), FToC(0)}
	if in.DesignOutdoorC != points[0] && in.DesignOutdoorC != points[1] && in.DesignOutdoorC != points[2] {
		points = append(points, in.DesignOutdoorC)
	}
	for _, t := range points {
		d := curve.Derate(in.IndoorC, t)
		res.Rationale.Addf("at %.1fF: load %.1f kW, derate %.3f, heat pump output %.1f kW",
			CToF(t), line.LoadAt(t)/1000, d, res.RatedHeatingCapW*d/1000)
	}

	return res
}
