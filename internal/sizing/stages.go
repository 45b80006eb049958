package sizing

// Stage is one discrete compressor/fan operating point. Index is 1-based,
// ascending capacity; stage 4 is the full-capacity point.
type Stage struct {
	Index      int
	CapacityW  float64
	AirflowM3s float64
	Enabled    bool
}

// Ratio is airflow per watt of capacity, the quantity the physical
// operating-envelope bounds apply to.
func (s Stage) Ratio() float64 {
	return s.AirflowM3s / s.CapacityW
}

// StageTable is the result of discretizing one mode (heating or cooling).
type StageTable struct {
	Stages   [4]Stage
	Warnings Rationale
}

// CoolingFractions and HeatingFractions are the per-stage fractions of rated
// capacity for typical four-stage DX equipment.
func CoolingFractions() [4]float64 { return [4]float64{0.36, 0.51, 0.67, 1.00} }
func HeatingFractions() [4]float64 { return [4]float64{0.28, 0.48, 0.85, 1.00} }

// Discretize splits a rated capacity into four stages. Airflow runs from
// minFlow to fullFlow in four equal increments (stage i gets
// minFlow + i/4 of the range, so stage 4 is full airflow), then each stage
// is checked against the airflow-per-capacity envelope and repaired where it
// violates.
//
// Repair walks stage 4 down to stage 1 so that a correction never
// invalidates an already-validated higher stage; the gap comparison below
// always sees the repaired capacity of the stage above.
//
//   - ratio above MaxFlowPerCapacity: the stage moves too much air for its
//     capacity and the airflow floor cannot drop below the ventilation
//     minimum, so the only fixes are a capacity boost or dropping the stage.
//     The boost is applied when it closes more than half the capacity gap to
//     the next stage up (always, for the top stage); a smaller correction
//     disables the stage instead. Stage 4 is never disabled.
//   - ratio below MinFlowPerCapacity: capacity is pulled down to the bound
//     on non-top stages (airflow stays put); the top stage keeps its rated
//     capacity and the condition is reported as a warning.
//
// Every adjustment lands in Warnings with the stage, the offending ratio and
// the action taken.
func Discretize(ratedCapW, fullFlow, minFlow float64, fractions [4]float64) StageTable {
	var t StageTable

	flowStep := (fullFlow - minFlow) / 4
	for i := 0; i < 4; i++ {
		t.Stages[i] = Stage{
			Index:      i + 1,
			CapacityW:  ratedCapW * fractions[i],
			AirflowM3s: minFlow + float64(i+1)*flowStep,
			Enabled:    true,
		}
	}

	for i := 3; i >= 0; i-- {
		st := t.Stages[i]
		top := i == 3

		switch ratio := st.Ratio(); {
		case ratio > MaxFlowPerCapacity:
			need := st.AirflowM3s / MaxFlowPerCapacity
			boost := need - st.CapacityW
			if top {
				t.Stages[i].CapacityW = need
				t.Warnings.Addf("stage %d: ratio %.3e m3/s/W above %.3e; top stage capacity raised %.1f -> %.1f kW",
					st.Index, ratio, MaxFlowPerCapacity, st.CapacityW/1000, need/1000)
				break
			}
			gap := t.Stages[i+1].CapacityW - st.CapacityW
			if boost > 0.5*gap {
				t.Stages[i].CapacityW = need
				t.Warnings.Addf("stage %d: ratio %.3e m3/s/W above %.3e; capacity raised %.1f -> %.1f kW (closes more than half the gap to stage %d)",
					st.Index, ratio, MaxFlowPerCapacity, st.CapacityW/1000, need/1000, st.Index+1)
			} else {
				t.Stages[i].Enabled = false
				t.Warnings.Addf("stage %d: ratio %.3e m3/s/W above %.3e and the required capacity increase closes no more than half the gap to stage %d; stage disabled (airflow floor is the ventilation minimum)",
					st.Index, ratio, MaxFlowPerCapacity, st.Index+1)
			}

		case ratio < MinFlowPerCapacity:
			if top {
				t.Warnings.Addf("stage %d: ratio %.3e m3/s/W below %.3e; top stage capacity left at rated",
					st.Index, ratio, MinFlowPerCapacity)
				break
			}
			need := st.AirflowM3s / MinFlowPerCapacity
			t.Stages[i].CapacityW = need
			t.Warnings.Addf("stage %d: ratio %.3e m3/s/W below %.3e; capacity adjusted %.1f -> %.1f kW",
				st.Index, ratio, MinFlowPerCapacity, st.CapacityW/1000, need/1000)
		}
	}

	return t
}
