package sizing

import (
	"reflect"
	"strings"
	"testing"
)

func assertEnvelope(t *testing.T, table StageTable) {
	t.Helper()
	for _, st := range table.Stages {
		if !st.Enabled {
			continue
		}
		r := st.Ratio()
		if r < MinFlowPerCapacity-1e-12 || r > MaxFlowPerCapacity+1e-12 {
			t.Errorf("stage %d enabled with ratio %v outside [%v, %v]",
				st.Index, r, MinFlowPerCapacity, MaxFlowPerCapacity)
		}
	}
}

func TestDiscretizeCleanTable(t *testing.T) {
	table := Discretize(20000, 1.0, 0.2, CoolingFractions())

	wantCaps := []float64{7200, 10200, 13400, 20000}
	wantFlows := []float64{0.40, 0.60, 0.80, 1.00}
	for i, st := range table.Stages {
		if !st.Enabled {
			t.Errorf("stage %d disabled, want enabled", st.Index)
		}
		if !almostEqual(st.CapacityW, wantCaps[i], 1e-9) {
			t.Errorf("stage %d capacity = %v, want %v", st.Index, st.CapacityW, wantCaps[i])
		}
		if !almostEqual(st.AirflowM3s, wantFlows[i], 1e-9) {
			t.Errorf("stage %d airflow = %v, want %v", st.Index, st.AirflowM3s, wantFlows[i])
		}
	}
	if len(table.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", table.Warnings)
	}
	assertEnvelope(t, table)
}

func TestDiscretizeDisablesSmallCorrectionStages(t *testing.T) {
	// A higher airflow floor pushes the lower stages just above the envelope.
	// Each required boost closes well under half the gap to the stage above,
	// so stages 1-3 are dropped; the top stage is untouched.
	table := Discretize(20000, 1.0, 0.3, CoolingFractions())

	if !table.Stages[3].Enabled {
		t.Fatal("stage 4 must always be retained")
	}
	if !almostEqual(table.Stages[3].CapacityW, 20000, 1e-9) {
		t.Errorf("stage 4 capacity = %v, want 20000", table.Stages[3].CapacityW)
	}
	for i := 0; i < 3; i++ {
		if table.Stages[i].Enabled {
			t.Errorf("stage %d enabled, want disabled", i+1)
		}
	}
	if len(table.Warnings) != 3 {
		t.Errorf("expected 3 warnings, got %d: %v", len(table.Warnings), table.Warnings)
	}
	assertEnvelope(t, table)
}

func TestDiscretizeBoostsLargeCorrectionStages(t *testing.T) {
	// A narrow, high airflow range: every stage needs a boost that closes
	// more than half the gap to the repaired stage above, so all four get
	// raised onto the envelope boundary and stay enabled.
	table := Discretize(20000, 1.3, 1.2, CoolingFractions())

	wantCaps := []float64{
		1.225 / MaxFlowPerCapacity, // 20278.9
		1.250 / MaxFlowPerCapacity, // 20692.6
		1.275 / MaxFlowPerCapacity, // 21106.4
		1.300 / MaxFlowPerCapacity, // 21519.6
	}
	for i, st := range table.Stages {
		if !st.Enabled {
			t.Errorf("stage %d disabled, want enabled", st.Index)
		}
		if !almostEqual(st.CapacityW, wantCaps[i], 0.5) {
			t.Errorf("stage %d capacity = %v, want %v", st.Index, st.CapacityW, wantCaps[i])
		}
	}
	if len(table.Warnings) != 4 {
		t.Errorf("expected 4 warnings, got %d: %v", len(table.Warnings), table.Warnings)
	}
	assertEnvelope(t, table)
}

func TestDiscretizeTrimsLowRatioStage(t *testing.T) {
	// Heating fractions put stage 3 at 85% of rated; with this airflow range
	// its ratio falls below the envelope and capacity is pulled down to the
	// bound. Stage 1 sits slightly above the envelope but its boost would
	// close only a sliver of the gap to stage 2, so it is dropped.
	table := Discretize(20000, 0.81, 0.2, HeatingFractions())

	if want := 0.6575 / MinFlowPerCapacity; !almostEqual(table.Stages[2].CapacityW, want, 0.5) {
		t.Errorf("stage 3 capacity = %v, want %v", table.Stages[2].CapacityW, want)
	}
	if table.Stages[0].Enabled {
		t.Error("stage 1 enabled, want disabled")
	}
	for _, st := range table.Stages[1:] {
		if !st.Enabled {
			t.Errorf("stage %d disabled, want enabled", st.Index)
		}
	}
	assertEnvelope(t, table)
}

func TestDiscretizeTopStageAlwaysBoosted(t *testing.T) {
	// Airflow 1.0 m3/s against 10 kW is far above the envelope; on the top
	// stage the repair is always a capacity increase.
	table := Discretize(10000, 1.0, 0.2, CoolingFractions())

	top := table.Stages[3]
	if !top.Enabled {
		t.Fatal("top stage disabled")
	}
	if want := 1.0 / MaxFlowPerCapacity; !almostEqual(top.CapacityW, want, 0.5) {
		t.Errorf("top stage capacity = %v, want %v", top.CapacityW, want)
	}
	assertEnvelope(t, table)
}

func TestDiscretizeTopStageLowRatioWarns(t *testing.T) {
	// 30 kW behind 1.0 m3/s leaves the top stage under the envelope. Its
	// capacity stays at rated but the condition must show up in the warnings;
	// the lower stages are trimmed down to the bound as usual.
	table := Discretize(30000, 1.0, 0.2, CoolingFractions())

	top := table.Stages[3]
	if !top.Enabled {
		t.Fatal("top stage disabled")
	}
	if !almostEqual(top.CapacityW, 30000, 1e-9) {
		t.Errorf("top stage capacity = %v, want 30000 untouched", top.CapacityW)
	}
	found := false
	for _, w := range table.Warnings {
		if strings.Contains(w, "stage 4") && strings.Contains(w, "top stage capacity left at rated") {
			found = true
		}
	}
	if !found {
		t.Errorf("no top-stage low-ratio warning in %v", table.Warnings)
	}
	if want := 0.8 / MinFlowPerCapacity; !almostEqual(table.Stages[2].CapacityW, want, 0.5) {
		t.Errorf("stage 3 capacity = %v, want %v", table.Stages[2].CapacityW, want)
	}
}

func TestDiscretizeDeterministic(t *testing.T) {
	a := Discretize(20000, 1.0, 0.3, CoolingFractions())
	b := Discretize(20000, 1.0, 0.3, CoolingFractions())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two identical discretize calls produced different results")
	}
}
