package rtu

import (
	"log/slog"
	"time"

	"github.com/fleetretrofit/hprtu/internal/metrics"
)

// Service wraps the pure sizing pipeline with configured option defaults,
// logging and metrics. It is what the transport controllers talk to.
type Service struct {
	defaults Options
	workers  int
	log      *slog.Logger
	metrics  *metrics.Collector
}

// NewService builds a service. log must be non-nil; metrics may be nil.
func NewService(defaults Options, workers int, log *slog.Logger, m *metrics.Collector) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{defaults: defaults, workers: workers, log: log, metrics: m}
}

// Defaults returns the configured per-unit option defaults, used by ingest
// layers to fill unset fields.
func (s *Service) Defaults() Options {
	return s.defaults
}

func (s *Service) applyDefaults(in *UnitInputs) {
	o := &in.Options
	if !o.Backup.Valid() {
		o.Backup = s.defaults.Backup
	}
	if !o.SizingTempRef.Valid() {
		o.SizingTempRef = s.defaults.SizingTempRef
	}
	if o.CoolingOversizingEstimate == 0 {
		o.CoolingOversizingEstimate = s.defaults.CoolingOversizingEstimate
	}
	if o.HtgToClgRatio == 0 {
		o.HtgToClgRatio = s.defaults.HtgToClgRatio
	}
}

func (s *Service) SizeUnit(in UnitInputs) (UnitResult, error) {
	s.applyDefaults(&in)

	start := time.Now()
	res, err := SizeUnit(in)
	if s.metrics != nil {
		s.metrics.SizingDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.UnitsExcludedTotal.Inc()
		}
		s.log.Warn("unit excluded", "unit", in.Name, "err", err)
		return UnitResult{}, err
	}

	if s.metrics != nil {
		s.metrics.UnitsSizedTotal.WithLabelValues(res.Sizing.Branch.String()).Inc()
		for _, st := range res.HeatingStages {
			if !st.Enabled {
				s.metrics.StagesDisabledTotal.Inc()
			}
		}
	}
	s.log.Info("unit sized",
		"unit", in.Name,
		"branch", res.Sizing.Branch.String(),
		"rated_cooling_w", res.Sizing.RatedCoolingCapW,
		"rated_heating_w", res.Sizing.RatedHeatingCapW,
	)
	return res, nil
}

func (s *Service) SizeBatch(units []UnitInputs) BatchResult {
	// Defaults are filled on a copy; the caller's slice stays untouched.
	prepared := make([]UnitInputs, len(units))
	copy(prepared, units)
	for i := range prepared {
		s.applyDefaults(&prepared[i])
	}

	res := SizeBatch(prepared, s.workers)
	if res.NoOp() {
		s.log.Info("no applicable units, nothing to size", "run_id", res.RunID)
		return res
	}

	if s.metrics != nil {
		for _, r := range res.Results {
			s.metrics.UnitsSizedTotal.WithLabelValues(r.Sizing.Branch.String()).Inc()
			for _, st := range r.HeatingStages {
				if !st.Enabled {
					s.metrics.StagesDisabledTotal.Inc()
				}
			}
		}
		for range res.Excluded {
			s.metrics.UnitsExcludedTotal.Inc()
		}
	}
	for _, e := range res.Excluded {
		s.log.Warn("unit excluded", "run_id", res.RunID, "unit", e.Name, "err", e.Err)
	}
	s.log.Info("batch sized", "run_id", res.RunID, "sized", len(res.Results), "excluded", len(res.Excluded))
	return res
}
