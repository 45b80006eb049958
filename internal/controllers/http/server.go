package httpctrl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleetretrofit/hprtu/internal/ingest"
	"github.com/fleetretrofit/hprtu/internal/metrics"
	"github.com/fleetretrofit/hprtu/internal/ports"
	"github.com/fleetretrofit/hprtu/internal/report"
	"github.com/fleetretrofit/hprtu/internal/rtu"
	"github.com/fleetretrofit/hprtu/internal/sizing"
)

type Server struct {
	svc       ports.SizingService
	srv       *http.Server
	serviceID string
	collector *metrics.Collector
}

// New returns a runnable server. collector may be nil.
func New(svc ports.SizingService, addr string, serviceID string, collector *metrics.Collector) *Server {
	mux := http.NewServeMux()
	s := &Server{svc: svc, serviceID: serviceID, collector: collector}

	mux.HandleFunc("POST /v1/size", s.instrument("size", s.handleSize))
	mux.HandleFunc("POST /v1/size/batch", s.instrument("size_batch", s.handleSizeBatch))
	mux.HandleFunc("POST /v1/size/workbook", s.instrument("size_workbook", s.handleSizeWorkbook))
	mux.HandleFunc("POST /v1/report", s.instrument("report", s.handleReport))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// ---- DTOs ----

type stageDTO struct {
	Index      int     `json:"index"`
	CapacityW  float64 `json:"capacity_w"`
	AirflowM3s float64 `json:"airflow_m3s"`
	Enabled    bool    `json:"enabled"`
}

type resultDTO struct {
	ServiceID string `json:"service_id,omitempty"`
	Name      string `json:"name"`

	Branch                string  `json:"branch"`
	RatedCoolingCapW      float64 `json:"rated_cooling_cap_w"`
	RatedHeatingCapW      float64 `json:"rated_heating_cap_w"`
	RequiredRatedHeatingW float64 `json:"required_rated_heating_w"`
	ShortfallW            float64 `json:"shortfall_w"`

	HeatingStages []stageDTO `json:"heating_stages"`
	CoolingStages []stageDTO `json:"cooling_stages"`

	BackupFuel      string  `json:"backup_fuel"`
	BackupCapacityW float64 `json:"backup_capacity_w"`

	EnergyRecovery              bool `json:"energy_recovery"`
	DemandControlledVentilation bool `json:"demand_controlled_ventilation"`
	Economizer                  bool `json:"economizer"`

	Rationale []string `json:"rationale"`
}

type excludedDTO struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type batchDTO struct {
	ServiceID string        `json:"service_id,omitempty"`
	RunID     string        `json:"run_id"`
	NoOp      bool          `json:"no_op"`
	Results   []resultDTO   `json:"results"`
	Excluded  []excludedDTO `json:"excluded"`
}

func toStageDTOs(stages [4]sizing.Stage) []stageDTO {
	out := make([]stageDTO, 0, len(stages))
	for _, st := range stages {
		out = append(out, stageDTO{
			Index:      st.Index,
			CapacityW:  st.CapacityW,
			AirflowM3s: st.AirflowM3s,
			Enabled:    st.Enabled,
		})
	}
	return out
}

func toDTO(res rtu.UnitResult) resultDTO {
	return resultDTO{
		Name:                        res.Name,
		Branch:                      res.Sizing.Branch.String(),
		RatedCoolingCapW:            res.Sizing.RatedCoolingCapW,
		RatedHeatingCapW:            res.Sizing.RatedHeatingCapW,
		RequiredRatedHeatingW:       res.Sizing.RequiredRatedHeatingW,
		ShortfallW:                  res.Sizing.ShortfallW,
		HeatingStages:               toStageDTOs(res.HeatingStages),
		CoolingStages:               toStageDTOs(res.CoolingStages),
		BackupFuel:                  res.BackupFuel.String(),
		BackupCapacityW:             res.BackupCapacityW,
		EnergyRecovery:              res.EnergyRecovery,
		DemandControlledVentilation: res.DemandControlledVentilation,
		Economizer:                  res.Economizer,
		Rationale:                   []string(res.Rationale),
	}
}

func toBatchDTO(res rtu.BatchResult) batchDTO {
	dto := batchDTO{
		RunID:    res.RunID,
		NoOp:     res.NoOp(),
		Results:  []resultDTO{},
		Excluded: []excludedDTO{},
	}
	for _, r := range res.Results {
		dto.Results = append(dto.Results, toDTO(r))
	}
	for _, e := range res.Excluded {
		dto.Excluded = append(dto.Excluded, excludedDTO{Name: e.Name, Error: e.Err.Error()})
	}
	return dto
}

// ---- Handlers ----

func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeUnit(w, r)
	if !ok {
		return
	}
	res, err := s.svc.SizeUnit(in)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	dto := toDTO(res)
	dto.ServiceID = s.serviceID
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleSizeBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Units []ingest.UnitSpec `json:"units"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	units := make([]rtu.UnitInputs, 0, len(req.Units))
	var preExcluded []excludedDTO
	for _, spec := range req.Units {
		in, err := spec.ToInputs(s.svc.Defaults())
		if err != nil {
			preExcluded = append(preExcluded, excludedDTO{Name: spec.Name, Error: err.Error()})
			continue
		}
		units = append(units, in)
	}

	dto := toBatchDTO(s.svc.SizeBatch(units))
	dto.Excluded = append(dto.Excluded, preExcluded...)
	dto.NoOp = dto.NoOp && len(preExcluded) == 0
	dto.ServiceID = s.serviceID
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleSizeWorkbook(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "missing form file 'file'")
		return
	}
	defer file.Close()

	units, badRows, err := ingest.ParseWorkbook(file, s.svc.Defaults(), nil)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	dto := toBatchDTO(s.svc.SizeBatch(units))
	for _, b := range badRows {
		dto.Excluded = append(dto.Excluded, excludedDTO{
			Name:  "row " + strconv.Itoa(b.Row),
			Error: b.Err.Error(),
		})
	}
	dto.NoOp = dto.NoOp && len(badRows) == 0
	dto.ServiceID = s.serviceID
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeUnit(w, r)
	if !ok {
		return
	}
	res, err := s.svc.SizeUnit(in)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="sizing_report.pdf"`)
	if err := report.WritePDF(w, res); err != nil {
		writeErr(w, http.StatusInternalServerError, "report generation failed")
	}
}

// ---- generic helpers ----

func (s *Server) decodeUnit(w http.ResponseWriter, r *http.Request) (rtu.UnitInputs, bool) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var spec ingest.UnitSpec
	if err := dec.Decode(&spec); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return rtu.UnitInputs{}, false
	}
	in, err := spec.ToInputs(s.svc.Defaults())
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return rtu.UnitInputs{}, false
	}
	return in, true
}

func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	if s.collector == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.collector.APIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
