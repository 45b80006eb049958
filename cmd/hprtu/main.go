package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fleetretrofit/hprtu/cmd/app"
	httpctrl "github.com/fleetretrofit/hprtu/internal/controllers/http"
	mqttctrl "github.com/fleetretrofit/hprtu/internal/controllers/mqtt"
	"github.com/fleetretrofit/hprtu/internal/ingest"
	"github.com/fleetretrofit/hprtu/internal/metrics"
	"github.com/fleetretrofit/hprtu/internal/report"
	"github.com/fleetretrofit/hprtu/internal/rtu"
	"github.com/fleetretrofit/hprtu/internal/weather"
)

func main() {
	var (
		configPath string
		unitsPath  string
		pdfDir     string
	)
	flag.StringVar(&configPath, "config", "", "path to config file (.yaml/.yml/.json)")
	flag.StringVar(&unitsPath, "units", "", "size a batch file (.yaml/.xlsx) and exit")
	flag.StringVar(&pdfDir, "pdf-dir", "", "with -units, write one PDF report per unit here")
	flag.Parse()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log.Level)

	opts, err := cfg.Options()
	if err != nil {
		log.Error("invalid sizing defaults", "err", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector("hprtu")
	svc := rtu.NewService(opts, cfg.Sizing.Workers, log, collector)

	if unitsPath != "" {
		if err := runBatch(cfg, svc, log, unitsPath, pdfDir); err != nil {
			log.Error("batch failed", "err", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 2)
	running := 0

	if cfg.Controllers.HTTP.Enabled {
		srv := httpctrl.New(svc, cfg.Controllers.HTTP.Addr, cfg.ServiceID, collector)
		running++
		go func() { errCh <- srv.Run(ctx) }()
		log.Info("http listening", "addr", cfg.Controllers.HTTP.Addr)
	}
	if cfg.Controllers.MQTT.Enabled {
		m := cfg.Controllers.MQTT
		ctrl, err := mqttctrl.New(svc, mqttctrl.Config{
			ServiceID:     cfg.ServiceID,
			BrokerURL:     m.BrokerURL,
			ClientID:      m.ClientID,
			BaseTopic:     m.BaseTopic,
			QoS:           m.QoS,
			RetainResults: m.RetainResults,
			Username:      m.Username,
			Password:      m.Password,
		})
		if err != nil {
			log.Error("mqtt controller", "err", err)
			os.Exit(1)
		}
		running++
		go func() { errCh <- ctrl.Run(ctx) }()
		log.Info("mqtt connecting", "broker", m.BrokerURL)
	}

	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			log.Error("controller exited", "err", err)
			cancel()
		}
	}
}

// runBatch sizes a whole batch file in one shot.
func runBatch(cfg app.Config, svc *rtu.Service, log *slog.Logger, unitsPath, pdfDir string) error {
	// Units without an explicit winter design temperature get it from the
	// configured weather record.
	var designC *float64
	if cfg.Weather.DesignDayCSV != "" {
		v, err := designTemp(cfg.Weather)
		if err != nil {
			return err
		}
		log.Info("weather design temperature", "temp_c", v)
		designC = &v
	}

	units, err := loadUnits(unitsPath, svc.Defaults(), designC)
	if err != nil {
		return err
	}

	res := svc.SizeBatch(units)
	if err := printBatch(os.Stdout, res); err != nil {
		return err
	}
	if res.NoOp() {
		return nil
	}

	if pdfDir != "" {
		if err := os.MkdirAll(pdfDir, 0o755); err != nil {
			return err
		}
		for _, r := range res.Results {
			if err := writeReport(pdfDir, r); err != nil {
				return err
			}
		}
		log.Info("reports written", "dir", pdfDir, "count", len(res.Results))
	}
	return nil
}

func loadUnits(path string, base rtu.Options, designTempC *float64) ([]rtu.UnitInputs, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ingest.LoadUnitsYAML(path, base, designTempC)
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		units, bad, err := ingest.ParseWorkbook(f, base, designTempC)
		if err != nil {
			return nil, err
		}
		for _, b := range bad {
			fmt.Fprintf(os.Stderr, "row %d skipped: %v\n", b.Row, b.Err)
		}
		return units, nil
	default:
		return nil, fmt.Errorf("unsupported units file extension %q", ext)
	}
}

func designTemp(w app.WeatherConfig) (float64, error) {
	f, err := os.Open(w.DesignDayCSV)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	temps, err := weather.ReadDryBulbCSV(f)
	if err != nil {
		return 0, err
	}
	coverage := w.Coverage
	if coverage == 0 {
		coverage = weather.DefaultHeatingCoverage
	}
	return weather.HeatingDesignTemp(temps, coverage)
}

// ---- stdout JSON ----

type stageOut struct {
	Index      int     `json:"index"`
	CapacityW  float64 `json:"capacity_w"`
	AirflowM3s float64 `json:"airflow_m3s"`
	Enabled    bool    `json:"enabled"`
}

type unitOut struct {
	Name             string     `json:"name"`
	Branch           string     `json:"branch"`
	RatedCoolingCapW float64    `json:"rated_cooling_cap_w"`
	RatedHeatingCapW float64    `json:"rated_heating_cap_w"`
	ShortfallW       float64    `json:"shortfall_w"`
	HeatingStages    []stageOut `json:"heating_stages"`
	CoolingStages    []stageOut `json:"cooling_stages"`
	BackupFuel       string     `json:"backup_fuel"`
	BackupCapacityW  float64    `json:"backup_capacity_w"`
	Rationale        []string   `json:"rationale"`
}

type batchOut struct {
	RunID    string    `json:"run_id"`
	NoOp     bool      `json:"no_op"`
	Results  []unitOut `json:"results"`
	Excluded []struct {
		Name  string `json:"name"`
		Error string `json:"error"`
	} `json:"excluded"`
}

func printBatch(w io.Writer, res rtu.BatchResult) error {
	out := batchOut{RunID: res.RunID, NoOp: res.NoOp()}
	for _, r := range res.Results {
		u := unitOut{
			Name:             r.Name,
			Branch:           r.Sizing.Branch.String(),
			RatedCoolingCapW: r.Sizing.RatedCoolingCapW,
			RatedHeatingCapW: r.Sizing.RatedHeatingCapW,
			ShortfallW:       r.Sizing.ShortfallW,
			BackupFuel:       r.BackupFuel.String(),
			BackupCapacityW:  r.BackupCapacityW,
			Rationale:        []string(r.Rationale),
		}
		for _, st := range r.HeatingStages {
			u.HeatingStages = append(u.HeatingStages, stageOut{st.Index, st.CapacityW, st.AirflowM3s, st.Enabled})
		}
		for _, st := range r.CoolingStages {
			u.CoolingStages = append(u.CoolingStages, stageOut{st.Index, st.CapacityW, st.AirflowM3s, st.Enabled})
		}
		out.Results = append(out.Results, u)
	}
	for _, e := range res.Excluded {
		out.Excluded = append(out.Excluded, struct {
			Name  string `json:"name"`
			Error string `json:"error"`
		}{e.Name, e.Err.Error()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeReport(dir string, res rtu.UnitResult) error {
	name := strings.ReplaceAll(res.Name, string(os.PathSeparator), "_")
	f, err := os.Create(filepath.Join(dir, name+".pdf"))
	if err != nil {
		return err
	}
	defer f.Close()
	return report.WritePDF(f, res)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
