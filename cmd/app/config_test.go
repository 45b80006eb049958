package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fleetretrofit/hprtu/internal/rtu"
)

func TestEnvKeyTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HPRTU_SERVICE_ID", "service_id"},
		{"HPRTU_LOG_LEVEL", "log.level"},
		{"HPRTU_CONTROLLERS_HTTP_ADDR", "controllers.http.addr"},
		{"HPRTU_CONTROLLERS_MQTT_BROKER_URL", "controllers.mqtt.broker_url"},
		{"HPRTU_CONTROLLERS_MQTT_BASE_TOPIC", "controllers.mqtt.base_topic"},
		{"HPRTU_SIZING_HTG_TO_CLG_RATIO", "sizing.htg_to_clg_ratio"},
		{"HPRTU_WEATHER_DESIGN_DAY_CSV", "weather.design_day_csv"},
	}

	for _, tt := range tests {
		got, _ := envKeyTransform(tt.in, "x")
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ServiceID != "default" {
		t.Fatalf("expected service_id=default, got %q", cfg.ServiceID)
	}
	if cfg.Controllers.HTTP.Addr != ":8080" {
		t.Fatalf("expected addr :8080, got %q", cfg.Controllers.HTTP.Addr)
	}
	if !cfg.Controllers.HTTP.Enabled {
		t.Fatal("expected HTTP enabled when no controller is configured")
	}
	if cfg.Sizing.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.Sizing.Workers)
	}
	if cfg.Sizing.CoolingOversizingEstimate != 1.0 || cfg.Sizing.HtgToClgRatio != 1.0 {
		t.Fatalf("unexpected sizing defaults: %+v", cfg.Sizing)
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `service_id: fleet01
controllers:
  mqtt:
    enabled: true
    broker_url: tcp://broker:1883
sizing:
  backup_heat: match_original_fuel
  sizing_temperature: 17F
  performance_oversizing_factor: 0.25
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ServiceID != "fleet01" {
		t.Fatalf("expected service_id=fleet01, got %q", cfg.ServiceID)
	}
	if !cfg.Controllers.MQTT.Enabled || cfg.Controllers.MQTT.BrokerURL != "tcp://broker:1883" {
		t.Fatalf("unexpected mqtt config: %+v", cfg.Controllers.MQTT)
	}
	if cfg.Controllers.HTTP.Enabled {
		t.Fatal("expected HTTP disabled when MQTT is configured")
	}
	// File overrides merge over defaults.
	if cfg.Sizing.HtgToClgRatio != 1.0 {
		t.Fatalf("expected default htg_to_clg_ratio kept, got %v", cfg.Sizing.HtgToClgRatio)
	}
	if cfg.Sizing.PerformanceOversizingFactor != 0.25 {
		t.Fatalf("expected performance_oversizing_factor=0.25, got %v", cfg.Sizing.PerformanceOversizingFactor)
	}
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"service_id": "fleet02", "controllers": {"http": {"enabled": true, "addr": ":9090"}}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServiceID != "fleet02" || cfg.Controllers.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("HPRTU_SERVICE_ID", "from-env")
	t.Setenv("HPRTU_CONTROLLERS_HTTP_ADDR", ":7070")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServiceID != "from-env" {
		t.Fatalf("expected service_id=from-env, got %q", cfg.ServiceID)
	}
	if cfg.Controllers.HTTP.Addr != ":7070" {
		t.Fatalf("expected addr :7070, got %q", cfg.Controllers.HTTP.Addr)
	}
}

func TestOptions(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Backup != rtu.BackupElectricResistance {
		t.Fatalf("expected electric_resistance backup, got %v", opts.Backup)
	}
	if opts.SizingTempRef != rtu.Ref0F {
		t.Fatalf("expected 0F sizing temperature, got %v", opts.SizingTempRef)
	}

	cfg.Sizing.BackupHeat = "propane"
	if _, err := cfg.Options(); err == nil {
		t.Fatal("expected error for unknown backup heat scheme")
	}
}
