package app

import (
	"fmt"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/fleetretrofit/hprtu/internal/rtu"
)

const envPrefix = "HPRTU_"

type Config struct {
	ServiceID string    `koanf:"service_id"`
	Log       LogConfig `koanf:"log"`

	Controllers struct {
		HTTP HTTPConfig `koanf:"http"`
		MQTT MQTTConfig `koanf:"mqtt"`
	} `koanf:"controllers"`

	Sizing  SizingConfig  `koanf:"sizing"`
	Weather WeatherConfig `koanf:"weather"`
}

type LogConfig struct {
	Level string `koanf:"level"` // "debug" | "info" | "warn" | "error"
}

type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type MQTTConfig struct {
	Enabled       bool   `koanf:"enabled"`
	BrokerURL     string `koanf:"broker_url"`
	ClientID      string `koanf:"client_id"`
	BaseTopic     string `koanf:"base_topic"`
	QoS           byte   `koanf:"qos"`
	RetainResults bool   `koanf:"retain_results"`
	Username      string `koanf:"username"`
	Password      string `koanf:"password"`
}

// SizingConfig carries the per-unit option defaults. A unit spec can
// override any of them.
type SizingConfig struct {
	Workers                     int     `koanf:"workers"`
	BackupHeat                  string  `koanf:"backup_heat"`
	SizingTemperature           string  `koanf:"sizing_temperature"`
	PerformanceOversizingFactor float64 `koanf:"performance_oversizing_factor"`
	CoolingOversizingEstimate   float64 `koanf:"cooling_oversizing_estimate"`
	HtgToClgRatio               float64 `koanf:"htg_to_clg_ratio"`
}

type WeatherConfig struct {
	DesignDayCSV string  `koanf:"design_day_csv"`
	Coverage     float64 `koanf:"coverage"`
}

func defaults() Config {
	var cfg Config
	cfg.ServiceID = "default"
	cfg.Log.Level = "info"
	cfg.Controllers.HTTP.Addr = ":8080"
	cfg.Sizing.Workers = 4
	cfg.Sizing.BackupHeat = "electric_resistance"
	cfg.Sizing.SizingTemperature = "0F"
	cfg.Sizing.CoolingOversizingEstimate = 1.0
	cfg.Sizing.HtgToClgRatio = 1.0
	return cfg
}

// LoadConfig layers defaults, then the config file (optional), then
// HPRTU_* environment variables.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Config{}, fmt.Errorf("load config %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if !cfg.Controllers.HTTP.Enabled && !cfg.Controllers.MQTT.Enabled {
		cfg.Controllers.HTTP.Enabled = true
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return kyaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config extension %q", ext)
	}
}

// envKeyTransform maps HPRTU_CONTROLLERS_HTTP_ADDR to controllers.http.addr.
// Field names contain underscores themselves, so only the known section
// prefixes become dots.
func envKeyTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	for _, section := range []string{
		"controllers_http", "controllers_mqtt", "log", "sizing", "weather",
	} {
		if strings.HasPrefix(key, section+"_") {
			field := strings.TrimPrefix(key, section+"_")
			return strings.ReplaceAll(section, "_", ".") + "." + field, value
		}
	}
	return key, value
}

// Options resolves the configured per-unit defaults into rtu.Options.
func (c Config) Options() (rtu.Options, error) {
	backup, err := rtu.ParseBackupHeatScheme(c.Sizing.BackupHeat)
	if err != nil {
		return rtu.Options{}, err
	}
	ref, err := rtu.ParseSizingTempRef(c.Sizing.SizingTemperature)
	if err != nil {
		return rtu.Options{}, err
	}
	return rtu.Options{
		Backup:                      backup,
		SizingTempRef:               ref,
		PerformanceOversizingFactor: c.Sizing.PerformanceOversizingFactor,
		CoolingOversizingEstimate:   c.Sizing.CoolingOversizingEstimate,
		HtgToClgRatio:               c.Sizing.HtgToClgRatio,
	}, nil
}
