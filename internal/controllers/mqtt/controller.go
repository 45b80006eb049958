package mqttctrl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/fleetretrofit/hprtu/internal/ingest"
	"github.com/fleetretrofit/hprtu/internal/ports"
	"github.com/fleetretrofit/hprtu/internal/rtu"
	"github.com/fleetretrofit/hprtu/internal/sizing"
)

type Config struct {
	// Identity
	ServiceID string

	// MQTT connection
	BrokerURL string
	ClientID  string

	// Topics
	BaseTopic string

	// Behavior
	QoS           byte
	RetainResults bool

	Username string
	Password string
}

type Controller struct {
	svc ports.SizingService
	cfg Config

	client mqtt.Client
}

func New(svc ports.SizingService, cfg Config) (*Controller, error) {
	// ---- defaults ----

	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}

	if cfg.ServiceID == "" {
		return nil, errors.New("mqtt: ServiceID is required")
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "hprtu/" + cfg.ServiceID
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "hprtu-" + cfg.ServiceID
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	return &Controller{
		svc: svc,
		cfg: cfg,
	}, nil
}

func (c *Controller) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(c.cfg.BrokerURL).
		SetClientID(c.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	// Subscribe when connected/reconnected.
	opts.OnConnect = func(cl mqtt.Client) {
		token := cl.Subscribe(c.topic("size/request"), c.cfg.QoS, c.onMessage)
		token.Wait()
		// If subscribe fails, paho exposes token.Error().
	}

	c.client = mqtt.NewClient(opts)
	tok := c.client.Connect()
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}

	<-ctx.Done()
	c.client.Disconnect(250)
	return ctx.Err()
}

// ---- DTOs ----

type stageDTO struct {
	Index      int     `json:"index"`
	CapacityW  float64 `json:"capacity_w"`
	AirflowM3s float64 `json:"airflow_m3s"`
	Enabled    bool    `json:"enabled"`
}

type resultDTO struct {
	Name                  string     `json:"name"`
	Branch                string     `json:"branch"`
	RatedCoolingCapW      float64    `json:"rated_cooling_cap_w"`
	RatedHeatingCapW      float64    `json:"rated_heating_cap_w"`
	RequiredRatedHeatingW float64    `json:"required_rated_heating_w"`
	ShortfallW            float64    `json:"shortfall_w"`
	HeatingStages         []stageDTO `json:"heating_stages"`
	CoolingStages         []stageDTO `json:"cooling_stages"`
	BackupFuel            string     `json:"backup_fuel"`
	BackupCapacityW       float64    `json:"backup_capacity_w"`
	Rationale             []string   `json:"rationale"`
}

type errorDTO struct {
	Name  string `json:"name"`
	Error string `json:"error"`
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
		Name:                  res.Name,
		Branch:                res.Sizing.Branch.String(),
		RatedCoolingCapW:      res.Sizing.RatedCoolingCapW,
		RatedHeatingCapW:      res.Sizing.RatedHeatingCapW,
		RequiredRatedHeatingW: res.Sizing.RequiredRatedHeatingW,
		ShortfallW:            res.Sizing.ShortfallW,
		HeatingStages:         toStageDTOs(res.HeatingStages),
		CoolingStages:         toStageDTOs(res.CoolingStages),
		BackupFuel:            res.BackupFuel.String(),
		BackupCapacityW:       res.BackupCapacityW,
		Rationale:             []string(res.Rationale),
	}
}

// onMessage handles one sizing request. The payload is a unit spec; the
// result is published to <base>/size/result/<name>, failures to
// <base>/size/error.
func (c *Controller) onMessage(_ mqtt.Client, msg mqtt.Message) {
	spec, err := decodeSpecStrict(msg.Payload())
	if err != nil {
		c.publishError(spec.Name, err)
		return
	}

	in, err := spec.ToInputs(c.svc.Defaults())
	if err != nil {
		c.publishError(spec.Name, err)
		return
	}

	res, err := c.svc.SizeUnit(in)
	if err != nil {
		c.publishError(spec.Name, err)
		return
	}

	b, _ := json.Marshal(toDTO(res))
	c.client.Publish(c.topic("size/result/"+res.Name), c.cfg.QoS, c.cfg.RetainResults, b)
}

func (c *Controller) publishError(name string, err error) {
	b, _ := json.Marshal(errorDTO{Name: name, Error: err.Error()})
	c.client.Publish(c.topic("size/error"), c.cfg.QoS, false, b)
}

func (c *Controller) topic(suffix string) string {
	return strings.TrimRight(c.cfg.BaseTopic, "/") + "/" + suffix
}

func decodeSpecStrict(b []byte) (ingest.UnitSpec, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var spec ingest.UnitSpec
	if err := dec.Decode(&spec); err != nil {
		return spec, err
	}
	return spec, nil
}
