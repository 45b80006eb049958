package ports

import "github.com/fleetretrofit/hprtu/internal/rtu"

// SizingService is the sizing port used by controllers (HTTP/MQTT/CLI).
type SizingService interface {
	Defaults() rtu.Options
	SizeUnit(rtu.UnitInputs) (rtu.UnitResult, error)
	SizeBatch([]rtu.UnitInputs) rtu.BatchResult
}
