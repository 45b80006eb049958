package rtu

import "errors"

var (
	ErrUnsupportedEquipment = errors.New("unsupported equipment kind")
	ErrNonPositiveCapacity  = errors.New("original capacities must be positive")
	ErrInvalidAirflowRange  = errors.New("terminal max airflow must exceed the minimum outdoor-air airflow")
	ErrDesignTempTooWarm    = errors.New("winter design temperature must be below the zero-load temperature")
	ErrInvalidOptions       = errors.New("invalid sizing options")
)
