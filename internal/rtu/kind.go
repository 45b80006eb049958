package rtu

import (
	"fmt"

	"github.com/fleetretrofit/hprtu/internal/sizing"
)

// EquipmentKind identifies the existing unit's equipment class. It is
// resolved once at the building-model boundary; nothing downstream matches
// on type names.
type EquipmentKind int

const (
	KindUnknown EquipmentKind = iota
	KindGasRTU
	KindElectricRTU
	KindDOAS
)

// Supported reports whether the kind is retrofittable. Dedicated
// outdoor-air units are excluded from applicability.
func (k EquipmentKind) Supported() bool {
	return k == KindGasRTU || k == KindElectricRTU
}

func (k EquipmentKind) String() string {
	switch k {
	case KindGasRTU:
		return "gas_rtu"
	case KindElectricRTU:
		return "electric_rtu"
	case KindDOAS:
		return "doas"
	default:
		return "unknown"
	}
}

func ParseEquipmentKind(s string) (EquipmentKind, error) {
	switch s {
	case "gas_rtu":
		return KindGasRTU, nil
	case "electric_rtu":
		return KindElectricRTU, nil
	case "doas":
		return KindDOAS, nil
	default:
		return KindUnknown, fmt.Errorf("invalid equipment kind: %q", s)
	}
}

// Fuel is an integer enum.
type Fuel int

const (
	FuelUnknown Fuel = iota
	FuelNaturalGas
	FuelElectricity
)

func (f Fuel) Valid() bool {
	return f == FuelNaturalGas || f == FuelElectricity
}

func (f Fuel) String() string {
	switch f {
	case FuelNaturalGas:
		return "natural_gas"
	case FuelElectricity:
		return "electricity"
	default:
		return "unknown"
	}
}

func ParseFuel(s string) (Fuel, error) {
	switch s {
	case "natural_gas":
		return FuelNaturalGas, nil
	case "electricity":
		return FuelElectricity, nil
	default:
		return FuelUnknown, fmt.Errorf("invalid fuel: %q", s)
	}
}

// BackupHeatScheme selects the supplemental heat source added alongside the
// heat pump.
type BackupHeatScheme int

const (
	BackupUnknown BackupHeatScheme = iota
	BackupMatchOriginal
	BackupElectricResistance
)

func (b BackupHeatScheme) Valid() bool {
	return b == BackupMatchOriginal || b == BackupElectricResistance
}

func (b BackupHeatScheme) String() string {
	switch b {
	case BackupMatchOriginal:
		return "match_original_fuel"
	case BackupElectricResistance:
		return "electric_resistance"
	default:
		return "unknown"
	}
}

func ParseBackupHeatScheme(s string) (BackupHeatScheme, error) {
	switch s {
	case "match_original_fuel":
		return BackupMatchOriginal, nil
	case "electric_resistance":
		return BackupElectricResistance, nil
	default:
		return BackupUnknown, fmt.Errorf("invalid backup heat scheme: %q", s)
	}
}

// SizingTempRef is the outdoor reference temperature the heating
// requirement is evaluated at.
type SizingTempRef int

const (
	RefUnknown SizingTempRef = iota
	Ref47F
	Ref17F
	Ref0F
)

func (r SizingTempRef) Valid() bool {
	return r == Ref47F || r == Ref17F || r == Ref0F
}

func (r SizingTempRef) String() string {
	switch r {
	case Ref47F:
		return "47F"
	case Ref17F:
		return "17F"
	case Ref0F:
		return "0F"
	default:
		return "unknown"
	}
}

// TempC is the reference point in °C. 47°F uses the curve's rating-point
// constant so the derate override applies exactly.
func (r SizingTempRef) TempC() float64 {
	switch r {
	case Ref47F:
		return sizing.RatedOutdoorC
	case Ref17F:
		return sizing.FToC(17)
	case Ref0F:
		return sizing.FToC(0)
	default:
		return sizing.FToC(0)
	}
}

func ParseSizingTempRef(s string) (SizingTempRef, error) {
	switch s {
	case "47F":
		return Ref47F, nil
	case "17F":
		return Ref17F, nil
	case "0F":
		return Ref0F, nil
	default:
		return RefUnknown, fmt.Errorf("invalid sizing temperature: %q", s)
	}
}
