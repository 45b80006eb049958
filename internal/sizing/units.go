package sizing

// Unit conventions: temperatures are °C and capacities are W everywhere
// inside the package. °F and tons appear only in rationale messages.

const (
	// WattsPerTon converts W to tons of refrigeration.
	WattsPerTon = 3516.85

	// RatedOutdoorC is the AHRI 47°F rating-point outdoor dry-bulb.
	RatedOutdoorC = 8.33

	// ZeroLoadTempC is the assumed no-heating-load outdoor temperature (60°F).
	ZeroLoadTempC = 15.556

	// LockoutOutdoorC is the compressor low-temperature lockout (0°F).
	// Below this the heat pump delivers nothing.
	LockoutOutdoorC = -17.78

	// DefaultIndoorHeatingC is the indoor dry-bulb used when evaluating the
	// derate curve for heating (70°F heating design condition).
	DefaultIndoorHeatingC = 21.11

	// MinFlowPerCapacity and MaxFlowPerCapacity bound the airflow-to-capacity
	// ratio of real multi-speed DX equipment, in m³/s per W
	// (roughly 300 and 450 CFM/ton).
	MinFlowPerCapacity = 4.027e-5
	MaxFlowPerCapacity = 6.041e-5
)

func CToF(c float64) float64 { return c*9.0/5.0 + 32.0 }

func FToC(f float64) float64 { return (f - 32.0) * 5.0 / 9.0 }

func WToTons(w float64) float64 { return w / WattsPerTon }
