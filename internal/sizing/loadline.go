package sizing

import "gonum.org/v1/gonum/stat"

// LoadLine is a linear heating-load-vs-outdoor-temperature model,
// Q(T) = Slope·T + Intercept.
type LoadLine struct {
	Slope     float64
	Intercept float64
}

// NewLoadLine anchors the line on a single design point (the winter
// design-day temperature and the load there) and the fixed no-load
// temperature ZeroLoadTempC. The winter design-day temperature sourced from
// weather data is always colder than the no-load point; a design temperature
// equal to it is rejected rather than divided by.
func NewLoadLine(designTempC, designLoadW float64) (LoadLine, error) {
	if designTempC == ZeroLoadTempC {
		return LoadLine{}, ErrDegenerateLoadLine
	}
	m := (0 - designLoadW) / (ZeroLoadTempC - designTempC)
	b := designLoadW - m*designTempC
	return LoadLine{Slope: m, Intercept: b}, nil
}

// FitLoadLine least-squares fits a line to metered (temperature, load)
// samples, for buildings where trend data is available instead of a single
// design point.
func FitLoadLine(tempsC, loadsW []float64) (LoadLine, error) {
	if len(tempsC) != len(loadsW) {
		return LoadLine{}, ErrSampleLenMismatch
	}
	if len(tempsC) < 2 {
		return LoadLine{}, ErrTooFewSamples
	}
	b, m := stat.LinearRegression(tempsC, loadsW, nil, false)
	return LoadLine{Slope: m, Intercept: b}, nil
}

// LoadAt evaluates the model at an outdoor temperature. Negative results are
// clamped to zero: there is no heating load above the no-load point.
func (l LoadLine) LoadAt(tempC float64) float64 {
	q := l.Slope*tempC + l.Intercept
	if q < 0 {
		return 0
	}
	return q
}
