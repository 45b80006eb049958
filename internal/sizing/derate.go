package sizing

// DerateCurve is a biquadratic heating-capacity retention curve:
//
//	f(i, o) = c0 + c1·i + c2·i² + c3·o + c4·o² + c5·i·o
//
// where i is the indoor and o the outdoor dry-bulb in °C. The output is the
// fraction of rated (47°F-basis) heating capacity available at that
// condition.
type DerateCurve struct {
	coeffs [6]float64
}

// DefaultHeatingDerate carries the manufacturer performance-map coefficients.
// The numbers are an opaque constant table; do not "fix" them.
func DefaultHeatingDerate() DerateCurve {
	return DerateCurve{coeffs: [6]float64{
		0.876825,
		-0.002955,
		-0.000058,
		0.025335,
		0.000196,
		-0.000043,
	}}
}

// Derate returns the available fraction of rated heating capacity.
//
// Below the lockout temperature the compressor is off and the result is 0;
// the polynomial is never extrapolated into that regime. At the 47°F rating
// point the result is exactly 1, overriding curve evaluation so the rated
// condition reproduces the rated capacity bit-for-bit.
func (c DerateCurve) Derate(indoorC, outdoorC float64) float64 {
	if outdoorC < LockoutOutdoorC {
		return 0
	}
	if outdoorC == RatedOutdoorC {
		return 1
	}
	i, o := indoorC, outdoorC
	return c.coeffs[0] +
		c.coeffs[1]*i +
		c.coeffs[2]*i*i +
		c.coeffs[3]*o +
		c.coeffs[4]*o*o +
		c.coeffs[5]*i*o
}
