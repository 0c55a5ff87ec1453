package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCO2RoundTrip(t *testing.T) {
	temps := []float64{0, 5, 15, 20, 25, 30, 40}
	ppms := []float64{300, 400, 800, 1200, 2000}
	for _, temp := range temps {
		for _, ppm := range ppms {
			density := CO2PPMToDensity(temp, ppm)
			back := CO2DensityToPPM(temp, density)
			assert.InDelta(t, ppm, back, 1e-9)
		}
	}
}

func TestCO2DensityKnownValue(t *testing.T) {
	// 400 ppm at 20 °C: 400 * 44.01e-3 * 101325 / (8.3144598 * 293.15)
	density := CO2PPMToDensity(20, 400)
	assert.InDelta(t, 731.8, density, 0.5)
}

func TestHumidityRoundTrip(t *testing.T) {
	temps := []float64{5, 10, 15, 20, 25, 30}
	rhs := []float64{10, 30, 50, 70, 90, 100}
	for _, temp := range temps {
		for _, rh := range rhs {
			pressure := RHToVaporPressure(temp, rh)
			back := VaporPressureToRH(temp, pressure)
			assert.InDelta(t, rh, back, 1e-9)
		}
	}
}

func TestVaporDensityPressureInverse(t *testing.T) {
	for _, temp := range []float64{5, 15, 25} {
		density := RHToVaporDensity(temp, 60)
		pressure := VaporDensityToPressure(temp, density)
		assert.InDelta(t, density, pressure*18.01528e-3/(8.3144598*(temp+273.15)), 1e-12)
	}
}

func TestSaturationVaporPressureMonotone(t *testing.T) {
	prev := SaturationVaporPressure(0)
	for temp := 1.0; temp <= 40; temp++ {
		cur := SaturationVaporPressure(temp)
		assert.Greater(t, cur, prev)
		prev = cur
	}
}

func TestSaturationAt100Percent(t *testing.T) {
	// at 100% RH the vapor pressure equals the saturation pressure
	for _, temp := range []float64{10, 20, 30} {
		assert.InDelta(t, SaturationVaporPressure(temp), RHToVaporPressure(temp, 100), 1e-9)
	}
}
