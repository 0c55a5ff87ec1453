// Package units holds the physical unit conversions needed to hand the
// interior climate state back to the physics simulator. The simulator works
// with CO2 density (mg m^-3) and vapor pressure (Pa) while the measurement
// side of the system works with concentration (ppm) and relative humidity (%).
package units

import "math"

const (
	// molar gas constant [J mol^-1 K^-1]
	gasConstant = 8.3144598
	// celsius to kelvin offset
	celsiusToKelvin = 273.15
	// molar mass of CO2 [kg mol^-1]
	molarMassCO2 = 44.01e-3
	// molar mass of water [kg mol^-1]
	molarMassWater = 18.01528e-3
	// atmospheric pressure [Pa]
	atmosphericPressure = 101325.0
)

// saturation vapor pressure curve parameters (Magnus form)
const (
	satPressureScale = 610.78
	satPressureCurve = 238.3
	satPressureSlope = 17.2694
)

// SaturationVaporPressure returns the saturation vapor pressure [Pa] of air
// at the given temperature [°C].
func SaturationVaporPressure(temp float64) float64 {
	return satPressureScale * math.Exp(satPressureSlope*temp/(temp+satPressureCurve))
}

// CO2PPMToDensity converts CO2 concentration [ppm] to density [mg m^-3] at
// the given air temperature [°C] and atmospheric pressure.
func CO2PPMToDensity(temp, ppm float64) float64 {
	return ppm * molarMassCO2 * atmosphericPressure / (gasConstant * (temp + celsiusToKelvin))
}

// CO2DensityToPPM is the inverse of CO2PPMToDensity.
func CO2DensityToPPM(temp, density float64) float64 {
	return density * gasConstant * (temp + celsiusToKelvin) / (molarMassCO2 * atmosphericPressure)
}

// RHToVaporDensity converts relative humidity [%] to vapor density [kg m^-3]
// at the given temperature [°C].
func RHToVaporDensity(temp, rh float64) float64 {
	pressure := (rh / 100.0) * SaturationVaporPressure(temp)
	return pressure * molarMassWater / (gasConstant * (temp + celsiusToKelvin))
}

// VaporDensityToPressure converts vapor density [kg m^-3] to vapor pressure
// [Pa] at the given temperature [°C].
func VaporDensityToPressure(temp, vaporDensity float64) float64 {
	return vaporDensity * gasConstant * (temp + celsiusToKelvin) / molarMassWater
}

// VaporPressureToRH converts vapor pressure [Pa] back to relative
// humidity [%] at the given temperature [°C].
func VaporPressureToRH(temp, pressure float64) float64 {
	return 100.0 * pressure / SaturationVaporPressure(temp)
}

// RHToVaporPressure composes RHToVaporDensity and VaporDensityToPressure,
// the conversion applied to the indoor state before each simulator run.
func RHToVaporPressure(temp, rh float64) float64 {
	return VaporDensityToPressure(temp, RHToVaporDensity(temp, rh))
}
