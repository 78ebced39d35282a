package electrical

import "math"

// TempCoeffOrDefault returns coeff, or DefaultTempCoeffVoc when it is unset.
func TempCoeffOrDefault(coeff float64) float64 {
	if coeff == 0 {
		return DefaultTempCoeffVoc
	}
	return coeff
}

// CorrectForTemperature applies a linear %/°C coefficient to a STC value:
//
//	v(T) = v_STC × (1 + coeff/100 × (T − 25))
func CorrectForTemperature(stcValue, coeffPercent, cellTempC float64) float64 {
	return stcValue * (1 + (coeffPercent/100)*(cellTempC-STCTemperatureC))
}

// HotCellTemperature returns the worst-case cell temperature for an ambient maximum.
func HotCellTemperature(tempMaxAmbC float64) float64 {
	return tempMaxAmbC + CellOverAmbientC
}

// NominalVoltage returns the nominal AC voltage for the phase arrangement.
func NominalVoltage(threePhase bool) float64 {
	if threePhase {
		return TriVoltage
	}
	return MonoVoltage
}

// NominalCurrent returns the AC line current drawn by powerW.
func NominalCurrent(powerW float64, threePhase bool) float64 {
	if threePhase {
		return powerW / (TriVoltage * Sqrt3)
	}
	return powerW / MonoVoltage
}

// BreakerRating estimates the smallest protective device rating (A) for a
// nominal current, rounded up to the next ampere.
func BreakerRating(currentA float64) float64 {
	return math.Ceil(currentA * BreakerSafetyFactor)
}

// VoltageDrop returns the drop (V) over a copper run of lengthM carrying
// currentA. Single-phase and DC runs use the round-trip factor 2, three-phase
// runs use √3. Negative length or current count as zero.
func VoltageDrop(lengthM, currentA, sectionMm2 float64, threePhase bool) float64 {
	l := math.Max(0, lengthM)
	i := math.Max(0, currentA)
	s := math.Max(MinSectionMm2, sectionMm2)
	factor := 2.0
	if threePhase {
		factor = Sqrt3
	}
	return factor * CopperResistivity * l * i / s
}

// DropPercent expresses dropV relative to voltageV. A non-positive reference
// voltage yields 0.
func DropPercent(dropV, voltageV float64) float64 {
	if voltageV <= 0 {
		return 0
	}
	return dropV / voltageV * 100
}

// SectionForDrop solves the voltage drop formula for the section that keeps
// the drop at targetDropV.
func SectionForDrop(lengthM, currentA, targetDropV float64, threePhase bool) float64 {
	if targetDropV <= 0 {
		return 0
	}
	factor := 2.0
	if threePhase {
		factor = Sqrt3
	}
	return factor * CopperResistivity * lengthM * currentA / targetDropV
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
