package electrical

import "math"

// Temperature model. Panel datasheet values are given at STC (25 °C cell).
const (
	// STCTemperatureC is the cell temperature of datasheet (STC) values.
	STCTemperatureC = 25.0

	// CellOverAmbientC is added to the hottest ambient temperature to
	// estimate the worst-case cell temperature used for Vmp-at-hot.
	CellOverAmbientC = 35.0

	// DefaultTempCoeffVoc is used when a panel datasheet has no Voc
	// temperature coefficient (%/°C).
	DefaultTempCoeffVoc = -0.26

	// DefaultTempMinC and DefaultTempMaxAmbC are the worst-case operating
	// points used when no climate data is available.
	DefaultTempMinC    = -10.0
	DefaultTempMaxAmbC = 35.0
)

// Safety factors.
const (
	// IscSafetyFactor multiplies the short-circuit current for DC checks.
	IscSafetyFactor = 1.25

	// BreakerSafetyFactor multiplies the nominal AC current to estimate the
	// smallest protective device rating.
	BreakerSafetyFactor = 1.25
)

// Grid and conductor constants.
const (
	// MonoVoltage is the single-phase nominal voltage (V).
	MonoVoltage = 230.0

	// TriVoltage is the three-phase line-to-line nominal voltage (V).
	TriVoltage = 400.0

	// CopperResistivity in Ω·mm²/m, warm conductor value.
	CopperResistivity = 0.023

	// MinSectionMm2 floors a cable section before dividing by it.
	MinSectionMm2 = 0.1
)

// Sqrt3 is the three-phase line factor.
var Sqrt3 = math.Sqrt(3)

// Voltage drop targets, in percent of nominal voltage.
const (
	// AcDropTargetPercent is the design target for the AC link and micro
	// branches. Above it a warning is raised.
	AcDropTargetPercent = 1.0

	// AcDropLimitPercent is the hard limit for the AC link; export is
	// blocked above it.
	AcDropLimitPercent = 3.0

	// DcDropTargetPercent is the design target for DC string runs.
	DcDropTargetPercent = 1.0
)

// Classification thresholds.
const (
	// MicroInputVoltageThreshold separates micro-inverter DC windows from
	// string-inverter windows: below it the device is a micro-inverter.
	MicroInputVoltageThreshold = 100.0

	// TriPowerThresholdW is the AC power above which an inverter without an
	// explicit family is assumed three-phase.
	TriPowerThresholdW = 6000.0
)

// Packaging.
const (
	// AcCoilLengthM is the coil length of AC cable in the catalog.
	AcCoilLengthM = 50.0

	// DcCoilLengthM is the coil length of DC solar cable in the catalog.
	DcCoilLengthM = 100.0
)
