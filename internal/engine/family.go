// Package engine holds the electrical compatibility and sizing rules: string
// aggregation per MPPT, inverter compatibility, micro-inverter branches,
// cable sizing, DC run validation, subscription and the export gate.
//
// Every function is pure. Domain violations are returned as data, never as
// errors or panics.
package engine

import (
	"pv-bknd/internal/electrical"
	"pv-bknd/internal/models"
)

// IsMicroInverter reports whether the specs describe a micro-inverter.
func IsMicroInverter(specs *models.InverterElectricalSpecs) bool {
	if specs == nil {
		return false
	}
	return specs.MaxInputVoltage < electrical.MicroInputVoltageThreshold ||
		specs.IsMicro ||
		specs.Family == models.FamilyMicro
}

// FamilyOf returns the catalog family, deriving one for custom components
// that were defined without it.
func FamilyOf(specs *models.InverterElectricalSpecs) models.InverterFamily {
	if specs == nil {
		return ""
	}
	if specs.Family != "" {
		return specs.Family
	}
	if IsMicroInverter(specs) {
		return models.FamilyMicro
	}
	if specs.MaxAcPower > electrical.TriPowerThresholdW {
		return models.FamilyCentralTri
	}
	return models.FamilyCentralMono
}

// RCDTypeFor returns the residual-current device class for a family. Hybrid
// inverters with a battery need type B.
func RCDTypeFor(family models.InverterFamily) models.RCDType {
	if family.IsHybrid() {
		return models.RCDTypeB
	}
	return models.RCDTypeF
}
