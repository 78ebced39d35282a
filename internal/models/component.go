package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ComponentCategory groups catalog records.
type ComponentCategory string

const (
	CategoryPanel     ComponentCategory = "panel"
	CategoryInverter  ComponentCategory = "inverter"
	CategoryCable     ComponentCategory = "cable"
	CategoryAccessory ComponentCategory = "accessory"
)

// InverterFamily is set once when an inverter is defined in the catalog and
// drives phase and RCD decisions.
type InverterFamily string

const (
	FamilyMicro       InverterFamily = "micro"
	FamilyCentralMono InverterFamily = "central-mono"
	FamilyCentralTri  InverterFamily = "central-tri"
	FamilyHybridMono  InverterFamily = "hybrid-mono"
	FamilyHybridTri   InverterFamily = "hybrid-tri"
)

// IsThreePhase reports whether the family outputs three-phase AC.
func (f InverterFamily) IsThreePhase() bool {
	return f == FamilyCentralTri || f == FamilyHybridTri
}

// IsHybrid reports whether the family drives a battery.
func (f InverterFamily) IsHybrid() bool {
	return f == FamilyHybridMono || f == FamilyHybridTri
}

// Brand identifies an inverter manufacturer in a project configuration.
type Brand string

const (
	BrandNone      Brand = "None"
	BrandEnphase   Brand = "Enphase"
	BrandAPSystems Brand = "APSystems"
	BrandFoxESS    Brand = "FoxESS"
	BrandCustom    Brand = "Custom"
)

// PanelElectricalSpecs are datasheet values of a panel model at STC.
type PanelElectricalSpecs struct {
	Voc          float64 `json:"voc" yaml:"voc"`
	Isc          float64 `json:"isc" yaml:"isc"`
	Vmp          float64 `json:"vmp" yaml:"vmp"`
	Imp          float64 `json:"imp" yaml:"imp"`
	TempCoeffVoc float64 `json:"tempCoeffVoc,omitempty" yaml:"tempCoeffVoc,omitempty"` // %/°C, 0 = unknown
}

// InverterElectricalSpecs are datasheet limits of an inverter or micro-inverter.
type InverterElectricalSpecs struct {
	MaxInputVoltage float64        `json:"maxInputVoltage" yaml:"maxInputVoltage"`
	MinMpptVoltage  float64        `json:"minMpptVoltage" yaml:"minMpptVoltage"`
	MaxMpptVoltage  float64        `json:"maxMpptVoltage" yaml:"maxMpptVoltage"`
	MaxInputCurrent float64        `json:"maxInputCurrent" yaml:"maxInputCurrent"`
	MaxAcPower      float64        `json:"maxAcPower" yaml:"maxAcPower"`
	MpptCount       int            `json:"mpptCount,omitempty" yaml:"mpptCount,omitempty"`
	MaxStrings      int            `json:"maxStrings,omitempty" yaml:"maxStrings,omitempty"`
	MaxDcPower      float64        `json:"maxDcPower,omitempty" yaml:"maxDcPower,omitempty"`
	IsMicro         bool           `json:"isMicro,omitempty" yaml:"isMicro,omitempty"`
	Family          InverterFamily `json:"family,omitempty" yaml:"family,omitempty"`
}

// Component is one catalog record: panel, inverter, cable or accessory.
type Component struct {
	bun.BaseModel `bun:"table:components,alias:c"`

	ID           string                   `bun:"id,pk" json:"id" yaml:"id"`
	Description  string                   `bun:"description,notnull" json:"description" yaml:"description"`
	Category     ComponentCategory        `bun:"category,notnull" json:"category" yaml:"category"`
	Brand        string                   `bun:"brand" json:"brand,omitempty" yaml:"brand,omitempty"`
	Unit         string                   `bun:"unit,notnull,default:'piece'" json:"unit" yaml:"unit"`
	Price        string                   `bun:"price" json:"price,omitempty" yaml:"price,omitempty"`
	Power        float64                  `bun:"power" json:"power,omitempty" yaml:"power,omitempty"`
	Width        float64                  `bun:"width" json:"width,omitempty" yaml:"width,omitempty"`
	Height       float64                  `bun:"height" json:"height,omitempty" yaml:"height,omitempty"`
	DatasheetURL string                   `bun:"datasheet_url" json:"datasheetUrl,omitempty" yaml:"datasheetUrl,omitempty"`
	Panel        *PanelElectricalSpecs    `bun:"panel,type:jsonb" json:"panel,omitempty" yaml:"panel,omitempty"`
	Inverter     *InverterElectricalSpecs `bun:"inverter,type:jsonb" json:"inverter,omitempty" yaml:"inverter,omitempty"`
	UpdatedAt    time.Time                `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt" yaml:"-"`
}

// AsPanel converts a panel catalog record to the model embedded in roof fields.
func (c Component) AsPanel() Panel {
	return Panel{
		Name:         c.ID,
		Description:  c.Description,
		Width:        c.Width,
		Height:       c.Height,
		Power:        c.Power,
		Price:        c.Price,
		DatasheetURL: c.DatasheetURL,
		Electrical:   c.Panel,
	}
}

// Material is one bill-of-materials line.
type Material struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	Price        string  `json:"price"`
	DatasheetURL string  `json:"datasheetUrl,omitempty"`
}

// MaterialOf builds a BOM line from a catalog record.
func MaterialOf(c Component, quantity float64) Material {
	return Material{
		ID:           c.ID,
		Description:  c.Description,
		Quantity:     quantity,
		Price:        c.Price,
		DatasheetURL: c.DatasheetURL,
	}
}
