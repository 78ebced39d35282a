package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Panel is the panel model placed on a roof field.
type Panel struct {
	Name         string                `json:"name"`
	Description  string                `json:"description,omitempty"`
	Width        float64               `json:"width,omitempty"`
	Height       float64               `json:"height,omitempty"`
	Power        float64               `json:"power"`
	Price        string                `json:"price,omitempty"`
	DatasheetURL string                `json:"datasheetUrl,omitempty"`
	Electrical   *PanelElectricalSpecs `json:"electrical,omitempty"`
}

// PanelConfig is the panel layout of one roof field.
type PanelConfig struct {
	Model            Panel  `json:"model"`
	Orientation      string `json:"orientation,omitempty"`
	Rows             int    `json:"rows"`
	Columns          int    `json:"columns"`
	RowConfiguration []int  `json:"rowConfiguration,omitempty"`
}

// Panel orientations on a roof field.
const (
	OrientationPortrait  = "Portrait"
	OrientationLandscape = "Landscape"
)

// IsPortrait reports whether panels are laid out in portrait. Any other or
// missing value is treated as landscape.
func (p PanelConfig) IsPortrait() bool {
	return strings.EqualFold(strings.TrimSpace(p.Orientation), OrientationPortrait)
}

// Count returns the number of panels, using the per-row configuration for
// non-rectangular layouts.
func (p PanelConfig) Count() int {
	if len(p.RowConfiguration) > 0 {
		total := 0
		for _, n := range p.RowConfiguration {
			if n > 0 {
				total += n
			}
		}
		return total
	}
	if p.Rows <= 0 || p.Columns <= 0 {
		return 0
	}
	return p.Rows * p.Columns
}

// RoofField is one rectangular-ish roof area with its own panel model.
type RoofField struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Panels PanelConfig `json:"panels"`
}

// ConfiguredString is one segment of panels in series on an MPPT input.
type ConfiguredString struct {
	ID         string `json:"id"`
	FieldID    string `json:"fieldId"`
	PanelCount int    `json:"panelCount"`
	MpptIndex  int    `json:"mpptIndex"`
}

// Mppt returns the 1-based MPPT index, defaulting to 1.
func (s ConfiguredString) Mppt() int {
	if s.MpptIndex <= 0 {
		return 1
	}
	return s.MpptIndex
}

// Phase of an AC circuit.
type Phase string

const (
	PhaseMono Phase = "Mono"
	PhaseTri  Phase = "Tri"
	PhaseL1   Phase = "L1"
	PhaseL2   Phase = "L2"
	PhaseL3   Phase = "L3"
)

// MicroBranch is one AC branch chaining micro-inverters.
type MicroBranch struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Phase           Phase   `json:"phase"`
	MicroCount      int     `json:"microCount"`
	CableLengthM    float64 `json:"cableLengthM"`
	CableSectionMm2 float64 `json:"cableSectionMm2"`
}

// DcCablingRun is the DC cable between the roof and one MPPT input.
type DcCablingRun struct {
	MpptIndex  int     `json:"mpptIndex"`
	LengthM    float64 `json:"lengthM"`
	SectionMm2 float64 `json:"sectionMm2"`
}

// InverterConfig is the inverter choice and its electrical configuration.
type InverterConfig struct {
	Brand             Brand              `json:"brand"`
	Model             string             `json:"model,omitempty"`
	Phase             Phase              `json:"phase"`
	ConfiguredStrings []ConfiguredString `json:"configuredStrings,omitempty"`
	MicroBranches     []MicroBranch      `json:"microBranches,omitempty"`
	DcCablingRuns     []DcCablingRun     `json:"dcCablingRuns,omitempty"`
	HasBattery        bool               `json:"hasBattery,omitempty"`
	AgcpValue         float64            `json:"agcpValue,omitempty"`
}

// IsThreePhase reports whether the project is wired three-phase.
func (c InverterConfig) IsThreePhase() bool {
	return c.Phase == PhaseTri
}

// Project is the persisted installation design.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID                     uuid.UUID         `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name                   string            `bun:"name,notnull" json:"name"`
	ClientAddress          string            `bun:"client_address" json:"clientAddress,omitempty"`
	City                   string            `bun:"city" json:"city,omitempty"`
	PostalCode             string            `bun:"postal_code" json:"postalCode"`
	Altitude               float64           `bun:"altitude" json:"altitude"`
	Fields                 []RoofField       `bun:"fields,type:jsonb" json:"fields"`
	Inverter               InverterConfig    `bun:"inverter,type:jsonb" json:"inverterConfig"`
	DistanceToPanelM       float64           `bun:"distance_to_panel_m" json:"distanceToPanel"`
	AcCableSectionOverride *float64          `bun:"ac_section_override" json:"acCableSectionOverride,omitempty"`
	DcCableSectionOverride *float64          `bun:"dc_section_override" json:"dcCableSectionOverride,omitempty"`
	UserPrices             map[string]string `bun:"user_prices,type:jsonb" json:"userPrices,omitempty"`
	CreatedAt              time.Time         `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt              time.Time         `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// TotalPanels sums panel counts over all fields.
func (p *Project) TotalPanels() int {
	total := 0
	for _, f := range p.Fields {
		total += f.Panels.Count()
	}
	return total
}

// ReferencePanel returns the panel of the first field, used when a string
// segment does not resolve to a field.
func (p *Project) ReferencePanel() *Panel {
	if len(p.Fields) == 0 {
		return nil
	}
	panel := p.Fields[0].Panels.Model
	return &panel
}

// TotalDcPowerW is the installed peak power in W.
func (p *Project) TotalDcPowerW() float64 {
	total := 0.0
	for _, f := range p.Fields {
		total += f.Panels.Model.Power * float64(f.Panels.Count())
	}
	return total
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	Search     string
	PostalCode string
	Limit      int
	Offset     int
}
