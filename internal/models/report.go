package models

// Climate is the worst-case thermal operating point of a location.
type Climate struct {
	TempMin         float64 `json:"tempMin"`
	TempMaxAmb      float64 `json:"tempMaxAmb"`
	Label           string  `json:"label"`
	AltitudePenalty float64 `json:"altitudePenalty"`
}

// RCDType is the residual-current device class recommended on the AC side.
type RCDType string

const (
	RCDTypeA RCDType = "A"
	RCDTypeF RCDType = "F"
	RCDTypeB RCDType = "B"
)

// TempsUsed records the temperatures a report was computed with.
type TempsUsed struct {
	Min     float64 `json:"min"`
	MaxCell float64 `json:"maxCell"`
}

// MpptAnalysis is the reduced electrical state of one MPPT input.
type MpptAnalysis struct {
	MpptIndex       int     `json:"mpptIndex"`
	Composition     string  `json:"composition"`
	TotalPanelCount int     `json:"totalPanelCount"`
	VocCold         float64 `json:"vocCold"`
	VmpHot          float64 `json:"vmpHot"`
	IscMax          float64 `json:"iscMax"`
	IscCalculation  float64 `json:"iscCalculation"`
	IsVoltageError  bool    `json:"isVoltageError"`
	IsMpptWarning   bool    `json:"isMpptWarning"`
	IsCurrentError  bool    `json:"isCurrentError"`
}

// CompatibilityDetails carries every intermediate value of a compatibility
// check, for audit display and the PDF dossier.
type CompatibilityDetails struct {
	VocCold            float64        `json:"vocCold"`
	VmaxInverter       float64        `json:"vmaxInverter"`
	VmpHot             float64        `json:"vmpHot"`
	VminMppt           float64        `json:"vminMppt"`
	IscPanel           float64        `json:"iscPanel"`
	IscCalculation     float64        `json:"iscCalculation"`
	ImaxInverter       float64        `json:"imaxInverter"`
	DcAcRatio          float64        `json:"dcAcRatio"`
	MaxAcPower         float64        `json:"maxAcPower"`
	NominalAcCurrent   float64        `json:"nominalAcCurrent"`
	RecommendedBreaker float64        `json:"recommendedBreaker"`
	RcdType            RCDType        `json:"rcdType"`
	TempsUsed          TempsUsed      `json:"tempsUsed"`
	StringsAnalysis    []MpptAnalysis `json:"stringsAnalysis"`
	MaxPanelsInAString int            `json:"maxPanelsInAString"`
	Family             InverterFamily `json:"family"`
	ThreePhase         bool           `json:"threePhase"`
}

// CompatibilityReport is the result of checking panels against an inverter.
// Details is nil when there is nothing to check yet.
type CompatibilityReport struct {
	IsCompatible bool                  `json:"isCompatible"`
	Errors       []string              `json:"errors"`
	Warnings     []string              `json:"warnings"`
	Details      *CompatibilityDetails `json:"details"`
}

// MicroBranchCalc is a branch with its derived electrical values.
type MicroBranchCalc struct {
	MicroBranch
	CurrentA          float64 `json:"currentA"`
	VoltageDropV      float64 `json:"voltageDropV"`
	VoltageDropPct    float64 `json:"voltageDropPercent"`
	MaxMicros         int     `json:"maxMicros,omitempty"`
	IsWithinMaxMicros bool    `json:"isWithinMaxMicros"`
	IsDropOk          bool    `json:"isDropOk"`
}

// MicroBranchesReport is the AC-side check of a micro-inverter system.
type MicroBranchesReport struct {
	RequiredMicros      int               `json:"requiredMicros"`
	MicroPowerVA        float64           `json:"microPowerVA"`
	TotalConfigured     int               `json:"totalConfigured"`
	RuleNote            string            `json:"ruleNote,omitempty"`
	RecommendedBreakerA float64           `json:"recommendedBreakerA,omitempty"`
	Branches            []MicroBranchCalc `json:"branches"`
	Errors              []string          `json:"errors"`
	Warnings            []string          `json:"warnings"`
}

// CableSelection is a sized cable and the constraints that produced it.
type CableSelection struct {
	SectionMm2       float64  `json:"sectionMm2"`
	CurrentA         float64  `json:"currentA"`
	ThermalMinMm2    float64  `json:"thermalMinMm2"`
	DropMinMm2       float64  `json:"dropMinMm2"`
	ProtectionMinMm2 float64  `json:"protectionMinMm2"`
	Forced           bool     `json:"forced,omitempty"`
	Material         Material `json:"material"`
}

// DcRunCheck is the validation of one DC cabling run.
type DcRunCheck struct {
	MpptIndex      int     `json:"mpptIndex"`
	LengthM        float64 `json:"lengthM"`
	SectionMm2     float64 `json:"sectionMm2"`
	CurrentA       float64 `json:"currentA"`
	VoltageDropV   float64 `json:"voltageDropV"`
	VoltageDropPct float64 `json:"voltageDropPercent"`
	MinSectionMm2  float64 `json:"minSectionMm2,omitempty"`
	IsTooSmall     bool    `json:"isTooSmall"`
}

// DcCablingValidation aggregates DC run checks. OK is false when any reason
// is present.
type DcCablingValidation struct {
	OK       bool         `json:"ok"`
	Runs     []DcRunCheck `json:"runs"`
	Reasons  []string     `json:"reasons"`
	Warnings []string     `json:"warnings"`
}

// SubscriptionStatus compares the grid subscription with the installation.
// Zero kVA values are unknown; IsOK is nil when no conclusion can be drawn.
type SubscriptionStatus struct {
	Phase          Phase   `json:"phase"`
	AgcpA          float64 `json:"agcpA"`
	ProjectKwc     float64 `json:"projectKwc"`
	RequiredMinKva float64 `json:"requiredMinKva"`
	RecommendedKva float64 `json:"recommendedKva"`
	SubscribedKva  float64 `json:"subscribedKva"`
	MaxKva         float64 `json:"maxKva"`
	IsOverMax      bool    `json:"isOverMaxForPhase"`
	IsOK           *bool   `json:"isOk"`
}

// ExportGate decides whether the technical dossier may be exported.
type ExportGate struct {
	CanExport bool     `json:"canExport"`
	Reasons   []string `json:"reasons"`
}

// AcLinkCheck is the AC cable between inverter and panel board.
type AcLinkCheck struct {
	Cable              CableSelection `json:"cable"`
	VoltageDropPct     float64        `json:"voltageDropPercent"`
	BreakerA           float64        `json:"breakerA"`
	ProtectionTooHigh  bool           `json:"protectionTooHigh"`
	SectionOversized   bool           `json:"sectionOversized"`
	DropAboveTarget    bool           `json:"dropAboveTarget"`
	DropAboveHardLimit bool           `json:"dropAboveHardLimit"`
}

// PricedLine is a BOM line with its resolved price.
type PricedLine struct {
	Material
	UnitPrice string `json:"unitPrice,omitempty"`
	LineTotal string `json:"lineTotal,omitempty"`
}

// BOMPricing is the priced bill of materials.
type BOMPricing struct {
	Lines    []PricedLine `json:"lines"`
	Total    string       `json:"total"`
	Unpriced []string     `json:"unpriced"`
}

// DesignReport is everything computed for one project.
type DesignReport struct {
	ProjectID     string               `json:"projectId"`
	Climate       Climate              `json:"climate"`
	WindZone      int                  `json:"windZone"`
	InverterModel string               `json:"inverterModel,omitempty"`
	Compatibility CompatibilityReport  `json:"compatibility"`
	MicroBranches *MicroBranchesReport `json:"microBranches"`
	AcLink        *AcLinkCheck         `json:"acLink"`
	DcCable       *CableSelection      `json:"dcCable"`
	DcCabling     DcCablingValidation  `json:"dcCabling"`
	Subscription  SubscriptionStatus   `json:"subscription"`
	Materials     BOMPricing           `json:"materials"`
	Gate          ExportGate           `json:"gate"`
	Permit        string               `json:"permit,omitempty"`
}
