package engine

import (
	"strings"

	"pv-bknd/internal/models"
)

// MicroBranchRule is a manufacturer field rule for one AC branch.
type MicroBranchRule struct {
	MaxMicrosPerBranch  int     `json:"maxMicrosPerBranch"`
	RecommendedBreakerA float64 `json:"recommendedBreakerA"`
	DefaultSectionMm2   float64 `json:"defaultSectionMm2"`
	Note                string  `json:"note,omitempty"`
}

var microBranchRules = map[string]MicroBranchRule{
	"ENP-IQ8MC-72-M-INT": {11, 20, 2.5, "Field example: 20A single-phase breaker, 2.5mm² cable."},
	"ENP-IQ8HC-72-M-INT": {9, 20, 2.5, "Field example: 20A single-phase breaker, 2.5mm² cable."},
	"ENP-IQ8P-72-2-INT":  {8, 20, 2.5, "Field example: 20A single-phase breaker, 2.5mm² cable."},
	"APS-DS3":            {5, 20, 2.5, "AC bus 2.5mm² (~20A): 5 units max per branch."},
	"APS-DS3-H":          {5, 20, 2.5, "AC bus 2.5mm² (~20A): 4 to 5 units max per branch."},
	"FOX-MICRO-1000":     {7, 32, 6, "Field example: 7 micros max on a 6mm² equivalent cable with a breaker up to 32A."},
}

// MicroBranchRuleFor resolves the branch rule by exact model, then by brand
// with conservative defaults. It returns nil without a model or for brands
// that have no rule.
func MicroBranchRuleFor(brand models.Brand, model string) *MicroBranchRule {
	if model == "" {
		return nil
	}
	if r, ok := microBranchRules[model]; ok {
		return &r
	}
	switch {
	case brand == models.BrandEnphase:
		return &MicroBranchRule{MaxMicrosPerBranch: 8, RecommendedBreakerA: 20, DefaultSectionMm2: 2.5}
	case brand == models.BrandAPSystems:
		return &MicroBranchRule{MaxMicrosPerBranch: 5, RecommendedBreakerA: 20, DefaultSectionMm2: 2.5}
	case brand == models.BrandFoxESS && strings.Contains(model, "MICRO"):
		return &MicroBranchRule{MaxMicrosPerBranch: 7, RecommendedBreakerA: 32, DefaultSectionMm2: 6}
	}
	return nil
}
