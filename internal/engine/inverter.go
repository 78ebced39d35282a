package engine

import (
	"sort"
	"strings"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/models"
)

// AutoInverterModel asks for the string inverter to be picked from the
// catalog by power.
const AutoInverterModel = "Auto"

// autoSizingRatio is the share of peak DC power the chosen inverter must
// reach in AC power.
const autoSizingRatio = 0.8

// SelectCentralInverter picks the smallest central (non-hybrid string)
// inverter whose power reaches 80 % of totalPowerW, or the largest one when
// none does. Equal powers are ordered by id. It returns false when the
// catalog cannot be listed, holds no central inverter, or the power is not
// positive.
func SelectCentralInverter(repo catalog.Repository, totalPowerW float64) (models.Component, bool) {
	lister, ok := repo.(catalog.Lister)
	if !ok || totalPowerW <= 0 {
		return models.Component{}, false
	}

	var candidates []models.Component
	for _, c := range lister.List(models.CategoryInverter) {
		switch FamilyOf(c.Inverter) {
		case models.FamilyCentralMono, models.FamilyCentralTri:
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return models.Component{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Power != candidates[j].Power {
			return candidates[i].Power < candidates[j].Power
		}
		return candidates[i].ID < candidates[j].ID
	})

	target := totalPowerW * autoSizingRatio
	for _, c := range candidates {
		if c.Power >= target {
			return c, true
		}
	}
	return candidates[len(candidates)-1], true
}

// IsAutoModel reports whether the configured model asks for automatic
// selection.
func IsAutoModel(model string) bool {
	m := strings.TrimSpace(model)
	return m == "" || strings.EqualFold(m, AutoInverterModel)
}

// ResolveInverterModel returns the catalog id of the string inverter the
// project uses. FoxESS projects without a model, or with "Auto", get one
// selected by power. It returns "" when there is no inverter to resolve,
// including micro-inverter systems.
func ResolveInverterModel(p *models.Project, repo catalog.Repository) string {
	cfg := p.Inverter
	if cfg.Brand == models.BrandNone || cfg.Brand == "" {
		return ""
	}
	if !IsAutoModel(cfg.Model) {
		if IsMicroSystem(cfg, repo) {
			return ""
		}
		return cfg.Model
	}
	if cfg.Brand != models.BrandFoxESS {
		return ""
	}
	c, ok := SelectCentralInverter(repo, p.TotalDcPowerW())
	if !ok {
		return ""
	}
	return c.ID
}
