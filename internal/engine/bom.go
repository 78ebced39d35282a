package engine

import (
	"fmt"
	"math"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/models"
)

const (
	earthCableID        = "820001000608600"
	mc4ExtensionID      = "303037"
	apsPortraitCableID  = "2322304903"
	apsLandscapeCableID = "2322404903"
	foxAcCableID        = "10-100-01176-0"
	foxAcTeeID          = "10-208-00083-00"
)

// foxMicrosPerBranch applies when no branch rule is known for the model.
const foxMicrosPerBranch = 7

type microAccessory struct {
	id, description string
}

// Waterproof trunk connectors used by every micro-inverter system.
var microConnectors = map[bool][2]microAccessory{
	false: {
		{"2300531032", "APS waterproof male connector mono"},
		{"2300532032", "APS waterproof female connector mono"},
	},
	true: {
		{"2300711032", "APS waterproof male connector tri"},
		{"2300812032", "APS waterproof female connector tri"},
	},
}

// branchTerminator returns the end cap closing one micro-inverter branch.
func branchTerminator(brand models.Brand, threePhase bool) (microAccessory, bool) {
	switch brand {
	case models.BrandEnphase:
		if threePhase {
			return microAccessory{"Q-TERMINATOR-3P", "Enphase three-phase terminator"}, true
		}
		return microAccessory{"ENP-Q-TERM-R", "Enphase single-phase terminator"}, true
	case models.BrandAPSystems:
		return microAccessory{"2060700017", "APS single-phase end cap"}, true
	case models.BrandFoxESS:
		return microAccessory{"10-109-00175-00", "FoxESS AC end cap"}, true
	}
	return microAccessory{}, false
}

// BOMInput carries the sized parts a bill of materials is assembled from.
type BOMInput struct {
	MicroBranches *models.MicroBranchesReport
	AcCable       *models.CableSelection
	DcCable       *models.CableSelection
}

// BuildElectricalBOM lists the electrical materials of a project: panels,
// inverters with their branch accessories, AC and DC cables and the earth
// conductor. Lines sharing an id are merged.
func BuildElectricalBOM(p *models.Project, repo catalog.Repository, in BOMInput) []models.Material {
	b := &bomBuilder{index: map[string]int{}}

	for _, f := range p.Fields {
		n := f.Panels.Count()
		model := f.Panels.Model
		if n <= 0 || model.Name == "" {
			continue
		}
		part, ok := repo.Get(model.Name)
		if !ok {
			part = models.Component{
				ID:           model.Name,
				Description:  model.Name,
				Price:        model.Price,
				DatasheetURL: model.DatasheetURL,
			}
		}
		b.add(models.MaterialOf(part, float64(n)))
	}

	if mb := in.MicroBranches; mb != nil {
		b.addMicroSystem(p, repo, mb)
	} else if id := ResolveInverterModel(p, repo); id != "" {
		b.add(models.MaterialOf(catalog.Lookup(repo, id, fmt.Sprintf("Inverter %s", id)), 1))
	}

	if in.AcCable != nil {
		b.add(in.AcCable.Material)
	}
	if in.DcCable != nil {
		b.add(in.DcCable.Material)
	}
	if len(b.lines) > 0 {
		b.add(models.MaterialOf(catalog.Lookup(repo, earthCableID, "CABLE EARTH H07V-K 1X6 VJ C100"), 1))
	}

	return b.lines
}

// addMicroSystem lists the micro-inverters and the accessories each brand
// needs per micro-inverter and per branch.
func (b *bomBuilder) addMicroSystem(p *models.Project, repo catalog.Repository, mb *models.MicroBranchesReport) {
	cfg := p.Inverter
	threePhase := cfg.IsThreePhase()
	micros := mb.RequiredMicros

	if micros > 0 {
		b.add(models.MaterialOf(catalog.Lookup(repo, cfg.Model, "Micro-inverter "+cfg.Model), float64(micros)))
	}
	for _, c := range microConnectors[threePhase] {
		b.add(models.MaterialOf(catalog.Lookup(repo, c.id, c.description), 1))
	}

	portrait, landscape := splitByOrientation(p, repo, micros)
	switch cfg.Brand {
	case models.BrandEnphase:
		for _, part := range []struct {
			portrait bool
			n        int
		}{{true, portrait}, {false, landscape}} {
			c := enphaseQCable(part.portrait, threePhase)
			b.add(models.MaterialOf(catalog.Lookup(repo, c.id, c.description), float64(part.n)))
		}
	case models.BrandAPSystems:
		b.add(models.MaterialOf(catalog.Lookup(repo, apsPortraitCableID, "APS mono bus cable portrait 2 m"), float64(portrait)))
		b.add(models.MaterialOf(catalog.Lookup(repo, apsLandscapeCableID, "APS mono bus cable landscape 4 m"), float64(landscape)))
	case models.BrandFoxESS:
		b.add(models.MaterialOf(catalog.Lookup(repo, foxAcCableID, "FoxESS AC mono cable"), float64(micros)))
		b.add(models.MaterialOf(catalog.Lookup(repo, foxAcTeeID, "FoxESS AC mono tee connector"), float64(micros)))
	}
	if cfg.Brand != models.BrandEnphase {
		// two DC extensions per micro-inverter reach the panels it serves
		b.add(models.MaterialOf(catalog.Lookup(repo, mc4ExtensionID, "MC4 extension 2 m"), float64(2*micros)))
	}

	branches := len(mb.Branches)
	if cfg.Brand == models.BrandFoxESS && micros > 0 {
		perBranch := foxMicrosPerBranch
		if rule := MicroBranchRuleFor(cfg.Brand, cfg.Model); rule != nil && rule.MaxMicrosPerBranch > 0 {
			perBranch = rule.MaxMicrosPerBranch
		}
		if minimum := 1 + (micros-1)/perBranch; minimum > branches {
			branches = minimum
		}
		// each branch beyond the first is joined with its own connector pair
		for _, c := range microConnectors[false] {
			b.add(models.MaterialOf(catalog.Lookup(repo, c.id, c.description), float64(branches-1)))
		}
	}
	if term, ok := branchTerminator(cfg.Brand, threePhase); ok && branches > 0 {
		b.add(models.MaterialOf(catalog.Lookup(repo, term.id, term.description), float64(branches)))
	}
}

// splitByOrientation shares the micro-inverters between portrait and
// landscape fields by the orientation of the panels they serve.
func splitByOrientation(p *models.Project, repo catalog.Repository, micros int) (portrait, landscape int) {
	portraitPanels := 0
	for _, f := range p.Fields {
		if f.Panels.IsPortrait() {
			portraitPanels += f.Panels.Count()
		}
	}
	inputs := InputsPerMicro(p.Inverter, repo)
	portrait = int(math.Ceil(float64(portraitPanels) / float64(inputs)))
	if portrait > micros {
		portrait = micros
	}
	return portrait, micros - portrait
}

func enphaseQCable(portrait, threePhase bool) microAccessory {
	switch {
	case threePhase && portrait:
		return microAccessory{"Q-25-10-3P-200", "Enphase Q-Cable tri portrait"}
	case threePhase:
		return microAccessory{"Q-25-17-3P-160", "Enphase Q-Cable tri landscape"}
	case portrait:
		return microAccessory{"ENP-Q-25-10-240", "Enphase Q-Cable mono portrait"}
	}
	return microAccessory{"ENP-Q-25-17-240", "Enphase Q-Cable mono landscape"}
}

type bomBuilder struct {
	lines []models.Material
	index map[string]int
}

func (b *bomBuilder) add(m models.Material) {
	if m.ID == "" || m.Quantity <= 0 {
		return
	}
	if i, ok := b.index[m.ID]; ok {
		b.lines[i].Quantity += m.Quantity
		return
	}
	b.index[m.ID] = len(b.lines)
	b.lines = append(b.lines, m)
}
