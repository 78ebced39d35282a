package engine

import "pv-bknd/internal/models"

// Usual residential subscription steps (kVA).
var (
	monoKvaSteps = []float64{3, 6, 9, 12}
	triKvaSteps  = []float64{9, 12, 15, 18, 24, 30, 36}
)

// Main breaker (AGCP) rating to subscribed power.
var (
	agcpToKvaMono = map[float64]float64{15: 3, 30: 6, 45: 9, 60: 12}
	agcpToKvaTri  = map[float64]float64{10: 6, 15: 9, 20: 12, 25: 15, 30: 18, 40: 24, 50: 30, 60: 36}
)

// MaxKvaFor is the largest residential subscription for the phase.
func MaxKvaFor(phase models.Phase) float64 {
	if phase == models.PhaseTri {
		return 36
	}
	return 12
}

// KvaFromAgcp returns the subscribed power for a main breaker rating, or 0
// when the rating is unknown.
func KvaFromAgcp(phase models.Phase, agcpA float64) float64 {
	if agcpA <= 0 {
		return 0
	}
	if phase == models.PhaseTri {
		return agcpToKvaTri[agcpA]
	}
	return agcpToKvaMono[agcpA]
}

// NextSubscriptionStep returns the smallest step >= requiredKva, or 0.
func NextSubscriptionStep(phase models.Phase, requiredKva float64) float64 {
	if requiredKva <= 0 {
		return 0
	}
	steps := monoKvaSteps
	if phase == models.PhaseTri {
		steps = triKvaSteps
	}
	for _, s := range steps {
		if s >= requiredKva {
			return s
		}
	}
	return 0
}

// SubscriptionFor compares the subscription behind an AGCP rating with the
// peak power of the project, using kWc as the order of magnitude of kVA.
func SubscriptionFor(phase models.Phase, projectKwc, agcpA float64) models.SubscriptionStatus {
	if phase != models.PhaseTri {
		phase = models.PhaseMono
	}
	if projectKwc < 0 {
		projectKwc = 0
	}

	s := models.SubscriptionStatus{
		Phase:         phase,
		AgcpA:         agcpA,
		ProjectKwc:    projectKwc,
		SubscribedKva: KvaFromAgcp(phase, agcpA),
		MaxKva:        MaxKvaFor(phase),
	}
	if projectKwc > 0 {
		s.RequiredMinKva = projectKwc
		s.RecommendedKva = NextSubscriptionStep(phase, projectKwc)
		s.IsOverMax = projectKwc > s.MaxKva
	}
	if s.SubscribedKva > 0 && s.RecommendedKva > 0 {
		ok := s.SubscribedKva >= s.RecommendedKva
		s.IsOK = &ok
	}
	return s
}
