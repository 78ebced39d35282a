// Package standards holds the simplified cable-section / protective-device
// coordination tables used to sanity-check AC and DC circuits. The values are
// conservative field rules: they do not model installation method, ambient
// temperature or grouping.
package standards

type rating struct {
	sectionMm2 float64
	maxA       float64
}

// acTable maps each standard AC section to the largest breaker it accepts.
var acTable = []rating{
	{2.5, 20},
	{6, 32},
	{10, 40},
	{16, 63},
	{25, 80},
}

// dcTable is the DC analogue. There is no 25 mm² entry: DC runs above 63 A
// are outside the modelled range.
var dcTable = []rating{
	{2.5, 20},
	{6, 32},
	{10, 40},
	{16, 63},
}

// Sections returns the standard AC section ladder in mm², ascending.
func Sections() []float64 {
	return sectionsOf(acTable)
}

// DcSections returns the DC section ladder in mm², ascending.
func DcSections() []float64 {
	return sectionsOf(dcTable)
}

func sectionsOf(table []rating) []float64 {
	out := make([]float64, len(table))
	for i, r := range table {
		out[i] = r.sectionMm2
	}
	return out
}

func lookup(table []rating, section float64) (float64, bool) {
	for _, r := range table {
		if r.sectionMm2 == section {
			return r.maxA, true
		}
	}
	return 0, false
}

// MaxBreakerForSection returns the largest protective device rating (A)
// allowed on an AC conductor of the given section. ok is false for sections
// outside the table.
func MaxBreakerForSection(sectionMm2 float64) (maxA float64, ok bool) {
	return lookup(acTable, sectionMm2)
}

// MinSectionForBreaker returns the smallest AC section that makes sense for
// a protective device rating.
func MinSectionForBreaker(ratingA float64) float64 {
	for _, r := range acTable {
		if ratingA <= r.maxA {
			return r.sectionMm2
		}
	}
	return acTable[len(acTable)-1].sectionMm2
}

// IsProtectionTooHighForSection reports whether a breaker rating exceeds what
// the section tolerates. Unknown sections assert no constraint.
func IsProtectionTooHighForSection(sectionMm2, ratingA float64) bool {
	maxA, ok := MaxBreakerForSection(sectionMm2)
	if !ok {
		return false
	}
	return ratingA > maxA
}

// IsSectionOversizedForRating reports whether the section is larger than the
// rating requires. This is informational: sections are often increased to
// limit voltage drop.
func IsSectionOversizedForRating(sectionMm2, ratingA float64) bool {
	return sectionMm2 > MinSectionForBreaker(ratingA)
}

// MaxDcCurrentForSection returns the largest DC current (A) for a PV cable
// section. ok is false for sections outside the DC table.
func MaxDcCurrentForSection(sectionMm2 float64) (maxA float64, ok bool) {
	return lookup(dcTable, sectionMm2)
}

// MinDcSectionForCurrent returns the smallest DC section carrying currentA.
// ok is false when the current is beyond the DC table.
func MinDcSectionForCurrent(currentA float64) (sectionMm2 float64, ok bool) {
	for _, r := range dcTable {
		if currentA <= r.maxA {
			return r.sectionMm2, true
		}
	}
	return 0, false
}

// IsDcCableTooSmall reports whether the DC current exceeds the section's
// limit. Unknown sections assert no constraint.
func IsDcCableTooSmall(sectionMm2, currentA float64) bool {
	maxA, ok := MaxDcCurrentForSection(sectionMm2)
	if !ok {
		return false
	}
	return currentA > maxA
}

// IsDcSectionOversized reports whether a DC section is larger than the
// current requires, using the AC steps for consistency.
func IsDcSectionOversized(sectionMm2, currentA float64) bool {
	return sectionMm2 > MinSectionForBreaker(currentA)
}
