package services

import (
	"strings"

	"pv-bknd/internal/models"

	"github.com/shopspring/decimal"
)

// parsePrice reads a user-entered unit price. Comma decimals are accepted.
func parsePrice(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// PriceMaterials prices each line from userPrices (by component id), falling
// back to the catalog price when it is numeric. Lines without a usable price
// are listed in Unpriced and excluded from the total.
func PriceMaterials(materials []models.Material, userPrices map[string]string) models.BOMPricing {
	pricing := models.BOMPricing{
		Lines:    make([]models.PricedLine, 0, len(materials)),
		Unpriced: []string{},
	}
	total := decimal.Zero

	for _, m := range materials {
		line := models.PricedLine{Material: m}

		unit, ok := parsePrice(userPrices[m.ID])
		if !ok {
			unit, ok = parsePrice(m.Price)
		}
		if !ok {
			pricing.Unpriced = append(pricing.Unpriced, m.ID)
			pricing.Lines = append(pricing.Lines, line)
			continue
		}

		lineTotal := unit.Mul(decimal.NewFromFloat(m.Quantity))
		line.UnitPrice = unit.StringFixed(2)
		line.LineTotal = lineTotal.StringFixed(2)
		total = total.Add(lineTotal)
		pricing.Lines = append(pricing.Lines, line)
	}

	pricing.Total = total.StringFixed(2)
	return pricing
}
