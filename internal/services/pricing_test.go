package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-bknd/internal/models"
)

func TestPriceMaterials(t *testing.T) {
	materials := []models.Material{
		{ID: "panel", Quantity: 10, Price: "A4HQY7"},
		{ID: "inverter", Quantity: 1, Price: "1249.90"},
		{ID: "cable", Quantity: 3, Price: "ND"},
		{ID: "earth", Quantity: 1},
	}
	userPrices := map[string]string{
		"panel": "89,10",
		"earth": "not a price",
	}

	got := PriceMaterials(materials, userPrices)
	require.Len(t, got.Lines, 4)

	assert.Equal(t, "89.10", got.Lines[0].UnitPrice)
	assert.Equal(t, "891.00", got.Lines[0].LineTotal)
	assert.Equal(t, "1249.90", got.Lines[1].UnitPrice)
	assert.Empty(t, got.Lines[2].UnitPrice)
	assert.Equal(t, []string{"cable", "earth"}, got.Unpriced)
	assert.Equal(t, "2140.90", got.Total)
}

func TestPriceMaterials_DecimalExactness(t *testing.T) {
	materials := make([]models.Material, 10)
	for i := range materials {
		materials[i] = models.Material{ID: "x", Quantity: 1, Price: "0.10"}
	}
	assert.Equal(t, "1.00", PriceMaterials(materials, nil).Total)
}

func TestPriceMaterials_NegativeRejected(t *testing.T) {
	got := PriceMaterials([]models.Material{{ID: "a", Quantity: 2}}, map[string]string{"a": "-5"})
	assert.Equal(t, []string{"a"}, got.Unpriced)
	assert.Equal(t, "0.00", got.Total)
}

func TestPriceMaterials_Empty(t *testing.T) {
	got := PriceMaterials(nil, nil)
	assert.Empty(t, got.Lines)
	assert.Empty(t, got.Unpriced)
	assert.Equal(t, "0.00", got.Total)
}
