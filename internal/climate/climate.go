// Package climate resolves worst-case ambient temperatures and wind zones
// from a French postal code. The lookup tables are reference data loaded from
// YAML; the embedded France table is used unless another one is loaded.
package climate

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"pv-bknd/internal/models"
)

//go:embed data/france.yaml
var franceYAML []byte

// Altitude correction: one degree per started step above the threshold.
const (
	altitudeThresholdM = 200.0
	altitudeStepM      = 200.0
)

// Max ambient buckets keyed off the sea-level base temperature.
const (
	warmBaseC      = -5.0
	coldBaseC      = -15.0
	warmMaxAmbC    = 38.0
	coldMaxAmbC    = 30.0
	defaultMaxAmbC = 35.0
)

// DefaultWindZone is returned for inland departments and unknown codes.
const DefaultWindZone = 1

// Defaults are used for codes too short to resolve.
type Defaults struct {
	TempMin    float64 `yaml:"tempMin"`
	TempMaxAmb float64 `yaml:"tempMaxAmb"`
}

// Table is a swappable climate reference table.
type Table struct {
	Default         Defaults           `yaml:"default"`
	Corsica         float64            `yaml:"corsica"`
	OverseasDefault float64            `yaml:"overseasDefault"`
	Departments     map[string]float64 `yaml:"departments"`
	Overseas        map[string]float64 `yaml:"overseas"`
	Coastal         map[string]float64 `yaml:"coastal"`
	WindZones       map[string]int     `yaml:"windZones"`
}

// LoadTable decodes a YAML climate table.
func LoadTable(r io.Reader) (*Table, error) {
	var t Table
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode climate table: %w", err)
	}
	if len(t.Departments) == 0 {
		return nil, fmt.Errorf("climate table has no departments")
	}
	return &t, nil
}

// LoadTableFile reads a YAML climate table from disk. An empty path yields
// the embedded table.
func LoadTableFile(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open climate table: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

var (
	defaultTable *Table
	defaultOnce  sync.Once
)

// Default returns the embedded France table. It panics if the embedded data
// is corrupt, which only a bad build can cause.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := LoadTable(bytes.NewReader(franceYAML))
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// Resolve uses the default table.
func Resolve(postalCode string, altitudeM float64) models.Climate {
	return Default().Resolve(postalCode, altitudeM)
}

// WindZone uses the default table.
func WindZone(postalCode string) int {
	return Default().WindZone(postalCode)
}

// Resolve returns the minimum and maximum ambient temperatures for a location.
// It never fails: unknown or short codes fall back to conservative defaults.
func (t *Table) Resolve(postalCode string, altitudeM float64) models.Climate {
	code := strings.TrimSpace(postalCode)
	if len(code) < 2 {
		return models.Climate{
			TempMin:    t.Default.TempMin,
			TempMaxAmb: t.Default.TempMaxAmb,
			Label:      "Standard (default)",
		}
	}

	prefix2 := code[:2]
	base := t.Default.TempMin
	origin := "Dept " + prefix2

	switch {
	case strings.HasPrefix(code, "97"):
		prefix3 := code
		if len(code) >= 3 {
			prefix3 = code[:3]
		}
		origin = "Overseas " + prefix3
		if v, ok := t.Overseas[prefix3]; ok && v != 0 {
			base = v
		} else {
			base = t.OverseasDefault
		}
	case t.hasCoastal(code):
		base = t.Coastal[code]
		origin = "Coastal/Island"
	case strings.HasPrefix(code, "20"):
		base = t.Corsica
		origin = "Corsica"
	default:
		if v, ok := t.Departments[prefix2]; ok {
			base = v
		}
	}

	penalty := AltitudePenalty(altitudeM)

	return models.Climate{
		TempMin:         base - penalty,
		TempMaxAmb:      maxAmbientFor(base),
		Label:           fmt.Sprintf("%s (Base %g°C) @ %gm", origin, base, altitudeM),
		AltitudePenalty: penalty,
	}
}

func (t *Table) hasCoastal(code string) bool {
	_, ok := t.Coastal[code]
	return ok
}

// AltitudePenalty is the number of degrees subtracted from the base
// temperature: none up to 200 m, then one per started 200 m step.
func AltitudePenalty(altitudeM float64) float64 {
	if altitudeM <= altitudeThresholdM {
		return 0
	}
	return math.Ceil((altitudeM - altitudeThresholdM) / altitudeStepM)
}

func maxAmbientFor(base float64) float64 {
	switch {
	case base >= warmBaseC:
		return warmMaxAmbC
	case base <= coldBaseC:
		return coldMaxAmbC
	default:
		return defaultMaxAmbC
	}
}

// WindZone returns the wind zone (1 to 5) of a postal code.
func (t *Table) WindZone(postalCode string) int {
	code := strings.ToUpper(strings.TrimSpace(postalCode))
	if len(code) < 2 {
		return DefaultWindZone
	}
	if strings.HasPrefix(code, "2A") || strings.HasPrefix(code, "2B") {
		return 4
	}
	if len(code) >= 3 {
		if z, ok := t.WindZones[code[:3]]; ok {
			return z
		}
	}
	if z, ok := t.WindZones[code[:2]]; ok {
		return z
	}
	return DefaultWindZone
}
