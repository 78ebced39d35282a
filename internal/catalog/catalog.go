// Package catalog provides component lookup for the sizing engine.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"pv-bknd/internal/models"
)

//go:embed data/components.yaml
var seedYAML []byte

// Repository resolves a component by id. Implementations must be safe for
// concurrent reads.
type Repository interface {
	Get(id string) (models.Component, bool)
}

// Lister enumerates components by category. Selections that search the
// catalog, rather than resolve one id, need it.
type Lister interface {
	List(categories ...models.ComponentCategory) []models.Component
}

// Memory is an immutable in-memory repository.
type Memory struct {
	byID  map[string]models.Component
	order []string
}

// NewMemory indexes components by id. Later duplicates replace earlier ones.
func NewMemory(components []models.Component) *Memory {
	m := &Memory{byID: make(map[string]models.Component, len(components))}
	for _, c := range components {
		if _, seen := m.byID[c.ID]; !seen {
			m.order = append(m.order, c.ID)
		}
		m.byID[c.ID] = c
	}
	return m
}

// Get returns the component with the given id.
func (m *Memory) Get(id string) (models.Component, bool) {
	if m == nil {
		return models.Component{}, false
	}
	c, ok := m.byID[id]
	return c, ok
}

// List returns components in insertion order, optionally filtered by category.
func (m *Memory) List(categories ...models.ComponentCategory) []models.Component {
	if m == nil {
		return nil
	}
	want := make(map[models.ComponentCategory]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	out := make([]models.Component, 0, len(m.order))
	for _, id := range m.order {
		c := m.byID[id]
		if len(want) > 0 && !want[c.Category] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Len is the number of components.
func (m *Memory) Len() int {
	return len(m.byID)
}

// IDs returns the sorted component ids.
func (m *Memory) IDs() []string {
	ids := make([]string, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type seedFile struct {
	Components []models.Component `yaml:"components"`
}

// LoadSeed decodes a YAML component list.
func LoadSeed(r io.Reader) ([]models.Component, error) {
	var f seedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog seed: %w", err)
	}
	for i, c := range f.Components {
		if c.ID == "" {
			return nil, fmt.Errorf("catalog seed: component %d has no id", i)
		}
		if c.Unit == "" {
			f.Components[i].Unit = "piece"
		}
	}
	return f.Components, nil
}

// LoadSeedFile reads a YAML seed from disk. An empty path yields the
// embedded default catalog.
func LoadSeedFile(path string) ([]models.Component, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog seed: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

var (
	defaultSeed []models.Component
	seedOnce    sync.Once
)

// DefaultSeed returns a copy of the embedded default catalog.
func DefaultSeed() []models.Component {
	seedOnce.Do(func() {
		components, err := LoadSeed(bytes.NewReader(seedYAML))
		if err != nil {
			panic(err)
		}
		defaultSeed = components
	})
	out := make([]models.Component, len(defaultSeed))
	copy(out, defaultSeed)
	return out
}

// Default returns a repository over the embedded catalog.
func Default() *Memory {
	return NewMemory(DefaultSeed())
}

// Lookup returns the component, or a placeholder record carrying the id and
// fallback description with an empty price when the id is unknown.
func Lookup(repo Repository, id, fallbackDescription string) models.Component {
	if repo != nil {
		if c, ok := repo.Get(id); ok {
			return c
		}
	}
	return Placeholder(id, fallbackDescription)
}

// Placeholder synthesises a generic record for an id missing from the catalog.
func Placeholder(id, description string) models.Component {
	return models.Component{
		ID:          id,
		Description: description,
		Unit:        "piece",
		Price:       "",
	}
}

// Snapshotter produces a point-in-time repository, typically from a database.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*Memory, error)
}

// Snapshot implements Snapshotter for an already loaded catalog.
func (m *Memory) Snapshot(context.Context) (*Memory, error) {
	return m, nil
}
