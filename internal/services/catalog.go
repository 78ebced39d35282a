package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/models"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// CatalogService persists catalog components.
type CatalogService struct {
	db   *bun.DB
	logr *zap.Logger
}

func NewCatalogService(db *bun.DB, logr *zap.Logger) *CatalogService {
	return &CatalogService{db: db, logr: logr}
}

// List returns components ordered by category then id, optionally filtered.
func (s *CatalogService) List(ctx context.Context, categories []string) ([]models.Component, error) {
	var components []models.Component

	if err := s.listQuery(&components, categories).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	return components, nil
}

func (s *CatalogService) listQuery(components *[]models.Component, categories []string) *bun.SelectQuery {
	q := s.db.NewSelect().Model(components)
	if len(categories) > 0 {
		q = q.Where("c.category IN (?)", bun.In(categories))
	}
	return q.Order("c.category ASC", "c.id ASC")
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Component, error) {
	component := new(models.Component)
	err := s.db.NewSelect().
		Model(component).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return component, nil
}

// Upsert inserts or replaces a component.
func (s *CatalogService) Upsert(ctx context.Context, c *models.Component) error {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		return fmt.Errorf("%w: component id is required", ErrInvalidID)
	}
	if c.Unit == "" {
		c.Unit = "piece"
	}
	c.UpdatedAt = time.Now()

	_, err := s.db.NewInsert().
		Model(c).
		On("CONFLICT (id) DO UPDATE").
		Set("description = EXCLUDED.description").
		Set("category = EXCLUDED.category").
		Set("brand = EXCLUDED.brand").
		Set("unit = EXCLUDED.unit").
		Set("price = EXCLUDED.price").
		Set("power = EXCLUDED.power").
		Set("width = EXCLUDED.width").
		Set("height = EXCLUDED.height").
		Set("datasheet_url = EXCLUDED.datasheet_url").
		Set("panel = EXCLUDED.panel").
		Set("inverter = EXCLUDED.inverter").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert component %s: %w", c.ID, err)
	}
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().
		Model((*models.Component)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete component %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed inserts components that are not stored yet and returns how many were
// added. Existing rows are left untouched so catalog edits survive restarts.
func (s *CatalogService) Seed(ctx context.Context, components []models.Component) (int, error) {
	if len(components) == 0 {
		return 0, nil
	}
	now := time.Now()
	for i := range components {
		components[i].UpdatedAt = now
	}

	res, err := s.db.NewInsert().
		Model(&components).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to seed catalog: %w", err)
	}
	n, _ := res.RowsAffected()
	s.logr.Info("catalog seeded", zap.Int64("inserted", n), zap.Int("candidates", len(components)))
	return int(n), nil
}

// Snapshot loads the whole catalog into memory for one evaluation.
func (s *CatalogService) Snapshot(ctx context.Context) (*catalog.Memory, error) {
	components, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return catalog.NewMemory(components), nil
}
