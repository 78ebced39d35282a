package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pv-bknd/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const defaultProjectLimit = 50

// ProjectService persists installation designs.
type ProjectService struct {
	db *bun.DB
}

func NewProjectService(db *bun.DB) *ProjectService {
	return &ProjectService{db: db}
}

// ParseProjectID validates a project id from a URL.
func ParseProjectID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidID, raw)
	}
	return id, nil
}

func (s *ProjectService) Create(ctx context.Context, p *models.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.db.NewInsert().Model(p).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project := new(models.Project)
	err := s.db.NewSelect().
		Model(project).
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return project, nil
}

// List returns projects, most recently updated first, and the number of
// projects matching the filter.
func (s *ProjectService) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error) {
	var projects []models.Project

	total, err := s.listQuery(&projects, filter).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

func (s *ProjectService) listQuery(projects *[]models.Project, filter models.ProjectFilter) *bun.SelectQuery {
	q := s.db.NewSelect().Model(projects)
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("p.name ILIKE ?", like).
				WhereOr("p.city ILIKE ?", like).
				WhereOr("p.client_address ILIKE ?", like)
		})
	}
	if filter.PostalCode != "" {
		q = q.Where("p.postal_code = ?", filter.PostalCode)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultProjectLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	return q.Order("p.updated_at DESC").
		Limit(limit).
		Offset(offset)
}

// Update replaces the stored project.
func (s *ProjectService) Update(ctx context.Context, p *models.Project) error {
	p.UpdatedAt = time.Now()

	res, err := s.db.NewUpdate().
		Model(p).
		ExcludeColumn("created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", p.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.NewDelete().
		Model((*models.Project)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
