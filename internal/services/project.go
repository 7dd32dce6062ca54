package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"msp-bknd/internal/codec"
	"msp-bknd/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"
)

// ProjectService persists MSP-JSON project documents. The store is
// deliberately dumb: save, load, list, delete — the engine never asks
// the database to understand shapes.
type ProjectService struct {
	db   *bun.DB
	logr *zap.Logger
}

func NewProjectService(db *bun.DB, logr *zap.Logger) *ProjectService {
	return &ProjectService{db: db, logr: logr}
}

// Save upserts the project document under its project id, assigning one
// when absent. Returns the saved id.
func (s *ProjectService) Save(ctx context.Context, ownerID string, doc *codec.Document) (string, error) {
	if doc == nil || doc.Project == nil {
		return "", fmt.Errorf("save: document has no project")
	}
	if doc.Project.ID == "" {
		doc.Project.ID = uuid.New().String()
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("save: marshal payload: %w", err)
	}

	rec := &models.ProjectRecord{
		ID:        doc.Project.ID,
		OwnerID:   ownerID,
		Name:      doc.Project.Name,
		Status:    doc.Project.Status,
		Tags:      doc.Project.Tags,
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}

	_, err = s.db.NewInsert().
		Model(rec).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("status = EXCLUDED.status").
		Set("tags = EXCLUDED.tags").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("save project %s: %w", rec.ID, err)
	}

	s.logr.Info("project saved",
		zap.String("project_id", rec.ID),
		zap.String("owner_id", ownerID),
		zap.Int("shapes", len(doc.Project.Shapes)))
	return rec.ID, nil
}

// Load fetches the MSP-JSON document for a project id.
func (s *ProjectService) Load(ctx context.Context, id string) (*codec.Document, error) {
	var rec models.ProjectRecord
	err := s.db.NewSelect().Model(&rec).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project %s not found", id)
		}
		return nil, fmt.Errorf("load project %s: %w", id, err)
	}

	doc, err := codec.DecodeMSPJSON(rec.Payload)
	if err != nil {
		return nil, fmt.Errorf("load project %s: corrupt payload: %w", id, err)
	}
	return doc, nil
}

// List returns project summaries for an owner, optionally filtered to
// projects carrying any of the given tags.
func (s *ProjectService) List(ctx context.Context, ownerID string, tags []string) ([]models.ProjectSummary, error) {
	q := s.db.NewSelect().
		Column("id").
		Column("name").
		Column("status").
		Column("tags").
		Column("updated_at").
		ColumnExpr("jsonb_array_length(coalesce(payload->'project'->'shapes', '[]'::jsonb)) AS shape_count").
		TableExpr("msp_projects AS prj").
		Where("owner_id = ?", ownerID).
		OrderExpr("updated_at DESC")

	if len(tags) > 0 {
		q = q.Where("tags && ?", pgdialect.Array(tags))
	}

	var rows []struct {
		ID         string    `bun:"id"`
		Name       string    `bun:"name"`
		Status     string    `bun:"status"`
		Tags       []string  `bun:"tags,array"`
		UpdatedAt  time.Time `bun:"updated_at"`
		ShapeCount int       `bun:"shape_count"`
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	out := make([]models.ProjectSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ProjectSummary{
			ID:         r.ID,
			Name:       r.Name,
			Status:     r.Status,
			Tags:       r.Tags,
			ShapeCount: r.ShapeCount,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return out, nil
}

// Delete removes a project owned by ownerID.
func (s *ProjectService) Delete(ctx context.Context, ownerID, id string) error {
	res, err := s.db.NewDelete().
		Model((*models.ProjectRecord)(nil)).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s not found", id)
	}
	s.logr.Info("project deleted", zap.String("project_id", id), zap.String("owner_id", ownerID))
	return nil
}
