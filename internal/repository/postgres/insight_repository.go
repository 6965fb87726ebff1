package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockwise/internal/domain"
	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const insightColumns = `id, sku_id, insight_type, ai_output, input_params, created_at`

type aiHistoryRepository struct {
	db *DB
}

func NewAIHistoryRepository(db *DB) repository.AIHistoryRepository {
	return &aiHistoryRepository{db: db}
}

func (r *aiHistoryRepository) Create(ctx context.Context, e *domain.AIHistory) error {
	query := `
		INSERT INTO ai_history (` + insightColumns + `)
		VALUES (:id, :sku_id, :insight_type, :ai_output, CAST(:input_params AS JSONB), :created_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, e); err != nil {
		return fmt.Errorf("failed to insert ai history: %w", err)
	}
	return nil
}

func (r *aiHistoryRepository) Latest(ctx context.Context, kind domain.InsightType) (*domain.AIHistory, error) {
	var e domain.AIHistory
	query := `
		SELECT ` + insightColumns + `
		FROM ai_history
		WHERE insight_type = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := sqlx.GetContext(ctx, r.db, &e, query, string(kind)); err != nil {
		return nil, notFound(err, "ai history "+string(kind))
	}
	return &e, nil
}

func (r *aiHistoryRepository) ListBySKU(ctx context.Context, skuID uuid.UUID, kind domain.InsightType, limit int) ([]*domain.AIHistory, error) {
	query := `
		SELECT ` + insightColumns + `
		FROM ai_history
		WHERE sku_id = $1 AND ($2 = '' OR insight_type = $2)
		ORDER BY created_at DESC
	`
	args := []any{skuID, string(kind)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	var entries []*domain.AIHistory
	if err := sqlx.SelectContext(ctx, r.db, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list ai history: %w", err)
	}
	return entries, nil
}
