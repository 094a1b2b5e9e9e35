package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/casavia/estate-backend/internal/models"
	"github.com/casavia/estate-backend/internal/pkg/apperror"
	"github.com/casavia/estate-backend/internal/repository/common"
)

// PropertyRepository отвечает за работу с таблицей properties.
type PropertyRepository struct {
	db *sqlx.DB
}

// NewPropertyRepository создаёт новый экземпляр.
func NewPropertyRepository(db *sqlx.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create создаёт объект недвижимости.
func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	query := `
		INSERT INTO properties (agent_id, title, description, address, city, asking_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		property.AgentID, property.Title, property.Description,
		property.Address, property.City, property.AskingPrice, property.Status,
	).Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt); err != nil {
		return fmt.Errorf("property repository: create %w", err)
	}

	return nil
}

// GetByID возвращает объект по идентификатору.
func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return common.GetByID[models.Property](ctx, r.db, "properties", id, apperror.ErrPropertyNotFound)
}

// PropertyFilter описывает фильтры списка объектов.
type PropertyFilter struct {
	City     string
	MinPrice int64
	MaxPrice int64
	Status   string
}

// List возвращает объекты по фильтрам, от новых к старым.
func (r *PropertyRepository) List(ctx context.Context, filter PropertyFilter, limit, offset int) ([]models.Property, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argNum := 1

	if filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("city = $%d", argNum))
		args = append(args, filter.City)
		argNum++
	}
	if filter.MinPrice > 0 {
		conditions = append(conditions, fmt.Sprintf("asking_price >= $%d", argNum))
		args = append(args, filter.MinPrice)
		argNum++
	}
	if filter.MaxPrice > 0 {
		conditions = append(conditions, fmt.Sprintf("asking_price <= $%d", argNum))
		args = append(args, filter.MaxPrice)
		argNum++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, filter.Status)
		argNum++
	}

	query := fmt.Sprintf(`
		SELECT id, agent_id, title, description, address, city, asking_price, status, created_at, updated_at
		FROM properties
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(conditions, " AND "), argNum, argNum+1)
	args = append(args, limit, offset)

	var properties []models.Property
	if err := r.db.SelectContext(ctx, &properties, query, args...); err != nil {
		return nil, fmt.Errorf("property repository: list %w", err)
	}

	return properties, nil
}

// ListByAgent возвращает объекты конкретного агента.
func (r *PropertyRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]models.Property, error) {
	query := `
		SELECT id, agent_id, title, description, address, city, asking_price, status, created_at, updated_at
		FROM properties
		WHERE agent_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var properties []models.Property
	if err := r.db.SelectContext(ctx, &properties, query, agentID, limit, offset); err != nil {
		return nil, fmt.Errorf("property repository: list by agent %w", err)
	}

	return properties, nil
}

// UpdateStatus меняет статус объекта.
func (r *PropertyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE properties SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("property repository: update status %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("property repository: update status rows affected %w", err)
	}
	if rowsAffected == 0 {
		return apperror.ErrPropertyNotFound
	}

	return nil
}
