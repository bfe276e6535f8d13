package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/incident"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/shenikar/field_dispatch/internal/service"
)

const incidentColumns = `
	id,
	title,
	description,
	priority,
	status,
	latitude,
	longitude,
	address,
	created_by,
	created_at,
	updated_at,
	assigned_to,
	assigned_to_name,
	assigned_at,
	completed_at,
	completed_by`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// CreateIncident создает новую запись об инциденте в бд
func (r *IncidentRepository) CreateIncident(ctx context.Context, inc *models.Incident) error {
	query := `
		INSERT INTO incidents (` + incidentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.db.Exec(ctx, query,
		inc.ID,
		inc.Title,
		inc.Description,
		inc.Priority,
		inc.Status,
		inc.Location.Lat,
		inc.Location.Lng,
		inc.Address,
		inc.CreatedBy,
		inc.CreatedAt,
		inc.UpdatedAt,
		inc.AssignedTo,
		inc.AssignedToName,
		inc.AssignedAt,
		inc.CompletedAt,
		inc.CompletedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetIncident возвращает инцидент по его UUID
func (r *IncidentRepository) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`

	inc, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.KindNotFound, "repository.GetIncident", "incident with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return inc, nil
}

// UpdateIncident сохраняет состояние жизненного цикла инцидента.
// Поля описания после создания не меняются.
func (r *IncidentRepository) UpdateIncident(ctx context.Context, inc *models.Incident) error {
	query := `
		UPDATE incidents SET
			status = $1,
			assigned_to = $2,
			assigned_to_name = $3,
			assigned_at = $4,
			completed_at = $5,
			completed_by = $6,
			updated_at = $7
		WHERE id = $8;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		inc.Status,
		inc.AssignedTo,
		inc.AssignedToName,
		inc.AssignedAt,
		inc.CompletedAt,
		inc.CompletedBy,
		inc.UpdatedAt,
		inc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	// RowsAffected() == 0 - инцидента с таким id не существует
	if cmdTag.RowsAffected() == 0 {
		return apperrors.New(apperrors.KindNotFound, "repository.UpdateIncident", "incident with id %s not found for update", inc.ID)
	}
	return nil
}

// ListIncidents возвращает все инциденты, новые первыми
func (r *IncidentRepository) ListIncidents(ctx context.Context) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents ORDER BY created_at DESC, id;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// CountIncidents возвращает общее число инцидентов и число открытых
func (r *IncidentRepository) CountIncidents(ctx context.Context) (int, int, error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'open') FROM incidents;`

	var total, open int
	if err := r.db.QueryRow(ctx, query).Scan(&total, &open); err != nil {
		return 0, 0, fmt.Errorf("failed to count incidents: %w", err)
	}
	return total, open, nil
}

// scanIncident читает строку и проверяет инвариант исполнителя
func scanIncident(row pgx.Row) (*models.Incident, error) {
	inc := &models.Incident{}
	var assignedToName *string
	err := row.Scan(
		&inc.ID,
		&inc.Title,
		&inc.Description,
		&inc.Priority,
		&inc.Status,
		&inc.Location.Lat,
		&inc.Location.Lng,
		&inc.Address,
		&inc.CreatedBy,
		&inc.CreatedAt,
		&inc.UpdatedAt,
		&inc.AssignedTo,
		&assignedToName,
		&inc.AssignedAt,
		&inc.CompletedAt,
		&inc.CompletedBy,
	)
	if err != nil {
		return nil, err
	}
	if assignedToName != nil {
		inc.AssignedToName = *assignedToName
	}
	if err := incident.CheckInvariant(inc); err != nil {
		return nil, fmt.Errorf("corrupted incident row: %w", err)
	}
	return inc, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis.
// Промах кеша - (nil, nil).
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	inc := &models.Incident{}
	if err := json.Unmarshal(val, inc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return inc, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, inc *models.Incident) error {
	val, err := json.Marshal(inc)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentCacheKey(inc.ID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}

func incidentCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}
