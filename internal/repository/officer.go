package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/field_dispatch/internal/apperrors"
	"github.com/shenikar/field_dispatch/internal/models"
	"github.com/shenikar/field_dispatch/internal/service"
)

type OfficerRepository struct {
	db *pgxpool.Pool
}

func NewOfficerRepository(db *pgxpool.Pool) service.OfficerRepository {
	return &OfficerRepository{db: db}
}

// CreateOfficer добавляет сотрудника; повторная вставка того же id игнорируется
func (r *OfficerRepository) CreateOfficer(ctx context.Context, o *models.Officer) error {
	query := `
		INSERT INTO officers (id, username, role, status, badge_number, department, rank, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING;
	`
	_, err := r.db.Exec(ctx, query,
		o.ID,
		o.Username,
		o.Role,
		o.Status,
		o.BadgeNumber,
		o.Department,
		o.Rank,
		nullTime(o.LastSeenAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create officer: %w", err)
	}
	return nil
}

// GetOfficer возвращает сотрудника по id
func (r *OfficerRepository) GetOfficer(ctx context.Context, id uuid.UUID) (*models.Officer, error) {
	query := `
		SELECT id, username, role, status, badge_number, department, rank, last_seen_at,
		       last_latitude, last_longitude, located_at
		FROM officers
		WHERE id = $1;
	`
	o, err := scanOfficer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.KindNotFound, "repository.GetOfficer", "officer with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get officer by id: %w", err)
	}
	return o, nil
}

// ListOfficers возвращает всех сотрудников
func (r *OfficerRepository) ListOfficers(ctx context.Context) ([]*models.Officer, error) {
	query := `
		SELECT id, username, role, status, badge_number, department, rank, last_seen_at,
		       last_latitude, last_longitude, located_at
		FROM officers
		ORDER BY username;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list officers: %w", err)
	}
	defer rows.Close()

	officers := make([]*models.Officer, 0)
	for rows.Next() {
		o, err := scanOfficer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan officer row: %w", err)
		}
		officers = append(officers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return officers, nil
}

// UpdateOfficerPresence сохраняет статус и время последней активности
func (r *OfficerRepository) UpdateOfficerPresence(ctx context.Context, id uuid.UUID, status models.OfficerStatus, lastSeenAt time.Time) error {
	query := `UPDATE officers SET status = $1, last_seen_at = $2 WHERE id = $3;`

	cmdTag, err := r.db.Exec(ctx, query, status, lastSeenAt, id)
	if err != nil {
		return fmt.Errorf("failed to update officer presence: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.New(apperrors.KindNotFound, "repository.UpdateOfficerPresence", "officer with id %s not found", id)
	}
	return nil
}

// UpdateOfficerProfile сохраняет поля, которыми управляет администратор
func (r *OfficerRepository) UpdateOfficerProfile(ctx context.Context, o *models.Officer) error {
	query := `UPDATE officers SET badge_number = $1, department = $2, rank = $3 WHERE id = $4;`

	cmdTag, err := r.db.Exec(ctx, query, o.BadgeNumber, o.Department, o.Rank, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update officer profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.New(apperrors.KindNotFound, "repository.UpdateOfficerProfile", "officer with id %s not found", o.ID)
	}
	return nil
}

// UpdateOfficerLocation сохраняет последнюю позицию; она же отмечает активность
func (r *OfficerRepository) UpdateOfficerLocation(ctx context.Context, id uuid.UUID, loc models.Location, recordedAt time.Time) error {
	query := `
		UPDATE officers
		SET last_latitude = $1, last_longitude = $2, located_at = $3, last_seen_at = $3
		WHERE id = $4;
	`
	cmdTag, err := r.db.Exec(ctx, query, loc.Lat, loc.Lng, recordedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update officer location: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.New(apperrors.KindNotFound, "repository.UpdateOfficerLocation", "officer with id %s not found", id)
	}
	return nil
}

func scanOfficer(row pgx.Row) (*models.Officer, error) {
	o := &models.Officer{}
	var (
		lastSeen *time.Time
		lat, lng *float64
	)
	err := row.Scan(
		&o.ID,
		&o.Username,
		&o.Role,
		&o.Status,
		&o.BadgeNumber,
		&o.Department,
		&o.Rank,
		&lastSeen,
		&lat,
		&lng,
		&o.LocatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastSeen != nil {
		o.LastSeenAt = *lastSeen
	}
	if lat != nil && lng != nil {
		o.Location = &models.Location{Lat: *lat, Lng: *lng}
	} else {
		o.LocatedAt = nil
	}
	return o, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
