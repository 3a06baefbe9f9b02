package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventstage/internal/domain"
)

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

const sessionColumns = `id, event_id, title, description, starts_at, ends_at, stage, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*domain.Session, error) {
	s := &domain.Session{}
	var descNull, stageNull sql.NullString
	err := row.Scan(
		&s.ID, &s.EventID, &s.Title, &descNull, &s.StartsAt, &s.EndsAt,
		&stageNull, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		s.Description = &descNull.String
	}
	if stageNull.Valid {
		s.Stage = &stageNull.String
	}
	return s, nil
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (event_id, title, description, starts_at, ends_at, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var descArg, stageArg sql.NullString
	if s.Description != nil {
		descArg = sql.NullString{String: *s.Description, Valid: true}
	}
	if s.Stage != nil {
		stageArg = sql.NullString{String: *s.Stage, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		s.EventID, s.Title, descArg, s.StartsAt, s.EndsAt, stageArg, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)
	s, err := scanSession(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sessions
		WHERE event_id = $1
		ORDER BY starts_at
	`, sessionColumns)
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionRepository) Update(ctx context.Context, id string, update domain.SessionUpdate) (*domain.Session, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if update.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *update.Title)
		n++
	}
	if update.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *update.Description)
		n++
	}
	if update.StartsAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("starts_at = $%d", n))
		args = append(args, *update.StartsAt)
		n++
	}
	if update.EndsAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("ends_at = $%d", n))
		args = append(args, *update.EndsAt)
		n++
	}
	if update.Stage != nil {
		setClauses = append(setClauses, fmt.Sprintf("stage = $%d", n))
		args = append(args, *update.Stage)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE sessions SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, sessionColumns)
	s, err := scanSession(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
