package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventstage/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, name, description, category, status, speaker_id, venue_id, booking_start_date, booking_end_date, rejection_reason, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var reasonNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Category, &e.Status,
		&e.SpeakerID, &e.VenueID, &e.BookingStartDate, &e.BookingEndDate,
		&reasonNull, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reasonNull.Valid {
		e.RejectionReason = &reasonNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, category, status, speaker_id, venue_id, booking_start_date, booking_end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Category, e.Status, e.SpeakerID, e.VenueID,
		e.BookingStartDate, e.BookingEndDate, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListBySpeakerID(ctx context.Context, speakerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE speaker_id = $1
		ORDER BY created_at DESC
	`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query, speakerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus, rejectionReason *string) (*domain.Event, error) {
	query := fmt.Sprintf(`
		UPDATE events
		SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, eventColumns)
	var reasonArg sql.NullString
	if rejectionReason != nil {
		reasonArg = sql.NullString{String: *rejectionReason, Valid: true}
	}
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, status, reasonArg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) UpdateDetails(ctx context.Context, id string, update domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if update.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *update.Name)
		n++
	}
	if update.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *update.Description)
		n++
	}
	if update.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", n))
		args = append(args, *update.Category)
		n++
	}
	if update.VenueID != nil {
		setClauses = append(setClauses, fmt.Sprintf("venue_id = $%d", n))
		args = append(args, *update.VenueID)
		n++
	}
	if update.BookingStartDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("booking_start_date = $%d", n))
		args = append(args, *update.BookingStartDate)
		n++
	}
	if update.BookingEndDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("booking_end_date = $%d", n))
		args = append(args, *update.BookingEndDate)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}
