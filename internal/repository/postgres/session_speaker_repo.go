package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventstage/internal/domain"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised by the unique constraint
// on (session_id, speaker_id). It is the sole arbiter when two assignment
// requests race; the loser gets a conflict.
const uniqueViolation = "23505"

type sessionSpeakerRepository struct {
	DB *sql.DB
}

func NewSessionSpeakerRepository(db *sql.DB) domain.SessionSpeakerRepository {
	return &sessionSpeakerRepository{
		DB: db,
	}
}

const sessionSpeakerColumns = `id, session_id, speaker_id, materials_asset_id, materials_status, speaker_checkin_confirmed, special_notes, created_at, updated_at`

func scanSessionSpeaker(row interface{ Scan(...any) error }) (*domain.SessionSpeaker, error) {
	a := &domain.SessionSpeaker{}
	var assetNull, notesNull sql.NullString
	err := row.Scan(
		&a.ID, &a.SessionID, &a.SpeakerID, &assetNull, &a.MaterialsStatus,
		&a.SpeakerCheckinConfirmed, &notesNull, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assetNull.Valid {
		a.MaterialsAssetID = &assetNull.String
	}
	if notesNull.Valid {
		a.SpecialNotes = &notesNull.String
	}
	return a, nil
}

func (r *sessionSpeakerRepository) Create(ctx context.Context, a *domain.SessionSpeaker) error {
	query := `
		INSERT INTO session_speakers (session_id, speaker_id, materials_status, speaker_checkin_confirmed, special_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var notesArg sql.NullString
	if a.SpecialNotes != nil {
		notesArg = sql.NullString{String: *a.SpecialNotes, Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, query,
		a.SessionID, a.SpeakerID, a.MaterialsStatus, a.SpeakerCheckinConfirmed,
		notesArg, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrSpeakerAlreadyAssigned
		}
		return err
	}
	return nil
}

func (r *sessionSpeakerRepository) Get(ctx context.Context, sessionID, speakerID string) (*domain.SessionSpeaker, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM session_speakers
		WHERE session_id = $1 AND speaker_id = $2
	`, sessionSpeakerColumns)
	a, err := scanSessionSpeaker(r.DB.QueryRowContext(ctx, query, sessionID, speakerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *sessionSpeakerRepository) ListBySessionID(ctx context.Context, sessionID string) ([]*domain.SessionSpeaker, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM session_speakers
		WHERE session_id = $1
		ORDER BY created_at
	`, sessionSpeakerColumns)
	rows, err := r.DB.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	assignments := make([]*domain.SessionSpeaker, 0)
	for rows.Next() {
		a, err := scanSessionSpeaker(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *sessionSpeakerRepository) Update(ctx context.Context, sessionID, speakerID string, update domain.SessionSpeakerUpdate) (*domain.SessionSpeaker, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if update.MaterialsAssetID != nil {
		setClauses = append(setClauses, fmt.Sprintf("materials_asset_id = $%d", n))
		args = append(args, *update.MaterialsAssetID)
		n++
	}
	if update.MaterialsStatus != nil {
		setClauses = append(setClauses, fmt.Sprintf("materials_status = $%d", n))
		args = append(args, *update.MaterialsStatus)
		n++
	}
	if update.SpeakerCheckinConfirmed != nil {
		setClauses = append(setClauses, fmt.Sprintf("speaker_checkin_confirmed = $%d", n))
		args = append(args, *update.SpeakerCheckinConfirmed)
		n++
	}
	if update.SpecialNotes != nil {
		setClauses = append(setClauses, fmt.Sprintf("special_notes = $%d", n))
		args = append(args, *update.SpecialNotes)
		n++
	}
	if n == 1 {
		return r.Get(ctx, sessionID, speakerID)
	}
	args = append(args, sessionID, speakerID)
	query := fmt.Sprintf(`
		UPDATE session_speakers SET %s
		WHERE session_id = $%d AND speaker_id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, n+1, sessionSpeakerColumns)
	a, err := scanSessionSpeaker(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *sessionSpeakerRepository) Delete(ctx context.Context, sessionID, speakerID string) error {
	query := `DELETE FROM session_speakers WHERE session_id = $1 AND speaker_id = $2`
	result, err := r.DB.ExecContext(ctx, query, sessionID, speakerID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
