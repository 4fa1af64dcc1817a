package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusevents/internal/domain"
)

// storeTx implements domain.StoreTx on top of one *sql.Tx. The FOR UPDATE
// queries take exclusive row locks that serialize concurrent admissions
// against the same event until the transaction ends.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) GetEventForUpdate(ctx context.Context, eventID int64) (*domain.Event, error) {
	query := `
		SELECT id, title, description, start_at, end_at, venue,
		       capacity, waitlist_enabled, is_team_event, team_size_min, team_size_max
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	ev := &domain.Event{}
	err := t.tx.QueryRowContext(ctx, query, eventID).Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.StartAt, &ev.EndAt, &ev.Venue,
		&ev.Capacity, &ev.WaitlistEnabled, &ev.IsTeamEvent, &ev.TeamSizeMin, &ev.TeamSizeMax,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

func (t *storeTx) GetRegistrationForUpdate(ctx context.Context, id int64) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, name, email, team_name, status, created_at
		FROM registrations
		WHERE id = $1
		FOR UPDATE
	`
	reg := &domain.Registration{}
	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&reg.ID, &reg.EventID, &reg.Name, &reg.Email, &reg.TeamName, &reg.Status, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (t *storeTx) RegistrationExists(ctx context.Context, eventID int64, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations WHERE event_id = $1 AND email = $2
		)
	`
	var exists bool
	if err := t.tx.QueryRowContext(ctx, query, eventID, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (t *storeTx) ConfirmedCountForEvent(ctx context.Context, eventID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'CONFIRMED'
	`
	var count int
	if err := t.tx.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (t *storeTx) ConfirmedCountForEmail(ctx context.Context, email string) (int, error) {
	query := `
		SELECT COUNT(*) FROM registrations WHERE email = $1 AND status = 'CONFIRMED'
	`
	var count int
	if err := t.tx.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (t *storeTx) CreateRegistration(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, name, email, team_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return t.tx.QueryRowContext(ctx, query,
		reg.EventID, reg.Name, reg.Email, reg.TeamName, reg.Status, reg.CreatedAt,
	).Scan(&reg.ID)
}

func (t *storeTx) DeleteRegistration(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *storeTx) WaitlistedByEmailForUpdate(ctx context.Context, email string) ([]*domain.Registration, error) {
	query := `
		SELECT id, event_id, name, email, team_name, status, created_at
		FROM registrations
		WHERE email = $1 AND status = 'WAITLIST'
		ORDER BY created_at ASC, id ASC
		FOR UPDATE
	`
	rows, err := t.tx.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.Name, &reg.Email, &reg.TeamName, &reg.Status, &reg.CreatedAt,
		); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return regs, nil
}

func (t *storeTx) SetRegistrationStatus(ctx context.Context, id int64, status domain.RegistrationStatus) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE registrations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
