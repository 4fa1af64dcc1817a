package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"campusevents/internal/domain"
)

type store struct {
	DB *sql.DB
}

// NewStore wraps db as a domain.Store.
func NewStore(db *sql.DB) domain.Store {
	return &store{
		DB: db,
	}
}

func (s *store) ListEventsWithCounts(ctx context.Context) ([]*domain.EventWithCounts, error) {
	query := `
		SELECT e.id, e.title, e.description, e.start_at, e.end_at, e.venue,
		       e.capacity, e.waitlist_enabled, e.is_team_event, e.team_size_min, e.team_size_max,
		       COUNT(r.id) FILTER (WHERE r.status = 'CONFIRMED') AS confirmed
		FROM events e
		LEFT JOIN registrations r ON r.event_id = e.id
		GROUP BY e.id
		ORDER BY e.start_at ASC, e.id ASC
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.EventWithCounts, 0)
	for rows.Next() {
		ev := &domain.EventWithCounts{}
		if err := rows.Scan(
			&ev.ID, &ev.Title, &ev.Description, &ev.StartAt, &ev.EndAt, &ev.Venue,
			&ev.Capacity, &ev.WaitlistEnabled, &ev.IsTeamEvent, &ev.TeamSizeMin, &ev.TeamSizeMax,
			&ev.Confirmed,
		); err != nil {
			return nil, err
		}
		ev.Spots = ev.Capacity - ev.Confirmed
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// WithinTx runs fn inside a single transaction. Row locks taken through the
// StoreTx are released on commit or rollback.
func (s *store) WithinTx(ctx context.Context, fn func(tx domain.StoreTx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&storeTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback transaction: %v (after: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
