package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

func newMockDB(t *testing.T) (*store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &store{DB: db}, mock
}

func TestListEventsWithCounts(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	columns := []string{
		"id", "title", "description", "start_at", "end_at", "venue",
		"capacity", "waitlist_enabled", "is_team_event", "team_size_min", "team_size_max",
		"confirmed",
	}

	t.Run("returns events with computed spots", func(t *testing.T) {
		s, mock := newMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM events e").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(1, "Intro Night", "Welcome", start, end, "Hall A", 100, true, false, 1, 1, 40).
				AddRow(2, "Hack Day", "", start.Add(24*time.Hour), end.Add(24*time.Hour), "Lab", 30, false, true, 2, 5, 30))

		events, err := s.ListEventsWithCounts(ctx)

		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, int64(1), events[0].ID)
		require.Equal(t, 40, events[0].Confirmed)
		require.Equal(t, 60, events[0].Spots)
		require.True(t, events[1].IsTeamEvent)
		require.Equal(t, 0, events[1].Spots)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no events", func(t *testing.T) {
		s, mock := newMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM events e").
			WillReturnRows(sqlmock.NewRows(columns))

		events, err := s.ListEventsWithCounts(ctx)

		require.NoError(t, err)
		require.NotNil(t, events)
		require.Empty(t, events)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		s, mock := newMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM events e").
			WillReturnError(errors.New("connection reset"))

		events, err := s.ListEventsWithCounts(ctx)

		require.Error(t, err)
		require.Nil(t, events)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		s, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		called := false
		err := s.WithinTx(ctx, func(tx domain.StoreTx) error {
			called = true
			return nil
		})

		require.NoError(t, err)
		require.True(t, called)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		s, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		fnErr := errors.New("admission failed")
		err := s.WithinTx(ctx, func(tx domain.StoreTx) error {
			return fnErr
		})

		require.ErrorIs(t, err, fnErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel errors survive the rollback", func(t *testing.T) {
		s, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := s.WithinTx(ctx, func(tx domain.StoreTx) error {
			return domain.ErrNotFound
		})

		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		s, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := s.WithinTx(ctx, func(tx domain.StoreTx) error {
			t.Fatal("fn must not run when begin fails")
			return nil
		})

		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
