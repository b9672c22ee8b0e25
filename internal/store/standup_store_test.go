package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standupRowColumns = []string{
	"id", "user_id", "entry_date", "yesterday", "today", "blockers", "created_at", "updated_at",
}

func TestStandupStoreUpsert(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewStandupStore(db)

	userID := uuid.New()
	standupID := uuid.New()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	t.Run("insert reports created", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO standups`)).
			WithArgs(sqlmock.AnyArg(), userID, "2026-09-01", "did x", "doing y", "").
			WillReturnRows(sqlmock.NewRows(append(standupRowColumns, "inserted")).
				AddRow(standupID.String(), userID.String(), day, "did x", "doing y", "", now, now, true))

		st, created, err := s.Upsert(context.Background(), userID, day, "did x", "doing y", "")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, standupID, st.ID)
		assert.Equal(t, "did x", st.Yesterday)
	})

	t.Run("conflicting insert reports updated", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO standups`)).
			WithArgs(sqlmock.AnyArg(), userID, "2026-09-01", "did x2", "doing y2", "none").
			WillReturnRows(sqlmock.NewRows(append(standupRowColumns, "inserted")).
				AddRow(standupID.String(), userID.String(), day, "did x2", "doing y2", "none", now, now, false))

		st, created, err := s.Upsert(context.Background(), userID, day, "did x2", "doing y2", "none")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "did x2", st.Yesterday)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStandupStoreGetForDay_AbsentIsNil(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewStandupStore(db)

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM standups WHERE user_id=$1 AND entry_date=$2`)).
		WithArgs(userID, "2026-09-01").
		WillReturnRows(sqlmock.NewRows(standupRowColumns))

	st, err := s.GetForDay(context.Background(), userID, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestStandupStoreTeamForDay(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewStandupStore(db)

	aliceID := uuid.New()
	bobID := uuid.New()
	standupID := uuid.New()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	cols := []string{
		"id", "username", "email",
		"s_id", "yesterday", "today", "blockers", "entry_date", "created_at", "updated_at",
	}
	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN standups s ON s.user_id = u.id AND s.entry_date = $1`)).
		WithArgs("2026-09-01").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(aliceID.String(), "alice", "a@x.com", standupID.String(), "x", "y", "", day, now, now).
			AddRow(bobID.String(), "bob", "b@x.com", nil, nil, nil, nil, nil, nil, nil))

	entries, err := s.TeamForDay(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "alice", entries[0].User.Username)
	require.NotNil(t, entries[0].Standup)
	assert.Equal(t, standupID, entries[0].Standup.ID)
	assert.Equal(t, aliceID, entries[0].Standup.UserID)

	assert.Equal(t, "bob", entries[1].User.Username)
	assert.Nil(t, entries[1].Standup)
}

func TestStandupStoreHistory(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewStandupStore(db)

	userID := uuid.New()
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	listCols := append(append([]string{}, standupRowColumns...), "username", "email")

	t.Run("unbounded", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM standups s WHERE s.user_id = $1`)).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY s.entry_date DESC LIMIT $2 OFFSET $3`)).
			WithArgs(userID, 10, 20).
			WillReturnRows(sqlmock.NewRows(listCols).
				AddRow(uuid.NewString(), userID.String(), day, "x", "y", "", now, now, "alice", "a@x.com"))

		items, total, err := s.History(context.Background(), userID, 3, 10, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		require.Len(t, items, 1)
		assert.Equal(t, "alice", items[0].User.Username)
		assert.Equal(t, userID, items[0].User.ID)
	})

	t.Run("both bounds applied inclusively", func(t *testing.T) {
		start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.user_id = $1 AND s.entry_date >= $2 AND s.entry_date <= $3`)).
			WithArgs(userID, "2026-08-01", "2026-08-31").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $4 OFFSET $5`)).
			WithArgs(userID, "2026-08-01", "2026-08-31", 10, 0).
			WillReturnRows(sqlmock.NewRows(listCols).
				AddRow(uuid.NewString(), userID.String(), day, "x", "y", "", now, now, "alice", "a@x.com"))

		_, total, err := s.History(context.Background(), userID, 1, 10, &start, &end)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	// A single bound is not silently dropped.
	t.Run("start bound alone is applied", func(t *testing.T) {
		start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.user_id = $1 AND s.entry_date >= $2`)).
			WithArgs(userID, "2026-08-01").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $3 OFFSET $4`)).
			WithArgs(userID, "2026-08-01", 10, 0).
			WillReturnRows(sqlmock.NewRows(listCols))

		items, total, err := s.History(context.Background(), userID, 1, 10, &start, nil)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStandupStoreListForDay(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := NewStandupStore(db)

	userID := uuid.New()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	listCols := append(append([]string{}, standupRowColumns...), "username", "email")
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.entry_date = $1`)).
		WithArgs("2026-09-01").
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow(uuid.NewString(), userID.String(), day, "x", "y", "z", now, now, "alice", "a@x.com"))

	items, err := s.ListForDay(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "z", items[0].Blockers)
	assert.Equal(t, "alice", items[0].User.Username)
}
