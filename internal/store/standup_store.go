package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"checkpoint/internal/models"
)

const dateLayout = "2006-01-02"

// StandupStore persists daily standup reports in Postgres.
type StandupStore struct {
	db *sqlx.DB
}

func NewStandupStore(db *sqlx.DB) *StandupStore {
	return &StandupStore{db: db}
}

// Upsert writes the standup for (userID, day) atomically. The unique
// constraint on (user_id, entry_date) makes concurrent submissions for the
// same day converge on a single row. The returned bool reports whether a new
// row was created.
func (s *StandupStore) Upsert(ctx context.Context, userID uuid.UUID, day time.Time, yesterday, today, blockers string) (*models.Standup, bool, error) {
	row := s.db.QueryRowxContext(ctx,
		`INSERT INTO standups (id, user_id, entry_date, yesterday, today, blockers)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, entry_date)
		 DO UPDATE SET
		   yesterday = EXCLUDED.yesterday,
		   today = EXCLUDED.today,
		   blockers = EXCLUDED.blockers,
		   updated_at = NOW()
		 RETURNING id, user_id, entry_date, yesterday, today, blockers, created_at, updated_at, (xmax = 0)`,
		uuid.New(), userID, day.Format(dateLayout), yesterday, today, blockers)

	var st models.Standup
	var inserted bool
	err := row.Scan(&st.ID, &st.UserID, &st.EntryDate, &st.Yesterday, &st.Today, &st.Blockers,
		&st.CreatedAt, &st.UpdatedAt, &inserted)
	if err != nil {
		return nil, false, err
	}
	return &st, inserted, nil
}

const standupColumns = `id, user_id, entry_date, yesterday, today, blockers, created_at, updated_at`

// GetForDay returns the user's standup for the given calendar day, or nil
// when none exists. Absence is not an error.
func (s *StandupStore) GetForDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.Standup, error) {
	var st models.Standup
	err := s.db.GetContext(ctx, &st,
		`SELECT `+standupColumns+` FROM standups WHERE user_id=$1 AND entry_date=$2`,
		userID, day.Format(dateLayout))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// TeamForDay returns one entry per registered user for the given day in a
// single batch query; users without a standup appear with a nil Standup.
func (s *StandupStore) TeamForDay(ctx context.Context, day time.Time) ([]models.TeamEntry, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT u.id, u.username, u.email,
		        s.id, s.yesterday, s.today, s.blockers, s.entry_date, s.created_at, s.updated_at
		 FROM users u
		 LEFT JOIN standups s ON s.user_id = u.id AND s.entry_date = $1
		 ORDER BY u.username ASC`,
		day.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TeamEntry{}
	for rows.Next() {
		var entry models.TeamEntry
		var (
			standupID uuid.NullUUID
			yesterday sql.NullString
			today     sql.NullString
			blockers  sql.NullString
			entryDate sql.NullTime
			createdAt sql.NullTime
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&entry.User.ID, &entry.User.Username, &entry.User.Email,
			&standupID, &yesterday, &today, &blockers, &entryDate, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if standupID.Valid {
			entry.Standup = &models.Standup{
				ID:        standupID.UUID,
				UserID:    entry.User.ID,
				Yesterday: yesterday.String,
				Today:     today.String,
				Blockers:  blockers.String,
				EntryDate: entryDate.Time,
				CreatedAt: createdAt.Time,
				UpdatedAt: updatedAt.Time,
			}
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// ListForDay returns all standups submitted for the given calendar day,
// each with its owner's summary.
func (s *StandupStore) ListForDay(ctx context.Context, day time.Time) ([]models.StandupWithUser, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT s.id, s.user_id, s.entry_date, s.yesterday, s.today, s.blockers, s.created_at, s.updated_at,
		        u.username, u.email
		 FROM standups s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.entry_date = $1`,
		day.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStandupsWithUser(rows)
}

// History returns one page of the user's standups ordered by date descending,
// plus the total number of matching rows. Each date bound is applied when
// present, inclusively and independently of the other.
func (s *StandupStore) History(ctx context.Context, userID uuid.UUID, page, limit int, start, end *time.Time) ([]models.StandupWithUser, int, error) {
	where := "WHERE s.user_id = $1"
	args := []interface{}{userID}

	if start != nil {
		args = append(args, start.Format(dateLayout))
		where += fmt.Sprintf(" AND s.entry_date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, end.Format(dateLayout))
		where += fmt.Sprintf(" AND s.entry_date <= $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM standups s " + where
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT s.id, s.user_id, s.entry_date, s.yesterday, s.today, s.blockers, s.created_at, s.updated_at,
	                 u.username, u.email
	          FROM standups s
	          JOIN users u ON u.id = s.user_id ` + where +
		fmt.Sprintf(" ORDER BY s.entry_date DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := scanStandupsWithUser(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func scanStandupsWithUser(rows *sqlx.Rows) ([]models.StandupWithUser, error) {
	out := []models.StandupWithUser{}
	for rows.Next() {
		var item models.StandupWithUser
		if err := rows.Scan(&item.ID, &item.UserID, &item.EntryDate, &item.Yesterday, &item.Today,
			&item.Blockers, &item.CreatedAt, &item.UpdatedAt,
			&item.User.Username, &item.User.Email); err != nil {
			return nil, err
		}
		item.User.ID = item.UserID
		out = append(out, item)
	}
	return out, rows.Err()
}
