package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserSummary is the public slice of a user embedded in team and history views.
type UserSummary struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	Email    string    `db:"email" json:"email"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

type Standup struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Yesterday string    `db:"yesterday" json:"yesterday"`
	Today     string    `db:"today" json:"today"`
	Blockers  string    `db:"blockers" json:"blockers,omitempty"`
	EntryDate time.Time `db:"entry_date" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// StandupWithUser carries a standup together with its owner's summary,
// as produced by joined queries.
type StandupWithUser struct {
	Standup
	User UserSummary
}

// TeamEntry is one row of the team view: every registered user appears,
// Standup is nil when nothing was submitted for the day.
type TeamEntry struct {
	User    UserSummary
	Standup *Standup
}
