package handlers

import (
	"time"

	"checkpoint/internal/models"
)

// StandupDTO is the wire shape of a standup. Date is day-granular; the user
// summary is present on team, date and history views.
type StandupDTO struct {
	ID        string              `json:"id"`
	User      *models.UserSummary `json:"user,omitempty"`
	Yesterday string              `json:"yesterday"`
	Today     string              `json:"today"`
	Blockers  string              `json:"blockers,omitempty"`
	Date      string              `json:"date"`
	CreatedAt string              `json:"createdAt"`
	UpdatedAt string              `json:"updatedAt"`
}

func toStandupDTO(s *models.Standup, u *models.UserSummary) *StandupDTO {
	if s == nil {
		return nil
	}
	return &StandupDTO{
		ID:        s.ID.String(),
		User:      u,
		Yesterday: s.Yesterday,
		Today:     s.Today,
		Blockers:  s.Blockers,
		Date:      s.EntryDate.Format("2006-01-02"),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func toStandupDTOs(items []models.StandupWithUser) []*StandupDTO {
	out := make([]*StandupDTO, 0, len(items))
	for i := range items {
		user := items[i].User
		out = append(out, toStandupDTO(&items[i].Standup, &user))
	}
	return out
}
