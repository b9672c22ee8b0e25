package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"checkpoint/internal/middleware"
	"checkpoint/internal/models"
	"checkpoint/internal/validate"
)

// StandupStore is the report-store surface the standup handlers need;
// satisfied by store.StandupStore.
type StandupStore interface {
	Upsert(ctx context.Context, userID uuid.UUID, day time.Time, yesterday, today, blockers string) (*models.Standup, bool, error)
	GetForDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.Standup, error)
	TeamForDay(ctx context.Context, day time.Time) ([]models.TeamEntry, error)
	ListForDay(ctx context.Context, day time.Time) ([]models.StandupWithUser, error)
	History(ctx context.Context, userID uuid.UUID, page, limit int, start, end *time.Time) ([]models.StandupWithUser, int, error)
}

type StandupHandler struct {
	standups StandupStore
	now      func() time.Time
}

func NewStandupHandler(standups StandupStore) *StandupHandler {
	return &StandupHandler{standups: standups, now: time.Now}
}

// today truncates the clock to the server's local calendar day.
func (h *StandupHandler) today() time.Time {
	t := h.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Submit creates today's standup or overwrites it when one already exists.
// 201 on create, 200 on update.
func (h *StandupHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token is required", nil)
		return
	}
	var in validate.StandupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	in, errs := validate.Standup(in)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	standup, created, err := h.standups.Upsert(r.Context(), user.ID, h.today(), in.Yesterday, in.Today, in.Blockers)
	if err != nil {
		slog.Error("failed to save standup", slog.Any("err", err))
		writeServerError(w)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toStandupDTO(standup, nil))
}

// Today returns the caller's standup for the current day, or null.
func (h *StandupHandler) Today(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token is required", nil)
		return
	}
	standup, err := h.standups.GetForDay(r.Context(), user.ID, h.today())
	if err != nil {
		slog.Error("failed to fetch today's standup", slog.Any("err", err))
		writeServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, toStandupDTO(standup, nil))
}

type teamEntryDTO struct {
	User    models.UserSummary `json:"user"`
	Standup *StandupDTO        `json:"standup"`
}

// Team returns one entry per registered user for the requested day
// (default today); users without a submission appear with standup null.
func (h *StandupHandler) Team(w http.ResponseWriter, r *http.Request) {
	day, errs := validate.TeamQuery(r.URL.Query().Get("date"))
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}
	if day.IsZero() {
		day = h.today()
	}

	entries, err := h.standups.TeamForDay(r.Context(), day)
	if err != nil {
		slog.Error("failed to fetch team standups", slog.Any("err", err))
		writeServerError(w)
		return
	}
	out := make([]teamEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, teamEntryDTO{User: e.User, Standup: toStandupDTO(e.Standup, nil)})
	}
	writeJSON(w, http.StatusOK, out)
}

type paginationDTO struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type historyResponse struct {
	Standups   []*StandupDTO `json:"standups"`
	Pagination paginationDTO `json:"pagination"`
}

// History pages through the caller's standups, newest first, optionally
// bounded by an inclusive date range.
func (h *StandupHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token is required", nil)
		return
	}
	q := r.URL.Query()
	params, errs := validate.HistoryQuery(q.Get("page"), q.Get("limit"), q.Get("startDate"), q.Get("endDate"))
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	items, total, err := h.standups.History(r.Context(), user.ID, params.Page, params.Limit, params.Start, params.End)
	if err != nil {
		slog.Error("failed to fetch history", slog.Any("err", err))
		writeServerError(w)
		return
	}
	totalPages := (total + params.Limit - 1) / params.Limit
	writeJSON(w, http.StatusOK, historyResponse{
		Standups: toStandupDTOs(items),
		Pagination: paginationDTO{
			CurrentPage:  params.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: params.Limit,
		},
	})
}

// ByDate returns every user's standup for one calendar day.
func (h *StandupHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	day, errs := validate.DateParam(chi.URLParam(r, "date"))
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}
	items, err := h.standups.ListForDay(r.Context(), day)
	if err != nil {
		slog.Error("failed to fetch standups by date", slog.Any("err", err))
		writeServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, toStandupDTOs(items))
}
