package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/slidegenius/slidegenius/internal/api/middleware"
	"github.com/slidegenius/slidegenius/internal/api/response"
	"github.com/slidegenius/slidegenius/internal/cache"
	"github.com/slidegenius/slidegenius/internal/dispatch"
	"github.com/slidegenius/slidegenius/internal/pipeline"
	"github.com/slidegenius/slidegenius/internal/store"
	"github.com/slidegenius/slidegenius/pkg/models"
)

const statusCacheTTL = 30 * time.Minute

// defaultTheme is applied when a generation request names no theme.
const defaultTheme = "black"

func themeAllowed(theme string) bool {
	return theme == models.ThemeAISuggest || pipeline.IsValidTheme(theme)
}

// presentationItem is the list-view projection: everything except the
// generated content bodies, which can be large.
type presentationItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Theme     string    `json:"theme"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

func toItem(p *models.Presentation) presentationItem {
	return presentationItem{
		ID:        p.ID,
		Title:     p.Title,
		Theme:     p.Theme,
		Status:    p.Status,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewGenerateHandler returns an http.HandlerFunc for
// POST /api/v1/presentations/generate. It records a pending job, hands it
// to the dispatcher, and answers 202 immediately. A repeat request for the
// same title reuses the existing record instead of stacking a new one.
func NewGenerateHandler(s store.Store, c cache.Cache, d dispatch.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing user", nil)
			return
		}

		var req struct {
			Title    string `json:"title"`
			Markdown string `json:"markdown"`
			Theme    string `json:"theme"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		title := strings.TrimSpace(req.Title)
		if title == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "title is required", nil)
			return
		}
		if strings.TrimSpace(req.Markdown) == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "markdown is required", nil)
			return
		}

		theme := strings.TrimSpace(req.Theme)
		if theme == "" {
			theme = defaultTheme
		}
		if !themeAllowed(theme) {
			response.Error(w, http.StatusBadRequest, "INVALID_THEME", "Unknown theme", map[string]any{
				"valid_themes": append([]string{models.ThemeAISuggest}, pipeline.Themes...),
			})
			return
		}

		existing, err := s.FindPresentationByTitle(r.Context(), userID, title)
		var p *models.Presentation
		switch {
		case err == nil:
			if resetErr := s.ResetPresentationForRun(r.Context(), existing.ID, req.Markdown, theme); resetErr != nil {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start generation", nil)
				return
			}
			p = existing
		case errors.Is(err, store.ErrNotFound):
			p = &models.Presentation{
				UserID:        userID,
				Title:         title,
				MarkdownInput: req.Markdown,
				Theme:         theme,
				Status:        models.StatusPending,
			}
			if createErr := s.CreatePresentation(r.Context(), p); createErr != nil {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start generation", nil)
				return
			}
		default:
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start generation", nil)
			return
		}

		if cacheErr := c.SetPresentationStatus(r.Context(), p.ID, models.StatusPending, statusCacheTTL); cacheErr != nil {
			slog.Warn("failed to cache pending status",
				"presentation_id", p.ID.String(), "error", cacheErr.Error())
		}

		d.Submit(pipeline.State{
			PresentationID: p.ID,
			UserID:         userID,
			Title:          title,
			MarkdownInput:  req.Markdown,
			Theme:          theme,
		})

		response.Accepted(w, map[string]string{
			"presentation_id": p.ID.String(),
			"status":          models.StatusPending,
		})
	}
}

// NewStatusHandler returns an http.HandlerFunc for
// GET /api/v1/presentations/{presentationID}/status. Polls hit Redis first;
// the database is only consulted when the cached status has expired.
func NewStatusHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing user", nil)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "presentationID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid presentation ID format", nil)
			return
		}

		if status, hit, cacheErr := c.GetPresentationStatus(r.Context(), id); cacheErr == nil && hit {
			response.JSON(w, map[string]string{
				"presentation_id": id.String(),
				"status":          status,
			})
			return
		}

		p, err := s.GetPresentationForUser(r.Context(), id, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "PRESENTATION_NOT_FOUND", "Presentation not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch status", nil)
			return
		}

		if cacheErr := c.SetPresentationStatus(r.Context(), p.ID, p.Status, statusCacheTTL); cacheErr != nil {
			slog.Warn("failed to refresh cached status",
				"presentation_id", p.ID.String(), "error", cacheErr.Error())
		}

		body := map[string]any{
			"presentation_id": p.ID.String(),
			"status":          p.Status,
		}
		if p.Status == models.StatusFailed && p.ErrorMessage != nil {
			body["error_message"] = *p.ErrorMessage
		}
		response.JSON(w, body)
	}
}

// NewListHandler returns an http.HandlerFunc for GET /api/v1/presentations.
func NewListHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing user", nil)
			return
		}

		ps, err := s.ListPresentations(r.Context(), userID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list presentations", nil)
			return
		}

		items := make([]presentationItem, 0, len(ps))
		for _, p := range ps {
			items = append(items, toItem(p))
		}
		response.Collection(w, items, response.ListMeta{Count: len(items)})
	}
}

// NewGetHandler returns an http.HandlerFunc for
// GET /api/v1/presentations/{presentationID}, including generated content.
func NewGetHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing user", nil)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "presentationID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid presentation ID format", nil)
			return
		}

		p, err := s.GetPresentationForUser(r.Context(), id, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "PRESENTATION_NOT_FOUND", "Presentation not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch presentation", nil)
			return
		}

		response.JSON(w, p)
	}
}

// NewUpdateHandler returns an http.HandlerFunc for
// PUT /api/v1/presentations/{presentationID}. Only title, generated
// markdown, and theme may be edited; HTML is regenerated, never PUT.
func NewUpdateHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing user", nil)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "presentationID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid presentation ID format", nil)
			return
		}

		var req struct {
			Title           *string `json:"title"`
			MarkdownContent *string `json:"markdown_content"`
			Theme           *string `json:"theme"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Title == nil && req.MarkdownContent == nil && req.Theme == nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Nothing to update", nil)
			return
		}
		if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "title cannot be empty", nil)
			return
		}
		if req.Theme != nil && !pipeline.IsValidTheme(*req.Theme) {
			response.Error(w, http.StatusBadRequest, "INVALID_THEME", "Unknown theme", map[string]any{
				"valid_themes": pipeline.Themes,
			})
			return
		}

		upd := store.ContentUpdate{
			Title:           req.Title,
			MarkdownContent: req.MarkdownContent,
			Theme:           req.Theme,
		}
		if err := s.UpdatePresentationContent(r.Context(), id, userID, upd); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "PRESENTATION_NOT_FOUND", "Presentation not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update presentation", nil)
			return
		}

		p, err := s.GetPresentationForUser(r.Context(), id, userID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch presentation", nil)
			return
		}
		response.JSON(w, p)
	}
}

// NewDeleteHandler returns an http.HandlerFunc for
// DELETE /api/v1/presentations/{presentationID}.
func NewDeleteHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.GetUserID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing user", nil)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "presentationID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid presentation ID format", nil)
			return
		}

		if err := s.DeletePresentation(r.Context(), id, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "PRESENTATION_NOT_FOUND", "Presentation not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete presentation", nil)
			return
		}
		response.NoContent(w)
	}
}
