// Package handler provides the HTTP handlers for the suggestion feature.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authentity "suggestion_box/internal/feature/auth/domain/entity"
	"suggestion_box/internal/feature/suggestion/domain/entity"
	"suggestion_box/internal/feature/suggestion/transport/http/dto"
	"suggestion_box/internal/feature/suggestion/usecase"
	"suggestion_box/internal/platform/audit"
	"suggestion_box/internal/platform/http/response"
	jwtmw "suggestion_box/internal/platform/jwt"
	"suggestion_box/internal/shared/apperr"
)

// SuggestionUsecase defines the suggestion use cases.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SuggestionUsecase interface {
	Create(ctx context.Context, principal *authentity.User, title, text string) (*entity.Suggestion, error)
	List(ctx context.Context, filter usecase.ListFilter) ([]entity.Suggestion, error)
	Get(ctx context.Context, principal *authentity.User, id uint) (*entity.Suggestion, error)
	Update(ctx context.Context, principal *authentity.User, id uint, in usecase.UpdateInput) (*entity.Suggestion, error)
	Delete(ctx context.Context, principal *authentity.User, id uint) error
}

// SecurityRecorder appends security events.
type SecurityRecorder interface {
	Record(ctx context.Context, eventType audit.EventType, userID *uint, details string)
}

// SuggestionHandler handles the HTTP requests for suggestions.
type SuggestionHandler struct {
	uc     SuggestionUsecase
	events SecurityRecorder
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(uc SuggestionUsecase, events SecurityRecorder) *SuggestionHandler {
	return &SuggestionHandler{uc: uc, events: events}
}

// List handles GET /suggestions?skip=0&limit=100&status=pending. No authentication is required.
func (h *SuggestionHandler) List(c *gin.Context) {
	var q dto.ListSuggestionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	ss, err := h.uc.List(c.Request.Context(), usecase.ListFilter{
		Skip:   q.Skip,
		Limit:  q.Limit,
		Status: entity.Status(q.Status),
	})
	if err != nil {
		h.fail(c, err, nil, "get_suggestions", "", "Internal server error while fetching suggestions")
		return
	}

	out := make([]dto.SuggestionRes, 0, len(ss))
	for i := range ss {
		out = append(out, dto.NewSuggestionRes(&ss[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Create handles POST /suggestions. The new suggestion is pending and owned by the caller.
func (h *SuggestionHandler) Create(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.CreateSuggestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	s, err := h.uc.Create(c.Request.Context(), principal, req.Title, req.Text)
	if err != nil {
		h.fail(c, err, principal, "create_suggestion", "", "Internal server error while creating suggestion")
		return
	}

	slog.Info("USER_ACTION", "action", "SUGGESTION_CREATE", "user_id", principal.ID, "suggestion_id", s.ID)
	c.JSON(http.StatusOK, dto.NewSuggestionRes(s))
}

// Get handles GET /suggestions/:id for the owner or a moderator.
func (h *SuggestionHandler) Get(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := suggestionID(c)
	if !ok {
		return
	}

	s, err := h.uc.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.fail(c, err, principal, "get_suggestion", fmt.Sprintf("suggestion_id=%d, ", id), "Internal server error while fetching suggestion")
		return
	}

	slog.Info("USER_ACTION", "action", "SUGGESTION_VIEW", "user_id", principal.ID, "suggestion_id", id)
	c.JSON(http.StatusOK, dto.NewSuggestionRes(s))
}

// Update handles PUT /suggestions/:id. Only provided fields change.
func (h *SuggestionHandler) Update(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := suggestionID(c)
	if !ok {
		return
	}

	var req dto.UpdateSuggestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	s, err := h.uc.Update(c.Request.Context(), principal, id, usecase.UpdateInput{
		Title:  req.Title,
		Text:   req.Text,
		Status: req.Status,
	})
	if err != nil {
		h.fail(c, err, principal, "update_suggestion", fmt.Sprintf("suggestion_id=%d, ", id), "Internal server error while updating suggestion")
		return
	}

	slog.Info("USER_ACTION", "action", "SUGGESTION_UPDATE", "user_id", principal.ID, "suggestion_id", id)
	c.JSON(http.StatusOK, dto.NewSuggestionRes(s))
}

// Delete handles DELETE /suggestions/:id.
func (h *SuggestionHandler) Delete(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := suggestionID(c)
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), principal, id); err != nil {
		h.fail(c, err, principal, "delete_suggestion", fmt.Sprintf("suggestion_id=%d, ", id), "Internal server error while deleting suggestion")
		return
	}

	slog.Info("USER_ACTION", "action", "SUGGESTION_DELETE", "user_id", principal.ID, "suggestion_id", id)
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Suggestion deleted successfully"})
}

func (h *SuggestionHandler) principal(c *gin.Context) (*authentity.User, bool) {
	p, ok := jwtmw.PrincipalFrom(c)
	if !ok {
		response.Error(c, jwtmw.ErrNotAuthenticated, "")
		return nil, false
	}
	return p, true
}

func suggestionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid suggestion id")
		return 0, false
	}
	return uint(id), true
}

// fail writes the error response. Unexpected failures are audited as <OP>_ERROR first.
func (h *SuggestionHandler) fail(c *gin.Context, err error, principal *authentity.User, op, details, fallback string) {
	var userID *uint
	if principal != nil {
		userID = audit.UserID(principal.ID)
	}
	if apperr.KindOf(err) == apperr.KindInternal {
		h.events.Record(c.Request.Context(), audit.ErrorEvent(op), userID, details+"error="+err.Error())
		slog.Error("suggestion request failed", "op", op, "error", err, "remote_addr", c.ClientIP())
	} else {
		slog.Warn("suggestion request rejected", "op", op, "error", err, "remote_addr", c.ClientIP())
	}
	response.Error(c, err, fallback)
}
