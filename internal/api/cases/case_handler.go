package cases

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kanworks/kanapi/internal/api"
	"github.com/kanworks/kanapi/internal/types"
)

type CaseHandler struct {
	service CaseService
	logger  *slog.Logger
}

func NewCaseHandler(service CaseService, logger *slog.Logger) *CaseHandler {
	return &CaseHandler{
		service: service,
		logger:  logger,
	}
}

// GetCase returns a single case by ID.
func (h *CaseHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID := chi.URLParam(r, "caseID")

	c, err := h.service.GetCase(ctx, caseID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, fmt.Sprintf("Case with id %s not found", caseID))
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get case", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve case")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, c)
}

// ListCases returns all non-deleted cases, newest first.
func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.service.ListCases(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list cases", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list cases")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"cases": list})
}

// CreateCase creates a new case.
func (h *CaseHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var params types.CreateCaseParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.service.CreateCase(ctx, params)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to create case", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create case")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, c)
}

// UpdateCase applies a partial update to an existing case.
func (h *CaseHandler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID := chi.URLParam(r, "caseID")

	var params types.UpdateCaseParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.service.UpdateCase(ctx, caseID, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, fmt.Sprintf("Case with id %s not found", caseID))
		default:
			h.logger.ErrorContext(ctx, "Failed to update case", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update case")
		}
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Case updated"})
}

// DeleteCase soft-deletes a case; the row stays behind with the deleted flag set.
func (h *CaseHandler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID := chi.URLParam(r, "caseID")

	err := h.service.DeleteCase(ctx, caseID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, fmt.Sprintf("Case with id %s not found", caseID))
			return
		}
		h.logger.ErrorContext(ctx, "Failed to delete case", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete case")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Case deleted"})
}
