package handlers

import (
	"context"
	"errors"
	"net/http"

	"propcore/internal/repository"
	"propcore/internal/risk"
)

// CheckpointServiceInterface определяет операции сервиса checkpoint'ов
type CheckpointServiceInterface interface {
	GetCheckpointProgress(ctx context.Context, accountID int) (*risk.Progress, error)
}

// CheckpointHandler отвечает за прогресс evaluation-этапов
//
// Endpoints:
// - GET /api/v1/accounts/{id}/checkpoints - состояние текущего этапа
type CheckpointHandler struct {
	checkpoints CheckpointServiceInterface
}

// NewCheckpointHandler создает новый CheckpointHandler
func NewCheckpointHandler(checkpoints CheckpointServiceInterface) *CheckpointHandler {
	return &CheckpointHandler{checkpoints: checkpoints}
}

// GetProgress возвращает информационное состояние текущего этапа
// GET /api/v1/accounts/{id}/checkpoints
//
// Read-only: pass/fail фиксируется только deadline-оценкой движка.
//
// Response:
// - 200 OK: прогресс и история этапов
// - 404 Not Found: аккаунт не найден
// - 409 Conflict: аккаунт не является evaluation-аккаунтом
func (h *CheckpointHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Invalid account ID", "ID must be a number")
		return
	}

	progress, err := h.checkpoints.GetCheckpointProgress(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAccountNotFound):
			respondWithError(w, http.StatusNotFound, "account_not_found", "Account not found", "")
		case errors.Is(err, risk.ErrNotEvaluation):
			respondWithError(w, http.StatusConflict, "not_evaluation", "Account has no evaluation checkpoints", "")
		default:
			respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to get checkpoint progress", err.Error())
		}
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}
