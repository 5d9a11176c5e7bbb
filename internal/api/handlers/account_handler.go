package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"propcore/internal/models"
	"propcore/internal/repository"
)

// AccountServiceInterface определяет read-операции по аккаунтам
type AccountServiceInterface interface {
	GetByID(id int) (*models.Account, error)
	GetEvents(accountID, limit int) ([]*models.Event, error)
	GetSnapshots(accountID, limit int) ([]*models.EquitySnapshot, error)
}

// AccountHandler отвечает за read-эндпоинты аккаунтов
//
// Endpoints:
// - GET /api/v1/accounts/{id}           - состояние аккаунта
// - GET /api/v1/accounts/{id}/events    - журнал аудит-событий
// - GET /api/v1/accounts/{id}/snapshots - снимки equity
type AccountHandler struct {
	accounts AccountServiceInterface
}

// NewAccountHandler создает новый AccountHandler
func NewAccountHandler(accounts AccountServiceInterface) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// GetAccount возвращает аккаунт по ID
// GET /api/v1/accounts/{id}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Invalid account ID", "ID must be a number")
		return
	}

	acc, err := h.accounts.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			respondWithError(w, http.StatusNotFound, "account_not_found", "Account not found", "")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to get account", err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, acc)
}

// GetEvents возвращает последние аудит-события аккаунта
// GET /api/v1/accounts/{id}/events?limit=N
func (h *AccountHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Invalid account ID", "ID must be a number")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.accounts.GetEvents(id, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to get events", err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, events)
}

// GetSnapshots возвращает последние снимки equity аккаунта
// GET /api/v1/accounts/{id}/snapshots?limit=N
func (h *AccountHandler) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Invalid account ID", "ID must be a number")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	snapshots, err := h.accounts.GetSnapshots(id, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to get snapshots", err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, snapshots)
}
