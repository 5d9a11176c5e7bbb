package handlers

import (
	"context"
	"errors"
	"net/http"

	"propcore/internal/repository"
	"propcore/internal/risk"
)

// RiskServiceInterface определяет операции риск-сервиса
type RiskServiceInterface interface {
	EvaluateRisk(ctx context.Context, accountID int) (*risk.EvalResult, error)
	Withdraw(ctx context.Context, accountID int, amount float64) (float64, error)
}

// RiskHandler отвечает за риск-операции аккаунтов
//
// Endpoints:
// - POST /api/v1/accounts/{id}/evaluate - немедленная риск-оценка
// - POST /api/v1/accounts/{id}/withdraw - вывод профита
type RiskHandler struct {
	riskService RiskServiceInterface
}

// NewRiskHandler создает новый RiskHandler
func NewRiskHandler(riskService RiskServiceInterface) *RiskHandler {
	return &RiskHandler{riskService: riskService}
}

// EvaluateResponse структура ответа риск-оценки
type EvaluateResponse struct {
	AccountID int     `json:"account_id"`
	Status    string  `json:"status"`
	Equity    float64 `json:"equity"`
	Changed   bool    `json:"changed"`
}

// WithdrawRequest структура запроса на вывод профита
type WithdrawRequest struct {
	Amount float64 `json:"amount"`
}

// WithdrawResponse структура ответа на вывод профита
type WithdrawResponse struct {
	AccountID     int     `json:"account_id"`
	Amount        float64 `json:"amount"`
	HighWaterMark float64 `json:"high_water_mark"`
}

// EvaluateAccount выполняет немедленную риск-оценку аккаунта
// POST /api/v1/accounts/{id}/evaluate
//
// Response:
// - 200 OK: результат оценки (статус мог измениться)
// - 404 Not Found: аккаунт не найден
// - 409 Conflict: аккаунт в терминальном статусе
func (h *RiskHandler) EvaluateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Invalid account ID", "ID must be a number")
		return
	}

	result, err := h.riskService.EvaluateRisk(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, EvaluateResponse{
		AccountID: id,
		Status:    string(result.Status),
		Equity:    result.Equity,
		Changed:   result.Changed,
	})
}

// Withdraw применяет вывод профита к аккаунту
// POST /api/v1/accounts/{id}/withdraw
//
// Request Body:
//
//	{"amount": 500}
//
// Response:
// - 200 OK: новый high-water mark
// - 400 Bad Request: неположительная сумма
// - 404 Not Found: аккаунт не найден
// - 409 Conflict: аккаунт в терминальном статусе
func (h *RiskHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Invalid account ID", "ID must be a number")
		return
	}

	var req WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body", err.Error())
		return
	}

	newHWM, err := h.riskService.Withdraw(r.Context(), id, req.Amount)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, WithdrawResponse{
		AccountID:     id,
		Amount:        req.Amount,
		HighWaterMark: newHWM,
	})
}

// handleServiceError отображает ошибки сервиса на HTTP статусы
func (h *RiskHandler) handleServiceError(w http.ResponseWriter, err error) {
	var cfgErr *risk.ConfigError

	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		respondWithError(w, http.StatusNotFound, "account_not_found", "Account not found", "")

	case errors.Is(err, risk.ErrAccountTerminal):
		respondWithError(w, http.StatusConflict, "account_terminal", "Account is in a terminal status", "")

	case errors.Is(err, risk.ErrInvalidWithdrawAmount):
		respondWithError(w, http.StatusBadRequest, "invalid_amount", "Withdrawal amount must be positive", "")

	case errors.As(err, &cfgErr):
		respondWithError(w, http.StatusUnprocessableEntity, "invalid_account_config", "Account configuration is invalid", cfgErr.Error())

	default:
		respondWithError(w, http.StatusInternalServerError, "internal_error", "Internal server error", err.Error())
	}
}
