package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmoreno/bank-accounts/internal/errors"
	"github.com/mmoreno/bank-accounts/internal/models"
	"github.com/mmoreno/bank-accounts/internal/service"
	u "github.com/mmoreno/bank-accounts/internal/utils"
)

type TransactionHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

func NewTransactionHandler(accountService service.AccountService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		accountService: accountService,
		logger:         logger,
	}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/v1/accounts/{id}/deposit", h.Deposit).Methods(http.MethodPost)
	router.HandleFunc("/v1/accounts/{id}/withdraw", h.Withdraw).Methods(http.MethodPost)
	router.HandleFunc("/v1/accounts/{id}/balance", h.GetBalance).Methods(http.MethodGet)
	router.HandleFunc("/v1/accounts/{id}/transactions", h.GetTransactions).Methods(http.MethodGet)
	router.HandleFunc("/v1/transfers", h.Transfer).Methods(http.MethodPost)
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, h.accountService.Deposit, "deposit")
}

func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, h.accountService.Withdraw, "withdraw")
}

type movementFunc func(ctx context.Context, accountID string, req *models.MovementRequest) (*models.TransactionResponse, error)

func (h *TransactionHandler) movement(w http.ResponseWriter, r *http.Request, apply movementFunc, operation string) {
	accountID := mux.Vars(r)["id"]

	var req models.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid "+operation+" request", "account_id", accountID, "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	transaction, err := apply(r.Context(), accountID, &req)
	if err != nil {
		h.handleServiceError(w, err, operation)
		return
	}
	u.WriteJSON(w, http.StatusCreated, transaction)
}

func (h *TransactionHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]

	balance, err := h.accountService.GetBalanceByAccount(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, err, "get balance")
		return
	}
	u.WriteJSON(w, http.StatusOK, balance)
}

func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]

	transactions, err := h.accountService.GetTransactionsByAccount(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, err, "get transactions")
		return
	}
	u.WriteJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid transfer request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}
	if msg := u.ValidateRequest(&req); msg != "" {
		u.WriteError(w, http.StatusBadRequest, "validation error", msg)
		return
	}

	transaction, err := h.accountService.Transfer(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "transfer")
		return
	}
	u.WriteJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "not found", err.Error())
	case errors.IsValidation(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	case errors.IsPartialFailure(err):
		h.logger.Error("transfer may be partially applied; reconcile required",
			"operation", operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "transfer state uncertain", "contact support before retrying")
	case errors.IsDependencyUnavailable(err):
		h.logger.Error("dependency unavailable during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusServiceUnavailable, "service unavailable", "")
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
