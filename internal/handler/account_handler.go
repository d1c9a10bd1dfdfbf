package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmoreno/bank-accounts/internal/errors"
	"github.com/mmoreno/bank-accounts/internal/models"
	"github.com/mmoreno/bank-accounts/internal/service"
	u "github.com/mmoreno/bank-accounts/internal/utils"
)

type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

func NewAccountHandler(accountService service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/v1/accounts", h.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/v1/accounts", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc("/v1/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
	router.HandleFunc("/v1/accounts/{id}", h.UpdateAccount).Methods(http.MethodPut)
	router.HandleFunc("/v1/accounts/{id}", h.DeleteAccount).Methods(http.MethodDelete)
	router.HandleFunc("/v1/clients/{clientId}/accounts/balances", h.GetBalancesByClient).Methods(http.MethodGet)
	router.HandleFunc("/v1/clients/{clientId}/accounts/average-balances", h.GetDailyAverageBalances).Methods(http.MethodGet)
	router.HandleFunc("/v1/clients/{clientId}/accounts/summary", h.GetSummaryByClient).Methods(http.MethodPost)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create account request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}
	if msg := u.ValidateRequest(&req); msg != "" {
		u.WriteError(w, http.StatusBadRequest, "validation error", msg)
		return
	}

	account, err := h.accountService.Insert(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create account")
		return
	}
	u.WriteJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.FindAll(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list accounts")
		return
	}
	u.WriteJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]

	account, err := h.accountService.FindByID(r.Context(), accountID)
	if err != nil {
		h.handleServiceError(w, err, "get account")
		return
	}
	u.WriteJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]

	var req models.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid update account request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}
	if msg := u.ValidateRequest(&req); msg != "" {
		u.WriteError(w, http.StatusBadRequest, "validation error", msg)
		return
	}

	account, err := h.accountService.Update(r.Context(), accountID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update account")
		return
	}
	u.WriteJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]

	if err := h.accountService.DeleteByID(r.Context(), accountID); err != nil {
		h.handleServiceError(w, err, "delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) GetBalancesByClient(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	balances, err := h.accountService.GetBalancesByClient(r.Context(), clientID)
	if err != nil {
		h.handleServiceError(w, err, "get balances by client")
		return
	}
	u.WriteJSON(w, http.StatusOK, balances)
}

func (h *AccountHandler) GetDailyAverageBalances(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	balances, err := h.accountService.GetDailyAverageBalances(r.Context(), clientID)
	if err != nil {
		h.handleServiceError(w, err, "get daily average balances")
		return
	}
	u.WriteJSON(w, http.StatusOK, balances)
}

func (h *AccountHandler) GetSummaryByClient(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	var filter models.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		h.logger.Warn("invalid summary filter", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}
	if msg := u.ValidateRequest(&filter); msg != "" {
		u.WriteError(w, http.StatusBadRequest, "validation error", msg)
		return
	}

	summaries, err := h.accountService.GetSummaryByClient(r.Context(), clientID, &filter)
	if err != nil {
		h.handleServiceError(w, err, "get summary by client")
		return
	}
	u.WriteJSON(w, http.StatusOK, summaries)
}

func (h *AccountHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, errors.ErrUnsupportedAccountType):
		u.WriteError(w, http.StatusUnprocessableEntity, "unsupported account type", err.Error())
	case errors.IsValidation(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	case errors.IsAlreadyExists(err):
		u.WriteError(w, http.StatusConflict, "account already exists", "")
	case errors.IsDependencyUnavailable(err):
		h.logger.Error("client directory unavailable during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusServiceUnavailable, "service unavailable", "")
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
