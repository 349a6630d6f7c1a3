package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/bostrovsky/tastyreport02/internal/domain/account"
	"github.com/bostrovsky/tastyreport02/internal/domain/reconcile"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/tastytrade"
	"github.com/bostrovsky/tastyreport02/internal/shared/middleware"
)

type AccountHandler struct {
	accountService AccountService
	syncService    SyncService
}

func NewAccountHandler(accountService AccountService, syncService SyncService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		syncService:    syncService,
	}
}

type CreateAccountRequest struct {
	Nickname string `json:"nickname"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleCreateAccount links a brokerage account to the authenticated user.
// The plaintext password goes straight into the vault and is never logged.
func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	acc, err := h.accountService.RegisterAccount(r.Context(), account.RegisterParams{
		UserID:            userID,
		Nickname:          req.Nickname,
		BrokerageUsername: req.Username,
		BrokeragePassword: req.Password,
	})
	if err != nil {
		if errors.Is(err, account.ErrInvalidInput) {
			http.Error(w, "Invalid account parameters", http.StatusBadRequest)
			return
		}
		log.Printf("Error creating brokerage account for user %d: %v", userID, err)
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(acc)
}

// HandleListAccounts returns the authenticated user's brokerage accounts
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.accountService.ListAccountsByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing accounts for user %d: %v", userID, err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}
	if accounts == nil {
		accounts = []account.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

// HandleDeleteAccount removes a brokerage account after an ownership check
func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")
	if err := h.accountService.DeleteAccount(r.Context(), accountID, userID); err != nil {
		writeAccountError(w, accountID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSyncAccount runs a full brokerage sync for one account. The response
// carries the counts of what was written; a partial transaction fetch is
// reported inside the result rather than failing the request.
func (h *AccountHandler) HandleSyncAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")
	result, err := h.syncService.SyncAccount(r.Context(), accountID, userID)
	if err != nil {
		var partial *tastytrade.PartialFetchError
		switch {
		case errors.As(err, &partial) && result != nil:
			result.Errors = append(result.Errors, partial.Error())
		case errors.Is(err, account.ErrAccountNotFound):
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		case errors.Is(err, reconcile.ErrOwnershipViolation):
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		case errors.Is(err, reconcile.ErrCredential):
			log.Printf("Credential error syncing account %s: %v", accountID, err)
			http.Error(w, "Stored credentials are unusable", http.StatusConflict)
			return
		case errors.Is(err, tastytrade.ErrAuthenticationFailed):
			http.Error(w, "Brokerage rejected the stored credentials", http.StatusUnauthorized)
			return
		case errors.Is(err, tastytrade.ErrUnreachable):
			http.Error(w, "Brokerage is unreachable", http.StatusBadGateway)
			return
		default:
			log.Printf("Error syncing account %s: %v", accountID, err)
			http.Error(w, "Sync failed", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(result)
}

func writeAccountError(w http.ResponseWriter, accountID string, err error) {
	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, account.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		log.Printf("Error on account %s: %v", accountID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
