package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/bostrovsky/tastyreport02/internal/domain/snapshot"
	"github.com/bostrovsky/tastyreport02/internal/shared/middleware"
)

type SnapshotHandler struct {
	accountService AccountService
	balanceRepo    snapshot.BalanceRepository
	positionRepo   snapshot.PositionRepository
}

func NewSnapshotHandler(accountService AccountService, balanceRepo snapshot.BalanceRepository, positionRepo snapshot.PositionRepository) *SnapshotHandler {
	return &SnapshotHandler{
		accountService: accountService,
		balanceRepo:    balanceRepo,
		positionRepo:   positionRepo,
	}
}

// HandleListBalances returns the balance time series for an account,
// newest first
func (h *SnapshotHandler) HandleListBalances(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	limit, offset := parsePagination(r)

	total, err := h.balanceRepo.CountByAccountID(r.Context(), accountID, userID)
	if err != nil {
		log.Printf("Error counting balances for account %s: %v", accountID, err)
		http.Error(w, "Failed to list balances", http.StatusInternalServerError)
		return
	}

	balances, err := h.balanceRepo.ListByAccountID(r.Context(), accountID, userID, limit, offset)
	if err != nil {
		log.Printf("Error listing balances for account %s: %v", accountID, err)
		http.Error(w, "Failed to list balances", http.StatusInternalServerError)
		return
	}
	if balances == nil {
		balances = []snapshot.Balance{}
	}

	writePage(w, total, balances)
}

// HandleListPositions returns holding snapshots for an account
func (h *SnapshotHandler) HandleListPositions(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	limit, offset := parsePagination(r)

	total, err := h.positionRepo.CountByAccountID(r.Context(), accountID, userID)
	if err != nil {
		log.Printf("Error counting positions for account %s: %v", accountID, err)
		http.Error(w, "Failed to list positions", http.StatusInternalServerError)
		return
	}

	positions, err := h.positionRepo.ListByAccountID(r.Context(), accountID, userID, limit, offset)
	if err != nil {
		log.Printf("Error listing positions for account %s: %v", accountID, err)
		http.Error(w, "Failed to list positions", http.StatusInternalServerError)
		return
	}
	if positions == nil {
		positions = []snapshot.Position{}
	}

	writePage(w, total, positions)
}

// authorize extracts the authenticated user and verifies account ownership.
// On failure the response has already been written.
func (h *SnapshotHandler) authorize(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return 0, "", false
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, "", false
	}

	accountID := r.PathValue("id")
	if _, err := h.accountService.GetAccount(r.Context(), accountID, userID); err != nil {
		writeAccountError(w, accountID, err)
		return 0, "", false
	}
	return userID, accountID, true
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func writePage(w http.ResponseWriter, total int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	json.NewEncoder(w).Encode(body)
}
