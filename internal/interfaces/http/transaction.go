package http

import (
	"log"
	"net/http"

	"github.com/bostrovsky/tastyreport02/internal/domain/transaction"
	"github.com/bostrovsky/tastyreport02/internal/shared/middleware"
)

type TransactionHandler struct {
	accountService  AccountService
	transactionRepo transaction.Repository
}

func NewTransactionHandler(accountService AccountService, transactionRepo transaction.Repository) *TransactionHandler {
	return &TransactionHandler{
		accountService:  accountService,
		transactionRepo: transactionRepo,
	}
}

// HandleListTransactions returns stored transactions for an account, newest
// execution first
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")
	if _, err := h.accountService.GetAccount(r.Context(), accountID, userID); err != nil {
		writeAccountError(w, accountID, err)
		return
	}

	limit, offset := parsePagination(r)

	total, err := h.transactionRepo.CountByAccountID(r.Context(), accountID, userID)
	if err != nil {
		log.Printf("Error counting transactions for account %s: %v", accountID, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	transactions, err := h.transactionRepo.ListByAccountID(r.Context(), accountID, userID, limit, offset)
	if err != nil {
		log.Printf("Error listing transactions for account %s: %v", accountID, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []transaction.Transaction{}
	}

	writePage(w, total, transactions)
}
