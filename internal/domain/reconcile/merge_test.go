package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bostrovsky/tastyreport02/internal/infrastructure/tastytrade"
)

func TestBalanceFromFacts(t *testing.T) {
	capturedAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	facts := &tastytrade.BalanceFacts{
		CashBalance:         "1000.50",
		LongEquityValue:     "2500.25",
		ShortEquityValue:    "-100.00",
		NetLiquidatingValue: "3400.75",
	}

	balance, err := balanceFromFacts(facts, "acc-1", 7, capturedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.ID == "" {
		t.Error("expected generated id")
	}
	if balance.UserID != 7 {
		t.Errorf("user id = %d, want 7", balance.UserID)
	}
	if !balance.CashBalance.Equal(decimal.RequireFromString("1000.50")) {
		t.Errorf("cash balance = %s, want 1000.50", balance.CashBalance)
	}
	if !balance.NetLiquidatingValue.Equal(decimal.RequireFromString("3400.75")) {
		t.Errorf("net liq = %s, want 3400.75", balance.NetLiquidatingValue)
	}
}

func TestBalanceFromFactsBadField(t *testing.T) {
	facts := &tastytrade.BalanceFacts{CashBalance: "not-a-number"}
	if _, err := balanceFromFacts(facts, "acc-1", 1, time.Now()); err == nil {
		t.Fatal("expected error for unparseable cash balance")
	}
}

func TestPositionFromFacts(t *testing.T) {
	capturedAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	facts := &tastytrade.PositionFacts{
		Symbol:           "AAPL  240119C00190000",
		InstrumentType:   "Equity Option",
		UnderlyingSymbol: "AAPL",
		Quantity:         "2",
		AverageOpenPrice: "3.15",
		MarkPrice:        "4.20",
		Multiplier:       "100",
	}

	position, err := positionFromFacts(facts, "acc-1", 7, capturedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !position.MarketValue.Equal(decimal.RequireFromString("840")) {
		t.Errorf("market value = %s, want 840", position.MarketValue)
	}
	if !position.CapturedAt.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("capturedAt should be truncated to the date, got %v", position.CapturedAt)
	}
}

func TestPositionFromFactsDefaultsMultiplier(t *testing.T) {
	facts := &tastytrade.PositionFacts{
		Symbol:    "AAPL",
		Quantity:  "10",
		MarkPrice: "190.00",
	}
	position, err := positionFromFacts(facts, "acc-1", 1, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !position.MarketValue.Equal(decimal.RequireFromString("1900")) {
		t.Errorf("market value = %s, want 1900", position.MarketValue)
	}
}

func TestPositionFromFactsNoSymbol(t *testing.T) {
	if _, err := positionFromFacts(&tastytrade.PositionFacts{}, "acc-1", 1, time.Now()); err == nil {
		t.Fatal("expected error for missing symbol")
	}
}

func TestTransactionFromFacts(t *testing.T) {
	facts := &tastytrade.TransactionFacts{
		ID:              9001,
		TransactionType: "Trade",
		Symbol:          "AAPL",
		Value:           "-315.00",
		Quantity:        "1",
		Commission:      "1.00",
		ExecutedAt:      "2024-01-10T14:30:00.123Z",
	}

	txn, err := transactionFromFacts(facts, "acc-1", 7, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.BrokerageID != 9001 {
		t.Errorf("brokerage id = %d, want 9001", txn.BrokerageID)
	}
	if txn.ExecutedAt == nil || txn.ExecutedAt.Day() != 10 {
		t.Errorf("executedAt not parsed: %v", txn.ExecutedAt)
	}
	if !txn.Value.Equal(decimal.RequireFromString("-315.00")) {
		t.Errorf("value = %s, want -315.00", txn.Value)
	}
	// Absent fields default to zero, they are not errors.
	if !txn.RegulatoryFees.IsZero() {
		t.Errorf("regulatory fees = %s, want 0", txn.RegulatoryFees)
	}
}

func TestTransactionFromFactsBadDecimal(t *testing.T) {
	facts := &tastytrade.TransactionFacts{ID: 1, Commission: "garbage"}
	if _, err := transactionFromFacts(facts, "acc-1", 1, time.Now()); err == nil {
		t.Fatal("expected error for unparseable commission")
	}
}
