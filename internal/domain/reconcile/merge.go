package reconcile

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bostrovsky/tastyreport02/internal/domain/snapshot"
	"github.com/bostrovsky/tastyreport02/internal/domain/transaction"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/tastytrade"
	"github.com/bostrovsky/tastyreport02/internal/shared/id"
)

// balanceFromFacts builds a balance time-series row from the raw brokerage
// payload. Any unparseable monetary field fails the whole row.
func balanceFromFacts(facts *tastytrade.BalanceFacts, accountID string, userID int64, capturedAt time.Time) (*snapshot.Balance, error) {
	cash, err := facts.GetCashBalance()
	if err != nil {
		return nil, err
	}
	longEquity, err := facts.GetLongEquityValue()
	if err != nil {
		return nil, err
	}
	shortEquity, err := facts.GetShortEquityValue()
	if err != nil {
		return nil, err
	}
	netLiq, err := facts.GetNetLiquidatingValue()
	if err != nil {
		return nil, err
	}

	return &snapshot.Balance{
		ID:                  id.New(),
		AccountID:           accountID,
		UserID:              userID,
		CashBalance:         cash,
		LongEquityValue:     longEquity,
		ShortEquityValue:    shortEquity,
		NetLiquidatingValue: netLiq,
		CapturedAt:          capturedAt,
		CreatedAt:           capturedAt,
	}, nil
}

// positionFromFacts builds a holding snapshot. Market value is derived as
// quantity * mark price * multiplier because the brokerage does not report it
// directly.
func positionFromFacts(facts *tastytrade.PositionFacts, accountID string, userID int64, capturedAt time.Time) (*snapshot.Position, error) {
	if facts.Symbol == "" {
		return nil, fmt.Errorf("position has no symbol")
	}
	quantity, err := facts.GetQuantity()
	if err != nil {
		return nil, err
	}
	avgPrice, err := facts.GetAverageOpenPrice()
	if err != nil {
		return nil, err
	}
	markPrice, err := facts.GetMarkPrice()
	if err != nil {
		return nil, err
	}
	multiplier, err := facts.GetMultiplier()
	if err != nil {
		return nil, err
	}

	return &snapshot.Position{
		ID:               id.New(),
		AccountID:        accountID,
		UserID:           userID,
		Symbol:           facts.Symbol,
		InstrumentType:   facts.InstrumentType,
		UnderlyingSymbol: facts.UnderlyingSymbol,
		Quantity:         quantity,
		AverageOpenPrice: avgPrice,
		MarkPrice:        markPrice,
		MarketValue:      quantity.Mul(markPrice).Mul(multiplier),
		Multiplier:       multiplier,
		CapturedAt:       truncateToDate(capturedAt),
		CreatedAt:        capturedAt,
		UpdatedAt:        capturedAt,
	}, nil
}

// transactionFromFacts builds an immutable transaction record. Absent
// monetary fields default to zero inside the facts accessors; a garbled field
// is an error so a bad record is skipped rather than stored wrong.
func transactionFromFacts(facts *tastytrade.TransactionFacts, accountID string, userID int64, now time.Time) (*transaction.Transaction, error) {
	executedAt, err := facts.GetExecutedAt()
	if err != nil {
		return nil, err
	}

	txn := &transaction.Transaction{
		ID:                 id.New(),
		AccountID:          accountID,
		UserID:             userID,
		BrokerageID:        facts.ID,
		TransactionType:    facts.TransactionType,
		TransactionSubType: facts.TransactionSubType,
		Description:        facts.Description,
		Action:             facts.Action,
		Symbol:             facts.Symbol,
		InstrumentType:     facts.InstrumentType,
		UnderlyingSymbol:   facts.UnderlyingSymbol,
		ExecutedAt:         executedAt,
		CreatedAt:          now,
	}

	fields := []struct {
		name string
		dst  *decimal.Decimal
		get  func() (decimal.Decimal, error)
	}{
		{"value", &txn.Value, facts.GetValue},
		{"price", &txn.Price, facts.GetPrice},
		{"quantity", &txn.Quantity, facts.GetQuantity},
		{"commission", &txn.Commission, facts.GetCommission},
		{"regulatory-fees", &txn.RegulatoryFees, facts.GetRegulatoryFees},
		{"clearing-fees", &txn.ClearingFees, facts.GetClearingFees},
		{"other-charge", &txn.OtherCharge, facts.GetOtherCharge},
		{"multiplier", &txn.Multiplier, facts.GetMultiplier},
	}
	for _, f := range fields {
		v, err := f.get()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
		*f.dst = v
	}

	return txn, nil
}
