package snapshot

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is one point in an account's balance time series. Every sync run
// appends a new row; rows are never updated in place.
type Balance struct {
	ID                  string          `json:"id"`
	AccountID           string          `json:"accountId"`
	UserID              int64           `json:"userId"`
	CashBalance         decimal.Decimal `json:"cashBalance"`
	LongEquityValue     decimal.Decimal `json:"longEquityValue"`
	ShortEquityValue    decimal.Decimal `json:"shortEquityValue"`
	NetLiquidatingValue decimal.Decimal `json:"netLiquidatingValue"`
	CapturedAt          time.Time       `json:"capturedAt"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// Position is a holding snapshot keyed by (account, user, symbol, capturedAt).
// Re-running a sync for the same capture date overwrites the row instead of
// duplicating it.
type Position struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"accountId"`
	UserID           int64           `json:"userId"`
	Symbol           string          `json:"symbol"`
	InstrumentType   string          `json:"instrumentType"`
	UnderlyingSymbol string          `json:"underlyingSymbol"`
	Quantity         decimal.Decimal `json:"quantity"`
	AverageOpenPrice decimal.Decimal `json:"averageOpenPrice"`
	MarkPrice        decimal.Decimal `json:"markPrice"`
	MarketValue      decimal.Decimal `json:"marketValue"`
	Multiplier       decimal.Decimal `json:"multiplier"`
	CapturedAt       time.Time       `json:"capturedAt"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
