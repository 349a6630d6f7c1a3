package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one immutable brokerage record. BrokerageID is the native
// identifier assigned by the brokerage and is the primary dedup key; records
// without one fall back to the composite key of account, user, symbol, type
// and execution date.
type Transaction struct {
	ID                 string          `json:"id"`
	AccountID          string          `json:"accountId"`
	UserID             int64           `json:"userId"`
	BrokerageID        int64           `json:"brokerageId"`
	TransactionType    string          `json:"transactionType"`
	TransactionSubType string          `json:"transactionSubType"`
	Description        string          `json:"description"`
	Action             string          `json:"action"`
	Symbol             string          `json:"symbol"`
	InstrumentType     string          `json:"instrumentType"`
	UnderlyingSymbol   string          `json:"underlyingSymbol"`
	Value              decimal.Decimal `json:"value"`
	Price              decimal.Decimal `json:"price"`
	Quantity           decimal.Decimal `json:"quantity"`
	Commission         decimal.Decimal `json:"commission"`
	RegulatoryFees     decimal.Decimal `json:"regulatoryFees"`
	ClearingFees       decimal.Decimal `json:"clearingFees"`
	OtherCharge        decimal.Decimal `json:"otherCharge"`
	Multiplier         decimal.Decimal `json:"multiplier"`
	ExecutedAt         *time.Time      `json:"executedAt"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// HasBrokerageID reports whether the record carries a usable native id.
func (t *Transaction) HasBrokerageID() bool {
	return t.BrokerageID > 0
}
