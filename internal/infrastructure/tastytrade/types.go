package tastytrade

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// The brokerage API does not guarantee field completeness per record type, so
// every payload field is a string (possibly empty) with a typed getter. An
// absent numeric field parses to a zero decimal; an absent timestamp parses
// to nil.

// BalanceFacts is the account balance payload as returned by the brokerage.
type BalanceFacts struct {
	AccountNumber       string `json:"account-number"`
	CashBalance         string `json:"cash-balance"`
	LongEquityValue     string `json:"long-equity-value"`
	ShortEquityValue    string `json:"short-equity-value"`
	NetLiquidatingValue string `json:"net-liquidating-value"`
	UpdatedAt           string `json:"updated-at"`
}

func (b *BalanceFacts) GetCashBalance() (decimal.Decimal, error) {
	return parseDecimal("cash-balance", b.CashBalance)
}

func (b *BalanceFacts) GetLongEquityValue() (decimal.Decimal, error) {
	return parseDecimal("long-equity-value", b.LongEquityValue)
}

func (b *BalanceFacts) GetShortEquityValue() (decimal.Decimal, error) {
	return parseDecimal("short-equity-value", b.ShortEquityValue)
}

func (b *BalanceFacts) GetNetLiquidatingValue() (decimal.Decimal, error) {
	return parseDecimal("net-liquidating-value", b.NetLiquidatingValue)
}

// PositionFacts is one open position row from the brokerage.
type PositionFacts struct {
	AccountNumber    string `json:"account-number"`
	Symbol           string `json:"symbol"`
	InstrumentType   string `json:"instrument-type"`
	UnderlyingSymbol string `json:"underlying-symbol"`
	Quantity         string `json:"quantity"`
	AverageOpenPrice string `json:"average-open-price"`
	MarkPrice        string `json:"mark-price"`
	Multiplier       string `json:"multiplier"`
}

func (p *PositionFacts) GetQuantity() (decimal.Decimal, error) {
	return parseDecimal("quantity", p.Quantity)
}

func (p *PositionFacts) GetAverageOpenPrice() (decimal.Decimal, error) {
	return parseDecimal("average-open-price", p.AverageOpenPrice)
}

func (p *PositionFacts) GetMarkPrice() (decimal.Decimal, error) {
	return parseDecimal("mark-price", p.MarkPrice)
}

// GetMultiplier defaults to 1 when the brokerage omits the field (equities).
func (p *PositionFacts) GetMultiplier() (decimal.Decimal, error) {
	if p.Multiplier == "" {
		return decimal.NewFromInt(1), nil
	}
	return parseDecimal("multiplier", p.Multiplier)
}

// TransactionFacts is one financial event (fill, fee, adjustment) from the
// brokerage history. ID is the brokerage-assigned transaction identifier;
// zero means the brokerage did not supply one.
type TransactionFacts struct {
	ID                 int64  `json:"id"`
	AccountNumber      string `json:"account-number"`
	TransactionType    string `json:"transaction-type"`
	TransactionSubType string `json:"transaction-sub-type"`
	Description        string `json:"description"`
	Action             string `json:"action"`
	Symbol             string `json:"symbol"`
	InstrumentType     string `json:"instrument-type"`
	UnderlyingSymbol   string `json:"underlying-symbol"`
	Value              string `json:"value"`
	Price              string `json:"price"`
	Quantity           string `json:"quantity"`
	Commission         string `json:"commission"`
	RegulatoryFees     string `json:"regulatory-fees"`
	ClearingFees       string `json:"clearing-fees"`
	OtherCharge        string `json:"other-charge"`
	Multiplier         string `json:"multiplier"`
	ExecutedAt         string `json:"executed-at"`
}

func (t *TransactionFacts) GetValue() (decimal.Decimal, error) {
	return parseDecimal("value", t.Value)
}

func (t *TransactionFacts) GetPrice() (decimal.Decimal, error) {
	return parseDecimal("price", t.Price)
}

func (t *TransactionFacts) GetQuantity() (decimal.Decimal, error) {
	return parseDecimal("quantity", t.Quantity)
}

func (t *TransactionFacts) GetCommission() (decimal.Decimal, error) {
	return parseDecimal("commission", t.Commission)
}

func (t *TransactionFacts) GetRegulatoryFees() (decimal.Decimal, error) {
	return parseDecimal("regulatory-fees", t.RegulatoryFees)
}

func (t *TransactionFacts) GetClearingFees() (decimal.Decimal, error) {
	return parseDecimal("clearing-fees", t.ClearingFees)
}

func (t *TransactionFacts) GetOtherCharge() (decimal.Decimal, error) {
	return parseDecimal("other-charge", t.OtherCharge)
}

func (t *TransactionFacts) GetMultiplier() (decimal.Decimal, error) {
	if t.Multiplier == "" {
		return decimal.NewFromInt(1), nil
	}
	return parseDecimal("multiplier", t.Multiplier)
}

// GetExecutedAt parses the execution timestamp. Nil means the brokerage
// omitted it, which the sync engine treats as "cannot be windowed".
func (t *TransactionFacts) GetExecutedAt() (*time.Time, error) {
	if t.ExecutedAt == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, t.ExecutedAt)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, t.ExecutedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse executed-at '%s': %w", t.ExecutedAt, err)
		}
	}
	return &parsed, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s '%s': %w", field, s, err)
	}
	return d, nil
}
