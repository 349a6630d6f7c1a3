package tastytrade

import "context"

// ClientInterface abstracts the brokerage API client so sync services can be
// tested without the network.
type ClientInterface interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	FetchAccountNumbers(ctx context.Context, session *Session) ([]string, error)
	FetchBalances(ctx context.Context, session *Session, accountNumber string) (*BalanceFacts, error)
	FetchPositions(ctx context.Context, session *Session, accountNumber string) ([]PositionFacts, error)
	FetchTransactions(ctx context.Context, session *Session, accountNumber string) ([]TransactionFacts, error)
}

var _ ClientInterface = (*Client)(nil)
