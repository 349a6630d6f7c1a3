// Package tastytrade is the brokerage session adapter. It authenticates
// against the Tastytrade REST API and fetches the balance, position, and
// transaction facts one sync run needs. Sessions are values created per sync
// and discarded afterwards; the client itself holds no login state.
package tastytrade

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.tastyworks.com"
	defaultTimeout = 120 * time.Second

	sessionsPath = "/sessions"
	accountsPath = "/customers/me/accounts"
)

var (
	// ErrAuthenticationFailed means the brokerage rejected the credentials.
	// Not retryable without user action.
	ErrAuthenticationFailed = errors.New("brokerage authentication failed")

	// ErrUnreachable means the brokerage could not be reached (network error,
	// timeout, or 5xx). Retryable on the next scheduled sync.
	ErrUnreachable = errors.New("brokerage unreachable")
)

// PartialFetchError reports a fetch that returned fewer records than the
// brokerage holds (e.g. a paginated history where later pages were not
// served). The caller decides whether to use the partial data.
type PartialFetchError struct {
	Resource string
	Got      int
	Reason   string
}

func (e *PartialFetchError) Error() string {
	return fmt.Sprintf("partial fetch of %s (%d records): %s", e.Resource, e.Got, e.Reason)
}

// Session is an authenticated brokerage session. Lifecycle is
// create-per-sync; never share one across accounts or store it.
type Session struct {
	Token string
}

// Client handles communication with the Tastytrade API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Tastytrade API client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type sessionRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Data struct {
		SessionToken string `json:"session-token"`
	} `json:"data"`
}

type accountsResponse struct {
	Data struct {
		Items []struct {
			Account struct {
				AccountNumber string `json:"account-number"`
			} `json:"account"`
		} `json:"items"`
	} `json:"data"`
}

type balancesResponse struct {
	Data BalanceFacts `json:"data"`
}

type positionsResponse struct {
	Data struct {
		Items []PositionFacts `json:"items"`
	} `json:"data"`
}

type transactionsResponse struct {
	Data struct {
		Items []TransactionFacts `json:"items"`
	} `json:"data"`
	Pagination struct {
		PageOffset   int `json:"page-offset"`
		TotalPages   int `json:"total-pages"`
		TotalItems   int `json:"total-items"`
		ItemsPerPage int `json:"per-page"`
	} `json:"pagination"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Login authenticates with the brokerage and returns a session for this sync
// run. The password is sent over TLS and never logged.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	payload, err := json.Marshal(sessionRequest{Login: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sessionsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrAuthenticationFailed
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		return nil, apiError(resp.StatusCode, body)
	}

	var sessionResp sessionResponse
	if err := json.Unmarshal(body, &sessionResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session response: %w", err)
	}
	if sessionResp.Data.SessionToken == "" {
		return nil, fmt.Errorf("session response contained no token")
	}

	return &Session{Token: sessionResp.Data.SessionToken}, nil
}

// FetchAccountNumbers returns the brokerage account numbers visible to the
// session's customer.
func (c *Client) FetchAccountNumbers(ctx context.Context, session *Session) ([]string, error) {
	body, err := c.get(ctx, session, accountsPath)
	if err != nil {
		return nil, err
	}

	var accountsResp accountsResponse
	if err := json.Unmarshal(body, &accountsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accounts response: %w", err)
	}

	numbers := make([]string, 0, len(accountsResp.Data.Items))
	for _, item := range accountsResp.Data.Items {
		numbers = append(numbers, item.Account.AccountNumber)
	}
	return numbers, nil
}

// FetchBalances returns the current balance figures for one brokerage account.
func (c *Client) FetchBalances(ctx context.Context, session *Session, accountNumber string) (*BalanceFacts, error) {
	body, err := c.get(ctx, session, "/accounts/"+url.PathEscape(accountNumber)+"/balances")
	if err != nil {
		return nil, err
	}

	var balancesResp balancesResponse
	if err := json.Unmarshal(body, &balancesResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal balances response: %w", err)
	}
	return &balancesResp.Data, nil
}

// FetchPositions returns all open positions for one brokerage account.
func (c *Client) FetchPositions(ctx context.Context, session *Session, accountNumber string) ([]PositionFacts, error) {
	body, err := c.get(ctx, session, "/accounts/"+url.PathEscape(accountNumber)+"/positions")
	if err != nil {
		return nil, err
	}

	var positionsResp positionsResponse
	if err := json.Unmarshal(body, &positionsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal positions response: %w", err)
	}
	return positionsResp.Data.Items, nil
}

// FetchTransactions returns the transaction history for one brokerage
// account in a single round trip. If the brokerage indicates additional
// pages it could not serve in this trip, the fetched records are returned
// together with a *PartialFetchError so the caller can decide retry policy.
func (c *Client) FetchTransactions(ctx context.Context, session *Session, accountNumber string) ([]TransactionFacts, error) {
	body, err := c.get(ctx, session, "/accounts/"+url.PathEscape(accountNumber)+"/transactions?per-page=2000")
	if err != nil {
		return nil, err
	}

	var txResp transactionsResponse
	if err := json.Unmarshal(body, &txResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions response: %w", err)
	}

	items := txResp.Data.Items
	if txResp.Pagination.TotalPages > 1 {
		return items, &PartialFetchError{
			Resource: "transactions",
			Got:      len(items),
			Reason:   fmt.Sprintf("history spans %d pages", txResp.Pagination.TotalPages),
		}
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, session *Session, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", session.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// Session tokens expire; treat as an authentication failure so the
		// run aborts instead of persisting an empty snapshot.
		return nil, ErrAuthenticationFailed
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, apiError(resp.StatusCode, body)
	}

	return body, nil
}

func apiError(status int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return fmt.Errorf("API request failed with status %d", status)
	}
	return fmt.Errorf("API error (status %d): %s - %s", status, errResp.Error.Code, errResp.Error.Message)
}
