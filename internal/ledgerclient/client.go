package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

type Balance struct {
	Balance float64 `json:"balance"`
	Name    string  `json:"name"`
}

type updateRequest struct {
	Amount float64 `json:"amount"`
	Action string  `json:"action"`
}

type updateResponse struct {
	Message    string  `json:"message"`
	NewBalance float64 `json:"newBalance"`
}

// Client calls the balance ledger HTTP API. Every call is bounded by the
// configured timeout in addition to the caller's context.
type Client struct {
	baseURL string
	inner   *http.Client
	timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		inner:   &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

func (c *Client) GetBalance(ctx context.Context, playerID string) (Balance, error) {
	var out Balance
	err := c.do(ctx, http.MethodGet, c.balancePath(playerID), nil, &out)
	return out, err
}

// UpdateBalance returns the balance the server reports after the change.
func (c *Client) UpdateBalance(ctx context.Context, playerID string, amount float64, action string) (float64, error) {
	var out updateResponse
	body := updateRequest{Amount: amount, Action: action}
	if err := c.do(ctx, http.MethodPost, c.balancePath(playerID)+"/update", body, &out); err != nil {
		return 0, err
	}
	return out.NewBalance, nil
}

func (c *Client) balancePath(playerID string) string {
	return c.baseURL + "/api/balance/" + url.PathEscape(playerID)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrNetworkUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrServer, err)
	}
	return nil
}
