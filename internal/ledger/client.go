package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a remote ledger Server.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the ledger at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) SaveSession(ctx context.Context, r SessionResult) (SaveReceipt, error) {
	var receipt SaveReceipt
	if err := c.do(ctx, http.MethodPost, "/api/v1/sessions", r, &receipt); err != nil {
		return SaveReceipt{}, err
	}
	return receipt, nil
}

func (c *Client) MintRewards(ctx context.Context, r MintRequest) (bool, error) {
	var resp mintResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/rewards", r, &resp); err != nil {
		return false, err
	}
	return resp.Minted, nil
}

func (c *Client) LoadPlayer(ctx context.Context, address string) (*PlayerRecord, error) {
	var rec PlayerRecord
	err := c.do(ctx, http.MethodGet, "/api/v1/players/"+url.PathEscape(address), nil, &rec)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (c *Client) LoadLeaderboard(ctx context.Context, stage, limit int) ([]LeaderboardEntry, error) {
	q := url.Values{}
	q.Set("stage", strconv.Itoa(stage))
	q.Set("limit", strconv.Itoa(limit))

	var entries []LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, "/api/v1/leaderboard?"+q.Encode(), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) RegisterPlayer(ctx context.Context, address, username string) error {
	return c.do(ctx, http.MethodPut, "/api/v1/players/"+url.PathEscape(address),
		registerRequest{Username: username}, nil)
}

// StatusError is a non-2xx response. It unwraps to the matching sentinel
// error when the server sent a known code.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ledger: server returned %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch e.Code {
	case codeInvalid:
		return ErrInvalidRequest
	case codeNotCompleted:
		return ErrStageNotCompleted
	case codeClaimed:
		return ErrAlreadyClaimed
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("ledger: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("ledger: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ledger: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		se := &StatusError{Status: resp.StatusCode}
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
			se.Code, se.Message = apiErr.Code, apiErr.Message
		}
		return se
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ledger: decode response: %w", err)
	}
	return nil
}
