package ledger

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/vovakirdan/mindora-runner/internal/catalog"
)

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	srv := NewServer(newTestLocal(t), log.New(io.Discard), time.Second)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, NewClient(ts.URL+"/", time.Second)
}

func TestServerHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", resp.Header.Get("Content-Type"))
	}
}

func TestServerNilLogger(t *testing.T) {
	h := NewServer(newTestLocal(t), nil, 0).Routes()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"invalid session", http.MethodPost, "/api/v1/sessions", `{"stage":1}`, http.StatusBadRequest},
		{"unclaimable reward", http.MethodPost, "/api/v1/rewards", `{"stage":1,"address":"0.0.9"}`, http.StatusConflict},
		{"unknown player", http.MethodGet, "/api/v1/players/0.0.9", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestClientRoundTrip(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()
	const addr = "0.0.9001"

	if err := c.RegisterPlayer(ctx, addr, "morpheus"); err != nil {
		t.Fatalf("RegisterPlayer() failed: %v", err)
	}

	receipt, err := c.SaveSession(ctx, SessionResult{Address: addr, Stage: 1, Score: 160, Coins: 60, QuestionsCorrect: 2, StageCompleted: true})
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if !receipt.Success || receipt.TransactionID == "" {
		t.Fatalf("receipt = %+v", receipt)
	}

	req, _ := NewMintRequest(catalog.Default(), addr, 1)
	minted, err := c.MintRewards(ctx, req)
	if err != nil || !minted {
		t.Fatalf("MintRewards() = %v, %v; want true", minted, err)
	}

	rec, err := c.LoadPlayer(ctx, addr)
	if err != nil {
		t.Fatalf("LoadPlayer() failed: %v", err)
	}
	if rec == nil {
		t.Fatal("LoadPlayer() = nil, want record")
	}
	if rec.Username != "morpheus" || rec.CurrentStage != 2 || rec.GamesPlayed != 1 {
		t.Errorf("record = %+v", rec)
	}
	if !rec.Tokens.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Tokens = %s, want 20", rec.Tokens)
	}
	if len(rec.Claims) != 1 || rec.Claims[0].Badge != "Runner Rookie" {
		t.Errorf("Claims = %+v", rec.Claims)
	}

	board, err := c.LoadLeaderboard(ctx, 1, 5)
	if err != nil {
		t.Fatalf("LoadLeaderboard() failed: %v", err)
	}
	if len(board) != 1 || board[0].DisplayName() != "morpheus" || board[0].Score != 160 {
		t.Errorf("board = %+v", board)
	}
}

func TestClientErrors(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	rec, err := c.LoadPlayer(ctx, "0.0.404")
	if err != nil || rec != nil {
		t.Errorf("LoadPlayer(unknown) = %+v, %v; want nil, nil", rec, err)
	}

	req, _ := NewMintRequest(catalog.Default(), "0.0.404", 2)
	if _, err := c.MintRewards(ctx, req); !errors.Is(err, ErrStageNotCompleted) {
		t.Errorf("mint without completion: err = %v, want ErrStageNotCompleted", err)
	}

	if _, err := c.SaveSession(ctx, SessionResult{Stage: 1}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("save without address: err = %v, want ErrInvalidRequest", err)
	}

	if _, err := c.SaveSession(ctx, SessionResult{Address: "0.0.5", Stage: 2, StageCompleted: true}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	req, _ = NewMintRequest(catalog.Default(), "0.0.5", 2)
	if _, err := c.MintRewards(ctx, req); err != nil {
		t.Fatalf("MintRewards() failed: %v", err)
	}
	_, err = c.MintRewards(ctx, req)
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("second mint: err = %v, want ErrAlreadyClaimed", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusConflict {
		t.Errorf("second mint: status error = %+v, want 409", se)
	}
}

func TestServerRejectsBadInput(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed session", http.MethodPost, "/api/v1/sessions", "{not json", http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/v1/sessions", `{"address":"0.0.1","stage":1,"bogus":1}`, http.StatusBadRequest},
		{"bad stage param", http.MethodGet, "/api/v1/leaderboard?stage=x", "", http.StatusBadRequest},
		{"bad limit param", http.MethodGet, "/api/v1/leaderboard?limit=ten", "", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v1/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("NewRequest() failed: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
