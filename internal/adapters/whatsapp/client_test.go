package whatsapp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/attune-labs/attune-agent/internal/adapters/whatsapp"
	"github.com/attune-labs/attune-agent/internal/config"
	"github.com/attune-labs/attune-agent/internal/domain"
)

type capturedRequest struct {
	path    string
	auth    string
	payload map[string]any
}

// recorder collects requests seen by the fake Graph API. The server
// handler runs on its own goroutine, hence the lock.
type recorder struct {
	mu       sync.Mutex
	captured []capturedRequest
}

func (rec *recorder) add(c capturedRequest) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.captured = append(rec.captured, c)
}

func (rec *recorder) all() []capturedRequest {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]capturedRequest(nil), rec.captured...)
}

func newTestClient(t *testing.T, status int) (*whatsapp.Client, *recorder, *httptest.Server) {
	t.Helper()

	rec := &recorder{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		rec.add(capturedRequest{
			path:    r.URL.Path,
			auth:    r.Header.Get("Authorization"),
			payload: payload,
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		GraphAPIURL: ts.URL,
		Accounts: [2]config.Account{
			{PhoneNumberID: "phone-1", AccessToken: "token-1"},
			{PhoneNumberID: "phone-2", AccessToken: "token-2"},
		},
	}
	return whatsapp.NewClient(cfg), rec, ts
}

func TestSendTextPayload(t *testing.T) {
	client, captured, _ := newTestClient(t, http.StatusOK)

	err := client.SendText(context.Background(), domain.AccountPrimary, "4479001122", "hello there")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}

	if len(captured.all()) != 1 {
		t.Fatalf("expected 1 request, got %d", len(captured.all()))
	}
	req := captured.all()[0]

	if !strings.HasPrefix(req.path, "/phone-1/") {
		t.Errorf("expected account 1 phone number id in path, got %s", req.path)
	}
	if req.auth != "Bearer token-1" {
		t.Errorf("wrong auth header: %s", req.auth)
	}
	if req.payload["messaging_product"] != "whatsapp" || req.payload["type"] != "text" {
		t.Errorf("unexpected payload: %v", req.payload)
	}
	text, _ := req.payload["text"].(map[string]any)
	if text["body"] != "hello there" {
		t.Errorf("wrong body: %v", text)
	}
}

func TestSendTextSecondAccount(t *testing.T) {
	client, captured, _ := newTestClient(t, http.StatusOK)

	if err := client.SendText(context.Background(), domain.AccountSecondary, "4479001122", "hi"); err != nil {
		t.Fatalf("SendText: %v", err)
	}

	req := captured.all()[0]
	if !strings.HasPrefix(req.path, "/phone-2/") {
		t.Errorf("expected account 2 phone number id in path, got %s", req.path)
	}
	if req.auth != "Bearer token-2" {
		t.Errorf("wrong auth header: %s", req.auth)
	}
}

func TestSendButtonsPayload(t *testing.T) {
	client, captured, _ := newTestClient(t, http.StatusOK)

	buttons := []domain.Button{
		{ID: "plan_day", Title: "Plan my day"},
		{ID: "remind_later", Title: "Remind me later"},
	}
	err := client.SendButtons(context.Background(), domain.AccountPrimary, "4479001122", "Would you like to:", buttons)
	if err != nil {
		t.Fatalf("SendButtons: %v", err)
	}

	req := captured.all()[0]
	if req.payload["type"] != "interactive" {
		t.Fatalf("expected interactive payload, got %v", req.payload["type"])
	}

	interactive, _ := req.payload["interactive"].(map[string]any)
	action, _ := interactive["action"].(map[string]any)
	sent, _ := action["buttons"].([]any)
	if len(sent) != 2 {
		t.Fatalf("expected 2 buttons on the wire, got %d", len(sent))
	}
}

func TestSendButtonsCap(t *testing.T) {
	client, captured, _ := newTestClient(t, http.StatusOK)

	four := []domain.Button{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	if err := client.SendButtons(context.Background(), domain.AccountPrimary, "123", "pick", four); err == nil {
		t.Fatal("expected error for more than 3 buttons")
	}
	if err := client.SendButtons(context.Background(), domain.AccountPrimary, "123", "pick", nil); err == nil {
		t.Fatal("expected error for zero buttons")
	}
	if len(captured.all()) != 0 {
		t.Fatal("invalid button counts must not reach the transport")
	}
}

func TestSendTextTransportError(t *testing.T) {
	client, _, _ := newTestClient(t, http.StatusInternalServerError)

	if err := client.SendText(context.Background(), domain.AccountPrimary, "123", "hello"); err == nil {
		t.Fatal("expected error on 5xx response")
	}
}
