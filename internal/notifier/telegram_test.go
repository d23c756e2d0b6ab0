package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

func TestTelegramNotifier_Send(t *testing.T) {
	var path string
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&payload)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("tok", "42", "", 5*time.Second)
	tn.BaseURL = srv.URL
	if err := tn.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/bottok/sendMessage" {
		t.Errorf("unexpected path %q", path)
	}
	if payload["chat_id"] != "42" || payload["text"] != "hello" {
		t.Errorf("unexpected payload %v", payload)
	}
	if _, ok := payload["parse_mode"]; ok {
		t.Error("report must be sent as plain text")
	}
}

func TestTelegramNotifier_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("tok", "42", "", 5*time.Second)
	tn.BaseURL = srv.URL
	if err := tn.Send(context.Background(), "x"); !errors.Is(err, model.ErrDelivery) {
		t.Errorf("expected ErrDelivery, got %v", err)
	}

	unconfigured := NewTelegramNotifier("", "", "", time.Second)
	if err := unconfigured.Send(context.Background(), "x"); !errors.Is(err, model.ErrDelivery) {
		t.Errorf("expected ErrDelivery for missing token, got %v", err)
	}
}

func TestStdoutSender(t *testing.T) {
	var buf bytes.Buffer
	if err := (StdoutSender{W: &buf}).Send(context.Background(), "report"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "report\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
