package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

func TestRESTFetcher_FetchDaily(t *testing.T) {
	var auth, symbol string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		symbol = r.URL.Query().Get("symbol")
		w.Write([]byte(`[{"timestamp":1700086400,"close":11},{"timestamp":1700000000,"close":10}]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "", 5*time.Second)
	series, err := f.FetchDaily(context.Background(), "TNA", "3mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", auth)
	}
	if symbol != "TNA" {
		t.Errorf("expected symbol TNA, got %q", symbol)
	}
	if got := series.Closes(); len(got) != 2 || got[0] != 10 || got[1] != 11 {
		t.Errorf("unexpected closes %v", got)
	}
}

func TestRESTFetcher_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", "", 5*time.Second)
	_, err := f.FetchDaily(context.Background(), "TNA", "")
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}
