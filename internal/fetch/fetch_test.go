package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch_FirstMirrorWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>report</html>"))
	}))
	defer srv.Close()

	c := New([]string{srv.URL}, time.Second)
	body, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "<html>report</html>" {
		t.Errorf("body = %q", body)
	}
}

func TestFetch_FallsBackToNextMirror(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer good.Close()

	c := New([]string{bad.URL, good.URL}, time.Second)
	body, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "ok" {
		t.Errorf("body = %q, want fallback mirror's body", body)
	}
}

func TestFetch_AllMirrorsExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New([]string{srv.URL, srv.URL}, time.Second)
	_, err := c.Fetch(context.Background())
	if !errors.Is(err, ErrAllMirrorsFailed) {
		t.Errorf("err = %v, want ErrAllMirrorsFailed", err)
	}
}

func TestFetch_NoMirrorsConfigured(t *testing.T) {
	c := New(nil, time.Second)
	_, err := c.Fetch(context.Background())
	if !errors.Is(err, ErrAllMirrorsFailed) {
		t.Errorf("err = %v, want ErrAllMirrorsFailed", err)
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New([]string{srv.URL}, time.Second)
	if _, err := c.Fetch(ctx); err == nil {
		t.Error("Fetch with cancelled context succeeded, want error")
	}
}
