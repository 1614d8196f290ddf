package vpmobil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func TestHTTPFetcher_Fetch_Mock(t *testing.T) {
	body, err := os.ReadFile("testdata/PlanKl20261016.xml")
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/10000000/mobil/mobdaten/PlanKl20261016.xml" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "schueler" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}))
	defer server.Close()

	f := NewHTTPFetcher(WithBaseURL(server.URL + "/"))
	c, err := NewClient(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), testCreds, WithFetcher(f))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	classes, err := c.AvailableClasses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error fetching mocked feed: %v", err)
	}
	if len(classes) != 3 || classes[0] != "5a" {
		t.Errorf("expected 3 classes starting with 5a, got %v", classes)
	}
}

func TestHTTPFetcher_Fetch_Status(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusUnauthorized, "", ErrAuthentication},
		{http.StatusForbidden, "", ErrAuthentication},
		{http.StatusNotFound, "", ErrDataNotFound},
		{http.StatusOK, "<html><body>Seite nicht gefunden</body></html>", ErrDataNotFound},
		{http.StatusInternalServerError, "", ErrTransport},
		{http.StatusBadGateway, "", ErrTransport},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(tc.body))
		}))

		f := NewHTTPFetcher(WithBaseURL(server.URL))
		_, err := f.Fetch(context.Background(), FetchRequest{Date: time.Now(), Credentials: testCreds})
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		server.Close()
	}
}

func TestHTTPFetcher_NoRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := NewHTTPFetcher(WithBaseURL(server.URL))
	if _, err := f.Fetch(context.Background(), FetchRequest{Date: time.Now(), Credentials: testCreds}); err == nil {
		t.Fatalf("expected an error for 503")
	}
	if attempts != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestHTTPFetcher_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := NewHTTPFetcher(WithBaseURL(url), WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := f.Fetch(context.Background(), FetchRequest{Date: time.Now(), Credentials: testCreds})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport for a closed server, got %v", err)
	}
}

func TestHTTPFetcher_URL(t *testing.T) {
	f := NewHTTPFetcher()
	got := f.URL(FetchRequest{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Credentials: Credentials{SchoolCode: 42}})
	want := "https://www.stundenplan24.de/42/mobil/mobdaten/PlanKl20260105.xml"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
