package vpmobil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"
)

var testCreds = Credentials{SchoolCode: 10000000, Username: "schueler", Password: "secret"}

// countingFetcher serves a fixed document and counts calls
type countingFetcher struct {
	calls int
	body  []byte
	err   error
	last  FetchRequest
}

func (f *countingFetcher) Fetch(_ context.Context, req FetchRequest) ([]byte, error) {
	f.calls++
	f.last = req
	return f.body, f.err
}

func fixtureFetcher(t *testing.T, name string) *countingFetcher {
	t.Helper()
	body, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return &countingFetcher{body: body}
}

func newTestClient(t *testing.T, f Fetcher) *Client {
	t.Helper()
	c, err := NewClient(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), testCreds, WithFetcher(f))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClient_Validation(t *testing.T) {
	date := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	bad := []Credentials{
		{SchoolCode: 0, Username: "u", Password: "p"},
		{SchoolCode: -5, Username: "u", Password: "p"},
		{SchoolCode: 1, Username: "", Password: "p"},
		{SchoolCode: 1, Username: "u", Password: ""},
	}
	for _, creds := range bad {
		if _, err := NewClient(date, creds); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for %+v, got %v", creds, err)
		}
	}

	if _, err := NewClient(time.Time{}, testCreds); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero date, got %v", err)
	}
}

func TestClient_LazySingleFetch(t *testing.T) {
	f := fixtureFetcher(t, "PlanKl20261016.xml")
	c := newTestClient(t, f)
	ctx := context.Background()

	if f.calls != 0 || c.Fetches() != 0 {
		t.Fatalf("constructing a client must not fetch")
	}

	first, err := c.OffDays(ctx)
	if err != nil {
		t.Fatalf("OffDays failed: %v", err)
	}
	second, err := c.OffDays(ctx)
	if err != nil {
		t.Fatalf("OffDays failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("consecutive OffDays calls differ")
	}

	if _, err := c.ExtraInfo(ctx); err != nil {
		t.Fatalf("ExtraInfo failed: %v", err)
	}
	if _, err := c.RawFeed(ctx); err != nil {
		t.Fatalf("RawFeed failed: %v", err)
	}
	if _, err := c.AvailableClasses(ctx); err != nil {
		t.Fatalf("AvailableClasses failed: %v", err)
	}
	if _, err := c.ClassTimetable(ctx, "5a"); err != nil {
		t.Fatalf("ClassTimetable failed: %v", err)
	}

	if f.calls != 1 || c.Fetches() != 1 {
		t.Errorf("expected exactly one fetch, got %d", f.calls)
	}

	if f.last.Credentials != testCreds || f.last.FileName() != "PlanKl20261016.xml" {
		t.Errorf("unexpected fetch request: %+v", f.last)
	}
}

func TestClient_AvailableClasses(t *testing.T) {
	c := newTestClient(t, fixtureFetcher(t, "PlanKl20261016.xml"))

	classes, err := c.AvailableClasses(context.Background())
	if err != nil {
		t.Fatalf("AvailableClasses failed: %v", err)
	}

	s, _ := c.Snapshot(context.Background())
	seen := make(map[string]bool)
	for _, name := range classes {
		if seen[name] {
			t.Errorf("duplicate class %s", name)
		}
		seen[name] = true
		if _, err := s.Class(name); err != nil {
			t.Errorf("listed class %s cannot be looked up: %v", name, err)
		}
	}
	if len(seen) != len(s.classes) {
		t.Errorf("expected %d classes, got %d", len(s.classes), len(seen))
	}
}

func TestClient_InvalidClassName(t *testing.T) {
	f := fixtureFetcher(t, "PlanKl20261016.xml")
	c := newTestClient(t, f)
	ctx := context.Background()

	before, _ := c.AvailableClasses(ctx)

	for _, name := range []string{"9z", "5A", " 5a", ""} {
		_, err := c.ClassTimetable(ctx, name)
		if !errors.Is(err, ErrInvalidClassName) {
			t.Errorf("expected ErrInvalidClassName for %q, got %v", name, err)
		}
	}

	after, _ := c.AvailableClasses(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("failed lookups changed the class list")
	}
	if f.calls != 1 {
		t.Errorf("failed lookups must not re-fetch, got %d fetches", f.calls)
	}

	upper, err := c.ClassTimetable(ctx, "10A")
	if err != nil {
		t.Fatalf("expected 10A to exist: %v", err)
	}
	if len(upper.Timetable()) != 0 {
		t.Errorf("expected 10A to be distinct from 10a")
	}
}

func TestClient_Holiday(t *testing.T) {
	c := newTestClient(t, fixtureFetcher(t, "PlanKl20261019.xml"))
	ctx := context.Background()

	classes, err := c.AvailableClasses(ctx)
	if err != nil {
		t.Fatalf("holiday feed must not fail: %v", err)
	}
	if len(classes) != 0 {
		t.Errorf("expected no classes on a holiday, got %v", classes)
	}

	offDays, err := c.OffDays(ctx)
	if err != nil || len(offDays) != 1 {
		t.Errorf("expected one off-day, got %v (%v)", offDays, err)
	}
	info, err := c.ExtraInfo(ctx)
	if err != nil || len(info) != 1 {
		t.Errorf("expected one notice, got %v (%v)", info, err)
	}
}

func TestClient_AuthenticationError(t *testing.T) {
	accessors := map[string]func(*Client) error{
		"OffDays": func(c *Client) error {
			_, err := c.OffDays(context.Background())
			return err
		},
		"ExtraInfo": func(c *Client) error {
			_, err := c.ExtraInfo(context.Background())
			return err
		},
		"RawFeed": func(c *Client) error {
			_, err := c.RawFeed(context.Background())
			return err
		},
		"AvailableClasses": func(c *Client) error {
			_, err := c.AvailableClasses(context.Background())
			return err
		},
		"ClassTimetable": func(c *Client) error {
			_, err := c.ClassTimetable(context.Background(), "5a")
			return err
		},
	}

	for name, access := range accessors {
		f := &countingFetcher{err: fmt.Errorf("%w: 401", ErrAuthentication)}
		c := newTestClient(t, f)

		if err := access(c); !errors.Is(err, ErrAuthentication) {
			t.Errorf("%s: expected ErrAuthentication, got %v", name, err)
		}
		// Memoized: a later class lookup reports the same kind without another fetch
		if _, err := c.ClassTimetable(context.Background(), "10a"); !errors.Is(err, ErrAuthentication) {
			t.Errorf("%s: expected ErrAuthentication on later lookup, got %v", name, err)
		}
		if f.calls != 1 {
			t.Errorf("%s: expected a single fetch, got %d", name, f.calls)
		}
	}
}

func TestClient_UnclassifiedFetchErrorBecomesTransport(t *testing.T) {
	c := newTestClient(t, &countingFetcher{err: errors.New("connection reset by peer")})

	_, err := c.OffDays(context.Background())
	if !errors.Is(err, ErrTransport) || !errors.Is(err, ErrVPMobil) {
		t.Errorf("expected ErrTransport wrapped in ErrVPMobil, got %v", err)
	}
}

func TestClient_MalformedFeed(t *testing.T) {
	c := newTestClient(t, &countingFetcher{body: []byte{}})

	_, err := c.AvailableClasses(context.Background())
	if !errors.Is(err, ErrMalformedFeed) {
		t.Errorf("expected ErrMalformedFeed, got %v", err)
	}
}

func TestClient_MissingEnvelope(t *testing.T) {
	f := &countingFetcher{body: []byte("<Plan><Klassen/></Plan>")}
	c := newTestClient(t, f)

	_, err := c.ExtraInfo(context.Background())
	if !errors.Is(err, ErrDataNotFound) {
		t.Errorf("expected ErrDataNotFound, got %v", err)
	}

	doc, err := c.Document(context.Background())
	if err != nil || string(doc) != "<Plan><Klassen/></Plan>" {
		t.Errorf("expected raw document to remain available, got %q (%v)", doc, err)
	}
}

func TestClient_FetcherFunc(t *testing.T) {
	calls := 0
	f := FetcherFunc(func(ctx context.Context, req FetchRequest) ([]byte, error) {
		calls++
		return []byte("<VpMobil/>"), nil
	})
	c := newTestClient(t, f)

	classes, err := c.AvailableClasses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classes) != 0 || calls != 1 {
		t.Errorf("expected empty class list after one call, got %v after %d calls", classes, calls)
	}
}

func TestClient_ConcurrentUse(t *testing.T) {
	f := fixtureFetcher(t, "PlanKl20261016.xml")
	c := newTestClient(t, f)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := c.AvailableClasses(context.Background()); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if n := c.Fetches(); n > 1 {
				errs <- fmt.Errorf("observed %d fetches", n)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent use failed: %v", err)
	}
	if c.Fetches() != 1 || f.calls != 1 {
		t.Errorf("expected exactly one fetch, got Fetches()=%d calls=%d", c.Fetches(), f.calls)
	}
}
