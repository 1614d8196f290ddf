package vpmobil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Client gives access to the plan of one school for one day.
// The feed is fetched on first use and kept for the lifetime of the Client,
// failures included. Build a new Client to try again.
type Client struct {
	date    time.Time
	creds   Credentials
	fetcher Fetcher
	logger  *zap.Logger
	loc     *time.Location

	once     sync.Once
	fetches  atomic.Int32
	document []byte
	snapshot *Snapshot
	err      error
}

// Option configures a Client
type Option func(*Client)

// WithFetcher replaces the default stundenplan24.de fetcher
func WithFetcher(f Fetcher) Option {
	return func(c *Client) { c.fetcher = f }
}

// WithLogger sets the logger used for pipeline diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithLocation sets the time zone off-days and plan dates are placed in (default Europe/Berlin)
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.loc = loc }
}

// NewClient validates the parameters. It performs no network I/O.
func NewClient(date time.Time, creds Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidArgument)
	}

	c := &Client{
		date:   date,
		creds:  creds,
		logger: zap.NewNop(),
		loc:    Location(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = NewHTTPFetcher()
	}
	return c, nil
}

// Date returns the day this client is bound to
func (c *Client) Date() time.Time {
	return c.date
}

// Fetches reports how many times the feed was requested (0 or 1)
func (c *Client) Fetches() int {
	return int(c.fetches.Load())
}

func (c *Client) load(ctx context.Context) {
	log := c.logger.With(
		zap.Int("school", c.creds.SchoolCode),
		zap.String("date", c.date.Format("2006-01-02")),
	)

	c.fetches.Add(1)
	log.Debug("fetching feed")
	raw, err := c.fetcher.Fetch(ctx, FetchRequest{Date: c.date, Credentials: c.creds})
	if err != nil {
		c.err = classify(err)
		log.Debug("fetch failed", zap.Error(c.err))
		return
	}
	c.document = raw

	feed, err := ParseFeed(raw)
	if err != nil {
		c.err = err
		log.Debug("parse failed", zap.Error(err), zap.Int("bytes", len(raw)))
		return
	}

	s, err := buildSnapshot(feed, c.date, c.loc)
	if err != nil {
		c.err = err
		log.Debug("build failed", zap.Error(err))
		return
	}
	c.snapshot = s
	log.Debug("snapshot ready",
		zap.Int("classes", len(s.order)),
		zap.Int("off_days", len(s.offDays)),
		zap.Int("extra_info", len(s.extraInfo)),
	)
}

// Snapshot runs the fetch, parse and build pipeline once and returns its result
func (c *Client) Snapshot(ctx context.Context) (*Snapshot, error) {
	c.once.Do(func() { c.load(ctx) })
	return c.snapshot, c.err
}

// Document returns the raw feed bytes as received
func (c *Client) Document(ctx context.Context) ([]byte, error) {
	if _, err := c.Snapshot(ctx); err != nil && c.document == nil {
		return nil, err
	}
	return append([]byte{}, c.document...), nil
}

// OffDays returns the off-days reported by the feed
func (c *Client) OffDays(ctx context.Context) ([]OffDay, error) {
	s, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.OffDays(), nil
}

// ExtraInfo returns the notice lines for the day
func (c *Client) ExtraInfo(ctx context.Context) ([]string, error) {
	s, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.ExtraInfo(), nil
}

// RawFeed returns the decoded feed tree
func (c *Client) RawFeed(ctx context.Context) (RawFeed, error) {
	s, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Raw(), nil
}

// AvailableClasses returns the class names in feed order
func (c *Client) AvailableClasses(ctx context.Context) ([]string, error) {
	s, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Classes(), nil
}

// ClassTimetable looks up a class by exact, case-sensitive name
func (c *Client) ClassTimetable(ctx context.Context, className string) (*ClassTimetable, error) {
	s, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Class(className)
}
