package vpmobil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DirFetcher serves feeds from a directory of saved PlanKl<YYYYMMDD>.xml files.
// Credentials are ignored.
type DirFetcher struct {
	Dir string
}

// Fetch reads the saved feed for the request date
func (d DirFetcher) Fetch(_ context.Context, req FetchRequest) ([]byte, error) {
	path := filepath.Join(d.Dir, req.FileName())
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no saved feed at %s", ErrDataNotFound, path)
		}
		return nil, fmt.Errorf("%w: could not read %s: %v", ErrTransport, path, err)
	}
	return data, nil
}

// SaveFeed stores a raw feed under the name DirFetcher expects and returns its path
func SaveFeed(dir string, date time.Time, raw []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create feed directory: %w", err)
	}

	path := filepath.Join(dir, feedFileName(date))
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("could not write feed: %w", err)
	}
	return path, nil
}
