package vpmobil

import (
	"errors"
	"fmt"
)

// ErrVPMobil is the root of every error this package returns.
// Use errors.Is to match either the root or one of the specific kinds below.
var ErrVPMobil = errors.New("vpmobil")

var (
	// ErrAuthentication means the service rejected the credentials.
	ErrAuthentication = fmt.Errorf("%w: authentication failed", ErrVPMobil)

	// ErrMalformedFeed means the feed content is not well-formed XML.
	ErrMalformedFeed = fmt.Errorf("%w: malformed feed", ErrVPMobil)

	// ErrDataNotFound means there is no plan for the requested date, or the
	// feed lacks its VpMobil envelope.
	ErrDataNotFound = fmt.Errorf("%w: data not found", ErrVPMobil)

	// ErrInvalidClassName means the requested class is not in the snapshot.
	ErrInvalidClassName = fmt.Errorf("%w: invalid class name", ErrVPMobil)

	// ErrTransport covers network and HTTP failures other than authentication.
	ErrTransport = fmt.Errorf("%w: transport failure", ErrVPMobil)

	// ErrInvalidArgument is returned for unusable client parameters.
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", ErrVPMobil)
)

// classify makes sure an error leaving the fetch pipeline carries one of the
// package kinds. Errors that already do are returned untouched.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrVPMobil) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
