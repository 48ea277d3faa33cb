package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/data-publish-agent/models"
)

var (
	// ErrNoSession is returned when a token is requested before Login.
	ErrNoSession = errors.New("no session, login first")
	// ErrInvalidCredentials is returned when the account credentials are
	// empty. No request is sent.
	ErrInvalidCredentials = errors.New("user ID and password are required")
	// ErrSessionExpired aborts a sync run: the token was rejected again right
	// after a renewal, or the renewal itself failed.
	ErrSessionExpired = errors.New("session expired")
	// ErrMalformedPage is returned for a page that cannot advance the cursor.
	ErrMalformedPage = errors.New("malformed page")
	// ErrUnknownCollection is returned for a collection name that is not in
	// the catalog.
	ErrUnknownCollection = errors.New("unknown collection")
)

// SyncError is a failure of a single collection sync. It carries everything
// needed to resume: the collection, the scope and the cursor of the page that
// failed.
type SyncError struct {
	Collection string
	Scope      models.Scope
	Cursor     models.SyncCursor
	Err        error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s [%s] at %s: %v", e.Collection, e.Scope, e.Cursor, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
