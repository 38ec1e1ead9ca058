package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrMalformedDocument indicates the uploaded bytes are not a parsable PDF
	ErrMalformedDocument = errors.New("malformed document")

	// ErrUnsupportedEncoding indicates a font encoding could not be fully decoded
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrSizeLimitExceeded indicates the document exceeds the configured size or page limit
	ErrSizeLimitExceeded = errors.New("size limit exceeded")

	// ErrQuotaExceeded indicates the owner's document quota is exhausted
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrEmptyTerm indicates a search term was blank after trimming
	ErrEmptyTerm = errors.New("empty search term")

	// ErrIndexInconsistency indicates the index and document set disagree.
	// Never user-triggerable; treated as fatal for the affected owner scope.
	ErrIndexInconsistency = errors.New("index inconsistency")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSessionNotFound indicates the session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// SizeLimitError reports which limit an upload broke. Matches
// ErrSizeLimitExceeded via errors.Is.
type SizeLimitError struct {
	What   string // "bytes" or "pages"
	Limit  int64
	Actual int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("size limit exceeded: %s %d > %d", e.What, e.Actual, e.Limit)
}

func (e *SizeLimitError) Unwrap() error {
	return ErrSizeLimitExceeded
}

// MissingDocumentsError lists document ids that were requested but no longer
// exist for the owner. Matches ErrNotFound via errors.Is so the transport
// layer can map it without inspecting text.
type MissingDocumentsError struct {
	IDs []string
}

func (e *MissingDocumentsError) Error() string {
	return fmt.Sprintf("documents not found: %s", strings.Join(e.IDs, ", "))
}

func (e *MissingDocumentsError) Unwrap() error {
	return ErrNotFound
}
