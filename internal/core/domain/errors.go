package domain

import "errors"

var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync is already running for the corpus.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrAllSourcesFailed indicates every configured document source
	// failed or returned an empty payload.
	ErrAllSourcesFailed = errors.New("all document sources failed")

	// ErrMissingID indicates a raw document without an identifier.
	ErrMissingID = errors.New("document has no id")

	// ErrInvalidDate indicates a raw document date that could not be parsed.
	ErrInvalidDate = errors.New("document date is invalid")

	// ErrIndexNotReady indicates the search index has not been built yet.
	ErrIndexNotReady = errors.New("search index not ready")

	// ErrPDFUnavailable indicates no source PDF exists for a document.
	ErrPDFUnavailable = errors.New("no source PDF available")
)
