package storage

import "errors"

// Common storage errors
var (
	// ErrDocumentNotFound indicates that document was not found in collection
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDuplicateID indicates that insert used an id that already exists
	ErrDuplicateID = errors.New("document with this id already exists")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrTxClosed indicates that transaction was already committed or rolled back
	ErrTxClosed = errors.New("transaction is closed")
)
