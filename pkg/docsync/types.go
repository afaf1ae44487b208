package docsync

import (
	"errors"

	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/storage"
	"github.com/iudanet/docsync/internal/syncer"
)

type (
	// Document is a stored document: id and serialized body
	Document = models.Document
	// Predicate filters documents for Query, Count and DeleteWhere
	Predicate = models.Predicate
	// ChangeRecord is one captured mutation as sent to the room
	ChangeRecord = models.ChangeRecord
	// SyncedEvent reports a burst of remote records applied locally
	SyncedEvent = syncer.SyncedEvent
	// Anomaly reports a remote write that lost last-writer-wins
	Anomaly = syncer.Anomaly
)

// All accepts every document
var All Predicate = models.All

var (
	// ErrNotFound is returned by Get for a missing document
	ErrNotFound = storage.ErrDocumentNotFound

	// ErrDuplicateID is returned by Insert for an id that already exists
	ErrDuplicateID = storage.ErrDuplicateID

	// ErrTxClosed is returned by a Tx after Commit or Rollback
	ErrTxClosed = storage.ErrTxClosed

	// ErrClosed is returned by every method after Close
	ErrClosed = errors.New("docsync: database closed")

	// ErrAlreadyStarted is returned by a second Start
	ErrAlreadyStarted = syncer.ErrAlreadyStarted
)
