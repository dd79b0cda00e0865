package ports

import (
	"context"
	"io"
)

// EvidenceUpload is a claimant-supplied evidence file on its way to storage.
type EvidenceUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// EvidenceStore keeps evidence files outside the claim record.
type EvidenceStore interface {
	// Put writes the upload in full and returns the storage key.
	Put(ctx context.Context, upload EvidenceUpload) (string, error)
	// Delete removes a stored file; used to undo a Put whose claim was never saved.
	Delete(ctx context.Context, key string) error
	// Open streams a stored file back to the caller.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
