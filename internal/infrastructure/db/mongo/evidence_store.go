package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
	"github.com/lecturerclaims/claims-system/internal/core/ports"
)

const (
	evidenceBucket        = "evidence"
	evidenceUploadTimeout = 2 * time.Minute
)

// EvidenceStore keeps evidence files in a GridFS bucket. Files are named
// <uuid><ext>; that name is the storage key recorded on the claim.
type EvidenceStore struct {
	bucket *gridfs.Bucket
}

func NewEvidenceStore(db *mongo.Database) (*EvidenceStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(evidenceBucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &EvidenceStore{bucket: bucket}, nil
}

// Put streams the upload into GridFS. A partially written file is aborted.
func (s *EvidenceStore) Put(ctx context.Context, upload ports.EvidenceUpload) (string, error) {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(upload.Filename))

	opts := options.GridFSUpload().SetMetadata(bson.M{
		"original_name": upload.Filename,
		"size_bytes":    upload.Size,
	})
	stream, err := s.bucket.OpenUploadStream(key, opts)
	if err != nil {
		return "", fmt.Errorf("open upload stream: %w", err)
	}
	if err := stream.SetWriteDeadline(deadline(ctx, evidenceUploadTimeout)); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("upload deadline: %w", err)
	}

	if _, err := io.Copy(stream, upload.Content); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("write evidence: %w", err)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("close evidence: %w", err)
	}
	return key, nil
}

// Delete removes every file stored under key.
func (s *EvidenceStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.bucket.FindContext(ctx, bson.M{"filename": key})
	if err != nil {
		return fmt.Errorf("find evidence: %w", err)
	}
	defer cur.Close(ctx)

	var files []struct {
		ID interface{} `bson:"_id"`
	}
	if err := cur.All(ctx, &files); err != nil {
		return fmt.Errorf("decode evidence: %w", err)
	}
	if len(files) == 0 {
		return domain.ErrEvidenceNotFound
	}
	for _, f := range files {
		if err := s.bucket.DeleteContext(ctx, f.ID); err != nil {
			return fmt.Errorf("delete evidence: %w", err)
		}
	}
	return nil
}

// Open returns a reader over the newest revision of the file stored under key.
func (s *EvidenceStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	stream, err := s.bucket.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrEvidenceNotFound
		}
		return nil, fmt.Errorf("open evidence: %w", err)
	}
	if err := stream.SetReadDeadline(deadline(ctx, evidenceUploadTimeout)); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("download deadline: %w", err)
	}
	return stream, nil
}

func deadline(ctx context.Context, fallback time.Duration) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		return dl
	}
	return time.Now().Add(fallback)
}
