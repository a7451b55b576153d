package documents

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"charterdesk_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// presignedURLTTL is the expiration time for download links.
const presignedURLTTL = 15 * time.Minute

// Storage archives rendered offer documents in a MinIO bucket.
type Storage struct {
	client *minio.Client
	bucket string
}

// NewStorage creates the MinIO-backed document store. Returns an error
// when MinIO is not configured; callers treat the store as optional.
func NewStorage(cfg config.StorageConfig) (*Storage, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &Storage{client: client, bucket: cfg.GetMinioBucketOfferDocuments()}, nil
}

// EnsureBucket creates the document bucket if it doesn't exist.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// OfferPDFKey is the object key an offer's archived document lives under.
func OfferPDFKey(offerNumber string) string {
	return fmt.Sprintf("offers/%s.pdf", offerNumber)
}

// ArchiveOfferPDF stores a rendered offer document keyed by offer number
// and returns the object key. Re-archiving the same offer overwrites the
// previous version.
func (s *Storage) ArchiveOfferPDF(ctx context.Context, offerNumber string, pdf []byte) (string, error) {
	key := OfferPDFKey(offerNumber)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive offer pdf: %w", err)
	}
	return key, nil
}

// DownloadURL creates a presigned URL for a stored document.
func (s *Storage) DownloadURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, presignedURLTTL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign document url: %w", err)
	}
	return u.String(), nil
}
