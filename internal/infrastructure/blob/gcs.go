package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GCSStore keeps blobs in a Cloud Storage bucket. Objects are expected to be
// publicly readable, either through bucket IAM or a CDN in front of it.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
	codec  urlCodec
	logger *log.Logger
}

func NewGCSStore(ctx context.Context, bucket, publicBaseURL string, logger *log.Logger) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}
	if publicBaseURL == "" {
		publicBaseURL = "https://storage.googleapis.com/" + bucket
	}
	codec, err := newURLCodec(publicBaseURL)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &GCSStore{
		client: client,
		bucket: client.Bucket(bucket),
		codec:  codec,
		logger: logger,
	}, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	if err := validObjectPath(objectPath); err != nil {
		return err
	}

	w := s.bucket.Object(objectPath).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return s.uploadError(objectPath, err)
	}
	if err := w.Close(); err != nil {
		return s.uploadError(objectPath, err)
	}
	return nil
}

func (s *GCSStore) uploadError(objectPath string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%w: %s", ErrExists, objectPath)
	}
	if s.logger != nil {
		s.logger.Printf("[Blob] gcs upload failed object=%s err=%v", objectPath, err)
	}
	return fmt.Errorf("gcs upload %s: %w", objectPath, err)
}

func (s *GCSStore) PublicURL(objectPath string) string {
	return s.codec.publicURL(objectPath)
}

func (s *GCSStore) ObjectPath(publicURL string) (string, error) {
	return s.codec.objectPath(publicURL)
}

func (s *GCSStore) Remove(ctx context.Context, objectPaths ...string) error {
	for _, p := range objectPaths {
		if err := validObjectPath(p); err != nil {
			return err
		}
		err := s.bucket.Object(p).Delete(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) {
			if s.logger != nil {
				s.logger.Printf("[Blob] gcs remove skipped, object missing object=%s", p)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("gcs remove %s: %w", p, err)
		}
	}
	return nil
}
