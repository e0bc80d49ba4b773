package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSSource reads table files from objects under a prefix of a Google
// Cloud Storage bucket.
type GCSSource struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSSource creates a storage client. An empty credentialsFile uses
// application default credentials; extra options are appended after the
// credentials.
func NewGCSSource(ctx context.Context, bucket, prefix, credentialsFile string, extra ...option.ClientOption) (*GCSSource, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, extra...)
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSSource{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSSource) object(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *GCSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj := s.object(name)
	r, err := s.client.Bucket(s.bucket).Object(obj).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("open gs://%s/%s: %w", s.bucket, obj, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader gs://%s/%s: %w", s.bucket, obj, err)
	}
	return r, nil
}

func (s *GCSSource) String() string { return "gs://" + s.bucket + "/" + s.prefix }

// Close releases the storage client.
func (s *GCSSource) Close() error {
	return s.client.Close()
}
