package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	gcsstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Open returns a reader for a dataset or model artifact source. Paths of the
// form gs://bucket/object are read from Cloud Storage; anything else is a
// local file. The caller closes the reader.
func Open(ctx context.Context, path string, opts ...option.ClientOption) (io.ReadCloser, error) {
	bucket, object, ok := strings.Cut(strings.TrimPrefix(path, "gs://"), "/")
	if strings.HasPrefix(path, "gs://") {
		if !ok || bucket == "" || object == "" {
			return nil, fmt.Errorf("invalid gs:// path %q", path)
		}
		client, err := gcsstorage.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("open gs://%s/%s: %w", bucket, object, err)
		}
		return &gcsReader{Reader: r, client: client}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// gcsReader closes the underlying storage client together with the object
// reader.
type gcsReader struct {
	*gcsstorage.Reader
	client *gcsstorage.Client
}

func (r *gcsReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}
