package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jmgilman/go/imgcache/errors"
)

// S3Config holds S3/MinIO connection settings.
type S3Config struct {
	// Endpoint is the server address (e.g., "localhost:9000").
	Endpoint string

	// AccessKey is the access key ID for authentication.
	AccessKey string

	// SecretKey is the secret access key for authentication.
	SecretKey string

	// UseSSL enables HTTPS connections.
	UseSSL bool

	// Client is an optional pre-configured client.
	// If provided, Endpoint/AccessKey/SecretKey are ignored.
	Client *minio.Client
}

// validate checks if the configuration is valid.
func (c *S3Config) validate() error {
	if c.Client != nil {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required when client is not provided")
	}
	return nil
}

// S3 fetches s3://bucket/key URIs from an S3-compatible object store.
type S3 struct {
	client *minio.Client
}

// NewS3 creates an S3 fetcher.
func NewS3(config S3Config) (*S3, error) {
	if err := config.validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "invalid s3 config")
	}

	client := config.Client
	if client == nil {
		var err error
		client, err = minio.New(config.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
			Secure: config.UseSSL,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create s3 client")
		}
	}
	return &S3{client: client}, nil
}

// parseS3URI splits s3://bucket/key into its bucket and key.
func parseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri must name a bucket and a key: %q", uri)
	}
	return bucket, key, nil
}

// Fetch implements Fetcher. The MIME type is the object's stored content type.
func (s *S3) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.CodeInvalidInput, "invalid s3 uri")
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", translateS3Error(err, bucket, key)
	}
	defer func() { _ = obj.Close() }()

	info, err := obj.Stat()
	if err != nil {
		return nil, "", translateS3Error(err, bucket, key)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", translateS3Error(err, bucket, key)
	}
	return data, info.ContentType, nil
}

// translateS3Error converts MinIO errors to classified errors.
func translateS3Error(err error, bucket, key string) error {
	ctx := map[string]interface{}{"bucket": bucket, "key": key}

	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return errors.WrapWithContext(err, errors.CodeNotFound, "object not found", ctx)
	case "AccessDenied":
		return errors.WrapWithContext(err, errors.CodeSourceFailed, "access denied", ctx)
	case "SlowDown", "ServiceUnavailable", "InternalError":
		return errors.WrapWithContext(err, errors.CodeUnavailable, "object store unavailable", ctx)
	}
	return errors.WrapWithContext(err, errors.CodeNetwork, "failed to fetch object", ctx)
}
