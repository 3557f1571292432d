// Package s3upload publishes benchmark exports and profiler reports to S3.
package s3upload

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eunmann/tifbench/pkg/logging"
)

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client uploads local files to S3.
type Client struct {
	api PutObjectAPI
}

// NewClient creates a new S3 client using default AWS configuration.
func NewClient(ctx context.Context) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewClientWithConfig(cfg), nil
}

// NewClientWithConfig creates a new S3 client with a custom AWS config.
func NewClientWithConfig(cfg aws.Config) *Client {
	return &Client{api: s3.NewFromConfig(cfg)}
}

// NewClientWithAPI wraps an existing PutObject implementation.
func NewClientWithAPI(api PutObjectAPI) *Client {
	return &Client{api: api}
}

// ParseURI splits s3://bucket/prefix into bucket and prefix. The prefix
// may be empty and never ends with a slash.
func ParseURI(uri string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w %q: must start with s3://", ErrInvalidURI, uri)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%w %q: missing bucket name", ErrInvalidURI, uri)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// Key joins prefix and the base name of localPath.
func Key(prefix, localPath string) string {
	name := filepath.Base(localPath)
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func contentType(p string) string {
	switch filepath.Ext(p) {
	case ".json":
		return "application/json"
	case ".parquet":
		return "application/vnd.apache.parquet"
	case ".pprof":
		return "application/octet-stream"
	default:
		return "text/plain; charset=utf-8"
	}
}

// UploadFile uploads the file at localPath to bucket/key.
func (c *Client) UploadFile(ctx context.Context, bucket, key, localPath string) error {
	start := time.Now()

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}

	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType(localPath)),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}

	logging.NewCompletionEvent(*logging.L(), "object_uploaded", "publish", time.Since(start)).
		Str("bucket", bucket).
		Str("key", key).
		Bytes("size", info.Size()).
		Throughput(info.Size()).
		LogDebug("object uploaded")
	return nil
}

// UploadFiles uploads each path under prefix, named by its base name, and
// returns the keys written. It stops at the first failure.
func (c *Client) UploadFiles(ctx context.Context, bucket, prefix string, paths []string) ([]string, error) {
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return keys, err
		}
		key := Key(prefix, p)
		if err := c.UploadFile(ctx, bucket, key, p); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
