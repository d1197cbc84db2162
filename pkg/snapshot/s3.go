package snapshot

import (
	"bytes"
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the part of *s3.Client that S3Store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

const metaCreatedAt = "rendered-at"

// S3Store stores snapshots in an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := snapshot.NewS3Store(s3.NewFromConfig(cfg), "my-site", "pages/")
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates a store writing below prefix in bucket.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key for a page path: "/" is index.html and
// "/docs/intro" is docs/intro/index.html.
func (s *S3Store) Key(path string) string {
	path = strings.TrimPrefix(CleanPath(path), "/")
	if path == "" {
		return s.prefix + "index.html"
	}
	return s.prefix + path + "/index.html"
}

// Put uploads snap.
func (s *S3Store) Put(ctx context.Context, snap *Snapshot) error {
	contentType := snap.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(snap.Path)),
		Body:        bytes.NewReader(snap.HTML),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			metaCreatedAt: snap.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("s3 upload of %s failed: %w", snap.Path, err)
	}
	return nil
}

// Get downloads the snapshot for path.
func (s *S3Store) Get(ctx context.Context, path string) (*Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(path)),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if goerrors.As(err, &missing) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 download of %s failed: %w", path, err)
	}
	defer out.Body.Close()

	html, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Path: CleanPath(path), HTML: html, ContentType: aws.ToString(out.ContentType)}
	if v, ok := out.Metadata[metaCreatedAt]; ok {
		snap.CreatedAt, _ = time.Parse(time.RFC3339, v)
	}
	return snap, nil
}

// Close is a no-op; the client is owned by the caller.
func (s *S3Store) Close() error {
	return nil
}
