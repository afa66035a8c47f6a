// Package filestore implements outbound.FileStore (§6.4): a per-identity
// hierarchical blob store, backed by S3 in production and an in-memory
// emulator for tests and local development.
package filestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/alchemorsel/cookbook/internal/ports/outbound"
	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

// Config configures the S3-backed FileStore.
type Config struct {
	Bucket string
	Region string
	Prefix string // optional key prefix shared by all objects, e.g. "extraction/"
}

// S3Store implements outbound.FileStore against a single S3 bucket,
// namespacing every key by identity and folder: {prefix}{identity}/{folder}/{filename}.
type S3Store struct {
	bucket string
	prefix string
	client *s3.S3
	logger *zap.Logger
}

func NewS3Store(cfg Config, logger *zap.Logger) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
	if err != nil {
		return nil, fmt.Errorf("filestore: failed to create AWS session: %w", err)
	}
	return &S3Store{
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		client: s3.New(sess),
		logger: logger,
	}, nil
}

// GetOrCreateFolder is a no-op for S3: "folders" are key prefixes, not
// objects, so there is nothing to create ahead of a Put.
func (s *S3Store) GetOrCreateFolder(_ context.Context, identity, name string) (outbound.FolderRef, error) {
	return outbound.FolderRef{ID: path.Join(identity, name)}, nil
}

func (s *S3Store) Put(ctx context.Context, identity string, folder outbound.FolderRef, filename string, data []byte, mimeType string) (outbound.FileRef, error) {
	key := s.objectKey(identity, folder, filename)
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return outbound.FileRef{}, apperrors.NewStorageUnavailableError("put", err)
	}
	return outbound.FileRef{ID: key, Filename: filename}, nil
}

func (s *S3Store) List(ctx context.Context, identity string, folder outbound.FolderRef, pageSize int, pageToken string) (outbound.FileList, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.folderPrefix(identity, folder)),
		MaxKeys: aws.Int64(int64(pageSize)),
	}
	if pageToken != "" {
		input.ContinuationToken = aws.String(pageToken)
	}

	out, err := s.client.ListObjectsV2WithContext(ctx, input)
	if err != nil {
		return outbound.FileList{}, apperrors.NewStorageUnavailableError("list", err)
	}

	list := outbound.FileList{}
	for _, obj := range out.Contents {
		key := aws.StringValue(obj.Key)
		list.Entries = append(list.Entries, outbound.FileRef{ID: key, Filename: path.Base(key)})
	}
	if out.NextContinuationToken != nil {
		list.NextPageToken = aws.StringValue(out.NextContinuationToken)
	}
	return list, nil
}

func (s *S3Store) GetBytes(ctx context.Context, _ string, file outbound.FileRef) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(file.ID),
	})
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("get", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("get", err)
	}
	return data, nil
}

func (s *S3Store) GetText(ctx context.Context, identity string, file outbound.FileRef) (string, error) {
	data, err := s.GetBytes(ctx, identity, file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *S3Store) objectKey(identity string, folder outbound.FolderRef, filename string) string {
	base := folder.ID
	if base == "" {
		base = identity
	}
	return strings.TrimPrefix(path.Join(s.prefix, base, filename), "/")
}

func (s *S3Store) folderPrefix(identity string, folder outbound.FolderRef) string {
	base := folder.ID
	if base == "" {
		base = identity
	}
	return strings.TrimPrefix(path.Join(s.prefix, base)+"/", "/")
}

var _ outbound.FileStore = (*S3Store)(nil)
