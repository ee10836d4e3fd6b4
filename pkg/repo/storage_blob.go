package repo

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// gs:// bucket urls
	_ "gocloud.dev/blob/gcsblob"
)

// BlobStorage keeps snapshots in a gocloud bucket below an optional prefix
type BlobStorage struct {
	bucket *blob.Bucket
	prefix string
}

// NewBlobStorage opens bucketURL, e.g. "gs://my-bucket"
func NewBlobStorage(ctx context.Context, bucketURL, prefix string) (*BlobStorage, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open bucket %s", bucketURL)
	}
	return NewBlobStorageFromBucket(bucket, prefix), nil
}

// NewBlobStorageFromBucket takes ownership of bucket
func NewBlobStorageFromBucket(bucket *blob.Bucket, prefix string) *BlobStorage {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &BlobStorage{
		bucket: bucket,
		prefix: prefix,
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (s *BlobStorage) Write(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.bucket.WriteAll(ctx, s.prefix+key, data, &blob.WriterOptions{
		ContentType: "application/json",
	})
}

func (s *BlobStorage) Read(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := s.bucket.ReadAll(ctx, s.prefix+key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, os.ErrNotExist
	}
	return data, err
}

func (s *BlobStorage) List(ctx context.Context, prefix string) ([]string, error) {
	iter := s.bucket.List(&blob.ListOptions{
		Prefix:    s.prefix + prefix,
		Delimiter: "/",
	})
	keys := []string{}
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if obj.IsDir {
			continue
		}
		keys = append(keys, strings.TrimPrefix(obj.Key, s.prefix))
	}
	return sortKeysDesc(keys), nil
}

func (s *BlobStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.bucket.Delete(ctx, s.prefix+key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return err
	}
	return nil
}

func (s *BlobStorage) Close() error {
	return s.bucket.Close()
}
