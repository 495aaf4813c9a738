package repository

import (
	"context"
	"fmt"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/oxidb"
)

// BlobRepo keeps attachment bytes in an OxiDB bucket.
type BlobRepo struct {
	pool   *oxidb.Pool
	bucket string
}

func NewBlobRepo(pool *oxidb.Pool, bucket string) *BlobRepo {
	return &BlobRepo{pool: pool, bucket: bucket}
}

func (r *BlobRepo) EnsureBucket(ctx context.Context) error {
	return errs.Wrap(r.pool.Get().CreateBucket(ctx, r.bucket), "create bucket")
}

func (r *BlobRepo) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := r.pool.Get().PutObject(ctx, r.bucket, key, data, contentType, nil)
	return errs.Wrap(err, "put blob")
}

// Stat reports what the store holds for key without fetching the content.
func (r *BlobRepo) Stat(ctx context.Context, key string) (*oxidb.ObjectInfo, error) {
	info, err := r.pool.Get().HeadObject(ctx, r.bucket, key)
	if oxidb.IsNotFound(err) {
		return nil, errs.NotFound("file")
	}
	return info, errs.Wrap(err, "stat blob")
}

// Get fetches the content of key and checks it against the stored size.
func (r *BlobRepo) Get(ctx context.Context, key string) ([]byte, error) {
	info, err := r.Stat(ctx, key)
	if err != nil {
		return nil, err
	}
	data, _, err := r.pool.Get().GetObject(ctx, r.bucket, key)
	if oxidb.IsNotFound(err) {
		return nil, errs.NotFound("file")
	}
	if err != nil {
		return nil, errs.Wrap(err, "get blob")
	}
	if int64(len(data)) != info.Size {
		return nil, fmt.Errorf("blob %s: read %d bytes, stored size is %d", key, len(data), info.Size)
	}
	return data, nil
}

func (r *BlobRepo) Delete(ctx context.Context, key string) error {
	err := r.pool.Get().DeleteObject(ctx, r.bucket, key)
	if oxidb.IsNotFound(err) {
		return nil
	}
	return errs.Wrap(err, "delete blob")
}

func (r *BlobRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
