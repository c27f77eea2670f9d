package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/nakamauwu/hireloop/types"
	"golang.org/x/sync/errgroup"
)

// Object to upload under Key.
type Object struct {
	Key         string
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Minio stores shared chat files in a single public read-only bucket.
type Minio struct {
	baseCtx        context.Context
	cleanupTimeout time.Duration
	client         *minio.Client
	bucket         string
	publicURL      *url.URL
	errChan        chan error
}

// New takes the public base URL objects are served from,
// usually the endpoint followed by the bucket name.
func New(ctx context.Context, client *minio.Client, bucket string, publicURL *url.URL, cleanupTimeout time.Duration) *Minio {
	return &Minio{
		baseCtx:        ctx,
		cleanupTimeout: cleanupTimeout,
		client:         client,
		bucket:         bucket,
		publicURL:      publicURL,
		errChan:        make(chan error, 1),
	}
}

func (m *Minio) Errs() <-chan error {
	return m.errChan
}

// UploadMany uploads every object concurrently.
// When any upload fails the ones that succeeded are removed.
func (m *Minio) UploadMany(ctx context.Context, objects []Object) ([]types.FileRef, error) {
	if len(objects) == 0 {
		return nil, nil
	}

	var (
		mu           sync.Mutex
		cleanupFuncs []func()
	)

	refs := make([]types.FileRef, len(objects))

	g, gctx := errgroup.WithContext(ctx)

	for i, obj := range objects {
		g.Go(func() error {
			ref, cleanup, err := m.Upload(gctx, obj)
			if err != nil {
				return fmt.Errorf("upload %s failed: %w", obj.Key, err)
			}

			mu.Lock()
			cleanupFuncs = append(cleanupFuncs, cleanup)
			mu.Unlock()

			refs[i] = ref
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		go func() {
			var wg sync.WaitGroup
			for _, fn := range cleanupFuncs {
				wg.Go(fn)
			}
			wg.Wait()
		}()
		return nil, fmt.Errorf("upload group failed: %w", err)
	}

	return refs, nil
}

// Upload stores obj and returns its public reference
// along with a func that removes it again.
func (m *Minio) Upload(ctx context.Context, obj Object) (types.FileRef, func(), error) {
	var ref types.FileRef

	info, err := m.client.PutObject(ctx, m.bucket, obj.Key, obj.Reader, obj.Size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
		UserMetadata: map[string]string{
			"filename": obj.Name,
		},
	})
	if err != nil {
		return ref, nil, fmt.Errorf("put object: %w", err)
	}

	ref = types.FileRef{
		URL:      m.publicURL.JoinPath(obj.Key).String(),
		Name:     obj.Name,
		MimeType: obj.ContentType,
		Size:     info.Size,
	}

	return ref, func() {
		ctx, cancel := context.WithTimeout(m.baseCtx, m.cleanupTimeout)
		defer cancel()

		if err := m.client.RemoveObject(ctx, m.bucket, obj.Key, minio.RemoveObjectOptions{
			VersionID: info.VersionID,
		}); err != nil {
			select {
			case m.errChan <- fmt.Errorf("remove object %s: %w", obj.Key, err):
			default:
			}
		}
	}, nil
}

// CreateReadOnlyBucket creates the bucket when missing and allows anonymous reads.
func (m *Minio) CreateReadOnlyBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket exists: %w", err)
	}

	if !exists {
		err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}

	readOnlyPolicy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": "*",
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, m.bucket)

	err = m.client.SetBucketPolicy(ctx, m.bucket, readOnlyPolicy)
	if err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}

	return nil
}
