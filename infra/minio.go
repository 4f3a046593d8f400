package infra

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/clusterbreakdown/cost-report-service/config"
	"github.com/clusterbreakdown/cost-report-service/utils"
)

// MinioClient is the object-store adapter. Uploaded CSVs live as one object
// per filename in a single flat bucket; re-upload of the same filename
// overwrites the previous content (last-write-wins, no versioning).
type MinioClient struct {
	Admin    *madmin.AdminClient
	Client   *minio.Client
	Endpoint string
}

func NewMinioClient(cfg *config.EnvConfig) (*MinioClient, error) {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		return nil, fmt.Errorf("MinIO endpoint is not configured")
	}

	rootUser := cfg.Minio.RootUser
	rootPassword := cfg.Minio.RootPassword
	if rootUser == "" || rootPassword == "" {
		return nil, fmt.Errorf("MinIO credentials are not configured")
	}

	madminClient, err := madmin.New(endpoint, rootUser, rootPassword, cfg.Minio.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO admin client: %w", err)
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	return &MinioClient{
		Admin:    madminClient,
		Client:   minioClient,
		Endpoint: endpoint,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (m *MinioClient) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := m.Client.BucketExists(ctx, bucket)
	if err != nil {
		return utils.ClassifyObjectStoreError("check bucket", bucket, err)
	}

	if !exists {
		if err := m.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return utils.ClassifyObjectStoreError("create bucket", bucket, err)
		}
	}
	return nil
}

// PutObject writes an object, overwriting any existing object of the same key.
func (m *MinioClient) PutObject(ctx context.Context, bucket, key string, data io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := minio.PutObjectOptions{ContentType: contentType}

	_, err := m.Client.PutObject(ctx, bucket, key, data, size, opts)
	if err != nil {
		return utils.ClassifyObjectStoreError("put object", key, err)
	}
	return nil
}

// GetObject retrieves the full object content and its content type.
func (m *MinioClient) GetObject(ctx context.Context, bucket, key string) ([]byte, string, error) {
	obj, err := m.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", utils.ClassifyObjectStoreError("get object", key, err)
	}
	defer obj.Close()

	// GetObject is lazy; a missing key only surfaces on Stat or first read.
	stat, err := obj.Stat()
	if err != nil {
		return nil, "", utils.ClassifyObjectStoreError("stat object", key, err)
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, obj); err != nil {
		return nil, "", utils.ClassifyObjectStoreError("read object", key, err)
	}

	return buf.Bytes(), stat.ContentType, nil
}

// GetObjectStream streams an object without loading it into memory.
// The caller owns the returned ReadCloser.
func (m *MinioClient) GetObjectStream(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	obj, err := m.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, utils.ClassifyObjectStoreError("get object", key, err)
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, utils.ClassifyObjectStoreError("stat object", key, err)
	}

	return obj, stat.Size, nil
}

// ListObjects enumerates the bucket lazily. Each call restarts the listing;
// ordering is whatever the backing store yields.
func (m *MinioClient) ListObjects(ctx context.Context, bucket string) <-chan minio.ObjectInfo {
	return m.Client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true})
}

// ListObjectKeys materializes the object names in the bucket.
func (m *MinioClient) ListObjectKeys(ctx context.Context, bucket string) ([]string, error) {
	var keys []string
	for object := range m.ListObjects(ctx, bucket) {
		if object.Err != nil {
			return nil, utils.ClassifyObjectStoreError("list objects", bucket, object.Err)
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}

// DeleteObject removes an object. Deleting an absent key is a no-op, so the
// operation is idempotent.
func (m *MinioClient) DeleteObject(ctx context.Context, bucket, key string) error {
	err := m.Client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return utils.ClassifyObjectStoreError("delete object", key, err)
	}
	return nil
}

// HeadObject checks existence and returns object metadata.
func (m *MinioClient) HeadObject(ctx context.Context, bucket, key string) (*minio.ObjectInfo, error) {
	stat, err := m.Client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, utils.ClassifyObjectStoreError("stat object", key, err)
	}
	return &stat, nil
}

// Health probes the storage backend through the admin API, falling back to a
// bucket existence check when admin access is denied.
func (m *MinioClient) Health(ctx context.Context, bucket string) error {
	if _, err := m.Admin.ServerInfo(ctx); err == nil {
		return nil
	}
	_, err := m.Client.BucketExists(ctx, bucket)
	if err != nil {
		return utils.ClassifyObjectStoreError("health check", bucket, err)
	}
	return nil
}
