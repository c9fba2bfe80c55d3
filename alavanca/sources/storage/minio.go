package storage

import (
	"bytes"
	"context"
	"path"

	"alavanca/alavanca/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client archives lead export snapshots in object storage.
type Client struct {
	client *minio.Client
	bucket string
}

func NewClient(cfg config.Config) (*Client, error) {
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(context.Background(), cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &Client{client: client, bucket: cfg.MinIOBucket}, nil
}

func (c *Client) UploadExport(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := path.Join("exports", name)
	_, err := c.client.PutObject(ctx, c.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return key, nil
}
