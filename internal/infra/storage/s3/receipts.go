package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReceiptStore archives booking receipts as JSON objects.
type ReceiptStore interface {
	PutReceipt(ctx context.Context, bookingID, kind string, body []byte) (key string, err error)
}

// Client wraps a MinIO/S3 client.
type Client struct {
	bucket         string
	client         *minio.Client
	logger         *slog.Logger
	bucketInitOnce sync.Once
	bucketInitErr  error
}

// NewClient configures an archive using the provided endpoint and credentials.
func NewClient(endpoint string, useSSL bool, accessKey, secretKey, bucket string, logger *slog.Logger) (*Client, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	}
	minioClient, err := minio.New(parseEndpoint(cleanEndpoint), opts)
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		bucket: bucket,
		client: minioClient,
		logger: logger,
	}, nil
}

// PutReceipt stores body under receipts/<booking>/<kind>.json, overwriting any
// previous object so redelivered events stay idempotent.
func (c *Client) PutReceipt(ctx context.Context, bookingID, kind string, body []byte) (string, error) {
	key, err := ReceiptKey(bookingID, kind)
	if err != nil {
		return "", err
	}
	if err := c.ensureBucket(ctx); err != nil {
		return "", err
	}
	_, err = c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}
	c.logger.Debug("receipt archived", "bucket", c.bucket, "key", key)
	return key, nil
}

// ReceiptKey builds the object key for a booking receipt.
func ReceiptKey(bookingID, kind string) (string, error) {
	bookingID = strings.Trim(strings.TrimSpace(bookingID), "/")
	kind = strings.Trim(strings.TrimSpace(kind), "/")
	if bookingID == "" || kind == "" {
		return "", errors.New("s3: booking id and receipt kind are required")
	}
	return fmt.Sprintf("receipts/%s/%s.json", bookingID, kind), nil
}

// NoopStore drops receipts when archiving is disabled.
type NoopStore struct{}

func (NoopStore) PutReceipt(_ context.Context, bookingID, kind string, _ []byte) (string, error) {
	return ReceiptKey(bookingID, kind)
}

func (c *Client) ensureBucket(ctx context.Context) error {
	c.bucketInitOnce.Do(func() {
		exists, err := c.client.BucketExists(ctx, c.bucket)
		if err != nil {
			c.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			c.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
		}
	})
	return c.bucketInitErr
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ ReceiptStore = (*Client)(nil)
var _ ReceiptStore = NoopStore{}
