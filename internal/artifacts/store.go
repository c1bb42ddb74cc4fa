package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"rental-backend/internal/config"
)

// Store keeps customer signatures and damage photos in an S3-compatible
// bucket. Contracts and maintenance records reference objects by key only.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// New builds the artifact store, or returns nil (disabled) when no bucket is
// configured.
func New(cfg *config.Config) *Store {
	if cfg.Artifacts.Bucket == "" || cfg.Artifacts.AccessKey == "" {
		log.Printf("[Artifacts] No bucket configured, artifact store disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Artifacts.AccessKey,
			cfg.Artifacts.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Artifacts.Region),
	)
	if err != nil {
		log.Printf("[Artifacts] Failed to configure client: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Artifacts.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Artifacts.Endpoint)
		}
	})

	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Artifacts.Bucket,
	}
}

// Enabled reports whether uploads can be accepted.
func (s *Store) Enabled() bool {
	return s != nil
}

// NewKey generates an object key under the given prefix ("signatures",
// "photos").
func NewKey(prefix, extension string) string {
	return fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), extension)
}

// Upload stores one object and returns its key.
func (s *Store) Upload(ctx context.Context, prefix, extension, contentType string, data []byte) (string, error) {
	if s == nil {
		return "", fmt.Errorf("artifact store disabled")
	}
	key := NewKey(prefix, extension)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload artifact: %w", err)
	}
	return key, nil
}

// PresignGet returns a time-limited download URL for an object key.
func (s *Store) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if s == nil {
		return "", fmt.Errorf("artifact store disabled")
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign artifact %s: %w", key, err)
	}
	return req.URL, nil
}
