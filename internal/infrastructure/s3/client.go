package s3infra

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bookworm-api/internal/config"
	"github.com/bookworm-api/internal/domain"
)

// Store wraps S3 operations for book image storage.
type Store struct {
	client *s3.Client
	bucket string
	region string

	// baseURL overrides the public object URL prefix (LocalStack/dev).
	baseURL string
}

// NewClient creates an S3 client. When cfg.AWSEndpointURL is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(cfg *config.Config) *s3.Client {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		panic("failed to load AWS config for S3: " + err.Error())
	}

	clientOpts := []func(*s3.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...)
}

// NewStore creates a Store for the given bucket.
func NewStore(client *s3.Client, cfg *config.Config) *Store {
	baseURL := ""
	if cfg.AWSEndpointURL != "" {
		baseURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.AWSEndpointURL, "/"), cfg.S3BucketName)
	}
	return &Store{
		client:  client,
		bucket:  cfg.S3BucketName,
		region:  cfg.AWSRegion,
		baseURL: baseURL,
	}
}

// Upload streams an object to S3 under key and returns its public URL.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return s.objectURL(key), nil
}

// UploadDataURL accepts either a raw base64 payload or an RFC 2397 data URL
// ("data:image/png;base64,...."), which is what the mobile client submits
// when it sends the picked image inline.
func (s *Store) UploadDataURL(ctx context.Context, key, payload string) (string, error) {
	contentType := ""
	if strings.HasPrefix(payload, "data:") {
		meta, rest, ok := strings.Cut(payload[len("data:"):], ",")
		if !ok {
			return "", fmt.Errorf("malformed data URL: %w", domain.ErrBadRequest)
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		payload = rest
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode base64 image: %w", domain.ErrBadRequest)
	}
	if contentType == "" {
		contentType = detectContentType(key)
	}
	return s.Upload(ctx, key, bytes.NewReader(decoded), contentType)
}

// Delete removes an object from S3.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *Store) objectURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func detectContentType(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
