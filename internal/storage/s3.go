package storage

import (
	"alcyxob/coaching-app/internal/config"
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3VideoStorage implements VideoStorage using an S3-compatible backend.
type s3VideoStorage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
}

// NewS3VideoStorage creates a video storage instance against the configured
// bucket. A custom endpoint switches on path-style addressing, which
// S3-compatible services like MinIO require.
func NewS3VideoStorage(cfg config.S3Config) (VideoStorage, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	slog.Info("video storage initialised", "endpoint", cfg.Endpoint, "bucket", cfg.BucketName)

	return &s3VideoStorage{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
	}, nil
}

// PresignUpload creates a temporary URL for uploading a video (PUT).
func (s *s3VideoStorage) PresignUpload(ctx context.Context, token string, contentType string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(token),
		ContentType: aws.String(contentType), // Client must send the same header on upload
	}

	req, err := s.presignClient.PresignPutObject(ctx, params, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PresignDownload creates a temporary URL for viewing a video (GET).
func (s *s3VideoStorage) PresignDownload(ctx context.Context, token string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	params := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(token),
	}

	req, err := s.presignClient.PresignGetObject(ctx, params, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Delete removes the video object for the given token.
func (s *s3VideoStorage) Delete(ctx context.Context, token string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(token),
	})
	return err
}
