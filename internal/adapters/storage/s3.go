// internal/adapters/storage/s3.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mcanales/floreria-be/internal/core/ports"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportPublisher is the share target for exported workbooks: upload the
// file, hand back a link the shop can send to the other device.
type ReportPublisher interface {
	Publish(ctx context.Context, file *ports.ExportFile) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// S3Publisher implements ReportPublisher using AWS S3
type S3Publisher struct {
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
	bucket     string
	region     string
	prefix     string
	linkTTL    time.Duration
	logger     *slog.Logger
}

// Statically assert that *S3Publisher implements the ReportPublisher interface.
var _ ReportPublisher = (*S3Publisher)(nil)

// S3Config holds S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // For MinIO/LocalStack
	UsePathStyle    bool   // For MinIO/LocalStack
	LinkTTL         time.Duration
}

// NewS3Publisher creates a new S3 report publisher
func NewS3Publisher(ctx context.Context, cfg *S3Config, logger *slog.Logger) (*S3Publisher, error) {
	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "reportes"
	}
	linkTTL := cfg.LinkTTL
	if linkTTL == 0 {
		linkTTL = 24 * time.Hour
	}

	publisher := &S3Publisher{
		client:     client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
		bucket:     cfg.Bucket,
		region:     cfg.Region,
		prefix:     prefix,
		linkTTL:    linkTTL,
		logger:     logger.With(slog.String("storage", "s3")),
	}

	if err := publisher.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket: %w", err)
	}

	logger.Info("S3 report publisher initialized",
		slog.String("bucket", cfg.Bucket),
		slog.String("region", cfg.Region))

	return publisher, nil
}

// buildAWSConfig builds AWS configuration
func buildAWSConfig(ctx context.Context, cfg *S3Config) (aws.Config, error) {
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		return config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretAccessKey,
					"",
				),
			),
		)
	}
	return config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
}

// ensureBucket ensures the bucket exists
func (s *S3Publisher) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		_, createErr := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket: aws.String(s.bucket),
			CreateBucketConfiguration: &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(s.region),
			},
		})
		if createErr != nil {
			return fmt.Errorf("bucket %s does not exist and could not be created: %w", s.bucket, createErr)
		}
		s.logger.Info("created S3 bucket", slog.String("bucket", s.bucket))
	}
	return nil
}

// Key returns the object key an export file publishes under
func (s *S3Publisher) Key(fileName string) string {
	return s.prefix + "/" + fileName
}

// Publish uploads the workbook and returns a pre-signed download link
func (s *S3Publisher) Publish(ctx context.Context, file *ports.ExportFile) (string, error) {
	key := s.Key(file.Name)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(workbookContentType),
		ContentDisposition: aws.String(
			fmt.Sprintf(`attachment; filename="%s"`, file.Name)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload workbook: %w", err)
	}

	url, err := s.presignedURL(ctx, key)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "workbook published",
		slog.String("key", key),
		slog.Int("size", len(file.Data)))
	return url, nil
}

// presignedURL generates a pre-signed URL for downloading
func (s *S3Publisher) presignedURL(ctx context.Context, key string) (string, error) {
	presignClient := s3.NewPresignClient(s.client)

	request, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.linkTTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to create presigned URL: %w", err)
	}

	return request.URL, nil
}

// Download downloads a published workbook
func (s *S3Publisher) Download(ctx context.Context, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer([]byte{})

	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download workbook: %w", err)
	}

	s.logger.DebugContext(ctx, "workbook downloaded",
		slog.String("key", key),
		slog.Int("size", len(buf.Bytes())))
	return buf.Bytes(), nil
}

// Exists checks if a published workbook exists
func (s *S3Publisher) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if strings.Contains(err.Error(), "404") || strings.Contains(err.Error(), "NotFound") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check workbook existence: %w", err)
	}
	return true, nil
}

// Delete removes a published workbook
func (s *S3Publisher) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "workbook deleted", slog.String("key", key))
	return nil
}
