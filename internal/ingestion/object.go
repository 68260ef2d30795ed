package ingestion

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/logger"
)

// ObjectConfig locates an S3-compatible bucket (AWS, R2, MinIO)
type ObjectConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool
}

// objectGetter is the slice of the S3 client ObjectSource needs
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ObjectSource reads uploaded documents from object storage
type ObjectSource struct {
	client objectGetter
	bucket string
	log    *zap.Logger
}

// NewObjectSource builds an S3 client from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewObjectSource(ctx context.Context, cfg ObjectConfig, log *zap.Logger) (*ObjectSource, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object storage bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
	return newObjectSource(client, cfg.Bucket, log), nil
}

func newObjectSource(client objectGetter, bucket string, log *zap.Logger) *ObjectSource {
	return &ObjectSource{client: client, bucket: bucket, log: logger.OrNop(log)}
}

// Download returns the object body and its declared content type
func (o *ObjectSource) Download(ctx context.Context, key string) ([]byte, string, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(out.Body, MaxDocumentBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read object %s: %w", key, err)
	}
	if len(data) > MaxDocumentBytes {
		return nil, "", fmt.Errorf("%w: object %s", ErrTooLarge, key)
	}
	return data, aws.ToString(out.ContentType), nil
}

// Extract downloads an object and extracts its text
func (o *ObjectSource) Extract(ctx context.Context, key string) (*Document, error) {
	data, declared, err := o.Download(ctx, key)
	if err != nil {
		return nil, err
	}

	contentType := DetectContentType(declared, path.Base(key), data)
	doc, err := ExtractText(contentType, data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", key, err)
	}
	doc.Metadata.Source = "s3://" + o.bucket + "/" + key

	o.log.Info("extracted document from object storage",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("characters", doc.Metadata.Characters),
	)
	return doc, nil
}
