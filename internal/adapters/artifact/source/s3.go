package source

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// downloadPartSize keeps small manifests to one ranged GET while still
// splitting large ONNX graphs.
const downloadPartSize = 8 * 1024 * 1024

// S3Config holds the connection settings for S3 or an S3-compatible store.
type S3Config struct {
	// Region, e.g. "us-east-1".
	Region string
	// Endpoint overrides the AWS endpoint, e.g. "http://127.0.0.1:9000" for minio.
	Endpoint string
	// AccessKey and SecretKey enable static credentials. When empty the SDK
	// default chain applies: env, shared config and files, then IAM roles.
	AccessKey string
	SecretKey string
}

type downloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error)
}

// S3 reads s3://bucket/key objects.
type S3 struct {
	downloader  downloader
	credentials aws.CredentialsProvider
}

// NewS3 loads the SDK configuration and builds a client from it. Credentials
// are resolved lazily, so no request is made until Read.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: aws config: %w", ErrRead, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{
		downloader: manager.NewDownloader(client, func(d *manager.Downloader) {
			d.PartSize = downloadPartSize
		}),
		credentials: awsCfg.Credentials,
	}, nil
}

// Read implements Reader.
func (s *S3) Read(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := SplitS3(uri)
	if err != nil {
		return nil, err
	}
	buf := manager.NewWriteAtBuffer([]byte{})
	if _, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, uri, err)
	}
	return buf.Bytes(), nil
}
