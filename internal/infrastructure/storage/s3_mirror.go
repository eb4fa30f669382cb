package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/config"
)

var errS3MirrorDisabled = errors.New("s3 selection mirror is not configured; set S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY to enable")

// S3API is the subset of the S3 client used by the mirror.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Mirror writes selected covers to s3://bucket/prefix destinations.
type S3Mirror struct {
	client   S3API
	log      zerolog.Logger
	disabled bool
}

func NewS3Mirror(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Mirror, error) {
	logger := log.With().Str("component", "s3-mirror").Logger()
	if !cfg.S3Enabled() {
		logger.Debug().Msg("S3 credentials are not set; s3:// selection paths are disabled")
		return &S3Mirror{log: logger, disabled: true}, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})
	return NewS3MirrorWithClient(client, logger), nil
}

// NewS3MirrorWithClient builds a mirror around an existing client.
func NewS3MirrorWithClient(client S3API, log zerolog.Logger) *S3Mirror {
	return &S3Mirror{client: client, log: log}
}

// Put uploads src as <prefix>/<name><ext> and deletes the keys a previous
// copy with another extension would have used.
func (m *S3Mirror) Put(ctx context.Context, destination, name, ext, src string) error {
	if m == nil || m.disabled {
		return errS3MirrorDisabled
	}
	bucket, prefix, err := ParseS3Destination(destination)
	if err != nil {
		return err
	}

	body, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open selected file: %w", err)
	}
	defer body.Close()

	contentType := "application/octet-stream"
	if detected, err := mimetype.DetectFile(src); err == nil {
		contentType = detected.String()
	}

	key := path.Join(prefix, name+ext)
	if _, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	for _, other := range staleExtensions(ext) {
		staleKey := path.Join(prefix, name+other)
		if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(staleKey),
		}); err != nil {
			m.log.Warn().Err(err).Str("key", staleKey).Msg("delete previous selection")
		}
	}

	m.log.Debug().Str("bucket", bucket).Str("key", key).Msg("selected cover mirrored")
	return nil
}

// ParseS3Destination splits s3://bucket/prefix into its parts.
func ParseS3Destination(destination string) (string, string, error) {
	rest := strings.TrimPrefix(destination, s3Scheme)
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid s3 destination %q", destination)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}
