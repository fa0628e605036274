package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrBucketRequired = errors.New("s3 bucket required")

// S3API is the subset of the S3 client used for uploads.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket string
	Region string
	Prefix string
}

// Uploader puts exported files under a key prefix of one bucket.
type Uploader struct {
	client S3API
	bucket string
	prefix string
}

func NewUploader(client S3API, bucket, prefix string) (*Uploader, error) {
	if bucket == "" {
		return nil, ErrBucketRequired
	}
	return &Uploader{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewS3Uploader builds an uploader backed by the default AWS credential chain.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewUploader(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix)
}

// Key returns the object key name is stored under.
func (u *Uploader) Key(name string) string {
	return path.Join(u.prefix, name)
}

func (u *Uploader) Upload(ctx context.Context, name string, body io.Reader) (string, error) {
	key := u.Key(name)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", u.bucket, key, err)
	}
	return key, nil
}
