package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Config options for the S3 backend
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional endpoint for S3-compatible services
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string // CDN or website origin the assets are served from
}

// s3API is the part of *s3.Client the backend uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3 struct {
	client  s3API
	bucket  string
	baseURL string
}

// NewS3 builds an S3 client from the default AWS credential chain, or from
// static keys when both are configured.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3WithClient(client, cfg.Bucket, publicBase(cfg)), nil
}

func newS3WithClient(client s3API, bucket, baseURL string) *S3 {
	return &S3{client: client, bucket: bucket, baseURL: baseURL}
}

func publicBase(cfg S3Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "" && cfg.UsePathStyle:
		return fmt.Sprintf("%s/%s", cfg.Endpoint, cfg.Bucket)
	case cfg.Endpoint != "":
		return cfg.Endpoint
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func (b *S3) Upload(ctx context.Context, data []byte, targetID string, opts UploadOptions) (Asset, error) {
	if err := validateUpload(data, targetID, opts); err != nil {
		return Asset{}, err
	}

	key := objectKey(opts.Kind, targetID)
	if !opts.Overwrite {
		exists, err := b.exists(ctx, key)
		if err != nil {
			return Asset{}, uploadFailed(targetID, err)
		}
		if exists {
			return Asset{}, uploadFailed(targetID, fmt.Errorf("%s already exists", key))
		}
	}

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(opts)),
	})
	if err != nil {
		return Asset{}, uploadFailed(targetID, err)
	}

	return Asset{URL: publicURL(b.baseURL, key), AssetID: targetID}, nil
}

func (b *S3) Delete(ctx context.Context, assetID string, kind Kind) error {
	key := objectKey(kind, assetID)

	exists, err := b.exists(ctx, key)
	if err != nil {
		return deleteFailed(assetID, err)
	}
	if !exists {
		return deleteFailed(assetID, ErrAssetNotFound)
	}

	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return deleteFailed(assetID, err)
	}
	return nil
}

func (b *S3) exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check object %s: %w", key, err)
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
