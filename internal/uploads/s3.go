package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/spigell/screener/internal/identity"
)

// S3Config describes an S3-compatible endpoint. With AccountID set and no
// Endpoint the Cloudflare R2 endpoint for that account is used.
type S3Config struct {
	Endpoint     string `mapstructure:"endpoint"`
	AccountID    string `mapstructure:"account-id"`
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access-key"`
	SecretKey    string `mapstructure:"secret-key"`
	UsePathStyle bool   `mapstructure:"use-path-style"`
}

func (c S3Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.AccountID != "" {
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
	}
	return ""
}

// S3API is the part of *s3.Client used by the S3 source.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client. Static credentials are used when both keys
// are set; otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := cfg.endpoint()
	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// S3 lists artifacts stored under a bucket prefix.
type S3 struct {
	client S3API
	bucket string
	prefix string
	filter Filter
}

func NewS3(client S3API, bucket, prefix string, filter Filter) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix, filter: filter}
}

// List downloads every matching object sorted by key. Artifact file names are
// the base names of the keys.
func (s *S3) List(ctx context.Context) ([]identity.Artifact, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			if s.filter != nil && !s.filter(path.Base(key)) {
				continue
			}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	artifacts := make([]identity.Artifact, 0, len(keys))
	for _, key := range keys {
		data, err := s.download(ctx, key)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, identity.Artifact{Filename: path.Base(key), Data: data})
	}

	return artifacts, nil
}

func (s *S3) download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	if out.Body == nil {
		return nil, errors.New("get object returned no body")
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %q: %w", key, err)
	}
	return data, nil
}
