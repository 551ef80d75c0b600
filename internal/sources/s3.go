package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/wot-oss/resx/internal/utils"
)

// S3Options configures access to S3. Empty fields fall back to the default AWS configuration of the environment.
type S3Options struct {
	Region          string
	Endpoint        string
	AccessKeyId     string
	SecretAccessKey string
}

//go:generate mockery --name S3Client --outpkg s3mocks --output ../testutils/s3mocks
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads objects of a bucket. Names are resolved against a key prefix.
type S3Source struct {
	bucket string
	prefix string
	client S3Client
}

func NewS3Source(ctx context.Context, bucket, prefix string, opts S3Options) (*S3Source, error) {
	optFns := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		optFns = append(optFns, config.WithRegion(opts.Region))
	}
	if (opts.AccessKeyId == "") != (opts.SecretAccessKey == "") {
		return nil, fmt.Errorf("%w: access key id and secret access key must be set both when setting credentials explicitly", ErrInvalidLoc)
	}
	if opts.AccessKeyId != "" {
		optFns = append(optFns, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKeyId, opts.SecretAccessKey, "")))
	}

	configS3, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("error loading S3 configuration: %w", err)
	}
	if opts.Endpoint != "" {
		configS3.BaseEndpoint = aws.String(opts.Endpoint)
	}

	c := s3.NewFromConfig(configS3, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return NewS3SourceWithClient(c, bucket, prefix), nil
}

func NewS3SourceWithClient(client S3Client, bucket, prefix string) *S3Source {
	prefix = strings.Trim(prefix, "/")
	if prefix == "." {
		prefix = ""
	}
	return &S3Source{bucket: bucket, prefix: prefix, client: client}
}

func (s *S3Source) Root() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

func (s *S3Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := path.Clean(slashPath(name))
	if !strings.HasPrefix(key, "/") && s.prefix != "" {
		key = path.Join(s.prefix, key)
	}
	key = strings.TrimPrefix(key, "/")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		utils.GetLogger(ctx, "S3Source").Warn("failed to read object from S3", "object", key, "bucket", s.bucket, "error", err.Error())

		var noKey *types.NoSuchKey
		var oe *smithy.OperationError

		switch true {
		case errors.As(err, &noKey):
			return nil, fmt.Errorf("%w, object: %s error: %s", ErrNotFound, key, err.Error())
		case errors.As(err, &oe):
			return nil, fmt.Errorf("%w, object: %s error: %s", ErrSourceOp, key, err.Error())
		default:
			return nil, fmt.Errorf("%w, object: %s error: %s", ErrSourceUnknown, key, err.Error())
		}
	}
	return result.Body, nil
}
