// Package keys resolves the HMAC signing key used for access tokens.
//
// The key is loaded once at startup from, in order of preference:
//   - SecretKeyURI with a file:// scheme (e.g. a mounted secret),
//   - SecretKeyURI with an s3:// scheme (bucket object, MinIO compatible),
//   - the literal SecretKey.
package keys

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/authgate/internal/filex"
	sc "github.com/dmitrijs2005/authgate/internal/server/config"
)

// ErrEmptyKey is returned when the resolved key has no content.
var ErrEmptyKey = errors.New("signing key is empty")

// maxObjectSize bounds the S3 object read.
const maxObjectSize = filex.MaxSecretFileSize

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	newObjectGetter      = func(cfg aws.Config, optFns ...func(*s3.Options)) objectGetter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Load returns the signing key described by cfg.
func Load(ctx context.Context, cfg *sc.Config) ([]byte, error) {
	var (
		key []byte
		err error
	)

	if cfg.SecretKeyURI != "" {
		key, err = loadURI(ctx, cfg, cfg.SecretKeyURI)
		if err != nil {
			return nil, err
		}
	} else {
		key = []byte(cfg.SecretKey)
	}

	if len(bytes.TrimSpace(key)) == 0 {
		return nil, ErrEmptyKey
	}

	return key, nil
}

func loadURI(ctx context.Context, cfg *sc.Config, raw string) ([]byte, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse key uri: %w", err)
	}

	switch u.Scheme {
	case "file":
		path := u.Path
		if u.Host != "" {
			// file://relative/path
			path = u.Host + u.Path
		}
		if path == "" {
			return nil, fmt.Errorf("key uri %q has no path", raw)
		}
		return filex.ReadTrimmed(path)
	case "s3":
		bucket := u.Host
		key := strings.TrimPrefix(u.Path, "/")
		if bucket == "" || key == "" {
			return nil, fmt.Errorf("key uri %q must be s3://bucket/key", raw)
		}
		return loadS3(ctx, cfg, bucket, key)
	default:
		return nil, fmt.Errorf("unsupported key uri scheme %q", u.Scheme)
	}
}

func loadS3(ctx context.Context, cfg *sc.Config, bucket, key string) ([]byte, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3RootUser != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3RootUser, cfg.S3RootPassword, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newObjectGetter(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			// MinIO serves buckets on the path, not as subdomains
			o.UsePathStyle = true
		}
	})

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	if len(data) > maxObjectSize {
		return nil, fmt.Errorf("s3://%s/%s: object is too large", bucket, key)
	}

	return bytes.TrimSpace(data), nil
}
