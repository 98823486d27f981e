package keys

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func stubS3(t *testing.T, getter *fakeGetter) *s3.Options {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNew := newObjectGetter
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newObjectGetter = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	captured := &s3.Options{}
	newObjectGetter = func(cfg aws.Config, optFns ...func(*s3.Options)) objectGetter {
		for _, fn := range optFns {
			fn(captured)
		}
		return getter
	}

	return captured
}

func TestLoad_LiteralSecret(t *testing.T) {
	key, err := Load(context.Background(), &sc.Config{SecretKey: "literal"})
	require.NoError(t, err)
	assert.Equal(t, []byte("literal"), key)
}

func TestLoad_EmptySecret(t *testing.T) {
	_, err := Load(context.Background(), &sc.Config{SecretKey: "  "})
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

	key, err := Load(context.Background(), &sc.Config{SecretKey: "ignored", SecretKeyURI: "file://" + path})
	require.NoError(t, err)
	assert.Equal(t, []byte("from-file"), key)
}

func TestLoad_FileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	_, err := Load(context.Background(), &sc.Config{SecretKeyURI: "file://" + path})
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(context.Background(), &sc.Config{SecretKeyURI: "file://" + filepath.Join(t.TempDir(), "nope")})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_S3(t *testing.T) {
	getter := &fakeGetter{body: "from-s3\n"}
	opts := stubS3(t, getter)

	cfg := &sc.Config{
		SecretKeyURI:   "s3://secrets/auth/jwt",
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
	}

	key, err := Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []byte("from-s3"), key)
	assert.Equal(t, "secrets", getter.bucket)
	assert.Equal(t, "auth/jwt", getter.key)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestLoad_S3GetError(t *testing.T) {
	stubS3(t, &fakeGetter{err: errors.New("access denied")})

	cfg := &sc.Config{SecretKeyURI: "s3://secrets/jwt", S3Region: "us-east-1", S3RootUser: "u", S3RootPassword: "p"}

	_, err := Load(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://secrets/jwt")
}

func TestLoad_S3TooLarge(t *testing.T) {
	stubS3(t, &fakeGetter{body: strings.Repeat("x", maxObjectSize+1)})

	cfg := &sc.Config{SecretKeyURI: "s3://secrets/jwt", S3Region: "us-east-1", S3RootUser: "u", S3RootPassword: "p"}

	_, err := Load(context.Background(), cfg)
	require.Error(t, err)
}

func TestLoad_BadURIs(t *testing.T) {
	for _, uri := range []string{"s3://bucket-only", "s3:///key", "http://example.com/jwt", "file://", "::bad"} {
		t.Run(uri, func(t *testing.T) {
			_, err := Load(context.Background(), &sc.Config{SecretKeyURI: uri})
			require.Error(t, err)
		})
	}
}
