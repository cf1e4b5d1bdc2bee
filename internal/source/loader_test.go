package source

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/abbrev/internal/errors"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeS3 serves objects from a map keyed by "bucket/key".
type fakeS3 struct {
	objects map[string]string
	err     error
	calls   []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.calls = append(f.calls, key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	ae := errors.As(err)
	require.NotNil(t, ae, "error %v is not structured", err)
	return ae.Code
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "html.yaml", "snippets: {}\n")
	loader := NewLoader(WithLogger(quiet()))

	data, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "snippets: {}\n", string(data))

	data, err = loader.Load(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "snippets: {}\n", string(data))

	_, err = loader.Load(context.Background(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, "E140", codeOf(t, err))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
}

func TestLoadUnsupported(t *testing.T) {
	loader := NewLoader(WithLogger(quiet()))
	for _, uri := range []string{"https://example.com/s.yaml", "s3://bucket-only", "s3:///key"} {
		_, err := loader.Load(context.Background(), uri)
		require.Error(t, err, uri)
		assert.Equal(t, "E141", codeOf(t, err), uri)
	}
}

func TestLoadS3(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"team/snippets/web.yaml": "snippets:\n  x: \"name: y\"\n",
	}}
	loader := NewLoader(WithS3(client), WithLogger(quiet()))

	data, err := loader.Load(context.Background(), "s3://team/snippets/web.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: y")
	assert.Equal(t, []string{"team/snippets/web.yaml"}, client.calls)

	_, err = loader.Load(context.Background(), "s3://team/missing.yaml")
	require.Error(t, err)
	assert.Equal(t, "E140", codeOf(t, err))
}

func TestLoadS3Errors(t *testing.T) {
	_, err := NewLoader(WithLogger(quiet())).Load(context.Background(), "s3://team/web.yaml")
	require.Error(t, err)
	assert.Equal(t, "E144", codeOf(t, err))

	boom := stderrors.New("connection reset")
	loader := NewLoader(WithS3(&fakeS3{err: boom}), WithLogger(quiet()))
	_, err = loader.Load(context.Background(), "s3://team/web.yaml")
	require.Error(t, err)
	assert.Equal(t, "E144", codeOf(t, err))
	assert.ErrorIs(t, err, boom)
}

func TestLoadMaxSize(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.yaml", strings.Repeat("#", 65))
	loader := NewLoader(WithMaxSize(64), WithLogger(quiet()))

	_, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, "E142", codeOf(t, err))

	path = writeFile(t, dir, "fits.yaml", strings.Repeat("#", 64))
	_, err = loader.Load(context.Background(), path)
	assert.NoError(t, err)
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "")

	client := NewS3Client(S3Config{Endpoint: "http://localhost:9000", UsePathStyle: true})
	opts := client.Options()
	assert.Equal(t, "eu-central-1", opts.Region)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))

	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	client = NewS3Client(S3Config{Region: "us-east-1"})
	assert.Equal(t, "us-east-1", client.Options().Region)

	creds, err := client.Options().Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKID", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
}
