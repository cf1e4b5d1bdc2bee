package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/abbrev/internal/errors"
)

// DefaultMaxSize caps the size of a single snippets file.
const DefaultMaxSize = 8 << 20

// ObjectGetter is the subset of the S3 client used to fetch snippets.
// *s3.Client satisfies it.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithS3 sets the client used for s3:// sources.
func WithS3(client ObjectGetter) Option {
	return func(l *Loader) {
		l.s3 = client
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithMaxSize sets the largest accepted source in bytes.
func WithMaxSize(n int64) Option {
	return func(l *Loader) {
		l.maxSize = n
	}
}

// Loader reads snippet sources from the file system and S3.
type Loader struct {
	s3      ObjectGetter
	logger  *slog.Logger
	maxSize int64
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load returns the raw contents of the source named by uri: a file path,
// a file:// URL or an s3://bucket/key URI.
func (l *Loader) Load(ctx context.Context, uri string) ([]byte, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return l.loadFile(uri)
	}

	switch scheme {
	case "file":
		u, err := url.Parse(uri)
		if err != nil {
			return nil, errors.New("E141").WithDetail("Invalid file URL " + uri).Wrap(err)
		}
		return l.loadFile(u.Path)
	case "s3":
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return nil, errors.New("E141").
				WithDetail(fmt.Sprintf("S3 source %q needs a bucket and a key", uri)).
				WithExample("s3://my-bucket/snippets/html.yaml")
		}
		return l.loadObject(ctx, bucket, key)
	default:
		return nil, errors.New("E141").
			WithDetail(fmt.Sprintf("Unknown scheme %q in %q", scheme, uri))
	}
}

func (l *Loader) loadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("E140").
				WithDetail("No snippets file at " + path).
				Wrap(err)
		}
		return nil, errors.New("E140").Wrap(err)
	}
	defer f.Close()

	data, err := l.readAll(f, path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("snippets file read", "path", path, "bytes", len(data))
	return data, nil
}

func (l *Loader) loadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if l.s3 == nil {
		return nil, errors.New("E144").
			WithDetail("No S3 client is configured").
			WithSuggestion("Set s3.region in abbrev.json or AWS_REGION in the environment")
	}

	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if stderrors.As(err, &noKey) || stderrors.As(err, &noBucket) {
			return nil, errors.New("E140").
				WithDetail(fmt.Sprintf("No object s3://%s/%s", bucket, key)).
				Wrap(err)
		}
		return nil, errors.New("E144").Wrap(err)
	}
	defer out.Body.Close()

	data, err := l.readAll(out.Body, "s3://"+bucket+"/"+key)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("snippets object fetched", "bucket", bucket, "key", key, "bytes", len(data))
	return data, nil
}

func (l *Loader) readAll(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	if int64(len(data)) > l.maxSize {
		return nil, errors.New("E142").
			WithDetail(fmt.Sprintf("%s is larger than %d bytes", name, l.maxSize))
	}
	return data, nil
}
