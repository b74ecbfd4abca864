package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source yields the raw catalog data to ingest.
type Source interface {
	// Open returns a reader over the source data. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name describes the source for logs and error messages.
	Name() string
}

// FileSource reads the catalog from a local file.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	return f, nil
}

func (s FileSource) Name() string {
	return s.Path
}

// S3Source reads the catalog from an S3 object.
type S3Source struct {
	Client *s3.Client
	Bucket string
	Key    string
}

func (s S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog object: %w", err)
	}
	return out.Body, nil
}

func (s S3Source) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)
}

// ResolveSource builds a Source from a location string: "s3://bucket/key"
// becomes an S3Source (the AWS client is constructed from the default
// credential chain), anything else is treated as a local file path.
func ResolveSource(ctx context.Context, location, awsRegion string) (Source, error) {
	if rest, ok := strings.CutPrefix(location, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return nil, fmt.Errorf("invalid s3 location %q, want s3://bucket/key", location)
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return S3Source{Client: s3.NewFromConfig(cfg), Bucket: bucket, Key: key}, nil
	}
	return FileSource{Path: location}, nil
}
