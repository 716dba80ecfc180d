package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"
)

//go:embed products.json
var embeddedProducts []byte

// Source supplies the product list once at startup.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
}

// Load reads src and builds the catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	products, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(products)
}

// EmbeddedSource serves the built-in demo catalog.
type EmbeddedSource struct{}

func (EmbeddedSource) Load(ctx context.Context) ([]Product, error) {
	return decode("products.json", embeddedProducts)
}

// FileSource reads a JSON or YAML catalog from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) ([]Product, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return decode(s.Path, data)
}

// S3API is the subset of *s3.Client used by S3Source.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config locates a catalog object in S3 or an S3-compatible store (MinIO).
type S3Config struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string
	PathStyle bool
}

type S3Source struct {
	client S3API
	bucket string
	key    string
}

func NewS3Source(client S3API, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// OpenS3Source builds an S3 client from the default AWS credential chain.
func OpenS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 catalog requires bucket and key")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3Source(client, cfg.Bucket, cfg.Key), nil
}

func (s *S3Source) Load(ctx context.Context) ([]Product, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return decode(s.key, data)
}

// decode picks the format from the file extension; anything that is not
// .yaml/.yml is treated as JSON.
func decode(name string, data []byte) ([]Product, error) {
	var products []Product
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &products); err != nil {
			return nil, fmt.Errorf("parse yaml catalog %s: %w", name, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&products); err != nil {
			return nil, fmt.Errorf("parse json catalog %s: %w", name, err)
		}
	}
	return products, nil
}
