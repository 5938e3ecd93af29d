package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Config struct {
	// Endpoint of an S3 compatible service (minio, seaweed, aws)
	// host:port or a full URL; empty means plain AWS
	Endpoint string

	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	// Path-style addressing, usually required by self hosted endpoints
	UsePathStyle bool
}

// Store pushes local files into an S3 bucket and hands back durable URLs
type Store struct {
	api    *s3.Client
	bucket string
	base   string // URL prefix objects are reachable under
}

func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket must not be empty")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("error while loading aws config. Err: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	if endpoint != "" {
		base = fmt.Sprintf("%s/%s", strings.TrimSuffix(endpoint, "/"), cfg.Bucket)
	}

	return &Store{
		api:    api,
		bucket: cfg.Bucket,
		base:   base,
	}, nil
}

// Upload pushes the file at localPath under a date partitioned random key
// and returns the URL the object is reachable under. Any failure is an
// error: there is no nil-result "no file" outcome.
func (s *Store) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", errors.New("local path must not be empty")
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error while opening file. Err: %w", err)
	}
	defer f.Close() // nolint:errcheck

	key := randomKey(filepath.Ext(localPath))

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("error while putting object. Err: %w", err)
	}

	return s.base + "/" + key, nil
}

func randomKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}
