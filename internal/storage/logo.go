// Package storage uploads restaurant logos to S3-compatible object storage
// and hands back public URLs. Persistence of the URL itself stays with the
// data gateway.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// PublicBaseURL is the prefix public object URLs are built from. When
	// empty, the endpoint + bucket is used.
	PublicBaseURL string
}

// Enabled reports whether the configuration is complete enough to upload.
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// LogoStore uploads logo files.
type LogoStore struct {
	cfg    Config
	client s3Client
	now    func() time.Time
}

// NewLogoStore creates a logo store, or nil when storage is not configured
// (logo upload is then unavailable, everything else works).
func NewLogoStore(cfg Config) *LogoStore {
	if !cfg.Enabled() {
		return nil
	}
	return &LogoStore{cfg: cfg, client: newS3Client(cfg), now: time.Now}
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// Upload stores the file under <restaurant_id>/<unix-ms>.<ext> and returns
// its public URL. The same logical upload submitted twice stores two
// objects; there is no idempotency key.
func (s *LogoStore) Upload(ctx context.Context, restaurantID int64, filename string, body io.Reader, size int64) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := contentTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported logo type %q", ext)
	}

	key := fmt.Sprintf("%d/%d%s", restaurantID, s.now().UnixMilli(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}

	return s.publicURL(key), nil
}

func (s *LogoStore) publicURL(key string) string {
	base := s.cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimSuffix(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}
