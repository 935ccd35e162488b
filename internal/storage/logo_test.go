package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func testStore(fake *fakeS3, cfg Config) *LogoStore {
	return &LogoStore{
		cfg:    cfg,
		client: fake,
		now:    func() time.Time { return time.UnixMilli(1700000000000) },
	}
}

func TestUploadKeyAndURL(t *testing.T) {
	fake := &fakeS3{}
	s := testStore(fake, Config{
		Bucket:        "logos",
		PublicBaseURL: "https://cdn.example.com/logos",
	})

	url, err := s.Upload(context.Background(), 42, "Logo.PNG", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("puts = %d, want 1", len(fake.inputs))
	}
	in := fake.inputs[0]
	if *in.Bucket != "logos" {
		t.Errorf("bucket = %q", *in.Bucket)
	}
	if *in.Key != "42/1700000000000.png" {
		t.Errorf("key = %q", *in.Key)
	}
	if *in.ContentType != "image/png" {
		t.Errorf("content type = %q", *in.ContentType)
	}
	if url != "https://cdn.example.com/logos/42/1700000000000.png" {
		t.Errorf("url = %q", url)
	}
}

func TestUploadURLFallsBackToEndpoint(t *testing.T) {
	fake := &fakeS3{}
	s := testStore(fake, Config{
		Endpoint: "https://s3.example.com/",
		Bucket:   "logos",
	})

	url, err := s.Upload(context.Background(), 1, "a.jpg", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://s3.example.com/logos/1/") {
		t.Errorf("url = %q", url)
	}
}

func TestUploadRejectsUnknownExtension(t *testing.T) {
	fake := &fakeS3{}
	s := testStore(fake, Config{Bucket: "logos"})

	if _, err := s.Upload(context.Background(), 1, "malware.exe", strings.NewReader("x"), 1); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if len(fake.inputs) != 0 {
		t.Error("nothing should reach storage for a rejected file")
	}
}

func TestNewLogoStoreDisabledWithoutConfig(t *testing.T) {
	if s := NewLogoStore(Config{}); s != nil {
		t.Error("expected nil store when unconfigured")
	}
	if s := NewLogoStore(Config{Bucket: "logos"}); s != nil {
		t.Error("credentials are required")
	}
}

func TestConfigEnabled(t *testing.T) {
	cfg := Config{Bucket: "b", AccessKey: "a", SecretKey: "s"}
	if !cfg.Enabled() {
		t.Error("complete config should be enabled")
	}
}
