// Package bucket stores service and payment method images in an S3
// compatible bucket and serves them from the bucket's public URL.
package bucket

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/aminejameli/dropservices-manager/internal/dependency"
)

type Config struct {
	S3AccessKey       string `mapstructure:"s3_access_key"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
	S3Endpoint        string `mapstructure:"s3_endpoint"`
	S3BucketName      string `mapstructure:"s3_bucket_name"`
	S3BucketLocation  string `mapstructure:"s3_bucket_location"`
	BaseFolder        string `mapstructure:"base_folder"`
}

type Bucket struct {
	client *minio.Client
	c      *Config
}

func New(c *Config) (dependency.FileStore, error) {
	cli, err := minio.New(c.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.S3AccessKey, c.S3SecretAccessKey, ""),
		Secure: true,
		Region: c.S3BucketLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Bucket{
		client: cli,
		c:      c,
	}, nil
}

func (b *Bucket) GetBaseFolder() string {
	return b.c.BaseFolder
}

// UploadImageFromBase64 decodes a data URL ("data:image/png;base64,...") and
// uploads the image, returning its public URL.
func (b *Bucket) UploadImageFromBase64(ctx context.Context, rawB64Image, folder, imageName string) (string, error) {
	contentType, data, err := decodeB64Image(rawB64Image)
	if err != nil {
		return "", err
	}
	return b.upload(ctx, data, contentType, folder, imageName)
}

// UploadImageFromURL fetches an image and re-uploads it to the bucket, so
// externally hosted logos survive their origin disappearing.
func (b *Bucket) UploadImageFromURL(ctx context.Context, url, folder, imageName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: url [%s] status [%d]", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return "", fmt.Errorf("read image body: %w", err)
	}
	return b.upload(ctx, body, http.DetectContentType(body), folder, imageName)
}

func (b *Bucket) upload(ctx context.Context, data []byte, contentType, folder, imageName string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}
	fullPath := constructFullPath(b.c.BaseFolder, folder, imageName, fileExtensionFromContentType(contentType))

	_, err := b.client.PutObject(ctx, b.c.S3BucketName, fullPath,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType:  contentType,
			CacheControl: "max-age=31536000",
		})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return b.objectURL(fullPath), nil
}

func (b *Bucket) objectURL(filePath string) string {
	return fmt.Sprintf("https://%s.%s/%s", b.c.S3BucketName, b.c.S3Endpoint, filePath)
}

// decodeB64Image accepts a data URL and returns the content type and raw
// bytes.
func decodeB64Image(raw string) (string, []byte, error) {
	if !strings.HasPrefix(raw, "data:") {
		return "", nil, fmt.Errorf("bad b64 image: missing data prefix")
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return "", nil, fmt.Errorf("bad b64 image: missing payload")
	}
	contentType := strings.TrimSuffix(meta, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode b64 image: %w", err)
	}
	return contentType, data, nil
}
