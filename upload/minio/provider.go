package minio

import (
	"context"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/aquaswift/aquaswift-api/env"
	"github.com/aquaswift/aquaswift-api/upload"
)

const providerName = "minio"

type objectPutter interface {
	PutObject(ctx context.Context, bucketName string, objectName string, reader io.Reader,
		objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Provider implements an upload provider against
// any S3-compatible object store reachable through MinIO's client
type Provider struct {
	client    objectPutter
	bucket    string
	publicURL *url.URL
}

// NewProvider creates a new instance of a Provider,
// parses environment variables and ensures the bucket exists
func NewProvider() (*Provider, error) {
	endpoint, err := env.GetEnv("MinIO endpoint", "MINIO_ENDPOINT")
	if err != nil {
		return nil, err
	}
	accessKey, err := env.GetEnv("MinIO access key", "MINIO_ACCESS_KEY")
	if err != nil {
		return nil, err
	}
	secretKey, err := env.GetEnv("MinIO secret key", "MINIO_SECRET_KEY")
	if err != nil {
		return nil, err
	}
	bucket, err := env.GetEnv("MinIO bucket", "MINIO_BUCKET")
	if err != nil {
		return nil, err
	}
	useSSL, err := env.GetBoolEnv("MinIO SSL flag", "MINIO_USE_SSL", false)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create MinIO client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check MinIO bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "create MinIO bucket")
		}
	}

	publicURL := client.EndpointURL()
	if raw := env.GetEnvOrDefault("MINIO_PUBLIC_URL", ""); raw != "" {
		publicURL, err = url.Parse(raw)
		if err != nil {
			return nil, errors.Wrap(err, "parse MINIO_PUBLIC_URL")
		}
	}

	return newProvider(client, bucket, publicURL), nil
}

func newProvider(client objectPutter, bucket string, publicURL *url.URL) *Provider {
	return &Provider{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
	}
}

// Upload streams the image into the bucket and
// returns its path-style URL
func (p *Provider) Upload(ctx context.Context, image io.Reader, ext string, mime string) (string, error) {
	fileName, err := upload.NewFileName(ext)
	if err != nil {
		return "", err
	}
	log.Ctx(ctx).Debug().Str("file_name", fileName).Str("bucket", p.bucket).Msg("uploading image to MinIO")

	// Unknown size makes the client use a multipart stream
	info, err := p.client.PutObject(ctx, p.bucket, fileName, image, -1, minio.PutObjectOptions{
		ContentType: mime,
	})
	if err != nil {
		return "", upload.NewUpstreamError(providerName, err.Error())
	}

	return p.objectURL(info.Key), nil
}

func (p *Provider) objectURL(key string) string {
	location := *p.publicURL
	location.Path = path.Join("/", location.Path, p.bucket, key)
	return location.String()
}
