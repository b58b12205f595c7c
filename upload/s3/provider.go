package s3

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/rs/zerolog/log"

	"github.com/aquaswift/aquaswift-api/env"
	"github.com/aquaswift/aquaswift-api/upload"
)

const providerName = "s3"

// Provider implements an upload provider against the S3 API
type Provider struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
}

// NewProvider creates a new instance of a Provider
// and parses environment variables
func NewProvider() (*Provider, error) {
	// Parse the S3 credentials from the environment
	awsRegion, err := env.GetEnv("upload AWS region", "UPLOAD_AWS_REGION")
	if err != nil {
		return nil, err
	}
	awsAccessKeyID, err := env.GetEnv("upload AWS access key ID", "UPLOAD_AWS_ACCESS_KEY_ID")
	if err != nil {
		return nil, err
	}
	awsSecretAccessKey, err := env.GetEnv("upload AWS secret access key", "UPLOAD_AWS_SECRET_ACCESS_KEY")
	if err != nil {
		return nil, err
	}

	// Initialize the session
	session, err := session.NewSession(&aws.Config{
		Region:      &awsRegion,
		Credentials: credentials.NewStaticCredentials(awsAccessKeyID, awsSecretAccessKey, ""),
	})
	if err != nil {
		return nil, err
	}

	uploadPartSize, err := env.GetBytesEnvOrDefault("upload part size", "UPLOAD_PART_SIZE", "5MB")
	if err != nil {
		return nil, err
	}

	uploader := s3manager.NewUploader(session, func(u *s3manager.Uploader) {
		u.PartSize = int64(uploadPartSize.Bytes())
		u.LeavePartsOnError = false
	})

	s3Bucket, err := env.GetEnv("upload S3 bucket", "UPLOAD_S3_BUCKET")
	if err != nil {
		return nil, err
	}

	return NewProviderWithUploader(uploader, s3Bucket), nil
}

// NewProviderWithUploader creates a Provider around an existing uploader
func NewProviderWithUploader(uploader s3manageriface.UploaderAPI, bucket string) *Provider {
	return &Provider{
		uploader: uploader,
		bucket:   bucket,
	}
}

// Upload uploads an image to S3,
// returning the URL of the file once uploaded
func (p *Provider) Upload(ctx context.Context, image io.Reader, ext string, mime string) (string, error) {
	fileName, err := upload.NewFileName(ext)
	if err != nil {
		return "", err
	}
	log.Ctx(ctx).Debug().Str("file_name", fileName).Str("bucket", p.bucket).Msg("uploading image to S3")

	input := &s3manager.UploadInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(fileName),
		Body:   image,
	}
	if mime != "" {
		input.ContentType = aws.String(mime)
	}

	result, err := p.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return "", upload.NewUpstreamError(providerName, err.Error())
	}

	// Return the URL of the object once uploaded
	return result.Location, nil
}
