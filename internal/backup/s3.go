package backup

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"mica-backend/internal/config"
	"mica-backend/internal/timeutil"
)

// Uploader pushes export snapshots to S3-compatible storage (R2 or
// anything speaking the S3 API) for off-site recovery.
type Uploader struct {
	cfg *config.Config
}

func NewUploader(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Enabled reports whether backup credentials are configured.
func (u *Uploader) Enabled() bool {
	b := u.cfg.Backup
	return b.Endpoint != "" && b.Bucket != "" && b.AccessKey != "" && b.SecretKey != ""
}

// UploadSnapshot stores a timestamped object under snapshots/ and returns
// the object key.
func (u *Uploader) UploadSnapshot(ctx context.Context, name string, data []byte) (string, error) {
	if !u.Enabled() {
		return "", fmt.Errorf("backup storage is not configured")
	}

	b := u.cfg.Backup
	region := b.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			b.AccessKey, b.SecretKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return "", fmt.Errorf("failed to configure S3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(b.Endpoint)
	})

	key := fmt.Sprintf("snapshots/%s_%s", timeutil.Now().Format("20060102_150405"), name)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return key, nil
}
