package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Uploader struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

type UploaderConfig struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// BaseURL overrides the default public URL prefix (CDN front, etc).
	BaseURL string
}

func NewUploader(cfg UploaderConfig) *Uploader {
	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	})

	return &Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: cfg.BaseURL,
	}
}

func (u *Uploader) Enabled() bool {
	return u.bucket != ""
}

// Put stores the object and returns its public URL.
func (u *Uploader) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	if u.baseURL != "" {
		return fmt.Sprintf("%s/%s", u.baseURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}
