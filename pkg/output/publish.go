package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// DefaultUploadTimeout bounds a single upload
const DefaultUploadTimeout = 30 * time.Second

// Publisher stores rendered images somewhere outside the process
type Publisher interface {
	// Publish stores data under key and returns its location
	Publish(ctx context.Context, key string, data []byte) (string, error)
}

// S3Config holds the connection settings of an S3-compatible bucket
type S3Config struct {
	AccessKey     string
	SecretKey     string
	Endpoint      string
	Region        string
	Bucket        string
	UploadTimeout time.Duration
}

// S3ConfigFromEnv reads S3_ACCESS_KEY, S3_SECRET_KEY, S3_ENDPOINT, S3_REGION
// and S3_BUCKET
func S3ConfigFromEnv() S3Config {
	return S3Config{
		AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		SecretKey:     os.Getenv("S3_SECRET_KEY"),
		Endpoint:      os.Getenv("S3_ENDPOINT"),
		Region:        os.Getenv("S3_REGION"),
		Bucket:        os.Getenv("S3_BUCKET"),
		UploadTimeout: DefaultUploadTimeout,
	}
}

// Validate reports the first missing required setting
func (c S3Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("S3 bucket is not configured")
	}
	if c.Region == "" {
		return fmt.Errorf("S3 region is not configured")
	}
	return nil
}

// S3Publisher uploads PNGs to an S3-compatible bucket with public-read access
type S3Publisher struct {
	config S3Config
	client s3iface.S3API
}

// NewS3Publisher creates a publisher backed by a new S3 session
func NewS3Publisher(config S3Config) (*S3Publisher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return newS3PublisherWithClient(config, s3.New(sess)), nil
}

func newS3PublisherWithClient(config S3Config, client s3iface.S3API) *S3Publisher {
	if config.UploadTimeout <= 0 {
		config.UploadTimeout = DefaultUploadTimeout
	}
	return &S3Publisher{config: config, client: client}
}

// Publish uploads data as image/png and returns its path-style URL
func (p *S3Publisher) Publish(ctx context.Context, key string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("Uploaded %s to S3 (%d bytes)", key, size)
	return p.location(key), nil
}

func (p *S3Publisher) location(key string) string {
	if p.config.Endpoint == "" {
		return fmt.Sprintf("s3://%s/%s", p.config.Bucket, key)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(p.config.Endpoint, "/"), p.config.Bucket, key)
}

// PublishPNG encodes img and publishes it under key
func PublishPNG(ctx context.Context, publisher Publisher, key string, img image.Image) (string, error) {
	data, err := PNGBytes(img)
	if err != nil {
		return "", err
	}
	return publisher.Publish(ctx, key, data)
}
