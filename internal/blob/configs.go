package blob

import (
	"fmt"
	"os"
)

// Config defines the connection settings for the material object store.
type Config struct {
	Endpoint        string // MinIO server endpoint, e.g. "localhost:9000"
	AccessKeyID     string // MinIO access key
	SecretAccessKey string // MinIO secret key
	UseSSL          bool   // Use SSL (true for "https", false for "http")
	BucketName      string // Bucket holding uploaded materials
	Region          string // Region for the bucket (e.g. "us-east-1")
}

// NewConfig reads from environment variables.
//
//	MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_USE_SSL,
//	MINIO_BUCKET, MINIO_REGION
func NewConfig() Config {
	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "materials"
	}

	return Config{
		Endpoint:        os.Getenv("MINIO_ENDPOINT"),
		AccessKeyID:     os.Getenv("MINIO_ACCESS_KEY"),
		SecretAccessKey: os.Getenv("MINIO_SECRET_KEY"),
		UseSSL:          os.Getenv("MINIO_USE_SSL") == "true",
		BucketName:      bucket,
		Region:          os.Getenv("MINIO_REGION"),
	}
}

// Validate ensures the required connection fields are present.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("blob: missing MINIO_ENDPOINT")
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return fmt.Errorf("blob: missing MinIO credentials")
	}
	if c.BucketName == "" {
		return fmt.Errorf("blob: missing MINIO_BUCKET")
	}
	return nil
}
