package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"hardcase/coaching-app/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// s3Storage implements the FileStorage interface using an S3-compatible backend.
type s3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	publicBaseURL string
	log           *logrus.Logger
}

// NewS3Client builds a client for AWS or an S3-compatible endpoint (MinIO, Spaces).
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg))
		}
		// path-style addressing is required by most S3-compatible services
		o.UsePathStyle = true
	}), nil
}

func endpointURL(cfg config.S3Config) string {
	if strings.Contains(cfg.Endpoint, "://") {
		return cfg.Endpoint
	}
	if cfg.UseSSL {
		return "https://" + cfg.Endpoint
	}
	return "http://" + cfg.Endpoint
}

// NewS3Storage binds a client to one bucket. With an empty publicBaseURL,
// PublicURL hands out presigned GET URLs.
func NewS3Storage(client *s3.Client, bucket, publicBaseURL string, log *logrus.Logger) FileStorage {
	log.WithField("bucket", bucket).Info("S3 storage initialized")

	return &s3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucketName:    bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

func (s *s3Storage) Bucket() string {
	return s.bucketName
}

func (s *s3Storage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"bucket": s.bucketName, "key": key}).Error("failed to upload object")
		return err
	}
	return nil
}

func (s *s3Storage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})

	objects := []ObjectInfo{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"bucket": s.bucketName, "prefix": prefix}).Error("failed to list objects")
			return nil, err
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

func (s *s3Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	ids := make([]types.ObjectIdentifier, len(keys))
	for i, key := range keys {
		ids[i] = types.ObjectIdentifier{Key: aws.String(key)}
	}

	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucketName),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"bucket": s.bucketName, "keys": len(keys)}).Error("failed to delete objects")
		return err
	}

	s.log.WithFields(logrus.Fields{"bucket": s.bucketName, "keys": len(keys)}).Info("deleted objects")
	return nil
}

func (s *s3Storage) PublicURL(ctx context.Context, key string) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + s.bucketName + "/" + key, nil
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(DefaultPresignedURLExpiry))
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("failed to generate presigned GET URL")
		return "", err
	}
	return req.URL, nil
}
