package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/server/models"
)

// S3Config carries the settings for an S3-compatible backend (MinIO in
// development, AWS in production).
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store keeps one JSON object per list under users/<ownerID>/<listID>.json.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,     // MINIO_ROOT_USER
			cfg.RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func storageKey(ownerID, listID string) string {
	return fmt.Sprintf("users/%s/%s.json", ownerID, listID)
}

func isNoSuchKey(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	// HeadObject reports a bare 404 instead of NoSuchKey.
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey")
}

func (s *S3Store) Load(ctx context.Context, ownerID, listID string) (*models.ListContent, error) {
	key := storageKey(ownerID, listID)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get error: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read error: %w", err)
	}

	content := &models.ListContent{}
	if err := json.Unmarshal(data, content); err != nil {
		return nil, fmt.Errorf("content decode error: %w", err)
	}

	return content, nil
}

func (s *S3Store) put(ctx context.Context, key string, content *models.ListContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("content encode error: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put error: %w", err)
	}

	return nil
}

func (s *S3Store) Store(ctx context.Context, ownerID, listID string, content *models.ListContent) error {
	return s.put(ctx, storageKey(ownerID, listID), content)
}

func (s *S3Store) Update(ctx context.Context, ownerID, listID string, content *models.ListContent) error {
	key := storageKey(ownerID, listID)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		if isNoSuchKey(err) {
			return common.ErrNotFound
		}
		return fmt.Errorf("s3 head error: %w", err)
	}

	return s.put(ctx, key, content)
}

func (s *S3Store) Move(ctx context.Context, oldOwnerID, newOwnerID, listID string) error {
	srcKey := storageKey(oldOwnerID, listID)
	dstKey := storageKey(newOwnerID, listID)
	src := fmt.Sprintf("%s/%s", s.bucket, srcKey)

	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     &s.bucket,
		CopySource: &src,
		Key:        &dstKey,
	})
	if err != nil {
		if isNoSuchKey(err) {
			return common.ErrNotFound
		}
		return fmt.Errorf("s3 copy error: %w", err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &srcKey,
	})
	if err != nil {
		return fmt.Errorf("s3 delete error: %w", err)
	}

	return nil
}

func (s *S3Store) Delete(ctx context.Context, ownerID, listID string) error {
	key := storageKey(ownerID, listID)

	// DeleteObject is silent about missing keys; check first so callers get
	// the same not-found signal as with the other backends.
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		if isNoSuchKey(err) {
			return common.ErrNotFound
		}
		return fmt.Errorf("s3 head error: %w", err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("s3 delete error: %w", err)
	}

	return nil
}
