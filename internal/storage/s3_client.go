package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
)

const maxImageBytes = 5 * 1024 * 1024

type S3Client struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	PublicURL string
}

func NewS3Client(cfg S3Config) (*S3Client, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	// Custom endpoint for R2-compatible storage
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Client{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
	}, nil
}

func (s *S3Client) UploadAvatar(ctx context.Context, userID string, imageData []byte) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("empty image data")
	}
	if len(imageData) > maxImageBytes {
		return "", fmt.Errorf("image too large: %d bytes", len(imageData))
	}

	// Resize image to max 512x512
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	img = imaging.Fit(img, 512, 512, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	imageData = buf.Bytes()

	// content hash keys the object; re-uploading identical bytes overwrites in place
	hash := sha256.Sum256(imageData)
	hashHex := hex.EncodeToString(hash[:])
	objectKey := fmt.Sprintf("avatars/%s/%s.png", userID, hashHex)

	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = s.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String("image/png"),
		Metadata: map[string]string{
			"user_id":    userID,
			"image_hash": hashHex,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", s.publicURL, objectKey), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, objectKey), nil
}
