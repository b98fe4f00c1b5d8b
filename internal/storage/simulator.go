package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Simulator stands in for object storage in local development: nothing is
// uploaded, but the returned URL is deterministic for the same bytes.
type Simulator struct {
	bucket   string
	endpoint string
}

func NewSimulator(bucket, endpoint string) *Simulator {
	return &Simulator{
		bucket:   strings.TrimSpace(bucket),
		endpoint: strings.TrimSpace(endpoint),
	}
}

func (s *Simulator) UploadAvatar(_ context.Context, userID string, imageData []byte) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("empty image data")
	}
	if len(imageData) > maxImageBytes {
		return "", fmt.Errorf("image too large: %d bytes", len(imageData))
	}

	sum := sha256.Sum256(imageData)
	key := hex.EncodeToString(sum[:])

	ep := s.endpoint
	if ep == "" {
		ep = "https://storage.example.invalid"
	}
	bucket := s.bucket
	if bucket == "" {
		bucket = "profile-service"
	}

	return fmt.Sprintf("%s/%s/avatars/%s/%s.png", strings.TrimRight(ep, "/"), bucket, userID, key), nil
}
