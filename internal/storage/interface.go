package storage

import "context"

// Client stores a user-uploaded avatar image and returns its public URL.
type Client interface {
	UploadAvatar(ctx context.Context, userID string, imageData []byte) (string, error)
}
