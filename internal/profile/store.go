package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"profile-service/internal/db"
	"profile-service/internal/models"
)

var (
	// ErrNotFound means there is no users row for the id; a missing
	// user_profiles row alone is not an error (the join leaves it null).
	ErrNotFound = errors.New("profile not found")

	// ErrNoFields means the update supplied nothing to write.
	ErrNoFields = errors.New("no update fields provided")
)

const viewQuery = `SELECT
	u.id, u.first_name, u.last_name, u.email,
	p.headline, p.bio, p.avatar_url, p.cover_photo_url, p.location,
	p.phone_number, p.website_url, p.linkedin_url, p.github_url
FROM users u
LEFT JOIN user_profiles p ON p.user_id = u.id
WHERE u.id = $1`

// txRunner is the transactional scope the write path runs under. *db.DB is
// the real implementation; tests substitute a fake to observe the
// statement sequence and the commit/rollback outcome.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type Store struct {
	db  *db.DB
	tx  txRunner
	log *slog.Logger
}

func NewStore(log *slog.Logger, dbConn *db.DB) *Store {
	return &Store{db: dbConn, tx: dbConn, log: log}
}

// Get returns the joined users/user_profiles view for one user.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*models.ProfileView, error) {
	var v models.ProfileView
	err := s.db.Pool.QueryRow(ctx, viewQuery, userID).Scan(
		&v.ID, &v.FirstName, &v.LastName, &v.Email,
		&v.Headline, &v.Bio, &v.AvatarURL, &v.CoverPhotoURL, &v.Location,
		&v.PhoneNumber, &v.WebsiteURL, &v.LinkedinURL, &v.GithubURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Apply writes a partial update atomically: the users UPDATE (when a core
// field is present) and the user_profiles upsert (when a profile field is
// present) run in one transaction, so either both land or neither does.
func (s *Store) Apply(ctx context.Context, userID uuid.UUID, u *Update) error {
	if u.IsEmpty() {
		return ErrNoFields
	}

	return s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		if query, args, ok := BuildCoreUpdate(userID, u); ok {
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				s.log.Error("core_update_failed", "user_id", userID, "error", err)
				return err
			}
		}

		if parts, ok := BuildProfileUpsert(userID, u); ok {
			if _, err := tx.Exec(ctx, parts.SQL(), parts.Values...); err != nil {
				s.log.Error("profile_upsert_failed", "user_id", userID, "error", err)
				return err
			}
		}

		return nil
	})
}
