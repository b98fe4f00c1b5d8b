package models

import (
	"time"

	"github.com/google/uuid"
)

// UserCore is the pre-existing account row; owned elsewhere, but first/last
// name are updated here inside the same transaction as the profile.
type UserCore struct {
	ID        uuid.UUID `json:"id"`
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the per-user profile row, at most one per user id.
type Profile struct {
	UserID        uuid.UUID  `json:"userId"`
	Headline      *string    `json:"headline"`
	Bio           *string    `json:"bio"`
	AvatarURL     *string    `json:"avatarUrl"`
	CoverPhotoURL *string    `json:"coverPhotoUrl"`
	Location      *string    `json:"location"`
	PhoneNumber   *string    `json:"phoneNumber"`
	WebsiteURL    *string    `json:"websiteUrl"`
	LinkedinURL   *string    `json:"linkedinUrl"`
	GithubURL     *string    `json:"githubUrl"`
	UpdatedAt     *time.Time `json:"-"`
}

// ProfileView is the joined read model returned by GET /profile. Profile
// fields stay null when the user has no user_profiles row yet.
type ProfileView struct {
	ID            uuid.UUID `json:"id"`
	FirstName     *string   `json:"firstName"`
	LastName      *string   `json:"lastName"`
	Email         string    `json:"email"`
	Headline      *string   `json:"headline"`
	Bio           *string   `json:"bio"`
	AvatarURL     *string   `json:"avatarUrl"`
	CoverPhotoURL *string   `json:"coverPhotoUrl"`
	Location      *string   `json:"location"`
	PhoneNumber   *string   `json:"phoneNumber"`
	WebsiteURL    *string   `json:"websiteUrl"`
	LinkedinURL   *string   `json:"linkedinUrl"`
	GithubURL     *string   `json:"githubUrl"`
}
