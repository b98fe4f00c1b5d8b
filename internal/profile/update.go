package profile

// Update is a request-scoped partial update. A nil field was absent from the
// request and is never touched; an explicit empty string clears the column to
// NULL. Consumed once by the statement builders, then discarded.
type Update struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Headline      *string `json:"headline"`
	Bio           *string `json:"bio"`
	AvatarURL     *string `json:"avatarUrl"`
	CoverPhotoURL *string `json:"coverPhotoUrl"`
	Location      *string `json:"location"`
	PhoneNumber   *string `json:"phoneNumber"`
	WebsiteURL    *string `json:"websiteUrl"`
	LinkedinURL   *string `json:"linkedinUrl"`
	GithubURL     *string `json:"githubUrl"`
}

type field struct {
	column string
	value  *string
}

// coreFields belong to the users row; everything else lives in user_profiles.
func (u *Update) coreFields() []field {
	return []field{
		{"first_name", u.FirstName},
		{"last_name", u.LastName},
	}
}

// profileFields returns the nine optional profile attributes in canonical
// order. Statement assembly, parameter numbering and tests all depend on this
// order staying fixed.
func (u *Update) profileFields() []field {
	return []field{
		{"headline", u.Headline},
		{"bio", u.Bio},
		{"avatar_url", u.AvatarURL},
		{"cover_photo_url", u.CoverPhotoURL},
		{"location", u.Location},
		{"phone_number", u.PhoneNumber},
		{"website_url", u.WebsiteURL},
		{"linkedin_url", u.LinkedinURL},
		{"github_url", u.GithubURL},
	}
}

// HasCoreFields reports whether at least one users column was supplied.
func (u *Update) HasCoreFields() bool {
	for _, f := range u.coreFields() {
		if f.value != nil {
			return true
		}
	}
	return false
}

// HasProfileFields reports whether at least one user_profiles column was supplied.
func (u *Update) HasProfileFields() bool {
	for _, f := range u.profileFields() {
		if f.value != nil {
			return true
		}
	}
	return false
}

// IsEmpty is true when the request supplied no recognized field at all.
// Such updates are rejected before any statement is built.
func (u *Update) IsEmpty() bool {
	return !u.HasCoreFields() && !u.HasProfileFields()
}

// nullable normalizes an explicitly supplied empty string to SQL NULL.
func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
