package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"profile-service/internal/profile"
)

// FieldError is one per-field validation failure, surfaced verbatim in the
// 400 response details.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9 ().-]{6,24}$`)

// ValidateProfileUpdate checks the supplied fields of a partial update.
// Absent fields are skipped and an explicit empty string is always legal
// (it clears the column), so every rule below applies to non-empty values only.
func ValidateProfileUpdate(u *profile.Update) ValidationErrors {
	var errs ValidationErrors

	checkLen(&errs, "firstName", u.FirstName, 100)
	checkLen(&errs, "lastName", u.LastName, 100)
	checkLen(&errs, "headline", u.Headline, 200)
	checkLen(&errs, "bio", u.Bio, 2000)
	checkLen(&errs, "location", u.Location, 200)

	if present(u.PhoneNumber) && !phoneRegex.MatchString(strings.TrimSpace(*u.PhoneNumber)) {
		errs.Add("phoneNumber", "Phone number format is invalid")
	}

	checkURL(&errs, "avatarUrl", u.AvatarURL, "")
	checkURL(&errs, "coverPhotoUrl", u.CoverPhotoURL, "")
	checkURL(&errs, "websiteUrl", u.WebsiteURL, "")
	checkURL(&errs, "linkedinUrl", u.LinkedinURL, "linkedin.com")
	checkURL(&errs, "githubUrl", u.GithubURL, "github.com")

	return errs
}

func present(s *string) bool {
	return s != nil && *s != ""
}

func checkLen(errs *ValidationErrors, field string, s *string, max int) {
	if present(s) && len(*s) > max {
		errs.Add(field, fmt.Sprintf("Must be at most %d characters", max))
	}
}

func checkURL(errs *ValidationErrors, field string, s *string, host string) {
	if !present(s) {
		return
	}
	if len(*s) > 500 {
		errs.Add(field, "Must be at most 500 characters")
		return
	}
	parsed, err := url.ParseRequestURI(*s)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs.Add(field, "Must be an absolute http(s) URL")
		return
	}
	if host != "" {
		h := strings.ToLower(parsed.Host)
		if h != host && !strings.HasSuffix(h, "."+host) {
			errs.Add(field, fmt.Sprintf("Must be a %s URL", host))
		}
	}
}
