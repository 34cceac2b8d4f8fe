package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-openapi/strfmt"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// Validation limits.
const (
	// MinPasswordLength is the minimum password length at registration.
	MinPasswordLength = 6

	// MaxPasswordLength bounds hashing cost for hostile input.
	MaxPasswordLength = 256

	// MaxEmailLength is the maximum length for an email address.
	MaxEmailLength = 254

	// MaxNameLength applies to first and last names.
	MaxNameLength = 100

	// MaxFieldLength applies to short optional profile fields.
	MaxFieldLength = 200

	// MaxBioLength is the maximum length for a bio.
	MaxBioLength = 2000

	// MaxURLLength is the maximum length for website, linkedin and avatar.
	MaxURLLength = 2048

	// MaxIndustries is the maximum number of industry tags.
	MaxIndustries = 20

	// MaxMessageLength is the maximum length of a direct message.
	MaxMessageLength = 5000

	// MaxRequestNoteLength is the maximum length of a collaboration note.
	MaxRequestNoteLength = 1000
)

// ValidationError reports a single invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks an already normalized address.
func ValidateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	if len(email) > MaxEmailLength {
		return invalid("email", "must be at most %d characters", MaxEmailLength)
	}
	if !strfmt.IsEmail(email) {
		return invalid("email", "is not a valid email address")
	}
	return nil
}

// ValidatePassword enforces the registration password policy.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return invalid("password", "must be at least %d characters", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return invalid("password", "must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

// ValidateRole parses a role name.
func ValidateRole(role string) (model.Role, error) {
	r := model.Role(role)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

func validateName(field, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return invalid(field, "is required")
	}
	if utf8.RuneCountInString(v) > MaxNameLength {
		return invalid(field, "must be at most %d characters", MaxNameLength)
	}
	return nil
}

func validateLength(field string, v *string, max int) error {
	if v != nil && utf8.RuneCountInString(*v) > max {
		return invalid(field, "must be at most %d characters", max)
	}
	return nil
}

// linkedInHandle matches a bare profile handle such as "michael-rodriguez-vc".
var linkedInHandle = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,99}$`)

// validateURL accepts nil and "" (clear); anything else must be http(s)
// with a public host.
func validateURL(field string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	return checkURL(field, *v)
}

// validateWebsite also accepts a host without a scheme, such as
// "www.example.com", which is checked as https.
func validateWebsite(field string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	raw := *v
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return checkURL(field, raw)
}

// validateLinkedIn accepts a bare handle or a website.
func validateLinkedIn(field string, v *string) error {
	if v != nil && linkedInHandle.MatchString(*v) {
		return nil
	}
	return validateWebsite(field, v)
}

func checkURL(field, raw string) error {
	if len(raw) > MaxURLLength {
		return invalid(field, "must be at most %d characters", MaxURLLength)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return invalid(field, "is not a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return invalid(field, "must use http or https")
	}
	if parsed.Hostname() == "" {
		return invalid(field, "must include a host")
	}
	if isInternalHost(parsed.Hostname()) {
		return invalid(field, "must point to a public host")
	}
	return nil
}

// ValidateProfile checks every field set in upd.
func ValidateProfile(upd model.UserUpdate) error {
	if upd.FirstName != nil {
		if err := validateName("firstName", *upd.FirstName); err != nil {
			return err
		}
	}
	if upd.LastName != nil {
		if err := validateName("lastName", *upd.LastName); err != nil {
			return err
		}
	}

	for _, f := range []struct {
		name string
		v    *string
		max  int
	}{
		{"bio", upd.Bio, MaxBioLength},
		{"company", upd.Company, MaxFieldLength},
		{"title", upd.Title, MaxFieldLength},
		{"location", upd.Location, MaxFieldLength},
		{"investmentRange", upd.InvestmentRange, MaxFieldLength},
		{"fundingNeed", upd.FundingNeed, MaxFieldLength},
	} {
		if err := validateLength(f.name, f.v, f.max); err != nil {
			return err
		}
	}

	if err := validateURL("avatar", upd.Avatar); err != nil {
		return err
	}
	if err := validateWebsite("website", upd.Website); err != nil {
		return err
	}
	if err := validateLinkedIn("linkedin", upd.LinkedIn); err != nil {
		return err
	}

	if upd.Industries != nil {
		if len(*upd.Industries) > MaxIndustries {
			return invalid("industries", "must have at most %d entries", MaxIndustries)
		}
		for _, ind := range *upd.Industries {
			if utf8.RuneCountInString(ind) > MaxFieldLength {
				return invalid("industries", "entries must be at most %d characters", MaxFieldLength)
			}
		}
	}

	if upd.PortfolioSize != nil && *upd.PortfolioSize < 0 {
		return invalid("portfolioSize", "must not be negative")
	}

	return nil
}

// normalizeContent trims and bounds free text. required rejects empty text.
func normalizeContent(field, v string, max int, required bool) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" && required {
		return "", invalid(field, "is required")
	}
	if utf8.RuneCountInString(v) > max {
		return "", invalid(field, "must be at most %d characters", max)
	}
	return v, nil
}
