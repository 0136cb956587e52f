package draft

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/models"
)

// IsValidURL reports whether s parses as an absolute http or https URL.
func IsValidURL(s string) bool {
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// ValidateForm is the publish gate. It collects the first violation only:
// one error is surfaced per validation attempt, never a list.
func ValidateForm(f Fields, categorySelected bool, coverCount int) error {
	if strings.TrimSpace(f.Name) == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	if len([]rune(f.Name)) > models.MaxNameLength {
		return errs.NewInvalidFieldError("name",
			fmt.Sprintf("must be at most %d characters", models.MaxNameLength))
	}
	if strings.TrimSpace(f.WebsiteURL) == "" {
		return errs.NewMissingRequiredFieldError("website_url")
	}
	if !IsValidURL(f.WebsiteURL) {
		return errs.NewInvalidFieldError("website_url", "must be an absolute http(s) URL")
	}
	if strings.TrimSpace(f.Tagline) == "" {
		return errs.NewMissingRequiredFieldError("tagline")
	}
	if len([]rune(f.Tagline)) > models.MaxTaglineLength {
		return errs.NewInvalidFieldError("tagline",
			fmt.Sprintf("must be at most %d characters", models.MaxTaglineLength))
	}
	if strings.TrimSpace(f.Description) == "" {
		return errs.NewMissingRequiredFieldError("description")
	}
	if wordCount(f.Description) > models.MaxDescriptionWords {
		return errs.NewInvalidFieldError("description",
			fmt.Sprintf("must be at most %d words", models.MaxDescriptionWords))
	}
	if !categorySelected {
		return errs.NewMissingRequiredFieldError("category")
	}
	if coverCount < models.MinCoverImages {
		return errs.NewInvalidFieldError("cover_images",
			fmt.Sprintf("at least %d cover images are required", models.MinCoverImages))
	}
	return nil
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
