package draft

import (
	"strings"

	"github.com/launchit-app/launchit-backend/imaging"
)

// Fields is the in-memory form state for one editing session.
type Fields struct {
	Name        string
	Tagline     string
	Description string
	WebsiteURL  string
	Links       []string
	BuiltWith   []string
	Tags        []string

	Logo      imaging.ImageRef
	Thumbnail imaging.ImageRef
	Covers    []imaging.ImageRef
}

// Empty reports whether the form holds nothing worth saving: every content
// field blank and, per the caller, no category chosen. An empty form never
// autosaves and never triggers the draft-resume screen.
func (f Fields) Empty(categorySelected bool) bool {
	return strings.TrimSpace(f.Name) == "" &&
		strings.TrimSpace(f.Tagline) == "" &&
		strings.TrimSpace(f.Description) == "" &&
		strings.TrimSpace(f.WebsiteURL) == "" &&
		len(f.Links) == 0 &&
		len(f.Tags) == 0 &&
		len(f.BuiltWith) == 0 &&
		!categorySelected
}

// FilledCount returns how many of the counted primary slots hold a value.
// The smart-fill threshold compares against this number.
func (f Fields) FilledCount(categorySelected bool) int {
	count := 0
	for _, filled := range []bool{
		strings.TrimSpace(f.Name) != "",
		strings.TrimSpace(f.WebsiteURL) != "",
		strings.TrimSpace(f.Tagline) != "",
		strings.TrimSpace(f.Description) != "",
		categorySelected,
		len(f.Links) > 0,
		len(f.Tags) > 0,
		!f.Logo.IsZero(),
		!f.Thumbnail.IsZero(),
	} {
		if filled {
			count++
		}
	}
	return count
}
